package level

import (
	"fmt"
	"strings"
)

// Clip selects which depth layer a picture is visible over.
type Clip int

const (
	// ClipUnclipped pictures are drawn over both sky and ground.
	ClipUnclipped Clip = iota
	// ClipGround pictures are only visible over ground polygons.
	ClipGround
	// ClipSky pictures are only visible over the sky.
	ClipSky
)

// Bias returns the depth value written by pictures with this clip tag.
//
// Returns:
//   - float32: 0.5 for unclipped, 0.0 for ground, 1.0 for sky
func (c Clip) Bias() float32 {
	switch c {
	case ClipGround:
		return 0.0
	case ClipSky:
		return 1.0
	default:
		return 0.5
	}
}

func (c Clip) String() string {
	switch c {
	case ClipGround:
		return "ground"
	case ClipSky:
		return "sky"
	default:
		return "unclipped"
	}
}

// ParseClip parses a clip tag. An empty string is ClipUnclipped.
//
// Parameters:
//   - s: the clip name, case-insensitive
//
// Returns:
//   - Clip: the parsed clip tag
//   - error: an error if the name is unknown
func ParseClip(s string) (Clip, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unclipped", "none":
		return ClipUnclipped, nil
	case "ground":
		return ClipGround, nil
	case "sky":
		return ClipSky, nil
	}
	return ClipUnclipped, fmt.Errorf("unknown clip %q", s)
}

// ObjectKind identifies a gameplay object.
type ObjectKind int

const (
	ObjectPlayer ObjectKind = iota
	ObjectFood
	ObjectExit
	ObjectKiller
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectPlayer:
		return "player"
	case ObjectFood:
		return "food"
	case ObjectExit:
		return "exit"
	case ObjectKiller:
		return "killer"
	}
	return fmt.Sprintf("ObjectKind(%d)", int(k))
}

// ParseObjectKind parses an object kind name.
//
// Parameters:
//   - s: the kind name, case-insensitive
//
// Returns:
//   - ObjectKind: the parsed kind
//   - error: an error if the name is unknown
func ParseObjectKind(s string) (ObjectKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "player", "start":
		return ObjectPlayer, nil
	case "food", "apple":
		return ObjectFood, nil
	case "exit", "flower":
		return ObjectExit, nil
	case "killer":
		return ObjectKiller, nil
	}
	return 0, fmt.Errorf("unknown object kind %q", s)
}
