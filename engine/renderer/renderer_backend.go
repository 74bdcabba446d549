package renderer

import (
	"fmt"
	"strings"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// String returns the config name of the present mode.
func (m PresentMode) String() string {
	switch m {
	case PresentModeVSync:
		return "vsync"
	case PresentModeUncapped:
		return "uncapped"
	default:
		return fmt.Sprintf("PresentMode(%d)", int(m))
	}
}

// ParsePresentMode maps a config name ("vsync" or "uncapped", case-insensitive) to a PresentMode.
//
// Parameters:
//   - name: the config name
//
// Returns:
//   - PresentMode: the parsed mode
//   - error: an error if the name is unknown
func ParsePresentMode(name string) (PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "vsync", "fifo":
		return PresentModeVSync, nil
	case "uncapped", "immediate":
		return PresentModeUncapped, nil
	default:
		return PresentModeVSync, fmt.Errorf("unknown present mode %q", name)
	}
}

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// Only specific power-of-two values are valid for GPU hardware. WebGPU guarantees support for
// 1 (off) and 4; higher values (8, 16) are adapter-dependent and may not be available.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA16x MSAASampleCount = 16
)

// ParseMSAA maps a sample count from config to an MSAASampleCount. Zero is treated as off.
//
// Parameters:
//   - samples: the configured sample count (0, 1, 4, 8 or 16)
//
// Returns:
//   - MSAASampleCount: the parsed sample count
//   - error: an error if the count is not a supported value
func ParseMSAA(samples int) (MSAASampleCount, error) {
	switch samples {
	case 0, 1:
		return MSAAOff, nil
	case 4:
		return MSAA4x, nil
	case 8:
		return MSAA8x, nil
	case 16:
		return MSAA16x, nil
	default:
		return MSAAOff, fmt.Errorf("unsupported MSAA sample count %d", samples)
	}
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
