package common

// EventKind identifies what a window Event carries.
type EventKind int

const (
	// EventKey is a key press, repeat or release.
	EventKey EventKind = iota

	// EventResize reports a new framebuffer size in pixels.
	EventResize

	// EventClose is a request from the host to close the window.
	EventClose
)

// Event is a single input or window event queued by the window during a wait
// and drained by the engine after the physics step of the same wake cycle.
type Event struct {
	Kind EventKind

	// Key is the virtual key code for EventKey.
	Key uint32
	// Pressed is true for press and repeat, false for release.
	Pressed bool
	// Repeat is true when the press was generated by key auto-repeat.
	Repeat bool

	// Width and Height are the framebuffer size for EventResize.
	Width, Height int
}
