package window

import (
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-moto/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and queues input events between waits.
// Wraps platform-specific window implementations with a common interface.
// All methods must be called from the goroutine that created the window.
type Window interface {
	// WaitUntil blocks until an event arrives or the deadline passes. A deadline in the
	// past polls pending events without blocking.
	//
	// Parameters:
	//   - deadline: the latest time to return at
	WaitUntil(deadline time.Time)

	// Events drains the events queued since the last call, oldest first.
	//
	// Returns:
	//   - []common.Event: the queued events
	Events() []common.Event

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and the pending event queue.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// maxWidth and maxHeight bound the window size during resize.
	maxWidth  int
	maxHeight int

	// minWidth and minHeight bound the window size during resize.
	minWidth  int
	minHeight int

	// width and height are the current framebuffer size in pixels.
	width  int
	height int

	resizable bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// pending holds events queued by platform callbacks until the next Events call.
	pending []common.Event
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order.
// The calling goroutine is locked to its OS thread.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
//   - error: error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "oxy-moto",
		maxWidth:  -1,
		maxHeight: -1,
		minWidth:  320,
		minHeight: 240,
		width:     1024,
		height:    768,
		resizable: true,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) WaitUntil(deadline time.Time) {
	platformWaitEvents(w, time.Until(deadline))
}

func (w *engineWindow) Events() []common.Event {
	out := w.pending
	w.pending = nil
	return out
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// pushKey queues a key transition. Escape presses are reported as a close request.
func (w *engineWindow) pushKey(key uint32, pressed, repeat bool) {
	if key == common.KeyEsc && pressed && !repeat {
		w.pushClose()
		return
	}
	w.pending = append(w.pending, common.Event{
		Kind:    common.EventKey,
		Key:     key,
		Pressed: pressed,
		Repeat:  repeat,
	})
}

// pushResize records the new framebuffer size and queues a resize event.
func (w *engineWindow) pushResize(width, height int) {
	w.width = width
	w.height = height
	w.pending = append(w.pending, common.Event{
		Kind:   common.EventResize,
		Width:  width,
		Height: height,
	})
}

func (w *engineWindow) pushClose() {
	w.pending = append(w.pending, common.Event{Kind: common.EventClose})
}
