package engine

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-moto/common"
	"github.com/Carmen-Shannon/oxy-moto/engine/atlas"
	"github.com/Carmen-Shannon/oxy-moto/engine/camera"
	"github.com/Carmen-Shannon/oxy-moto/engine/composer"
	"github.com/Carmen-Shannon/oxy-moto/engine/level"
	"github.com/Carmen-Shannon/oxy-moto/engine/physics"
	"github.com/Carmen-Shannon/oxy-moto/engine/profiler"
	"github.com/Carmen-Shannon/oxy-moto/engine/scheduler"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	batches  [][]common.Event
	waits    int
	closes   int
	width    int
	height   int
	closeErr error
}

func (w *fakeWindow) WaitUntil(time.Time) { w.waits++ }
func (w *fakeWindow) Events() []common.Event {
	if len(w.batches) == 0 {
		return nil
	}
	b := w.batches[0]
	w.batches = w.batches[1:]
	return b
}
func (w *fakeWindow) Close() error {
	w.closes++
	return w.closeErr
}
func (w *fakeWindow) Width() int  { return w.width }
func (w *fakeWindow) Height() int { return w.height }

type fakeRenderer struct {
	calls     []string
	beginErr  error
	resized   [][2]int
	released  int
	vertices  int
	viewports []camera.Viewport
}

func (r *fakeRenderer) BeginFrame() error {
	r.calls = append(r.calls, "begin")
	return r.beginErr
}
func (r *fakeRenderer) SetViewport(vp camera.Viewport) {
	r.calls = append(r.calls, "viewport")
	r.viewports = append(r.viewports, vp)
}
func (r *fakeRenderer) DrawPolygons() { r.calls = append(r.calls, "polygons") }
func (r *fakeRenderer) DrawPictures(vertices []common.PictureVertex, _ []uint32) error {
	r.calls = append(r.calls, "pictures")
	r.vertices = len(vertices)
	return nil
}
func (r *fakeRenderer) EndFrame()                { r.calls = append(r.calls, "end") }
func (r *fakeRenderer) Present()                 { r.calls = append(r.calls, "present") }
func (r *fakeRenderer) Resize(width, height int) { r.resized = append(r.resized, [2]int{width, height}) }
func (r *fakeRenderer) Release() {
	r.calls = append(r.calls, "release")
	r.released++
}

type fakeTextures struct{}

func (fakeTextures) Get(name string) (atlas.Pic, error) {
	return atlas.Pic{Name: name, Size: mgl64.Vec2{20, 20}, Bounds: [4]float32{0, 0, 1, 1}}, nil
}

// stepClock advances by step on every call, so each wake lands past the 20ms redraw deadline.
func stepClock(step time.Duration) func() time.Time {
	now := time.Unix(1000, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func newTestEngine(t *testing.T, w *fakeWindow, r *fakeRenderer, options ...EngineBuilderOption) (Engine, *Simulation) {
	t.Helper()
	lvl := &level.Level{Name: "test", Sky: "sky", Ground: "ground"}
	c, err := composer.NewComposer(lvl, fakeTextures{})
	require.NoError(t, err)

	opts := append([]EngineBuilderOption{WithComposer(c), WithClock(stepClock(30 * time.Millisecond))}, options...)
	e := NewEngine(w, r, opts...)
	sim := &Simulation{Moto: physics.NewMoto(mgl64.Vec2{0, 5})}
	return e, sim
}

func key(code uint32, pressed, repeat bool) common.Event {
	return common.Event{Kind: common.EventKey, Key: code, Pressed: pressed, Repeat: repeat}
}

func TestRunRequiresComposer(t *testing.T) {
	e := NewEngine(&fakeWindow{width: 800, height: 600}, &fakeRenderer{})
	assert.ErrorIs(t, e.Run(&Simulation{Moto: physics.NewMoto(mgl64.Vec2{})}), ErrNoComposer)
}

func TestRunRequiresMoto(t *testing.T) {
	e, _ := newTestEngine(t, &fakeWindow{width: 800, height: 600}, &fakeRenderer{})
	assert.ErrorIs(t, e.Run(&Simulation{}), ErrNoSimulation)
}

func TestRunStopsOnClose(t *testing.T) {
	w := &fakeWindow{width: 800, height: 600, batches: [][]common.Event{
		nil,
		nil,
		{{Kind: common.EventClose}},
	}}
	r := &fakeRenderer{}
	e, sim := newTestEngine(t, w, r)

	require.NoError(t, e.Run(sim))

	assert.Equal(t, 3, w.waits)
	assert.Equal(t, 1, w.closes)
	assert.Equal(t, 1, r.released)
	assert.Equal(t, scheduler.StateClosed, e.Scheduler().State())
	assert.False(t, e.Step(sim))
	assert.Equal(t, 1, r.released)
	assert.IsType(t, physics.NopEvents{}, sim.Events)
}

func TestReleaseBeforeWindowClose(t *testing.T) {
	w := &fakeWindow{width: 800, height: 600, closeErr: errors.New("already closed")}
	r := &fakeRenderer{}
	e, sim := newTestEngine(t, w, r)

	e.Quit()
	assert.False(t, e.Step(sim))
	assert.Equal(t, "release", r.calls[len(r.calls)-1])
	assert.Equal(t, 1, w.closes)
}

func TestFrameOrder(t *testing.T) {
	w := &fakeWindow{width: 800, height: 600}
	r := &fakeRenderer{}
	e, sim := newTestEngine(t, w, r)

	require.True(t, e.Step(sim))

	assert.Equal(t, []string{"begin", "viewport", "polygons", "pictures", "end", "present"}, r.calls)
	// sky, ground, bike and two wheels
	assert.Equal(t, 5*4, r.vertices)
	require.Len(t, r.viewports, 1)
	assert.InDelta(t, 2*camera.DefaultHalfExtent, r.viewports[0].Size.Y(), 1e-9)
	assert.Equal(t, scheduler.StateIdle, e.Scheduler().State())
}

func TestBeginFrameErrorSkipsFrame(t *testing.T) {
	w := &fakeWindow{width: 800, height: 600}
	r := &fakeRenderer{beginErr: errors.New("surface lost")}
	e, sim := newTestEngine(t, w, r)

	require.True(t, e.Step(sim))
	assert.Equal(t, []string{"begin"}, r.calls)
	assert.True(t, e.Step(sim))
}

func TestNoRedrawBeforeDeadline(t *testing.T) {
	w := &fakeWindow{width: 800, height: 600}
	r := &fakeRenderer{}
	e, sim := newTestEngine(t, w, r, WithClock(stepClock(5*time.Millisecond)))

	require.True(t, e.Step(sim))
	require.Len(t, r.calls, 6)
	require.True(t, e.Step(sim))
	assert.Len(t, r.calls, 6)
}

func TestKeysDriveControl(t *testing.T) {
	w := &fakeWindow{width: 800, height: 600, batches: [][]common.Event{
		{key(common.KeyUp, true, false), key(common.KeyLeft, true, false)},
		{key(common.KeyUp, false, false), key(common.KeyDown, true, false), key(common.KeyRight, true, false)},
	}}
	e, sim := newTestEngine(t, w, &fakeRenderer{})

	require.True(t, e.Step(sim))
	assert.Equal(t, physics.Control{Throttle: true, RotateLeft: true}, sim.Control)

	require.True(t, e.Step(sim))
	assert.Equal(t, physics.Control{Brake: true, RotateLeft: true, RotateRight: true}, sim.Control)
}

func TestSpaceTurnsOncePerPress(t *testing.T) {
	w := &fakeWindow{width: 800, height: 600, batches: [][]common.Event{
		{key(common.KeySpace, true, false), key(common.KeySpace, true, true), key(common.KeySpace, false, false)},
	}}
	e, sim := newTestEngine(t, w, &fakeRenderer{})

	require.False(t, sim.Moto.Direction)
	require.True(t, e.Step(sim))
	assert.True(t, sim.Moto.Direction)
}

func TestPhysicsEventsReachSink(t *testing.T) {
	w := &fakeWindow{width: 800, height: 600, batches: [][]common.Event{
		{key(common.KeySpace, true, false)},
	}}
	e, sim := newTestEngine(t, w, &fakeRenderer{})
	var got []physics.Event
	sim.Events = physics.EventsFunc(func(ev physics.Event) { got = append(got, ev) })

	require.True(t, e.Step(sim))
	require.True(t, e.Step(sim))

	require.NotEmpty(t, got)
	assert.Equal(t, physics.EventTurn, got[0].Kind)
}

func TestResizeAppliedAfterRedraw(t *testing.T) {
	w := &fakeWindow{width: 800, height: 600, batches: [][]common.Event{
		{
			{Kind: common.EventResize, Width: 1024, Height: 512},
			{Kind: common.EventResize, Width: 0, Height: 0},
		},
	}}
	r := &fakeRenderer{}
	e, sim := newTestEngine(t, w, r)

	require.True(t, e.Step(sim))

	assert.Equal(t, [][2]int{{1024, 512}}, r.resized)
	width, height := e.Camera().Aspect()
	assert.Equal(t, 1024, width)
	assert.Equal(t, 512, height)
	// the frame of the same wake was still drawn with the old aspect
	assert.InDelta(t, 40.0, r.viewports[0].Size.X(), 1e-9)
}

func TestSimTimeFollowsClock(t *testing.T) {
	w := &fakeWindow{width: 800, height: 600}
	e, sim := newTestEngine(t, w, &fakeRenderer{})

	for range 4 {
		require.True(t, e.Step(sim))
	}
	// the scheduler started at the first clock read; four more reads 30ms apart follow
	assert.InDelta(t, scheduler.DefaultTimeScale*0.120, e.Scheduler().SimTime(), 1e-9)
	assert.LessOrEqual(t, sim.Moto.Time(), e.Scheduler().SimTime()+1e-9)
}

func TestProfilerLogsOnlyWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	p := profiler.NewProfiler(time.Unix(1000, 0),
		profiler.WithLogger(zerolog.New(&buf)),
		profiler.WithInterval(50*time.Millisecond),
	)
	e, sim := newTestEngine(t, &fakeWindow{width: 800, height: 600}, &fakeRenderer{}, WithProfiler(p))

	for i := 0; i < 4; i++ {
		require.True(t, e.Step(sim))
	}
	assert.Zero(t, buf.Len(), "profiling starts disabled")

	e.EnableProfiler()
	for i := 0; i < 4; i++ {
		require.True(t, e.Step(sim))
	}
	assert.Contains(t, buf.String(), `"message":"profiler"`)

	e.DisableProfiler()
	buf.Reset()
	for i := 0; i < 4; i++ {
		require.True(t, e.Step(sim))
	}
	assert.Zero(t, buf.Len())
}
