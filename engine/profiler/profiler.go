package profiler

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Profiler tracks redraw rate, wake rate and memory statistics.
// Outputs stats to the logger at a configurable interval.
type Profiler struct {
	logger         zerolog.Logger
	frameCount     int
	wakeCount      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithLogger sets the logger stats are written to.
func WithLogger(logger zerolog.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.logger = logger
	}
}

// WithInterval sets how often stats are logged. Non-positive values are ignored.
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// NewProfiler creates a new Profiler starting its first interval at start.
// Update interval defaults to 1 second.
//
// Parameters:
//   - start: the beginning of the first measuring interval
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(start time.Time, options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		logger:         zerolog.Nop(),
		lastTime:       start,
		updateInterval: time.Second,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Wake counts one wake of the main loop.
func (p *Profiler) Wake() {
	p.wakeCount++
}

// Tick should be called once per redraw.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, wakes per second, heap usage, allocation rate, GC count/pause times, total memory.
//
// Parameters:
//   - now: the time of the redraw
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(now time.Time) bool {
	p.frameCount++
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	wakes := float64(p.wakeCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger.Info().
		Float64("fps", fps).
		Float64("wakesPerSec", wakes).
		Float64("heapMB", float64(p.memStats.Alloc)/1024/1024).
		Float64("allocRateMB", allocRateMB).
		Uint32("gc", gcCount).
		Uint64("gcLastUs", lastPauseUs).
		Uint64("gcMaxUs", maxPauseUs).
		Float64("sysMB", float64(p.memStats.Sys)/1024/1024).
		Msg("profiler")

	p.frameCount = 0
	p.wakeCount = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
