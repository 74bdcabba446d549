// Command oxymoto opens a window on a level and runs the moto simulation in it.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-moto/config"
	"github.com/Carmen-Shannon/oxy-moto/engine"
	"github.com/Carmen-Shannon/oxy-moto/engine/atlas"
	"github.com/Carmen-Shannon/oxy-moto/engine/camera"
	"github.com/Carmen-Shannon/oxy-moto/engine/composer"
	"github.com/Carmen-Shannon/oxy-moto/engine/level"
	"github.com/Carmen-Shannon/oxy-moto/engine/mesh"
	"github.com/Carmen-Shannon/oxy-moto/engine/physics"
	"github.com/Carmen-Shannon/oxy-moto/engine/renderer"
	"github.com/Carmen-Shannon/oxy-moto/engine/scene"
	"github.com/Carmen-Shannon/oxy-moto/engine/scheduler"
	"github.com/Carmen-Shannon/oxy-moto/engine/window"
	"github.com/Carmen-Shannon/oxy-moto/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func init() {
	// glfw and the surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	settings, err := config.Load(".", os.Args[1:]...)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.New(settings.LogLevel, settings.LogPretty)
	if settings.ConfigFile != "" {
		logger.Info().Str("file", settings.ConfigFile).Msg("loaded config")
	}

	if err := run(settings, logger); err != nil {
		logger.Fatal().Err(err).Msg("oxymoto stopped")
	}
}

func run(s config.Settings, logger zerolog.Logger) error {
	lvl, err := level.Load(s.Level.Path)
	if err != nil {
		return err
	}
	start, err := lvl.Player()
	if err != nil {
		return err
	}
	logger.Info().
		Str("level", lvl.Name).
		Int("polygons", len(lvl.Polygons)).
		Int("objects", len(lvl.Objects)).
		Int("pictures", len(lvl.Pictures)).
		Msg("loaded level")

	pics, err := atlas.Load(s.Atlas.Dir,
		atlas.WithLogger(logger),
		atlas.WithWorkers(s.Atlas.Workers),
	)
	if err != nil {
		return err
	}

	solid := lvl.Solid()
	vertices, indices, err := mesh.Triangulate(solid)
	if err != nil {
		return err
	}

	presentMode, err := renderer.ParsePresentMode(s.Render.PresentMode)
	if err != nil {
		return err
	}
	msaa, err := renderer.ParseMSAA(s.Render.MSAA)
	if err != nil {
		return err
	}

	w, err := window.NewWindow(
		window.WithTitle(s.Window.Title),
		window.WithWidth(s.Window.Width),
		window.WithHeight(s.Window.Height),
	)
	if err != nil {
		return err
	}

	r, err := renderer.NewRenderer(w,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(s.Render.Software),
	)
	if err != nil {
		_ = w.Close()
		return err
	}
	if err := r.UploadAtlas(pics.Staging()); err != nil {
		r.Release()
		_ = w.Close()
		return err
	}
	if err := r.UploadPolygons(vertices, indices); err != nil {
		r.Release()
		_ = w.Close()
		return err
	}

	comp, err := composer.NewComposer(lvl, pics,
		composer.WithLogger(logger),
		composer.WithScene(scene.NewScene(
			scene.WithName(lvl.Name),
			scene.WithPixelsPerUnit(s.View.PixelsPerUnit),
		)),
		composer.WithSprites(composer.Sprites{
			Bike:   s.Sprites.Bike,
			Wheel:  s.Sprites.Wheel,
			Food:   s.Sprites.Food,
			Exit:   s.Sprites.Exit,
			Killer: s.Sprites.Killer,
		}),
		composer.WithExtension(s.Atlas.Extension),
		composer.WithSkyParallax(s.View.SkyParallax()),
		composer.WithGroundParallax(s.View.GroundParallax()),
	)
	if err != nil {
		r.Release()
		_ = w.Close()
		return err
	}

	e := engine.NewEngine(w, r,
		engine.WithLogger(logger),
		engine.WithComposer(comp),
		engine.WithCamera(camera.NewCamera(
			camera.WithHalfExtent(s.View.HalfExtent),
			camera.WithAspect(w.Width(), w.Height()),
		)),
		engine.WithScheduler(scheduler.NewScheduler(time.Now(),
			scheduler.WithTickInterval(s.Sim.TickInterval),
			scheduler.WithTimeScale(s.Sim.TimeScale),
		)),
		engine.WithProfiling(s.Render.Profiling),
	)

	sim := &engine.Simulation{
		Moto:     physics.NewMoto(start),
		Segments: physics.NewSegments(solid),
		Events: physics.EventsFunc(func(ev physics.Event) {
			logger.Debug().
				Stringer("kind", ev.Kind).
				Int("wheel", ev.Wheel).
				Float64("time", ev.Time).
				Msg("physics event")
		}),
	}
	return e.Run(sim)
}
