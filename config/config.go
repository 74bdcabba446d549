// Package config loads runtime settings from defaults, an optional oxymoto.cfg.json and command line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-moto/engine/camera"
	"github.com/Carmen-Shannon/oxy-moto/engine/scene"
	"github.com/Carmen-Shannon/oxy-moto/engine/scheduler"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "oxymoto.cfg.json"

// LevelConfig locates the level file.
type LevelConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// AtlasConfig locates the picture directory.
type AtlasConfig struct {
	Dir       string `json:"dir" mapstructure:"dir"`
	Extension string `json:"extension" mapstructure:"extension"`
	Workers   int    `json:"workers" mapstructure:"workers"`
}

// SpritesConfig names the atlas images of the moto and the level objects.
type SpritesConfig struct {
	Bike   string `json:"bike" mapstructure:"bike"`
	Wheel  string `json:"wheel" mapstructure:"wheel"`
	Food   string `json:"food" mapstructure:"food"`
	Exit   string `json:"exit" mapstructure:"exit"`
	Killer string `json:"killer" mapstructure:"killer"`
}

// WindowConfig holds the initial window settings.
type WindowConfig struct {
	Title  string `json:"title" mapstructure:"title"`
	Width  int    `json:"width" mapstructure:"width"`
	Height int    `json:"height" mapstructure:"height"`
}

// RenderConfig holds renderer settings.
type RenderConfig struct {
	PresentMode string `json:"presentMode" mapstructure:"presentMode"`
	MSAA        int    `json:"msaa" mapstructure:"msaa"`
	Profiling   bool   `json:"profiling" mapstructure:"profiling"`
	Software    bool   `json:"software" mapstructure:"software"`
}

// SimConfig holds the scheduler clock settings.
type SimConfig struct {
	TickInterval time.Duration `json:"tickInterval" mapstructure:"tickInterval"`
	TimeScale    float64       `json:"timeScale" mapstructure:"timeScale"`
}

// ViewConfig holds camera and background layer settings.
type ViewConfig struct {
	HalfExtent      float64 `json:"halfExtent" mapstructure:"halfExtent"`
	PixelsPerUnit   float64 `json:"pixelsPerUnit" mapstructure:"pixelsPerUnit"`
	SkyParallaxX    float64 `json:"skyParallaxX" mapstructure:"skyParallaxX"`
	SkyParallaxY    float64 `json:"skyParallaxY" mapstructure:"skyParallaxY"`
	GroundParallaxX float64 `json:"groundParallaxX" mapstructure:"groundParallaxX"`
	GroundParallaxY float64 `json:"groundParallaxY" mapstructure:"groundParallaxY"`
}

// SkyParallax returns the sky layer parallax factors.
func (v ViewConfig) SkyParallax() mgl64.Vec2 {
	return mgl64.Vec2{v.SkyParallaxX, v.SkyParallaxY}
}

// GroundParallax returns the ground layer parallax factors.
func (v ViewConfig) GroundParallax() mgl64.Vec2 {
	return mgl64.Vec2{v.GroundParallaxX, v.GroundParallaxY}
}

// Settings is the complete runtime configuration.
type Settings struct {
	LogLevel  string        `json:"logLevel" mapstructure:"logLevel"`
	LogPretty bool          `json:"logPretty" mapstructure:"logPretty"`
	Level     LevelConfig   `json:"level" mapstructure:"level"`
	Atlas     AtlasConfig   `json:"atlas" mapstructure:"atlas"`
	Sprites   SpritesConfig `json:"sprites" mapstructure:"sprites"`
	Window    WindowConfig  `json:"window" mapstructure:"window"`
	Render    RenderConfig  `json:"render" mapstructure:"render"`
	Sim       SimConfig     `json:"sim" mapstructure:"sim"`
	View      ViewConfig    `json:"view" mapstructure:"view"`

	// ConfigFile is the file the settings were read from, empty when only defaults and flags applied.
	ConfigFile string `json:"-" mapstructure:"-"`
}

// flagKeys maps command line flags to their config keys.
var flagKeys = map[string]string{
	"log-level":    "logLevel",
	"log-pretty":   "logPretty",
	"level":        "level.path",
	"atlas":        "atlas.dir",
	"present-mode": "render.presentMode",
	"msaa":         "render.msaa",
	"profile":      "render.profiling",
	"software":     "render.software",
	"width":        "window.width",
	"height":       "window.height",
	"half-extent":  "view.halfExtent",
	"time-scale":   "sim.timeScale",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logPretty", true)

	v.SetDefault("level.path", "./assets/levels/demo.json")

	v.SetDefault("atlas.dir", "./assets/pictures")
	v.SetDefault("atlas.extension", ".png")
	v.SetDefault("atlas.workers", 4)

	v.SetDefault("sprites.bike", "q1bike")
	v.SetDefault("sprites.wheel", "q1wheel")
	v.SetDefault("sprites.food", "qfood1")
	v.SetDefault("sprites.exit", "qexit")
	v.SetDefault("sprites.killer", "qkiller")

	v.SetDefault("window.title", "oxy-moto")
	v.SetDefault("window.width", 1024)
	v.SetDefault("window.height", 768)

	v.SetDefault("render.presentMode", "vsync")
	v.SetDefault("render.msaa", 4)
	v.SetDefault("render.profiling", false)
	v.SetDefault("render.software", false)

	v.SetDefault("sim.tickInterval", scheduler.DefaultTickInterval.String())
	v.SetDefault("sim.timeScale", scheduler.DefaultTimeScale)

	v.SetDefault("view.halfExtent", camera.DefaultHalfExtent)
	v.SetDefault("view.pixelsPerUnit", scene.DefaultPixelsPerUnit)
	v.SetDefault("view.skyParallaxX", camera.DefaultSkyParallax.X())
	v.SetDefault("view.skyParallaxY", camera.DefaultSkyParallax.Y())
	v.SetDefault("view.groundParallaxX", camera.DefaultGroundParallax.X())
	v.SetDefault("view.groundParallaxY", camera.DefaultGroundParallax.Y())
}

// NewFlagSet declares the command line flags Load understands.
//
// Returns:
//   - *pflag.FlagSet: the flag set, not yet parsed
func NewFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("oxymoto", pflag.ContinueOnError)
	fs.String("config", ".", "directory containing "+FileName)
	fs.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	fs.Bool("log-pretty", true, "human readable console logs instead of JSON")
	fs.String("level", "", "level file (.json or .yaml)")
	fs.String("atlas", "", "directory of picture images")
	fs.String("present-mode", "vsync", "present mode (vsync or uncapped)")
	fs.Int("msaa", 4, "MSAA sample count (1, 4, 8 or 16)")
	fs.Bool("profile", false, "log frame and memory statistics")
	fs.Bool("software", false, "force the software fallback adapter")
	fs.Int("width", 1024, "initial window width")
	fs.Int("height", 768, "initial window height")
	fs.Float64("half-extent", camera.DefaultHalfExtent, "vertical half extent of the view in world units")
	fs.Float64("time-scale", scheduler.DefaultTimeScale, "simulation seconds per wall-clock second")
	return fs
}

// Load builds Settings from defaults, then dir/oxymoto.cfg.json if present, then args.
// A --config flag in args replaces dir. A missing config file is not an error.
//
// Parameters:
//   - dir: the directory searched for the config file
//   - args: command line arguments without the program name
//
// Returns:
//   - Settings: the merged settings
//   - error: an error if flags fail to parse, the file is malformed or a value is invalid
func Load(dir string, args ...string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	fs := NewFlagSet()
	if err := fs.Parse(args); err != nil {
		return Settings{}, fmt.Errorf("error parsing flags: %w", err)
	}
	if f := fs.Lookup("config"); f != nil && f.Changed {
		dir = f.Value.String()
	}
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return Settings{}, fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}

	v.SetConfigName(FileName)
	v.AddConfigPath(dir)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	s.ConfigFile = v.ConfigFileUsed()

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects settings the engine cannot run with.
//
// Returns:
//   - error: the first invalid value found, or nil
func (s Settings) Validate() error {
	switch {
	case s.Level.Path == "":
		return errors.New("config: level.path is empty")
	case s.Window.Width <= 0 || s.Window.Height <= 0:
		return fmt.Errorf("config: window size %dx%d is not positive", s.Window.Width, s.Window.Height)
	case s.Sim.TickInterval <= 0:
		return fmt.Errorf("config: sim.tickInterval %s is not positive", s.Sim.TickInterval)
	case s.Sim.TimeScale <= 0:
		return fmt.Errorf("config: sim.timeScale %g is not positive", s.Sim.TimeScale)
	case s.View.HalfExtent <= 0:
		return fmt.Errorf("config: view.halfExtent %g is not positive", s.View.HalfExtent)
	case s.View.PixelsPerUnit <= 0:
		return fmt.Errorf("config: view.pixelsPerUnit %g is not positive", s.View.PixelsPerUnit)
	}
	return nil
}
