// Package config loads backdrop settings from YAML with environment
// overrides and watches the dark-mode switch file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iburimskiy/backdrop/internal/effect"
	"github.com/iburimskiy/backdrop/internal/halo"
	"github.com/iburimskiy/backdrop/internal/scroll"
	"github.com/iburimskiy/backdrop/internal/theme"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when --config is not given.
const DefaultPath = "backdrop.yaml"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// dark_mode values.
const (
	DarkAuto = "auto"
	DarkOn   = "dark"
	DarkOff  = "light"
)

// renderer values.
const (
	Surface  = "surface"
	Elements = "elements"
)

const (
	envTheme  = "BACKDROP_THEME"
	envDark   = "BACKDROP_DARK"
	envRender = "BACKDROP_RENDERER"
)

type Config struct {
	Window   WindowConfig `yaml:"window"`
	Theme    string       `yaml:"theme"`
	DarkMode string       `yaml:"dark_mode"`
	// DarkFile holds "dark" or "light"; edits toggle the running host.
	DarkFile string       `yaml:"dark_file"`
	Renderer string       `yaml:"renderer"`
	Trail    bool         `yaml:"trail"`
	Halos    HalosConfig  `yaml:"halos"`
	Scroll   ScrollConfig `yaml:"scroll"`
	Audio    AudioConfig  `yaml:"audio"`
	Log      LogConfig    `yaml:"log"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type HalosConfig struct {
	Min            int           `yaml:"min"`
	Max            int           `yaml:"max"`
	MinLife        time.Duration `yaml:"min_life"`
	MaxLife        time.Duration `yaml:"max_life"`
	BoundaryMargin float64       `yaml:"boundary_margin"`
	BaseSpeed      float64       `yaml:"base_speed"`
	Chaos          bool          `yaml:"chaos"`
}

type ScrollConfig struct {
	Gain   float64       `yaml:"gain"`
	Max    float64       `yaml:"max"`
	Decay  float64       `yaml:"decay"`
	Settle time.Duration `yaml:"settle"`
	// WheelStep is the scroll distance of one mouse wheel notch, in px.
	WheelStep float64 `yaml:"wheel_step"`
}

type AudioConfig struct {
	// Path is played on startup when set.
	Path string `yaml:"path"`
	// Gain converts loudness into scrolled pixels per frame.
	Gain float64 `yaml:"gain"`
	// Smoothing is the weight of the previous loudness reading.
	Smoothing float64 `yaml:"smoothing"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the stock configuration.
func Default() *Config {
	hp := halo.DefaultParams()
	sp := scroll.DefaultParams()
	return &Config{
		Window: WindowConfig{
			Width:  1024,
			Height: 640,
			Title:  "backdrop",
		},
		Theme:    theme.Halos.String(),
		DarkMode: DarkAuto,
		Renderer: Surface,
		Halos: HalosConfig{
			Min:            hp.MinHalos,
			Max:            hp.MaxHalos,
			MinLife:        hp.MinLife,
			MaxLife:        hp.MaxLife,
			BoundaryMargin: hp.BoundaryMargin,
			BaseSpeed:      hp.BaseSpeed,
			Chaos:          hp.Chaos,
		},
		Scroll: ScrollConfig{
			Gain:      sp.Gain,
			Max:       sp.Max,
			Decay:     sp.Decay,
			Settle:    sp.Settle,
			WheelStep: 120,
		},
		Audio: AudioConfig{
			Gain:      60,
			Smoothing: 0.6,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(envTheme); v != "" {
		c.Theme = v
	}
	if v := os.Getenv(envDark); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.DarkMode = DarkOff
			if b {
				c.DarkMode = DarkOn
			}
		} else {
			c.DarkMode = strings.ToLower(v)
		}
	}
	if v := os.Getenv(envRender); v != "" {
		c.Renderer = strings.ToLower(v)
	}
}

// Validate checks every field against its allowed range.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if _, err := theme.Parse(c.Theme); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch c.DarkMode {
	case DarkAuto, DarkOn, DarkOff:
	default:
		return fmt.Errorf("%w: dark_mode %q", ErrInvalid, c.DarkMode)
	}
	switch c.Renderer {
	case Surface, Elements:
	default:
		return fmt.Errorf("%w: renderer %q", ErrInvalid, c.Renderer)
	}
	if err := c.HaloParams().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Scroll.Decay <= 0 || c.Scroll.Decay >= 1 {
		return fmt.Errorf("%w: scroll decay %v must be in (0, 1)", ErrInvalid, c.Scroll.Decay)
	}
	if c.Scroll.Max <= 0 || c.Scroll.Gain < 0 || c.Scroll.Settle < 0 {
		return fmt.Errorf("%w: scroll gain %v max %v settle %s", ErrInvalid, c.Scroll.Gain, c.Scroll.Max, c.Scroll.Settle)
	}
	if c.Audio.Smoothing < 0 || c.Audio.Smoothing >= 1 {
		return fmt.Errorf("%w: audio smoothing %v must be in [0, 1)", ErrInvalid, c.Audio.Smoothing)
	}
	return nil
}

// ThemeName returns the validated theme.
func (c *Config) ThemeName() theme.Theme {
	t, err := theme.Parse(c.Theme)
	if err != nil {
		return theme.Halos
	}
	return t
}

// HaloParams maps the halos section onto the simulation tunables.
func (c *Config) HaloParams() halo.Params {
	p := halo.DefaultParams()
	p.MinHalos = c.Halos.Min
	p.MaxHalos = c.Halos.Max
	p.MinLife = c.Halos.MinLife
	p.MaxLife = c.Halos.MaxLife
	p.BoundaryMargin = c.Halos.BoundaryMargin
	p.BaseSpeed = c.Halos.BaseSpeed
	p.Chaos = c.Halos.Chaos
	return p
}

// ScrollParams maps the scroll section onto the tracker tunables.
func (c *Config) ScrollParams() scroll.Params {
	return scroll.Params{
		Gain:   c.Scroll.Gain,
		Max:    c.Scroll.Max,
		Decay:  c.Scroll.Decay,
		Settle: c.Scroll.Settle,
	}
}

// Dark resolves the starting dark flag. The dark file wins when it holds a
// valid value; auto falls back to the system preference.
func (c *Config) Dark() bool {
	if c.DarkFile != "" {
		if dark, ok, _ := ReadDark(c.DarkFile); ok {
			return dark
		}
	}
	switch c.DarkMode {
	case DarkOn:
		return true
	case DarkOff:
		return false
	default:
		return SystemPrefersDark(os.Getenv)
	}
}

// SystemPrefersDark reads the desktop colour scheme from the environment:
// a GTK theme variant ending in ":dark", or a terminal COLORFGBG whose
// background index is below 8.
func SystemPrefersDark(getenv func(string) string) bool {
	if strings.HasSuffix(strings.ToLower(getenv("GTK_THEME")), ":dark") {
		return true
	}
	if v := getenv("COLORFGBG"); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			return bg < 8
		}
	}
	return false
}

// Effects builds the per-theme effect options.
func (c *Config) Effects() theme.Options {
	sp := c.ScrollParams()
	return theme.Options{
		Halos: effect.HalosOptions{
			Params:   c.HaloParams(),
			Scroll:   sp,
			Renderer: effect.Renderer(c.Renderer),
			Trail:    c.Trail,
		},
		Fog:      effect.FogOptions{Scroll: sp},
		Topology: effect.TopologyOptions{Scroll: sp},
	}
}
