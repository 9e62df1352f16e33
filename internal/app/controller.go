// Package app is the host-independent half of a backdrop window: it owns
// the theme registry and turns user actions, wheel notches, audio loudness
// and dark-file edits into host.Window signals.
package app

import (
	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/iburimskiy/backdrop/internal/host"
	"github.com/iburimskiy/backdrop/internal/pulse"
	"github.com/iburimskiy/backdrop/internal/render"
	"github.com/iburimskiy/backdrop/internal/theme"
	"go.uber.org/zap"
)

// levelWindow is how many audio frames a loudness reading covers.
const levelWindow = 2048

// quietLevel is the loudness below which audio does not scroll.
const quietLevel = 0.02

// Action is a user command shared by every host.
type Action int

const (
	CycleTheme Action = iota
	ToggleDark
	ToggleVisible
	PauseAudio
	Quit
)

// Audio is the playback the controller drives; pulse.Player implements it.
type Audio interface {
	Play(path string) error
	TogglePause() bool
	Level(n int) float64
	Status() string
	Stop()
}

// Controller wires a window, a container and the registry together. It runs
// on the host's frame thread.
type Controller struct {
	cfg       *config.Config
	log       *zap.Logger
	win       *host.Window
	container render.Container
	registry  *theme.Registry
	audio     Audio
	meter     pulse.Meter

	visible bool
	lastErr error
}

// New builds a controller; audio may be nil.
func New(cfg *config.Config, win *host.Window, container render.Container, audio Audio, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		cfg:       cfg,
		log:       log,
		win:       win,
		container: container,
		registry:  theme.NewRegistry(win, theme.Factories(cfg.Effects()), log),
		audio:     audio,
		meter:     pulse.Meter{Smoothing: cfg.Audio.Smoothing},
		visible:   true,
	}
}

// Start runs the configured theme and, when set, the configured track.
func (c *Controller) Start() {
	c.SetTheme(c.cfg.ThemeName())
	if c.cfg.Audio.Path != "" {
		c.Play(c.cfg.Audio.Path)
	}
}

// SetTheme swaps the running effect.
func (c *Controller) SetTheme(t theme.Theme) {
	c.registry.Init(c.container, t)
	c.registry.SetVisible(c.visible)
}

// Theme is the running theme, or "" when none runs.
func (c *Controller) Theme() theme.Theme {
	_, t, _ := c.registry.Current()
	return t
}

// Play starts a track; failures are kept for the status line.
func (c *Controller) Play(path string) {
	if c.audio == nil {
		return
	}
	if err := c.audio.Play(path); err != nil {
		c.log.Error("audio failed", zap.String("path", path), zap.Error(err))
		c.lastErr = err
		return
	}
	c.lastErr = nil
	c.meter.Reset()
}

// Do applies an action and reports whether the host should quit.
func (c *Controller) Do(a Action) (quit bool) {
	switch a {
	case CycleTheme:
		t := c.registry.Next(c.container)
		c.registry.SetVisible(c.visible)
		c.log.Debug("theme cycled", zap.Stringer("theme", t))
	case ToggleDark:
		c.win.SetDark(!c.win.Dark())
	case ToggleVisible:
		c.visible = !c.visible
		c.registry.SetVisible(c.visible)
		if !c.visible && c.container.Surface != nil {
			c.container.Surface.Clear()
		}
	case PauseAudio:
		if c.audio != nil {
			c.audio.TogglePause()
		}
	case Quit:
		return true
	}
	return false
}

// Wheel scrolls by notches; positive notches scroll up, like the mouse wheel.
func (c *Controller) Wheel(notches float64) {
	c.win.ScrollBy(-notches * c.cfg.Scroll.WheelStep)
}

// Resize forwards a new viewport size.
func (c *Controller) Resize(w, h int) {
	c.win.SetViewport(float64(w), float64(h))
}

// DrainDark applies the latest pending dark-file value, if any.
func (c *Controller) DrainDark(changes <-chan bool) {
	if changes == nil {
		return
	}
	select {
	case dark := <-changes:
		c.win.SetDark(dark)
	default:
	}
}

// Frame feeds audio loudness in as scrolling and runs the frame callbacks.
func (c *Controller) Frame() {
	if c.audio != nil {
		level := c.meter.Update(c.audio.Level(levelWindow))
		if level > quietLevel {
			c.win.ScrollBy(level * c.cfg.Audio.Gain)
		}
	}
	c.win.Tick()
}

// Visible reports whether the background is shown.
func (c *Controller) Visible() bool { return c.visible }

// Level is the smoothed audio loudness in [0, 1].
func (c *Controller) Level() float64 { return c.meter.Value() }

// Dark reports the window's dark flag.
func (c *Controller) Dark() bool { return c.win.Dark() }

// Status is a one-line summary for the host's overlay.
func (c *Controller) Status() string {
	s := "theme: " + string(c.Theme())
	if s == "theme: " {
		s += "none"
	}
	if c.win.Dark() {
		s += " | dark"
	} else {
		s += " | light"
	}
	if !c.visible {
		s += " | hidden"
	}
	if c.audio != nil {
		if a := c.audio.Status(); a != "" {
			s += " | " + a
		}
	}
	if c.lastErr != nil {
		s += " | error: " + c.lastErr.Error()
	}
	return s
}

// Close stops the effect and the audio.
func (c *Controller) Close() {
	c.registry.Destroy()
	if c.audio != nil {
		c.audio.Stop()
	}
}
