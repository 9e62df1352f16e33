// Package effect holds the animated backgrounds a theme can select. Each
// effect owns a frame loop on a host.Window and paints into the container it
// was given until Destroy.
package effect

import (
	"image/color"
	"time"

	"github.com/google/uuid"
	"github.com/iburimskiy/backdrop/internal/host"
	"go.uber.org/zap"
)

// Effect is a running background.
type Effect interface {
	Theme() string
	// SetVisible pauses the update and render body; the loop keeps running.
	SetVisible(visible bool)
	// Destroy stops the loop, clears the container and drops every
	// subscription. Calling it again is a no-op.
	Destroy()
}

// State is the lifecycle position of an effect.
type State int

const (
	Uninitialized State = iota
	Running
	Destroyed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

var (
	darkBackground  = color.RGBA{A: 0xff}
	lightBackground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Background is the page colour behind every effect.
func Background(dark bool) color.RGBA {
	if dark {
		return darkBackground
	}
	return lightBackground
}

// loop is the lifecycle shared by every effect: one pending frame request,
// a set of listener cancels and the visibility flag.
type loop struct {
	id    string
	theme string
	win   *host.Window
	log   *zap.Logger

	state   State
	visible bool
	frame   host.FrameID
	last    time.Time
	cancels []func()

	step func(now time.Time, dt time.Duration)
}

func newLoop(theme string, win *host.Window, log *zap.Logger) *loop {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()
	return &loop{
		id:      id,
		theme:   theme,
		win:     win,
		log:     log.With(zap.String("effect", theme), zap.String("effect_id", id)),
		visible: true,
	}
}

func (l *loop) listen(event host.Event, fn func()) {
	l.cancels = append(l.cancels, l.win.Listen(event, fn))
}

// start arms the first frame. The first delta is measured from here.
func (l *loop) start(step func(now time.Time, dt time.Duration)) {
	l.step = step
	l.last = l.win.Now()
	l.state = Running
	l.request()
	l.log.Info("effect started")
}

func (l *loop) request() {
	if l.state != Running {
		return
	}
	l.frame = l.win.RequestFrame(l.onFrame)
}

func (l *loop) onFrame(now time.Time) {
	if l.state != Running {
		return
	}
	defer l.request()
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("frame failed", zap.Any("panic", r))
		}
	}()

	dt := now.Sub(l.last)
	if dt < 0 {
		dt = 0
	}
	l.last = now
	if !l.visible {
		return
	}
	l.step(now, dt)
}

// stop reports whether this call performed the teardown.
func (l *loop) stop() bool {
	if l.state == Destroyed {
		return false
	}
	l.state = Destroyed
	l.win.CancelFrame(l.frame)
	for _, cancel := range l.cancels {
		cancel()
	}
	l.cancels = nil
	l.log.Info("effect destroyed")
	return true
}

func (l *loop) Theme() string { return l.theme }

// ID is the instance id used in logs.
func (l *loop) ID() string { return l.id }

func (l *loop) State() State { return l.state }

func (l *loop) SetVisible(visible bool) {
	if visible != l.visible {
		l.log.Debug("visibility changed", zap.Bool("visible", visible))
	}
	l.visible = visible
}

func (l *loop) Visible() bool { return l.visible }

