// Package host models the environment an effect lives in: a viewport, a
// scroll offset, a dark-mode flag, listeners for their changes and a
// per-frame callback scheduler. Window hosts (ebiten, tcell, offline
// snapshots) drive it; effects only ever see this package.
//
// A Window is not safe for concurrent use. Everything runs on the frame
// thread; producers on other goroutines hand their values to the host loop,
// which applies them between ticks.
package host

import (
	"time"

	"github.com/iburimskiy/backdrop/internal/clock"
	"go.uber.org/zap"
)

// Event names a signal effects can subscribe to.
type Event int

const (
	Resize Event = iota
	Scroll
	ThemeChange
)

func (e Event) String() string {
	switch e {
	case Resize:
		return "resize"
	case Scroll:
		return "scroll"
	case ThemeChange:
		return "theme"
	default:
		return "unknown"
	}
}

// FrameID identifies a pending frame callback.
type FrameID uint64

type listener struct {
	event Event
	fn    func()
}

type frameRequest struct {
	id FrameID
	fn func(now time.Time)
}

// Window is the host state and event hub shared by the active effect.
type Window struct {
	clock clock.Clock
	log   *zap.Logger

	width, height float64
	scrollY       float64
	dark          bool

	listeners    map[uint64]listener
	nextListener uint64

	frames    []frameRequest
	batch     []frameRequest
	nextFrame FrameID
}

// NewWindow creates a window of w x h pixels.
func NewWindow(clk clock.Clock, log *zap.Logger, w, h float64, dark bool) *Window {
	if log == nil {
		log = zap.NewNop()
	}
	return &Window{
		clock:     clk,
		log:       log,
		width:     w,
		height:    h,
		dark:      dark,
		listeners: make(map[uint64]listener),
	}
}

func (w *Window) Now() time.Time { return w.clock.Now() }

// Viewport returns the current inner size in pixels.
func (w *Window) Viewport() (float64, float64) { return w.width, w.height }

// ScrollY returns the vertical document offset.
func (w *Window) ScrollY() float64 { return w.scrollY }

// Dark reports whether the dark class is set.
func (w *Window) Dark() bool { return w.dark }

// Listen registers fn for event. The returned cancel is idempotent.
func (w *Window) Listen(event Event, fn func()) (cancel func()) {
	id := w.nextListener
	w.nextListener++
	w.listeners[id] = listener{event: event, fn: fn}
	return func() {
		delete(w.listeners, id)
	}
}

// ListenerCount is the number of live subscriptions.
func (w *Window) ListenerCount() int {
	return len(w.listeners)
}

// SetViewport resizes the window and notifies Resize listeners on change.
func (w *Window) SetViewport(width, height float64) {
	if width == w.width && height == w.height {
		return
	}
	w.width, w.height = width, height
	w.emit(Resize)
}

// SetScrollY moves the document and notifies Scroll listeners on change.
func (w *Window) SetScrollY(y float64) {
	if y < 0 {
		y = 0
	}
	if y == w.scrollY {
		return
	}
	w.scrollY = y
	w.emit(Scroll)
}

// ScrollBy moves the document by dy.
func (w *Window) ScrollBy(dy float64) {
	w.SetScrollY(w.scrollY + dy)
}

// SetDark toggles the dark class and notifies ThemeChange listeners on change.
func (w *Window) SetDark(dark bool) {
	if dark == w.dark {
		return
	}
	w.dark = dark
	w.emit(ThemeChange)
}

func (w *Window) emit(event Event) {
	for id, l := range w.listeners {
		if l.event != event {
			continue
		}
		w.call(event, id, l.fn)
	}
}

func (w *Window) call(event Event, id uint64, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("listener panicked",
				zap.Stringer("event", event),
				zap.Uint64("listener", id),
				zap.Any("panic", r))
		}
	}()
	fn()
}

// RequestFrame schedules fn for the next Tick.
func (w *Window) RequestFrame(fn func(now time.Time)) FrameID {
	w.nextFrame++
	id := w.nextFrame
	w.frames = append(w.frames, frameRequest{id: id, fn: fn})
	return id
}

// CancelFrame drops a pending callback, including one queued in the batch
// currently being ticked. Unknown ids are ignored.
func (w *Window) CancelFrame(id FrameID) {
	for i, f := range w.frames {
		if f.id == id {
			w.frames = append(w.frames[:i], w.frames[i+1:]...)
			return
		}
	}
	for i := range w.batch {
		if w.batch[i].id == id {
			w.batch[i].fn = nil
			return
		}
	}
}

// PendingFrames is the number of callbacks waiting for the next Tick.
func (w *Window) PendingFrames() int {
	return len(w.frames)
}

// Tick runs every callback requested before this call. Callbacks requested
// while ticking run on the next Tick.
func (w *Window) Tick() {
	if len(w.frames) == 0 {
		return
	}
	now := w.clock.Now()
	w.batch = w.frames
	w.frames = nil
	for i := range w.batch {
		if f := w.batch[i]; f.fn != nil {
			w.runFrame(f, now)
		}
	}
	w.batch = nil
}

func (w *Window) runFrame(f frameRequest, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("frame callback panicked", zap.Uint64("frame", uint64(f.id)), zap.Any("panic", r))
		}
	}()
	f.fn(now)
}
