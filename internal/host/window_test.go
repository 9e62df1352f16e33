package host

import (
	"testing"
	"time"

	"github.com/iburimskiy/backdrop/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestWindow() (*Window, *clock.Mock) {
	clk := clock.NewMock(time.Unix(50, 0))
	return NewWindow(clk, zap.NewNop(), 1000, 800, false), clk
}

func TestListenAndCancel(t *testing.T) {
	w, _ := newTestWindow()

	var resizes, scrolls, themes int
	cancelResize := w.Listen(Resize, func() { resizes++ })
	w.Listen(Scroll, func() { scrolls++ })
	w.Listen(ThemeChange, func() { themes++ })
	require.Equal(t, 3, w.ListenerCount())

	w.SetViewport(1200, 800)
	w.SetViewport(1200, 800)
	w.ScrollBy(40)
	w.SetDark(true)
	w.SetDark(true)

	assert.Equal(t, 1, resizes)
	assert.Equal(t, 1, scrolls)
	assert.Equal(t, 1, themes)

	cancelResize()
	cancelResize()
	assert.Equal(t, 2, w.ListenerCount())

	w.SetViewport(640, 480)
	assert.Equal(t, 1, resizes)
}

func TestScrollNeverNegative(t *testing.T) {
	w, _ := newTestWindow()
	w.ScrollBy(-100)
	assert.Zero(t, w.ScrollY())
	w.ScrollBy(250)
	assert.Equal(t, 250.0, w.ScrollY())
}

func TestListenerPanicIsContained(t *testing.T) {
	w, _ := newTestWindow()
	w.Listen(Resize, func() { panic("boom") })

	assert.NotPanics(t, func() { w.SetViewport(10, 10) })
	w0, h0 := w.Viewport()
	assert.Equal(t, 10.0, w0)
	assert.Equal(t, 10.0, h0)
}

func TestFramesRunOncePerTick(t *testing.T) {
	w, clk := newTestWindow()

	var seen []time.Time
	var loop func(now time.Time)
	loop = func(now time.Time) {
		seen = append(seen, now)
		w.RequestFrame(loop)
	}
	w.RequestFrame(loop)
	require.Equal(t, 1, w.PendingFrames())

	for range 3 {
		clk.Advance(16 * time.Millisecond)
		w.Tick()
	}

	require.Len(t, seen, 3)
	assert.Equal(t, time.Unix(50, 0).Add(48*time.Millisecond), seen[2])
	assert.Equal(t, 1, w.PendingFrames())
}

func TestCancelFrame(t *testing.T) {
	w, _ := newTestWindow()

	ran := false
	id := w.RequestFrame(func(time.Time) { ran = true })
	w.CancelFrame(id)
	w.CancelFrame(id)
	w.CancelFrame(FrameID(999))
	w.Tick()

	assert.False(t, ran)
	assert.Zero(t, w.PendingFrames())
}

func TestCancelInsideTick(t *testing.T) {
	w, _ := newTestWindow()

	ran := false
	var second FrameID
	w.RequestFrame(func(time.Time) { w.CancelFrame(second) })
	second = w.RequestFrame(func(time.Time) { ran = true })
	w.Tick()

	assert.False(t, ran)
}

func TestFramePanicIsContained(t *testing.T) {
	w, _ := newTestWindow()

	ran := false
	w.RequestFrame(func(time.Time) { panic("bad frame") })
	w.RequestFrame(func(time.Time) { ran = true })

	assert.NotPanics(t, w.Tick)
	assert.True(t, ran)
}
