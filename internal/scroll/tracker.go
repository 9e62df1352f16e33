// Package scroll turns raw scroll offsets into a decaying activity level
// that effects use to speed up while the page is moving.
package scroll

import (
	"math"
	"time"
)

const referenceFrame = time.Second / 60

// Params tunes the tracker.
type Params struct {
	// Gain converts pixels scrolled between samples into velocity.
	Gain float64
	// Max caps the velocity of a single sample.
	Max float64
	// Decay is the per-frame retention at 60 Hz.
	Decay float64
	// Settle is the quiet period after which velocity returns to zero.
	Settle time.Duration
}

// DefaultParams mirrors the page feel: a flick of a few hundred pixels
// saturates, and the effect calms down 150ms after the last event.
func DefaultParams() Params {
	return Params{
		Gain:   0.015,
		Max:    4,
		Decay:  0.92,
		Settle: 150 * time.Millisecond,
	}
}

// Tracker holds the scroll state of one effect. It is written by the scroll
// listener and read by the next frame, both on the frame thread.
type Tracker struct {
	params   Params
	lastY    float64
	velocity float64
	settleAt time.Time
	pending  bool
}

// NewTracker starts tracking from the current offset so the first event
// does not read as a jump from zero.
func NewTracker(params Params, initialY float64) *Tracker {
	return &Tracker{params: params, lastY: initialY}
}

// Sample records a new scroll offset and restarts the settle deadline.
func (t *Tracker) Sample(y float64, now time.Time) {
	delta := math.Abs(y - t.lastY)
	t.lastY = y
	t.velocity = math.Min(delta*t.params.Gain, t.params.Max)
	t.settleAt = now.Add(t.params.Settle)
	t.pending = true
}

// Advance decays the velocity by dt and applies the settle deadline.
func (t *Tracker) Advance(now time.Time, dt time.Duration) {
	if t.pending && !now.Before(t.settleAt) {
		t.pending = false
		t.velocity = 0
		return
	}
	if t.velocity == 0 || dt <= 0 {
		return
	}
	t.velocity *= math.Pow(t.params.Decay, float64(dt)/float64(referenceFrame))
	if t.velocity < 1e-6 {
		t.velocity = 0
	}
}

// Speed is the current normalized scroll activity, 0 at rest.
func (t *Tracker) Speed() float64 {
	return t.velocity
}

// Settling reports whether a settle deadline is armed.
func (t *Tracker) Settling() bool {
	return t.pending
}

// Reset drops any velocity and the pending settle deadline.
func (t *Tracker) Reset() {
	t.velocity = 0
	t.pending = false
	t.settleAt = time.Time{}
}
