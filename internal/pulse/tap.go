// Package pulse turns played audio into a loudness signal. The window host
// feeds that signal to the effects as synthetic scrolling, so music makes
// the background surge the way a flick of the page does.
package pulse

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

const (
	// RingSize is how many recent frames a Tap keeps.
	RingSize = 8192
	// levelCurve compresses RMS so quiet passages still move the level.
	levelCurve = 0.3
)

// Tap passes a stream through unchanged and keeps the most recent frames
// in a ring buffer. Stream runs on the speaker goroutine; Snapshot and
// Level may be called from anywhere.
type Tap struct {
	Source beep.Streamer

	mu   sync.RWMutex
	ring [][2]float64
	next int
	seen int
}

// NewTap wraps src with a ring of size frames.
func NewTap(src beep.Streamer, size int) *Tap {
	if size <= 0 {
		size = RingSize
	}
	return &Tap{Source: src, ring: make([][2]float64, size)}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n <= 0 {
		return n, ok
	}
	t.mu.Lock()
	for _, s := range samples[:n] {
		t.ring[t.next] = s
		t.next = (t.next + 1) % len(t.ring)
	}
	t.seen = min(t.seen+n, len(t.ring))
	t.mu.Unlock()
	return n, ok
}

func (t *Tap) Err() error { return t.Source.Err() }

// Snapshot returns up to n of the latest frames, oldest first.
func (t *Tap) Snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = max(0, min(n, t.seen))
	out := make([][2]float64, n)
	start := t.next - n
	if start < 0 {
		start += len(t.ring)
	}
	for i := range out {
		out[i] = t.ring[(start+i)%len(t.ring)]
	}
	return out
}

// Level is the compressed mono RMS of the latest n frames, in [0, 1].
func (t *Tap) Level(n int) float64 {
	return Level(t.Snapshot(n))
}

// Level is the compressed mono RMS of samples, in [0, 1].
func Level(samples [][2]float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		mono := (s[0] + s[1]) * 0.5
		sum += mono * mono
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	return math.Min(1, math.Pow(rms, levelCurve))
}

// Meter smooths a level between frames.
type Meter struct {
	// Smoothing is the weight of the previous value, in [0, 1).
	Smoothing float64
	value     float64
}

// Update mixes level into the meter and returns the smoothed value.
func (m *Meter) Update(level float64) float64 {
	m.value = m.Smoothing*m.value + (1-m.Smoothing)*level
	return m.value
}

func (m *Meter) Value() float64 { return m.value }

func (m *Meter) Reset() { m.value = 0 }
