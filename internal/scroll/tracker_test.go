package scroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSampleCapsVelocity(t *testing.T) {
	now := time.Unix(0, 0)
	tr := NewTracker(DefaultParams(), 100)

	tr.Sample(200, now)
	assert.InDelta(t, 1.5, tr.Speed(), 1e-9)

	tr.Sample(5000, now)
	assert.Equal(t, 4.0, tr.Speed())
}

func TestDecayIsFrameRateIndependent(t *testing.T) {
	now := time.Unix(0, 0)

	a := NewTracker(DefaultParams(), 0)
	a.Sample(100, now)
	for range 2 {
		a.Advance(now, referenceFrame)
	}

	b := NewTracker(DefaultParams(), 0)
	b.Sample(100, now)
	b.Advance(now, 2*referenceFrame)

	assert.InDelta(t, a.Speed(), b.Speed(), 1e-9)
	assert.InDelta(t, 1.5*0.92*0.92, a.Speed(), 1e-9)
}

func TestSettlesAfterQuietPeriod(t *testing.T) {
	now := time.Unix(0, 0)
	tr := NewTracker(DefaultParams(), 0)

	tr.Sample(10000, now)
	assert.True(t, tr.Settling())

	for elapsed := time.Duration(0); elapsed <= 160*time.Millisecond; elapsed += 16 * time.Millisecond {
		tr.Advance(now.Add(elapsed), 16*time.Millisecond)
	}
	assert.Zero(t, tr.Speed())
	assert.False(t, tr.Settling())
}

func TestNewSampleResetsDeadline(t *testing.T) {
	now := time.Unix(0, 0)
	tr := NewTracker(DefaultParams(), 0)

	tr.Sample(300, now)
	tr.Sample(600, now.Add(100*time.Millisecond))

	// 160ms after the first sample, 60ms after the second: still moving.
	tr.Advance(now.Add(160*time.Millisecond), 16*time.Millisecond)
	assert.Greater(t, tr.Speed(), 0.0)
	assert.True(t, tr.Settling())

	tr.Advance(now.Add(250*time.Millisecond), 16*time.Millisecond)
	assert.Zero(t, tr.Speed())
}

func TestReset(t *testing.T) {
	tr := NewTracker(DefaultParams(), 0)
	tr.Sample(400, time.Unix(0, 0))
	tr.Reset()
	assert.Zero(t, tr.Speed())
	assert.False(t, tr.Settling())
}
