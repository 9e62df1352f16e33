// Package halo models the soft red blobs of the halos background: a single
// particle, the spawner that keeps a bounded population alive and the
// integrator that advances them frame by frame.
//
// Everything here is pure state manipulation. Time arrives as arguments and
// randomness through an injected *rand.Rand, so a frame can be replayed
// exactly in tests without a window or a drawing surface.
package halo

import (
	"errors"
	"fmt"
	"time"
)

const (
	// MinSize is the smallest diameter handed to a renderer.
	MinSize = 0.5

	// expansion factors for targetSize; the larger one is drawn with intenseChance.
	expansionWide   = 2.5
	expansionNarrow = 1.5
	wideChance      = 0.3
	intenseChance   = 0.3

	scrollSpeedGain = 1.5
	frameMillis     = 1000.0 / 60.0
)

// ErrParams is returned by Params.Validate.
var ErrParams = errors.New("invalid halo params")

// Params carries the tunables of the halos simulation.
type Params struct {
	MinHalos int
	MaxHalos int

	MinLife time.Duration
	MaxLife time.Duration

	BoundaryMargin float64
	// BaseSpeed is in px per millisecond.
	BaseSpeed   float64
	DeformSpeed float64
	WaveSpeed   float64
	Restitution float64

	Chaos        bool
	ChaosImpulse float64

	// MaxFrameDelta caps the motion step after a stall (backgrounded window).
	MaxFrameDelta time.Duration
}

// DefaultParams returns the stock halos tuning.
func DefaultParams() Params {
	return Params{
		MinHalos:       5,
		MaxHalos:       8,
		MinLife:        20 * time.Second,
		MaxLife:        40 * time.Second,
		BoundaryMargin: 300,
		BaseSpeed:      0.05,
		DeformSpeed:    0.001,
		WaveSpeed:      0.001,
		Restitution:    0.8,
		Chaos:          true,
		ChaosImpulse:   0.004,
		MaxFrameDelta:  250 * time.Millisecond,
	}
}

// Validate reports the first inconsistent field.
func (p Params) Validate() error {
	switch {
	case p.MinHalos <= 0:
		return fmt.Errorf("%w: min halos %d must be positive", ErrParams, p.MinHalos)
	case p.MaxHalos < p.MinHalos:
		return fmt.Errorf("%w: max halos %d below min %d", ErrParams, p.MaxHalos, p.MinHalos)
	case p.MinLife <= 0:
		return fmt.Errorf("%w: min life %s must be positive", ErrParams, p.MinLife)
	case p.MaxLife < p.MinLife:
		return fmt.Errorf("%w: max life %s below min %s", ErrParams, p.MaxLife, p.MinLife)
	case p.BaseSpeed <= 0:
		return fmt.Errorf("%w: base speed must be positive", ErrParams)
	case p.Restitution < 0 || p.Restitution > 1:
		return fmt.Errorf("%w: restitution %.2f outside [0,1]", ErrParams, p.Restitution)
	}
	return nil
}

// InitialCount is the population size the spawner starts with.
func (p Params) InitialCount() int {
	return (p.MinHalos + p.MaxHalos) / 2
}

// maxSpeed bounds |v| after chaos impulses; it grows with scroll speed.
func (p Params) maxSpeed(scrollSpeed float64) float64 {
	return p.BaseSpeed * 3 * (1 + scrollSpeed)
}
