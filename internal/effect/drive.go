package effect

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/iburimskiy/backdrop/internal/scroll"
)

const (
	driveFPS       = 60
	driveFrequency = 6.0
	driveDamping   = 1.0
	// driveBoost converts scroll activity into extra speed.
	driveBoost = 3.5
	// maxDriveSteps bounds the catch-up after a long frame.
	maxDriveSteps = 30
)

// drive eases an effect speed toward a scroll-dependent target. At rest the
// target is base; scrolling adds driveBoost per unit of activity in the
// direction of base.
type drive struct {
	spring  harmonica.Spring
	tracker *scroll.Tracker

	base     float64
	pos, vel float64
}

func newDrive(base float64, params scroll.Params, scrollY float64) *drive {
	return &drive{
		spring:  harmonica.NewSpring(harmonica.FPS(driveFPS), driveFrequency, driveDamping),
		tracker: scroll.NewTracker(params, scrollY),
		base:    base,
		pos:     base,
	}
}

func (d *drive) sample(y float64, now time.Time) {
	d.tracker.Sample(y, now)
}

func (d *drive) target() float64 {
	sign := 1.0
	if d.base < 0 {
		sign = -1
	}
	return sign * (math.Abs(d.base) + d.tracker.Speed()*driveBoost)
}

// advance steps the spring once per elapsed 60 Hz frame.
func (d *drive) advance(now time.Time, dt time.Duration) float64 {
	d.tracker.Advance(now, dt)
	steps := int(dt / (time.Second / driveFPS))
	steps = max(1, min(steps, maxDriveSteps))
	target := d.target()
	for range steps {
		d.pos, d.vel = d.spring.Update(d.pos, d.vel, target)
	}
	return d.pos
}

func (d *drive) speed() float64 { return d.pos }

// reverse flips the resting direction; the spring carries the speed through zero.
func (d *drive) reverse() {
	d.base = -d.base
}

func (d *drive) reset() {
	d.tracker.Reset()
	d.pos, d.vel = d.base, 0
}
