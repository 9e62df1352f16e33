package halo

import (
	"math"
	"math/rand/v2"
	"time"
)

// Step is the input of one integrator tick.
type Step struct {
	// DT is the wall time since the previous frame.
	DT time.Duration
	// ScrollSpeed is the normalized scroll activity, 0 at rest.
	ScrollSpeed float64
	Now         time.Time
	Boundary    Boundary
}

// SpeedMultiplier scales motion while the page is being scrolled.
func SpeedMultiplier(scrollSpeed float64) float64 {
	return 1 + scrollSpeed*scrollSpeedGain
}

// Integrate advances h by one frame and reports whether it has died.
// Motion uses the clamped frame delta; age is always read from st.Now so a
// long stall still retires halos on time.
func Integrate(h *Halo, st Step, p Params, rng *rand.Rand) bool {
	dt := float64(st.DT) / float64(time.Millisecond)
	if maxDT := float64(p.MaxFrameDelta) / float64(time.Millisecond); p.MaxFrameDelta > 0 && dt > maxDT {
		dt = maxDT
	}
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}

	mult := SpeedMultiplier(st.ScrollSpeed)
	h.X += h.VX * dt * mult
	h.Y += h.VY * dt * mult

	if p.Chaos && st.ScrollSpeed > 0 && rng != nil {
		frames := dt / frameMillis
		h.VX += (rng.Float64() - 0.5) * p.ChaosImpulse * st.ScrollSpeed * frames
		h.VY += (rng.Float64() - 0.5) * p.ChaosImpulse * st.ScrollSpeed * frames
	}
	limitSpeed(h, p.maxSpeed(st.ScrollSpeed))

	h.LifeTime = st.Now.Sub(h.BirthTime)
	progress := h.LifeProgress()
	h.Opacity = envelope(progress)

	h.DeformPhase += h.DeformSpeed * dt
	h.Phase += h.PhaseSpeed * dt
	h.SecondaryPhase += h.PhaseSpeed * 1.5 * dt

	wave := math.Sin(h.Phase) * h.Amplitude
	secondary := math.Sin(h.SecondaryPhase) * h.Amplitude * 0.5
	combined := (wave + secondary) * h.Frequency
	h.Size = h.BaseSize + (h.TargetSize-h.BaseSize)*(0.5+combined*0.5)
	h.Size = fitSize(h.Size, st.Boundary)

	reflect(h, st.Boundary, p.Restitution)

	return progress >= 1
}

// envelope fades in over the first third of life and out over the last third.
func envelope(progress float64) float64 {
	o := math.Min(1, math.Min(progress*3, (1-progress)*3))
	if o < 0 || math.IsNaN(o) {
		return 0
	}
	return o
}

func limitSpeed(h *Halo, max float64) {
	speed := math.Hypot(h.VX, h.VY)
	if speed <= max || speed == 0 {
		return
	}
	k := max / speed
	h.VX *= k
	h.VY *= k
}

// fitSize keeps a halo small enough to fit inside the boundary.
func fitSize(size float64, b Boundary) float64 {
	if math.IsNaN(size) || size < MinSize {
		return MinSize
	}
	if limit := math.Min(b.Width(), b.Height()); limit > MinSize && size > limit {
		return limit
	}
	return size
}

func reflect(h *Halo, b Boundary, restitution float64) {
	half := h.Size / 2

	if h.X-half < b.Left {
		h.X = b.Left + half
		h.VX = math.Abs(h.VX) * restitution
	}
	if h.X+half > b.Right {
		h.X = b.Right - half
		h.VX = -math.Abs(h.VX) * restitution
	}
	if h.Y-half < b.Top {
		h.Y = b.Top + half
		h.VY = math.Abs(h.VY) * restitution
	}
	if h.Y+half > b.Bottom {
		h.Y = b.Bottom - half
		h.VY = -math.Abs(h.VY) * restitution
	}
}
