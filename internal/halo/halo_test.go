package halo

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	viewW = 1000.0
	viewH = 800.0
	eps   = 1e-9
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed*7+1))
}

func TestSpawnInterior(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewSpawner(DefaultParams(), testRNG(1))

	seen := map[uint64]bool{}
	for range 500 {
		h := s.Spawn(viewW, viewH, false, true, now)

		require.False(t, seen[h.ID], "id %d reused", h.ID)
		seen[h.ID] = true

		assert.GreaterOrEqual(t, h.BaseSize, 150.0)
		assert.Less(t, h.BaseSize, 650.0)
		assert.GreaterOrEqual(t, h.Size, h.BaseSize*0.6-eps)
		assert.LessOrEqual(t, h.Size, h.BaseSize*1.4+eps)
		assert.GreaterOrEqual(t, h.TargetSize, h.BaseSize*0.4-eps)
		assert.LessOrEqual(t, h.TargetSize, h.BaseSize*2.9+eps)

		assert.True(t, h.X >= 0 && h.X <= viewW)
		assert.True(t, h.Y >= 0 && h.Y <= viewH)

		speed := math.Hypot(h.VX, h.VY)
		assert.InDelta(t, 0.05, speed, 0.05*0.2+eps)

		assert.Zero(t, h.Opacity)
		assert.Equal(t, now, h.BirthTime)
		assert.GreaterOrEqual(t, h.MaxLife, 20*time.Second)
		assert.LessOrEqual(t, h.MaxLife, 40*time.Second)
		assert.True(t, h.Phase >= 0 && h.Phase < 2*math.Pi)
	}
}

func TestSpawnAtEdgeMovesInward(t *testing.T) {
	s := NewSpawner(DefaultParams(), testRNG(2))
	for range 500 {
		h := s.Spawn(viewW, viewH, true, false, time.Unix(0, 0))

		switch {
		case h.Y < 0:
			assert.Greater(t, h.VY, 0.0)
			assert.LessOrEqual(t, math.Abs(h.VX), h.VY+eps)
		case h.Y > viewH:
			assert.Less(t, h.VY, 0.0)
			assert.LessOrEqual(t, math.Abs(h.VX), -h.VY+eps)
		case h.X < 0:
			assert.Greater(t, h.VX, 0.0)
		case h.X > viewW:
			assert.Less(t, h.VX, 0.0)
		default:
			t.Fatalf("edge halo spawned inside the viewport at (%.1f, %.1f)", h.X, h.Y)
		}
	}
}

func TestPaletteRanges(t *testing.T) {
	s := NewSpawner(DefaultParams(), testRNG(3))
	for range 300 {
		h := s.Spawn(viewW, viewH, false, true, time.Unix(0, 0))
		p := h.Palette
		assert.True(t, p.Saturation >= 85 && p.Saturation <= 100)
		assert.True(t, p.Lightness >= 20 && p.Lightness <= 50)
		assert.True(t, p.Blur >= 40 && p.Blur <= 140)
		if p.Intense {
			assert.True(t, p.Alpha >= 0.8 && p.Alpha <= 1)
		} else {
			assert.True(t, p.Alpha >= 0.3 && p.Alpha <= 0.6)
		}

		h.Recolor(false)
		p = h.Palette
		assert.False(t, p.Dark)
		assert.True(t, p.Saturation >= 90 && p.Saturation <= 100)
		assert.True(t, p.Lightness >= 35 && p.Lightness <= 60)
		assert.True(t, p.Blur >= 30 && p.Blur <= 110)
		if p.Intense {
			assert.True(t, p.Alpha >= 0.85 && p.Alpha <= 1)
		} else {
			assert.True(t, p.Alpha >= 0.4 && p.Alpha <= 0.7)
		}

		c := p.RGBA()
		assert.GreaterOrEqual(t, c.R, c.G, "hue must stay red")
		assert.Equal(t, c.G, c.B)
	}
}

func TestRecolorRoundTrip(t *testing.T) {
	h := NewSpawner(DefaultParams(), testRNG(4)).Spawn(viewW, viewH, false, true, time.Unix(0, 0))
	before := h.Palette
	h.Recolor(false)
	h.Recolor(true)
	assert.Equal(t, before, h.Palette)
}

func TestEnvelope(t *testing.T) {
	assert.Zero(t, envelope(0))
	assert.InDelta(t, 0.5, envelope(1.0/6), eps)
	assert.Equal(t, 1.0, envelope(0.5))
	assert.InDelta(t, 0.3, envelope(0.9), eps)
	assert.Zero(t, envelope(1))
	assert.Zero(t, envelope(1.7))
	assert.Zero(t, envelope(math.NaN()))
}

func TestIntegrateInvariants(t *testing.T) {
	params := DefaultParams()
	rng := testRNG(5)
	start := time.Unix(100, 0)
	b := NewBoundary(viewW, viewH, params.BoundaryMargin)

	s := NewSpawner(params, rng)
	halos := []*Halo{
		s.Spawn(viewW, viewH, false, true, start),
		s.Spawn(viewW, viewH, true, true, start),
		s.Spawn(viewW, viewH, true, false, start),
	}

	now := start
	deltas := []time.Duration{16 * time.Millisecond, 33 * time.Millisecond, 5 * time.Second, time.Millisecond}
	for frame := range 3000 {
		dt := deltas[frame%len(deltas)]
		now = now.Add(dt)
		scroll := float64(frame%50) / 12
		for _, h := range halos {
			Integrate(h, Step{DT: dt, ScrollSpeed: scroll, Now: now, Boundary: b}, params, rng)

			require.True(t, h.Opacity >= 0 && h.Opacity <= 1, "opacity %v", h.Opacity)
			require.Greater(t, h.Size, 0.0)
			require.GreaterOrEqual(t, h.RenderSize(), MinSize)

			half := h.Size / 2
			require.GreaterOrEqual(t, h.X-half, b.Left-eps)
			require.LessOrEqual(t, h.X+half, b.Right+eps)
			require.GreaterOrEqual(t, h.Y-half, b.Top-eps)
			require.LessOrEqual(t, h.Y+half, b.Bottom+eps)

			require.LessOrEqual(t, math.Hypot(h.VX, h.VY), params.maxSpeed(scroll)+eps)
		}
	}
}

func TestIntegrateReflectsWithRestitution(t *testing.T) {
	params := DefaultParams()
	params.Chaos = false
	b := NewBoundary(viewW, viewH, params.BoundaryMargin)
	now := time.Unix(0, 0)

	h := &Halo{
		X: b.Left + 50, Y: 400,
		VX: -0.1, VY: 0,
		Size: 200, BaseSize: 200, TargetSize: 200,
		BirthTime: now, MaxLife: 30 * time.Second,
	}
	Integrate(h, Step{DT: 16 * time.Millisecond, Now: now.Add(16 * time.Millisecond), Boundary: b}, params, nil)

	assert.InDelta(t, b.Left+100, h.X, eps)
	assert.InDelta(t, 0.08, h.VX, eps)
}

func TestIntegrateScrollSpeedsMotion(t *testing.T) {
	params := DefaultParams()
	params.Chaos = false
	b := NewBoundary(viewW, viewH, params.BoundaryMargin)
	now := time.Unix(0, 0)

	mk := func() *Halo {
		return &Halo{X: 500, Y: 400, VX: 0.05, Size: 100, BaseSize: 100, TargetSize: 100, BirthTime: now, MaxLife: time.Minute}
	}
	still, scrolled := mk(), mk()
	st := Step{DT: 100 * time.Millisecond, Now: now.Add(100 * time.Millisecond), Boundary: b}
	Integrate(still, st, params, nil)
	st.ScrollSpeed = 2
	Integrate(scrolled, st, params, nil)

	assert.InDelta(t, 5.0, still.X-500, eps)
	assert.InDelta(t, 5.0*SpeedMultiplier(2), scrolled.X-500, eps)
	assert.Equal(t, 4.0, SpeedMultiplier(2))
}

func TestIntegrateClampsLongStall(t *testing.T) {
	params := DefaultParams()
	params.Chaos = false
	b := NewBoundary(viewW, viewH, params.BoundaryMargin)
	now := time.Unix(0, 0)

	h := &Halo{X: 500, Y: 400, VY: 0.01, Size: 100, BaseSize: 100, TargetSize: 100, BirthTime: now, MaxLife: 10 * time.Second}
	dead := Integrate(h, Step{DT: time.Minute, Now: now.Add(time.Minute), Boundary: b}, params, nil)

	assert.True(t, dead)
	assert.InDelta(t, 402.5, h.Y, eps, "motion uses the capped frame delta")
	assert.Zero(t, h.Opacity)
}

func TestSizeNeverDegenerate(t *testing.T) {
	params := DefaultParams()
	b := NewBoundary(viewW, viewH, params.BoundaryMargin)
	now := time.Unix(0, 0)

	// 2*base - target is negative for the lowest point of the wave.
	h := &Halo{
		X: 500, Y: 400, BaseSize: 600, TargetSize: 1700,
		Amplitude: 2, Frequency: 1, Phase: -math.Pi / 2, SecondaryPhase: -math.Pi / 2,
		BirthTime: now, MaxLife: time.Minute,
	}
	Integrate(h, Step{Now: now, Boundary: b}, params, nil)
	assert.Equal(t, MinSize, h.Size)

	h.Size = math.NaN()
	assert.Equal(t, MinSize, h.RenderSize())
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())
	assert.Equal(t, 6, DefaultParams().InitialCount())

	bad := DefaultParams()
	bad.MaxHalos = 2
	assert.ErrorIs(t, bad.Validate(), ErrParams)

	bad = DefaultParams()
	bad.MaxLife = time.Second
	assert.ErrorIs(t, bad.Validate(), ErrParams)

	bad = DefaultParams()
	bad.Restitution = 1.5
	assert.ErrorIs(t, bad.Validate(), ErrParams)
}
