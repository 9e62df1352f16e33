package halo

import (
	"math"
	"math/rand/v2"
	"time"
)

// Edge identifies the side of the viewport a halo enters from.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// Spawner creates halos with process-unique ids.
type Spawner struct {
	params Params
	rng    *rand.Rand
	nextID uint64
}

// NewSpawner returns a spawner drawing from rng.
func NewSpawner(params Params, rng *rand.Rand) *Spawner {
	return &Spawner{params: params, rng: rng}
}

// Spawn creates a halo for a viewport of w x h. Interior halos start anywhere
// on screen with a random heading; edge halos start just outside a random side
// and move inward.
func (s *Spawner) Spawn(w, h float64, atEdge, dark bool, now time.Time) *Halo {
	r := s.rng

	baseSize := 150 + r.Float64()*500
	size := baseSize * (0.6 + r.Float64()*0.8)
	expansion := expansionNarrow
	if r.Float64() < wideChance {
		expansion = expansionWide
	}

	baseSpeed := s.params.BaseSpeed * (0.8 + r.Float64()*0.4)

	var x, y, vx, vy float64
	if atEdge {
		speed := baseSpeed * (1 + r.Float64()*0.5)
		tangential := (r.Float64() - 0.5) * speed * 2
		switch Edge(r.IntN(4)) {
		case EdgeTop:
			x, y = r.Float64()*w, -size
			vx, vy = tangential, speed
		case EdgeRight:
			x, y = w+size, r.Float64()*h
			vx, vy = -speed, tangential
		case EdgeBottom:
			x, y = r.Float64()*w, h+size
			vx, vy = tangential, -speed
		default:
			x, y = -size, r.Float64()*h
			vx, vy = speed, tangential
		}
	} else {
		x, y = r.Float64()*w, r.Float64()*h
		angle := r.Float64() * 2 * math.Pi
		vx, vy = math.Cos(angle)*baseSpeed, math.Sin(angle)*baseSpeed
	}

	intense := r.Float64() < intenseChance
	palette := newPalette([4]float64{r.Float64(), r.Float64(), r.Float64(), r.Float64()}, intense, dark)

	lifeSpan := s.params.MaxLife - s.params.MinLife
	maxLife := s.params.MinLife
	if lifeSpan > 0 {
		maxLife += time.Duration(r.Float64() * float64(lifeSpan))
	}

	id := s.nextID
	s.nextID++

	return &Halo{
		ID:             id,
		X:              x,
		Y:              y,
		VX:             vx,
		VY:             vy,
		Size:           size,
		BaseSize:       baseSize,
		TargetSize:     baseSize * (0.4 + r.Float64()*expansion),
		DeformPhase:    r.Float64() * 2 * math.Pi,
		DeformSpeed:    s.params.DeformSpeed * (0.7 + r.Float64()*0.6),
		DeformAmount:   0.2 + r.Float64()*0.3,
		Palette:        palette,
		Opacity:        0,
		BirthTime:      now,
		MaxLife:        maxLife,
		Phase:          r.Float64() * 2 * math.Pi,
		PhaseSpeed:     s.params.WaveSpeed * (0.8 + r.Float64()*0.4),
		Amplitude:      0.5 + r.Float64()*1.5,
		Frequency:      0.3 + r.Float64()*0.7,
		SecondaryPhase: r.Float64() * 2 * math.Pi,
	}
}
