package halo

import (
	"math/rand/v2"
	"time"
)

// Population is a fixed-size array of halos. A halo that dies is replaced
// in its slot by an edge-spawned one with a fresh id, so the count never
// moves; renderers must key on Halo.ID, never on the slot index.
type Population struct {
	params  Params
	spawner *Spawner
	rng     *rand.Rand
	halos   []*Halo
}

// NewPopulation seeds InitialCount interior halos for a w x h viewport.
func NewPopulation(params Params, rng *rand.Rand, w, h float64, dark bool, now time.Time) *Population {
	p := &Population{
		params:  params,
		spawner: NewSpawner(params, rng),
		rng:     rng,
	}
	n := params.InitialCount()
	p.halos = make([]*Halo, 0, n)
	for range n {
		p.halos = append(p.halos, p.spawner.Spawn(w, h, false, dark, now))
	}
	return p
}

// Advance integrates every halo and replaces the ones that died this frame.
// It returns the number of replacements.
func (p *Population) Advance(st Step, w, h float64, dark bool) int {
	replaced := 0
	for i, halo := range p.halos {
		if Integrate(halo, st, p.params, p.rng) {
			p.halos[i] = p.spawner.Spawn(w, h, true, dark, st.Now)
			replaced++
		}
	}
	for len(p.halos) < p.params.MinHalos {
		p.halos = append(p.halos, p.spawner.Spawn(w, h, true, dark, st.Now))
	}
	return replaced
}

// Recolor moves every live halo into the light or dark palette.
func (p *Population) Recolor(dark bool) {
	for _, h := range p.halos {
		h.Recolor(dark)
	}
}

// Halos exposes the live slice; callers must not retain it across frames.
func (p *Population) Halos() []*Halo {
	return p.halos
}

func (p *Population) Len() int {
	return len(p.halos)
}

// Clear drops every halo.
func (p *Population) Clear() {
	p.halos = nil
}
