package theme

import (
	"github.com/iburimskiy/backdrop/internal/effect"
	"github.com/iburimskiy/backdrop/internal/host"
	"github.com/iburimskiy/backdrop/internal/render"
	"go.uber.org/zap"
)

// Options tunes the stock effects.
type Options struct {
	Halos    effect.HalosOptions
	Fog      effect.FogOptions
	Topology effect.TopologyOptions
}

// Factories returns the constructors of every theme in All.
func Factories(opts Options) map[Theme]Factory {
	return map[Theme]Factory{
		Halos: func(win *host.Window, c render.Container, log *zap.Logger) (effect.Effect, error) {
			h, err := effect.NewHalos(win, c, opts.Halos, log)
			if err != nil {
				return nil, err
			}
			return h, nil
		},
		Smoke: func(win *host.Window, c render.Container, log *zap.Logger) (effect.Effect, error) {
			f, err := effect.NewFog(win, c, opts.Fog, log)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
		Topology: func(win *host.Window, c render.Container, log *zap.Logger) (effect.Effect, error) {
			t, err := effect.NewTopology(win, c, opts.Topology, log)
			if err != nil {
				return nil, err
			}
			return t, nil
		},
	}
}
