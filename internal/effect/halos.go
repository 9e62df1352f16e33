package effect

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/iburimskiy/backdrop/internal/halo"
	"github.com/iburimskiy/backdrop/internal/host"
	"github.com/iburimskiy/backdrop/internal/render"
	"github.com/iburimskiy/backdrop/internal/scroll"
	"go.uber.org/zap"
)

// Renderer selects how halos reach the container.
type Renderer string

const (
	// RenderSurface redraws every halo on the immediate surface each frame.
	RenderSurface Renderer = "surface"
	// RenderElements keeps one retained scene element per halo id.
	RenderElements Renderer = "elements"
)

// trailFade is the opacity of the background wash used instead of a clear.
const trailFade = 0.2

// HalosOptions configures NewHalos. Zero fields take defaults.
type HalosOptions struct {
	Params   halo.Params
	Scroll   scroll.Params
	Renderer Renderer
	// Trail fades the previous frame instead of clearing it.
	Trail bool
	Rand  *rand.Rand
}

func (o *HalosOptions) defaults() {
	if o.Params == (halo.Params{}) {
		o.Params = halo.DefaultParams()
	}
	if o.Scroll == (scroll.Params{}) {
		o.Scroll = scroll.DefaultParams()
	}
	if o.Renderer == "" {
		o.Renderer = RenderSurface
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}

// Halos is the soft red blob background.
type Halos struct {
	*loop

	container render.Container
	opts      HalosOptions

	boundary halo.Boundary
	pop      *halo.Population
	tracker  *scroll.Tracker
}

// NewHalos seeds the population for the window's viewport, subscribes to
// the window and starts the frame loop.
func NewHalos(win *host.Window, container render.Container, opts HalosOptions, log *zap.Logger) (*Halos, error) {
	opts.defaults()
	if err := opts.Params.Validate(); err != nil {
		return nil, fmt.Errorf("halos: %w", err)
	}
	switch opts.Renderer {
	case RenderSurface:
		if container.Surface == nil {
			return nil, fmt.Errorf("halos: %s renderer needs a surface", opts.Renderer)
		}
	case RenderElements:
		if container.Scene == nil {
			return nil, fmt.Errorf("halos: %s renderer needs a scene", opts.Renderer)
		}
	default:
		return nil, fmt.Errorf("halos: unknown renderer %q", opts.Renderer)
	}

	h := &Halos{
		loop:      newLoop("halos", win, log),
		container: container,
		opts:      opts,
		tracker:   scroll.NewTracker(opts.Scroll, win.ScrollY()),
	}
	w, ht := win.Viewport()
	h.boundary = halo.NewBoundary(w, ht, opts.Params.BoundaryMargin)
	h.pop = halo.NewPopulation(opts.Params, opts.Rand, w, ht, win.Dark(), win.Now())

	h.listen(host.Resize, h.onResize)
	h.listen(host.Scroll, h.onScroll)
	h.listen(host.ThemeChange, h.onThemeChange)
	h.start(h.frame)

	h.log.Debug("halos seeded",
		zap.Int("count", h.pop.Len()),
		zap.String("renderer", string(opts.Renderer)),
		zap.Float64("width", w),
		zap.Float64("height", ht))
	return h, nil
}

func (h *Halos) onResize() {
	w, ht := h.win.Viewport()
	h.boundary = halo.NewBoundary(w, ht, h.opts.Params.BoundaryMargin)
}

func (h *Halos) onScroll() {
	h.tracker.Sample(h.win.ScrollY(), h.win.Now())
}

func (h *Halos) onThemeChange() {
	h.pop.Recolor(h.win.Dark())
}

func (h *Halos) frame(now time.Time, dt time.Duration) {
	h.tracker.Advance(now, dt)

	w, ht := h.win.Viewport()
	replaced := h.pop.Advance(halo.Step{
		DT:          dt,
		ScrollSpeed: h.tracker.Speed(),
		Now:         now,
		Boundary:    h.boundary,
	}, w, ht, h.win.Dark())
	if replaced > 0 {
		h.log.Debug("halos replaced", zap.Int("count", replaced))
	}

	switch h.opts.Renderer {
	case RenderElements:
		h.renderElements()
	default:
		h.renderSurface()
	}
}

func (h *Halos) renderSurface() {
	s := h.container.Surface
	if h.opts.Trail {
		s.Fade(Background(h.win.Dark()), trailFade)
	} else {
		s.Clear()
	}
	for _, p := range h.pop.Halos() {
		sx, sy := p.Deform()
		s.Blob(render.Blob{
			X:      p.X,
			Y:      p.Y,
			Radius: p.RenderSize() / 2,
			ScaleX: sx,
			ScaleY: sy,
			Color:  p.Palette.RGBA(),
			Alpha:  p.Palette.Alpha * p.Opacity,
			Blur:   p.Palette.Blur,
		})
	}
}

func (h *Halos) renderElements() {
	scene := h.container.Scene
	live := make(map[uint64]struct{}, h.pop.Len())
	for _, p := range h.pop.Halos() {
		live[p.ID] = struct{}{}
		el, _ := scene.Upsert(p.ID)
		el.X, el.Y = p.X, p.Y
		el.Size = p.RenderSize()
		el.ScaleX, el.ScaleY = p.Deform()
		el.Opacity = p.Opacity
		el.Blur = p.Palette.Blur
		el.Color = p.Palette.RGBA()
		el.Alpha = p.Palette.Alpha
	}
	scene.Sweep(func(id uint64) bool {
		_, ok := live[id]
		return ok
	})
}

// Destroy implements Effect.
func (h *Halos) Destroy() {
	if !h.stop() {
		return
	}
	h.tracker.Reset()
	if h.container.Scene != nil {
		h.container.Scene.Clear()
	}
	if h.container.Surface != nil {
		h.container.Surface.Clear()
	}
	h.pop.Clear()
}

// Particles exposes the live halos for inspection; do not retain.
func (h *Halos) Particles() []*halo.Halo { return h.pop.Halos() }

// ScrollSpeed is the scroll activity fed to the integrator.
func (h *Halos) ScrollSpeed() float64 { return h.tracker.Speed() }

// Boundary is the current containment rectangle.
func (h *Halos) Boundary() halo.Boundary { return h.boundary }
