package theme

import (
	"github.com/iburimskiy/backdrop/internal/effect"
	"github.com/iburimskiy/backdrop/internal/host"
	"github.com/iburimskiy/backdrop/internal/render"
	"go.uber.org/zap"
)

// Factory builds the effect for a theme inside container.
type Factory func(win *host.Window, container render.Container, log *zap.Logger) (effect.Effect, error)

// Registry owns at most one running effect. It is not safe for concurrent
// use; hosts call it from the frame thread.
type Registry struct {
	win       *host.Window
	log       *zap.Logger
	factories map[Theme]Factory

	current      effect.Effect
	currentTheme Theme
}

// NewRegistry binds a registry to win with the given factories.
func NewRegistry(win *host.Window, factories map[Theme]Factory, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{win: win, log: log, factories: factories}
}

// Init tears down the running effect, then starts theme in container.
// Unknown themes and failing constructors leave no effect running.
func (r *Registry) Init(container render.Container, t Theme) {
	r.Destroy()

	factory, ok := r.factories[t]
	if !ok {
		r.log.Warn("no effect for theme", zap.Stringer("theme", t))
		return
	}
	e, err := r.build(factory, container)
	if err != nil {
		r.log.Error("effect failed to start", zap.Stringer("theme", t), zap.Error(err))
		return
	}
	r.current = e
	r.currentTheme = t
	r.log.Info("theme started", zap.Stringer("theme", t))
}

func (r *Registry) build(factory Factory, container render.Container) (e effect.Effect, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("effect constructor panicked", zap.Any("panic", rec))
			e, err = nil, errConstructorPanic
		}
	}()
	return factory(r.win, container, r.log)
}

// Destroy stops the running effect, if any.
func (r *Registry) Destroy() {
	if r.current == nil {
		return
	}
	r.current.Destroy()
	r.log.Info("theme stopped", zap.Stringer("theme", r.currentTheme))
	r.current = nil
	r.currentTheme = ""
}

// Current returns the running effect and its theme; ok is false when none runs.
func (r *Registry) Current() (e effect.Effect, t Theme, ok bool) {
	return r.current, r.currentTheme, r.current != nil
}

// Next switches container to the theme after the current one.
func (r *Registry) Next(container render.Container) Theme {
	t := Next(r.currentTheme)
	r.Init(container, t)
	return t
}

// SetVisible forwards visibility to the running effect.
func (r *Registry) SetVisible(visible bool) {
	if r.current != nil {
		r.current.SetVisible(visible)
	}
}
