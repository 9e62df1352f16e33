package effect

import (
	"errors"
	"image/color"
	"math"
	"math/rand/v2"
	"time"

	"github.com/iburimskiy/backdrop/internal/host"
	"github.com/iburimskiy/backdrop/internal/render"
	"github.com/iburimskiy/backdrop/internal/scroll"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
)

const (
	// ReverseEvery is the boomerang period.
	ReverseEvery = 6 * time.Second
	// ResetEvery is how often the constellation is rebuilt from a new preset.
	ResetEvery = 20 * time.Second
	// ResetFade is the fade-out that precedes each rebuild.
	ResetFade = 8 * time.Second

	topologyLineWidth = 2.0
	topologyOpacity   = 0.9
	topologyDotRadius = 2.0
	// linkScale maps a preset's maxDistance to pixels.
	linkScale = 3.0
	// spacingScale maps a preset's spacing to the minimum gap between points.
	spacingScale = 2.0
	// pointDrift is px per ms per unit of preset speed.
	pointDrift = 0.01
)

// Preset shapes one constellation.
type Preset struct {
	Points          int
	MaxDistance     float64
	Spacing         float64
	Speed           float64
	ShowDots        bool
	ConnectionSpeed float64
}

// Presets are the constellation variants a reset picks from.
var Presets = [...]Preset{
	{Points: 60, MaxDistance: 25, Spacing: 4, Speed: 4.0, ShowDots: true, ConnectionSpeed: 2.5},
	{Points: 15, MaxDistance: 70, Spacing: 30, Speed: 3.5, ShowDots: false, ConnectionSpeed: 2.0},
	{Points: 45, MaxDistance: 80, Spacing: 8, Speed: 5.0, ShowDots: true, ConnectionSpeed: 3.0},
	{Points: 90, MaxDistance: 20, Spacing: 6, Speed: 4.0, ShowDots: true, ConnectionSpeed: 3.5},
	{Points: 25, MaxDistance: 120, Spacing: 20, Speed: 4.5, ShowDots: false, ConnectionSpeed: 2.8},
	{Points: 120, MaxDistance: 35, Spacing: 5, Speed: 6.0, ShowDots: true, ConnectionSpeed: 4.5},
}

// Jitter varies a preset: ±7 points, ±7 distance, ±2 spacing, ±0.75 speed
// and ±0.3 connection speed. Counts and distances stay positive.
func (p Preset) Jitter(rng *rand.Rand) Preset {
	p.Points += int(math.Floor(rng.Float64()*15 - 7))
	p.MaxDistance += math.Floor(rng.Float64()*15 - 7)
	p.Spacing += math.Floor(rng.Float64()*4 - 2)
	p.Speed += rng.Float64()*1.5 - 0.75
	p.ConnectionSpeed += rng.Float64()*0.6 - 0.3

	p.Points = max(p.Points, 2)
	p.MaxDistance = math.Max(p.MaxDistance, 1)
	p.Spacing = math.Max(p.Spacing, 0)
	return p
}

// RandomPreset picks a preset uniformly and jitters it.
func RandomPreset(rng *rand.Rand) Preset {
	return Presets[rng.IntN(len(Presets))].Jitter(rng)
}

// TopologyColors is the tone set of the constellation.
type TopologyColors struct {
	Color    color.RGBA
	Gradient [3]colorful.Color
	Base     color.RGBA
}

// TopologyPalette returns the constellation tones for the given mode.
func TopologyPalette(dark bool) TopologyColors {
	if dark {
		return TopologyColors{
			Color:    hex(0xff0000),
			Gradient: [3]colorful.Color{{R: 1, G: 0.2, B: 0.2}, {R: 1, G: 0, B: 0}, {R: 0.8, G: 0, B: 0}},
			Base:     hex(0x000000),
		}
	}
	return TopologyColors{
		Color:    hex(0xff1a1a),
		Gradient: [3]colorful.Color{{R: 1, G: 0.3, B: 0.3}, {R: 1, G: 0.1, B: 0.1}, {R: 1, G: 0, B: 0}},
		Base:     hex(0xffffff),
	}
}

// at blends the three gradient stops at t in [0, 1].
func (c TopologyColors) at(t float64) colorful.Color {
	t = math.Max(0, math.Min(1, t))
	if t < 0.5 {
		return c.Gradient[0].BlendRgb(c.Gradient[1], t*2)
	}
	return c.Gradient[1].BlendRgb(c.Gradient[2], (t-0.5)*2)
}

// TopologyOptions configures NewTopology. Zero fields take defaults.
type TopologyOptions struct {
	Scroll scroll.Params
	// Preset pins the first constellation; later resets still pick randomly.
	Preset *Preset
	Rand   *rand.Rand
}

type node struct {
	x, y   float64
	vx, vy float64
}

// Topology draws drifting points linked by lines when they come close.
type Topology struct {
	*loop

	surface render.Surface
	opts    TopologyOptions
	rng     *rand.Rand

	preset Preset
	nodes  []node
	colors TopologyColors
	drive  *drive

	phase       float64
	reversed    bool
	nextReverse time.Time
	nextReset   time.Time
	fading      bool
	fadeEnd     time.Time
	alpha       float64
}

// NewTopology starts the constellation theme.
func NewTopology(win *host.Window, container render.Container, opts TopologyOptions, log *zap.Logger) (*Topology, error) {
	if container.Surface == nil {
		return nil, errors.New("topology: container has no surface")
	}
	if opts.Scroll == (scroll.Params{}) {
		opts.Scroll = scroll.DefaultParams()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	t := &Topology{
		loop:    newLoop("topology", win, log),
		surface: container.Surface,
		opts:    opts,
		rng:     opts.Rand,
		colors:  TopologyPalette(win.Dark()),
		drive:   newDrive(1, opts.Scroll, win.ScrollY()),
		alpha:   topologyOpacity,
	}
	preset := RandomPreset(t.rng)
	if opts.Preset != nil {
		preset = *opts.Preset
	}
	t.build(preset)

	now := win.Now()
	t.nextReverse = now.Add(ReverseEvery)
	t.nextReset = now.Add(ResetEvery)

	t.listen(host.Scroll, func() { t.drive.sample(win.ScrollY(), win.Now()) })
	t.listen(host.ThemeChange, func() { t.colors = TopologyPalette(win.Dark()) })
	t.start(t.frame)
	return t, nil
}

// build scatters the preset's points, keeping them at least a spacing apart
// when the viewport allows it.
func (t *Topology) build(p Preset) {
	t.preset = p
	w, h := t.win.Viewport()
	gap := p.Spacing * spacingScale
	t.nodes = make([]node, 0, p.Points)
	for len(t.nodes) < p.Points {
		var n node
		for attempt := 0; attempt < 8; attempt++ {
			n.x, n.y = t.rng.Float64()*w, t.rng.Float64()*h
			if t.spaced(n, gap) {
				break
			}
		}
		angle := t.rng.Float64() * 2 * math.Pi
		n.vx = math.Cos(angle) * p.Speed * pointDrift
		n.vy = math.Sin(angle) * p.Speed * pointDrift
		t.nodes = append(t.nodes, n)
	}
	t.log.Debug("constellation built",
		zap.Int("points", p.Points),
		zap.Float64("max_distance", p.MaxDistance),
		zap.Float64("speed", p.Speed),
		zap.Bool("dots", p.ShowDots))
}

func (t *Topology) spaced(n node, gap float64) bool {
	for _, o := range t.nodes {
		if math.Hypot(o.x-n.x, o.y-n.y) < gap {
			return false
		}
	}
	return true
}

func (t *Topology) schedule(now time.Time) {
	if !now.Before(t.nextReverse) {
		t.reversed = !t.reversed
		t.drive.reverse()
		t.nextReverse = now.Add(ReverseEvery)
	}
	if !t.fading && !now.Before(t.nextReset) {
		t.fading = true
		t.fadeEnd = now.Add(ResetFade)
		t.nextReset = now.Add(ResetEvery)
	}
	if !t.fading {
		return
	}
	if now.Before(t.fadeEnd) {
		left := float64(t.fadeEnd.Sub(now)) / float64(ResetFade)
		// ease-out
		t.alpha = topologyOpacity * left * left
		return
	}
	t.fading = false
	t.alpha = topologyOpacity
	t.build(RandomPreset(t.rng))
}

func (t *Topology) frame(now time.Time, dt time.Duration) {
	t.schedule(now)
	speed := t.drive.advance(now, dt)

	ms := math.Min(float64(dt)/float64(time.Millisecond), 250)
	w, h := t.win.Viewport()
	for i := range t.nodes {
		n := &t.nodes[i]
		n.x += n.vx * speed * ms
		n.y += n.vy * speed * ms
		if n.x < 0 || n.x > w {
			n.vx = -n.vx
			n.x = math.Max(0, math.Min(w, n.x))
		}
		if n.y < 0 || n.y > h {
			n.vy = -n.vy
			n.y = math.Max(0, math.Min(h, n.y))
		}
	}
	t.phase += t.preset.ConnectionSpeed * ms / 1000
	t.draw(w, h)
}

func (t *Topology) draw(w, h float64) {
	t.surface.Fill(t.colors.Base)
	link := t.preset.MaxDistance * linkScale
	diag := math.Max(math.Hypot(w, h), 1)

	for i := range t.nodes {
		a := t.nodes[i]
		for j := i + 1; j < len(t.nodes); j++ {
			b := t.nodes[j]
			d := math.Hypot(a.x-b.x, a.y-b.y)
			if d >= link {
				continue
			}
			pulse := 0.75 + 0.25*math.Sin(t.phase+float64(i+j))
			c := t.colors.at(((a.x+b.x)/2 + (a.y+b.y)/2) / diag)
			t.surface.Line(a.x, a.y, b.x, b.y, topologyLineWidth, nrgba(c, (1-d/link)*pulse*t.alpha))
		}
	}
	if !t.preset.ShowDots {
		return
	}
	for _, n := range t.nodes {
		t.surface.Dot(n.x, n.y, topologyDotRadius, withAlpha(t.colors.Color, t.alpha))
	}
}

func nrgba(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(math.Max(0, math.Min(1, alpha)) * 0xff))}
}

func withAlpha(c color.RGBA, alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(math.Max(0, math.Min(1, alpha)) * 0xff))}
}

// Destroy implements Effect.
func (t *Topology) Destroy() {
	if !t.stop() {
		return
	}
	t.drive.reset()
	t.fading = false
	t.surface.Clear()
	t.nodes = nil
}

// Preset is the constellation currently shown.
func (t *Topology) Preset() Preset { return t.preset }

// Reversed reports whether the boomerang is running backwards.
func (t *Topology) Reversed() bool { return t.reversed }

// Speed is the signed eased drift speed.
func (t *Topology) Speed() float64 { return t.drive.speed() }

// Alpha is the current constellation opacity.
func (t *Topology) Alpha() float64 { return t.alpha }

// Colors is the active tone set.
func (t *Topology) Colors() TopologyColors { return t.colors }

// Points is the number of live points.
func (t *Topology) Points() int { return len(t.nodes) }
