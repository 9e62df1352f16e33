package effect

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"math"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2/examples/resources/images"
	"github.com/iburimskiy/backdrop/internal/host"
	"github.com/iburimskiy/backdrop/internal/render"
	"github.com/iburimskiy/backdrop/internal/scroll"
	"go.uber.org/zap"
)

const (
	fogBaseSpeed = 0.45
	fogZoom      = 0.20
	fogPuffs     = 28
	// fogDrift is the puff speed in px per ms at speed 1.
	fogDrift = 0.05
)

// FogColors is the tone set of the smoke theme.
type FogColors struct {
	Highlight, Midtone, Lowlight, Base color.RGBA
	// BlurFactor widens and thins every puff.
	BlurFactor float64
}

// FogPalette returns the smoke tones for the given mode.
func FogPalette(dark bool) FogColors {
	if dark {
		return FogColors{
			Highlight:  hex(0xff0000),
			Midtone:    hex(0xcc0000),
			Lowlight:   hex(0x660000),
			Base:       hex(0x000000),
			BlurFactor: 0.45,
		}
	}
	return FogColors{
		Highlight:  hex(0xff0000),
		Midtone:    hex(0xff0000),
		Lowlight:   hex(0xee0000),
		Base:       hex(0xffffff),
		BlurFactor: 0.25,
	}
}

func (c FogColors) tone(i int) color.RGBA {
	switch i {
	case 0:
		return c.Highlight
	case 1:
		return c.Midtone
	default:
		return c.Lowlight
	}
}

func hex(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// FogOptions configures NewFog. Zero fields take defaults.
type FogOptions struct {
	Scroll scroll.Params
	Puffs  int
	// Texture is an encoded image; the ebiten smoke sprite by default.
	Texture []byte
	Rand    *rand.Rand
}

type puff struct {
	x, y     float64
	vx, vy   float64
	diameter float64
	angle    float64
	spin     float64
	alpha    float64
	tone     int
}

// Fog drifts tinted smoke sprites across the surface.
type Fog struct {
	*loop

	surface render.Surface
	opts    FogOptions
	rng     *rand.Rand

	texture image.Image
	colors  FogColors
	puffs   []puff
	drive   *drive
}

// NewFog starts the smoke theme. A texture that fails to decode is logged
// and leaves the background blank.
func NewFog(win *host.Window, container render.Container, opts FogOptions, log *zap.Logger) (*Fog, error) {
	if container.Surface == nil {
		return nil, errors.New("fog: container has no surface")
	}
	if opts.Scroll == (scroll.Params{}) {
		opts.Scroll = scroll.DefaultParams()
	}
	if opts.Puffs <= 0 {
		opts.Puffs = fogPuffs
	}
	if opts.Texture == nil {
		opts.Texture = images.Smoke_png
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	f := &Fog{
		loop:    newLoop("smoke", win, log),
		surface: container.Surface,
		opts:    opts,
		rng:     opts.Rand,
		colors:  FogPalette(win.Dark()),
		drive:   newDrive(fogBaseSpeed, opts.Scroll, win.ScrollY()),
	}

	tex, err := decodeTexture(opts.Texture)
	if err != nil {
		f.log.Error("smoke texture unavailable", zap.Error(err))
	} else {
		f.texture = tex
		f.seed()
	}

	f.listen(host.Scroll, func() { f.drive.sample(win.ScrollY(), win.Now()) })
	f.listen(host.ThemeChange, func() { f.colors = FogPalette(win.Dark()) })
	f.start(f.frame)
	return f, nil
}

func decodeTexture(data []byte) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode smoke texture: %v", r)
		}
	}()
	img, _, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode smoke texture: %w", err)
	}
	return img, nil
}

func (f *Fog) seed() {
	w, h := f.win.Viewport()
	side := math.Min(w, h)
	f.puffs = make([]puff, f.opts.Puffs)
	for i := range f.puffs {
		angle := f.rng.Float64() * 2 * math.Pi
		speed := fogDrift * (0.5 + f.rng.Float64())
		f.puffs[i] = puff{
			x:        f.rng.Float64() * w,
			y:        f.rng.Float64() * h,
			vx:       math.Cos(angle) * speed,
			vy:       math.Sin(angle) * speed * 0.4,
			diameter: side * (0.3 + f.rng.Float64()*0.5) * (1 + fogZoom),
			angle:    f.rng.Float64() * 2 * math.Pi,
			spin:     (f.rng.Float64()*2 - 1) * 0.0002,
			alpha:    0.25 + f.rng.Float64()*0.25,
			tone:     i % 3,
		}
	}
}

func (f *Fog) frame(now time.Time, dt time.Duration) {
	speed := f.drive.advance(now, dt)
	f.surface.Fill(f.colors.Base)
	if f.texture == nil {
		return
	}

	ms := math.Min(float64(dt)/float64(time.Millisecond), 250)
	w, h := f.win.Viewport()
	texW := float64(f.texture.Bounds().Dx())
	spread := 1 + f.colors.BlurFactor

	for i := range f.puffs {
		p := &f.puffs[i]
		p.x += p.vx * speed * ms
		p.y += p.vy * speed * ms
		p.angle += p.spin * speed * ms
		r := p.diameter * spread / 2
		p.x = wrap(p.x, -r, w+r)
		p.y = wrap(p.y, -r, h+r)

		f.surface.Stamp(render.Stamp{
			Image:    f.texture,
			X:        p.x,
			Y:        p.y,
			Scale:    p.diameter * spread / math.Max(texW, 1),
			Rotation: p.angle,
			Tint:     f.colors.tone(p.tone),
			Alpha:    p.alpha * (1 - f.colors.BlurFactor*0.5),
		})
	}
}

// wrap moves v back into [lo, hi) from the opposite side.
func wrap(v, lo, hi float64) float64 {
	span := hi - lo
	if span <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return lo
	}
	v = lo + math.Mod(v-lo, span)
	if v < lo {
		v += span
	}
	return v
}

// Destroy implements Effect.
func (f *Fog) Destroy() {
	if !f.stop() {
		return
	}
	f.drive.reset()
	f.surface.Clear()
	f.puffs = nil
}

// Speed is the eased drift speed.
func (f *Fog) Speed() float64 { return f.drive.speed() }

// Colors is the active tone set.
func (f *Fog) Colors() FogColors { return f.colors }

// Blank reports whether the fog runs without a texture.
func (f *Fog) Blank() bool { return f.texture == nil }
