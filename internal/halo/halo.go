package halo

import (
	"image/color"
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Boundary is the viewport grown by a margin on every side. Halos bounce off it.
type Boundary struct {
	Left, Right, Top, Bottom float64
}

// NewBoundary builds the containment rectangle for a viewport of w x h.
func NewBoundary(w, h, margin float64) Boundary {
	return Boundary{
		Left:   -margin,
		Right:  w + margin,
		Top:    -margin,
		Bottom: h + margin,
	}
}

func (b Boundary) Width() float64  { return b.Right - b.Left }
func (b Boundary) Height() float64 { return b.Bottom - b.Top }

// Palette is the colour of one halo. The uniform draws are kept so the same
// halo can be moved between the light and dark ranges without re-rolling.
type Palette struct {
	Intense bool
	Dark    bool

	Saturation float64 // percent
	Lightness  float64 // percent
	Alpha      float64
	Blur       float64 // px

	satU, lightU, alphaU, blurU float64
}

func newPalette(u [4]float64, intense, dark bool) Palette {
	p := Palette{
		Intense: intense,
		satU:    u[0],
		lightU:  u[1],
		alphaU:  u[2],
		blurU:   u[3],
	}
	p.apply(dark)
	return p
}

func (p *Palette) apply(dark bool) {
	p.Dark = dark
	if dark {
		p.Saturation = 85 + p.satU*15
		p.Lightness = 20 + p.lightU*30
		p.Blur = 40 + p.blurU*100
		if p.Intense {
			p.Alpha = 0.8 + p.alphaU*0.2
		} else {
			p.Alpha = 0.3 + p.alphaU*0.3
		}
		return
	}
	p.Saturation = 90 + p.satU*10
	p.Lightness = 35 + p.lightU*25
	p.Blur = 30 + p.blurU*80
	if p.Intense {
		p.Alpha = 0.85 + p.alphaU*0.15
	} else {
		p.Alpha = 0.4 + p.alphaU*0.3
	}
}

// RGBA converts the palette to an opaque colour; hue is always red.
func (p Palette) RGBA() color.RGBA {
	c := colorful.Hsl(0, p.Saturation/100, p.Lightness/100).Clamped()
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Halo is one animated blob.
type Halo struct {
	ID uint64

	X, Y   float64
	VX, VY float64

	Size       float64
	BaseSize   float64
	TargetSize float64

	DeformPhase  float64
	DeformSpeed  float64
	DeformAmount float64

	Palette Palette
	Opacity float64

	BirthTime time.Time
	MaxLife   time.Duration
	LifeTime  time.Duration

	Phase          float64
	PhaseSpeed     float64
	Amplitude      float64
	Frequency      float64
	SecondaryPhase float64
}

// LifeProgress is the life fraction; 1 or more means the halo is due for replacement.
func (h *Halo) LifeProgress() float64 {
	if h.MaxLife <= 0 {
		return 1
	}
	return float64(h.LifeTime) / float64(h.MaxLife)
}

// Dead reports whether the halo reached the end of its life.
func (h *Halo) Dead() bool {
	return h.LifeProgress() >= 1
}

// Deform returns the horizontal and vertical stretch of the breathing ellipse.
func (h *Halo) Deform() (sx, sy float64) {
	s := math.Sin(h.DeformPhase) * h.DeformAmount
	return 1 + s, 1 - s
}

// RenderSize is the diameter a renderer may draw with; never below MinSize.
func (h *Halo) RenderSize() float64 {
	if math.IsNaN(h.Size) || h.Size < MinSize {
		return MinSize
	}
	return h.Size
}

// Recolor moves the halo into the light or dark palette.
func (h *Halo) Recolor(dark bool) {
	h.Palette.apply(dark)
}
