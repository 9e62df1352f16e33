package render

import (
	"image"
	"image/color"
	"math"

	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"
)

// Canvas draws with the tfriedel6 canvas API on its software backend, so it
// needs no window or GPU. Snapshots use it.
type Canvas struct {
	backend *softwarebackend.SoftwareBackend
	cv      *canvas.Canvas
	w, h    int
}

// NewCanvas allocates a w x h software canvas.
func NewCanvas(w, h int) *Canvas {
	backend := softwarebackend.New(w, h)
	return &Canvas{
		backend: backend,
		cv:      canvas.New(backend),
		w:       w,
		h:       h,
	}
}

// Image is the backing pixel buffer.
func (c *Canvas) Image() *image.RGBA {
	return c.backend.Image
}

func (c *Canvas) Size() (int, int) { return c.w, c.h }

func (c *Canvas) Clear() {
	c.cv.ClearRect(0, 0, float64(c.w), float64(c.h))
}

func (c *Canvas) Fill(col color.Color) {
	c.cv.SetFillStyle(col)
	c.cv.FillRect(0, 0, float64(c.w), float64(c.h))
}

func (c *Canvas) Fade(col color.Color, amount float64) {
	amount = clamp01(amount)
	if amount == 0 {
		return
	}
	r, g, b, _ := col.RGBA()
	c.cv.SetFillStyle(color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(amount * 0xff)})
	c.cv.FillRect(0, 0, float64(c.w), float64(c.h))
}

func (c *Canvas) Blob(b Blob) {
	b, ok := b.sanitize()
	if !ok {
		return
	}
	outer := OuterRadius(b.Radius, b.Blur)

	grad := c.cv.CreateRadialGradient(0, 0, 0, 0, 0, outer)
	for _, s := range Stops(Softness(b.Radius, b.Blur)) {
		grad.AddColorStop(s.Pos, color.NRGBA{
			R: b.Color.R,
			G: b.Color.G,
			B: b.Color.B,
			A: uint8(math.Round(s.Alpha * b.Alpha * 0xff)),
		})
	}

	c.cv.Save()
	c.cv.Translate(b.X, b.Y)
	c.cv.Scale(b.ScaleX, b.ScaleY)
	c.cv.SetFillStyle(grad)
	c.cv.BeginPath()
	c.cv.Arc(0, 0, outer, 0, 2*math.Pi, false)
	c.cv.Fill()
	c.cv.Restore()
}

func (c *Canvas) Line(x1, y1, x2, y2, width float64, col color.NRGBA) {
	if !finite(x1, y1, x2, y2) || col.A == 0 {
		return
	}
	c.cv.SetStrokeStyle(col)
	c.cv.SetLineWidth(math.Max(width, MinRadius))
	c.cv.BeginPath()
	c.cv.MoveTo(x1, y1)
	c.cv.LineTo(x2, y2)
	c.cv.Stroke()
}

func (c *Canvas) Dot(x, y, r float64, col color.NRGBA) {
	if !finite(x, y) || col.A == 0 {
		return
	}
	c.cv.SetFillStyle(col)
	c.cv.BeginPath()
	c.cv.Arc(x, y, math.Max(r, MinRadius), 0, 2*math.Pi, false)
	c.cv.Fill()
}

// Stamp draws the texture as a tinted soft blob; the software backend has
// no colour matrix, so the tint is applied through the gradient instead.
func (c *Canvas) Stamp(s Stamp) {
	if s.Image == nil || !finite(s.X, s.Y, s.Scale) || s.Scale <= 0 {
		return
	}
	bounds := s.Image.Bounds()
	r := float64(max(bounds.Dx(), bounds.Dy())) * s.Scale / 2
	c.Blob(Blob{
		X:      s.X,
		Y:      s.Y,
		Radius: r,
		Color:  s.Tint,
		Alpha:  s.Alpha * 0.6,
		Blur:   r,
	})
}
