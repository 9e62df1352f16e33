// Package render holds the drawing targets effects paint on.
//
// Surface is the immediate-mode strategy: effects clear or fade it and draw
// every frame. Scene is the retained strategy: one element per particle,
// keyed by id, updated in place and composited by the host. Backends exist
// for ebiten windows, the tfriedel6 software canvas and tcell terminals.
package render

import (
	"image"
	"image/color"
	"math"
)

// MinRadius is the smallest radius a backend will draw.
const MinRadius = 0.5

// Blob is a soft radial-gradient ellipse.
type Blob struct {
	X, Y   float64
	Radius float64
	// ScaleX and ScaleY stretch the circle into an ellipse; 0 means 1.
	ScaleX, ScaleY float64
	// Color is the core colour; its alpha channel is ignored.
	Color color.RGBA
	// Alpha multiplies the whole gradient.
	Alpha float64
	// Blur widens and softens the falloff, in pixels.
	Blur float64
}

// Stamp is a textured sprite centred on X, Y.
type Stamp struct {
	Image    image.Image
	X, Y     float64
	Scale    float64
	Rotation float64
	Tint     color.RGBA
	Alpha    float64
}

// Surface is an immediate-mode drawing target.
type Surface interface {
	Size() (w, h int)
	// Clear makes every pixel transparent.
	Clear()
	Fill(c color.Color)
	// Fade paints c over everything with the given opacity, leaving trails.
	Fade(c color.Color, amount float64)
	Blob(b Blob)
	Line(x1, y1, x2, y2, width float64, c color.NRGBA)
	Dot(x, y, r float64, c color.NRGBA)
	Stamp(s Stamp)
}

// Container is what a host hands to an effect: the immediate surface and
// the retained scene composited above it.
type Container struct {
	Surface Surface
	Scene   *Scene
}

// sanitize floors the radius, defaults the scales and reports whether the
// blob is drawable at all.
func (b Blob) sanitize() (Blob, bool) {
	if math.IsNaN(b.X) || math.IsNaN(b.Y) || math.IsInf(b.X, 0) || math.IsInf(b.Y, 0) {
		return b, false
	}
	if math.IsNaN(b.Radius) || b.Radius < MinRadius {
		b.Radius = MinRadius
	}
	if b.ScaleX <= 0 || math.IsNaN(b.ScaleX) {
		b.ScaleX = 1
	}
	if b.ScaleY <= 0 || math.IsNaN(b.ScaleY) {
		b.ScaleY = 1
	}
	if math.IsNaN(b.Blur) || b.Blur < 0 {
		b.Blur = 0
	}
	b.Alpha = clamp01(b.Alpha)
	return b, b.Alpha > 0
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
