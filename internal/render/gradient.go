package render

import (
	"image"
	"image/color"
	"math"
)

// Stop is one colour stop of the blob gradient.
type Stop struct {
	Pos   float64
	Alpha float64
}

// blobStops is an opaque core fading through three stops to transparent.
var blobStops = [...]Stop{
	{0, 1},
	{0.35, 0.6},
	{0.7, 0.2},
	{1, 0},
}

const maxSoftness = 0.9

// Softness maps a blur radius onto how far the inner stops are pulled
// towards the centre.
func Softness(radius, blur float64) float64 {
	if blur <= 0 || radius <= 0 {
		return 0
	}
	return math.Min(blur/(radius+blur), maxSoftness)
}

// OuterRadius is the radius at which a blurred blob reaches zero alpha.
func OuterRadius(radius, blur float64) float64 {
	return math.Max(radius, MinRadius) + math.Max(blur, 0)*0.5
}

// Stops returns the gradient stops for the given softness.
func Stops(softness float64) []Stop {
	k := 1 - clamp01(math.Min(softness, maxSoftness))
	out := make([]Stop, len(blobStops))
	for i, s := range blobStops {
		if i == len(blobStops)-1 {
			out[i] = s
			continue
		}
		out[i] = Stop{Pos: s.Pos * k, Alpha: s.Alpha}
	}
	return out
}

// GradientAlpha evaluates the gradient at normalized distance t from the centre.
func GradientAlpha(t, softness float64) float64 {
	if t <= 0 {
		return blobStops[0].Alpha
	}
	if t >= 1 || math.IsNaN(t) {
		return 0
	}
	stops := Stops(softness)
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t <= b.Pos {
			span := b.Pos - a.Pos
			if span <= 0 {
				return b.Alpha
			}
			f := (t - a.Pos) / span
			return a.Alpha + (b.Alpha-a.Alpha)*f
		}
	}
	return 0
}

// BakeGradient rasterizes a white gradient disc of size x size pixels, with
// premultiplied alpha, for backends that draw blobs as scaled textures.
func BakeGradient(size int, softness float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for y := range size {
		for x := range size {
			dx := (float64(x) + 0.5 - c) / c
			dy := (float64(y) + 0.5 - c) / c
			a := uint8(math.Round(GradientAlpha(math.Hypot(dx, dy), softness) * 0xff))
			img.SetRGBA(x, y, color.RGBA{R: a, G: a, B: a, A: a})
		}
	}
	return img
}
