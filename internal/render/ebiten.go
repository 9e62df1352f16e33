package render

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	gradientTextureSize = 256
	softnessLevels      = 4
)

// gradient textures are baked lazily on first use, one per softness level.
var gradientTextures [softnessLevels]*ebiten.Image

func gradientTexture(softness float64) *ebiten.Image {
	level := int(math.Round(softness / maxSoftness * (softnessLevels - 1)))
	level = max(0, min(level, softnessLevels-1))
	if gradientTextures[level] == nil {
		s := float64(level) / (softnessLevels - 1) * maxSoftness
		gradientTextures[level] = ebiten.NewImageFromImage(BakeGradient(gradientTextureSize, s))
	}
	return gradientTextures[level]
}

// Ebiten draws onto an ebiten image.
type Ebiten struct {
	img    *ebiten.Image
	stamps map[image.Image]*ebiten.Image
}

// NewEbiten wraps img.
func NewEbiten(img *ebiten.Image) *Ebiten {
	return &Ebiten{img: img, stamps: make(map[image.Image]*ebiten.Image)}
}

// SetTarget points the surface at another image, keeping texture caches.
func (e *Ebiten) SetTarget(img *ebiten.Image) { e.img = img }

func (e *Ebiten) Size() (int, int) {
	b := e.img.Bounds()
	return b.Dx(), b.Dy()
}

func (e *Ebiten) Clear() { e.img.Clear() }

func (e *Ebiten) Fill(c color.Color) { e.img.Fill(c) }

func (e *Ebiten) Fade(c color.Color, amount float64) {
	amount = clamp01(amount)
	if amount == 0 {
		return
	}
	r, g, b, _ := c.RGBA()
	w, h := e.Size()
	fade := color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(amount * 0xff)}
	vector.DrawFilledRect(e.img, 0, 0, float32(w), float32(h), fade, false)
}

func (e *Ebiten) Blob(b Blob) {
	b, ok := b.sanitize()
	if !ok {
		return
	}
	outer := OuterRadius(b.Radius, b.Blur)
	tex := gradientTexture(Softness(b.Radius, b.Blur))
	k := 2 * outer / gradientTextureSize

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-gradientTextureSize/2, -gradientTextureSize/2)
	op.GeoM.Scale(k*b.ScaleX, k*b.ScaleY)
	op.GeoM.Translate(b.X, b.Y)
	op.ColorScale.ScaleWithColor(color.RGBA{R: b.Color.R, G: b.Color.G, B: b.Color.B, A: 0xff})
	op.ColorScale.ScaleAlpha(float32(b.Alpha))
	op.Filter = ebiten.FilterLinear
	e.img.DrawImage(tex, op)
}

func (e *Ebiten) Line(x1, y1, x2, y2, width float64, c color.NRGBA) {
	if !finite(x1, y1, x2, y2) || c.A == 0 {
		return
	}
	vector.StrokeLine(e.img, float32(x1), float32(y1), float32(x2), float32(y2), float32(math.Max(width, MinRadius)), c, true)
}

func (e *Ebiten) Dot(x, y, r float64, c color.NRGBA) {
	if !finite(x, y) || c.A == 0 {
		return
	}
	vector.DrawFilledCircle(e.img, float32(x), float32(y), float32(math.Max(r, MinRadius)), c, true)
}

func (e *Ebiten) Stamp(s Stamp) {
	if s.Image == nil || !finite(s.X, s.Y, s.Scale, s.Rotation) {
		return
	}
	alpha := clamp01(s.Alpha)
	if alpha == 0 || s.Scale <= 0 {
		return
	}
	tex, ok := e.stamps[s.Image]
	if !ok {
		tex = ebiten.NewImageFromImage(s.Image)
		e.stamps[s.Image] = tex
	}
	b := tex.Bounds()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
	op.GeoM.Rotate(s.Rotation)
	op.GeoM.Scale(s.Scale, s.Scale)
	op.GeoM.Translate(s.X, s.Y)
	op.ColorScale.ScaleWithColor(color.RGBA{R: s.Tint.R, G: s.Tint.G, B: s.Tint.B, A: 0xff})
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear
	e.img.DrawImage(tex, op)
}
