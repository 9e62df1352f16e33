package render

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
)

type rgb struct{ r, g, b float64 }

func toRGB(c color.Color) rgb {
	r, g, b, _ := c.RGBA()
	return rgb{float64(r>>8) / 0xff, float64(g>>8) / 0xff, float64(b>>8) / 0xff}
}

func (c rgb) over(src rgb, a float64) rgb {
	return rgb{
		r: c.r + (src.r-c.r)*a,
		g: c.g + (src.g-c.g)*a,
		b: c.b + (src.b-c.b)*a,
	}
}

// Cells paints onto a terminal. Each cell covers CellW x CellH virtual
// pixels and shows the colour of its centre as its background.
type Cells struct {
	screen       tcell.Screen
	cellW, cellH float64
	cols, rows   int
	base         rgb
	buf          []rgb
}

// NewCells binds a surface to screen; call Resize after the screen resizes.
func NewCells(screen tcell.Screen, cellW, cellH float64) *Cells {
	c := &Cells{screen: screen, cellW: cellW, cellH: cellH}
	c.Resize()
	return c
}

// Resize re-reads the terminal size.
func (c *Cells) Resize() {
	c.cols, c.rows = c.screen.Size()
	c.buf = make([]rgb, c.cols*c.rows)
	for i := range c.buf {
		c.buf[i] = c.base
	}
}

// SetBase sets the colour Clear resets to.
func (c *Cells) SetBase(col color.Color) {
	c.base = toRGB(col)
}

// Size is the virtual pixel size of the terminal.
func (c *Cells) Size() (int, int) {
	return int(float64(c.cols) * c.cellW), int(float64(c.rows) * c.cellH)
}

func (c *Cells) Clear() {
	for i := range c.buf {
		c.buf[i] = c.base
	}
}

func (c *Cells) Fill(col color.Color) {
	v := toRGB(col)
	for i := range c.buf {
		c.buf[i] = v
	}
}

func (c *Cells) Fade(col color.Color, amount float64) {
	amount = clamp01(amount)
	v := toRGB(col)
	for i := range c.buf {
		c.buf[i] = c.buf[i].over(v, amount)
	}
}

func (c *Cells) Blob(b Blob) {
	b, ok := b.sanitize()
	if !ok {
		return
	}
	outer := OuterRadius(b.Radius, b.Blur)
	soft := Softness(b.Radius, b.Blur)
	rx, ry := outer*b.ScaleX, outer*b.ScaleY
	src := toRGB(b.Color)

	c.span(b.X-rx, b.Y-ry, b.X+rx, b.Y+ry, func(i int, px, py float64) {
		t := math.Hypot((px-b.X)/rx, (py-b.Y)/ry)
		if a := GradientAlpha(t, soft) * b.Alpha; a > 0 {
			c.buf[i] = c.buf[i].over(src, a)
		}
	})
}

func (c *Cells) Line(x1, y1, x2, y2, width float64, col color.NRGBA) {
	if !finite(x1, y1, x2, y2) || col.A == 0 {
		return
	}
	src := toRGB(col)
	a := float64(col.A) / 0xff
	step := math.Min(c.cellW, c.cellH) / 2
	n := int(math.Ceil(math.Hypot(x2-x1, y2-y1)/step)) + 1
	last := -1
	for k := range n {
		f := float64(k) / float64(max(n-1, 1))
		i := c.index(x1+(x2-x1)*f, y1+(y2-y1)*f)
		if i < 0 || i == last {
			continue
		}
		last = i
		c.buf[i] = c.buf[i].over(src, a)
	}
}

func (c *Cells) Dot(x, y, r float64, col color.NRGBA) {
	if !finite(x, y) || col.A == 0 {
		return
	}
	r = math.Max(r, MinRadius)
	src := toRGB(col)
	a := float64(col.A) / 0xff
	hit := false
	c.span(x-r, y-r, x+r, y+r, func(i int, px, py float64) {
		if math.Hypot(px-x, py-y) <= r {
			c.buf[i] = c.buf[i].over(src, a)
			hit = true
		}
	})
	// smaller than a cell: light the cell it sits in
	if i := c.index(x, y); !hit && i >= 0 {
		c.buf[i] = c.buf[i].over(src, a)
	}
}

// Stamp has no texture support on a terminal; it draws a soft blob of the
// stamp's footprint.
func (c *Cells) Stamp(s Stamp) {
	if s.Image == nil || s.Scale <= 0 {
		return
	}
	bounds := s.Image.Bounds()
	r := float64(max(bounds.Dx(), bounds.Dy())) * s.Scale / 2
	c.Blob(Blob{X: s.X, Y: s.Y, Radius: r, Color: s.Tint, Alpha: s.Alpha * 0.6, Blur: r})
}

// Flush copies the buffer to the terminal and shows it.
func (c *Cells) Flush() {
	for y := range c.rows {
		for x := range c.cols {
			v := c.buf[y*c.cols+x]
			bg := tcell.NewRGBColor(channel(v.r), channel(v.g), channel(v.b))
			c.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault.Background(bg))
		}
	}
	c.screen.Show()
}

func channel(v float64) int32 {
	return int32(math.Round(clamp01(v) * 0xff))
}

func (c *Cells) index(px, py float64) int {
	x := int(math.Floor(px / c.cellW))
	y := int(math.Floor(py / c.cellH))
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return -1
	}
	return y*c.cols + x
}

// span visits every cell whose centre lies in the given pixel rectangle.
func (c *Cells) span(x0, y0, x1, y1 float64, fn func(i int, px, py float64)) {
	cx0 := max(0, int(math.Floor(x0/c.cellW)))
	cy0 := max(0, int(math.Floor(y0/c.cellH)))
	cx1 := min(c.cols-1, int(math.Ceil(x1/c.cellW)))
	cy1 := min(c.rows-1, int(math.Ceil(y1/c.cellH)))
	for y := cy0; y <= cy1; y++ {
		for x := cx0; x <= cx1; x++ {
			fn(y*c.cols+x, (float64(x)+0.5)*c.cellW, (float64(y)+0.5)*c.cellH)
		}
	}
}
