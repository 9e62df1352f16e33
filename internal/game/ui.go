package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	buttonWidth  = 120
	buttonHeight = 32
	buttonGap    = 12
	toolbarX     = 12
	toolbarY     = 48

	meterWidth  = 120
	meterHeight = 6
)

// button is a clickable rectangle; it fires on release over itself.
type button struct {
	label   string
	x, y    int
	onClick func()

	hovered bool
	pressed bool
}

func (b *button) contains(mx, my int) bool {
	return mx >= b.x && mx <= b.x+buttonWidth && my >= b.y && my <= b.y+buttonHeight
}

// update tracks the pointer and reports whether the button was clicked.
func (b *button) update(mx, my int, down, up bool) bool {
	b.hovered = b.contains(mx, my)
	if b.hovered && down {
		b.pressed = true
	}
	if !up {
		return false
	}
	clicked := b.pressed && b.hovered
	b.pressed = false
	return clicked
}

func (b *button) draw(screen *ebiten.Image) {
	bg := color.RGBA{R: 120, G: 20, B: 20, A: 200}
	switch {
	case b.pressed:
		bg = color.RGBA{R: 80, G: 10, B: 10, A: 220}
	case b.hovered:
		bg = color.RGBA{R: 160, G: 30, B: 30, A: 220}
	}
	x, y := float32(b.x), float32(b.y)
	vector.DrawFilledRect(screen, x, y, buttonWidth, buttonHeight, bg, false)
	vector.StrokeRect(screen, x, y, buttonWidth, buttonHeight, 2, color.RGBA{R: 230, G: 90, B: 90, A: 255}, false)

	textX := b.x + (buttonWidth-len(b.label)*6)/2
	textY := b.y + (buttonHeight-16)/2
	ebitenutil.DebugPrintAt(screen, b.label, textX, textY)
}

// toolbar lays buttons out left to right.
func toolbar(buttons ...*button) []*button {
	for i, b := range buttons {
		b.x = toolbarX + i*(buttonWidth+buttonGap)
		b.y = toolbarY
	}
	return buttons
}

func (g *Game) updateButtons() {
	mx, my := ebiten.CursorPosition()
	down := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	up := inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	for _, b := range g.buttons {
		if b.update(mx, my, down, up) {
			b.onClick()
		}
	}
}

// drawMeter shows the smoothed audio loudness under the toolbar.
func drawMeter(screen *ebiten.Image, level float64) {
	x, y := float32(toolbarX), float32(toolbarY+buttonHeight+8)
	vector.DrawFilledRect(screen, x, y, meterWidth, meterHeight, color.RGBA{R: 30, G: 30, B: 30, A: 160}, false)
	w := float32(max(0, min(1, level))) * meterWidth
	if w > 0 {
		vector.DrawFilledRect(screen, x, y, w, meterHeight, color.RGBA{R: 255, G: 40, B: 40, A: 230}, false)
	}
}
