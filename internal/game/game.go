// Package game hosts backdrop in a desktop window with ebiten.
package game

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/iburimskiy/backdrop/internal/app"
	"github.com/iburimskiy/backdrop/internal/clock"
	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/iburimskiy/backdrop/internal/effect"
	"github.com/iburimskiy/backdrop/internal/host"
	"github.com/iburimskiy/backdrop/internal/render"
	"go.uber.org/zap"
)

const help = "T theme  L list  O open audio  D dark  H hide  Space pause  F1 toolbar  Q quit"

var keymap = []struct {
	key    ebiten.Key
	action app.Action
}{
	{ebiten.KeyT, app.CycleTheme},
	{ebiten.KeyD, app.ToggleDark},
	{ebiten.KeyH, app.ToggleVisible},
	{ebiten.KeySpace, app.PauseAudio},
	{ebiten.KeyEscape, app.Quit},
	{ebiten.KeyQ, app.Quit},
}

// Game implements ebiten.Game. Effects paint into an offscreen image during
// Update; Draw composites it with the retained scene.
type Game struct {
	log  *zap.Logger
	ctrl *app.Controller
	dark <-chan bool

	offscreen *ebiten.Image
	surface   *render.Ebiten
	overlay   *render.Ebiten
	scene     *render.Scene

	width, height int
	layoutW       int
	layoutH       int
	showHelp      bool
	buttons       []*button
}

// New builds the window state. audio may be nil; dark may be nil.
func New(cfg *config.Config, audio app.Audio, dark <-chan bool, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	w, h := cfg.Window.Width, cfg.Window.Height
	g := &Game{
		log:       log,
		dark:      dark,
		offscreen: ebiten.NewImage(w, h),
		scene:     render.NewScene(),
		width:     w,
		height:    h,
		layoutW:   w,
		layoutH:   h,
		showHelp:  true,
	}
	g.buttons = toolbar(
		&button{label: "Open File", onClick: g.openAudio},
		&button{label: "Theme", onClick: g.pickTheme},
	)
	g.surface = render.NewEbiten(g.offscreen)
	g.overlay = render.NewEbiten(g.offscreen)

	win := host.NewWindow(clock.New(), log, float64(w), float64(h), cfg.Dark())
	g.ctrl = app.New(cfg, win, render.Container{Surface: g.surface, Scene: g.scene}, audio, log)
	return g
}

// Start runs the configured theme.
func (g *Game) Start() { g.ctrl.Start() }

// Close stops the effect and the audio.
func (g *Game) Close() { g.ctrl.Close() }

func (g *Game) Update() error {
	g.ctrl.DrainDark(g.dark)
	g.applyLayout()

	for _, k := range keymap {
		if inpututil.IsKeyJustPressed(k.key) && g.ctrl.Do(k.action) {
			return ebiten.Termination
		}
	}
	if g.showHelp {
		g.updateButtons()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.pickTheme()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.openAudio()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.showHelp = !g.showHelp
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.ctrl.Wheel(dy)
	}

	g.ctrl.Frame()
	return nil
}

func (g *Game) applyLayout() {
	if g.layoutW == g.width && g.layoutH == g.height {
		return
	}
	g.width, g.height = g.layoutW, g.layoutH
	g.offscreen.Deallocate()
	g.offscreen = ebiten.NewImage(g.width, g.height)
	g.surface.SetTarget(g.offscreen)
	g.ctrl.Resize(g.width, g.height)
	g.log.Debug("window resized", zap.Int("width", g.width), zap.Int("height", g.height))
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(effect.Background(g.ctrl.Dark()))
	if g.ctrl.Visible() {
		screen.DrawImage(g.offscreen, nil)
		g.overlay.SetTarget(screen)
		g.scene.Paint(g.overlay)
	}

	status := g.ctrl.Status()
	if g.showHelp {
		status += "\n" + help
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
	if g.showHelp {
		for _, b := range g.buttons {
			b.draw(screen)
		}
		drawMeter(screen, g.ctrl.Level())
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.layoutW, g.layoutH = max(outsideWidth, 1), max(outsideHeight, 1)
	return g.layoutW, g.layoutH
}

// Run opens the window and blocks until it closes.
func Run(cfg *config.Config, audio app.Audio, dark <-chan bool, log *zap.Logger) error {
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := New(cfg, audio, dark, log)
	g.Start()
	defer g.Close()

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}
