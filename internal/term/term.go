// Package term hosts backdrop in a terminal: every cell shows the colour
// of the virtual pixel at its centre.
package term

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/iburimskiy/backdrop/internal/app"
	"github.com/iburimskiy/backdrop/internal/clock"
	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/iburimskiy/backdrop/internal/effect"
	"github.com/iburimskiy/backdrop/internal/host"
	"github.com/iburimskiy/backdrop/internal/render"
	"go.uber.org/zap"
)

const (
	// CellWidth and CellHeight are the virtual pixels behind one cell.
	CellWidth  = 8.0
	CellHeight = 16.0

	frameInterval = time.Second / 30
)

// Run drives the controller on an initialized screen until the context ends
// or the user quits. Run finalizes the screen before returning.
func Run(ctx context.Context, screen tcell.Screen, cfg *config.Config, audio app.Audio, dark <-chan bool, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	screen.EnableMouse()
	screen.HideCursor()

	cells := render.NewCells(screen, CellWidth, CellHeight)
	scene := render.NewScene()
	w, h := cells.Size()
	win := host.NewWindow(clock.New(), log, float64(w), float64(h), cfg.Dark())
	ctrl := app.New(cfg, win, render.Container{Surface: cells, Scene: scene}, audio, log)
	ctrl.Start()

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	defer func() {
		ctrl.Close()
		close(done)
		screen.Fini()
		wg.Wait()
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	log.Info("terminal host started", zap.Int("cols", w/int(CellWidth)), zap.Int("rows", h/int(CellHeight)))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if handle(ev, ctrl, cells, screen) {
				return nil
			}
		case <-ticker.C:
			ctrl.DrainDark(dark)
			cells.SetBase(effect.Background(ctrl.Dark()))
			ctrl.Frame()
			if scene.Len() > 0 {
				cells.Clear()
				if ctrl.Visible() {
					scene.Paint(cells)
				}
			}
			cells.Flush()
			drawStatus(screen, ctrl.Status())
			screen.Show()
		}
	}
}

// handle applies one terminal event and reports whether to quit.
func handle(ev tcell.Event, ctrl *app.Controller, cells *render.Cells, screen tcell.Screen) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		screen.Sync()
		cells.Resize()
		ctrl.Resize(cells.Size())
	case *tcell.EventMouse:
		if n := wheel(ev.Buttons()); n != 0 {
			ctrl.Wheel(n)
		}
	case *tcell.EventKey:
		if a, ok := action(ev); ok {
			return ctrl.Do(a)
		}
	}
	return false
}

// wheel converts wheel buttons into notches, positive for up.
func wheel(b tcell.ButtonMask) float64 {
	switch {
	case b&tcell.WheelUp != 0:
		return 1
	case b&tcell.WheelDown != 0:
		return -1
	}
	return 0
}

func action(ev *tcell.EventKey) (app.Action, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return app.Quit, true
	case tcell.KeyRune:
	default:
		return 0, false
	}
	switch ev.Rune() {
	case 't', 'T':
		return app.CycleTheme, true
	case 'd', 'D':
		return app.ToggleDark, true
	case 'h', 'H':
		return app.ToggleVisible, true
	case ' ':
		return app.PauseAudio, true
	case 'q', 'Q':
		return app.Quit, true
	}
	return 0, false
}

func drawStatus(screen tcell.Screen, status string) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	x := 0
	for _, r := range status {
		screen.SetContent(x, 0, r, nil, style)
		x++
	}
}
