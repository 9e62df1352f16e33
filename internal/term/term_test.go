package term

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/iburimskiy/backdrop/internal/app"
	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(40, 12)
	return s
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.DarkMode = config.DarkOn
	return cfg
}

func TestAction(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want app.Action
		ok   bool
	}{
		{"theme", tcell.NewEventKey(tcell.KeyRune, 't', tcell.ModNone), app.CycleTheme, true},
		{"dark", tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone), app.ToggleDark, true},
		{"hide", tcell.NewEventKey(tcell.KeyRune, 'H', tcell.ModNone), app.ToggleVisible, true},
		{"pause", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), app.PauseAudio, true},
		{"quit", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), app.Quit, true},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), app.Quit, true},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), app.Quit, true},
		{"unbound rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), 0, false},
		{"unbound key", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := action(tt.ev)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWheel(t *testing.T) {
	assert.Equal(t, 1.0, wheel(tcell.WheelUp))
	assert.Equal(t, -1.0, wheel(tcell.WheelDown))
	assert.Equal(t, 0.0, wheel(tcell.Button1))
}

func TestRunQuitsOnKey(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newScreen(t)
	require.NoError(t, s.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))

	errc := make(chan error, 1)
	go func() { errc <- Run(context.Background(), s, testConfig(), nil, nil, zap.NewNop()) }()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}
}

func TestRunPaintsUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newScreen(t)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- Run(ctx, s, testConfig(), nil, nil, zap.NewNop()) }()

	// a few frames at 30 fps
	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
