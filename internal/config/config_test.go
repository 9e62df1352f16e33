package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iburimskiy/backdrop/internal/halo"
	"github.com/iburimskiy/backdrop/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{envTheme, envDark, envRender} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, halo.DefaultParams(), cfg.HaloParams())
	assert.Equal(t, theme.Halos, cfg.ThemeName())
}

func TestLoadMergesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "backdrop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
theme: topology
dark_mode: light
renderer: elements
trail: true
halos:
  min: 3
  max: 4
  max_life: 30s
scroll:
  settle: 200ms
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, theme.Topology, cfg.ThemeName())
	assert.Equal(t, Elements, cfg.Renderer)
	assert.True(t, cfg.Trail)
	assert.False(t, cfg.Dark())

	p := cfg.HaloParams()
	assert.Equal(t, 3, p.MinHalos)
	assert.Equal(t, 4, p.MaxHalos)
	assert.Equal(t, 20*time.Second, p.MinLife)
	assert.Equal(t, 30*time.Second, p.MaxLife)
	assert.Equal(t, 200*time.Millisecond, cfg.ScrollParams().Settle)
	assert.Equal(t, 0.92, cfg.ScrollParams().Decay)
	assert.Equal(t, 1024, cfg.Window.Width)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(envTheme, "smoke")
	t.Setenv(envDark, "true")
	t.Setenv(envRender, "ELEMENTS")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, theme.Smoke, cfg.ThemeName())
	assert.Equal(t, DarkOn, cfg.DarkMode)
	assert.True(t, cfg.Dark())
	assert.Equal(t, Elements, cfg.Renderer)

	t.Setenv(envDark, "light")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Dark())
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cases := map[string]string{
		"theme":    "theme: waves",
		"dark":     "dark_mode: dim",
		"renderer": "renderer: webgl",
		"halos":    "halos: {min: 9, max: 2}",
		"decay":    "scroll: {decay: 1.5}",
		"window":   "window: {width: 0}",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestSystemPrefersDark(t *testing.T) {
	env := func(kv map[string]string) func(string) string {
		return func(k string) string { return kv[k] }
	}
	assert.True(t, SystemPrefersDark(env(map[string]string{"GTK_THEME": "Adwaita:dark"})))
	assert.True(t, SystemPrefersDark(env(map[string]string{"COLORFGBG": "15;0"})))
	assert.True(t, SystemPrefersDark(env(map[string]string{"COLORFGBG": "15;default;0"})))
	assert.False(t, SystemPrefersDark(env(map[string]string{"COLORFGBG": "0;15"})))
	assert.False(t, SystemPrefersDark(env(map[string]string{"GTK_THEME": "Adwaita"})))
	assert.False(t, SystemPrefersDark(env(nil)))
}

func TestReadDark(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mode")

	_, ok, err := ReadDark(path)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte(" Dark\n"), 0o644))
	dark, ok, err := ReadDark(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, dark)

	require.NoError(t, os.WriteFile(path, []byte("sepia"), 0o644))
	_, ok, _ = ReadDark(path)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("light"), 0o644))
	cfg := Default()
	cfg.DarkMode = DarkOn
	cfg.DarkFile = path
	assert.False(t, cfg.Dark(), "dark file overrides dark_mode")
}

func TestDarkWatcherReportsEdits(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "mode")
	require.NoError(t, os.WriteFile(path, []byte("dark"), 0o644))

	w, err := NewDarkWatcher(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(path, []byte("light"), 0o644))
	select {
	case dark := <-w.Changes():
		assert.False(t, dark)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	w.Stop()
	w.Stop()
}

func TestDarkWatcherStopsOnContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	w, err := NewDarkWatcher(filepath.Join(t.TempDir(), "mode"), nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(ctx))
	cancel()
	w.Stop()
}

func TestDarkWatcherPublishKeepsLatest(t *testing.T) {
	w, err := NewDarkWatcher(filepath.Join(t.TempDir(), "mode"), nil)
	require.NoError(t, err)
	defer w.Stop()

	w.publish(true)
	w.publish(false)
	assert.False(t, <-w.Changes())
	select {
	case v := <-w.Changes():
		t.Fatalf("unexpected extra value %v", v)
	default:
	}
}

func TestEffectsCarryConfig(t *testing.T) {
	cfg := Default()
	cfg.Renderer = Elements
	cfg.Trail = true
	cfg.Scroll.Gain = 0.03

	opts := cfg.Effects()
	assert.Equal(t, cfg.HaloParams(), opts.Halos.Params)
	assert.EqualValues(t, Elements, opts.Halos.Renderer)
	assert.True(t, opts.Halos.Trail)
	assert.Equal(t, 0.03, opts.Halos.Scroll.Gain)
	assert.Equal(t, opts.Halos.Scroll, opts.Fog.Scroll)
	assert.Equal(t, opts.Halos.Scroll, opts.Topology.Scroll)
}
