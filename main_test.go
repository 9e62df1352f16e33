package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func smallConfig(t *testing.T, theme string) *config.Config {
	t.Helper()
	c := config.Default()
	c.Window.Width, c.Window.Height = 64, 48
	c.Theme = theme
	c.DarkMode = config.DarkOn
	require.NoError(t, c.Validate())
	return c
}

func TestSnapshotWritesFrames(t *testing.T) {
	for _, name := range []string{"halos", "smoke", "topology"} {
		t.Run(name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "frames")
			paths, err := snapshot(smallConfig(t, name), snapshotOptions{
				Frames:   3,
				Interval: 50 * time.Millisecond,
				Out:      out,
				Scroll:   10,
			}, zap.NewNop())
			require.NoError(t, err)
			require.Len(t, paths, 3)
			assert.Equal(t, filepath.Join(out, "frame-002.png"), paths[2])

			f, err := os.Open(paths[0])
			require.NoError(t, err)
			defer f.Close()
			img, err := png.Decode(f)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())
		})
	}
}

func TestSnapshotElementsRenderer(t *testing.T) {
	c := smallConfig(t, "halos")
	c.Renderer = config.Elements
	paths, err := snapshot(c, snapshotOptions{Frames: 2, Interval: time.Second, Out: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestSnapshotRejectsBadOptions(t *testing.T) {
	c := smallConfig(t, "halos")
	_, err := snapshot(c, snapshotOptions{Frames: 0, Interval: time.Second, Out: t.TempDir()}, zap.NewNop())
	assert.Error(t, err)
	_, err = snapshot(c, snapshotOptions{Frames: 1, Out: t.TempDir()}, zap.NewNop())
	assert.Error(t, err)
}

func TestComposeFillsBackground(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(1, 0, color.RGBA{R: 255, A: 255})

	dark := compose(src, true)
	assert.Equal(t, color.RGBA{A: 255}, dark.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, dark.RGBAAt(1, 0))

	light := compose(src, false)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, light.RGBAAt(0, 0))
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	t.Setenv("BACKDROP_THEME", "")
	t.Setenv("BACKDROP_DARK", "")
	t.Setenv("BACKDROP_RENDERER", "")

	dir := t.TempDir()
	configPath = filepath.Join(dir, "backdrop.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("theme: topology\nrenderer: elements\n"), 0o644))

	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&themeFlag, "theme", "", "")
	cmd.Flags().StringVar(&darkFlag, "dark", "", "")
	cmd.Flags().StringVar(&renderFlag, "renderer", "", "")
	cmd.Flags().StringVar(&audioFlag, "audio", "", "")
	require.NoError(t, cmd.Flags().Set("theme", "smoke"))

	c, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "smoke", c.Theme)
	assert.Equal(t, config.Elements, c.Renderer)

	require.NoError(t, cmd.Flags().Set("renderer", "canvas3d"))
	_, err = loadConfig(cmd)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))

	l, err = newLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	_, err = newLogger("loud", false)
	assert.Error(t, err)
}
