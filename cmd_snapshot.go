package main

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/iburimskiy/backdrop/internal/app"
	"github.com/iburimskiy/backdrop/internal/clock"
	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/iburimskiy/backdrop/internal/effect"
	"github.com/iburimskiy/backdrop/internal/host"
	"github.com/iburimskiy/backdrop/internal/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	snapFrames   int
	snapInterval time.Duration
	snapOut      string
	snapScroll   float64
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render frames to PNG files without a window",
	Long: `Render the configured theme on a software canvas with a simulated clock
and write every frame as frame-NNN.png.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := snapshot(cfg, snapshotOptions{
			Frames:   snapFrames,
			Interval: snapInterval,
			Out:      snapOut,
			Scroll:   snapScroll,
		}, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", len(paths), snapOut)
		return nil
	},
}

func init() {
	snapshotCmd.Flags().IntVarP(&snapFrames, "frames", "n", 60, "Number of frames to render")
	snapshotCmd.Flags().DurationVar(&snapInterval, "interval", time.Second/60, "Simulated time between frames")
	snapshotCmd.Flags().StringVarP(&snapOut, "out", "o", "frames", "Output directory")
	snapshotCmd.Flags().Float64Var(&snapScroll, "scroll", 0, "Pixels to scroll on every frame")
}

type snapshotOptions struct {
	Frames   int
	Interval time.Duration
	Out      string
	// Scroll is applied before every frame, as if the page were scrolled.
	Scroll float64
}

// snapshot renders frames on a mock clock and writes them as PNGs.
func snapshot(c *config.Config, opts snapshotOptions, log *zap.Logger) ([]string, error) {
	if opts.Frames <= 0 {
		return nil, errors.New("snapshot: frames must be positive")
	}
	if opts.Interval <= 0 {
		return nil, errors.New("snapshot: interval must be positive")
	}
	if err := os.MkdirAll(opts.Out, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	w, h := c.Window.Width, c.Window.Height
	clk := clock.NewMock(time.Unix(0, 0))
	canvas := render.NewCanvas(w, h)
	scene := render.NewScene()
	win := host.NewWindow(clk, log, float64(w), float64(h), c.Dark())
	ctrl := app.New(c, win, render.Container{Surface: canvas, Scene: scene}, nil, log)
	ctrl.Start()
	defer ctrl.Close()

	paths := make([]string, 0, opts.Frames)
	for i := range opts.Frames {
		clk.Advance(opts.Interval)
		if opts.Scroll != 0 {
			win.ScrollBy(opts.Scroll)
		}
		ctrl.Frame()
		if scene.Len() > 0 {
			canvas.Clear()
			scene.Paint(canvas)
		}

		path := filepath.Join(opts.Out, fmt.Sprintf("frame-%03d.png", i))
		if err := writeFrame(path, compose(canvas.Image(), ctrl.Dark())); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	log.Info("snapshot written",
		zap.Int("frames", len(paths)),
		zap.String("dir", opts.Out),
		zap.Stringer("theme", ctrl.Theme()))
	return paths, nil
}

// compose lays the transparent drawing over the page background.
func compose(src *image.RGBA, dark bool) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), image.NewUniform(effect.Background(dark)), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
	return dst
}

func writeFrame(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create frame: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return f.Close()
}
