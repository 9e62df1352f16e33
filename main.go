// Command backdrop renders animated backgrounds: soft red halos, drifting
// smoke or a linked constellation, in a window, a terminal or to PNG files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/iburimskiy/backdrop/internal/game"
	"github.com/iburimskiy/backdrop/internal/pulse"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	themeFlag  string
	darkFlag   string
	renderFlag string
	audioFlag  string
	verbose    bool

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "backdrop",
	Short: "Animated background themes",
	Long: `backdrop draws a procedural background behind nothing in particular.

Themes: halos (soft red blobs that drift, breathe and react to scrolling),
smoke and topology. Scrolling the mouse wheel or playing audio speeds the
animation up.

Keys: T theme, L theme list, O open audio, D dark, H hide, Space pause, Q quit.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err = newLogger(cfg.Log.Level, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debug("config loaded",
			zap.String("path", configPath),
			zap.String("theme", cfg.Theme),
			zap.String("renderer", cfg.Renderer))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runWindow,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().StringVarP(&themeFlag, "theme", "t", "", "Theme: halos, smoke or topology")
	rootCmd.PersistentFlags().StringVar(&darkFlag, "dark", "", "Dark mode: auto, dark or light")
	rootCmd.PersistentFlags().StringVar(&renderFlag, "renderer", "", "Halo renderer: surface or elements")
	rootCmd.PersistentFlags().StringVar(&audioFlag, "audio", "", "Audio file to play at start")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(termCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the command-line flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("theme") {
		c.Theme = themeFlag
	}
	if flags.Changed("dark") {
		c.DarkMode = darkFlag
	}
	if flags.Changed("renderer") {
		c.Renderer = renderFlag
	}
	if flags.Changed("audio") {
		c.Audio.Path = audioFlag
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zc.Level = lvl
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

// watchDark starts the dark-file watcher when one is configured. The
// returned channel is nil otherwise.
func watchDark(ctx context.Context, c *config.Config, log *zap.Logger) (<-chan bool, func(), error) {
	if c.DarkFile == "" {
		return nil, func() {}, nil
	}
	w, err := config.NewDarkWatcher(c.DarkFile, log)
	if err != nil {
		return nil, nil, err
	}
	if err := w.Start(ctx); err != nil {
		return nil, nil, err
	}
	return w.Changes(), w.Stop, nil
}

func runWindow(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	dark, stop, err := watchDark(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stop()

	logger.Info("opening window",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.String("theme", cfg.Theme))
	return game.Run(cfg, pulse.NewPlayer(logger), dark, logger)
}
