package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/iburimskiy/backdrop/internal/pulse"
	"github.com/iburimskiy/backdrop/internal/term"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Draw the background in the terminal",
	Long: `Draw the background with one terminal cell per block of virtual pixels.

Keys: t theme, d dark, h hide, space pause, q or Esc quit. The mouse wheel scrolls.`,
	Args: cobra.NoArgs,
	RunE: runTerm,
}

func runTerm(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	dark, stop, err := watchDark(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stop()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	// info lines would scroll over the picture
	quiet := logger.WithOptions(zap.IncreaseLevel(zapcore.ErrorLevel))
	return term.Run(ctx, screen, cfg, pulse.NewPlayer(quiet), dark, quiet)
}
