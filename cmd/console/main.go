package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/black-moon/internal/app"
	"github.com/jwebster45206/black-moon/internal/config"
	"github.com/jwebster45206/black-moon/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, closeLog, err := logger.SetupFile(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLog() // Ignore error in defer
	}()

	runner := &terminalRunner{fps: cfg.FPS}
	game, err := app.New(context.Background(), cfg, runner, log)
	if err != nil {
		log.Error("Failed to start game", "error", err)
		return err
	}
	defer func() {
		_ = game.Close() // Ignore error in defer
	}()
	runner.text = game.Session.Text

	ui := NewConsoleUI(game.Session, runner, log, cfg.Locale == "")
	p := tea.NewProgram(ui,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
