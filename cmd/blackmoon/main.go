//go:build cgo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jwebster45206/black-moon/internal/app"
	"github.com/jwebster45206/black-moon/internal/config"
	"github.com/jwebster45206/black-moon/internal/logger"
)

// version is injected at build time.
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()
	if *showVersion {
		fmt.Printf("Black Moon %s\n", version)
		return
	}

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

	runner := &windowRunner{}
	game, err := app.New(context.Background(), cfg, runner, log)
	if err != nil {
		log.Error("Failed to start game", "error", err)
		return err
	}
	defer func() {
		_ = game.Close() // Ignore error in defer
	}()

	runner.text = game.Session.Text
	ui := newWindowUI(game.Session, cfg, log)
	return ui.Run()
}
