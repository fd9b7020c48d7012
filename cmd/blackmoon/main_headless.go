//go:build !cgo

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
		fmt.Printf("Black Moon %s (text mode)\n", version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// run plays in text mode. The window build needs cgo for raylib.
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

	ctx := context.Background()
	game, err := app.New(ctx, cfg, nil, log)
	if err != nil {
		return err
	}
	defer func() {
		_ = game.Close() // Ignore error in defer
	}()

	fmt.Fprintln(os.Stderr, "Built without cgo: playing in text mode, encounters run unattended.")
	return playText(ctx, game.Session, os.Stdin, os.Stdout)
}
