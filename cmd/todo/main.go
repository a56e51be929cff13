package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/Makepad-fr/tada/internal/cli"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	configPath := flag.String("config", "", "path to a JSON config file")
	dataDir := flag.String("dir", "", "data directory (default .tada)")
	theme := flag.String("theme", "", "classic | neon | mono")
	groupPending := flag.Bool("group", false, "group output by pending/done")
	where := flag.String("where", "", "filter expression for ls, e.g. '!done'")
	async := flag.Bool("async", false, "queue storage writes behind a worker")
	noColor := flag.Bool("no-color", false, "disable colors")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			ui.Fail(os.Stderr, err.Error())
			os.Exit(1)
		}
		cfg = *loaded
	}
	env := config.FromEnv()
	cfg.Merge(&env)
	cfg.Merge(&config.Config{
		DataDir:     *dataDir,
		Theme:       *theme,
		Group:       *groupPending,
		AsyncWrites: *async,
		NoColor:     *noColor,
	})
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		ui.Fail(os.Stderr, err.Error())
		os.Exit(2)
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ui.SetColor(cfg.NoColor)
	ui.SetTheme(cfg.Theme)

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stdout)
		os.Exit(2)
	}

	// Interrupt stops serve cleanly so queued writes are flushed.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(args, cli.Options{
		Context: ctx,
		Config:  cfg,
		Where:   *where,
		Logger:  logger,
	})
	stop()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
