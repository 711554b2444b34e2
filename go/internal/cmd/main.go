package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/mcdev12/brickgame/go/internal/config"
	"github.com/mcdev12/brickgame/go/internal/terminal"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	showHistory := flag.Bool("history", false, "print recent game results and exit")
	flag.Parse()

	// load .env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := setupLogging(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	// signal-aware context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := setupServices(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to set up services")
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer services.Close()

	if *showHistory {
		if err := printHistory(ctx, services, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, cfg, services); err != nil {
		log.Error().Err(err).Msg("brickgame exited with error")
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("brickgame stopped")
}

func run(ctx context.Context, cfg *config.Config, services *Services) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mirrorErr := startMirror(ctx, services)

	app := terminal.NewApp(screen, services.Client, services.Keymap, services.SessionOptions(cfg), services.Results(), terminalConfig(cfg))

	runErr := app.Run(ctx)
	cancel()

	if err := <-mirrorErr; err != nil {
		log.Error().Err(err).Msg("mirror server failed")
	}
	return runErr
}

func terminalConfig(cfg *config.Config) terminal.Config {
	tc := terminal.DefaultConfig()
	tc.MainWidth = cfg.Board.Width
	tc.MainHeight = cfg.Board.Height
	tc.NextWidth = cfg.Board.NextWidth
	tc.NextHeight = cfg.Board.NextHeight
	tc.RepeatWindow = cfg.Input.RepeatWindow
	return tc
}
