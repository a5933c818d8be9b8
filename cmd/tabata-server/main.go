package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/lowaak/tabata-timer/internal/api"
	"github.com/lowaak/tabata-timer/internal/config"
	"github.com/lowaak/tabata-timer/internal/trainer"
)

const uiLogChanSize = 100

func main() {
	flags := pflag.NewFlagSet("tabata-server", pflag.ExitOnError)
	config.RegisterFlags(flags)
	must("parse flags", flags.Parse(os.Args[1:]))

	cfg, err := config.Load(flags)
	must("load config", err)

	// The log channel backs GET /v1/logs
	uiLogChan := make(chan string, uiLogChanSize)
	logger := log.New(io.MultiWriter(os.Stderr, trainer.NewUILogWriter(uiLogChan)), "", log.LstdFlags)

	settingsPath := cfg.SettingsFile
	if settingsPath == "" {
		settingsPath, err = trainer.DefaultSettingsPath()
		must("locate settings file", err)
	}
	store := trainer.NewSettingsStore(settingsPath, logger)
	settings, err := store.Load()
	if err != nil {
		logger.Printf("Using default settings: %v", err)
	}

	model := trainer.NewUIModel(logger, uiLogChan)
	manager := trainer.NewWorkoutManager(model, trainer.WorkoutManagerConfig{
		Settings:      settings,
		WarningWindow: cfg.WarningWindow,
		TickInterval:  cfg.TickInterval,
	}, logger)

	srv := api.NewServer(cfg.ListenAddr, manager, model, store, logger)
	runErr := srv.Run()

	srv.Close()
	manager.Shutdown()
	model.Shutdown()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "tabata-server: %v\n", runErr)
		os.Exit(1)
	}
}

func must(action string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "tabata-server: failed to %s: %v\n", action, err)
		os.Exit(1)
	}
}
