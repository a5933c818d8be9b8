package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rivo/tview"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lowaak/tabata-timer/internal/audio"
	"github.com/lowaak/tabata-timer/internal/config"
	"github.com/lowaak/tabata-timer/internal/trainer"
)

const uiLogChanSize = 100

func main() {
	flags := pflag.NewFlagSet("tabata", pflag.ExitOnError)
	config.RegisterFlags(flags)
	must("parse flags", flags.Parse(os.Args[1:]))

	cfg, err := config.Load(flags)
	must("load config", err)

	// stdout belongs to the terminal UI: log to a rotating file and the log pane
	uiLogChan := make(chan string, uiLogChanSize)
	logFile := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	}
	defer logFile.Close()
	logger := log.New(io.MultiWriter(logFile, trainer.NewUILogWriter(uiLogChan)), "", log.Ltime)

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

	player := audio.NewPlayer(audio.Config{
		Enabled:    cfg.Audio,
		SampleRate: cfg.SampleRate,
		Volume:     cfg.Volume,
	}, logger)
	var unlistenCues func()
	if player.Enabled() {
		unlistenCues = manager.ListenToCues(player.Play)
	}

	controller := trainer.NewUIController(model, manager, store, logger)

	app := tview.NewApplication()
	view := trainer.NewBaseUIView(trainer.NewBaseUIViewArg{
		UIViewImpl:   trainer.NewCursesUIView(logger, app),
		UIModel:      model,
		UIController: controller,
		Logger:       logger,
	})

	logger.Printf("Tabata timer ready (settings: %s)", store.Path())
	runErr := view.Run()

	// Stop producers before their consumers
	view.Shutdown()
	if unlistenCues != nil {
		unlistenCues()
	}
	controller.Shutdown()
	player.Close()
	if dropped := player.Dropped(); dropped > 0 {
		logger.Printf("Audio: %d cues dropped while the player was busy", dropped)
	}
	model.Shutdown()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "tabata: %v\n", runErr)
		os.Exit(1)
	}
}

func must(action string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "tabata: failed to %s: %v\n", action, err)
		os.Exit(1)
	}
}
