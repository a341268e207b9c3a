package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/ecuations-d/internal/audio"
	"github.com/vovakirdan/ecuations-d/internal/config"
	"github.com/vovakirdan/ecuations-d/internal/core"
	"github.com/vovakirdan/ecuations-d/internal/games/ecuations"
	"github.com/vovakirdan/ecuations-d/internal/mission"
	"github.com/vovakirdan/ecuations-d/internal/storage"
)

// app holds what every game-running command shares.
type app struct {
	logger  *log.Logger
	logFile *os.File
	cfg     config.EcuationsConfig
	catalog *mission.Catalog
	store   *storage.Store
	player  *audio.Player
}

type setupOptions struct {
	logToStderr bool // serve logs to the terminal; the TUI commands cannot
	audio       bool
	store       bool
}

// setup loads config and missions, opens storage and audio, and registers
// every mission with the registry.
func setup(opts setupOptions) (*app, error) {
	a := &app{}

	logger, logFile, err := newLogger(opts.logToStderr)
	if err != nil {
		return nil, err
	}
	a.logger, a.logFile = logger, logFile

	cfg, err := config.LoadEcuations(flagConfig)
	if err != nil {
		a.Close()
		return nil, err
	}
	preset, err := config.ParseDifficultyPreset(flagDifficulty)
	if err != nil {
		a.Close()
		return nil, err
	}
	config.ApplyDifficulty(&cfg, preset)
	if flagMute {
		cfg.Audio.Enabled = false
	}
	a.cfg = cfg

	catalog, err := mission.LoadCatalog(expandHome(flagMissions))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.catalog = catalog

	if opts.store {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			// Summaries are optional; the game still works.
			logger.Warn("could not open summaries database", "path", flagDBPath, "error", err)
		}
		a.store = store
	}

	gameOpts := ecuations.Options{
		Config: cfg,
		Logger: logger,
	}
	if a.store != nil {
		gameOpts.Sink = a.store
	}
	if opts.audio && cfg.Audio.Enabled {
		a.player = audio.NewPlayer(cfg.Audio, logger)
		if err := a.player.Init(); err != nil {
			logger.Warn("audio unavailable, continuing silent", "error", err)
		}
		gameOpts.Sounds = a.player
	}

	ecuations.Register(catalog.List(), gameOpts)

	logger.Debug("ready",
		"missions", catalog.Len(),
		"difficulty", string(preset),
		"audio", cfg.Audio.Enabled,
	)
	return a, nil
}

// Close releases storage, audio and the log file.
func (a *app) Close() {
	if a.player != nil {
		a.player.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// newLogger builds the logger from --log-level and --log-file.
func newLogger(toStderr bool) (*log.Logger, *os.File, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	var w io.Writer = io.Discard
	var f *os.File
	switch {
	case flagLogFile != "":
		path := expandHome(flagLogFile)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
	case toStderr:
		w = os.Stderr
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "ecuations",
		Level:           level,
	})
	return logger, f, nil
}

// runtimeConfig sizes the screen to the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
	}
}

// expandHome replaces a leading ~ with the home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// fatal prints an error and exits.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
