package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"perceptron/internal/configio"
	"perceptron/internal/session"
	"perceptron/internal/settings"
	"perceptron/internal/storage"
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	settingsPath string
	configPath   string
	fromStore    string
	storeKind    string
	dbPath       string
	logLevel     string
	logFormat    string

	settings settings.Settings
	logger   *logrus.Logger
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr, settings: settings.Default()}
}

// setup loads the settings file and applies flags the user set explicitly.
func (a *app) setup(cmd *cobra.Command) error {
	s, err := settings.Load(a.settingsPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("config") {
		s.ConfigPath = a.configPath
	}
	if flags.Changed("from-store") {
		s.Store.Record = a.fromStore
	}
	if flags.Changed("store") {
		s.Store.Kind = a.storeKind
	}
	if flags.Changed("db-path") {
		s.Store.DBPath = a.dbPath
	}
	if flags.Changed("log-level") {
		s.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		s.Log.Format = a.logFormat
	}
	if err := s.Validate(); err != nil {
		return err
	}
	a.settings = s

	logger, err := newLogger(s.Log, a.stderr)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

func newLogger(cfg settings.LogSettings, w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)

	format := cfg.Format
	if format == "" || format == "auto" {
		format = "json"
		if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			format = "text"
		}
	}
	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

func (a *app) openStore(ctx context.Context) (storage.Store, error) {
	store, err := storage.NewStore(a.settings.Store.Kind, a.settings.Store.DBPath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		_ = storage.CloseIfSupported(store)
		return nil, err
	}
	return store, nil
}

// source resolves where the configuration is read from. The returned close
// function is always non-nil.
func (a *app) source(ctx context.Context) (configio.Source, func(), error) {
	if a.settings.Store.Record == "" {
		return configio.FileSource(a.settings.ConfigPath), func() {}, nil
	}
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, func() {}, err
	}
	return configio.StoreSource(store, a.settings.Store.Record), func() { _ = storage.CloseIfSupported(store) }, nil
}

// load reads the configuration into a fresh holder.
func (a *app) load(ctx context.Context) (*session.Snapshot, error) {
	src, closeSrc, err := a.source(ctx)
	if err != nil {
		return nil, err
	}
	defer closeSrc()

	holder := session.NewHolder(a.logger)
	snap, err := holder.Reload(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}
	return snap, nil
}
