package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v3"

	"perceptron/internal/nn"
	"perceptron/internal/storage"
)

// Settings holds process-level options. Fields left out of the settings file
// keep their defaults.
type Settings struct {
	ConfigPath string        `yaml:"config_path"`
	Activation string        `yaml:"activation"`
	Store      StoreSettings `yaml:"store"`
	HTTP       HTTPSettings  `yaml:"http"`
	Log        LogSettings   `yaml:"log"`
}

type StoreSettings struct {
	Kind   string `yaml:"kind"`
	DBPath string `yaml:"db_path"`
	// Record, when set, loads the configuration from this stored record
	// instead of ConfigPath.
	Record string `yaml:"record"`
}

type HTTPSettings struct {
	Addr string `yaml:"addr"`
	// Mode is a gin mode: debug, release or test.
	Mode string `yaml:"mode"`
}

type LogSettings struct {
	Level string `yaml:"level"`
	// Format is json, text or auto (text on a terminal, json otherwise).
	Format string `yaml:"format"`
}

// DefaultFiles are searched in order when no settings path is given.
var DefaultFiles = []string{"perceptron.yaml", "perceptron.yml"}

func Default() Settings {
	return Settings{
		ConfigPath: "config.txt",
		Activation: "step",
		Store:      StoreSettings{Kind: storage.DefaultStoreKind(), DBPath: "perceptron.db"},
		HTTP:       HTTPSettings{Addr: ":8080", Mode: "release"},
		Log:        LogSettings{Level: "info", Format: "auto"},
	}
}

// Load returns defaults overridden by the settings file at path. With an
// empty path the first existing DefaultFiles entry is used, and a missing
// file is not an error. An explicit path must exist.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		path = FirstExisting(DefaultFiles...)
		if path == "" {
			return s, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, fmt.Errorf("settings file %q not found", path)
		}
		return s, fmt.Errorf("read settings %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parse settings %q: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Default(), fmt.Errorf("settings %q: %w", path, err)
	}
	return s, nil
}

func (s Settings) Validate() error {
	if _, err := nn.ParseActivation(s.Activation); err != nil {
		return fmt.Errorf("activation: %w", err)
	}
	if _, err := logrus.ParseLevel(s.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(s.Log.Format) {
	case "", "auto", "json", "text":
	default:
		return fmt.Errorf("log.format: unsupported format %q", s.Log.Format)
	}
	switch s.HTTP.Mode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("http.mode: unsupported mode %q", s.HTTP.Mode)
	}
	return nil
}

// FirstExisting returns the first path that exists, or "".
func FirstExisting(paths ...string) string {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
