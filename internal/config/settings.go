package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/viashmerge/internal/fsops"
)

// Settings controls discovery, logging and watching.
type Settings struct {
	// PackageFiles are the file names that mark a package root.
	PackageFiles []string `yaml:"package_files"`

	// ComponentPatterns select component configs below a package root.
	ComponentPatterns []string `yaml:"component_patterns"`

	// Exclude prunes paths from discovery.
	Exclude []string `yaml:"exclude"`

	// LogLevel is the default log level name.
	LogLevel string `yaml:"log_level"`

	// WatchDebounce is how long watch waits for a burst of events to settle.
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() *Settings {
	return &Settings{
		PackageFiles:      []string{"_viash.yaml", "_viash.yml"},
		ComponentPatterns: []string{"**/*.vsh.yaml", "**/*.vsh.yml"},
		Exclude:           []string{"**/node_modules/**", "**/.git/**"},
		LogLevel:          "warn",
		WatchDebounce:     100 * time.Millisecond,
	}
}

// LoadSettings reads the config file at path over the defaults and applies
// environment overrides. A missing file is not an error.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if level := os.Getenv("VIASHMERGE_LOG_LEVEL"); level != "" {
		s.LogLevel = level
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return s, nil
}

// Load resolves the default paths and loads settings from them.
func Load() (*Paths, *Settings, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, nil, err
	}
	settings, err := LoadSettings(paths.Config)
	if err != nil {
		return nil, nil, err
	}
	return paths, settings, nil
}

// Validate checks that the settings can drive discovery.
func (s *Settings) Validate() error {
	if len(s.PackageFiles) == 0 {
		return errors.New("package_files must not be empty")
	}
	if len(s.ComponentPatterns) == 0 {
		return errors.New("component_patterns must not be empty")
	}
	if err := fsops.ValidatePatterns(s.ComponentPatterns); err != nil {
		return err
	}
	if err := fsops.ValidatePatterns(s.Exclude); err != nil {
		return err
	}
	if s.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must not be negative, got %s", s.WatchDebounce)
	}
	return nil
}
