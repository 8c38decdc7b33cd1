package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/danieljhkim/viashmerge/internal/clock"
	"github.com/danieljhkim/viashmerge/internal/config"
	"github.com/danieljhkim/viashmerge/internal/decode"
	"github.com/danieljhkim/viashmerge/internal/engine"
	"github.com/danieljhkim/viashmerge/internal/fsops"
	"github.com/danieljhkim/viashmerge/internal/hash"
	"github.com/danieljhkim/viashmerge/internal/logging"
	"github.com/danieljhkim/viashmerge/internal/merge"
)

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine() *engine.Engine {
	s := settings
	if s == nil {
		s = config.DefaultSettings()
	}

	// Create real implementations
	fs := fsops.NewRealFS()
	resolver := merge.NewResolver(fs, decode.Auto, logging.Component("merge"))
	hasher := hash.NewSHA256Hasher()
	clk := &clock.RealClock{}

	// Create engine
	return engine.New(fs, resolver, hasher, clk, s, logging.Component("engine"))
}

// workingDir returns the process working directory, or "" when unknown so
// that paths are resolved by the engine's own fallback.
func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatError formats an error for display.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
