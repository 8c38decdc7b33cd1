package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, WarnLevel, cfg.Level)
	assert.Equal(t, os.Stderr, cfg.Output)
	assert.False(t, cfg.Pretty)
	assert.Equal(t, time.RFC3339, cfg.TimeFormat)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"DEBUG", DebugLevel, false},
		{"debug", DebugLevel, false},
		{"  info  ", InfoLevel, false},
		{"warn", WarnLevel, false},
		{"WARNING", WarnLevel, false},
		{"", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"off", Disabled, false},
		{"verbose", WarnLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInit(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })

	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: InfoLevel, Output: &buf})

		Info().Str("path", "/pkg/a.yaml").Msg("loaded")
		Debug().Msg("hidden")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)

		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, "loaded", entry["message"])
		assert.Equal(t, "/pkg/a.yaml", entry["path"])
		assert.Contains(t, entry, "time")
	})

	t.Run("pretty output", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: DebugLevel, Output: &buf, Pretty: true})

		Warn().Msg("watch restarted")
		assert.Contains(t, buf.String(), "watch restarted")
		assert.False(t, strings.HasPrefix(buf.String(), "{"))
	})

	t.Run("component logger", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: DebugLevel, Output: &buf})

		log := Component("merge")
		log.Debug().Msg("x")
		assert.Contains(t, buf.String(), `"component":"merge"`)
	})
}
