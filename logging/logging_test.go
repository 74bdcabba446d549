package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" info ":  zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"Warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"loud":    zerolog.InfoLevel,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info", false)

	logger.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Info().Str("level_file", "demo.json").Msg("loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "loaded", entry["message"])
	assert.Equal(t, "demo.json", entry["level_file"])
	assert.Contains(t, entry, "time")
}

func TestNewWithWriter_Pretty(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "debug", true)

	logger.Debug().Msg("frame")
	assert.Contains(t, buf.String(), "frame")
	assert.Contains(t, buf.String(), "DBG")
}
