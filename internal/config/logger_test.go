package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithWriter_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLoggerWithWriter(LoggerConfig{Level: tt.level, Format: "json"}, &bytes.Buffer{})
			assert.Equal(t, tt.expected, logger.GetLevel())
		})
	}
}

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LoggerConfig{Level: "info", Format: "json"}, &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("component", "test").Msg("visible")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "product-panel", entry["app"])
	assert.Contains(t, entry, "time")
}

func TestNewLoggerWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LoggerConfig{Level: "debug", Format: "console"}, &buf)

	logger.Debug().Msg("console line")

	assert.Contains(t, buf.String(), "console line")
	assert.Contains(t, buf.String(), "app=product-panel")
}
