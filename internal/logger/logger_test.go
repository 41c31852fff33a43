package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestConfig_Level(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, Config{}.Level())
	assert.Equal(t, zerolog.DebugLevel, Config{Verbose: true}.Level())
	assert.Equal(t, zerolog.ErrorLevel, Config{Silent: true}.Level())
	assert.Equal(t, zerolog.ErrorLevel, Config{Silent: true, Verbose: true}.Level())
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Config{JSON: true})

	log.Debug().Msg("hidden")
	log.Info().Str("album", "/travel/").Msg("rendered")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"album":"/travel/"`)
	assert.Contains(t, out, `"message":"rendered"`)
}

func TestNew_Silent(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Config{Silent: true, JSON: true})

	log.Warn().Msg("warned")
	log.Error().Msg("failed")

	assert.NotContains(t, buf.String(), "warned")
	assert.Contains(t, buf.String(), "failed")
}
