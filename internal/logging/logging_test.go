package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, parseLevel("trace"))
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("Info"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel("ERROR"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("bogus"))
}

func TestLogFilePath(t *testing.T) {
	start := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	path := LogFilePath("/var/log/wayfarer", "wayfarerd", start)

	assert.Contains(t, path, "wayfarerd.20260314_150926.log")
}

func TestSetup_WritesToFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	logger := Setup("debug", &buf)

	logger.Info().Str("roomId", "r1").Msg("marker created")

	out := buf.String()
	assert.Contains(t, out, "marker created")
	assert.Contains(t, out, "roomId")
}

func TestSetup_RespectsLevel(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	logger := Setup("error", &buf)

	logger.Debug().Msg("should be filtered")
	logger.Error().Msg("should appear")

	out := buf.String()
	assert.NotContains(t, out, "should be filtered")
	assert.Contains(t, out, "should appear")
}
