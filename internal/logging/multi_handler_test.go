package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiHandlerFansOut(t *testing.T) {
	var buf1, buf2 bytes.Buffer

	logger := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelInfo}),
	))

	logger.Info("fan out", "key", "value")

	assert.Contains(t, buf1.String(), "fan out")
	assert.Contains(t, buf2.String(), "fan out")
}

func TestMultiHandlerRespectsLevels(t *testing.T) {
	var info, errOnly bytes.Buffer

	logger := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errOnly, &slog.HandlerOptions{Level: slog.LevelError}),
	))

	logger.Info("routine event")
	logger.Error("broken event")

	assert.Contains(t, info.String(), "routine event")
	assert.Contains(t, info.String(), "broken event")
	assert.NotContains(t, errOnly.String(), "routine event")
	assert.Contains(t, errOnly.String(), "broken event")
}

func TestMultiHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)).With("request_id", "abc-123")

	logger.Info("tagged")

	assert.Contains(t, buf.String(), "request_id")
	assert.Contains(t, buf.String(), "abc-123")
}
