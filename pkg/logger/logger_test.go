package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/logger"
)

func TestNewWritesJSONByDefault(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.Options{})

	log.Info("hello", "k", "v")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "v", line["k"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger.New(&buf, logger.Options{Format: "text"}).Info("hello")

	assert.Contains(t, buf.String(), "msg=hello")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.Options{Level: logger.ParseLevel("warn")})

	log.Info("dropped")
	log.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("nonsense"))
}

func TestWithCtx(t *testing.T) {
	assert.Same(t, logger.L, logger.WithCtx(context.Background()))

	var buf bytes.Buffer
	reqLog := logger.New(&buf, logger.Options{}).With("request_id", "abc")
	ctx := logger.InjectLogger(context.Background(), reqLog)

	logger.WithCtx(ctx).Info("scoped")
	assert.Contains(t, buf.String(), `"request_id":"abc"`)
}

func TestMultiHandlerFanOut(t *testing.T) {
	var a, b bytes.Buffer
	h := logger.NewMultiHandler(
		slog.NewJSONHandler(&a, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewTextHandler(&b, nil),
	)
	log := slog.New(h).With("svc", "users")

	log.Info("info line")
	log.Error("error line")

	assert.Equal(t, 1, strings.Count(a.String(), "\n"), "json sink only takes errors")
	assert.Contains(t, a.String(), `"svc":"users"`)
	assert.Equal(t, 2, strings.Count(b.String(), "\n"))
}
