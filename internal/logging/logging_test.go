package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestJSONLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "debug", Format: "json"}, &buf)

	log.With(String("chart", "tod")).Info(context.Background(), "computed",
		Float("ground_roll_m", 180), Err(errors.New("boom")))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "computed", rec["msg"])
	assert.Equal(t, "tod", rec["chart"])
	assert.Equal(t, 180.0, rec["ground_roll_m"])
	assert.Equal(t, "boom", rec["error"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "warn"}, &buf)

	log.Info(context.Background(), "dropped")
	assert.Zero(t, buf.Len())

	log.Warn(context.Background(), "kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestOutputUsesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aquila.log")
	w, ok := output(Config{File: path}).(*lumberjack.Logger)
	require.True(t, ok, "file output should rotate")
	assert.Equal(t, path, w.Filename)
	assert.Equal(t, 64, w.MaxSize)
	require.NoError(t, w.Close())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_FILE", "/tmp/x.log")

	cfg := ConfigFromEnv()
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "/tmp/x.log", cfg.File)
}

func TestRequestIDHelpers(t *testing.T) {
	ctx, id := EnsureRequestID(context.Background())
	require.NotEmpty(t, id)
	assert.Equal(t, id, RequestIDFromContext(ctx))

	again, same := EnsureRequestID(ctx)
	assert.Equal(t, id, same)
	assert.Equal(t, ctx, again)

	var buf bytes.Buffer
	base := NewWithWriter(Config{Format: "json"}, &buf)
	ctx, l := WithRequestLogger(ContextWithRequestID(context.Background(), "abc"), base)
	l.Info(ctx, "hello")
	assert.Contains(t, buf.String(), `"request_id":"abc"`)
}

func TestFromContext(t *testing.T) {
	fallback := Noop()
	assert.Equal(t, fallback, FromContext(context.Background(), fallback))
	assert.NotNil(t, FromContext(context.Background(), nil))

	var buf bytes.Buffer
	l := NewWithWriter(Config{}, &buf)
	ctx := ContextWithLogger(context.Background(), l)
	assert.Same(t, l.(*slogger), FromContext(ctx, fallback).(*slogger))
}
