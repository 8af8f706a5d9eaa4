package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")
	ctx := context.Background()

	log.Debug(ctx, "dbg")
	log.Info(ctx, "inf")
	log.Warn(ctx, "wrn", "route", "/documents/")
	log.Error(ctx, "err", "status", 500)

	out := buf.String()
	require.NotContains(t, out, "msg=dbg")
	require.NotContains(t, out, "msg=inf")
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "route=/documents/")
	require.Contains(t, out, "level=ERROR")
	require.Contains(t, out, "status=500")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" DEBUG ": slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		require.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug")

	child := log.With("request_id", "r-1", "user", "alice")
	child.Info(context.Background(), "hello", "k", "v")

	for _, s := range []string{"level=INFO", "msg=hello", "request_id=r-1", "user=alice", "k=v"} {
		if !strings.Contains(buf.String(), s) {
			t.Fatalf("expected %q in output, got:\n%s", s, buf.String())
		}
	}
}

func TestNop_DiscardsEverything(t *testing.T) {
	log := Nop()
	ctx := context.TODO()
	log.Debug(ctx, "x")
	log.Info(ctx, "x")
	log.Warn(ctx, "x")
	log.Error(ctx, "x")
	require.NotNil(t, log.With("a", 1))
}
