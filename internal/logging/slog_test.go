package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()

	tests := []struct {
		level string
		msg   string
		key   string
		val   string
	}{
		{"DEBUG", "dbg", "a", "1"},
		{"INFO", "inf", "b", "2"},
		{"WARN", "wrn", "c", "3"},
		{"ERROR", "err", "d", "4"},
	}

	for _, tc := range tests {
		if !strings.Contains(out, "level="+tc.level) {
			t.Fatalf("expected line with level=%s in output:\n%s", tc.level, out)
		}
		if !strings.Contains(out, "msg="+tc.msg) {
			t.Fatalf("expected line with msg=%q in output:\n%s", tc.msg, out)
		}
		if !strings.Contains(out, tc.key+"="+tc.val) {
			t.Fatalf("expected attribute %s=%s in output:\n%s", tc.key, tc.val, out)
		}
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("module", "water", "user_id", "u1").Info(context.Background(), "intake", "amount_ml", 250)

	out := buf.String()
	for _, s := range []string{"level=INFO", "msg=intake", "module=water", "user_id=u1", "amount_ml=250"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
}

func TestNewJSONLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, slog.LevelInfo)

	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "shown", "k", "v")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	require.Equal(t, "shown", rec["msg"])
	require.Equal(t, "v", rec["k"])
}

func TestNop_DoesNotPanic(t *testing.T) {
	var l Logger = Nop{}
	ctx := context.TODO()
	l.With("a", 1).Info(ctx, "x")
	l.Debug(ctx, "x")
	l.Warn(ctx, "x")
	l.Error(ctx, "x")
}

func TestSlogLogger_AddsRequestIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := NewTextLogger(&buf, slog.LevelDebug)

	ctx := WithRequestID(context.Background(), "req-42")
	require.Equal(t, "req-42", RequestID(ctx))
	log.With("module", "consumption").Warn(ctx, "conflict", "attempt", 2)
	log.Info(context.Background(), "plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "request_id=req-42")
	require.Contains(t, lines[0], "module=consumption")
	require.NotContains(t, lines[1], "request_id")
}

func TestRequestID_Empty(t *testing.T) {
	require.Empty(t, RequestID(context.Background()))
}
