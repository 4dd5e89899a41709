package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_WithCarriesFieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core)).With("component", "scoring")

	logger.WarnContext(context.Background(), "compute failed", "match_id", "m-1", "error", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "scoring" {
		t.Fatalf("unexpected component field: %v", fields["component"])
	}
	if fields["match_id"] != "m-1" {
		t.Fatalf("unexpected match_id field: %v", fields["match_id"])
	}
	if fields["error"] != "boom" {
		t.Fatalf("unexpected error field: %v", fields["error"])
	}
}

func TestLogger_MirrorReceivesEnabledLevelsOnly(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core)).With("service", "fantasy-cricket-api")

	var got []string
	var gotArgs []any
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		got = append(got, level.String()+":"+msg)
		gotArgs = args
	})
	t.Cleanup(func() { SetMirror(nil) })

	logger.DebugContext(context.Background(), "debug is filtered")
	logger.InfoContext(context.Background(), "matches synced", "count", 3)

	if len(got) != 1 || got[0] != "info:matches synced" {
		t.Fatalf("unexpected mirrored logs: %v", got)
	}
	if len(gotArgs) != 4 || gotArgs[0] != "service" || gotArgs[2] != "count" {
		t.Fatalf("unexpected mirrored args: %v", gotArgs)
	}
}

func TestZapFields_OddArgumentCount(t *testing.T) {
	fields := zapFields([]any{"match_id", "m-1", "dangling"})
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[1].Key != "dangling" {
		t.Fatalf("unexpected dangling key: %s", fields[1].Key)
	}
}
