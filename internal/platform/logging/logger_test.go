package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_KeyValueArgs(t *testing.T) {
	core, logs := observer.New(LevelDebug)
	logger := FromZap(zap.New(core))

	logger.Info("digest published", "sink", "webhook", "bytes", 128)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["sink"] != "webhook" {
		t.Fatalf("unexpected sink field: %v", fields["sink"])
	}
	if fields["bytes"] != int64(128) {
		t.Fatalf("unexpected bytes field: %v", fields["bytes"])
	}
}

func TestLogger_DanglingKeyDoesNotPanic(t *testing.T) {
	core, logs := observer.New(LevelDebug)
	logger := FromZap(zap.New(core))

	logger.Warn("partial args", "orphan")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if _, ok := entries[0].ContextMap()["orphan"]; !ok {
		t.Fatalf("expected orphan key to be kept: %v", entries[0].ContextMap())
	}
}

func TestLogger_WithAttachesFields(t *testing.T) {
	core, logs := observer.New(LevelDebug)
	logger := FromZap(zap.New(core)).With("component", "notifier")

	logger.Info("run finished")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["component"] != "notifier" {
		t.Fatalf("expected component field, got %v", entries[0].ContextMap())
	}
}
