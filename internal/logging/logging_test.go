package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Leveler
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFieldHelpers(t *testing.T) {
	if f := String("k", "v"); f.Key != "k" || f.Value != "v" {
		t.Fatalf("String: %+v", f)
	}
	if f := Int("n", 3); f.Value != 3 {
		t.Fatalf("Int: %+v", f)
	}
	if f := Float64("x", 1.5); f.Value != 1.5 {
		t.Fatalf("Float64: %+v", f)
	}
	if f := Any("a", []int{1}); f.Key != "a" {
		t.Fatalf("Any: %+v", f)
	}
}

func TestNoopLoggerIsSafe(t *testing.T) {
	log := Noop().With(String("k", "v"))
	ctx := context.Background()
	log.Debug(ctx, "a")
	log.Info(ctx, "b", Int("n", 1))
	log.Warn(ctx, "c")
	log.Error(ctx, "d")
}

func TestNewDoesNotPanicOnAnyConfig(t *testing.T) {
	for _, cfg := range []Config{
		{},
		{Level: "debug", Format: "json"},
		{Level: "error", Format: "text", AddSource: true},
	} {
		log := New(cfg)
		log.Info(context.Background(), "constructed", Any("cfg", cfg))
	}
}
