package logger

import (
	"context"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	l := Get()
	if l == nil {
		t.Fatal("expected a global logger after Init")
	}

	ctx := context.Background()
	l.Info(ctx, "info message", String("key", "value"))
	l.Debug(ctx, "debug message", Int("count", 3))
	l.Warn(ctx, "warn message", Bool("flag", true))
	l.Error(ctx, "error message", Float64("score", 61.5))

	named := l.Named("subsystem")
	if named == nil {
		t.Fatal("expected a named logger")
	}
	named.Info(ctx, "named message")
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	cases := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"", false},
		{"warn", false},
		{"warning", false},
		{"error", false},
		{"DEBUG", false},
		{" info ", false},
		{"verbose", true},
		{"trace", true},
	}

	for _, tc := range cases {
		err := SetLevelString(tc.level)
		if tc.wantErr && err == nil {
			t.Errorf("SetLevelString(%q): expected error, got nil", tc.level)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("SetLevelString(%q): unexpected error: %v", tc.level, err)
		}
	}
}
