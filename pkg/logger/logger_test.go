package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSetGlobal(t *testing.T) {
	prev := Global()
	defer SetGlobal(prev)

	nop := NewNop()
	SetGlobal(nop)
	if Global() != nop {
		t.Fatal("expected global logger to be replaced")
	}
}
