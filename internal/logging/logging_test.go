package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		format string
		level  string
		want   zapcore.Level
	}{
		{"json", "", zapcore.InfoLevel},
		{"json", "info", zapcore.InfoLevel},
		{"console", "debug", zapcore.DebugLevel},
		{"json", "warn", zapcore.WarnLevel},
		{"JSON", "ERROR", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		logger, err := New(tt.format, tt.level)
		if err != nil {
			t.Fatalf("New(%q, %q) error: %v", tt.format, tt.level, err)
		}
		if !logger.Core().Enabled(tt.want) {
			t.Errorf("New(%q, %q) should enable %v", tt.format, tt.level, tt.want)
		}
	}
}

func TestNewUnknownLevel(t *testing.T) {
	if _, err := New("json", "verbose"); err == nil {
		t.Fatal("Expected error for unknown level")
	}
}
