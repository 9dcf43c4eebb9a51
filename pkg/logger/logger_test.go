package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"school-attendance/config"
)

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := NewLogger(&config.LogConfig{Level: "debug", Format: format})
		if err != nil {
			t.Fatalf("NewLogger(%s) should succeed: %v", format, err)
		}
		l.Debug("ok")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestBuildConfig(t *testing.T) {
	cfg, err := buildConfig(&config.LogConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("buildConfig should succeed: %v", err)
	}
	if cfg.InitialFields["service"] != ServiceName {
		t.Errorf("expected service field, got %v", cfg.InitialFields)
	}
	if cfg.Sampling != nil {
		t.Error("json logs should not be sampled")
	}
	if cfg.Level.Level() != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", cfg.Level.Level())
	}
}
