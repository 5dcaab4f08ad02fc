package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/mortgage-calculator/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LoggingConfig
		override  string
		expected  zapcore.Level
		expectErr bool
	}{
		{name: "Default level", expected: zapcore.InfoLevel},
		{name: "Configured debug", cfg: config.LoggingConfig{Level: "debug"}, expected: zapcore.DebugLevel},
		{name: "Override wins", cfg: config.LoggingConfig{Level: "debug"}, override: "error", expected: zapcore.ErrorLevel},
		{name: "Warning alias", cfg: config.LoggingConfig{Level: "warning"}, expected: zapcore.WarnLevel},
		{name: "Console format", cfg: config.LoggingConfig{Format: "console"}, expected: zapcore.InfoLevel},
		{name: "Invalid level", cfg: config.LoggingConfig{Level: "verbose"}, expectErr: true},
		{name: "Invalid format", cfg: config.LoggingConfig{Format: "xml"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg, tt.override)
			if tt.expectErr {
				if err == nil {
					t.Fatal("NewLogger() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			if !logger.Core().Enabled(tt.expected) {
				t.Errorf("expected level %s to be enabled", tt.expected)
			}
			if tt.expected > zapcore.DebugLevel && logger.Core().Enabled(tt.expected-1) {
				t.Errorf("expected level %s to be disabled", tt.expected-1)
			}
		})
	}
}

func TestNewLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "calculator.log")

	logger, err := NewLogger(config.LoggingConfig{OutputFile: path}, "")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Info("calculated", zap.String("op", "logging.test"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"op":"logging.test"`) {
		t.Errorf("expected JSON log line with op field, got %q", string(data))
	}
}
