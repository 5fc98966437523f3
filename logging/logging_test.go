package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"debug", Config{Level: "debug", Encoding: "json"}, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"upper case", Config{Level: "WARN"}, zapcore.WarnLevel, zapcore.InfoLevel},
		{"unknown level", Config{Level: "chatty", Encoding: "console"}, zapcore.InfoLevel, zapcore.DebugLevel},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			log, err := New(test.cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if !log.Core().Enabled(test.enabled) {
				t.Errorf("level %v is disabled", test.enabled)
			}
			if log.Core().Enabled(test.muted) {
				t.Errorf("level %v is enabled", test.muted)
			}
		})
	}
}

func TestNew_BadEncoding(t *testing.T) {
	if _, err := New(Config{Level: "info", Encoding: "xml"}); err == nil {
		t.Error("New() expected an error for an unknown encoding")
	}
}
