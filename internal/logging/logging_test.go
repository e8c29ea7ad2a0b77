package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		want    zapcore.Level
	}{
		{"default", false, false, zapcore.WarnLevel},
		{"verbose", true, false, zapcore.DebugLevel},
		{"quiet", false, true, zapcore.ErrorLevel},
		{"quiet wins", true, true, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Level(tt.verbose, tt.quiet); got != tt.want {
				t.Errorf("Level() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, false, false)
	logger.Info("hidden")
	logger.Warn("markdown image skipped", zap.String("ref", "x.png"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info should be filtered at the default level")
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, `"ref": "x.png"`) {
		t.Errorf("output = %q", out)
	}
}
