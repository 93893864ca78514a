package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	quiet := New(false)
	if quiet.Core().Enabled(zapcore.InfoLevel) {
		t.Error("non-verbose logger should not emit info")
	}
	if !quiet.Core().Enabled(zapcore.WarnLevel) {
		t.Error("non-verbose logger should emit warnings")
	}

	verbose := New(true)
	if !verbose.Core().Enabled(zapcore.DebugLevel) {
		t.Error("verbose logger should emit debug")
	}
}
