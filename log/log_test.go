package log

import (
	"encoding/json"
	"strings"
	"testing"

	"log/slog"
)

func TestMake_WritesToWriter(t *testing.T) {
	var buf strings.Builder

	logger := Make(&buf, WithPretty(false), WithFormat(FormatJSON))

	logger.Info("hello", slog.String("key", "value"))

	var entry map[string]any

	if err := json.Unmarshal([]byte(buf.String()), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if entry["msg"] != "hello" {
		t.Errorf("expected msg hello, got %v", entry["msg"])
	}

	if entry["key"] != "value" {
		t.Errorf("expected attribute key=value, got %v", entry["key"])
	}

	if entry["level"] != "INFO" {
		t.Errorf("expected level INFO, got %v", entry["level"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		minimum Level
		logged  Level
		want    bool
	}{
		{"info passes at info", LevelInfo, LevelInfo, true},
		{"debug filtered at info", LevelInfo, LevelDebug, false},
		{"trace filtered at debug", LevelDebug, LevelTrace, false},
		{"trace passes at trace", LevelTrace, LevelTrace, true},
		{"error passes at warn", LevelWarn, LevelError, true},
		{"info filtered at warn", LevelWarn, LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder

			logger := Make(&buf, WithPretty(false), WithLevel(tt.minimum))

			switch tt.logged {
			case LevelTrace:
				logger.Trace("message")
			case LevelDebug:
				logger.Debug("message")
			case LevelInfo:
				logger.Info("message")
			case LevelError:
				logger.Error("message")
			}

			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("expected logged=%v, output %q", tt.want, buf.String())
			}
		})
	}
}

func TestLogger_TraceLevelLabel(t *testing.T) {
	var buf strings.Builder

	logger := Make(&buf, WithPretty(false), WithLevel(LevelTrace))

	logger.Trace("fine detail")

	if !strings.Contains(buf.String(), "TRACE") {
		t.Errorf("expected TRACE label, got %q", buf.String())
	}

	if strings.Contains(buf.String(), "DEBUG-4") {
		t.Errorf("raw slog offset leaked into output: %q", buf.String())
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf strings.Builder

	base := Make(&buf, WithPretty(false), WithLevel(LevelWarn))
	verbose := base.Wrap(WithLevel(LevelDebug))

	base.Debug("quiet")

	if buf.Len() != 0 {
		t.Fatalf("base logger must keep its level, got %q", buf.String())
	}

	verbose.Debug("loud")

	if !strings.Contains(buf.String(), "loud") {
		t.Errorf("wrapped logger must apply its own level, got %q", buf.String())
	}

	if base.Level() != LevelWarn || verbose.Level() != LevelDebug {
		t.Errorf("expected independent levels, got %v and %v",
			base.Level(), verbose.Level())
	}
}

func TestLogger_With(t *testing.T) {
	var buf strings.Builder

	logger := Make(&buf, WithPretty(false), WithFormat(FormatJSON)).
		With(slog.String("component", "engine"))

	logger.Info("ready")

	var entry map[string]any

	if err := json.Unmarshal([]byte(buf.String()), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if entry["component"] != "engine" {
		t.Errorf("expected bound attribute, got %v", entry)
	}
}

func TestLogger_ZeroValueDiscards(t *testing.T) {
	var logger Logger

	// Must not panic; messages go nowhere.
	logger.Trace("a")
	logger.Debug("b")
	logger.Info("c")
	logger.Warn("d")
	logger.Error("e")

	if logger.Level() != DefaultLevel {
		t.Errorf("expected default level, got %v", logger.Level())
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("expected default format, got %v", logger.Format())
	}
}

func TestMake_NilWriterDiscards(t *testing.T) {
	logger := Make(nil)

	// Must not panic writing to the discard sink.
	logger.Info("dropped")
}
