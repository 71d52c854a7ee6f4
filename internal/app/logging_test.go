package app

import (
	"bytes"
	"strings"
	"testing"
)

func newBufferLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(LoggerConfig{Level: level, Output: &buf, Prefix: "wordlens"}), &buf
}

func TestLogLevel_ParseAndString(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
		name string
	}{
		{"debug", LogLevelDebug, "DEBUG"},
		{"DEBUG", LogLevelDebug, "DEBUG"},
		{"info", LogLevelInfo, "INFO"},
		{"warning", LogLevelWarn, "WARN"},
		{"Warn", LogLevelWarn, "WARN"},
		{"error", LogLevelError, "ERROR"},
		{"verbose", LogLevelInfo, "INFO"},
		{"", LogLevelInfo, "INFO"},
	}
	for _, tt := range tests {
		got := ParseLogLevel(tt.in)
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if got.String() != tt.name {
			t.Errorf("ParseLogLevel(%q).String() = %q, want %q", tt.in, got.String(), tt.name)
		}
	}
	if got := LogLevel(42).String(); got != "UNKNOWN" {
		t.Errorf("LogLevel(42).String() = %q", got)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level   LogLevel
		present []string
		absent  []string
	}{
		{LogLevelDebug, []string{"level=DEBUG", "level=INFO", "level=WARN", "level=ERROR"}, nil},
		{LogLevelWarn, []string{"level=WARN", "level=ERROR"}, []string{"level=DEBUG", "level=INFO"}},
		{LogLevelError, []string{"level=ERROR"}, []string{"level=WARN"}},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			logger, buf := newBufferLogger(tt.level)
			logger.Debug("caret resolved")
			logger.Info("image search")
			logger.Warn("opening browser failed")
			logger.Error("event handling failed")

			out := buf.String()
			for _, want := range tt.present {
				if !strings.Contains(out, want) {
					t.Errorf("missing %q in %s", want, out)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(out, unwanted) {
					t.Errorf("unexpected %q in %s", unwanted, out)
				}
			}
		})
	}
}

func TestLogger_Attributes(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo)

	logger.WithComponent("lens").
		WithField("engine", "bing").
		WithFields(map[string]any{"rules": 12}).
		Info("image search", "word", "lantern")

	out := buf.String()
	for _, want := range []string{`msg="image search"`, "app=wordlens", "component=lens", "engine=bing", "rules=12", "word=lantern"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %s", want, out)
		}
	}
}

func TestLogger_DerivedShareState(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelError)
	child := logger.WithComponent("config").Slog()

	child.Info("settings reloaded")
	if buf.Len() != 0 {
		t.Fatalf("info logged at error level: %s", buf)
	}

	logger.SetLevel(LogLevelInfo)
	child.Info("settings reloaded")
	if !strings.Contains(buf.String(), "component=config") {
		t.Errorf("derived logger ignored SetLevel: %s", buf)
	}

	buf.Reset()
	logger.Disable()
	child.Error("watch failed")
	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote %s", buf)
	}
	logger.Enable()
	child.Error("watch failed")
	if buf.Len() == 0 {
		t.Error("re-enabled logger wrote nothing")
	}
}

func TestLogger_SetOutput(t *testing.T) {
	logger, first := newBufferLogger(LogLevelInfo)
	var second bytes.Buffer

	logger.Info("viewer started")
	logger.SetOutput(&second)
	logger.Info("viewer stopped")

	if !strings.Contains(first.String(), "viewer started") || strings.Contains(first.String(), "viewer stopped") {
		t.Errorf("first output = %s", first.String())
	}
	if !strings.Contains(second.String(), "viewer stopped") {
		t.Errorf("second output = %s", second.String())
	}
}

func TestLoggerDefaults(t *testing.T) {
	if NewLogger(LoggerConfig{}).out.w == nil {
		t.Error("NewLogger should default the output")
	}

	cfg := DefaultLoggerConfig()
	if cfg.Level != LogLevelInfo || cfg.Output == nil || cfg.Prefix != "wordlens" {
		t.Errorf("DefaultLoggerConfig() = %+v", cfg)
	}

	NullLogger.Error("dropped")
	if GetLogger() == nil || GetLogger() != GetLogger() {
		t.Error("GetLogger() should return one shared logger")
	}
}
