package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		name     string
		level    LogLevel
		expected string
	}{
		{"DEBUG level", DEBUG, "DEBUG"},
		{"INFO level", INFO, "INFO"},
		{"WARN level", WARN, "WARN"},
		{"ERROR level", ERROR, "ERROR"},
		{"Unknown level", LogLevel(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.level.String(); result != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  LogLevel
		wantError bool
	}{
		{"Parse DEBUG", "DEBUG", DEBUG, false},
		{"Parse debug lowercase", "debug", DEBUG, false},
		{"Parse INFO", "INFO", INFO, false},
		{"Parse WARN", "WARN", WARN, false},
		{"Parse WARNING", "WARNING", WARN, false},
		{"Parse ERROR with spaces", " error ", ERROR, false},
		{"Parse invalid", "INVALID", INFO, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantError {
				t.Errorf("ParseLevel() error = %v, wantError %v", err, tt.wantError)
			}
			if !tt.wantError && result != tt.expected {
				t.Errorf("ParseLevel() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	logger := New()

	if logger == nil {
		t.Fatal("New() returned nil")
	}
	if logger.level != INFO {
		t.Errorf("Default level = %v, want %v", logger.level, INFO)
	}
	if logger.stage != "" {
		t.Errorf("Default stage = %v, want empty string", logger.stage)
	}
	if logger.fields == nil {
		t.Error("Fields map not initialized")
	}
}

func TestLogger_WithFields(t *testing.T) {
	logger := New()

	newLogger := logger.WithFields("key1", "value1", "key2", 123, "key3", true)
	if newLogger == logger {
		t.Error("WithFields should return new logger instance")
	}
	if len(newLogger.fields) != 3 {
		t.Errorf("Expected 3 fields, got %d", len(newLogger.fields))
	}
	if len(logger.fields) != 0 {
		t.Errorf("WithFields mutated the parent logger")
	}

	oddLogger := logger.WithFields("key1", "value1", "key2")
	if len(oddLogger.fields) != 1 {
		t.Errorf("Expected 1 field with odd args, got %d", len(oddLogger.fields))
	}
}

func TestLogger_WithStage(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{Level: INFO, Output: &buf}).WithField("existing", "field")

	staged := logger.WithStage("flatbuffers")
	if staged.Stage() != "flatbuffers" {
		t.Errorf("Stage() = %v, want 'flatbuffers'", staged.Stage())
	}
	if staged.fields["existing"] != "field" {
		t.Error("WithStage should preserve existing fields")
	}

	staged.Info("compiling")
	if !strings.Contains(buf.String(), "[INFO] [flatbuffers] compiling") {
		t.Errorf("stage missing from output: %q", buf.String())
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{
		Level:  INFO,
		Output: &buf,
	})

	logger.Debug("debug message")
	if buf.Len() > 0 {
		t.Error("DEBUG message logged when level is INFO")
	}

	for _, log := range []func(string, ...interface{}){logger.Info, logger.Warn, logger.Error} {
		buf.Reset()
		log("visible message")
		if !strings.Contains(buf.String(), "visible message") {
			t.Errorf("message not logged at level INFO: %q", buf.String())
		}
	}
}

func TestLogger_FieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{Level: DEBUG, Output: &buf})

	logger.WithField("zeta", 1).Info("scan complete", "alpha", "x", "mid", 2)

	output := buf.String()
	if !strings.Contains(output, "| alpha=x mid=2 zeta=1") {
		t.Errorf("fields not sorted: %q", output)
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{
		Level:  ERROR,
		Output: &buf,
	})

	logger.Info("should not appear")
	if buf.Len() > 0 {
		t.Error("INFO logged when level is ERROR")
	}

	logger.SetLevel(INFO)
	logger.Info("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Error("INFO not logged after level changed to INFO")
	}
	if logger.GetLevel() != INFO {
		t.Errorf("GetLevel() = %v, want INFO", logger.GetLevel())
	}
	if logger.IsDebugEnabled() {
		t.Error("IsDebugEnabled() = true at INFO")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{"Simple string", "hello", "hello"},
		{"String with spaces", "hello world", `"hello world"`},
		{"String slice", []string{"a.proto", "b.proto"}, "[a.proto,b.proto]"},
		{"Integer", 42, "42"},
		{"Error", errors.New("test error"), `"test error"`},
		{"Duration", time.Second, "1s"},
		{"Nil", nil, "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := formatValue(tt.value); result != tt.expected {
				t.Errorf("formatValue(%v) = %v, want %v", tt.value, result, tt.expected)
			}
		})
	}
}

func TestGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	previous := Default()
	SetOutput(&buf)
	defer func() { globalLogger = previous }()

	SetLevel(DEBUG)
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
	WithStage("proto").WithField("id", "123").Info("staged")

	output := buf.String()
	for _, want := range []string{"debug msg", "info msg", "warn msg", "error msg", "[proto] staged | id=123"} {
		if !strings.Contains(output, want) {
			t.Errorf("global output missing %q: %q", want, output)
		}
	}
}

func BenchmarkLogger_InfoWithFields(b *testing.B) {
	logger := NewWithConfig(Config{
		Level:  INFO,
		Output: &bytes.Buffer{},
	})

	contextLogger := logger.WithFields("tool", "protoc")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		contextLogger.Info("message", "additional", "field")
	}
}
