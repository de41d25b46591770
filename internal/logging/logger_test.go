package logging

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"Debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},        // Default
		{"invalid", slog.LevelInfo}, // Default for unknown
		{"trace", slog.LevelInfo},   // Unknown level defaults to info
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := parseLevel(tc.input)
			if result != tc.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tc.input, result, tc.expected)
			}
		})
	}
}

func TestNewLogger_Formats(t *testing.T) {
	testCases := []string{"json", "text", "JSON", "TEXT", "", "invalid"}

	for _, format := range testCases {
		t.Run(format, func(t *testing.T) {
			logger := NewLogger(format, "info", false, "eth0")
			if logger == nil {
				t.Error("NewLogger returned nil")
			}
		})
	}
}

func TestNewLogger_Levels(t *testing.T) {
	testCases := []string{"debug", "info", "warn", "error", "", "invalid"}

	for _, level := range testCases {
		t.Run(level, func(t *testing.T) {
			logger := NewLogger("json", level, false, "eth0")
			if logger == nil {
				t.Error("NewLogger returned nil")
			}
		})
	}
}

func TestNewLogger_VerboseOverride(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLoggerWithWriter(&buf, "text", "error")
	logger.Debug("debug message")

	if strings.Contains(buf.String(), "debug message") {
		t.Error("Error-level logger should not log debug messages")
	}

	verboseLogger := NewLogger("text", "error", true, "eth0")
	if verboseLogger == nil {
		t.Error("NewLogger with verbose=true returned nil")
	}
}

func TestNewLogger_CarriesComponentAndInterface(t *testing.T) {
	// NewLogger writes to whatever os.Stderr is when it is called, so point
	// os.Stderr at a temp file while the logger is built.
	f, err := os.CreateTemp(t.TempDir(), "stderr")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()
	origStderr := os.Stderr
	os.Stderr = f
	logger := NewLogger("json", "info", false, "wlan0")
	os.Stderr = origStderr
	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}

	logger.Info("test message")
	out, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(out), `"component":"httpwatch"`) {
		t.Errorf("Expected component attr in output, got: %s", out)
	}
	if !strings.Contains(string(out), `"interface":"wlan0"`) {
		t.Errorf("Expected interface attr in output, got: %s", out)
	}
}

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLoggerWithWriter(&buf, "json", "info")
	logger.Info("test message", "key", "value")

	output := buf.String()

	if !strings.Contains(output, "{") || !strings.Contains(output, "}") {
		t.Errorf("Expected JSON format, got: %s", output)
	}
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected message in output, got: %s", output)
	}
	if !strings.Contains(output, `"key"`) {
		t.Errorf("Expected key in output, got: %s", output)
	}
	if !strings.Contains(output, `"value"`) {
		t.Errorf("Expected value in output, got: %s", output)
	}
}

func TestNewLoggerWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLoggerWithWriter(&buf, "text", "info")
	logger.Info("test message", "key", "value")

	output := buf.String()

	if !strings.Contains(output, "test message") {
		t.Errorf("Expected message in output, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("Expected key=value in output, got: %s", output)
	}
}

func TestNewLoggerWithWriter_LevelFiltering(t *testing.T) {
	t.Run("debug_logs_all", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerWithWriter(&buf, "text", "debug")

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		output := buf.String()
		if !strings.Contains(output, "debug msg") {
			t.Error("Debug level should log debug messages")
		}
		if !strings.Contains(output, "info msg") {
			t.Error("Debug level should log info messages")
		}
		if !strings.Contains(output, "warn msg") {
			t.Error("Debug level should log warn messages")
		}
		if !strings.Contains(output, "error msg") {
			t.Error("Debug level should log error messages")
		}
	})

	t.Run("info_filters_debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerWithWriter(&buf, "text", "info")

		logger.Debug("debug msg")
		logger.Info("info msg")

		output := buf.String()
		if strings.Contains(output, "debug msg") {
			t.Error("Info level should not log debug messages")
		}
		if !strings.Contains(output, "info msg") {
			t.Error("Info level should log info messages")
		}
	})

	t.Run("warn_filters_info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerWithWriter(&buf, "text", "warn")

		logger.Info("info msg")
		logger.Warn("warn msg")

		output := buf.String()
		if strings.Contains(output, "info msg") {
			t.Error("Warn level should not log info messages")
		}
		if !strings.Contains(output, "warn msg") {
			t.Error("Warn level should log warn messages")
		}
	})

	t.Run("error_filters_warn", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerWithWriter(&buf, "text", "error")

		logger.Warn("warn msg")
		logger.Error("error msg")

		output := buf.String()
		if strings.Contains(output, "warn msg") {
			t.Error("Error level should not log warn messages")
		}
		if !strings.Contains(output, "error msg") {
			t.Error("Error level should log error messages")
		}
	})
}

func TestNewLoggerWithWriter_DefaultFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLoggerWithWriter(&buf, "invalid", "info")
	logger.Info("test message")

	output := buf.String()

	if strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Error("Default format should be text, not JSON")
	}
}

func TestSetDefault(t *testing.T) {
	originalDefault := slog.Default()
	defer slog.SetDefault(originalDefault)

	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "text", "info")

	SetDefault(logger)

	slog.Info("from default logger")
	if !strings.Contains(buf.String(), "from default logger") {
		t.Error("SetDefault did not set the default logger")
	}
}

func TestNewLoggerWithWriter_EmptyStrings(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLoggerWithWriter(&buf, "", "")
	if logger == nil {
		t.Error("NewLoggerWithWriter returned nil")
	}

	logger.Info("test message")
	if !strings.Contains(buf.String(), "test message") {
		t.Error("Logger with empty strings should still work")
	}
}
