package slog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/butter-bot-machines/cfile/pkg/logging"
	"github.com/butter-bot-machines/cfile/pkg/logging/slog/internal/testutil"
)

func TestLoggerWrapper_Levels(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewLogger(logging.LevelInfo, buf)

	tests := []struct {
		name    string
		logFunc func(string, ...interface{})
		level   string
		want    bool // whether the message should be logged
	}{
		{"Debug below Info", logger.Debug, "DEBUG", false},
		{"Info at Info", logger.Info, "INFO", true},
		{"Warn above Info", logger.Warn, "WARN", true},
		{"Error above Info", logger.Error, "ERROR", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc("test message")

			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("Message logged = %v, want %v", got, tt.want)
			}

			if tt.want && buf.Len() > 0 {
				entry := testutil.ParseLogEntry(t, buf.String())
				if entry.Message != "test message" {
					t.Errorf("Message = %v, want 'test message'", entry.Message)
				}
				if entry.Level != tt.level {
					t.Errorf("Level = %v, want %v", entry.Level, tt.level)
				}
			}
		})
	}
}

func TestLoggerWrapper_Attributes(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewLogger(logging.LevelInfo, buf)

	t.Run("With Attributes", func(t *testing.T) {
		logger := logger.With("handle", 7, "name", "a.bin")
		buf.Reset()

		logger.Info("opened")
		entry := testutil.ParseLogEntry(t, buf.String())

		if entry.Attrs["name"] != "a.bin" {
			t.Errorf("Attribute name = %v, want 'a.bin'", entry.Attrs["name"])
		}
		if entry.Attrs["handle"] != float64(7) { // JSON numbers are float64
			t.Errorf("Attribute handle = %v, want 7", entry.Attrs["handle"])
		}
	})

	t.Run("Odd Attributes", func(t *testing.T) {
		logger := logger.With("key1", "value1", "key2")
		buf.Reset()

		logger.Info("test message")
		entry := testutil.ParseLogEntry(t, buf.String())

		if entry.Attrs["key2"] != "MISSING_VALUE" {
			t.Errorf("Missing value = %v, want 'MISSING_VALUE'", entry.Attrs["key2"])
		}
	})

	t.Run("Non-string Key", func(t *testing.T) {
		buf.Reset()
		logger.Info("test message", 42, "answer")
		entry := testutil.ParseLogEntry(t, buf.String())

		if entry.Attrs["42"] != "answer" {
			t.Errorf("Attribute 42 = %v, want 'answer'", entry.Attrs["42"])
		}
	})
}

func TestLoggerWrapper_Groups(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewLogger(logging.LevelInfo, buf)

	logger.WithGroup("service").With("handle", 1).Info("read", "count", 4)
	entry := testutil.ParseLogEntry(t, buf.String())

	g := entry.Group("service")
	if g == nil {
		t.Fatalf("Group not found in output: %s", buf.String())
	}
	if g["handle"] != float64(1) || g["count"] != float64(4) {
		t.Errorf("Group attributes = %v", g)
	}
}

func TestLoggerWrapper_Output(t *testing.T) {
	buf1 := new(bytes.Buffer)
	logger := NewLogger(logging.LevelInfo, buf1).WithGroup("g").With("k", "v")

	logger.Info("first")
	if buf1.Len() == 0 {
		t.Fatal("Expected output in buffer1")
	}

	// Changing output keeps groups and attributes
	buf2 := new(bytes.Buffer)
	logger.SetOutput(buf2)
	buf1.Reset()

	logger.Info("second")
	if buf1.Len() > 0 {
		t.Error("Expected no output in buffer1")
	}
	entry := testutil.ParseLogEntry(t, buf2.String())
	if g := entry.Group("g"); g == nil || g["k"] != "v" {
		t.Errorf("Attributes lost after SetOutput: %s", buf2.String())
	}
	if logger.GetOutput() != buf2 {
		t.Error("GetOutput did not return the new writer")
	}
}

func TestLoggerWrapper_LevelControl(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewLogger(logging.LevelInfo, buf)

	logger.SetLevel(logging.LevelError)
	logger.Info("info message")
	if buf.Len() > 0 {
		t.Error("Info message should not be logged at Error level")
	}

	logger.Error("error message")
	if buf.Len() == 0 {
		t.Error("Error message should be logged at Error level")
	}

	if got := logger.GetLevel(); got != logging.LevelError {
		t.Errorf("GetLevel() = %v, want Error", got)
	}

	logger.SetLevel(logging.LevelDebug)
	buf.Reset()
	logger.Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Error("Debug message should be logged after lowering the level")
	}
}

func TestNew_TextFormat(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := New(&logging.Options{Level: logging.LevelInfo, Format: logging.FormatText, Output: buf})

	logger.Info("plain", "name", "a.bin")
	out := buf.String()
	if !strings.Contains(out, "msg=plain") || !strings.Contains(out, "name=a.bin") {
		t.Errorf("Unexpected text output: %s", out)
	}
}

func TestNew_Defaults(t *testing.T) {
	logger := New(nil)
	if logger.GetOutput() == nil {
		t.Error("Output should default to stderr")
	}
	if logger.GetLevel() != logging.LevelInfo {
		t.Errorf("GetLevel() = %v, want Info", logger.GetLevel())
	}
}
