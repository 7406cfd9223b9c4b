package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(&Options{
		Level:  LevelInfo,
		Format: FormatText,
		Output: buf,
	})

	// Debug should not be logged
	logger.Debug("debug message")
	if buf.Len() > 0 {
		t.Error("Debug message was logged when level is Info")
	}

	// Info should be logged
	buf.Reset()
	logger.Info("info message")
	if !strings.Contains(buf.String(), "info message") {
		t.Error("Info message was not logged correctly")
	}
}

func TestJSONFormatting(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(&Options{
		Level:  LevelInfo,
		Format: FormatJSON,
		Output: buf,
	})

	logger.With("handle", 3).Info("opened", "name", "a.bin")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if entry["msg"] != "opened" {
		t.Errorf("msg = %v, want opened", entry["msg"])
	}
	if entry["name"] != "a.bin" || entry["handle"] != float64(3) {
		t.Errorf("Attributes not correctly encoded: %v", entry)
	}
}

func TestResolveFormat(t *testing.T) {
	// A regular file is never a terminal
	f, err := os.Create(filepath.Join(t.TempDir(), "log"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer f.Close()

	tests := []struct {
		name   string
		format Format
		w      interface{ Write([]byte) (int, error) }
		want   Format
	}{
		{"explicit text", FormatText, &bytes.Buffer{}, FormatText},
		{"explicit json", FormatJSON, f, FormatJSON},
		{"auto on buffer", FormatAuto, &bytes.Buffer{}, FormatJSON},
		{"empty on buffer", "", &bytes.Buffer{}, FormatJSON},
		{"auto on file", FormatAuto, f, FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveFormat(tt.format, tt.w); got != tt.want {
				t.Errorf("ResolveFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidLevel) {
				t.Errorf("ParseLevel(%q) error = %v, want ErrInvalidLevel", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatAuto, "JSON": FormatJSON, "text": FormatText, "auto": FormatAuto} {
		got, err := ParseFormat(in)
		if err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ParseFormat(xml) error = %v, want ErrInvalidFormat", err)
	}
}

func TestLevelSlog(t *testing.T) {
	for _, l := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		if got := l.Slog().String(); got != l.String() {
			t.Errorf("%v.Slog() = %v", l, got)
		}
	}
	if got := Level(42).Slog().String(); got != "INFO" {
		t.Errorf("unknown level maps to %v, want INFO", got)
	}
}
