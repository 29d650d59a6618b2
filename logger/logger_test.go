package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newJSONLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	l := NewWithWriter(&Config{Level: level, Format: FormatJSON}, "locus-test", buf)
	return l, buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.Service() != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.Service())
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l := New(&Config{Level: "invalid-level", Format: FormatJSON, Output: "stdout"}, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	if l := NewFromEnv("env-svc"); l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestJSONOutputCarriesFields(t *testing.T) {
	l, buf := newJSONLogger(t, "debug")

	l.WithComponent("resolver").Info("resolved", Fields(FieldTarget, "back", FieldSource, "cache"))

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	got := lines[0]
	if got["message"] != "resolved" {
		t.Errorf("message = %v", got["message"])
	}
	if got[FieldComponent] != "resolver" {
		t.Errorf("component = %v", got[FieldComponent])
	}
	if got[FieldTarget] != "back" || got[FieldSource] != "cache" {
		t.Errorf("unexpected fields: %v", got)
	}
	if got[FieldService] != "locus-test" {
		t.Errorf("service = %v", got[FieldService])
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newJSONLogger(t, "warn")

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")

	lines := decodeLines(t, buf)
	if len(lines) != 1 || lines[0]["message"] != "shown" {
		t.Fatalf("expected only the warn line, got %v", lines)
	}
}

func TestWithContext(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	ctx := ContextWithRequestID(context.Background(), "req-1")

	l.WithContext(ctx).Info("hello")

	lines := decodeLines(t, buf)
	if lines[0][FieldRequestID] != "req-1" {
		t.Errorf("expected request id, got %v", lines[0])
	}
}

func TestWithFieldsAndError(t *testing.T) {
	l, buf := newJSONLogger(t, "info")

	l.WithFields(map[string]interface{}{"key": "value"}).WithError(errors.New("boom")).Error("failed")

	got := decodeLines(t, buf)[0]
	if got["key"] != "value" {
		t.Errorf("key = %v", got["key"])
	}
	if got[FieldError] != "boom" {
		t.Errorf("error = %v", got[FieldError])
	}
}

func TestNewNopDiscards(t *testing.T) {
	l := NewNop()
	l.Error("nothing")
	if l.Service() != "nop" {
		t.Errorf("unexpected service %q", l.Service())
	}
}

func TestInitSetsGlobal(t *testing.T) {
	Init(Config{ServiceName: "locus", Level: "info", Format: FormatJSON, Output: "stdout"})
	gl := GetGlobalLogger()
	if gl == nil || gl.Service() != "locus" {
		t.Fatalf("expected global logger for 'locus', got %+v", gl)
	}
}

func TestSetGlobalLogger(t *testing.T) {
	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	Init(Config{Level: "debug", Format: FormatConsole, Output: "stdout", NoColor: true})
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
	WithComponent("x").Info("component msg")
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != FormatConsole {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"valid pretty", Config{Level: "warn", Format: "pretty"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConsoleOutputTagsService(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewWithWriter(&Config{Level: "info", Format: FormatConsole, NoColor: true}, "locus", buf)
	l.Info("ready")

	out := buf.String()
	if !strings.Contains(out, "[LOC][INF]") {
		t.Errorf("expected service and level tags, got %q", out)
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []interface{}
		expected map[string]interface{}
	}{
		{"key-value pairs", []interface{}{"op", "resolve", "n", 2}, map[string]interface{}{"op": "resolve", "n": 2}},
		{"odd number of args", []interface{}{"op", "resolve", "trailing"}, map[string]interface{}{"op": "resolve"}},
		{"empty", []interface{}{}, map[string]interface{}{}},
		{"non-string key skipped", []interface{}{123, "value", "key", "val"}, map[string]interface{}{"key": "val"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Fields(tc.input...)
			if len(result) != len(tc.expected) {
				t.Fatalf("len = %d, want %d", len(result), len(tc.expected))
			}
			for k, v := range tc.expected {
				if result[k] != v {
					t.Errorf("Fields[%q] = %v, expected %v", k, result[k], v)
				}
			}
		})
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	ef := ErrorFields("cache.get", errors.New("conn refused"))
	if ef[FieldOperation] != "cache.get" || ef[FieldError] != "conn refused" {
		t.Errorf("unexpected error fields %v", ef)
	}

	df := DurationFields("discovery.lookup", 150*time.Millisecond)
	if df[FieldDuration] != int64(150) {
		t.Errorf("expected duration 150, got %v", df[FieldDuration])
	}

	merged := MergeWithError(nil, errors.New("x"))
	if merged[FieldError] != "x" {
		t.Errorf("expected error field from nil map, got %v", merged)
	}
}
