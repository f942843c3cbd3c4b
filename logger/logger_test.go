package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("subtitler")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "subtitler" {
		t.Errorf("expected service 'subtitler', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l := New(&Config{Level: "invalid-level", Format: "json", Output: "stdout"}, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestJSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "debug", Format: "json"}, "subtitler", &buf)
	l.WithComponent("transcriber").Info("chunk transcribed",
		Fields(FieldChunkIndex, 2, FieldProvider, "openai"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
	}
	if entry[FieldComponent] != "transcriber" {
		t.Errorf("component = %v", entry[FieldComponent])
	}
	if entry[FieldChunkIndex] != float64(2) {
		t.Errorf("chunk_index = %v", entry[FieldChunkIndex])
	}
	if entry["message"] != "chunk transcribed" {
		t.Errorf("message = %v", entry["message"])
	}
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "test", &buf)
	ctx := ContextWithRequestID(context.Background(), "req-42")
	l.WithContext(ctx).Info("handled")
	if !strings.Contains(buf.String(), `"request_id":"req-42"`) {
		t.Errorf("expected request id in output, got %q", buf.String())
	}
}

func TestConsoleFormatTagsService(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "subtitler", &buf)
	l.Warn("slow chunk")
	out := buf.String()
	if !strings.Contains(out, "[SUB]") || !strings.Contains(out, "[WRN]") {
		t.Errorf("expected service and level tags, got %q", out)
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "test", &buf)
	l.WithFields(map[string]interface{}{FieldSessionID: "abc"}).WithError(fmt.Errorf("boom")).Error("frame failed")
	out := buf.String()
	if !strings.Contains(out, `"session_id":"abc"`) || !strings.Contains(out, `"error":"boom"`) {
		t.Errorf("unexpected output %q", out)
	}
}

func TestInitUsesServiceName(t *testing.T) {
	cfg := &Config{ServiceName: "subtitler", Format: "json"}
	Init(cfg)
	if cfg.Level != "info" {
		t.Errorf("expected defaults applied, level = %q", cfg.Level)
	}
	if GetGlobalLogger().service != "subtitler" {
		t.Errorf("expected global service 'subtitler', got %q", GetGlobalLogger().service)
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestSetGlobalLogger(t *testing.T) {
	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	Init(&Config{Level: "debug", Format: "console", Output: "stdout"})
	// These should not panic
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stdout" {
		t.Errorf("unexpected defaults %+v", cfg)
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

func TestRegisterAndGet(t *testing.T) {
	l := NewDefault("custom-component")
	Register("media", l)
	if Get("media") != l {
		t.Error("expected Get to return the registered logger")
	}
	if Get("unregistered-component") == nil {
		t.Fatal("expected non-nil logger for unregistered component")
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []interface{}
		expected map[string]interface{}
	}{
		{"key-value pairs", []interface{}{"op", "split", "chunks", 3}, map[string]interface{}{"op": "split", "chunks": 3}},
		{"odd number of args", []interface{}{"op", "split", "trailing"}, map[string]interface{}{"op": "split"}},
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
	ef := ErrorFields("transcode", fmt.Errorf("exit 1"))
	if ef[FieldOperation] != "transcode" || ef[FieldError] != "exit 1" {
		t.Errorf("unexpected error fields %v", ef)
	}
	df := DurationFields("probe", 150*time.Millisecond)
	if df[FieldDuration] != int64(150) {
		t.Errorf("expected duration 150, got %v", df[FieldDuration])
	}
}
