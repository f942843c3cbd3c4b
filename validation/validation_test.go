package validation

import (
	"regexp"
	"strings"
	"testing"

	"github.com/kbukum/subtitler/errors"
)

func TestValidatorChecks(t *testing.T) {
	tests := []struct {
		name    string
		run     func(v *Validator)
		wantErr bool
	}{
		{"required ok", func(v *Validator) { v.Required("text", "hello") }, false},
		{"required blank", func(v *Validator) { v.Required("text", "   ") }, true},
		{"max runes counts characters", func(v *Validator) { v.MaxRunes("text", "粵語字幕", 4) }, false},
		{"max runes over", func(v *Validator) { v.MaxRunes("text", "abcde", 4) }, true},
		{"max bytes ok", func(v *Validator) { v.MaxBytes("file", 10, 10) }, false},
		{"max bytes over", func(v *Validator) { v.MaxBytes("file", 11, 10) }, true},
		{"matches", func(v *Validator) { v.Matches("url", "abc", regexp.MustCompile(`^a`)) }, false},
		{"matches fails", func(v *Validator) { v.Matches("url", "xbc", regexp.MustCompile(`^a`)) }, true},
		{"matches skips empty", func(v *Validator) { v.Matches("url", "", regexp.MustCompile(`^a`)) }, false},
		{"one of", func(v *Validator) { v.OneOf("mode", "condense", []string{"condense", "declutter"}) }, false},
		{"one of fails", func(v *Validator) { v.OneOf("mode", "shorten", []string{"condense", "declutter"}) }, true},
		{"custom", func(v *Validator) { v.Custom(false, "file", "is empty") }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := New()
			tc.run(v)
			if v.HasErrors() != tc.wantErr {
				t.Errorf("HasErrors() = %v, want %v (%v)", v.HasErrors(), tc.wantErr, v.Errors())
			}
		})
	}
}

func TestValidatorValidate(t *testing.T) {
	if New().Validate() != nil || New().Err() != nil {
		t.Fatal("expected nil for a clean validator")
	}

	v := New().Required("text", "").OneOf("mode", "x", []string{"condense"})
	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidInput || appErr.HTTPStatus != 400 {
		t.Errorf("unexpected error %+v", appErr)
	}
	if !strings.Contains(appErr.Message, "text: is required") || !strings.Contains(appErr.Message, "mode: must be one of") {
		t.Errorf("message = %q", appErr.Message)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("details = %v", appErr.Details)
	}
}

type summarizeRequest struct {
	Text     string `json:"text" validate:"required"`
	Mode     string `json:"mode" validate:"required,oneof=condense declutter"`
	Language string `json:"language" validate:"omitempty,language"`
	Internal string `validate:"max=3"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name   string
		req    summarizeRequest
		fields []string
	}{
		{"valid", summarizeRequest{Text: "hi", Mode: "condense", Language: "yue"}, nil},
		{"region language", summarizeRequest{Text: "hi", Mode: "declutter", Language: "en-US"}, nil},
		{"missing text", summarizeRequest{Mode: "condense"}, []string{"text"}},
		{"bad mode and language", summarizeRequest{Text: "x", Mode: "shorten", Language: "Cantonese!"}, []string{"mode", "language"}},
		{"snake case fallback", summarizeRequest{Text: "x", Mode: "condense", Internal: "long"}, []string{"internal"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.req)
			if len(tc.fields) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %v", err)
			}
			for _, f := range tc.fields {
				if !strings.Contains(appErr.Message, f+":") {
					t.Errorf("expected field %q in %q", f, appErr.Message)
				}
			}
		})
	}
}

func TestValidLanguage(t *testing.T) {
	for code, want := range map[string]bool{"yue": true, "zh": true, "auto": true, "zh-TW": true, "": false, "YUE": false, "english": false} {
		if got := ValidLanguage(code); got != want {
			t.Errorf("ValidLanguage(%q) = %v, want %v", code, got, want)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	for in, want := range map[string]string{"MaxChunkBytes": "max_chunk_bytes", "url": "url", "ID": "i_d"} {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
