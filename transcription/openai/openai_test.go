package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/subtitler/errors"
	"github.com/kbukum/subtitler/transcription"
)

func audioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func fakeAPI(t *testing.T, check func(r *http.Request), body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/v1"
}

func TestWhisperOneReturnsSegments(t *testing.T) {
	base := fakeAPI(t, func(r *http.Request) {
		if r.FormValue("model") != "whisper-1" || r.FormValue("response_format") != "verbose_json" {
			t.Errorf("unexpected form %v", r.MultipartForm.Value)
		}
		if r.FormValue("language") != "zh" {
			t.Errorf("expected yue sent as zh, got %q", r.FormValue("language"))
		}
	}, `{"task":"transcribe","language":"chinese","duration":4.2,"text":"你好 世界",
		"segments":[{"id":0,"start":0,"end":2,"text":" 你好"},{"id":1,"start":2,"end":4.2,"text":" 世界"}]}`)

	p := NewProvider(Config{APIKey: "sk-test", BaseURL: base})
	resp, err := p.Transcribe(context.Background(), transcription.Request{AudioPath: audioFile(t), Language: "yue", WantSegments: true})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if resp.Estimated || len(resp.Segments) != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Segments[1].Start != 2 || resp.Segments[1].End != 4.2 || resp.Segments[1].Text != "世界" {
		t.Errorf("segment = %+v", resp.Segments[1])
	}
}

func TestGPT4oSynthesizesOneSegment(t *testing.T) {
	base := fakeAPI(t, func(r *http.Request) {
		if r.FormValue("response_format") != "json" {
			t.Errorf("gpt-4o models must not ask for verbose_json, got %q", r.FormValue("response_format"))
		}
	}, `{"text":"Meeting starts now."}`)

	p := NewProvider(Config{APIKey: "sk-test", BaseURL: base, Model: "gpt-4o-mini-transcribe"})
	resp, err := p.Transcribe(context.Background(), transcription.Request{AudioPath: audioFile(t), Language: "en", Duration: 12.5})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if !resp.Estimated || len(resp.Segments) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if seg := resp.Segments[0]; seg.Start != 0 || seg.End != 12.5 || seg.Text != "Meeting starts now." {
		t.Errorf("segment = %+v", seg)
	}
}

func TestMissingKeyBeforeHTTP(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})
	_, err := p.Transcribe(context.Background(), transcription.Request{AudioPath: audioFile(t)})
	if !errors.HasCode(err, errors.ErrCodeMissingCredentials) {
		t.Fatalf("expected MISSING_CREDENTIALS, got %v", err)
	}
	if called {
		t.Error("no request may be sent without credentials")
	}
	if p.IsAvailable(context.Background()) {
		t.Error("provider without key must report unavailable")
	}
}

func TestAPIErrorIsTranscriptionFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	p := NewProvider(Config{APIKey: "sk-bad", BaseURL: srv.URL})
	_, err := p.Transcribe(context.Background(), transcription.Request{AudioPath: audioFile(t)})
	if !errors.HasCode(err, errors.ErrCodeTranscriptionFailed) {
		t.Fatalf("expected TRANSCRIPTION_FAILED, got %v", err)
	}
}

func TestAPILanguage(t *testing.T) {
	for in, want := range map[string]string{"yue": "zh", "zh-TW": "zh", "auto": "", "": "", "en-US": "en", "ja": "ja"} {
		if got := apiLanguage(in); got != want {
			t.Errorf("apiLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}
