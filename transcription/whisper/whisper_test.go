package whisper

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
	path := filepath.Join(t.TempDir(), "a.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.FormValue("model") != "large-v3" {
			t.Errorf("model = %q", r.FormValue("model"))
		}
		if _, ok := r.MultipartForm.Value["language"]; ok {
			t.Error("auto language should be omitted")
		}
		_, _ = w.Write([]byte(`{"language":"en","segments":[
			{"start":0.0,"end":1.5,"text":" Hello there."},
			{"start":1.5,"end":3.0,"text":" General Kenobi."}]}`))
	}))
	defer srv.Close()

	p, err := NewProvider(Config{URL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := p.Transcribe(context.Background(), transcription.Request{AudioPath: audioFile(t), Language: "auto"})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if resp.Text != "Hello there. General Kenobi." {
		t.Errorf("text = %q", resp.Text)
	}
	if resp.Duration != 3 || resp.Language != "en" {
		t.Errorf("duration=%v language=%q", resp.Duration, resp.Language)
	}
	if len(resp.Segments) != 2 || resp.Segments[1].Text != "General Kenobi." {
		t.Errorf("segments = %+v", resp.Segments)
	}
}

func TestTranscribeBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "cuda out of memory", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p, _ := NewProvider(Config{URL: srv.URL})
	_, err := p.Transcribe(context.Background(), transcription.Request{AudioPath: audioFile(t)})
	if !errors.HasCode(err, errors.ErrCodeTranscriptionFailed) {
		t.Fatalf("expected TRANSCRIPTION_FAILED, got %v", err)
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	p, _ := NewProvider(Config{URL: "http://127.0.0.1:1"})
	_, err := p.Transcribe(context.Background(), transcription.Request{AudioPath: "/nonexistent.wav"})
	if err == nil {
		t.Fatal("expected error for missing audio")
	}
}

func TestFactoryDefaults(t *testing.T) {
	p, err := Factory()(map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	w := p.(*Provider)
	if w.cfg.URL != defaultWhisperURL || w.cfg.Timeout != transcription.DefaultLocalTimeout {
		t.Errorf("unexpected defaults %+v", w.cfg)
	}
}
