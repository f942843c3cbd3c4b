package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/subtitler/llm"
)

func TestChat(t *testing.T) {
	var req chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		fmt.Fprint(w, `{"model":"qwen2.5:1.5b","message":{"role":"assistant","content":"Tidy text."},"done":true,"prompt_eval_count":7,"eval_count":3}`)
	}))
	defer srv.Close()

	a, err := llm.New(llm.Config{Dialect: DialectName, BaseURL: srv.URL, Model: "qwen2.5:1.5b", Temperature: 0.3})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	text, err := llm.Complete(context.Background(), a, "declutter", "uh the the meeting")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "Tidy text." {
		t.Errorf("text = %q", text)
	}
	if req.Stream {
		t.Error("stream must be off")
	}
	if req.Options == nil || req.Options.Temperature != 0.3 {
		t.Errorf("options = %+v", req.Options)
	}
	if len(req.Messages) != 2 {
		t.Errorf("messages = %+v", req.Messages)
	}
}

func TestParseResponseError(t *testing.T) {
	if _, err := (Dialect{}).ParseResponse([]byte(`{"error":"model not found"}`)); err == nil {
		t.Fatal("expected error field to surface")
	}
}
