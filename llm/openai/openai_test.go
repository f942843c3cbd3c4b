package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/subtitler/llm"
)

func TestChatCompletion(t *testing.T) {
	var req goopenai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"Condensed."}}],"usage":{"prompt_tokens":10,"completion_tokens":2,"total_tokens":12}}`)
	}))
	defer srv.Close()

	a, err := llm.New(llm.Config{Dialect: DialectName, BaseURL: srv.URL + "/v1", Model: "gpt-4o-mini", APIKey: "sk"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	resp, err := a.Execute(context.Background(), llm.CompletionRequest{
		SystemPrompt: "condense",
		Messages:     []llm.Message{{Role: "user", Content: "um so yeah"}},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if resp.Content != "Condensed." || resp.Usage.TotalTokens != 12 {
		t.Errorf("unexpected response %+v", resp)
	}
	if req.Model != "gpt-4o-mini" || len(req.Messages) != 2 || req.Messages[0].Role != "system" {
		t.Errorf("unexpected request %+v", req)
	}
}

func TestParseResponseErrors(t *testing.T) {
	d := Dialect{}
	if _, err := d.ParseResponse([]byte(`{"choices":[]}`)); err == nil {
		t.Error("expected error for empty choices")
	}
	if _, err := d.ParseResponse([]byte(`not json`)); err == nil {
		t.Error("expected decode error")
	}
	if _, err := d.BuildRequest(llm.CompletionRequest{}); err == nil {
		t.Error("expected error for empty request")
	}
}
