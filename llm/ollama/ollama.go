// Package ollama maps completion requests to Ollama's /api/chat endpoint.
package ollama

import (
	"encoding/json"
	"fmt"

	"github.com/kbukum/subtitler/llm"
)

// DialectName is the registered dialect name.
const DialectName = "ollama"

func init() {
	llm.RegisterDialect(DialectName, Dialect{})
}

// Dialect implements llm.Dialect for Ollama. Streaming is always off.
type Dialect struct{}

var _ llm.Dialect = Dialect{}

func (Dialect) Name() string     { return DialectName }
func (Dialect) ChatPath() string { return "/api/chat" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *chatOptions  `json:"options,omitempty"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	PromptEvalCount int         `json:"prompt_eval_count,omitempty"`
	EvalCount       int         `json:"eval_count,omitempty"`
	Error           string      `json:"error,omitempty"`
}

func (Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	msgs := req.AllMessages()
	if len(msgs) == 0 {
		return nil, fmt.Errorf("ollama: no messages")
	}
	out := chatRequest{Model: req.Model, Messages: make([]chatMessage, len(msgs))}
	for i, m := range msgs {
		out.Messages[i] = chatMessage{Role: m.Role, Content: m.Content}
	}
	if req.Temperature != 0 || req.MaxTokens != 0 {
		out.Options = &chatOptions{Temperature: req.Temperature, NumPredict: req.MaxTokens}
	}
	return out, nil
}

func (Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("ollama: %s", resp.Error)
	}
	return &llm.CompletionResponse{
		Content: resp.Message.Content,
		Model:   resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
	}, nil
}
