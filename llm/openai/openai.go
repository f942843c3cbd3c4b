// Package openai maps completion requests to the OpenAI chat completions
// API, using the go-openai wire types. Any OpenAI-compatible endpoint works
// through llm.Config.BaseURL.
package openai

import (
	"encoding/json"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/subtitler/llm"
)

// DialectName is the registered dialect name.
const DialectName = "openai"

func init() {
	llm.RegisterDialect(DialectName, Dialect{})
}

// Dialect implements llm.Dialect for /chat/completions.
type Dialect struct{}

var _ llm.Dialect = Dialect{}

func (Dialect) Name() string     { return DialectName }
func (Dialect) ChatPath() string { return "/chat/completions" }

func (Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	msgs := req.AllMessages()
	if len(msgs) == 0 {
		return nil, fmt.Errorf("openai: no messages")
	}
	out := goopenai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    make([]goopenai.ChatCompletionMessage, len(msgs)),
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	}
	for i, m := range msgs {
		out.Messages[i] = goopenai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out, nil
}

func (Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp goopenai.ChatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: response has no choices")
	}
	return &llm.CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
