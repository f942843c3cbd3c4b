package llm

// Message is one chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// CompletionRequest is the dialect-independent input.
type CompletionRequest struct {
	// Model overrides the adapter's default model.
	Model    string
	Messages []Message
	// SystemPrompt is sent ahead of Messages as a system message.
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// CompletionResponse is the dialect-independent output.
type CompletionResponse struct {
	Content string
	Model   string
	Usage   Usage
}

// Usage reports token consumption when the provider returns it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// AllMessages returns the system prompt (if any) followed by Messages.
func (r CompletionRequest) AllMessages() []Message {
	if r.SystemPrompt == "" {
		return r.Messages
	}
	out := make([]Message, 0, len(r.Messages)+1)
	out = append(out, Message{Role: "system", Content: r.SystemPrompt})
	return append(out, r.Messages...)
}
