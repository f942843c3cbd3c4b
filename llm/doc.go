// Package llm is a small chat-completion client used by the summarizer.
//
// An Adapter pairs the httpclient adapter with a Dialect that maps the
// universal CompletionRequest and CompletionResponse to a provider's JSON.
// Dialects register themselves on import:
//
//	import _ "github.com/kbukum/subtitler/llm/openai"
//
//	adapter, err := llm.New(llm.Config{
//	    Dialect: "openai",
//	    BaseURL: "https://api.openai.com/v1",
//	    APIKey:  key,
//	    Model:   "gpt-4o-mini",
//	})
//	text, err := llm.Complete(ctx, adapter, systemPrompt, transcript)
package llm
