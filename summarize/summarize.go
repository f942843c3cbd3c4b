// Package summarize polishes transcripts with a language model.
package summarize

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kbukum/subtitler/errors"
	"github.com/kbukum/subtitler/llm"
	"github.com/kbukum/subtitler/logger"
	"github.com/kbukum/subtitler/observability"
	"github.com/kbukum/subtitler/provider"
)

// Mode selects how the text is rewritten.
type Mode string

const (
	// ModeCondense shortens the text to its key points.
	ModeCondense Mode = "condense"
	// ModeDeclutter removes filler and repetition but keeps all content.
	ModeDeclutter Mode = "declutter"
)

const DefaultMaxInputChars = 20000

var prompts = map[Mode]string{
	ModeCondense: "You condense speech transcripts. Rewrite the user's transcript as a short summary " +
		"of its key points, decisions and action items. Write in the transcript's own language and " +
		"script. Do not add facts. Reply with the summary only.",
	ModeDeclutter: "You clean up speech transcripts. Remove filler words, false starts, repetitions and " +
		"recognition noise from the user's transcript and fix punctuation. Keep every piece of " +
		"information and keep the transcript's own language and script. Reply with the cleaned text only.",
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := prompts[m]; !ok {
		return "", errors.InvalidInput("mode", fmt.Sprintf("mode must be %q or %q", ModeCondense, ModeDeclutter))
	}
	return m, nil
}

// Config configures the service.
type Config struct {
	// MaxInputChars rejects longer text before any model call.
	MaxInputChars int `yaml:"max_input_chars" mapstructure:"max_input_chars"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.MaxInputChars <= 0 {
		c.MaxInputChars = DefaultMaxInputChars
	}
}

// Completer is a completion client such as *llm.Adapter, possibly wrapped
// in provider middleware.
type Completer = provider.RequestResponse[llm.CompletionRequest, llm.CompletionResponse]

// Service rewrites text with a Completer.
type Service struct {
	client Completer
	cfg    Config
	log    *logger.Logger
}

// New creates a Service. A nil client makes every call fail with
// SERVICE_UNAVAILABLE.
func New(client Completer, cfg Config) *Service {
	cfg.ApplyDefaults()
	return &Service{client: client, cfg: cfg, log: logger.WithComponent("summarize")}
}

// Enabled reports whether a model is configured.
func (s *Service) Enabled() bool { return s.client != nil }

// Summarize rewrites text in the given mode.
func (s *Service) Summarize(ctx context.Context, text string, mode Mode) (string, error) {
	if _, ok := prompts[mode]; !ok {
		return "", errors.InvalidInput("mode", fmt.Sprintf("unknown mode %q", mode))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.InvalidInput("text", "text is empty")
	}
	if n := utf8.RuneCountInString(text); n > s.cfg.MaxInputChars {
		return "", errors.InvalidInput("text", fmt.Sprintf("text has %d characters, the limit is %d", n, s.cfg.MaxInputChars))
	}
	if s.client == nil {
		return "", errors.ServiceUnavailable("summarization backend")
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanSummarize)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrOperation, string(mode))

	out, err := llm.Complete(ctx, s.client, prompts[mode], text)
	if err == nil && out == "" {
		err = fmt.Errorf("empty completion")
	}
	if err != nil {
		observability.SetSpanError(ctx, err)
		s.log.WithContext(ctx).Warn("summarize failed", logger.ErrorFields(string(mode), err))
		if appErr, ok := errors.AsAppError(err); ok {
			return "", appErr
		}
		return "", errors.SummarizationFailed(err)
	}
	return out, nil
}
