package llm

import (
	"context"
	"strings"
)

// DefaultLanguage is the display language wiki entries are written in.
const DefaultLanguage = "Traditional Chinese"

// Translate renders text into the default display language. Translation is
// best effort: any failure returns the original text unchanged.
func (e *Engine) Translate(ctx context.Context, text string) string {
	return e.TranslateTo(ctx, text, DefaultLanguage)
}

// TranslateTo renders text into an arbitrary target language, falling back
// to the original text on any failure.
func (e *Engine) TranslateTo(ctx context.Context, text, language string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	raw, err := e.complete(ctx, translateSystemPrompt(language), translateHumanPrompt(language, text))
	if err != nil {
		return text
	}
	return strings.TrimSpace(raw)
}
