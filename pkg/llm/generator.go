package llm

import (
	"context"
	"fmt"

	"paper2wiki/internal/models"
)

// Generate produces the Markdown body for one wiki entry. An empty existing
// body yields a fresh entry; a non-empty one switches to revise mode, where
// the model returns the full replacement document with the new citations
// appended. The returned Markdown is not validated — citation quality is
// the model's responsibility.
func (e *Engine) Generate(ctx context.Context, article models.Article, contentType models.ContentType, topic, existing string) (string, error) {
	story := e.Translate(ctx, article.FullStory)

	var system, human string
	if existing != "" {
		system = generateUpdateSystemPrompt(contentType, topic)
		human = generateUpdateHumanPrompt(existing, article, story)
	} else {
		system = generateCreateSystemPrompt(contentType, topic)
		human = generateCreateHumanPrompt(article, story)
	}

	raw, err := e.complete(ctx, system, human)
	if err != nil {
		return "", fmt.Errorf("generate %s content for %q: %w", contentType, topic, err)
	}
	return raw, nil
}
