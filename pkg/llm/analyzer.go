package llm

import (
	"context"
	"fmt"

	"paper2wiki/internal/models"
	"paper2wiki/pkg/jsontext"
)

// Analyze decomposes an article into its topic structure. The full story is
// translated into the display language first, then the model is prompted
// with the extraction rubric. A response that cannot be parsed into the
// expected shape is returned as an error; substituting a minimal analysis
// is the caller's decision.
func (e *Engine) Analyze(ctx context.Context, article models.Article) (models.TopicAnalysis, error) {
	story := e.Translate(ctx, article.FullStory)

	raw, err := e.complete(ctx, analyzeSystemPrompt, analyzeHumanPrompt(article, story))
	if err != nil {
		return models.TopicAnalysis{}, fmt.Errorf("analyze %q: %w", article.Title, err)
	}

	var analysis models.TopicAnalysis
	if err := jsontext.DecodeObject(raw, &analysis); err != nil {
		return models.TopicAnalysis{}, fmt.Errorf("analyze %q: %w", article.Title, err)
	}
	return analysis, nil
}
