package types

import (
	"context"

	"paper2wiki/internal/models"
)

// ArticleExtractor fetches one source article and parses it into a record.
type ArticleExtractor interface {
	Extract(ctx context.Context, url string) (models.Article, error)
}

// TopicAnalyzer decomposes an article into a topic structure. A response
// that cannot be parsed into the expected shape is an error; the caller
// decides whether to degrade to a minimal analysis.
type TopicAnalyzer interface {
	Analyze(ctx context.Context, article models.Article) (models.TopicAnalysis, error)
}

// MergeAdvisor scores existing pages against a new topic. It never fails:
// any scoring or parse problem degrades to an empty suggestion list.
type MergeAdvisor interface {
	SuggestMerges(ctx context.Context, newTopic string, candidates []models.ExistingPage) []models.MergeSuggestion
}

// ContentGenerator produces the Markdown body for one page. A non-empty
// existing body switches it from create to revise mode.
type ContentGenerator interface {
	Generate(ctx context.Context, article models.Article, contentType models.ContentType, topic, existing string) (string, error)
}

// PageStore is the remote wiki backend. Search returns an empty slice when
// nothing matches; GetContent returns (nil, nil) for a missing page.
type PageStore interface {
	Search(ctx context.Context, term string) ([]models.ExistingPage, error)
	GetContent(ctx context.Context, id int) (*models.PageContent, error)
	CreatePage(ctx context.Context, req models.CreateRequest) (models.StoreResult, error)
	UpdatePage(ctx context.Context, req models.UpdateRequest) (models.StoreResult, error)
}
