// Package service ties extraction, analysis, merge scoring and page
// generation together into one article-to-wiki synchronization run.
package service

import (
	"context"
	"fmt"
	"strings"

	"paper2wiki/internal/models"
	"paper2wiki/internal/types"
)

// mergeThreshold is the advisor score at which the main topic is merged
// into an existing page instead of getting a page of its own. It is
// deliberately higher than the advisor's suggestion floor: a candidate may
// surface without being acted on. Lowering it raises the false-merge risk.
const mergeThreshold = 0.8

// pathRoot is the namespace every generated page lives under.
const pathRoot = "science"

type Service struct {
	extractor types.ArticleExtractor
	analyzer  types.TopicAnalyzer
	advisor   types.MergeAdvisor
	generator types.ContentGenerator
	store     types.PageStore
}

func New(extractor types.ArticleExtractor, analyzer types.TopicAnalyzer, advisor types.MergeAdvisor, generator types.ContentGenerator, store types.PageStore) *Service {
	return &Service{
		extractor: extractor,
		analyzer:  analyzer,
		advisor:   advisor,
		generator: generator,
		store:     store,
	}
}

// Process runs the full pipeline for one article URL: extract, analyze,
// resolve the main topic and, unless mainOnly is set, every concept,
// method and application sub-topic. Extraction and analysis failures are
// fatal; everything after them is contained per page.
func (s *Service) Process(ctx context.Context, url string, mainOnly bool) (*models.RunResult, error) {
	article, analysis, err := s.extractAndAnalyze(ctx, url)
	if err != nil {
		return nil, err
	}

	mainTopic := analysis.MainTopic
	if mainTopic == "" {
		mainTopic = article.Title
	}

	existing, suggestions := s.mainCandidates(ctx, mainTopic)

	result := &models.RunResult{
		Success:          true,
		Article:          article,
		Analysis:         analysis,
		MergeSuggestions: suggestions,
	}

	result.Record(s.resolveMain(ctx, article, mainTopic, analysis.SuggestedTags, existing, suggestions))

	if !mainOnly {
		for _, concept := range analysis.Concepts {
			result.Record(s.resolveSubtopic(ctx, article, models.ContentConcept, concept))
		}
		for _, method := range analysis.Methods {
			result.Record(s.resolveSubtopic(ctx, article, models.ContentMethod, method))
		}
		for _, application := range analysis.Applications {
			result.Record(s.resolveSubtopic(ctx, article, models.ContentApplication, application))
		}
		// Problems are extracted for context only and never become pages.
	}

	return result, nil
}

// Preview runs extraction, analysis and merge scoring without touching any
// page.
func (s *Service) Preview(ctx context.Context, url string) (*models.PreviewResult, error) {
	article, analysis, err := s.extractAndAnalyze(ctx, url)
	if err != nil {
		return nil, err
	}

	mainTopic := analysis.MainTopic
	if mainTopic == "" {
		mainTopic = article.Title
	}

	existing, suggestions := s.mainCandidates(ctx, mainTopic)

	return &models.PreviewResult{
		Article:          article,
		Analysis:         analysis,
		ExistingPages:    existing,
		MergeSuggestions: suggestions,
	}, nil
}

func (s *Service) extractAndAnalyze(ctx context.Context, url string) (models.Article, models.TopicAnalysis, error) {
	article, err := s.extractor.Extract(ctx, url)
	if err != nil {
		return models.Article{}, models.TopicAnalysis{}, fmt.Errorf("extract article: %w", err)
	}
	if article.Title == "" {
		return models.Article{}, models.TopicAnalysis{}, fmt.Errorf("article at %s has no title", url)
	}

	analysis, err := s.analyzer.Analyze(ctx, article)
	if err != nil {
		// An unparsable analysis degrades to a minimal one built from
		// the article itself; the run still produces a main page.
		analysis = fallbackAnalysis(article)
	}
	return article, analysis, nil
}

func (s *Service) mainCandidates(ctx context.Context, mainTopic string) ([]models.ExistingPage, []models.MergeSuggestion) {
	existing, err := s.store.Search(ctx, mainTopic)
	if err != nil {
		// Without candidates the advisor stays silent and the main topic
		// is created as a new page.
		return nil, nil
	}
	return existing, s.advisor.SuggestMerges(ctx, mainTopic, existing)
}

// resolveMain decides create-vs-merge for the main topic. The merge runs
// only when the best suggestion clears the threshold AND its title exactly
// matches a search result; otherwise a new page is created.
func (s *Service) resolveMain(ctx context.Context, article models.Article, mainTopic string, tags []string, existing []models.ExistingPage, suggestions []models.MergeSuggestion) models.PageResult {
	if best, ok := bestSuggestion(suggestions); ok && best.SimilarityScore >= mergeThreshold {
		for _, page := range existing {
			if page.Title == best.PageTitle {
				return s.updatePage(ctx, article, models.ContentMain, mainTopic, page)
			}
		}
	}
	return s.createPage(ctx, article, models.ContentMain, mainTopic, tags)
}

// resolveSubtopic decides create-vs-update for one concept, method or
// application. Unlike the main topic this uses a cheap case-insensitive
// exact-title match instead of advisor scoring, trading one model call per
// sub-topic for lower merge precision.
func (s *Service) resolveSubtopic(ctx context.Context, article models.Article, contentType models.ContentType, topic string) models.PageResult {
	if strings.TrimSpace(topic) == "" {
		return models.PageResult{
			Action: models.ActionSkipped,
			Title:  topic,
			Type:   contentType,
		}
	}

	existing, err := s.store.Search(ctx, topic)
	if err != nil {
		return failedResult(contentType, topic, fmt.Errorf("search %q: %w", topic, err))
	}

	for _, page := range existing {
		if strings.EqualFold(page.Title, topic) {
			return s.updatePage(ctx, article, contentType, topic, page)
		}
	}
	return s.createPage(ctx, article, contentType, topic, nil)
}

func (s *Service) createPage(ctx context.Context, article models.Article, contentType models.ContentType, topic string, tags []string) models.PageResult {
	content, err := s.generator.Generate(ctx, article, contentType, topic, "")
	if err != nil {
		return failedResult(contentType, topic, err)
	}

	path := pagePath(contentType, topic)
	if len(tags) == 0 {
		tags = []string{"science research", string(contentType)}
	}

	res, err := s.store.CreatePage(ctx, models.CreateRequest{
		Title:       topic,
		Content:     content,
		Path:        path,
		Tags:        tags,
		Description: fmt.Sprintf("%s entry based on the ScienceDaily article %q", contentType, article.Title),
	})
	if err != nil {
		return failedResult(contentType, topic, err)
	}

	return models.PageResult{
		Action:  models.ActionCreated,
		Title:   topic,
		Path:    path,
		Type:    contentType,
		Success: res.Succeeded,
		Message: res.Message,
	}
}

func (s *Service) updatePage(ctx context.Context, article models.Article, contentType models.ContentType, topic string, page models.ExistingPage) models.PageResult {
	// Existing content is best effort: an unreadable page is revised from
	// scratch rather than failing the merge.
	existing := ""
	if pc, err := s.store.GetContent(ctx, page.ID); err == nil && pc != nil {
		existing = pc.Content
	}

	content, err := s.generator.Generate(ctx, article, contentType, topic, existing)
	if err != nil {
		return failedResult(contentType, page.Title, err)
	}

	res, err := s.store.UpdatePage(ctx, models.UpdateRequest{
		ID:      page.ID,
		Title:   page.Title,
		Content: content,
	})
	if err != nil {
		return failedResult(contentType, page.Title, err)
	}

	return models.PageResult{
		Action:  models.ActionUpdated,
		Title:   page.Title,
		Path:    page.Path,
		Type:    contentType,
		Success: res.Succeeded,
		Message: res.Message,
	}
}

// bestSuggestion returns the first maximal-score suggestion.
func bestSuggestion(suggestions []models.MergeSuggestion) (models.MergeSuggestion, bool) {
	if len(suggestions) == 0 {
		return models.MergeSuggestion{}, false
	}
	best := suggestions[0]
	for _, s := range suggestions[1:] {
		if s.SimilarityScore > best.SimilarityScore {
			best = s
		}
	}
	return best, true
}

func failedResult(contentType models.ContentType, title string, err error) models.PageResult {
	return models.PageResult{
		Action: models.ActionFailed,
		Title:  title,
		Type:   contentType,
		Error:  err.Error(),
	}
}

// fallbackAnalysis is the minimal analysis substituted when decoding the
// model's output fails: the article title as main topic and nothing else.
func fallbackAnalysis(article models.Article) models.TopicAnalysis {
	return models.TopicAnalysis{
		MainTopic:     article.Title,
		Concepts:      []string{},
		Methods:       []string{},
		Applications:  []string{},
		Problems:      []string{},
		SuggestedTags: []string{"science research"},
	}
}

// pagePath derives the URL-safe location for a topic, e.g.
// "science/concept/Protein-Folding".
func pagePath(contentType models.ContentType, topic string) string {
	safe := strings.ReplaceAll(topic, " ", "-")
	safe = strings.ReplaceAll(safe, "/", "-")
	return fmt.Sprintf("%s/%s/%s", pathRoot, contentType, safe)
}
