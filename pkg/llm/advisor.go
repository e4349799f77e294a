package llm

import (
	"context"

	"paper2wiki/internal/models"
	"paper2wiki/pkg/jsontext"
)

// SuggestionFloor is the score a candidate must exceed to surface as a
// merge suggestion at all. Raising it suppresses useful suggestions; it is
// deliberately lower than the orchestrator's auto-merge gate.
const SuggestionFloor = 0.5

// maxCandidates caps how many existing titles go into one scoring prompt.
const maxCandidates = 10

type mergeScore struct {
	PageTitle       *string  `json:"page_title"`
	SimilarityScore *float64 `json:"similarity_score"`
}

// SuggestMerges scores up to the first ten candidate pages against the new
// topic. It never fails: no candidates, a model error, unparsable output or
// a missing field all degrade to an empty list, so page creation proceeds
// instead of blocking the run.
func (e *Engine) SuggestMerges(ctx context.Context, newTopic string, candidates []models.ExistingPage) []models.MergeSuggestion {
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	titles := make([]string, 0, len(candidates))
	for _, page := range candidates {
		titles = append(titles, page.Title)
	}

	raw, err := e.complete(ctx, mergeSystemPrompt, mergeHumanPrompt(newTopic, titles))
	if err != nil {
		return nil
	}

	var scored []mergeScore
	if err := jsontext.DecodeArray(raw, &scored); err != nil {
		return nil
	}

	var suggestions []models.MergeSuggestion
	for _, s := range scored {
		if s.PageTitle == nil || s.SimilarityScore == nil {
			return nil
		}
		if *s.SimilarityScore > SuggestionFloor {
			suggestions = append(suggestions, models.MergeSuggestion{
				PageTitle:       *s.PageTitle,
				SimilarityScore: *s.SimilarityScore,
			})
		}
	}
	return suggestions
}
