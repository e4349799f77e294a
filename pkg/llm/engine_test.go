package llm_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"paper2wiki/internal/models"
	"paper2wiki/pkg/llm"
)

// stubModel replays canned responses and records every prompt it saw.
type stubModel struct {
	responses []string
	err       error
	prompts   []string
}

func (m *stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	var b strings.Builder
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				b.WriteString(text.Text)
				b.WriteString("\n")
			}
		}
	}
	m.prompts = append(m.prompts, b.String())

	if m.err != nil {
		return nil, m.err
	}
	idx := len(m.prompts) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.responses[idx]}},
	}, nil
}

func (m *stubModel) Call(ctx context.Context, prompt string, _ ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func newTestEngine(model llms.Model) *llm.Engine {
	return llm.NewWithModel(llm.EngineConfig{APIKey: "test"}, model)
}

func testArticle() models.Article {
	return models.Article{
		Title:   "New catalyst splits water",
		Source:  "University of Somewhere",
		Date:    "March 24, 2025",
		Summary: "A cheap catalyst for hydrogen production.",
		URL:     "https://www.sciencedaily.com/releases/2025/03/test.htm",
	}
}

func TestAnalyzeDecodesFencedJSON(t *testing.T) {
	payload := `{
		"main_topic": "Water splitting catalysis",
		"concepts": ["Electrocatalysis", "Overpotential"],
		"methods": ["Cyclic voltammetry"],
		"applications": ["Green hydrogen"],
		"problems": ["Catalyst cost"],
		"suggested_tags": ["chemistry", "energy"]
	}`
	model := &stubModel{responses: []string{"```json\n" + payload + "\n```"}}
	engine := newTestEngine(model)

	analysis, err := engine.Analyze(context.Background(), testArticle())
	require.NoError(t, err)

	assert.Equal(t, "Water splitting catalysis", analysis.MainTopic)
	assert.Equal(t, []string{"Electrocatalysis", "Overpotential"}, analysis.Concepts)
	assert.Equal(t, []string{"Cyclic voltammetry"}, analysis.Methods)
	assert.Equal(t, []string{"Green hydrogen"}, analysis.Applications)
	assert.Equal(t, []string{"Catalyst cost"}, analysis.Problems)
	assert.Equal(t, []string{"chemistry", "energy"}, analysis.SuggestedTags)
}

func TestAnalyzeDecodeFailure(t *testing.T) {
	model := &stubModel{responses: []string{"I could not produce the analysis."}}
	engine := newTestEngine(model)

	_, err := engine.Analyze(context.Background(), testArticle())
	assert.Error(t, err)
}

func TestAnalyzeTranslatesStoryFirst(t *testing.T) {
	article := testArticle()
	article.FullStory = "A long untranslated story."

	model := &stubModel{responses: []string{
		"translated story",
		`{"main_topic": "T", "concepts": [], "methods": [], "applications": [], "problems": [], "suggested_tags": []}`,
	}}
	engine := newTestEngine(model)

	_, err := engine.Analyze(context.Background(), article)
	require.NoError(t, err)

	require.Len(t, model.prompts, 2)
	assert.Contains(t, model.prompts[0], "A long untranslated story.")
	assert.Contains(t, model.prompts[1], "translated story")
}

func TestSuggestMergesFiltersLowScores(t *testing.T) {
	model := &stubModel{responses: []string{`[
		{"page_title": "Electrolysis", "similarity_score": 0.9},
		{"page_title": "Fuel cells", "similarity_score": 0.5},
		{"page_title": "Astronomy", "similarity_score": 0.2}
	]`}}
	engine := newTestEngine(model)

	candidates := []models.ExistingPage{
		{ID: 1, Title: "Electrolysis"},
		{ID: 2, Title: "Fuel cells"},
		{ID: 3, Title: "Astronomy"},
	}
	suggestions := engine.SuggestMerges(context.Background(), "Water splitting", candidates)

	// 0.5 sits exactly on the floor and must not surface.
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Electrolysis", suggestions[0].PageTitle)
	assert.Equal(t, 0.9, suggestions[0].SimilarityScore)
}

func TestSuggestMergesNoCandidates(t *testing.T) {
	model := &stubModel{responses: []string{"unused"}}
	engine := newTestEngine(model)

	suggestions := engine.SuggestMerges(context.Background(), "Anything", nil)
	assert.Empty(t, suggestions)
	assert.Empty(t, model.prompts, "no candidates must mean no model call")
}

func TestSuggestMergesTruncatesCandidates(t *testing.T) {
	model := &stubModel{responses: []string{`[]`}}
	engine := newTestEngine(model)

	var candidates []models.ExistingPage
	for i := 1; i <= 12; i++ {
		candidates = append(candidates, models.ExistingPage{ID: i, Title: fmt.Sprintf("Candidate %02d", i)})
	}
	engine.SuggestMerges(context.Background(), "Topic", candidates)

	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Candidate 10")
	assert.NotContains(t, model.prompts[0], "Candidate 11")
}

func TestSuggestMergesDegradesToEmpty(t *testing.T) {
	candidates := []models.ExistingPage{{ID: 1, Title: "Electrolysis"}}

	t.Run("model error", func(t *testing.T) {
		engine := newTestEngine(&stubModel{err: errors.New("rate limited")})
		assert.Empty(t, engine.SuggestMerges(context.Background(), "Topic", candidates))
	})

	t.Run("unparsable output", func(t *testing.T) {
		engine := newTestEngine(&stubModel{responses: []string{"no scores today"}})
		assert.Empty(t, engine.SuggestMerges(context.Background(), "Topic", candidates))
	})

	t.Run("missing field", func(t *testing.T) {
		engine := newTestEngine(&stubModel{responses: []string{
			`[{"page_title": "Electrolysis", "similarity_score": 0.9}, {"page_title": "Broken"}]`,
		}})
		assert.Empty(t, engine.SuggestMerges(context.Background(), "Topic", candidates))
	})
}

func TestGeneratePromptBranches(t *testing.T) {
	model := &stubModel{responses: []string{"# Entry\nBody [1]\n\n## References\n[1] Source."}}
	engine := newTestEngine(model)

	_, err := engine.Generate(context.Background(), testArticle(), models.ContentConcept, "Electrocatalysis", "")
	require.NoError(t, err)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Create wiki entry content")
	assert.Contains(t, model.prompts[0], "Electrocatalysis")

	model.prompts = nil
	_, err = engine.Generate(context.Background(), testArticle(), models.ContentConcept, "Electrocatalysis", "# Old entry")
	require.NoError(t, err)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Update the existing wiki entry")
	assert.Contains(t, model.prompts[0], "# Old entry")
}

func TestGenerateRoundTrip(t *testing.T) {
	model := &stubModel{responses: []string{"# Entry\nFirst pass [1]\n\n## References\n[1] Source."}}
	engine := newTestEngine(model)

	first, err := engine.Generate(context.Background(), testArticle(), models.ContentMain, "Water splitting", "")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := engine.Generate(context.Background(), testArticle(), models.ContentMain, "Water splitting", first)
	require.NoError(t, err)
	assert.NotEmpty(t, second)
}

func TestTranslateFallsBack(t *testing.T) {
	engine := newTestEngine(&stubModel{err: errors.New("unavailable")})
	assert.Equal(t, "original text", engine.Translate(context.Background(), "original text"))

	// Blank input never reaches the model.
	model := &stubModel{responses: []string{"unused"}}
	engine = newTestEngine(model)
	assert.Equal(t, "   ", engine.Translate(context.Background(), "   "))
	assert.Empty(t, model.prompts)
}
