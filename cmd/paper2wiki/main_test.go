package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paper2wiki/internal/models"
)

type fakeSynchronizer struct {
	result  *models.RunResult
	preview *models.PreviewResult
	err     error
}

func (f *fakeSynchronizer) Process(ctx context.Context, url string, mainOnly bool) (*models.RunResult, error) {
	return f.result, f.err
}

func (f *fakeSynchronizer) Preview(ctx context.Context, url string) (*models.PreviewResult, error) {
	return f.preview, f.err
}

func TestRunCreateSucceedsDespitePageFailures(t *testing.T) {
	result := &models.RunResult{
		Success: true,
		Article: models.Article{Title: "Quantum dots boost solar efficiency"},
	}
	result.Record(models.PageResult{
		Action:  models.ActionCreated,
		Title:   "Quantum Dot Photovoltaics",
		Type:    models.ContentMain,
		Success: true,
	})
	result.Record(models.PageResult{
		Action: models.ActionFailed,
		Title:  "Band Gap Tuning",
		Type:   models.ContentConcept,
		Error:  "wiki unavailable",
	})

	svc := &fakeSynchronizer{result: result}
	err := runCreate(context.Background(), svc, "https://www.sciencedaily.com/releases/x.htm", false)
	assert.NoError(t, err)
}

func TestRunCreatePropagatesRunError(t *testing.T) {
	svc := &fakeSynchronizer{err: errors.New("no article heading found")}
	err := runCreate(context.Background(), svc, "https://www.sciencedaily.com/releases/x.htm", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no article heading found")
}

func TestRunPreviewPropagatesRunError(t *testing.T) {
	svc := &fakeSynchronizer{err: errors.New("fetch failed")}
	err := runPreview(context.Background(), svc, "https://www.sciencedaily.com/releases/x.htm")
	require.Error(t, err)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than limit", "short", 10, "short"},
		{"exactly at limit", "12345", 5, "12345"},
		{"ascii over limit", "123456", 5, "12345..."},
		{"multibyte over limit", "量子點太陽能電池", 4, "量子點太..."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, truncate(tc.in, tc.max))
		})
	}
}
