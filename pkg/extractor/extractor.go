package extractor

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"paper2wiki/internal/models"
	"paper2wiki/internal/types"
)

// ScienceDaily release pages label their metadata as Markdown-ish list
// items ("- **Date:** March 24, 2025") with an older plain-text variant
// still live on archived releases.
var (
	labeledFieldRe = map[string]*regexp.Regexp{
		"Date":    regexp.MustCompile(`-\s*\*\*Date:\*\*\s*([^\n\r-]+)`),
		"Source":  regexp.MustCompile(`-\s*\*\*Source:\*\*\s*([^\n\r-]+)`),
		"Summary": regexp.MustCompile(`-\s*\*\*Summary:\*\*\s*([^\n\r-]+)`),
	}
	plainFieldRe = map[string]*regexp.Regexp{
		"Date":    regexp.MustCompile(`Date:\s*([^\n\r,]+)`),
		"Source":  regexp.MustCompile(`Source:\s*([^\n\r,]+)`),
		"Summary": regexp.MustCompile(`Summary:\s*([^\n\r-]+)`),
	}

	fullStoryRe = regexp.MustCompile(`(?s)FULL STORY\s*\n\s*(.+?)(?:\n\s*RELATED|Story Source:|$)`)

	coAuthorsRe          = regexp.MustCompile(`Co-authors[^.\n]*`)
	additionalResearchRe = regexp.MustCompile(`Additional research[^.\n]*`)
)

type ExtractorConfig struct {
	Timeout   time.Duration
	RateLimit float64 // requests per second
	UserAgent string
}

type Extractor struct {
	config  ExtractorConfig
	client  *http.Client
	limiter *rate.Limiter
}

var _ types.ArticleExtractor = (*Extractor)(nil)

func NewWithConfig(config ExtractorConfig) (*Extractor, error) {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2
	}
	if config.UserAgent == "" {
		config.UserAgent = "paper2wiki/1.0"
	}

	return &Extractor{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

func New() *Extractor {
	e, _ := NewWithConfig(ExtractorConfig{})
	return e
}

// Extract fetches one article page and parses it into an Article record.
// The title is mandatory; every other field degrades to "".
func (e *Extractor) Extract(ctx context.Context, url string) (models.Article, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return models.Article{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Article{}, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", e.config.UserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return models.Article{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Article{}, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return models.Article{}, fmt.Errorf("parse %s: %w", url, err)
	}

	heading := doc.Find("h1").First()
	if heading.Length() == 0 {
		return models.Article{}, fmt.Errorf("no article heading found at %s", url)
	}
	title := strings.TrimSpace(heading.Text())

	text := doc.Text()

	return models.Article{
		Title:     title,
		Date:      extractField(text, "Date"),
		Source:    extractField(text, "Source"),
		Summary:   extractField(text, "Summary"),
		FullStory: extractFullStory(doc, text),
		URL:       url,
	}, nil
}

func extractField(text, field string) string {
	if m := labeledFieldRe[field].FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := plainFieldRe[field].FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func extractFullStory(doc *goquery.Document, text string) string {
	if m := fullStoryRe.FindStringSubmatch(text); m != nil {
		story := strings.TrimSpace(m[1])
		story = strings.Join(strings.Fields(story), " ")
		story = coAuthorsRe.ReplaceAllString(story, "")
		story = additionalResearchRe.ReplaceAllString(story, "")
		return strings.TrimSpace(story)
	}

	// Fallback: locate the FULL STORY marker element and collect the
	// paragraph-like siblings that follow it.
	var header *goquery.Selection
	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Children().Length() == 0 && strings.Contains(s.Text(), "FULL STORY") {
			header = s
			return false
		}
		return true
	})
	if header == nil {
		return ""
	}

	var parts []string
	for cur := header.Next(); cur.Length() > 0; cur = cur.Next() {
		name := goquery.NodeName(cur)
		if name != "p" && name != "div" {
			break
		}
		part := strings.TrimSpace(cur.Text())
		if part == "" || strings.HasPrefix(part, "RELATED") || strings.HasPrefix(part, "Story Source") {
			break
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}
