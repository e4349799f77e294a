package models

// ContentType classifies what kind of wiki entry a topic becomes.
type ContentType string

const (
	ContentMain        ContentType = "main"
	ContentConcept     ContentType = "concept"
	ContentMethod      ContentType = "method"
	ContentApplication ContentType = "application"
)

// Article is one extracted ScienceDaily article. Title is the only field
// the pipeline requires; every other field may be empty.
type Article struct {
	Title     string
	Date      string
	Source    string
	Summary   string
	FullStory string
	URL       string
}

// TopicAnalysis is the structured decomposition of one article into
// knowledge topics. Slices keep the order the model returned them in and
// are not deduplicated here.
type TopicAnalysis struct {
	MainTopic     string   `json:"main_topic"`
	Concepts      []string `json:"concepts"`
	Methods       []string `json:"methods"`
	Applications  []string `json:"applications"`
	Problems      []string `json:"problems"`
	SuggestedTags []string `json:"suggested_tags"`
}

// ExistingPage is a single wiki search hit.
type ExistingPage struct {
	ID    int
	Title string
	Path  string
}

// PageContent is the full form returned when reading one page.
type PageContent struct {
	Title   string
	Content string
}

// MergeSuggestion scores one existing page against a new topic. Scores are
// only meaningful within the comparison that produced them.
type MergeSuggestion struct {
	PageTitle       string  `json:"page_title"`
	SimilarityScore float64 `json:"similarity_score"`
}

// Actions a page resolution can end in.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionFailed  = "failed"
	ActionSkipped = "skipped"
)

// PageResult records the outcome of one attempted page operation.
type PageResult struct {
	Action  string
	Title   string
	Path    string
	Type    ContentType
	Success bool
	Message string
	Error   string
}

// StoreResult mirrors the wiki mutation responseResult payload.
type StoreResult struct {
	Succeeded bool
	ErrorCode int
	Slug      string
	Message   string
}

// CreateRequest carries everything needed to create a wiki page.
type CreateRequest struct {
	Title       string
	Content     string
	Path        string
	Tags        []string
	Description string
}

// UpdateRequest carries everything needed to update a wiki page.
type UpdateRequest struct {
	ID      int
	Title   string
	Content string
	Tags    []string
}

// RunResult aggregates one full synchronization run. Created and Updated
// hold only results keyed by those actions; Pages keeps the complete
// ordered trail including failed and skipped resolutions.
type RunResult struct {
	Success          bool
	Article          Article
	Analysis         TopicAnalysis
	MergeSuggestions []MergeSuggestion
	Created          []PageResult
	Updated          []PageResult
	Pages            []PageResult
}

// Record appends one page resolution to the trail and buckets it by action.
func (r *RunResult) Record(p PageResult) {
	r.Pages = append(r.Pages, p)
	switch p.Action {
	case ActionCreated:
		r.Created = append(r.Created, p)
	case ActionUpdated:
		r.Updated = append(r.Updated, p)
	}
}

// MainTopic returns the analyzed main topic, falling back to the article
// title when the analysis left it blank.
func (r *RunResult) MainTopic() string {
	if r.Analysis.MainTopic != "" {
		return r.Analysis.MainTopic
	}
	return r.Article.Title
}

// HasMergeSuggestions reports whether the advisor surfaced any candidates.
func (r *RunResult) HasMergeSuggestions() bool { return len(r.MergeSuggestions) > 0 }

// Failed returns every page resolution that ended in a failure.
func (r *RunResult) Failed() []PageResult {
	var failed []PageResult
	for _, p := range r.Pages {
		if p.Action == ActionFailed {
			failed = append(failed, p)
		}
	}
	return failed
}

// PreviewResult is the dry-run counterpart of RunResult: analysis and merge
// candidates without any page writes.
type PreviewResult struct {
	Article          Article
	Analysis         TopicAnalysis
	ExistingPages    []ExistingPage
	MergeSuggestions []MergeSuggestion
}

func (r *PreviewResult) MainTopic() string {
	if r.Analysis.MainTopic != "" {
		return r.Analysis.MainTopic
	}
	return r.Article.Title
}

func (r *PreviewResult) ConceptCount() int { return len(r.Analysis.Concepts) }

func (r *PreviewResult) MethodCount() int { return len(r.Analysis.Methods) }

func (r *PreviewResult) HasMergeSuggestions() bool { return len(r.MergeSuggestions) > 0 }
