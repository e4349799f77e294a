package llm

import (
	"fmt"
	"strings"

	"paper2wiki/internal/models"
)

const analyzeSystemPrompt = `You are a professional knowledge-management expert. Analyze the given science article and extract the knowledge points suitable for wiki entries, following these rules:

1. Concept decomposition: identify key concepts, definitions, models and theories
2. Technical methods: extract experimental methods, tools and research techniques
3. Application cases: identify concrete application scenarios and empirical data
4. Background problems: analyze the problems and motivation the research addresses
5. Citation relations: identify connections to other research

Return the analysis as JSON with the following fields:
- concepts: list of key concepts
- methods: list of technical methods
- applications: list of application cases
- problems: list of background problems
- main_topic: the main topic (used for the primary entry)
- suggested_tags: list of suggested tags

Return only JSON, no other text.`

func analyzeHumanPrompt(article models.Article, story string) string {
	return fmt.Sprintf(`Analyze the following science article:

Title: %s
Source: %s
Date: %s
Summary: %s
Full story: %s
URL: %s`,
		article.Title, article.Source, article.Date, article.Summary, story, article.URL)
}

func translateSystemPrompt(language string) string {
	return fmt.Sprintf(`Translate the provided text into %s.

Requirements:
1. Preserve the meaning and structure of the original
2. Use correct characters and grammar for the target language
3. Keep technical terms accurate; on first occurrence of a term, render it as "translation (original)", afterwards use only the translation
4. Return only the translation, no explanatory text`, language)
}

func translateHumanPrompt(language, text string) string {
	return fmt.Sprintf("Translate the following text into %s:\n\n%s", language, text)
}

const mergeSystemPrompt = `Assess how related a new topic is to each existing page, to decide whether new knowledge should be merged into an existing page instead of creating a new one.

Score each existing page against the new topic on a 0-1 scale:
- 0.8-1.0: highly related, merge recommended
- 0.5-0.8: moderately related, merging worth considering
- 0-0.5: weakly related, keep independent

Return only a JSON array of objects with page_title and similarity_score fields.`

func mergeHumanPrompt(newTopic string, titles []string) string {
	return fmt.Sprintf(`New topic: %s

Existing page titles:
%s

Assess the relevance and return the JSON result.`, newTopic, strings.Join(titles, "\n"))
}

func generateCreateSystemPrompt(contentType models.ContentType, topic string) string {
	return fmt.Sprintf(`Create wiki entry content from the given science article.

Requirements:
1. Use clean Markdown formatting
2. Content must be accurate, concise and easy to understand
3. Every sentence must carry a precise citation marker (such as [1]), with the source listed in a References section in APA 8 format
4. Add a References section at the bottom of the page and make sure every marker maps to the correct source
5. Adjust structure and emphasis to the content type

Content type: %s
Entry topic: %s

Return the complete Markdown content, with a citation marker on every sentence.`, contentType, topic)
}

func generateCreateHumanPrompt(article models.Article, story string) string {
	return fmt.Sprintf(`Create a wiki entry from the following science article:

Title: %s
Source: %s
Date: %s
Summary: %s
Full story: %s
URL: %s`,
		article.Title, article.Source, article.Date, article.Summary, story, article.URL)
}

func generateUpdateSystemPrompt(contentType models.ContentType, topic string) string {
	return fmt.Sprintf(`Update the existing wiki entry with the newly provided science article.

Requirements:
1. Keep the valuable parts of the existing content
2. Integrate the new information without duplication
3. Keep the content coherent and complete
4. Every sentence must carry a precise citation marker (such as [1]), with the source listed in the References section in APA 8 format
5. Append the new citations to the References section and make sure every marker maps to the correct source

Content type: %s
Entry topic: %s

Return the complete updated Markdown content, with a citation marker on every sentence.`, contentType, topic)
}

func generateUpdateHumanPrompt(existing string, article models.Article, story string) string {
	return fmt.Sprintf(`Existing entry content:
%s

---

New information source:
Title: %s
Source: %s
Date: %s
Summary: %s
Full story: %s
URL: %s

Update the existing entry, integrating the new information.`,
		existing, article.Title, article.Source, article.Date, article.Summary, story, article.URL)
}
