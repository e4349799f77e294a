package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.LLM.APIKey == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.api_key",
			Message: "OpenAI API key is required",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if c.LLM.MaxTokens < 1 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be positive",
		})
	}

	if c.Wiki.GraphQLURL == "" {
		errors = append(errors, ValidationError{
			Field:   "wiki.graphql_url",
			Message: "Wiki.js GraphQL URL is required",
		})
	} else if u, err := url.Parse(c.Wiki.GraphQLURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "wiki.graphql_url",
			Message: "invalid Wiki.js GraphQL URL",
		})
	}

	if c.Wiki.APIToken == "" {
		errors = append(errors, ValidationError{
			Field:   "wiki.api_token",
			Message: "Wiki.js API token is required",
		})
	}

	if c.Wiki.Locale == "" {
		errors = append(errors, ValidationError{
			Field:   "wiki.locale",
			Message: "locale must not be empty",
		})
	}

	if c.Wiki.TimeoutSeconds < 1 {
		errors = append(errors, ValidationError{
			Field:   "wiki.timeout_seconds",
			Message: "timeout_seconds must be positive",
		})
	}

	if c.Extractor.TimeoutSeconds < 1 {
		errors = append(errors, ValidationError{
			Field:   "extractor.timeout_seconds",
			Message: "timeout_seconds must be positive",
		})
	}

	if c.Extractor.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "extractor.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	return errors
}
