package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load consults so tests see only their
// own fixture, not the host's deployment settings.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY",
		"OPENAI_BASE_URL",
		"WIKIJS_GRAPHQL_URL",
		"WIKIJS_API_TOKEN",
		"WIKIJS_LOCALE",
		"WIKIJS_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configData := `
llm:
  model: "gpt-4o"
  temperature: 0.2
  max_tokens: 1500
  api_key: "sk-test"

wiki:
  graphql_url: "https://wiki.example.com/graphql"
  api_token: "wiki-token"
  locale: "en"
  timeout_seconds: 10

extractor:
  timeout_seconds: 15
  rate_limit: 1.5
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	config, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", config.LLM.Model)
	assert.Equal(t, 0.2, config.LLM.Temperature)
	assert.Equal(t, 1500, config.LLM.MaxTokens)
	assert.Equal(t, "sk-test", config.LLM.APIKey)
	assert.Equal(t, "https://wiki.example.com/graphql", config.Wiki.GraphQLURL)
	assert.Equal(t, "wiki-token", config.Wiki.APIToken)
	assert.Equal(t, "en", config.Wiki.Locale)
	assert.Equal(t, 10, config.Wiki.TimeoutSeconds)
	assert.Equal(t, 15, config.Extractor.TimeoutSeconds)
	assert.Equal(t, 1.5, config.Extractor.RateLimit)
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("{}"), 0644))

	config, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", config.LLM.Model)
	assert.Equal(t, 0.1, config.LLM.Temperature)
	assert.Equal(t, 2000, config.LLM.MaxTokens)
	assert.Equal(t, "zh-tw", config.Wiki.Locale)
	assert.Equal(t, 5, config.Wiki.TimeoutSeconds)
	assert.Equal(t, 30, config.Extractor.TimeoutSeconds)
	assert.Equal(t, 2.0, config.Extractor.RateLimit)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("WIKIJS_GRAPHQL_URL", "https://env-wiki.example.com/graphql")
	t.Setenv("WIKIJS_API_TOKEN", "env-token")
	t.Setenv("WIKIJS_LOCALE", "ja")
	t.Setenv("WIKIJS_TIMEOUT", "12")

	config := &Config{}
	mergeWithEnv(config)

	assert.Equal(t, "sk-env", config.LLM.APIKey)
	assert.Equal(t, "https://env-wiki.example.com/graphql", config.Wiki.GraphQLURL)
	assert.Equal(t, "env-token", config.Wiki.APIToken)
	assert.Equal(t, "ja", config.Wiki.Locale)
	assert.Equal(t, 12, config.Wiki.TimeoutSeconds)
}

func TestLegacyJSONFallback(t *testing.T) {
	tmpDir := t.TempDir()
	legacyPath := filepath.Join(tmpDir, "config.json")

	legacyData := `{
  "wiki.js": {
    "graphql_url": "https://legacy.example.com/graphql",
    "api": "legacy-token",
    "locale": "zh-tw"
  }
}`
	require.NoError(t, os.WriteFile(legacyPath, []byte(legacyData), 0644))

	config := &Config{}
	mergeWithLegacyJSON(config, legacyPath)

	assert.Equal(t, "https://legacy.example.com/graphql", config.Wiki.GraphQLURL)
	assert.Equal(t, "legacy-token", config.Wiki.APIToken)
	assert.Equal(t, "zh-tw", config.Wiki.Locale)
}

func TestLegacyJSONDoesNotOverrideExisting(t *testing.T) {
	tmpDir := t.TempDir()
	legacyPath := filepath.Join(tmpDir, "config.json")
	legacyData := `{"wiki.js": {"graphql_url": "https://legacy.example.com/graphql", "api": "legacy-token"}}`
	require.NoError(t, os.WriteFile(legacyPath, []byte(legacyData), 0644))

	config := &Config{}
	config.Wiki.GraphQLURL = "https://primary.example.com/graphql"
	config.Wiki.APIToken = "primary-token"
	mergeWithLegacyJSON(config, legacyPath)

	assert.Equal(t, "https://primary.example.com/graphql", config.Wiki.GraphQLURL)
	assert.Equal(t, "primary-token", config.Wiki.APIToken)
}

func TestConfigValidation(t *testing.T) {
	valid := &Config{}
	valid.LLM.APIKey = "sk-test"
	valid.LLM.Temperature = 0.1
	valid.LLM.MaxTokens = 2000
	valid.Wiki.GraphQLURL = "https://wiki.example.com/graphql"
	valid.Wiki.APIToken = "token"
	valid.Wiki.Locale = "zh-tw"
	valid.Wiki.TimeoutSeconds = 5
	valid.Extractor.TimeoutSeconds = 30
	valid.Extractor.RateLimit = 2.0

	assert.Empty(t, valid.Validate())

	invalid := &Config{}
	invalid.LLM.Temperature = 3.0
	invalid.Wiki.GraphQLURL = "not-a-url"
	errs := invalid.Validate()

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "llm.api_key")
	assert.Contains(t, fields, "llm.temperature")
	assert.Contains(t, fields, "wiki.graphql_url")
	assert.Contains(t, fields, "wiki.api_token")
}
