package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM struct {
		Model       string  `yaml:"model"`
		Temperature float64 `yaml:"temperature"`
		MaxTokens   int     `yaml:"max_tokens"`
		APIKey      string  `yaml:"api_key"`
		BaseURL     string  `yaml:"base_url"`
	} `yaml:"llm"`

	Wiki struct {
		GraphQLURL     string `yaml:"graphql_url"`
		APIToken       string `yaml:"api_token"`
		Locale         string `yaml:"locale"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"wiki"`

	Extractor struct {
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		RateLimit      float64 `yaml:"rate_limit"`
	} `yaml:"extractor"`
}

// legacyConfig is the pre-YAML config.json layout, kept readable so old
// deployments keep working without migration.
type legacyConfig struct {
	WikiJS struct {
		GraphQLURL string `json:"graphql_url"`
		API        string `json:"api"`
		Locale     string `json:"locale"`
	} `json:"wiki.js"`
}

const legacyConfigPath = "config.json"

func Load(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/paper2wiki/config.yaml"),
			"/etc/paper2wiki/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	config := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %v", err)
		}
	}

	mergeWithEnv(config)
	mergeWithLegacyJSON(config, legacyConfigPath)
	applyDefaults(config)

	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Model == "" {
		config.LLM.Model = "gpt-4o-mini"
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.1
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 2000
	}

	if config.Wiki.Locale == "" {
		config.Wiki.Locale = "zh-tw"
	}
	if config.Wiki.TimeoutSeconds == 0 {
		config.Wiki.TimeoutSeconds = 5
	}

	if config.Extractor.TimeoutSeconds == 0 {
		config.Extractor.TimeoutSeconds = 30
	}
	if config.Extractor.RateLimit == 0 {
		config.Extractor.RateLimit = 2.0
	}
}

func mergeWithEnv(config *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.LLM.APIKey = key
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if url := os.Getenv("WIKIJS_GRAPHQL_URL"); url != "" {
		config.Wiki.GraphQLURL = url
	}
	if token := os.Getenv("WIKIJS_API_TOKEN"); token != "" {
		config.Wiki.APIToken = token
	}
	if locale := os.Getenv("WIKIJS_LOCALE"); locale != "" {
		config.Wiki.Locale = locale
	}
	if timeout := os.Getenv("WIKIJS_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil {
			config.Wiki.TimeoutSeconds = secs
		}
	}
}

// mergeWithLegacyJSON consults the old config.json only for wiki settings
// still missing after YAML and environment merging.
func mergeWithLegacyJSON(config *Config, path string) {
	if config.Wiki.GraphQLURL != "" && config.Wiki.APIToken != "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var legacy legacyConfig
	if err := json.Unmarshal(data, &legacy); err != nil {
		return
	}

	if config.Wiki.GraphQLURL == "" {
		config.Wiki.GraphQLURL = legacy.WikiJS.GraphQLURL
	}
	if config.Wiki.APIToken == "" {
		config.Wiki.APIToken = legacy.WikiJS.API
	}
	if config.Wiki.Locale == "" {
		config.Wiki.Locale = legacy.WikiJS.Locale
	}
}
