package types

import "time"

// HTTPConfig holds shared HTTP settings used by the provider clients.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of retries on HTTP 429. Zero disables
	// retrying: a failed call aborts the stage and a rerun resumes.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// OpenAIConfig holds settings for the OpenAI embedding and chat endpoints.
type OpenAIConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the bearer token. Loaded from secrets or OPENAI_API_KEY.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL is the API root (default https://api.openai.com/v1).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// EmbedModel is the embedding model (default text-embedding-3-small).
	EmbedModel string `json:"embed_model" yaml:"embed_model"`
}

// AnthropicConfig holds settings for the Anthropic Messages endpoint.
type AnthropicConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is sent as x-api-key. Loaded from secrets or ANTHROPIC_API_KEY.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL is the API root (default https://api.anthropic.com).
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// GatherConfig holds settings for the gather stage.
type GatherConfig struct {
	// Dir is the directory of Markdown posts.
	Dir string `json:"dir" yaml:"dir"`

	// Prune deletes stored chunks beyond an article's current chunk count.
	Prune bool `json:"prune" yaml:"prune"`
}

// EmbedConfig holds settings for the embed stage.
type EmbedConfig struct {
	// Force clears every stored embedding before embedding.
	Force bool `json:"force" yaml:"force"`
}

// WriteConfig holds settings for the write stage.
type WriteConfig struct {
	// Dir is the directory of Markdown posts.
	Dir string `json:"dir" yaml:"dir"`

	// Backup renames each original to a .BAK sibling before writing.
	Backup bool `json:"backup" yaml:"backup"`

	// DryRun prints the intended changes without touching any file.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// Limit is the maximum length of a related list (default 3).
	Limit int `json:"limit" yaml:"limit"`

	// MinSimilarity is the inclusive lower bound for a related peer
	// (default 0.4).
	MinSimilarity float64 `json:"min_similarity" yaml:"min_similarity"`
}

// FieldConfig holds settings for the front matter field fill commands.
type FieldConfig struct {
	// Dir is the directory of Markdown posts.
	Dir string `json:"dir" yaml:"dir"`

	// Field is the front matter key to populate (e.g. "synopsis").
	Field string `json:"field" yaml:"field"`

	// MinLength skips posts whose body is shorter than this, in bytes.
	MinLength int `json:"min_length" yaml:"min_length"`

	// Backup renames each original to a .BAK sibling before writing.
	Backup bool `json:"backup" yaml:"backup"`
}

// Config groups the settings read from hugo-ai.yaml, the environment and
// the command line.
type Config struct {
	DBPath    string          `json:"db_path" yaml:"db_path"`
	Verbose   bool            `json:"verbose" yaml:"verbose"`
	OpenAI    OpenAIConfig    `json:"openai" yaml:"openai"`
	Anthropic AnthropicConfig `json:"anthropic" yaml:"anthropic"`
	Write     WriteConfig     `json:"similar" yaml:"similar"`
	Field     FieldConfig     `json:"field" yaml:"field"`
}
