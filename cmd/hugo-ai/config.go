// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/hugo-ai/internal/store"
	"github.com/pdiddy/hugo-ai/pkg/types"
)

// loadConfig assembles the typed configuration from viper and the resolved
// keys.
func loadConfig() types.Config {
	httpCfg := types.HTTPConfig{
		Timeout:    viper.GetDuration("http.timeout"),
		MaxRetries: viper.GetInt("http.max_retries"),
	}
	return types.Config{
		DBPath:  expandHome(viper.GetString("db_path")),
		Verbose: viper.GetBool("verbose"),
		OpenAI: types.OpenAIConfig{
			HTTPConfig: httpCfg,
			APIKey:     keys.OpenAI,
			BaseURL:    viper.GetString("openai.base_url"),
			EmbedModel: viper.GetString("openai.embed_model"),
		},
		Anthropic: types.AnthropicConfig{
			HTTPConfig: httpCfg,
			APIKey:     keys.Anthropic,
			BaseURL:    viper.GetString("anthropic.base_url"),
		},
		Write: types.WriteConfig{
			Limit:         viper.GetInt("similar.limit"),
			MinSimilarity: viper.GetFloat64("similar.min_similarity"),
		},
		Field: types.FieldConfig{
			MinLength: viper.GetInt("field.min_length"),
		},
	}
}

// openStore opens the database named by the configuration.
func openStore(cfg types.Config) (*store.Store, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("no database path: set --db-path or db_path")
	}
	log.Debug("opening store", "path", cfg.DBPath)
	return store.Open(cfg.DBPath)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
