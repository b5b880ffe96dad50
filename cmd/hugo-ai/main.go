// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the hugo-ai CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/hugo-ai/internal/field"
	"github.com/pdiddy/hugo-ai/internal/logger"
	"github.com/pdiddy/hugo-ai/internal/secrets"
	"github.com/pdiddy/hugo-ai/internal/similar"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	cfgDir = ".config/hugo-ai"
	dbName = "hugo-ai.db"
)

var (
	// keys holds the provider API keys resolved at startup.
	keys secrets.Keys

	// log is the structured logger, built once verbosity is known.
	log = logger.Nop()
)

// rootCmd is the base command for the hugo-ai CLI.
var rootCmd = &cobra.Command{
	Use:   "hugo-ai",
	Short: "AI helpers for a Hugo blog",
	Long: `hugo-ai annotates the Markdown posts of a Hugo site using language models.

The similar command finds related posts from text embeddings and writes them
to each post's "related" front matter list. The summary and tagline commands
fill the synopsis and tagline fields with text generated from the post body.

Back up your posts before running a command that writes them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(viper.GetBool("verbose"))
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		log = l

		k, err := secrets.Resolve(".secrets/", ".env")
		if err != nil {
			return err
		}
		keys = k
		log.Debug("resolved keys", "openai", k.OpenAI != "", "anthropic", k.Anthropic != "")
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./hugo-ai.yaml or ~/.config/hugo-ai/hugo-ai.yaml)")
	rootCmd.PersistentFlags().String("db-path", "", "database path (default: ~/.config/hugo-ai/hugo-ai.db)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug details to stderr")

	viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db-path"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	home, homeErr := os.UserHomeDir()

	viper.SetDefault("http.timeout", 60*time.Second)
	viper.SetDefault("http.max_retries", 0)
	viper.SetDefault("similar.limit", similar.DefaultLimit)
	viper.SetDefault("similar.min_similarity", similar.DefaultMinSimilarity)
	viper.SetDefault("field.min_length", field.DefaultMinLength)
	if homeErr == nil {
		viper.SetDefault("db_path", filepath.Join(home, cfgDir, dbName))
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("hugo-ai")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if homeErr == nil {
			viper.AddConfigPath(filepath.Join(home, cfgDir))
		}
	}

	viper.SetEnvPrefix("HUGO_AI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	err := rootCmd.Execute()
	log.Sync()
	if err != nil {
		os.Exit(1)
	}
}
