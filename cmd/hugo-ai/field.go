// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/hugo-ai/internal/claude"
	"github.com/pdiddy/hugo-ai/internal/field"
	"github.com/pdiddy/hugo-ai/internal/openai"
	"github.com/pdiddy/hugo-ai/pkg/types"
)

// Model choices for --model.
const (
	modelGPT4o         = "gpt-4o"
	modelGPT4oMini     = "gpt-4o-mini"
	modelClaudeSonnet  = "claude-3.5-sonnet"
	modelClaudeHaiku   = "claude-3-haiku"
	modelChoicesString = modelGPT4o + ", " + modelGPT4oMini + ", " + modelClaudeSonnet + ", " + modelClaudeHaiku
)

var summaryCmd = &cobra.Command{
	Use:   "summary <dir>",
	Short: "Write a synopsis into the front matter of each post",
	Long: `Summary asks a chat model for a short first-person synopsis of every
non-draft post in dir that has no synopsis yet and is at least
field.min_length bytes long, and stores it in the "synopsis" field.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runField(cmd, args[0], "synopsis", field.SummaryPrompts)
	},
}

var taglineCmd = &cobra.Command{
	Use:   "tagline <dir>",
	Short: "Write a tagline into the front matter of each post",
	Long: `Tagline asks a chat model for a one sentence tagline of every non-draft
post in dir that has no tagline yet and is at least field.min_length bytes
long, and stores it in the "tagline" field.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runField(cmd, args[0], "tagline", field.TaglinePrompts)
	},
}

func runField(cmd *cobra.Command, dir, name string, prompts field.Prompts) error {
	model, _ := cmd.Flags().GetString("model")
	noBackup, _ := cmd.Flags().GetBool("no-backup")

	cfg := loadConfig()
	gen, err := generatorFor(model, cfg)
	if err != nil {
		return err
	}

	fcfg := cfg.Field
	fcfg.Dir = dir
	fcfg.Field = name
	fcfg.Backup = !noBackup

	_, err = field.Fill(context.Background(), gen, prompts, fcfg, os.Stdout)
	return err
}

// generatorFor maps a --model choice to a provider and model name.
func generatorFor(model string, cfg types.Config) (field.Generator, error) {
	var (
		modelName string
		useClaude bool
	)
	switch strings.ToLower(model) {
	case modelGPT4o:
		modelName = openai.ChatModelBig
	case modelGPT4oMini:
		modelName = openai.ChatModelSmall
	case modelClaudeSonnet:
		modelName, useClaude = claude.ChatModelBig, true
	case modelClaudeHaiku:
		modelName, useClaude = claude.ChatModelSmall, true
	default:
		return nil, fmt.Errorf("unknown model %q, expected one of: %s", model, modelChoicesString)
	}
	log.Debug("chat model", "choice", model, "model", modelName)

	if useClaude {
		if cfg.Anthropic.APIKey == "" {
			return nil, fmt.Errorf("no Anthropic API key: set ANTHROPIC_API_KEY or write it to .secrets/anthropic-api-key")
		}
		c := claude.New(cfg.Anthropic)
		return field.GeneratorFunc(func(ctx context.Context, system, user string) (string, error) {
			return c.Chat(ctx, modelName, system, user)
		}), nil
	}

	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("no OpenAI API key: set OPENAI_API_KEY or write it to .secrets/openai-api-key")
	}
	c := openai.New(cfg.OpenAI)
	return field.GeneratorFunc(func(ctx context.Context, system, user string) (string, error) {
		return c.Chat(ctx, modelName, system, user)
	}), nil
}

func init() {
	for _, cmd := range []*cobra.Command{summaryCmd, taglineCmd} {
		cmd.Flags().String("model", modelGPT4o, "chat model: "+modelChoicesString)
		cmd.Flags().Bool("no-backup", false, "do not keep the original as a .BAK file")
		rootCmd.AddCommand(cmd)
	}
}
