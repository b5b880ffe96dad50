// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/hugo-ai/internal/openai"
	"github.com/pdiddy/hugo-ai/internal/progress"
	"github.com/pdiddy/hugo-ai/internal/similar"
	"github.com/pdiddy/hugo-ai/pkg/types"
)

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "Find related posts and write them to front matter",
	Long: `Similar finds related posts in four steps, run in order:

  1. gather  parse posts, chunk them and store them in the database
  2. embed   compute an OpenAI embedding for each new or changed chunk
  3. calc    compare every pair of non-draft posts
  4. write   add the most similar posts to each post's "related" list

Each step only reads what an earlier step stored, so a step can be re-run
on its own. Embeddings cost money and are never computed twice for the same
chunk text.`,
}

// --- gather subcommand ---

var similarGatherCmd = &cobra.Command{
	Use:   "gather <dir>",
	Short: "Parse Markdown posts, chunk them and store them in the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prune, _ := cmd.Flags().GetBool("prune")
		return withStore(func(ctx context.Context, st similar.Store) error {
			summary, err := similar.Gather(ctx, st, types.GatherConfig{Dir: args[0], Prune: prune}, stageOptions())
			if err != nil {
				return err
			}
			fmt.Printf("Gathered %d posts (%d drafts): %d new, %d changed, %d unchanged chunks",
				summary.Articles, summary.Drafts, summary.New, summary.Changed, summary.Unchanged)
			if prune {
				fmt.Printf(", %d pruned", summary.Pruned)
			}
			fmt.Println()
			return nil
		})
	},
}

// --- embed subcommand ---

var similarEmbedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Compute embeddings for chunks that have none",
	Long: `Embed calls OpenAI's embedding model for every chunk of every non-draft post
that does not have an embedding yet. It needs an OpenAI API key in
OPENAI_API_KEY, a .env file or .secrets/openai-api-key.

Use --force to discard all stored embeddings and compute them again, for
example after changing the embedding model.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		cfg := loadConfig()
		if cfg.OpenAI.APIKey == "" {
			return fmt.Errorf("no OpenAI API key: set OPENAI_API_KEY or write it to .secrets/openai-api-key")
		}
		client := openai.New(cfg.OpenAI)

		return withStore(func(ctx context.Context, st similar.Store) error {
			summary, err := similar.Embed(ctx, st, client, types.EmbedConfig{Force: force}, stageOptions())
			if err != nil {
				return err
			}
			if force {
				fmt.Printf("Cleared %d embeddings\n", summary.Invalidated)
			}
			fmt.Printf("Embedded %d chunks of %d non-draft posts (%d already embedded)\n",
				summary.Embedded, summary.Articles, summary.Cached)
			return nil
		})
	},
}

// --- calc subcommand ---

var similarCalcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compare every pair of non-draft posts and store the similarity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, st similar.Store) error {
			summary, err := similar.Calc(ctx, st, stageOptions())
			if err != nil {
				return err
			}
			fmt.Printf("Scored %d pairs of %d non-draft posts\n", summary.Pairs, summary.Articles)
			return nil
		})
	},
}

// --- write subcommand ---

var similarWriteCmd = &cobra.Command{
	Use:   "write <dir>",
	Short: "Write related posts to the front matter of each post",
	Long: `Write adds up to --limit related posts scoring at least --min-similarity to
the "related" list of every non-draft post in dir. Posts that already have a
related list are left alone.

Each original is renamed to a .BAK file first unless --no-backup is given.
Use --dry-run to print the new content without changing anything.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noBackup, _ := cmd.Flags().GetBool("no-backup")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		wcfg := loadConfig().Write
		wcfg.Dir = args[0]
		wcfg.Backup = !noBackup
		wcfg.DryRun = dryRun

		return withStore(func(ctx context.Context, st similar.Store) error {
			summary, err := similar.Write(ctx, st, wcfg, stageOptions())
			if err != nil {
				return err
			}
			if summary.Missing > 0 {
				fmt.Printf("%d stored posts no longer exist in %s\n", summary.Missing, wcfg.Dir)
			}
			fmt.Printf("\nUpdated %d posts\n", summary.Updated)
			return nil
		})
	},
}

// --- status subcommand ---

var similarStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the database holds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(loadConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		c, err := st.Counts(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Database:   %s\n", st.Path())
		fmt.Printf("Posts:      %d (%d drafts)\n", c.Articles, c.Drafts)
		fmt.Printf("Chunks:     %d (%d embedded)\n", c.Chunks, c.Embedded)
		fmt.Printf("Pairs:      %d\n", c.Pairs)
		return nil
	},
}

// withStore opens the configured store for the duration of fn.
func withStore(fn func(ctx context.Context, st similar.Store) error) error {
	st, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(context.Background(), st)
}

func stageOptions() similar.Options {
	return similar.Options{
		Progress: progress.NewTerminal(os.Stdout),
		Log:      log,
	}
}

func init() {
	similarGatherCmd.Flags().Bool("prune", false, "delete stored chunks beyond a post's current length")

	similarEmbedCmd.Flags().Bool("force", false, "discard all stored embeddings and compute them again")

	similarWriteCmd.Flags().Bool("no-backup", false, "do not keep the original as a .BAK file")
	similarWriteCmd.Flags().Bool("dry-run", false, "print the changes instead of writing them")
	similarWriteCmd.Flags().Int("limit", similar.DefaultLimit, "maximum number of related posts")
	similarWriteCmd.Flags().Float64("min-similarity", similar.DefaultMinSimilarity, "lowest similarity of a related post")
	viper.BindPFlag("similar.limit", similarWriteCmd.Flags().Lookup("limit"))
	viper.BindPFlag("similar.min_similarity", similarWriteCmd.Flags().Lookup("min-similarity"))

	similarCmd.AddCommand(similarGatherCmd, similarEmbedCmd, similarCalcCmd, similarWriteCmd, similarStatusCmd)
	rootCmd.AddCommand(similarCmd)
}
