// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package similar finds related articles. It runs as four stages over a
// shared store, each invoked separately and in order:
//
//	Gather  parse posts, chunk their bodies, upsert articles and chunks
//	Embed   compute the embedding of every chunk that has none
//	Calc    score every pair of non-draft articles
//	Write   add the best scoring peers to each post's "related" list
//
// Each stage reads only what an earlier stage persisted, so any stage can be
// re-run on its own.
package similar

import (
	"context"

	"github.com/pdiddy/hugo-ai/internal/logger"
	"github.com/pdiddy/hugo-ai/internal/progress"
	"github.com/pdiddy/hugo-ai/pkg/types"
)

// Store is the persistence the stages need. *store.Store implements it.
type Store interface {
	SaveArticle(ctx context.Context, a types.Article, chunks []string, prune bool) (types.GatherResult, error)
	ActiveArticles(ctx context.Context) ([]types.Article, error)
	Chunks(ctx context.Context, articleID int64) ([]types.Chunk, error)
	SaveEmbeddings(ctx context.Context, articleID int64, embeds map[int][]float64) (int, error)
	InvalidateEmbeddings(ctx context.Context) (int64, error)
	SaveSimilarities(ctx context.Context, pairs []types.SimilarityPair) error
	Neighbors(ctx context.Context, articleID int64) ([]types.Neighbor, error)
}

// Embedder computes the embedding vector of a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Options carries the presentation collaborators of a stage. Zero values
// discard output.
type Options struct {
	Progress progress.Reporter
	Log      *logger.Logger
}

func (o Options) reporter() progress.Reporter {
	if o.Progress == nil {
		return progress.Nop{}
	}
	return o.Progress
}

func (o Options) log() *logger.Logger {
	if o.Log == nil {
		return logger.Nop()
	}
	return o.Log
}
