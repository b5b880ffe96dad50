// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similar

import (
	"context"
	"fmt"

	"github.com/pdiddy/hugo-ai/pkg/types"
)

// EmbedSummary reports the outcome of an embed run.
type EmbedSummary struct {
	Articles    int
	Embedded    int
	Cached      int
	Invalidated int64
}

// Embed computes the embedding of every chunk of every non-draft article
// that does not have one yet. The embeddings of one article are committed
// together after all its provider calls succeed. With cfg.Force every
// stored embedding is cleared first.
//
// A provider error aborts the run. Articles committed before it keep their
// embeddings and are not sent again on the next run.
func Embed(ctx context.Context, st Store, emb Embedder, cfg types.EmbedConfig, opts Options) (EmbedSummary, error) {
	log := opts.log().With("stage", "embed")
	rep := opts.reporter()

	var summary EmbedSummary
	if cfg.Force {
		n, err := st.InvalidateEmbeddings(ctx)
		if err != nil {
			return summary, err
		}
		summary.Invalidated = n
		log.Info("cleared embeddings", "count", n)
	}

	articles, err := st.ActiveArticles(ctx)
	if err != nil {
		return summary, err
	}
	summary.Articles = len(articles)

	rep.Start("embed", len(articles))
	defer rep.Done()

	for _, a := range articles {
		rep.Step(a.Title)

		chunks, err := st.Chunks(ctx, a.ID)
		if err != nil {
			return summary, fmt.Errorf("loading chunks of %s: %w", a.Filename, err)
		}

		missing := make(map[int][]float64)
		for _, c := range chunks {
			if c.Embedded() {
				summary.Cached++
				continue
			}
			v, err := emb.Embed(ctx, c.Text)
			if err != nil {
				return summary, fmt.Errorf("embedding %s chunk %d: %w", a.Filename, c.Index, err)
			}
			if len(v) == 0 {
				return summary, fmt.Errorf("embedding %s chunk %d: provider returned an empty vector", a.Filename, c.Index)
			}
			missing[c.Index] = v
		}
		if len(missing) == 0 {
			log.Debug("all chunks cached", "file", a.Filename)
			continue
		}

		n, err := st.SaveEmbeddings(ctx, a.ID, missing)
		if err != nil {
			return summary, fmt.Errorf("saving embeddings of %s: %w", a.Filename, err)
		}
		log.Debug("embedded", "file", a.Filename, "chunks", n)
		summary.Embedded += n
	}
	return summary, nil
}
