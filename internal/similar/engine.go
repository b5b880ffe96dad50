// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similar

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/hugo-ai/internal/vector"
	"github.com/pdiddy/hugo-ai/pkg/types"
)

// ErrNoEmbeddings reports an article with no embedded chunk to compare.
var ErrNoEmbeddings = errors.New("article has no embedded chunks, run embed first")

// PairSimilarity returns the mean cosine similarity over every pairing of an
// embedded chunk of a with an embedded chunk of b. Chunks without an
// embedding are ignored.
func PairSimilarity(a, b []types.Chunk) (float64, error) {
	ea, eb := embedded(a), embedded(b)
	if len(ea) == 0 || len(eb) == 0 {
		return 0, ErrNoEmbeddings
	}

	var sum float64
	for _, ca := range ea {
		for _, cb := range eb {
			s, err := vector.Cosine(ca.Embedding, cb.Embedding)
			if err != nil {
				return 0, fmt.Errorf("chunks %d and %d: %w", ca.Index, cb.Index, err)
			}
			sum += s
		}
	}
	return sum / float64(len(ea)*len(eb)), nil
}

func embedded(chunks []types.Chunk) []types.Chunk {
	var out []types.Chunk
	for _, c := range chunks {
		if c.Embedded() {
			out = append(out, c)
		}
	}
	return out
}

// CalcSummary reports the outcome of a calc run.
type CalcSummary struct {
	Articles int
	Pairs    int
}

// Calc scores every unordered pair of non-draft articles once and upserts
// the scores, one transaction per outer article. Chunks are loaded once per
// article. On error, pairs committed for earlier articles are kept.
func Calc(ctx context.Context, st Store, opts Options) (CalcSummary, error) {
	log := opts.log().With("stage", "calc")
	rep := opts.reporter()

	articles, err := st.ActiveArticles(ctx)
	if err != nil {
		return CalcSummary{}, err
	}
	summary := CalcSummary{Articles: len(articles)}

	chunks := make([][]types.Chunk, len(articles))
	for i, a := range articles {
		chunks[i], err = st.Chunks(ctx, a.ID)
		if err != nil {
			return summary, fmt.Errorf("loading chunks of %s: %w", a.Filename, err)
		}
		if len(embedded(chunks[i])) == 0 {
			return summary, fmt.Errorf("%s: %w", a.Filename, ErrNoEmbeddings)
		}
	}

	rep.Start("calc", len(articles))
	defer rep.Done()

	for i, a := range articles {
		rep.Step(a.Filename)

		var pairs []types.SimilarityPair
		for j := i + 1; j < len(articles); j++ {
			b := articles[j]
			s, err := PairSimilarity(chunks[i], chunks[j])
			if err != nil {
				return summary, fmt.Errorf("comparing %s and %s: %w", a.Filename, b.Filename, err)
			}
			log.Debug("scored pair", "a", a.Filename, "b", b.Filename, "similarity", s)
			pairs = append(pairs, types.SimilarityPair{A: a.ID, B: b.ID, Similarity: s})
		}

		if len(pairs) == 0 {
			continue
		}
		if err := st.SaveSimilarities(ctx, pairs); err != nil {
			return summary, fmt.Errorf("saving similarities of %s: %w", a.Filename, err)
		}
		summary.Pairs += len(pairs)
	}
	return summary, nil
}
