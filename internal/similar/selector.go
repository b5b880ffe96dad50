// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similar

import (
	"path/filepath"
	"sort"

	"github.com/pdiddy/hugo-ai/pkg/types"
)

const (
	// DefaultLimit is the most related articles written to a post.
	DefaultLimit = 3

	// DefaultMinSimilarity is the lowest score a related article may have.
	DefaultMinSimilarity = 0.4
)

// Select picks up to limit neighbors with similarity of at least
// minSimilarity, most similar first, and returns their base filenames. Ties
// are broken by filename. It returns nil when no neighbor qualifies.
func Select(neighbors []types.Neighbor, limit int, minSimilarity float64) []string {
	sorted := append([]types.Neighbor(nil), neighbors...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Similarity != sorted[j].Similarity {
			return sorted[i].Similarity > sorted[j].Similarity
		}
		return sorted[i].Filename < sorted[j].Filename
	})

	var related []string
	for _, n := range sorted {
		if len(related) >= limit {
			break
		}
		if n.Similarity < minSimilarity {
			break
		}
		related = append(related, filepath.Base(n.Filename))
	}
	return related
}
