// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similar

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/pdiddy/hugo-ai/internal/posts"
	"github.com/pdiddy/hugo-ai/internal/rewrite"
	"github.com/pdiddy/hugo-ai/pkg/types"
)

// WriteSummary reports the outcome of a write run.
type WriteSummary struct {
	Articles int

	// Updated is the number of posts written, or previewed on a dry run.
	Updated int

	// NoRelated counts posts with no peer above the threshold.
	NoRelated int

	// HasRelated counts posts whose related list was already filled.
	HasRelated int

	// Missing counts stored articles whose file is gone from cfg.Dir.
	Missing int
}

// Write adds the related articles of every non-draft article to its post in
// cfg.Dir. A post whose front matter already lists related articles is left
// alone. On a dry run the new content goes to the reporter and no file is
// touched.
func Write(ctx context.Context, st Store, cfg types.WriteConfig, opts Options) (WriteSummary, error) {
	log := opts.log().With("stage", "write")
	rep := opts.reporter()

	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	articles, err := st.ActiveArticles(ctx)
	if err != nil {
		return WriteSummary{}, err
	}
	summary := WriteSummary{Articles: len(articles)}

	rep.Start("write", len(articles))
	defer rep.Done()

	for _, a := range articles {
		rep.Step(a.Filename)

		neighbors, err := st.Neighbors(ctx, a.ID)
		if err != nil {
			return summary, err
		}
		related := Select(neighbors, limit, cfg.MinSimilarity)
		if len(related) == 0 {
			log.Debug("nothing similar enough", "file", a.Filename)
			summary.NoRelated++
			continue
		}

		path := filepath.Join(cfg.Dir, a.Filename)
		doc, err := posts.Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("post no longer exists", "file", path)
			summary.Missing++
			continue
		}
		if err != nil {
			return summary, err
		}
		if len(doc.Meta.Related) > 0 {
			log.Debug("already has related", "file", a.Filename)
			summary.HasRelated++
			continue
		}

		doc.SetStrings("related", related)
		out, err := doc.Render()
		if err != nil {
			return summary, fmt.Errorf("%s: %w", path, err)
		}

		if cfg.DryRun {
			rep.Preview(a.Filename, out)
		} else if err := rewrite.File(path, []byte(out), cfg.Backup); err != nil {
			return summary, err
		}
		summary.Updated++
	}
	return summary, nil
}
