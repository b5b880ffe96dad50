// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similar

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/pdiddy/hugo-ai/internal/chunk"
	"github.com/pdiddy/hugo-ai/internal/posts"
	"github.com/pdiddy/hugo-ai/pkg/types"
)

// GatherSummary reports the outcome of a gather run.
type GatherSummary struct {
	Articles  int
	Drafts    int
	New       int
	Changed   int
	Unchanged int
	Pruned    int
}

// Gather parses every post in cfg.Dir, splits its body into chunks headed
// by the title and date, and saves article and chunks in one transaction
// per post. A post with malformed front matter aborts the run; posts saved
// before it stay saved.
func Gather(ctx context.Context, st Store, cfg types.GatherConfig, opts Options) (GatherSummary, error) {
	log := opts.log().With("stage", "gather")
	rep := opts.reporter()

	paths, err := posts.List(cfg.Dir)
	if err != nil {
		return GatherSummary{}, err
	}

	rep.Start("gather", len(paths))
	defer rep.Done()

	var summary GatherSummary
	for _, path := range paths {
		rep.Step(filepath.Base(path))

		doc, err := posts.Load(path)
		if err != nil {
			return summary, err
		}

		a := ArticleOf(path, doc.Meta.Title, doc.Meta.URL, doc.Meta.Date, doc.Meta.Draft)
		chunks := chunk.Split([]string{doc.Meta.Title, doc.Meta.Date}, doc.Body)

		res, err := st.SaveArticle(ctx, a, chunks, cfg.Prune)
		if err != nil {
			return summary, fmt.Errorf("saving %s: %w", path, err)
		}
		log.Debug("gathered", "file", a.Filename, "chunks", len(chunks),
			"new", res.New, "changed", res.Changed, "unchanged", res.Unchanged, "pruned", res.Pruned)

		summary.Articles++
		if a.IsDraft {
			summary.Drafts++
		}
		summary.New += res.New
		summary.Changed += res.Changed
		summary.Unchanged += res.Unchanged
		summary.Pruned += res.Pruned
	}
	return summary, nil
}

// ArticleOf builds the stored form of a post at path. A date that is not
// RFC 3339 is kept only in the chunk header.
func ArticleOf(path, title, url, date string, draft bool) types.Article {
	a := types.Article{
		Title:    title,
		URL:      url,
		Filename: filepath.Base(path),
		IsDraft:  draft,
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		a.Date = t
	}
	return a
}
