// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/hugo-ai/internal/vector"
	"github.com/pdiddy/hugo-ai/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "hugo-ai.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func article(filename string, draft bool) types.Article {
	return types.Article{
		Title:    "Title of " + filename,
		URL:      "/" + filename + "/",
		Date:     time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		Filename: filename,
		IsDraft:  draft,
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	s := testStore(t)

	for _, table := range []string{"article", "article_chunk", "article_similarity"} {
		var name string
		err := s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s", table)
	}

	// Reopening an existing database is a no-op.
	again, err := Open(s.Path())
	require.NoError(t, err)
	again.Close()
}

func TestSaveArticleIsIdempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := article("a.md", false)
	first, err := s.SaveArticle(ctx, a, []string{"one", "two"}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, first.New)

	second, err := s.SaveArticle(ctx, a, []string{"one", "two"}, false)
	require.NoError(t, err)
	assert.Equal(t, first.ArticleID, second.ArticleID)
	assert.Equal(t, 0, second.New)
	assert.Equal(t, 2, second.Unchanged)

	all, err := s.AllArticles(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, a.Title, all[0].Title)
	assert.True(t, a.Date.Equal(all[0].Date))

	chunks, err := s.Chunks(ctx, first.ArticleID)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "one", chunks[0].Text)
	assert.Equal(t, 1, chunks[1].Index)
	assert.False(t, chunks[0].Embedded())
}

func TestSaveArticleRefreshesMetadata(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := article("a.md", true)
	a.Date = time.Time{}
	_, err := s.SaveArticle(ctx, a, []string{"x"}, false)
	require.NoError(t, err)

	active, err := s.ActiveArticles(ctx)
	require.NoError(t, err)
	assert.Empty(t, active, "drafts are not active")

	a.IsDraft = false
	a.Title = "Published"
	_, err = s.SaveArticle(ctx, a, []string{"x"}, false)
	require.NoError(t, err)

	active, err = s.ActiveArticles(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Published", active[0].Title)
	assert.True(t, active[0].Date.IsZero())
}

func TestEmbeddingCacheInvalidation(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := article("a.md", false)
	res, err := s.SaveArticle(ctx, a, []string{"keep", "edit"}, false)
	require.NoError(t, err)

	n, err := s.SaveEmbeddings(ctx, res.ArticleID, map[int][]float64{0: {1, 0}, 1: {0, 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	res, err = s.SaveArticle(ctx, a, []string{"keep", "edited", "added"}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Unchanged)
	assert.Equal(t, 1, res.Changed)
	assert.Equal(t, 1, res.New)

	chunks, err := s.Chunks(ctx, res.ArticleID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, []float64{1, 0}, chunks[0].Embedding, "unchanged chunk keeps its embedding")
	assert.Nil(t, chunks[1].Embedding, "changed chunk loses its embedding")
	assert.Equal(t, "edited", chunks[1].Text)
	assert.Nil(t, chunks[2].Embedding)
}

func TestSaveEmbeddingsNeverOverwrites(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	res, err := s.SaveArticle(ctx, article("a.md", false), []string{"x", "y"}, false)
	require.NoError(t, err)

	_, err = s.SaveEmbeddings(ctx, res.ArticleID, map[int][]float64{0: {1, 2}})
	require.NoError(t, err)

	n, err := s.SaveEmbeddings(ctx, res.ArticleID, map[int][]float64{0: {9, 9}, 1: {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	chunks, err := s.Chunks(ctx, res.ArticleID)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, chunks[0].Embedding)
	assert.Equal(t, []float64{3, 4}, chunks[1].Embedding)

	_, err = s.SaveEmbeddings(ctx, res.ArticleID, map[int][]float64{1: nil})
	assert.ErrorIs(t, err, vector.ErrEmpty)
}

func TestInvalidateEmbeddings(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	res, err := s.SaveArticle(ctx, article("a.md", false), []string{"x", "y"}, false)
	require.NoError(t, err)
	_, err = s.SaveEmbeddings(ctx, res.ArticleID, map[int][]float64{0: {1}, 1: {2}})
	require.NoError(t, err)

	n, err := s.InvalidateEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	c, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Embedded)
	assert.Equal(t, 2, c.Chunks)
}

func TestSaveArticlePrune(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := article("a.md", false)
	_, err := s.SaveArticle(ctx, a, []string{"1", "2", "3"}, false)
	require.NoError(t, err)

	res, err := s.SaveArticle(ctx, a, []string{"1"}, false)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Pruned)
	chunks, err := s.Chunks(ctx, res.ArticleID)
	require.NoError(t, err)
	assert.Len(t, chunks, 3, "stale chunks are kept without prune")

	res, err = s.SaveArticle(ctx, a, []string{"1"}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pruned)
	chunks, err = s.Chunks(ctx, res.ArticleID)
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestChunksCorruptBlob(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	res, err := s.SaveArticle(ctx, article("a.md", false), []string{"x"}, false)
	require.NoError(t, err)
	_, err = s.db.Exec(`UPDATE article_chunk SET embed = ? WHERE article_id = ?`, []byte{0xff, 0, 0}, res.ArticleID)
	require.NoError(t, err)

	_, err = s.Chunks(ctx, res.ArticleID)
	assert.ErrorIs(t, err, vector.ErrBadBlob)
}

func TestSimilaritiesAndNeighbors(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	ids := map[string]int64{}
	for _, f := range []string{"a.md", "b.md", "c.md", "d.md"} {
		res, err := s.SaveArticle(ctx, article(f, f == "d.md"), []string{f}, false)
		require.NoError(t, err)
		ids[f] = res.ArticleID
	}

	require.NoError(t, s.SaveSimilarities(ctx, []types.SimilarityPair{
		{A: ids["b.md"], B: ids["a.md"], Similarity: 0.9},
		{A: ids["a.md"], B: ids["c.md"], Similarity: 0.5},
		{A: ids["a.md"], B: ids["d.md"], Similarity: 0.99},
	}))

	// Reversed pair updates the same row.
	require.NoError(t, s.SaveSimilarities(ctx, []types.SimilarityPair{
		{A: ids["a.md"], B: ids["b.md"], Similarity: 0.8},
	}))

	c, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Pairs)
	assert.Equal(t, 1, c.Drafts)

	got, err := s.Neighbors(ctx, ids["a.md"])
	require.NoError(t, err)
	require.Len(t, got, 2, "draft peer is excluded")
	assert.Equal(t, "b.md", got[0].Filename)
	assert.InDelta(t, 0.8, got[0].Similarity, 1e-12)
	assert.Equal(t, "c.md", got[1].Filename)

	got, err = s.Neighbors(ctx, ids["c.md"])
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ids["a.md"], got[0].ArticleID)

	err = s.SaveSimilarities(ctx, []types.SimilarityPair{{A: ids["a.md"], B: ids["a.md"], Similarity: 1}})
	assert.Error(t, err)
}
