// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists articles, their chunks and embeddings, and the
// similarity between article pairs in a SQLite database.
//
// The embedding cache follows one rule, applied in SQL: an embedding belongs
// to the exact chunk text it was computed from. Re-gathering an unchanged
// chunk leaves its embedding alone; a chunk whose text changed loses its
// embedding in the same statement that stores the new text; and
// SaveEmbeddings only ever fills embeddings that are missing.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/hugo-ai/internal/vector"
	"github.com/pdiddy/hugo-ai/pkg/types"
)

// Store manages the hugo-ai SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path, creating the parent directory
// and the schema if they do not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createSchema() error {
	// Filename, not url, is unique: drafts may not have a final url yet.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS article (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			date TEXT NULL,
			filename TEXT NOT NULL,
			is_draft BOOL NOT NULL,
			UNIQUE (filename)
		)`,
		`CREATE TABLE IF NOT EXISTS article_chunk (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			article_id INTEGER NOT NULL REFERENCES article(id),
			chunk_id INTEGER NOT NULL,
			text TEXT NOT NULL,
			embed BLOB NULL,
			UNIQUE (article_id, chunk_id)
		)`,
		`CREATE TABLE IF NOT EXISTS article_similarity (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			article_a INTEGER NOT NULL REFERENCES article(id),
			article_b INTEGER NOT NULL REFERENCES article(id),
			similarity REAL NOT NULL,
			UNIQUE (article_a, article_b),
			CHECK (article_a < article_b)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_similarity_b ON article_similarity(article_b)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveArticle upserts an article on its filename together with its chunks,
// in one transaction. Title, url, date and draft flag are refreshed. With
// prune, stored chunks beyond len(chunks) are deleted.
func (s *Store) SaveArticle(ctx context.Context, a types.Article, chunks []string, prune bool) (types.GatherResult, error) {
	var res types.GatherResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO article (filename, title, url, date, is_draft)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(filename) DO UPDATE SET
			title=excluded.title, url=excluded.url, date=excluded.date,
			is_draft=excluded.is_draft
		 RETURNING id`,
		a.Filename, a.Title, a.URL, formatDate(a.Date), a.IsDraft,
	).Scan(&res.ArticleID)
	if err != nil {
		return res, fmt.Errorf("upserting article %s: %w", a.Filename, err)
	}

	existing, err := chunkTexts(ctx, tx, res.ArticleID)
	if err != nil {
		return res, err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO article_chunk (article_id, chunk_id, text) VALUES (?, ?, ?)
		 ON CONFLICT(article_id, chunk_id) DO UPDATE SET
			text=excluded.text, embed=NULL
		 WHERE article_chunk.text <> excluded.text`)
	if err != nil {
		return res, fmt.Errorf("preparing chunk upsert: %w", err)
	}
	defer stmt.Close()

	for idx, text := range chunks {
		old, ok := existing[idx]
		switch {
		case !ok:
			res.New++
		case old == text:
			res.Unchanged++
			continue
		default:
			res.Changed++
		}
		if _, err := stmt.ExecContext(ctx, res.ArticleID, idx, text); err != nil {
			return res, fmt.Errorf("upserting chunk %d of %s: %w", idx, a.Filename, err)
		}
	}

	if prune {
		r, err := tx.ExecContext(ctx,
			`DELETE FROM article_chunk WHERE article_id = ? AND chunk_id >= ?`,
			res.ArticleID, len(chunks))
		if err != nil {
			return res, fmt.Errorf("pruning chunks of %s: %w", a.Filename, err)
		}
		n, _ := r.RowsAffected()
		res.Pruned = int(n)
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("committing %s: %w", a.Filename, err)
	}
	return res, nil
}

func chunkTexts(ctx context.Context, tx *sql.Tx, articleID int64) (map[int]string, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT chunk_id, text FROM article_chunk WHERE article_id = ?`, articleID)
	if err != nil {
		return nil, fmt.Errorf("loading chunk texts: %w", err)
	}
	defer rows.Close()

	texts := make(map[int]string)
	for rows.Next() {
		var (
			idx  int
			text string
		)
		if err := rows.Scan(&idx, &text); err != nil {
			return nil, fmt.Errorf("scanning chunk text: %w", err)
		}
		texts[idx] = text
	}
	return texts, rows.Err()
}

// ActiveArticles returns every non-draft article ordered by id. The order is
// the iteration order of the embed, calc and write stages.
func (s *Store) ActiveArticles(ctx context.Context) ([]types.Article, error) {
	return s.articles(ctx, `WHERE NOT is_draft`)
}

// AllArticles returns every article, drafts included, ordered by id.
func (s *Store) AllArticles(ctx context.Context) ([]types.Article, error) {
	return s.articles(ctx, ``)
}

func (s *Store) articles(ctx context.Context, where string) ([]types.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, url, date, filename, is_draft FROM article `+where+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []types.Article
	for rows.Next() {
		var (
			a    types.Article
			date sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.URL, &date, &a.Filename, &a.IsDraft); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		if date.Valid {
			if t, parseErr := time.Parse(time.RFC3339, date.String); parseErr == nil {
				a.Date = t
			}
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// Chunks returns the chunks of an article in ordinal order. A chunk whose
// embedding has not been computed has a nil Embedding.
func (s *Store) Chunks(ctx context.Context, articleID int64) ([]types.Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chunk_id, text, embed FROM article_chunk WHERE article_id = ? ORDER BY chunk_id`,
		articleID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []types.Chunk
	for rows.Next() {
		c := types.Chunk{ArticleID: articleID}
		var blob []byte
		if err := rows.Scan(&c.Index, &c.Text, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.Embedding, err = vector.Decode(blob)
		if err != nil {
			return nil, fmt.Errorf("article %d chunk %d: %w", articleID, c.Index, err)
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// SaveEmbeddings stores embeddings keyed by chunk ordinal for one article in
// one transaction. Only chunks without an embedding are written; the number
// of chunks written is returned.
func (s *Store) SaveEmbeddings(ctx context.Context, articleID int64, embeds map[int][]float64) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`UPDATE article_chunk SET embed = ?
		 WHERE article_id = ? AND chunk_id = ? AND embed IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("preparing embedding update: %w", err)
	}
	defer stmt.Close()

	indexes := make([]int, 0, len(embeds))
	for idx := range embeds {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	written := 0
	for _, idx := range indexes {
		v := embeds[idx]
		if len(v) == 0 {
			return 0, fmt.Errorf("article %d chunk %d: %w", articleID, idx, vector.ErrEmpty)
		}
		r, err := stmt.ExecContext(ctx, vector.Encode(v), articleID, idx)
		if err != nil {
			return 0, fmt.Errorf("storing embedding for chunk %d: %w", idx, err)
		}
		n, _ := r.RowsAffected()
		written += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing embeddings: %w", err)
	}
	return written, nil
}

// InvalidateEmbeddings clears every stored embedding so the next embed run
// recomputes them all. It returns the number of embeddings cleared.
func (s *Store) InvalidateEmbeddings(ctx context.Context) (int64, error) {
	r, err := s.db.ExecContext(ctx, `UPDATE article_chunk SET embed = NULL WHERE embed IS NOT NULL`)
	if err != nil {
		return 0, fmt.Errorf("clearing embeddings: %w", err)
	}
	return r.RowsAffected()
}

// SaveSimilarities upserts similarity pairs in one transaction. Pairs are
// stored with the smaller article id first, so (a, b) and (b, a) are the
// same row.
func (s *Store) SaveSimilarities(ctx context.Context, pairs []types.SimilarityPair) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO article_similarity (article_a, article_b, similarity) VALUES (?, ?, ?)
		 ON CONFLICT(article_a, article_b) DO UPDATE SET similarity=excluded.similarity`)
	if err != nil {
		return fmt.Errorf("preparing similarity upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range pairs {
		p = p.Normalized()
		if p.A == p.B {
			return fmt.Errorf("similarity pair of article %d with itself", p.A)
		}
		if _, err := stmt.ExecContext(ctx, p.A, p.B, p.Similarity); err != nil {
			return fmt.Errorf("storing similarity %d-%d: %w", p.A, p.B, err)
		}
	}

	return tx.Commit()
}

// Neighbors returns every stored pair touching articleID whose other
// article is not a draft, most similar first.
func (s *Store) Neighbors(ctx context.Context, articleID int64) ([]types.Neighbor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.filename, s.similarity
		 FROM article_similarity s
		 JOIN article a ON (s.article_a = ? AND s.article_b = a.id)
		                OR (s.article_b = ? AND s.article_a = a.id)
		 WHERE NOT a.is_draft
		 ORDER BY s.similarity DESC, a.filename`,
		articleID, articleID)
	if err != nil {
		return nil, fmt.Errorf("querying neighbors of %d: %w", articleID, err)
	}
	defer rows.Close()

	var out []types.Neighbor
	for rows.Next() {
		var n types.Neighbor
		if err := rows.Scan(&n.ArticleID, &n.Filename, &n.Similarity); err != nil {
			return nil, fmt.Errorf("scanning neighbor: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Counts summarizes the contents of the store.
type Counts struct {
	Articles int
	Drafts   int
	Chunks   int
	Embedded int
	Pairs    int
}

// Counts returns row counts for the status command.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ctx,
		`SELECT
			(SELECT count(*) FROM article),
			(SELECT count(*) FROM article WHERE is_draft),
			(SELECT count(*) FROM article_chunk),
			(SELECT count(*) FROM article_chunk WHERE embed IS NOT NULL),
			(SELECT count(*) FROM article_similarity)`,
	).Scan(&c.Articles, &c.Drafts, &c.Chunks, &c.Embedded, &c.Pairs)
	if err != nil {
		return c, fmt.Errorf("counting rows: %w", err)
	}
	return c, nil
}

func formatDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}
