// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the hugo-ai pipeline:
// articles and their chunks as held by the store, similarity pairs between
// articles, and the configuration of every stage.
package types

import "time"

// Article is a blog post known to the store. Filename is the natural key; it
// is the base name of the Markdown file, not a path.
type Article struct {
	// ID is assigned by the store on first gather.
	ID int64 `json:"id" yaml:"id"`

	// Title is the front matter title.
	Title string `json:"title" yaml:"title"`

	// URL is the front matter url. Drafts may not have one yet.
	URL string `json:"url" yaml:"url"`

	// Date is the publish time. Zero when the front matter date is missing
	// or not RFC 3339.
	Date time.Time `json:"date" yaml:"date"`

	// Filename is the base name of the source file (e.g. "my-post.md").
	Filename string `json:"filename" yaml:"filename"`

	// IsDraft excludes the article from embedding, similarity and writing.
	IsDraft bool `json:"is_draft" yaml:"is_draft"`
}

// Chunk is one embedding unit of an article.
type Chunk struct {
	// ArticleID is the owning article.
	ArticleID int64 `json:"article_id" yaml:"article_id"`

	// Index is the ordinal of the chunk within the article, starting at 0.
	Index int `json:"index" yaml:"index"`

	// Text is the literal text submitted for embedding, header included.
	Text string `json:"text" yaml:"text"`

	// Embedding is nil until the embed stage has run for this chunk.
	Embedding []float64 `json:"embedding,omitempty" yaml:"embedding,omitempty"`
}

// Embedded reports whether the chunk has a stored embedding.
func (c Chunk) Embedded() bool {
	return len(c.Embedding) > 0
}

// SimilarityPair is the similarity between two distinct non-draft articles.
// The pair is unordered; the store normalizes it so that A < B.
type SimilarityPair struct {
	A          int64   `json:"article_a" yaml:"article_a"`
	B          int64   `json:"article_b" yaml:"article_b"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
}

// Normalized returns the pair with the smaller article id first.
func (p SimilarityPair) Normalized() SimilarityPair {
	if p.A > p.B {
		p.A, p.B = p.B, p.A
	}
	return p
}

// Neighbor is a peer of an article together with their similarity.
type Neighbor struct {
	ArticleID  int64   `json:"article_id" yaml:"article_id"`
	Filename   string  `json:"filename" yaml:"filename"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
}

// GatherResult counts what happened to one article's chunks during gather.
type GatherResult struct {
	ArticleID int64
	New       int
	Changed   int
	Unchanged int
	Pruned    int
}
