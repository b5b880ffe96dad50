// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similar

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"

	"github.com/pdiddy/hugo-ai/internal/store"
)

const wordDims = 512

// wordEmbedder gives every distinct lowercase word its own dimension and
// counts occurrences, so cosine similarity measures vocabulary overlap.
type wordEmbedder struct {
	dims  map[string]int
	calls int
	fail  string
}

func newWordEmbedder() *wordEmbedder {
	return &wordEmbedder{dims: map[string]int{}}
}

func (e *wordEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	e.calls++
	if e.fail != "" && strings.Contains(text, e.fail) {
		return nil, errors.New("provider unavailable")
	}
	v := make([]float64, wordDims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		d, ok := e.dims[w]
		if !ok {
			d = len(e.dims)
			e.dims[w] = d
		}
		v[d]++
	}
	return v, nil
}

// recorder is a progress.Reporter that keeps what it was shown.
type recorder struct {
	steps    []string
	previews map[string]string
}

func (r *recorder) Start(string, int) {}
func (r *recorder) Step(label string)  { r.steps = append(r.steps, label) }
func (r *recorder) Done()              {}
func (r *recorder) Preview(name, content string) {
	if r.previews == nil {
		r.previews = map[string]string{}
	}
	r.previews[name] = content
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "hugo-ai.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func writePost(t *testing.T, dir, name, frontMatter, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := "---\n" + frontMatter + "---\n" + body
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readPost(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
