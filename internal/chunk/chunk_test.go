// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeader = []string{"Writing a Tokenizer", "2024-03-01T10:00:00Z"}

func TestSplitShortBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"one line", "Hello world."},
		{"exactly MinChunk", strings.Repeat("x", MinChunk)},
		{"long without spaces", strings.Repeat("y", MinChunk-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Split(testHeader, tt.body)
			require.Len(t, chunks, 1)
			assert.Equal(t, "Writing a Tokenizer\n2024-03-01T10:00:00Z\n\n"+tt.body, chunks[0])
		})
	}
}

func TestSplitReconstructsBody(t *testing.T) {
	bodies := map[string]string{
		"uniform words": strings.Repeat("word ", 1500),
		"mixed lengths": strings.Repeat("a bb ccc dddd eeeee ffffff\n", 400),
		"unicode":       strings.Repeat("café naïve résumé ", 500),
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			chunks := Split(testHeader, body)
			require.Greater(t, len(chunks), 1)

			var rebuilt strings.Builder
			for _, c := range chunks {
				require.True(t, strings.HasPrefix(c, Prefix(testHeader)), "every chunk carries the header")
				rebuilt.WriteString(Body(c, testHeader))
			}
			assert.Equal(t, body, rebuilt.String())
		})
	}
}

func TestSplitBoundariesFallOnSpaces(t *testing.T) {
	body := strings.Repeat("a bb ccc dddd eeeee ffffff ", 600)
	chunks := Split(testHeader, body)
	require.Greater(t, len(chunks), 2)

	for i, c := range chunks[:len(chunks)-1] {
		part := Body(c, testHeader)
		assert.GreaterOrEqual(t, len(part), ChunkSize, "chunk %d is shorter than ChunkSize", i)

		next := Body(chunks[i+1], testHeader)
		assert.Equal(t, byte(' '), next[0], "chunk %d split inside a word", i)
		assert.NotEqual(t, byte(' '), part[len(part)-1], "chunk %d ends on the space that starts the next", i)
	}

	last := Body(chunks[len(chunks)-1], testHeader)
	assert.LessOrEqual(t, len(last), MinChunk)
}

func TestSplitNoSpaceAfterChunkSize(t *testing.T) {
	body := strings.Repeat("z", MinChunk+100)
	chunks := Split(testHeader, body)

	require.Len(t, chunks, 1, "no empty trailing chunk")
	assert.Equal(t, body, Body(chunks[0], testHeader))
}

func TestSplitIsDeterministic(t *testing.T) {
	body := strings.Repeat("repeatable output ", 700)
	assert.Equal(t, Split(testHeader, body), Split(testHeader, body))
}
