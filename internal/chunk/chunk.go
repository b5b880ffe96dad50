// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunk splits an article body into embedding units. Each unit is
// the article header (title and date, one per line), a blank line, and a
// slice of the body. Split points are byte offsets chosen by scanning
// forward to the next ASCII space, never by sentence or paragraph.
package chunk

import "strings"

const (
	// ChunkSize is the offset at which the scan for a split point starts.
	ChunkSize = 2000

	// MinChunk is the body length above which another split is made.
	MinChunk = 2500
)

// Split returns the ordered chunks for body. The result is never empty: a
// body no longer than MinChunk yields exactly one chunk.
func Split(header []string, body string) []string {
	prefix := Prefix(header)

	var chunks []string
	for len(body) > MinChunk {
		pos := ChunkSize
		for pos < len(body) && body[pos] != ' ' {
			pos++
		}
		chunks = append(chunks, prefix+body[:pos])
		body = body[pos:]
	}

	// A body without a space past ChunkSize is consumed whole by the loop.
	if body != "" || len(chunks) == 0 {
		chunks = append(chunks, prefix+body)
	}
	return chunks
}

// Prefix returns the text every chunk of an article starts with.
func Prefix(header []string) string {
	return strings.Join(header, "\n") + "\n\n"
}

// Body strips the header prefix from a chunk produced by Split.
func Body(chunk string, header []string) string {
	return strings.TrimPrefix(chunk, Prefix(header))
}
