// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vector encodes embedding vectors for storage and compares them.
//
// The stored form is versioned and length-prefixed so that a change of
// embedding model or dimensionality shows up as a decode or comparison
// error instead of a silently wrong similarity:
//
//	byte 0      format version (1)
//	bytes 1-4   element count, little-endian uint32
//	bytes 5-    element count float64 values, little-endian IEEE 754
package vector

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	// FormatVersion is the blob layout written by Encode.
	FormatVersion byte = 1

	headerSize  = 5
	elementSize = 8
)

var (
	// ErrBadBlob reports a stored embedding that cannot be decoded.
	ErrBadBlob = errors.New("malformed embedding blob")

	// ErrDimensionMismatch reports two vectors of different lengths. It
	// usually means embeddings from different models are mixed in one store.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrZeroVector reports a vector with zero magnitude.
	ErrZeroVector = errors.New("zero-magnitude embedding")

	// ErrEmpty reports a comparison of zero-length vectors.
	ErrEmpty = errors.New("empty embedding")
)

// Encode returns the stored form of v. A nil or empty v encodes to nil.
func Encode(v []float64) []byte {
	if len(v) == 0 {
		return nil
	}
	buf := make([]byte, headerSize+len(v)*elementSize)
	buf[0] = FormatVersion
	binary.LittleEndian.PutUint32(buf[1:headerSize], uint32(len(v)))
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[headerSize+i*elementSize:], math.Float64bits(f))
	}
	return buf
}

// Decode parses a blob written by Encode. An empty blob decodes to nil,
// meaning the embedding has not been computed.
func Decode(blob []byte) ([]float64, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	if len(blob) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrBadBlob, len(blob))
	}
	if blob[0] != FormatVersion {
		return nil, fmt.Errorf("%w: unknown format version %d", ErrBadBlob, blob[0])
	}

	payload := blob[headerSize:]
	if len(payload)%elementSize != 0 {
		return nil, fmt.Errorf("%w: payload of %d bytes is not a multiple of %d", ErrBadBlob, len(payload), elementSize)
	}
	count := int(binary.LittleEndian.Uint32(blob[1:headerSize]))
	if count != len(payload)/elementSize {
		return nil, fmt.Errorf("%w: header says %d elements, payload holds %d", ErrBadBlob, count, len(payload)/elementSize)
	}

	v := make([]float64, count)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[i*elementSize:]))
	}
	return v, nil
}

// Cosine returns the cosine similarity of a and b: their dot product
// divided by the product of their Euclidean norms.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, ErrEmpty
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, ErrZeroVector
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
