// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vector

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-12

func TestEncodeDecode(t *testing.T) {
	v := []float64{0.125, -3.5, math.SmallestNonzeroFloat64, 1e300, 0}

	blob := Encode(v)
	require.Len(t, blob, headerSize+len(v)*elementSize)
	assert.Equal(t, FormatVersion, blob[0])
	assert.Equal(t, uint32(len(v)), binary.LittleEndian.Uint32(blob[1:5]))

	got, err := Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestEncodeEmpty(t *testing.T) {
	assert.Nil(t, Encode(nil))
	assert.Nil(t, Encode([]float64{}))

	got, err := Decode(nil)
	require.NoError(t, err)
	assert.Nil(t, got, "empty blob means not computed")
}

func TestDecodeRejects(t *testing.T) {
	valid := Encode([]float64{1, 2, 3})

	wrongVersion := append([]byte(nil), valid...)
	wrongVersion[0] = 9

	wrongCount := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(wrongCount[1:5], 4)

	tests := []struct {
		name string
		blob []byte
	}{
		{"shorter than header", []byte{1, 0, 0}},
		{"unknown version", wrongVersion},
		{"ragged payload", valid[:len(valid)-3]},
		{"count disagrees with payload", wrongCount},
		{"legacy raw float bytes", make([]byte, 24)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.blob)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBadBlob), "got %v", err)
		})
	}
}

func TestCosineIdentities(t *testing.T) {
	vectors := [][]float64{
		{1, 0, 0},
		{0.3, -1.7, 2.2, 9},
		{1e-3, 1e-3},
	}

	for _, v := range vectors {
		self, err := Cosine(v, v)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, self, tolerance)

		neg := make([]float64, len(v))
		for i := range v {
			neg[i] = -v[i]
		}
		opposite, err := Cosine(v, neg)
		require.NoError(t, err)
		assert.InDelta(t, -1.0, opposite, tolerance)
	}
}

func TestCosineSymmetric(t *testing.T) {
	a := []float64{0.2, 0.4, -0.1, 3}
	b := []float64{1.5, -0.4, 0.9, 0.1}

	ab, err := Cosine(a, b)
	require.NoError(t, err)
	ba, err := Cosine(b, a)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
}

func TestCosineOrthogonal(t *testing.T) {
	got, err := Cosine([]float64{1, 0}, []float64{0, 5})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got, tolerance)
}

func TestCosineErrors(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want error
	}{
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, ErrDimensionMismatch},
		{"empty", nil, nil, ErrEmpty},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, ErrZeroVector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Cosine(tt.a, tt.b)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
