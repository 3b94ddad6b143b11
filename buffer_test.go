package bson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferBasics(t *testing.T) {
	b := NewBuffer()
	require.Equal(t, 0, b.Length())
	require.Equal(t, 0, b.ReadPosition())
	require.Equal(t, 0, b.WritePosition())

	b.WriteBytes([]byte("hello"))
	require.Equal(t, 5, b.Length())
	require.Equal(t, 5, b.WritePosition())

	got, err := b.ReadBytes(5)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
	require.Equal(t, 0, b.Length())
}

func TestBufferFromBytes(t *testing.T) {
	b := NewBufferFromBytes([]byte{1, 2, 3})
	require.Equal(t, 3, b.Length())
	got, err := b.ReadBytes(3)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, got)
}

func TestBufferRewind(t *testing.T) {
	b := NewBufferFromBytes([]byte{1, 2, 3})
	_, err := b.ReadBytes(3)
	require.NoError(t, err)
	require.Equal(t, 0, b.Length())

	b.Rewind()
	require.Equal(t, 3, b.Length())
	got := b.ToBytes()
	require.Equal(t, []byte{1, 2, 3}, got)
}

func TestBufferReadByteInsufficientBytes(t *testing.T) {
	b := NewBuffer()
	_, err := b.ReadByte()
	require.Error(t, err)
	require.True(t, IsKind(err, KindRange))
}

func TestBufferReadBytesInsufficientBytes(t *testing.T) {
	b := NewBufferFromBytes([]byte{1, 2})
	_, err := b.ReadBytes(5)
	require.Error(t, err)
	require.True(t, IsKind(err, KindRange))
}

func TestBufferGrowthPreservesContent(t *testing.T) {
	b := NewBuffer()
	var want []byte
	for i := 0; i < 5000; i++ {
		c := byte(i % 256)
		b.WriteByte(c)
		want = append(want, c)
	}
	require.Equal(t, want, b.ToBytes())
	require.Equal(t, len(want), b.Length())
}

func TestBufferGrowthWithInterleavedReads(t *testing.T) {
	b := NewBuffer()
	b.WriteBytes([]byte("0123456789"))
	_, err := b.ReadBytes(4)
	require.NoError(t, err)

	// Force growth past the remaining capacity while read_position > 0.
	big := make([]byte, 5000)
	for i := range big {
		big[i] = byte(i % 256)
	}
	b.WriteBytes(big)

	want := append([]byte("456789"), big...)
	require.Equal(t, want, b.ToBytes())
}

func TestBufferCompactionDoesNotReallocateWhenItFits(t *testing.T) {
	b := NewBuffer()
	b.WriteBytes(make([]byte, 900))
	_, err := b.ReadBytes(850)
	require.NoError(t, err)

	// live window is 50 bytes; writing 200 more runs past the end of the
	// 1024-byte region (900+200), but the 250 bytes needed fit in it, so
	// growth compacts in place instead of reallocating.
	b.WriteBytes(make([]byte, 200))
	require.Equal(t, 250, b.Length())
	require.Equal(t, initialCapacity, b.capacity())
}
