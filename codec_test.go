package bson

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutGetInt32RoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, minInt32, maxInt32, 123456} {
		b := NewBuffer()
		require.NoError(t, b.PutInt32(v))
		got, err := b.GetInt32()
		require.NoError(t, err)
		require.Equal(t, int32(v), got)
		require.Equal(t, b.WritePosition(), b.ReadPosition())
	}
}

func TestPutInt32OutOfRange(t *testing.T) {
	b := NewBuffer()
	err := b.PutInt32(maxInt32 + 1)
	require.Error(t, err)
	require.True(t, IsKind(err, KindRange))
}

func TestPutGetInt64RoundTrip(t *testing.T) {
	b := NewBuffer()
	b.PutInt64(2147483648)
	got, err := b.GetInt64()
	require.NoError(t, err)
	require.Equal(t, int64(2147483648), got)
}

func TestPutGetDoubleRoundTrip(t *testing.T) {
	values := []float64{0, 1.5, -1.5, math.Inf(1), math.Inf(-1), math.NaN()}
	for _, v := range values {
		b := NewBuffer()
		b.PutDouble(v)
		got, err := b.GetDouble()
		require.NoError(t, err)
		if math.IsNaN(v) {
			require.True(t, math.IsNaN(got))
		} else {
			require.Equal(t, v, got)
		}
	}
}

func TestPutGetDecimal128Bytes(t *testing.T) {
	b := NewBuffer()
	b.PutDecimal128(0x0102030405060708, 0x1112131415161718)
	got, err := b.GetDecimal128Bytes()
	require.NoError(t, err)

	want := NewBuffer()
	want.PutDecimal128(0x0102030405060708, 0x1112131415161718)
	require.Equal(t, want.ToBytes(), got[:])
}

func TestPutGetCStringRoundTrip(t *testing.T) {
	b := NewBuffer()
	require.NoError(t, b.PutCString("hello"))
	got, err := b.GetCString()
	require.NoError(t, err)
	require.Equal(t, "hello", got)
	require.Equal(t, b.WritePosition(), b.ReadPosition())
}

func TestPutCStringRejectsInteriorNUL(t *testing.T) {
	b := NewBuffer()
	err := b.PutCString("a\x00b")
	require.Error(t, err)
	require.True(t, IsKind(err, KindEncoding))
}

func TestGetCStringMissingTerminator(t *testing.T) {
	b := NewBufferFromBytes([]byte("no terminator"))
	_, err := b.GetCString()
	require.Error(t, err)
	require.True(t, IsKind(err, KindDecode))
}

func TestPutGetStringRoundTrip(t *testing.T) {
	b := NewBuffer()
	require.NoError(t, b.PutString("world"))
	got, err := b.GetString()
	require.NoError(t, err)
	require.Equal(t, "world", got)
}

func TestPutGetStringRoundTripBeyondPooledScratchSize(t *testing.T) {
	long := make([]byte, 5000)
	for i := range long {
		long[i] = byte('a' + i%26)
	}
	s := string(long)

	b := NewBuffer()
	require.NoError(t, b.PutString(s))
	got, err := b.GetString()
	require.NoError(t, err)
	require.Equal(t, s, got)
}

func TestPutStringRejectsOverlong(t *testing.T) {
	b := NewBuffer()
	err := b.PutString(string([]byte{0xC0, 0xAF}))
	require.Error(t, err)
	require.True(t, IsKind(err, KindEncoding))
}

func TestGetStringRejectsShortLength(t *testing.T) {
	b := NewBuffer()
	require.NoError(t, b.PutInt32(0))
	_, err := b.GetString()
	require.Error(t, err)
	require.True(t, IsKind(err, KindDecode))
}

func TestGetStringMissingTrailingNUL(t *testing.T) {
	b := NewBuffer()
	require.NoError(t, b.PutInt32(2))
	b.WriteBytes([]byte("ab"))
	_, err := b.GetString()
	require.Error(t, err)
	require.True(t, IsKind(err, KindDecode))
}

func TestGetBooleanInvalidByte(t *testing.T) {
	b := NewBufferFromBytes([]byte{0x02})
	_, err := b.GetBoolean()
	require.Error(t, err)
	require.True(t, IsKind(err, KindDecode))
}

func TestGetBooleanValidValues(t *testing.T) {
	for in, want := range map[byte]bool{0x00: false, 0x01: true} {
		b := NewBufferFromBytes([]byte{in})
		got, err := b.GetBoolean()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestReplaceInt32(t *testing.T) {
	b := NewBuffer()
	require.NoError(t, b.PutInt32(0))
	b.WriteBytes([]byte("abcd"))
	require.NoError(t, b.ReplaceInt32(0, 999))
	got, err := b.GetInt32()
	require.NoError(t, err)
	require.Equal(t, int32(999), got)
}

func TestReplaceInt32OutOfBounds(t *testing.T) {
	b := NewBuffer()
	b.WriteBytes([]byte("ab"))
	err := b.ReplaceInt32(0, 1)
	require.Error(t, err)
	require.True(t, IsKind(err, KindArgument))
}

func TestReadBytesMatchesToBytesPrefix(t *testing.T) {
	b := NewBufferFromBytes([]byte("abcdefgh"))
	all := b.ToBytes()
	got, err := b.ReadBytes(3)
	require.NoError(t, err)
	require.Equal(t, all[:3], got)
	require.Equal(t, 5, b.Length())
}
