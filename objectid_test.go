package bson

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestObjectIDCounterIncrementsMonotonically(t *testing.T) {
	var zero uint32
	ResetObjectIDCounter(&zero)

	t0 := time.Unix(1_700_000_000, 0)
	first := NewObjectIDWithTime(t0)
	second := NewObjectIDWithTime(t0)

	require.Equal(t, first[:9], second[:9], "timestamp and process-random fields must match within the same second")

	c1 := uint32(first[9])<<16 | uint32(first[10])<<8 | uint32(first[11])
	c2 := uint32(second[9])<<16 | uint32(second[10])<<8 | uint32(second[11])
	require.Equal(t, c1+1, c2)
}

func TestObjectIDCounterWrapsMod2Pow24(t *testing.T) {
	v := uint32((1 << 24) - 1)
	ResetObjectIDCounter(&v)

	t0 := time.Unix(1_700_000_000, 0)
	first := NewObjectIDWithTime(t0)
	second := NewObjectIDWithTime(t0)

	c1 := uint32(first[9])<<16 | uint32(first[10])<<8 | uint32(first[11])
	c2 := uint32(second[9])<<16 | uint32(second[10])<<8 | uint32(second[11])
	require.Equal(t, uint32((1<<24)-1), c1)
	require.Equal(t, uint32(0), c2)
}

func TestObjectIDTimestampRoundTrip(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0).UTC()
	id := NewObjectIDWithTime(t0)
	require.Equal(t, t0, id.Time())
}

func TestObjectIDHexRoundTrip(t *testing.T) {
	id := NewObjectID()
	parsed, err := ParseObjectIDHex(id.Hex())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseObjectIDHexRejectsWrongLength(t *testing.T) {
	_, err := ParseObjectIDHex("deadbeef")
	require.Error(t, err)
	require.True(t, IsKind(err, KindArgument))
}

func TestParseObjectIDHexRejectsNonHex(t *testing.T) {
	_, err := ParseObjectIDHex("zzzzzzzzzzzzzzzzzzzzzzzz")
	require.Error(t, err)
	require.True(t, IsKind(err, KindArgument))
}

func TestObjectIDEncodeRawBytes(t *testing.T) {
	id := NewObjectID()
	buf := NewBuffer()
	require.NoError(t, id.MarshalBSONValue(buf, true))
	require.Equal(t, id[:], buf.ToBytes())
	require.Equal(t, byte(0x07), id.BSONType())
}
