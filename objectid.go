package bson

import (
	"encoding/hex"
	"time"

	"github.com/gobson/bson/internal/oid"
)

// ObjectID is a 12-byte BSON identifier: a 4-byte big-endian timestamp, a
// 5-byte per-process random value, and a 3-byte big-endian counter (§4.9).
type ObjectID [12]byte

// NewObjectID returns the next ObjectID, stamped with the current time.
func NewObjectID() ObjectID {
	return NewObjectIDWithTime(time.Now())
}

// NewObjectIDWithTime returns the next ObjectID, stamped with t instead of
// the current time.
func NewObjectIDWithTime(t time.Time) ObjectID {
	return ObjectID(oid.Next(uint32(t.Unix())))
}

// ResetObjectIDCounter sets the generator's counter to v (mod 2^24), or to
// a fresh random value if v is nil. Test aid only — see §4.9.
func ResetObjectIDCounter(v *uint32) {
	oid.ResetCounter(v)
}

// Hex returns the 24 lowercase hex digits of id.
func (id ObjectID) Hex() string {
	return hex.EncodeToString(id[:])
}

// String implements fmt.Stringer as the hex form, matching bson-ruby's
// ObjectId#to_s.
func (id ObjectID) String() string {
	return id.Hex()
}

// Time returns the timestamp embedded in id's first 4 bytes.
func (id ObjectID) Time() time.Time {
	secs := uint32(id[0])<<24 | uint32(id[1])<<16 | uint32(id[2])<<8 | uint32(id[3])
	return time.Unix(int64(secs), 0).UTC()
}

// ParseObjectIDHex parses a 24-hex-digit string into an ObjectID,
// matching bson-ruby's ObjectId.legal? validation.
func ParseObjectIDHex(s string) (ObjectID, error) {
	var id ObjectID
	if len(s) != 24 {
		return id, newErr(KindArgument, "object id hex string must be 24 characters, got %d", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, wrapErr(KindArgument, "invalid object id hex string", err)
	}
	copy(id[:], b)
	return id, nil
}

// BSONType implements Encoder, so an ObjectID field encodes through a
// document with tag 0x07 (outside this core's native set) without any
// Registry. Decoding that tag needs a decoder registered for 0x07 in a
// Registry; the core itself has none.
func (id ObjectID) BSONType() byte {
	return 0x07
}

// MarshalBSONValue implements Encoder: writes the 12 raw bytes verbatim.
func (id ObjectID) MarshalBSONValue(buf *Buffer, _ bool) error {
	buf.WriteBytes(id[:])
	return nil
}
