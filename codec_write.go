package bson

import (
	"strconv"

	"github.com/gobson/bson/internal/bufpool"
	"github.com/gobson/bson/internal/utf8x"
)

const (
	minInt32 = -(1 << 31)
	maxInt32 = (1 << 31) - 1
)

// PutInt32 appends a 4-byte little-endian int32. i must be within
// [-2^31, 2^31).
func (b *Buffer) PutInt32(i int64) error {
	if i < minInt32 || i > maxInt32 {
		return newErr(KindRange, "int32 value %d out of range", i)
	}
	b.ensureCapacity(4)
	putUint32LE(b.data[b.writePosition:b.writePosition+4], uint32(int32(i)))
	b.writePosition += 4
	return nil
}

// PutUint32 appends a 4-byte little-endian uint32. i must be within
// [0, 2^32).
func (b *Buffer) PutUint32(i int64) error {
	if i < 0 || i > (1<<32)-1 {
		return newErr(KindRange, "uint32 value %d out of range", i)
	}
	b.ensureCapacity(4)
	putUint32LE(b.data[b.writePosition:b.writePosition+4], uint32(i))
	b.writePosition += 4
	return nil
}

// PutInt64 appends an 8-byte little-endian int64.
func (b *Buffer) PutInt64(i int64) {
	b.ensureCapacity(8)
	putUint64LE(b.data[b.writePosition:b.writePosition+8], uint64(i))
	b.writePosition += 8
}

// PutDouble appends an 8-byte little-endian IEEE-754 double. Any finite or
// non-finite float64 is accepted.
func (b *Buffer) PutDouble(f float64) {
	b.ensureCapacity(8)
	putFloat64LE(b.data[b.writePosition:b.writePosition+8], f)
	b.writePosition += 8
}

// PutDecimal128 appends the 16-byte little-endian representation of a
// Decimal128: low 8 bytes then high 8 bytes. The core treats Decimal128 as
// opaque; numeric interpretation lives outside this package.
func (b *Buffer) PutDecimal128(low, high uint64) {
	b.ensureCapacity(16)
	putUint64LE(b.data[b.writePosition:b.writePosition+8], low)
	putUint64LE(b.data[b.writePosition+8:b.writePosition+16], high)
	b.writePosition += 16
}

// PutDecimal128Bytes appends 16 raw Decimal128 bytes verbatim. Accepted in
// addition to the (low, high) pair form since bson-ruby's native.c exposes
// both a numeric-pair path and a raw-bytes path.
func (b *Buffer) PutDecimal128Bytes(raw [16]byte) {
	b.WriteBytes(raw[:])
}

// PutCString appends s followed by a terminating 0x00. s must be valid
// UTF-8 with no interior NUL byte.
func (b *Buffer) PutCString(s string) error {
	scratch := bufpool.Get(len(s))
	defer bufpool.Put(scratch)
	copy(scratch, s)

	if err := utf8x.Validate(scratch, false); err != nil {
		return wrapErr(KindEncoding, "put_cstring", err)
	}
	b.WriteBytes(scratch)
	b.WriteByte(0)
	return nil
}

// PutCStringFromInt appends the decimal ASCII representation of i as a
// cstring. Array encoding does not call it; EncodeArray writes its index
// keys through indexKey and PutCString.
func (b *Buffer) PutCStringFromInt(i int) {
	b.WriteBytes([]byte(strconv.Itoa(i)))
	b.WriteByte(0)
}

// PutString appends a BSON string: a little-endian int32 byte length
// (including the terminator), the UTF-8 bytes, then a terminating 0x00.
// Interior NUL bytes are permitted.
func (b *Buffer) PutString(s string) error {
	scratch := bufpool.Get(len(s))
	defer bufpool.Put(scratch)
	copy(scratch, s)

	if err := utf8x.Validate(scratch, true); err != nil {
		return wrapErr(KindEncoding, "put_string", err)
	}
	n := len(s) + 1
	if n > maxInt32 {
		return newErr(KindRange, "string length %d too large", n)
	}
	b.ensureCapacity(4)
	putUint32LE(b.data[b.writePosition:b.writePosition+4], uint32(n))
	b.writePosition += 4
	b.WriteBytes(scratch)
	b.WriteByte(0)
	return nil
}

// PutSymbol appends a BSON symbol, which is wire-identical to a string.
func (b *Buffer) PutSymbol(s string) error {
	return b.PutString(s)
}

// ReplaceInt32 overwrites the 4 bytes at pos, counted from the current
// read cursor, with the little-endian encoding of i. pos must satisfy
// 0 <= pos <= Length()-4. Document/array encoding uses this to back-patch
// the length placeholder: pos is the readable-length snapshot taken
// before the placeholder was written.
func (b *Buffer) ReplaceInt32(pos int, i int32) error {
	if pos < 0 || pos > b.Length()-4 {
		return newErr(KindArgument, "replace_int32 position %d out of bounds (length=%d)", pos, b.Length())
	}
	abs := b.readPosition + pos
	putUint32LE(b.data[abs:abs+4], uint32(i))
	return nil
}
