package bson

import (
	"github.com/gobson/bson/internal/utf8x"
)

// GetInt32 reads a 4-byte little-endian int32.
func (b *Buffer) GetInt32() (int32, error) {
	v, err := b.peek(4)
	if err != nil {
		return 0, err
	}
	b.readPosition += 4
	return int32(getUint32LE(v)), nil
}

// GetUint32 reads a 4-byte little-endian uint32.
func (b *Buffer) GetUint32() (uint32, error) {
	v, err := b.peek(4)
	if err != nil {
		return 0, err
	}
	b.readPosition += 4
	return getUint32LE(v), nil
}

// GetInt64 reads an 8-byte little-endian int64.
func (b *Buffer) GetInt64() (int64, error) {
	v, err := b.peek(8)
	if err != nil {
		return 0, err
	}
	b.readPosition += 8
	return int64(getUint64LE(v)), nil
}

// GetDouble reads the float64 whose little-endian bit pattern is next in
// the buffer.
func (b *Buffer) GetDouble() (float64, error) {
	v, err := b.peek(8)
	if err != nil {
		return 0, err
	}
	b.readPosition += 8
	return getFloat64LE(v), nil
}

// GetDecimal128Bytes reads 16 raw Decimal128 bytes. Numeric interpretation
// is left to an external component; this core only moves bytes.
func (b *Buffer) GetDecimal128Bytes() ([16]byte, error) {
	var out [16]byte
	v, err := b.peek(16)
	if err != nil {
		return out, err
	}
	copy(out[:], v)
	b.readPosition += 16
	return out, nil
}

// GetBoolean reads one byte: 0x00 -> false, 0x01 -> true. Any other value
// is a decode error.
func (b *Buffer) GetBoolean() (bool, error) {
	c, err := b.ReadByte()
	if err != nil {
		return false, err
	}
	switch c {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, newErr(KindDecode, "invalid boolean byte value: %d", c)
	}
}

// GetCString reads bytes up to (not including) the next 0x00 and advances
// past the terminator.
func (b *Buffer) GetCString() (string, error) {
	start := b.readPosition
	for i := start; i < b.writePosition; i++ {
		if b.data[i] == 0 {
			s := string(b.data[start:i])
			b.readPosition = i + 1
			return s, nil
		}
	}
	return "", newErr(KindDecode, "cstring has no terminating NUL")
}

// SkipCString advances the read cursor past the next cstring without
// allocating a copy of its bytes.
func (b *Buffer) SkipCString() error {
	for i := b.readPosition; i < b.writePosition; i++ {
		if b.data[i] == 0 {
			b.readPosition = i + 1
			return nil
		}
	}
	return newErr(KindDecode, "cstring has no terminating NUL")
}

// GetString reads a BSON string: a little-endian int32 length (including
// the trailing NUL), then that many bytes. The final byte must be 0x00 and
// the preceding bytes must be valid UTF-8 with interior NULs permitted.
func (b *Buffer) GetString() (string, error) {
	n, err := b.GetInt32()
	if err != nil {
		return "", err
	}
	if n < 1 {
		return "", newErr(KindDecode, "string length %d must be >= 1", n)
	}
	raw, err := b.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	if raw[len(raw)-1] != 0 {
		return "", newErr(KindDecode, "string is missing trailing NUL")
	}
	body := raw[:len(raw)-1]
	if err := utf8x.Validate(body, true); err != nil {
		return "", wrapErr(KindEncoding, "get_string", err)
	}
	return string(body), nil
}

// GetSymbol reads a BSON symbol, wire-identical to GetString.
func (b *Buffer) GetSymbol() (string, error) {
	return b.GetString()
}
