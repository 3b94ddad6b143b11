package bson

// Type tags for the closed set of BSON types this core handles natively.
// Any other tag byte is delegated to an external Registry.
const (
	TagDouble   byte = 0x01
	TagString   byte = 0x02
	TagDocument byte = 0x03
	TagArray    byte = 0x04
	TagBoolean  byte = 0x08
	TagSymbol   byte = 0x0E
	TagInt32    byte = 0x10
	TagInt64    byte = 0x12
)

// Encoder is implemented by host values outside the native tag set that
// know how to serialize themselves. BSONType returns the tag byte that
// will precede the encoded body; MarshalBSONValue writes the body (not the
// tag, not the key) to buf.
type Encoder interface {
	BSONType() byte
	MarshalBSONValue(buf *Buffer, validateKeys bool) error
}

// tagFor picks the native tag for a host value, or reports ok=false if the
// value must supply its own Encoder.
func tagFor(v any) (tag byte, ok bool) {
	switch x := v.(type) {
	case float64, float32:
		return TagDouble, true
	case string:
		return TagString, true
	case *Document, Document, map[string]any:
		return TagDocument, true
	case *Array, Array, []any:
		return TagArray, true
	case bool:
		return TagBoolean, true
	case Symbol:
		return TagSymbol, true
	case int8, int16, uint8, uint16:
		return TagInt32, true
	case int, int32, int64, uint, uint32, uint64:
		return fitsInt32(x), true
	default:
		return 0, false
	}
}

// fitsInt32 picks int32 vs int64 for a wide integer value per spec §4.7:
// fits [-2^31, 2^31) -> int32, else int64.
func fitsInt32(v any) byte {
	n, err := toInt64(v)
	if err != nil {
		// toInt64 only fails for a uint64 that overflows int64, which is
		// certainly outside int32 range too.
		return TagInt64
	}
	if n >= minInt32 && n <= maxInt32 {
		return TagInt32
	}
	return TagInt64
}

// Symbol is a distinct host type so encode can tell a BSON symbol apart
// from an ordinary string (both share the string wire format).
type Symbol string
