package bson

import "strings"

// entry is one (name, value) pair in a Document, in insertion order.
type entry struct {
	Key   string
	Value any
}

// Document is an ordered map of string keys to BSON values, framed on the
// wire as: int32 total_length | {tag, cstring key, value}* | 0x00.
// Insertion order is preserved across encode and decode.
type Document struct {
	entries []entry
}

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return &Document{}
}

// Len returns the number of entries.
func (d *Document) Len() int {
	return len(d.entries)
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.Key
	}
	return out
}

// Get returns the value for key and whether it was present. Only the
// first occurrence is returned if a key was set more than once.
func (d *Document) Get(key string) (any, bool) {
	for _, e := range d.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Set appends (key, value). BSON documents permit duplicate keys on the
// wire; Set always appends rather than replacing an existing entry, which
// keeps decode(encode(d)) == d faithful to what was actually written.
func (d *Document) Set(key string, value any) {
	d.entries = append(d.entries, entry{Key: key, Value: value})
}

// Range calls fn for each entry in insertion order, stopping early if fn
// returns false.
func (d *Document) Range(fn func(key string, value any) bool) {
	for _, e := range d.entries {
		if !fn(e.Key, e.Value) {
			return
		}
	}
}

// ToMap returns an unordered map[string]any snapshot of d. Order
// information is lost; prefer Range or Keys+Get when order matters.
func (d *Document) ToMap() map[string]any {
	out := make(map[string]any, len(d.entries))
	for _, e := range d.entries {
		out[e.Key] = e.Value
	}
	return out
}

// Array is an ordered BSON array: a Document whose keys are the decimal
// ASCII indices "0", "1", "2", ... in order. Only the values are exposed.
type Array struct {
	values []any
}

// NewArray returns an empty Array.
func NewArray() *Array {
	return &Array{}
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.values)
}

// Append adds v to the end of the array.
func (a *Array) Append(v any) {
	a.values = append(a.values, v)
}

// Values returns the elements in order.
func (a *Array) Values() []any {
	return a.values
}

// decimalIndexCache holds the decimal ASCII forms of i for i in
// [0, len(decimalIndexCache)), which indexKey returns, matching §4.6's "implementations should
// precompute short indices (e.g. 0-999) for speed".
var decimalIndexCache = buildDecimalIndexCache(1000)

func buildDecimalIndexCache(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = itoa(i)
	}
	return out
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}

func indexKey(i int) string {
	if i < len(decimalIndexCache) {
		return decimalIndexCache[i]
	}
	return itoa(i)
}

// isIllegalKey reports whether key violates §4.6's two forbidden patterns:
// a leading '$' or any interior '.'.
func isIllegalKey(key string) bool {
	if key == "" {
		return false
	}
	return key[0] == '$' || strings.Contains(key, ".")
}

func putKeyCString(buf *Buffer, key string, validateKeys bool) error {
	if validateKeys && isIllegalKey(key) {
		return newErr(KindIllegalKey, "illegal key: %q", key)
	}
	return buf.PutCString(key)
}

// EncodeDocument writes doc's wire framing: a 4-byte length placeholder,
// each field as (tag, key cstring, value body), a terminating 0x00, then
// back-patches the placeholder with the true length.
func EncodeDocument(buf *Buffer, doc *Document, validateKeys bool) error {
	l0 := buf.Length()
	if err := buf.PutInt32(0); err != nil {
		return err
	}
	for _, e := range doc.entries {
		if err := encodeField(buf, e.Key, e.Value, validateKeys); err != nil {
			return err
		}
	}
	buf.WriteByte(0)
	l1 := buf.Length()
	return buf.ReplaceInt32(l0, int32(l1-l0))
}

// EncodeArray writes arr's wire framing identically to EncodeDocument,
// using precomputed decimal-ASCII keys "0", "1", "2", ...
func EncodeArray(buf *Buffer, arr *Array, validateKeys bool) error {
	l0 := buf.Length()
	if err := buf.PutInt32(0); err != nil {
		return err
	}
	for i, v := range arr.values {
		if err := encodeField(buf, indexKey(i), v, validateKeys); err != nil {
			return err
		}
	}
	buf.WriteByte(0)
	l1 := buf.Length()
	return buf.ReplaceInt32(l0, int32(l1-l0))
}

// EncodeMap is a convenience wrapper accepting a plain Go map, matching
// bson-ruby's acceptance of a Hash at the top level of to_bson. Go map
// iteration order is randomized, so callers that need a stable wire
// encoding should build a *Document instead.
func EncodeMap(buf *Buffer, m map[string]any, validateKeys bool) error {
	doc := NewDocument()
	for k, v := range m {
		doc.Set(k, v)
	}
	return EncodeDocument(buf, doc, validateKeys)
}

// EncodeSlice is a convenience wrapper accepting a plain Go slice,
// matching bson-ruby's acceptance of an Array at the top level of to_bson.
func EncodeSlice(buf *Buffer, s []any, validateKeys bool) error {
	arr := NewArray()
	for _, v := range s {
		arr.Append(v)
	}
	return EncodeArray(buf, arr, validateKeys)
}

func encodeField(buf *Buffer, key string, value any, validateKeys bool) error {
	tag, ok := tagFor(value)
	enc, isEncoder := value.(Encoder)
	if !ok {
		if !isEncoder {
			return newErr(KindUnserializableClass, "value of type %T has no BSON tag or Encoder", value)
		}
		tag = enc.BSONType()
	}
	buf.WriteByte(tag)
	if err := putKeyCString(buf, key, validateKeys); err != nil {
		return err
	}
	if isEncoder && !ok {
		return enc.MarshalBSONValue(buf, validateKeys)
	}
	return encodeValueBody(buf, value, tag, validateKeys)
}

func encodeValueBody(buf *Buffer, value any, tag byte, validateKeys bool) error {
	switch tag {
	case TagDouble:
		return encodeDouble(buf, value)
	case TagString:
		return buf.PutString(value.(string))
	case TagDocument:
		return encodeDocumentValue(buf, value, validateKeys)
	case TagArray:
		return encodeArrayValue(buf, value, validateKeys)
	case TagBoolean:
		if value.(bool) {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
		return nil
	case TagSymbol:
		return buf.PutSymbol(string(value.(Symbol)))
	case TagInt32:
		n, err := toInt64(value)
		if err != nil {
			return err
		}
		return buf.PutInt32(n)
	case TagInt64:
		n, err := toInt64(value)
		if err != nil {
			return err
		}
		buf.PutInt64(n)
		return nil
	default:
		return newErr(KindType, "unsupported native tag 0x%02x", tag)
	}
}

func encodeDouble(buf *Buffer, value any) error {
	switch x := value.(type) {
	case float64:
		buf.PutDouble(x)
	case float32:
		buf.PutDouble(float64(x))
	default:
		return newErr(KindType, "expected float for double tag, got %T", value)
	}
	return nil
}

func encodeDocumentValue(buf *Buffer, value any, validateKeys bool) error {
	switch x := value.(type) {
	case *Document:
		return EncodeDocument(buf, x, validateKeys)
	case Document:
		return EncodeDocument(buf, &x, validateKeys)
	case map[string]any:
		return EncodeMap(buf, x, validateKeys)
	default:
		return newErr(KindType, "expected document for document tag, got %T", value)
	}
}

func encodeArrayValue(buf *Buffer, value any, validateKeys bool) error {
	switch x := value.(type) {
	case *Array:
		return EncodeArray(buf, x, validateKeys)
	case Array:
		return EncodeArray(buf, &x, validateKeys)
	case []any:
		return EncodeSlice(buf, x, validateKeys)
	default:
		return newErr(KindType, "expected array for array tag, got %T", value)
	}
}

func toInt64(value any) (int64, error) {
	switch x := value.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > (1<<63)-1 {
			return 0, newErr(KindRange, "uint64 value %d does not fit in int64", x)
		}
		return int64(x), nil
	default:
		return 0, newErr(KindType, "expected integer, got %T", value)
	}
}

// DecodeDocument reads one framed document from buf per §4.6, lifting a
// DBRef-shaped result through opts.Registry if one is configured.
func DecodeDocument(buf *Buffer, opts DecodeOptions) (any, error) {
	doc, err := decodeDocumentRaw(buf, opts)
	if err != nil {
		return nil, err
	}
	if opts.Registry != nil && opts.Registry.dbref != nil && isDBRefShape(doc) {
		return opts.Registry.dbref(doc)
	}
	return doc, nil
}

func decodeDocumentRaw(buf *Buffer, opts DecodeOptions) (*Document, error) {
	lengthPos := buf.readPosition
	declared, err := readDeclaredLength(buf)
	if err != nil {
		return nil, err
	}

	doc := NewDocument()
	for {
		tag, err := buf.ReadByte()
		if err != nil {
			return nil, err
		}
		if tag == 0 {
			break
		}
		key, err := buf.GetCString()
		if err != nil {
			return nil, err
		}
		val, err := decodeValue(buf, tag, opts)
		if err != nil {
			return nil, err
		}
		doc.Set(key, val)
	}

	return doc, checkConsumedLength(buf, lengthPos, declared)
}

// DecodeArray reads one framed array from buf; keys are discarded, only
// element order is kept.
func DecodeArray(buf *Buffer, opts DecodeOptions) (*Array, error) {
	lengthPos := buf.readPosition
	declared, err := readDeclaredLength(buf)
	if err != nil {
		return nil, err
	}

	arr := NewArray()
	for {
		tag, err := buf.ReadByte()
		if err != nil {
			return nil, err
		}
		if tag == 0 {
			break
		}
		if err := buf.SkipCString(); err != nil {
			return nil, err
		}
		val, err := decodeValue(buf, tag, opts)
		if err != nil {
			return nil, err
		}
		arr.Append(val)
	}

	return arr, checkConsumedLength(buf, lengthPos, declared)
}

// readDeclaredLength reads and validates the 4-byte length prefix per
// §4.6 step 1, without advancing past the bytes it then requires to exist.
func readDeclaredLength(buf *Buffer) (int32, error) {
	declared, err := buf.GetInt32()
	if err != nil {
		return 0, err
	}
	if declared < 5 {
		return 0, newErr(KindDecode, "declared document length %d is less than the minimum of 5", declared)
	}
	remaining := int(declared) - 4
	if buf.Length() < remaining {
		return 0, newErr(KindRange, "declared document length %d exceeds %d available bytes", declared, buf.Length()+4)
	}
	termIdx := buf.readPosition + remaining - 1
	if buf.data[termIdx] != 0 {
		return 0, newErr(KindDecode, "document is missing its terminating 0x00 byte")
	}
	return declared, nil
}

// checkConsumedLength asserts that exactly `declared` bytes were consumed
// since the start of the length field, per §4.6 step 3.
func checkConsumedLength(buf *Buffer, lengthPos int, declared int32) error {
	consumed := buf.readPosition - lengthPos
	if consumed != int(declared) {
		return newErr(KindDecode, "declared length %d does not match %d consumed bytes", declared, consumed)
	}
	return nil
}

func decodeValue(buf *Buffer, tag byte, opts DecodeOptions) (any, error) {
	switch tag {
	case TagDouble:
		return buf.GetDouble()
	case TagString:
		return buf.GetString()
	case TagDocument:
		return DecodeDocument(buf, opts)
	case TagArray:
		return DecodeArray(buf, opts)
	case TagBoolean:
		return buf.GetBoolean()
	case TagSymbol:
		s, err := buf.GetSymbol()
		if err != nil {
			return nil, err
		}
		if opts.Mode == ModeBSON {
			if opts.Registry != nil && opts.Registry.symbolWrapper != nil {
				return opts.Registry.symbolWrapper(s), nil
			}
			return Symbol(s), nil
		}
		return s, nil
	case TagInt32:
		return buf.GetInt32()
	case TagInt64:
		i, err := buf.GetInt64()
		if err != nil {
			return nil, err
		}
		if opts.Mode == ModeBSON && opts.Registry != nil && opts.Registry.int64Wrapper != nil {
			return opts.Registry.int64Wrapper(i), nil
		}
		return i, nil
	default:
		if opts.Registry != nil {
			if fn, ok := opts.Registry.Lookup(tag); ok {
				return fn(buf, opts)
			}
		}
		return nil, newErr(KindDecode, "unknown type tag 0x%02x with no registry entry", tag)
	}
}
