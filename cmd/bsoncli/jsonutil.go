package main

import (
	"bytes"
	"encoding/json"
	"io"
)

func jsonUnmarshalStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func bytesReaderOf(data []byte) io.Reader {
	return bytes.NewReader(data)
}
