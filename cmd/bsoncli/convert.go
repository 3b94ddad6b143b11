package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/gobson/bson"
)

// runConvert decodes a BSON document into the ordered document model and
// re-encodes it with an external interop codec. This is a supplemental,
// CLI-only feature: the core codec package never imports cbor or msgpack,
// only this external collaborator does, the same separation the registry
// hook itself draws between the wire format and everything built on it.
func runConvert(cfg toolConfig, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	to := fs.String("to", "", "target format: cbor or msgpack")
	mode := fs.String("mode", cfg.DefaultMode, "decode mode: empty for the default mode, or bson")
	verbose := fs.BoolP("verbose", "v", false, "log conversion progress")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bsoncli convert --to=cbor|msgpack [flags] <input.bson> <output>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return fmt.Errorf("missing input and output file arguments")
	}

	log := newLogger(*verbose)
	defer log.Sync() //nolint:errcheck

	decodeMode, err := bson.ParseMode(*mode)
	if err != nil {
		return err
	}

	input, output := fs.Arg(0), fs.Arg(1)

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	buf := bson.NewBufferFromBytes(data)
	decoded, err := bson.DecodeDocument(buf, bson.DecodeOptions{Mode: decodeMode, Registry: cliRegistry()})
	if err != nil {
		return fmt.Errorf("decoding %s: %w", input, err)
	}
	log.Debugw("decoded input document", "file", input, "validate_keys", cfg.ValidateKeys)

	native := toNative(decoded)

	var encoded []byte
	switch strings.ToLower(*to) {
	case "cbor":
		encoded, err = cbor.Marshal(native)
	case "msgpack":
		encoded, err = msgpack.Marshal(native)
	case "":
		return fmt.Errorf("missing required --to flag (cbor or msgpack)")
	default:
		return fmt.Errorf("unsupported target format %q", *to)
	}
	if err != nil {
		return fmt.Errorf("encoding as %s: %w", *to, err)
	}

	if err := atomic.WriteFile(output, bytesReaderOf(encoded)); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	log.Infow("conversion complete", "input", input, "output", output, "format", *to, "bytes", len(encoded))
	return nil
}

// cliRegistry is the Registry the CLI decodes through. It has no DBRef or
// mode-wrapper hooks installed, so an encountered $ref/$id document stays
// a plain *bson.Document, ModeBSON int64 values pass through unwrapped,
// and ModeBSON symbols decode to bson.Symbol (which toNative turns back
// into a string); bsoncli only needs values a generic codec can re-encode.
func cliRegistry() *bson.Registry {
	return bson.NewRegistry()
}

// toNative recursively converts the decoded document model into plain Go
// maps/slices/scalars so cbor.Marshal/msgpack.Marshal can encode it via
// reflection without needing to know about *bson.Document or *bson.Array.
func toNative(v any) any {
	switch x := v.(type) {
	case *bson.Document:
		out := make(map[string]any, x.Len())
		x.Range(func(key string, value any) bool {
			out[key] = toNative(value)
			return true
		})
		return out
	case *bson.Array:
		values := x.Values()
		out := make([]any, len(values))
		for i, elem := range values {
			out[i] = toNative(elem)
		}
		return out
	case bson.Symbol:
		return string(x)
	default:
		return x
	}
}
