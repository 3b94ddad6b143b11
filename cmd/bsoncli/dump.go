package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/gobson/bson"
)

func runDump(cfg toolConfig, args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	verbose := fs.BoolP("verbose", "v", false, "log each document's decode as it happens")
	noHex := fs.Bool("no-hex", false, "skip the raw hex block, print structure only")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bsoncli dump [flags] <file>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("missing file argument")
	}

	log := newLogger(*verbose)
	defer log.Sync() //nolint:errcheck

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("reading %s: %w", fs.Arg(0), err)
	}

	buf := bson.NewBufferFromBytes(data)
	opts := bson.DecodeOptions{}

	docIndex := 0
	for buf.Length() > 0 {
		offset := len(data) - buf.Length()
		log.Debugw("decoding document", "index", docIndex, "offset", offset)

		docBytes, declaredLen, err := peekDeclaredLength(buf)
		if err != nil {
			return fmt.Errorf("document %d at offset %d: %w", docIndex, offset, err)
		}

		decoded, err := bson.DecodeDocument(buf, opts)
		if err != nil {
			return fmt.Errorf("document %d at offset %d: %w", docIndex, offset, err)
		}

		fmt.Printf("== document %d at offset 0x%x (%d bytes) ==\n", docIndex, offset, declaredLen)
		if !*noHex {
			hexDump(os.Stdout, docBytes, offset)
		}
		if doc, ok := decoded.(*bson.Document); ok {
			printDocument(os.Stdout, doc, 0)
		} else {
			fmt.Printf("  <lifted value: %#v>\n", decoded)
		}
		fmt.Println()

		docIndex++
	}

	log.Infow("dump complete", "documents", docIndex)
	return nil
}

// peekDeclaredLength reads the document's length prefix without consuming
// from buf, then returns the full raw byte slice for that document so the
// caller can still hex-dump it after DecodeDocument advances past it.
func peekDeclaredLength(buf *bson.Buffer) ([]byte, int32, error) {
	all := buf.ToBytes()
	if len(all) < 4 {
		return nil, 0, fmt.Errorf("only %d bytes remain, need at least 4 for a length prefix", len(all))
	}
	declared := int32(all[0]) | int32(all[1])<<8 | int32(all[2])<<16 | int32(all[3])<<24
	if declared < 5 || int(declared) > len(all) {
		return nil, declared, fmt.Errorf("declared length %d is not consistent with %d remaining bytes", declared, len(all))
	}
	return all[:declared], declared, nil
}

func printDocument(w *os.File, doc *bson.Document, depth int) {
	indent := func(n int) string {
		return fmt.Sprintf("%*s", n*2, "")
	}
	doc.Range(func(key string, value any) bool {
		switch v := value.(type) {
		case *bson.Document:
			fmt.Fprintf(w, "%s%s:\n", indent(depth+1), key)
			printDocument(w, v, depth+1)
		case *bson.Array:
			fmt.Fprintf(w, "%s%s: [%d elements]\n", indent(depth+1), key, v.Len())
			for i, elem := range v.Values() {
				fmt.Fprintf(w, "%s  [%d] %#v\n", indent(depth+1), i, elem)
			}
		default:
			fmt.Fprintf(w, "%s%s: %#v\n", indent(depth+1), key, v)
		}
		return true
	})
}

// hexDump prints a 16-bytes-per-line offset/hex/ascii block, the same
// layout dump_hdf5 uses for raw file regions.
func hexDump(w *os.File, data []byte, baseOffset int) {
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		chunk := data[i:end]

		fmt.Fprintf(w, "%08x: ", baseOffset+i)
		for j := 0; j < 16; j++ {
			if j < len(chunk) {
				fmt.Fprintf(w, "%02x ", chunk[j])
			} else {
				fmt.Fprint(w, "   ")
			}
			if j == 7 {
				fmt.Fprint(w, " ")
			}
		}
		fmt.Fprint(w, " |")
		for _, b := range chunk {
			if b >= 32 && b <= 126 {
				fmt.Fprintf(w, "%c", b)
			} else {
				fmt.Fprint(w, ".")
			}
		}
		fmt.Fprintln(w, "|")
	}
}
