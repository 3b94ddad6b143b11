// Command bsoncli inspects and converts BSON document streams. It is
// generalized from the teacher's dump_hdf5/sonnet tools: dump prints an
// offset-annotated hex and structural view of a document, convert bridges
// into CBOR or MessagePack for interop.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "bsoncli: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		printUsage()
		return fmt.Errorf("missing subcommand")
	}

	cfg, err := loadToolConfig(".")
	if err != nil {
		return err
	}

	switch args[0] {
	case "dump":
		return runDump(cfg, args[1:])
	case "convert":
		return runConvert(cfg, args[1:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  bsoncli dump [--verbose] <file>")
	fmt.Fprintln(os.Stderr, "  bsoncli convert --to=cbor|msgpack [--verbose] <file> <output>")
}

func newLogger(verbose bool) *zap.SugaredLogger {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		// zap construction failing means stderr itself is unusable; fall
		// back to a no-op logger rather than crash a dump/convert run over
		// a logging problem.
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}
