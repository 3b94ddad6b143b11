// Command bsonsh is a small interactive shell for building a BSON document
// field by field and inspecting its encoded bytes, grounded on the
// liner-based REPL pattern from the sloty cache CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/gobson/bson"
)

func main() {
	if err := (&shell{doc: bson.NewDocument()}).run(); err != nil {
		fmt.Fprintf(os.Stderr, "bsonsh: %v\n", err)
		os.Exit(1)
	}
}

type shell struct {
	doc   *bson.Document
	liner *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bsonsh_history")
}

func (s *shell) run() error {
	s.liner = liner.NewLiner()
	defer s.liner.Close()

	s.liner.SetCtrlCAborts(true)
	s.liner.SetCompleter(s.completer)

	if f, err := os.Open(historyFile()); err == nil {
		s.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Println("bsonsh - interactive BSON document builder")
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := s.liner.Prompt("bsonsh> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			s.saveHistory()
			return nil
		case "help", "?":
			s.printHelp()
		case "set":
			s.cmdSet(args)
		case "get":
			s.cmdGet(args)
		case "keys":
			s.cmdKeys()
		case "dump":
			s.cmdDump()
		case "clear":
			s.doc = bson.NewDocument()
			fmt.Println("OK: document cleared")
		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	s.saveHistory()
	return nil
}

func (s *shell) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			s.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (s *shell) completer(line string) []string {
	commands := []string{"set", "get", "keys", "dump", "clear", "help", "exit", "quit", "q"}
	var out []string
	lower := strings.ToLower(line)
	for _, c := range commands {
		if strings.HasPrefix(c, lower) {
			out = append(out, c)
		}
	}
	return out
}

func (s *shell) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  set <key> <type> <value>   Set a field (type: string, int, double, bool)")
	fmt.Println("  get <key>                  Print a field's current value")
	fmt.Println("  keys                       List field names in insertion order")
	fmt.Println("  dump                       Encode the document and print its bytes")
	fmt.Println("  clear                      Discard the document and start over")
	fmt.Println("  help                       Show this help")
	fmt.Println("  exit / quit / q            Exit")
}

func (s *shell) cmdSet(args []string) {
	if len(args) < 3 {
		fmt.Println("Usage: set <key> <type> <value>")
		return
	}
	key, typ, raw := args[0], strings.ToLower(args[1]), strings.Join(args[2:], " ")

	var value any
	switch typ {
	case "string", "str":
		value = raw
	case "int", "int32":
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fmt.Printf("Error parsing int: %v\n", err)
			return
		}
		value = n
	case "double", "float":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fmt.Printf("Error parsing double: %v\n", err)
			return
		}
		value = f
	case "bool", "boolean":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			fmt.Printf("Error parsing bool: %v\n", err)
			return
		}
		value = b
	default:
		fmt.Printf("Unknown type %q (expected string, int, double, or bool)\n", typ)
		return
	}

	s.doc.Set(key, value)
	fmt.Printf("OK: set %s = %#v\n", key, value)
}

func (s *shell) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: get <key>")
		return
	}
	v, ok := s.doc.Get(args[0])
	if !ok {
		fmt.Println("(not set)")
		return
	}
	fmt.Printf("%s = %#v\n", args[0], v)
}

func (s *shell) cmdKeys() {
	keys := s.doc.Keys()
	if len(keys) == 0 {
		fmt.Println("(empty)")
		return
	}
	for i, k := range keys {
		fmt.Printf("%3d. %s\n", i+1, k)
	}
}

func (s *shell) cmdDump() {
	buf := bson.NewBuffer()
	if err := bson.EncodeDocument(buf, s.doc, true); err != nil {
		fmt.Printf("Error encoding: %v\n", err)
		return
	}
	encoded := buf.ToBytes()
	fmt.Printf("%d bytes:\n", len(encoded))
	for i := 0; i < len(encoded); i += 16 {
		end := i + 16
		if end > len(encoded) {
			end = len(encoded)
		}
		fmt.Printf("%08x: ", i)
		for _, b := range encoded[i:end] {
			fmt.Printf("%02x ", b)
		}
		fmt.Println()
	}
}
