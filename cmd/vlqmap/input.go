package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/HugoDaniel/vlqmap/internal/diagnostic"
	"github.com/HugoDaniel/vlqmap/internal/sourcemap"
)

var errDecodeFailed = errors.New("decode failed")

// input is one mappings buffer and, when it came from a source map document,
// the document itself.
type input struct {
	name     string
	mappings []byte
	sm       *sourcemap.SourceMap
}

func (in *input) sources() []string {
	if in.sm == nil {
		return nil
	}
	return in.sm.Sources
}

func (in *input) names() []string {
	if in.sm == nil {
		return nil
	}
	return in.sm.Names
}

// readInput resolves the input of a command: the --mappings string when set,
// otherwise the file named by path, or stdin when path is empty.
func readInput(cmd *cobra.Command, path, raw string) (*input, error) {
	if raw != "" {
		return &input{name: "<mappings>", mappings: []byte(raw)}, nil
	}

	var (
		data []byte
		err  error
		name = "<stdin>"
	)
	if path != "" && path != "-" {
		name = path
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	return parseInput(name, data)
}

// parseInput treats data as a source map document when it looks like a JSON
// object and as a raw mappings string otherwise.
func parseInput(name string, data []byte) (*input, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		sm, err := sourcemap.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return &input{name: name, mappings: []byte(sm.Mappings), sm: sm}, nil
	}
	return &input{name: name, mappings: data}, nil
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// report prints a diagnostic for a decode error and returns the error the
// command should fail with.
func (a *app) report(cmd *cobra.Command, in *input, err error) error {
	d, ok := diagnostic.FromError(err, in.mappings)
	if !ok {
		return fmt.Errorf("%s: %w", in.name, err)
	}

	a.log.Debug("decode failed", "input", in.name, "offset", d.Offset, "code", d.Code)
	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "%s:\n", in.name)
	fmt.Fprint(out, a.formatter().Format(d, in.mappings))
	return fmt.Errorf("%s: %w", in.name, errDecodeFailed)
}

func (a *app) formatter() diagnostic.Formatter {
	return diagnostic.Formatter{Color: colorEnabled()}
}
