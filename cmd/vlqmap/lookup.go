package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HugoDaniel/vlqmap/internal/sink"
	"github.com/HugoDaniel/vlqmap/internal/sourcemap"
)

func (a *app) newLookupCmd() *cobra.Command {
	var (
		mappings string
		file     string
	)

	cmd := &cobra.Command{
		Use:   "lookup line:column...",
		Short: "Find the mapping covering generated positions",
		Long: `Decode the input and print, for each 0-based generated line:column, the
mapping covering it: the last mapping on that line starting at or before the
column.`,
		Example: "  vlqmap lookup --file app.js.map 0:120 3:8",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			positions := make([][2]int, len(args))
			for i, arg := range args {
				line, col, err := parsePosition(arg)
				if err != nil {
					return err
				}
				positions[i] = [2]int{line, col}
			}

			in, err := readInput(cmd, file, mappings)
			if err != nil {
				return err
			}

			table := sink.NewTable()
			if err := sourcemap.Decode(in.mappings, table); err != nil {
				return a.report(cmd, in, err)
			}

			p := sink.NewPrinter(cmd.OutOrStdout(), sink.FormatText)
			p.Sources = in.sources()
			p.Names = in.names()
			for i, pos := range positions {
				m, ok := table.Lookup(pos[0], pos[1])
				if !ok {
					a.log.Warn("no mapping", "position", args[i])
					continue
				}
				p.Print(m)
			}
			return p.Flush()
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Source map or mappings `file` (default stdin)")
	cmd.Flags().StringVarP(&mappings, "mappings", "m", "", "Look up in this mappings string instead of a file")

	return cmd
}

func parsePosition(s string) (line, col int, err error) {
	l, c, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid position %q (want line:column)", s)
	}
	if line, err = strconv.Atoi(l); err != nil || line < 0 {
		return 0, 0, fmt.Errorf("invalid line in %q", s)
	}
	if col, err = strconv.Atoi(c); err != nil || col < 0 {
		return 0, 0, fmt.Errorf("invalid column in %q", s)
	}
	return line, col, nil
}
