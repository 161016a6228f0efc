package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HugoDaniel/vlqmap/internal/diagnostic"
	"github.com/HugoDaniel/vlqmap/internal/sourcemap"
	"github.com/HugoDaniel/vlqmap/pkg/api"
)

func (a *app) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Validate the mappings of one or more source maps",
		Long: `Decode every input and report each failure with its generated line,
segment and an excerpt of the mappings. Inputs with identical mappings are
decoded once. Reads stdin when no file is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.options(cmd)

			dec, err := api.NewDecoder(opts.CacheSize)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				args = []string{"-"}
			}

			var (
				list     diagnostic.List
				reported []*input
			)
			add := func(in *input, d diagnostic.Diagnostic) {
				list.Add(d)
				reported = append(reported, in)
			}

			for _, path := range args {
				in, err := readInput(cmd, path, "")
				if err != nil {
					return err
				}

				table, err := dec.Table(in.mappings)
				if err != nil {
					d, ok := diagnostic.FromError(err, in.mappings)
					if !ok {
						return fmt.Errorf("%s: %w", in.name, err)
					}
					add(in, d)
					continue
				}

				if table.Validate(opts.ExpectLines) != nil {
					end := len(in.mappings)
					add(in, diagnostic.Diagnostic{
						Severity: diagnostic.Warning,
						Code:     diagnostic.CodeLineCount,
						Message:  fmt.Sprintf("%d generated lines, want %d", len(table.Lines()), opts.ExpectLines),
						Offset:   end,
						Location: sourcemap.NewSegmentIndex(in.mappings).Locate(end),
					})
				}
				a.log.Debug("checked", "input", in.name, "lines", len(table.Lines()), "segments", table.Len())
			}

			hits, misses := dec.Stats()
			a.log.Debug("decode cache", "hits", hits, "misses", misses)

			f := a.formatter()
			errOut := cmd.ErrOrStderr()
			failed := 0
			for i, d := range list.Diagnostics() {
				if d.Severity == diagnostic.Error {
					failed++
				}
				fmt.Fprintf(errOut, "%s:\n", reported[i].name)
				fmt.Fprint(errOut, f.Format(d, reported[i].mappings))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "checked %d input(s): %d error(s), %d warning(s)\n",
				len(args), failed, list.Count()-failed)

			if list.HasErrors() {
				return fmt.Errorf("%d of %d input(s): %w", failed, len(args), errDecodeFailed)
			}
			return nil
		},
	}

	cmd.Flags().Int("expect-lines", 0, "Warn when the generated line count differs")

	return cmd
}
