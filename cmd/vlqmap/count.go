package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HugoDaniel/vlqmap/internal/diagnostic"
	"github.com/HugoDaniel/vlqmap/internal/sink"
	"github.com/HugoDaniel/vlqmap/pkg/api"
)

func (a *app) newCountCmd() *cobra.Command {
	var mappings string

	cmd := &cobra.Command{
		Use:   "count [file]",
		Short: "Count generated lines and mappings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.options(cmd)
			format, err := sink.ParseFormat(opts.Format)
			if err != nil {
				return err
			}
			if format == sink.FormatCSV {
				return fmt.Errorf("unsupported format %q for count (want text or json)", format)
			}

			in, err := readInput(cmd, argOrEmpty(args), mappings)
			if err != nil {
				return err
			}

			counts, err := api.Count(string(in.mappings))
			if err != nil {
				return a.report(cmd, in, err)
			}

			if opts.ExpectLines > 0 && counts.Lines != opts.ExpectLines {
				a.log.Warn("unexpected line count",
					"input", in.name,
					"code", diagnostic.CodeLineCount,
					"lines", counts.Lines,
					"want", opts.ExpectLines)
			}

			out := cmd.OutOrStdout()
			if format == sink.FormatJSON {
				return json.NewEncoder(out).Encode(counts)
			}
			fmt.Fprintf(out, "lines:    %d\n", counts.Lines)
			fmt.Fprintf(out, "segments: %d\n", counts.Segments)
			fmt.Fprintf(out, "  1 field:  %d\n", counts.Mapping1)
			fmt.Fprintf(out, "  4 fields: %d\n", counts.Mapping4)
			fmt.Fprintf(out, "  5 fields: %d\n", counts.Mapping5)
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	cmd.Flags().StringVarP(&mappings, "mappings", "m", "", "Count this mappings string instead of a file")
	cmd.Flags().Int("expect-lines", 0, "Warn when the generated line count differs")

	return cmd
}
