package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HugoDaniel/vlqmap/internal/sink"
	"github.com/HugoDaniel/vlqmap/internal/sourcemap"
)

func (a *app) newDecodeCmd() *cobra.Command {
	var mappings string

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Print every decoded mapping",
		Long: `Decode a mappings buffer and print one record per mapping.

The text format shows "line:column -> #source line:column #name" with 0-based
positions. The json format writes one JSON object per line and the csv format
writes a header followed by one row per mapping.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := sink.ParseFormat(a.options(cmd).Format)
			if err != nil {
				return err
			}

			in, err := readInput(cmd, argOrEmpty(args), mappings)
			if err != nil {
				return err
			}

			p := sink.NewPrinter(cmd.OutOrStdout(), format)
			p.Sources = in.sources()
			p.Names = in.names()

			decodeErr := sourcemap.Decode(in.mappings, p)
			if err := p.Flush(); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			if decodeErr != nil {
				return a.report(cmd, in, decodeErr)
			}
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "text", "Output format: text, json, csv")
	cmd.Flags().StringVarP(&mappings, "mappings", "m", "", "Decode this mappings string instead of a file")

	return cmd
}
