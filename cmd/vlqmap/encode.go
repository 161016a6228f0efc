package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/HugoDaniel/vlqmap/internal/sink"
	"github.com/HugoDaniel/vlqmap/internal/sourcemap"
)

func (a *app) newEncodeCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode JSON-lines mappings back into a mappings string",
		Long: `Read mappings in the format written by "decode --format json" and print
the equivalent mappings string. With --file, print a complete Source Map v3
document for that generated file instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if path := argOrEmpty(args); path != "" && path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			mappings, err := sink.ReadJSON(r)
			if err != nil {
				return fmt.Errorf("reading mappings: %w", err)
			}
			a.log.Debug("encode", "mappings", len(mappings))

			out := cmd.OutOrStdout()
			if file == "" {
				_, err = fmt.Fprintln(out, sourcemap.EncodeMappings(mappings))
				return err
			}

			g := sourcemap.NewGenerator()
			g.SetFile(file)
			for _, m := range mappings {
				g.AddMapping(m)
			}
			_, err = fmt.Fprintln(out, g.Generate().ToJSON())
			return err
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Emit a full source map for this generated `file` name")

	return cmd
}
