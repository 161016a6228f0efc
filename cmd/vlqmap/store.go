package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/HugoDaniel/vlqmap/internal/sourcemap"
	"github.com/HugoDaniel/vlqmap/internal/store"
)

func (a *app) newStoreCmd() *cobra.Command {
	var (
		mappings string
		dbPath   string
		id       string
		list     bool
	)

	cmd := &cobra.Command{
		Use:   "store [file]",
		Short: "Decode mappings into a SQLite database",
		Long: `Decode the input and save every mapping into a SQLite database, replacing
any mappings previously stored under the same id. Nothing is written when
decoding fails. With --list, print the stored maps instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer s.Close()

			if list {
				maps, err := s.Maps()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, m := range maps {
					fmt.Fprintf(out, "%s\t%d lines\t%d segments\n", m.ID, m.Lines, m.Segments)
				}
				return nil
			}

			in, err := readInput(cmd, argOrEmpty(args), mappings)
			if err != nil {
				return err
			}
			if id == "" {
				id = defaultID(argOrEmpty(args))
			}

			w, err := s.Begin(id)
			if err != nil {
				return err
			}
			if err := sourcemap.Decode(in.mappings, w); err != nil {
				if rbErr := w.Rollback(); rbErr != nil {
					a.log.Error("rollback failed", "id", id, "error", rbErr)
				}
				return a.report(cmd, in, err)
			}
			if err := w.Commit(); err != nil {
				return fmt.Errorf("storing %s: %w", id, err)
			}

			a.log.Info("stored mappings", "id", id, "db", dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "vlqmap.db", "SQLite database `path`")
	cmd.Flags().StringVar(&id, "id", "", "Id to store the mappings under (default: file name)")
	cmd.Flags().BoolVar(&list, "list", false, "List stored maps")
	cmd.Flags().StringVarP(&mappings, "mappings", "m", "", "Store this mappings string instead of a file")

	return cmd
}

func defaultID(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return filepath.Base(path)
}
