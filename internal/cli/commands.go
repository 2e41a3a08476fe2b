package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List selectable datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.service.Datasets(a.ctx(cmd))
			if err != nil {
				return err
			}
			if len(opts) == 0 {
				fmt.Fprintln(a.out(cmd), "(no datasets)")
				return nil
			}
			return writeOptions(a.out(cmd), opts, a.format)
		},
	}
}

func (a *app) columnsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "columns <dataset>",
		Short: "Show a dataset's columns and default chart axes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.service.Load(a.ctx(cmd), args[0])
			if err != nil {
				return err
			}
			if t.NumColumns() == 0 {
				fmt.Fprintln(a.out(cmd), "(no columns)")
				return nil
			}
			return writeColumns(a.out(cmd), t, a.format)
		},
	}
}

func (a *app) uploadCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Copy a CSV or Excel file into the uploads directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			if name == "" {
				name = filepath.Base(args[0])
			}
			id, err := a.service.Upload(a.ctx(cmd), name, data)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out(cmd), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "store under this filename instead of the source name")
	return cmd
}

func (a *app) recentCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recent uploads from the upload history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 || limit > 100 {
				return fmt.Errorf("--limit must be 1-100, got %d", limit)
			}
			recs, err := a.service.RecentUploads(a.ctx(cmd), limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Fprintln(a.out(cmd), "(no uploads)")
				return nil
			}
			return writeUploads(a.out(cmd), recs, a.format)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of records to show")
	return cmd
}
