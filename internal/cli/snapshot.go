package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/depot/pkg/depot"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write a JSON Lines snapshot of products and orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, store *depot.Store) error {
				r, err := store.Export(ctx, args[0])
				if err != nil {
					return err
				}
				return printSnapshot(cmd.OutOrStdout(), r)
			})
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Load a JSON Lines snapshot of products and orders",
		Long:  "Load products.jsonl and orders.jsonl from dir. Existing records with the same ID are replaced; invalid lines are skipped and counted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, store *depot.Store) error {
				r, err := store.Import(ctx, args[0])
				if err != nil {
					return err
				}
				return printSnapshot(cmd.OutOrStdout(), r)
			})
		},
	}
}
