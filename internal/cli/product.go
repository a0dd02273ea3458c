package cli

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/depot/pkg/depot"
	"github.com/mesh-intelligence/depot/pkg/types"
)

func newProductCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "product",
		Aliases: []string{"products"},
		Short:   "Manage products",
	}
	cmd.AddCommand(
		newProductGetCmd(),
		newProductCreateCmd(),
		newProductUpdateCmd(),
		newProductDeleteCmd(),
		newProductListCmd(),
	)
	return cmd
}

// productFields holds the flag values shared by create and update.
type productFields struct {
	name, description             string
	weight, height, width, length string
}

func (f *productFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "product name")
	cmd.Flags().StringVar(&f.description, "description", "", "product description")
	cmd.Flags().StringVar(&f.weight, "weight", "0", "weight")
	cmd.Flags().StringVar(&f.height, "height", "0", "height")
	cmd.Flags().StringVar(&f.width, "width", "0", "width")
	cmd.Flags().StringVar(&f.length, "length", "0", "length")
}

// apply overlays the flags set on cmd onto p. On create every flag applies.
func (f *productFields) apply(cmd *cobra.Command, p *types.Product, all bool) error {
	changed := func(name string) bool { return all || cmd.Flags().Changed(name) }

	if changed("name") {
		p.Name = f.name
	}
	if changed("description") {
		p.Description = f.description
	}
	dims := []struct {
		flag  string
		value string
		dst   *decimal.Decimal
	}{
		{"weight", f.weight, &p.Weight},
		{"height", f.height, &p.Height},
		{"width", f.width, &p.Width},
		{"length", f.length, &p.Length},
	}
	for _, d := range dims {
		if !changed(d.flag) {
			continue
		}
		v, err := parseDecimal(d.flag, d.value)
		if err != nil {
			return err
		}
		*d.dst = v
	}
	return nil
}

func newProductGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, store *depot.Store) error {
				p, err := store.Products().Get(ctx, id)
				if err != nil {
					return err
				}
				return printProducts(cmd.OutOrStdout(), []types.Product{p})
			})
		},
	}
}

func newProductCreateCmd() *cobra.Command {
	var fields productFields
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p types.Product
			if err := fields.apply(cmd, &p, true); err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, store *depot.Store) error {
				id, err := store.Products().Create(ctx, p)
				if err != nil {
					return err
				}
				if id, err = storedID(ctx, store, types.KindProducts, id); err != nil {
					return err
				}
				p.ID = id
				return printProducts(cmd.OutOrStdout(), []types.Product{p})
			})
		},
	}
	fields.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProductUpdateCmd() *cobra.Command {
	var fields productFields
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a product's fields",
		Long:  "Change the fields given as flags; the others keep their current values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, store *depot.Store) error {
				p, err := store.Products().Get(ctx, id)
				if err != nil {
					return err
				}
				if err := fields.apply(cmd, &p, false); err != nil {
					return err
				}
				if err := store.Products().Update(ctx, id, p); err != nil {
					return err
				}
				return printProducts(cmd.OutOrStdout(), []types.Product{p})
			})
		},
	}
	fields.register(cmd)
	return cmd
}

func newProductDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, store *depot.Store) error {
				if err := store.Products().Delete(ctx, id); err != nil {
					return err
				}
				return printCount(cmd.OutOrStdout(), "deleted", 1)
			})
		},
	}
}

func newProductListCmd() *cobra.Command {
	var nameContains string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter types.Filter[types.Product]
			if nameContains != "" {
				needle := strings.ToLower(nameContains)
				filter = func(p types.Product) bool {
					return strings.Contains(strings.ToLower(p.Name), needle)
				}
			}
			return withStore(cmd, func(ctx context.Context, store *depot.Store) error {
				products, err := store.Products().List(ctx, filter)
				if err != nil {
					return err
				}
				return printProducts(cmd.OutOrStdout(), products)
			})
		},
	}
	cmd.Flags().StringVar(&nameContains, "name", "", "only products whose name contains this text")
	return cmd
}
