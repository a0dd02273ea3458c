package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/depot/pkg/depot"
	"github.com/mesh-intelligence/depot/pkg/types"
)

func newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "order",
		Aliases: []string{"orders"},
		Short:   "Manage orders",
	}
	cmd.AddCommand(
		newOrderGetCmd(),
		newOrderCreateCmd(),
		newOrderUpdateCmd(),
		newOrderDeleteCmd(),
		newOrderListCmd(),
		newOrderSearchCmd(),
		newOrderPurgeCmd(),
	)
	return cmd
}

// orderFields holds the flag values shared by create and update.
type orderFields struct {
	status    string
	productID int64
	created   string
}

func (f *orderFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.status, "status", string(types.StatusNotStarted), "order status")
	cmd.Flags().Int64Var(&f.productID, "product", 0, "product ID")
	cmd.Flags().StringVar(&f.created, "created", "", "creation date, YYYY-MM-DD or RFC 3339 (default: now)")
}

// apply overlays the flags set on cmd onto o. On create every flag applies.
func (f *orderFields) apply(cmd *cobra.Command, o *types.Order, all bool) error {
	changed := func(name string) bool { return all || cmd.Flags().Changed(name) }

	if changed("status") {
		status, err := types.ParseOrderStatus(f.status)
		if err != nil {
			return fmt.Errorf("--status %q: %w", f.status, err)
		}
		o.Status = status
	}
	if changed("product") {
		o.ProductID = f.productID
	}
	if cmd.Flags().Changed("created") {
		created, err := parseDate("created", f.created)
		if err != nil {
			return err
		}
		o.CreatedDate = created
	}
	return nil
}

func newOrderGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, store *depot.Store) error {
				o, err := store.Orders().Get(ctx, id)
				if err != nil {
					return err
				}
				return printOrders(cmd.OutOrStdout(), []types.Order{o})
			})
		},
	}
}

func newOrderCreateCmd() *cobra.Command {
	var fields orderFields
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ts := now().UTC()
			o := types.Order{CreatedDate: ts, UpdatedDate: ts}
			if err := fields.apply(cmd, &o, true); err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, store *depot.Store) error {
				id, err := store.Orders().Create(ctx, o)
				if err != nil {
					return err
				}
				if id, err = storedID(ctx, store, types.KindOrders, id); err != nil {
					return err
				}
				o.ID = id
				return printOrders(cmd.OutOrStdout(), []types.Order{o.Normalized()})
			})
		},
	}
	fields.register(cmd)
	_ = cmd.MarkFlagRequired("product")
	return cmd
}

func newOrderUpdateCmd() *cobra.Command {
	var fields orderFields
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an order's fields",
		Long:  "Change the fields given as flags and stamp the update time.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, store *depot.Store) error {
				o, err := store.Orders().Get(ctx, id)
				if err != nil {
					return err
				}
				if err := fields.apply(cmd, &o, false); err != nil {
					return err
				}
				o.UpdatedDate = now().UTC()
				if err := store.Orders().Update(ctx, id, o); err != nil {
					return err
				}
				return printOrders(cmd.OutOrStdout(), []types.Order{o})
			})
		},
	}
	fields.register(cmd)
	return cmd
}

func newOrderDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, store *depot.Store) error {
				if err := store.Orders().Delete(ctx, id); err != nil {
					return err
				}
				return printCount(cmd.OutOrStdout(), "deleted", 1)
			})
		},
	}
}

func newOrderListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, store *depot.Store) error {
				orders, err := store.Orders().List(ctx, nil)
				if err != nil {
					return err
				}
				return printOrders(cmd.OutOrStdout(), orders)
			})
		},
	}
}

// orderCriteria selects orders by exactly one key.
type orderCriteria struct {
	month     int
	year      int
	status    string
	productID int64
	from, to  string
}

var criteriaFlags = []string{"month", "year", "status", "product", "from"}

func (c *orderCriteria) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&c.month, "month", 0, "calendar month, 1-12, of any year")
	cmd.Flags().IntVar(&c.year, "year", 0, "calendar year")
	cmd.Flags().StringVar(&c.status, "status", "", "order status")
	cmd.Flags().Int64Var(&c.productID, "product", 0, "product ID")
	cmd.Flags().StringVar(&c.from, "from", "", "created on or after this date")
	cmd.Flags().StringVar(&c.to, "to", "", "created before this date")

	cmd.MarkFlagsOneRequired(criteriaFlags...)
	cmd.MarkFlagsMutuallyExclusive(criteriaFlags...)
	cmd.MarkFlagsRequiredTogether("from", "to")
}

// search runs the search selected by the flags set on cmd.
func (c *orderCriteria) search(ctx context.Context, cmd *cobra.Command, orders types.OrderRepository) ([]types.Order, error) {
	f := cmd.Flags()
	switch {
	case f.Changed("month"):
		return orders.SearchByMonth(ctx, c.month)
	case f.Changed("year"):
		return orders.SearchByYear(ctx, c.year)
	case f.Changed("status"):
		status, err := types.ParseOrderStatus(c.status)
		if err != nil {
			return nil, fmt.Errorf("--status %q: %w", c.status, err)
		}
		return orders.SearchByStatus(ctx, status)
	case f.Changed("product"):
		return orders.SearchByProduct(ctx, c.productID)
	default:
		r, err := c.dateRange()
		if err != nil {
			return nil, err
		}
		return orders.SearchByDateRange(ctx, r)
	}
}

// purge runs the bulk delete selected by the flags set on cmd.
func (c *orderCriteria) purge(ctx context.Context, cmd *cobra.Command, orders types.OrderRepository) (int, error) {
	f := cmd.Flags()
	switch {
	case f.Changed("month"):
		return orders.DeleteByMonth(ctx, c.month)
	case f.Changed("year"):
		return orders.DeleteByYear(ctx, c.year)
	case f.Changed("status"):
		status, err := types.ParseOrderStatus(c.status)
		if err != nil {
			return 0, fmt.Errorf("--status %q: %w", c.status, err)
		}
		return orders.DeleteByStatus(ctx, status)
	default:
		return orders.DeleteByProduct(ctx, c.productID)
	}
}

func (c *orderCriteria) dateRange() (types.DateRange, error) {
	from, err := parseDate("from", c.from)
	if err != nil {
		return types.DateRange{}, err
	}
	to, err := parseDate("to", c.to)
	if err != nil {
		return types.DateRange{}, err
	}
	return types.DateRange{From: from, To: to}, nil
}

func newOrderSearchCmd() *cobra.Command {
	var criteria orderCriteria
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find orders by month, year, status, product, or creation range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, store *depot.Store) error {
				orders, err := criteria.search(ctx, cmd, store.Orders())
				if err != nil {
					return err
				}
				return printOrders(cmd.OutOrStdout(), orders)
			})
		},
	}
	criteria.register(cmd)
	return cmd
}

func newOrderPurgeCmd() *cobra.Command {
	var criteria orderCriteria
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete orders by month, year, status, or product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, store *depot.Store) error {
				n, err := criteria.purge(ctx, cmd, store.Orders())
				if err != nil {
					return err
				}
				return printCount(cmd.OutOrStdout(), "deleted", n)
			})
		},
	}
	cmd.Flags().IntVar(&criteria.month, "month", 0, "calendar month, 1-12, of any year")
	cmd.Flags().IntVar(&criteria.year, "year", 0, "calendar year")
	cmd.Flags().StringVar(&criteria.status, "status", "", "order status")
	cmd.Flags().Int64Var(&criteria.productID, "product", 0, "product ID")

	purgeFlags := criteriaFlags[:4]
	cmd.MarkFlagsOneRequired(purgeFlags...)
	cmd.MarkFlagsMutuallyExclusive(purgeFlags...)
	return cmd
}
