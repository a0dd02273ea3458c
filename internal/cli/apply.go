package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/depot/pkg/depot"
	"github.com/mesh-intelligence/depot/pkg/types"
)

// Operation kinds accepted by apply.
const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"

	entityProduct = "product"
	entityOrder   = "order"
)

// operation is one line of an apply file.
type operation struct {
	Op     string          `json:"op"`
	Entity string          `json:"entity"`
	ID     int64           `json:"id,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// applyResult is the apply command's JSON output.
type applyResult struct {
	Applied int                `json:"applied"`
	Results []types.SyncResult `json:"results"`
}

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <file|->",
		Short: "Apply a batch of changes in one save",
		Long: "Read JSON Lines operations and apply them to disconnected repositories, then save once.\n" +
			"Each line is {\"op\": \"create|update|delete\", \"entity\": \"product|order\", \"id\": N, \"data\": {...}}.\n" +
			"Orders may reference products created earlier in the batch by temporary ID: -1 for the first, -2 for the second.\n" +
			"Nothing is saved if any line fails.",
		Args: cobra.ExactArgs(1),
		RunE: runApply,
	}
}

func runApply(cmd *cobra.Command, args []string) error {
	in, closeIn, err := openInput(cmd, args[0])
	if err != nil {
		return err
	}
	defer closeIn()

	store, logger, err := openStore(cmd, types.ModeDisconnected)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	applied, err := applyOperations(ctx, store, in)
	if err != nil {
		store.Reset()
		return err
	}

	results, err := store.Save(ctx)
	if err != nil {
		return err
	}
	logger.Info("batch applied", zap.Int("operations", applied))

	if flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), applyResult{Applied: applied, Results: results})
	}
	if err := printCount(cmd.OutOrStdout(), "applied", applied); err != nil {
		return err
	}
	return printSyncResults(cmd.OutOrStdout(), results)
}

// openInput opens name for reading; "-" is standard input.
func openInput(cmd *cobra.Command, name string) (io.Reader, func(), error) {
	if name == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// applyOperations applies each line of r to the store and returns the number
// of operations applied. Blank lines are skipped.
func applyOperations(ctx context.Context, store *depot.Store, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	applied := 0
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var op operation
		if err := json.Unmarshal(raw, &op); err != nil {
			return applied, fmt.Errorf("line %d: %w", line, err)
		}
		if err := applyOperation(ctx, store, op); err != nil {
			return applied, fmt.Errorf("line %d: %s %s: %w", line, op.Op, op.Entity, err)
		}
		applied++
	}
	if err := scanner.Err(); err != nil {
		return applied, fmt.Errorf("line %d: %w", line+1, err)
	}
	return applied, nil
}

func applyOperation(ctx context.Context, store *depot.Store, op operation) error {
	switch op.Entity {
	case entityProduct:
		return applyTo[types.Product](ctx, store.Products(), op, func(p types.Product) types.Product { return p })
	case entityOrder:
		return applyTo[types.Order](ctx, store.Orders(), op, func(o types.Order) types.Order {
			if o.CreatedDate.IsZero() {
				o.CreatedDate = now().UTC()
			}
			if o.UpdatedDate.IsZero() {
				o.UpdatedDate = o.CreatedDate
			}
			return o
		})
	default:
		return fmt.Errorf("unknown entity %q: %w", op.Entity, types.ErrInvalidData)
	}
}

// applyTo runs op against repo. prepare fills defaults on decoded records.
func applyTo[T types.Record[T]](ctx context.Context, repo types.Repository[T], op operation, prepare func(T) T) error {
	decode := func() (T, error) {
		var rec T
		if len(op.Data) == 0 {
			return rec, fmt.Errorf("missing data: %w", types.ErrInvalidData)
		}
		if err := json.Unmarshal(op.Data, &rec); err != nil {
			return rec, fmt.Errorf("%w: %v", types.ErrInvalidData, err)
		}
		return prepare(rec), nil
	}

	switch op.Op {
	case opCreate:
		rec, err := decode()
		if err != nil {
			return err
		}
		_, err = repo.Create(ctx, rec)
		return err
	case opUpdate:
		rec, err := decode()
		if err != nil {
			return err
		}
		return repo.Update(ctx, op.ID, rec)
	case opDelete:
		return repo.Delete(ctx, op.ID)
	default:
		return fmt.Errorf("unknown op %q: %w", op.Op, types.ErrInvalidData)
	}
}
