package sqlite

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// Snapshot file names inside an export directory.
const (
	ProductsFile = "products.jsonl"
	OrdersFile   = "orders.jsonl"
)

// Export writes every product and order to dir as JSONL, one file per kind.
// Each file is replaced atomically.
func (b *Backend) Export(ctx context.Context, dir string) (types.SnapshotResult, error) {
	var result types.SnapshotResult
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return result, fmt.Errorf("creating export directory: %w", err)
	}

	products, err := b.products.FetchAll(ctx)
	if err != nil {
		return result, err
	}
	orders, err := b.orders.FetchAll(ctx)
	if err != nil {
		return result, err
	}

	if err := writeRecords(filepath.Join(dir, ProductsFile), products); err != nil {
		return result, err
	}
	if err := writeRecords(filepath.Join(dir, OrdersFile), orders); err != nil {
		return result, err
	}

	result.Products = len(products)
	result.Orders = len(orders)
	b.logger.Info("snapshot exported", zap.String("dir", dir),
		zap.Int("products", result.Products), zap.Int("orders", result.Orders))
	return result, nil
}

// Import loads the JSONL files written by Export, keeping their identities.
// Existing rows with the same identity are overwritten. Products load before
// orders; malformed lines, invalid records, and orders referencing missing
// products are skipped and counted. A missing file is treated as empty.
func (b *Backend) Import(ctx context.Context, dir string) (types.SnapshotResult, error) {
	var result types.SnapshotResult
	db, err := b.conn()
	if err != nil {
		return result, err
	}

	productLines, err := readSnapshot(filepath.Join(dir, ProductsFile))
	if err != nil {
		return result, err
	}
	orderLines, err := readSnapshot(filepath.Join(dir, OrdersFile))
	if err != nil {
		return result, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return result, &types.GatewayError{Op: "import", Err: err}
	}
	defer tx.Rollback()

	for _, line := range productLines {
		var p types.Product
		if err := json.Unmarshal(line, &p); err != nil || p.ID <= 0 || p.Validate() != nil {
			result.Skipped++
			continue
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(product_id) DO UPDATE SET name = excluded.name, description = excluded.description,
    weight = excluded.weight, height = excluded.height, width = excluded.width, length = excluded.length`,
			p.ID, p.Name, p.Description, p.Weight, p.Height, p.Width, p.Length)
		if err != nil {
			b.logger.Debug("skipping product", zap.Int64("id", p.ID), zap.Error(err))
			result.Skipped++
			continue
		}
		result.Products++
	}

	for _, line := range orderLines {
		var o types.Order
		if err := json.Unmarshal(line, &o); err != nil || o.ID <= 0 || o.Validate() != nil {
			result.Skipped++
			continue
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO orders (`+orderColumns+`) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(order_id) DO UPDATE SET status = excluded.status, created_date = excluded.created_date,
    updated_date = excluded.updated_date, product_id = excluded.product_id`,
			o.ID, string(o.Status), formatTime(o.CreatedDate), formatTime(o.UpdatedDate), o.ProductID)
		if err != nil {
			b.logger.Debug("skipping order", zap.Int64("id", o.ID), zap.Error(err))
			result.Skipped++
			continue
		}
		result.Orders++
	}

	if err := tx.Commit(); err != nil {
		return types.SnapshotResult{}, &types.GatewayError{Op: "import", Err: err}
	}
	b.logger.Info("snapshot imported", zap.String("dir", dir),
		zap.Int("products", result.Products), zap.Int("orders", result.Orders), zap.Int("skipped", result.Skipped))
	return result, nil
}

// writeRecords marshals records one per line and writes them atomically.
func writeRecords[T any](path string, records []T) error {
	lines := make([]json.RawMessage, 0, len(records))
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
		}
		lines = append(lines, data)
	}
	return writeJSONL(path, lines)
}

// readSnapshot reads a snapshot file. A missing file yields no records.
func readSnapshot(path string) ([]json.RawMessage, error) {
	lines, err := readJSONL(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return lines, err
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
