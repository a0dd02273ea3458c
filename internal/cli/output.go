package cli

import (
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderTable writes rows under header as a text table.
func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	cols := make([]any, len(header))
	for i, h := range header {
		cols[i] = h
	}
	table.Header(cols...)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func printProducts(w io.Writer, products []types.Product) error {
	if products == nil {
		products = []types.Product{}
	}
	if flags.jsonMode {
		return writeJSON(w, products)
	}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10), p.Name, p.Description,
			p.Weight.String(), p.Height.String(), p.Width.String(), p.Length.String(),
		})
	}
	return renderTable(w, []string{"ID", "Name", "Description", "Weight", "Height", "Width", "Length"}, rows)
}

func printOrders(w io.Writer, orders []types.Order) error {
	if orders == nil {
		orders = []types.Order{}
	}
	if flags.jsonMode {
		return writeJSON(w, orders)
	}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			strconv.FormatInt(o.ID, 10), string(o.Status),
			o.CreatedDate.Format(time.RFC3339), o.UpdatedDate.Format(time.RFC3339),
			strconv.FormatInt(o.ProductID, 10),
		})
	}
	return renderTable(w, []string{"ID", "Status", "Created", "Updated", "Product"}, rows)
}

func printSyncResults(w io.Writer, results []types.SyncResult) error {
	if results == nil {
		results = []types.SyncResult{}
	}
	if flags.jsonMode {
		return writeJSON(w, results)
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Kind, strconv.Itoa(r.Inserted), strconv.Itoa(r.Updated),
			strconv.Itoa(r.Deleted), strconv.Itoa(r.Discarded),
		})
	}
	return renderTable(w, []string{"Kind", "Inserted", "Updated", "Deleted", "Discarded"}, rows)
}

func printSnapshot(w io.Writer, r types.SnapshotResult) error {
	if flags.jsonMode {
		return writeJSON(w, r)
	}
	return renderTable(w, []string{"Products", "Orders", "Skipped"}, [][]string{{
		strconv.Itoa(r.Products), strconv.Itoa(r.Orders), strconv.Itoa(r.Skipped),
	}})
}

// printCount reports how many records an operation touched.
func printCount(w io.Writer, key string, n int) error {
	if flags.jsonMode {
		return writeJSON(w, map[string]int{key: n})
	}
	_, err := io.WriteString(w, key+": "+strconv.Itoa(n)+"\n")
	return err
}
