package csv

import (
	"encoding/csv"
	"fmt"
	"io"

	"pitchboard/internal/table"
)

// Write encodes t as UTF-8 CSV: the header row followed by every row in table
// order, columns in the table's column order, missing cells as empty fields.
// No re-aggregation or reordering happens here; re-parsing the output yields
// a table equal to t.
func Write(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	cols := t.Columns()
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(cols))
	for _, r := range t.Rows() {
		for i, c := range cols {
			if s, ok := r.String(c); ok {
				row[i] = s
			} else {
				row[i] = ""
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
