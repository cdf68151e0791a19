// Package table provides the in-memory submission table: an ordered set of
// column names plus the parsed rows. The schema of the survey exports varies
// between phases, so every column access goes through an explicit presence
// check; nothing in this package panics on an unknown column name.
package table

import (
	"pitchboard/pkg/records"
)

// Table is an immutable-by-convention tabular dataset. Downstream stages never
// mutate a table they received; deriving methods return a new Table.
type Table struct {
	cols []string
	rows []records.Record
}

// New builds a table from an ordered column list and rows. The slices are
// retained, not copied; callers hand over ownership.
func New(cols []string, rows []records.Record) *Table {
	return &Table{cols: cols, rows: rows}
}

// Empty returns a table with no columns and no rows. It is the well-defined
// result for a missing source file.
func Empty() *Table { return &Table{} }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns a copy of the ordered column names.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// Rows returns the underlying rows. Callers must treat them as read-only.
func (t *Table) Rows() []records.Record { return t.rows }

// HasColumn reports whether name is part of the table schema. This is the
// presence check the rest of the pipeline relies on to distinguish a
// schema-level fallback from a per-row missing value.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.cols {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns every cell of the named column in row order, including
// missing cells as nil. The second result is false when the column is absent.
func (t *Table) Column(name string) ([]any, bool) {
	if !t.HasColumn(name) {
		return nil, false
	}
	out := make([]any, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[name]
	}
	return out, true
}

// NonMissing returns the string values of the named column with missing cells
// excluded, in row order. An absent column yields nil.
func (t *Table) NonMissing(name string) []string {
	if !t.HasColumn(name) {
		return nil
	}
	var out []string
	for _, r := range t.rows {
		if s, ok := r.String(name); ok {
			out = append(out, s)
		}
	}
	return out
}

// WithColumn returns a new table in which the named column holds the provided
// values, one per row. Rows are cloned, so the receiver is left untouched. If
// the column is new it is appended to the schema; if it already exists its
// values are replaced, which makes repeated derivation runs idempotent.
// values must have exactly Len entries; empty strings are stored as nil.
func (t *Table) WithColumn(name string, values []string) *Table {
	rows := make([]records.Record, len(t.rows))
	for i, r := range t.rows {
		nr := r.Clone()
		if values[i] == "" {
			nr[name] = nil
		} else {
			nr[name] = values[i]
		}
		rows[i] = nr
	}
	cols := t.Columns()
	if !t.HasColumn(name) {
		cols = append(cols, name)
	}
	return &Table{cols: cols, rows: rows}
}

// RenameColumn returns a new table with the column renamed in both the schema
// and every row. Absent source names are a no-op; an already-present target
// is also a no-op, so re-running a rename pass changes nothing.
func (t *Table) RenameColumn(from, to string) *Table {
	if !t.HasColumn(from) || t.HasColumn(to) || from == to {
		return t
	}
	cols := t.Columns()
	for i, c := range cols {
		if c == from {
			cols[i] = to
		}
	}
	rows := make([]records.Record, len(t.rows))
	for i, r := range t.rows {
		nr := r.Clone()
		if v, ok := nr[from]; ok {
			delete(nr, from)
			nr[to] = v
		}
		rows[i] = nr
	}
	return &Table{cols: cols, rows: rows}
}

// Map returns a new table whose rows are fn applied to clones of the
// receiver's rows. fn may mutate its argument freely.
func (t *Table) Map(fn func(records.Record)) *Table {
	rows := make([]records.Record, len(t.rows))
	for i, r := range t.rows {
		nr := r.Clone()
		fn(nr)
		rows[i] = nr
	}
	return &Table{cols: t.Columns(), rows: rows}
}

// Select returns a new table restricted to the named columns, in the given
// order, skipping any that are absent. Rows are shared, not copied.
func (t *Table) Select(names ...string) *Table {
	var cols []string
	for _, n := range names {
		if t.HasColumn(n) {
			cols = append(cols, n)
		}
	}
	return &Table{cols: cols, rows: t.rows}
}

// Filter returns a new table containing the rows for which pred is true.
// Row order is preserved and rows are shared with the receiver.
func (t *Table) Filter(pred func(records.Record) bool) *Table {
	var rows []records.Record
	for _, r := range t.rows {
		if pred(r) {
			rows = append(rows, r)
		}
	}
	return &Table{cols: t.Columns(), rows: rows}
}

// FilterSets restricts the table by exact-match value sets, composed with
// logical AND. An empty or nil set for a column means no restriction. A
// restriction on a column the table does not have matches nothing for that
// column and therefore yields an empty result.
func (t *Table) FilterSets(sel map[string][]string) *Table {
	active := make(map[string]map[string]struct{})
	for col, vals := range sel {
		if len(vals) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(vals))
		for _, v := range vals {
			set[v] = struct{}{}
		}
		active[col] = set
	}
	if len(active) == 0 {
		return t
	}
	for col := range active {
		if !t.HasColumn(col) {
			return &Table{cols: t.Columns()}
		}
	}
	return t.Filter(func(r records.Record) bool {
		for col, set := range active {
			s, ok := r.String(col)
			if !ok {
				return false
			}
			if _, hit := set[s]; !hit {
				return false
			}
		}
		return true
	})
}
