// Package transform defines the normalization pass that runs between loading
// and aggregation. A Transformer takes a table and returns a derived table;
// no step mutates its input. The concrete steps live in the builtin
// subpackage and are assembled into a Chain from configuration, so the
// per-phase rename maps and derived fields are data, not code.
package transform

import "pitchboard/internal/table"

// Transformer produces a derived table from an input table.
type Transformer interface {
	Apply(*table.Table) *table.Table
}

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs each transformer in order, feeding each output to the next.
func (c Chain) Apply(in *table.Table) *table.Table {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
