// Package builtin contains the reusable normalization steps: header renames,
// cell cleanup, and derived categorical columns.
package builtin

import "pitchboard/internal/table"

// RenameRule maps one raw export header to its canonical short name.
type RenameRule struct {
	Source string
	Target string
}

// Rename applies a fixed list of header renames. Absent source columns are a
// no-op, never an error; the Phase I and Phase II exports share most but not
// all headers and both run through the same rule list.
type Rename struct{ Rules []RenameRule }

func (rn Rename) Apply(in *table.Table) *table.Table {
	out := in
	for _, r := range rn.Rules {
		out = out.RenameColumn(r.Source, r.Target)
	}
	return out
}
