// Package records defines the row representation shared by every pipeline
// stage: a flat map from canonical column name to cell value. Parsed CSV cells
// are strings; empty cells are stored as nil so that "missing" is a single,
// checkable state regardless of how the value went missing.
package records

// Record is one submission row keyed by column name.
type Record map[string]any

// Missing reports whether a cell value counts as missing for aggregation
// purposes: nil (empty cell or never set) or the empty string.
func Missing(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// String returns the cell value for key as a string. The second result is
// false when the key is absent or the value is missing; non-string values are
// rendered by the caller, not here.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok || Missing(v) {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Clone returns a shallow copy of the record. Cell values are immutable
// strings, so a shallow copy is enough to protect the original from writes.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
