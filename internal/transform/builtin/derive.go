package builtin

import (
	"strings"

	"pitchboard/internal/table"
)

// MapFunc maps one raw cell to a derived categorical value. present is false
// when the cell itself is missing (the column exists but the record has no
// value); it lets a mapping pick a per-record default that differs from the
// schema-level fallback.
type MapFunc func(raw string, present bool) string

// Derive computes one derived categorical column from one source column.
//
// Two distinct fallbacks are involved and the distinction matters:
//   - FallbackWhenAbsent applies when the source column is missing from the
//     table schema entirely. Every record gets it.
//   - A missing cell in a present column goes through Map with present=false,
//     so the mapping's general branch decides.
//
// Derive always recomputes the target column, which makes it idempotent: the
// source values are untouched, so a second run produces the same output.
type Derive struct {
	Target             string
	Source             string
	Map                MapFunc
	FallbackWhenAbsent string
}

func (d Derive) Apply(in *table.Table) *table.Table {
	values := make([]string, in.Len())
	if !in.HasColumn(d.Source) {
		for i := range values {
			values[i] = d.FallbackWhenAbsent
		}
		return in.WithColumn(d.Target, values)
	}
	for i, r := range in.Rows() {
		raw, ok := r.String(d.Source)
		values[i] = d.Map(raw, ok)
	}
	return in.WithColumn(d.Target, values)
}

// Canonical response-completion statuses.
const (
	ResponseComplete = "complete"
	ResponsePartial  = "partial"
	ResponseUnknown  = "unknown"
)

// ResponseStatus derives the response-completion status from the raw
// response-type column. The Phase I export spells the value "completed" while
// Phase II uses "complete"; both fold into the canonical form. Anything else,
// including an empty cell, is a partial submission. Only a missing column
// yields "unknown" — that is a schema-level statement, not a per-record one.
func ResponseStatus(source, target string) Derive {
	return Derive{
		Target:             target,
		Source:             source,
		FallbackWhenAbsent: ResponseUnknown,
		Map: func(raw string, present bool) string {
			switch strings.ToLower(strings.TrimSpace(raw)) {
			case "complete", "completed":
				return ResponseComplete
			default:
				return ResponsePartial
			}
		},
	}
}

// Canonical account statuses.
const (
	AccountYes     = "Yes"
	AccountNo      = "No"
	AccountUnknown = "Unknown"
)

// negativeAccountTokens are the free-text answers that count as "no account".
var negativeAccountTokens = map[string]struct{}{
	"no":       {},
	"n":        {},
	"na":       {},
	"n/a":      {},
	"n/a.":     {},
	"not sure": {},
	"none":     {},
}

// AccountStatus derives a Yes/No account flag from the free-text "do you have
// an account" column. Negative-indicating answers and missing cells map to
// "No"; any other text is treated as affirmative. A missing column yields
// "Unknown" for every record.
func AccountStatus(source, target string) Derive {
	return Derive{
		Target:             target,
		Source:             source,
		FallbackWhenAbsent: AccountUnknown,
		Map: func(raw string, present bool) string {
			if !present {
				return AccountNo
			}
			if _, neg := negativeAccountTokens[strings.ToLower(strings.TrimSpace(raw))]; neg {
				return AccountNo
			}
			return AccountYes
		},
	}
}
