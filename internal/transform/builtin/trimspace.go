package builtin

import (
	"strings"

	"pitchboard/internal/table"
	"pitchboard/pkg/records"
)

// TrimSpace trims leading/trailing whitespace from every string cell and
// replaces the non-breaking-space artifacts the survey tool leaves in pasted
// text. Cells that become empty are stored as missing.
type TrimSpace struct{}

func (TrimSpace) Apply(in *table.Table) *table.Table {
	return in.Map(func(r records.Record) {
		for k, v := range r {
			if s, ok := v.(string); ok {
				s = strings.TrimSpace(strings.ReplaceAll(s, " ", " "))
				if s == "" {
					r[k] = nil
				} else {
					r[k] = s
				}
			}
		}
	})
}
