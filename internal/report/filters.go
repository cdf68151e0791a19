package report

import (
	"pitchboard/internal/config"
	"pitchboard/internal/table"
)

// Filters are the row-subset selections coming from the front end. Each set
// is either empty (no restriction) or matched exactly against the
// corresponding normalized column; the four filters compose with logical AND.
type Filters struct {
	Countries      []string
	Channels       []string
	ResponseStatus []string
	Funding        []string
}

// Apply restricts t by the filters. All columns are kept: the CSV export
// reproduces this exact table, so no projection happens here.
func (f Filters) Apply(t *table.Table, cols config.Columns) *table.Table {
	return t.FilterSets(map[string][]string{
		cols.Country:        f.Countries,
		cols.Channel:        f.Channels,
		cols.ResponseStatus: f.ResponseStatus,
		cols.Funding:        f.Funding,
	})
}

// Listing projects the configured display columns for the records table. With
// no listing configured the full column set is kept.
func Listing(t *table.Table, cols config.Columns) *table.Table {
	if len(cols.Listing) == 0 {
		return t
	}
	return t.Select(cols.Listing...)
}

// Empty reports whether no restriction is active.
func (f Filters) Empty() bool {
	return len(f.Countries) == 0 && len(f.Channels) == 0 &&
		len(f.ResponseStatus) == 0 && len(f.Funding) == 0
}
