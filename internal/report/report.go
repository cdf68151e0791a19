// Package report runs one render pass: it takes the normalized submission
// table and produces every derived value the front end displays. Each section
// carries its own status so a missing column or an empty aggregate degrades
// to a placeholder for that section while the rest of the page renders.
package report

import (
	"fmt"
	"time"

	"pitchboard/internal/aggregate"
	"pitchboard/internal/config"
	"pitchboard/internal/table"
	"pitchboard/internal/textstats"
	"pitchboard/internal/transform/builtin"
)

// Status classifies a section result. The front end renders a different
// message for "the column is not in this export" than for "the column is
// there but nothing survived filtering".
type Status string

const (
	StatusOK            Status = "ok"
	StatusNoData        Status = "no_data"
	StatusMissingColumn Status = "missing_column"
)

// Overview holds the headline metrics.
type Overview struct {
	Total         int      `json:"total"`
	Complete      int      `json:"complete"`
	CompletionPct *float64 `json:"completion_pct"` // nil when there is no data
	Countries     int      `json:"countries"`
}

// ChartSection is a category→count series for a pie or bar chart.
type ChartSection struct {
	Status   Status            `json:"status"`
	Warning  string            `json:"warning,omitempty"`
	Counts   []aggregate.Count `json:"counts,omitempty"`
	MeanLine *float64          `json:"mean_line,omitempty"`
}

// WordCloudSection is one free-text field's frequency table.
type WordCloudSection struct {
	Column      string         `json:"column"`
	Label       string         `json:"label"`
	Status      Status         `json:"status"`
	Warning     string         `json:"warning,omitempty"`
	Frequencies map[string]int `json:"frequencies,omitempty"`
}

// KeyCountrySection is the key-country summary table.
type KeyCountrySection struct {
	Status  Status                     `json:"status"`
	Warning string                     `json:"warning,omitempty"`
	Rows    []aggregate.CountrySummary `json:"rows,omitempty"`
}

// Report is the full hand-off to the rendering collaborator.
type Report struct {
	GeneratedAt   time.Time          `json:"generated_at"`
	Message       string             `json:"message,omitempty"` // loader-level notice, e.g. missing file
	Overview      Overview           `json:"overview"`
	Channels      ChartSection       `json:"channels"`
	Countries     ChartSection       `json:"countries"`
	Industries    ChartSection       `json:"industries"`
	Stages        ChartSection       `json:"stages"`
	CompanyTypes  ChartSection       `json:"company_types"`
	ProductTypes  ChartSection       `json:"product_types"`
	AccountStatus ChartSection       `json:"account_status"`
	KeyCountries  KeyCountrySection  `json:"key_countries"`
	WordClouds    []WordCloudSection `json:"word_clouds"`
}

// Build computes a full report from the normalized table. It never fails;
// every recoverable problem becomes a section status or warning.
func Build(t *table.Table, cfg *config.Config) *Report {
	cols := cfg.Columns
	r := &Report{GeneratedAt: time.Now()}

	r.Overview = buildOverview(t, cols)
	r.Channels = chartSection(t, cols.Channel, 0)
	r.Countries = chartSection(t, cols.Country, cfg.TopN)
	r.Industries = chartSection(t, cols.Industry, cfg.TopN)
	r.Stages = chartSection(t, cols.Stage, 0)
	r.CompanyTypes = chartSection(t, cols.CompanyType, 0)
	r.ProductTypes = productTypeSection(t, cols.ProductTypes)
	r.AccountStatus = chartSection(t, cols.AccountStatus, 0)
	r.KeyCountries = keyCountrySection(t, cfg)
	r.WordClouds = wordCloudSections(t, cfg)
	return r
}

// SourceBreakdown aggregates the source column of an already-restricted
// table, serving the per-channel source pie. Same degradation rules as any
// chart section.
func SourceBreakdown(t *table.Table, cfg *config.Config) ChartSection {
	return chartSection(t, cfg.Columns.Source, 0)
}

func buildOverview(t *table.Table, cols config.Columns) Overview {
	ov := Overview{
		Total:     t.Len(),
		Countries: aggregate.DistinctCount(t, cols.Country),
	}
	for _, v := range t.NonMissing(cols.ResponseStatus) {
		if v == builtin.ResponseComplete {
			ov.Complete++
		}
	}
	if pct, ok := aggregate.Percentage(ov.Complete, ov.Total); ok {
		ov.CompletionPct = &pct
	}
	return ov
}

// chartSection aggregates one column. topN of 0 keeps the full series; a
// positive topN also computes the bar-chart average-line value.
func chartSection(t *table.Table, col string, topN int) ChartSection {
	if col == "" || !t.HasColumn(col) {
		return ChartSection{
			Status:  StatusMissingColumn,
			Warning: fmt.Sprintf("field %q is not present in this dataset", col),
		}
	}
	counts := aggregate.CountBy(t, col)
	if len(counts) == 0 {
		return ChartSection{
			Status:  StatusNoData,
			Warning: fmt.Sprintf("no data for field %q", col),
		}
	}
	sec := ChartSection{Status: StatusOK}
	if topN > 0 {
		sec.Counts = aggregate.TopN(counts, topN)
		if mean, ok := aggregate.MeanCounts(sec.Counts); ok {
			sec.MeanLine = &mean
		}
	} else {
		sec.Counts = counts
	}
	return sec
}

// productTypeSection counts affirmative flags across the product-type
// columns. Columns absent from this export are skipped; the section is
// missing only when none of them exist.
func productTypeSection(t *table.Table, flags []config.Column) ChartSection {
	var counts []aggregate.Count
	present := false
	for _, f := range flags {
		if !t.HasColumn(f.Name) {
			continue
		}
		present = true
		if n := aggregate.YesCount(t, f.Name); n > 0 {
			counts = append(counts, aggregate.Count{Value: f.Label, Count: n})
		}
	}
	if !present {
		return ChartSection{Status: StatusMissingColumn, Warning: "no product type fields in this dataset"}
	}
	if len(counts) == 0 {
		return ChartSection{Status: StatusNoData, Warning: "no product type selections recorded"}
	}
	return ChartSection{Status: StatusOK, Counts: counts}
}

func keyCountrySection(t *table.Table, cfg *config.Config) KeyCountrySection {
	if !t.HasColumn(cfg.Columns.Country) {
		return KeyCountrySection{
			Status:  StatusMissingColumn,
			Warning: fmt.Sprintf("field %q is not present in this dataset", cfg.Columns.Country),
		}
	}
	rows := aggregate.KeyCountrySummary(t, aggregate.KeyCountryOptions{
		Countries:     cfg.KeyCountries,
		CountryColumn: cfg.Columns.Country,
		ChannelColumn: cfg.Columns.Channel,
	})
	if len(rows) == 0 {
		return KeyCountrySection{Status: StatusNoData, Warning: "no submissions from the key countries"}
	}
	return KeyCountrySection{Status: StatusOK, Rows: rows}
}

func wordCloudSections(t *table.Table, cfg *config.Config) []WordCloudSection {
	stop := textstats.MergeStopwords(textstats.DefaultStopwords(), cfg.Text.ExtraStopwords)
	opt := textstats.Options{
		Stopwords: stop,
		MinLength: cfg.Text.MinTokenLength,
		Stem:      cfg.Text.Stem,
	}
	out := make([]WordCloudSection, 0, len(cfg.Text.Fields))
	for _, f := range cfg.Text.Fields {
		sec := WordCloudSection{Column: f.Name, Label: f.Label}
		if !t.HasColumn(f.Name) {
			sec.Status = StatusMissingColumn
			sec.Warning = fmt.Sprintf("field %q is not present in this dataset", f.Name)
			out = append(out, sec)
			continue
		}
		freq := textstats.Frequencies(t.NonMissing(f.Name), opt)
		if len(freq) == 0 {
			sec.Status = StatusNoData
			sec.Warning = fmt.Sprintf("field %q has no text content to analyze", f.Name)
			out = append(out, sec)
			continue
		}
		sec.Status = StatusOK
		sec.Frequencies = freq
		out = append(out, sec)
	}
	return out
}
