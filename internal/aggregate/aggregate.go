// Package aggregate computes the derived statistics the dashboards render:
// grouped counts, percentages, top-N rankings, and the key-country summary.
// Every function degrades to a defined empty result on missing columns or
// empty input; nothing here returns an error or panics mid-render.
package aggregate

import (
	"math"
	"sort"
	"strconv"

	"pitchboard/internal/table"
	"pitchboard/pkg/records"
)

// Count is one category and its occurrence count.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CountBy groups the non-missing values of the named column and returns
// category→count pairs ordered by count descending. Ties keep the order in
// which the category first appears in the table, so repeated renders over the
// same data produce identical chart series. A missing column or a column with
// no eligible values yields nil.
func CountBy(t *table.Table, col string) []Count {
	if !t.HasColumn(col) {
		return nil
	}
	type bucket struct {
		count int
		first int
	}
	buckets := make(map[string]*bucket)
	order := 0
	for _, r := range t.Rows() {
		s, ok := r.String(col)
		if !ok {
			continue
		}
		b := buckets[s]
		if b == nil {
			b = &bucket{first: order}
			buckets[s] = b
		}
		b.count++
		order++
	}
	if len(buckets) == 0 {
		return nil
	}
	out := make([]Count, 0, len(buckets))
	for v, b := range buckets {
		out = append(out, Count{Value: v, Count: b.count})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return buckets[a.Value].first < buckets[b.Value].first
	})
	return out
}

// Total sums the counts of an aggregate. By construction this equals the
// number of non-missing values in the grouped column.
func Total(counts []Count) int {
	sum := 0
	for _, c := range counts {
		sum += c.Count
	}
	return sum
}

// Percentage returns part/total*100 rounded to one decimal place. For an
// empty denominator it returns (0, false) — the "no data" sentinel — instead
// of dividing by zero or pretending the answer is a real 0%.
func Percentage(part, total int) (float64, bool) {
	if total == 0 {
		return 0, false
	}
	return math.Round(float64(part)/float64(total)*1000) / 10, true
}

// TopN truncates a descending-ordered aggregate to its first n entries.
// Shorter aggregates are returned whole; there is no zero-count padding.
func TopN(counts []Count, n int) []Count {
	if n < 0 {
		n = 0
	}
	if len(counts) <= n {
		return counts
	}
	return counts[:n]
}

// MeanCounts returns the arithmetic mean of the counts, used as the
// average-line annotation on bar charts. False for an empty aggregate.
func MeanCounts(counts []Count) (float64, bool) {
	if len(counts) == 0 {
		return 0, false
	}
	return float64(Total(counts)) / float64(len(counts)), true
}

// DistinctCount returns the number of distinct non-missing values in the
// column; 0 when the column is absent.
func DistinctCount(t *table.Table, col string) int {
	seen := make(map[string]struct{})
	for _, v := range t.NonMissing(col) {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// YesCount counts records whose cell holds an affirmative flag value. The
// product-type columns store "Yes" (or a boolean literal from older export
// revisions) in the matching column and are otherwise empty.
func YesCount(t *table.Table, col string) int {
	n := 0
	for _, v := range t.NonMissing(col) {
		if v == "Yes" {
			n++
			continue
		}
		if b, err := strconv.ParseBool(v); err == nil && b {
			n++
		}
	}
	return n
}

// Mode returns the most frequent value, ties broken by first-encountered
// order. False for empty input.
func Mode(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	type bucket struct {
		count int
		first int
	}
	buckets := make(map[string]*bucket, len(values))
	for i, v := range values {
		b := buckets[v]
		if b == nil {
			buckets[v] = &bucket{count: 1, first: i}
			continue
		}
		b.count++
	}
	best := ""
	var bestB *bucket
	for v, b := range buckets {
		if bestB == nil || b.count > bestB.count || (b.count == bestB.count && b.first < bestB.first) {
			best, bestB = v, b
		}
	}
	return best, true
}

// CountrySummary is one row of the key-country summary.
type CountrySummary struct {
	Country    string `json:"country"`
	Count      int    `json:"count"`
	TopChannel string `json:"top_channel"`
}

// KeyCountryOptions parameterizes the key-country summary.
type KeyCountryOptions struct {
	// Countries is the fixed allow-list; output rows keep this order.
	Countries []string
	// CountryColumn and ChannelColumn name the normalized columns to read.
	CountryColumn string
	ChannelColumn string
	// EmptyChannelSentinel is reported as TopChannel for a country whose
	// records all lack a channel value. Empty means "none".
	EmptyChannelSentinel string
}

// KeyCountrySummary restricts the table to the allow-listed countries and
// reports, per country, the record count and the modal channel. Countries
// with zero matching records are omitted rather than reported with a zero
// count; countries whose records never name a channel get the sentinel.
// An absent country column yields an empty summary.
func KeyCountrySummary(t *table.Table, opt KeyCountryOptions) []CountrySummary {
	if !t.HasColumn(opt.CountryColumn) {
		return nil
	}
	sentinel := opt.EmptyChannelSentinel
	if sentinel == "" {
		sentinel = "none"
	}
	var out []CountrySummary
	for _, country := range opt.Countries {
		group := t.Filter(func(r records.Record) bool {
			s, ok := r.String(opt.CountryColumn)
			return ok && s == country
		})
		if group.Len() == 0 {
			continue
		}
		top, ok := Mode(group.NonMissing(opt.ChannelColumn))
		if !ok {
			top = sentinel
		}
		out = append(out, CountrySummary{Country: country, Count: group.Len(), TopChannel: top})
	}
	return out
}
