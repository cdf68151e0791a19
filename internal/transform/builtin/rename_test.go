package builtin_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"pitchboard/internal/table"
	"pitchboard/internal/transform/builtin"
	"pitchboard/pkg/records"
)

func TestRename_AppliesRulesInOrder(t *testing.T) {
	in := table.New(
		[]string{"渠道", "SOURCE", "Response Type"},
		[]records.Record{{"渠道": "KOL", "SOURCE": "weibo", "Response Type": "completed"}},
	)
	r := builtin.Rename{Rules: []builtin.RenameRule{
		{Source: "渠道", Target: "channel"},
		{Source: "SOURCE", Target: "source"},
		{Source: "Response Type", Target: "response_type"},
	}}
	out := r.Apply(in)

	want := []string{"channel", "source", "response_type"}
	if diff := cmp.Diff(want, out.Columns()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if v, ok := out.Rows()[0].String("channel"); !ok || v != "KOL" {
		t.Fatalf("channel cell = %q, %v; want KOL, true", v, ok)
	}
}

/*
TestRename_AbsentSourceIsNoOp verifies that a rule whose source column does not
exist leaves the table untouched rather than erroring: a Phase I export simply
lacks some Phase II columns.
*/
func TestRename_AbsentSourceIsNoOp(t *testing.T) {
	in := table.New([]string{"country"}, []records.Record{{"country": "Japan"}})
	r := builtin.Rename{Rules: []builtin.RenameRule{
		{Source: "渠道", Target: "channel"},
	}}
	out := r.Apply(in)

	if diff := cmp.Diff([]string{"country"}, out.Columns()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestTrimSpace_NormalizesCells(t *testing.T) {
	in := table.New(
		[]string{"country", "channel"},
		[]records.Record{{"country": "  France ", "channel": "   "}},
	)
	out := builtin.TrimSpace{}.Apply(in)

	row := out.Rows()[0]
	if v, ok := row.String("country"); !ok || v != "France" {
		t.Fatalf("country cell = %q, %v; want France, true", v, ok)
	}
	if _, ok := row.String("channel"); ok {
		t.Fatalf("whitespace-only cell should become missing")
	}
}
