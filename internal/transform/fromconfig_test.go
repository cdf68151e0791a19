package transform_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pitchboard/internal/config"
	"pitchboard/internal/table"
	"pitchboard/internal/transform"
	"pitchboard/pkg/records"
)

/*
TestFromConfig_DefaultChain runs the full default normalization chain over a
raw-export shaped table and checks that renames and derivations line up: raw
headers become the canonical names and the derived status columns appear.
*/
func TestFromConfig_DefaultChain(t *testing.T) {
	cfg := config.Default()
	chain, err := transform.FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	in := table.New(
		[]string{"Response Type", "渠道", "SOURCE"},
		[]records.Record{
			{"Response Type": "completed", "渠道": " KOL ", "SOURCE": "weibo"},
			{"Response Type": "partial", "渠道": nil, "SOURCE": "email"},
		},
	)
	out := chain.Apply(in)

	for _, col := range []string{"response_type", "channel", "source", "response_status", "account_status"} {
		if !out.HasColumn(col) {
			t.Fatalf("column %q missing after chain; have %v", col, out.Columns())
		}
	}
	if v, _ := out.Rows()[0].String("response_status"); v != "complete" {
		t.Fatalf("response_status = %q, want complete", v)
	}
	if v, _ := out.Rows()[0].String("channel"); v != "KOL" {
		t.Fatalf("channel = %q, want trimmed KOL", v)
	}
	// alibaba_account is absent from the input, so the schema-level fallback
	// applies to every record.
	if v, _ := out.Rows()[1].String("account_status"); v != "Unknown" {
		t.Fatalf("account_status = %q, want Unknown", v)
	}
}

/*
TestFromConfig_Idempotent verifies that applying the chain to its own output
changes nothing: renames no-op once the target exists and derivations
recompute identical values.
*/
func TestFromConfig_Idempotent(t *testing.T) {
	cfg := config.Default()
	chain, err := transform.FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	in := table.New(
		[]string{"Response Type", "渠道"},
		[]records.Record{
			{"Response Type": "completed", "渠道": "KOL"},
			{"Response Type": "", "渠道": "ads"},
		},
	)
	once := chain.Apply(in)
	twice := chain.Apply(once)

	if diff := cmp.Diff(once.Columns(), twice.Columns()); diff != "" {
		t.Fatalf("schema changed on second run (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(once.Rows(), twice.Rows()); diff != "" {
		t.Fatalf("rows changed on second run (-first +second):\n%s", diff)
	}
}

func TestFromConfig_UnknownKind(t *testing.T) {
	cfg := config.Default()
	cfg.Derivations = append(cfg.Derivations, config.DerivationRule{
		Kind: "sentiment", Source: "solution", Target: "sentiment",
	})
	_, err := transform.FromConfig(cfg)
	if err == nil || !strings.Contains(err.Error(), "sentiment") {
		t.Fatalf("err = %v, want unknown-kind error naming the kind", err)
	}
}
