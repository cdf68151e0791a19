package records_test

import (
	"testing"

	"pitchboard/pkg/records"
)

func TestMissing(t *testing.T) {
	if !records.Missing(nil) || !records.Missing("") {
		t.Fatalf("nil and empty string should be missing")
	}
	if records.Missing("x") || records.Missing(0) {
		t.Fatalf("non-empty values should not be missing")
	}
}

func TestString(t *testing.T) {
	r := records.Record{"country": "Japan", "channel": nil, "source": ""}

	if v, ok := r.String("country"); !ok || v != "Japan" {
		t.Fatalf("String(country) = %q, %v", v, ok)
	}
	for _, key := range []string{"channel", "source", "absent"} {
		if _, ok := r.String(key); ok {
			t.Fatalf("String(%q) should report missing", key)
		}
	}
}

func TestClone(t *testing.T) {
	r := records.Record{"country": "Japan"}
	c := r.Clone()
	c["country"] = "France"
	if v, _ := r.String("country"); v != "Japan" {
		t.Fatalf("Clone shares storage with the original")
	}
}
