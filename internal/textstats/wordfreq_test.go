package textstats_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pitchboard/internal/textstats"
)

/*
TestFrequencies_Basic walks the canonical word-cloud example: two answers,
a small stopword set, and the default minimum length, producing exact tallies
with case folded.
*/
func TestFrequencies_Basic(t *testing.T) {
	texts := []string{"Great product and great team", "the team is great"}
	stop := map[string]struct{}{"the": {}, "is": {}, "and": {}}

	got := textstats.Frequencies(texts, textstats.Options{Stopwords: stop, MinLength: 3})

	want := map[string]int{"great": 3, "product": 1, "team": 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("frequencies mismatch (-want +got):\n%s", diff)
	}
}

func TestFrequencies_MinLengthRunes(t *testing.T) {
	// Length is measured in runes, so a two-rune CJK token is dropped at the
	// default threshold just like a two-letter ASCII one.
	got := textstats.Frequencies([]string{"ai 跨境 marketplace"}, textstats.Options{})
	want := map[string]int{"marketplace": 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("frequencies mismatch (-want +got):\n%s", diff)
	}
}

func TestFrequencies_StopwordsBeforeLength(t *testing.T) {
	// A long stopword is removed by the stopword filter, not saved by its
	// length.
	stop := map[string]struct{}{"because": {}}
	got := textstats.Frequencies([]string{"because logistics"}, textstats.Options{Stopwords: stop})
	want := map[string]int{"logistics": 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("frequencies mismatch (-want +got):\n%s", diff)
	}
}

func TestFrequencies_Stemming(t *testing.T) {
	texts := []string{"manufacturing", "manufacturer manufacturers"}

	plain := textstats.Frequencies(texts, textstats.Options{})
	if len(plain) != 3 {
		t.Fatalf("without stemming got %v, want 3 distinct tokens", plain)
	}

	stemmed := textstats.Frequencies(texts, textstats.Options{Stem: true})
	total := 0
	for tok, n := range stemmed {
		total += n
		if tok != strings.ToLower(tok) {
			t.Fatalf("stemmed token %q is not lowercase", tok)
		}
	}
	if total != 3 {
		t.Fatalf("stemming changed the token total: got %v", stemmed)
	}
	if len(stemmed) >= 3 {
		t.Fatalf("stemming did not fold inflections: got %v", stemmed)
	}
}

func TestFrequencies_EmptyInput(t *testing.T) {
	got := textstats.Frequencies(nil, textstats.Options{})
	if got == nil {
		t.Fatalf("Frequencies(nil) returned a nil map")
	}
	if len(got) != 0 {
		t.Fatalf("Frequencies(nil) = %v, want empty", got)
	}
}

func TestDefaultStopwords(t *testing.T) {
	stop := textstats.DefaultStopwords()
	for _, w := range []string{"the", "and", "is", "of"} {
		if _, ok := stop[w]; !ok {
			t.Fatalf("default stopwords missing %q", w)
		}
	}

	merged := textstats.MergeStopwords(stop, []string{"alibaba", "The"})
	if _, ok := merged["alibaba"]; !ok {
		t.Fatalf("merged stopwords missing extra word")
	}
	if _, ok := merged["the"]; !ok {
		t.Fatalf("merging lost a base word")
	}
}

func BenchmarkFrequencies(b *testing.B) {
	texts := make([]string, 500)
	for i := range texts {
		texts[i] = "we build a cross border logistics marketplace for small manufacturers in southeast asia"
	}
	stop := textstats.DefaultStopwords()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		textstats.Frequencies(texts, textstats.Options{Stopwords: stop})
	}
}
