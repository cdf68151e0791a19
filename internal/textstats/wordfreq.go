// Package textstats extracts word-frequency tables from the free-text survey
// answers (solution description, business story, problem statement) for the
// word-cloud sections. The output is an unordered token→count mapping;
// consumers that need ranked output sort it with the aggregate package's
// descending-count convention.
package textstats

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// wordRe matches maximal runs of word characters: letters, digits, and
// underscore, across scripts.
var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// lower is a locale-independent lowercaser; answers arrive in several
// languages and ASCII-only lowering would miss non-ASCII letters.
var lower = cases.Lower(language.Und)

// Options configures frequency extraction.
type Options struct {
	// Stopwords are dropped after lowercasing. Nil means no stopword filter;
	// callers normally pass DefaultStopwords extended from config.
	Stopwords map[string]struct{}

	// MinLength is the minimum token length in runes, inclusive. Zero applies
	// the default of 3 (tokens of length <= 2 are dropped).
	MinLength int

	// Stem reduces surviving tokens to their snowball stem before counting,
	// folding inflections like "manufacturing"/"manufacturer". Off by
	// default; it changes the rendered words, so it is an explicit opt-in.
	Stem bool
}

// Frequencies tokenizes the given free-text values and tallies the surviving
// tokens. The inputs are joined with a separating space, lowercased, split on
// word boundaries, then filtered by the stopword set and minimum length.
// Empty input, or input whose tokens are all filtered away, yields an empty
// (non-nil) map; "the column was missing entirely" is the caller's
// distinction to make, before calling here.
func Frequencies(texts []string, opt Options) map[string]int {
	minLen := opt.MinLength
	if minLen == 0 {
		minLen = 3
	}
	freq := make(map[string]int)
	joined := lower.String(strings.Join(texts, " "))
	for _, tok := range wordRe.FindAllString(joined, -1) {
		if _, stop := opt.Stopwords[tok]; stop {
			continue
		}
		if len([]rune(tok)) < minLen {
			continue
		}
		if opt.Stem {
			if stemmed, err := snowball.Stem(tok, "english", true); err == nil {
				tok = stemmed
			}
		}
		freq[tok]++
	}
	return freq
}
