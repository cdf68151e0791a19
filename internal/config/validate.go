// This file adds a lightweight linter for Config values. It performs static
// checks over a decoded Config and returns a list of issues (errors and
// warnings) that callers can surface in the CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block startup.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding worth surfacing that does not block
	// startup.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into the
// config (e.g. "dataset.path", "derivations[1].kind").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error where needed.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// knownDerivationKinds are the mapping implementations the normalizer can
// build.
var knownDerivationKinds = map[string]struct{}{
	"response_status": {},
	"account_status":  {},
}

// Validate performs static validation of a Config without mutating it.
// Callers decide whether warnings are fatal.
func Validate(c *Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.Dataset.Path) == "" && strings.TrimSpace(c.Dataset.URL) == "" {
		issues = append(issues, Issue{SeverityError, "dataset", "one of dataset.path or dataset.url must be set"})
	}
	if strings.TrimSpace(c.Dataset.Path) != "" && strings.TrimSpace(c.Dataset.URL) != "" {
		issues = append(issues, Issue{SeverityWarning, "dataset.url", "both path and url are set; url takes precedence"})
	}
	if len([]rune(c.Dataset.Delimiter)) > 1 {
		issues = append(issues, Issue{SeverityWarning, "dataset.delimiter", "delimiter longer than one character; only the first is used"})
	}

	seenTargets := make(map[string]int)
	for i, r := range c.Renames {
		path := fmt.Sprintf("renames[%d]", i)
		if r.Source == "" {
			issues = append(issues, Issue{SeverityError, path + ".source", "rename source must not be empty"})
		}
		if r.Target == "" {
			issues = append(issues, Issue{SeverityError, path + ".target", "rename target must not be empty"})
		}
	}

	for i, d := range c.Derivations {
		path := fmt.Sprintf("derivations[%d]", i)
		if _, ok := knownDerivationKinds[d.Kind]; !ok {
			issues = append(issues, Issue{SeverityError, path + ".kind", fmt.Sprintf("unknown derivation kind %q", d.Kind)})
		}
		if d.Source == "" {
			issues = append(issues, Issue{SeverityError, path + ".source", "derivation source must not be empty"})
		}
		if d.Target == "" {
			issues = append(issues, Issue{SeverityError, path + ".target", "derivation target must not be empty"})
		}
		if prev, dup := seenTargets[d.Target]; dup {
			issues = append(issues, Issue{SeverityError, path + ".target",
				fmt.Sprintf("target %q already produced by derivations[%d]", d.Target, prev)})
		} else if d.Target != "" {
			seenTargets[d.Target] = i
		}
	}

	if c.TopN < 0 {
		issues = append(issues, Issue{SeverityError, "top_n", "top_n must not be negative"})
	}
	if c.Text.MinTokenLength < 0 {
		issues = append(issues, Issue{SeverityError, "text.min_token_length", "min_token_length must not be negative"})
	}
	if len(c.KeyCountries) == 0 {
		issues = append(issues, Issue{SeverityWarning, "key_countries", "key_countries is empty; the key-country summary will always be empty"})
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		issues = append(issues, Issue{SeverityError, "server.addr", "server.addr must not be empty"})
	}

	return issues
}
