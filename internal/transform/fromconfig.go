package transform

import (
	"fmt"

	"pitchboard/internal/config"
	"pitchboard/internal/transform/builtin"
)

// FromConfig assembles the normalization chain declared by the dashboard
// config: cell cleanup, then renames, then derivations. Unknown derivation
// kinds are an error here rather than at render time; config.Validate reports
// the same condition with a path.
func FromConfig(cfg *config.Config) (Chain, error) {
	chain := Chain{builtin.TrimSpace{}}

	rules := make([]builtin.RenameRule, len(cfg.Renames))
	for i, r := range cfg.Renames {
		rules[i] = builtin.RenameRule{Source: r.Source, Target: r.Target}
	}
	chain = append(chain, builtin.Rename{Rules: rules})

	for _, d := range cfg.Derivations {
		switch d.Kind {
		case "response_status":
			chain = append(chain, builtin.ResponseStatus(d.Source, d.Target))
		case "account_status":
			chain = append(chain, builtin.AccountStatus(d.Source, d.Target))
		default:
			return nil, fmt.Errorf("unknown derivation kind %q", d.Kind)
		}
	}
	return chain, nil
}
