package move

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleKind selects how a power rule computes power.
type RuleKind string

const (
	// RuleConstant replaces the listed power with Rule.Power.
	RuleConstant RuleKind = "constant"
	// RuleStatusBoosted uses Rule.Power while the attacker holds a status-inducing item.
	RuleStatusBoosted RuleKind = "status_boosted"
	// RuleFriendship scales with friendship: max(1, floor(friendship / 2.5)).
	RuleFriendship RuleKind = "friendship"
	// RuleFriendshipInverse scales inversely: max(1, floor((255 - friendship) / 2.5)).
	RuleFriendshipInverse RuleKind = "friendship_inverse"
	// RuleScript delegates to a Lua hook named by Rule.Hook.
	RuleScript RuleKind = "script"
)

// MaxFriendship is the largest friendship value.
const MaxFriendship = 255

// Rule is one entry of the power-rule table.
type Rule struct {
	Move  string   `yaml:"move"`
	Kind  RuleKind `yaml:"kind"`
	Power int      `yaml:"power,omitempty"`
	Hook  string   `yaml:"hook,omitempty"`
}

func (r Rule) validate() error {
	if r.Move == "" {
		return fmt.Errorf("power rule missing move")
	}
	switch r.Kind {
	case RuleConstant, RuleStatusBoosted:
		if r.Power < 0 {
			return fmt.Errorf("power rule %q: power must be >= 0, got %d", r.Move, r.Power)
		}
	case RuleFriendship, RuleFriendshipInverse:
	case RuleScript:
		if r.Hook == "" {
			return fmt.Errorf("power rule %q: script rule requires hook", r.Move)
		}
	default:
		return fmt.Errorf("power rule %q: unknown kind %q", r.Move, r.Kind)
	}
	return nil
}

// ScriptCaller evaluates scripted power hooks.
type ScriptCaller interface {
	// Power calls hook and reports ok=false when the hook is missing or fails.
	Power(hook string, listed, friendship int, holdsStatusItem bool) (power int, ok bool)
}

// Rules is the closed table mapping move names to power rules.
// A Rules value is read-only after construction.
type Rules struct {
	byMove  map[string]Rule
	scripts ScriptCaller
}

// DefaultRules returns the built-in table: facade, return, and frustration.
func DefaultRules() *Rules {
	r, err := NewRules([]Rule{
		{Move: "facade", Kind: RuleStatusBoosted, Power: 140},
		{Move: "return", Kind: RuleFriendship},
		{Move: "frustration", Kind: RuleFriendshipInverse},
	})
	if err != nil {
		panic("move: DefaultRules: " + err.Error())
	}
	return r
}

// NewRules builds a table from rules.
//
// Postcondition: Returns an error if any rule is invalid or a move appears twice.
func NewRules(rules []Rule) (*Rules, error) {
	out := &Rules{byMove: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		r.Move = strings.ToLower(r.Move)
		if err := r.validate(); err != nil {
			return nil, err
		}
		if _, dup := out.byMove[r.Move]; dup {
			return nil, fmt.Errorf("duplicate power rule for move %q", r.Move)
		}
		out.byMove[r.Move] = r
	}
	return out, nil
}

// WithScripts returns a copy of r that evaluates RuleScript entries with sc.
func (r *Rules) WithScripts(sc ScriptCaller) *Rules {
	return &Rules{byMove: r.byMove, scripts: sc}
}

// Rule returns the rule registered for name.
func (r *Rules) Rule(name string) (Rule, bool) {
	rule, ok := r.byMove[strings.ToLower(name)]
	return rule, ok
}

// Len returns the number of rules.
func (r *Rules) Len() int { return len(r.byMove) }

// Resolve returns the effective base power of m.
//
// Moves without a rule keep their listed power. A scripted rule with no
// ScriptCaller, or whose hook fails, also keeps the listed power.
//
// Postcondition: Returns >= 0. Friendship rules return >= 1.
func (r *Rules) Resolve(m Move, ctx Context) int {
	rule, ok := r.Rule(m.Name)
	if !ok {
		return max(m.Power, 0)
	}
	friendship := min(max(ctx.Friendship, 0), MaxFriendship)
	switch rule.Kind {
	case RuleConstant:
		return rule.Power
	case RuleStatusBoosted:
		if ctx.HoldsStatusItem {
			return rule.Power
		}
		return max(m.Power, 0)
	case RuleFriendship:
		// floor(f / 2.5) == floor(2f / 5)
		return max(1, friendship*2/5)
	case RuleFriendshipInverse:
		return max(1, (MaxFriendship-friendship)*2/5)
	case RuleScript:
		if r.scripts != nil {
			if p, ok := r.scripts.Power(rule.Hook, m.Power, friendship, ctx.HoldsStatusItem); ok {
				return max(p, 0)
			}
		}
		return max(m.Power, 0)
	default:
		return max(m.Power, 0)
	}
}

type rulesFile struct {
	Rules []Rule `yaml:"power_rules"`
}

// LoadRules reads a YAML file with a top-level power_rules list and returns
// DefaultRules extended by, and overridden with, the file's entries.
//
// Precondition: path must be a readable YAML file.
// Postcondition: Returns a non-nil Rules or an error describing the first invalid entry.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading power rules %q: %w", path, err)
	}
	var f rulesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing power rules %q: %w", path, err)
	}
	extra, err := NewRules(f.Rules)
	if err != nil {
		return nil, fmt.Errorf("power rules %q: %w", path, err)
	}
	merged := DefaultRules()
	for name, rule := range extra.byMove {
		merged.byMove[name] = rule
	}
	return merged, nil
}
