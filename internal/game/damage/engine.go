// Package damage computes the damage range of a single attack from a
// battle.Configuration.
package damage

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/damagecalc/internal/game/battle"
	"github.com/cory-johannsen/damagecalc/internal/game/modifier"
	"github.com/cory-johannsen/damagecalc/internal/game/move"
	"github.com/cory-johannsen/damagecalc/internal/game/stats"
)

const (
	stabMultiplier     = 1.5
	statusAttackBoost  = 1.5
	burnAttackPenalty  = 0.5
	fullHPHalving      = 0.5
	minRollMultiplier  = 0.85
	rawPowerMultiplier = 2
	halvingDefenseMult = 2
)

// Options tunes the optional rules of the pipeline.
type Options struct {
	// FullHPHalving enables the ×0.5 final multiplier for defenders whose
	// ability halves damage at full HP.
	FullHPHalving bool
}

// DefaultOptions enables every optional rule.
func DefaultOptions() Options {
	return Options{FullHPHalving: true}
}

// Engine computes damage. An Engine holds only read-only tables and is safe
// for concurrent use; Compute keeps no state between calls.
type Engine struct {
	catalog *modifier.Catalog
	power   *move.Rules
	rules   battle.Rules
	opts    Options
	logger  *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: catalog, power, and logger must be non-nil.
func NewEngine(catalog *modifier.Catalog, power *move.Rules, rules battle.Rules, opts Options, logger *zap.Logger) *Engine {
	return &Engine{
		catalog: catalog,
		power:   power,
		rules:   rules,
		opts:    opts,
		logger:  logger,
	}
}

// Catalog returns the engine's modifier catalog.
func (e *Engine) Catalog() *modifier.Catalog { return e.catalog }

// Rules returns the structural rules the engine validates against.
func (e *Engine) Rules() battle.Rules { return e.rules }

// Compute runs the damage pipeline on cfg.
//
// The order of steps and the floor after each multiplication are fixed;
// reordering them changes results at the margins.
//
// Precondition: cfg must satisfy e.Rules().Validate.
// Postcondition: Returns a status Result when the resolved power is 0;
// otherwise 0 <= MinDamage <= MaxDamage. Identical cfg yields identical Result.
func (e *Engine) Compute(cfg battle.Configuration) (Result, error) {
	if err := e.rules.Validate(cfg); err != nil {
		return Result{}, err
	}
	cfg = cfg.Normalize()
	atk := cfg.Attacker.Combatant
	def := cfg.Defender.Combatant
	class := cfg.Move.Class
	statusItem := e.catalog.IsStatusItem(atk.Item)

	// 1. Effective base power.
	power := e.power.Resolve(cfg.Move, move.Context{Friendship: cfg.Friendship, HoldsStatusItem: statusItem})
	if power == 0 || class == move.Status {
		e.logger.Debug("status move",
			zap.String("move", cfg.Move.Name),
		)
		return Result{Status: true, AppliedModifiers: []string{}}, nil
	}

	// 2. Final stats.
	atkStats := stats.DeriveAll(atk.Base, cfg.Attacker.Spread, cfg.Level)
	defSpread := cfg.Defender.Spread
	if cfg.Defender.Policy == battle.PolicyMaxBulk {
		defSpread = stats.MaxBulk()
	}
	defStats := stats.DeriveAll(def.Base, defSpread, cfg.Level)

	// 3. Offense/defense pair.
	physical := class == move.Physical
	a, d := atkStats.Get(stats.SpecialAttack), defStats.Get(stats.SpecialDefense)
	if physical {
		a, d = atkStats.Get(stats.Attack), defStats.Get(stats.Defense)
	}
	if d == 0 {
		d = 1
	}

	applied := make([]string, 0, 4)

	// 4. Stat modifiers.
	if physical && atk.Attacker == modifier.DoublesRawPower {
		a *= rawPowerMultiplier
		applied = append(applied, e.abilityName(atk.Ability))
	}
	if def.Defender.DoublesDefenseAgainst(class) {
		d *= halvingDefenseMult
		applied = append(applied, e.abilityName(def.Ability))
	}
	if physical && statusItem && atk.Attacker == modifier.EmpoweredByStatus {
		a = scale(a, statusAttackBoost)
		applied = append(applied, e.abilityName(atk.Ability))
	}
	if physical && e.catalog.IsBurnItem(atk.Item) && atk.Attacker != modifier.EmpoweredByStatus && !e.ignoresBurn(cfg.Move) {
		a = scale(a, burnAttackPenalty)
		applied = append(applied, "Burn")
	}
	if m, ok := e.catalog.ChoiceBoost(atk.Item, class); ok {
		a = scale(a, m)
		applied = append(applied, e.itemName(atk.Item))
	}

	// 5. Base damage.
	dmg := BaseDamage(cfg.Level, power, a, d)

	// 6. Final multipliers.
	if atk.HasType(cfg.Move.Type) {
		dmg = scale(dmg, stabMultiplier)
		applied = append(applied, "STAB")
	}
	if m, ok := e.catalog.TypeBoost(atk.Item, cfg.Move.Type); ok {
		dmg = scale(dmg, m)
		applied = append(applied, e.itemName(atk.Item))
	}
	if m, ok := e.catalog.FlatBoost(atk.Item); ok {
		dmg = scale(dmg, m)
		applied = append(applied, e.itemName(atk.Item))
	}
	hp := defStats.Get(stats.HP)
	if e.opts.FullHPHalving && def.Defender == modifier.HalvesWhenFullHP && hp > 0 {
		dmg = scale(dmg, fullHPHalving)
		applied = append(applied, e.abilityName(def.Ability))
	}

	// 7. Range.
	res := Result{
		Power:            power,
		Attack:           a,
		Defense:          d,
		DefenderHP:       hp,
		MinDamage:        scale(dmg, minRollMultiplier),
		MaxDamage:        dmg,
		Rolls:            rollsFor(dmg),
		AppliedModifiers: applied,
	}

	// 8. Derived metrics.
	res.MinPercent = percentOf(res.MinDamage, hp)
	res.MaxPercent = percentOf(res.MaxDamage, hp)
	if res.MinDamage > 0 {
		res.MinHits = hitsFor(hp, res.MaxDamage)
		res.MaxHits = hitsFor(hp, res.MinDamage)
	}

	e.logger.Debug("damage computed",
		zap.String("move", cfg.Move.Name),
		zap.Int("power", power),
		zap.Int("attack", a),
		zap.Int("defense", d),
		zap.Int("min", res.MinDamage),
		zap.Int("max", res.MaxDamage),
		zap.Strings("modifiers", applied),
	)
	return res, nil
}

// BaseDamage evaluates floor(floor(floor(2*level/5+2) * power * a / d) / 50) + 2
// with integer division at each step.
//
// Precondition: level, power, a >= 0; d > 0.
func BaseDamage(level, power, a, d int) int {
	return ((2*level/5+2)*power*a/d)/50 + 2
}

// ignoresBurn reports whether m's power rule already accounts for a status
// condition, which exempts it from the burn attack penalty.
func (e *Engine) ignoresBurn(m move.Move) bool {
	rule, ok := e.power.Rule(m.Name)
	return ok && rule.Kind == move.RuleStatusBoosted
}

func (e *Engine) abilityName(id string) string {
	if d, ok := e.catalog.Ability(id); ok && d.Name != "" {
		return d.Name
	}
	return modifier.DisplayName(id)
}

func (e *Engine) itemName(id string) string {
	if d, ok := e.catalog.Item(id); ok && d.Name != "" {
		return d.Name
	}
	return modifier.DisplayName(id)
}

// scale multiplies v by m and floors the product.
func scale(v int, m float64) int {
	return int(math.Floor(float64(v) * m))
}
