// Package testutil provides test helpers: battle fixtures, a fake PokeAPI
// server, and a websocket test client.
package testutil

import (
	"github.com/cory-johannsen/damagecalc/internal/game/battle"
	"github.com/cory-johannsen/damagecalc/internal/game/modifier"
	"github.com/cory-johannsen/damagecalc/internal/game/move"
	"github.com/cory-johannsen/damagecalc/internal/game/stats"
)

// FlatBase returns a base-stat block with every stat set to v.
func FlatBase(v int) stats.Base {
	return stats.Base{v, v, v, v, v, v}
}

// MaxedSpread returns IV 31 / EV 252 on every stat with a 1.1 nature on boosted.
func MaxedSpread(boosted stats.Key) stats.Spread {
	var s stats.Spread
	for _, k := range stats.Keys {
		s[k] = stats.Config{IV: stats.MaxIV, EV: stats.MaxEV, Nature: 1.0}
	}
	if boosted != stats.HP {
		s[boosted].Nature = 1.1
	}
	return s
}

// Attacker returns a base-100 combatant of the given types with maxed attack
// and special attack (1.1 nature on the stat matching class).
func Attacker(catalog *modifier.Catalog, class move.Class, types []string, ability, item string) battle.Side {
	boosted := stats.Attack
	if class == move.Special {
		boosted = stats.SpecialAttack
	}
	return battle.Side{
		Combatant: battle.NewCombatant(catalog, "attacker", FlatBase(100), types, ability, item),
		Spread:    MaxedSpread(boosted),
	}
}

// BossDefender returns a base-100 defender using the max-bulk policy.
func BossDefender(catalog *modifier.Catalog, ability string) battle.Side {
	return battle.Side{
		Combatant: battle.NewCombatant(catalog, "boss", FlatBase(100), []string{"psychic"}, ability, ""),
		Spread:    stats.NeutralSpread(),
		Policy:    battle.PolicyMaxBulk,
	}
}

// Tackle is a 40-power physical normal move.
func Tackle() move.Move {
	return move.Move{Name: "tackle", Power: 40, Type: "normal", Class: move.Physical}
}

// Scenario is the reference calculation: a base-100 normal attacker with
// maxed attack uses a 40-power normal physical move on a base-100 max-bulk
// defender at level 100. Result: 44-52 damage.
func Scenario(catalog *modifier.Catalog) battle.Configuration {
	return battle.Configuration{
		Attacker:   Attacker(catalog, move.Physical, []string{"normal"}, "", ""),
		Defender:   BossDefender(catalog, ""),
		Move:       Tackle(),
		Level:      100,
		Friendship: 255,
	}
}
