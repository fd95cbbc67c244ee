package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/damagecalc/internal/game/stats"
)

func TestDerive_NeutralBase100(t *testing.T) {
	// floor(200*100/100) + 5 = 205
	assert.Equal(t, 205, stats.Derive(100, 0, 0, 100, 1.0, false))
}

func TestDerive_MaxInvestedAttack(t *testing.T) {
	// floor((200+31+63)*100/100)+5 = 299; floor(299*1.1) = 328
	assert.Equal(t, 328, stats.Derive(100, 31, 252, 100, 1.1, false))
}

func TestDerive_HP(t *testing.T) {
	tests := []struct {
		base, iv, ev, level, want int
	}{
		{100, 31, 252, 100, 404}, // 294 + 100 + 10
		{100, 0, 0, 100, 310},
		{100, 31, 252, 50, 207}, // floor(294*50/100)=147 + 60
		{255, 31, 252, 100, 714},
	}
	for _, tc := range tests {
		got := stats.Derive(tc.base, tc.iv, tc.ev, tc.level, 1.0, true)
		assert.Equal(t, tc.want, got, "base=%d iv=%d ev=%d level=%d", tc.base, tc.iv, tc.ev, tc.level)
	}
}

func TestDerive_HPIgnoresNature(t *testing.T) {
	assert.Equal(t,
		stats.Derive(80, 31, 252, 100, 1.0, true),
		stats.Derive(80, 31, 252, 100, 1.1, true))
}

func TestDerive_ZeroBaseIsZero(t *testing.T) {
	assert.Equal(t, 0, stats.Derive(0, 31, 252, 100, 1.1, false))
	assert.Equal(t, 0, stats.Derive(0, 31, 252, 100, 1.0, true))
}

func TestDerive_ClampsOutOfRangeInput(t *testing.T) {
	assert.Equal(t, stats.Derive(100, 31, 252, 100, 1.0, false), stats.Derive(100, 31, 300, 100, 1.0, false))
	assert.Equal(t, stats.Derive(100, 31, 0, 100, 1.0, false), stats.Derive(100, 31, -5, 100, 1.0, false))
	assert.Equal(t, stats.Derive(100, 31, 0, 100, 1.0, false), stats.Derive(100, 99, 0, 100, 1.0, false))
}

func TestClampEV(t *testing.T) {
	assert.Equal(t, 252, stats.ClampEV(300))
	assert.Equal(t, 0, stats.ClampEV(-5))
	assert.Equal(t, 128, stats.ClampEV(128))
}

func TestClampIV(t *testing.T) {
	assert.Equal(t, 31, stats.ClampIV(32))
	assert.Equal(t, 0, stats.ClampIV(-1))
}

func TestDerive_Property_BaseOneHPIsAlwaysOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		iv := rapid.IntRange(-10, 40).Draw(rt, "iv")
		ev := rapid.IntRange(-10, 400).Draw(rt, "ev")
		level := rapid.IntRange(1, 100).Draw(rt, "level")
		nature := rapid.SampledFrom([]float64{0.9, 1.0, 1.1}).Draw(rt, "nature")
		assert.Equal(rt, 1, stats.Derive(1, iv, ev, level, nature, true))
	})
}

func TestDerive_Property_NonDecreasingInInputs(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.IntRange(2, 255).Draw(rt, "base")
		iv := rapid.IntRange(0, 30).Draw(rt, "iv")
		ev := rapid.IntRange(0, 251).Draw(rt, "ev")
		level := rapid.IntRange(1, 99).Draw(rt, "level")
		nature := rapid.SampledFrom([]float64{0.9, 1.0, 1.1}).Draw(rt, "nature")
		isHP := rapid.Bool().Draw(rt, "is_hp")

		got := stats.Derive(base, iv, ev, level, nature, isHP)
		assert.GreaterOrEqual(rt, stats.Derive(base, iv+1, ev, level, nature, isHP), got, "iv")
		assert.GreaterOrEqual(rt, stats.Derive(base, iv, ev+1, level, nature, isHP), got, "ev")
		assert.GreaterOrEqual(rt, stats.Derive(base, iv, ev, level+1, nature, isHP), got, "level")
	})
}

func TestDerive_Property_Deterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.IntRange(0, 255).Draw(rt, "base")
		iv := rapid.IntRange(0, 31).Draw(rt, "iv")
		ev := rapid.IntRange(0, 252).Draw(rt, "ev")
		level := rapid.SampledFrom([]int{50, 100}).Draw(rt, "level")
		assert.Equal(rt,
			stats.Derive(base, iv, ev, level, 1.1, false),
			stats.Derive(base, iv, ev, level, 1.1, false))
	})
}

func TestDeriveAll_MaxBulk(t *testing.T) {
	base := stats.Base{100, 100, 100, 100, 100, 100}
	got := stats.DeriveAll(base, stats.MaxBulk(), 100)
	assert.Equal(t, 404, got.Get(stats.HP))
	assert.Equal(t, 299, got.Get(stats.Attack))
	assert.Equal(t, 328, got.Get(stats.Defense))
	assert.Equal(t, 299, got.Get(stats.SpecialAttack))
	assert.Equal(t, 328, got.Get(stats.SpecialDefense))
	assert.Equal(t, 299, got.Get(stats.Speed))
}

func TestDeriveAll_UnsetNatureIsNeutral(t *testing.T) {
	base := stats.Base{100, 100, 100, 100, 100, 100}
	var spread stats.Spread
	got := stats.DeriveAll(base, spread, 100)
	assert.Equal(t, 205, got.Get(stats.Attack))
}

func TestParseKey(t *testing.T) {
	for _, k := range stats.Keys {
		got, ok := stats.ParseKey(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	_, ok := stats.ParseKey("luck")
	assert.False(t, ok)
}

func TestLookupNature(t *testing.T) {
	n, ok := stats.LookupNature("Adamant")
	require.True(t, ok)
	assert.Equal(t, 1.1, n.Multiplier(stats.Attack))
	assert.Equal(t, 0.9, n.Multiplier(stats.SpecialAttack))
	assert.Equal(t, 1.0, n.Multiplier(stats.HP))
	assert.Equal(t, 1.0, n.Multiplier(stats.Speed))

	hardy, ok := stats.LookupNature("hardy")
	require.True(t, ok)
	for _, k := range stats.Keys {
		assert.Equal(t, 1.0, hardy.Multiplier(k), k.String())
	}

	_, ok = stats.LookupNature("grumpy")
	assert.False(t, ok)
}

func TestNatures_AllTwentyFive(t *testing.T) {
	all := stats.Natures()
	assert.Len(t, all, 25)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}
}

func TestNature_Apply(t *testing.T) {
	n, _ := stats.LookupNature("modest")
	s := n.Apply(stats.NeutralSpread())
	assert.Equal(t, 1.1, s[stats.SpecialAttack].Nature)
	assert.Equal(t, 0.9, s[stats.Attack].Nature)
	assert.Equal(t, 1.0, s[stats.HP].Nature)
}
