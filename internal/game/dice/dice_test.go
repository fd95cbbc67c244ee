package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/damagecalc/internal/game/dice"
)

type fixedSource struct{ v int }

func (f fixedSource) Intn(n int) int { return f.v % n }

var rolls = []int{44, 44, 45, 45, 46, 46, 47, 47, 48, 48, 49, 49, 50, 50, 51, 52}

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Percent: 93, Damage: 48}
	assert.Equal(t, "93% → 48", r.String())
}

func TestSample_Fixed(t *testing.T) {
	got, err := dice.Sample(rolls, fixedSource{v: 0})
	require.NoError(t, err)
	assert.Equal(t, dice.RollResult{Percent: 85, Damage: 44}, got)

	got, err = dice.Sample(rolls, fixedSource{v: 15})
	require.NoError(t, err)
	assert.Equal(t, dice.RollResult{Percent: 100, Damage: 52}, got)
}

func TestSample_Empty(t *testing.T) {
	_, err := dice.Sample(nil, fixedSource{})
	assert.ErrorIs(t, err, dice.ErrNoRolls)
}

func TestSample_Property_DamageMatchesPercent(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		vec := rapid.SliceOfN(rapid.IntRange(0, 1000), 1, 16).Draw(rt, "rolls")
		got, err := dice.Sample(vec, src)
		require.NoError(rt, err)
		idx := got.Percent - dice.LowestPercent
		require.GreaterOrEqual(rt, idx, 0)
		require.Less(rt, idx, len(vec))
		assert.Equal(rt, vec[idx], got.Damage)
	})
}

func TestSeededSource_Deterministic(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Intn(16), b.Intn(16))
	}
}

func TestSources_PanicOnNonPositive(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(-1) })
}

func TestLoggedRoller_Sample(t *testing.T) {
	r := dice.NewLoggedRoller(fixedSource{v: 8}, zap.NewNop())
	got, err := r.Sample(rolls)
	require.NoError(t, err)
	assert.Equal(t, 93, got.Percent)
	assert.Equal(t, 48, got.Damage)

	_, err = r.Sample(nil)
	assert.Error(t, err)
}
