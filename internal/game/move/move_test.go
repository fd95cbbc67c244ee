package move_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/damagecalc/internal/game/move"
)

func TestParseClass(t *testing.T) {
	tests := []struct {
		in   string
		want move.Class
	}{
		{"physical", move.Physical},
		{"Special", move.Special},
		{" status ", move.Status},
	}
	for _, tc := range tests {
		got, err := move.ParseClass(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
	_, err := move.ParseClass("psychic")
	assert.Error(t, err)
}

func TestClass_TextRoundTrip(t *testing.T) {
	var c move.Class
	require.NoError(t, c.UnmarshalText([]byte("special")))
	b, err := c.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "special", string(b))
}

func TestResolve_ListedPowerWithoutRule(t *testing.T) {
	rules := move.DefaultRules()
	m := move.Move{Name: "tackle", Power: 40, Type: "normal", Class: move.Physical}
	assert.Equal(t, 40, rules.Resolve(m, move.Context{}))
}

func TestResolve_Facade(t *testing.T) {
	rules := move.DefaultRules()
	m := move.Move{Name: "facade", Power: 70, Type: "normal", Class: move.Physical}
	assert.Equal(t, 70, rules.Resolve(m, move.Context{}))
	assert.Equal(t, 140, rules.Resolve(m, move.Context{HoldsStatusItem: true}))
}

func TestResolve_Friendship(t *testing.T) {
	rules := move.DefaultRules()
	ret := move.Move{Name: "return", Type: "normal", Class: move.Physical}
	frus := move.Move{Name: "frustration", Type: "normal", Class: move.Physical}

	assert.Equal(t, 102, rules.Resolve(ret, move.Context{Friendship: 255}))
	assert.Equal(t, 1, rules.Resolve(frus, move.Context{Friendship: 255}))
	assert.Equal(t, 1, rules.Resolve(ret, move.Context{Friendship: 0}))
	assert.Equal(t, 102, rules.Resolve(frus, move.Context{Friendship: 0}))
	assert.Equal(t, 40, rules.Resolve(ret, move.Context{Friendship: 100}))
}

func TestResolve_Property_FriendshipPowerAtLeastOne(t *testing.T) {
	rules := move.DefaultRules()
	rapid.Check(t, func(rt *rapid.T) {
		f := rapid.IntRange(-50, 400).Draw(rt, "friendship")
		name := rapid.SampledFrom([]string{"return", "frustration"}).Draw(rt, "move")
		p := rules.Resolve(move.Move{Name: name, Class: move.Physical}, move.Context{Friendship: f})
		assert.GreaterOrEqual(rt, p, 1)
		assert.LessOrEqual(rt, p, 102)
	})
}

type stubScripts struct {
	power int
	ok    bool
	calls []string
}

func (s *stubScripts) Power(hook string, listed, friendship int, holdsStatusItem bool) (int, bool) {
	s.calls = append(s.calls, hook)
	return s.power, s.ok
}

func TestResolve_Script(t *testing.T) {
	rules, err := move.NewRules([]move.Rule{{Move: "acrobatics", Kind: move.RuleScript, Hook: "acrobatics_power"}})
	require.NoError(t, err)
	m := move.Move{Name: "acrobatics", Power: 55, Type: "flying", Class: move.Physical}

	// Without a caller, the listed power stands.
	assert.Equal(t, 55, rules.Resolve(m, move.Context{}))

	sc := &stubScripts{power: 110, ok: true}
	assert.Equal(t, 110, rules.WithScripts(sc).Resolve(m, move.Context{}))
	assert.Equal(t, []string{"acrobatics_power"}, sc.calls)

	failing := &stubScripts{ok: false}
	assert.Equal(t, 55, rules.WithScripts(failing).Resolve(m, move.Context{}))
}

func TestNewRules_Rejects(t *testing.T) {
	_, err := move.NewRules([]move.Rule{{Move: "x", Kind: "weird"}})
	assert.Error(t, err)
	_, err = move.NewRules([]move.Rule{{Move: "x", Kind: move.RuleScript}})
	assert.Error(t, err)
	_, err = move.NewRules([]move.Rule{{Move: "x", Kind: move.RuleFriendship}, {Move: "X", Kind: move.RuleFriendship}})
	assert.Error(t, err)
}

func TestLoadRules_MergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "power_rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
power_rules:
  - move: facade
    kind: status_boosted
    power: 150
  - move: dragon-rage
    kind: constant
    power: 40
`), 0644))

	rules, err := move.LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 4, rules.Len())
	assert.Equal(t, 150, rules.Resolve(move.Move{Name: "facade", Power: 70}, move.Context{HoldsStatusItem: true}))
	assert.Equal(t, 40, rules.Resolve(move.Move{Name: "dragon-rage"}, move.Context{}))
	assert.Equal(t, 102, rules.Resolve(move.Move{Name: "return"}, move.Context{Friendship: 255}))
}

func TestLoadRules_UnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("power_rules:\n  - move: x\n    kind: constant\n    bogus: 1\n"), 0644))
	_, err := move.LoadRules(path)
	assert.Error(t, err)
}
