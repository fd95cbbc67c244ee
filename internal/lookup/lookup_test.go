package lookup_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/damagecalc/internal/game/move"
	"github.com/cory-johannsen/damagecalc/internal/game/stats"
	"github.com/cory-johannsen/damagecalc/internal/lookup"
	"github.com/cory-johannsen/damagecalc/internal/testutil"
)

func newPokeAPI(t *testing.T) (*lookup.PokeAPI, *testutil.FakePokeAPI) {
	t.Helper()
	fake := testutil.NewFakePokeAPI(t)
	return lookup.NewPokeAPI(fake.URL+"/", 5*time.Second, zap.NewNop()), fake
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "choice-band", lookup.NormalizeName("  Choice Band "))
	assert.Equal(t, "garchomp", lookup.NormalizeName("GARCHOMP"))
	assert.Equal(t, "", lookup.NormalizeName("   "))
}

func TestNormalizeName_Idempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.String().Draw(rt, "s")
		once := lookup.NormalizeName(s)
		assert.Equal(rt, once, lookup.NormalizeName(once))
	})
}

func TestPokeAPI_Creature(t *testing.T) {
	api, _ := newPokeAPI(t)
	rec, err := api.Creature(context.Background(), "Garchomp")
	require.NoError(t, err)

	assert.Equal(t, "garchomp", rec.Name)
	assert.Equal(t, stats.Base{108, 130, 95, 80, 85, 102}, rec.Base)
	assert.Equal(t, []string{"dragon", "ground"}, rec.Types)
	assert.Equal(t, []string{"sand-veil", "rough-skin"}, rec.Abilities)
	assert.Equal(t, "https://artwork.example/garchomp.png", rec.Sprite)
	assert.Contains(t, rec.Moves, "earthquake")
}

func TestPokeAPI_CreatureNotFound(t *testing.T) {
	api, _ := newPokeAPI(t)
	_, err := api.Creature(context.Background(), "missingno")
	require.Error(t, err)
	assert.ErrorIs(t, err, lookup.ErrNotFound)

	var lerr *lookup.Error
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, lookup.KindCreature, lerr.Kind)
	assert.Equal(t, "missingno", lerr.Name)
}

func TestPokeAPI_UpstreamFailure(t *testing.T) {
	api, _ := newPokeAPI(t)
	_, err := api.Creature(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, lookup.ErrNotFound)
	assert.Contains(t, err.Error(), "500")
}

func TestPokeAPI_EmptyNameIsNotFound(t *testing.T) {
	api, fake := newPokeAPI(t)
	_, err := api.Move(context.Background(), "  ")
	assert.ErrorIs(t, err, lookup.ErrNotFound)
	assert.Zero(t, fake.Hits())
}

func TestPokeAPI_Move(t *testing.T) {
	api, _ := newPokeAPI(t)
	rec, err := api.Move(context.Background(), "earthquake")
	require.NoError(t, err)
	assert.Equal(t, lookup.MoveRecord{
		Name: "earthquake", DisplayName: "Earthquake", Power: 100, Type: "ground", Class: move.Physical,
	}, rec)
	assert.Equal(t, move.Move{
		Name: "earthquake", DisplayName: "Earthquake", Power: 100, Type: "ground", Class: move.Physical,
	}, rec.Move())
}

func TestPokeAPI_MoveNullPower(t *testing.T) {
	api, _ := newPokeAPI(t)
	rec, err := api.Move(context.Background(), "Swords Dance")
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Power)
	assert.Equal(t, move.Status, rec.Class)

	rec, err = api.Move(context.Background(), "return")
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Power)
	assert.Equal(t, move.Physical, rec.Class)
}

func TestPokeAPI_ContextCancelled(t *testing.T) {
	api, _ := newPokeAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := api.Move(ctx, "tackle")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func writeDex(t *testing.T, creatures, moves string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "creatures.json"), []byte(creatures), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "moves.json"), []byte(moves), 0o644))
	return dir
}

const dexCreatures = `{
  "garchomp": {"types": ["dragon", "ground"], "base_stats": {"hp": 108, "attack": 130, "defense": 95, "special-attack": 80, "special-defense": 85, "speed": 102}, "abilities": ["rough-skin"]},
  "Mr Mime": {"name": "Mr Mime", "types": ["psychic", "fairy"], "base_stats": {"hp": 40}}
}`

const dexMoves = `{
  "earthquake": {"display_name": "Earthquake", "type": "ground", "power": 100, "damage_class": "physical"},
  "protect": {"type": "normal", "power": 0, "damage_class": "status"}
}`

func TestLoadDex(t *testing.T) {
	dex, err := lookup.LoadDex(writeDex(t, dexCreatures, dexMoves))
	require.NoError(t, err)

	rec, err := dex.Creature(context.Background(), "GARCHOMP")
	require.NoError(t, err)
	assert.Equal(t, stats.Base{108, 130, 95, 80, 85, 102}, rec.Base)

	mime, err := dex.Creature(context.Background(), "mr mime")
	require.NoError(t, err)
	assert.Equal(t, "mr-mime", mime.Name)
	assert.Equal(t, 40, mime.Base[stats.HP])
	assert.Equal(t, 0, mime.Base[stats.Speed])

	eq, err := dex.Move(context.Background(), "Earthquake")
	require.NoError(t, err)
	assert.Equal(t, move.Physical, eq.Class)
	assert.Equal(t, 100, eq.Power)

	_, err = dex.Move(context.Background(), "hyper-beam")
	assert.ErrorIs(t, err, lookup.ErrNotFound)

	assert.Equal(t, []string{"garchomp", "mr-mime"}, dex.CreatureNames())
}

func TestLoadDex_Errors(t *testing.T) {
	_, err := lookup.LoadDex(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening dex file")

	_, err = lookup.LoadDex(writeDex(t, `{"x": {"base_stats": {"luck": 1}}}`, `{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown stat")

	_, err = lookup.LoadDex(writeDex(t, `{}`, `{"x": {"damage_class": "psychic"}}`))
	require.Error(t, err)

	_, err = lookup.LoadDex(writeDex(t, `[`, `{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing dex file")
}

// countingSource counts upstream calls and blocks until release is closed.
type countingSource struct {
	calls   atomic.Int64
	release chan struct{}
	fail    bool
}

func (s *countingSource) Creature(_ context.Context, name string) (lookup.CreatureRecord, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.fail {
		return lookup.CreatureRecord{}, &lookup.Error{Kind: lookup.KindCreature, Name: name, Err: lookup.ErrNotFound}
	}
	return lookup.CreatureRecord{Name: name}, nil
}

func (s *countingSource) Move(_ context.Context, name string) (lookup.MoveRecord, error) {
	s.calls.Add(1)
	if s.fail {
		return lookup.MoveRecord{}, &lookup.Error{Kind: lookup.KindMove, Name: name, Err: lookup.ErrNotFound}
	}
	return lookup.MoveRecord{Name: name, Power: 40}, nil
}

func TestCache_MemoizesSuccess(t *testing.T) {
	src := &countingSource{}
	c := lookup.NewCache(src, zap.NewNop())

	for range 3 {
		rec, err := c.Creature(context.Background(), "Garchomp")
		require.NoError(t, err)
		assert.Equal(t, "garchomp", rec.Name)
		_, err = c.Move(context.Background(), "tackle")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(2), src.calls.Load())
	creatures, moves := c.Len()
	assert.Equal(t, 1, creatures)
	assert.Equal(t, 1, moves)
}

func TestCache_DoesNotCacheFailures(t *testing.T) {
	src := &countingSource{fail: true}
	c := lookup.NewCache(src, zap.NewNop())

	for range 2 {
		_, err := c.Creature(context.Background(), "missingno")
		assert.ErrorIs(t, err, lookup.ErrNotFound)
	}
	assert.Equal(t, int64(2), src.calls.Load())
	creatures, _ := c.Len()
	assert.Zero(t, creatures)
}

func TestCache_CollapsesConcurrentMisses(t *testing.T) {
	src := &countingSource{release: make(chan struct{})}
	c := lookup.NewCache(src, zap.NewNop())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Creature(context.Background(), "blissey")
			assert.NoError(t, err)
		}()
	}
	// Let the first caller reach the source before releasing it.
	require.Eventually(t, func() bool { return src.calls.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.release)
	wg.Wait()

	assert.LessOrEqual(t, src.calls.Load(), int64(8))
	creatures, _ := c.Len()
	assert.Equal(t, 1, creatures)
}

func TestCache_WithPokeAPI(t *testing.T) {
	api, fake := newPokeAPI(t)
	c := lookup.NewCache(api, zap.NewNop())

	_, err := c.Creature(context.Background(), "garchomp")
	require.NoError(t, err)
	_, err = c.Creature(context.Background(), "garchomp")
	require.NoError(t, err)
	assert.Equal(t, int64(1), fake.Hits())
}

func TestFetchAll(t *testing.T) {
	api, _ := newPokeAPI(t)
	recs, err := lookup.FetchAll(context.Background(), api, "garchomp", "blissey", "earthquake")
	require.NoError(t, err)
	assert.Equal(t, "garchomp", recs.Attacker.Name)
	assert.Equal(t, "blissey", recs.Defender.Name)
	assert.Equal(t, 100, recs.Move.Power)
}

func TestFetchAll_AnyFailureYieldsNoRecords(t *testing.T) {
	api, _ := newPokeAPI(t)
	recs, err := lookup.FetchAll(context.Background(), api, "garchomp", "blissey", "not-a-move")
	require.Error(t, err)
	assert.ErrorIs(t, err, lookup.ErrNotFound)
	assert.Equal(t, lookup.Records{}, recs)
}
