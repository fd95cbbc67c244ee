package scripting_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/damagecalc/internal/scripting"
)

func newTestManager(t testing.TB, limit int) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(zap.New(core), limit)
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0644))
	return dir
}

const powerScripts = `
function acrobatics_power(listed, friendship, holds_item)
	if holds_item then
		return listed
	end
	return listed * 2
end

function return_power(listed, friendship, holds_item)
	return math.max(1, math.floor(friendship / 2.5))
end

function broken_power(listed, friendship, holds_item)
	error("boom")
end

function text_power(listed, friendship, holds_item)
	calc.log("returning text")
	return "lots"
end

function runaway_power(listed, friendship, holds_item)
	while true do end
end
`

func TestManager_LoadDir_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	require.NoError(t, mgr.LoadDir(writeTempLua(t, "power.lua", powerScripts)))

	ret, err := mgr.CallHook("acrobatics_power", lua.LNumber(55), lua.LNumber(0), lua.LFalse)
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(110), ret)
	assert.True(t, mgr.HasHook("acrobatics_power"))
	assert.False(t, mgr.HasHook("nope"))
}

func TestManager_LoadDir_MissingDir(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	assert.Error(t, mgr.LoadDir("/nonexistent/scripts"))
}

func TestManager_LoadDir_SyntaxError(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	assert.Error(t, mgr.LoadDir(writeTempLua(t, "bad.lua", "function (")))
}

func TestManager_Power(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	require.NoError(t, mgr.LoadDir(writeTempLua(t, "power.lua", powerScripts)))

	p, ok := mgr.Power("acrobatics_power", 55, 0, false)
	require.True(t, ok)
	assert.Equal(t, 110, p)

	p, ok = mgr.Power("acrobatics_power", 55, 0, true)
	require.True(t, ok)
	assert.Equal(t, 55, p)

	p, ok = mgr.Power("return_power", 0, 255, false)
	require.True(t, ok)
	assert.Equal(t, 102, p)
}

func TestManager_Power_MissingHook(t *testing.T) {
	mgr, logs := newTestManager(t, 0)
	_, ok := mgr.Power("undefined_power", 40, 0, false)
	assert.False(t, ok)
	assert.Zero(t, logs.FilterMessage("scripting: Lua runtime error").Len())
}

func TestManager_Power_RuntimeErrorLogged(t *testing.T) {
	mgr, logs := newTestManager(t, 0)
	require.NoError(t, mgr.LoadDir(writeTempLua(t, "power.lua", powerScripts)))
	_, ok := mgr.Power("broken_power", 40, 0, false)
	assert.False(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("scripting: Lua runtime error").Len())
}

func TestManager_Power_NonNumber(t *testing.T) {
	mgr, logs := newTestManager(t, 0)
	require.NoError(t, mgr.LoadDir(writeTempLua(t, "power.lua", powerScripts)))
	_, ok := mgr.Power("text_power", 40, 0, false)
	assert.False(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("scripting: power hook returned non-number").Len())
	assert.Equal(t, 1, logs.FilterMessage("script log").Len())
}

func TestManager_Power_InstructionLimit(t *testing.T) {
	mgr, _ := newTestManager(t, 1000)
	require.NoError(t, mgr.LoadDir(writeTempLua(t, "power.lua", powerScripts)))
	_, ok := mgr.Power("runaway_power", 40, 0, false)
	assert.False(t, ok)
}

func TestManager_Power_BudgetIsPerCall(t *testing.T) {
	mgr, _ := newTestManager(t, 1000)
	require.NoError(t, mgr.LoadDir(writeTempLua(t, "power.lua", powerScripts)))
	// Far more total opcodes than one budget allows.
	for i := 0; i < 500; i++ {
		_, ok := mgr.Power("acrobatics_power", 55, 0, false)
		require.True(t, ok, "call %d", i)
	}
}

func TestManager_Power_Concurrent(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	require.NoError(t, mgr.LoadDir(writeTempLua(t, "power.lua", powerScripts)))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			p, ok := mgr.Power("acrobatics_power", n, 0, false)
			assert.True(t, ok)
			assert.Equal(t, 2*n, p)
		}(i)
	}
	wg.Wait()
}

func TestManager_Property_FriendshipHookMatchesFormula(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	require.NoError(t, mgr.LoadDir(writeTempLua(t, "power.lua", powerScripts)))
	rapid.Check(t, func(rt *rapid.T) {
		f := rapid.IntRange(0, 255).Draw(rt, "friendship")
		p, ok := mgr.Power("return_power", 0, f, false)
		require.True(rt, ok)
		assert.Equal(rt, max(1, f*2/5), p)
	})
}
