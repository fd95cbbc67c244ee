package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Manager owns one sandboxed LState holding every power hook.
//
// An LState is single-threaded; mu serializes all access, so a Manager is
// safe for concurrent Power calls.
type Manager struct {
	mu        sync.Mutex
	L         *lua.LState
	cancel    func()
	instLimit int
	logger    *zap.Logger
}

// NewManager creates a Manager with an empty VM.
//
// Precondition: logger must be non-nil; instLimit >= 0 (0 = DefaultInstructionLimit).
// Postcondition: Returns a non-nil Manager; callers must Close it.
func NewManager(logger *zap.Logger, instLimit int) *Manager {
	m := &Manager{instLimit: instLimit, logger: logger}
	m.L, m.cancel = NewSandboxedState(instLimit)
	m.RegisterModules(m.L)
	return m
}

// LoadDir executes every *.lua file in dir in lexicographic order.
//
// Precondition: dir must be a readable directory.
// Postcondition: Hooks defined by the files are callable; returns error on the first Lua load failure.
func (m *Manager) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, path := range luaFiles {
		m.rearm()
		if err := m.L.DoFile(path); err != nil {
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}
	m.logger.Info("power scripts loaded",
		zap.String("dir", dir),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// HasHook reports whether hook is a defined Lua function.
func (m *Manager) HasHook(hook string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.L.GetGlobal(hook).(*lua.LFunction)
	return ok
}

// CallHook calls the named Lua global function with args and returns its
// first result. Returns (LNil, nil) if the hook is not defined.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Each call gets a fresh instruction budget.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn := m.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}
	m.rearm()
	if err := m.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		return lua.LNil, fmt.Errorf("scripting: hook %q: %w", hook, err)
	}
	ret := m.L.Get(-1)
	m.L.Pop(1)
	return ret, nil
}

// Power evaluates a power hook as hook(listed, friendship, holds_status_item).
// Missing hooks, runtime errors, and non-numeric results report ok=false;
// errors are logged at Warn level and never propagated.
//
// Postcondition: ok is true iff the hook returned a number; power is its floor.
func (m *Manager) Power(hook string, listed, friendship int, holdsStatusItem bool) (int, bool) {
	ret, err := m.CallHook(hook, lua.LNumber(listed), lua.LNumber(friendship), lua.LBool(holdsStatusItem))
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return 0, false
	}
	n, ok := ret.(lua.LNumber)
	if !ok {
		if ret != lua.LNil {
			m.logger.Warn("scripting: power hook returned non-number",
				zap.String("hook", hook),
				zap.String("type", ret.Type().String()),
			)
		}
		return 0, false
	}
	return int(n), true
}

// Close releases the VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
	m.L.Close()
}

// rearm replaces the VM's instruction budget. Caller must hold mu.
func (m *Manager) rearm() {
	if m.cancel != nil {
		m.cancel()
	}
	m.cancel = Rearm(m.L, m.instLimit)
}
