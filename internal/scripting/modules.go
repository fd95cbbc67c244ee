package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// MaxFriendship is exposed to scripts as calc.max_friendship.
const MaxFriendship = 255

// RegisterModules registers the calc.* Lua table into L.
//
// calc.max_friendship  the friendship ceiling
// calc.log(msg)        logs msg at debug level
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: calc global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	calc := L.NewTable()
	L.SetField(calc, "max_friendship", lua.LNumber(MaxFriendship))
	L.SetField(calc, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Debug("script log", zap.String("msg", L.CheckString(1)))
		return 0
	}))
	L.SetGlobal("calc", calc)
}
