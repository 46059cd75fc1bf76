package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine.log, engine.dice and engine.creature
// tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	engine.RawSetString("log", m.logModule(L))
	engine.RawSetString("dice", m.diceModule(L))
	engine.RawSetString("creature", m.creatureModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, fn := range levels {
		fn := fn
		mod.RawSetString(name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	return mod
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	// engine.dice.roll(expr) -> {total, modifier, dice = {...}} or nil, err
	mod.RawSetString("roll", L.NewFunction(func(L *lua.LState) int {
		res, err := m.roller.RollExpr(L.CheckString(1))
		if err != nil {
			L.Push(lua.LNil)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		t := L.NewTable()
		t.RawSetString("total", lua.LNumber(res.Total()))
		t.RawSetString("modifier", lua.LNumber(res.Modifier))
		dice := L.NewTable()
		for _, d := range res.Dice {
			dice.Append(lua.LNumber(d))
		}
		t.RawSetString("dice", dice)
		L.Push(t)
		return 1
	}))
	return mod
}

func (m *Manager) creatureModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	mod.RawSetString("get", L.NewFunction(func(L *lua.LState) int {
		uid := L.CheckString(1)
		if m.GetCreature == nil {
			L.Push(lua.LNil)
			return 1
		}
		c := m.GetCreature(uid)
		if c == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(creatureToTable(L, c))
		return 1
	}))
	related := func(hostile bool) lua.LGFunction {
		return func(L *lua.LState) int {
			uid := L.CheckString(1)
			if m.ListRelated == nil {
				L.Push(lua.LNil)
				return 1
			}
			list := L.NewTable()
			for _, c := range m.ListRelated(uid, hostile) {
				list.Append(creatureToTable(L, c))
			}
			L.Push(list)
			return 1
		}
	}
	mod.RawSetString("hostiles", L.NewFunction(related(true)))
	mod.RawSetString("friendlies", L.NewFunction(related(false)))
	return mod
}
