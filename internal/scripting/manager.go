package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/hale/internal/game/ability"
	"github.com/cory-johannsen/hale/internal/game/dice"
)

// ErrNoScripts is returned by hook resolution before any scripts are loaded.
var ErrNoScripts = errors.New("scripting: no scripts loaded")

// CreatureInfo is a snapshot of a creature passed to Lua callbacks.
type CreatureInfo struct {
	UID         string
	Name        string
	HP          int
	MaxHP       int
	CasterLevel int
	// Distance is the grid distance from the querying creature; 0 for lookups by UID.
	Distance int
}

// Manager owns one sandboxed LState and dispatches hooks into it.
//
// An LState is single-threaded; mu serializes every call into it.
type Manager struct {
	mu        sync.Mutex
	state     *lua.LState
	instLimit int
	roller    *dice.Roller
	logger    *zap.Logger

	// Injected after construction. nil = engine.creature.* returns nil.
	GetCreature func(uid string) *CreatureInfo
	// ListRelated returns the living creatures hostile (or friendly) to uid, nearest first.
	ListRelated func(uid string, hostile bool) []*CreatureInfo
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: roller and logger must be non-nil.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{roller: roller, logger: logger}
}

// Load creates a fresh VM, registers the engine.* modules, then executes
// every *.lua file in scriptDir in lexicographic order. A previously loaded
// VM is closed only after the new one loads successfully.
//
// Precondition: scriptDir must be a readable directory.
func (m *Manager) Load(scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L := NewSandboxedState(instLimit)
	m.RegisterModules(L)
	for _, path := range luaFiles {
		err := withBudget(L, instLimit, func() error { return L.DoFile(path) })
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	old := m.state
	m.state = L
	m.instLimit = instLimit
	m.mu.Unlock()
	if old != nil {
		old.Close()
	}
	m.logger.Debug("scripting: scripts loaded",
		zap.String("dir", scriptDir),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// withBudget runs fn under a fresh instruction budget.
func withBudget(L *lua.LState, instLimit int, fn func() error) error {
	ctx, cancel := newCountingContext(limitOrDefault(instLimit))
	defer cancel()
	L.SetContext(ctx)
	defer L.RemoveContext()
	return fn()
}

// HasHook reports whether a global Lua function named hook is defined.
func (m *Manager) HasHook(hook string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return false
	}
	_, ok := m.state.GetGlobal(hook).(*lua.LFunction)
	return ok
}

// CallHook calls the named Lua global function. Returns (LNil, nil) if the
// hook is not defined or nothing is loaded. Lua runtime errors, including an
// exhausted instruction budget, are logged at Warn and never propagated.
//
// Postcondition: returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.call(hook, func(*lua.LState) []lua.LValue { return args })
}

func (m *Manager) call(hook string, buildArgs func(L *lua.LState) []lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	L := m.state
	if L == nil {
		m.logger.Info("scripting: no VM loaded", zap.String("hook", hook))
		return lua.LNil, nil
	}
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}
	args := buildArgs(L)
	err := withBudget(L, m.instLimit, func() error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Validator binds hook as an ability target validator. The hook receives a
// table {uid, name, hp, max_hp, caster_level} and must return true to accept.
//
// Postcondition: returns an error when hook is not a defined function, so
// unknown validators fail at content load rather than at use.
func (m *Manager) Validator(hook string) (ability.Validator, error) {
	m.mu.Lock()
	loaded := m.state != nil
	m.mu.Unlock()
	if !loaded {
		return nil, fmt.Errorf("%w: resolving validator %q", ErrNoScripts, hook)
	}
	if !m.HasHook(hook) {
		return nil, fmt.Errorf("scripting: validator hook %q is not defined", hook)
	}
	return func(target ability.Subject) bool {
		ret, err := m.call(hook, func(L *lua.LState) []lua.LValue {
			return []lua.LValue{subjectToTable(L, target)}
		})
		if err != nil {
			m.logger.Debug("scripting: validator rejected target",
				zap.String("hook", hook),
				zap.String("target", target.ID()),
				zap.Error(err),
			)
			return false
		}
		return ret == lua.LTrue
	}, nil
}

// Close releases the loaded VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		m.state.Close()
		m.state = nil
	}
}

func subjectToTable(L *lua.LState, s ability.Subject) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("uid", lua.LString(s.ID()))
	t.RawSetString("name", lua.LString(s.Name()))
	t.RawSetString("hp", lua.LNumber(s.CurrentHP()))
	t.RawSetString("max_hp", lua.LNumber(s.MaxHP()))
	t.RawSetString("caster_level", lua.LNumber(s.CasterLevel()))
	return t
}

func creatureToTable(L *lua.LState, c *CreatureInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("uid", lua.LString(c.UID))
	t.RawSetString("name", lua.LString(c.Name))
	t.RawSetString("hp", lua.LNumber(c.HP))
	t.RawSetString("max_hp", lua.LNumber(c.MaxHP))
	t.RawSetString("caster_level", lua.LNumber(c.CasterLevel))
	t.RawSetString("distance", lua.LNumber(c.Distance))
	return t
}
