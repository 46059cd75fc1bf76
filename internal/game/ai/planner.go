package ai

import (
	"errors"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ScriptCaller evaluates Lua precondition hooks.
type ScriptCaller interface {
	// CallHook returns (LNil, nil) if the function is not defined.
	CallHook(hook string, args ...lua.LValue) (lua.LValue, error)
}

// PlannedAction is one primitive action produced by the planner.
type PlannedAction struct {
	Action string
	// Target is nil for pass and for tokens that resolve to nothing.
	Target *CombatantState
}

// maxPlanSteps guards against cyclic decompositions.
const maxPlanSteps = 32

// Planner decomposes a Domain for a single creature's turn.
//
// Invariant: domain, caller and logger are non-nil.
type Planner struct {
	domain *Domain
	caller ScriptCaller
	logger *zap.Logger
}

// NewPlanner constructs a Planner.
//
// Precondition: domain, caller and logger must not be nil.
func NewPlanner(domain *Domain, caller ScriptCaller, logger *zap.Logger) *Planner {
	if domain == nil {
		panic("ai.NewPlanner: domain must not be nil")
	}
	if caller == nil {
		panic("ai.NewPlanner: caller must not be nil")
	}
	if logger == nil {
		panic("ai.NewPlanner: logger must not be nil")
	}
	return &Planner{domain: domain, caller: caller, logger: logger}
}

// Domain returns the planner's domain.
func (p *Planner) Domain() *Domain { return p.domain }

// Plan decomposes RootTask against state.
//
// Postcondition: returns a non-nil slice; Lua failures count as a false precondition.
func (p *Planner) Plan(state *WorldState) ([]PlannedAction, error) {
	if state == nil || state.Actor == nil {
		return nil, errors.New("ai.Planner.Plan: state and state.Actor must not be nil")
	}
	queue := []string{RootTask}
	result := []PlannedAction{}
	for steps := 0; len(queue) > 0 && steps < maxPlanSteps; steps++ {
		current := queue[0]
		queue = queue[1:]

		if op, ok := p.domain.OperatorByID(current); ok {
			result = append(result, PlannedAction{Action: op.Action, Target: state.ResolveTarget(op.Target)})
			continue
		}
		m := p.applicableMethod(current, state)
		if m == nil {
			continue
		}
		queue = append(append([]string{}, m.Subtasks...), queue...)
	}
	return result, nil
}

func (p *Planner) applicableMethod(taskID string, state *WorldState) *Method {
	for _, m := range p.domain.MethodsForTask(taskID) {
		if m.Precondition == "" {
			return m
		}
		val, err := p.caller.CallHook(m.Precondition, lua.LString(state.Actor.UID))
		if err != nil {
			p.logger.Debug("precondition failed",
				zap.String("domain", p.domain.ID),
				zap.String("method", m.ID),
				zap.String("hook", m.Precondition),
				zap.Error(err),
			)
			continue
		}
		if val == lua.LTrue {
			return m
		}
	}
	return nil
}
