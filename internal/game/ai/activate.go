package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/cory-johannsen/hale/internal/game/host"
)

// Outcome tells the turn loop whether to keep trying abilities.
type Outcome int

const (
	Continue Outcome = iota
	EndTurn
)

// String returns "continue" or "end_turn".
func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case EndTurn:
		return "end_turn"
	default:
		return "unknown"
	}
}

// TryActivate activates slot and drives its targeter toward target.
//
// Postcondition: EndTurn with no targeter interaction when the engine
// refuses activation. Otherwise the cursor is committed at target when
// valid, else at the first allowed point, else the targeter is cancelled;
// each commit is followed by a pause of delay. Errors are returned only for
// a failed commit or a cancelled ctx.
func TryActivate(ctx context.Context, battle host.Battle, slot host.Slot, target host.Point, delay time.Duration) (Outcome, error) {
	targeter, ok := battle.ActivateAndGetTargeter(slot)
	if !ok {
		return EndTurn, nil
	}

	targeter.SetCursor(target)
	if targeter.IsValidSelection() {
		return commit(ctx, battle, slot, targeter, delay)
	}

	if points := targeter.AllowedPoints(); len(points) > 0 {
		targeter.SetCursor(points[0])
		return commit(ctx, battle, slot, targeter, delay)
	}

	targeter.Cancel()
	return Continue, nil
}

func commit(ctx context.Context, battle host.Battle, slot host.Slot, targeter host.Targeter, delay time.Duration) (Outcome, error) {
	if err := targeter.Commit(); err != nil {
		return EndTurn, fmt.Errorf("ai: committing %q: %w", slot.Ability().ID, err)
	}
	if err := battle.Pause(ctx, delay); err != nil {
		return EndTurn, err
	}
	return Continue, nil
}
