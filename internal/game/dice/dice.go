// Package dice rolls the dice behind spell failure checks, initiative,
// attacks and ability effects.
package dice

import (
	"fmt"
	"strings"
)

// Source yields uniform ints in [0, n). Implementations are shared between
// goroutines and must be safe for concurrent use.
type Source interface {
	Intn(n int) int
}

// RollResult is one evaluated expression.
type RollResult struct {
	Expression string
	Dice       []int
	Modifier   int
}

// Total is the sum of the dice plus Modifier.
func (r RollResult) Total() int {
	sum := r.Modifier
	for _, d := range r.Dice {
		sum += d
	}
	return sum
}

// String renders the roll for logs, e.g. "1d8+2 -> [5] +2 = 7". An empty
// Expression renders as "?".
func (r RollResult) String() string {
	expr := r.Expression
	if strings.TrimSpace(expr) == "" {
		expr = "?"
	}
	return fmt.Sprintf("%s -> %v %+d = %d", expr, r.Dice, r.Modifier, r.Total())
}
