package engine

import (
	"fmt"
	"strings"

	"github.com/gravitas-games/triprime/pkg/models"
)

// baseBudget is the number of actions a command grants before contention.
const baseBudget = 4

// UsageMatrix counts, per command (row) and slot (column), how many players
// put that command in that slot this round.
type UsageMatrix [3][3]int

// BuildMatrix tallies the given command orders from scratch.
func BuildMatrix(orders []models.CommandOrder) UsageMatrix {
	var m UsageMatrix
	for _, o := range orders {
		for slot, c := range o {
			if c.Valid() {
				m[c.Index()][slot]++
			}
		}
	}
	return m
}

// Usage returns the tally for command c in the zero-based slot.
func (m UsageMatrix) Usage(c models.CommandType, slot int) int {
	if !c.Valid() || slot < 0 || slot > 2 {
		return 0
	}
	return m[c.Index()][slot]
}

// Budget returns the action budget for command c played in slot.
func (m UsageMatrix) Budget(c models.CommandType, slot int) int {
	return Budget(m.Usage(c, slot))
}

// Budget converts a usage count into an action budget, floored at 1.
func Budget(usage int) int {
	return max(baseBudget-usage, 1)
}

func (m UsageMatrix) String() string {
	var sb strings.Builder
	for _, c := range models.CommandTypes {
		row := m[c.Index()]
		fmt.Fprintf(&sb, "%-11s %v\n", c, row)
	}
	return sb.String()
}
