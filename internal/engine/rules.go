package engine

import (
	"fmt"

	"github.com/gravitas-games/triprime/internal/gamemap"
	"github.com/gravitas-games/triprime/pkg/hex"
	"github.com/gravitas-games/triprime/pkg/models"
)

// ValidateMove checks one Explore step from -> to for player. enteredTriPrime
// is true once the ship has entered a Tri-Prime hex earlier in the same
// sequence.
func ValidateMove(board *gamemap.Board, occ OccupationReader, player models.PlayerID, from, to hex.Coord, enteredTriPrime bool) error {
	if enteredTriPrime {
		return ErrTriPrimeTransit
	}
	sector, ok := board.SectorAt(to)
	if !ok {
		return ErrOffBoard
	}
	if !from.IsNeighbor(to) {
		return ErrNotAdjacent
	}
	if sector.Boundary() {
		return ErrBoundary
	}
	if owner, held := occ.OwnerAt(to); held && owner != player {
		return ErrOccupied
	}
	return nil
}

// ValidatePath checks a whole movement sequence; path[0] is the start hex.
func ValidatePath(board *gamemap.Board, occ OccupationReader, player models.PlayerID, path []hex.Coord) error {
	entered := false
	for i := 1; i < len(path); i++ {
		if err := ValidateMove(board, occ, player, path[i-1], path[i], entered); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		entered = gamemap.IsTriPrime(path[i])
	}
	return nil
}

// ValidateAttackTarget checks that player's ship at from may attack target.
func ValidateAttackTarget(board *gamemap.Board, occ OccupationReader, player models.PlayerID, from, target hex.Coord) error {
	sector, ok := board.SectorAt(target)
	if !ok {
		return ErrOffBoard
	}
	if !from.IsNeighbor(target) {
		return ErrNotAdjacent
	}
	if sector.Boundary() {
		return ErrBoundary
	}
	if owner, held := occ.OwnerAt(target); held && owner == player {
		return ErrOwnHex
	}
	return nil
}

// Outcome is how an invasion left the target hex.
type Outcome int

const (
	// OutcomeCaptured means surviving attackers hold the hex.
	OutcomeCaptured Outcome = iota
	// OutcomeRepelled means the defender keeps the hex.
	OutcomeRepelled
	// OutcomeVacated means both sides were spent and the hex is empty.
	OutcomeVacated
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCaptured:
		return "Captured"
	case OutcomeRepelled:
		return "Repelled"
	case OutcomeVacated:
		return "Vacated"
	default:
		return "Unknown"
	}
}

// Battle is the arithmetic of one invasion.
type Battle struct {
	Attackers     int
	Defenders     int
	Losses        int // ships lost by each side
	AttackersLeft int
	DefendersLeft int
	Outcome       Outcome
}

// Invade trades min(attackers, defenders) ships from each side. A single
// attacker against a single defender is the plain one-for-one trade.
func Invade(attackers, defenders int) Battle {
	losses := min(attackers, defenders)
	b := Battle{
		Attackers:     attackers,
		Defenders:     defenders,
		Losses:        losses,
		AttackersLeft: attackers - losses,
		DefendersLeft: defenders - losses,
	}
	switch {
	case b.AttackersLeft > 0 && b.DefendersLeft == 0:
		b.Outcome = OutcomeCaptured
	case b.DefendersLeft > 0:
		b.Outcome = OutcomeRepelled
	default:
		b.Outcome = OutcomeVacated
	}
	return b
}

// Excess returns how many of count ships sector cannot sustain.
func Excess(sector gamemap.Sector, count int) int {
	return max(count-sector.Capacity(), 0)
}
