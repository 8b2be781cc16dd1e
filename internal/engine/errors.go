package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidChoice is wrapped by every rejection of a decision-source answer.
// The engine recovers by asking the same source again.
var ErrInvalidChoice = errors.New("invalid choice")

var (
	ErrNotAdjacent     = fmt.Errorf("%w: target is not adjacent", ErrInvalidChoice)
	ErrOffBoard        = fmt.Errorf("%w: target is not on the board", ErrInvalidChoice)
	ErrBoundary        = fmt.Errorf("%w: boundary hexes cannot hold ships", ErrInvalidChoice)
	ErrOccupied        = fmt.Errorf("%w: hex is held by another player", ErrInvalidChoice)
	ErrTriPrimeTransit = fmt.Errorf("%w: a ship that entered Tri-Prime cannot move on", ErrInvalidChoice)
	ErrBudget          = fmt.Errorf("%w: count exceeds the remaining budget", ErrInvalidChoice)
	ErrNotControlled   = fmt.Errorf("%w: hex is not controlled by the player", ErrInvalidChoice)
	ErrOwnHex          = fmt.Errorf("%w: cannot attack a hex you hold", ErrInvalidChoice)
	ErrUnknownShip     = fmt.Errorf("%w: no such ship", ErrInvalidChoice)
	ErrUnavailable     = fmt.Errorf("%w: option is not available", ErrInvalidChoice)
	ErrBadOrder        = fmt.Errorf("%w: command order must be a permutation", ErrInvalidChoice)
)
