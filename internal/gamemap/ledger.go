package gamemap

import (
	"errors"
	"fmt"

	"github.com/gravitas-games/triprime/pkg/hex"
	"github.com/gravitas-games/triprime/pkg/models"
)

// ErrInvariant marks a broken bookkeeping invariant. It signals a bug in the
// caller, never bad player input.
var ErrInvariant = errors.New("occupation invariant violated")

// Occupation is the ledger entry for one hex.
type Occupation struct {
	Owner models.PlayerID
	Ships []*models.Ship
}

// Ledger records who holds each hex and which ships are there.
// A hex without ships has no entry.
type Ledger struct {
	entries map[hex.Coord]*Occupation
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[hex.Coord]*Occupation)}
}

// AddShip appends ship to the entry at c, creating the entry if needed.
func (l *Ledger) AddShip(c hex.Coord, ship *models.Ship) error {
	occ, ok := l.entries[c]
	if !ok {
		l.entries[c] = &Occupation{Owner: ship.Owner, Ships: []*models.Ship{ship}}
		return nil
	}
	if occ.Owner != ship.Owner {
		return fmt.Errorf("%w: ship %s added to %v held by player %d", ErrInvariant, ship.Label(), c, occ.Owner)
	}
	occ.Ships = append(occ.Ships, ship)
	return nil
}

// RemoveShip drops ship from the entry at c and deletes the entry once empty.
// It reports whether the ship was present.
func (l *Ledger) RemoveShip(c hex.Coord, ship *models.Ship) bool {
	occ, ok := l.entries[c]
	if !ok {
		return false
	}
	for i, s := range occ.Ships {
		if s == ship {
			occ.Ships = append(occ.Ships[:i], occ.Ships[i+1:]...)
			if len(occ.Ships) == 0 {
				delete(l.entries, c)
			}
			return true
		}
	}
	return false
}

// InfoAt returns a copy of the entry at c; ok is false when the hex is empty.
func (l *Ledger) InfoAt(c hex.Coord) (Occupation, bool) {
	occ, ok := l.entries[c]
	if !ok {
		return Occupation{}, false
	}
	return Occupation{Owner: occ.Owner, Ships: append([]*models.Ship(nil), occ.Ships...)}, true
}

// OwnerAt returns the controlling player of c, if any.
func (l *Ledger) OwnerAt(c hex.Coord) (models.PlayerID, bool) {
	occ, ok := l.entries[c]
	if !ok {
		return 0, false
	}
	return occ.Owner, true
}

// Count returns the number of ships at c.
func (l *Ledger) Count(c hex.Coord) int {
	if occ, ok := l.entries[c]; ok {
		return len(occ.Ships)
	}
	return 0
}

// Occupied returns the coordinates with an entry, sorted. The slice is a
// snapshot, so callers may mutate the ledger while walking it.
func (l *Ledger) Occupied() []hex.Coord {
	out := make([]hex.Coord, 0, len(l.entries))
	for c := range l.entries {
		out = append(out, c)
	}
	SortCoords(out)
	return out
}

// ControlledBy returns the sorted coordinates held by player.
func (l *Ledger) ControlledBy(player models.PlayerID) []hex.Coord {
	var out []hex.Coord
	for c, occ := range l.entries {
		if occ.Owner == player {
			out = append(out, c)
		}
	}
	SortCoords(out)
	return out
}

// ControlsTriPrime reports whether player holds at least one Tri-Prime hex.
func (l *Ledger) ControlsTriPrime(player models.PlayerID) bool {
	for _, c := range TriPrimeHexes {
		if owner, ok := l.OwnerAt(c); ok && owner == player {
			return true
		}
	}
	return false
}

// Snapshot copies the ledger into plain values keyed by coordinate.
func (l *Ledger) Snapshot() map[hex.Coord]Occupation {
	out := make(map[hex.Coord]Occupation, len(l.entries))
	for c := range l.entries {
		out[c], _ = l.InfoAt(c)
	}
	return out
}
