package models

import (
	"fmt"

	"github.com/gravitas-games/triprime/pkg/hex"
)

// PlayerID identifies a seat at the table (1-3).
type PlayerID int

// Ship is a single fleet unit.
type Ship struct {
	ID    int       `json:"id"`
	Owner PlayerID  `json:"owner"`
	Pos   hex.Coord `json:"pos"`
	Moved bool      `json:"moved"`
}

// Label returns the "<player>-<n>" display form of the ship id.
func (s *Ship) Label() string { return fmt.Sprintf("%d-%d", s.Owner, s.ID) }

// Player represents a player in the game
type Player struct {
	ID    PlayerID `json:"id"`
	Name  string   `json:"name"`
	Color string   `json:"color"`

	// Fleet in creation order
	Ships []*Ship `json:"ships"`

	Score      int          `json:"score"`
	RoundScore int          `json:"round_score"`
	Order      CommandOrder `json:"order"`

	// Round number -> score earned that round
	History map[int]int `json:"history,omitempty"`
}

// NewPlayer creates a player; the id must be 1, 2 or 3.
func NewPlayer(id PlayerID, name string) (*Player, error) {
	color, err := ColorFor(id)
	if err != nil {
		return nil, err
	}
	return &Player{
		ID:      id,
		Name:    name,
		Color:   color,
		History: make(map[int]int),
	}, nil
}

// ColorFor derives the display color from the player id.
func ColorFor(id PlayerID) (string, error) {
	switch id {
	case 1:
		return "Red", nil
	case 2:
		return "Blue", nil
	case 3:
		return "Green", nil
	default:
		return "", fmt.Errorf("invalid player id %d", id)
	}
}

// NewShip creates a ship at pos using the lowest free id and adds it to the fleet.
func (p *Player) NewShip(pos hex.Coord) *Ship {
	used := make(map[int]bool, len(p.Ships))
	for _, s := range p.Ships {
		used[s.ID] = true
	}
	id := 1
	for used[id] {
		id++
	}
	ship := &Ship{ID: id, Owner: p.ID, Pos: pos}
	p.Ships = append(p.Ships, ship)
	return ship
}

// RemoveShip drops ship from the fleet. It reports whether the ship was found.
func (p *Player) RemoveShip(ship *Ship) bool {
	for i, s := range p.Ships {
		if s == ship {
			p.Ships = append(p.Ships[:i], p.Ships[i+1:]...)
			return true
		}
	}
	return false
}

// Ship looks a ship up by id.
func (p *Player) Ship(id int) (*Ship, bool) {
	for _, s := range p.Ships {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// ResetMoves clears the moved flag on every ship.
func (p *Player) ResetMoves() {
	for _, s := range p.Ships {
		s.Moved = false
	}
}

// StartRound clears the per-round score.
func (p *Player) StartRound() { p.RoundScore = 0 }

// AddScore credits points to both the round and the total.
func (p *Player) AddScore(round, points int) {
	p.Score += points
	p.RoundScore += points
	if p.History == nil {
		p.History = make(map[int]int)
	}
	p.History[round] += points
}
