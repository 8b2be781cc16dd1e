package engine

import (
	"github.com/gravitas-games/triprime/internal/gamemap"
	"github.com/gravitas-games/triprime/pkg/hex"
	"github.com/gravitas-games/triprime/pkg/models"
)

// ExpandChoice asks for Count new ships at Target.
type ExpandChoice struct {
	Target hex.Coord
	Count  int
}

// AttackChoice names the lead ship, the hex it attacks and how many ships
// from the lead ship's hex join the attack. Commit below 1 counts as 1.
type AttackChoice struct {
	ShipID int
	Target hex.Coord
	Commit int
}

// DecisionSource supplies one player's choices. Every call may be repeated
// after a rejection; the source must eventually answer validly or skip where
// skipping is allowed (the bool results).
type DecisionSource interface {
	ChooseCommandOrder(v View) models.CommandOrder
	ChooseSectorForPlacement(v View, available []string) string
	ChooseHexForPlacement(v View, candidates []hex.Coord) hex.Coord
	ChooseExpandTarget(v View, controlled []hex.Coord, remaining int) (ExpandChoice, bool)
	ChooseMoveTarget(v View, ship models.Ship, remainingMoves int) (hex.Coord, bool)
	ChooseAttack(v View, ships []models.Ship, remainingAttacks int) (AttackChoice, bool)
	ChooseSectorCard(v View, available []string) string
}

// Rejecter is implemented by sources that want to hear why an answer was refused.
type Rejecter interface {
	Reject(err error)
}

// OccupationReader is the read-only half of the occupation ledger.
type OccupationReader interface {
	InfoAt(c hex.Coord) (gamemap.Occupation, bool)
	OwnerAt(c hex.Coord) (models.PlayerID, bool)
	Count(c hex.Coord) int
	Occupied() []hex.Coord
	ControlledBy(player models.PlayerID) []hex.Coord
	ControlsTriPrime(player models.PlayerID) bool
}

// View is what a decision source may look at while choosing.
type View interface {
	Self() models.PlayerID
	Round() int
	Board() *gamemap.Board
	Occupation() OccupationReader
	Matrix() UsageMatrix
}

type playerView struct {
	g  *Game
	id models.PlayerID
}

func (v playerView) Self() models.PlayerID        { return v.id }
func (v playerView) Round() int                   { return v.g.round }
func (v playerView) Board() *gamemap.Board        { return v.g.board }
func (v playerView) Occupation() OccupationReader { return v.g.ledger }
func (v playerView) Matrix() UsageMatrix          { return v.g.matrix }
