package decision

import (
	"github.com/gravitas-games/triprime/internal/engine"
	"github.com/gravitas-games/triprime/pkg/hex"
	"github.com/gravitas-games/triprime/pkg/models"
)

// Scripted replays queued answers. Once a queue is empty the question goes to
// Fallback, or is skipped (or answered with the first option) when Fallback
// is nil. Rejections are collected in Rejections.
type Scripted struct {
	Orders     []models.CommandOrder
	PlaceCards []string
	PlaceHexes []hex.Coord
	Expands    []engine.ExpandChoice
	Moves      map[int][]hex.Coord
	Attacks    []engine.AttackChoice
	Cards      []string

	Fallback   engine.DecisionSource
	Rejections []error

	delegated bool
}

func pop[T any](q *[]T) (T, bool) {
	var zero T
	if len(*q) == 0 {
		return zero, false
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v, true
}

func (s *Scripted) ChooseCommandOrder(v engine.View) models.CommandOrder {
	if o, ok := pop(&s.Orders); ok {
		s.delegated = false
		return o
	}
	if s.Fallback != nil {
		s.delegated = true
		return s.Fallback.ChooseCommandOrder(v)
	}
	return models.CommandOrder(models.CommandTypes)
}

func (s *Scripted) ChooseSectorForPlacement(v engine.View, available []string) string {
	if c, ok := pop(&s.PlaceCards); ok {
		s.delegated = false
		return c
	}
	if s.Fallback != nil {
		s.delegated = true
		return s.Fallback.ChooseSectorForPlacement(v, available)
	}
	return available[0]
}

func (s *Scripted) ChooseHexForPlacement(v engine.View, candidates []hex.Coord) hex.Coord {
	if c, ok := pop(&s.PlaceHexes); ok {
		s.delegated = false
		return c
	}
	if s.Fallback != nil {
		s.delegated = true
		return s.Fallback.ChooseHexForPlacement(v, candidates)
	}
	return candidates[0]
}

func (s *Scripted) ChooseExpandTarget(v engine.View, controlled []hex.Coord, remaining int) (engine.ExpandChoice, bool) {
	if c, ok := pop(&s.Expands); ok {
		s.delegated = false
		return c, true
	}
	if s.Fallback != nil {
		s.delegated = true
		return s.Fallback.ChooseExpandTarget(v, controlled, remaining)
	}
	return engine.ExpandChoice{}, false
}

func (s *Scripted) ChooseMoveTarget(v engine.View, ship models.Ship, remaining int) (hex.Coord, bool) {
	if q := s.Moves[ship.ID]; len(q) > 0 {
		s.Moves[ship.ID] = q[1:]
		s.delegated = false
		return q[0], true
	}
	if s.Fallback != nil {
		s.delegated = true
		return s.Fallback.ChooseMoveTarget(v, ship, remaining)
	}
	return hex.Coord{}, false
}

func (s *Scripted) ChooseAttack(v engine.View, ships []models.Ship, remaining int) (engine.AttackChoice, bool) {
	if c, ok := pop(&s.Attacks); ok {
		s.delegated = false
		return c, true
	}
	if s.Fallback != nil {
		s.delegated = true
		return s.Fallback.ChooseAttack(v, ships, remaining)
	}
	return engine.AttackChoice{}, false
}

func (s *Scripted) ChooseSectorCard(v engine.View, available []string) string {
	if c, ok := pop(&s.Cards); ok {
		s.delegated = false
		return c
	}
	if s.Fallback != nil {
		s.delegated = true
		return s.Fallback.ChooseSectorCard(v, available)
	}
	return available[0]
}

// Reject records err. When the refused answer came from Fallback, Fallback
// is told as well.
func (s *Scripted) Reject(err error) {
	s.Rejections = append(s.Rejections, err)
	if r, ok := s.Fallback.(engine.Rejecter); ok && s.delegated {
		r.Reject(err)
	}
}
