// Package decision provides DecisionSource implementations: a heuristic
// virtual player, an interactive console player and a scripted source.
package decision

import (
	"math/rand/v2"
	"sort"

	"github.com/gravitas-games/triprime/internal/engine"
	"github.com/gravitas-games/triprime/internal/gamemap"
	"github.com/gravitas-games/triprime/pkg/hex"
	"github.com/gravitas-games/triprime/pkg/models"
	"github.com/rs/zerolog"
)

// Heuristic is the built-in virtual player. It randomizes where the rules
// leave it indifferent and otherwise heads for high-level hexes, attacks only
// when it outnumbers the defenders and drafts the card worth the most.
//
// It only proposes choices it has validated itself; if the engine still
// refuses one, the next skippable question is answered with a skip.
type Heuristic struct {
	rng      *rand.Rand
	log      zerolog.Logger
	rejected bool
}

// NewHeuristic creates a virtual player drawing from rng.
func NewHeuristic(rng *rand.Rand, log zerolog.Logger) *Heuristic {
	return &Heuristic{rng: rng, log: log}
}

// ChooseCommandOrder shuffles the three commands.
func (h *Heuristic) ChooseCommandOrder(engine.View) models.CommandOrder {
	var order models.CommandOrder
	for i, idx := range h.rng.Perm(len(models.CommandTypes)) {
		order[i] = models.CommandTypes[idx]
	}
	return order
}

// ChooseSectorForPlacement picks a random free card.
func (h *Heuristic) ChooseSectorForPlacement(_ engine.View, available []string) string {
	return available[h.rng.IntN(len(available))]
}

// ChooseHexForPlacement picks a random level-1 hex.
func (h *Heuristic) ChooseHexForPlacement(_ engine.View, candidates []hex.Coord) hex.Coord {
	return candidates[h.rng.IntN(len(candidates))]
}

// ChooseExpandTarget adds one ship at a time to a random controlled hex that
// can still sustain it, and stops once every hex is full.
func (h *Heuristic) ChooseExpandTarget(v engine.View, controlled []hex.Coord, _ int) (engine.ExpandChoice, bool) {
	if h.consumeRejection() {
		return engine.ExpandChoice{}, false
	}
	var room []hex.Coord
	for _, c := range controlled {
		sector, _ := v.Board().SectorAt(c)
		if v.Occupation().Count(c) < sector.Capacity() {
			room = append(room, c)
		}
	}
	if len(room) == 0 {
		return engine.ExpandChoice{}, false
	}
	return engine.ExpandChoice{Target: room[h.rng.IntN(len(room))], Count: 1}, true
}

// ChooseMoveTarget steps ship along the shortest path to the most valuable
// hex it can reach. Ships already on a Tri-Prime hex stay put.
func (h *Heuristic) ChooseMoveTarget(v engine.View, ship models.Ship, _ int) (hex.Coord, bool) {
	if h.consumeRejection() || gamemap.IsTriPrime(ship.Pos) {
		return hex.Coord{}, false
	}
	path := h.route(v, ship.Pos)
	if len(path) < 2 {
		return hex.Coord{}, false
	}
	if err := engine.ValidateMove(v.Board(), v.Occupation(), v.Self(), ship.Pos, path[1], false); err != nil {
		h.log.Debug().Err(err).Str("ship", ship.Label()).Msg("planned step no longer valid")
		return hex.Coord{}, false
	}
	return path[1], true
}

// route returns a path from start to the best reachable hex worth more than
// start, or nil.
func (h *Heuristic) route(v engine.View, start hex.Coord) []hex.Coord {
	board, occ, self := v.Board(), v.Occupation(), v.Self()
	here, _ := board.SectorAt(start)

	type goal struct {
		c     hex.Coord
		score int
	}
	var goals []goal
	for _, c := range board.AllHexes() {
		sector, _ := board.SectorAt(c)
		if sector.Boundary() || c == start {
			continue
		}
		if _, held := occ.OwnerAt(c); held {
			continue
		}
		score := 2*sector.Level - start.Distance(c)
		if score > 2*here.Level {
			goals = append(goals, goal{c, score})
		}
	}
	sort.SliceStable(goals, func(i, j int) bool { return goals[i].score > goals[j].score })

	for _, g := range goals {
		passable := func(c hex.Coord) bool {
			sector, ok := board.SectorAt(c)
			if !ok || sector.Boundary() {
				return false
			}
			if owner, held := occ.OwnerAt(c); held && owner != self {
				return false
			}
			// Tri-Prime may only end a path.
			return !gamemap.IsTriPrime(c) || c == g.c
		}
		if path := hex.AStar(start, g.c, hex.NeighborsIn(passable), nil); path != nil {
			return path
		}
	}
	return nil
}

// ChooseAttack picks a random target it can win and commits enough ships to
// take it.
func (h *Heuristic) ChooseAttack(v engine.View, ships []models.Ship, _ int) (engine.AttackChoice, bool) {
	if h.consumeRejection() {
		return engine.AttackChoice{}, false
	}
	board, occ, self := v.Board(), v.Occupation(), v.Self()

	type option struct {
		lead      models.Ship
		target    hex.Coord
		force     int
		defenders int
	}
	var options []option
	seen := map[[2]hex.Coord]bool{}
	for _, s := range ships {
		for _, nb := range board.Neighbors(s.Pos) {
			key := [2]hex.Coord{s.Pos, nb}
			if seen[key] {
				continue
			}
			seen[key] = true
			if engine.ValidateAttackTarget(board, occ, self, s.Pos, nb) != nil {
				continue
			}
			force, defenders := occ.Count(s.Pos), occ.Count(nb)
			if force > defenders {
				options = append(options, option{s, nb, force, defenders})
			}
		}
	}
	if len(options) == 0 {
		return engine.AttackChoice{}, false
	}
	o := options[h.rng.IntN(len(options))]
	commit := o.defenders + 1 + h.rng.IntN(o.force-o.defenders)
	return engine.AttackChoice{ShipID: o.lead.ID, Target: o.target, Commit: commit}, true
}

// ChooseSectorCard drafts the card worth the most, breaking ties at random.
func (h *Heuristic) ChooseSectorCard(v engine.View, available []string) string {
	best, bestScore := []string(nil), -1
	for _, card := range available {
		score := engine.ScoreCard(v.Board(), v.Occupation(), v.Self(), card, false)
		switch {
		case score > bestScore:
			best, bestScore = []string{card}, score
		case score == bestScore:
			best = append(best, card)
		}
	}
	return best[h.rng.IntN(len(best))]
}

// Reject records that the last answer was refused.
func (h *Heuristic) Reject(err error) {
	h.log.Debug().Err(err).Msg("heuristic choice rejected")
	h.rejected = true
}

func (h *Heuristic) consumeRejection() bool {
	r := h.rejected
	h.rejected = false
	return r
}
