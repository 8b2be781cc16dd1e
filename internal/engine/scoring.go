package engine

import (
	"slices"

	"github.com/gravitas-games/triprime/internal/gamemap"
	"github.com/gravitas-games/triprime/pkg/models"
)

// TriPrimeBonus is added to a draft when the drafter holds a Tri-Prime hex.
const TriPrimeBonus = 3

// ScoreCard sums the levels of the card's hexes held by player. With
// withBonus set, holding any Tri-Prime hex adds TriPrimeBonus.
func ScoreCard(board *gamemap.Board, occ OccupationReader, player models.PlayerID, card string, withBonus bool) int {
	score := 0
	for _, c := range board.Cluster(card) {
		if owner, held := occ.OwnerAt(c); held && owner == player {
			sector, _ := board.SectorAt(c)
			score += sector.Level
		}
	}
	if withBonus && occ.ControlsTriPrime(player) {
		score += TriPrimeBonus
	}
	return score
}

// FinalBonus is twice the level of every hex player holds at game end.
func FinalBonus(board *gamemap.Board, occ OccupationReader, player models.PlayerID) int {
	bonus := 0
	for _, c := range occ.ControlledBy(player) {
		sector, _ := board.SectorAt(c)
		bonus += 2 * sector.Level
	}
	return bonus
}

// Winners returns every player sharing the highest total.
func Winners(players []*models.Player) []models.PlayerID {
	var out []models.PlayerID
	best := 0
	for i, p := range players {
		switch {
		case i == 0 || p.Score > best:
			best = p.Score
			out = []models.PlayerID{p.ID}
		case p.Score == best:
			out = append(out, p.ID)
		}
	}
	return out
}

// draft runs the scoring draft: each player in seat order takes one card,
// two when holding Tri-Prime, from the eight without replacement.
func (g *Game) draft() []Draft {
	available := slices.Clone(gamemap.CardLabels)
	var drafts []Draft
	for _, p := range g.players {
		picks := 1
		if g.ledger.ControlsTriPrime(p.ID) {
			picks = 2
		}
		src := g.sources[p.ID]
		for i := 0; i < picks; i++ {
			if len(available) == 0 {
				g.log.Debug().Int("player", int(p.ID)).Msg("no card left to draft")
				break
			}
			var card string
			for {
				card = src.ChooseSectorCard(g.view(p), slices.Clone(available))
				if slices.Contains(available, card) {
					break
				}
				g.reject(p, ErrUnavailable)
			}
			available = slices.DeleteFunc(available, func(s string) bool { return s == card })

			points := ScoreCard(g.board, g.ledger, p.ID, card, i == 0)
			p.AddScore(g.round, points)
			drafts = append(drafts, Draft{Player: p.ID, Card: card, Points: points})
			g.log.Info().Int("round", g.round).Int("player", int(p.ID)).Str("card", card).
				Int("points", points).Msg("card drafted")
		}
	}
	return drafts
}

// sustain destroys ships beyond each hex's capacity and returns how many died.
func (g *Game) sustain() int {
	destroyed := 0
	for _, c := range g.ledger.Occupied() {
		occ, _ := g.ledger.InfoAt(c)
		sector, _ := g.board.SectorAt(c)
		excess := Excess(sector, len(occ.Ships))
		if excess == 0 {
			continue
		}
		for _, s := range occ.Ships[len(occ.Ships)-excess:] {
			g.destroy(s)
		}
		destroyed += excess
		g.log.Debug().Stringer("hex", c).Int("player", int(occ.Owner)).Int("destroyed", excess).Msg("unsustained ships lost")
	}
	if destroyed > 0 {
		g.publishOccupation()
	}
	return destroyed
}

// finish adds the final bonus, picks the winners and publishes the result.
func (g *Game) finish() {
	bonus := make(map[models.PlayerID]int, len(g.players))
	for _, p := range g.players {
		b := FinalBonus(g.board, g.ledger, p.ID)
		p.Score += b
		bonus[p.ID] = b
	}
	g.phase = PhaseGameEnded
	g.result = &Result{
		Rounds:     g.round,
		Scores:     g.scores(),
		FinalBonus: bonus,
		Winners:    Winners(g.players),
	}
	g.log.Info().Interface("winners", g.result.Winners).Msg("game ended")
	g.publish(Event{Type: EventGameEnded, Result: g.result})
}
