package engine

import (
	"slices"

	"github.com/gravitas-games/triprime/internal/gamemap"
	"github.com/gravitas-games/triprime/pkg/hex"
	"github.com/gravitas-games/triprime/pkg/models"
)

// placeOpening lets p claim a card nobody has claimed yet and drop the
// opening ships on one of its level-1 hexes.
func (g *Game) placeOpening(p *models.Player, taken map[string]bool) {
	var free []string
	for _, label := range gamemap.CardLabels {
		if !taken[label] {
			free = append(free, label)
		}
	}
	if len(free) == 0 {
		g.log.Warn().Int("player", int(p.ID)).Msg("no free card left for placement")
		return
	}

	src := g.sources[p.ID]
	var card string
	for {
		card = src.ChooseSectorForPlacement(g.view(p), free)
		if slices.Contains(free, card) {
			break
		}
		g.reject(p, ErrUnavailable)
	}
	taken[card] = true

	var candidates []hex.Coord
	for _, c := range g.board.Cluster(card) {
		sector, _ := g.board.SectorAt(c)
		if sector.Level != 1 {
			continue
		}
		if owner, held := g.ledger.OwnerAt(c); held && owner != p.ID {
			continue
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		g.log.Warn().Int("player", int(p.ID)).Str("card", card).Msg("card has no free level 1 hex")
		return
	}

	var target hex.Coord
	for {
		target = src.ChooseHexForPlacement(g.view(p), candidates)
		if slices.Contains(candidates, target) {
			break
		}
		g.reject(p, ErrUnavailable)
	}
	for i := 0; i < g.placementShips; i++ {
		g.place(target, p.NewShip(target))
	}
	g.log.Info().Int("player", int(p.ID)).Str("card", card).Stringer("hex", target).
		Int("ships", g.placementShips).Msg("opening placement")
	g.publishOccupation()
}

// expand adds up to budget new ships onto hexes p already holds.
func (g *Game) expand(p *models.Player, budget int) {
	controlled := g.ledger.ControlledBy(p.ID)
	if len(controlled) == 0 {
		g.log.Debug().Int("player", int(p.ID)).Msg("expand skipped, no controlled hex")
		return
	}
	src := g.sources[p.ID]
	for remaining := budget; remaining > 0; {
		choice, ok := src.ChooseExpandTarget(g.view(p), controlled, remaining)
		if !ok {
			return
		}
		if owner, held := g.ledger.OwnerAt(choice.Target); !held || owner != p.ID {
			g.reject(p, ErrNotControlled)
			continue
		}
		if choice.Count <= 0 || choice.Count > remaining {
			g.reject(p, ErrBudget)
			continue
		}
		for i := 0; i < choice.Count; i++ {
			g.place(choice.Target, p.NewShip(choice.Target))
		}
		remaining -= choice.Count
		g.log.Debug().Int("player", int(p.ID)).Stringer("hex", choice.Target).Int("ships", choice.Count).Msg("expanded")
		g.publishOccupation()
	}
}

// explore gives every unmoved ship of p up to budget single-hex moves.
func (g *Game) explore(p *models.Player, budget int) {
	src := g.sources[p.ID]
	fleet := append([]*models.Ship(nil), p.Ships...)
	for _, ship := range fleet {
		if ship.Moved {
			continue
		}
		moves := 0
		for remaining := budget; remaining > 0; {
			target, ok := src.ChooseMoveTarget(g.view(p), *ship, remaining)
			if !ok {
				break
			}
			if err := ValidateMove(g.board, g.ledger, p.ID, ship.Pos, target, false); err != nil {
				g.reject(p, err)
				continue
			}
			g.moveShip(ship, target)
			remaining--
			moves++
			if gamemap.IsTriPrime(target) {
				// Tri-Prime ends the sequence.
				break
			}
		}
		if moves > 0 {
			ship.Moved = true
			g.log.Debug().Int("player", int(p.ID)).Str("ship", ship.Label()).Stringer("hex", ship.Pos).
				Int("moves", moves).Msg("ship moved")
			g.publishOccupation()
		}
	}
}

// exterminate lets p launch up to budget invasions.
func (g *Game) exterminate(p *models.Player, budget int) {
	src := g.sources[p.ID]
	for remaining := budget; remaining > 0 && len(p.Ships) > 0; {
		ships := make([]models.Ship, 0, len(p.Ships))
		for _, s := range p.Ships {
			ships = append(ships, *s)
		}
		choice, ok := src.ChooseAttack(g.view(p), ships, remaining)
		if !ok {
			return
		}
		committed, err := g.commitAttack(p, choice)
		if err != nil {
			g.reject(p, err)
			continue
		}
		g.invade(p, committed, choice.Target)
		remaining--
	}
}

// commitAttack validates choice and returns the committed ships, lead first.
func (g *Game) commitAttack(p *models.Player, choice AttackChoice) ([]*models.Ship, error) {
	lead, ok := p.Ship(choice.ShipID)
	if !ok {
		return nil, ErrUnknownShip
	}
	if err := ValidateAttackTarget(g.board, g.ledger, p.ID, lead.Pos, choice.Target); err != nil {
		return nil, err
	}
	commit := max(choice.Commit, 1)
	occ, _ := g.ledger.InfoAt(lead.Pos)
	if commit > len(occ.Ships) {
		return nil, ErrBudget
	}
	committed := []*models.Ship{lead}
	for _, s := range occ.Ships {
		if len(committed) == commit {
			break
		}
		if s != lead {
			committed = append(committed, s)
		}
	}
	return committed, nil
}

// invade resolves an attack of committed ships on target.
func (g *Game) invade(p *models.Player, committed []*models.Ship, target hex.Coord) Battle {
	defenders, _ := g.ledger.InfoAt(target)
	battle := Invade(len(committed), len(defenders.Ships))

	for _, s := range defenders.Ships[:battle.Losses] {
		g.destroy(s)
	}
	for _, s := range committed[:battle.Losses] {
		g.destroy(s)
	}
	survivors := committed[battle.Losses:]
	if battle.Outcome == OutcomeCaptured {
		for _, s := range survivors {
			g.moveShip(s, target)
			s.Moved = true
		}
	}

	g.log.Info().Int("round", g.round).Int("player", int(p.ID)).Stringer("hex", target).
		Int("defender", int(defenders.Owner)).Int("attackers", battle.Attackers).
		Int("defenders", battle.Defenders).Stringer("outcome", battle.Outcome).Msg("invasion")
	g.publishOccupation()
	return battle
}
