package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/gravitas-games/triprime/internal/gamemap"
	"github.com/gravitas-games/triprime/pkg/hex"
	"github.com/gravitas-games/triprime/pkg/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// script is a decision source that replays canned answers and falls back to
// the first option or a skip once they run out.
type script struct {
	orders     []models.CommandOrder
	placeCards []string
	placeHexes []hex.Coord
	expands    []ExpandChoice
	moves      map[int][]hex.Coord
	attacks    []AttackChoice
	cards      []string
	rejections []error
}

func (s *script) ChooseCommandOrder(View) models.CommandOrder {
	if len(s.orders) == 0 {
		return models.CommandOrder{models.Expand, models.Explore, models.Exterminate}
	}
	o := s.orders[0]
	s.orders = s.orders[1:]
	return o
}

func (s *script) ChooseSectorForPlacement(_ View, available []string) string {
	if len(s.placeCards) == 0 {
		return available[0]
	}
	c := s.placeCards[0]
	s.placeCards = s.placeCards[1:]
	return c
}

func (s *script) ChooseHexForPlacement(_ View, candidates []hex.Coord) hex.Coord {
	if len(s.placeHexes) == 0 {
		return candidates[0]
	}
	c := s.placeHexes[0]
	s.placeHexes = s.placeHexes[1:]
	return c
}

func (s *script) ChooseExpandTarget(View, []hex.Coord, int) (ExpandChoice, bool) {
	if len(s.expands) == 0 {
		return ExpandChoice{}, false
	}
	c := s.expands[0]
	s.expands = s.expands[1:]
	return c, true
}

func (s *script) ChooseMoveTarget(_ View, ship models.Ship, _ int) (hex.Coord, bool) {
	queue := s.moves[ship.ID]
	if len(queue) == 0 {
		return hex.Coord{}, false
	}
	s.moves[ship.ID] = queue[1:]
	return queue[0], true
}

func (s *script) ChooseAttack(View, []models.Ship, int) (AttackChoice, bool) {
	if len(s.attacks) == 0 {
		return AttackChoice{}, false
	}
	c := s.attacks[0]
	s.attacks = s.attacks[1:]
	return c, true
}

func (s *script) ChooseSectorCard(_ View, available []string) string {
	if len(s.cards) == 0 {
		return available[0]
	}
	c := s.cards[0]
	s.cards = s.cards[1:]
	return c
}

func (s *script) Reject(err error) { s.rejections = append(s.rejections, err) }

type recorder struct{ events []Event }

func (r *recorder) Publish(e Event) { r.events = append(r.events, e) }

func (r *recorder) count(t EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func testBoard(seed uint64) *gamemap.Board {
	return gamemap.NewBoard(rand.New(rand.NewPCG(seed, seed+1)))
}

// newTestGame seats n players (ids 1..n) driven by fresh scripts.
func newTestGame(t *testing.T, n int, opts Options) (*Game, []*script) {
	t.Helper()
	if opts.Board == nil {
		opts.Board = testBoard(7)
	}
	opts.Logger = zerolog.Nop()
	seats := make([]Seat, 0, n)
	scripts := make([]*script, 0, n)
	for i := 1; i <= n; i++ {
		p, err := models.NewPlayer(models.PlayerID(i), "p")
		require.NoError(t, err)
		s := &script{moves: map[int][]hex.Coord{}}
		seats = append(seats, Seat{Player: p, Source: s})
		scripts = append(scripts, s)
	}
	g, err := New(seats, opts)
	require.NoError(t, err)
	return g, scripts
}

// put drops count new ships of player id at c.
func put(g *Game, id models.PlayerID, c hex.Coord, count int) []*models.Ship {
	p := g.player(id)
	var out []*models.Ship
	for i := 0; i < count; i++ {
		s := p.NewShip(c)
		g.place(c, s)
		out = append(out, s)
	}
	return out
}

// levelIn returns the hexes of card at the given level.
func levelIn(b *gamemap.Board, card string, level int) []hex.Coord {
	var out []hex.Coord
	for _, c := range b.Cluster(card) {
		if s, _ := b.SectorAt(c); s.Level == level {
			out = append(out, c)
		}
	}
	return out
}
