package decision

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/gravitas-games/triprime/internal/engine"
	"github.com/gravitas-games/triprime/internal/gamemap"
	"github.com/gravitas-games/triprime/pkg/hex"
	"github.com/gravitas-games/triprime/pkg/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeView struct {
	self   models.PlayerID
	board  *gamemap.Board
	ledger *gamemap.Ledger
}

func (v fakeView) Self() models.PlayerID               { return v.self }
func (v fakeView) Round() int                          { return 1 }
func (v fakeView) Board() *gamemap.Board               { return v.board }
func (v fakeView) Occupation() engine.OccupationReader { return v.ledger }
func (v fakeView) Matrix() engine.UsageMatrix          { return engine.UsageMatrix{} }

func seeded(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, seed*31+7)) }

func newView(self models.PlayerID) fakeView {
	return fakeView{self: self, board: gamemap.NewBoard(seeded(5)), ledger: gamemap.NewLedger()}
}

// stack puts n ships of p at c and returns them.
func stack(t *testing.T, l *gamemap.Ledger, p *models.Player, c hex.Coord, n int) []*models.Ship {
	t.Helper()
	var out []*models.Ship
	for i := 0; i < n; i++ {
		s := p.NewShip(c)
		require.NoError(t, l.AddShip(c, s))
		out = append(out, s)
	}
	return out
}

func TestHeuristicOrderIsAlwaysValid(t *testing.T) {
	h := NewHeuristic(seeded(1), zerolog.Nop())
	seen := map[models.CommandOrder]bool{}
	for i := 0; i < 200; i++ {
		o := h.ChooseCommandOrder(newView(1))
		require.NoError(t, o.Validate())
		seen[o] = true
	}
	assert.Len(t, seen, 6, "every permutation shows up")
}

func TestHeuristicHeadsForTriPrime(t *testing.T) {
	v := newView(1)
	me, _ := models.NewPlayer(1, "Al")
	ship := stack(t, v.ledger, me, hex.MustNew(-1, -1, 2), 1)[0]

	h := NewHeuristic(seeded(2), zerolog.Nop())
	next, ok := h.ChooseMoveTarget(v, *ship, 3)
	require.True(t, ok)
	assert.Equal(t, hex.MustNew(0, -1, 1), next)

	ship.Pos = next
	_, ok = h.ChooseMoveTarget(v, *ship, 2)
	assert.False(t, ok, "a ship on Tri-Prime stays")
}

func TestHeuristicRouteAvoidsEnemies(t *testing.T) {
	v := newView(1)
	me, _ := models.NewPlayer(1, "Al")
	foe, _ := models.NewPlayer(2, "Bo")
	start := hex.MustNew(-1, -1, 2)
	ship := stack(t, v.ledger, me, start, 1)[0]
	for _, c := range gamemap.TriPrimeHexes {
		stack(t, v.ledger, foe, c, 1)
	}

	h := NewHeuristic(seeded(3), zerolog.Nop())
	next, ok := h.ChooseMoveTarget(v, *ship, 3)
	if ok {
		assert.NoError(t, engine.ValidateMove(v.board, v.ledger, 1, start, next, false))
		assert.False(t, gamemap.IsTriPrime(next))
	}
}

func TestHeuristicAttacksOnlyWinnableTargets(t *testing.T) {
	v := newView(1)
	me, _ := models.NewPlayer(1, "Al")
	foe, _ := models.NewPlayer(2, "Bo")
	center := hex.MustNew(0, 0, 0)
	weak := hex.MustNew(1, -1, 0)
	mine := stack(t, v.ledger, me, center, 3)
	stack(t, v.ledger, foe, weak, 1)
	for _, c := range []hex.Coord{hex.MustNew(1, 0, -1), hex.MustNew(0, -1, 1), hex.MustNew(-1, 1, 0)} {
		stack(t, v.ledger, foe, c, 5)
	}
	ships := make([]models.Ship, 0, len(mine))
	for _, s := range mine {
		ships = append(ships, *s)
	}

	h := NewHeuristic(seeded(4), zerolog.Nop())
	for i := 0; i < 20; i++ {
		choice, ok := h.ChooseAttack(v, ships, 1)
		require.True(t, ok)
		assert.Equal(t, weak, choice.Target)
		assert.GreaterOrEqual(t, choice.Commit, 2)
		assert.LessOrEqual(t, choice.Commit, 3)
	}
}

func TestHeuristicSkipsAfterRejection(t *testing.T) {
	v := newView(1)
	me, _ := models.NewPlayer(1, "Al")
	home := hex.MustNew(0, 0, 0)
	stack(t, v.ledger, me, home, 1)

	h := NewHeuristic(seeded(5), zerolog.Nop())
	choice, ok := h.ChooseExpandTarget(v, []hex.Coord{home}, 2)
	require.True(t, ok)
	assert.Equal(t, engine.ExpandChoice{Target: home, Count: 1}, choice)

	h.Reject(engine.ErrBudget)
	_, ok = h.ChooseExpandTarget(v, []hex.Coord{home}, 2)
	assert.False(t, ok)
	_, ok = h.ChooseExpandTarget(v, []hex.Coord{home}, 2)
	assert.True(t, ok)
}

func TestHeuristicExpandStopsWhenFull(t *testing.T) {
	v := newView(1)
	me, _ := models.NewPlayer(1, "Al")
	home := hex.MustNew(0, 0, 0)
	stack(t, v.ledger, me, home, 4)

	h := NewHeuristic(seeded(6), zerolog.Nop())
	_, ok := h.ChooseExpandTarget(v, []hex.Coord{home}, 3)
	assert.False(t, ok)
}

func TestHeuristicDraftsBestCard(t *testing.T) {
	v := newView(1)
	me, _ := models.NewPlayer(1, "Al")
	var lvl2 hex.Coord
	for _, c := range v.board.Cluster("g") {
		if s, _ := v.board.SectorAt(c); s.Level == 2 {
			lvl2 = c
		}
	}
	stack(t, v.ledger, me, lvl2, 1)

	h := NewHeuristic(seeded(7), zerolog.Nop())
	assert.Equal(t, "g", h.ChooseSectorCard(v, []string{"a", "b", "g", "h"}))
}

func TestConsoleReadsChoices(t *testing.T) {
	v := newView(1)
	in := strings.NewReader(strings.Join([]string{
		"explore 1 t",
		"c",
		"2",
		"nonsense",
		"0 0 0 2",
		"skip",
		"(0, -1, 1)",
		"3 1 -1 0 2",
		"B",
	}, "\n") + "\n")
	var out bytes.Buffer
	fb := &Scripted{}
	c := NewConsole("Al", in, &out, fb, zerolog.Nop())

	assert.Equal(t, models.CommandOrder{models.Explore, models.Expand, models.Exterminate}, c.ChooseCommandOrder(v))
	assert.Equal(t, "c", c.ChooseSectorForPlacement(v, []string{"b", "c"}))
	cands := []hex.Coord{hex.MustNew(-2, 0, 2), hex.MustNew(-3, 1, 2)}
	assert.Equal(t, cands[1], c.ChooseHexForPlacement(v, cands))

	exp, ok := c.ChooseExpandTarget(v, nil, 3)
	require.True(t, ok)
	assert.Equal(t, engine.ExpandChoice{Target: hex.MustNew(0, 0, 0), Count: 2}, exp)
	assert.Contains(t, out.String(), "expected 3 to 4 numbers")

	_, ok = c.ChooseExpandTarget(v, nil, 1)
	assert.False(t, ok)

	target, ok := c.ChooseMoveTarget(v, models.Ship{ID: 1, Owner: 1}, 2)
	require.True(t, ok)
	assert.Equal(t, hex.MustNew(0, -1, 1), target)

	atk, ok := c.ChooseAttack(v, nil, 1)
	require.True(t, ok)
	assert.Equal(t, engine.AttackChoice{ShipID: 3, Target: hex.MustNew(1, -1, 0), Commit: 2}, atk)

	assert.Equal(t, "b", c.ChooseSectorCard(v, []string{"a", "b"}))

	c.Reject(engine.ErrOccupied)
	assert.Contains(t, out.String(), "rejected: ")
}

func TestConsoleFallsBackWhenInputCloses(t *testing.T) {
	v := newView(1)
	fb := &Scripted{Cards: []string{"h"}}
	c := NewConsole("Al", strings.NewReader(""), &bytes.Buffer{}, fb, zerolog.Nop())

	assert.Equal(t, "h", c.ChooseSectorCard(v, []string{"a", "h"}))
	assert.Equal(t, models.CommandOrder(models.CommandTypes), c.ChooseCommandOrder(v))
	_, ok := c.ChooseMoveTarget(v, models.Ship{ID: 1}, 1)
	assert.False(t, ok)

	c.Reject(engine.ErrUnavailable)
	assert.Len(t, fb.Rejections, 1)
}

func TestConsoleBadOrderIsRejectedByGame(t *testing.T) {
	v := newView(1)
	c := NewConsole("Al", strings.NewReader("1 1 2\nfly\n"), &bytes.Buffer{}, &Scripted{}, zerolog.Nop())
	assert.Error(t, c.ChooseCommandOrder(v).Validate())
	assert.Error(t, c.ChooseCommandOrder(v).Validate())
}

func TestScriptedHandsOverToFallback(t *testing.T) {
	v := newView(1)
	h := NewHeuristic(seeded(8), zerolog.Nop())
	s := &Scripted{Cards: []string{"a"}, Fallback: h}

	assert.Equal(t, "a", s.ChooseSectorCard(v, []string{"a", "b"}))
	s.Reject(engine.ErrUnavailable)
	assert.False(t, h.rejected, "scripted answers are not charged to the fallback")

	s.ChooseSectorCard(v, []string{"a", "b"})
	s.Reject(engine.ErrUnavailable)
	assert.True(t, h.rejected)
	assert.Len(t, s.Rejections, 2)
}

func TestHeuristicGamesComplete(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		rng := seeded(seed)
		var seats []engine.Seat
		for id := models.PlayerID(1); id <= 3; id++ {
			p, err := models.NewPlayer(id, "bot")
			require.NoError(t, err)
			seats = append(seats, engine.Seat{Player: p, Source: NewHeuristic(rng, zerolog.Nop())})
		}
		board := gamemap.NewBoard(rng)

		var scored []engine.Event
		sink := engine.SinkFunc(func(e engine.Event) {
			if e.Type == engine.EventRoundScored {
				scored = append(scored, e)
			}
		})
		g, err := engine.New(seats, engine.Options{Board: board, MaxRounds: 4, Sink: sink, Logger: zerolog.Nop()})
		require.NoError(t, err)

		res := g.Run()
		assert.Equal(t, 4, res.Rounds)
		assert.NotEmpty(t, res.Winners)
		assert.Len(t, scored, 4)

		// After every round each hex sustains its ships and fleets match the board.
		ships := map[models.PlayerID]int{}
		for _, st := range g.Occupation() {
			sector, _ := board.SectorAt(st.Coord)
			assert.LessOrEqual(t, len(st.Ships), sector.Capacity(), "seed %d hex %v", seed, st.Coord)
			if len(st.Ships) > 0 {
				assert.False(t, sector.Boundary())
				ships[st.Owner] += len(st.Ships)
			}
		}
		for _, s := range res.Scores {
			assert.Equal(t, s.Ships, ships[s.ID], "seed %d player %d", seed, s.ID)
		}
	}
}
