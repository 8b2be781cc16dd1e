package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gravitas-games/triprime/internal/gamemap"
	"github.com/gravitas-games/triprime/pkg/hex"
	"github.com/gravitas-games/triprime/pkg/models"
	"github.com/rs/zerolog"
)

const (
	// DefaultMaxRounds matches the standard game length.
	DefaultMaxRounds = 9
	// DefaultPlacementShips is how many ships each opening placement puts down.
	DefaultPlacementShips = 2
)

// Seat pairs a player with the source of its decisions.
type Seat struct {
	Player *models.Player
	Source DecisionSource
}

// Options configures a game.
type Options struct {
	ID             string
	Board          *gamemap.Board
	MaxRounds      int
	PlacementShips int
	Sink           Sink
	Logger         zerolog.Logger
}

// Game runs the round state machine for one table. Exported methods are
// serialized; a game has a single logical writer.
type Game struct {
	ID string

	mu      sync.Mutex
	board   *gamemap.Board
	ledger  *gamemap.Ledger
	players []*models.Player
	sources map[models.PlayerID]DecisionSource

	matrix    UsageMatrix
	round     int
	maxRounds int
	phase     Phase
	slot      int

	placementShips int
	placed         bool
	result         *Result

	sink Sink
	log  zerolog.Logger
}

// New creates a game for 1-3 seats with distinct player ids.
func New(seats []Seat, opts Options) (*Game, error) {
	if opts.Board == nil {
		return nil, errors.New("board is required")
	}
	if len(seats) == 0 || len(seats) > 3 {
		return nil, fmt.Errorf("need 1 to 3 players, got %d", len(seats))
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.PlacementShips <= 0 {
		opts.PlacementShips = DefaultPlacementShips
	}
	if opts.Sink == nil {
		opts.Sink = NullSink{}
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}

	g := &Game{
		ID:             opts.ID,
		board:          opts.Board,
		ledger:         gamemap.NewLedger(),
		sources:        make(map[models.PlayerID]DecisionSource, len(seats)),
		maxRounds:      opts.MaxRounds,
		placementShips: opts.PlacementShips,
		round:          1,
		phase:          PhaseSetup,
		sink:           opts.Sink,
		log:            opts.Logger.With().Str("game", opts.ID).Logger(),
	}
	for _, s := range seats {
		if s.Player == nil || s.Source == nil {
			return nil, errors.New("seat needs a player and a decision source")
		}
		if _, dup := g.sources[s.Player.ID]; dup {
			return nil, fmt.Errorf("duplicate player id %d", s.Player.ID)
		}
		if _, err := models.ColorFor(s.Player.ID); err != nil {
			return nil, err
		}
		g.players = append(g.players, s.Player)
		g.sources[s.Player.ID] = s.Source
	}
	return g, nil
}

// Run places the opening fleets if needed and plays rounds until the game ends.
func (g *Game) Run() Result {
	g.Setup()
	for {
		if res, done := g.PlayRound(); done {
			return *res
		}
	}
}

// Setup performs the opening placement: every player places once in seat
// order, then once more in reverse order. It is a no-op after the first call.
func (g *Game) Setup() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.placed {
		return
	}
	g.phase = PhaseSetup
	g.log.Info().Str("cards", g.board.CardSummary()).Msg("board generated")

	taken := make(map[string]bool)
	order := append([]*models.Player(nil), g.players...)
	for i := len(g.players) - 1; i >= 0; i-- {
		order = append(order, g.players[i])
	}
	for _, p := range order {
		g.placeOpening(p, taken)
	}
	g.placed = true
}

// PlayRound runs one complete round. When the round limit is reached it also
// computes the final tally and returns the result with done set.
func (g *Game) PlayRound() (*Result, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.result != nil {
		return g.result, true
	}
	g.placed = true

	log := g.log.With().Int("round", g.round).Logger()
	log.Info().Msg("round started")

	g.phase = PhaseAwaitingOrders
	g.collectOrders()

	g.phase = PhaseMatrixUpdated
	orders := make([]models.CommandOrder, 0, len(g.players))
	for _, p := range g.players {
		orders = append(orders, p.Order)
	}
	g.matrix = BuildMatrix(orders)
	m := g.matrix
	g.publish(Event{Type: EventMatrixUpdated, Matrix: &m})

	g.phase = PhaseExecutingSlot
	for slot := 0; slot < 3; slot++ {
		g.slot = slot
		for _, p := range g.players {
			g.execute(p, p.Order[slot], slot)
		}
	}

	g.phase = PhaseSustaining
	destroyed := g.sustain()

	g.phase = PhaseDrafting
	drafts := g.draft()

	g.phase = PhaseRoundScored
	report := &RoundReport{Round: g.round, Drafts: drafts, Scores: g.scores(), Destroyed: destroyed}
	g.publish(Event{Type: EventRoundScored, Report: report})

	if g.round >= g.maxRounds {
		g.finish()
		return g.result, true
	}
	g.round++
	return nil, false
}

func (g *Game) collectOrders() {
	for _, p := range g.players {
		p.ResetMoves()
		p.StartRound()
		src := g.sources[p.ID]
		for {
			order := src.ChooseCommandOrder(g.view(p))
			if err := order.Validate(); err != nil {
				g.reject(p, fmt.Errorf("%w: %v", ErrBadOrder, err))
				continue
			}
			p.Order = order
			break
		}
		g.log.Debug().Int("player", int(p.ID)).Stringer("order", p.Order).Msg("command order")
	}
}

func (g *Game) execute(p *models.Player, cmd models.CommandType, slot int) {
	budget := g.matrix.Budget(cmd, slot)
	g.log.Debug().Int("round", g.round).Int("player", int(p.ID)).Int("slot", slot+1).
		Stringer("command", cmd).Int("budget", budget).Msg("executing command")
	switch cmd {
	case models.Expand:
		g.expand(p, budget)
	case models.Explore:
		g.explore(p, budget)
	case models.Exterminate:
		g.exterminate(p, budget)
	}
}

// Accessors for hosts; each takes the game lock.

// Round returns the current round number (1-based).
func (g *Game) Round() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.round
}

// Phase returns the current state-machine phase.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Matrix returns the current round's usage matrix.
func (g *Game) Matrix() UsageMatrix {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.matrix
}

// Scores returns every player's standing.
func (g *Game) Scores() []PlayerScore {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scores()
}

// Occupation returns a snapshot of every hex.
func (g *Game) Occupation() []HexState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

// Board returns the immutable board.
func (g *Game) Board() *gamemap.Board { return g.board }

// Internal helpers; callers hold g.mu.

func (g *Game) view(p *models.Player) View { return playerView{g: g, id: p.ID} }

func (g *Game) player(id models.PlayerID) *models.Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) reject(p *models.Player, err error) {
	g.log.Debug().Int("player", int(p.ID)).Err(err).Msg("choice rejected")
	if r, ok := g.sources[p.ID].(Rejecter); ok {
		r.Reject(err)
	}
}

// place adds ship to the ledger at c; an owner clash is a bug and panics.
func (g *Game) place(c hex.Coord, ship *models.Ship) {
	ship.Pos = c
	if err := g.ledger.AddShip(c, ship); err != nil {
		panic(err)
	}
}

func (g *Game) moveShip(ship *models.Ship, to hex.Coord) {
	g.ledger.RemoveShip(ship.Pos, ship)
	g.place(to, ship)
}

func (g *Game) destroy(ship *models.Ship) {
	g.ledger.RemoveShip(ship.Pos, ship)
	if owner := g.player(ship.Owner); owner != nil {
		owner.RemoveShip(ship)
	}
}

func (g *Game) publish(e Event) {
	e.GameID = g.ID
	e.Round = g.round
	e.Phase = g.phase
	e.Timestamp = time.Now()
	g.sink.Publish(e)
}

func (g *Game) publishOccupation() {
	g.publish(Event{Type: EventOccupationChanged, Occupation: g.snapshot()})
}

func (g *Game) snapshot() []HexState {
	all := g.board.AllHexes()
	out := make([]HexState, 0, len(all))
	for _, c := range all {
		sector, _ := g.board.SectorAt(c)
		m, _ := g.board.Membership(c)
		st := HexState{Coord: c, Level: sector.Level, Region: m.Region.String(), Card: m.Card}
		if occ, ok := g.ledger.InfoAt(c); ok {
			st.Owner = occ.Owner
			for _, s := range occ.Ships {
				st.Ships = append(st.Ships, s.Label())
			}
		}
		out = append(out, st)
	}
	return out
}

func (g *Game) scores() []PlayerScore {
	out := make([]PlayerScore, 0, len(g.players))
	for _, p := range g.players {
		out = append(out, PlayerScore{
			ID:    p.ID,
			Name:  p.Name,
			Color: p.Color,
			Round: p.RoundScore,
			Total: p.Score,
			Ships: len(p.Ships),
		})
	}
	return out
}
