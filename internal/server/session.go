package server

import (
	"sync"
	"time"

	"github.com/gravitas-games/triprime/internal/engine"
	"github.com/gravitas-games/triprime/internal/network"
	"github.com/gravitas-games/triprime/pkg/hex"
	"github.com/gravitas-games/triprime/pkg/models"
	"github.com/rs/zerolog"
)

// Session states.
const (
	StateWaiting = "waiting"
	StateRunning = "running"
	StateEnded   = "ended"
)

// Session is the spectator hub of one game. It caches the latest state for
// newcomers and fans every game event out to connected spectators.
type Session struct {
	ID        string
	CreatedAt time.Time

	// Spectator management
	connections map[string]*Connection // spectatorID -> Connection
	mu          sync.RWMutex

	// Cached game state
	hexes  []network.HexPayload
	scores []network.ScorePayload
	matrix *network.MatrixPayload
	status network.SessionStatus

	hexSize float64
	log     zerolog.Logger
}

// NewSession creates a hub for the game with the given id.
func NewSession(gameID string, hexSize float64, log zerolog.Logger) *Session {
	return &Session{
		ID:          gameID,
		CreatedAt:   time.Now(),
		connections: make(map[string]*Connection),
		hexSize:     hexSize,
		log:         log,
		status:      network.SessionStatus{State: StateWaiting},
	}
}

// AddSpectator registers conn and queues its welcome message.
func (s *Session) AddSpectator(conn *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connections[conn.ID] = conn
	s.status.Spectators = len(s.connections)

	conn.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeWelcome,
		Payload: network.WelcomePayload{
			SpectatorID:   conn.ID,
			GameID:        s.ID,
			SessionStatus: s.statusLocked(),
			Hexes:         s.hexes,
			Scores:        s.scores,
			Matrix:        s.matrix,
		},
	})
	s.log.Info().Str("spectator", conn.ID).Int("spectators", len(s.connections)).Msg("spectator joined")
}

// RemoveSpectator unregisters a spectator. No message is sent to it afterwards.
func (s *Session) RemoveSpectator(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.connections[id]; exists {
		delete(s.connections, id)
		s.status.Spectators = len(s.connections)
		s.log.Info().Str("spectator", id).Int("spectators", len(s.connections)).Msg("spectator left")
	}
}

// Publish implements engine.Sink.
func (s *Session) Publish(event engine.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.Round = event.Round
	s.status.Phase = event.Phase.String()
	if s.status.State == StateWaiting {
		s.status.State = StateRunning
	}

	var msg *network.ServerMessage
	switch event.Type {
	case engine.EventOccupationChanged:
		s.hexes = s.hexPayloads(event.Occupation)
		msg = &network.ServerMessage{
			Type:    network.MsgTypeOccupation,
			Payload: network.OccupationPayload{Round: event.Round, Phase: s.status.Phase, Hexes: s.hexes},
		}
	case engine.EventMatrixUpdated:
		if event.Matrix == nil {
			return
		}
		s.matrix = matrixPayload(event.Round, *event.Matrix)
		msg = &network.ServerMessage{Type: network.MsgTypeMatrix, Payload: s.matrix}
	case engine.EventRoundScored:
		if event.Report == nil {
			return
		}
		s.scores = scorePayloads(event.Report.Scores)
		p := network.RoundScoredPayload{Round: event.Report.Round, Scores: s.scores, Destroyed: event.Report.Destroyed}
		for _, d := range event.Report.Drafts {
			p.Drafts = append(p.Drafts, network.DraftPayload{PlayerID: int(d.Player), Card: d.Card, Points: d.Points})
		}
		msg = &network.ServerMessage{Type: network.MsgTypeRoundScored, Payload: p}
	case engine.EventGameEnded:
		if event.Result == nil {
			return
		}
		s.status.State = StateEnded
		s.scores = scorePayloads(event.Result.Scores)
		p := network.GameEndedPayload{
			Rounds:     event.Result.Rounds,
			Scores:     s.scores,
			FinalBonus: make(map[int]int, len(event.Result.FinalBonus)),
		}
		for id, b := range event.Result.FinalBonus {
			p.FinalBonus[int(id)] = b
		}
		for _, id := range event.Result.Winners {
			p.Winners = append(p.Winners, int(id))
		}
		msg = &network.ServerMessage{Type: network.MsgTypeGameEnded, Payload: p}
	default:
		s.log.Warn().Stringer("event", event.Type).Msg("unknown event type")
		return
	}

	for _, conn := range s.connections {
		conn.SendMessage(msg)
	}
}

// GetStatus returns the current session status
func (s *Session) GetStatus() network.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusLocked()
}

func (s *Session) statusLocked() network.SessionStatus {
	status := s.status
	status.Uptime = int64(time.Since(s.CreatedAt).Seconds())
	return status
}

func (s *Session) hexPayloads(states []engine.HexState) []network.HexPayload {
	out := make([]network.HexPayload, 0, len(states))
	for _, st := range states {
		x, y := hex.ToPixel(st.Coord, s.hexSize)
		out = append(out, network.HexPayload{
			Q: st.Coord.Q, R: st.Coord.R, S: st.Coord.S,
			X: x, Y: y,
			Level:  st.Level,
			Region: st.Region,
			Card:   st.Card,
			Owner:  int(st.Owner),
			Ships:  st.Ships,
		})
	}
	return out
}

func matrixPayload(round int, m engine.UsageMatrix) *network.MatrixPayload {
	p := &network.MatrixPayload{Round: round, Usage: m}
	for _, c := range models.CommandTypes {
		p.Commands = append(p.Commands, c.String())
		for slot := 0; slot < 3; slot++ {
			p.Budgets[c.Index()][slot] = m.Budget(c, slot)
		}
	}
	return p
}

func scorePayloads(scores []engine.PlayerScore) []network.ScorePayload {
	out := make([]network.ScorePayload, 0, len(scores))
	for _, ps := range scores {
		out = append(out, network.ScorePayload{
			PlayerID: int(ps.ID),
			Name:     ps.Name,
			Color:    ps.Color,
			Round:    ps.Round,
			Total:    ps.Total,
			Ships:    ps.Ships,
		})
	}
	return out
}
