package engine

import (
	"time"

	"github.com/gravitas-games/triprime/pkg/hex"
	"github.com/gravitas-games/triprime/pkg/models"
	"github.com/rs/zerolog"
)

// EventType represents the type of game event.
type EventType int

const (
	// EventOccupationChanged is emitted after ships appear, move or die.
	EventOccupationChanged EventType = iota
	// EventMatrixUpdated is emitted once the round's usage matrix is built.
	EventMatrixUpdated
	// EventRoundScored is emitted after the scoring draft.
	EventRoundScored
	// EventGameEnded is emitted once final scores are known.
	EventGameEnded
)

// String returns a human-readable representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventOccupationChanged:
		return "OccupationChanged"
	case EventMatrixUpdated:
		return "MatrixUpdated"
	case EventRoundScored:
		return "RoundScored"
	case EventGameEnded:
		return "GameEnded"
	default:
		return "Unknown"
	}
}

// HexState is one hex as seen by presentation code.
type HexState struct {
	Coord  hex.Coord       `json:"coord"`
	Level  int             `json:"level"`
	Owner  models.PlayerID `json:"owner,omitempty"`
	Ships  []string        `json:"ships,omitempty"`
	Region string          `json:"region"`
	Card   string          `json:"card,omitempty"`
}

// PlayerScore is a player's standing.
type PlayerScore struct {
	ID    models.PlayerID `json:"id"`
	Name  string          `json:"name"`
	Color string          `json:"color"`
	Round int             `json:"round"`
	Total int             `json:"total"`
	Ships int             `json:"ships"`
}

// Draft records one scoring card pick.
type Draft struct {
	Player models.PlayerID `json:"player"`
	Card   string          `json:"card"`
	Points int             `json:"points"`
}

// RoundReport summarises a finished round.
type RoundReport struct {
	Round     int           `json:"round"`
	Drafts    []Draft       `json:"drafts"`
	Scores    []PlayerScore `json:"scores"`
	Destroyed int           `json:"destroyed"`
}

// Result is the outcome of a finished game.
type Result struct {
	Rounds     int                     `json:"rounds"`
	Scores     []PlayerScore           `json:"scores"`
	FinalBonus map[models.PlayerID]int `json:"final_bonus"`
	Winners    []models.PlayerID       `json:"winners"`
}

// Event is delivered to presentation sinks.
type Event struct {
	Type       EventType    `json:"type"`
	GameID     string       `json:"game_id"`
	Round      int          `json:"round"`
	Phase      Phase        `json:"phase"`
	Timestamp  time.Time    `json:"timestamp"`
	Occupation []HexState   `json:"occupation,omitempty"`
	Matrix     *UsageMatrix `json:"matrix,omitempty"`
	Report     *RoundReport `json:"report,omitempty"`
	Result     *Result      `json:"result,omitempty"`
}

// Sink receives game events. Publish must not block for long and must not
// call back into the game.
type Sink interface {
	Publish(event Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Publish calls f.
func (f SinkFunc) Publish(event Event) { f(event) }

// NullSink drops every event.
type NullSink struct{}

// Publish does nothing.
func (NullSink) Publish(Event) {}

// MultiSink fans events out in order.
type MultiSink []Sink

// Publish forwards event to every sink.
func (m MultiSink) Publish(event Event) {
	for _, s := range m {
		if s != nil {
			s.Publish(event)
		}
	}
}

// LogSink writes a line per event.
type LogSink struct {
	Logger zerolog.Logger
}

// Publish logs the event.
func (s LogSink) Publish(event Event) {
	log := s.Logger.With().Str("event", event.Type.String()).Int("round", event.Round).Logger()
	switch {
	case event.Type == EventOccupationChanged:
		log.Debug().Int("hexes", len(event.Occupation)).Msg("board updated")
	case event.Type == EventMatrixUpdated && event.Matrix != nil:
		log.Info().Str("matrix", event.Matrix.String()).Msg("command usage")
	case event.Type == EventRoundScored && event.Report != nil:
		for _, ps := range event.Report.Scores {
			log.Info().Str("player", ps.Name).Int("round_score", ps.Round).Int("total", ps.Total).Msg("score")
		}
		log.Info().Int("destroyed", event.Report.Destroyed).Msg("round scored")
	case event.Type == EventGameEnded && event.Result != nil:
		log.Info().Interface("winners", event.Result.Winners).Msg("game over")
	default:
		log.Info().Msg("event")
	}
}
