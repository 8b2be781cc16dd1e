package network

import "encoding/json"

// Message types - Client → Server
const (
	MsgTypePing = "ping"
)

// Message types - Server → Client
const (
	MsgTypeWelcome     = "welcome"
	MsgTypeOccupation  = "occupation"
	MsgTypeMatrix      = "matrix"
	MsgTypeRoundScored = "round_scored"
	MsgTypeGameEnded   = "game_ended"
	MsgTypeError       = "error"
	MsgTypePong        = "pong"
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage represents any message from server to client
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Server Message Payloads ---

// WelcomePayload is sent to a spectator right after it connects and carries
// everything needed to draw the current state.
type WelcomePayload struct {
	SpectatorID   string         `json:"spectator_id"`
	GameID        string         `json:"game_id"`
	SessionStatus SessionStatus  `json:"session_status"`
	Hexes         []HexPayload   `json:"hexes"`
	Scores        []ScorePayload `json:"scores,omitempty"`
	Matrix        *MatrixPayload `json:"matrix,omitempty"`
}

// HexPayload is one hex with its pixel centre for renderers.
type HexPayload struct {
	Q      int      `json:"q"`
	R      int      `json:"r"`
	S      int      `json:"s"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Level  int      `json:"level"`
	Region string   `json:"region"`
	Card   string   `json:"card,omitempty"`
	Owner  int      `json:"owner,omitempty"`
	Ships  []string `json:"ships,omitempty"`
}

// OccupationPayload carries the whole board after ships changed.
type OccupationPayload struct {
	Round int          `json:"round"`
	Phase string       `json:"phase"`
	Hexes []HexPayload `json:"hexes"`
}

// MatrixPayload carries the round's command usage and resulting budgets,
// indexed [command][slot].
type MatrixPayload struct {
	Round    int       `json:"round"`
	Commands []string  `json:"commands"`
	Usage    [3][3]int `json:"usage"`
	Budgets  [3][3]int `json:"budgets"`
}

// ScorePayload is one player's standing.
type ScorePayload struct {
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Round    int    `json:"round"`
	Total    int    `json:"total"`
	Ships    int    `json:"ships"`
}

// DraftPayload is one scoring card pick.
type DraftPayload struct {
	PlayerID int    `json:"player_id"`
	Card     string `json:"card"`
	Points   int    `json:"points"`
}

// RoundScoredPayload summarises a finished round.
type RoundScoredPayload struct {
	Round     int            `json:"round"`
	Drafts    []DraftPayload `json:"drafts"`
	Scores    []ScorePayload `json:"scores"`
	Destroyed int            `json:"destroyed"`
}

// GameEndedPayload carries the final tally.
type GameEndedPayload struct {
	Rounds     int            `json:"rounds"`
	Scores     []ScorePayload `json:"scores"`
	FinalBonus map[int]int    `json:"final_bonus"`
	Winners    []int          `json:"winners"`
}

// SessionStatus represents the current session state
type SessionStatus struct {
	State      string `json:"state"`
	Round      int    `json:"round"`
	Phase      string `json:"phase"`
	Spectators int    `json:"spectators"`
	Uptime     int64  `json:"uptime"`
}

// PongPayload answers a ping.
type PongPayload struct {
	Timestamp int64 `json:"timestamp"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
