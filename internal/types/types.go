package types

import "github.com/tombolahq/tombola-backend/internal/engine"

// Inbound message types.
const (
	MsgAdminJoin     = "admin-join"
	MsgPlayerJoin    = "player-join"
	MsgExtractNumber = "extract-number"
	MsgMarkNumber    = "mark-number"
	MsgResetGame     = "reset-game"
)

// Outbound message types.
const (
	MsgGameState       = "game-state"
	MsgYourCard        = "your-card"
	MsgNumberExtracted = "number-extracted"
	MsgYouWon          = "you-won"
	MsgPlayerWon       = "player-won"
	MsgGameReset       = "game-reset"
	MsgError           = "error"
)

type ClientMessage struct {
	Type   string `json:"type"`
	Name   string `json:"name,omitempty"`
	Number int    `json:"number,omitempty"`
}

type ServerMessage struct {
	Type       string       `json:"type"`
	State      *GameState   `json:"state,omitempty"`
	Card       *engine.Card `json:"card,omitempty"`
	Number     int          `json:"number,omitempty"`
	Previous   int          `json:"previous,omitempty"`
	Count      int          `json:"count,omitempty"`
	Tiers      []string     `json:"tiers,omitempty"`
	PlayerID   string       `json:"playerId,omitempty"`
	PlayerName string       `json:"playerName,omitempty"`
	Timestamp  int64        `json:"timestamp,omitempty"` // unix millis
	Code       string       `json:"code,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// GameState is the full snapshot broadcast after every mutation. Cards stay
// out of it; each player receives theirs unicast via your-card.
type GameState struct {
	ExtractedNumbers []int                  `json:"extractedNumbers"`
	CurrentNumber    int                    `json:"currentNumber"`
	PreviousNumber   int                    `json:"previousNumber"`
	GameStatus       string                 `json:"gameStatus"`
	Players          map[string]PlayerState `json:"players"`
	AdminConnected   bool                   `json:"adminConnected"`
	Winners          []string               `json:"winners"`
}

type PlayerState struct {
	Name          string          `json:"name"`
	MarkedNumbers []int           `json:"markedNumbers"`
	Prizes        map[string]bool `json:"prizes"`
}
