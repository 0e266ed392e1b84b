// Package emchess orchestrates multiplayer Emotional Chess games on top of
// the core engine in game: player membership, turn order, lifecycle and
// persistence. One Game wraps one engine instance and is driven by a single
// caller at a time.
package emchess

import (
	"time"

	"github.com/pkg/errors"

	"github.com/Oshin159/chess-multiplayer/game"
)

// GameStatus tracks a game's lifecycle.
type GameStatus string

const (
	StatusWaiting    GameStatus = "waiting"
	StatusInProgress GameStatus = "in_progress"
	StatusFinished   GameStatus = "finished"
	StatusAbandoned  GameStatus = "abandoned"
)

// PlayerStatus tracks a player's connection state.
type PlayerStatus string

const (
	PlayerConnected    PlayerStatus = "connected"
	PlayerDisconnected PlayerStatus = "disconnected"
)

// turnColors is the seat assignment order. Two-player games use the first
// two; larger games extend down the list.
var turnColors = []string{"white", "black", "red", "blue", "green", "yellow"}

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameFull         = errors.New("game is full")
	ErrGameNotJoinable  = errors.New("game not accepting new players")
	ErrNoColorAvailable = errors.New("no available colors")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrGameNotRunning   = errors.New("game not in progress")
	ErrNotInGame        = errors.New("player not in game")
	ErrNotYourTurn      = errors.New("not your turn")
)

// MoveEntry is one accepted move in a game's history.
type MoveEntry struct {
	PlayerID   string       `json:"player_id"`
	PlayerName string       `json:"player_name"`
	Move       string       `json:"move"`
	PlayedAt   time.Time    `json:"played_at"`
	Emotions   game.Summary `json:"emotions"`
}

// MoveOutcome reports the result of an accepted move to the caller.
type MoveOutcome struct {
	Move       string       `json:"move"`
	Capture    bool         `json:"capture"`
	GameOver   bool         `json:"game_over"`
	Winner     string       `json:"winner,omitempty"`
	Reason     string       `json:"reason,omitempty"`
	NextPlayer string       `json:"next_player,omitempty"`
	Emotions   game.Summary `json:"emotions"`
	Events     []game.Event `json:"-"`
}

// GameState is a read-only snapshot of a game for listings and telemetry.
type GameState struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Status        GameStatus   `json:"status"`
	MaxPlayers    int          `json:"max_players"`
	Players       []Player     `json:"players"`
	CurrentTurn   int          `json:"current_turn"`
	TurnOrder     []string     `json:"turn_order"`
	CurrentPlayer string       `json:"current_player,omitempty"`
	FEN           string       `json:"board_fen"`
	EmFEN         string       `json:"emfen"`
	Emotions      game.Summary `json:"emotions"`
	MoveCount     int          `json:"move_count"`
	CreatedAt     time.Time    `json:"created_at"`
	StartedAt     *time.Time   `json:"started_at,omitempty"`
	FinishedAt    *time.Time   `json:"finished_at,omitempty"`
	Winner        string       `json:"winner,omitempty"`
}
