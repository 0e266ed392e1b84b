package emchess

import (
	"time"

	"github.com/notnil/chess"
	"github.com/pkg/errors"

	"github.com/Oshin159/chess-multiplayer/game"
)

// A Game is one multiplayer Emotional Chess match: an engine instance plus
// the players seated around it. Turn order is tracked by color; the board
// itself alternates white and black as usual.
type Game struct {
	ID          string
	Name        string
	MaxPlayers  int
	Players     map[string]*Player
	Engine      *game.Engine
	Status      GameStatus
	CurrentTurn int
	TurnOrder   []string
	CreatedAt   time.Time
	StartedAt   *time.Time
	FinishedAt  *time.Time
	Winner      string
	History     []MoveEntry
}

// NewGame creates a waiting game for up to maxPlayers seats. Fewer than two
// seats is raised to two.
func NewGame(name string, maxPlayers int) *Game {
	if maxPlayers < 2 {
		maxPlayers = 2
	}
	if maxPlayers > len(turnColors) {
		maxPlayers = len(turnColors)
	}
	return &Game{
		ID:         newID(),
		Name:       name,
		MaxPlayers: maxPlayers,
		Players:    make(map[string]*Player),
		Engine:     game.NewEngine(),
		Status:     StatusWaiting,
		TurnOrder:  append([]string(nil), turnColors[:maxPlayers]...),
		CreatedAt:  time.Now(),
	}
}

// AddPlayer seats p if there is room and the color is free.
func (g *Game) AddPlayer(p *Player) error {
	if len(g.Players) >= g.MaxPlayers {
		return ErrGameFull
	}
	for _, existing := range g.Players {
		if existing.Color == p.Color {
			return ErrNoColorAvailable
		}
	}
	g.Players[p.ID] = p
	return nil
}

// RemovePlayer unseats the player.
func (g *Game) RemovePlayer(playerID string) bool {
	if _, ok := g.Players[playerID]; !ok {
		return false
	}
	delete(g.Players, playerID)
	return true
}

// CurrentPlayer returns the player whose turn it is, if seated.
func (g *Game) CurrentPlayer() *Player {
	if len(g.TurnOrder) == 0 || g.CurrentTurn >= len(g.TurnOrder) {
		return nil
	}
	color := g.TurnOrder[g.CurrentTurn]
	for _, p := range g.Players {
		if p.Color == color {
			return p
		}
	}
	return nil
}

func (g *Game) nextTurn() {
	if len(g.TurnOrder) > 0 {
		g.CurrentTurn = (g.CurrentTurn + 1) % len(g.TurnOrder)
	}
}

// CanStart reports whether enough players are seated.
func (g *Game) CanStart() bool {
	return len(g.Players) >= 2
}

// Start moves a waiting game into progress.
func (g *Game) Start() error {
	if !g.CanStart() {
		return ErrNotEnoughPlayers
	}
	now := time.Now()
	g.Status = StatusInProgress
	g.StartedAt = &now
	g.CurrentTurn = 0
	return nil
}

// MakeMove validates that it is playerID's turn, submits the move to the
// engine and advances or finishes the game. Engine rejections pass through
// unchanged so callers can distinguish illegal moves from bad notation.
func (g *Game) MakeMove(playerID, notation string) (MoveOutcome, error) {
	if g.Status != StatusInProgress {
		return MoveOutcome{}, ErrGameNotRunning
	}
	player, ok := g.Players[playerID]
	if !ok {
		return MoveOutcome{}, ErrNotInGame
	}
	if current := g.CurrentPlayer(); current != nil && current.ID != playerID {
		return MoveOutcome{}, ErrNotYourTurn
	}

	res, err := g.Engine.SubmitMove(notation)
	if err != nil {
		return MoveOutcome{}, err
	}
	player.Touch()

	g.History = append(g.History, MoveEntry{
		PlayerID:   playerID,
		PlayerName: player.Name,
		Move:       notation,
		PlayedAt:   time.Now(),
		Emotions:   res.Summary,
	})

	out := MoveOutcome{
		Move:     notation,
		Capture:  res.Capture,
		Emotions: res.Summary,
		Events:   res.Events,
	}

	switch g.Engine.Outcome() {
	case chess.Checkmate:
		g.finish(playerID)
		out.GameOver = true
		out.Winner = player.Name
		out.Reason = "checkmate"
	case chess.Stalemate:
		g.finish("")
		out.GameOver = true
		out.Reason = "stalemate"
	default:
		g.nextTurn()
		if next := g.CurrentPlayer(); next != nil {
			out.NextPlayer = next.Name
		}
	}
	return out, nil
}

func (g *Game) finish(winnerID string) {
	now := time.Now()
	g.Status = StatusFinished
	g.FinishedAt = &now
	g.Winner = winnerID
}

// State captures a read-only snapshot of the game.
func (g *Game) State() GameState {
	players := make([]Player, 0, len(g.Players))
	for _, p := range g.Players {
		players = append(players, *p)
	}
	st := GameState{
		ID:          g.ID,
		Name:        g.Name,
		Status:      g.Status,
		MaxPlayers:  g.MaxPlayers,
		Players:     players,
		CurrentTurn: g.CurrentTurn,
		TurnOrder:   append([]string(nil), g.TurnOrder...),
		FEN:         g.Engine.Rules().FEN(),
		EmFEN:       g.Engine.EmFEN(),
		Emotions:    g.Engine.Summary(),
		MoveCount:   len(g.History),
		CreatedAt:   g.CreatedAt,
		StartedAt:   g.StartedAt,
		FinishedAt:  g.FinishedAt,
		Winner:      g.Winner,
	}
	if current := g.CurrentPlayer(); current != nil {
		st.CurrentPlayer = current.Name
	}
	return st
}

// assignColor picks preferred if free and valid for this game, otherwise the
// first unused color in turn order.
func (g *Game) assignColor(preferred string) (string, error) {
	used := make(map[string]bool, len(g.Players))
	for _, p := range g.Players {
		used[p.Color] = true
	}
	if preferred != "" {
		for _, c := range g.TurnOrder {
			if c == preferred && !used[c] {
				return preferred, nil
			}
		}
	}
	for _, c := range g.TurnOrder {
		if !used[c] {
			return c, nil
		}
	}
	return "", errors.WithStack(ErrNoColorAvailable)
}
