package emchess

import (
	"io"
	"log"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/Oshin159/chess-multiplayer/game"
	"github.com/Oshin159/chess-multiplayer/store"
)

// Manager tracks the live games of one process and mirrors them into the
// store. It assumes single-writer access, like the engines it holds; hosts
// that serve concurrent requests must serialize calls per manager.
type Manager struct {
	games       map[string]*Game
	playerGames map[string]string
	store       *store.Store
	logger      *log.Logger
}

// NewManager builds a manager. st may be nil for a memory-only manager;
// otherwise previously stored games are reloaded from their emFEN snapshots.
// logger may be nil to discard log output.
func NewManager(st *store.Store, logger *log.Logger) (*Manager, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	m := &Manager{
		games:       make(map[string]*Game),
		playerGames: make(map[string]string),
		store:       st,
		logger:      logger,
	}
	if st != nil {
		if err := m.reload(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Manager) reload() error {
	recs, err := m.store.ListGames()
	if err != nil {
		return errors.WithMessage(err, "reload games")
	}
	for _, rec := range recs {
		g, err := gameFromRecord(rec)
		if err != nil {
			m.logger.Printf("skipping stored game %s: %v", rec.ID, err)
			continue
		}
		m.games[g.ID] = g
		for id := range g.Players {
			m.playerGames[id] = g.ID
		}
	}
	m.logger.Printf("loaded %d games from store", len(m.games))
	return nil
}

// CreateGame registers a new waiting game and persists it.
func (m *Manager) CreateGame(name string, maxPlayers int) (*Game, error) {
	g := NewGame(name, maxPlayers)
	m.games[g.ID] = g
	if err := m.persist(g); err != nil {
		delete(m.games, g.ID)
		return nil, err
	}
	m.logger.Printf("created game %s (%s, %d players)", g.ID, g.Name, g.MaxPlayers)
	return g, nil
}

// Game returns a live game by id.
func (m *Manager) Game(id string) (*Game, error) {
	g, ok := m.games[id]
	if !ok {
		return nil, errors.Wrap(ErrGameNotFound, id)
	}
	return g, nil
}

// PlayerGame returns the game a player is seated in.
func (m *Manager) PlayerGame(playerID string) (*Game, error) {
	id, ok := m.playerGames[playerID]
	if !ok {
		return nil, errors.Wrap(ErrNotInGame, playerID)
	}
	return m.Game(id)
}

// JoinGame seats a new player in a waiting game. preferredColor may be empty
// to take the first free seat.
func (m *Manager) JoinGame(gameID, playerName, preferredColor string) (*Player, error) {
	g, err := m.Game(gameID)
	if err != nil {
		return nil, err
	}
	if g.Status != StatusWaiting {
		return nil, ErrGameNotJoinable
	}
	color, err := g.assignColor(preferredColor)
	if err != nil {
		return nil, err
	}
	p := newPlayer(playerName, color)
	if err := g.AddPlayer(p); err != nil {
		return nil, err
	}
	if err := m.persist(g); err != nil {
		g.RemovePlayer(p.ID)
		return nil, err
	}
	m.playerGames[p.ID] = g.ID
	m.logger.Printf("player %s joined game %s as %s", p.Name, g.ID, color)
	return p, nil
}

// LeaveGame unseats a player. A running game loses by abandonment when a
// seat empties below two players.
func (m *Manager) LeaveGame(playerID string) error {
	g, err := m.PlayerGame(playerID)
	if err != nil {
		return err
	}
	g.RemovePlayer(playerID)
	delete(m.playerGames, playerID)
	if g.Status == StatusInProgress && len(g.Players) < 2 {
		g.Status = StatusAbandoned
		now := time.Now()
		g.FinishedAt = &now
	}
	return m.persist(g)
}

// StartGame moves a waiting game into progress.
func (m *Manager) StartGame(gameID string) error {
	g, err := m.Game(gameID)
	if err != nil {
		return err
	}
	if err := g.Start(); err != nil {
		return err
	}
	return m.persist(g)
}

// MakeMove routes a move to the player's game and persists the accepted
// result along with the move record.
func (m *Manager) MakeMove(playerID, notation string) (MoveOutcome, error) {
	g, err := m.PlayerGame(playerID)
	if err != nil {
		return MoveOutcome{}, err
	}
	out, err := g.MakeMove(playerID, notation)
	if err != nil {
		return MoveOutcome{}, err
	}
	if m.store != nil {
		rec := store.MoveRecord{
			GameID:     g.ID,
			Seq:        len(g.History),
			PlayerID:   playerID,
			Notation:   notation,
			FENAfter:   g.Engine.Rules().FEN(),
			EmFENAfter: g.Engine.EmFEN(),
			Emotions:   out.Emotions,
			PlayedAt:   time.Now(),
		}
		if err := m.store.AppendMove(rec); err != nil {
			m.logger.Printf("record move for game %s: %v", g.ID, err)
		}
	}
	if err := m.persist(g); err != nil {
		m.logger.Printf("persist game %s: %v", g.ID, err)
	}
	return out, nil
}

// ListGames snapshots all live games.
func (m *Manager) ListGames() []GameState {
	states := make([]GameState, 0, len(m.games))
	for _, g := range m.games {
		states = append(states, g.State())
	}
	return states
}

// CleanupAbandoned drops waiting or abandoned games older than maxAge from
// memory and the store. It returns how many were removed.
func (m *Manager) CleanupAbandoned(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	var errs *multierror.Error
	removed := 0
	for id, g := range m.games {
		if g.Status != StatusWaiting && g.Status != StatusAbandoned {
			continue
		}
		if g.CreatedAt.After(cutoff) {
			continue
		}
		delete(m.games, id)
		for pid := range g.Players {
			delete(m.playerGames, pid)
		}
		if m.store != nil {
			if err := m.store.DeleteGame(id); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
		removed++
	}
	return removed, errs.ErrorOrNil()
}

// Close releases the manager's resources.
func (m *Manager) Close() error {
	var errs *multierror.Error
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

func (m *Manager) persist(g *Game) error {
	if m.store == nil {
		return nil
	}
	return m.store.SaveGame(recordFromGame(g))
}

func recordFromGame(g *Game) store.GameRecord {
	players := make([]store.PlayerRecord, 0, len(g.Players))
	for _, p := range g.Players {
		players = append(players, store.PlayerRecord{
			ID:           p.ID,
			Name:         p.Name,
			Color:        p.Color,
			Status:       string(p.Status),
			ConnectedAt:  p.ConnectedAt,
			LastActivity: p.LastActivity,
		})
	}
	return store.GameRecord{
		ID:          g.ID,
		Name:        g.Name,
		MaxPlayers:  g.MaxPlayers,
		Status:      string(g.Status),
		CurrentTurn: g.CurrentTurn,
		TurnOrder:   append([]string(nil), g.TurnOrder...),
		FEN:         g.Engine.Rules().FEN(),
		EmFEN:       g.Engine.EmFEN(),
		Players:     players,
		CreatedAt:   g.CreatedAt,
		StartedAt:   g.StartedAt,
		FinishedAt:  g.FinishedAt,
		Winner:      g.Winner,
	}
}

func gameFromRecord(rec store.GameRecord) (*Game, error) {
	eng, err := game.NewEngineFEN(rec.EmFEN)
	if err != nil {
		return nil, errors.WithMessage(err, "restore board")
	}
	g := &Game{
		ID:          rec.ID,
		Name:        rec.Name,
		MaxPlayers:  rec.MaxPlayers,
		Players:     make(map[string]*Player, len(rec.Players)),
		Engine:      eng,
		Status:      GameStatus(rec.Status),
		CurrentTurn: rec.CurrentTurn,
		TurnOrder:   append([]string(nil), rec.TurnOrder...),
		CreatedAt:   rec.CreatedAt,
		StartedAt:   rec.StartedAt,
		FinishedAt:  rec.FinishedAt,
		Winner:      rec.Winner,
	}
	for _, pr := range rec.Players {
		g.Players[pr.ID] = &Player{
			ID:           pr.ID,
			Name:         pr.Name,
			Color:        pr.Color,
			Status:       PlayerStatus(pr.Status),
			ConnectedAt:  pr.ConnectedAt,
			LastActivity: pr.LastActivity,
		}
	}
	return g, nil
}
