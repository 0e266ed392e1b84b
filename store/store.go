// Package store persists games, players and move history in a local badger
// database. Values are JSON; keys are prefixed by record kind.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/Oshin159/chess-multiplayer/game"
)

const (
	gamePrefix = "game:"
	movePrefix = "moves:"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// PlayerRecord is the stored form of a seated player.
type PlayerRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	Status       string    `json:"status"`
	ConnectedAt  time.Time `json:"connected_at"`
	LastActivity time.Time `json:"last_activity"`
}

// GameRecord is the stored form of a game. EmFEN carries the full board and
// emotional state; FEN is kept alongside for consumers that only understand
// standard positions.
type GameRecord struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	MaxPlayers  int            `json:"max_players"`
	Status      string         `json:"status"`
	CurrentTurn int            `json:"current_turn"`
	TurnOrder   []string       `json:"turn_order"`
	FEN         string         `json:"board_fen"`
	EmFEN       string         `json:"emfen"`
	Players     []PlayerRecord `json:"players"`
	CreatedAt   time.Time      `json:"created_at"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	FinishedAt  *time.Time     `json:"finished_at,omitempty"`
	Winner      string         `json:"winner,omitempty"`
}

// MoveRecord is one accepted move.
type MoveRecord struct {
	GameID     string       `json:"game_id"`
	Seq        int          `json:"seq"`
	PlayerID   string       `json:"player_id"`
	Notation   string       `json:"move_notation"`
	FENAfter   string       `json:"board_fen_after"`
	EmFENAfter string       `json:"emfen_after"`
	Emotions   game.Summary `json:"emotions"`
	PlayedAt   time.Time    `json:"played_at"`
}

// Store wraps a badger database.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a store in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open store")
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveGame writes or replaces a game record.
func (s *Store) SaveGame(rec GameRecord) error {
	return s.putJSON(gameKey(rec.ID), rec)
}

// LoadGame reads one game record.
func (s *Store) LoadGame(id string) (GameRecord, error) {
	var rec GameRecord
	err := s.getJSON(gameKey(id), &rec)
	return rec, err
}

// ListGames reads every stored game record.
func (s *Store) ListGames() ([]GameRecord, error) {
	var recs []GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var rec GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			recs = append(recs, rec)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "list games")
	}
	return recs, nil
}

// DeleteGame removes a game and its move history.
func (s *Store) DeleteGame(id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(gameKey(id)); err != nil {
			return err
		}
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(movePrefix + id + ":")
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		var keys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	return errors.Wrap(err, "delete game")
}

// AppendMove writes one move record. Seq must be unique per game and
// ascending; callers use the move history length.
func (s *Store) AppendMove(rec MoveRecord) error {
	return s.putJSON(moveKey(rec.GameID, rec.Seq), rec)
}

// Moves reads a game's move history in sequence order.
func (s *Store) Moves(gameID string) ([]MoveRecord, error) {
	var recs []MoveRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(movePrefix + gameID + ":")
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var rec MoveRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			recs = append(recs, rec)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "load moves")
	}
	return recs, nil
}

func (s *Store) putJSON(key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal record")
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	return errors.Wrap(err, "write record")
}

func (s *Store) getJSON(key []byte, v interface{}) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if err == badger.ErrKeyNotFound {
		return errors.WithStack(ErrNotFound)
	}
	return errors.Wrap(err, "read record")
}

func gameKey(id string) []byte {
	return []byte(gamePrefix + id)
}

func moveKey(gameID string, seq int) []byte {
	return []byte(fmt.Sprintf("%s%s:%06d", movePrefix, gameID, seq))
}
