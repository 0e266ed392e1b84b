package emchess

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oshin159/chess-multiplayer/store"
)

func memoryManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(nil, nil)
	require.NoError(t, err)
	return m
}

func TestManagerLifecycle(t *testing.T) {
	m := memoryManager(t)

	g, err := m.CreateGame("lobby", 2)
	require.NoError(t, err)

	alice, err := m.JoinGame(g.ID, "alice", "white")
	require.NoError(t, err)
	bob, err := m.JoinGame(g.ID, "bob", "")
	require.NoError(t, err)
	assert.Equal(t, "black", bob.Color)

	_, err = m.JoinGame(g.ID, "carol", "")
	assert.ErrorIs(t, err, ErrGameFull)

	require.NoError(t, m.StartGame(g.ID))
	_, err = m.JoinGame(g.ID, "dave", "")
	assert.ErrorIs(t, err, ErrGameNotJoinable)

	out, err := m.MakeMove(alice.ID, "e3")
	require.NoError(t, err)
	assert.Equal(t, "bob", out.NextPlayer)

	got, err := m.PlayerGame(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ID)

	states := m.ListGames()
	require.Len(t, states, 1)
	assert.Equal(t, 1, states[0].MoveCount)
}

func TestManagerUnknownIDs(t *testing.T) {
	m := memoryManager(t)

	_, err := m.Game("missing")
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = m.PlayerGame("nobody")
	assert.ErrorIs(t, err, ErrNotInGame)

	_, err = m.MakeMove("nobody", "e3")
	assert.ErrorIs(t, err, ErrNotInGame)
}

func TestLeaveGameAbandonsRunningGame(t *testing.T) {
	m := memoryManager(t)
	g, err := m.CreateGame("lobby", 2)
	require.NoError(t, err)
	alice, err := m.JoinGame(g.ID, "alice", "")
	require.NoError(t, err)
	_, err = m.JoinGame(g.ID, "bob", "")
	require.NoError(t, err)
	require.NoError(t, m.StartGame(g.ID))

	require.NoError(t, m.LeaveGame(alice.ID))
	assert.Equal(t, StatusAbandoned, g.Status)
	assert.NotNil(t, g.FinishedAt)

	_, err = m.PlayerGame(alice.ID)
	assert.ErrorIs(t, err, ErrNotInGame)
}

func TestCleanupAbandoned(t *testing.T) {
	m := memoryManager(t)
	stale, err := m.CreateGame("stale", 2)
	require.NoError(t, err)
	stale.CreatedAt = time.Now().Add(-2 * time.Hour)

	fresh, err := m.CreateGame("fresh", 2)
	require.NoError(t, err)

	removed, err := m.CleanupAbandoned(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = m.Game(stale.ID)
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = m.Game(fresh.ID)
	assert.NoError(t, err)
}

func TestManagerReloadsFromStore(t *testing.T) {
	dir := t.TempDir()

	st, err := store.Open(dir)
	require.NoError(t, err)
	m, err := NewManager(st, nil)
	require.NoError(t, err)

	g, err := m.CreateGame("persisted", 2)
	require.NoError(t, err)
	alice, err := m.JoinGame(g.ID, "alice", "white")
	require.NoError(t, err)
	_, err = m.JoinGame(g.ID, "bob", "black")
	require.NoError(t, err)
	require.NoError(t, m.StartGame(g.ID))
	_, err = m.MakeMove(alice.ID, "e3")
	require.NoError(t, err)
	require.NoError(t, m.Close())

	st, err = store.Open(dir)
	require.NoError(t, err)
	m2, err := NewManager(st, nil)
	require.NoError(t, err)
	defer m2.Close()

	restored, err := m2.Game(g.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, restored.Status)
	assert.Len(t, restored.Players, 2)
	assert.Contains(t, restored.Engine.Rules().FEN(), " b ")
	assert.Equal(t, 1, restored.CurrentTurn)

	again, err := m2.PlayerGame(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, again.ID)

	moves, err := st.Moves(g.ID)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, "e3", moves[0].Notation)
}
