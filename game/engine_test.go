package game

import (
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPush(t *testing.T, e *Engine, from, to chess.Square) MoveResult {
	t.Helper()
	res, err := e.Push(Move{From: from, To: to})
	require.NoError(t, err)
	return res
}

func hasEvent(events []Event, want Event) bool {
	for _, ev := range events {
		if ev == want {
			return true
		}
	}
	return false
}

func TestQuietMovesLeaveNoEmotions(t *testing.T) {
	e := NewEngine()
	mustPush(t, e, chess.A2, chess.A3)
	res := mustPush(t, e, chess.H7, chess.H6)

	assert.Equal(t, Summary{}, res.Summary)
	require.NoError(t, e.Overlay().CheckSymmetry())
}

func TestAdjacentEnemyPawnsFallInLove(t *testing.T) {
	e := NewEngine()
	mustPush(t, e, chess.E2, chess.E4)
	res := mustPush(t, e, chess.E7, chess.E5)

	assert.Equal(t, Summary{LovePairs: 1}, res.Summary)
	assert.True(t, e.Overlay().InLove(chess.E4))
	assert.True(t, e.Overlay().InLove(chess.E5))
	assert.True(t, hasEvent(res.Events, pairEvent(EventLoveFormed, chess.E4, chess.E5)))
	require.NoError(t, e.Overlay().CheckSymmetry())
}

func TestAngerDecaysEachTurn(t *testing.T) {
	e := NewEngine()
	e.Overlay().SetAnger(chess.E4, 1)

	mustPush(t, e, chess.A2, chess.A3)
	assert.Equal(t, 0, e.Overlay().AngerTurns(chess.E4))
	assert.False(t, e.Overlay().IsAngry(chess.E4))
}

func TestCaptureAngersNeighborhood(t *testing.T) {
	e, err := NewEngineFEN("k7/8/5n2/3p4/2P5/8/8/K7 w - - 0 1")
	require.NoError(t, err)

	res, err := e.SubmitMove("c4d5")
	require.NoError(t, err)

	assert.True(t, res.Capture)
	// Angered for 3 at the capture reaction, decayed once in the same run.
	assert.Equal(t, 2, e.Overlay().AngerTurns(chess.F6))
	assert.True(t, hasEvent(res.Events, squareEvent(EventAngerTriggered, chess.F6)))
	assert.Equal(t, Summary{Angry: 1}, res.Summary)
}

func TestCapturedLoverGrievesPartner(t *testing.T) {
	e, err := NewEngineFEN("k7/8/8/3p4/4P3/8/8/K2R4 w - - 0 1")
	require.NoError(t, err)
	e.Overlay().SetLovePair(chess.D5, chess.E4)

	res, err := e.SubmitMove("d1d5")
	require.NoError(t, err)

	assert.True(t, hasEvent(res.Events, squareEvent(EventSadnessTriggered, chess.E4)))
	assert.True(t, hasEvent(res.Events, pairEvent(EventLoveBroken, chess.D5, chess.E4)))
	assert.False(t, e.Overlay().InLove(chess.E4))
	assert.False(t, e.Overlay().InLove(chess.D5))
	// The one turn of grief is consumed by this run's decay; the anger
	// splash reaches the widow anyway.
	assert.Equal(t, 0, e.Overlay().SadTurns(chess.E4))
	assert.Equal(t, 2, e.Overlay().AngerTurns(chess.E4))
	require.NoError(t, e.Overlay().CheckSymmetry())
}

func TestKingLoverIsNotGrieved(t *testing.T) {
	e, err := NewEngineFEN("k7/8/8/3p4/4K3/8/8/3R4 w - - 0 1")
	require.NoError(t, err)
	e.Overlay().SetLovePair(chess.D5, chess.E4)

	res, err := e.SubmitMove("d1d5")
	require.NoError(t, err)

	assert.False(t, hasEvent(res.Events, squareEvent(EventSadnessTriggered, chess.E4)))
	assert.True(t, hasEvent(res.Events, pairEvent(EventLoveBroken, chess.D5, chess.E4)))
	assert.Equal(t, 0, e.Overlay().SadTurns(chess.E4))
	// Kings are spared grief, not anger.
	assert.True(t, e.Overlay().IsAngry(chess.E4))
}

func TestBereavementScanGrievesSurvivor(t *testing.T) {
	e, err := NewEngineFEN("k7/8/8/8/4P3/8/8/K7 w - - 0 1")
	require.NoError(t, err)
	// A stale bond whose partner square is empty.
	e.Overlay().SetLovePair(chess.E4, chess.D5)

	e.applySadness()

	assert.Equal(t, 2, e.Overlay().SadTurns(chess.E4))
	assert.False(t, e.Overlay().InLove(chess.E4))
	assert.True(t, hasEvent(e.Events(), squareEvent(EventSadnessTriggered, chess.E4)))
	assert.True(t, hasEvent(e.Events(), pairEvent(EventLoveBroken, chess.E4, chess.D5)))
}

func TestSubmitMoveRejectsDoublePawnAdvance(t *testing.T) {
	e := NewEngine()

	_, err := e.SubmitMove("e2e4")
	assert.ErrorIs(t, err, ErrIllegalMove)
	_, err = e.SubmitMove("e4")
	assert.ErrorIs(t, err, ErrIllegalMove)

	// Rejections leave no trace.
	assert.Equal(t, chess.White, e.Rules().Turn())
	assert.Equal(t, Summary{}, e.Summary())
	assert.Empty(t, e.Events())
}

func TestSubmitMoveBadNotation(t *testing.T) {
	e := NewEngine()
	_, err := e.SubmitMove("zz9")
	assert.ErrorIs(t, err, ErrBadNotation)
	assert.NotErrorIs(t, err, ErrIllegalMove)
}

func TestSubmitMoveAcceptsSAN(t *testing.T) {
	e := NewEngine()
	res, err := e.SubmitMove("e3")
	require.NoError(t, err)
	assert.Equal(t, Move{From: chess.E2, To: chess.E3}, res.Move)
	assert.Equal(t, chess.Black, e.Rules().Turn())
}

func TestObserverSeesEvents(t *testing.T) {
	e := NewEngine()
	var seen []Event
	e.SetObserver(func(ev Event) { seen = append(seen, ev) })

	mustPush(t, e, chess.E2, chess.E4)
	mustPush(t, e, chess.E7, chess.E5)

	assert.True(t, hasEvent(seen, pairEvent(EventLoveFormed, chess.E4, chess.E5)))
}

func TestSymmetryHoldsAcrossOpening(t *testing.T) {
	e := NewEngine()
	seq := [][2]chess.Square{
		{chess.E2, chess.E4},
		{chess.E7, chess.E5},
		{chess.G1, chess.F3},
		{chess.B8, chess.C6},
		{chess.F1, chess.C4},
		{chess.F8, chess.C5},
		{chess.F3, chess.E5},
	}
	for _, mv := range seq {
		mustPush(t, e, mv[0], mv[1])
		require.NoError(t, e.Overlay().CheckSymmetry(), "after %s%s", mv[0], mv[1])
	}
}

func TestLoadFENResetsOverlay(t *testing.T) {
	e := NewEngine()
	e.Overlay().SetLovePair(chess.E2, chess.E7)
	e.Overlay().SetAnger(chess.E4, 2)

	require.NoError(t, e.LoadFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1"))
	assert.Equal(t, Summary{}, e.Summary())
	assert.Empty(t, e.Events())
}

func TestLoveNeedsEligiblePieces(t *testing.T) {
	e := NewEngine()

	// Queens never bond.
	require.NoError(t, e.LoadFEN("4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1"))
	e.updateLove()
	assert.False(t, e.Overlay().InLove(chess.D5))

	// Kings never bond with each other.
	require.NoError(t, e.LoadFEN("8/8/8/3k4/4K3/8/8/8 w - - 0 1"))
	e.updateLove()
	assert.False(t, e.Overlay().InLove(chess.D5))
	assert.False(t, e.Overlay().InLove(chess.E4))

	// Same color never bonds.
	require.NoError(t, e.LoadFEN("4k3/8/8/8/3PP3/8/8/4K3 w - - 0 1"))
	e.updateLove()
	assert.False(t, e.Overlay().InLove(chess.D4))
}

func TestLoveScanFirstMatchAscending(t *testing.T) {
	// Black pawn d5 is adjacent to both white pawns c4 and e4; the lowest
	// index scans first and wins the bond.
	e, err := NewEngineFEN("4k3/8/8/3p4/2P1P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	e.updateLove()

	p, ok := e.Overlay().Partner(chess.C4)
	require.True(t, ok)
	assert.Equal(t, chess.D5, p)
	assert.False(t, e.Overlay().InLove(chess.E4))
	require.NoError(t, e.Overlay().CheckSymmetry())
}
