package game

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const midgameFEN = "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 1"

func TestEncodeEmFEN(t *testing.T) {
	e, err := NewEngineFEN(midgameFEN)
	require.NoError(t, err)
	e.Overlay().SetLovePair(chess.E4, chess.E5)
	e.Overlay().SetAnger(chess.F7, 2)
	e.Overlay().SetAnger(chess.E4, 1)
	e.Overlay().SetSadness(chess.G2, 1)

	got := e.EmFEN()
	assert.Equal(t, midgameFEN+" | L: e4-e5 | A: e4,f7 | S: g2", got)
}

func TestEncodeOmitsEmptySections(t *testing.T) {
	e := NewEngine()
	assert.NotContains(t, e.EmFEN(), emfenSep)

	e.Overlay().SetSadness(chess.G2, 1)
	got := e.EmFEN()
	assert.True(t, strings.HasSuffix(got, "| S: g2"), got)
	assert.NotContains(t, got, lovePrefix)
	assert.NotContains(t, got, angryPrefix)
}

func TestEncodePairsLowerSquareFirst(t *testing.T) {
	e, err := NewEngineFEN(midgameFEN)
	require.NoError(t, err)
	e.Overlay().SetLovePair(chess.E5, chess.E4)

	assert.Contains(t, e.EmFEN(), "L: e4-e5")
}

func TestDecodeEmFEN(t *testing.T) {
	e := NewEngine()
	err := e.LoadEmFEN(midgameFEN + " | L: e4-e5 | A: f7 | S: g2")
	require.NoError(t, err)

	assert.True(t, e.Overlay().InLove(chess.E4))
	p, ok := e.Overlay().Partner(chess.E5)
	require.True(t, ok)
	assert.Equal(t, chess.E4, p)
	assert.Equal(t, 1, e.Overlay().AngerTurns(chess.F7))
	assert.Equal(t, 1, e.Overlay().SadTurns(chess.G2))
}

func TestDecodeCountersAlwaysOne(t *testing.T) {
	// Counter magnitude never survives a round trip, no matter what state
	// produced the string.
	e := NewEngine()
	e.Overlay().SetAnger(chess.E2, 3)
	e.Overlay().SetSadness(chess.D2, 2)

	restored := NewEngine()
	require.NoError(t, restored.LoadEmFEN(e.EmFEN()))
	assert.Equal(t, 1, restored.Overlay().AngerTurns(chess.E2))
	assert.Equal(t, 1, restored.Overlay().SadTurns(chess.D2))
}

func TestDecodeSkipsMalformedTokens(t *testing.T) {
	e := NewEngine()
	err := e.LoadEmFEN(midgameFEN + " | L: zz-e5,e4-e5 | A: j9,f7 | S: ")
	require.NoError(t, err)

	assert.True(t, e.Overlay().InLove(chess.E4))
	assert.True(t, e.Overlay().IsAngry(chess.F7))
	assert.Equal(t, Summary{LovePairs: 1, Angry: 1}, e.Summary())
}

func TestDecodeIgnoresUnknownSections(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.LoadEmFEN(midgameFEN+" | X: e4 | A: f7"))
	assert.True(t, e.Overlay().IsAngry(chess.F7))
}

func TestDecodeBadBaseFails(t *testing.T) {
	e := NewEngine()
	before := e.Rules().FEN()

	err := e.LoadEmFEN("not a position | A: e4")
	require.Error(t, err)
	assert.Equal(t, before, e.Rules().FEN())
}

func TestDecodeResetsPreviousOverlay(t *testing.T) {
	e := NewEngine()
	e.Overlay().SetAnger(chess.E2, 3)
	e.Overlay().SetLovePair(chess.A2, chess.B2)

	require.NoError(t, e.LoadEmFEN(midgameFEN+" | S: g2"))
	assert.Equal(t, Summary{Sad: 1}, e.Summary())
}

func TestRoundTripIsIdempotent(t *testing.T) {
	e, err := NewEngineFEN(midgameFEN + " | L: e4-e5 | A: f7 | S: g2")
	require.NoError(t, err)
	once := e.EmFEN()

	again := NewEngine()
	require.NoError(t, again.LoadEmFEN(once))
	assert.Equal(t, once, again.EmFEN())
}

func TestValidateEmFEN(t *testing.T) {
	assert.NoError(t, ValidateEmFEN(midgameFEN+" | L: e4-e5 | A: f7 | S: g2"))
	assert.NoError(t, ValidateEmFEN(midgameFEN))

	err := ValidateEmFEN("garbage | L: e4e5 | A: j9 | X: what")
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "base position")
	assert.Contains(t, msg, "e4e5")
	assert.Contains(t, msg, "j9")
	assert.Contains(t, msg, "unknown section")
}

func TestSummaryOfEmFEN(t *testing.T) {
	got := SummaryOfEmFEN(midgameFEN + " | L: e4-e5,a2-b7 | A: f7 | S: g2,h2,a7")
	want := Summary{LovePairs: 2, Angry: 1, Sad: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, Summary{}, SummaryOfEmFEN(midgameFEN))
}
