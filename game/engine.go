package game

import (
	"regexp"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

var (
	// ErrIllegalMove marks a well-formed move that is not in the filtered
	// legal set for the current position.
	ErrIllegalMove = errors.New("illegal move")
	// ErrBadNotation marks move text that cannot be parsed at all.
	ErrBadNotation = errors.New("unparseable move")
)

var coordMoveRE = regexp.MustCompile(`^[a-h][1-8][a-h][1-8]$`)

// loveDistance is the maximum Chebyshev distance at which two pieces can
// bond. Only adjacent squares qualify.
const loveDistance = 1

// Summary counts the emotional states on the board.
type Summary struct {
	LovePairs int `json:"love_pairs"`
	Angry     int `json:"angry"`
	Sad       int `json:"sad"`
}

// MoveResult reports an accepted move together with the state changes it
// caused.
type MoveResult struct {
	Move    Move
	Capture bool
	Summary Summary
	Events  []Event
}

// Engine layers the Love/Anger/Sadness mechanics over a base chess rules
// provider. It owns the overlay state for exactly one game and expects a
// single writer; position state lives in the provider it wraps.
type Engine struct {
	rules    Rules
	overlay  *Overlay
	events   []Event
	observer func(Event)
}

// NewEngine returns an engine over a notnil/chess provider at the starting
// position.
func NewEngine() *Engine {
	return NewEngineWith(NewChessRules())
}

// NewEngineWith returns an engine over the given rules provider.
func NewEngineWith(r Rules) *Engine {
	return &Engine{rules: r, overlay: NewOverlay()}
}

// NewEngineFEN returns an engine at the given position. The string may be a
// plain FEN or a full emFEN with emotional sections.
func NewEngineFEN(fen string) (*Engine, error) {
	e := NewEngine()
	if err := e.LoadEmFEN(fen); err != nil {
		return nil, err
	}
	return e, nil
}

// Rules exposes the wrapped provider.
func (e *Engine) Rules() Rules { return e.rules }

// Overlay exposes the emotional overlay for direct inspection and for the
// manual state setup used by tooling and tests.
func (e *Engine) Overlay() *Overlay { return e.overlay }

// SetObserver registers a callback invoked for every emotional event as it
// happens. Pass nil to remove it.
func (e *Engine) SetObserver(fn func(Event)) { e.observer = fn }

// Events returns the events recorded since the last drain.
func (e *Engine) Events() []Event { return e.events }

// DrainEvents returns recorded events and clears the buffer.
func (e *Engine) DrainEvents() []Event {
	evs := e.events
	e.events = nil
	return evs
}

func (e *Engine) emit(ev Event) {
	e.events = append(e.events, ev)
	if e.observer != nil {
		e.observer(ev)
	}
}

// LegalMoves returns the full move set the side to move may choose from:
// base-legal moves surviving the emotional restrictions plus anger
// extensions.
func (e *Engine) LegalMoves() []Move {
	return legalMoves(e.rules, e.overlay)
}

// LegalMovesFrom returns the filtered legal moves originating at sq.
func (e *Engine) LegalMovesFrom(sq chess.Square) []Move {
	var moves []Move
	for _, m := range e.LegalMoves() {
		if m.From == sq {
			moves = append(moves, m)
		}
	}
	return moves
}

// SubmitMove parses notation (coordinate "e2e4" or standard algebraic),
// validates it against the filtered legal set, applies it and runs the
// emotional state transitions. Unparseable text fails with ErrBadNotation,
// a parsed but disallowed move with ErrIllegalMove; in both cases no state
// is mutated.
func (e *Engine) SubmitMove(notation string) (MoveResult, error) {
	m, err := e.parseNotation(notation)
	if err != nil {
		return MoveResult{}, err
	}
	if !e.isLegal(m) {
		return MoveResult{}, errors.Wrap(ErrIllegalMove, notation)
	}
	return e.Push(m)
}

func (e *Engine) parseNotation(notation string) (Move, error) {
	if coordMoveRE.MatchString(notation) {
		from, _ := ParseSquare(notation[:2])
		to, _ := ParseSquare(notation[2:])
		return Move{From: from, To: to}, nil
	}
	m, err := e.rules.ParseMove(notation)
	if err != nil {
		return Move{}, errors.Wrap(ErrBadNotation, notation)
	}
	return m, nil
}

func (e *Engine) isLegal(m Move) bool {
	for _, lm := range e.LegalMoves() {
		if lm == m {
			return true
		}
	}
	return false
}

// Push applies m without consulting the filtered legal set and runs the
// fixed state-transition pipeline: capture reaction, love recomputation,
// anger decay, sadness decay and triggers. The ordering is load-bearing; a
// square angered by the capture reaction already loses one turn to the decay
// of the same pipeline run.
func (e *Engine) Push(m Move) (MoveResult, error) {
	captured := e.rules.PieceAt(m.To) != chess.NoPiece
	if err := e.rules.Apply(m); err != nil {
		return MoveResult{}, err
	}

	start := len(e.events)
	if captured {
		e.captureReaction(m.To)
	}
	e.updateLove()
	e.overlay.decayAnger()
	e.applySadness()

	return MoveResult{
		Move:    m,
		Capture: captured,
		Summary: e.Summary(),
		Events:  append([]Event(nil), e.events[start:]...),
	}, nil
}

// captureReaction handles the emotional fallout of a capture at sq: the
// captured piece's lover grieves (kings excepted) and every occupied square
// within Chebyshev distance 2 turns angry for 3 turns.
func (e *Engine) captureReaction(sq chess.Square) {
	if lover, ok := e.overlay.Partner(sq); ok {
		if p := e.rules.PieceAt(lover); p != chess.NoPiece && p.Type() != chess.King {
			e.overlay.SetSadness(lover, 1)
			e.emit(squareEvent(EventSadnessTriggered, lover))
		}
		e.overlay.ClearLove(sq)
		e.emit(pairEvent(EventLoveBroken, sq, lover))
	}

	for i := 0; i < numSquares; i++ {
		s := chess.Square(i)
		if s == sq || e.rules.PieceAt(s) == chess.NoPiece {
			continue
		}
		if Chebyshev(sq, s) <= 2 {
			e.overlay.SetAnger(s, 3)
			e.emit(squareEvent(EventAngerTriggered, s))
		}
	}
}

// updateLove recomputes all pairings from scratch: clear everything, then
// scan square pairs in ascending index order and bond the first eligible
// match. First-match wins; the order dependence is intentional.
func (e *Engine) updateLove() {
	e.overlay.clearAllLove()
	for a := 0; a < numSquares; a++ {
		sqA := chess.Square(a)
		if e.rules.PieceAt(sqA) == chess.NoPiece || e.overlay.InLove(sqA) {
			continue
		}
		for b := 0; b < numSquares; b++ {
			sqB := chess.Square(b)
			if b == a || e.rules.PieceAt(sqB) == chess.NoPiece || e.overlay.InLove(sqB) {
				continue
			}
			if e.canFormLove(sqA, sqB) {
				e.overlay.SetLovePair(sqA, sqB)
				e.emit(pairEvent(EventLoveFormed, sqA, sqB))
				break
			}
		}
	}
}

// canFormLove checks the eligibility rules for a bond between two occupied
// squares: opposite colors, no Queens, not King against King, adjacent, and
// neither side's king square while that side is in check.
func (e *Engine) canFormLove(a, b chess.Square) bool {
	pa := e.rules.PieceAt(a)
	pb := e.rules.PieceAt(b)
	if pa == chess.NoPiece || pb == chess.NoPiece {
		return false
	}
	if pa.Color() == pb.Color() {
		return false
	}
	if pa.Type() == chess.Queen || pb.Type() == chess.Queen {
		return false
	}
	if pa.Type() == chess.King && pb.Type() == chess.King {
		return false
	}
	if Chebyshev(a, b) > loveDistance {
		return false
	}
	if e.rules.InCheck() {
		if ka, ok := e.rules.KingSquare(pa.Color()); ok && ka == a {
			return false
		}
		if kb, ok := e.rules.KingSquare(pb.Color()); ok && kb == b {
			return false
		}
	}
	return true
}

// applySadness decays sadness counters, then scans surviving lovers whose
// partner square is empty or was taken over by a piece of their own color
// (partner died or was replaced) and grieves them for 2 turns, breaking the
// bond.
func (e *Engine) applySadness() {
	e.overlay.decaySadness()
	for i := 0; i < numSquares; i++ {
		sq := chess.Square(i)
		p := e.rules.PieceAt(sq)
		if p == chess.NoPiece {
			continue
		}
		partner, ok := e.overlay.Partner(sq)
		if !ok {
			continue
		}
		pp := e.rules.PieceAt(partner)
		if pp == chess.NoPiece || pp.Color() == p.Color() {
			e.overlay.SetSadness(sq, 2)
			e.emit(squareEvent(EventSadnessTriggered, sq))
			e.overlay.ClearLove(sq)
			e.emit(pairEvent(EventLoveBroken, sq, partner))
		}
	}
}

// Summary counts the current emotional states.
func (e *Engine) Summary() Summary {
	var s Summary
	inLove := 0
	for i := 0; i < numSquares; i++ {
		sq := chess.Square(i)
		if e.overlay.InLove(sq) {
			inLove++
		}
		if e.overlay.IsAngry(sq) {
			s.Angry++
		}
		if e.overlay.IsSad(sq) {
			s.Sad++
		}
	}
	s.LovePairs = inLove / 2
	return s
}

// LoadFEN resets the engine to a plain base position with empty overlays.
func (e *Engine) LoadFEN(fen string) error {
	if err := e.rules.LoadFEN(fen); err != nil {
		return err
	}
	e.overlay.Reset()
	e.events = nil
	return nil
}

// EmFEN encodes the current position and emotional state.
func (e *Engine) EmFEN() string {
	return EncodeEmFEN(e)
}

// LoadEmFEN decodes an emFEN string into the engine, replacing all state.
func (e *Engine) LoadEmFEN(s string) error {
	return DecodeEmFEN(s, e)
}

// Outcome reports base-rules termination of the current position.
func (e *Engine) Outcome() chess.Method {
	return e.rules.Status()
}
