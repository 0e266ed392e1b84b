package game

import (
	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// ChessRules adapts github.com/notnil/chess to the Rules interface.
type ChessRules struct {
	pos *chess.Position
}

// NewChessRules returns a provider at the standard starting position.
func NewChessRules() *ChessRules {
	return &ChessRules{pos: chess.NewGame().Position()}
}

// NewChessRulesFEN returns a provider at the given position.
func NewChessRulesFEN(fen string) (*ChessRules, error) {
	r := &ChessRules{}
	if err := r.LoadFEN(fen); err != nil {
		return nil, err
	}
	return r, nil
}

// Position exposes the underlying position for callers that want to render
// or inspect it directly.
func (r *ChessRules) Position() *chess.Position {
	return r.pos
}

func (r *ChessRules) PieceAt(sq chess.Square) chess.Piece {
	return r.pos.Board().Piece(sq)
}

func (r *ChessRules) Turn() chess.Color {
	return r.pos.Turn()
}

func (r *ChessRules) LegalMoves() []Move {
	valid := r.pos.ValidMoves()
	moves := make([]Move, 0, len(valid))
	for _, m := range valid {
		moves = append(moves, Move{From: m.S1(), To: m.S2(), Promo: m.Promo()})
	}
	return moves
}

func (r *ChessRules) LegalMovesFrom(sq chess.Square) []Move {
	var moves []Move
	for _, m := range r.pos.ValidMoves() {
		if m.S1() == sq {
			moves = append(moves, Move{From: m.S1(), To: m.S2(), Promo: m.Promo()})
		}
	}
	return moves
}

// Apply plays m unconditionally. A base-legal move is applied through the
// matching generated move so castle and en passant effects carry over; any
// other move (anger extensions) is decoded without validation.
func (r *ChessRules) Apply(m Move) error {
	next, err := r.next(m)
	if err != nil {
		return err
	}
	r.pos = next
	return nil
}

func (r *ChessRules) next(m Move) (*chess.Position, error) {
	if cm := r.findValid(m); cm != nil {
		return r.pos.Update(cm), nil
	}
	cm, err := chess.UCINotation{}.Decode(r.pos, m.String())
	if err != nil {
		return nil, errors.Wrapf(err, "apply %s", m)
	}
	return r.pos.Update(cm), nil
}

func (r *ChessRules) findValid(m Move) *chess.Move {
	for _, cm := range r.pos.ValidMoves() {
		if cm.S1() == m.From && cm.S2() == m.To && cm.Promo() == m.Promo {
			return cm
		}
	}
	return nil
}

func (r *ChessRules) InCheck() bool {
	ks, ok := r.KingSquare(r.Turn())
	if !ok {
		return false
	}
	return attacked(r.pos.Board(), ks, r.Turn().Other())
}

func (r *ChessRules) WouldSelfCheck(m Move) bool {
	mover := r.Turn()
	next, err := r.next(m)
	if err != nil {
		return true
	}
	ks, ok := kingSquare(next.Board(), mover)
	if !ok {
		return false
	}
	return attacked(next.Board(), ks, mover.Other())
}

func (r *ChessRules) KingSquare(c chess.Color) (chess.Square, bool) {
	return kingSquare(r.pos.Board(), c)
}

func (r *ChessRules) FEN() string {
	return r.pos.String()
}

func (r *ChessRules) LoadFEN(fen string) error {
	opt, err := chess.FEN(fen)
	if err != nil {
		return errors.Wrap(err, "load fen")
	}
	r.pos = chess.NewGame(opt).Position()
	return nil
}

func (r *ChessRules) ParseMove(s string) (Move, error) {
	cm, err := chess.AlgebraicNotation{}.Decode(r.pos, s)
	if err != nil {
		return Move{}, errors.Wrapf(err, "parse move %q", s)
	}
	return Move{From: cm.S1(), To: cm.S2(), Promo: cm.Promo()}, nil
}

func (r *ChessRules) Status() chess.Method {
	return r.pos.Status()
}

func kingSquare(b *chess.Board, c chess.Color) (chess.Square, bool) {
	for sq, p := range b.SquareMap() {
		if p.Type() == chess.King && p.Color() == c {
			return sq, true
		}
	}
	return chess.NoSquare, false
}

var (
	knightDeltas = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingDeltas   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookDirs     = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs   = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// attacked reports whether target is attacked by any piece of color by. The
// scan is independent of whose turn it is, which is what the engine needs
// when probing positions after hypothetical moves.
func attacked(b *chess.Board, target chess.Square, by chess.Color) bool {
	tf, tr := int(target.File()), int(target.Rank())

	pawnRank := tr - 1
	if by == chess.Black {
		pawnRank = tr + 1
	}
	for _, df := range [2]int{-1, 1} {
		if p, ok := pieceOn(b, tf+df, pawnRank); ok && p.Color() == by && p.Type() == chess.Pawn {
			return true
		}
	}

	for _, d := range knightDeltas {
		if p, ok := pieceOn(b, tf+d[0], tr+d[1]); ok && p.Color() == by && p.Type() == chess.Knight {
			return true
		}
	}
	for _, d := range kingDeltas {
		if p, ok := pieceOn(b, tf+d[0], tr+d[1]); ok && p.Color() == by && p.Type() == chess.King {
			return true
		}
	}

	if slideAttacked(b, tf, tr, by, rookDirs, chess.Rook) {
		return true
	}
	return slideAttacked(b, tf, tr, by, bishopDirs, chess.Bishop)
}

func slideAttacked(b *chess.Board, tf, tr int, by chess.Color, dirs [4][2]int, slider chess.PieceType) bool {
	for _, d := range dirs {
		f, r := tf+d[0], tr+d[1]
		for f >= 0 && f < ColNum && r >= 0 && r < RowNum {
			p := b.Piece(SquareAt(f, r))
			if p != chess.NoPiece {
				if p.Color() == by && (p.Type() == slider || p.Type() == chess.Queen) {
					return true
				}
				break
			}
			f += d[0]
			r += d[1]
		}
	}
	return false
}

func pieceOn(b *chess.Board, file, rank int) (chess.Piece, bool) {
	if file < 0 || file >= ColNum || rank < 0 || rank >= RowNum {
		return chess.NoPiece, false
	}
	p := b.Piece(SquareAt(file, rank))
	return p, p != chess.NoPiece
}
