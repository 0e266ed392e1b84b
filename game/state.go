package game

import (
	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

const (
	RowNum     = 8
	ColNum     = 8
	numSquares = RowNum * ColNum
)

// Move is a plain from/to move in the coordinate system of the base rules
// provider. Promo is chess.NoPieceType for non-promotion moves.
type Move struct {
	From  chess.Square
	To    chess.Square
	Promo chess.PieceType
}

// String renders the move in UCI form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	return m.From.String() + m.To.String() + promoChar(m.Promo)
}

func promoChar(pt chess.PieceType) string {
	switch pt {
	case chess.Queen:
		return "q"
	case chess.Rook:
		return "r"
	case chess.Bishop:
		return "b"
	case chess.Knight:
		return "n"
	}
	return ""
}

// Rules is the base chess rules provider the emotional engine is built on.
// It owns piece placement and standard legality; the engine never inspects
// its internals. Apply is unconditional so that anger-extension moves, which
// are illegal under base rules, can still be played.
type Rules interface {
	// PieceAt returns the occupant of sq, or chess.NoPiece.
	PieceAt(sq chess.Square) chess.Piece
	// Turn is the color to move.
	Turn() chess.Color
	// LegalMoves enumerates all base-legal moves for the side to move.
	LegalMoves() []Move
	// LegalMovesFrom enumerates base-legal moves originating at sq.
	LegalMovesFrom(sq chess.Square) []Move
	// Apply plays m without legality checks and flips the turn.
	Apply(m Move) error
	// InCheck reports whether the side to move is in check.
	InCheck() bool
	// WouldSelfCheck reports whether playing m would leave the mover's own
	// king in check.
	WouldSelfCheck(m Move) bool
	// KingSquare returns the square of c's king, if present.
	KingSquare(c chess.Color) (chess.Square, bool)
	// FEN formats the position in standard notation.
	FEN() string
	// LoadFEN replaces the position. The previous position is kept on error.
	LoadFEN(fen string) error
	// ParseMove parses standard algebraic notation relative to the position.
	ParseMove(s string) (Move, error)
	// Status reports base-rules game termination (checkmate, stalemate).
	Status() chess.Method
}

// SquareAt builds a square from zero-based file and rank.
func SquareAt(file, rank int) chess.Square {
	return chess.Square(rank*RowNum + file)
}

// ParseSquare parses coordinates like "e4".
func ParseSquare(s string) (chess.Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return chess.NoSquare, errors.Errorf("invalid square %q", s)
	}
	return SquareAt(int(s[0]-'a'), int(s[1]-'1')), nil
}

// Chebyshev returns the king-move distance between two squares.
func Chebyshev(a, b chess.Square) int {
	df := int(a.File()) - int(b.File())
	dr := int(a.Rank()) - int(b.Rank())
	if df < 0 {
		df = -df
	}
	if dr < 0 {
		dr = -dr
	}
	if df > dr {
		return df
	}
	return dr
}
