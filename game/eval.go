package game

import "github.com/notnil/chess"

// Emotional bonuses and penalties, in centipawns.
const (
	LoveBonus  = 30
	AngerBonus = 10
	SadPenalty = 25
)

var pieceValues = map[chess.PieceType]int{
	chess.Pawn:   100,
	chess.Knight: 320,
	chess.Bishop: 330,
	chess.Rook:   500,
	chess.Queen:  900,
	chess.King:   20000,
}

// Breakdown itemizes an evaluation. Total = Material + LoveBonus +
// AngerBonus - SadPenalty; every component is White-positive.
type Breakdown struct {
	Material   int `json:"material"`
	LoveBonus  int `json:"love_bonus"`
	AngerBonus int `json:"anger_bonus"`
	SadPenalty int `json:"sad_penalty"`
	Total      int `json:"total"`
}

// Tally counts emotional pieces for one color.
type Tally struct {
	Love  int `json:"love"`
	Anger int `json:"anger"`
	Sad   int `json:"sad"`
}

// Impact tallies emotional pieces per side.
type Impact struct {
	White Tally `json:"white"`
	Black Tally `json:"black"`
}

// Evaluator scores positions with their emotional overlay. It only reads
// engine state.
type Evaluator struct {
	e *Engine
}

// NewEvaluator returns an evaluator over e.
func NewEvaluator(e *Engine) *Evaluator {
	return &Evaluator{e: e}
}

// Score evaluates the position, positive favoring White.
func (ev *Evaluator) Score() int {
	return ev.Breakdown().Total
}

// Breakdown evaluates the position component by component.
func (ev *Evaluator) Breakdown() Breakdown {
	var b Breakdown
	r, ov := ev.e.rules, ev.e.overlay

	for i := 0; i < numSquares; i++ {
		sq := chess.Square(i)
		p := r.PieceAt(sq)
		if p == chess.NoPiece {
			continue
		}
		sign := colorSign(p.Color())
		b.Material += sign * pieceValues[p.Type()]
		if ov.IsAngry(sq) {
			b.AngerBonus += sign * AngerBonus
		}
		if ov.IsSad(sq) {
			b.SadPenalty += sign * SadPenalty
		}
	}

	for _, pair := range ov.LovePairs() {
		pa := r.PieceAt(pair[0])
		pb := r.PieceAt(pair[1])
		if pa == chess.NoPiece || pb == chess.NoPiece {
			continue
		}
		b.LoveBonus += colorSign(pa.Color()) * LoveBonus
		b.LoveBonus += colorSign(pb.Color()) * LoveBonus
	}

	b.Total = b.Material + b.LoveBonus + b.AngerBonus - b.SadPenalty
	return b
}

// Impact tallies how many pieces of each side are in love, angry and sad.
func (ev *Evaluator) Impact() Impact {
	var imp Impact
	r, ov := ev.e.rules, ev.e.overlay

	for i := 0; i < numSquares; i++ {
		sq := chess.Square(i)
		p := r.PieceAt(sq)
		if p == chess.NoPiece {
			continue
		}
		t := &imp.White
		if p.Color() == chess.Black {
			t = &imp.Black
		}
		if ov.InLove(sq) {
			t.Love++
		}
		if ov.IsAngry(sq) {
			t.Anger++
		}
		if ov.IsSad(sq) {
			t.Sad++
		}
	}
	return imp
}

func colorSign(c chess.Color) int {
	if c == chess.White {
		return 1
	}
	return -1
}
