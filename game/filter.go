package game

import "github.com/notnil/chess"

// legalMoves derives the playable move set from the provider's base-legal
// moves: pawn double steps are dropped, lovers cannot act against their
// partner, sad pieces may only resolve check, and angry non-Knights gain
// extension moves one square beyond each base move's direction. Anger
// extensions bypass base path legality entirely; the only checks applied to
// them are board bounds, destination occupancy and the lover's square.
func legalMoves(r Rules, ov *Overlay) []Move {
	base := r.LegalMoves()
	inCheck := r.InCheck()

	var out []Move
	seen := make(map[Move]bool, len(base))
	add := func(m Move) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}

	for _, m := range base {
		piece := r.PieceAt(m.From)

		if piece.Type() == chess.Pawn && rankDelta(m) > 1 {
			continue
		}

		if lover, ok := ov.Partner(m.From); ok {
			if m.To == lover {
				continue
			}
			if target := r.PieceAt(m.To); target != chess.NoPiece && target.Type() == chess.King {
				if lp := r.PieceAt(lover); lp != chess.NoPiece && lp.Color() == target.Color() {
					continue
				}
			}
		}

		if ov.IsSad(m.From) {
			if !inCheck {
				continue
			}
			if r.WouldSelfCheck(m) {
				continue
			}
		}

		if ov.IsAngry(m.From) && piece.Type() != chess.Knight {
			for _, am := range angerMoves(r, ov, m.From) {
				add(am)
			}
		}

		add(m)
	}
	return out
}

// angerMoves extends every base move from sq one square further along its
// direction, each axis clamped to a unit step.
func angerMoves(r Rules, ov *Overlay, sq chess.Square) []Move {
	var moves []Move
	for _, m := range r.LegalMovesFrom(sq) {
		df := clampUnit(int(m.To.File()) - int(m.From.File()))
		dr := clampUnit(int(m.To.Rank()) - int(m.From.Rank()))
		ef := int(m.To.File()) + df
		er := int(m.To.Rank()) + dr
		if ef < 0 || ef >= ColNum || er < 0 || er >= RowNum {
			continue
		}
		ext := SquareAt(ef, er)
		if !angerTargetOK(r, ov, sq, ext) {
			continue
		}
		moves = append(moves, Move{From: sq, To: ext})
	}
	return moves
}

func angerTargetOK(r Rules, ov *Overlay, from, to chess.Square) bool {
	if from == to {
		return false
	}
	if target := r.PieceAt(to); target != chess.NoPiece {
		if mover := r.PieceAt(from); mover != chess.NoPiece && target.Color() == mover.Color() {
			return false
		}
	}
	if lover, ok := ov.Partner(from); ok && to == lover {
		return false
	}
	return true
}

func rankDelta(m Move) int {
	d := int(m.To.Rank()) - int(m.From.Rank())
	if d < 0 {
		return -d
	}
	return d
}

func clampUnit(d int) int {
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	}
	return 0
}
