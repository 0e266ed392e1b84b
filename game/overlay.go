package game

import (
	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// Overlay holds the per-square emotional state for one game: love pairings,
// anger counters and sadness counters. The three are independent of each
// other; pairing symmetry is the one cross-square invariant and every
// mutation here maintains it.
type Overlay struct {
	partner    [numSquares]chess.Square
	angerTurns [numSquares]int
	sadTurns   [numSquares]int
}

// NewOverlay returns an empty overlay: no pairs, no counters.
func NewOverlay() *Overlay {
	o := &Overlay{}
	o.Reset()
	return o
}

// Reset clears all pairings and counters.
func (o *Overlay) Reset() {
	for i := range o.partner {
		o.partner[i] = chess.NoSquare
		o.angerTurns[i] = 0
		o.sadTurns[i] = 0
	}
}

// InLove reports whether sq currently has a love partner.
func (o *Overlay) InLove(sq chess.Square) bool {
	return o.partner[sq] != chess.NoSquare
}

// Partner returns sq's love partner, if any.
func (o *Overlay) Partner(sq chess.Square) (chess.Square, bool) {
	p := o.partner[sq]
	return p, p != chess.NoSquare
}

// SetLovePair bonds a and b, replacing any pairing either side had.
func (o *Overlay) SetLovePair(a, b chess.Square) {
	o.ClearLove(a)
	o.ClearLove(b)
	o.partner[a] = b
	o.partner[b] = a
}

// ClearLove dissolves sq's bond on both ends.
func (o *Overlay) ClearLove(sq chess.Square) {
	if p := o.partner[sq]; p != chess.NoSquare {
		o.partner[p] = chess.NoSquare
	}
	o.partner[sq] = chess.NoSquare
}

func (o *Overlay) clearAllLove() {
	for i := range o.partner {
		o.partner[i] = chess.NoSquare
	}
}

// IsAngry reports whether sq has anger turns remaining.
func (o *Overlay) IsAngry(sq chess.Square) bool {
	return o.angerTurns[sq] > 0
}

// AngerTurns returns the remaining anger turns for sq.
func (o *Overlay) AngerTurns(sq chess.Square) int {
	return o.angerTurns[sq]
}

// SetAnger sets the anger counter for sq. Negative values clamp to zero.
func (o *Overlay) SetAnger(sq chess.Square, turns int) {
	if turns < 0 {
		turns = 0
	}
	o.angerTurns[sq] = turns
}

// IsSad reports whether sq has sadness turns remaining.
func (o *Overlay) IsSad(sq chess.Square) bool {
	return o.sadTurns[sq] > 0
}

// SadTurns returns the remaining sadness turns for sq.
func (o *Overlay) SadTurns(sq chess.Square) int {
	return o.sadTurns[sq]
}

// SetSadness sets the sadness counter for sq. Negative values clamp to zero.
func (o *Overlay) SetSadness(sq chess.Square, turns int) {
	if turns < 0 {
		turns = 0
	}
	o.sadTurns[sq] = turns
}

func (o *Overlay) decayAnger() {
	for i := range o.angerTurns {
		if o.angerTurns[i] > 0 {
			o.angerTurns[i]--
		}
	}
}

func (o *Overlay) decaySadness() {
	for i := range o.sadTurns {
		if o.sadTurns[i] > 0 {
			o.sadTurns[i]--
		}
	}
}

// CheckSymmetry verifies that partner[a] == b implies partner[b] == a for
// every square. It returns the first violation found.
func (o *Overlay) CheckSymmetry() error {
	for i := range o.partner {
		p := o.partner[i]
		if p == chess.NoSquare {
			continue
		}
		if o.partner[p] != chess.Square(i) {
			return errors.Errorf("asymmetric love bond %s -> %s", chess.Square(i), p)
		}
	}
	return nil
}

// LovePairs returns every bond once, lower square first, in ascending order.
func (o *Overlay) LovePairs() [][2]chess.Square {
	var pairs [][2]chess.Square
	for i := range o.partner {
		sq := chess.Square(i)
		if p := o.partner[i]; p != chess.NoSquare && sq < p {
			pairs = append(pairs, [2]chess.Square{sq, p})
		}
	}
	return pairs
}
