package game

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// emFEN layout: the base FEN, then optional L/A/S sections in that order,
// joined by " | ". Example:
//
//	rnbq.../8/... w KQkq - 0 1 | L: e2-e7 | A: e4,f7 | S: g2
//
// Love pairs are written once, lower square first. Empty sections are
// omitted.
const (
	emfenSep    = " | "
	lovePrefix  = "L: "
	angryPrefix = "A: "
	sadPrefix   = "S: "
)

// EncodeEmFEN serializes the engine's position and emotional overlay.
func EncodeEmFEN(e *Engine) string {
	parts := []string{e.rules.FEN()}

	var loves []string
	for _, pair := range e.overlay.LovePairs() {
		loves = append(loves, pair[0].String()+"-"+pair[1].String())
	}
	var angry, sad []string
	for i := 0; i < numSquares; i++ {
		sq := chess.Square(i)
		if e.overlay.IsAngry(sq) {
			angry = append(angry, sq.String())
		}
		if e.overlay.IsSad(sq) {
			sad = append(sad, sq.String())
		}
	}

	if len(loves) > 0 {
		parts = append(parts, lovePrefix+strings.Join(loves, ","))
	}
	if len(angry) > 0 {
		parts = append(parts, angryPrefix+strings.Join(angry, ","))
	}
	if len(sad) > 0 {
		parts = append(parts, sadPrefix+strings.Join(sad, ","))
	}
	return strings.Join(parts, emfenSep)
}

// DecodeEmFEN replaces the engine's state with the one described by s. A bad
// base position fails the whole decode; malformed pair or square tokens are
// skipped individually. Decoded anger and sadness counters are always set to
// 1 turn remaining: the format does not carry counter magnitude and the
// decoder deliberately does not infer one.
func DecodeEmFEN(s string, e *Engine) error {
	parts := strings.Split(s, emfenSep)
	if err := e.rules.LoadFEN(parts[0]); err != nil {
		return errors.WithMessage(err, "emfen: base position")
	}
	e.overlay.Reset()
	e.events = nil

	for _, part := range parts[1:] {
		switch {
		case strings.HasPrefix(part, lovePrefix):
			decodeLovePairs(strings.TrimPrefix(part, lovePrefix), e.overlay)
		case strings.HasPrefix(part, angryPrefix):
			decodeCounterSquares(strings.TrimPrefix(part, angryPrefix), e.overlay.SetAnger)
		case strings.HasPrefix(part, sadPrefix):
			decodeCounterSquares(strings.TrimPrefix(part, sadPrefix), e.overlay.SetSadness)
		}
	}
	return nil
}

func decodeLovePairs(s string, ov *Overlay) {
	if strings.TrimSpace(s) == "" {
		return
	}
	for _, token := range strings.Split(s, ",") {
		a, b, err := parseLovePair(token)
		if err != nil {
			continue
		}
		ov.SetLovePair(a, b)
	}
}

func parseLovePair(token string) (chess.Square, chess.Square, error) {
	fields := strings.Split(strings.TrimSpace(token), "-")
	if len(fields) != 2 {
		return chess.NoSquare, chess.NoSquare, errors.Errorf("invalid love pair %q", token)
	}
	a, err := ParseSquare(fields[0])
	if err != nil {
		return chess.NoSquare, chess.NoSquare, err
	}
	b, err := ParseSquare(fields[1])
	if err != nil {
		return chess.NoSquare, chess.NoSquare, err
	}
	return a, b, nil
}

func decodeCounterSquares(s string, set func(chess.Square, int)) {
	if strings.TrimSpace(s) == "" {
		return
	}
	for _, token := range strings.Split(s, ",") {
		sq, err := ParseSquare(strings.TrimSpace(token))
		if err != nil {
			continue
		}
		set(sq, 1)
	}
}

// ValidateEmFEN checks s without building an engine and reports every
// problem found, aggregated into one error. Unlike DecodeEmFEN it does not
// forgive malformed tokens.
func ValidateEmFEN(s string) error {
	var result *multierror.Error

	parts := strings.Split(s, emfenSep)
	if _, err := chess.FEN(parts[0]); err != nil {
		result = multierror.Append(result, errors.WithMessage(err, "base position"))
	}

	for _, part := range parts[1:] {
		switch {
		case strings.HasPrefix(part, lovePrefix):
			for _, token := range splitTokens(strings.TrimPrefix(part, lovePrefix)) {
				if _, _, err := parseLovePair(token); err != nil {
					result = multierror.Append(result, err)
				}
			}
		case strings.HasPrefix(part, angryPrefix), strings.HasPrefix(part, sadPrefix):
			for _, token := range splitTokens(part[len(angryPrefix):]) {
				if _, err := ParseSquare(strings.TrimSpace(token)); err != nil {
					result = multierror.Append(result, err)
				}
			}
		default:
			result = multierror.Append(result, errors.Errorf("unknown section %q", part))
		}
	}
	return result.ErrorOrNil()
}

func splitTokens(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// SummaryOfEmFEN counts the emotional states listed in s without building a
// board. Tokens are counted as written, not validated.
func SummaryOfEmFEN(s string) Summary {
	var sum Summary
	for _, part := range strings.Split(s, emfenSep)[1:] {
		switch {
		case strings.HasPrefix(part, lovePrefix):
			sum.LovePairs = len(splitTokens(strings.TrimPrefix(part, lovePrefix)))
		case strings.HasPrefix(part, angryPrefix):
			sum.Angry = len(splitTokens(strings.TrimPrefix(part, angryPrefix)))
		case strings.HasPrefix(part, sadPrefix):
			sum.Sad = len(splitTokens(strings.TrimPrefix(part, sadPrefix)))
		}
	}
	return sum
}
