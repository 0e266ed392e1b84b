package game

import (
	"fmt"

	"github.com/notnil/chess"
)

// EventType identifies a discrete emotional state change.
type EventType string

const (
	EventLoveFormed       EventType = "love_formed"
	EventLoveBroken       EventType = "love_broken"
	EventAngerTriggered   EventType = "anger_triggered"
	EventSadnessTriggered EventType = "sadness_triggered"
)

// Event records one emotional state change produced by the state engine.
// Partner is chess.NoSquare for events that concern a single square.
type Event struct {
	Type    EventType
	Square  chess.Square
	Partner chess.Square
}

func (e Event) String() string {
	if e.Partner == chess.NoSquare {
		return fmt.Sprintf("%s at %s", e.Type, e.Square)
	}
	return fmt.Sprintf("%s at %s %s", e.Type, e.Square, e.Partner)
}

func pairEvent(t EventType, a, b chess.Square) Event {
	return Event{Type: t, Square: a, Partner: b}
}

func squareEvent(t EventType, sq chess.Square) Event {
	return Event{Type: t, Square: sq, Partner: chess.NoSquare}
}
