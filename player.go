package emchess

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// A Player is one seat in a multiplayer game.
type Player struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Color        string       `json:"color"`
	Status       PlayerStatus `json:"status"`
	ConnectedAt  time.Time    `json:"connected_at"`
	LastActivity time.Time    `json:"last_activity"`
}

func newPlayer(name, color string) *Player {
	now := time.Now()
	return &Player{
		ID:           newID(),
		Name:         name,
		Color:        color,
		Status:       PlayerConnected,
		ConnectedAt:  now,
		LastActivity: now,
	}
}

// Touch records activity for idle tracking.
func (p *Player) Touch() {
	p.LastActivity = time.Now()
}

// newID returns a random 128-bit hex identifier.
func newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
