package server

import (
	"time"

	"github.com/samber/lo"
	"github.com/yourusername/ludoengine/pkg/engine"
)

// RoomStatus is the lifecycle of a room.
type RoomStatus string

const (
	RoomWaiting  RoomStatus = "waiting"
	RoomPlaying  RoomStatus = "playing"
	RoomFinished RoomStatus = "finished"
)

// MaxRoomPlayers caps room membership at the four-color palette.
const MaxRoomPlayers = 4

// MinRoomPlayers is the minimum membership to start a match.
const MinRoomPlayers = 2

// SessionPlayer is a room member. It is distinct from the game Player: the
// session identity survives disconnects, and its connection id is rebound
// (never recreated) on reconnection.
type SessionPlayer struct {
	ID        string       `json:"id"`
	ConnID    string       `json:"connectionId"`
	Name      string       `json:"name"`
	Color     engine.Color `json:"color"`
	Ready     bool         `json:"isReady"`
	Connected bool         `json:"connected"`
	Host      bool         `json:"isHost"`
}

// Room is a lobby/match container identified by a short code. It owns zero
// or one bound match, tracked by the coordinator under the same id.
type Room struct {
	ID           string           `json:"id"`
	MaxPlayers   int              `json:"maxPlayers"`
	Private      bool             `json:"isPrivate"`
	Status       RoomStatus       `json:"status"`
	Players      []*SessionPlayer `json:"players"`
	CreatedAt    time.Time        `json:"createdAt"`
	LastActivity time.Time        `json:"lastActivity"`
}

// player returns the member with the given session id, or nil.
func (r *Room) player(id string) *SessionPlayer {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// nameTaken reports whether a member already uses the name.
func (r *Room) nameTaken(name string) bool {
	return lo.SomeBy(r.Players, func(p *SessionPlayer) bool { return p.Name == name })
}

// nextColor returns the first palette color not yet assigned.
func (r *Room) nextColor() engine.Color {
	used := lo.Map(r.Players, func(p *SessionPlayer, _ int) engine.Color { return p.Color })
	for _, c := range engine.Palette {
		if !lo.Contains(used, c) {
			return c
		}
	}
	return engine.NoColor
}

// connected returns the members currently holding a live connection.
func (r *Room) connected() []*SessionPlayer {
	return lo.Filter(r.Players, func(p *SessionPlayer, _ int) bool { return p.Connected })
}

// allDisconnected reports whether no member holds a live connection.
func (r *Room) allDisconnected() bool {
	return len(r.connected()) == 0
}

// removePlayer drops a member and migrates hosting to the next remaining
// member in join order.
func (r *Room) removePlayer(id string) *SessionPlayer {
	for i, p := range r.Players {
		if p.ID != id {
			continue
		}
		r.Players = append(r.Players[:i], r.Players[i+1:]...)
		if p.Host && len(r.Players) > 0 {
			r.Players[0].Host = true
		}
		return p
	}
	return nil
}

// touch records activity for the inactivity sweep.
func (r *Room) touch(now time.Time) { r.LastActivity = now }
