package entity

import (
	"context"
	"sync"
)

// Box - a completed grid cell and its owner.
type Box struct {
	Owner string `json:"owner"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

// Room - the full state of one game room. Every read or write of the mutable
// fields must happen between Lock and Unlock; intents and timer ticks for the
// same room never interleave.
type Room struct {
	mu sync.Mutex

	ID      string
	Width   int
	Height  int
	Players []*Player
	Edges   map[string]string
	Boxes   map[string]Box
	Turn    int
	Started bool
	HostID  string

	TimeLeft int

	timerCancel context.CancelFunc
	timerGen    uint64
}

// Snapshot - the redacted, broadcastable view of a room. Timer handles and
// anything else internal never appear here.
type Snapshot struct {
	Players []*Player         `json:"players"`
	Edges   map[string]string `json:"edges"`
	Boxes   map[string]Box    `json:"boxes"`
	Turn    int               `json:"turn"`
	Width   int               `json:"width"`
	Height  int               `json:"height"`
	Started bool              `json:"started"`
	Host    string            `json:"host"`
}

func NewRoom(id string, width, height int, host *Player) *Room {
	return &Room{
		ID:      id,
		Width:   width,
		Height:  height,
		Players: []*Player{host},
		Edges:   make(map[string]string),
		Boxes:   make(map[string]Box),
		HostID:  host.ID,
	}
}

func (that *Room) Lock()   { that.mu.Lock() }
func (that *Room) Unlock() { that.mu.Unlock() }

func (that *Room) IsStarted() bool {
	return that.Started
}

// CurrentPlayer - the player whose move is current, or nil for an empty room.
func (that *Room) CurrentPlayer() *Player {
	if len(that.Players) == 0 {
		return nil
	}
	return that.Players[that.Turn]
}

func (that *Room) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}
	return nil
}

func (that *Room) PlayerIDs() []string {
	ids := make([]string, len(that.Players))
	for i, player := range that.Players {
		ids[i] = player.ID
	}
	return ids
}

func (that *Room) AddPlayer(player *Player) {
	that.Players = append(that.Players, player)
}

// RemovePlayer - removes the player and repairs the turn index so it keeps
// pointing at the same player, or wraps when the removed player held the last
// position. Reports whether the player was a member.
func (that *Room) RemovePlayer(id string) bool {
	for i, player := range that.Players {
		if player.ID != id {
			continue
		}

		that.Players = append(that.Players[:i], that.Players[i+1:]...)

		if i < that.Turn {
			that.Turn--
		}
		if len(that.Players) == 0 {
			that.Turn = 0
		} else {
			that.Turn %= len(that.Players)
		}

		return true
	}

	return false
}

func (that *Room) AdvanceTurn() {
	if len(that.Players) == 0 {
		return
	}
	that.Turn = (that.Turn + 1) % len(that.Players)
}

// SwapTimer - cancels the previous countdown, if any, and registers the cancel
// handle of its replacement. Returns the generation a tick must present before
// it is allowed to mutate the room; a tick holding an older generation is stale.
func (that *Room) SwapTimer(cancel context.CancelFunc) uint64 {
	if that.timerCancel != nil {
		that.timerCancel()
	}
	that.timerGen++
	that.timerCancel = cancel

	return that.timerGen
}

// StopTimer - cancels any running countdown and invalidates its generation.
func (that *Room) StopTimer() {
	if that.timerCancel != nil {
		that.timerCancel()
		that.timerCancel = nil
	}
	that.timerGen++
}

func (that *Room) TimerGen() uint64 {
	return that.timerGen
}

// Snapshot - copies the broadcastable state so the caller can release the room
// lock before fanning out.
func (that *Room) Snapshot() *Snapshot {
	players := make([]*Player, len(that.Players))
	for i, player := range that.Players {
		copied := *player
		players[i] = &copied
	}

	edges := make(map[string]string, len(that.Edges))
	for key, owner := range that.Edges {
		edges[key] = owner
	}

	boxes := make(map[string]Box, len(that.Boxes))
	for key, box := range that.Boxes {
		boxes[key] = box
	}

	return &Snapshot{
		Players: players,
		Edges:   edges,
		Boxes:   boxes,
		Turn:    that.Turn,
		Width:   that.Width,
		Height:  that.Height,
		Started: that.Started,
		Host:    that.HostID,
	}
}
