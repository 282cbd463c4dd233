package roomstore

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/dotsboxes-backend/internal/apperror"
	"github.com/rocketscienceinc/dotsboxes-backend/internal/entity"
)

// Store - the identifier-keyed registry of active rooms. It owns nothing but
// the map; all game logic lives in the usecase layer. Constructed once at
// process start and injected everywhere it is needed.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func New() *Store {
	return &Store{
		rooms: make(map[string]*entity.Room),
	}
}

func (that *Store) Create(id string, width, height int, host *entity.Player) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, exists := that.rooms[id]; exists {
		return nil, fmt.Errorf("%w: %q", apperror.ErrRoomExists, id)
	}

	room := entity.NewRoom(id, width, height, host)
	that.rooms[id] = room

	return room, nil
}

func (that *Store) Get(id string) (*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrRoomNotFound, id)
	}

	return room, nil
}

func (that *Store) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}

// RemovePlayer - takes the player out of the room. An emptied room is deleted
// and its countdown cancelled so no further tick can observe it. Idempotent if
// the room or the player is already gone.
//
// Returns the surviving room (nil if the room was deleted or never existed),
// a copy of the removed player, and whether the game had started.
func (that *Store) RemovePlayer(roomID, playerID string) (*entity.Room, *entity.Player, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[roomID]
	if !ok {
		return nil, nil, false
	}

	room.Lock()
	defer room.Unlock()

	removed := room.PlayerByID(playerID)
	if removed == nil {
		return room, nil, room.Started
	}

	copied := *removed
	started := room.Started
	room.RemovePlayer(playerID)

	if len(room.Players) == 0 {
		room.StopTimer()
		delete(that.rooms, roomID)
		return nil, &copied, started
	}

	return room, &copied, started
}
