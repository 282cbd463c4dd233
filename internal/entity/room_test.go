package entity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoom_RemovePlayer(t *testing.T) {
	newRoom := func() *Room {
		room := NewRoom("r1", 5, 5, &Player{ID: "p1", Name: "one"})
		room.AddPlayer(&Player{ID: "p2", Name: "two"})
		room.AddPlayer(&Player{ID: "p3", Name: "three"})
		return room
	}

	t.Run("Removing an earlier player keeps the turn on the same player", func(t *testing.T) {
		// Given: a room of three players with the turn on the third
		room := newRoom()
		room.Turn = 2

		// When: the first player is removed
		removed := room.RemovePlayer("p1")

		// Then: the turn still points at the third player
		require.True(t, removed)
		assert.Equal(t, 1, room.Turn)
		assert.Equal(t, "p3", room.CurrentPlayer().ID)
	})

	t.Run("Removing the current tail player wraps the turn", func(t *testing.T) {
		// Given: a room of three players with the turn on the last
		room := newRoom()
		room.Turn = 2

		// When: the last player is removed
		removed := room.RemovePlayer("p3")

		// Then: the turn wraps back to the first player
		require.True(t, removed)
		assert.Equal(t, 0, room.Turn)
		assert.Equal(t, "p1", room.CurrentPlayer().ID)
	})

	t.Run("Turn index stays in range after every removal", func(t *testing.T) {
		// Given: a room of three players mid-game
		room := newRoom()
		room.Turn = 1

		// When: players leave one by one
		for _, id := range []string{"p2", "p1", "p3"} {
			room.RemovePlayer(id)

			// Then: the invariant 0 <= turn < len(players) holds for non-empty rooms
			if len(room.Players) > 0 {
				assert.GreaterOrEqual(t, room.Turn, 0)
				assert.Less(t, room.Turn, len(room.Players))
			}
		}

		assert.Empty(t, room.Players)
	})

	t.Run("Removing an absent player is a no-op", func(t *testing.T) {
		// Given: a room of three players
		room := newRoom()

		// When: removing an id that is not a member
		removed := room.RemovePlayer("ghost")

		// Then: nothing changes
		assert.False(t, removed)
		assert.Len(t, room.Players, 3)
	})
}

func TestRoom_Snapshot(t *testing.T) {
	t.Run("Snapshot copies state instead of aliasing it", func(t *testing.T) {
		// Given: a started room with one claimed edge
		room := NewRoom("r1", 3, 3, &Player{ID: "p1", Name: "one", Score: 2})
		room.Started = true
		room.Edges["0,0,H"] = "p1"
		room.Boxes["0,0"] = Box{Owner: "p1", X: 0, Y: 0}

		// When: taking a snapshot and mutating the room afterwards
		snapshot := room.Snapshot()
		room.Edges["1,1,V"] = "p1"
		room.Players[0].Score = 9

		// Then: the snapshot still reflects the state at capture time
		assert.Len(t, snapshot.Edges, 1)
		assert.Equal(t, 2, snapshot.Players[0].Score)
		assert.Equal(t, "p1", snapshot.Host)
		assert.True(t, snapshot.Started)
		assert.Equal(t, Box{Owner: "p1", X: 0, Y: 0}, snapshot.Boxes["0,0"])
	})
}

func TestRoom_TimerHandle(t *testing.T) {
	t.Run("SwapTimer cancels the previous countdown and bumps the generation", func(t *testing.T) {
		// Given: a room with a registered countdown
		room := NewRoom("r1", 3, 3, &Player{ID: "p1"})

		firstCancelled := false
		firstGen := room.SwapTimer(func() { firstCancelled = true })

		// When: a second countdown replaces it
		secondGen := room.SwapTimer(func() {})

		// Then: the first is cancelled and its generation is stale
		assert.True(t, firstCancelled)
		assert.Greater(t, secondGen, firstGen)
		assert.Equal(t, secondGen, room.TimerGen())
	})

	t.Run("StopTimer cancels and invalidates the live generation", func(t *testing.T) {
		// Given: a room with a running countdown
		room := NewRoom("r1", 3, 3, &Player{ID: "p1"})

		var cancelled bool
		gen := room.SwapTimer(context.CancelFunc(func() { cancelled = true }))

		// When: the timer is stopped
		room.StopTimer()

		// Then: the cancel fired and the old generation no longer matches
		assert.True(t, cancelled)
		assert.NotEqual(t, gen, room.TimerGen())
	})
}
