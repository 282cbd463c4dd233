package dotsboxes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/dotsboxes-backend/internal/apperror"
	"github.com/rocketscienceinc/dotsboxes-backend/internal/entity"
)

func TestParseEdge(t *testing.T) {
	t.Run("Decodes horizontal and vertical keys", func(t *testing.T) {
		// Given: valid edge keys of both orientations
		horizontal, err := ParseEdge("2,3,H")
		require.NoError(t, err)

		vertical, err := ParseEdge("0,0,V")
		require.NoError(t, err)

		// Then: coordinates and orientation round-trip
		assert.Equal(t, Edge{X: 2, Y: 3, Dir: Horizontal}, horizontal)
		assert.Equal(t, "2,3,H", horizontal.Key())
		assert.Equal(t, Edge{X: 0, Y: 0, Dir: Vertical}, vertical)
	})

	t.Run("Rejects malformed keys", func(t *testing.T) {
		for _, key := range []string{"", "1,2", "1,2,3,4", "a,2,H", "1,b,V", "1,2,X", "skip"} {
			// When: parsing a malformed key
			_, err := ParseEdge(key)

			// Then: it is rejected as an invalid edge
			assert.ErrorIs(t, err, apperror.ErrInvalidEdge, "key %q", key)
		}
	})
}

func TestEdge_InRange(t *testing.T) {
	t.Run("Accepts the board perimeter and rejects beyond it", func(t *testing.T) {
		// Given: a 5x5 board
		width, height := 5, 5

		// Then: horizontal edges exist on rows 0..height, columns 0..width-1
		assert.True(t, Edge{X: 0, Y: 0, Dir: Horizontal}.InRange(width, height))
		assert.True(t, Edge{X: 4, Y: 5, Dir: Horizontal}.InRange(width, height))
		assert.False(t, Edge{X: 5, Y: 0, Dir: Horizontal}.InRange(width, height))
		assert.False(t, Edge{X: 0, Y: 6, Dir: Horizontal}.InRange(width, height))

		// Then: vertical edges exist on columns 0..width, rows 0..height-1
		assert.True(t, Edge{X: 5, Y: 4, Dir: Vertical}.InRange(width, height))
		assert.False(t, Edge{X: 0, Y: 5, Dir: Vertical}.InRange(width, height))
		assert.False(t, Edge{X: -1, Y: 0, Dir: Vertical}.InRange(width, height))
	})
}

func TestEdge_AdjacentBoxes(t *testing.T) {
	t.Run("Interior edges border two boxes, perimeter edges one", func(t *testing.T) {
		width, height := 5, 5

		// An interior horizontal edge separates the cell above from the cell below.
		assert.ElementsMatch(t, [][2]int{{2, 1}, {2, 2}}, Edge{X: 2, Y: 2, Dir: Horizontal}.AdjacentBoxes(width, height))

		// A top-row horizontal edge only bounds the cell below it.
		assert.Equal(t, [][2]int{{2, 0}}, Edge{X: 2, Y: 0, Dir: Horizontal}.AdjacentBoxes(width, height))

		// A left-column vertical edge only bounds the cell to its right.
		assert.Equal(t, [][2]int{{0, 3}}, Edge{X: 0, Y: 3, Dir: Vertical}.AdjacentBoxes(width, height))

		// A right-column vertical edge only bounds the cell to its left.
		assert.Equal(t, [][2]int{{4, 3}}, Edge{X: 5, Y: 3, Dir: Vertical}.AdjacentBoxes(width, height))
	})
}

func TestClaimEdge(t *testing.T) {
	t.Run("Fourth bounding edge awards the box and a point", func(t *testing.T) {
		// Given: a 5x5 room and the first three edges of cell (0,0)
		player := &entity.Player{ID: "p1"}
		room := entity.NewRoom("r1", 5, 5, player)

		for _, key := range []string{"0,0,H", "0,1,H", "0,0,V"} {
			edge, err := ParseEdge(key)
			require.NoError(t, err)

			completed, err := ClaimEdge(room, player, edge)
			require.NoError(t, err)
			assert.Zero(t, completed)
			assert.Empty(t, room.Boxes)
		}

		// When: the fourth bounding edge is claimed
		edge, err := ParseEdge("1,0,V")
		require.NoError(t, err)

		completed, err := ClaimEdge(room, player, edge)

		// Then: box "0,0" belongs to the claimer and their score is 1
		require.NoError(t, err)
		assert.Equal(t, 1, completed)
		assert.Equal(t, entity.Box{Owner: "p1", X: 0, Y: 0}, room.Boxes["0,0"])
		assert.Equal(t, 1, player.Score)
	})

	t.Run("A shared edge can complete two boxes at once", func(t *testing.T) {
		// Given: cells (0,0) and (1,0) each missing only the vertical edge between them
		player := &entity.Player{ID: "p1"}
		room := entity.NewRoom("r1", 5, 5, player)

		for _, key := range []string{
			"0,0,H", "0,1,H", "0,0,V", // cell (0,0) minus its right edge
			"1,0,H", "1,1,H", "2,0,V", // cell (1,0) minus its left edge
		} {
			edge, err := ParseEdge(key)
			require.NoError(t, err)
			_, err = ClaimEdge(room, player, edge)
			require.NoError(t, err)
		}

		// When: claiming the shared edge
		edge, err := ParseEdge("1,0,V")
		require.NoError(t, err)
		completed, err := ClaimEdge(room, player, edge)

		// Then: both boxes are awarded in one placement
		require.NoError(t, err)
		assert.Equal(t, 2, completed)
		assert.Equal(t, 2, player.Score)
		assert.Equal(t, "p1", room.Boxes["0,0"].Owner)
		assert.Equal(t, "p1", room.Boxes["1,0"].Owner)
	})

	t.Run("Claiming an already-claimed edge changes nothing", func(t *testing.T) {
		// Given: an edge claimed by the first player
		first := &entity.Player{ID: "p1"}
		second := &entity.Player{ID: "p2"}
		room := entity.NewRoom("r1", 5, 5, first)
		room.AddPlayer(second)

		edge, err := ParseEdge("0,0,H")
		require.NoError(t, err)
		_, err = ClaimEdge(room, first, edge)
		require.NoError(t, err)

		// When: the second player claims the same edge
		completed, err := ClaimEdge(room, second, edge)

		// Then: the claim is rejected and ownership is unchanged
		require.ErrorIs(t, err, apperror.ErrEdgeOccupied)
		assert.Zero(t, completed)
		assert.Equal(t, "p1", room.Edges["0,0,H"])
		assert.Zero(t, second.Score)
	})

	t.Run("Out-of-range edges are rejected before any mutation", func(t *testing.T) {
		// Given: a 2x2 room
		player := &entity.Player{ID: "p1"}
		room := entity.NewRoom("r1", 2, 2, player)

		// When: claiming an edge beyond the board
		completed, err := ClaimEdge(room, player, Edge{X: 7, Y: 7, Dir: Horizontal})

		// Then: nothing was written
		require.ErrorIs(t, err, apperror.ErrInvalidEdge)
		assert.Zero(t, completed)
		assert.Empty(t, room.Edges)
	})

	t.Run("A completed box is never re-awarded", func(t *testing.T) {
		// Given: cell (0,0) fully claimed by the first player
		first := &entity.Player{ID: "p1"}
		second := &entity.Player{ID: "p2"}
		room := entity.NewRoom("r1", 5, 5, first)
		room.AddPlayer(second)

		for _, key := range []string{"0,0,H", "0,1,H", "0,0,V", "1,0,V"} {
			edge, err := ParseEdge(key)
			require.NoError(t, err)
			_, err = ClaimEdge(room, first, edge)
			require.NoError(t, err)
		}
		require.Equal(t, 1, first.Score)

		// When: the second player completes the neighboring cell, whose
		// bounding edges include edges of the finished box
		for _, key := range []string{"1,0,H", "1,1,H", "2,0,V"} {
			edge, err := ParseEdge(key)
			require.NoError(t, err)
			_, err = ClaimEdge(room, second, edge)
			require.NoError(t, err)
		}

		// Then: only the new box was awarded
		assert.Equal(t, "p1", room.Boxes["0,0"].Owner)
		assert.Equal(t, "p2", room.Boxes["1,0"].Owner)
		assert.Equal(t, 1, first.Score)
		assert.Equal(t, 1, second.Score)
	})
}
