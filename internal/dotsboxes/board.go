package dotsboxes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/dotsboxes-backend/internal/apperror"
	"github.com/rocketscienceinc/dotsboxes-backend/internal/entity"
)

const (
	Horizontal = "H"
	Vertical   = "V"

	// SkipEdge is the reserved edge key for a voluntary pass. It never
	// touches the edge map.
	SkipEdge = "skip"

	edgeKeyParts = 3
)

// Edge - a unit line segment on the grid, identified by its lattice point and
// orientation. The wire format is "x,y,H" or "x,y,V".
type Edge struct {
	X   int
	Y   int
	Dir string
}

// ParseEdge - decodes an edge key. The coordinates are not range-checked here;
// the board dimensions are only known to the room.
func ParseEdge(key string) (Edge, error) {
	parts := strings.Split(key, ",")
	if len(parts) != edgeKeyParts {
		return Edge{}, fmt.Errorf("%w: %q", apperror.ErrInvalidEdge, key)
	}

	x, err := strconv.Atoi(parts[0])
	if err != nil {
		return Edge{}, fmt.Errorf("%w: %q", apperror.ErrInvalidEdge, key)
	}

	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return Edge{}, fmt.Errorf("%w: %q", apperror.ErrInvalidEdge, key)
	}

	dir := parts[2]
	if dir != Horizontal && dir != Vertical {
		return Edge{}, fmt.Errorf("%w: %q", apperror.ErrInvalidEdge, key)
	}

	return Edge{X: x, Y: y, Dir: dir}, nil
}

func (that Edge) Key() string {
	return EdgeKey(that.X, that.Y, that.Dir)
}

func EdgeKey(x, y int, dir string) string {
	return fmt.Sprintf("%d,%d,%s", x, y, dir)
}

func BoxKey(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}

// InRange - reports whether the edge lies on a board of the given dimensions.
// A horizontal edge spans cell column x and sits on one of height+1 rows; a
// vertical edge spans cell row y and sits on one of width+1 columns.
func (that Edge) InRange(width, height int) bool {
	if that.Dir == Horizontal {
		return that.X >= 0 && that.X < width && that.Y >= 0 && that.Y <= height
	}
	return that.X >= 0 && that.X <= width && that.Y >= 0 && that.Y < height
}

// AdjacentBoxes - the at most two cells bounded by this edge.
func (that Edge) AdjacentBoxes(width, height int) [][2]int {
	boxes := make([][2]int, 0, 2)

	if that.Dir == Horizontal {
		if that.Y > 0 {
			boxes = append(boxes, [2]int{that.X, that.Y - 1})
		}
		if that.Y < height {
			boxes = append(boxes, [2]int{that.X, that.Y})
		}
		return boxes
	}

	if that.X > 0 {
		boxes = append(boxes, [2]int{that.X - 1, that.Y})
	}
	if that.X < width {
		boxes = append(boxes, [2]int{that.X, that.Y})
	}
	return boxes
}

// ClaimEdge - records the edge for the player and awards every adjacent box
// whose four bounding edges are now claimed. Returns how many boxes the
// placement completed. The room must be locked by the caller and nothing is
// written until the edge has passed validation.
func ClaimEdge(room *entity.Room, player *entity.Player, edge Edge) (int, error) {
	if !edge.InRange(room.Width, room.Height) {
		return 0, fmt.Errorf("%w: %q", apperror.ErrInvalidEdge, edge.Key())
	}

	if _, claimed := room.Edges[edge.Key()]; claimed {
		return 0, apperror.ErrEdgeOccupied
	}

	room.Edges[edge.Key()] = player.ID

	completed := 0
	for _, box := range edge.AdjacentBoxes(room.Width, room.Height) {
		if completeBox(room, player, box[0], box[1]) {
			completed++
		}
	}

	return completed, nil
}

// completeBox - awards the box to the player if all four bounding edges are
// claimed and nobody owns it yet.
func completeBox(room *entity.Room, player *entity.Player, bx, by int) bool {
	key := BoxKey(bx, by)
	if _, owned := room.Boxes[key]; owned {
		return false
	}

	bounding := [4]string{
		EdgeKey(bx, by, Horizontal),   // top
		EdgeKey(bx, by+1, Horizontal), // bottom
		EdgeKey(bx, by, Vertical),     // left
		EdgeKey(bx+1, by, Vertical),   // right
	}

	for _, edgeKey := range bounding {
		if _, claimed := room.Edges[edgeKey]; !claimed {
			return false
		}
	}

	room.Boxes[key] = entity.Box{Owner: player.ID, X: bx, Y: by}
	player.Score++

	return true
}
