package dungeon

import (
	"dungeon-delve/server/internal/entity"
	"dungeon-delve/server/internal/geom"
)

// Room canvas geometry. Every room is the same fixed-size rectangle; the
// player's reachable band per axis is [WallThickness + size/2,
// CanvasWidth - WallThickness - size/2].
const (
	CanvasWidth   = 800.0
	CanvasHeight  = 600.0
	WallThickness = 40.0
	// DoorZoneWidth is the width of the passable band centered on a wall's
	// midpoint. Crossing a wall anywhere else is always clamped.
	DoorZoneWidth = 120.0
)

// Direction names the four grid-aligned exits of a room.
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// Directions lists all four in a fixed order for deterministic iteration.
var Directions = [4]Direction{North, South, East, West}

// Offset returns the grid delta for the direction. North is negative Y,
// matching screen coordinates.
func (d Direction) Offset() (int, int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return d
	}
}

// Room is one node of the dungeon grid graph. Enemies and items are owned by
// the room and mutated in place as the simulation runs.
type Room struct {
	ID       string             `json:"id"`
	GridX    int                `json:"gridX"`
	GridY    int                `json:"gridY"`
	Cleared  bool               `json:"cleared"`
	Enemies  []*entity.Enemy    `json:"enemies"`
	Items    []*entity.Item     `json:"items"`
	Doors    map[Direction]bool `json:"doors"`
	BossRoom bool               `json:"isBossRoom"`
	ItemRoom bool               `json:"isItemRoom"`
}

// Center returns the canvas midpoint, where the item-room reward and the
// boss drop spawn.
func Center() geom.Vec2 {
	return geom.Vec2{X: CanvasWidth / 2, Y: CanvasHeight / 2}
}

// ManhattanFromOrigin measures grid distance from the start room at (0,0).
func (r *Room) ManhattanFromOrigin() int {
	return abs(r.GridX) + abs(r.GridY)
}

// HasActiveEnemies reports whether any enemy in the room is still alive.
func (r *Room) HasActiveEnemies() bool {
	for _, e := range r.Enemies {
		if e.Active {
			return true
		}
	}
	return false
}

// MarkCleared flips the cleared flag. Clearing is monotonic: there is no way
// to unset it.
func (r *Room) MarkCleared() {
	r.Cleared = true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// EntryPoint returns where the player lands after walking through the door
// in the given direction: just inside the opposite wall of the next room,
// centered on that wall's midpoint.
func EntryPoint(entering Direction, playerSize float64) geom.Vec2 {
	margin := WallThickness + playerSize/2
	switch entering {
	case North:
		// walked out the top, so enter the next room from its bottom
		return geom.Vec2{X: CanvasWidth / 2, Y: CanvasHeight - margin}
	case South:
		return geom.Vec2{X: CanvasWidth / 2, Y: margin}
	case East:
		return geom.Vec2{X: margin, Y: CanvasHeight / 2}
	case West:
		return geom.Vec2{X: CanvasWidth - margin, Y: CanvasHeight / 2}
	default:
		return Center()
	}
}

// InDoorZone reports whether a wall-axis coordinate falls inside the door
// band for the given direction. For North/South doors the relevant axis is X,
// for East/West it is Y.
func InDoorZone(d Direction, pos geom.Vec2) bool {
	switch d {
	case North, South:
		return pos.X > CanvasWidth/2-DoorZoneWidth/2 && pos.X < CanvasWidth/2+DoorZoneWidth/2
	case East, West:
		return pos.Y > CanvasHeight/2-DoorZoneWidth/2 && pos.Y < CanvasHeight/2+DoorZoneWidth/2
	default:
		return false
	}
}
