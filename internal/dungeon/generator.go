package dungeon

import (
	"fmt"
	"math/rand"
)

type gridKey struct {
	X int
	Y int
}

// Dungeon is the generated room graph. Rooms keeps insertion order, which is
// also the tie-break order for boss-room selection, so a fixed seed always
// produces the same designations.
type Dungeon struct {
	Rooms  []*Room
	byGrid map[gridKey]int

	StartIndex int
	BossIndex  int
	ItemIndex  int

	nextEnemyID uint64
	nextItemID  uint64
}

// Generate grows a connected grid of up to target rooms from the origin,
// designates the boss and item rooms, wires the doors, and populates every
// room. The rng drives every random choice; reuse the same seed to get the
// same dungeon.
func Generate(target int, rng *rand.Rand) *Dungeon {
	if target < 1 {
		target = 1
	}

	d := &Dungeon{
		byGrid:     make(map[gridKey]int),
		StartIndex: 0,
		BossIndex:  -1,
		ItemIndex:  -1,
	}
	d.place(0, 0)

	// Growth: pick a random already-placed parent, try the four directions
	// in shuffled order, and take the first free cell. A parent whose sides
	// are all taken wastes the attempt; after enough consecutive wasted
	// attempts we assume the frontier is exhausted and stop early.
	stalled := 0
	maxStalled := 8 * target
	for len(d.Rooms) < target && stalled < maxStalled {
		parent := d.Rooms[rng.Intn(len(d.Rooms))]
		placed := false
		for _, dir := range shuffledDirections(rng) {
			dx, dy := dir.Offset()
			key := gridKey{X: parent.GridX + dx, Y: parent.GridY + dy}
			if _, taken := d.byGrid[key]; taken {
				continue
			}
			d.place(key.X, key.Y)
			placed = true
			break
		}
		if placed {
			stalled = 0
		} else {
			stalled++
		}
	}

	d.designateBossRoom()
	d.designateItemRoom(rng)
	d.wireDoors()
	d.populate(rng)
	return d
}

func (d *Dungeon) place(gridX, gridY int) *Room {
	room := &Room{
		ID:    fmt.Sprintf("room-%d", len(d.Rooms)),
		GridX: gridX,
		GridY: gridY,
		Doors: make(map[Direction]bool, 4),
	}
	d.byGrid[gridKey{X: gridX, Y: gridY}] = len(d.Rooms)
	d.Rooms = append(d.Rooms, room)
	return room
}

func shuffledDirections(rng *rand.Rand) [4]Direction {
	dirs := Directions
	rng.Shuffle(len(dirs), func(i, j int) {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	})
	return dirs
}

// designateBossRoom picks the non-origin room with the greatest Manhattan
// distance from the origin. Ties go to the earliest-placed room.
func (d *Dungeon) designateBossRoom() {
	best := -1
	bestDist := -1
	for i, room := range d.Rooms {
		if i == d.StartIndex {
			continue
		}
		dist := room.ManhattanFromOrigin()
		if dist > bestDist {
			bestDist = dist
			best = i
		}
	}
	if best < 0 {
		return
	}
	d.BossIndex = best
	d.Rooms[best].BossRoom = true
}

// designateItemRoom picks uniformly among rooms that are neither the start
// nor the boss room. Dungeons below three rooms have no item room.
func (d *Dungeon) designateItemRoom(rng *rand.Rand) {
	candidates := make([]int, 0, len(d.Rooms))
	for i := range d.Rooms {
		if i == d.StartIndex || i == d.BossIndex {
			continue
		}
		candidates = append(candidates, i)
	}
	if len(candidates) == 0 {
		return
	}
	pick := candidates[rng.Intn(len(candidates))]
	d.ItemIndex = pick
	d.Rooms[pick].ItemRoom = true
}

// wireDoors opens a door wherever the grid-adjacent room exists. Adjacency is
// symmetric, so the matching door on the far side is opened by the same pass.
func (d *Dungeon) wireDoors() {
	for _, room := range d.Rooms {
		for _, dir := range Directions {
			dx, dy := dir.Offset()
			_, exists := d.byGrid[gridKey{X: room.GridX + dx, Y: room.GridY + dy}]
			room.Doors[dir] = exists
		}
	}
}

// Assemble builds a dungeon from pre-made rooms, wiring doors from grid
// adjacency and reading designations off the room flags. Used by tests and
// tooling that need a handcrafted layout; Generate is the production path.
func Assemble(rooms []*Room) *Dungeon {
	d := &Dungeon{
		byGrid:     make(map[gridKey]int, len(rooms)),
		StartIndex: 0,
		BossIndex:  -1,
		ItemIndex:  -1,
	}
	for i, room := range rooms {
		if room.Doors == nil {
			room.Doors = make(map[Direction]bool, 4)
		}
		d.byGrid[gridKey{X: room.GridX, Y: room.GridY}] = i
		d.Rooms = append(d.Rooms, room)
		if room.BossRoom {
			d.BossIndex = i
		}
		if room.ItemRoom {
			d.ItemIndex = i
		}
	}
	d.wireDoors()
	return d
}

// RoomAt returns the room at the given grid cell.
func (d *Dungeon) RoomAt(gridX, gridY int) (*Room, int, bool) {
	idx, ok := d.byGrid[gridKey{X: gridX, Y: gridY}]
	if !ok {
		return nil, -1, false
	}
	return d.Rooms[idx], idx, true
}

// Neighbor resolves the room on the far side of a door.
func (d *Dungeon) Neighbor(room *Room, dir Direction) (*Room, int, bool) {
	if room == nil {
		return nil, -1, false
	}
	dx, dy := dir.Offset()
	return d.RoomAt(room.GridX+dx, room.GridY+dy)
}

func (d *Dungeon) NewEnemyID() string {
	d.nextEnemyID++
	return fmt.Sprintf("enemy-%d", d.nextEnemyID)
}

func (d *Dungeon) NewItemID() string {
	d.nextItemID++
	return fmt.Sprintf("item-%d", d.nextItemID)
}
