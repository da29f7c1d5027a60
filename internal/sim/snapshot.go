package sim

import (
	"dungeon-delve/server/internal/dungeon"
	"dungeon-delve/server/internal/entity"
	"dungeon-delve/server/internal/geom"
)

// PlayerView is the read-only player state handed to the render and HUD
// boundaries.
type PlayerView struct {
	ID        string               `json:"id"`
	Pos       geom.Vec2            `json:"pos"`
	Size      float64              `json:"size"`
	Health    float64              `json:"health"`
	MaxHealth float64              `json:"maxHealth"`
	Damage    float64              `json:"damage"`
	Speed     float64              `json:"speed"`
	FireRate  float64              `json:"fireRate"`
	Facing    geom.FacingDirection `json:"facing"`
	Modifiers []entity.Modifier    `json:"modifiers"`
	Active    bool                 `json:"active"`
}

// RoomView is the current room with its live entity lists.
type RoomView struct {
	ID       string                     `json:"id"`
	GridX    int                        `json:"gridX"`
	GridY    int                        `json:"gridY"`
	Cleared  bool                       `json:"cleared"`
	BossRoom bool                       `json:"isBossRoom"`
	ItemRoom bool                       `json:"isItemRoom"`
	Doors    map[dungeon.Direction]bool `json:"doors"`
	Enemies  []entity.Enemy             `json:"enemies"`
	Items    []entity.Item              `json:"items"`
}

// MinimapRoom is the per-room summary the HUD minimap draws.
type MinimapRoom struct {
	ID       string `json:"id"`
	GridX    int    `json:"gridX"`
	GridY    int    `json:"gridY"`
	Cleared  bool   `json:"cleared"`
	BossRoom bool   `json:"isBossRoom"`
	ItemRoom bool   `json:"isItemRoom"`
	Current  bool   `json:"current"`
}

// Snapshot is a value copy of everything presentation layers may read. It is
// built on the loop goroutine; consumers may marshal it at leisure without
// touching live state.
type Snapshot struct {
	Tick        uint64              `json:"t"`
	Phase       Phase               `json:"phase"`
	Epoch       uint64              `json:"epoch"`
	Player      PlayerView          `json:"player"`
	Room        RoomView            `json:"room"`
	Projectiles []entity.Projectile `json:"projectiles"`
	Rooms       []MinimapRoom       `json:"rooms"`
}

func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:   w.tick,
		Phase:  w.phase,
		Epoch:  w.epoch,
		Player: w.playerView(),
		Rooms:  make([]MinimapRoom, 0, len(w.dungeon.Rooms)),
	}

	if room := w.currentRoom(); room != nil {
		view := RoomView{
			ID:       room.ID,
			GridX:    room.GridX,
			GridY:    room.GridY,
			Cleared:  room.Cleared,
			BossRoom: room.BossRoom,
			ItemRoom: room.ItemRoom,
			Doors:    make(map[dungeon.Direction]bool, len(room.Doors)),
			Enemies:  make([]entity.Enemy, 0, len(room.Enemies)),
			Items:    make([]entity.Item, 0, len(room.Items)),
		}
		for dir, open := range room.Doors {
			view.Doors[dir] = open
		}
		for _, enemy := range room.Enemies {
			if enemy.Active {
				view.Enemies = append(view.Enemies, *enemy)
			}
		}
		for _, item := range room.Items {
			if item.Active {
				view.Items = append(view.Items, *item)
			}
		}
		snap.Room = view
	}

	for i, room := range w.dungeon.Rooms {
		snap.Rooms = append(snap.Rooms, MinimapRoom{
			ID:       room.ID,
			GridX:    room.GridX,
			GridY:    room.GridY,
			Cleared:  room.Cleared,
			BossRoom: room.BossRoom,
			ItemRoom: room.ItemRoom,
			Current:  i == w.roomIndex,
		})
	}

	snap.Projectiles = make([]entity.Projectile, 0, len(w.projectiles))
	for _, shot := range w.projectiles {
		if shot.Active {
			snap.Projectiles = append(snap.Projectiles, *shot)
		}
	}
	return snap
}

func (w *World) playerView() PlayerView {
	modifiers := make([]entity.Modifier, 0, len(w.player.Modifiers))
	for m := range w.player.Modifiers {
		modifiers = append(modifiers, m)
	}
	return PlayerView{
		ID:        w.player.ID,
		Pos:       w.player.Pos,
		Size:      w.player.Size,
		Health:    w.player.Health,
		MaxHealth: w.player.MaxHealth,
		Damage:    w.player.Damage,
		Speed:     w.player.Speed,
		FireRate:  entity.PlayerFireCooldown,
		Facing:    w.player.Facing,
		Modifiers: modifiers,
		Active:    w.player.Active,
	}
}
