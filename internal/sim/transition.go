package sim

import (
	"dungeon-delve/server/internal/dungeon"
	"dungeon-delve/server/internal/geom"
	"dungeon-delve/server/logging"
)

// crossedWall reports which wall midline the tentative position has passed.
// The midline (half the wall thickness from the canvas edge) is deep enough
// into the door corridor that grazing the clamp band never triggers it.
func crossedWall(tentative geom.Vec2) (dungeon.Direction, bool) {
	const midline = dungeon.WallThickness / 2
	switch {
	case tentative.Y < midline:
		return dungeon.North, true
	case tentative.Y > dungeon.CanvasHeight-midline:
		return dungeon.South, true
	case tentative.X < midline:
		return dungeon.West, true
	case tentative.X > dungeon.CanvasWidth-midline:
		return dungeon.East, true
	default:
		return "", false
	}
}

// checkRoomTransition swaps the active room when the player walks out
// through a door. The vacated room is marked cleared, transient projectiles
// are dropped, and the player re-enters at the matching point on the far
// side. An uncleared room bounces the player instead (the clamp already held
// the committed position at the wall).
func (w *World) checkRoomTransition(tentative geom.Vec2, room *dungeon.Room) {
	dir, crossed := crossedWall(tentative)
	if !crossed {
		return
	}
	if !room.Doors[dir] || !dungeon.InDoorZone(dir, tentative) {
		return
	}
	if !room.Cleared && room.HasActiveEnemies() {
		return
	}

	next, nextIndex, ok := w.dungeon.Neighbor(room, dir)
	if !ok {
		// A door pointing at a missing room is a generation bug; abort the
		// transition and keep the frame loop alive.
		w.publish(logging.EventTransitionAborted,
			logging.EntityRef{ID: room.ID, Kind: logging.EntityKindRoom},
			logging.SeverityWarn,
			map[string]any{"direction": dir})
		return
	}

	room.MarkCleared()
	w.roomIndex = nextIndex
	w.player.Pos = dungeon.EntryPoint(dir, w.player.Size)
	w.projectiles = w.projectiles[:0]

	w.publish(logging.EventRoomEntered,
		logging.EntityRef{ID: next.ID, Kind: logging.EntityKindRoom},
		logging.SeverityInfo,
		map[string]any{"from": room.ID, "direction": dir, "boss": next.BossRoom})

	if next.BossRoom && w.notifier != nil {
		w.notifier.BossEncountered(w.epoch)
	}
}
