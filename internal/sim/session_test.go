package sim

import (
	"context"
	"sync"
	"testing"

	"dungeon-delve/server/internal/dungeon"
	"dungeon-delve/server/internal/entity"
	"dungeon-delve/server/internal/geom"
	"dungeon-delve/server/logging"
)

// collector is an inline publisher for asserting on emitted events.
type collector struct {
	mu     sync.Mutex
	events []logging.Event
}

func (c *collector) Publish(_ context.Context, event logging.Event) {
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()
}

func (c *collector) byType(eventType logging.EventType) []logging.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []logging.Event
	for _, event := range c.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

func TestStartOnlyLeavesMenu(t *testing.T) {
	w := NewWorld("session-test", 3, logging.NopPublisher())
	if w.Phase() != PhaseMenu {
		t.Fatalf("new world phase = %v", w.Phase())
	}

	w.Start()
	if w.Phase() != PhasePlaying {
		t.Fatalf("phase after start = %v", w.Phase())
	}

	// Start from any non-menu phase is a no-op.
	w.phase = PhaseGameOver
	w.Start()
	if w.Phase() != PhaseGameOver {
		t.Fatal("start resurrected a finished run")
	}
}

func TestRestartRequiresTerminalPhase(t *testing.T) {
	w := NewWorld("session-test", 3, logging.NopPublisher())
	w.Start()

	w.Restart()
	if w.Epoch() != 0 || w.Phase() != PhasePlaying {
		t.Fatal("mid-run restart should be rejected")
	}

	w.player.Health = 0
	w.phase = PhaseGameOver
	w.projectiles = append(w.projectiles, &entity.Projectile{
		Actor: entity.Actor{ID: "projectile-1", Active: true},
		Owner: entity.OwnerPlayer,
	})

	w.Restart()

	if w.Epoch() != 1 {
		t.Fatalf("epoch = %d after restart", w.Epoch())
	}
	if w.Phase() != PhasePlaying {
		t.Fatalf("phase = %v after restart", w.Phase())
	}
	if w.player.Health != entity.PlayerMaxHealth {
		t.Fatalf("player health %.1f, want fresh", w.player.Health)
	}
	if w.RoomIndex() != w.Dungeon().StartIndex {
		t.Fatal("restart should return to the start room")
	}
	if len(w.projectiles) != 0 {
		t.Fatal("restart should drop projectiles")
	}
}

func TestRestartGeneratesDifferentLayoutSameSeedReproducible(t *testing.T) {
	layout := func(w *World) []geom.Vec2 {
		var cells []geom.Vec2
		for _, room := range w.Dungeon().Rooms {
			cells = append(cells, geom.Vec2{X: float64(room.GridX), Y: float64(room.GridY)})
		}
		return cells
	}

	a := NewWorld("layout-test", 9, logging.NopPublisher())
	b := NewWorld("layout-test", 9, logging.NopPublisher())

	cellsA, cellsB := layout(a), layout(b)
	if len(cellsA) != len(cellsB) {
		t.Fatalf("room counts differ: %d vs %d", len(cellsA), len(cellsB))
	}
	for i := range cellsA {
		if cellsA[i] != cellsB[i] {
			t.Fatalf("layouts diverge at room %d for identical seeds", i)
		}
	}

	// A restart reseeds generation with the new epoch label.
	a.phase = PhaseGameOver
	a.Restart()
	if a.Epoch() != 1 {
		t.Fatalf("epoch = %d", a.Epoch())
	}
}

func TestSessionEventsPublished(t *testing.T) {
	sink := &collector{}
	w := NewWorld("session-test", 3, sink)

	w.Start()
	w.phase = PhaseVictory
	w.Restart()

	if got := len(sink.byType(logging.EventSessionStarted)); got != 1 {
		t.Fatalf("%d session_started events", got)
	}
	if got := len(sink.byType(logging.EventSessionRestarted)); got != 1 {
		t.Fatalf("%d session_restarted events", got)
	}
}

func TestRoomClearedEventEmittedOnce(t *testing.T) {
	sink := &collector{}
	enemy := stationaryEnemy("enemy-1", geom.Vec2{X: 150, Y: 100}, 1)
	room := emptyRoom(0, 0)
	room.Enemies = []*entity.Enemy{enemy}
	w := newTestWorld([]*dungeon.Room{room}, 1)
	w.publisher = sink

	shot := &entity.Projectile{
		Actor: entity.Actor{ID: "projectile-1", Pos: enemy.Pos, Size: 8, Damage: 1, Active: true},
		Owner: entity.OwnerPlayer,
	}
	w.projectiles = append(w.projectiles, shot)

	for tick := uint64(1); tick <= 5; tick++ {
		w.Advance(tick, testDt, InputState{})
	}

	if got := len(sink.byType(logging.EventRoomCleared)); got != 1 {
		t.Fatalf("room_cleared emitted %d times", got)
	}
	if got := len(sink.byType(logging.EventEnemyKilled)); got != 1 {
		t.Fatalf("enemy_killed emitted %d times", got)
	}
}

func TestDeferRunsBeforeNextStep(t *testing.T) {
	room := emptyRoom(0, 0)
	room.MarkCleared()
	w := newTestWorld([]*dungeon.Room{room}, 1)

	w.Defer(func(w *World) {
		w.player.Speed = 10
	})

	w.Advance(1, testDt, InputState{MoveKeys: geom.Vec2{X: 1}})

	if w.player.Pos.X != dungeon.Center().X+10 {
		t.Fatalf("deferred speed change missed the frame it preceded: x=%.1f", w.player.Pos.X)
	}
}

func TestApplyItemDescriptionMatchesEpoch(t *testing.T) {
	room := emptyRoom(0, 0)
	// Enemies keep the room uncleared so the item is not picked up.
	room.Enemies = []*entity.Enemy{stationaryEnemy("enemy-1", geom.Vec2{X: 700, Y: 100}, 10)}
	item := entity.NewItem("item-1", entity.ItemSpeed, geom.Vec2{X: 100, Y: 500})
	room.Items = []*entity.Item{item}
	w := newTestWorld([]*dungeon.Room{room}, 1)

	w.ApplyItemDescription(w.Epoch(), "item-1", "A charm that hums with borrowed haste.")
	w.Advance(1, testDt, InputState{})

	if item.Description != "A charm that hums with borrowed haste." {
		t.Fatalf("description = %q", item.Description)
	}
}

func TestApplyItemDescriptionDiscardsStaleEpoch(t *testing.T) {
	room := emptyRoom(0, 0)
	room.Enemies = []*entity.Enemy{stationaryEnemy("enemy-1", geom.Vec2{X: 700, Y: 100}, 10)}
	item := entity.NewItem("item-1", entity.ItemSpeed, geom.Vec2{X: 100, Y: 500})
	room.Items = []*entity.Item{item}
	w := newTestWorld([]*dungeon.Room{room}, 1)

	w.ApplyItemDescription(w.Epoch()+1, "item-1", "stale text from a previous run")
	w.Advance(1, testDt, InputState{})

	if item.Description != entity.PlaceholderDescription {
		t.Fatalf("stale write landed: %q", item.Description)
	}
}

func TestSnapshotIsValueCopy(t *testing.T) {
	enemy := stationaryEnemy("enemy-1", geom.Vec2{X: 150, Y: 100}, 10)
	dead := stationaryEnemy("enemy-2", geom.Vec2{X: 650, Y: 100}, 10)
	dead.Active = false
	room := emptyRoom(0, 0)
	room.Enemies = []*entity.Enemy{enemy, dead}
	w := newTestWorld([]*dungeon.Room{room}, 1)

	snap := w.Snapshot()

	if len(snap.Room.Enemies) != 1 {
		t.Fatalf("snapshot carries %d enemies, want live only", len(snap.Room.Enemies))
	}
	snap.Room.Enemies[0].Health = -1
	if enemy.Health != 10 {
		t.Fatal("snapshot aliases live enemy state")
	}
	if !snap.Rooms[0].Current {
		t.Fatal("minimap should flag the active room")
	}
	if snap.Phase != PhasePlaying {
		t.Fatalf("snapshot phase = %v", snap.Phase)
	}
}
