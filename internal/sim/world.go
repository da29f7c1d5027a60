package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"dungeon-delve/server/internal/dungeon"
	"dungeon-delve/server/internal/entity"
	"dungeon-delve/server/logging"
)

// Notifier receives gameplay moments that outside collaborators may want to
// decorate (flavor text). Calls happen on the simulation goroutine and must
// return quickly; implementations fan work out themselves.
type Notifier interface {
	ItemSpawned(epoch uint64, item *entity.Item)
	BossEncountered(epoch uint64)
}

// World owns the authoritative run state. Exactly one goroutine (the loop)
// mutates it; everything the outside sees comes from Snapshot copies.
type World struct {
	seed      string
	roomCount int

	dungeon     *dungeon.Dungeon
	roomIndex   int
	player      *entity.Player
	projectiles []*entity.Projectile

	phase       Phase
	pickupTimer float64
	epoch       uint64
	tick        uint64

	rng       *rand.Rand // combat rolls: i-frame checks, item drops, drop types
	publisher logging.Publisher
	notifier  Notifier

	nextProjectileID uint64

	deferredMu sync.Mutex
	deferred   []func(*World)
}

// Option tweaks world construction.
type Option func(*World)

// WithNotifier installs the flavor notifier.
func WithNotifier(n Notifier) Option {
	return func(w *World) {
		w.notifier = n
	}
}

// WithCombatRNG replaces the combat roll stream. Tests use this to feed a
// known sequence of damage draws.
func WithCombatRNG(rng *rand.Rand) Option {
	return func(w *World) {
		w.rng = rng
	}
}

// NewWorld builds a world in the menu phase. The dungeon is generated up
// front so the menu can already show the minimap footprint.
func NewWorld(seed string, roomCount int, publisher logging.Publisher, opts ...Option) *World {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	if roomCount < 1 {
		roomCount = 1
	}
	w := &World{
		seed:      seed,
		roomCount: roomCount,
		phase:     PhaseMenu,
		publisher: publisher,
		rng:       dungeon.NewDeterministicRNG(seed, "combat"),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.buildRun()
	return w
}

// buildRun (re)creates all per-run state. The generation label carries the
// epoch so every restart gets a different layout while staying reproducible
// for a fixed seed.
func (w *World) buildRun() {
	label := fmt.Sprintf("dungeon-%d", w.epoch)
	w.dungeon = dungeon.Generate(w.roomCount, dungeon.NewDeterministicRNG(w.seed, label))
	w.roomIndex = w.dungeon.StartIndex
	w.player = entity.NewPlayer("player-1", dungeon.Center())
	w.projectiles = w.projectiles[:0]
	w.pickupTimer = 0
	if w.notifier != nil {
		if w.dungeon.ItemIndex >= 0 {
			for _, item := range w.dungeon.Rooms[w.dungeon.ItemIndex].Items {
				w.notifier.ItemSpawned(w.epoch, item)
			}
		}
	}
}

// SetNotifier installs the notifier after construction, for wiring that
// needs the world to exist first. The current run's pre-placed items are
// replayed so none miss their flavor pass. Call before the loop starts.
func (w *World) SetNotifier(n Notifier) {
	w.notifier = n
	if n == nil || w.dungeon.ItemIndex < 0 {
		return
	}
	for _, item := range w.dungeon.Rooms[w.dungeon.ItemIndex].Items {
		n.ItemSpawned(w.epoch, item)
	}
}

func (w *World) currentRoom() *dungeon.Room {
	if w.roomIndex < 0 || w.roomIndex >= len(w.dungeon.Rooms) {
		return nil
	}
	return w.dungeon.Rooms[w.roomIndex]
}

// Player exposes the player for tests and snapshotting. Callers outside the
// loop goroutine must not retain or mutate it.
func (w *World) Player() *entity.Player {
	return w.player
}

func (w *World) Dungeon() *dungeon.Dungeon {
	return w.dungeon
}

func (w *World) RoomIndex() int {
	return w.roomIndex
}

func (w *World) Projectiles() []*entity.Projectile {
	return w.projectiles
}

// Defer queues fn to run on the loop goroutine before the next step. This is
// how asynchronous collaborators (flavor text) write back without racing the
// simulation.
func (w *World) Defer(fn func(*World)) {
	if fn == nil {
		return
	}
	w.deferredMu.Lock()
	w.deferred = append(w.deferred, fn)
	w.deferredMu.Unlock()
}

func (w *World) drainDeferred() {
	w.deferredMu.Lock()
	pending := w.deferred
	w.deferred = nil
	w.deferredMu.Unlock()
	for _, fn := range pending {
		fn(w)
	}
}

// ApplyItemDescription replaces an item's display description if the run
// epoch still matches and the item still exists. Safe to call from any
// goroutine; the write happens on the loop goroutine.
func (w *World) ApplyItemDescription(epoch uint64, itemID, description string) {
	w.Defer(func(w *World) {
		if w.epoch != epoch || description == "" {
			return
		}
		for _, room := range w.dungeon.Rooms {
			for _, item := range room.Items {
				if item.ID == itemID {
					item.Description = description
					return
				}
			}
		}
	})
}

func (w *World) newProjectileID() string {
	w.nextProjectileID++
	return fmt.Sprintf("projectile-%d", w.nextProjectileID)
}

const (
	startedEvent   = logging.EventSessionStarted
	restartedEvent = logging.EventSessionRestarted
)

func (w *World) publishSession(eventType logging.EventType) {
	w.publisher.Publish(context.Background(), logging.Event{
		Type:     eventType,
		Tick:     w.tick,
		Actor:    logging.EntityRef{ID: "session", Kind: logging.EntityKindSession},
		Severity: logging.SeverityInfo,
		Extra:    map[string]any{"epoch": w.epoch, "rooms": len(w.dungeon.Rooms)},
	})
}

func (w *World) publish(eventType logging.EventType, actor logging.EntityRef, severity logging.Severity, payload any) {
	w.publisher.Publish(context.Background(), logging.Event{
		Type:     eventType,
		Tick:     w.tick,
		Actor:    actor,
		Severity: severity,
		Payload:  payload,
	})
}
