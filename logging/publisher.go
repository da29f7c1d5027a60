package logging

import (
	"context"
	"time"
)

// EventType names a structured gameplay or system event.
type EventType string

const (
	EventRoomEntered       EventType = "room_entered"
	EventRoomCleared       EventType = "room_cleared"
	EventEnemyKilled       EventType = "enemy_killed"
	EventBossDefeated      EventType = "boss_defeated"
	EventItemPickup        EventType = "item_pickup"
	EventItemSpawned       EventType = "item_spawned"
	EventPlayerDamaged     EventType = "player_damaged"
	EventPlayerDied        EventType = "player_died"
	EventSessionStarted    EventType = "session_started"
	EventSessionRestarted  EventType = "session_restarted"
	EventTransitionAborted EventType = "transition_aborted"
	EventFlavorFallback    EventType = "flavor_fallback"
)

type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

type EntityKind string

const (
	EntityKindUnknown    EntityKind = "unknown"
	EntityKindPlayer     EntityKind = "player"
	EntityKindEnemy      EntityKind = "enemy"
	EntityKindProjectile EntityKind = "projectile"
	EntityKindItem       EntityKind = "item"
	EntityKindRoom       EntityKind = "room"
	EntityKindSession    EntityKind = "session"
)

// EntityRef identifies the actor an event concerns.
type EntityRef struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

// Event is the unit handed to sinks. Payload is sink-opaque.
type Event struct {
	Type     EventType      `json:"type"`
	Tick     uint64         `json:"tick"`
	Time     time.Time      `json:"time"`
	Actor    EntityRef      `json:"actor"`
	Severity Severity       `json:"severity"`
	Payload  any            `json:"payload,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// Publisher accepts events from the simulation. Implementations must never
// block the caller; the frame loop publishes from its own goroutine.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// PublisherFunc adapts a function into a Publisher.
type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

// NopPublisher returns a publisher that discards everything.
func NopPublisher() Publisher {
	return nopPublisher{}
}
