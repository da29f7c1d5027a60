// Package net exposes the game over HTTP and websockets: one session per
// connected player, each with its own world and frame loop.
package net

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"dungeon-delve/server/internal/flavor"
	"dungeon-delve/server/internal/sim"
	"dungeon-delve/server/logging"
)

// unattachedTTL bounds how long a joined session may wait for its websocket
// before it is reaped.
const unattachedTTL = time.Minute

// HubConfig carries the per-session knobs.
type HubConfig struct {
	Seed      string
	RoomCount int
	TickRate  int
}

// Hub tracks live sessions. Joining creates a session in the menu phase; the
// session starts simulating when its websocket attaches.
type Hub struct {
	cfg       HubConfig
	publisher logging.Publisher
	source    flavor.Source // nil means static flavor only
	logger    *log.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	nextID   uint64
}

func NewHub(cfg HubConfig, publisher logging.Publisher, source flavor.Source, logger *log.Logger) *Hub {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		cfg:       cfg,
		publisher: publisher,
		source:    source,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
}

// Join creates a session and returns it. Each session derives its own world
// seed from the configured root seed, so two players never share a layout
// but a fixed root seed still reproduces every run.
func (h *Hub) Join() *Session {
	h.reapUnattached()

	h.mu.Lock()
	h.nextID++
	id := fmt.Sprintf("session-%d", h.nextID)
	h.mu.Unlock()

	session := &Session{
		ID:      id,
		hub:     h,
		logger:  h.logger,
		created: time.Now(),
		send:    make(chan []byte, sendQueueSize),
		stop:    make(chan struct{}),
	}

	world := sim.NewWorld(
		fmt.Sprintf("%s/%s", h.cfg.Seed, id),
		h.cfg.RoomCount,
		h.publisher,
	)
	service := flavor.NewService(h.source, world.ApplyItemDescription, session.deliverTaunt, h.publisher)
	world.SetNotifier(service)

	session.world = world
	session.flavor = service
	session.loop = sim.NewLoop(world, sim.LoopConfig{TickRate: h.cfg.TickRate}, nil, sim.LoopHooks{
		AfterStep: session.afterStep,
	})

	h.mu.Lock()
	h.sessions[id] = session
	h.mu.Unlock()

	h.logger.Printf("session %s: joined", id)
	return session
}

// reapUnattached closes sessions that joined but never attached a websocket
// within the TTL. Each one holds a full world, so abandoned joins must not
// accumulate.
func (h *Hub) reapUnattached() {
	h.mu.Lock()
	var stale []*Session
	for _, session := range h.sessions {
		if !session.attached.Load() && time.Since(session.created) > unattachedTTL {
			stale = append(stale, session)
		}
	}
	h.mu.Unlock()

	for _, session := range stale {
		h.logger.Printf("session %s: reaped before websocket attach", session.ID)
		session.close(nil)
	}
}

// Session looks up a live session by id.
func (h *Hub) Session(id string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	session, ok := h.sessions[id]
	return session, ok
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()
}

// SessionCount reports live sessions for diagnostics.
func (h *Hub) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Shutdown closes every session and waits for the context at most.
func (h *Hub) Shutdown(ctx context.Context) {
	h.mu.Lock()
	open := make([]*Session, 0, len(h.sessions))
	for _, session := range h.sessions {
		open = append(open, session)
	}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		for _, session := range open {
			session.close(nil)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
