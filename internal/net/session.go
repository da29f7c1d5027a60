package net

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"dungeon-delve/server/internal/flavor"
	"dungeon-delve/server/internal/sim"
)

const (
	writeTimeout  = 5 * time.Second
	sendQueueSize = 8
)

// Session is one player's run: a world, the loop driving it, and the flavor
// service decorating it. It is created by Join and comes alive when a
// websocket attaches.
type Session struct {
	ID string

	hub    *Hub
	world  *sim.World
	loop   *sim.Loop
	flavor *flavor.Service
	logger *log.Logger

	created  time.Time
	attached atomic.Bool
	send     chan []byte
	stop     chan struct{}
	once     sync.Once
}

// attach claims the session for a connection. Only the first caller wins;
// the world's loop must never run on two goroutines.
func (s *Session) attach() bool {
	return s.attached.CompareAndSwap(false, true)
}

// enqueue hands a marshaled frame to the writer. A full queue drops the
// frame; the next snapshot supersedes it anyway.
func (s *Session) enqueue(data []byte) {
	select {
	case s.send <- data:
	default:
	}
}

func (s *Session) enqueueJSON(payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Printf("session %s: marshal outbound: %v", s.ID, err)
		return
	}
	s.enqueue(data)
}

// afterStep runs on the loop goroutine once per tick and ships the snapshot.
func (s *Session) afterStep(result sim.LoopResult) {
	s.enqueueJSON(stateMessage{
		Ver:        ProtocolVersion,
		Type:       "state",
		ServerTime: time.Now().UnixMilli(),
		Snapshot:   result.Snapshot,
	})
}

// deliverTaunt is the flavor service's taunt callback; it may run on any
// goroutine.
func (s *Session) deliverTaunt(epoch uint64, text string) {
	s.enqueueJSON(tauntMessage{
		Ver:   ProtocolVersion,
		Type:  "taunt",
		Epoch: epoch,
		Text:  text,
	})
}

// serve runs the session over an attached connection. The reader loop owns
// the caller's goroutine; the writer and the simulation loop get their own.
// It returns once the connection dies or the session closes.
func (s *Session) serve(conn *websocket.Conn) {
	defer s.close(conn)

	go s.writer(conn)
	go s.loop.Run(s.stop)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logger.Printf("session %s: discarding malformed message: %v", s.ID, err)
			continue
		}

		switch msg.Type {
		case "input":
			s.loop.SetInput(msg.Input)
		case "start":
			s.loop.RequestStart()
		case "restart":
			s.loop.RequestRestart()
		case "heartbeat":
			s.enqueueJSON(heartbeatMessage{
				Ver:        ProtocolVersion,
				Type:       "heartbeat",
				ServerTime: time.Now().UnixMilli(),
				ClientTime: msg.SentAt,
			})
		default:
			s.logger.Printf("session %s: unknown message type %q", s.ID, msg.Type)
		}
	}
}

func (s *Session) writer(conn *websocket.Conn) {
	for {
		select {
		case <-s.stop:
			return
		case data := <-s.send:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.close(conn)
				return
			}
		}
	}
}

func (s *Session) close(conn *websocket.Conn) {
	s.once.Do(func() {
		close(s.stop)
		if conn != nil {
			conn.Close()
		}
		s.flavor.Close()
		s.hub.remove(s.ID)
		s.logger.Printf("session %s: closed", s.ID)
	})
}
