package sinks

import (
	"context"
	"sync"

	"dungeon-delve/server/logging"
)

// Memory retains every event it sees. Test-only.
type Memory struct {
	mu     sync.Mutex
	events []logging.Event
}

func NewMemory() *Memory {
	return &Memory{}
}

func (s *Memory) Write(event logging.Event) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	return nil
}

func (s *Memory) Close(context.Context) error {
	return nil
}

func (s *Memory) Events() []logging.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]logging.Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Memory) ByType(eventType logging.EventType) []logging.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []logging.Event
	for _, event := range s.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}
