package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"dungeon-delve/server/logging"
)

// Console writes one line per event in a grep-friendly key=value form.
type Console struct {
	logger *log.Logger
}

func NewConsole(w io.Writer) *Console {
	return &Console{logger: log.New(w, "", log.LstdFlags)}
}

func (s *Console) Write(event logging.Event) error {
	if s == nil || s.logger == nil {
		return nil
	}
	s.logger.Printf("[%s] tick=%d actor=%s/%s severity=%s%s",
		event.Type, event.Tick, event.Actor.Kind, event.Actor.ID, event.Severity, formatPayload(event.Payload))
	return nil
}

func (s *Console) Close(context.Context) error {
	return nil
}

func formatPayload(payload any) string {
	if payload == nil {
		return ""
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf(" payload=%v", payload)
	}
	return " payload=" + string(data)
}
