package logging_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"dungeon-delve/server/logging"
	"dungeon-delve/server/logging/sinks"
)

func TestRouterDeliversToEnabledSinks(t *testing.T) {
	mem := sinks.NewMemory()
	cfg := logging.DefaultConfig()
	cfg.EnabledSinks = []string{"memory"}
	router := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "memory", Sink: mem}})

	router.Publish(context.Background(), logging.Event{
		Type:     logging.EventRoomCleared,
		Tick:     7,
		Actor:    logging.EntityRef{ID: "room-3", Kind: logging.EntityKindRoom},
		Severity: logging.SeverityInfo,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	events := mem.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != logging.EventRoomCleared || events[0].Tick != 7 {
		t.Fatalf("unexpected event: %+v", events[0])
	}
	if events[0].Time.IsZero() {
		t.Fatal("router should stamp event time")
	}
}

func TestRouterFiltersBelowMinimumSeverity(t *testing.T) {
	mem := sinks.NewMemory()
	cfg := logging.DefaultConfig()
	cfg.EnabledSinks = []string{"memory"}
	cfg.MinimumSeverity = logging.SeverityWarn
	router := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "memory", Sink: mem}})

	router.Publish(context.Background(), logging.Event{Type: logging.EventItemPickup, Severity: logging.SeverityInfo})
	router.Publish(context.Background(), logging.Event{Type: logging.EventTransitionAborted, Severity: logging.SeverityWarn})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	events := mem.Events()
	if len(events) != 1 {
		t.Fatalf("expected only the warn event, got %d", len(events))
	}
	if events[0].Type != logging.EventTransitionAborted {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

func TestRouterSkipsDisabledSinks(t *testing.T) {
	mem := sinks.NewMemory()
	cfg := logging.DefaultConfig()
	cfg.EnabledSinks = []string{"console"}
	router := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "memory", Sink: mem}})

	router.Publish(context.Background(), logging.Event{Type: logging.EventPlayerDied, Severity: logging.SeverityInfo})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got := len(mem.Events()); got != 0 {
		t.Fatalf("disabled sink received %d events", got)
	}
}

func TestPublishAfterCloseIsIgnored(t *testing.T) {
	mem := sinks.NewMemory()
	cfg := logging.DefaultConfig()
	cfg.EnabledSinks = []string{"memory"}
	router := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "memory", Sink: mem}})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	router.Publish(context.Background(), logging.Event{Type: logging.EventPlayerDied, Severity: logging.SeverityInfo})
	if got := len(mem.Events()); got != 0 {
		t.Fatalf("expected no events after close, got %d", got)
	}
}

func TestCloseSurvivesConcurrentPublishers(t *testing.T) {
	mem := sinks.NewMemory()
	cfg := logging.DefaultConfig()
	cfg.EnabledSinks = []string{"memory"}
	router := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "memory", Sink: mem}})

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					router.Publish(context.Background(), logging.Event{
						Type:     logging.EventItemPickup,
						Severity: logging.SeverityInfo,
					})
				}
			}
		}()
	}

	time.Sleep(10 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	close(stop)
	wg.Wait()
}
