package flavor

import (
	"context"
	"sync"
	"time"

	"dungeon-delve/server/internal/entity"
	"dungeon-delve/server/logging"
)

const generateTimeout = 10 * time.Second

// ApplyFunc writes a finished item description back to the run that asked for
// it. The epoch identifies that run; stale results must be discarded by the
// receiver.
type ApplyFunc func(epoch uint64, itemID, description string)

// TauntFunc delivers a boss taunt for display.
type TauntFunc func(epoch uint64, taunt string)

// Service listens for gameplay moments and fills in flavor text in the
// background. It satisfies the simulation's notifier contract, so notifier
// calls arrive on the simulation goroutine; all slow work happens on
// goroutines the service owns.
type Service struct {
	source   Source
	fallback Source
	apply    ApplyFunc
	taunt    TauntFunc

	publisher logging.Publisher

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService wires a generation source to its write-back functions. A nil
// source means fallback-only; the fallback itself never fails.
func NewService(source Source, apply ApplyFunc, taunt TauntFunc, publisher logging.Publisher) *Service {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		source:    source,
		fallback:  NewStatic(),
		apply:     apply,
		taunt:     taunt,
		publisher: publisher,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// ItemSpawned kicks off description generation for a freshly placed item.
func (s *Service) ItemSpawned(epoch uint64, item *entity.Item) {
	if s.apply == nil || item == nil {
		return
	}
	prompt := ItemPrompt{
		Name:     item.Name,
		Kind:     string(item.ItemType),
		StatLine: item.StatDescription,
	}
	itemID := item.ID

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(s.ctx, generateTimeout)
		defer cancel()

		text, err := s.describe(ctx, prompt)
		if err != nil {
			return
		}
		s.apply(epoch, itemID, text)
	}()
}

// BossEncountered generates a taunt for the boss-room entrance.
func (s *Service) BossEncountered(epoch uint64) {
	if s.taunt == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(s.ctx, generateTimeout)
		defer cancel()

		var (
			text string
			err  error
		)
		if s.source != nil {
			text, err = s.source.BossTaunt(ctx)
		}
		if s.source == nil || err != nil {
			text, _ = s.fallback.BossTaunt(ctx)
		}
		if text != "" {
			s.taunt(epoch, text)
		}
	}()
}

func (s *Service) describe(ctx context.Context, prompt ItemPrompt) (string, error) {
	if s.source != nil {
		text, err := s.source.DescribeItem(ctx, prompt)
		if err == nil {
			return text, nil
		}
		s.publisher.Publish(ctx, logging.Event{
			Type:     logging.EventFlavorFallback,
			Actor:    logging.EntityRef{ID: prompt.Name, Kind: logging.EntityKindItem},
			Severity: logging.SeverityWarn,
			Extra:    map[string]any{"error": err.Error()},
		})
	}
	return s.fallback.DescribeItem(ctx, prompt)
}

// Close cancels in-flight generations and waits for their goroutines.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}
