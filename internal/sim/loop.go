package sim

import (
	"sync"
	"time"

	"dungeon-delve/server/logging"
)

// LoopConfig tunes the tick cadence.
type LoopConfig struct {
	TickRate        int
	CatchupMaxTicks int
}

// LoopResult is handed to the AfterStep hook once per tick.
type LoopResult struct {
	Tick     uint64
	Delta    float64
	Snapshot Snapshot
	Duration time.Duration
}

// LoopHooks let the transport observe the loop without touching the world.
type LoopHooks struct {
	AfterStep func(LoopResult)
}

// Loop drives a world at a fixed tick rate on a single goroutine. Input is
// sampled fresh each tick from the latest value any writer stored; control
// requests and flavor write-backs ride the world's deferred queue so every
// mutation happens on the loop goroutine.
type Loop struct {
	world *World
	cfg   LoopConfig
	hooks LoopHooks
	clock logging.Clock

	inputMu sync.Mutex
	input   InputState

	tick uint64
}

func NewLoop(world *World, cfg LoopConfig, clock logging.Clock, hooks LoopHooks) *Loop {
	if clock == nil {
		clock = logging.SystemClock{}
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 15
	}
	if cfg.CatchupMaxTicks < 1 {
		cfg.CatchupMaxTicks = 4
	}
	return &Loop{
		world: world,
		cfg:   cfg,
		hooks: hooks,
		clock: clock,
	}
}

// SetInput stores the most recent input sample. Safe from any goroutine.
func (l *Loop) SetInput(input InputState) {
	l.inputMu.Lock()
	l.input = input
	l.inputMu.Unlock()
}

func (l *Loop) currentInput() InputState {
	l.inputMu.Lock()
	defer l.inputMu.Unlock()
	return l.input
}

// RequestStart asks the session to leave the menu on the next tick.
func (l *Loop) RequestStart() {
	l.world.Defer(func(w *World) {
		w.Start()
	})
}

// RequestRestart asks for a fresh run on the next tick.
func (l *Loop) RequestRestart() {
	l.world.Defer(func(w *World) {
		w.Restart()
	})
}

// Advance runs exactly one tick. Exposed so tests can drive the loop with a
// synthetic clock instead of sleeping on the ticker.
func (l *Loop) Advance(dt float64) LoopResult {
	l.tick++
	start := l.clock.Now()
	l.world.Advance(l.tick, dt, l.currentInput())
	result := LoopResult{
		Tick:     l.tick,
		Delta:    dt,
		Snapshot: l.world.Snapshot(),
		Duration: l.clock.Now().Sub(start),
	}
	if l.hooks.AfterStep != nil {
		l.hooks.AfterStep(result)
	}
	return result
}

// Run drives the loop until the stop channel closes.
func (l *Loop) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / time.Duration(l.cfg.TickRate))
	defer ticker.Stop()

	budget := 1.0 / float64(l.cfg.TickRate)
	maxDt := budget * float64(l.cfg.CatchupMaxTicks)
	last := l.clock.Now()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			now := l.clock.Now()
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = budget
			} else if dt > maxDt {
				dt = maxDt
			}
			last = now
			l.Advance(dt)
		}
	}
}
