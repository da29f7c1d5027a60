package sim

// Phase is the top-level session state. It gates whether the simulation step
// runs at all: only PhasePlaying advances the world.
type Phase string

const (
	PhaseMenu     Phase = "menu"
	PhasePlaying  Phase = "playing"
	PhasePickup   Phase = "pickup"
	PhaseVictory  Phase = "victory"
	PhaseGameOver Phase = "game_over"
)

// pickupDisplaySeconds is how long the item-pickup interstitial stays up
// before play resumes.
const pickupDisplaySeconds = 2.0

// Start moves the session out of the menu. A no-op in any other phase.
func (w *World) Start() {
	if w.phase != PhaseMenu {
		return
	}
	w.phase = PhasePlaying
	w.publishSession(startedEvent)
}

// Restart tears the run down and rebuilds it: new dungeon, fresh player,
// empty projectile list, room index zero. Only meaningful from the terminal
// phases; restarting mid-run is rejected.
func (w *World) Restart() {
	if w.phase != PhaseVictory && w.phase != PhaseGameOver {
		return
	}
	w.epoch++
	w.buildRun()
	w.phase = PhasePlaying
	w.publishSession(restartedEvent)
}

func (w *World) Phase() Phase {
	return w.phase
}

// Epoch identifies the current run. Asynchronous flavor results are tagged
// with the epoch they were requested under and discarded on mismatch.
func (w *World) Epoch() uint64 {
	return w.epoch
}
