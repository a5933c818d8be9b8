// Package interval implements the work/rest interval timer: the phase state
// machine, the derived remaining-time arithmetic and the mapping from
// transitions to audio cues.
//
// An Engine is not safe for concurrent use. The host must serialize every
// control call and Tick on one goroutine (see trainer.WorkoutManager) and
// must only call Tick once per elapsed second while State().Running is true.
package interval

// EngineConfig holds the optional collaborators of an Engine
type EngineConfig struct {
	// WarningWindow is the number of final seconds that get a warning cue.
	// Zero or less means DefaultWarningWindow.
	WarningWindow int
	// Cues receives every cue. Nil discards them.
	Cues CueSink
}

// Engine owns the progress of one workout
type Engine struct {
	settings      Settings
	state         State
	warningWindow int
	cues          CueSink
}

// NewEngine creates an idle engine. settings must already be valid.
func NewEngine(settings Settings, cfg EngineConfig) *Engine {
	if cfg.WarningWindow <= 0 {
		cfg.WarningWindow = DefaultWarningWindow
	}
	if cfg.Cues == nil {
		cfg.Cues = discardSink{}
	}
	return &Engine{
		settings:      settings,
		state:         IdleState(settings),
		warningWindow: cfg.WarningWindow,
		cues:          cfg.Cues,
	}
}

// State returns a copy of the current progress
func (e *Engine) State() State {
	return e.state
}

// Settings returns the settings used for the next phase re-seed
func (e *Engine) Settings() Settings {
	return e.settings
}

// WarningWindow returns the configured warning window in seconds
func (e *Engine) WarningWindow() int {
	return e.warningWindow
}

// RemainingTime is RemainingTime(e.State(), e.Settings())
func (e *Engine) RemainingTime() int {
	return RemainingTime(e.state, e.settings)
}

// Start begins the countdown lead-in. Only valid from Idle; otherwise a no-op.
// Returns whether the engine started.
func (e *Engine) Start() bool {
	if e.state.Phase != PhaseIdle {
		return false
	}
	e.state = State{
		Phase:            PhaseCountdown,
		SecondsRemaining: e.settings.CountdownTime,
		Round:            1,
		Set:              1,
		Running:          true,
	}
	e.cues.Play(CueCountdownTick)
	return true
}

// ToggleRunning starts from Idle, does nothing once Finished, and otherwise
// flips between paused and running without touching the phase or counters.
func (e *Engine) ToggleRunning() {
	switch e.state.Phase {
	case PhaseIdle:
		e.Start()
	case PhaseFinished:
		return
	default:
		e.state.Running = !e.state.Running
	}
}

// Pause stops the clock of a workout in progress
func (e *Engine) Pause() bool {
	if !e.inProgress() || !e.state.Running {
		return false
	}
	e.state.Running = false
	return true
}

// Resume restarts the clock of a paused workout
func (e *Engine) Resume() bool {
	if !e.inProgress() || e.state.Running {
		return false
	}
	e.state.Running = true
	return true
}

// Reset returns to Idle from any phase
func (e *Engine) Reset() {
	e.state = IdleState(e.settings)
}

// UpdateSettings replaces the settings. The phase in progress keeps its
// remaining seconds; later phases and remaining-time figures use the new values.
func (e *Engine) UpdateSettings(settings Settings) {
	e.settings = settings
	if e.state.Phase == PhaseIdle {
		e.state = IdleState(settings)
		return
	}
	e.state.Round = min(e.state.Round, settings.Rounds)
	e.state.Set = min(e.state.Set, settings.Sets)
}

// Tick advances the workout by one second. It does nothing unless the engine
// is running. Returns true when the tick caused a phase transition.
func (e *Engine) Tick() bool {
	if !e.state.Running || !e.inProgress() {
		return false
	}

	if e.state.SecondsRemaining > 0 {
		e.state.SecondsRemaining--
		if cue, ok := SecondCue(e.state.Phase, e.state.SecondsRemaining, e.warningWindow); ok {
			e.cues.Play(cue)
		}
		if e.state.SecondsRemaining > 0 {
			return false
		}
	}

	e.advance()
	return true
}

func (e *Engine) inProgress() bool {
	return e.state.Phase != PhaseIdle && e.state.Phase != PhaseFinished
}

// advance leaves the current phase. The round counter moves when leaving
// Rest; the set counter moves, and the round resets, when leaving the last
// Work of a set. A zero-length set rest is skipped.
func (e *Engine) advance() {
	s := &e.state
	switch s.Phase {
	case PhaseCountdown, PhaseSetRest:
		e.enter(PhaseWork, e.settings.WorkTime)

	case PhaseRest:
		if s.Round < e.settings.Rounds {
			s.Round++
		}
		e.enter(PhaseWork, e.settings.WorkTime)

	case PhaseWork:
		switch {
		case s.Round < e.settings.Rounds:
			e.enter(PhaseRest, e.settings.RestTime)
		case s.Set < e.settings.Sets:
			s.Round = 1
			s.Set++
			if e.settings.RestBetweenSets <= 0 {
				e.enter(PhaseWork, e.settings.WorkTime)
				return
			}
			e.enter(PhaseSetRest, e.settings.RestBetweenSets)
		default:
			s.Running = false
			e.enter(PhaseFinished, 0)
		}
	}
}

func (e *Engine) enter(phase Phase, seconds int) {
	e.state.Phase = phase
	e.state.SecondsRemaining = seconds
	if cue, ok := PhaseStartCue(phase); ok {
		e.cues.Play(cue)
	}
}
