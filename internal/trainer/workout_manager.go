package trainer

import (
	"log"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/oklog/ulid/v2"

	"github.com/lowaak/tabata-timer/internal/events"
	"github.com/lowaak/tabata-timer/internal/go_func_utils"
	"github.com/lowaak/tabata-timer/internal/interval"
)

// ErrManagerShutdown is returned for commands sent after Shutdown
var ErrManagerShutdown = errors.New("workout manager is shut down")

// Ticker is the part of time.Ticker the workout loop needs
type Ticker interface {
	C() <-chan time.Time
	Stop()
	Reset(d time.Duration)
}

// TickerFactory creates a ticker. The loop stops it straight away and only
// resets it while the engine is running.
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct {
	ticker *time.Ticker
}

// NewTimeTicker is the TickerFactory backed by time.Ticker
func NewTimeTicker(d time.Duration) Ticker {
	return &timeTicker{ticker: time.NewTicker(d)}
}

func (t *timeTicker) C() <-chan time.Time   { return t.ticker.C }
func (t *timeTicker) Stop()                 { t.ticker.Stop() }
func (t *timeTicker) Reset(d time.Duration) { t.ticker.Reset(d) }

// workoutCommandKind represents commands sent to the workout goroutine
type workoutCommandKind int

const (
	cmdStart workoutCommandKind = iota
	cmdToggle
	cmdPause
	cmdResume
	cmdReset
	cmdUpdateSettings
)

var workoutCommandNames = map[workoutCommandKind]string{
	cmdStart:          "start",
	cmdToggle:         "toggle",
	cmdPause:          "pause",
	cmdResume:         "resume",
	cmdReset:          "reset",
	cmdUpdateSettings: "update settings",
}

type workoutCommand struct {
	kind     workoutCommandKind
	settings interval.Settings
	reply    chan WorkoutState
}

// WorkoutManagerConfig configures a WorkoutManager
type WorkoutManagerConfig struct {
	Settings      interval.Settings
	WarningWindow int           // Zero means interval.DefaultWarningWindow
	TickInterval  time.Duration // Zero means DefaultTickInterval
	NewTicker     TickerFactory // Nil means NewTimeTicker
}

// WorkoutManager owns the interval engine. Every command and every tick runs
// on a single goroutine, and the resulting state is published to the UIModel.
type WorkoutManager struct {
	model        *UIModel
	logger       *log.Logger
	engine       *interval.Engine
	tickInterval time.Duration
	newTicker    TickerFactory

	// Latest published snapshot (protected by mu)
	mu    sync.RWMutex
	state WorkoutState
	runID string // only touched by the workout goroutine

	cueEvent   *events.CallbackEvent[interval.Cue]
	phaseEvent *events.CallbackEvent[interval.Phase]

	// Goroutine management
	cmdChan      chan workoutCommand
	doneChan     chan struct{} // Closed to signal shutdown
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// NewWorkoutManager creates a new WorkoutManager and starts its goroutine
func NewWorkoutManager(model *UIModel, cfg WorkoutManagerConfig, logger *log.Logger) *WorkoutManager {
	if model == nil {
		panic("WorkoutManager: model cannot be nil")
	}
	if logger == nil {
		panic("WorkoutManager: logger cannot be nil")
	}
	if err := cfg.Settings.Validate(); err != nil {
		panic("WorkoutManager: " + err.Error())
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.NewTicker == nil {
		cfg.NewTicker = NewTimeTicker
	}

	onPanic := func(err error) { logger.Printf("WorkoutManager: %v", err) }
	wm := &WorkoutManager{
		model:        model,
		logger:       logger,
		tickInterval: cfg.TickInterval,
		newTicker:    cfg.NewTicker,
		cueEvent:     events.NewCallbackEvent[interval.Cue](onPanic),
		phaseEvent:   events.NewCallbackEvent[interval.Phase](onPanic),
		cmdChan:      make(chan workoutCommand),
		doneChan:     make(chan struct{}),
	}
	wm.engine = interval.NewEngine(cfg.Settings, interval.EngineConfig{
		WarningWindow: cfg.WarningWindow,
		Cues:          interval.CueSinkFunc(wm.cueEvent.Notify),
	})
	logger.Printf("WorkoutManager: Warning window %ds, tick interval %s", wm.engine.WarningWindow(), wm.tickInterval)
	wm.publish(interval.PhaseIdle)

	go_func_utils.SafeGoGroup(&wm.wg, logger, "WorkoutManager", wm.runWorkoutLoop)

	return wm
}

// ListenToCues registers a callback for every cue the engine emits.
// Callbacks run on the workout goroutine and must not block.
func (wm *WorkoutManager) ListenToCues(callback func(interval.Cue)) func() {
	return wm.cueEvent.Listen(callback)
}

// ListenToPhaseChanges registers a callback for every phase entered.
// Callbacks run on the workout goroutine and must not block.
func (wm *WorkoutManager) ListenToPhaseChanges(callback func(interval.Phase)) func() {
	return wm.phaseEvent.Listen(callback)
}

// GetState returns the latest published snapshot
func (wm *WorkoutManager) GetState() WorkoutState {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return wm.state
}

// Start begins the countdown; only effective from idle
func (wm *WorkoutManager) Start() (WorkoutState, error) {
	return wm.send(workoutCommand{kind: cmdStart})
}

// Toggle starts from idle, otherwise pauses or resumes
func (wm *WorkoutManager) Toggle() (WorkoutState, error) {
	return wm.send(workoutCommand{kind: cmdToggle})
}

// Pause stops the clock of a running workout
func (wm *WorkoutManager) Pause() (WorkoutState, error) {
	return wm.send(workoutCommand{kind: cmdPause})
}

// Resume restarts the clock of a paused workout
func (wm *WorkoutManager) Resume() (WorkoutState, error) {
	return wm.send(workoutCommand{kind: cmdResume})
}

// Reset returns to idle from any phase
func (wm *WorkoutManager) Reset() (WorkoutState, error) {
	return wm.send(workoutCommand{kind: cmdReset})
}

// UpdateSettings validates and applies new settings. The phase in progress
// keeps its remaining seconds.
func (wm *WorkoutManager) UpdateSettings(settings interval.Settings) (WorkoutState, error) {
	if err := settings.Validate(); err != nil {
		return wm.GetState(), err
	}
	return wm.send(workoutCommand{kind: cmdUpdateSettings, settings: settings})
}

// Shutdown stops the workout goroutine.
// Safe to call multiple times - only the first call has effect
func (wm *WorkoutManager) Shutdown() {
	wm.shutdownOnce.Do(func() {
		wm.logger.Printf("WorkoutManager: Shutting down")
		close(wm.doneChan)
		wm.wg.Wait()
		wm.logger.Printf("WorkoutManager: Shutdown complete")
	})
}

// send hands cmd to the workout goroutine and waits for the resulting state
func (wm *WorkoutManager) send(cmd workoutCommand) (WorkoutState, error) {
	cmd.reply = make(chan WorkoutState, 1)
	select {
	case wm.cmdChan <- cmd:
	case <-wm.doneChan:
		return wm.GetState(), ErrManagerShutdown
	}
	select {
	case state := <-cmd.reply:
		return state, nil
	case <-wm.doneChan:
		return wm.GetState(), ErrManagerShutdown
	}
}

// --- Private Methods (workout goroutine only) ---

func (wm *WorkoutManager) handleCommand(cmd workoutCommand) {
	switch cmd.kind {
	case cmdStart:
		if wm.engine.Start() {
			wm.newRun()
		}
	case cmdToggle:
		wasIdle := wm.engine.State().Phase == interval.PhaseIdle
		wm.engine.ToggleRunning()
		if wasIdle {
			wm.newRun()
		}
	case cmdPause:
		wm.engine.Pause()
	case cmdResume:
		wm.engine.Resume()
	case cmdReset:
		wm.engine.Reset()
		wm.runID = ""
	case cmdUpdateSettings:
		wm.engine.UpdateSettings(cmd.settings)
		wm.logger.Printf("WorkoutManager: Settings %+v", cmd.settings)
	}
}

func (wm *WorkoutManager) newRun() {
	wm.runID = ulid.Make().String()
	wm.logger.Printf("WorkoutManager: Run %s started (%s total)",
		wm.runID, interval.FormatClock(interval.TotalDuration(wm.engine.Settings())))
}

// publish stores and broadcasts the current snapshot, and reports a phase
// change against prevPhase
func (wm *WorkoutManager) publish(prevPhase interval.Phase) WorkoutState {
	state := buildWorkoutState(wm.runID, wm.engine.State(), wm.engine.Settings())

	wm.mu.Lock()
	wm.state = state
	wm.mu.Unlock()

	// External calls after releasing lock
	if state.State.Phase != prevPhase {
		wm.logger.Printf("WorkoutManager: %s -> %s (set %d, round %d)",
			prevPhase, state.State.Phase, state.State.Set, state.State.Round)
		wm.phaseEvent.Notify(state.State.Phase)
	}
	wm.model.SetWorkoutState(state)
	return state
}

// runWorkoutLoop is the main goroutine that manages workout execution.
func (wm *WorkoutManager) runWorkoutLoop() {
	ticker := wm.newTicker(wm.tickInterval)
	ticker.Stop() // Start stopped, will be started when the workout runs
	ticking := false

	// The ticker runs exactly while the engine is running. Resetting on
	// resume restarts the partial second.
	syncTicker := func() {
		running := wm.engine.State().Running
		switch {
		case running && !ticking:
			ticker.Reset(wm.tickInterval)
			ticking = true
		case !running && ticking:
			ticker.Stop()
			ticking = false
		}
	}

	for {
		select {
		case <-wm.doneChan:
			ticker.Stop()
			wm.logger.Printf("WorkoutManager: Goroutine exiting")
			return

		case cmd := <-wm.cmdChan:
			prevPhase := wm.engine.State().Phase
			wm.handleCommand(cmd)
			syncTicker()
			wm.logger.Printf("WorkoutManager: Command %s", workoutCommandNames[cmd.kind])
			cmd.reply <- wm.publish(prevPhase)

		case <-ticker.C():
			prevPhase := wm.engine.State().Phase
			wm.engine.Tick()
			syncTicker()
			state := wm.publish(prevPhase)
			if state.State.Phase == interval.PhaseFinished && prevPhase != interval.PhaseFinished {
				wm.logger.Printf("WorkoutManager: Workout complete!")
			}
		}
	}
}
