package trainer

import (
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lowaak/tabata-timer/internal/interval"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestModel(t *testing.T) *UIModel {
	t.Helper()
	model := NewUIModel(testLogger(), make(chan string))
	t.Cleanup(model.Shutdown)
	return model
}

// fakeTicker hands ticks to the workout loop only when the test says so
type fakeTicker struct {
	ch       chan time.Time
	mu       sync.Mutex
	running  bool
	resets   int
	interval time.Duration
}

func newFakeTicker() *fakeTicker {
	return &fakeTicker{ch: make(chan time.Time)}
}

func (f *fakeTicker) factory(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interval = d
	return f
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
}

func (f *fakeTicker) Reset(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = true
	f.resets++
	f.interval = d
}

func (f *fakeTicker) isRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeTicker) resetCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resets
}

// shortSettings: 2s countdown, two rounds of 3s work / 2s rest, one set.
// The whole run takes 10 ticks.
func shortSettings() interval.Settings {
	return interval.Settings{
		WorkTime:        3,
		RestTime:        2,
		Rounds:          2,
		Sets:            1,
		RestBetweenSets: 0,
		CountdownTime:   2,
	}
}

type managerHarness struct {
	t       *testing.T
	model   *UIModel
	manager *WorkoutManager
	ticker  *fakeTicker
	states  chan WorkoutState

	mu     sync.Mutex
	cues   []interval.Cue
	phases []interval.Phase
}

func newManagerHarness(t *testing.T, settings interval.Settings) *managerHarness {
	t.Helper()
	h := &managerHarness{
		t:      t,
		model:  newTestModel(t),
		ticker: newFakeTicker(),
		states: make(chan WorkoutState, 64),
	}
	h.manager = NewWorkoutManager(h.model, WorkoutManagerConfig{
		Settings:  settings,
		NewTicker: h.ticker.factory,
	}, testLogger())
	t.Cleanup(h.manager.Shutdown)

	h.manager.ListenToCues(func(cue interval.Cue) {
		h.mu.Lock()
		h.cues = append(h.cues, cue)
		h.mu.Unlock()
	})
	h.manager.ListenToPhaseChanges(func(phase interval.Phase) {
		h.mu.Lock()
		h.phases = append(h.phases, phase)
		h.mu.Unlock()
	})

	unregister := h.model.ListenToWorkoutState(h.states)
	t.Cleanup(unregister)
	h.next() // replayed idle snapshot
	return h
}

// next waits for the next published snapshot
func (h *managerHarness) next() WorkoutState {
	h.t.Helper()
	select {
	case state := <-h.states:
		return state
	case <-time.After(time.Second):
		h.t.Fatal("Timeout waiting for workout state")
	}
	return WorkoutState{}
}

// tick fires one tick and waits for its snapshot
func (h *managerHarness) tick() WorkoutState {
	h.t.Helper()
	select {
	case h.ticker.ch <- time.Now():
	case <-time.After(time.Second):
		h.t.Fatal("Timeout delivering tick")
	}
	return h.next()
}

func (h *managerHarness) ticks(n int) WorkoutState {
	h.t.Helper()
	var state WorkoutState
	for i := 0; i < n; i++ {
		state = h.tick()
	}
	return state
}

// command runs a manager call and consumes the snapshot it published
func (h *managerHarness) command(fn func() (WorkoutState, error)) WorkoutState {
	h.t.Helper()
	state, err := fn()
	require.NoError(h.t, err)
	published := h.next()
	require.Equal(h.t, state, published)
	return state
}

func (h *managerHarness) recordedCues() []interval.Cue {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]interval.Cue(nil), h.cues...)
}

func (h *managerHarness) recordedPhases() []interval.Phase {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]interval.Phase(nil), h.phases...)
}
