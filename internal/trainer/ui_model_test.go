package trainer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/tabata-timer/internal/interval"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for event")
	}
	var zero T
	return zero
}

func TestNewUIModel_Panics(t *testing.T) {
	assert.Panics(t, func() { NewUIModel(nil, make(chan string)) })
	assert.Panics(t, func() { NewUIModel(testLogger(), nil) })
}

func TestUIModel_InitialState(t *testing.T) {
	model := newTestModel(t)

	assert.Equal(t, UIState{Mode: UIModeTimer, SelectedSetting: SettingSets}, model.GetUIState())
	state := model.GetWorkoutState()
	assert.Equal(t, interval.PhaseIdle, state.State.Phase)
	assert.Equal(t, interval.DefaultSettings(), state.Settings)
	assert.Equal(t, "READY", state.Label)
}

func TestUIModel_SetModeNotifiesOnChange(t *testing.T) {
	model := newTestModel(t)
	ch := make(chan UIState, 10)
	unregister := model.ListenToUIState(ch)
	defer unregister()

	model.SetMode(UIModeTimer) // unchanged
	assert.Empty(t, ch)

	model.SetMode(UIModeSettings)
	assert.Equal(t, UIModeSettings, receive(t, ch).Mode)
	assert.Equal(t, UIModeSettings, model.GetUIState().Mode)

	model.SetSelectedSetting(SettingRestTime)
	state := receive(t, ch)
	assert.Equal(t, UIModeSettings, state.Mode)
	assert.Equal(t, SettingRestTime, state.SelectedSetting)

	model.SetSelectedSetting(SettingRestTime)
	assert.Empty(t, ch)
}

func TestUIModel_WorkoutStateReplay(t *testing.T) {
	model := newTestModel(t)
	settings := shortSettings()
	model.SetWorkoutState(buildWorkoutState("run", interval.IdleState(settings), settings))

	ch := make(chan WorkoutState, 1)
	unregister := model.ListenToWorkoutState(ch)
	defer unregister()

	state := receive(t, ch)
	assert.Equal(t, "run", state.RunID)
	assert.Equal(t, settings, state.Settings)

	// A full listener channel drops snapshots instead of blocking
	model.SetWorkoutState(state)
	model.SetWorkoutState(state)
	assert.Equal(t, uint64(1), model.DroppedWorkoutStates())
}

func TestUIModel_CloseApplication(t *testing.T) {
	model := newTestModel(t)
	ch := make(chan struct{}, 1)
	unregister := model.ListenToCloseApplication(ch)
	defer unregister()

	model.RequestCloseApplication()
	receive(t, ch)
}

func TestUIModel_LogTail(t *testing.T) {
	logChan := make(chan string)
	model := NewUIModel(testLogger(), logChan)
	defer model.Shutdown()

	lines := make(chan string, 10)
	unregister := model.ListenToLog(lines)
	defer unregister()

	for i := 0; i < 5; i++ {
		logChan <- fmt.Sprintf("line %d\n", i)
		receive(t, lines)
	}

	assert.Equal(t, []string{"line 3\n", "line 4\n"}, model.GetLogTail(2))
	assert.Len(t, model.GetLogTail(100), 5)
	assert.Empty(t, model.GetLogTail(0))
}

func TestUIModel_LogTailIsBounded(t *testing.T) {
	logChan := make(chan string)
	model := NewUIModel(testLogger(), logChan)
	defer model.Shutdown()

	for i := 0; i < maxLogLines+10; i++ {
		logChan <- fmt.Sprintf("line %d\n", i)
	}
	// The unbuffered send above only returns once the reader took the line;
	// wait for the last one to be stored.
	require.Eventually(t, func() bool {
		tail := model.GetLogTail(1)
		return len(tail) == 1 && tail[0] == fmt.Sprintf("line %d\n", maxLogLines+9)
	}, time.Second, time.Millisecond)

	all := model.GetLogTail(maxLogLines * 2)
	assert.Len(t, all, maxLogLines)
	assert.Equal(t, "line 10\n", all[0])
}
