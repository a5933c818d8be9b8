package trainer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/tabata-timer/internal/interval"
)

type controllerHarness struct {
	*managerHarness
	controller *UIController
	store      *SettingsStore
}

func newControllerHarness(t *testing.T) *controllerHarness {
	t.Helper()
	h := newManagerHarness(t, interval.DefaultSettings())
	store := newTestStore(t)
	return &controllerHarness{
		managerHarness: h,
		controller:     NewUIController(h.model, h.manager, store, testLogger()),
		store:          store,
	}
}

func TestNewUIController_Panics(t *testing.T) {
	h := newManagerHarness(t, shortSettings())
	assert.Panics(t, func() { NewUIController(nil, h.manager, nil, testLogger()) })
	assert.Panics(t, func() { NewUIController(h.model, nil, nil, testLogger()) })
	assert.Panics(t, func() { NewUIController(h.model, h.manager, nil, nil) })
	assert.NotPanics(t, func() { NewUIController(h.model, h.manager, nil, testLogger()) })
}

func TestUIController_ToggleAndReset(t *testing.T) {
	h := newControllerHarness(t)

	h.controller.ToggleWorkout()
	state := h.next()
	assert.Equal(t, interval.PhaseCountdown, state.State.Phase)
	assert.True(t, state.State.Running)

	h.controller.ToggleWorkout()
	assert.True(t, h.next().State.Paused())

	h.controller.ResetWorkout()
	assert.Equal(t, interval.PhaseIdle, h.next().State.Phase)
}

func TestUIController_SelectionWraps(t *testing.T) {
	h := newControllerHarness(t)

	h.controller.SelectPreviousSetting()
	assert.Equal(t, SettingCountdownTime, h.model.GetUIState().SelectedSetting)

	h.controller.SelectNextSetting()
	assert.Equal(t, SettingSets, h.model.GetUIState().SelectedSetting)

	h.controller.SelectNextSetting()
	h.controller.SelectNextSetting()
	assert.Equal(t, SettingWorkTime, h.model.GetUIState().SelectedSetting)
}

func TestUIController_AdjustSettingWhileIdle(t *testing.T) {
	h := newControllerHarness(t)
	h.model.SetSelectedSetting(SettingWorkTime)

	h.controller.IncreaseSelectedSetting()
	state := h.next()
	assert.Equal(t, 25, state.Settings.WorkTime)
	assert.Equal(t, 25, state.State.SecondsRemaining)

	stored, err := h.store.Load()
	require.NoError(t, err)
	assert.Equal(t, 25, stored.WorkTime)

	h.controller.DecreaseSelectedSetting()
	assert.Equal(t, 20, h.next().Settings.WorkTime)
}

func TestUIController_AdjustAtBoundIsNoop(t *testing.T) {
	h := newControllerHarness(t)
	h.model.SetSelectedSetting(SettingSets)

	h.controller.DecreaseSelectedSetting() // already at the minimum of 1
	assert.Empty(t, h.states)
	assert.Equal(t, 1, h.manager.GetState().Settings.Sets)
}

func TestUIController_SettingsLockedDuringWorkout(t *testing.T) {
	h := newControllerHarness(t)
	h.controller.ToggleWorkout()
	h.next()

	h.model.SetSelectedSetting(SettingRounds)
	h.controller.IncreaseSelectedSetting()
	assert.Empty(t, h.states)
	assert.Equal(t, 8, h.manager.GetState().Settings.Rounds)
}

func TestUIController_ApplySettingsRejectsInvalid(t *testing.T) {
	h := newControllerHarness(t)

	h.controller.ApplySettings(interval.Settings{})
	assert.Empty(t, h.states)
	assert.Equal(t, interval.DefaultSettings(), h.manager.GetState().Settings)
}

func TestUIController_ModeChangeAndEscape(t *testing.T) {
	h := newControllerHarness(t)

	h.controller.OnModeChange(UIModeSettings)
	assert.Equal(t, UIModeSettings, h.model.GetUIState().Mode)

	closeChan := make(chan struct{}, 1)
	unregister := h.model.ListenToCloseApplication(closeChan)
	defer unregister()
	h.controller.OnEscapeKey()
	receive(t, closeChan)
}
