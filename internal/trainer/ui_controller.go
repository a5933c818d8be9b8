package trainer

import (
	"log"

	"github.com/lowaak/tabata-timer/internal/interval"
)

// UIController handles UI events and coordinates with the UIModel
type UIController struct {
	model          *UIModel
	workoutManager *WorkoutManager
	settingsStore  *SettingsStore
	logger         *log.Logger
}

// NewUIController creates a new UIController with the given dependencies.
// settingsStore may be nil, in which case edits are not persisted.
func NewUIController(model *UIModel, workoutManager *WorkoutManager, settingsStore *SettingsStore, logger *log.Logger) *UIController {
	if model == nil {
		panic("UIController: model cannot be nil")
	}
	if workoutManager == nil {
		panic("UIController: workoutManager cannot be nil")
	}
	if logger == nil {
		panic("UIController: logger cannot be nil")
	}

	return &UIController{
		model:          model,
		workoutManager: workoutManager,
		settingsStore:  settingsStore,
		logger:         logger,
	}
}

// OnEscapeKey handles when the Escape key is pressed
func (c *UIController) OnEscapeKey() {
	c.model.RequestCloseApplication()
}

// OnModeChange handles when the user requests a mode change
func (c *UIController) OnModeChange(mode UIMode) {
	if info, ok := GetUIModeInfo(mode); ok {
		c.logger.Printf("Switching to %s mode", info.DisplayName)
	}
	c.model.SetMode(mode)
}

// --- Workout Methods ---

// ToggleWorkout starts from idle, otherwise pauses or resumes
func (c *UIController) ToggleWorkout() {
	state, err := c.workoutManager.Toggle()
	if err != nil {
		c.logger.Printf("Toggle failed: %v", err)
		return
	}
	if state.State.Phase == interval.PhaseFinished {
		c.logger.Printf("Workout finished - press R to reset")
	}
}

// ResetWorkout returns the timer to idle
func (c *UIController) ResetWorkout() {
	if _, err := c.workoutManager.Reset(); err != nil {
		c.logger.Printf("Reset failed: %v", err)
	}
}

// --- Settings Methods ---

// SelectNextSetting moves the settings cursor down, wrapping around
func (c *UIController) SelectNextSetting() {
	c.moveSelection(1)
}

// SelectPreviousSetting moves the settings cursor up, wrapping around
func (c *UIController) SelectPreviousSetting() {
	c.moveSelection(-1)
}

func (c *UIController) moveSelection(delta int) {
	current := c.model.GetUIState().SelectedSetting
	idx := 0
	for i, info := range AllSettingFields {
		if info.Field == current {
			idx = i
			break
		}
	}
	n := len(AllSettingFields)
	idx = ((idx+delta)%n + n) % n
	c.model.SetSelectedSetting(AllSettingFields[idx].Field)
}

// IncreaseSelectedSetting raises the selected setting by one step
func (c *UIController) IncreaseSelectedSetting() {
	c.adjustSelectedSetting(1)
}

// DecreaseSelectedSetting lowers the selected setting by one step
func (c *UIController) DecreaseSelectedSetting() {
	c.adjustSelectedSetting(-1)
}

func (c *UIController) adjustSelectedSetting(steps int) {
	state := c.model.GetWorkoutState()
	if state.State.Phase != interval.PhaseIdle {
		c.logger.Printf("Settings are locked during a workout - press R to reset")
		return
	}

	field := c.model.GetUIState().SelectedSetting
	current := ClampSettings(state.Settings)
	updated := AdjustSetting(current, field, steps)
	if updated == current {
		return
	}
	c.ApplySettings(updated)
}

// ApplySettings hands settings to the workout manager and persists them
func (c *UIController) ApplySettings(settings interval.Settings) {
	state, err := c.workoutManager.UpdateSettings(settings)
	if err != nil {
		c.logger.Printf("Settings rejected: %v", err)
		return
	}
	if c.settingsStore == nil {
		return
	}
	if err := c.settingsStore.Save(state.Settings); err != nil {
		c.logger.Printf("Failed to save settings: %v", err)
	}
}

// Shutdown stops the workout manager
func (c *UIController) Shutdown() {
	c.workoutManager.Shutdown()
}
