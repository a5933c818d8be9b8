package trainer

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lowaak/tabata-timer/internal/interval"
)

// Page names for tview.Pages
const (
	pageTimer    = "timer"
	pageSettings = "settings"
)

// CursesUIViewImpl implements UIViewImpl using tview (curses-based terminal UI)
type CursesUIViewImpl struct {
	logger *log.Logger
	app    *tview.Application

	// mu guards the render state below. BaseUIView updates it from several
	// listener goroutines while tview reads currentMode on its input goroutine.
	mu              sync.Mutex
	currentMode     UIMode
	selectedSetting SettingField
	lastState       WorkoutState

	// Root container that holds all pages
	pages *tview.Pages

	// Shared components (visible in all modes)
	logView  *tview.TextView
	mainFlex *tview.Flex // Main layout: mode content on left, logs on right

	// Timer mode components
	timerFlex     *tview.Flex
	clockPanel    *tview.TextView
	progressPanel *tview.TextView

	// Settings mode components
	settingsFlex  *tview.Flex
	settingsPanel *tview.TextView
}

func NewCursesUIView(logger *log.Logger, app *tview.Application) *CursesUIViewImpl {
	return &CursesUIViewImpl{
		logger:      logger,
		app:         app,
		currentMode: UIModeTimer,
	}
}

// Initialize sets up the tview widgets
func (ui *CursesUIViewImpl) Initialize(controller *UIController) {
	// No SetChangedFunc with app.Draw(): BaseUIView draws after each update,
	// and drawing from a change callback can hang once the app has stopped.
	ui.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	ui.logView.SetBorder(true).SetTitle(" Logs ")

	ui.pages = tview.NewPages()

	ui.initTimerMode()
	ui.initSettingsMode()

	ui.pages.AddPage(pageTimer, ui.timerFlex, true, true)
	ui.pages.AddPage(pageSettings, ui.settingsFlex, true, false)

	ui.mainFlex = tview.NewFlex().
		AddItem(ui.pages, 0, 2, true).
		AddItem(ui.logView, 0, 1, false)
}

func newInstructions(text string) *tview.TextView {
	instructions := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	instructions.SetText(text)
	return instructions
}

func (ui *CursesUIViewImpl) initTimerMode() {
	instructions := newInstructions("[yellow]Space[white] Start/Pause  |  [yellow]R[white] Reset  |  [yellow]Esc[white] Quit\n[yellow]1[white] Timer  |  [yellow]2[white] Settings")

	ui.clockPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	ui.clockPanel.SetBorder(true).SetTitle(" Timer ")

	ui.progressPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.progressPanel.SetBorder(true).SetTitle(" Progress ")

	ui.timerFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(instructions, 2, 0, false).
		AddItem(ui.clockPanel, 0, 2, true).
		AddItem(ui.progressPanel, 0, 1, false)
}

func (ui *CursesUIViewImpl) initSettingsMode() {
	instructions := newInstructions("[yellow]Up/Down[white] Select  |  [yellow]+/-[white] Adjust  |  [yellow]Esc[white] Quit\n[yellow]1[white] Timer  |  [yellow]2[white] Settings")

	ui.settingsPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.settingsPanel.SetBorder(true).SetTitle(" Workout Settings ")

	ui.settingsFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(instructions, 2, 0, false).
		AddItem(ui.settingsPanel, 0, 1, true)
}

// SetMode switches the UI to the specified mode
func (ui *CursesUIViewImpl) SetMode(mode UIMode) {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	if ui.currentMode == mode {
		return
	}
	ui.currentMode = mode

	switch mode {
	case UIModeTimer:
		ui.pages.SwitchToPage(pageTimer)
	case UIModeSettings:
		ui.pages.SwitchToPage(pageSettings)
	}
}

// GetCurrentMode returns the currently active UI mode
func (ui *CursesUIViewImpl) GetCurrentMode() UIMode {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	return ui.currentMode
}

// SetupKeyboardHandlers sets up keyboard event handlers
func (ui *CursesUIViewImpl) SetupKeyboardHandlers(controller *UIController) {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune {
			if mode, ok := GetUIModeByKey(event.Rune()); ok {
				// Delegate to controller - it will update the model, which will notify us
				controller.OnModeChange(mode)
				return nil
			}
		}

		if event.Key() == tcell.KeyEscape {
			controller.OnEscapeKey()
			return nil
		}

		// Space and R work in every mode
		if event.Key() == tcell.KeyRune {
			switch event.Rune() {
			case ' ':
				controller.ToggleWorkout()
				return nil
			case 'r', 'R':
				controller.ResetWorkout()
				return nil
			}
		}

		if ui.GetCurrentMode() == UIModeSettings {
			switch {
			case event.Key() == tcell.KeyUp:
				controller.SelectPreviousSetting()
				return nil
			case event.Key() == tcell.KeyDown:
				controller.SelectNextSetting()
				return nil
			case event.Key() == tcell.KeyRight,
				event.Key() == tcell.KeyRune && (event.Rune() == '+' || event.Rune() == '='):
				controller.IncreaseSelectedSetting()
				return nil
			case event.Key() == tcell.KeyLeft,
				event.Key() == tcell.KeyRune && event.Rune() == '-':
				controller.DecreaseSelectedSetting()
				return nil
			}
		}

		return event
	})
}

// GetLogViewHeight returns the visible height of the log view
func (ui *CursesUIViewImpl) GetLogViewHeight() int {
	_, _, _, height := ui.logView.GetInnerRect()
	return height
}

// ClearLogView clears the log view
func (ui *CursesUIViewImpl) ClearLogView() {
	ui.logView.Clear()
}

// WriteLogLine writes a line to the log view
func (ui *CursesUIViewImpl) WriteLogLine(line string) error {
	_, err := fmt.Fprint(ui.logView, tview.Escape(line))
	return err
}

// Draw refreshes/redraws the UI
func (ui *CursesUIViewImpl) Draw() error {
	ui.app.Draw()
	return nil
}

// Run starts the UI and blocks until it exits
func (ui *CursesUIViewImpl) Run() error {
	return ui.app.SetRoot(ui.mainFlex, true).Run()
}

// Stop stops the UI framework
func (ui *CursesUIViewImpl) Stop() {
	ui.app.Stop()
}

// UpdateWorkoutState updates the timer and settings displays
func (ui *CursesUIViewImpl) UpdateWorkoutState(state WorkoutState) {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	ui.lastState = state
	ui.clockPanel.SetText(formatClockPanel(state))
	ui.progressPanel.SetText(formatProgressPanel(state))
	ui.settingsPanel.SetText(formatSettingsPanel(state, ui.selectedSetting))
}

// SetSelectedSetting highlights a row in the settings editor
func (ui *CursesUIViewImpl) SetSelectedSetting(field SettingField) {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	ui.selectedSetting = field
	ui.settingsPanel.SetText(formatSettingsPanel(ui.lastState, field))
}

func phaseColor(state interval.State) string {
	if state.Paused() {
		return "gray"
	}
	switch state.Phase {
	case interval.PhaseCountdown:
		return "yellow"
	case interval.PhaseWork:
		return "red"
	case interval.PhaseRest:
		return "green"
	case interval.PhaseSetRest:
		return "blue"
	case interval.PhaseFinished:
		return "purple"
	default:
		return "white"
	}
}

func formatClockPanel(state WorkoutState) string {
	s := state.State
	color := phaseColor(s)

	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "[%s::b]%s[-::-]\n\n", color, state.Label)
	fmt.Fprintf(&b, "[%s::b]%s[-::-]\n\n", color, interval.FormatClock(s.SecondsRemaining))

	if s.Phase == interval.PhaseFinished {
		fmt.Fprintf(&b, "[gray]Workout complete in[white] %s\n", interval.FormatClock(state.TotalDuration))
		b.WriteString("\n[gray]Press[white] [yellow]R[white] [gray]to reset[white]\n")
		return b.String()
	}

	fmt.Fprintf(&b, "[gray]Set[white] %d/%d   [gray]Round[white] %d/%d   [gray]Cycle[white] %d/%d\n\n",
		s.Set, state.Settings.Sets, s.Round, state.Settings.Rounds, state.Cycle, state.TotalCycles)
	fmt.Fprintf(&b, "[gray]Elapsed[white] %s   [gray]Remaining[white] %s\n",
		interval.FormatClock(state.ElapsedTime), interval.FormatClock(state.RemainingTime))

	switch {
	case s.Phase == interval.PhaseIdle:
		b.WriteString("\n[gray]Press[white] [yellow]Space[white] [gray]to start[white]\n")
	case s.Paused():
		b.WriteString("\n[yellow]Space[white] Resume  |  [yellow]R[white] Reset\n")
	default:
		b.WriteString("\n[yellow]Space[white] Pause  |  [yellow]R[white] Reset\n")
	}
	return b.String()
}

func formatProgressPanel(state WorkoutState) string {
	var b strings.Builder
	b.WriteString("\n")
	for i, row := range state.Progress() {
		fmt.Fprintf(&b, "  [gray]Set %d[white]  ", i+1)
		for _, cycle := range row {
			switch cycle {
			case interval.CycleCompleted:
				b.WriteString("[green]■[white] ")
			case interval.CycleActive:
				fmt.Fprintf(&b, "[%s]■[white] ", phaseColor(state.State))
			default:
				b.WriteString("[gray]□[white] ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatSettingsPanel(state WorkoutState, selected SettingField) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, info := range AllSettingFields {
		marker := "  "
		nameColor := "gray"
		if info.Field == selected {
			marker = "[yellow]>[white] "
			nameColor = "white"
		}
		fmt.Fprintf(&b, "%s[%s]%-18s[white] [yellow]%d%s[white]  [gray](%d-%d)[white]\n\n",
			marker, nameColor, info.DisplayName, info.Field.Value(state.Settings), info.Unit, info.Min, info.Max)
	}
	fmt.Fprintf(&b, "  [gray]Total workout:[white] %s\n", interval.FormatClock(state.TotalDuration))
	if state.State.Phase != interval.PhaseIdle {
		b.WriteString("\n  [red]Locked while a workout is in progress[white]\n")
	}
	return b.String()
}
