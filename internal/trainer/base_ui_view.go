package trainer

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lowaak/tabata-timer/internal/go_func_utils"
)

const logResizePollInterval = 100 * time.Millisecond

// BaseUIView contains the base logic shared by all UI implementations
type BaseUIView struct {
	uiViewImpl   UIViewImpl
	uiModel      *UIModel
	uiController *UIController
	context      context.Context
	cancelFunc   context.CancelFunc
	waitGroup    sync.WaitGroup
	logger       *log.Logger
}

// NewBaseUIViewArg holds the arguments for creating a new BaseUIView
type NewBaseUIViewArg struct {
	UIViewImpl   UIViewImpl
	UIModel      *UIModel
	UIController *UIController
	Logger       *log.Logger
}

// NewBaseUIView creates a new BaseUIView with the given implementation
func NewBaseUIView(args NewBaseUIViewArg) *BaseUIView {
	if args.Logger == nil {
		panic("BaseUIView: logger cannot be nil")
	}
	if args.UIViewImpl == nil {
		panic("BaseUIView: UIViewImpl cannot be nil")
	}
	if args.UIModel == nil {
		panic("BaseUIView: UIModel cannot be nil")
	}
	if args.UIController == nil {
		panic("BaseUIView: UIController cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())

	base := &BaseUIView{
		uiViewImpl:   args.UIViewImpl,
		uiModel:      args.UIModel,
		uiController: args.UIController,
		context:      ctx,
		cancelFunc:   cancel,
		logger:       args.Logger,
	}

	args.UIViewImpl.Initialize(args.UIController)
	args.UIViewImpl.SetupKeyboardHandlers(args.UIController)

	uiState := args.UIModel.GetUIState()
	args.UIViewImpl.SetMode(uiState.Mode)
	args.UIViewImpl.SetSelectedSetting(uiState.SelectedSetting)
	args.UIViewImpl.UpdateWorkoutState(args.UIModel.GetWorkoutState())

	go_func_utils.SafeGoGroup(&base.waitGroup, base.logger, "BaseUIView.monitorLogResize", base.monitorLogResize)
	base.updateLogDisplay()

	base.setupEventListeners()

	return base
}

// listen runs handle for every value received on ch until shutdown
func listen[T any](base *BaseUIView, name string, register func(chan<- T) func(), handle func(T)) {
	ch := make(chan T, 1)
	unregister := register(ch)
	go_func_utils.SafeGoGroup(&base.waitGroup, base.logger, name, func() {
		defer unregister()
		for {
			select {
			case <-base.context.Done():
				return
			case value, ok := <-ch:
				if !ok {
					return
				}
				handle(value)
			}
		}
	})
}

func (base *BaseUIView) setupEventListeners() {
	listen(base, "BaseUIView.log", base.uiModel.ListenToLog, func(string) {
		base.updateLogDisplay()
		base.draw()
	})

	listen(base, "BaseUIView.close", base.uiModel.ListenToCloseApplication, func(struct{}) {
		base.uiViewImpl.Stop()
	})

	listen(base, "BaseUIView.uiState", base.uiModel.ListenToUIState, func(state UIState) {
		base.uiViewImpl.SetMode(state.Mode)
		base.uiViewImpl.SetSelectedSetting(state.SelectedSetting)
		base.draw()
	})

	// A dropped snapshot is harmless: the next one carries the whole state.
	listen(base, "BaseUIView.workoutState", base.uiModel.ListenToWorkoutState, func(state WorkoutState) {
		base.uiViewImpl.UpdateWorkoutState(state)
		base.draw()
	})
}

func (base *BaseUIView) draw() {
	if err := base.uiViewImpl.Draw(); err != nil {
		base.logger.Printf("BaseUIView: Error drawing: %v", err)
	}
}

func (base *BaseUIView) updateLogDisplay() {
	height := base.uiViewImpl.GetLogViewHeight()
	if height <= 0 {
		return
	}

	logLines := base.uiModel.GetLogTail(height)

	base.uiViewImpl.ClearLogView()
	for _, line := range logLines {
		if err := base.uiViewImpl.WriteLogLine(line); err != nil {
			base.logger.Printf("BaseUIView: Error writing to log view: %v", err)
		}
	}
}

func (base *BaseUIView) monitorLogResize() {
	var lastHeight int
	ticker := time.NewTicker(logResizePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-base.context.Done():
			return
		case <-ticker.C:
			height := base.uiViewImpl.GetLogViewHeight()
			if height != lastHeight && height > 0 {
				lastHeight = height
				base.updateLogDisplay()
				base.draw()
			}
		}
	}
}

// Shutdown stops all goroutines and waits for them to finish
func (base *BaseUIView) Shutdown() {
	base.logger.Println("BaseUIView: Shutting down")
	base.cancelFunc()
	base.waitGroup.Wait()
	base.logger.Println("BaseUIView: Shutdown complete")
}

// Run starts the UI and blocks until it exits
func (base *BaseUIView) Run() error {
	return base.uiViewImpl.Run()
}
