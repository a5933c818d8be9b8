package go_func_utils

import (
	"log"
	"runtime/debug"
	"sync"
)

// SafeGo runs fn on a new goroutine. A panic is written to logger with its
// stack before being re-raised; the curses UI owns stdout, so without this
// the trace would be lost.
func SafeGo(logger *log.Logger, name string, fn func()) {
	go func() {
		defer recoverAndLog(logger, name)
		fn()
	}()
}

// SafeGoGroup is SafeGo tracked by wg, so callers can wait for shutdown.
func SafeGoGroup(wg *sync.WaitGroup, logger *log.Logger, name string, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer recoverAndLog(logger, name)
		fn()
	}()
}

func recoverAndLog(logger *log.Logger, name string) {
	if r := recover(); r != nil {
		logger.Printf("PANIC in %s: %v\n%s", name, r, debug.Stack())
		panic(r)
	}
}
