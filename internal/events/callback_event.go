package events

import (
	"fmt"
	"sync"
)

// CallbackEvent calls listener functions synchronously on Notify.
// A listener that panics is isolated: the panic is handed to the recover
// handler and the remaining listeners still run.
type CallbackEvent[T any] struct {
	mu        sync.RWMutex
	listeners map[uint64]func(T)
	order     []uint64
	nextID    uint64
	onPanic   func(error)
}

// NewCallbackEvent creates a CallbackEvent. onPanic may be nil, in which
// case listener panics are swallowed.
func NewCallbackEvent[T any](onPanic func(error)) *CallbackEvent[T] {
	return &CallbackEvent[T]{
		listeners: make(map[uint64]func(T)),
		onPanic:   onPanic,
	}
}

// Listen registers callback; listeners run in registration order.
// Returns a deregistration function.
func (e *CallbackEvent[T]) Listen(callback func(T)) func() {
	if callback == nil {
		panic("callback cannot be nil")
	}

	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = callback
	e.order = append(e.order, id)
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.listeners[id]; !ok {
			return
		}
		delete(e.listeners, id)
		for i, v := range e.order {
			if v == id {
				e.order = append(e.order[:i:i], e.order[i+1:]...)
				break
			}
		}
	}
}

// Notify calls every listener with value, outside the lock so listeners may
// (de)register during the call.
func (e *CallbackEvent[T]) Notify(value T) {
	e.mu.RLock()
	callbacks := make([]func(T), 0, len(e.order))
	for _, id := range e.order {
		callbacks = append(callbacks, e.listeners[id])
	}
	e.mu.RUnlock()

	for _, callback := range callbacks {
		e.call(callback, value)
	}
}

func (e *CallbackEvent[T]) call(callback func(T), value T) {
	defer func() {
		if r := recover(); r != nil && e.onPanic != nil {
			e.onPanic(fmt.Errorf("event listener panic: %v", r))
		}
	}()
	callback(value)
}

// ListenerCount returns the current number of registered listeners
func (e *CallbackEvent[T]) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}
