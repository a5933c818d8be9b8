package events

import (
	"sync"
	"sync/atomic"
)

// ChannelEvent fans values out to listener channels.
// Sends never block: a listener whose channel is full misses that value,
// which is counted in Dropped.
type ChannelEvent[T any] struct {
	mu                    sync.RWMutex
	channels              map[uint64]chan<- T
	nextID                uint64
	sendLastEventOnListen bool
	lastEvent             *T
	dropped               atomic.Uint64
}

// NewChannelEvent creates a ChannelEvent.
// sendLastEventOnListen: replay the most recent value to each new listener,
// so late subscribers (an SSE client, a freshly built view) start from the current state
func NewChannelEvent[T any](sendLastEventOnListen bool) *ChannelEvent[T] {
	return &ChannelEvent[T]{
		channels:              make(map[uint64]chan<- T),
		sendLastEventOnListen: sendLastEventOnListen,
	}
}

// Listen registers ch and returns the function that removes it again.
// Calling the returned function more than once is safe.
func (e *ChannelEvent[T]) Listen(ch chan<- T) func() {
	if ch == nil {
		panic("channel cannot be nil")
	}

	// The replay is sent under the lock so a concurrent Notify cannot
	// deliver a newer value ahead of it. send never blocks.
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.channels[id] = ch
	if e.sendLastEventOnListen && e.lastEvent != nil {
		e.send(ch, *e.lastEvent)
	}
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.channels, id)
		e.mu.Unlock()
	}
}

// Notify sends value to every listener without blocking
func (e *ChannelEvent[T]) Notify(value T) {
	e.mu.Lock()
	if e.sendLastEventOnListen {
		v := value
		e.lastEvent = &v
	}
	targets := make([]chan<- T, 0, len(e.channels))
	for _, ch := range e.channels {
		targets = append(targets, ch)
	}
	e.mu.Unlock()

	for _, ch := range targets {
		e.send(ch, value)
	}
}

func (e *ChannelEvent[T]) send(ch chan<- T, value T) {
	select {
	case ch <- value:
	default:
		e.dropped.Add(1)
	}
}

// Last returns the most recent value when replay is enabled
func (e *ChannelEvent[T]) Last() (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.lastEvent == nil {
		var zero T
		return zero, false
	}
	return *e.lastEvent, true
}

// Dropped is the number of sends skipped because a listener channel was full
func (e *ChannelEvent[T]) Dropped() uint64 {
	return e.dropped.Load()
}

// ListenerCount returns the current number of registered listeners
func (e *ChannelEvent[T]) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.channels)
}
