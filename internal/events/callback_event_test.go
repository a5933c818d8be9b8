package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallbackEvent(t *testing.T) {
	event := NewCallbackEvent[string](nil)
	require.NotNil(t, event)
	assert.Equal(t, 0, event.ListenerCount())
}

func TestCallbackEvent_Listen_Notify_Basic(t *testing.T) {
	event := NewCallbackEvent[string](nil)

	var received []string
	unregister := event.Listen(func(value string) {
		received = append(received, value)
	})
	assert.Equal(t, 1, event.ListenerCount())

	event.Notify("countdown-tick")
	event.Notify("work-start")
	assert.Equal(t, []string{"countdown-tick", "work-start"}, received)

	unregister()
	assert.Equal(t, 0, event.ListenerCount())

	event.Notify("rest-start")
	assert.Len(t, received, 2)
}

func TestCallbackEvent_RegistrationOrder(t *testing.T) {
	event := NewCallbackEvent[int](nil)

	var calls []string
	unregisterA := event.Listen(func(int) { calls = append(calls, "a") })
	unregisterB := event.Listen(func(int) { calls = append(calls, "b") })
	unregisterC := event.Listen(func(int) { calls = append(calls, "c") })

	event.Notify(1)
	assert.Equal(t, []string{"a", "b", "c"}, calls)

	unregisterB()
	calls = nil
	event.Notify(2)
	assert.Equal(t, []string{"a", "c"}, calls)

	unregisterA()
	unregisterC()
}

func TestCallbackEvent_PanickingListenerIsIsolated(t *testing.T) {
	var recovered []error
	event := NewCallbackEvent[string](func(err error) { recovered = append(recovered, err) })

	event.Listen(func(string) { panic("audio device gone") })
	var received []string
	event.Listen(func(value string) { received = append(received, value) })

	assert.NotPanics(t, func() { event.Notify("finish") })
	assert.Equal(t, []string{"finish"}, received)
	require.Len(t, recovered, 1)
	assert.Contains(t, recovered[0].Error(), "audio device gone")
}

func TestCallbackEvent_PanicWithoutHandler(t *testing.T) {
	event := NewCallbackEvent[string](nil)
	event.Listen(func(string) { panic("boom") })

	assert.NotPanics(t, func() { event.Notify("finish") })
}

func TestCallbackEvent_Listen_NilCallback(t *testing.T) {
	event := NewCallbackEvent[string](nil)

	assert.Panics(t, func() {
		event.Listen(nil)
	})
}

func TestCallbackEvent_UnregisterDuringNotify(t *testing.T) {
	event := NewCallbackEvent[string](nil)

	var received []string
	var unregister func()
	unregister = event.Listen(func(value string) {
		received = append(received, value)
		if value == "unregister" {
			unregister()
		}
	})

	event.Notify("test1")
	event.Notify("unregister")
	event.Notify("test2")

	assert.Equal(t, []string{"test1", "unregister"}, received)
	assert.Equal(t, 0, event.ListenerCount())
}

func TestCallbackEvent_MultipleUnregisterCalls(t *testing.T) {
	event := NewCallbackEvent[string](nil)
	event.Listen(func(string) {})
	unregister := event.Listen(func(string) {})
	assert.Equal(t, 2, event.ListenerCount())

	unregister()
	unregister()
	assert.Equal(t, 1, event.ListenerCount())
}

func TestCallbackEvent_ConcurrentAccess(t *testing.T) {
	event := NewCallbackEvent[int](nil)

	var mu sync.Mutex
	count := 0
	var wg sync.WaitGroup
	wg.Add(10)
	for i := 0; i < 10; i++ {
		go func() {
			defer wg.Done()
			event.Listen(func(int) {
				mu.Lock()
				count++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, event.ListenerCount())

	wg.Add(5)
	for i := 0; i < 5; i++ {
		go func(value int) {
			defer wg.Done()
			event.Notify(value)
		}(i)
	}
	wg.Wait()

	mu.Lock()
	assert.Equal(t, 50, count)
	mu.Unlock()
}
