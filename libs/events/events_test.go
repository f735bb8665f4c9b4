package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddListenerForEventFireOnce(t *testing.T) {
	evsw := NewEventSwitch()

	messages := make(chan EventData, 1)
	require.NoError(t, evsw.AddListenerForEvent("listener", "event",
		func(data EventData) error {
			messages <- data
			return nil
		}))

	evsw.FireEvent("event", "data")
	received := <-messages
	assert.Equal(t, "data", received)
}

func TestFireEventWithoutListeners(t *testing.T) {
	evsw := NewEventSwitch()
	evsw.FireEvent("event", "data") // must not panic
}

func TestRemoveListenerForEvent(t *testing.T) {
	evsw := NewEventSwitch()

	var (
		mtx   sync.Mutex
		count int
	)
	require.NoError(t, evsw.AddListenerForEvent("listener", "event",
		func(EventData) error {
			mtx.Lock()
			count++
			mtx.Unlock()
			return nil
		}))

	evsw.FireEvent("event", nil)
	evsw.RemoveListenerForEvent("event", "listener")
	evsw.FireEvent("event", nil)

	mtx.Lock()
	defer mtx.Unlock()
	assert.Equal(t, 1, count)
}

func TestMultipleListeners(t *testing.T) {
	evsw := NewEventSwitch()

	var (
		wg   sync.WaitGroup
		mtx  sync.Mutex
		seen []string
	)
	wg.Add(2)
	for _, id := range []string{"a", "b"} {
		id := id
		require.NoError(t, evsw.AddListenerForEvent(id, "event",
			func(EventData) error {
				mtx.Lock()
				seen = append(seen, id)
				mtx.Unlock()
				wg.Done()
				return nil
			}))
	}

	evsw.FireEvent("event", nil)
	wg.Wait()

	mtx.Lock()
	defer mtx.Unlock()
	assert.Len(t, seen, 2)
}
