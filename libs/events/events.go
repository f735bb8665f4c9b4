// Package events provides synchronous pub-sub for in-process notifications.
package events

import (
	"sync"
)

// EventData is a generic piece of event data fired with an event.
type EventData interface{}

// EventCallback is invoked synchronously for every fired event the listener
// subscribed to.
type EventCallback func(data EventData) error

// Fireable is the interface that wraps the FireEvent method.
//
// FireEvent fires an event with the given name and data.
type Fireable interface {
	FireEvent(eventName string, data EventData)
}

// EventSwitch is the interface for synchronous pubsub, where listeners
// subscribe to certain events and, when an event is fired (see Fireable),
// are notified via a callback function.
//
// Listeners are added by calling AddListenerForEvent. They can be removed by
// calling RemoveListenerForEvent.
type EventSwitch interface {
	Fireable

	AddListenerForEvent(listenerID, eventName string, cb EventCallback) error
	RemoveListenerForEvent(eventName, listenerID string)
}

type eventSwitch struct {
	mtx        sync.RWMutex
	eventCells map[string]*eventCell
}

// NewEventSwitch returns an empty event switch.
func NewEventSwitch() EventSwitch {
	return &eventSwitch{
		eventCells: make(map[string]*eventCell),
	}
}

func (evsw *eventSwitch) AddListenerForEvent(listenerID, eventName string, cb EventCallback) error {
	evsw.mtx.Lock()
	cell := evsw.eventCells[eventName]
	if cell == nil {
		cell = newEventCell()
		evsw.eventCells[eventName] = cell
	}
	evsw.mtx.Unlock()

	cell.addListener(listenerID, cb)
	return nil
}

func (evsw *eventSwitch) RemoveListenerForEvent(eventName, listenerID string) {
	evsw.mtx.RLock()
	cell := evsw.eventCells[eventName]
	evsw.mtx.RUnlock()

	if cell == nil {
		return
	}

	cell.removeListener(listenerID)
}

func (evsw *eventSwitch) FireEvent(eventName string, data EventData) {
	evsw.mtx.RLock()
	cell := evsw.eventCells[eventName]
	evsw.mtx.RUnlock()

	if cell == nil {
		return
	}

	cell.fireEvent(data)
}

// eventCell handles keeping track of listener callbacks for a given event.
type eventCell struct {
	mtx       sync.RWMutex
	listeners map[string]EventCallback
}

func newEventCell() *eventCell {
	return &eventCell{
		listeners: make(map[string]EventCallback),
	}
}

func (cell *eventCell) addListener(listenerID string, cb EventCallback) {
	cell.mtx.Lock()
	defer cell.mtx.Unlock()
	cell.listeners[listenerID] = cb
}

func (cell *eventCell) removeListener(listenerID string) {
	cell.mtx.Lock()
	defer cell.mtx.Unlock()
	delete(cell.listeners, listenerID)
}

func (cell *eventCell) fireEvent(data EventData) {
	cell.mtx.RLock()
	eventCallbacks := make([]EventCallback, 0, len(cell.listeners))
	for _, cb := range cell.listeners {
		eventCallbacks = append(eventCallbacks, cb)
	}
	cell.mtx.RUnlock()

	for _, cb := range eventCallbacks {
		// Listener errors are the listener's problem, not the firer's.
		_ = cb(data)
	}
}
