package event

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

type Callback func(object ...interface{})

type CallbackItem struct {
	Id        string
	Priority  int
	IsOnetime bool
	Callback  Callback
}

type EventEmitter struct {
	callbacks map[string][]CallbackItem
	sequence  atomic.Uint64
	mxState   *sync.RWMutex
}

func CreateEventEmitter() *EventEmitter {
	return &EventEmitter{
		callbacks: make(map[string][]CallbackItem),
		mxState:   new(sync.RWMutex),
	}
}

func (s *EventEmitter) nextId() string {
	return fmt.Sprintf("cb-%d", s.sequence.Add(1))
}

func (s *EventEmitter) addHandler(event string, callbackItem CallbackItem) {
	defer s.mxState.Unlock()
	s.mxState.Lock()
	handlers := s.callbacks[event]
	idx := len(handlers)
	for i, handler := range handlers {
		if handler.Priority > callbackItem.Priority {
			idx = i
			break
		}
	}
	s.callbacks[event] = slices.Insert(handlers, idx, callbackItem)
}

func (s *EventEmitter) On(event string, callback Callback, priorityArr ...int) string {
	priority := 100
	if len(priorityArr) > 0 {
		priority = priorityArr[0]
	}
	id := s.nextId()
	s.addHandler(event, CallbackItem{Callback: callback, Priority: priority, Id: id})
	return id
}

func (s *EventEmitter) Once(event string, callback Callback, priorityArr ...int) string {
	priority := 100
	if len(priorityArr) > 0 {
		priority = priorityArr[0]
	}
	id := s.nextId()
	s.addHandler(event, CallbackItem{Callback: callback, Priority: priority, Id: id, IsOnetime: true})
	return id
}

func (s *EventEmitter) Off(event string, callbackIds ...string) {
	defer s.mxState.Unlock()
	s.mxState.Lock()
	if len(callbackIds) == 0 {
		delete(s.callbacks, event)
		return
	}
	s.callbacks[event] = slices.DeleteFunc(s.callbacks[event], func(cb CallbackItem) bool {
		return slices.Contains(callbackIds, cb.Id)
	})
}

func (s *EventEmitter) snapshot(event string) []CallbackItem {
	s.mxState.RLock()
	defer s.mxState.RUnlock()
	return slices.Clone(s.callbacks[event])
}

// Emit dispatches each handler on its own goroutine.
func (s *EventEmitter) Emit(event string, object ...interface{}) {
	var removed []string
	for _, callback := range s.snapshot(event) {
		go (callback.Callback)(object...)
		if callback.IsOnetime {
			removed = append(removed, callback.Id)
		}
	}
	if len(removed) > 0 {
		s.Off(event, removed...)
	}
}

// EmitSync dispatches handlers inline, in priority order. State
// transitions that must be observed before the emitter returns
// (proposal reset, ladder application) use this path.
func (s *EventEmitter) EmitSync(event string, object ...interface{}) {
	var removed []string
	for _, callback := range s.snapshot(event) {
		(callback.Callback)(object...)
		if callback.IsOnetime {
			removed = append(removed, callback.Id)
		}
	}
	if len(removed) > 0 {
		s.Off(event, removed...)
	}
}
