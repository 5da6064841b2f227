package search

import (
	"errors"
	"log/slog"
	"slices"
	"sync"

	"hn-search/stories"
)

// ErrNilEvent is returned by Dispatch when handed a nil event.
var ErrNilEvent = errors.New("search: nil event")

// Transition describes one reduced event.
type Transition struct {
	Event  stories.Event
	Before stories.State
	After  stories.State
}

// Observer is notified after every event applied to Results, in order.
// Observe runs while Results is locked and must not call back into it.
type Observer interface {
	Observe(Transition)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Transition)

// Observe implements Observer.
func (f ObserverFunc) Observe(t Transition) { f(t) }

type nopObserver struct{}

func (nopObserver) Observe(Transition) {}

// LogObserver returns an Observer that writes each transition to logger at
// debug level.
func LogObserver(logger *slog.Logger) Observer {
	return ObserverFunc(func(t Transition) {
		logger.Debug("results transition",
			"event", eventName(t.Event),
			"items_before", len(t.Before.Items),
			"items_after", len(t.After.Items),
			"loading", t.After.IsLoading,
			"error", t.After.IsError,
		)
	})
}

func eventName(e stories.Event) string {
	switch ev := e.(type) {
	case stories.Init:
		return "init"
	case stories.Success:
		return "success"
	case stories.Failure:
		return "failure"
	case stories.Remove:
		return "remove:" + ev.ID
	}
	return "unknown"
}

// Results owns the displayed result state. All changes go through the
// stories reducer.
type Results struct {
	mu       sync.Mutex
	state    stories.State
	observer Observer
}

// NewResults creates a Results holding initial. A nil observer is a no-op.
func NewResults(initial stories.State, observer Observer) *Results {
	if observer == nil {
		observer = nopObserver{}
	}
	if initial.Items == nil {
		initial.Items = []stories.Story{}
	}
	return &Results{state: initial, observer: observer}
}

// Dispatch reduces e into the current state.
func (r *Results) Dispatch(e stories.Event) error {
	if e == nil {
		return ErrNilEvent
	}
	r.apply(e)
	return nil
}

func (r *Results) apply(e stories.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reduceLocked(e)
}

// settle ends a pending load without touching the items. It is applied when
// the request that set IsLoading was superseded by a commit that fetches
// nothing.
func (r *Results) settle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.state.IsLoading {
		return
	}
	r.reduceLocked(stories.Success{Stories: r.state.Items})
}

func (r *Results) reduceLocked(e stories.Event) {
	before := r.state
	r.state = stories.Reduce(before, e)
	r.observer.Observe(Transition{Event: e, Before: before, After: r.state})
}

// State returns a snapshot of the current state.
func (r *Results) State() stories.State {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state
	s.Items = slices.Clone(s.Items)
	return s
}
