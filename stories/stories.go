// Package stories holds the search result model and the reducer that moves
// it between fetch lifecycle states.
package stories

import (
	"slices"
	"strings"
)

// Story is one entry returned by the search index. Stories are never
// modified after they are fetched; ID is the identity.
type Story struct {
	ID           string
	Title        string
	URL          string
	Author       string
	CommentCount int
	Score        int
}

// State is the displayed result set together with the fetch flags.
// IsLoading and IsError are never both true.
type State struct {
	Items     []Story
	IsLoading bool
	IsError   bool
}

// Initial returns the empty state a session starts with.
func Initial() State {
	return State{Items: []Story{}}
}

// Event is a lifecycle event accepted by Reduce. The set of events is
// closed: Init, Success, Failure and Remove are the only implementations.
type Event interface {
	apply(State) State
}

// Init marks the start of a fetch.
type Init struct{}

// Success carries the stories of a completed fetch.
type Success struct {
	Stories []Story
}

// Failure marks a fetch that ended in a transport or decoding error.
// Err is informational only and does not reach the state.
type Failure struct {
	Err error
}

// Remove drops the story with the given ID from the displayed items.
type Remove struct {
	ID string
}

func (Init) apply(s State) State {
	return State{Items: s.Items, IsLoading: true}
}

func (e Success) apply(State) State {
	items := slices.Clone(e.Stories)
	if items == nil {
		items = []Story{}
	}
	return State{Items: items}
}

func (Failure) apply(s State) State {
	return State{Items: s.Items, IsError: true}
}

func (e Remove) apply(s State) State {
	idx := slices.IndexFunc(s.Items, func(st Story) bool { return st.ID == e.ID })
	if idx < 0 {
		return s
	}
	items := make([]Story, 0, len(s.Items)-1)
	items = append(items, s.Items[:idx]...)
	items = append(items, s.Items[idx+1:]...)
	return State{Items: items, IsLoading: s.IsLoading, IsError: s.IsError}
}

// Reduce returns the state that follows s after event e. It never mutates s.
// A nil event leaves the state unchanged.
func Reduce(s State, e Event) State {
	if e == nil {
		return s
	}
	return e.apply(s)
}

// Find returns the displayed story with the given ID.
func (s State) Find(id string) (Story, bool) {
	for _, st := range s.Items {
		if st.ID == id {
			return st, true
		}
	}
	return Story{}, false
}

// Filter returns the items whose title contains term, ignoring case.
// An empty term returns every item.
func (s State) Filter(term string) []Story {
	if term == "" {
		return slices.Clone(s.Items)
	}
	term = strings.ToLower(term)
	var out []Story
	for _, st := range s.Items {
		if strings.Contains(strings.ToLower(st.Title), term) {
			out = append(out, st)
		}
	}
	return out
}
