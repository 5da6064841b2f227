// Package search drives the fetch lifecycle of a story search: it keeps the
// typed and committed queries apart, runs one request per commit, drops
// responses that were superseded, and persists the committed query.
package search

import (
	"context"
	"log/slog"

	"hn-search/stories"
)

// DefaultQuery is committed on first run when no preference is stored.
const DefaultQuery = "React"

// View is what a presentation layer renders.
type View struct {
	Typed     string
	Committed string
	Results   stories.State
}

// Options configures a Session.
type Options struct {
	Fetcher      Fetcher
	Preferences  Preferences
	DefaultQuery string
	Initial      stories.State
	Observer     Observer
	Logger       *slog.Logger
}

// Session wires Results, Lifecycle and Submission together and exposes the
// intents a presentation layer may send.
type Session struct {
	results    *Results
	lifecycle  *Lifecycle
	submission *Submission
}

// NewSession builds a Session. The committed query is read from
// opts.Preferences immediately; nothing is fetched until Start.
func NewSession(opts Options) *Session {
	results := NewResults(opts.Initial, opts.Observer)
	lifecycle := NewLifecycle(opts.Fetcher, results, opts.Logger)
	return &Session{
		results:    results,
		lifecycle:  lifecycle,
		submission: NewSubmission(opts.Preferences, lifecycle, opts.DefaultQuery),
	}
}

// Start fetches the committed query restored at construction.
func (s *Session) Start(ctx context.Context) {
	s.submission.Start(ctx)
}

// OnTypedQueryChange records an edit of the query text.
func (s *Session) OnTypedQueryChange(text string) {
	s.submission.Edit(text)
}

// OnSubmit commits the typed query.
func (s *Session) OnSubmit(ctx context.Context) string {
	return s.submission.Submit(ctx)
}

// OnRemove hides the story with the given ID from the current results.
// It is local only; resubmitting the query brings the story back.
func (s *Session) OnRemove(id string) error {
	return s.results.Dispatch(stories.Remove{ID: id})
}

// View returns a snapshot for rendering.
func (s *Session) View() View {
	return View{
		Typed:     s.submission.Typed(),
		Committed: s.submission.Committed(),
		Results:   s.results.State(),
	}
}

// Status describes the latest commit.
type Status struct {
	Generation uint64
	Query      string
	Phase      Phase
}

// Status returns the generation, query and phase of the latest commit.
func (s *Session) Status() Status {
	return Status{
		Generation: s.lifecycle.Generation(),
		Query:      s.lifecycle.Query(),
		Phase:      s.lifecycle.Phase(),
	}
}

// Phase returns the fetch phase of the latest commit.
func (s *Session) Phase() Phase {
	return s.lifecycle.Phase()
}

// Wait blocks until all in-flight fetches have returned.
func (s *Session) Wait() {
	s.lifecycle.Wait()
}
