package search

import (
	"context"
	"sync"

	"hn-search/prefs"
)

// Preferences is the best-effort store the committed query is persisted to.
// *prefs.Store satisfies it.
type Preferences interface {
	GetOr(key, def string) string
	Set(key, value string)
}

// Submission keeps the text being typed apart from the query that was
// committed. Only Submit moves one into the other.
type Submission struct {
	prefs     Preferences
	lifecycle *Lifecycle

	mu        sync.Mutex
	typed     string
	committed string
}

// NewSubmission seeds the committed query from prefs, or defaultQuery when
// nothing was stored. The typed query starts equal to it.
func NewSubmission(p Preferences, lifecycle *Lifecycle, defaultQuery string) *Submission {
	committed := p.GetOr(prefs.LastSearchKey, defaultQuery)
	return &Submission{
		prefs:     p,
		lifecycle: lifecycle,
		typed:     committed,
		committed: committed,
	}
}

// Start fetches the seeded committed query. It does not write preferences.
func (s *Submission) Start(ctx context.Context) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle.Commit(ctx, s.committed)
}

// Edit replaces the typed query. Nothing else happens.
func (s *Submission) Edit(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.typed = text
}

// Submit commits the typed query, persists it and starts its fetch.
// Resubmitting the same text fetches again. It returns the committed query.
func (s *Submission) Submit(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.committed = s.typed
	s.prefs.Set(prefs.LastSearchKey, s.committed)
	s.lifecycle.Commit(ctx, s.committed)
	return s.committed
}

// Typed returns the text currently being edited.
func (s *Submission) Typed() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typed
}

// Committed returns the last committed query.
func (s *Submission) Committed() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}
