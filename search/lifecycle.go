package search

import (
	"context"
	"log/slog"
	"sync"

	"hn-search/stories"
)

// Fetcher runs one search against the remote index.
type Fetcher interface {
	Fetch(ctx context.Context, query string) ([]stories.Story, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, query string) ([]stories.Story, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, query string) ([]stories.Story, error) {
	return f(ctx, query)
}

// Phase is the state of the fetch lifecycle for the current generation.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// Lifecycle issues one fetch per committed query and feeds Init, Success and
// Failure into Results. Every commit starts a new generation; a response is
// applied only while its generation is still the latest.
type Lifecycle struct {
	fetcher Fetcher
	results *Results
	logger  *slog.Logger

	mu         sync.Mutex
	generation uint64
	query      string
	phase      Phase

	inflight sync.WaitGroup
}

// NewLifecycle creates a Lifecycle. A nil logger means slog.Default().
func NewLifecycle(fetcher Fetcher, results *Results, logger *slog.Logger) *Lifecycle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lifecycle{
		fetcher: fetcher,
		results: results,
		logger:  logger,
	}
}

// Commit starts a fetch for query and returns its generation.
//
// An empty query starts a generation without a request, so any in-flight
// response becomes stale. The items are kept; a pending load is settled.
//
// ctx bounds the request. Superseded requests are not cancelled; their
// responses are dropped when they arrive.
func (l *Lifecycle) Commit(ctx context.Context, query string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.generation++
	gen := l.generation
	l.query = query

	if query == "" {
		l.phase = PhaseIdle
		l.results.settle()
		l.logger.Debug("empty query committed, not fetching", "generation", gen)
		return gen
	}

	l.phase = PhasePending
	l.results.apply(stories.Init{})

	l.inflight.Add(1)
	go l.run(ctx, gen, query)

	l.logger.Info("search started", "query", query, "generation", gen)
	return gen
}

func (l *Lifecycle) run(ctx context.Context, gen uint64, query string) {
	defer l.inflight.Done()

	items, err := l.fetcher.Fetch(ctx, query)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		l.logger.Debug("discarding stale search response",
			"query", query, "generation", gen, "current", l.generation)
		return
	}

	if err != nil {
		l.phase = PhaseFailed
		l.results.apply(stories.Failure{Err: err})
		l.logger.Error("search failed", "query", query, "generation", gen, "error", err)
		return
	}

	l.phase = PhaseSucceeded
	l.results.apply(stories.Success{Stories: items})
	l.logger.Info("search complete", "query", query, "generation", gen, "hits", len(items))
}

// Wait blocks until every issued request has returned.
func (l *Lifecycle) Wait() {
	l.inflight.Wait()
}

// Generation returns the generation of the latest commit, 0 before any.
func (l *Lifecycle) Generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generation
}

// Phase returns the lifecycle phase of the latest generation.
func (l *Lifecycle) Phase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase
}

// Query returns the query of the latest generation.
func (l *Lifecycle) Query() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}
