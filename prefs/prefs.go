// Package prefs persists small user preferences such as the last committed
// search query. Persistence is best-effort: failures are logged and the
// caller carries on with in-memory values.
package prefs

import (
	"log/slog"
)

// LastSearchKey is the key under which the last committed query is stored.
const LastSearchKey = "lastSearch"

// Backend is a durable key/value store. Set must have persisted the value
// by the time it returns without error.
type Backend interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Store is a best-effort view over a Backend. Its methods never fail.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

// New wraps backend. A nil logger means slog.Default().
func New(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger}
}

// Get returns the stored value for key. A read error is logged and reported
// as a miss.
func (s *Store) Get(key string) (string, bool) {
	value, ok, err := s.backend.Get(key)
	if err != nil {
		s.logger.Warn("preference read failed", "key", key, "error", err)
		return "", false
	}
	return value, ok
}

// GetOr returns the stored value for key, or def on a miss or read error.
func (s *Store) GetOr(key, def string) string {
	if value, ok := s.Get(key); ok {
		return value
	}
	return def
}

// Set writes value under key. A write error is logged and otherwise ignored.
func (s *Store) Set(key, value string) {
	if err := s.backend.Set(key, value); err != nil {
		s.logger.Warn("preference write failed", "key", key, "error", err)
		return
	}
	s.logger.Debug("preference saved", "key", key)
}
