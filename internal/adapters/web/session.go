package web

import (
	"sync"

	"limsmock/pkg/domain"
)

// SessionSamplesKey holds the seeded samples listed by /samples.
const SessionSamplesKey = "samples"

// Session is the keyed value holder shared by all requests.
type Session struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewSession returns an empty session.
func NewSession() *Session { return &Session{values: make(map[string]any)} }

// Set stores value under key.
func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Get returns the value stored under key.
func (s *Session) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Samples returns the samples stored under SessionSamplesKey, or nil.
func (s *Session) Samples() []domain.Sample {
	v, ok := s.Get(SessionSamplesKey)
	if !ok {
		return nil
	}
	samples, _ := v.([]domain.Sample)
	return samples
}
