package memory

import (
	"context"
	"fmt"
	"sync"
)

// Source serves artifact bytes from memory
// This is for testing purposes only
type Source struct {
	data []byte
	err  error
	mu   sync.RWMutex
}

// NewSource creates a new in-memory artifact source
func NewSource(data []byte) *Source {
	return &Source{data: append([]byte(nil), data...)}
}

// Fetch returns a copy of the stored artifact
func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}
	if s.data == nil {
		return nil, fmt.Errorf("artifact not found")
	}

	return append([]byte(nil), s.data...), nil
}

// Location identifies the source in logs
func (s *Source) Location() string {
	return "memory://artifact"
}

// SetError makes subsequent fetches fail with err
func (s *Source) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err
}
