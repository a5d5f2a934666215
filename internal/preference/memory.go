// AngelaMos | 2026
// memory.go

package preference

import (
	"context"
	"sync"

	"github.com/carterperez-dev/automarket/internal/market"
)

// MemoryStore is a process-local store used by the CLI and tests. WriteErr
// and ReadErr simulate an unavailable backend.
type MemoryStore struct {
	mu       sync.Mutex
	label    string
	value    string
	ReadErr  error
	WriteErr error
}

func NewMemoryStore(label, initial string) *MemoryStore {
	return &MemoryStore{label: label, value: initial}
}

func (s *MemoryStore) Name() string {
	return s.label
}

func (s *MemoryStore) Read(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ReadErr != nil {
		return "", s.ReadErr
	}
	return s.value, nil
}

func (s *MemoryStore) Write(_ context.Context, code market.Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.value = code.String()
	return nil
}

func (s *MemoryStore) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}
