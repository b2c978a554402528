package persistence

import (
	"context"
	"sync"

	"github.com/petrijr/flowboard/pkg/api"
)

// InMemoryStore is a simple, goroutine-safe implementation of BoardStore and
// EventStore backed by maps. It is non-durable and intended for tests and
// single-process development sessions.
type InMemoryStore struct {
	mu      sync.RWMutex
	items   map[string]api.WorkItem
	version int64
	events  []api.BoardEvent
}

// NewInMemoryStore creates a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		items: make(map[string]api.WorkItem),
	}
}

// Ensure InMemoryStore implements the interfaces.
var _ BoardStore = (*InMemoryStore)(nil)

var _ EventStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) LoadBoard(ctx context.Context) ([]api.WorkItem, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]api.WorkItem, 0, len(s.items))
	for _, it := range s.items {
		items = append(items, it)
	}
	return items, s.version, nil
}

func (s *InMemoryStore) SaveItem(ctx context.Context, item api.WorkItem, expectedVersion int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.version != expectedVersion {
		return s.version, ErrVersionConflict
	}
	s.items[item.ID] = item
	s.version++
	return s.version, nil
}

func (s *InMemoryStore) DeleteItem(ctx context.Context, itemID string, expectedVersion int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.version != expectedVersion {
		return s.version, ErrVersionConflict
	}
	delete(s.items, itemID)
	s.version++
	return s.version, nil
}

func (s *InMemoryStore) AppendEvent(ctx context.Context, ev api.BoardEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, ev)
	return nil
}

func (s *InMemoryStore) ListEvents(ctx context.Context, board string) ([]api.BoardEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []api.BoardEvent
	for _, ev := range s.events {
		if board != "" && ev.Board != board {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}
