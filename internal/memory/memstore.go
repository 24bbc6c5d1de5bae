package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/averyli/tutorchat/internal/model"
)

// MemStore is an in-memory Store with the same retention behavior as the
// SQLite backend. Used in tests and anywhere persistence is not wanted.
// Concurrent writes to the same list are last-write-wins on the whole list;
// capacity and expiry are the safety net, not write ordering.
type MemStore struct {
	mu    sync.Mutex
	lists map[string][]model.Record
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{lists: make(map[string][]model.Record)}
}

func listKey(user, category string) string {
	return user + "\x00" + category
}

func (s *MemStore) Record(ctx context.Context, rec model.Record) error {
	capacity, window := policyFor(rec.Category)
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() || rec.CreatedAt.After(now) {
		rec.CreatedAt = now
	}
	if rec.ID == "" {
		rec.ID = ulid.Make().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := listKey(rec.User, rec.Category)
	list := append([]model.Record{rec}, s.lists[key]...)
	if len(list) > capacity {
		list = list[:capacity]
	}
	s.lists[key] = dropExpired(list, now.Add(-window))
	return nil
}

func (s *MemStore) Query(ctx context.Context, user, category string) ([]model.Record, error) {
	_, window := policyFor(category)
	cutoff := time.Now().UTC().Add(-window)

	s.mu.Lock()
	defer s.mu.Unlock()

	list := dropExpired(s.lists[listKey(user, category)], cutoff)
	out := make([]model.Record, len(list))
	copy(out, list)
	return out, nil
}

func (s *MemStore) Clear(ctx context.Context, user, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, listKey(user, category))
	return nil
}

func (s *MemStore) Close() error { return nil }

func dropExpired(list []model.Record, cutoff time.Time) []model.Record {
	kept := list[:0:0]
	for _, r := range list {
		if !r.CreatedAt.Before(cutoff) {
			kept = append(kept, r)
		}
	}
	return kept
}
