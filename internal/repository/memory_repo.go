package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/uozumi/gyodex/internal/domain"
)

// MemoryStore is the document-list Store implementation: a mutex-guarded map
// with the same contract as FishRepository. Used where no embedded database
// is available, and by tests for isolation.
type MemoryStore struct {
	mu   sync.RWMutex
	fish map[string]domain.Fish
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		fish: make(map[string]domain.Fish),
	}
}

// cloneFish returns a copy whose slice fields own their backing arrays. A
// plain struct copy keeps StringArray fields aliased to the original, which
// would let callers mutate stored state through a retained record.
func cloneFish(f domain.Fish) domain.Fish {
	f.CommonAliases = append(domain.StringArray{}, f.CommonAliases...)
	f.Habitats = append(domain.StringArray{}, f.Habitats...)
	f.WaysToEat = append(domain.StringArray{}, f.WaysToEat...)
	f.SushiImages = append(domain.StringArray{}, f.SushiImages...)
	f.WildImages = append(domain.StringArray{}, f.WildImages...)
	return f
}

// LoadAll returns every record ordered by unique_name ascending.
func (s *MemoryStore) LoadAll(ctx context.Context) ([]domain.Fish, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Fish, 0, len(s.fish))
	for _, f := range s.fish {
		out = append(out, cloneFish(f))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UniqueName < out[j].UniqueName
	})
	return out, nil
}

// GetByID returns the record with the given id, or (nil, nil) when absent.
func (s *MemoryStore) GetByID(ctx context.Context, id string) (*domain.Fish, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.fish[id]
	if !ok {
		return nil, nil
	}
	out := cloneFish(f)
	return &out, nil
}

// Upsert inserts or replaces by id. Records are deep-copied in, so callers
// cannot mutate stored state afterwards, not even through slice fields.
func (s *MemoryStore) Upsert(ctx context.Context, fish *domain.Fish) error {
	fish.Normalize()
	if err := fish.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fish[fish.ID] = cloneFish(*fish)
	return nil
}

// Delete removes by id; a missing id is a no-op.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fish, id)
	return nil
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.fish)), nil
}

// Reset replaces the current contents with the given records.
func (s *MemoryStore) Reset(ctx context.Context, records []domain.Fish) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fish = make(map[string]domain.Fish, len(records))
	for i := range records {
		records[i].Normalize()
		s.fish[records[i].ID] = cloneFish(records[i])
	}
	return nil
}
