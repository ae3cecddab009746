package favorites

import (
	"context"
	"slices"
	"sync"

	"github.com/hpungsan/mealfind/internal/meal"
)

// MemoryStore is a non-durable Store, used when no database is configured
// and in tests.
type MemoryStore struct {
	mu    sync.Mutex
	items []meal.Favorite
	// Err, when set, is returned by every Save.
	Err error
}

// Load returns a copy of the stored list.
func (m *MemoryStore) Load(context.Context) ([]meal.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]meal.Favorite{}, m.items...), nil
}

// Save replaces the stored list unless Err is set.
func (m *MemoryStore) Save(_ context.Context, favs []meal.Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.items = slices.Clone(favs)
	return nil
}

// SetErr sets the error returned by subsequent saves.
func (m *MemoryStore) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}
