// Package favorites keeps the user's saved recipes in memory and persists
// every change through a Store.
package favorites

import (
	"context"
	"slices"
	"sync"

	"github.com/hpungsan/mealfind/internal/errors"
	"github.com/hpungsan/mealfind/internal/logger"
	"github.com/hpungsan/mealfind/internal/meal"
	"github.com/hpungsan/mealfind/internal/metrics"
)

// Store persists the full favorites list. Save followed by Load must return
// the same list, in the same order, with the same fields.
type Store interface {
	Load(ctx context.Context) ([]meal.Favorite, error)
	Save(ctx context.Context, favs []meal.Favorite) error
}

// List is the in-memory favorites list. Safe for concurrent use; toggles are
// serialized so each persist sees a complete list.
type List struct {
	mu    sync.Mutex
	store Store
	log   logger.Logger
	items []meal.Favorite
}

// Load reads the persisted list once, at startup.
func Load(ctx context.Context, store Store, log logger.Logger) (*List, error) {
	if log == nil {
		log = logger.NewNop()
	}
	items, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &List{store: store, log: log, items: dedupe(items)}, nil
}

// Toggle adds fav when its id is absent and removes it when present, then
// persists the whole list before returning. It returns whether the recipe is
// now a favorite.
//
// A persist failure is returned as a STORAGE_FAILED error alongside the new
// status. The in-memory change is kept: callers should surface the error as
// a warning, not undo the toggle.
func (l *List) Toggle(ctx context.Context, fav meal.Favorite) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(fav.ID)
	nowFavorite := idx < 0
	if nowFavorite {
		l.items = append(l.items, fav)
	} else {
		l.items = slices.Delete(l.items, idx, idx+1)
	}

	if err := l.store.Save(ctx, slices.Clone(l.items)); err != nil {
		if !errors.Is(err, errors.ErrStorageFailed) {
			err = errors.NewStorageFailed(err)
		}
		metrics.FavoriteSaveFailures.Inc()
		l.log.Warn("could not persist favorites",
			logger.String("id", fav.ID),
			logger.Bool("favorite", nowFavorite),
			logger.Error(err),
		)
		return nowFavorite, err
	}
	return nowFavorite, nil
}

// Contains reports whether id is a favorite.
func (l *List) Contains(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.indexOf(id) >= 0
}

// Get returns the favorite with id, if present.
func (l *List) Get(id string) (meal.Favorite, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexOf(id); i >= 0 {
		return l.items[i], true
	}
	return meal.Favorite{}, false
}

// Items returns a copy of the list in insertion order.
func (l *List) Items() []meal.Favorite {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]meal.Favorite, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of favorites.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *List) indexOf(id string) int {
	return slices.IndexFunc(l.items, func(f meal.Favorite) bool { return f.ID == id })
}

func dedupe(items []meal.Favorite) []meal.Favorite {
	seen := make(map[string]bool, len(items))
	out := make([]meal.Favorite, 0, len(items))
	for _, f := range items {
		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		out = append(out, f)
	}
	return out
}
