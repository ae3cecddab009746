package resolve

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hpungsan/mealfind/internal/meal"
)

var errTransport = errors.New("connection refused")

// fakeSource is an in-memory meal.Source that records every call.
type fakeSource struct {
	mu    sync.Mutex
	calls []string

	byName       map[string][]meal.Meal
	byArea       map[string][]meal.Summary
	byCategory   map[string][]meal.Summary
	byIngredient map[string][]meal.Summary
	meals        map[string]meal.Meal

	// failing maps a call key (e.g. "area:Indian", "lookup:52772") to an error.
	failing map[string]error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		byName:       map[string][]meal.Meal{},
		byArea:       map[string][]meal.Summary{},
		byCategory:   map[string][]meal.Summary{},
		byIngredient: map[string][]meal.Summary{},
		meals:        map[string]meal.Meal{},
		failing:      map[string]error{},
	}
}

// addMeal stores a full record and returns its summary.
func (f *fakeSource) addMeal(id, title string) meal.Summary {
	f.meals[id] = meal.Meal{ID: id, Title: title, Thumbnail: "https://img/" + id}
	return meal.Summary{ID: id, Title: title}
}

func (f *fakeSource) record(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)
	return f.failing[key]
}

// callsWithPrefix returns the recorded calls starting with prefix, sorted.
func (f *fakeSource) callsWithPrefix(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

func (f *fakeSource) allCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeSource) SearchByName(ctx context.Context, text string) ([]meal.Meal, error) {
	if err := f.record("name:" + text); err != nil {
		return nil, err
	}
	return f.byName[text], ctx.Err()
}

func (f *fakeSource) FilterByArea(ctx context.Context, area string) ([]meal.Summary, error) {
	if err := f.record("area:" + area); err != nil {
		return nil, err
	}
	return f.byArea[area], ctx.Err()
}

func (f *fakeSource) FilterByCategory(ctx context.Context, category string) ([]meal.Summary, error) {
	if err := f.record("category:" + category); err != nil {
		return nil, err
	}
	return f.byCategory[category], ctx.Err()
}

func (f *fakeSource) FilterByIngredient(ctx context.Context, ingredient string) ([]meal.Summary, error) {
	if err := f.record("ingredient:" + ingredient); err != nil {
		return nil, err
	}
	return f.byIngredient[ingredient], ctx.Err()
}

func (f *fakeSource) LookupByID(ctx context.Context, id string) (*meal.Meal, error) {
	if err := f.record("lookup:" + id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, ok := f.meals[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// summaries builds n summaries with ids prefix1..prefixN and stores full records.
func (f *fakeSource) summaries(prefix string, n int) []meal.Summary {
	out := make([]meal.Summary, n)
	for i := range n {
		id := fmt.Sprintf("%s%d", prefix, i+1)
		out[i] = f.addMeal(id, "Meal "+id)
	}
	return out
}

func ids(meals []meal.Meal) []string {
	out := make([]string, len(meals))
	for i, m := range meals {
		out[i] = m.ID
	}
	return out
}
