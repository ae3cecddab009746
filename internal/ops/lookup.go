package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/mealfind/internal/errors"
	"github.com/hpungsan/mealfind/internal/favorites"
	"github.com/hpungsan/mealfind/internal/meal"
)

// LookupInput contains parameters for the Lookup operation.
type LookupInput struct {
	ID string
}

// LookupOutput is the full recipe detail.
type LookupOutput struct {
	meal.Meal
	Link       string `json:"link,omitempty"`
	IsFavorite bool   `json:"is_favorite"`
}

// Lookup fetches one recipe by id for the detail view.
//
// Errors: INVALID_REQUEST, NOT_FOUND, SEARCH_FAILED.
func Lookup(ctx context.Context, src meal.Source, favs *favorites.List, input LookupInput) (*LookupOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	m, err := src.LookupByID(ctx, id)
	if err != nil {
		return nil, errors.NewSearchFailed(err)
	}
	if m == nil {
		return nil, errors.NewNotFound(id)
	}

	return &LookupOutput{
		Meal:       *m,
		Link:       m.Link(),
		IsFavorite: favs != nil && favs.Contains(m.ID),
	}, nil
}
