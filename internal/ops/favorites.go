package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/mealfind/internal/errors"
	"github.com/hpungsan/mealfind/internal/favorites"
	"github.com/hpungsan/mealfind/internal/meal"
)

// ToggleFavoriteInput contains parameters for the ToggleFavorite operation.
// When Favorite is nil the recipe is looked up by ID, unless it is already
// a favorite (removal needs no lookup).
type ToggleFavoriteInput struct {
	ID       string
	Favorite *meal.Favorite
}

// ToggleFavoriteOutput reports the new state.
type ToggleFavoriteOutput struct {
	ID         string `json:"id"`
	IsFavorite bool   `json:"is_favorite"`
	Card       Card   `json:"card"`
	// Warning is set when the change applied in memory but was not persisted.
	Warning string `json:"warning,omitempty"`
}

// ToggleFavorite adds or removes a recipe from favorites.
//
// Errors: INVALID_REQUEST (no id), NOT_FOUND (lookup answered none),
// SEARCH_FAILED (lookup failed). A storage failure is not an error: it is
// reported in Warning and the toggle stands.
func ToggleFavorite(ctx context.Context, favs *favorites.List, src meal.Source, input ToggleFavoriteInput) (*ToggleFavoriteOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" && input.Favorite != nil {
		id = input.Favorite.ID
	}
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	fav, err := resolveFavorite(ctx, favs, src, id, input.Favorite)
	if err != nil {
		return nil, err
	}

	isFav, err := favs.Toggle(ctx, fav)
	out := &ToggleFavoriteOutput{
		ID:         id,
		IsFavorite: isFav,
		Card:       NewCard(fav.Meal(), isFav),
	}
	if err != nil {
		if !errors.Is(err, errors.ErrStorageFailed) {
			return nil, err
		}
		out.Warning = errors.As(err).Message
	}
	return out, nil
}

// resolveFavorite finds the projection to toggle: the caller's, the stored
// one, or a fresh lookup.
func resolveFavorite(ctx context.Context, favs *favorites.List, src meal.Source, id string, given *meal.Favorite) (meal.Favorite, error) {
	if given != nil {
		f := *given
		f.ID = id
		return f, nil
	}
	if f, ok := favs.Get(id); ok {
		return f, nil
	}
	if src == nil {
		return meal.Favorite{}, errors.NewNotFound(id)
	}
	m, err := src.LookupByID(ctx, id)
	if err != nil {
		return meal.Favorite{}, errors.NewSearchFailed(err)
	}
	if m == nil {
		return meal.Favorite{}, errors.NewNotFound(id)
	}
	return m.ToFavorite(), nil
}

// ListFavoritesOutput is the favorites panel.
type ListFavoritesOutput struct {
	Count   int    `json:"count"`
	Items   []Card `json:"items"`
	Message string `json:"message,omitempty"`
}

// ListFavorites returns the saved recipes in the order they were added.
func ListFavorites(favs *favorites.List) *ListFavoritesOutput {
	items := favs.Items()
	out := &ListFavoritesOutput{
		Count: len(items),
		Items: make([]Card, 0, len(items)),
	}
	for _, f := range items {
		out.Items = append(out.Items, NewCard(f.Meal(), true))
	}
	if out.Count == 0 {
		out.Message = MsgNoFavorites
	}
	return out
}
