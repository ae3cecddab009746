package meal

import "context"

// Source is the remote recipe lookup service. A nil slice or nil *Meal with
// a nil error means the service explicitly answered "none"; errors are
// reserved for transport and decoding failures.
type Source interface {
	SearchByName(ctx context.Context, text string) ([]Meal, error)
	FilterByArea(ctx context.Context, area string) ([]Summary, error)
	FilterByCategory(ctx context.Context, category string) ([]Summary, error)
	FilterByIngredient(ctx context.Context, ingredient string) ([]Summary, error)
	LookupByID(ctx context.Context, id string) (*Meal, error)
}
