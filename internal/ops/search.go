package ops

import (
	"context"
	"time"

	"github.com/hpungsan/mealfind/internal/favorites"
	"github.com/hpungsan/mealfind/internal/logger"
	"github.com/hpungsan/mealfind/internal/resolve"
)

// Search statuses.
const (
	StatusFound     = "found"
	StatusNoResults = "no_results"
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query string
}

// SearchOutput is a completed search.
type SearchOutput struct {
	SearchID string            `json:"search_id"`
	Query    string            `json:"query"`
	Status   string            `json:"status"`
	Message  string            `json:"message,omitempty"`
	Strategy resolve.Strategy  `json:"strategy,omitempty"`
	Area     string            `json:"area,omitempty"`
	Category string            `json:"category,omitempty"`
	Attempts []resolve.Attempt `json:"attempts"`
	Count    int               `json:"count"`
	Items    []Card            `json:"items"`
}

// Search resolves input.Query and marks each result that is already a
// favorite. favs may be nil.
//
// Errors: EMPTY_INPUT, SEARCH_FAILED.
func Search(ctx context.Context, r Resolver, favs *favorites.List, log logger.Logger, input SearchInput) (*SearchOutput, error) {
	if log == nil {
		log = logger.NewNop()
	}
	searchID := newSearchID()
	log = log.With(logger.String("search_id", searchID))
	start := time.Now()

	res, err := r.Resolve(ctx, input.Query)
	if err != nil {
		log.Warn("search failed", logger.String("query", input.Query), logger.Error(err))
		return nil, err
	}

	out := &SearchOutput{
		SearchID: searchID,
		Query:    res.Query,
		Strategy: res.Strategy,
		Area:     res.Classification.Area,
		Category: res.Classification.Category,
		Attempts: res.Attempts,
		Count:    len(res.Meals),
		Items:    make([]Card, 0, len(res.Meals)),
	}
	for _, m := range res.Meals {
		out.Items = append(out.Items, NewCard(m, favs != nil && favs.Contains(m.ID)))
	}

	if len(out.Items) == 0 {
		out.Status = StatusNoResults
		out.Message = MsgNoResults
	} else {
		out.Status = StatusFound
	}

	log.Info("search completed",
		logger.String("query", out.Query),
		logger.String("status", out.Status),
		logger.String("strategy", string(out.Strategy)),
		logger.Int("results", out.Count),
		logger.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}
