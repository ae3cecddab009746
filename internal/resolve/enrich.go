package resolve

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hpungsan/mealfind/internal/logger"
	"github.com/hpungsan/mealfind/internal/meal"
	"github.com/hpungsan/mealfind/internal/metrics"
)

// EnrichOptions controls the lookup fan-out.
type EnrichOptions struct {
	// MaxConcurrent bounds in-flight lookups. <= 0 means no bound.
	MaxConcurrent int
	// Strict turns any failed lookup into a batch failure. Otherwise failed
	// lookups are dropped like "none" answers.
	Strict bool
	Log    logger.Logger
}

// Enrich looks up every summary by id concurrently and returns the full
// records in input order. Summaries whose lookup answers "none" are dropped.
// Cancellation of ctx always fails the batch.
func Enrich(ctx context.Context, src meal.Source, summaries []meal.Summary, opts EnrichOptions) ([]meal.Meal, error) {
	if len(summaries) == 0 {
		return nil, nil
	}
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}

	slots := make([]*meal.Meal, len(summaries))

	g, gctx := errgroup.WithContext(ctx)
	if opts.MaxConcurrent > 0 {
		g.SetLimit(opts.MaxConcurrent)
	}

	for i, s := range summaries {
		g.Go(func() error {
			m, err := src.LookupByID(gctx, s.ID)
			if err != nil {
				if opts.Strict || ctx.Err() != nil {
					return fmt.Errorf("lookup %s: %w", s.ID, err)
				}
				metrics.EnrichDropped.WithLabelValues("failed").Inc()
				log.Warn("lookup failed, dropping result",
					logger.String("id", s.ID),
					logger.Error(err),
				)
				return nil
			}
			if m == nil {
				metrics.EnrichDropped.WithLabelValues("not_found").Inc()
				log.Debug("lookup returned none, dropping result", logger.String("id", s.ID))
				return nil
			}
			slots[i] = m
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]meal.Meal, 0, len(slots))
	for _, m := range slots {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out, nil
}

// intersect returns the summaries of a whose id also appears in b, in a's order.
func intersect(a, b []meal.Summary) []meal.Summary {
	inB := make(map[string]bool, len(b))
	for _, s := range b {
		inB[s.ID] = true
	}
	var out []meal.Summary
	for _, s := range a {
		if inB[s.ID] {
			out = append(out, s)
		}
	}
	return dedupeSummaries(out)
}

// capSummaries dedupes by id and truncates to limit, keeping source order.
func capSummaries(in []meal.Summary, limit int) []meal.Summary {
	out := dedupeSummaries(in)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func dedupeSummaries(in []meal.Summary) []meal.Summary {
	seen := make(map[string]bool, len(in))
	out := make([]meal.Summary, 0, len(in))
	for _, s := range in {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out
}
