// Package resolve turns a raw search query into a list of full recipes by
// trying search strategies against a meal.Source in strict priority order.
package resolve

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hpungsan/mealfind/internal/classify"
	"github.com/hpungsan/mealfind/internal/errors"
	"github.com/hpungsan/mealfind/internal/logger"
	"github.com/hpungsan/mealfind/internal/meal"
	"github.com/hpungsan/mealfind/internal/metrics"
)

// DefaultEnrichLimit caps summaries enriched per strategy.
const DefaultEnrichLimit = 24

// Strategy names a search strategy.
type Strategy string

const (
	StrategyAreaCategory Strategy = "area_category"
	StrategyName         Strategy = "name"
	StrategyIngredient   Strategy = "ingredient"
)

// Status tags the outcome of one strategy attempt.
type Status string

const (
	// StatusFound means the strategy produced records; resolution stops.
	StatusFound Status = "found"
	// StatusEmpty means the strategy completed with nothing; try the next one.
	StatusEmpty Status = "empty"
	// StatusFailed means a transport/parse failure; resolution aborts.
	StatusFailed Status = "failed"
)

// Outcome is the tagged result of a single strategy attempt.
type Outcome struct {
	Strategy Strategy
	Status   Status
	Meals    []meal.Meal
	Err      error
}

// Attempt records which strategies ran and how they ended.
type Attempt struct {
	Strategy Strategy `json:"strategy"`
	Status   Status   `json:"status"`
}

// Result is a completed resolution. Meals is empty when nothing was found.
type Result struct {
	Query          string                  `json:"query"`
	Classification classify.Classification `json:"classification"`
	Strategy       Strategy                `json:"strategy,omitempty"`
	Attempts       []Attempt               `json:"attempts"`
	Meals          []meal.Meal             `json:"meals"`
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger attaches a logger.
func WithLogger(log logger.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// WithEnrichLimit sets how many summaries are enriched per strategy.
func WithEnrichLimit(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.enrichLimit = n
		}
	}
}

// WithMaxConcurrentLookups bounds in-flight lookups during enrichment.
func WithMaxConcurrentLookups(n int) Option {
	return func(r *Resolver) { r.maxConcurrent = n }
}

// WithStrictEnrichment makes any failed lookup abort the search.
func WithStrictEnrichment(strict bool) Option {
	return func(r *Resolver) { r.strict = strict }
}

// Resolver runs the strategy cascade. Safe for concurrent use; concurrent
// searches are independent and are not cancelled by one another.
type Resolver struct {
	src           meal.Source
	log           logger.Logger
	enrichLimit   int
	maxConcurrent int
	strict        bool
}

// New creates a Resolver over src.
func New(src meal.Source, opts ...Option) *Resolver {
	r := &Resolver{
		src:           src,
		log:           logger.NewNop(),
		enrichLimit:   DefaultEnrichLimit,
		maxConcurrent: DefaultEnrichLimit,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// step is one planned strategy attempt.
type step struct {
	strategy Strategy
	run      func(ctx context.Context, query string, cls classify.Classification) Outcome
}

// plan lists the strategies to try for a classification, in priority order.
// Area+category is only planned when both were recognized.
func (r *Resolver) plan(cls classify.Classification) []step {
	steps := make([]step, 0, 3)
	if cls.HasAreaAndCategory() {
		steps = append(steps, step{StrategyAreaCategory, r.byAreaAndCategory})
	}
	return append(steps,
		step{StrategyName, r.byName},
		step{StrategyIngredient, r.byIngredient},
	)
}

// Resolve runs the strategies for raw until one finds records.
//
// Errors: EMPTY_INPUT for a blank query (no request is made), SEARCH_FAILED
// when any strategy fails with a transport or decoding error. An empty
// Result.Meals with a nil error is the "nothing found" state.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*Result, error) {
	query := strings.TrimSpace(raw)
	if query == "" {
		return nil, errors.NewEmptyInput()
	}

	start := time.Now()
	defer func() {
		metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	}()

	cls := classify.Classify(query)
	log := r.log.With(logger.String("query", query))
	log.Debug("resolving search",
		logger.String("area", cls.Area),
		logger.String("category", cls.Category),
	)

	result := &Result{
		Query:          query,
		Classification: cls,
		Meals:          []meal.Meal{},
	}

	for _, s := range r.plan(cls) {
		out := s.run(ctx, query, cls)
		out.Strategy = s.strategy
		result.Attempts = append(result.Attempts, Attempt{Strategy: s.strategy, Status: out.Status})
		metrics.StrategyOutcomes.WithLabelValues(string(s.strategy), string(out.Status)).Inc()

		switch out.Status {
		case StatusFound:
			result.Strategy = s.strategy
			result.Meals = meal.Dedupe(out.Meals)
			log.Debug("search resolved",
				logger.String("strategy", string(s.strategy)),
				logger.Int("results", len(result.Meals)),
			)
			return result, nil
		case StatusFailed:
			log.Error("search failed",
				logger.String("strategy", string(s.strategy)),
				logger.Error(out.Err),
			)
			return nil, errors.NewSearchFailed(out.Err)
		}
	}

	log.Debug("search found nothing")
	return result, nil
}

// byAreaAndCategory intersects the area and category filters and enriches
// the intersection. A failing filter request only empties this strategy;
// cancellation and strict enrichment failures abort.
func (r *Resolver) byAreaAndCategory(ctx context.Context, _ string, cls classify.Classification) Outcome {
	var byArea, byCategory []meal.Summary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byArea, err = r.src.FilterByArea(gctx, cls.Area)
		return err
	})
	g.Go(func() error {
		var err error
		byCategory, err = r.src.FilterByCategory(gctx, cls.Category)
		return err
	})
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return Outcome{Status: StatusFailed, Err: err}
		}
		r.log.Warn("area/category filter failed, falling through",
			logger.String("area", cls.Area),
			logger.String("category", cls.Category),
			logger.Error(err),
		)
		return Outcome{Status: StatusEmpty}
	}

	return r.enrichOutcome(ctx, intersect(byArea, byCategory))
}

// byName runs a single name search with the full query.
func (r *Resolver) byName(ctx context.Context, query string, _ classify.Classification) Outcome {
	meals, err := r.src.SearchByName(ctx, query)
	if err != nil {
		return Outcome{Status: StatusFailed, Err: err}
	}
	if len(meals) == 0 {
		return Outcome{Status: StatusEmpty}
	}
	return Outcome{Status: StatusFound, Meals: meals}
}

// byIngredient filters by the first comma-separated term and enriches.
func (r *Resolver) byIngredient(ctx context.Context, query string, _ classify.Classification) Outcome {
	term := classify.IngredientTerm(query)
	if term == "" {
		return Outcome{Status: StatusEmpty}
	}
	summaries, err := r.src.FilterByIngredient(ctx, term)
	if err != nil {
		return Outcome{Status: StatusFailed, Err: err}
	}
	return r.enrichOutcome(ctx, summaries)
}

// enrichOutcome caps summaries and enriches them into an Outcome.
func (r *Resolver) enrichOutcome(ctx context.Context, summaries []meal.Summary) Outcome {
	capped := capSummaries(summaries, r.enrichLimit)
	if len(capped) == 0 {
		return Outcome{Status: StatusEmpty}
	}

	meals, err := Enrich(ctx, r.src, capped, EnrichOptions{
		MaxConcurrent: r.maxConcurrent,
		Strict:        r.strict,
		Log:           r.log,
	})
	if err != nil {
		return Outcome{Status: StatusFailed, Err: err}
	}
	if len(meals) == 0 {
		return Outcome{Status: StatusEmpty}
	}
	return Outcome{Status: StatusFound, Meals: meals}
}
