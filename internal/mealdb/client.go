// Package mealdb is an HTTP client for TheMealDB JSON API.
package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hpungsan/mealfind/internal/logger"
	"github.com/hpungsan/mealfind/internal/meal"
	"github.com/hpungsan/mealfind/internal/metrics"
)

// Compile-time interface check.
var _ meal.Source = (*Client)(nil)

// maxIngredients is the number of strIngredientN/strMeasureN pairs per meal.
const maxIngredients = 20

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 4 << 20

// Endpoint names, also used as metric labels.
const (
	endpointSearch = "search"
	endpointFilter = "filter"
	endpointLookup = "lookup"
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mealdb %s: unexpected status %d", e.Endpoint, e.StatusCode)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRateLimit throttles outbound requests to rps with a burst of one
// second's worth of requests. rps <= 0 disables throttling.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger attaches a logger.
func WithLogger(log logger.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// Client talks to TheMealDB. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	log     logger.Logger
}

// NewClient creates a client rooted at baseURL
// (e.g. "https://www.themealdb.com/api/json/v1/1").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     logger.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SearchByName searches full recipes by (partial) name.
func (c *Client) SearchByName(ctx context.Context, text string) ([]meal.Meal, error) {
	raw, err := c.get(ctx, endpointSearch, "/search.php", url.Values{"s": {text}})
	if err != nil {
		return nil, err
	}
	return decodeMeals(raw)
}

// FilterByArea lists summaries for a cuisine area.
func (c *Client) FilterByArea(ctx context.Context, area string) ([]meal.Summary, error) {
	return c.filter(ctx, "a", area)
}

// FilterByCategory lists summaries for a food category.
func (c *Client) FilterByCategory(ctx context.Context, category string) ([]meal.Summary, error) {
	return c.filter(ctx, "c", category)
}

// FilterByIngredient lists summaries whose main ingredient matches.
func (c *Client) FilterByIngredient(ctx context.Context, ingredient string) ([]meal.Summary, error) {
	return c.filter(ctx, "i", ingredient)
}

// LookupByID fetches one full recipe. Returns nil, nil when the id is unknown.
func (c *Client) LookupByID(ctx context.Context, id string) (*meal.Meal, error) {
	raw, err := c.get(ctx, endpointLookup, "/lookup.php", url.Values{"i": {id}})
	if err != nil {
		return nil, err
	}
	meals, err := decodeMeals(raw)
	if err != nil || len(meals) == 0 {
		return nil, err
	}
	return &meals[0], nil
}

func (c *Client) filter(ctx context.Context, key, value string) ([]meal.Summary, error) {
	raw, err := c.get(ctx, endpointFilter, "/filter.php", url.Values{key: {value}})
	if err != nil {
		return nil, err
	}
	return decodeSummaries(raw)
}

// envelope is the top-level response shape: {"meals": [...] | null}.
// Some endpoints answer "no data found" as a string instead of null.
type envelope struct {
	Meals json.RawMessage `json:"meals"`
}

// get performs a GET and returns the raw "meals" payload. A nil payload
// means the API explicitly returned no meals.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values) (json.RawMessage, error) {
	start := time.Now()
	raw, err := c.do(ctx, endpoint, path, query)
	metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.APIRequests.WithLabelValues(endpoint, metrics.OutcomeFailed).Inc()
		c.log.Debug("mealdb request failed",
			logger.String("endpoint", endpoint),
			logger.String("query", query.Encode()),
			logger.Error(err),
		)
	case raw == nil:
		metrics.APIRequests.WithLabelValues(endpoint, metrics.OutcomeEmpty).Inc()
	default:
		metrics.APIRequests.WithLabelValues(endpoint, metrics.OutcomeFound).Inc()
	}
	return raw, err
}

func (c *Client) do(ctx context.Context, endpoint, path string, query url.Values) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("mealdb %s: rate limit wait: %w", endpoint, err)
		}
	}

	reqURL := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("mealdb %s: build request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mealdb %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("mealdb %s: read body: %w", endpoint, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("mealdb %s: decode response: %w", endpoint, err)
	}

	trimmed := strings.TrimSpace(string(env.Meals))
	if trimmed == "" || trimmed == "null" || strings.HasPrefix(trimmed, `"`) {
		return nil, nil
	}
	return env.Meals, nil
}

// wireSummary is a filter.php entry.
type wireSummary struct {
	ID    string `json:"idMeal"`
	Title string `json:"strMeal"`
	Thumb string `json:"strMealThumb"`
}

func decodeSummaries(raw json.RawMessage) ([]meal.Summary, error) {
	if raw == nil {
		return nil, nil
	}
	var wire []wireSummary
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("mealdb filter: decode meals: %w", err)
	}
	if len(wire) == 0 {
		return nil, nil
	}
	out := make([]meal.Summary, 0, len(wire))
	for _, w := range wire {
		if w.ID == "" {
			continue
		}
		out = append(out, meal.Summary{ID: w.ID, Title: w.Title, Thumbnail: w.Thumb})
	}
	return out, nil
}

// decodeMeals decodes full records. Each record is a flat object whose values
// are strings or null, so it is read as a map to pick up the numbered
// ingredient/measure columns.
func decodeMeals(raw json.RawMessage) ([]meal.Meal, error) {
	if raw == nil {
		return nil, nil
	}
	var wire []map[string]any
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("mealdb: decode meals: %w", err)
	}
	if len(wire) == 0 {
		return nil, nil
	}
	out := make([]meal.Meal, 0, len(wire))
	for _, fields := range wire {
		m := toMeal(fields)
		if m.ID == "" {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func toMeal(fields map[string]any) meal.Meal {
	str := func(key string) string {
		s, _ := fields[key].(string)
		return strings.TrimSpace(s)
	}

	m := meal.Meal{
		ID:           str("idMeal"),
		Title:        str("strMeal"),
		Thumbnail:    str("strMealThumb"),
		Area:         str("strArea"),
		Category:     str("strCategory"),
		Source:       str("strSource"),
		YouTube:      str("strYoutube"),
		Instructions: str("strInstructions"),
	}

	if tags := str("strTags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				m.Tags = append(m.Tags, t)
			}
		}
	}

	for i := 1; i <= maxIngredients; i++ {
		n := strconv.Itoa(i)
		name := str("strIngredient" + n)
		if name == "" {
			continue
		}
		m.Ingredients = append(m.Ingredients, meal.Ingredient{
			Name:    name,
			Measure: str("strMeasure" + n),
		})
	}

	return m
}
