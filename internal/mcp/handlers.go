package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/mealfind/internal/errors"
	"github.com/hpungsan/mealfind/internal/favorites"
	"github.com/hpungsan/mealfind/internal/logger"
	"github.com/hpungsan/mealfind/internal/meal"
	"github.com/hpungsan/mealfind/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	resolver ops.Resolver
	src      meal.Source
	favs     *favorites.List
	log      logger.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(resolver ops.Resolver, src meal.Source, favs *favorites.List, log logger.Logger) *Handlers {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handlers{resolver: resolver, src: src, favs: favs, log: log}
}

// SearchRequest represents the arguments for meal_search.
type SearchRequest struct {
	Query string `json:"query"`
}

// IDRequest represents the arguments for tools addressing one recipe.
type IDRequest struct {
	ID string `json:"id"`
}

// HandleSearch handles the meal_search tool.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	out, err := ops.Search(ctx, h.resolver, h.favs, h.log, ops.SearchInput{Query: input.Query})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleLookup handles the meal_lookup tool.
func (h *Handlers) HandleLookup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	out, err := ops.Lookup(ctx, h.src, h.favs, ops.LookupInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleToggleFavorite handles the favorite_toggle tool.
func (h *Handlers) HandleToggleFavorite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	out, err := ops.ToggleFavorite(ctx, h.favs, h.src, ops.ToggleFavoriteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleListFavorites handles the favorite_list tool.
func (h *Handlers) HandleListFavorites(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.ListFavorites(h.favs))
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var mErr *errors.MealError
	if stderrors.As(err, &mErr) && mErr.Code != errors.ErrInternal {
		errorObj := map[string]any{
			"code":    mErr.Code,
			"message": mErr.Message,
			"status":  mErr.Status,
		}
		if mErr.Details != nil {
			errorObj["details"] = mErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		// internal causes may carry file paths or SQL text
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
