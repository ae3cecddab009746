package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"slices"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/mealfind/internal/config"
	"github.com/hpungsan/mealfind/internal/errors"
	"github.com/hpungsan/mealfind/internal/favorites"
	"github.com/hpungsan/mealfind/internal/meal"
	"github.com/hpungsan/mealfind/internal/mealdb"
	"github.com/hpungsan/mealfind/internal/mealdb/mealdbtest"
	"github.com/hpungsan/mealfind/internal/resolve"
)

var (
	teriyaki = meal.Meal{
		ID: "52772", Title: "Teriyaki Chicken Casserole", Thumbnail: "https://img/52772.jpg",
		Area: "Japanese", Category: "Chicken", YouTube: "https://youtube.com/watch?v=4aZr5hZXP_s",
		Ingredients: []meal.Ingredient{{Name: "soy sauce", Measure: "3/4 cup"}},
	}
	sushi = meal.Meal{
		ID: "53065", Title: "Sushi", Thumbnail: "https://img/53065.jpg",
		Area: "Japanese", Category: "Seafood",
	}
)

// testSetup wires handlers against a fake API and an in-memory favorites store.
func testSetup(t *testing.T) (*Handlers, *mealdbtest.Server) {
	t.Helper()
	api := mealdbtest.NewServer(t)
	api.AddMeal(teriyaki, "chicken", "soy sauce")
	api.AddMeal(sushi, "rice")

	client := mealdb.NewClient(api.URL)
	favs, err := favorites.Load(context.Background(), &favorites.MemoryStore{}, nil)
	if err != nil {
		t.Fatalf("favorites.Load: %v", err)
	}
	return NewHandlers(resolve.New(client), client, favs, nil), api
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want mcp.TextContent", result.Content[0])
	}
	return text.Text
}

func decodeResult[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	var out T
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	return out
}

type errorPayload struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Status  int            `json:"status"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func TestHandleSearch(t *testing.T) {
	h, api := testSetup(t)
	api.Fail("/search.php", "s", "broken", http.StatusServiceUnavailable)

	tests := []struct {
		name      string
		args      map[string]any
		wantError string
		wantIDs   []string
		wantStat  string
	}{
		{"area and category", map[string]any{"query": "japanese seafood"}, "", []string{"53065"}, "found"},
		{"name", map[string]any{"query": "teriyaki"}, "", []string{"52772"}, "found"},
		{"ingredient", map[string]any{"query": "soy sauce, mirin"}, "", []string{"52772"}, "found"},
		{"no results", map[string]any{"query": "xyzzy"}, "", []string{}, "no_results"},
		{"blank", map[string]any{"query": "  "}, "EMPTY_INPUT", nil, ""},
		{"missing", map[string]any{}, "EMPTY_INPUT", nil, ""},
		{"wrong type", map[string]any{"query": 42}, "INVALID_REQUEST", nil, ""},
		{"upstream failure", map[string]any{"query": "broken"}, "SEARCH_FAILED", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleSearch(context.Background(), makeRequest(tt.args))
			if err != nil {
				t.Fatalf("unexpected Go error: %v", err)
			}

			if tt.wantError != "" {
				if !result.IsError {
					t.Fatalf("expected error result, got %s", resultText(t, result))
				}
				payload := decodeResult[errorPayload](t, result)
				if payload.Error.Code != tt.wantError {
					t.Errorf("code = %s, want %s", payload.Error.Code, tt.wantError)
				}
				return
			}

			if result.IsError {
				t.Fatalf("unexpected error result: %s", resultText(t, result))
			}
			out := decodeResult[struct {
				SearchID string `json:"search_id"`
				Status   string `json:"status"`
				Items    []struct {
					ID string `json:"id"`
				} `json:"items"`
			}](t, result)
			if out.Status != tt.wantStat {
				t.Errorf("status = %s, want %s", out.Status, tt.wantStat)
			}
			if out.SearchID == "" {
				t.Error("expected search_id")
			}
			got := make([]string, 0, len(out.Items))
			for _, it := range out.Items {
				got = append(got, it.ID)
			}
			if !slices.Equal(got, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", got, tt.wantIDs)
			}
		})
	}
}

func TestHandleLookup(t *testing.T) {
	h, _ := testSetup(t)

	result, err := h.HandleLookup(context.Background(), makeRequest(map[string]any{"id": "52772"}))
	if err != nil || result.IsError {
		t.Fatalf("HandleLookup: err=%v result=%v", err, result)
	}
	out := decodeResult[struct {
		Title       string            `json:"title"`
		Link        string            `json:"link"`
		Ingredients []meal.Ingredient `json:"ingredients"`
	}](t, result)
	if out.Title != teriyaki.Title {
		t.Errorf("title = %q", out.Title)
	}
	if out.Link != teriyaki.YouTube {
		t.Errorf("link = %q, want youtube fallback", out.Link)
	}
	if len(out.Ingredients) != 1 || out.Ingredients[0].Measure != "3/4 cup" {
		t.Errorf("ingredients = %+v", out.Ingredients)
	}

	result, _ = h.HandleLookup(context.Background(), makeRequest(map[string]any{"id": "1"}))
	payload := decodeResult[errorPayload](t, result)
	if !result.IsError || payload.Error.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %s", resultText(t, result))
	}
	if payload.Error.Details["id"] != "1" {
		t.Errorf("details = %v", payload.Error.Details)
	}
}

func TestHandleToggleFavorite_AndList(t *testing.T) {
	h, _ := testSetup(t)
	ctx := context.Background()

	result, err := h.HandleToggleFavorite(ctx, makeRequest(map[string]any{"id": "53065"}))
	if err != nil || result.IsError {
		t.Fatalf("toggle: err=%v result=%v", err, result)
	}
	tog := decodeResult[struct {
		IsFavorite bool `json:"is_favorite"`
	}](t, result)
	if !tog.IsFavorite {
		t.Error("expected is_favorite after first toggle")
	}

	result, _ = h.HandleListFavorites(ctx, makeRequest(nil))
	list := decodeResult[struct {
		Count int `json:"count"`
		Items []struct {
			ID         string `json:"id"`
			Area       string `json:"area"`
			IsFavorite bool   `json:"is_favorite"`
		} `json:"items"`
	}](t, result)
	if list.Count != 1 || list.Items[0].ID != "53065" || list.Items[0].Area != "Japanese" || !list.Items[0].IsFavorite {
		t.Errorf("list = %+v", list)
	}

	// search marks it
	result, _ = h.HandleSearch(ctx, makeRequest(map[string]any{"query": "sushi"}))
	if !strings.Contains(resultText(t, result), `"is_favorite":true`) {
		t.Errorf("expected favorite flag in search output: %s", resultText(t, result))
	}

	result, _ = h.HandleToggleFavorite(ctx, makeRequest(map[string]any{"id": "53065"}))
	tog = decodeResult[struct {
		IsFavorite bool `json:"is_favorite"`
	}](t, result)
	if tog.IsFavorite {
		t.Error("expected removal on second toggle")
	}

	result, _ = h.HandleListFavorites(ctx, makeRequest(nil))
	if !strings.Contains(resultText(t, result), "No favorites saved yet.") {
		t.Errorf("expected empty message: %s", resultText(t, result))
	}
}

func TestHandleToggleFavorite_Errors(t *testing.T) {
	h, _ := testSetup(t)

	result, _ := h.HandleToggleFavorite(context.Background(), makeRequest(map[string]any{}))
	if payload := decodeResult[errorPayload](t, result); payload.Error.Code != "INVALID_REQUEST" {
		t.Errorf("code = %s, want INVALID_REQUEST", payload.Error.Code)
	}

	result, _ = h.HandleToggleFavorite(context.Background(), makeRequest(map[string]any{"id": "404"}))
	if payload := decodeResult[errorPayload](t, result); payload.Error.Code != "NOT_FOUND" {
		t.Errorf("code = %s, want NOT_FOUND", payload.Error.Code)
	}
}

func TestServerRegistration(t *testing.T) {
	h, _ := testSetup(t)
	cfg := config.DefaultConfig()

	tools := NewServer(h, cfg, "test").ListTools()
	want := []string{"favorite_list", "favorite_toggle", "meal_lookup", "meal_search"}
	if len(tools) != len(want) {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(want))
	}
	for _, name := range want {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing registered tool: %s", name)
		}
	}
}

func TestServerRegistration_WithDisabledTools(t *testing.T) {
	h, _ := testSetup(t)
	cfg := config.DefaultConfig()
	cfg.DisabledTools = []string{"favorite_toggle", "favorite_toggle"}

	tools := NewServer(h, cfg, "test").ListTools()
	if len(tools) != 3 {
		t.Errorf("registered tool count = %d, want 3", len(tools))
	}
	if _, ok := tools["favorite_toggle"]; ok {
		t.Error("disabled tool should not be registered")
	}

	cfg.DisabledTools = AllToolNames()
	if tools := NewServer(h, cfg, "test").ListTools(); len(tools) != 0 {
		t.Errorf("registered tool count = %d, want 0", len(tools))
	}
}

func TestValidateDisabledTools(t *testing.T) {
	got := ValidateDisabledTools([]string{"meal_search", "recipe_delete", "nope"})
	if !slices.Equal(got, []string{"recipe_delete", "nope"}) {
		t.Errorf("unknown = %v", got)
	}
	if got := ValidateDisabledTools(nil); len(got) != 0 {
		t.Errorf("unknown = %v, want empty", got)
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if !slices.IsSorted(names) || len(names) != len(toolRegistry) {
		t.Errorf("AllToolNames() = %v", names)
	}
	for _, name := range names {
		if toolRegistry[name].def.Name != name {
			t.Errorf("tool %q registered under a different definition name %q", name, toolRegistry[name].def.Name)
		}
	}
}

func TestErrorResult_InternalDoesNotExposeDetails(t *testing.T) {
	result := errorResult(errors.NewInternal(stderrors.New("open /home/user/.mealfind/mealfind.db: permission denied")))
	text := resultText(t, result)
	if strings.Contains(text, "/home/user") {
		t.Errorf("internal error leaked details: %s", text)
	}
	if !result.IsError {
		t.Error("expected IsError")
	}
}

func TestErrorResult_PlainError(t *testing.T) {
	result := errorResult(stderrors.New("boom"))
	payload := decodeResult[errorPayload](t, result)
	if payload.Error.Code != "INTERNAL" || payload.Error.Status != 500 {
		t.Errorf("payload = %+v", payload)
	}
}

func TestErrorResult_SearchFailedHidesCause(t *testing.T) {
	result := errorResult(errors.NewSearchFailed(stderrors.New("dial tcp 10.0.0.1:443: refused")))
	text := resultText(t, result)
	if strings.Contains(text, "10.0.0.1") {
		t.Errorf("cause leaked: %s", text)
	}
	if payload := decodeResult[errorPayload](t, result); payload.Error.Status != 502 {
		t.Errorf("status = %d, want 502", payload.Error.Status)
	}
}
