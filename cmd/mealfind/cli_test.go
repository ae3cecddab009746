package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/mealfind/internal/config"
	"github.com/hpungsan/mealfind/internal/logger"
	"github.com/hpungsan/mealfind/internal/meal"
	"github.com/hpungsan/mealfind/internal/mealdb/mealdbtest"
)

var pancakes = meal.Meal{
	ID: "52854", Title: "Pancakes", Thumbnail: "https://img/52854.jpg",
	Area: "American", Category: "Dessert", Source: "https://example.com/pancakes",
	Ingredients: []meal.Ingredient{{Name: "Flour", Measure: "100g"}, {Name: "Eggs", Measure: "2"}},
}

// setupTestApp wires an app against a fake API and a temp database, and
// captures command output.
func setupTestApp(t *testing.T) (*app, *mealdbtest.Server, *bytes.Buffer) {
	t.Helper()
	api := mealdbtest.NewServer(t)
	api.AddMeal(pancakes, "flour", "eggs")

	cfg := config.DefaultConfig()
	cfg.APIBaseURL = api.URL

	a, err := newApp(context.Background(), t.TempDir(), cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })

	return a, api, &buf
}

func exitMessage(t *testing.T, err error) string {
	t.Helper()
	exitErr, ok := err.(cli.ExitCoder)
	if !ok {
		t.Fatalf("expected cli.ExitCoder, got %T: %v", err, err)
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", exitErr.ExitCode())
	}
	return exitErr.Error()
}

func TestCLISearch(t *testing.T) {
	a, _, out := setupTestApp(t)

	if err := newCLIApp(a).Run([]string{"mealfind", "search", "pancakes"}); err != nil {
		t.Fatalf("search: %v", err)
	}

	var result struct {
		Status   string `json:"status"`
		Strategy string `json:"strategy"`
		Items    []struct {
			ID    string `json:"id"`
			Link  string `json:"link"`
			Title string `json:"title"`
		} `json:"items"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out.String())
	}
	if result.Status != "found" || result.Strategy != "name" {
		t.Errorf("status=%s strategy=%s", result.Status, result.Strategy)
	}
	if len(result.Items) != 1 || result.Items[0].Link != pancakes.Source {
		t.Errorf("items = %+v", result.Items)
	}
}

func TestCLISearch_JoinsArgs(t *testing.T) {
	a, api, _ := setupTestApp(t)

	if err := newCLIApp(a).Run([]string{"mealfind", "search", "american", "dessert"}); err != nil {
		t.Fatalf("search: %v", err)
	}
	if api.CallCount("/filter.php?a=American") != 1 || api.CallCount("/filter.php?c=Dessert") != 1 {
		t.Errorf("expected area and category filters, calls = %v", api.Calls())
	}
}

func TestCLISearch_Empty(t *testing.T) {
	a, api, _ := setupTestApp(t)

	err := newCLIApp(a).Run([]string{"mealfind", "search"})
	if msg := exitMessage(t, err); !strings.HasPrefix(msg, "[EMPTY_INPUT]") {
		t.Errorf("message = %q", msg)
	}
	if len(api.Calls()) != 0 {
		t.Errorf("expected no API calls, got %v", api.Calls())
	}
}

func TestCLISearch_UpstreamFailure(t *testing.T) {
	a, api, _ := setupTestApp(t)
	api.Fail("/search.php", "s", "pancakes", 500)

	err := newCLIApp(a).Run([]string{"mealfind", "search", "pancakes"})
	if msg := exitMessage(t, err); msg != "[SEARCH_FAILED] search failed, try again" {
		t.Errorf("message = %q", msg)
	}
}

func TestCLILookup(t *testing.T) {
	a, _, out := setupTestApp(t)

	if err := newCLIApp(a).Run([]string{"mealfind", "lookup", "52854"}); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !strings.Contains(out.String(), `"name": "Flour"`) {
		t.Errorf("expected ingredients in output:\n%s", out.String())
	}

	err := newCLIApp(a).Run([]string{"mealfind", "lookup", "1"})
	if msg := exitMessage(t, err); !strings.HasPrefix(msg, "[NOT_FOUND]") {
		t.Errorf("message = %q", msg)
	}
}

func TestCLIFavoriteToggleAndList(t *testing.T) {
	a, _, out := setupTestApp(t)

	if err := newCLIApp(a).Run([]string{"mealfind", "favorite", "52854"}); err != nil {
		t.Fatalf("favorite: %v", err)
	}
	if !strings.Contains(out.String(), `"is_favorite": true`) {
		t.Errorf("expected is_favorite true:\n%s", out.String())
	}

	out.Reset()
	if err := newCLIApp(a).Run([]string{"mealfind", "favorites"}); err != nil {
		t.Fatalf("favorites: %v", err)
	}
	var list struct {
		Count int `json:"count"`
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	if err := json.Unmarshal(out.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if list.Count != 1 || list.Items[0].ID != pancakes.ID {
		t.Errorf("list = %+v", list)
	}

	// reopening the database restores the list
	reopened, err := newApp(context.Background(), a.baseDir, a.cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if !reopened.favs.Contains(pancakes.ID) {
		t.Error("expected favorite to persist across restarts")
	}
}

func TestCLIServe_InvalidPort(t *testing.T) {
	a, _, _ := setupTestApp(t)

	err := newCLIApp(a).Run([]string{"mealfind", "serve", "--port", "0"})
	if msg := exitMessage(t, err); !strings.HasPrefix(msg, "[INVALID_REQUEST]") {
		t.Errorf("message = %q", msg)
	}
}

func TestCLIVersion(t *testing.T) {
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	defer func() { stdout = old }()

	if err := newCLIApp(nil).Run([]string{"mealfind", "--version"}); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(buf.String(), Version) {
		t.Errorf("expected version in output, got %q", buf.String())
	}
}

func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"mealfind"}, false},
		{[]string{"mealfind", "search", "x"}, true},
		{[]string{"mealfind", "favorites"}, true},
		{[]string{"mealfind", "serve"}, true},
		{[]string{"mealfind", "--help"}, true},
		{[]string{"mealfind", "-v"}, true},
		{[]string{"mealfind", "unknown"}, false},
	}
	for _, tt := range tests {
		if got := isCLIMode(tt.args); got != tt.want {
			t.Errorf("isCLIMode(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestIsHelpOrVersion(t *testing.T) {
	for _, arg := range []string{"--help", "-h", "--version", "-v", "help"} {
		if !isHelpOrVersion([]string{"mealfind", arg}) {
			t.Errorf("isHelpOrVersion(%q) = false", arg)
		}
	}
	if isHelpOrVersion([]string{"mealfind", "search"}) {
		t.Error("search is not help")
	}
	if isHelpOrVersion([]string{"mealfind"}) {
		t.Error("no args is not help")
	}
}
