package mcp

import (
	"context"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/mealfind/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"meal_search": {
		def:     searchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSearch },
	},
	"meal_lookup": {
		def:     lookupToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLookup },
	},
	"favorite_toggle": {
		def:     toggleToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleToggleFavorite },
	},
	"favorite_list": {
		def:     listFavoritesToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleListFavorites },
	},
}

var searchToolDef = mcp.NewTool("meal_search",
	mcp.WithDescription("Search TheMealDB for recipes. A query naming both a cuisine area and a category "+
		"(e.g. \"indian beef\") is matched by area and category; otherwise by recipe name, then by the "+
		"first comma-separated ingredient (e.g. \"chicken, garlic\" searches chicken)."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Free-text search query")),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithOpenWorldHintAnnotation(true),
)

var lookupToolDef = mcp.NewTool("meal_lookup",
	mcp.WithDescription("Fetch one recipe by id with ingredients and instructions."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Recipe id (idMeal)")),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithOpenWorldHintAnnotation(true),
)

var toggleToolDef = mcp.NewTool("favorite_toggle",
	mcp.WithDescription("Add a recipe to favorites, or remove it if already saved. Returns the new state."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Recipe id (idMeal)")),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithIdempotentHintAnnotation(false),
)

var listFavoritesToolDef = mcp.NewTool("favorite_list",
	mcp.WithDescription("List saved favorite recipes in the order they were added."),
	mcp.WithReadOnlyHintAnnotation(true),
)

// AllToolNames returns all valid tool names, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ValidateDisabledTools returns the names in the list that are not tools.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates an MCP server with the mealfind tools registered, minus
// those listed in cfg.DisabledTools.
func NewServer(h *Handlers, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"mealfind",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run serves the MCP tools over stdio until stdin closes.
func Run(h *Handlers, cfg *config.Config, version string) error {
	return server.ServeStdio(NewServer(h, cfg, version))
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
