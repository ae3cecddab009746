package web

import (
	"net/http"

	"github.com/hpungsan/mealfind/internal/favorites"
	"github.com/hpungsan/mealfind/internal/logger"
	"github.com/hpungsan/mealfind/internal/meal"
	"github.com/hpungsan/mealfind/internal/ops"
)

// favoritesChanged is the htmx event fired after a toggle so the favorites
// panel reloads itself.
const favoritesChanged = "favorites-changed"

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	resolver ops.Resolver
	src      meal.Source
	favs     *favorites.List
	log      logger.Logger
	renderer *Renderer
}

// HandleSearch handles GET / and GET /search?q=. With htmx targeting
// #results only the results fragment is returned.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	data := SearchPageData{
		PageData:  h.renderer.page("Search", "search"),
		Query:     query,
		HasQuery:  query != "",
		Favorites: ops.ListFavorites(h.favs),
	}

	if data.HasQuery {
		result, err := ops.Search(r.Context(), h.resolver, h.favs, h.log, ops.SearchInput{Query: query})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Result = result

		if wantsJSON(r) {
			renderJSON(w, http.StatusOK, result)
			return
		}
	}

	if r.Header.Get("HX-Target") == "results" {
		h.renderer.renderBlock(w, http.StatusOK, "search", "search-results", data)
		return
	}
	h.renderer.renderPage(w, r, "search", data)
}

// HandleFavorites handles GET /favorites. With htmx targeting #favorites only
// the list fragment is returned.
func (h *Handlers) HandleFavorites(w http.ResponseWriter, r *http.Request) {
	out := ops.ListFavorites(h.favs)

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}

	data := FavoritesPageData{
		PageData:  h.renderer.page("Favorites", "favorites"),
		Favorites: out,
	}
	if r.Header.Get("HX-Target") == "favorites" {
		h.renderer.renderBlock(w, http.StatusOK, "favorites", "favorites-list", out)
		return
	}
	h.renderer.renderPage(w, r, "favorites", data)
}

// HandleToggleFavorite handles POST /favorites/{id}/toggle. htmx gets the
// replacement button plus an event to refresh the favorites panel.
func (h *Handlers) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ToggleFavorite(r.Context(), h.favs, h.src, ops.ToggleFavoriteInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("HX-Trigger", favoritesChanged)
		h.renderer.renderBlock(w, http.StatusOK, "favorites", "fav-toggle", ToggleView{
			Card:    out.Card,
			Warning: out.Warning,
		})
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}

	http.Redirect(w, r, "/favorites", http.StatusSeeOther)
}

// HandleDetail handles GET /meals/{id}.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	out, err := ops.Lookup(r.Context(), h.src, h.favs, ops.LookupInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData:     h.renderer.page(out.Title, "search"),
		Meal:         out,
		Instructions: renderInstructions(out.Instructions),
		Toggle:       ToggleView{Card: ops.NewCard(out.Meal, out.IsFavorite)},
	})
}
