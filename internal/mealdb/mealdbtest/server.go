// Package mealdbtest provides an in-process fake of TheMealDB for tests.
package mealdbtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/hpungsan/mealfind/internal/meal"
)

// Server is a fake TheMealDB API. Seed it with AddMeal, point a client at URL.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	order       []string
	meals       map[string]meal.Meal
	ingredients map[string][]string // lowercased ingredient -> ids
	fail        map[string]int      // "path?key=value" -> status to answer with
	calls       []string
}

// NewServer starts a fake API and registers its shutdown with t.Cleanup.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		meals:       make(map[string]meal.Meal),
		ingredients: make(map[string][]string),
		fail:        make(map[string]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search.php", s.handleSearch)
	mux.HandleFunc("GET /filter.php", s.handleFilter)
	mux.HandleFunc("GET /lookup.php", s.handleLookup)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// AddMeal seeds a full record. Its area and category become filterable and
// each listed ingredient indexes it for filter-by-ingredient.
func (s *Server) AddMeal(m meal.Meal, ingredients ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meals[m.ID]; !ok {
		s.order = append(s.order, m.ID)
	}
	s.meals[m.ID] = m
	for _, ing := range ingredients {
		key := strings.ToLower(ing)
		s.ingredients[key] = append(s.ingredients[key], m.ID)
	}
}

// RemoveMeal deletes a record so lookups answer "none" while filters that
// were seeded earlier still list it.
func (s *Server) RemoveMeal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meals[id]
	if !ok {
		return
	}
	delete(s.meals, id)
	// keep a summary-only ghost so filter responses still include the id
	s.meals["ghost:"+id] = meal.Meal{ID: id, Title: m.Title, Area: m.Area, Category: m.Category}
	for i, oid := range s.order {
		if oid == id {
			s.order[i] = "ghost:" + id
		}
	}
}

// Fail makes requests to path with the given single query pair answer status.
// Example: Fail("/filter.php", "a", "Indian", 500).
func (s *Server) Fail(path, key, value string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[path+"?"+key+"="+value] = status
}

// Calls returns the requests received so far as "path?key=value".
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// CallCount returns how many received requests start with prefix.
func (s *Server) CallCount(prefix string) int {
	n := 0
	for _, c := range s.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (s *Server) record(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	value := r.URL.Query().Get(key)
	call := r.URL.Path + "?" + key + "=" + value

	s.mu.Lock()
	s.calls = append(s.calls, call)
	status, failing := s.fail[call]
	s.mu.Unlock()

	if failing {
		w.WriteHeader(status)
		return "", false
	}
	return value, true
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q, ok := s.record(w, r, "s")
	if !ok {
		return
	}
	q = strings.ToLower(q)

	s.mu.Lock()
	var out []map[string]any
	for _, id := range s.order {
		m := s.meals[id]
		if strings.HasPrefix(id, "ghost:") {
			continue
		}
		if strings.Contains(strings.ToLower(m.Title), q) {
			out = append(out, toWire(m))
		}
	}
	s.mu.Unlock()

	writeMeals(w, out)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var key string
	for _, k := range []string{"a", "c", "i"} {
		if query.Has(k) {
			key = k
			break
		}
	}
	value, ok := s.record(w, r, key)
	if !ok {
		return
	}

	s.mu.Lock()
	var ids []string
	switch key {
	case "a", "c":
		for _, id := range s.order {
			m := s.meals[id]
			field := m.Area
			if key == "c" {
				field = m.Category
			}
			if field != "" && strings.EqualFold(field, value) {
				ids = append(ids, m.ID)
			}
		}
	case "i":
		ids = s.ingredients[strings.ToLower(value)]
	}
	var out []map[string]any
	for _, id := range ids {
		title := ""
		if m, ok := s.meals[id]; ok {
			title = m.Title
		} else if g, ok := s.meals["ghost:"+id]; ok {
			title = g.Title
		}
		out = append(out, map[string]any{
			"idMeal":       id,
			"strMeal":      title,
			"strMealThumb": "https://img.example/" + id + ".jpg",
		})
	}
	s.mu.Unlock()

	writeMeals(w, out)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	id, ok := s.record(w, r, "i")
	if !ok {
		return
	}

	s.mu.Lock()
	m, found := s.meals[id]
	s.mu.Unlock()

	if !found {
		writeMeals(w, nil)
		return
	}
	writeMeals(w, []map[string]any{toWire(m)})
}

func writeMeals(w http.ResponseWriter, meals []map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	var payload any
	if len(meals) > 0 {
		payload = meals
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"meals": payload})
}

// toWire renders a meal the way TheMealDB does: flat string-or-null columns.
func toWire(m meal.Meal) map[string]any {
	nullable := func(s string) any {
		if s == "" {
			return nil
		}
		return s
	}
	out := map[string]any{
		"idMeal":          m.ID,
		"strMeal":         m.Title,
		"strMealThumb":    m.Thumbnail,
		"strArea":         nullable(m.Area),
		"strCategory":     nullable(m.Category),
		"strSource":       nullable(m.Source),
		"strYoutube":      nullable(m.YouTube),
		"strInstructions": nullable(m.Instructions),
		"strTags":         nullable(strings.Join(m.Tags, ",")),
		"dateModified":    nil,
	}
	for i := 1; i <= 20; i++ {
		n := strconv.Itoa(i)
		out["strIngredient"+n] = ""
		out["strMeasure"+n] = " "
		if i <= len(m.Ingredients) {
			out["strIngredient"+n] = m.Ingredients[i-1].Name
			out["strMeasure"+n] = m.Ingredients[i-1].Measure
		}
	}
	return out
}
