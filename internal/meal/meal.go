// Package meal defines the recipe records that flow between the API client,
// the search resolver, the favorites store, and the presentation layers.
package meal

import "unicode/utf8"

// Summary is the partial record returned by filter-style queries.
// ID is enough to request the full record with a lookup.
type Summary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Meal is a full recipe record. ID is the join key across search strategies
// and the favorites key.
type Meal struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Thumbnail    string       `json:"thumbnail"`
	Area         string       `json:"area,omitempty"`
	Category     string       `json:"category,omitempty"`
	Source       string       `json:"source,omitempty"`
	YouTube      string       `json:"youtube,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	Ingredients  []Ingredient `json:"ingredients,omitempty"`
}

// Ingredient is one ingredient line with its free-text measure.
type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure,omitempty"`
}

// Favorite is the projection of a Meal persisted in the favorites store.
type Favorite struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Image     string `json:"image"`
	Area      string `json:"area,omitempty"`
	Category  string `json:"category,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

// Link returns the external source link, falling back to the video link.
// Empty when the recipe has neither.
func (m *Meal) Link() string {
	if m.Source != "" {
		return m.Source
	}
	return m.YouTube
}

// ToFavorite projects a Meal onto the fields kept in the favorites store.
func (m *Meal) ToFavorite() Favorite {
	return Favorite{
		ID:        m.ID,
		Title:     m.Title,
		Image:     m.Thumbnail,
		Area:      m.Area,
		Category:  m.Category,
		SourceURL: m.Link(),
	}
}

// Meal expands a Favorite back into a (partial) Meal for card rendering.
func (f Favorite) Meal() Meal {
	return Meal{
		ID:        f.ID,
		Title:     f.Title,
		Thumbnail: f.Image,
		Area:      f.Area,
		Category:  f.Category,
		Source:    f.SourceURL,
	}
}

// Truncate shortens s to at most n runes, replacing the tail with an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}

// Dedupe removes later occurrences of a repeated ID, preserving order.
func Dedupe(meals []Meal) []Meal {
	seen := make(map[string]bool, len(meals))
	out := make([]Meal, 0, len(meals))
	for _, m := range meals {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out
}
