// Package classify turns a raw search query into normalized terms and detects
// the cuisine area and food category it mentions, if any.
package classify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// KnownAreas lists the cuisine areas the recipe API can filter by.
// Order matters: the first match wins.
var KnownAreas = []string{
	"American", "British", "Canadian", "Chinese", "Croatian", "Dutch", "Egyptian",
	"Filipino", "French", "Greek", "Indian", "Irish", "Italian", "Jamaican",
	"Japanese", "Kenyan", "Malaysian", "Mexican", "Moroccan", "Polish",
	"Portuguese", "Russian", "Spanish", "Thai", "Tunisian", "Turkish", "Vietnamese",
}

// KnownCategories lists the food categories the recipe API can filter by.
// Order matters: the first match wins.
var KnownCategories = []string{
	"Beef", "Breakfast", "Chicken", "Dessert", "Goat", "Lamb", "Miscellaneous",
	"Pasta", "Pork", "Seafood", "Side", "Starter", "Vegan", "Vegetarian",
}

// separatorRegex matches runs of whitespace and commas.
var separatorRegex = regexp.MustCompile(`[\s,]+`)

// Term is one normalized query token.
type Term struct {
	Lower       string `json:"lower"`
	Capitalized string `json:"capitalized"`
}

// Classification is the result of classifying a query.
// Area and Category are empty when nothing matched.
type Classification struct {
	Terms    []Term `json:"terms"`
	Area     string `json:"area,omitempty"`
	Category string `json:"category,omitempty"`
}

// HasAreaAndCategory reports whether both an area and a category were found.
func (c Classification) HasAreaAndCategory() bool {
	return c.Area != "" && c.Category != ""
}

// Classify tokenizes raw and matches its terms against KnownAreas and
// KnownCategories. It never fails; no match is a normal outcome.
func Classify(raw string) Classification {
	terms := Tokenize(raw)
	return Classification{
		Terms:    terms,
		Area:     firstMatch(KnownAreas, terms),
		Category: firstMatch(KnownCategories, terms),
	}
}

// Tokenize splits raw on whitespace or commas into lowercase terms.
func Tokenize(raw string) []Term {
	parts := separatorRegex.Split(strings.TrimSpace(raw), -1)
	terms := make([]Term, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		lower := strings.ToLower(p)
		terms = append(terms, Term{Lower: lower, Capitalized: capitalize(lower)})
	}
	return terms
}

// IngredientTerm returns the ingredient to search for: the text before the
// first comma when there is one, otherwise the whole query. Both trimmed.
func IngredientTerm(raw string) string {
	if before, _, ok := strings.Cut(raw, ","); ok {
		return strings.TrimSpace(before)
	}
	return strings.TrimSpace(raw)
}

// firstMatch returns the first known value, in declared order, that equals
// any term's lowercase or capitalized form ignoring case.
func firstMatch(known []string, terms []Term) string {
	for _, k := range known {
		for _, t := range terms {
			if strings.EqualFold(t.Lower, k) || strings.EqualFold(t.Capitalized, k) {
				return k
			}
		}
	}
	return ""
}

// capitalize upper-cases the first rune of s.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
