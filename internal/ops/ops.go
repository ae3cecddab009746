package ops

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/mealfind/internal/meal"
	"github.com/hpungsan/mealfind/internal/resolve"
)

// MaxTitleRunes is the card title length before truncation.
const MaxTitleRunes = 40

// User-facing messages.
const (
	MsgNoResults   = "No recipes found. Try a different term."
	MsgNoFavorites = "No favorites saved yet."
	MsgNoLink      = "No Link"
)

// Resolver resolves a raw query into recipes.
type Resolver interface {
	Resolve(ctx context.Context, raw string) (*resolve.Result, error)
}

// Card is the display projection of a recipe, shared by search results and
// the favorites panel.
type Card struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	FullTitle  string `json:"full_title"`
	Image      string `json:"image"`
	Area       string `json:"area,omitempty"`
	Category   string `json:"category,omitempty"`
	Link       string `json:"link,omitempty"`
	IsFavorite bool   `json:"is_favorite"`
}

// NewCard projects m onto a card.
func NewCard(m meal.Meal, isFavorite bool) Card {
	return Card{
		ID:         m.ID,
		Title:      meal.Truncate(m.Title, MaxTitleRunes),
		FullTitle:  m.Title,
		Image:      m.Thumbnail,
		Area:       m.Area,
		Category:   m.Category,
		Link:       m.Link(),
		IsFavorite: isFavorite,
	}
}

// LinkLabel is the text shown for a card's external link.
func (c Card) LinkLabel() string {
	if c.Link == "" {
		return MsgNoLink
	}
	return "View Recipe"
}

// newSearchID returns a ULID identifying one search request in logs and output.
func newSearchID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
