package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/mealfind/internal/favorites"
	"github.com/hpungsan/mealfind/internal/meal"
	"github.com/hpungsan/mealfind/internal/mealdb"
	"github.com/hpungsan/mealfind/internal/mealdb/mealdbtest"
	"github.com/hpungsan/mealfind/internal/resolve"
)

var (
	butterChicken = meal.Meal{
		ID: "52795", Title: "Chicken Handi", Thumbnail: "https://img/52795.jpg",
		Area: "Indian", Category: "Chicken", Source: "https://example.com/handi",
		Instructions: "Heat oil.\nAdd chicken.",
		Ingredients:  []meal.Ingredient{{Name: "Chicken", Measure: "1.2 kg"}, {Name: "Garlic", Measure: "2 cloves"}},
	}
	beefMadras = meal.Meal{
		ID: "52806", Title: "Beef Madras with Cauliflower Rice and Cucumber Raita", Thumbnail: "https://img/52806.jpg",
		Area: "Indian", Category: "Beef", YouTube: "https://youtube.com/watch?v=madras",
	}
	lasagne = meal.Meal{
		ID: "52844", Title: "Lasagne", Thumbnail: "https://img/52844.jpg",
		Area: "Italian", Category: "Pasta",
	}
)

type env struct {
	srv      *mealdbtest.Server
	client   *mealdb.Client
	resolver *resolve.Resolver
	favs     *favorites.List
	store    *favorites.MemoryStore
}

func newEnv(t *testing.T) *env {
	t.Helper()
	srv := mealdbtest.NewServer(t)
	srv.AddMeal(butterChicken, "chicken", "garlic")
	srv.AddMeal(beefMadras, "beef")
	srv.AddMeal(lasagne, "beef", "pasta")

	client := mealdb.NewClient(srv.URL)
	store := &favorites.MemoryStore{}
	favs, err := favorites.Load(context.Background(), store, nil)
	require.NoError(t, err)

	return &env{
		srv:      srv,
		client:   client,
		resolver: resolve.New(client),
		favs:     favs,
		store:    store,
	}
}

func TestNewCard(t *testing.T) {
	c := NewCard(beefMadras, true)
	require.Equal(t, "Beef Madras with Cauliflower Rice and C…", c.Title)
	require.Equal(t, beefMadras.Title, c.FullTitle)
	require.Equal(t, beefMadras.YouTube, c.Link)
	require.Equal(t, "View Recipe", c.LinkLabel())
	require.True(t, c.IsFavorite)

	c = NewCard(lasagne, false)
	require.Equal(t, "Lasagne", c.Title)
	require.Empty(t, c.Link)
	require.Equal(t, MsgNoLink, c.LinkLabel())
}

func TestNewSearchID(t *testing.T) {
	a, b := newSearchID(), newSearchID()
	require.Len(t, a, 26)
	require.NotEqual(t, a, b)
}
