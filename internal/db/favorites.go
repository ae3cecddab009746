package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hpungsan/mealfind/internal/errors"
	"github.com/hpungsan/mealfind/internal/meal"
)

// FavoritesStore persists the ordered favorites list in SQLite.
type FavoritesStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewFavoritesStore wraps an initialized database.
func NewFavoritesStore(db *sql.DB) *FavoritesStore {
	return &FavoritesStore{db: db, now: time.Now}
}

// Load returns the stored favorites in saved order. An empty store yields an
// empty, non-nil slice. Read failures are INTERNAL errors.
func (s *FavoritesStore) Load(ctx context.Context) ([]meal.Favorite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, image, area, category, source_url
		FROM favorites
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("load favorites: %w", err))
	}
	defer rows.Close()

	favs := []meal.Favorite{}
	for rows.Next() {
		var f meal.Favorite
		var area, category, sourceURL sql.NullString
		if err := rows.Scan(&f.ID, &f.Title, &f.Image, &area, &category, &sourceURL); err != nil {
			return nil, errors.NewInternal(fmt.Errorf("load favorites: %w", err))
		}
		f.Area = area.String
		f.Category = category.String
		f.SourceURL = sourceURL.String
		favs = append(favs, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("load favorites: %w", err))
	}
	return favs, nil
}

// Save replaces the stored list with favs in a single transaction. Either the
// whole list is written or nothing changes.
func (s *FavoritesStore) Save(ctx context.Context, favs []meal.Favorite) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStorageFailed(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM favorites`); err != nil {
		return errors.NewStorageFailed(err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO favorites (id, position, title, image, area, category, source_url, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errors.NewStorageFailed(err)
	}
	defer stmt.Close()

	savedAt := s.now().Unix()
	for i, f := range favs {
		_, err := stmt.ExecContext(ctx,
			f.ID, i, f.Title, f.Image,
			toNullString(f.Area), toNullString(f.Category), toNullString(f.SourceURL),
			savedAt,
		)
		if err != nil {
			return errors.NewStorageFailed(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStorageFailed(err)
	}
	return nil
}

// toNullString stores empty strings as NULL.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
