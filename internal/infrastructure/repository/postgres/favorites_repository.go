package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/premhub/premier-hub/internal/domain/favorites"
	qb "github.com/premhub/premier-hub/internal/platform/querybuilder"
)

// FavoritesRepository persists per-user favorites. This is the only table
// the service owns; all football data stays upstream.
type FavoritesRepository struct {
	db *sqlx.DB
}

func NewFavoritesRepository(db *sqlx.DB) *FavoritesRepository {
	return &FavoritesRepository{db: db}
}

func (r *FavoritesRepository) ListByUser(ctx context.Context, userID string) (favorites.Set, error) {
	query, args, err := qb.Select("user_id", "kind", "favorite_id", "created_at").
		From("user_favorites").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at", "favorite_id").
		ToSQL()
	if err != nil {
		return favorites.Set{}, fmt.Errorf("build select favorites query: %w", err)
	}

	var rows []favoriteTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return favorites.Set{}, fmt.Errorf("select favorites: %w", err)
	}

	out := favorites.NewSet()
	for _, row := range rows {
		kind, err := favorites.ParseKind(row.Kind)
		if err != nil {
			// Unknown kinds are skipped rather than failing the whole load.
			continue
		}
		out.Add(kind, row.FavoriteID)
	}

	return out, nil
}

func (r *FavoritesRepository) Add(ctx context.Context, userID string, kind favorites.Kind, id string) error {
	query, args, err := qb.InsertInto("user_favorites").
		Columns("user_id", "kind", "favorite_id", "created_at").
		Values(userID, string(kind), id, time.Now().UTC()).
		Suffix("ON CONFLICT (user_id, kind, favorite_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert favorite query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}

	return nil
}

func (r *FavoritesRepository) Remove(ctx context.Context, userID string, kind favorites.Kind, id string) error {
	query, args, err := qb.DeleteFrom("user_favorites").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("kind", string(kind)),
			qb.Eq("favorite_id", id),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete favorite query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}

	return nil
}
