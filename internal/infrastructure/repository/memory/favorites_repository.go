package memory

import (
	"context"
	"sync"

	"github.com/premhub/premier-hub/internal/domain/favorites"
)

type favoriteRow struct {
	kind favorites.Kind
	id   string
}

// FavoritesRepository is the in-process fallback used when no database is
// configured, and the stand-in for tests. Data does not survive restarts.
type FavoritesRepository struct {
	mu     sync.RWMutex
	byUser map[string]map[favoriteRow]struct{}
}

func NewFavoritesRepository() *FavoritesRepository {
	return &FavoritesRepository{
		byUser: make(map[string]map[favoriteRow]struct{}),
	}
}

func (r *FavoritesRepository) ListByUser(_ context.Context, userID string) (favorites.Set, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := favorites.NewSet()
	for row := range r.byUser[userID] {
		out.Add(row.kind, row.id)
	}
	return out, nil
}

func (r *FavoritesRepository) Add(_ context.Context, userID string, kind favorites.Kind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, ok := r.byUser[userID]
	if !ok {
		rows = make(map[favoriteRow]struct{})
		r.byUser[userID] = rows
	}
	rows[favoriteRow{kind: kind, id: id}] = struct{}{}
	return nil
}

func (r *FavoritesRepository) Remove(_ context.Context, userID string, kind favorites.Kind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byUser[userID], favoriteRow{kind: kind, id: id})
	return nil
}
