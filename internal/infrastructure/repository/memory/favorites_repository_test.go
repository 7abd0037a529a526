package memory

import (
	"context"
	"testing"

	"github.com/premhub/premier-hub/internal/domain/favorites"
)

func TestFavoritesRepository_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFavoritesRepository()

	if err := repo.Add(ctx, "u-1", favorites.KindTeam, "t-ars"); err != nil {
		t.Fatalf("add team: %v", err)
	}
	if err := repo.Add(ctx, "u-1", favorites.KindPlayer, "p-9"); err != nil {
		t.Fatalf("add player: %v", err)
	}

	set, err := repo.ListByUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !set.Has(favorites.KindTeam, "t-ars") {
		t.Fatalf("expected team favorite in set")
	}
	if !set.Has(favorites.KindPlayer, "p-9") {
		t.Fatalf("expected player favorite in set")
	}

	if err := repo.Remove(ctx, "u-1", favorites.KindTeam, "t-ars"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	set, err = repo.ListByUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("list after remove: %v", err)
	}
	if set.Has(favorites.KindTeam, "t-ars") {
		t.Fatalf("removed favorite must not be listed")
	}
	if !set.Has(favorites.KindPlayer, "p-9") {
		t.Fatalf("unrelated favorite must survive remove")
	}
}

func TestFavoritesRepository_AddIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFavoritesRepository()

	for i := 0; i < 3; i++ {
		if err := repo.Add(ctx, "u-1", favorites.KindTeam, "t-ars"); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	set, err := repo.ListByUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(set.TeamIDs) != 1 {
		t.Fatalf("expected one team id, got %d", len(set.TeamIDs))
	}
}

func TestFavoritesRepository_IsolatesUsers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFavoritesRepository()

	if err := repo.Add(ctx, "u-1", favorites.KindTeam, "t-ars"); err != nil {
		t.Fatalf("add: %v", err)
	}

	set, err := repo.ListByUser(ctx, "u-2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(set.TeamIDs) != 0 || len(set.PlayerIDs) != 0 {
		t.Fatalf("expected empty set for another user, got %+v", set)
	}

	if err := repo.Remove(ctx, "u-2", favorites.KindTeam, "t-ars"); err != nil {
		t.Fatalf("remove for unknown user must not fail: %v", err)
	}
}
