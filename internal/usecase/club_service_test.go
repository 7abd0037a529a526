package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/premhub/premier-hub/internal/domain/player"
	"github.com/premhub/premier-hub/internal/domain/team"
	"github.com/premhub/premier-hub/internal/platform/cache"
	"github.com/premhub/premier-hub/internal/platform/logging"
)

func TestClubService_Teams_Caches(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		teams: []team.Team{{ID: "t-ars", Name: "Arsenal"}},
	}
	svc := NewClubService(backend, cache.NewStore(time.Minute), logging.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := svc.Teams(ctx)
		if err != nil {
			t.Fatalf("Teams error: %v", err)
		}
		if len(got) != 1 || got[0].ID != "t-ars" {
			t.Fatalf("unexpected teams: %+v", got)
		}
	}
	if calls := backend.teamsCalls.Load(); calls != 1 {
		t.Fatalf("expected 1 backend fetch, got %d", calls)
	}
}

func TestClubService_Team(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		teams: []team.Team{
			{ID: "t-ars", Name: "Arsenal"},
			{ID: "t-liv", Name: "Liverpool"},
		},
	}
	svc := NewClubService(backend, nil, logging.NewNop())
	ctx := context.Background()

	got, err := svc.Team(ctx, "t-liv")
	if err != nil {
		t.Fatalf("Team error: %v", err)
	}
	if got.Name != "Liverpool" {
		t.Fatalf("unexpected team: %+v", got)
	}

	if _, err := svc.Team(ctx, "t-404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Team(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClubService_Squad_InvalidateForcesRefetch(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		squads: map[string][]player.Player{
			"t-ars": {{ID: "p-7", TeamID: "t-ars", Name: "Saka", Position: player.PositionForward}},
		},
	}
	svc := NewClubService(backend, cache.NewStore(time.Minute), logging.NewNop())
	ctx := context.Background()

	if _, err := svc.Squad(ctx, "t-ars"); err != nil {
		t.Fatalf("Squad error: %v", err)
	}
	if _, err := svc.Squad(ctx, "t-ars"); err != nil {
		t.Fatalf("Squad error: %v", err)
	}
	if calls := backend.squadCalls.Load(); calls != 1 {
		t.Fatalf("expected 1 backend fetch before invalidation, got %d", calls)
	}

	svc.InvalidateSquad(ctx, "t-ars")
	if _, err := svc.Squad(ctx, "t-ars"); err != nil {
		t.Fatalf("Squad error: %v", err)
	}
	if calls := backend.squadCalls.Load(); calls != 2 {
		t.Fatalf("expected refetch after invalidation, got %d calls", calls)
	}
}

func TestClubService_Squad_RequiresTeamID(t *testing.T) {
	t.Parallel()

	svc := NewClubService(&stubBackend{}, nil, logging.NewNop())
	if _, err := svc.Squad(context.Background(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
