package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/premhub/premier-hub/internal/domain/match"
	"github.com/premhub/premier-hub/internal/platform/cache"
	"github.com/premhub/premier-hub/internal/platform/logging"
)

func TestMatchService_List_FiltersAreForwarded(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		matches: []match.Match{
			{ID: "m-1", SeasonID: "2026", Matchday: 1, Status: match.StatusFinished},
			{ID: "m-2", SeasonID: "2026", Matchday: 2, Status: match.StatusLive},
			{ID: "m-3", SeasonID: "2025", Matchday: 2, Status: match.StatusLive},
		},
	}
	svc := NewMatchService(backend, nil, logging.NewNop())
	ctx := context.Background()

	got, err := svc.List(ctx, MatchFilter{SeasonID: "2026", Status: "live"})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "m-2" {
		t.Fatalf("unexpected filtered result: %+v", got)
	}
}

func TestMatchService_List_RejectsNegativeMatchday(t *testing.T) {
	t.Parallel()

	svc := NewMatchService(&stubBackend{}, nil, logging.NewNop())
	if _, err := svc.List(context.Background(), MatchFilter{Matchday: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchService_List_CachesPerFilter(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		matches: []match.Match{
			{ID: "m-1", SeasonID: "2026", Matchday: 1, Status: match.StatusLive},
		},
	}
	svc := NewMatchService(backend, cache.NewStore(time.Minute), logging.NewNop())
	ctx := context.Background()

	if _, err := svc.List(ctx, MatchFilter{SeasonID: "2026"}); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if _, err := svc.List(ctx, MatchFilter{SeasonID: "2026"}); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if calls := backend.matchesCalls.Load(); calls != 1 {
		t.Fatalf("expected 1 backend fetch for repeated filter, got %d", calls)
	}

	// A different filter is a different cache entry.
	if _, err := svc.List(ctx, MatchFilter{SeasonID: "2026", Status: match.StatusLive}); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if calls := backend.matchesCalls.Load(); calls != 2 {
		t.Fatalf("expected a second backend fetch for the new filter, got %d", calls)
	}
}

func TestMatchService_Get(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		matches: []match.Match{
			{ID: "m-1", SeasonID: "2026"},
			{ID: "m-2", SeasonID: "2026"},
		},
	}
	svc := NewMatchService(backend, nil, logging.NewNop())
	ctx := context.Background()

	got, err := svc.Get(ctx, "m-2")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ID != "m-2" {
		t.Fatalf("unexpected match: %+v", got)
	}

	if _, err := svc.Get(ctx, "m-404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Get(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchService_Events_PreservesDeliveryOrder(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		events: map[string][]match.GoalEvent{
			"m-1": {
				{ID: "e-1", MatchID: "m-1", Minute: 12, Scorer: "Saka"},
				{ID: "e-2", MatchID: "m-1", Minute: 55, Scorer: "Havertz"},
			},
		},
	}
	svc := NewMatchService(backend, nil, logging.NewNop())

	got, err := svc.Events(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("Events error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "e-1" || got[1].ID != "e-2" {
		t.Fatalf("unexpected event order: %+v", got)
	}
}

func TestMatchService_RefreshMatches_WarmsTheCache(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{matchesErr: errors.New("backend down")}
	svc := NewMatchService(backend, cache.NewStore(time.Minute), logging.NewNop())
	ctx := context.Background()

	svc.RefreshMatches(ctx, MatchFilter{SeasonID: "2026"}, []match.Match{{ID: "m-1", SeasonID: "2026"}})

	got, err := svc.List(ctx, MatchFilter{SeasonID: "2026"})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "m-1" {
		t.Fatalf("expected warmed snapshot, got %+v", got)
	}
}
