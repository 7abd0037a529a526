package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/premhub/premier-hub/internal/domain/match"
	"github.com/premhub/premier-hub/internal/domain/player"
	"github.com/premhub/premier-hub/internal/domain/standing"
	"github.com/premhub/premier-hub/internal/domain/team"
	"github.com/premhub/premier-hub/internal/platform/cache"
	"github.com/premhub/premier-hub/internal/platform/logging"
)

// stubBackend fakes the upstream provider for the read-side service tests.
type stubBackend struct {
	mu        sync.Mutex
	standings map[string][]standing.Standing
	matches   []match.Match
	events    map[string][]match.GoalEvent
	teams     []team.Team
	squads    map[string][]player.Player

	standingsErr error
	matchesErr   error
	eventsErr    error
	teamsErr     error
	squadErr     error

	standingsCalls atomic.Int64
	matchesCalls   atomic.Int64
	eventsCalls    atomic.Int64
	teamsCalls     atomic.Int64
	squadCalls     atomic.Int64
}

func (s *stubBackend) FetchStandings(_ context.Context, seasonID string) ([]standing.Standing, error) {
	s.standingsCalls.Add(1)
	if s.standingsErr != nil {
		return nil, s.standingsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.standings[seasonID], nil
}

func (s *stubBackend) FetchMatches(_ context.Context, filter MatchFilter) ([]match.Match, error) {
	s.matchesCalls.Add(1)
	if s.matchesErr != nil {
		return nil, s.matchesErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]match.Match, 0, len(s.matches))
	for _, item := range s.matches {
		if filter.SeasonID != "" && item.SeasonID != filter.SeasonID {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.Matchday != 0 && item.Matchday != filter.Matchday {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *stubBackend) FetchMatchEvents(_ context.Context, matchID string) ([]match.GoalEvent, error) {
	s.eventsCalls.Add(1)
	if s.eventsErr != nil {
		return nil, s.eventsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[matchID], nil
}

func (s *stubBackend) FetchTeams(_ context.Context) ([]team.Team, error) {
	s.teamsCalls.Add(1)
	if s.teamsErr != nil {
		return nil, s.teamsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teams, nil
}

func (s *stubBackend) FetchPlayersByTeam(_ context.Context, teamID string) ([]player.Player, error) {
	s.squadCalls.Add(1)
	if s.squadErr != nil {
		return nil, s.squadErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.squads[teamID], nil
}

func TestStandingsService_Table_RanksBackendRows(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		standings: map[string][]standing.Standing{
			"2026": {
				{SeasonID: "2026", TeamID: "t-b", TeamName: "Brighton", Points: 50, GoalDifference: 5, GoalsFor: 48},
				{SeasonID: "2026", TeamID: "t-a", TeamName: "Arsenal", Points: 82, GoalDifference: 38, GoalsFor: 85},
			},
		},
	}
	svc := NewStandingsService(backend, nil, nil, logging.NewNop())

	got, err := svc.Table(context.Background(), "2026")
	if err != nil {
		t.Fatalf("Table error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].TeamID != "t-a" || got[0].Position != 1 || got[0].Zone != standing.ZoneChampionsLeague {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
	if got[1].TeamID != "t-b" || got[1].Position != 2 {
		t.Fatalf("unexpected second row: %+v", got[1])
	}
}

func TestStandingsService_Table_RequiresSeasonID(t *testing.T) {
	t.Parallel()

	svc := NewStandingsService(&stubBackend{}, nil, nil, logging.NewNop())
	if _, err := svc.Table(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStandingsService_Table_ServesFromCacheOnRepeat(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		standings: map[string][]standing.Standing{
			"2026": {{SeasonID: "2026", TeamID: "t-a", TeamName: "Arsenal", Points: 10}},
		},
	}
	svc := NewStandingsService(backend, nil, cache.NewStore(time.Minute), logging.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Table(ctx, "2026"); err != nil {
			t.Fatalf("Table error on call %d: %v", i, err)
		}
	}
	if calls := backend.standingsCalls.Load(); calls != 1 {
		t.Fatalf("expected 1 backend fetch, got %d", calls)
	}
}

func TestStandingsService_Refresh_SupersedesBackend(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{standingsErr: errors.New("backend down")}
	svc := NewStandingsService(backend, nil, cache.NewStore(time.Minute), logging.NewNop())
	ctx := context.Background()

	svc.Refresh(ctx, "2026", []standing.Standing{
		{SeasonID: "2026", TeamID: "t-a", TeamName: "Arsenal", Points: 77},
	})

	got, err := svc.Table(ctx, "2026")
	if err != nil {
		t.Fatalf("Table error: %v", err)
	}
	if len(got) != 1 || got[0].TeamID != "t-a" {
		t.Fatalf("expected refreshed snapshot to serve the read, got %+v", got)
	}
	if backend.standingsCalls.Load() != 0 {
		t.Fatal("expected no backend fetch while the snapshot is warm")
	}
}

func TestStandingsService_Table_StrictDuplicateFails(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		standings: map[string][]standing.Standing{
			"2026": {
				{SeasonID: "2026", TeamID: "t-a", TeamName: "Arsenal", Points: 10},
				{SeasonID: "2026", TeamID: "t-a", TeamName: "Arsenal", Points: 13},
			},
		},
	}
	ranker := standing.NewRanker(standing.DefaultZoneConfig())
	ranker.Strict = true
	svc := NewStandingsService(backend, ranker, nil, logging.NewNop())

	if _, err := svc.Table(context.Background(), "2026"); !errors.Is(err, standing.ErrDuplicateTeam) {
		t.Fatalf("expected ErrDuplicateTeam, got %v", err)
	}
}
