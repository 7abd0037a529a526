package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/premhub/premier-hub/internal/domain/player"
	"github.com/premhub/premier-hub/internal/domain/team"
	"github.com/premhub/premier-hub/internal/platform/cache"
	"github.com/premhub/premier-hub/internal/platform/logging"
)

// ClubService serves club reference data: the team list and per-team
// squads. Both are stable within a session and cache well.
type ClubService struct {
	backend Backend
	cache   *cache.Store
	logger  *logging.Logger
}

func NewClubService(backend Backend, store *cache.Store, logger *logging.Logger) *ClubService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ClubService{
		backend: backend,
		cache:   store,
		logger:  logger,
	}
}

func (s *ClubService) Teams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubService.Teams")
	defer span.End()

	load := func(ctx context.Context) (any, error) {
		items, err := s.backend.FetchTeams(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch teams: %w", err)
		}
		return items, nil
	}

	if s.cache == nil {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return value.([]team.Team), nil
	}

	value, err := s.cache.GetOrLoad(ctx, "teams", load)
	if err != nil {
		return nil, err
	}

	items, ok := value.([]team.Team)
	if !ok {
		return nil, fmt.Errorf("unexpected teams cache payload type %T", value)
	}

	return items, nil
}

func (s *ClubService) Team(ctx context.Context, teamID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubService.Team")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	items, err := s.Teams(ctx)
	if err != nil {
		return team.Team{}, err
	}
	for _, item := range items {
		if item.ID == teamID {
			return item, nil
		}
	}

	return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
}

func (s *ClubService) Squad(ctx context.Context, teamID string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubService.Squad")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	load := func(ctx context.Context) (any, error) {
		items, err := s.backend.FetchPlayersByTeam(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("fetch squad team=%s: %w", teamID, err)
		}
		return items, nil
	}

	if s.cache == nil {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return value.([]player.Player), nil
	}

	value, err := s.cache.GetOrLoad(ctx, "squad|"+teamID, load)
	if err != nil {
		return nil, err
	}

	items, ok := value.([]player.Player)
	if !ok {
		return nil, fmt.Errorf("unexpected squad cache payload type %T", value)
	}

	return items, nil
}

// InvalidateSquad drops the cached squad for a team, used after admin
// player mutations so the next read sees upstream truth.
func (s *ClubService) InvalidateSquad(ctx context.Context, teamID string) {
	if s.cache == nil {
		return
	}
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return
	}
	s.cache.Delete(ctx, "squad|"+teamID)
}
