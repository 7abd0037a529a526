package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/premhub/premier-hub/internal/domain/match"
	"github.com/premhub/premier-hub/internal/platform/cache"
	"github.com/premhub/premier-hub/internal/platform/logging"
)

// MatchService serves match listings and per-match goal events.
type MatchService struct {
	backend Backend
	cache   *cache.Store
	logger  *logging.Logger
}

func NewMatchService(backend Backend, store *cache.Store, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		backend: backend,
		cache:   store,
		logger:  logger,
	}
}

func (s *MatchService) List(ctx context.Context, filter MatchFilter) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	filter = normalizeMatchFilter(filter)
	if filter.Matchday < 0 {
		return nil, fmt.Errorf("%w: matchday cannot be negative", ErrInvalidInput)
	}

	load := func(ctx context.Context) (any, error) {
		items, err := s.backend.FetchMatches(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("fetch matches: %w", err)
		}
		return items, nil
	}

	if s.cache == nil {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return value.([]match.Match), nil
	}

	value, err := s.cache.GetOrLoad(ctx, matchesCacheKey(filter), load)
	if err != nil {
		return nil, err
	}

	items, ok := value.([]match.Match)
	if !ok {
		return nil, fmt.Errorf("unexpected matches cache payload type %T", value)
	}

	return items, nil
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	items, err := s.List(ctx, MatchFilter{})
	if err != nil {
		return match.Match{}, err
	}
	for _, item := range items {
		if item.ID == matchID {
			return item, nil
		}
	}

	return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
}

// Events returns the goal events for a match, newest last. The upstream
// list is append-only per match; order is preserved as delivered.
func (s *MatchService) Events(ctx context.Context, matchID string) ([]match.GoalEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Events")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	events, err := s.backend.FetchMatchEvents(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("fetch match events match=%s: %w", matchID, err)
	}

	return events, nil
}

// RefreshMatches replaces the cached snapshot for a filter; used by live
// sync after each successful poll.
func (s *MatchService) RefreshMatches(ctx context.Context, filter MatchFilter, items []match.Match) {
	if s.cache == nil {
		return
	}
	s.cache.Set(ctx, matchesCacheKey(normalizeMatchFilter(filter)), items)
}

func normalizeMatchFilter(filter MatchFilter) MatchFilter {
	filter.SeasonID = strings.TrimSpace(filter.SeasonID)
	filter.Status = strings.ToUpper(strings.TrimSpace(filter.Status))
	return filter
}

func matchesCacheKey(filter MatchFilter) string {
	return fmt.Sprintf("matches|%s|%s|%d", filter.SeasonID, filter.Status, filter.Matchday)
}
