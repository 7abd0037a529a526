package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/premhub/premier-hub/internal/domain/standing"
	"github.com/premhub/premier-hub/internal/platform/cache"
	"github.com/premhub/premier-hub/internal/platform/logging"
)

// StandingsService serves the ranked league table. Raw rows come from the
// upstream backend (or the snapshot cache kept warm by live sync); ordering
// and zone classification happen here, client-side of the provider.
type StandingsService struct {
	backend Backend
	ranker  *standing.Ranker
	cache   *cache.Store
	logger  *logging.Logger
}

func NewStandingsService(backend Backend, ranker *standing.Ranker, store *cache.Store, logger *logging.Logger) *StandingsService {
	if ranker == nil {
		ranker = standing.NewRanker(standing.DefaultZoneConfig())
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &StandingsService{
		backend: backend,
		ranker:  ranker,
		cache:   store,
		logger:  logger,
	}
}

func (s *StandingsService) Table(ctx context.Context, seasonID string) ([]standing.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Table")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	rows, err := s.loadRows(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	ranked, err := s.ranker.Rank(rows)
	if err != nil {
		return nil, fmt.Errorf("rank standings season=%s: %w", seasonID, err)
	}
	if len(ranked) < len(rows) {
		s.logger.WarnContext(ctx, "standings input contained duplicate teams, kept last-seen rows",
			"season_id", seasonID,
			"input_rows", len(rows),
			"ranked_rows", len(ranked),
		)
	}

	return ranked, nil
}

// Refresh replaces the cached snapshot for a season. Called by live sync
// after a successful poll so table reads never block on the provider.
func (s *StandingsService) Refresh(ctx context.Context, seasonID string, rows []standing.Standing) {
	if s.cache == nil || strings.TrimSpace(seasonID) == "" {
		return
	}
	s.cache.Set(ctx, standingsCacheKey(seasonID), rows)
}

func (s *StandingsService) loadRows(ctx context.Context, seasonID string) ([]standing.Standing, error) {
	if s.cache == nil {
		rows, err := s.backend.FetchStandings(ctx, seasonID)
		if err != nil {
			return nil, fmt.Errorf("fetch standings season=%s: %w", seasonID, err)
		}
		return rows, nil
	}

	value, err := s.cache.GetOrLoad(ctx, standingsCacheKey(seasonID), func(ctx context.Context) (any, error) {
		rows, err := s.backend.FetchStandings(ctx, seasonID)
		if err != nil {
			return nil, fmt.Errorf("fetch standings season=%s: %w", seasonID, err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	rows, ok := value.([]standing.Standing)
	if !ok {
		return nil, fmt.Errorf("unexpected standings cache payload type %T", value)
	}

	return rows, nil
}

func standingsCacheKey(seasonID string) string {
	return "standings|" + seasonID
}
