package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/premhub/premier-hub/internal/domain/match"
	"github.com/premhub/premier-hub/internal/domain/player"
	"github.com/premhub/premier-hub/internal/domain/user"
	"github.com/premhub/premier-hub/internal/platform/id"
	"github.com/premhub/premier-hub/internal/platform/logging"
)

// AdminService forwards mutating operations to the upstream backend. The
// backend owns all football data; this layer contributes the role gate and
// an idempotency key per request so upstream retries are applied once.
type AdminService struct {
	backend AdminBackend
	ids     id.Generator
	logger  *logging.Logger
}

func NewAdminService(backend AdminBackend, ids id.Generator, logger *logging.Logger) *AdminService {
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &AdminService{
		backend: backend,
		ids:     ids,
		logger:  logger,
	}
}

func (s *AdminService) StartMatch(ctx context.Context, principal user.Principal, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdminService.StartMatch")
	defer span.End()

	if err := s.authorize(principal); err != nil {
		return match.Match{}, err
	}
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	key, err := s.idempotencyKey()
	if err != nil {
		return match.Match{}, err
	}
	item, err := s.backend.StartMatch(ctx, matchID, key)
	if err != nil {
		return match.Match{}, fmt.Errorf("start match=%s: %w", matchID, err)
	}

	s.logger.InfoContext(ctx, "match started",
		"match_id", matchID,
		"admin_id", principal.UserID,
		"idempotency_key", key,
	)

	return item, nil
}

func (s *AdminService) FinishMatch(ctx context.Context, principal user.Principal, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdminService.FinishMatch")
	defer span.End()

	if err := s.authorize(principal); err != nil {
		return match.Match{}, err
	}
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	key, err := s.idempotencyKey()
	if err != nil {
		return match.Match{}, err
	}
	item, err := s.backend.FinishMatch(ctx, matchID, key)
	if err != nil {
		return match.Match{}, fmt.Errorf("finish match=%s: %w", matchID, err)
	}

	s.logger.InfoContext(ctx, "match finished",
		"match_id", matchID,
		"admin_id", principal.UserID,
		"idempotency_key", key,
	)

	return item, nil
}

func (s *AdminService) CreatePlayer(ctx context.Context, principal user.Principal, item player.Player) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdminService.CreatePlayer")
	defer span.End()

	if err := s.authorize(principal); err != nil {
		return player.Player{}, err
	}
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	key, err := s.idempotencyKey()
	if err != nil {
		return player.Player{}, err
	}
	created, err := s.backend.CreatePlayer(ctx, item, key)
	if err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}

	return created, nil
}

func (s *AdminService) UpdatePlayer(ctx context.Context, principal user.Principal, item player.Player) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdminService.UpdatePlayer")
	defer span.End()

	if err := s.authorize(principal); err != nil {
		return player.Player{}, err
	}
	if strings.TrimSpace(item.ID) == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	key, err := s.idempotencyKey()
	if err != nil {
		return player.Player{}, err
	}
	updated, err := s.backend.UpdatePlayer(ctx, item, key)
	if err != nil {
		return player.Player{}, fmt.Errorf("update player=%s: %w", item.ID, err)
	}

	return updated, nil
}

func (s *AdminService) DeletePlayer(ctx context.Context, principal user.Principal, playerID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdminService.DeletePlayer")
	defer span.End()

	if err := s.authorize(principal); err != nil {
		return err
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	key, err := s.idempotencyKey()
	if err != nil {
		return err
	}
	if err := s.backend.DeletePlayer(ctx, playerID, key); err != nil {
		return fmt.Errorf("delete player=%s: %w", playerID, err)
	}

	return nil
}

func (s *AdminService) AssignCoach(ctx context.Context, principal user.Principal, teamID, coachName string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdminService.AssignCoach")
	defer span.End()

	if err := s.authorize(principal); err != nil {
		return err
	}
	teamID = strings.TrimSpace(teamID)
	coachName = strings.TrimSpace(coachName)
	if teamID == "" {
		return fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if coachName == "" {
		return fmt.Errorf("%w: coach name is required", ErrInvalidInput)
	}

	key, err := s.idempotencyKey()
	if err != nil {
		return err
	}
	if err := s.backend.AssignCoach(ctx, teamID, coachName, key); err != nil {
		return fmt.Errorf("assign coach team=%s: %w", teamID, err)
	}

	return nil
}

func (s *AdminService) idempotencyKey() (string, error) {
	key, err := s.ids.NewID()
	if err != nil {
		return "", fmt.Errorf("generate idempotency key: %w", err)
	}
	return key, nil
}

func (s *AdminService) authorize(principal user.Principal) error {
	if strings.TrimSpace(principal.UserID) == "" {
		return fmt.Errorf("%w: admin operations require an authenticated session", ErrUnauthorized)
	}
	if !principal.IsAdmin() {
		return fmt.Errorf("%w: user %s lacks the admin role", ErrForbidden, principal.UserID)
	}
	return nil
}
