package usecase

import (
	"context"

	"github.com/premhub/premier-hub/internal/domain/match"
	"github.com/premhub/premier-hub/internal/domain/player"
	"github.com/premhub/premier-hub/internal/domain/standing"
	"github.com/premhub/premier-hub/internal/domain/team"
)

// MatchFilter narrows a match listing. Zero values mean "no filter".
type MatchFilter struct {
	SeasonID string
	Status   string
	Matchday int
}

// Backend is the upstream Premier League data provider consumed by the
// read-side services.
type Backend interface {
	FetchStandings(ctx context.Context, seasonID string) ([]standing.Standing, error)
	FetchMatches(ctx context.Context, filter MatchFilter) ([]match.Match, error)
	FetchMatchEvents(ctx context.Context, matchID string) ([]match.GoalEvent, error)
	FetchTeams(ctx context.Context) ([]team.Team, error)
	FetchPlayersByTeam(ctx context.Context, teamID string) ([]player.Player, error)
}

// AdminBackend covers the mutating pass-through operations. Every call
// carries an idempotency key so a retried request is applied once.
type AdminBackend interface {
	StartMatch(ctx context.Context, matchID, idempotencyKey string) (match.Match, error)
	FinishMatch(ctx context.Context, matchID, idempotencyKey string) (match.Match, error)
	CreatePlayer(ctx context.Context, item player.Player, idempotencyKey string) (player.Player, error)
	UpdatePlayer(ctx context.Context, item player.Player, idempotencyKey string) (player.Player, error)
	DeletePlayer(ctx context.Context, playerID, idempotencyKey string) error
	AssignCoach(ctx context.Context, teamID, coachName, idempotencyKey string) error
}
