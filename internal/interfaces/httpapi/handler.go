package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/premhub/premier-hub/internal/domain/match"
	"github.com/premhub/premier-hub/internal/domain/player"
	"github.com/premhub/premier-hub/internal/domain/standing"
	"github.com/premhub/premier-hub/internal/domain/team"
	"github.com/premhub/premier-hub/internal/platform/logging"
	"github.com/premhub/premier-hub/internal/usecase"
)

type Handler struct {
	standingsService *usecase.StandingsService
	matchService     *usecase.MatchService
	clubService      *usecase.ClubService
	favoritesService *usecase.FavoritesService
	adminService     *usecase.AdminService
	liveSyncService  *usecase.LiveSyncService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	standingsService *usecase.StandingsService,
	matchService *usecase.MatchService,
	clubService *usecase.ClubService,
	favoritesService *usecase.FavoritesService,
	adminService *usecase.AdminService,
	liveSyncService *usecase.LiveSyncService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		standingsService: standingsService,
		matchService:     matchService,
		clubService:      clubService,
		favoritesService: favoritesService,
		adminService:     adminService,
		liveSyncService:  liveSyncService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	rows, err := h.standingsService.Table(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, standingToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	filter := usecase.MatchFilter{
		SeasonID: strings.TrimSpace(r.URL.Query().Get("season_id")),
		Status:   strings.TrimSpace(r.URL.Query().Get("status")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("matchday")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: matchday must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		filter.Matchday = v
	}

	items, err := h.matchService.List(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "season_id", filter.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.matchService.Get(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) ListMatchEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchEvents")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	events, err := h.matchService.Events(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list match events failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]goalEventDTO, 0, len(events))
	for _, event := range events {
		items = append(items, goalEventToDTO(event))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.clubService.Teams(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, item := range teams {
		items = append(items, teamToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	item, err := h.clubService.Team(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) ListSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSquad")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	players, err := h.clubService.Squad(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list squad failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, item := range players {
		items = append(items, playerToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLiveSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLiveSnapshot")
	defer span.End()

	// Live sync is optional; without it there is never a snapshot to serve.
	if h.liveSyncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: live sync is disabled", usecase.ErrNotFound))
		return
	}

	snapshot, ok := h.liveSyncService.Last()
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: no live snapshot yet", usecase.ErrNotFound))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, liveSnapshotToDTO(snapshot))
}

type standingDTO struct {
	SeasonID       string `json:"seasonId"`
	TeamID         string `json:"teamId"`
	TeamName       string `json:"teamName"`
	TeamShort      string `json:"teamShort,omitempty"`
	Position       int    `json:"position"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Draw           int    `json:"draw"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
	Zone           string `json:"zone,omitempty"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}

func standingToDTO(row standing.Standing) standingDTO {
	out := standingDTO{
		SeasonID:       row.SeasonID,
		TeamID:         row.TeamID,
		TeamName:       row.TeamName,
		TeamShort:      row.TeamShort,
		Position:       row.Position,
		Played:         row.Played,
		Won:            row.Won,
		Draw:           row.Draw,
		Lost:           row.Lost,
		GoalsFor:       row.GoalsFor,
		GoalsAgainst:   row.GoalsAgainst,
		GoalDifference: row.GoalDifference,
		Points:         row.Points,
		Zone:           string(row.Zone),
	}
	if row.SourceUpdatedAt != nil {
		out.UpdatedAt = row.SourceUpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

type matchDTO struct {
	ID         string `json:"id"`
	SeasonID   string `json:"seasonId"`
	Matchday   int    `json:"matchday"`
	HomeTeamID string `json:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId"`
	HomeTeam   string `json:"homeTeam"`
	AwayTeam   string `json:"awayTeam"`
	HomeScore  *int   `json:"homeScore"`
	AwayScore  *int   `json:"awayScore"`
	KickoffAt  string `json:"kickoffAt,omitempty"`
	Status     string `json:"status"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

func matchToDTO(item match.Match) matchDTO {
	out := matchDTO{
		ID:         item.ID,
		SeasonID:   item.SeasonID,
		Matchday:   item.Matchday,
		HomeTeamID: item.HomeTeamID,
		AwayTeamID: item.AwayTeamID,
		HomeTeam:   item.HomeTeam,
		AwayTeam:   item.AwayTeam,
		HomeScore:  item.HomeScore,
		AwayScore:  item.AwayScore,
		Status:     item.Status,
	}
	if !item.KickoffAt.IsZero() {
		out.KickoffAt = item.KickoffAt.UTC().Format(time.RFC3339)
	}
	if item.FinishedAt != nil {
		out.FinishedAt = item.FinishedAt.UTC().Format(time.RFC3339)
	}
	return out
}

type goalEventDTO struct {
	ID       string `json:"id"`
	MatchID  string `json:"matchId"`
	Minute   int    `json:"minute"`
	Scorer   string `json:"scorer"`
	Assist   string `json:"assist,omitempty"`
	TeamName string `json:"teamName,omitempty"`
}

func goalEventToDTO(event match.GoalEvent) goalEventDTO {
	return goalEventDTO{
		ID:       event.ID,
		MatchID:  event.MatchID,
		Minute:   event.Minute,
		Scorer:   event.Scorer,
		Assist:   event.Assist,
		TeamName: event.TeamName,
	}
}

type teamDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Short   string `json:"short,omitempty"`
	City    string `json:"city,omitempty"`
	Stadium string `json:"stadium,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
}

func teamToDTO(item team.Team) teamDTO {
	return teamDTO{
		ID:      item.ID,
		Name:    item.Name,
		Short:   item.Short,
		City:    item.City,
		Stadium: item.Stadium,
		LogoURL: item.LogoURL,
	}
}

type playerDTO struct {
	ID          string `json:"id"`
	TeamID      string `json:"teamId"`
	Name        string `json:"name"`
	Position    string `json:"position"`
	ShirtNumber int    `json:"shirtNumber,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

func playerToDTO(item player.Player) playerDTO {
	return playerDTO{
		ID:          item.ID,
		TeamID:      item.TeamID,
		Name:        item.Name,
		Position:    string(item.Position),
		ShirtNumber: item.ShirtNumber,
		Nationality: item.Nationality,
	}
}

type liveSnapshotDTO struct {
	SeasonID  string                    `json:"seasonId"`
	FetchedAt string                    `json:"fetchedAt"`
	Standings []standingDTO             `json:"standings"`
	Matches   []matchDTO                `json:"matches"`
	Events    map[string][]goalEventDTO `json:"events"`
}

func liveSnapshotToDTO(snapshot usecase.LiveSnapshot) liveSnapshotDTO {
	out := liveSnapshotDTO{
		SeasonID:  snapshot.SeasonID,
		FetchedAt: snapshot.FetchedAt.UTC().Format(time.RFC3339),
		Standings: make([]standingDTO, 0, len(snapshot.Standings)),
		Matches:   make([]matchDTO, 0, len(snapshot.Matches)),
		Events:    make(map[string][]goalEventDTO, len(snapshot.Events)),
	}
	for _, row := range snapshot.Standings {
		out.Standings = append(out.Standings, standingToDTO(row))
	}
	for _, item := range snapshot.Matches {
		out.Matches = append(out.Matches, matchToDTO(item))
	}
	for matchID, events := range snapshot.Events {
		items := make([]goalEventDTO, 0, len(events))
		for _, event := range events {
			items = append(items, goalEventToDTO(event))
		}
		out.Events[matchID] = items
	}
	return out
}
