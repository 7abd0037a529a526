package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/premhub/premier-hub/internal/domain/player"
	"github.com/premhub/premier-hub/internal/usecase"
)

func (h *Handler) StartMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session principal", usecase.ErrUnauthorized))
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.adminService.StartMatch(ctx, principal, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "start match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) FinishMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinishMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session principal", usecase.ErrUnauthorized))
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.adminService.FinishMatch(ctx, principal, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "finish match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

type playerWriteRequest struct {
	TeamID      string `json:"teamId" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Position    string `json:"position" validate:"required,oneof=GK DF MF FW"`
	ShirtNumber int    `json:"shirtNumber" validate:"gte=0,lte=99"`
	Nationality string `json:"nationality"`
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session principal", usecase.ErrUnauthorized))
		return
	}

	var req playerWriteRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid request body", usecase.ErrInvalidInput))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	created, err := h.adminService.CreatePlayer(ctx, principal, playerFromWriteRequest("", req))
	if err != nil {
		h.logger.WarnContext(ctx, "create player failed", "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.clubService.InvalidateSquad(ctx, created.TeamID)
	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(created))
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session principal", usecase.ErrUnauthorized))
		return
	}

	playerID := strings.TrimSpace(r.PathValue("playerID"))

	var req playerWriteRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid request body", usecase.ErrInvalidInput))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	updated, err := h.adminService.UpdatePlayer(ctx, principal, playerFromWriteRequest(playerID, req))
	if err != nil {
		h.logger.WarnContext(ctx, "update player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.clubService.InvalidateSquad(ctx, updated.TeamID)
	writeSuccess(ctx, w, http.StatusOK, playerToDTO(updated))
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session principal", usecase.ErrUnauthorized))
		return
	}

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	teamID := strings.TrimSpace(r.URL.Query().Get("team_id"))

	if err := h.adminService.DeletePlayer(ctx, principal, playerID); err != nil {
		h.logger.WarnContext(ctx, "delete player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	if teamID != "" {
		h.clubService.InvalidateSquad(ctx, teamID)
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

type assignCoachRequest struct {
	CoachName string `json:"coachName" validate:"required"`
}

func (h *Handler) AssignCoach(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignCoach")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session principal", usecase.ErrUnauthorized))
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))

	var req assignCoachRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid request body", usecase.ErrInvalidInput))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	if err := h.adminService.AssignCoach(ctx, principal, teamID, req.CoachName); err != nil {
		h.logger.WarnContext(ctx, "assign coach failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "assigned"})
}

func playerFromWriteRequest(playerID string, req playerWriteRequest) player.Player {
	return player.Player{
		ID:          playerID,
		TeamID:      strings.TrimSpace(req.TeamID),
		Name:        strings.TrimSpace(req.Name),
		Position:    player.Position(strings.ToUpper(strings.TrimSpace(req.Position))),
		ShirtNumber: req.ShirtNumber,
		Nationality: strings.TrimSpace(req.Nationality),
	}
}
