package httpapi

import (
	"fmt"
	"net/http"
	"sort"

	sonic "github.com/bytedance/sonic"

	"github.com/premhub/premier-hub/internal/domain/favorites"
	"github.com/premhub/premier-hub/internal/usecase"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Login")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session principal", usecase.ErrUnauthorized))
		return
	}

	if err := h.favoritesService.Login(ctx, principal); err != nil {
		h.logger.WarnContext(ctx, "session login failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	set, err := h.favoritesService.Snapshot(principal)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionDTO{
		UserID:    principal.UserID,
		Email:     principal.Email,
		Role:      principal.Role,
		Favorites: favoritesToDTO(set),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Logout")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session principal", usecase.ErrUnauthorized))
		return
	}

	h.favoritesService.Logout(principal.UserID)
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFavorites")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session principal", usecase.ErrUnauthorized))
		return
	}

	set, err := h.favoritesService.Snapshot(principal)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, favoritesToDTO(set))
}

type toggleFavoriteRequest struct {
	Kind string `json:"kind" validate:"required,oneof=team player"`
	ID   string `json:"id" validate:"required"`
}

func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleFavorite")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session principal", usecase.ErrUnauthorized))
		return
	}

	var req toggleFavoriteRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid request body", usecase.ErrInvalidInput))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	kind, err := favorites.ParseKind(req.Kind)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	nowFavorite, err := h.favoritesService.Toggle(ctx, principal, kind, req.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "toggle favorite failed",
			"user_id", principal.UserID,
			"kind", req.Kind,
			"favorite_id", req.ID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toggleFavoriteResponse{
		Kind:     string(kind),
		ID:       req.ID,
		Favorite: nowFavorite,
	})
}

type sessionDTO struct {
	UserID    string       `json:"userId"`
	Email     string       `json:"email,omitempty"`
	Role      string       `json:"role"`
	Favorites favoritesDTO `json:"favorites"`
}

type favoritesDTO struct {
	TeamIDs   []string `json:"teamIds"`
	PlayerIDs []string `json:"playerIds"`
}

type toggleFavoriteResponse struct {
	Kind     string `json:"kind"`
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

func favoritesToDTO(set favorites.Set) favoritesDTO {
	out := favoritesDTO{
		TeamIDs:   make([]string, 0, len(set.TeamIDs)),
		PlayerIDs: make([]string, 0, len(set.PlayerIDs)),
	}
	for id := range set.TeamIDs {
		out.TeamIDs = append(out.TeamIDs, id)
	}
	for id := range set.PlayerIDs {
		out.PlayerIDs = append(out.PlayerIDs, id)
	}
	sort.Strings(out.TeamIDs)
	sort.Strings(out.PlayerIDs)
	return out
}
