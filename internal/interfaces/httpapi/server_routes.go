package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons/{seasonID}/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/events", handler.ListMatchEvents)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}/players", handler.ListSquad)
	mux.HandleFunc("GET /v1/live", handler.GetLiveSnapshot)
}

func registerSessionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/session/login", RequireAuth(verifier, http.HandlerFunc(handler.Login)))
	mux.Handle("POST /v1/session/logout", RequireAuth(verifier, http.HandlerFunc(handler.Logout)))
	mux.Handle("GET /v1/favorites", RequireAuth(verifier, http.HandlerFunc(handler.ListFavorites)))
	mux.Handle("POST /v1/favorites/toggle", RequireAuth(verifier, http.HandlerFunc(handler.ToggleFavorite)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/admin/matches/{matchID}/start", RequireAuth(verifier, http.HandlerFunc(handler.StartMatch)))
	mux.Handle("POST /v1/admin/matches/{matchID}/finish", RequireAuth(verifier, http.HandlerFunc(handler.FinishMatch)))
	mux.Handle("POST /v1/admin/players", RequireAuth(verifier, http.HandlerFunc(handler.CreatePlayer)))
	mux.Handle("PUT /v1/admin/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdatePlayer)))
	mux.Handle("DELETE /v1/admin/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.DeletePlayer)))
	mux.Handle("PUT /v1/admin/teams/{teamID}/coach", RequireAuth(verifier, http.HandlerFunc(handler.AssignCoach)))
}
