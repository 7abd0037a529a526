package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/premhub/premier-hub/external/plbackend"
	"github.com/premhub/premier-hub/internal/config"
	"github.com/premhub/premier-hub/internal/domain/favorites"
	"github.com/premhub/premier-hub/internal/domain/standing"
	"github.com/premhub/premier-hub/internal/infrastructure/account/sessions"
	"github.com/premhub/premier-hub/internal/infrastructure/repository/memory"
	"github.com/premhub/premier-hub/internal/infrastructure/repository/postgres"
	"github.com/premhub/premier-hub/internal/interfaces/httpapi"
	"github.com/premhub/premier-hub/internal/platform/cache"
	idgen "github.com/premhub/premier-hub/internal/platform/id"
	"github.com/premhub/premier-hub/internal/platform/logging"
	"github.com/premhub/premier-hub/internal/platform/resilience"
	"github.com/premhub/premier-hub/internal/usecase"
)

// App owns the wired service graph and the lifecycles that go with it.
type App struct {
	Server   *http.Server
	LiveSync *usecase.LiveSyncService

	db     *sqlx.DB
	logger *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	cacheTTL := cfg.CacheTTL
	if !cfg.CacheEnabled {
		cacheTTL = -1
	}
	store := cache.NewStore(cacheTTL)

	backend := plbackend.NewClient(plbackend.ClientConfig{
		BaseURL:    cfg.BackendBaseURL,
		Token:      cfg.BackendToken,
		Timeout:    cfg.BackendTimeout,
		MaxRetries: cfg.BackendMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.BackendCircuitEnabled,
			FailureThreshold: cfg.BackendCircuitFailureCount,
			OpenTimeout:      cfg.BackendCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.BackendCircuitHalfOpenMaxReq,
		},
	})

	var db *sqlx.DB
	var favoritesRepo favorites.Repository
	if cfg.DBURL != "" {
		opened, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		db = opened
		favoritesRepo = postgres.NewFavoritesRepository(db)
		logger.Info("favorites repository ready", "backend", "postgres")
	} else {
		favoritesRepo = memory.NewFavoritesRepository()
		logger.Info("favorites repository ready", "backend", "memory")
	}

	ranker := standing.NewRanker(standing.ZoneConfig{
		LeagueSize:           cfg.LeagueSize,
		ChampionsLeagueSlots: cfg.ChampionsLeagueSlots,
		EuropaLeagueSlots:    cfg.EuropaLeagueSlots,
		RelegationSlots:      cfg.RelegationSlots,
	})
	ranker.Strict = cfg.StrictStandings

	standingsSvc := usecase.NewStandingsService(backend, ranker, store, logger)
	matchSvc := usecase.NewMatchService(backend, store, logger)
	clubSvc := usecase.NewClubService(backend, store, logger)
	favoritesSvc := usecase.NewFavoritesService(favoritesRepo, logger)
	adminSvc := usecase.NewAdminService(backend, idgen.NewRandomGenerator(), logger)

	var liveSync *usecase.LiveSyncService
	if cfg.LiveSyncEnabled {
		liveSync = usecase.NewLiveSyncService(backend, standingsSvc, matchSvc, usecase.LiveSyncConfig{
			SeasonID:               cfg.LiveSyncSeasonID,
			Interval:               cfg.LiveSyncInterval,
			MaxConsecutiveFailures: cfg.LiveSyncMaxFailures,
			EventWorkers:           cfg.LiveSyncEventWorkers,
		}, logger)
	}

	sessionsClient := sessions.NewClient(
		&http.Client{Timeout: cfg.SessionsTimeout},
		cfg.SessionsBaseURL,
		cfg.SessionsIntrospectPath,
		logger,
	)
	verifier := sessions.NewCachingVerifier(sessionsClient, cfg.SessionsCacheTTL, cfg.SessionsCacheMaxSize)

	handler := httpapi.NewHandler(standingsSvc, matchSvc, clubSvc, favoritesSvc, adminSvc, liveSync, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Server:   server,
		LiveSync: liveSync,
		db:       db,
		logger:   logger,
	}, nil
}

// StartBackground launches the live sync poller. The context bounds the
// poller's fetches, not the call itself.
func (a *App) StartBackground(ctx context.Context) error {
	if a.LiveSync == nil {
		a.logger.Info("live sync disabled")
		return nil
	}
	if err := a.LiveSync.Start(ctx); err != nil {
		return fmt.Errorf("start live sync: %w", err)
	}
	a.logger.Info("live sync started")

	return nil
}

// Shutdown drains the HTTP server, then stops background work and closes
// the database.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error
	if err := a.Server.Shutdown(ctx); err != nil {
		firstErr = err
	}

	if a.LiveSync != nil {
		a.LiveSync.Stop()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// ShutdownTimeout is how long Shutdown waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second
