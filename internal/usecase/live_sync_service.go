package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/premhub/premier-hub/internal/domain/match"
	"github.com/premhub/premier-hub/internal/domain/standing"
	"github.com/premhub/premier-hub/internal/platform/logging"
	"github.com/premhub/premier-hub/internal/platform/poll"
)

// LiveSnapshot is one complete poll result: the season's raw standings,
// all of its matches, and the goal events of every match currently live.
type LiveSnapshot struct {
	SeasonID  string
	Standings []standing.Standing
	Matches   []match.Match
	Events    map[string][]match.GoalEvent
	FetchedAt time.Time
}

type LiveSyncConfig struct {
	SeasonID string
	// Interval between polls; the first poll fires immediately on Start.
	Interval time.Duration
	// MaxConsecutiveFailures stops the loop after this many failed polls
	// in a row. Zero keeps polling forever.
	MaxConsecutiveFailures int
	// EventWorkers bounds the goroutines fetching per-match goal events.
	EventWorkers int
}

// LiveSyncService keeps the standings and match caches warm while matches
// are live. Each poll fetches standings and matches in parallel, fans out
// over the live matches for their goal events, then pushes the snapshot
// into the read-side caches and to subscribers.
type LiveSyncService struct {
	backend   Backend
	standings *StandingsService
	matches   *MatchService
	logger    *logging.Logger
	cfg       LiveSyncConfig

	poller  *poll.Poller[LiveSnapshot]
	workers *ants.Pool

	mu        sync.Mutex
	last      LiveSnapshot
	hasLast   bool
	subs      map[int]func(LiveSnapshot)
	nextSubID int
}

func NewLiveSyncService(
	backend Backend,
	standings *StandingsService,
	matches *MatchService,
	cfg LiveSyncConfig,
	logger *logging.Logger,
) *LiveSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.EventWorkers <= 0 {
		cfg.EventWorkers = 8
	}

	return &LiveSyncService{
		backend:   backend,
		standings: standings,
		matches:   matches,
		logger:    logger,
		cfg:       cfg,
		subs:      make(map[int]func(LiveSnapshot)),
	}
}

func (s *LiveSyncService) Start(ctx context.Context) error {
	if strings.TrimSpace(s.cfg.SeasonID) == "" {
		return fmt.Errorf("%w: live sync season id is required", ErrInvalidInput)
	}

	workers, err := ants.NewPool(s.cfg.EventWorkers, ants.WithNonblocking(false))
	if err != nil {
		return fmt.Errorf("create live event worker pool: %w", err)
	}
	s.workers = workers

	s.poller = poll.New(poll.Config{
		Interval:               s.cfg.Interval,
		MaxConsecutiveFailures: s.cfg.MaxConsecutiveFailures,
		Logger:                 s.logger,
	}, s.fetchSnapshot, s.apply, s.reportError)

	if err := s.poller.Start(ctx); err != nil {
		workers.Release()
		return fmt.Errorf("start live sync poller: %w", err)
	}

	s.logger.InfoContext(ctx, "live sync started",
		"season_id", s.cfg.SeasonID,
		"interval", s.cfg.Interval.String(),
		"event_workers", s.cfg.EventWorkers,
	)

	return nil
}

// Stop halts polling and waits for an in-flight poll to wind down. Safe to
// call multiple times and before Start.
func (s *LiveSyncService) Stop() {
	if s.poller != nil {
		s.poller.Stop()
		if done := s.poller.Done(); done != nil {
			<-done
		}
	}
	if s.workers != nil {
		s.workers.Release()
	}
}

// Last returns the most recent snapshot, if any poll has succeeded yet.
func (s *LiveSyncService) Last() (LiveSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// Subscribe registers fn for every successful poll. The returned cancel
// func removes the subscription.
func (s *LiveSyncService) Subscribe(fn func(LiveSnapshot)) func() {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	s.nextSubID++
	subID := s.nextSubID
	s.subs[subID] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, subID)
		s.mu.Unlock()
	}
}

func (s *LiveSyncService) fetchSnapshot(ctx context.Context) (LiveSnapshot, error) {
	snapshot := LiveSnapshot{
		SeasonID:  s.cfg.SeasonID,
		FetchedAt: time.Now().UTC(),
	}

	grp := pool.New().WithErrors().WithContext(ctx)
	grp.Go(func(ctx context.Context) error {
		rows, err := s.backend.FetchStandings(ctx, s.cfg.SeasonID)
		if err != nil {
			return fmt.Errorf("fetch standings season=%s: %w", s.cfg.SeasonID, err)
		}
		snapshot.Standings = rows
		return nil
	})
	grp.Go(func(ctx context.Context) error {
		items, err := s.backend.FetchMatches(ctx, MatchFilter{SeasonID: s.cfg.SeasonID})
		if err != nil {
			return fmt.Errorf("fetch matches season=%s: %w", s.cfg.SeasonID, err)
		}
		snapshot.Matches = items
		return nil
	})
	if err := grp.Wait(); err != nil {
		return LiveSnapshot{}, err
	}

	snapshot.Events = s.fetchLiveEvents(ctx, snapshot.Matches)

	return snapshot, nil
}

// fetchLiveEvents fans the live matches out over the worker pool. A failed
// event fetch degrades that match to no events rather than failing the
// whole poll.
func (s *LiveSyncService) fetchLiveEvents(ctx context.Context, matches []match.Match) map[string][]match.GoalEvent {
	events := make(map[string][]match.GoalEvent)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, item := range matches {
		if !match.IsLiveStatus(item.Status) {
			continue
		}

		matchID := item.ID
		task := func() {
			defer wg.Done()

			list, err := s.backend.FetchMatchEvents(ctx, matchID)
			if err != nil {
				s.logger.WarnContext(ctx, "live event fetch failed, match skipped this poll",
					"match_id", matchID,
					"error", err,
				)
				return
			}

			mu.Lock()
			events[matchID] = list
			mu.Unlock()
		}

		wg.Add(1)
		if err := s.workers.Submit(task); err != nil {
			// Pool released mid-stop; do the remaining work inline.
			task()
		}
	}
	wg.Wait()

	return events
}

func (s *LiveSyncService) apply(snapshot LiveSnapshot) {
	ctx := context.Background()

	s.standings.Refresh(ctx, snapshot.SeasonID, snapshot.Standings)
	s.matches.RefreshMatches(ctx, MatchFilter{SeasonID: snapshot.SeasonID}, snapshot.Matches)

	live := make([]match.Match, 0, len(snapshot.Events))
	for _, item := range snapshot.Matches {
		if match.IsLiveStatus(item.Status) {
			live = append(live, item)
		}
	}
	s.matches.RefreshMatches(ctx, MatchFilter{SeasonID: snapshot.SeasonID, Status: match.StatusLive}, live)

	s.mu.Lock()
	s.last = snapshot
	s.hasLast = true
	fns := make([]func(LiveSnapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}

	s.logger.Debug("live snapshot applied",
		"season_id", snapshot.SeasonID,
		"standings_rows", len(snapshot.Standings),
		"matches", len(snapshot.Matches),
		"live_matches", len(live),
	)
}

func (s *LiveSyncService) reportError(err error) {
	s.logger.Warn("live poll failed, keeping previous snapshot",
		"season_id", s.cfg.SeasonID,
		"error", err,
	)
}
