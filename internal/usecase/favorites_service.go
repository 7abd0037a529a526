package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/premhub/premier-hub/internal/domain/favorites"
	"github.com/premhub/premier-hub/internal/domain/user"
	"github.com/premhub/premier-hub/internal/platform/logging"
)

type favoriteKey struct {
	userID string
	kind   favorites.Kind
	id     string
}

// FavoritesService keeps each user's favorite sets in memory for O(1)
// lookups and flips them optimistically on toggle: the in-memory state
// changes first, then the repository write is awaited, and a write failure
// rolls the flip back.
//
// Rollbacks are guarded by a per-(user,kind,id) generation counter so a
// failure from an older toggle never clobbers the optimistic state of a
// newer one already in flight.
type FavoritesService struct {
	repo   favorites.Repository
	logger *logging.Logger

	mu          sync.Mutex
	sets        map[string]favorites.Set
	generations map[favoriteKey]uint64
	subscribers map[string]map[int]func(favorites.Set)
	nextSubID   int
}

func NewFavoritesService(repo favorites.Repository, logger *logging.Logger) *FavoritesService {
	if logger == nil {
		logger = logging.Default()
	}

	return &FavoritesService{
		repo:        repo,
		logger:      logger,
		sets:        make(map[string]favorites.Set),
		generations: make(map[favoriteKey]uint64),
		subscribers: make(map[string]map[int]func(favorites.Set)),
	}
}

// Login clears any cached set for the identity and loads a fresh one from
// the repository. The clear happens before the load, so stale data from a
// previous session is never visible, even if the load fails.
func (s *FavoritesService) Login(ctx context.Context, principal user.Principal) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.FavoritesService.Login")
	defer span.End()

	if strings.TrimSpace(principal.UserID) == "" {
		return fmt.Errorf("%w: favorites require an authenticated session", ErrUnauthorized)
	}

	s.mu.Lock()
	s.sets[principal.UserID] = favorites.NewSet()
	s.mu.Unlock()
	s.notify(principal.UserID)

	loaded, err := s.repo.ListByUser(ctx, principal.UserID)
	if err != nil {
		return fmt.Errorf("load favorites user=%s: %w", principal.UserID, err)
	}

	s.mu.Lock()
	s.sets[principal.UserID] = loaded.Clone()
	s.mu.Unlock()
	s.notify(principal.UserID)

	return nil
}

// Logout drops the user's cached set immediately.
func (s *FavoritesService) Logout(userID string) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return
	}

	s.mu.Lock()
	delete(s.sets, userID)
	s.mu.Unlock()
	s.notify(userID)
}

func (s *FavoritesService) IsFavorite(principal user.Principal, kind favorites.Kind, id string) bool {
	if principal.UserID == "" || id == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[principal.UserID]
	if !ok {
		return false
	}
	return set.Has(kind, id)
}

// Snapshot returns a copy of the user's current favorite sets.
func (s *FavoritesService) Snapshot(principal user.Principal) (favorites.Set, error) {
	if strings.TrimSpace(principal.UserID) == "" {
		return favorites.Set{}, fmt.Errorf("%w: favorites require an authenticated session", ErrUnauthorized)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[principal.UserID]
	if !ok {
		return favorites.NewSet(), nil
	}
	return set.Clone(), nil
}

// Toggle flips the favorite state for one id. The flip is applied to the
// in-memory set before the repository write; the caller sees the final
// (possibly rolled back) state via the returned bool and error.
func (s *FavoritesService) Toggle(ctx context.Context, principal user.Principal, kind favorites.Kind, id string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FavoritesService.Toggle")
	defer span.End()

	if strings.TrimSpace(principal.UserID) == "" {
		return false, fmt.Errorf("%w: favorites require an authenticated session", ErrUnauthorized)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return false, fmt.Errorf("%w: favorite id is required", ErrInvalidInput)
	}
	switch kind {
	case favorites.KindTeam, favorites.KindPlayer:
	default:
		return false, fmt.Errorf("%w: unknown favorite kind %q", ErrInvalidInput, kind)
	}

	key := favoriteKey{userID: principal.UserID, kind: kind, id: id}

	s.mu.Lock()
	set, ok := s.sets[principal.UserID]
	if !ok {
		set = favorites.NewSet()
		s.sets[principal.UserID] = set
	}
	wasFavorite := set.Has(kind, id)
	if wasFavorite {
		set.Remove(kind, id)
	} else {
		set.Add(kind, id)
	}
	s.generations[key]++
	generation := s.generations[key]
	s.mu.Unlock()
	s.notify(principal.UserID)

	var err error
	if wasFavorite {
		err = s.repo.Remove(ctx, principal.UserID, kind, id)
	} else {
		err = s.repo.Add(ctx, principal.UserID, kind, id)
	}
	if err == nil {
		return !wasFavorite, nil
	}

	rolledBack := s.rollback(key, wasFavorite, generation)
	if rolledBack {
		s.notify(principal.UserID)
	}
	s.logger.WarnContext(ctx, "favorite toggle rejected, optimistic state reverted",
		"user_id", principal.UserID,
		"kind", string(kind),
		"favorite_id", id,
		"rolled_back", rolledBack,
		"error", err,
	)

	return wasFavorite, fmt.Errorf("toggle favorite %s=%s: %w", kind, id, err)
}

// Subscribe registers fn for every change to the user's set. The returned
// cancel func removes the subscription.
func (s *FavoritesService) Subscribe(userID string, fn func(favorites.Set)) func() {
	if strings.TrimSpace(userID) == "" || fn == nil {
		return func() {}
	}

	s.mu.Lock()
	subs, ok := s.subscribers[userID]
	if !ok {
		subs = make(map[int]func(favorites.Set))
		s.subscribers[userID] = subs
	}
	s.nextSubID++
	subID := s.nextSubID
	subs[subID] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		if subs, ok := s.subscribers[userID]; ok {
			delete(subs, subID)
			if len(subs) == 0 {
				delete(s.subscribers, userID)
			}
		}
		s.mu.Unlock()
	}
}

// rollback restores the pre-toggle state unless a newer toggle on the same
// key has superseded this one. Reports whether it applied.
func (s *FavoritesService) rollback(key favoriteKey, wasFavorite bool, generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generations[key] != generation {
		return false
	}
	set, ok := s.sets[key.userID]
	if !ok {
		return false
	}
	if wasFavorite {
		set.Add(key.kind, key.id)
	} else {
		set.Remove(key.kind, key.id)
	}
	return true
}

func (s *FavoritesService) notify(userID string) {
	s.mu.Lock()
	subs := s.subscribers[userID]
	fns := make([]func(favorites.Set), 0, len(subs))
	for _, fn := range subs {
		fns = append(fns, fn)
	}
	var snapshot favorites.Set
	if set, ok := s.sets[userID]; ok {
		snapshot = set.Clone()
	} else {
		snapshot = favorites.NewSet()
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}
