package favorites

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindTeam   Kind = "team"
	KindPlayer Kind = "player"
)

func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindTeam:
		return KindTeam, nil
	case KindPlayer:
		return KindPlayer, nil
	default:
		return "", fmt.Errorf("unknown favorite kind %q", value)
	}
}

// Set holds one user's favorited team and player IDs. Lifecycle is tied to
// the session: cleared on logout, reloaded on login.
type Set struct {
	TeamIDs   map[string]struct{}
	PlayerIDs map[string]struct{}
}

func NewSet() Set {
	return Set{
		TeamIDs:   make(map[string]struct{}),
		PlayerIDs: make(map[string]struct{}),
	}
}

func (s Set) Has(kind Kind, id string) bool {
	_, ok := s.ids(kind)[id]
	return ok
}

func (s Set) Add(kind Kind, id string) {
	s.ids(kind)[id] = struct{}{}
}

func (s Set) Remove(kind Kind, id string) {
	delete(s.ids(kind), id)
}

func (s Set) Clone() Set {
	out := NewSet()
	for id := range s.TeamIDs {
		out.TeamIDs[id] = struct{}{}
	}
	for id := range s.PlayerIDs {
		out.PlayerIDs[id] = struct{}{}
	}
	return out
}

func (s Set) ids(kind Kind) map[string]struct{} {
	if kind == KindPlayer {
		return s.PlayerIDs
	}
	return s.TeamIDs
}
