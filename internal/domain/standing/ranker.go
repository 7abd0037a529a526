package standing

import (
	"fmt"
	"sort"
)

// ZoneConfig parameterizes qualification and relegation cutoffs by league
// size, so a non-20-team season still classifies sanely.
type ZoneConfig struct {
	LeagueSize           int
	ChampionsLeagueSlots int
	EuropaLeagueSlots    int
	RelegationSlots      int
}

func DefaultZoneConfig() ZoneConfig {
	return ZoneConfig{
		LeagueSize:           20,
		ChampionsLeagueSlots: 4,
		EuropaLeagueSlots:    1,
		RelegationSlots:      3,
	}
}

func normalizeZoneConfig(cfg ZoneConfig) ZoneConfig {
	defaults := DefaultZoneConfig()
	if cfg.LeagueSize < 1 {
		cfg.LeagueSize = defaults.LeagueSize
	}
	if cfg.ChampionsLeagueSlots < 0 {
		cfg.ChampionsLeagueSlots = defaults.ChampionsLeagueSlots
	}
	if cfg.EuropaLeagueSlots < 0 {
		cfg.EuropaLeagueSlots = defaults.EuropaLeagueSlots
	}
	if cfg.RelegationSlots < 0 {
		cfg.RelegationSlots = defaults.RelegationSlots
	}
	return cfg
}

// Ranker orders league table rows into a total order. It is pure: the same
// input multiset always yields the same output sequence, regardless of
// input order, and ranking an already ranked table is a no-op.
//
// Ordering: points desc, then goal difference desc, then goals scored
// desc, then team name asc as the final deterministic tie-break.
//
// The ranker trusts the sort keys; it does not cross-check played against
// won+draw+lost, that is the data source's job. Duplicate team IDs are the
// one integrity violation it inspects: Strict mode rejects them, lenient
// mode keeps the last-seen row per team.
type Ranker struct {
	Zones  ZoneConfig
	Strict bool
}

func NewRanker(zones ZoneConfig) *Ranker {
	return &Ranker{Zones: normalizeZoneConfig(zones)}
}

func (r *Ranker) Rank(rows []Standing) ([]Standing, error) {
	if len(rows) == 0 {
		return []Standing{}, nil
	}

	out := make([]Standing, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for _, row := range rows {
		if idx, dup := seen[row.TeamID]; dup {
			if r.Strict {
				return nil, fmt.Errorf("%w: team_id=%s", ErrDuplicateTeam, row.TeamID)
			}
			out[idx] = row
			continue
		}
		seen[row.TeamID] = len(out)
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})

	zones := normalizeZoneConfig(r.Zones)
	for i := range out {
		out[i].Position = i + 1
		out[i].Zone = zones.Classify(i + 1)
	}

	return out, nil
}

func less(a, b Standing) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.GoalDifference != b.GoalDifference {
		return a.GoalDifference > b.GoalDifference
	}
	if a.GoalsFor != b.GoalsFor {
		return a.GoalsFor > b.GoalsFor
	}
	return a.TeamName < b.TeamName
}

// Classify maps a final position to its qualification zone.
func (cfg ZoneConfig) Classify(position int) Zone {
	cfg = normalizeZoneConfig(cfg)
	if position < 1 {
		return ZoneNone
	}

	switch {
	case position <= cfg.ChampionsLeagueSlots:
		return ZoneChampionsLeague
	case position <= cfg.ChampionsLeagueSlots+cfg.EuropaLeagueSlots:
		return ZoneEuropaLeague
	case position > cfg.LeagueSize-cfg.RelegationSlots:
		return ZoneRelegation
	default:
		return ZoneNone
	}
}
