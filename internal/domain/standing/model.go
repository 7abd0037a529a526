package standing

import (
	"errors"
	"time"
)

// ErrDuplicateTeam marks a table that lists the same team twice.
var ErrDuplicateTeam = errors.New("duplicate team in standings input")

type Zone string

const (
	ZoneNone            Zone = ""
	ZoneChampionsLeague Zone = "CHAMPIONS_LEAGUE"
	ZoneEuropaLeague    Zone = "EUROPA_LEAGUE"
	ZoneRelegation      Zone = "RELEGATION"
)

// Standing is one league table row. The aggregate counters are computed
// upstream; this service only orders and classifies them.
type Standing struct {
	SeasonID        string
	TeamID          string
	TeamName        string
	TeamShort       string
	Position        int
	Played          int
	Won             int
	Draw            int
	Lost            int
	GoalsFor        int
	GoalsAgainst    int
	GoalDifference  int
	Points          int
	Zone            Zone
	SourceUpdatedAt *time.Time
}
