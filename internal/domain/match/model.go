package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
)

// Match is one fixture between two clubs. Status transitions are driven by
// the upstream backend (SCHEDULED -> LIVE -> FINISHED); this service never
// mutates status except through an explicit admin request.
type Match struct {
	ID         string
	SeasonID   string
	Matchday   int
	HomeTeamID string
	AwayTeamID string
	HomeTeam   string
	AwayTeam   string
	HomeScore  *int
	AwayScore  *int
	KickoffAt  time.Time
	Status     string
	FinishedAt *time.Time
}

// GoalEvent is one goal inside a match. The event list per match is
// append-only once the match is LIVE or FINISHED; events are never
// reordered.
type GoalEvent struct {
	ID       string
	MatchID  string
	Minute   int
	Scorer   string
	Assist   string
	TeamName string
}

// NormalizeStatus collapses the upstream status vocabulary into the three
// canonical values. Providers report phase markers (IN_PLAY, HT, FT, AET, ...)
// that consumers never see; only SCHEDULED, LIVE and FINISHED leave this
// package.
func NormalizeStatus(value string) string {
	switch status := strings.ToUpper(strings.TrimSpace(value)); status {
	case StatusLive, "IN_PLAY", "HT", "1H", "2H", "ET":
		return StatusLive
	case StatusFinished, "FT", "AET", "PEN":
		return StatusFinished
	case "":
		return StatusScheduled
	default:
		return status
	}
}

func IsLiveStatus(status string) bool {
	return NormalizeStatus(status) == StatusLive
}

func IsFinishedStatus(status string) bool {
	return NormalizeStatus(status) == StatusFinished
}
