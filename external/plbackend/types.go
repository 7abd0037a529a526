package plbackend

import (
	"strings"
	"time"

	"github.com/premhub/premier-hub/internal/domain/match"
	"github.com/premhub/premier-hub/internal/domain/player"
	"github.com/premhub/premier-hub/internal/domain/standing"
	"github.com/premhub/premier-hub/internal/domain/team"
)

type standingsEnvelope struct {
	Data []standingItem `json:"data"`
}

type standingItem struct {
	TeamID       string `json:"team_id"`
	TeamName     string `json:"team_name"`
	TeamShort    string `json:"team_short"`
	Played       int    `json:"played"`
	Won          int    `json:"won"`
	Draw         int    `json:"draw"`
	Lost         int    `json:"lost"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	Points       int    `json:"points"`
	UpdatedAt    string `json:"updated_at"`
}

type matchesEnvelope struct {
	Data []matchItem `json:"data"`
}

type matchEnvelope struct {
	Data matchItem `json:"data"`
}

type matchItem struct {
	ID         string `json:"id"`
	SeasonID   string `json:"season_id"`
	Matchday   int    `json:"matchday"`
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	HomeScore  *int   `json:"home_score"`
	AwayScore  *int   `json:"away_score"`
	KickoffAt  string `json:"kickoff_at"`
	Status     string `json:"status"`
	FinishedAt string `json:"finished_at"`
}

type eventsEnvelope struct {
	Data []eventItem `json:"data"`
}

type eventItem struct {
	ID       string `json:"id"`
	MatchID  string `json:"match_id"`
	Minute   int    `json:"minute"`
	Scorer   string `json:"scorer"`
	Assist   string `json:"assist"`
	TeamName string `json:"team_name"`
}

type teamsEnvelope struct {
	Data []teamItem `json:"data"`
}

type teamItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Short   string `json:"short"`
	City    string `json:"city"`
	Stadium string `json:"stadium"`
	LogoURL string `json:"logo_url"`
}

type playersEnvelope struct {
	Data []playerItem `json:"data"`
}

type playerEnvelope struct {
	Data playerItem `json:"data"`
}

type playerItem struct {
	ID          string `json:"id"`
	TeamID      string `json:"team_id"`
	Name        string `json:"name"`
	Position    string `json:"position"`
	ShirtNumber int    `json:"shirt_number"`
	Nationality string `json:"nationality"`
}

type coachAssignmentBody struct {
	CoachName string `json:"coach_name"`
}

func mapStanding(seasonID string, item standingItem) standing.Standing {
	return standing.Standing{
		SeasonID:        seasonID,
		TeamID:          strings.TrimSpace(item.TeamID),
		TeamName:        strings.TrimSpace(item.TeamName),
		TeamShort:       strings.TrimSpace(item.TeamShort),
		Played:          item.Played,
		Won:             item.Won,
		Draw:            item.Draw,
		Lost:            item.Lost,
		GoalsFor:        item.GoalsFor,
		GoalsAgainst:    item.GoalsAgainst,
		GoalDifference:  item.GoalsFor - item.GoalsAgainst,
		Points:          item.Points,
		SourceUpdatedAt: parseBackendTime(item.UpdatedAt),
	}
}

func mapMatch(item matchItem) match.Match {
	out := match.Match{
		ID:         strings.TrimSpace(item.ID),
		SeasonID:   strings.TrimSpace(item.SeasonID),
		Matchday:   item.Matchday,
		HomeTeamID: strings.TrimSpace(item.HomeTeamID),
		AwayTeamID: strings.TrimSpace(item.AwayTeamID),
		HomeTeam:   strings.TrimSpace(item.HomeTeam),
		AwayTeam:   strings.TrimSpace(item.AwayTeam),
		HomeScore:  item.HomeScore,
		AwayScore:  item.AwayScore,
		Status:     match.NormalizeStatus(item.Status),
		FinishedAt: parseBackendTime(item.FinishedAt),
	}
	if parsed := parseBackendTime(item.KickoffAt); parsed != nil {
		out.KickoffAt = *parsed
	}
	return out
}

func mapEvent(item eventItem) match.GoalEvent {
	return match.GoalEvent{
		ID:       strings.TrimSpace(item.ID),
		MatchID:  strings.TrimSpace(item.MatchID),
		Minute:   item.Minute,
		Scorer:   strings.TrimSpace(item.Scorer),
		Assist:   strings.TrimSpace(item.Assist),
		TeamName: strings.TrimSpace(item.TeamName),
	}
}

func mapTeam(item teamItem) team.Team {
	return team.Team{
		ID:      strings.TrimSpace(item.ID),
		Name:    strings.TrimSpace(item.Name),
		Short:   strings.TrimSpace(item.Short),
		City:    strings.TrimSpace(item.City),
		Stadium: strings.TrimSpace(item.Stadium),
		LogoURL: strings.TrimSpace(item.LogoURL),
	}
}

func mapPlayer(item playerItem) player.Player {
	return player.Player{
		ID:          strings.TrimSpace(item.ID),
		TeamID:      strings.TrimSpace(item.TeamID),
		Name:        strings.TrimSpace(item.Name),
		Position:    player.Position(strings.ToUpper(strings.TrimSpace(item.Position))),
		ShirtNumber: item.ShirtNumber,
		Nationality: strings.TrimSpace(item.Nationality),
	}
}

func playerToItem(item player.Player) playerItem {
	return playerItem{
		ID:          item.ID,
		TeamID:      item.TeamID,
		Name:        item.Name,
		Position:    string(item.Position),
		ShirtNumber: item.ShirtNumber,
		Nationality: item.Nationality,
	}
}

func parseBackendTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}
