package player

import "fmt"

type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DF"
	PositionMidfielder Position = "MF"
	PositionForward    Position = "FW"
)

// Player belongs to one club's squad. Owned by the upstream backend; admin
// CRUD on players is a pass-through from this service.
type Player struct {
	ID          string
	TeamID      string
	Name        string
	Position    Position
	ShirtNumber int
	Nationality string
}

// Validate checks the writable fields. ID is allowed to be empty because
// the upstream backend assigns it on create.
func (p Player) Validate() error {
	if p.TeamID == "" {
		return fmt.Errorf("player team id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	switch p.Position {
	case PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward:
	default:
		return fmt.Errorf("unknown player position %q", p.Position)
	}

	return nil
}
