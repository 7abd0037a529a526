package team

import "fmt"

// Team is a Premier League club. Reference data within a session; the
// upstream backend owns it.
type Team struct {
	ID      string
	Name    string
	Short   string
	City    string
	Stadium string
	LogoURL string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
