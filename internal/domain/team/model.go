package team

import (
	"fmt"
	"strings"
)

// Team is a registered youth side. PoolID is empty until the team is drawn into a pool.
type Team struct {
	ID             string
	Name           string
	Captain        string
	Contact        string
	PoolID         string
	FairPlayPoints int
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required: team=%s", t.ID)
	}
	if t.FairPlayPoints < 0 {
		return fmt.Errorf("fair play points must be >= 0: team=%s", t.ID)
	}

	return nil
}

func (t Team) InPool() bool {
	return strings.TrimSpace(t.PoolID) != ""
}
