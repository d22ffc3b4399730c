package pool

import (
	"fmt"
	"strings"
)

// Pool groups teams for the round-robin phase. Membership lives on team.Team.PoolID.
type Pool struct {
	ID   string
	Name string
}

func (p Pool) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("pool id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("pool name is required: pool=%s", p.ID)
	}

	return nil
}
