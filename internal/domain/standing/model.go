package standing

import "github.com/riskibarqy/youth-cup/internal/domain/team"

const (
	PointsWin  = 3
	PointsTie  = 1
	PointsLoss = 0
)

// Standing is a team's derived record. It is recomputed from completed games on every call
// and never persisted.
type Standing struct {
	Team             team.Team
	Rank             int
	GamesPlayed      int
	Wins             int
	Ties             int
	Losses           int
	GoalsFor         int
	GoalsAgainst     int
	GoalDifferential int
	Points           int
}

func (s Standing) TeamID() string {
	return s.Team.ID
}

func (s Standing) FairPlayPoints() int {
	return s.Team.FairPlayPoints
}
