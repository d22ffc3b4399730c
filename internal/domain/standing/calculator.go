package standing

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/riskibarqy/youth-cup/internal/domain/game"
	"github.com/riskibarqy/youth-cup/internal/domain/team"
)

// Compute ranks every team from the completed games it took part in.
// Teams without completed games get a zero-valued row. Output order depends only on the
// tie-break cascade, never on the order of teams or games in the input.
// A completed game with a missing or negative score fails the whole computation.
func Compute(teams []team.Team, games []game.Game) ([]Standing, error) {
	return compute(teams, games, false)
}

// ComputeRestricted behaves like Compute but only counts games where both sides belong
// to teams, which is how a pool table is built.
func ComputeRestricted(teams []team.Team, games []game.Game) ([]Standing, error) {
	return compute(teams, games, true)
}

func compute(teams []team.Team, games []game.Game, restricted bool) ([]Standing, error) {
	byTeamID := make(map[string]*Standing, len(teams))
	out := make([]Standing, 0, len(teams))
	for _, item := range teams {
		if _, exists := byTeamID[item.ID]; exists {
			continue
		}
		out = append(out, Standing{Team: item})
		byTeamID[item.ID] = nil
	}
	for i := range out {
		byTeamID[out[i].Team.ID] = &out[i]
	}

	for _, g := range games {
		if !g.IsCompleted() {
			continue
		}
		if err := g.ValidateScore(); err != nil {
			return nil, fmt.Errorf("compute standings: %w", err)
		}
		home, homeOK := byTeamID[g.HomeTeamID]
		away, awayOK := byTeamID[g.AwayTeamID]
		if restricted && (!homeOK || !awayOK) {
			continue
		}
		if homeOK {
			home.record(*g.HomeScore, *g.AwayScore)
		}
		if awayOK {
			away.record(*g.AwayScore, *g.HomeScore)
		}
	}

	Sort(out)
	for i := range out {
		out[i].Rank = i + 1
	}

	return out, nil
}

func (s *Standing) record(scored, conceded int) {
	s.GamesPlayed++
	s.GoalsFor += scored
	s.GoalsAgainst += conceded
	s.GoalDifferential = s.GoalsFor - s.GoalsAgainst

	switch {
	case scored > conceded:
		s.Wins++
		s.Points += PointsWin
	case scored < conceded:
		s.Losses++
		s.Points += PointsLoss
	default:
		s.Ties++
		s.Points += PointsTie
	}
}

// Sort orders standings in place by the tie-break cascade.
func Sort(items []Standing) {
	slices.SortStableFunc(items, Compare)
}

// Compare applies the cascade: points desc, goal differential desc, goals for desc,
// goals against asc, fair-play points asc, team name asc. Team ID is the last resort so
// two teams sharing a name still order deterministically.
func Compare(a, b Standing) int {
	if c := cmp.Compare(b.Points, a.Points); c != 0 {
		return c
	}
	if c := cmp.Compare(b.GoalDifferential, a.GoalDifferential); c != 0 {
		return c
	}
	if c := cmp.Compare(b.GoalsFor, a.GoalsFor); c != 0 {
		return c
	}
	if c := cmp.Compare(a.GoalsAgainst, b.GoalsAgainst); c != 0 {
		return c
	}
	if c := cmp.Compare(a.FairPlayPoints(), b.FairPlayPoints()); c != 0 {
		return c
	}
	if c := strings.Compare(a.Team.Name, b.Team.Name); c != 0 {
		return c
	}
	return strings.Compare(a.Team.ID, b.Team.ID)
}

// Blocks splits an already sorted list into maximal runs that are equal under same.
func Blocks(sorted []Standing, same func(a, b Standing) bool) [][]Standing {
	if len(sorted) == 0 {
		return nil
	}

	blocks := make([][]Standing, 0, len(sorted))
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && same(sorted[start], sorted[i]) {
			continue
		}
		blocks = append(blocks, sorted[start:i:i])
		start = i
	}

	return blocks
}
