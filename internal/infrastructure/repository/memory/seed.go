package memory

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/youth-cup/internal/domain/game"
	"github.com/riskibarqy/youth-cup/internal/domain/pool"
	"github.com/riskibarqy/youth-cup/internal/domain/team"
)

// seedClubs holds four clubs per pool. Six pools feed six winners and two wildcards
// into the eight-team playoff.
var seedClubs = [][]string{
	{"Riverside Rovers", "Oak Park United", "Harbor City FC", "Northgate Athletic"},
	{"Maple Leaf SC", "Eastside Eagles", "Valley Falcons", "Westfield Wanderers"},
	{"Lakeshore Lions", "Summit Strikers", "Pinecrest Panthers", "Bayview Blaze"},
	{"Granite Hill FC", "Meadowbrook Mavericks", "Cedar Grove Celtic", "Southport Sharks"},
	{"Ironwood Athletic", "Brookside Bulldogs", "Fairview Foxes", "Kingsway Kickers"},
	{"Silver Lake SC", "Redwood Rangers", "Highland Hawks", "Coastal Comets"},
}

func SeedPools() []pool.Pool {
	out := make([]pool.Pool, 0, len(seedClubs))
	for i := range seedClubs {
		letter := string(rune('A' + i))
		out = append(out, pool.Pool{
			ID:   "pool-" + strings.ToLower(letter),
			Name: "Pool " + letter,
		})
	}
	return out
}

func SeedTeams() []team.Team {
	pools := SeedPools()
	out := make([]team.Team, 0, len(seedClubs)*4)
	for i, clubs := range seedClubs {
		letter := strings.ToLower(string(rune('A' + i)))
		for j, name := range clubs {
			out = append(out, team.Team{
				ID:      fmt.Sprintf("team-%s%d", letter, j+1),
				Name:    name,
				Captain: fmt.Sprintf("Captain %s%d", strings.ToUpper(letter), j+1),
				PoolID:  pools[i].ID,
			})
		}
	}
	return out
}

// SeedGames returns the full unscheduled round robin for every seeded pool.
func SeedGames() []game.Game {
	teams := SeedTeams()
	byPool := make(map[string][]team.Team)
	for _, item := range teams {
		byPool[item.PoolID] = append(byPool[item.PoolID], item)
	}

	var out []game.Game
	for _, p := range SeedPools() {
		members := byPool[p.ID]
		n := 0
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				n++
				out = append(out, game.Game{
					ID:         fmt.Sprintf("game-%s-%d", strings.TrimPrefix(p.ID, "pool-"), n),
					HomeTeamID: members[i].ID,
					AwayTeamID: members[j].ID,
					PoolID:     p.ID,
					Status:     game.StatusScheduled,
				})
			}
		}
	}
	return out
}
