package bracket

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/riskibarqy/youth-cup/internal/domain/game"
	"github.com/riskibarqy/youth-cup/internal/domain/qualification"
	"github.com/riskibarqy/youth-cup/internal/domain/standing"
	"github.com/riskibarqy/youth-cup/internal/domain/team"
)

const SeedCount = 8

var (
	ErrInvalidSeeds   = errors.New("invalid bracket seeds")
	ErrInvalidBracket = errors.New("invalid bracket state")
)

// Side is one half of a matchup. Exactly one of TeamID and Placeholder is set.
type Side struct {
	TeamID      string
	Seed        int
	Placeholder string
}

func (s Side) Resolved() bool {
	return s.TeamID != ""
}

// Matchup is a bracket slot together with the game instantiated for it, if any.
type Matchup struct {
	Key      string
	Round    string
	Position int
	Home     Side
	Away     Side
	Game     *game.Game
	WinnerID string
}

// Schedulable reports whether the slot has a real game that can be placed on the grid.
func (m Matchup) Schedulable() bool {
	return m.Game != nil && !m.Game.IsCompleted()
}

type Bracket struct {
	Matchups   []Matchup
	ChampionID string
}

func (b Bracket) Matchup(key string) (Matchup, bool) {
	for _, m := range b.Matchups {
		if m.Key == key {
			return m, true
		}
	}
	return Matchup{}, false
}

// GenerateQuarterfinals pairs seeds 1v8, 2v7, 3v6 and 4v5. The better seed is home.
// Stubs carry no ID; the caller assigns one before persisting.
func GenerateQuarterfinals(seeds []qualification.Seed) ([]game.Game, error) {
	bySeed, err := indexSeeds(seeds)
	if err != nil {
		return nil, err
	}

	out := make([]game.Game, 0, len(quarterfinalPairs))
	for i, pair := range quarterfinalPairs {
		out = append(out, game.Game{
			HomeTeamID: bySeed[pair[0]].TeamID(),
			AwayTeamID: bySeed[pair[1]].TeamID(),
			Status:     game.StatusScheduled,
			Round:      game.RoundQuarterfinal,
			Position:   i + 1,
		})
	}

	return out, nil
}

func indexSeeds(seeds []qualification.Seed) (map[int]qualification.Seed, error) {
	if len(seeds) != SeedCount {
		return nil, fmt.Errorf("%w: expected %d seeds, got %d", ErrInvalidSeeds, SeedCount, len(seeds))
	}

	bySeed := make(map[int]qualification.Seed, len(seeds))
	teamSeen := make(map[string]int, len(seeds))
	for _, seed := range seeds {
		teamID := strings.TrimSpace(seed.TeamID())
		if teamID == "" {
			return nil, fmt.Errorf("%w: seed %d has no team", ErrInvalidSeeds, seed.Seed)
		}
		if seed.Seed < 1 || seed.Seed > SeedCount {
			return nil, fmt.Errorf("%w: seed number %d out of range for team=%s", ErrInvalidSeeds, seed.Seed, teamID)
		}
		if _, dup := bySeed[seed.Seed]; dup {
			return nil, fmt.Errorf("%w: seed number %d assigned twice", ErrInvalidSeeds, seed.Seed)
		}
		if other, dup := teamSeen[teamID]; dup {
			return nil, fmt.Errorf("%w: team=%s holds seeds %d and %d", ErrInvalidSeeds, teamID, other, seed.Seed)
		}
		bySeed[seed.Seed] = seed
		teamSeen[teamID] = seed.Seed
	}

	return bySeed, nil
}

// Winner returns the winning team of a completed playoff game. done is false while the
// game is still scheduled. A completed tie is rejected.
func Winner(g game.Game) (teamID string, done bool, err error) {
	if !g.IsPlayoff() {
		return "", false, fmt.Errorf("%w: game=%s is not a playoff game", ErrInvalidBracket, g.ID)
	}
	if !g.IsCompleted() {
		return "", false, nil
	}
	if g.HomeScore == nil || g.AwayScore == nil {
		return "", false, fmt.Errorf("%w: game=%s", game.ErrInvalidScore, g.ID)
	}
	if *g.HomeScore == *g.AwayScore {
		return "", false, fmt.Errorf("%w: game=%s slot=%s", game.ErrPlayoffTie, g.ID, g.SlotKey())
	}

	return g.WinnerID(), true, nil
}

// NextRoundStubs returns stubs for every later-round slot whose feeders are all completed
// and which has no game yet. Home goes to the winner of the lower-numbered feeder.
func NextRoundStubs(games []game.Game) ([]game.Game, error) {
	prop, err := newPropagation()
	if err != nil {
		return nil, err
	}
	bySlot, err := indexPlayoffGames(games)
	if err != nil {
		return nil, err
	}

	var out []game.Game
	for _, key := range prop.order {
		def, err := prop.slot(key)
		if err != nil {
			return nil, err
		}
		if def.Round == game.RoundQuarterfinal {
			continue
		}
		if _, exists := bySlot[key]; exists {
			continue
		}

		homeFeeder, awayFeeder, err := prop.feeders(key)
		if err != nil {
			return nil, err
		}
		homeID, homeDone, err := winnerOfSlot(bySlot, homeFeeder)
		if err != nil {
			return nil, err
		}
		awayID, awayDone, err := winnerOfSlot(bySlot, awayFeeder)
		if err != nil {
			return nil, err
		}
		if !homeDone || !awayDone {
			continue
		}

		out = append(out, game.Game{
			HomeTeamID: homeID,
			AwayTeamID: awayID,
			Status:     game.StatusScheduled,
			Round:      def.Round,
			Position:   def.Position,
		})
	}

	return out, nil
}

// Build projects the playoff games onto the fixed layout. Unresolved sides carry a
// placeholder such as "QF1 Winner" or "Seed 4".
func Build(games []game.Game, seeds []qualification.Seed) (Bracket, error) {
	prop, err := newPropagation()
	if err != nil {
		return Bracket{}, err
	}
	bySlot, err := indexPlayoffGames(games)
	if err != nil {
		return Bracket{}, err
	}
	seedByTeam := make(map[string]int, len(seeds))
	for _, seed := range seeds {
		seedByTeam[seed.TeamID()] = seed.Seed
	}

	var out Bracket
	for _, key := range prop.order {
		def, err := prop.slot(key)
		if err != nil {
			return Bracket{}, err
		}
		m := Matchup{Key: key, Round: def.Round, Position: def.Position}

		if g, ok := bySlot[key]; ok {
			m.Game = &g
			m.Home = Side{TeamID: g.HomeTeamID, Seed: seedByTeam[g.HomeTeamID]}
			m.Away = Side{TeamID: g.AwayTeamID, Seed: seedByTeam[g.AwayTeamID]}
			winnerID, _, err := Winner(g)
			if err != nil {
				return Bracket{}, err
			}
			m.WinnerID = winnerID
		} else if def.Round == game.RoundQuarterfinal {
			pair := quarterfinalPairs[def.Position-1]
			m.Home = Side{Seed: pair[0], Placeholder: fmt.Sprintf("Seed %d", pair[0])}
			m.Away = Side{Seed: pair[1], Placeholder: fmt.Sprintf("Seed %d", pair[1])}
		} else {
			homeFeeder, awayFeeder, err := prop.feeders(key)
			if err != nil {
				return Bracket{}, err
			}
			if m.Home, err = sideFromFeeder(bySlot, homeFeeder, seedByTeam); err != nil {
				return Bracket{}, err
			}
			if m.Away, err = sideFromFeeder(bySlot, awayFeeder, seedByTeam); err != nil {
				return Bracket{}, err
			}
		}

		if def.Round == game.RoundFinal {
			out.ChampionID = m.WinnerID
		}
		out.Matchups = append(out.Matchups, m)
	}

	return out, nil
}

func sideFromFeeder(bySlot map[string]game.Game, feeder string, seedByTeam map[string]int) (Side, error) {
	winnerID, done, err := winnerOfSlot(bySlot, feeder)
	if err != nil {
		return Side{}, err
	}
	if !done {
		return Side{Placeholder: Placeholder(feeder)}, nil
	}
	return Side{TeamID: winnerID, Seed: seedByTeam[winnerID]}, nil
}

func winnerOfSlot(bySlot map[string]game.Game, key string) (string, bool, error) {
	g, ok := bySlot[key]
	if !ok {
		return "", false, nil
	}
	return Winner(g)
}

// Placeholder is the label shown for a side that waits on the winner of slot key.
func Placeholder(key string) string {
	return key + " Winner"
}

func indexPlayoffGames(games []game.Game) (map[string]game.Game, error) {
	bySlot := make(map[string]game.Game)
	for _, g := range games {
		if !g.IsPlayoff() {
			continue
		}
		key := g.SlotKey()
		if key == "" || !slices.ContainsFunc(layout, func(s slotDef) bool { return s.Key == key }) {
			return nil, fmt.Errorf("%w: game=%s has unknown slot round=%s position=%d", ErrInvalidBracket, g.ID, g.Round, g.Position)
		}
		if existing, dup := bySlot[key]; dup {
			return nil, fmt.Errorf("%w: slot %s held by games %s and %s", ErrInvalidBracket, key, existing.ID, g.ID)
		}
		bySlot[key] = g
	}

	return bySlot, nil
}

// SeedsFromQuarterfinals recovers seed numbers from persisted quarterfinal games, which
// keep the 1v8, 2v7, 3v6, 4v5 pairing by position.
func SeedsFromQuarterfinals(games []game.Game) []qualification.Seed {
	var out []qualification.Seed
	for _, g := range games {
		if g.Round != game.RoundQuarterfinal || g.Position < 1 || g.Position > len(quarterfinalPairs) {
			continue
		}
		pair := quarterfinalPairs[g.Position-1]
		out = append(out,
			qualification.Seed{Standing: standing.Standing{Team: team.Team{ID: g.HomeTeamID}}, Seed: pair[0]},
			qualification.Seed{Standing: standing.Standing{Team: team.Team{ID: g.AwayTeamID}}, Seed: pair[1]},
		)
	}
	slices.SortFunc(out, func(a, b qualification.Seed) int { return a.Seed - b.Seed })
	return out
}
