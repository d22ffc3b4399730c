package qualification

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/riskibarqy/youth-cup/internal/domain/game"
	"github.com/riskibarqy/youth-cup/internal/domain/pool"
	"github.com/riskibarqy/youth-cup/internal/domain/standing"
	"github.com/riskibarqy/youth-cup/internal/domain/team"
)

const minCompletedGames = 2

// Compute decides pool winners, wildcards and seeds from pool play.
// Ties at the wildcard boundary are never guessed: they come back as TiedCandidates with
// Status pending. A format that can lock more teams than the playoff holds is an error.
func Compute(pools []pool.Pool, teams []team.Team, games []game.Game, rules Rules) (Result, error) {
	if err := validateRules(rules); err != nil {
		return Result{}, err
	}

	poolGames := make([]game.Game, 0, len(games))
	completed := 0
	for _, g := range games {
		if g.IsPlayoff() {
			continue
		}
		if err := g.ValidateScore(); err != nil {
			return Result{}, fmt.Errorf("qualification: %w", err)
		}
		poolGames = append(poolGames, g)
		if g.IsCompleted() {
			completed++
		}
	}

	result := Result{
		Rules:             rules,
		CompletedGames:    completed,
		OpenWildcardSlots: rules.WildcardSlots,
	}
	if completed < minCompletedGames {
		result.Status = StatusInsufficientData
		result.Reason = fmt.Sprintf("%d completed pool game(s); at least %d required", completed, minCompletedGames)
		return result, nil
	}

	tables, err := buildPoolTables(pools, teams, poolGames)
	if err != nil {
		return Result{}, err
	}
	result.Pools = tables
	for _, table := range result.Pools {
		if table.Winner != nil {
			result.PoolWinners = append(result.PoolWinners, *table.Winner)
		}
		if table.RunnerUp != nil {
			result.SecondPlace = append(result.SecondPlace, *table.RunnerUp)
		}
	}
	standing.Sort(result.PoolWinners)
	standing.Sort(result.SecondPlace)

	if maxWinners := rules.PlayoffSize - rules.WildcardSlots; len(result.PoolWinners) > maxWinners {
		return Result{}, fmt.Errorf("%w: %d pool winners exceed %d automatic places", ErrInvalidFormat, len(result.PoolWinners), maxWinners)
	}

	fold := foldWildcards(result.SecondPlace, rules.WildcardSlots)
	result.LockedWildcards = fold.locked
	result.LockedWildcardCount = len(fold.locked)
	result.OpenWildcardSlots = rules.WildcardSlots - len(fold.locked)
	result.TiedCandidates = fold.eligible

	switch {
	case result.LockedCount() == rules.PlayoffSize:
		result.Status = StatusReady
		result.Seeds = assignSeeds(result.PoolWinners, result.LockedWildcards, nil)
	case len(result.TiedCandidates) > 0:
		result.Status = StatusPending
		result.Reason = fmt.Sprintf(
			"%d wildcard slot(s) open with %d tied candidates: %s",
			result.OpenWildcardSlots,
			len(result.TiedCandidates),
			describe(result.TiedCandidates),
		)
	default:
		result.Status = StatusInsufficientData
		result.Reason = fmt.Sprintf("%d of %d playoff places locked", result.LockedCount(), rules.PlayoffSize)
	}

	return result, nil
}

// Resolve applies an external decision for a pending result. The selection must fill
// every open wildcard slot using only tied candidates.
func Resolve(result Result, selectedTeamIDs []string) (Result, error) {
	if result.Status != StatusPending {
		return Result{}, fmt.Errorf("%w: status=%s", ErrNotPending, result.Status)
	}
	if len(selectedTeamIDs) != result.OpenWildcardSlots {
		return Result{}, fmt.Errorf("%w: expected %d team(s), got %d", ErrInvalidSelection, result.OpenWildcardSlots, len(selectedTeamIDs))
	}

	candidateByID := make(map[string]standing.Standing, len(result.TiedCandidates))
	for _, item := range result.TiedCandidates {
		candidateByID[item.Team.ID] = item
	}

	seen := make(map[string]struct{}, len(selectedTeamIDs))
	selected := make([]standing.Standing, 0, len(selectedTeamIDs))
	for _, raw := range selectedTeamIDs {
		teamID := strings.TrimSpace(raw)
		if _, dup := seen[teamID]; dup {
			return Result{}, fmt.Errorf("%w: duplicate team=%s", ErrInvalidSelection, teamID)
		}
		seen[teamID] = struct{}{}

		item, ok := candidateByID[teamID]
		if !ok {
			return Result{}, fmt.Errorf("%w: team=%s is not a tied wildcard candidate (candidates: %s)", ErrInvalidSelection, teamID, describe(result.TiedCandidates))
		}
		selected = append(selected, item)
	}

	if total := result.LockedCount() + len(selected); total != result.Rules.PlayoffSize {
		return Result{}, fmt.Errorf("%w: selection locks %d of %d playoff places", ErrInvalidSelection, total, result.Rules.PlayoffSize)
	}

	resolved := result
	resolved.LockedWildcards = append(slices.Clone(result.LockedWildcards), selected...)
	standing.Sort(resolved.LockedWildcards)
	resolved.LockedWildcardCount = len(resolved.LockedWildcards)
	resolved.OpenWildcardSlots = 0
	resolved.TiedCandidates = nil
	resolved.Status = StatusReady
	resolved.Reason = ""
	resolved.Seeds = assignSeeds(result.PoolWinners, result.LockedWildcards, selected)

	return resolved, nil
}

func validateRules(rules Rules) error {
	if rules.PlayoffSize < 2 {
		return fmt.Errorf("%w: playoff size must be >= 2, got %d", ErrInvalidFormat, rules.PlayoffSize)
	}
	if rules.WildcardSlots < 0 || rules.WildcardSlots > rules.PlayoffSize {
		return fmt.Errorf("%w: wildcard slots must be within 0..%d, got %d", ErrInvalidFormat, rules.PlayoffSize, rules.WildcardSlots)
	}
	return nil
}

func buildPoolTables(pools []pool.Pool, teams []team.Team, poolGames []game.Game) ([]PoolTable, error) {
	ordered := slices.Clone(pools)
	slices.SortFunc(ordered, func(a, b pool.Pool) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	teamsByPool := make(map[string][]team.Team, len(ordered))
	for _, item := range teams {
		if !item.InPool() {
			continue
		}
		teamsByPool[item.PoolID] = append(teamsByPool[item.PoolID], item)
	}

	out := make([]PoolTable, 0, len(ordered))
	for _, p := range ordered {
		rows, err := standing.ComputeRestricted(teamsByPool[p.ID], poolGames)
		if err != nil {
			return nil, fmt.Errorf("pool=%s: %w", p.ID, err)
		}
		table := PoolTable{
			PoolID:    p.ID,
			PoolName:  p.Name,
			Standings: rows,
		}

		eligible := make([]standing.Standing, 0, 2)
		for _, row := range table.Standings {
			if row.GamesPlayed == 0 {
				continue
			}
			eligible = append(eligible, row)
			if len(eligible) == 2 {
				break
			}
		}
		if len(eligible) > 0 {
			winner := eligible[0]
			table.Winner = &winner
		}
		if len(eligible) > 1 {
			runnerUp := eligible[1]
			table.RunnerUp = &runnerUp
		}

		out = append(out, table)
	}

	return out, nil
}

func assignSeeds(winners, wildcards, manual []standing.Standing) []Seed {
	winnerIDs := make(map[string]struct{}, len(winners))
	for _, item := range winners {
		winnerIDs[item.Team.ID] = struct{}{}
	}
	manualIDs := make(map[string]struct{}, len(manual))
	for _, item := range manual {
		manualIDs[item.Team.ID] = struct{}{}
	}

	merged := make([]standing.Standing, 0, len(winners)+len(wildcards)+len(manual))
	merged = append(merged, winners...)
	merged = append(merged, wildcards...)
	merged = append(merged, manual...)
	standing.Sort(merged)

	seeds := make([]Seed, 0, len(merged))
	for i, item := range merged {
		_, isWinner := winnerIDs[item.Team.ID]
		_, isManual := manualIDs[item.Team.ID]
		seeds = append(seeds, Seed{
			Standing:         item,
			Seed:             i + 1,
			PoolWinner:       isWinner,
			ManuallySelected: isManual,
		})
	}

	return seeds
}

func describe(items []standing.Standing) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s(%s, %dpts, %+dgd)", item.Team.Name, item.Team.ID, item.Points, item.GoalDifferential))
	}
	return strings.Join(parts, ", ")
}
