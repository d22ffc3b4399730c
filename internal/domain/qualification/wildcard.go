package qualification

import "github.com/riskibarqy/youth-cup/internal/domain/standing"

type wildcardState int

const (
	// stateLocking: slots remain and every block so far fitted.
	stateLocking wildcardState = iota
	// stateEligible: a tie-block was larger than the remaining slots and awaits a decision.
	stateEligible
	// stateExhausted: all slots consumed.
	stateExhausted
)

type wildcardFold struct {
	state     wildcardState
	remaining int
	locked    []standing.Standing
	eligible  []standing.Standing
}

// sameWildcardTier groups second-place teams for the quota. Only points and goal
// differential are compared; goals for is left out on purpose so blocks are coarser
// than the full ranking cascade.
func sameWildcardTier(a, b standing.Standing) bool {
	return a.Points == b.Points && a.GoalDifferential == b.GoalDifferential
}

// foldWildcards walks the sorted second-place list block by block. A block is locked only
// when it fits entirely in the remaining slots. The first block that does not fit becomes
// the eligible set and ends the walk; nothing after it is considered.
func foldWildcards(sortedSecondPlace []standing.Standing, slots int) wildcardFold {
	fold := wildcardFold{state: stateLocking, remaining: slots}
	if slots <= 0 {
		fold.state = stateExhausted
		return fold
	}

	for _, block := range standing.Blocks(sortedSecondPlace, sameWildcardTier) {
		fold = fold.step(block)
		if fold.state != stateLocking {
			break
		}
	}

	return fold
}

func (f wildcardFold) step(block []standing.Standing) wildcardFold {
	if f.state != stateLocking {
		return f
	}

	if len(block) > f.remaining {
		f.eligible = append(f.eligible, block...)
		f.state = stateEligible
		return f
	}

	f.locked = append(f.locked, block...)
	f.remaining -= len(block)
	if f.remaining == 0 {
		f.state = stateExhausted
	}

	return f
}
