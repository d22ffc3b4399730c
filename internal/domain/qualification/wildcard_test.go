package qualification

import (
	"fmt"
	"testing"

	"github.com/riskibarqy/youth-cup/internal/domain/standing"
	"github.com/riskibarqy/youth-cup/internal/domain/team"
)

func secondPlace(points ...int) []standing.Standing {
	out := make([]standing.Standing, 0, len(points))
	for i, p := range points {
		id := fmt.Sprintf("t%d", i+1)
		out = append(out, standing.Standing{Team: team.Team{ID: id, Name: id}, Points: p})
	}
	standing.Sort(out)
	return out
}

func TestFoldWildcards(t *testing.T) {
	tests := []struct {
		name         string
		points       []int
		slots        int
		wantLocked   int
		wantEligible int
		wantState    wildcardState
	}{
		{name: "three way tie exceeds two slots", points: []int{10, 10, 10, 8}, slots: 2, wantLocked: 0, wantEligible: 3, wantState: stateEligible},
		{name: "leader locks then tie exceeds last slot", points: []int{10, 9, 9, 8}, slots: 2, wantLocked: 1, wantEligible: 2, wantState: stateEligible},
		{name: "tie block fits exactly", points: []int{10, 10, 8}, slots: 2, wantLocked: 2, wantEligible: 0, wantState: stateExhausted},
		{name: "distinct values", points: []int{12, 10, 8, 6}, slots: 2, wantLocked: 2, wantEligible: 0, wantState: stateExhausted},
		{name: "fewer candidates than slots", points: []int{7}, slots: 2, wantLocked: 1, wantEligible: 0, wantState: stateLocking},
		{name: "no slots", points: []int{7, 6}, slots: 0, wantLocked: 0, wantEligible: 0, wantState: stateExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fold := foldWildcards(secondPlace(tt.points...), tt.slots)
			if len(fold.locked) != tt.wantLocked {
				t.Fatalf("locked=%d want=%d", len(fold.locked), tt.wantLocked)
			}
			if len(fold.eligible) != tt.wantEligible {
				t.Fatalf("eligible=%d want=%d", len(fold.eligible), tt.wantEligible)
			}
			if fold.state != tt.wantState {
				t.Fatalf("state=%d want=%d", fold.state, tt.wantState)
			}
		})
	}
}

func TestSameWildcardTier_IgnoresGoalsFor(t *testing.T) {
	a := standing.Standing{Points: 6, GoalDifferential: 2, GoalsFor: 8}
	b := standing.Standing{Points: 6, GoalDifferential: 2, GoalsFor: 3}
	if !sameWildcardTier(a, b) {
		t.Fatalf("expected teams differing only in goals for to share a tier")
	}

	b.GoalDifferential = 1
	if sameWildcardTier(a, b) {
		t.Fatalf("expected goal differential to split tiers")
	}
}
