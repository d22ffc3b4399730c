package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/youth-cup/internal/domain/qualification"
	"github.com/riskibarqy/youth-cup/internal/domain/standing"
	"github.com/riskibarqy/youth-cup/internal/domain/tournament"
	"github.com/riskibarqy/youth-cup/internal/platform/logging"
)

type QualificationService struct {
	store  tournament.Store
	rules  qualification.Rules
	logger *logging.Logger
}

func NewQualificationService(store tournament.Store, rules qualification.Rules, logger *logging.Logger) *QualificationService {
	if logger == nil {
		logger = logging.Default()
	}

	return &QualificationService{
		store:  store,
		rules:  rules,
		logger: logger,
	}
}

// Evaluate runs qualification against the current pool results.
func (s *QualificationService) Evaluate(ctx context.Context) (qualification.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QualificationService.Evaluate")
	defer span.End()

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return qualification.Result{}, fmt.Errorf("load snapshot: %w", err)
	}

	result, err := qualification.Compute(snap.Pools, snap.Teams, snap.Games, s.rules)
	if err != nil {
		s.logger.ErrorContext(ctx, "qualification failed", "error", err)
		return qualification.Result{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	s.logger.InfoContext(ctx, "qualification decided",
		"status", result.Status,
		"completed_games", result.CompletedGames,
		"locked", result.LockedCount(),
		"open_wildcards", result.OpenWildcardSlots,
		"seeded_team_ids", seededTeamIDs(result.Seeds),
		"tied_team_ids", standingTeamIDs(result.TiedCandidates),
	)
	return result, nil
}

func seededTeamIDs(seeds []qualification.Seed) []string {
	out := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		out = append(out, seed.TeamID())
	}
	return out
}

func standingTeamIDs(items []standing.Standing) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.TeamID())
	}
	return out
}
