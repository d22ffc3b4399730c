package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/youth-cup/internal/domain/bracket"
	"github.com/riskibarqy/youth-cup/internal/domain/game"
	"github.com/riskibarqy/youth-cup/internal/domain/qualification"
	"github.com/riskibarqy/youth-cup/internal/domain/tournament"
	idgen "github.com/riskibarqy/youth-cup/internal/platform/id"
	"github.com/riskibarqy/youth-cup/internal/platform/logging"
)

type GenerateBracketInput struct {
	// WildcardTeamIDs settles a pending wildcard tie. Leave empty when qualification is ready.
	WildcardTeamIDs []string
}

type GenerateBracketOutput struct {
	Seeds          []qualification.Seed
	Quarterfinals  []game.Game
	ResolvedByHand bool
}

type BracketService struct {
	store     tournament.Store
	rules     qualification.Rules
	idGen     idgen.Generator
	publisher EventPublisher
	logger    *logging.Logger
	now       func() time.Time
}

func NewBracketService(
	store tournament.Store,
	rules qualification.Rules,
	idGen idgen.Generator,
	publisher EventPublisher,
	logger *logging.Logger,
) *BracketService {
	if logger == nil {
		logger = logging.Default()
	}

	return &BracketService{
		store:     store,
		rules:     rules,
		idGen:     idGen,
		publisher: publisherOrNop(publisher),
		logger:    logger,
		now:       time.Now,
	}
}

// Generate seeds the playoff and creates the four quarterfinals. It runs once; a second
// call fails with ErrConflict. A pending wildcard tie needs WildcardTeamIDs.
func (s *BracketService) Generate(ctx context.Context, input GenerateBracketInput) (GenerateBracketOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BracketService.Generate")
	defer span.End()

	selected := make([]string, 0, len(input.WildcardTeamIDs))
	for _, raw := range input.WildcardTeamIDs {
		if teamID := strings.TrimSpace(raw); teamID != "" {
			selected = append(selected, teamID)
		}
	}

	var out GenerateBracketOutput
	err := s.store.Update(ctx, func(ctx context.Context, snap tournament.Snapshot, repos tournament.Repositories) error {
		if playoffs := snap.PlayoffGames(); len(playoffs) > 0 {
			return fmt.Errorf("%w: bracket already generated with %d playoff game(s)", ErrConflict, len(playoffs))
		}

		result, err := qualification.Compute(snap.Pools, snap.Teams, snap.Games, s.rules)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		switch result.Status {
		case qualification.StatusReady:
			if len(selected) > 0 {
				return fmt.Errorf("%w: no wildcard tie to resolve", ErrInvalidInput)
			}
		case qualification.StatusPending:
			if len(selected) == 0 {
				return fmt.Errorf("%w: %s", ErrNotReady, result.Reason)
			}
			result, err = qualification.Resolve(result, selected)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
			out.ResolvedByHand = true
		default:
			return fmt.Errorf("%w: %s", ErrNotReady, result.Reason)
		}

		stubs, err := bracket.GenerateQuarterfinals(result.Seeds)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		for i := range stubs {
			gameID, err := s.idGen.NewID()
			if err != nil {
				return fmt.Errorf("generate game id: %w", err)
			}
			stubs[i].ID = gameID
		}
		if err := repos.Games.Create(ctx, stubs...); err != nil {
			return fmt.Errorf("create quarterfinals: %w", err)
		}

		out.Seeds = result.Seeds
		out.Quarterfinals = stubs
		return nil
	})
	if err != nil {
		return GenerateBracketOutput{}, err
	}

	s.logger.InfoContext(ctx, "bracket generated",
		"quarterfinals", len(out.Quarterfinals),
		"manual_wildcards", out.ResolvedByHand,
		"seeded_team_ids", seededTeamIDs(out.Seeds),
	)
	publish(ctx, s.publisher, s.logger, Event{Type: EventBracketGenerated, OccurredAt: s.now().UTC(), Payload: out.Quarterfinals})
	return out, nil
}

// View projects the playoff games onto the bracket layout.
func (s *BracketService) View(ctx context.Context) (bracket.Bracket, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BracketService.View")
	defer span.End()

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return bracket.Bracket{}, fmt.Errorf("load snapshot: %w", err)
	}
	playoffs := snap.PlayoffGames()
	if len(playoffs) == 0 {
		return bracket.Bracket{}, fmt.Errorf("%w: bracket has not been generated", ErrNotFound)
	}

	view, err := bracket.Build(playoffs, bracket.SeedsFromQuarterfinals(playoffs))
	if err != nil {
		return bracket.Bracket{}, fmt.Errorf("build bracket: %w", err)
	}
	return view, nil
}

// Advance creates any next-round games whose feeders are decided but which are missing,
// for example after results were imported outside RecordResult.
func (s *BracketService) Advance(ctx context.Context) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BracketService.Advance")
	defer span.End()

	var created []game.Game
	err := s.store.Update(ctx, func(ctx context.Context, snap tournament.Snapshot, repos tournament.Repositories) error {
		stubs, err := bracket.NextRoundStubs(snap.PlayoffGames())
		if err != nil {
			if errors.Is(err, game.ErrPlayoffTie) {
				return fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
			return fmt.Errorf("%w: %w", ErrConflict, err)
		}
		for i := range stubs {
			gameID, err := s.idGen.NewID()
			if err != nil {
				return fmt.Errorf("generate game id: %w", err)
			}
			stubs[i].ID = gameID
		}
		if len(stubs) > 0 {
			if err := repos.Games.Create(ctx, stubs...); err != nil {
				return fmt.Errorf("create next round games: %w", err)
			}
		}
		created = stubs
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(created) > 0 {
		s.logger.InfoContext(ctx, "bracket advanced", "created", len(created))
		publish(ctx, s.publisher, s.logger, Event{Type: EventBracketAdvanced, OccurredAt: s.now().UTC(), Payload: created})
	}
	return created, nil
}
