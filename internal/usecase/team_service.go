package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/youth-cup/internal/domain/team"
	"github.com/riskibarqy/youth-cup/internal/domain/tournament"
	idgen "github.com/riskibarqy/youth-cup/internal/platform/id"
	"github.com/riskibarqy/youth-cup/internal/platform/logging"
)

type RegisterTeamInput struct {
	Name           string
	Captain        string
	Contact        string
	PoolID         string
	FairPlayPoints int
}

type TeamService struct {
	store     tournament.Store
	idGen     idgen.Generator
	publisher EventPublisher
	logger    *logging.Logger
	now       func() time.Time
}

func NewTeamService(store tournament.Store, idGen idgen.Generator, publisher EventPublisher, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		store:     store,
		idGen:     idGen,
		publisher: publisherOrNop(publisher),
		logger:    logger,
		now:       time.Now,
	}
}

func (s *TeamService) List(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	return snap.Teams, nil
}

func (s *TeamService) Register(ctx context.Context, input RegisterTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Register")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.Captain = strings.TrimSpace(input.Captain)
	input.Contact = strings.TrimSpace(input.Contact)
	input.PoolID = strings.TrimSpace(input.PoolID)
	if input.Name == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if input.FairPlayPoints < 0 {
		return team.Team{}, fmt.Errorf("%w: fair play points must be >= 0", ErrInvalidInput)
	}

	teamID, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}
	item := team.Team{
		ID:             teamID,
		Name:           input.Name,
		Captain:        input.Captain,
		Contact:        input.Contact,
		PoolID:         input.PoolID,
		FairPlayPoints: input.FairPlayPoints,
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err = s.store.Update(ctx, func(ctx context.Context, snap tournament.Snapshot, repos tournament.Repositories) error {
		for _, existing := range snap.Teams {
			if strings.EqualFold(existing.Name, item.Name) {
				return fmt.Errorf("%w: team name %q is taken", ErrConflict, item.Name)
			}
		}
		if item.PoolID != "" {
			if _, ok := snap.Pool(item.PoolID); !ok {
				return fmt.Errorf("%w: pool=%s", ErrNotFound, item.PoolID)
			}
		}
		if err := repos.Teams.Create(ctx, item); err != nil {
			return fmt.Errorf("create team: %w", err)
		}
		return nil
	})
	if err != nil {
		return team.Team{}, err
	}

	s.logger.InfoContext(ctx, "team registered", "team_id", item.ID, "name", item.Name, "pool_id", item.PoolID)
	publish(ctx, s.publisher, s.logger, Event{Type: EventTeamRegistered, OccurredAt: s.now().UTC(), Payload: item})
	return item, nil
}

// AssignPool moves a team into a pool. A team that already has pool games keeps its pool.
func (s *TeamService) AssignPool(ctx context.Context, teamID, poolID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.AssignPool")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	poolID = strings.TrimSpace(poolID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if poolID == "" {
		return team.Team{}, fmt.Errorf("%w: pool id is required", ErrInvalidInput)
	}

	var updated team.Team
	err := s.store.Update(ctx, func(ctx context.Context, snap tournament.Snapshot, repos tournament.Repositories) error {
		item, ok := snap.Team(teamID)
		if !ok {
			return fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
		}
		if _, ok := snap.Pool(poolID); !ok {
			return fmt.Errorf("%w: pool=%s", ErrNotFound, poolID)
		}
		if item.PoolID == poolID {
			updated = item
			return nil
		}
		for _, g := range snap.PoolGames() {
			if g.HasTeam(teamID) {
				return fmt.Errorf("%w: team=%s already has pool games in pool=%s", ErrConflict, teamID, item.PoolID)
			}
		}

		item.PoolID = poolID
		if err := repos.Teams.Update(ctx, item); err != nil {
			return fmt.Errorf("update team: %w", err)
		}
		updated = item
		return nil
	})
	if err != nil {
		return team.Team{}, err
	}

	return updated, nil
}

// SetFairPlayPoints records disciplinary points used as a late standings tiebreak.
func (s *TeamService) SetFairPlayPoints(ctx context.Context, teamID string, points int) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.SetFairPlayPoints")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if points < 0 {
		return team.Team{}, fmt.Errorf("%w: fair play points must be >= 0", ErrInvalidInput)
	}

	var updated team.Team
	err := s.store.Update(ctx, func(ctx context.Context, snap tournament.Snapshot, repos tournament.Repositories) error {
		item, ok := snap.Team(teamID)
		if !ok {
			return fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
		}
		item.FairPlayPoints = points
		if err := repos.Teams.Update(ctx, item); err != nil {
			return fmt.Errorf("update team: %w", err)
		}
		updated = item
		return nil
	})
	if err != nil {
		return team.Team{}, err
	}

	s.logger.InfoContext(ctx, "fair play points updated", "team_id", teamID, "points", points)
	return updated, nil
}

func publish(ctx context.Context, publisher EventPublisher, logger *logging.Logger, event Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "publish tournament event failed", "type", event.Type, "error", err)
	}
}
