package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/youth-cup/internal/domain/game"
	"github.com/riskibarqy/youth-cup/internal/domain/schedule"
	"github.com/riskibarqy/youth-cup/internal/domain/tournament"
	"github.com/riskibarqy/youth-cup/internal/platform/logging"
)

const defaultAuditWorkers = 4

type SlotInput struct {
	GameID    string
	StartTime string
	Field     string
}

// ValidateSlotInput checks a placement without saving it. GameID may be empty when the
// editor is probing a game that does not exist yet; the teams are then required.
type ValidateSlotInput struct {
	GameID     string
	HomeTeamID string
	AwayTeamID string
	StartTime  string
	Field      string
}

type ScheduleService struct {
	store        tournament.Store
	cfg          schedule.Config
	publisher    EventPublisher
	logger       *logging.Logger
	auditWorkers int
	now          func() time.Time
}

func NewScheduleService(
	store tournament.Store,
	cfg schedule.Config,
	auditWorkers int,
	publisher EventPublisher,
	logger *logging.Logger,
) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}
	if auditWorkers <= 0 {
		auditWorkers = defaultAuditWorkers
	}

	return &ScheduleService{
		store:        store,
		cfg:          cfg,
		publisher:    publisherOrNop(publisher),
		logger:       logger,
		auditWorkers: auditWorkers,
		now:          time.Now,
	}
}

func (s *ScheduleService) Config() schedule.Config {
	return s.cfg
}

func (s *ScheduleService) StartTimes(ctx context.Context) ([]string, error) {
	_, span := startUsecaseSpan(ctx, "usecase.ScheduleService.StartTimes")
	defer span.End()

	times, err := schedule.ListAvailableStartTimes(s.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if times == nil {
		times = []string{}
	}
	return times, nil
}

func (s *ScheduleService) Grid(ctx context.Context) (schedule.Grid, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Grid")
	defer span.End()

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return schedule.Grid{}, fmt.Errorf("load snapshot: %w", err)
	}
	grid, err := schedule.BuildGrid(snap.Games, s.cfg)
	if err != nil {
		return schedule.Grid{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return grid, nil
}

// Validate reports the first conflict a placement would cause, or nil when it is free.
func (s *ScheduleService) Validate(ctx context.Context, input ValidateSlotInput) (*schedule.Conflict, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Validate", slotAttributes(input.GameID, input.StartTime, input.Field)...)
	defer span.End()

	input.GameID = strings.TrimSpace(input.GameID)
	proposed := game.Game{
		ID:         input.GameID,
		HomeTeamID: strings.TrimSpace(input.HomeTeamID),
		AwayTeamID: strings.TrimSpace(input.AwayTeamID),
		StartTime:  strings.TrimSpace(input.StartTime),
		Field:      strings.TrimSpace(input.Field),
	}
	if proposed.StartTime == "" || proposed.Field == "" {
		return nil, fmt.Errorf("%w: start time and field are required", ErrInvalidInput)
	}

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if input.GameID != "" {
		existing, ok := snap.Game(input.GameID)
		if !ok {
			return nil, fmt.Errorf("%w: game=%s", ErrNotFound, input.GameID)
		}
		proposed.HomeTeamID = existing.HomeTeamID
		proposed.AwayTeamID = existing.AwayTeamID
	}
	if proposed.HomeTeamID == "" || proposed.AwayTeamID == "" {
		return nil, fmt.Errorf("%w: game id or both teams are required", ErrInvalidInput)
	}

	conflict, err := schedule.ValidateAssignment(proposed, snap.Games, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return conflict, nil
}

// Assign places a game on a start time and field. The check is repeated inside the
// store's write lock, so two editors cannot both take the same slot.
func (s *ScheduleService) Assign(ctx context.Context, input SlotInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Assign", slotAttributes(input.GameID, input.StartTime, input.Field)...)
	defer span.End()

	input.GameID = strings.TrimSpace(input.GameID)
	input.Field = strings.TrimSpace(input.Field)
	if input.GameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if input.Field == "" {
		return game.Game{}, fmt.Errorf("%w: field is required", ErrInvalidInput)
	}
	start, err := schedule.NormalizeTime(input.StartTime)
	if err != nil {
		return game.Game{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var updated game.Game
	err = s.store.Update(ctx, func(ctx context.Context, snap tournament.Snapshot, repos tournament.Repositories) error {
		item, ok := snap.Game(input.GameID)
		if !ok {
			return fmt.Errorf("%w: game=%s", ErrNotFound, input.GameID)
		}
		if item.IsCompleted() {
			return fmt.Errorf("%w: game=%s is already completed", ErrConflict, item.ID)
		}

		item.StartTime = start
		item.Field = input.Field
		if err := checkPlacement(item, snap.Games, s.cfg); err != nil {
			return err
		}
		if err := repos.Games.Update(ctx, item); err != nil {
			return fmt.Errorf("update game: %w", err)
		}
		updated = item
		return nil
	})
	if err != nil {
		var conflictErr *ScheduleConflictError
		if errors.As(err, &conflictErr) {
			s.logger.InfoContext(ctx, "schedule assignment rejected",
				"game_id", input.GameID,
				"start", start,
				"field", input.Field,
				"kind", conflictErr.Conflict.Kind,
				"conflicting_game_id", conflictErr.Conflict.ConflictingGameID,
			)
		}
		return game.Game{}, err
	}

	s.logger.InfoContext(ctx, "slot assigned", "game_id", updated.ID, "start", updated.StartTime, "field", updated.Field)
	publish(ctx, s.publisher, s.logger, Event{Type: EventScheduleAssigned, OccurredAt: s.now().UTC(), Payload: updated})
	return updated, nil
}

// Unassign clears a game's start time and field.
func (s *ScheduleService) Unassign(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Unassign", slotAttributes(gameID, "", "")...)
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	var updated game.Game
	err := s.store.Update(ctx, func(ctx context.Context, snap tournament.Snapshot, repos tournament.Repositories) error {
		item, ok := snap.Game(gameID)
		if !ok {
			return fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
		}
		if item.IsCompleted() {
			return fmt.Errorf("%w: game=%s is already completed", ErrConflict, item.ID)
		}
		item.StartTime = ""
		item.Field = ""
		if err := repos.Games.Update(ctx, item); err != nil {
			return fmt.Errorf("update game: %w", err)
		}
		updated = item
		return nil
	})
	if err != nil {
		return game.Game{}, err
	}

	s.logger.InfoContext(ctx, "slot cleared", "game_id", updated.ID)
	publish(ctx, s.publisher, s.logger, Event{Type: EventScheduleCleared, OccurredAt: s.now().UTC(), Payload: updated})
	return updated, nil
}

// AutoSchedule places every unscheduled game it can and leaves the rest for manual work.
func (s *ScheduleService) AutoSchedule(ctx context.Context) (schedule.PlanResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.AutoSchedule")
	defer span.End()

	var result schedule.PlanResult
	err := s.store.Update(ctx, func(ctx context.Context, snap tournament.Snapshot, repos tournament.Repositories) error {
		plan, err := schedule.Plan(snap.Games, snap.Games, s.cfg)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		for _, assignment := range plan.Assignments {
			item, ok := snap.Game(assignment.GameID)
			if !ok {
				return fmt.Errorf("%w: game=%s", ErrNotFound, assignment.GameID)
			}
			item.StartTime = assignment.Start
			item.Field = assignment.Field
			if err := repos.Games.Update(ctx, item); err != nil {
				return fmt.Errorf("update game: %w", err)
			}
		}
		result = plan
		return nil
	})
	if err != nil {
		return schedule.PlanResult{}, err
	}

	s.logger.InfoContext(ctx, "auto schedule applied", "assigned", len(result.Assignments), "unplaced", len(result.Unplaced))
	if len(result.Assignments) > 0 {
		publish(ctx, s.publisher, s.logger, Event{Type: EventSchedulePlanned, OccurredAt: s.now().UTC(), Payload: result})
	}
	return result, nil
}

type auditRow struct {
	index     int
	conflicts []schedule.Conflict
	err       error
}

// Audit re-checks every scheduled game against the ones after it, one worker task per game.
func (s *ScheduleService) Audit(ctx context.Context) ([]schedule.Conflict, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Audit")
	defer span.End()

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	scheduled := make([]game.Game, 0, len(snap.Games))
	for _, item := range snap.Games {
		if item.IsScheduled() && strings.TrimSpace(item.Field) != "" {
			scheduled = append(scheduled, item)
		}
	}
	sortGamesBySlot(scheduled)
	if len(scheduled) == 0 {
		return []schedule.Conflict{}, nil
	}

	pool, err := ants.NewPool(s.auditWorkers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan auditRow, len(scheduled))
	var workers sync.WaitGroup
	var submitErr error
	for i := range scheduled {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			conflicts, err := schedule.ConflictsFor(scheduled[i], scheduled[i+1:], s.cfg)
			results <- auditRow{index: i, conflicts: conflicts, err: err}
		}); err != nil {
			workers.Done()
			submitErr = fmt.Errorf("submit audit task to worker pool: %w", err)
			break
		}
	}

	workers.Wait()
	close(results)
	if submitErr != nil {
		return nil, submitErr
	}

	rows := make([]auditRow, 0, len(scheduled))
	for row := range results {
		if row.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, row.err)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].index < rows[j].index })

	out := []schedule.Conflict{}
	for _, row := range rows {
		out = append(out, row.conflicts...)
	}
	if len(out) > 0 {
		s.logger.WarnContext(ctx, "schedule audit found conflicts", "conflicts", len(out))
	}
	return out, nil
}
