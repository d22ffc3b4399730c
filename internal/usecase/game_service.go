package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/youth-cup/internal/domain/bracket"
	"github.com/riskibarqy/youth-cup/internal/domain/game"
	"github.com/riskibarqy/youth-cup/internal/domain/schedule"
	"github.com/riskibarqy/youth-cup/internal/domain/tournament"
	idgen "github.com/riskibarqy/youth-cup/internal/platform/id"
	"github.com/riskibarqy/youth-cup/internal/platform/logging"
)

type GameFilter struct {
	PoolID string
	TeamID string
	Round  string
	Status string
}

type CreateGameInput struct {
	HomeTeamID string
	AwayTeamID string
	StartTime  string
	Field      string
}

type RecordResultInput struct {
	GameID    string
	HomeScore int
	AwayScore int
}

// RecordResultOutput holds the updated game and any playoff games the result unlocked.
type RecordResultOutput struct {
	Game     game.Game
	Advanced []game.Game
}

type GameService struct {
	store       tournament.Store
	scheduleCfg schedule.Config
	idGen       idgen.Generator
	publisher   EventPublisher
	logger      *logging.Logger
	now         func() time.Time
}

func NewGameService(
	store tournament.Store,
	scheduleCfg schedule.Config,
	idGen idgen.Generator,
	publisher EventPublisher,
	logger *logging.Logger,
) *GameService {
	if logger == nil {
		logger = logging.Default()
	}

	return &GameService{
		store:       store,
		scheduleCfg: scheduleCfg,
		idGen:       idGen,
		publisher:   publisherOrNop(publisher),
		logger:      logger,
		now:         time.Now,
	}
}

func (s *GameService) List(ctx context.Context, filter GameFilter) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.List")
	defer span.End()

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	filter.PoolID = strings.TrimSpace(filter.PoolID)
	filter.TeamID = strings.TrimSpace(filter.TeamID)
	filter.Round = strings.TrimSpace(filter.Round)
	filter.Status = strings.TrimSpace(filter.Status)

	out := make([]game.Game, 0, len(snap.Games))
	for _, item := range snap.Games {
		if filter.PoolID != "" && item.PoolID != filter.PoolID {
			continue
		}
		if filter.TeamID != "" && !item.HasTeam(filter.TeamID) {
			continue
		}
		if filter.Round != "" && item.Round != filter.Round {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		out = append(out, item)
	}
	sortGamesBySlot(out)

	return out, nil
}

// CreatePoolGame adds a round-robin game between two members of the same pool.
// A start time and field are optional; when given they must not conflict.
func (s *GameService) CreatePoolGame(ctx context.Context, input CreateGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.CreatePoolGame")
	defer span.End()

	input.HomeTeamID = strings.TrimSpace(input.HomeTeamID)
	input.AwayTeamID = strings.TrimSpace(input.AwayTeamID)
	input.StartTime = strings.TrimSpace(input.StartTime)
	input.Field = strings.TrimSpace(input.Field)
	if input.HomeTeamID == "" || input.AwayTeamID == "" {
		return game.Game{}, fmt.Errorf("%w: home and away team are required", ErrInvalidInput)
	}
	if input.HomeTeamID == input.AwayTeamID {
		return game.Game{}, fmt.Errorf("%w: team=%s cannot play itself", ErrInvalidInput, input.HomeTeamID)
	}
	if (input.StartTime == "") != (input.Field == "") {
		return game.Game{}, fmt.Errorf("%w: start time and field must be given together", ErrInvalidInput)
	}
	if input.StartTime != "" {
		normalized, err := schedule.NormalizeTime(input.StartTime)
		if err != nil {
			return game.Game{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		input.StartTime = normalized
	}

	gameID, err := s.idGen.NewID()
	if err != nil {
		return game.Game{}, fmt.Errorf("generate game id: %w", err)
	}

	var created game.Game
	err = s.store.Update(ctx, func(ctx context.Context, snap tournament.Snapshot, repos tournament.Repositories) error {
		home, ok := snap.Team(input.HomeTeamID)
		if !ok {
			return fmt.Errorf("%w: team=%s", ErrNotFound, input.HomeTeamID)
		}
		away, ok := snap.Team(input.AwayTeamID)
		if !ok {
			return fmt.Errorf("%w: team=%s", ErrNotFound, input.AwayTeamID)
		}
		if !home.InPool() || home.PoolID != away.PoolID {
			return fmt.Errorf("%w: teams %s and %s are not in the same pool", ErrInvalidInput, home.ID, away.ID)
		}
		for _, existing := range snap.PoolGames() {
			if existing.HasTeam(home.ID) && existing.HasTeam(away.ID) {
				return fmt.Errorf("%w: %s and %s already meet in game=%s", ErrConflict, home.ID, away.ID, existing.ID)
			}
		}

		item := game.Game{
			ID:         gameID,
			HomeTeamID: home.ID,
			AwayTeamID: away.ID,
			PoolID:     home.PoolID,
			Status:     game.StatusScheduled,
			StartTime:  input.StartTime,
			Field:      input.Field,
		}
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if item.IsScheduled() {
			if err := checkPlacement(item, snap.Games, s.scheduleCfg); err != nil {
				return err
			}
		}
		if err := repos.Games.Create(ctx, item); err != nil {
			return fmt.Errorf("create game: %w", err)
		}
		created = item
		return nil
	})
	if err != nil {
		return game.Game{}, err
	}

	s.logger.InfoContext(ctx, "pool game created", "game_id", created.ID, "pool_id", created.PoolID, "home", created.HomeTeamID, "away", created.AwayTeamID)
	return created, nil
}

// GenerateRoundRobin creates every missing pairing inside a pool, unscheduled.
func (s *GameService) GenerateRoundRobin(ctx context.Context, poolID string) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GenerateRoundRobin")
	defer span.End()

	poolID = strings.TrimSpace(poolID)
	if poolID == "" {
		return nil, fmt.Errorf("%w: pool id is required", ErrInvalidInput)
	}

	var created []game.Game
	err := s.store.Update(ctx, func(ctx context.Context, snap tournament.Snapshot, repos tournament.Repositories) error {
		if _, ok := snap.Pool(poolID); !ok {
			return fmt.Errorf("%w: pool=%s", ErrNotFound, poolID)
		}
		members := snap.TeamsInPool(poolID)
		sort.SliceStable(members, func(i, j int) bool { return members[i].ID < members[j].ID })
		if len(members) < 2 {
			return fmt.Errorf("%w: pool=%s needs at least 2 teams", ErrInvalidInput, poolID)
		}

		existing := snap.PoolGames()
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				if pairingExists(existing, members[i].ID, members[j].ID) {
					continue
				}
				gameID, err := s.idGen.NewID()
				if err != nil {
					return fmt.Errorf("generate game id: %w", err)
				}
				created = append(created, game.Game{
					ID:         gameID,
					HomeTeamID: members[i].ID,
					AwayTeamID: members[j].ID,
					PoolID:     poolID,
					Status:     game.StatusScheduled,
				})
			}
		}
		if len(created) == 0 {
			return nil
		}
		if err := repos.Games.Create(ctx, created...); err != nil {
			return fmt.Errorf("create round robin games: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "round robin generated", "pool_id", poolID, "created", len(created))
	return created, nil
}

// RecordResult completes a game. For playoff games it also creates the next-round games
// whose feeders are now decided.
func (s *GameService) RecordResult(ctx context.Context, input RecordResultInput) (RecordResultOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.RecordResult", slotAttributes(input.GameID, "", "")...)
	defer span.End()

	input.GameID = strings.TrimSpace(input.GameID)
	if input.GameID == "" {
		return RecordResultOutput{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if input.HomeScore < 0 || input.AwayScore < 0 {
		return RecordResultOutput{}, fmt.Errorf("%w: %w: scores must be >= 0", ErrInvalidInput, game.ErrInvalidScore)
	}

	var out RecordResultOutput
	err := s.store.Update(ctx, func(ctx context.Context, snap tournament.Snapshot, repos tournament.Repositories) error {
		current, ok := snap.Game(input.GameID)
		if !ok {
			return fmt.Errorf("%w: game=%s", ErrNotFound, input.GameID)
		}

		item := current
		item.Status = game.StatusCompleted
		item.HomeScore = game.IntPtr(input.HomeScore)
		item.AwayScore = game.IntPtr(input.AwayScore)
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		if err := guardDecidedPlayoff(current, item, snap.Games); err != nil {
			return err
		}
		if err := repos.Games.Update(ctx, item); err != nil {
			return fmt.Errorf("update game: %w", err)
		}
		out.Game = item

		if !item.IsPlayoff() {
			return nil
		}
		games := replaceGame(snap.Games, item)
		stubs, err := bracket.NextRoundStubs(games)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConflict, err)
		}
		if len(stubs) == 0 {
			return nil
		}
		for i := range stubs {
			gameID, err := s.idGen.NewID()
			if err != nil {
				return fmt.Errorf("generate game id: %w", err)
			}
			stubs[i].ID = gameID
		}
		if err := repos.Games.Create(ctx, stubs...); err != nil {
			return fmt.Errorf("create next round games: %w", err)
		}
		out.Advanced = stubs
		return nil
	})
	if err != nil {
		return RecordResultOutput{}, err
	}

	s.logger.InfoContext(ctx, "game result recorded",
		"game_id", out.Game.ID,
		"home_score", input.HomeScore,
		"away_score", input.AwayScore,
		"advanced", len(out.Advanced),
	)
	now := s.now().UTC()
	publish(ctx, s.publisher, s.logger, Event{Type: EventResultRecorded, OccurredAt: now, Payload: out.Game})
	if len(out.Advanced) > 0 {
		publish(ctx, s.publisher, s.logger, Event{Type: EventBracketAdvanced, OccurredAt: now, Payload: out.Advanced})
	}
	return out, nil
}

// guardDecidedPlayoff rejects a correction that would change a winner who already
// appears in a later round.
func guardDecidedPlayoff(current, next game.Game, games []game.Game) error {
	if !current.IsPlayoff() || !current.IsCompleted() {
		return nil
	}
	previousWinner := current.WinnerID()
	if previousWinner == "" || previousWinner == next.WinnerID() {
		return nil
	}
	for _, other := range games {
		if other.IsPlayoff() && roundRank(other.Round) > roundRank(current.Round) && other.HasTeam(previousWinner) {
			return fmt.Errorf("%w: winner of %s already plays in %s (game=%s)", ErrConflict, current.SlotKey(), other.SlotKey(), other.ID)
		}
	}
	return nil
}

func checkPlacement(item game.Game, games []game.Game, cfg schedule.Config) error {
	conflict, err := schedule.ValidateAssignment(item, games, cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if conflict != nil {
		return &ScheduleConflictError{Conflict: *conflict}
	}
	return nil
}

func pairingExists(games []game.Game, a, b string) bool {
	for _, item := range games {
		if item.HasTeam(a) && item.HasTeam(b) {
			return true
		}
	}
	return false
}

func replaceGame(games []game.Game, item game.Game) []game.Game {
	out := make([]game.Game, len(games))
	copy(out, games)
	for i := range out {
		if out[i].ID == item.ID {
			out[i] = item
		}
	}
	return out
}

func roundRank(round string) int {
	switch round {
	case game.RoundQuarterfinal:
		return 1
	case game.RoundSemifinal:
		return 2
	case game.RoundFinal:
		return 3
	default:
		return 0
	}
}

// sortGamesBySlot orders by start time, then field. Unscheduled games go last.
func sortGamesBySlot(items []game.Game) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsScheduled() != b.IsScheduled() {
			return a.IsScheduled()
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		if a.Field != b.Field {
			return a.Field < b.Field
		}
		if rankA, rankB := roundRank(a.Round), roundRank(b.Round); rankA != rankB {
			return rankA < rankB
		}
		return a.ID < b.ID
	})
}
