package schedule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/youth-cup/internal/domain/game"
)

// Assignment is one placement proposed by Plan.
type Assignment struct {
	GameID string `json:"gameId"`
	Start  string `json:"start"`
	Field  string `json:"field"`
}

// Unplaced is a game Plan could not fit anywhere.
type Unplaced struct {
	GameID string `json:"gameId"`
	Reason string `json:"reason"`
}

type PlanResult struct {
	Assignments []Assignment `json:"assignments"`
	Unplaced    []Unplaced   `json:"unplaced"`
}

func roundOrder(round string) int {
	switch round {
	case "":
		return 0
	case game.RoundQuarterfinal:
		return 1
	case game.RoundSemifinal:
		return 2
	case game.RoundFinal:
		return 3
	default:
		return 4
	}
}

type slotKey struct {
	start clock
	field string
}

type planner struct {
	cfg       Config
	w         window
	times     []clock
	fields    []string
	board     []game.Game
	usedSlots map[slotKey]bool
	// last end time per round, used to keep later rounds after earlier ones
	roundEnd map[int]clock
}

// Plan places every unscheduled game onto the first free start time and field that
// passes the same checks as ValidateAssignment. Pool games go first, then each playoff
// round, and no game of a round starts before every game of an earlier round has ended.
// Already scheduled games are never moved.
func Plan(pending []game.Game, existing []game.Game, cfg Config) (PlanResult, error) {
	p, err := newPlanner(cfg, existing)
	if err != nil {
		return PlanResult{}, err
	}

	queue := make([]game.Game, 0, len(pending))
	for _, item := range pending {
		if item.IsScheduled() {
			continue
		}
		queue = append(queue, item)
	}
	sort.SliceStable(queue, func(i, j int) bool {
		ri, rj := roundOrder(queue[i].Round), roundOrder(queue[j].Round)
		if ri != rj {
			return ri < rj
		}
		if queue[i].PoolID != queue[j].PoolID {
			return queue[i].PoolID < queue[j].PoolID
		}
		if queue[i].Position != queue[j].Position {
			return queue[i].Position < queue[j].Position
		}
		return queue[i].ID < queue[j].ID
	})

	result := PlanResult{Assignments: []Assignment{}, Unplaced: []Unplaced{}}
	for _, item := range queue {
		assignment, reason, err := p.assignGame(item)
		if err != nil {
			return PlanResult{}, err
		}
		if reason != "" {
			result.Unplaced = append(result.Unplaced, Unplaced{GameID: item.ID, Reason: reason})
			continue
		}
		result.Assignments = append(result.Assignments, assignment)
	}

	return result, nil
}

func newPlanner(cfg Config, existing []game.Game) (*planner, error) {
	w, err := cfg.window()
	if err != nil {
		return nil, err
	}
	fields := cfg.fields()
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: at least one field is required", ErrInvalidConfig)
	}

	p := &planner{
		cfg:       cfg,
		w:         w,
		fields:    fields,
		usedSlots: make(map[slotKey]bool),
		roundEnd:  make(map[int]clock),
	}
	for t := w.start; t+clock(w.game) <= w.end; t += clock(w.step) {
		p.times = append(p.times, t)
	}

	for _, item := range existing {
		if !item.IsScheduled() || strings.TrimSpace(item.Field) == "" {
			continue
		}
		start, err := parseClock(item.StartTime)
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", item.ID, err)
		}
		p.record(item, start, strings.TrimSpace(item.Field))
	}

	return p, nil
}

func (p *planner) record(item game.Game, start clock, field string) {
	p.usedSlots[slotKey{start: start, field: field}] = true
	end := p.w.occupied(start).end
	order := roundOrder(item.Round)
	if end > p.roundEnd[order] {
		p.roundEnd[order] = end
	}
	item.StartTime = start.String()
	item.Field = field
	p.board = append(p.board, item)
}

func (p *planner) notBefore(item game.Game) clock {
	var earliest clock
	order := roundOrder(item.Round)
	for round, end := range p.roundEnd {
		if round < order && end > earliest {
			earliest = end
		}
	}
	return earliest
}

func (p *planner) assignGame(item game.Game) (Assignment, string, error) {
	earliest := p.notBefore(item)

	for _, start := range p.times {
		if start < earliest {
			continue
		}
		for _, field := range p.fields {
			if p.usedSlots[slotKey{start: start, field: field}] {
				continue
			}
			ok, err := p.hardConstraintsMet(item, start, field)
			if err != nil {
				return Assignment{}, "", err
			}
			if !ok {
				continue
			}

			p.record(item, start, field)
			return Assignment{GameID: item.ID, Start: start.String(), Field: field}, "", nil
		}
	}

	if earliest > 0 && len(p.times) > 0 && earliest > p.times[len(p.times)-1] {
		return Assignment{}, fmt.Sprintf("no start time left after %s when the previous round ends", earliest), nil
	}
	return Assignment{}, "no free field and time without a team or field conflict", nil
}

func (p *planner) hardConstraintsMet(item game.Game, start clock, field string) (bool, error) {
	candidate := item
	candidate.StartTime = start.String()
	candidate.Field = field

	conflict, err := ValidateAssignment(candidate, p.board, p.cfg)
	if err != nil {
		return false, err
	}
	return conflict == nil, nil
}
