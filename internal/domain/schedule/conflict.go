package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/youth-cup/internal/domain/game"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrUnscheduled  = errors.New("game has no start time or field")
)

const (
	ConflictTeam    = "team"
	ConflictField   = "field"
	ConflictWindow  = "window"
	ConflictOffGrid = "off_grid"
)

// Conflict describes why a placement was rejected. It is data, not an error.
type Conflict struct {
	Kind              string `json:"kind"`
	GameID            string `json:"gameId,omitempty"`
	ConflictingGameID string `json:"conflictingGameId,omitempty"`
	TeamID            string `json:"teamId,omitempty"`
	Field             string `json:"field,omitempty"`
	Start             string `json:"start"`
	End               string `json:"end"`
	Message           string `json:"message"`
}

type placed struct {
	game game.Game
	span interval
}

func place(w window, item game.Game) (placed, error) {
	item.Field = strings.TrimSpace(item.Field)
	start, err := parseClock(item.StartTime)
	if err != nil {
		return placed{}, fmt.Errorf("game %s: %w", item.ID, err)
	}
	return placed{game: item, span: w.occupied(start)}, nil
}

func sharedTeam(a, b game.Game) string {
	for _, teamID := range []string{a.HomeTeamID, a.AwayTeamID} {
		if teamID != "" && b.HasTeam(teamID) {
			return teamID
		}
	}
	return ""
}

func teamConflict(proposed, other placed) *Conflict {
	teamID := sharedTeam(proposed.game, other.game)
	if teamID == "" || !proposed.span.overlaps(other.span) {
		return nil
	}
	return &Conflict{
		Kind:              ConflictTeam,
		GameID:            proposed.game.ID,
		ConflictingGameID: other.game.ID,
		TeamID:            teamID,
		Field:             other.game.Field,
		Start:             other.span.start.String(),
		End:               other.span.end.String(),
		Message: fmt.Sprintf("team %s already plays game %s on %s from %s to %s",
			teamID, other.game.ID, other.game.Field, other.span.start, other.span.end),
	}
}

func fieldConflict(proposed, other placed) *Conflict {
	if proposed.game.Field != other.game.Field || !proposed.span.overlaps(other.span) {
		return nil
	}
	return &Conflict{
		Kind:              ConflictField,
		GameID:            proposed.game.ID,
		ConflictingGameID: other.game.ID,
		Field:             other.game.Field,
		Start:             other.span.start.String(),
		End:               other.span.end.String(),
		Message: fmt.Sprintf("field %s is occupied by game %s from %s to %s",
			other.game.Field, other.game.ID, other.span.start, other.span.end),
	}
}

// others returns the scheduled games that can collide with proposed, ordered by start time.
func others(w window, proposed game.Game, existing []game.Game) ([]placed, error) {
	out := make([]placed, 0, len(existing))
	for _, item := range existing {
		if !item.IsScheduled() || strings.TrimSpace(item.Field) == "" {
			continue
		}
		if proposed.ID != "" && item.ID == proposed.ID {
			continue
		}
		p, err := place(w, item)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].span.start != out[j].span.start {
			return out[i].span.start < out[j].span.start
		}
		if out[i].game.Field != out[j].game.Field {
			return out[i].game.Field < out[j].game.Field
		}
		return out[i].game.ID < out[j].game.ID
	})
	return out, nil
}

// placement is a proposed game resolved against the configured window and fields.
type placement struct {
	window  window
	placed  placed
	outside *Conflict
	offGrid *Conflict
}

func prepare(proposed game.Game, cfg Config) (placement, error) {
	w, err := cfg.window()
	if err != nil {
		return placement{}, err
	}
	proposed.Field = strings.TrimSpace(proposed.Field)
	if !proposed.IsScheduled() || proposed.Field == "" {
		return placement{}, fmt.Errorf("%w: game=%s", ErrUnscheduled, proposed.ID)
	}
	p, err := place(w, proposed)
	if err != nil {
		return placement{}, err
	}

	out := placement{window: w, placed: p}
	if !cfg.hasField(proposed.Field) {
		out.offGrid = &Conflict{
			Kind:    ConflictOffGrid,
			GameID:  proposed.ID,
			Field:   proposed.Field,
			Start:   p.span.start.String(),
			End:     p.span.end.String(),
			Message: fmt.Sprintf("game %s is on field %s, which is not a configured field", proposed.ID, proposed.Field),
		}
	}
	if p.span.start < w.start || p.span.start+clock(w.game) > w.end {
		out.outside = &Conflict{
			Kind:    ConflictWindow,
			GameID:  proposed.ID,
			Field:   proposed.Field,
			Start:   w.start.String(),
			End:     w.end.String(),
			Message: fmt.Sprintf("game at %s does not fit between %s and %s", p.span.start, w.start, w.end),
		}
	}

	return out, nil
}

// ValidateAssignment checks a proposed placement against the existing schedule. Team
// conflicts are reported before field conflicts. A nil Conflict means the placement is free.
// Proposing a field that is not configured is an invalid call.
func ValidateAssignment(proposed game.Game, existing []game.Game, cfg Config) (*Conflict, error) {
	pl, err := prepare(proposed, cfg)
	if err != nil {
		return nil, err
	}
	if pl.offGrid != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, pl.placed.game.Field)
	}
	if pl.outside != nil {
		return pl.outside, nil
	}

	scheduled, err := others(pl.window, pl.placed.game, existing)
	if err != nil {
		return nil, err
	}
	for _, other := range scheduled {
		if c := teamConflict(pl.placed, other); c != nil {
			return c, nil
		}
	}
	for _, other := range scheduled {
		if c := fieldConflict(pl.placed, other); c != nil {
			return c, nil
		}
	}

	return nil, nil
}

// ConflictsFor lists every conflict between item and the others, one per colliding game.
// A game on a field outside the configuration is reported as off_grid and still checked.
func ConflictsFor(item game.Game, existing []game.Game, cfg Config) ([]Conflict, error) {
	pl, err := prepare(item, cfg)
	if err != nil {
		return nil, err
	}

	var out []Conflict
	if pl.offGrid != nil {
		out = append(out, *pl.offGrid)
	}
	if pl.outside != nil {
		out = append(out, *pl.outside)
	}
	scheduled, err := others(pl.window, pl.placed.game, existing)
	if err != nil {
		return nil, err
	}
	for _, other := range scheduled {
		if c := teamConflict(pl.placed, other); c != nil {
			out = append(out, *c)
			continue
		}
		if c := fieldConflict(pl.placed, other); c != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

// Audit re-checks a whole schedule and reports each colliding pair once.
func Audit(games []game.Game, cfg Config) ([]Conflict, error) {
	scheduled := make([]game.Game, 0, len(games))
	for _, item := range games {
		if item.IsScheduled() && strings.TrimSpace(item.Field) != "" {
			scheduled = append(scheduled, item)
		}
	}

	var out []Conflict
	for i, item := range scheduled {
		conflicts, err := ConflictsFor(item, scheduled[i+1:], cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, conflicts...)
	}
	return out, nil
}
