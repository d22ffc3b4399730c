package game

import (
	"errors"
	"fmt"
	"strings"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
)

const (
	RoundQuarterfinal = "quarterfinal"
	RoundSemifinal    = "semifinal"
	RoundFinal        = "final"
)

var (
	ErrInvalidScore = errors.New("invalid score")
	ErrPlayoffTie   = errors.New("playoff game cannot end in a tie")
	ErrInvalidRound = errors.New("invalid playoff round")
)

// Game is one fixture, either inside a pool or in the playoff bracket.
// Scores stay nil until the game is completed. StartTime is "HH:MM" or empty when unscheduled.
type Game struct {
	ID         string
	HomeTeamID string
	AwayTeamID string
	PoolID     string
	Status     string
	HomeScore  *int
	AwayScore  *int
	Field      string
	StartTime  string
	Round      string
	Position   int
}

func (g Game) IsCompleted() bool {
	return g.Status == StatusCompleted
}

func (g Game) IsPlayoff() bool {
	return g.Round != ""
}

func (g Game) IsScheduled() bool {
	return strings.TrimSpace(g.StartTime) != ""
}

func (g Game) HasTeam(teamID string) bool {
	return teamID != "" && (g.HomeTeamID == teamID || g.AwayTeamID == teamID)
}

func (g Game) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("game id is required")
	}
	if g.HomeTeamID == "" || g.AwayTeamID == "" {
		return fmt.Errorf("game teams are required: game=%s", g.ID)
	}
	if g.HomeTeamID == g.AwayTeamID {
		return fmt.Errorf("game cannot pair a team with itself: game=%s team=%s", g.ID, g.HomeTeamID)
	}

	switch g.Status {
	case StatusScheduled:
		if g.HomeScore != nil || g.AwayScore != nil {
			return fmt.Errorf("%w: scheduled game carries a score: game=%s", ErrInvalidScore, g.ID)
		}
	case StatusCompleted:
		if err := g.ValidateScore(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown game status %q: game=%s", g.Status, g.ID)
	}

	if g.IsPlayoff() {
		if err := validateRoundPosition(g.Round, g.Position); err != nil {
			return fmt.Errorf("%w: game=%s", err, g.ID)
		}
	}

	return nil
}

// ValidateScore checks the result of a completed game: both scores present, neither
// negative, and no draw in the playoff. Games that are not completed always pass.
func (g Game) ValidateScore() error {
	if !g.IsCompleted() {
		return nil
	}
	if g.HomeScore == nil || g.AwayScore == nil {
		return fmt.Errorf("%w: completed game requires both scores: game=%s", ErrInvalidScore, g.ID)
	}
	if *g.HomeScore < 0 || *g.AwayScore < 0 {
		return fmt.Errorf("%w: scores must be >= 0: game=%s score=%d-%d", ErrInvalidScore, g.ID, *g.HomeScore, *g.AwayScore)
	}
	if g.IsPlayoff() && *g.HomeScore == *g.AwayScore {
		return fmt.Errorf("%w: game=%s score=%d-%d", ErrPlayoffTie, g.ID, *g.HomeScore, *g.AwayScore)
	}

	return nil
}

// WinnerID returns the winning team of a completed game, or "" for an unfinished game or a pool draw.
func (g Game) WinnerID() string {
	if !g.IsCompleted() || g.HomeScore == nil || g.AwayScore == nil {
		return ""
	}
	switch {
	case *g.HomeScore > *g.AwayScore:
		return g.HomeTeamID
	case *g.AwayScore > *g.HomeScore:
		return g.AwayTeamID
	default:
		return ""
	}
}

// SlotKey identifies the bracket position of a playoff game, e.g. "QF1", "SF2", "F1".
func (g Game) SlotKey() string {
	return SlotKey(g.Round, g.Position)
}

func SlotKey(round string, position int) string {
	switch round {
	case RoundQuarterfinal:
		return fmt.Sprintf("QF%d", position)
	case RoundSemifinal:
		return fmt.Sprintf("SF%d", position)
	case RoundFinal:
		return fmt.Sprintf("F%d", position)
	default:
		return ""
	}
}

func validateRoundPosition(round string, position int) error {
	maxPosition := 0
	switch round {
	case RoundQuarterfinal:
		maxPosition = 4
	case RoundSemifinal:
		maxPosition = 2
	case RoundFinal:
		maxPosition = 1
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRound, round)
	}
	if position < 1 || position > maxPosition {
		return fmt.Errorf("%w: round=%s position=%d", ErrInvalidRound, round, position)
	}

	return nil
}

func IntPtr(v int) *int {
	return &v
}
