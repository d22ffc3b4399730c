package schedule

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidConfig = errors.New("invalid schedule config")

// Config describes the tournament day. Times are "HH:MM".
type Config struct {
	TournamentStart      string
	TournamentEnd        string
	GameDurationMinutes  int
	BreakDurationMinutes int
	FieldNames           []string
}

type window struct {
	start clock
	end   clock
	game  int
	step  int
}

func (c Config) window() (window, error) {
	start, err := parseClock(c.TournamentStart)
	if err != nil {
		return window{}, fmt.Errorf("%w: tournament start: %v", ErrInvalidConfig, err)
	}
	end, err := parseClock(c.TournamentEnd)
	if err != nil {
		return window{}, fmt.Errorf("%w: tournament end: %v", ErrInvalidConfig, err)
	}
	if c.GameDurationMinutes <= 0 {
		return window{}, fmt.Errorf("%w: game duration must be > 0, got %d", ErrInvalidConfig, c.GameDurationMinutes)
	}
	if c.BreakDurationMinutes < 0 {
		return window{}, fmt.Errorf("%w: break duration must be >= 0, got %d", ErrInvalidConfig, c.BreakDurationMinutes)
	}

	return window{
		start: start,
		end:   end,
		game:  c.GameDurationMinutes,
		step:  c.GameDurationMinutes + c.BreakDurationMinutes,
	}, nil
}

// occupied returns the window a game starting at start blocks: the game plus its break.
func (w window) occupied(start clock) interval {
	return interval{start: start, end: start + clock(w.step)}
}

func (c Config) hasField(name string) bool {
	if len(c.FieldNames) == 0 {
		return true
	}
	for _, field := range c.FieldNames {
		if strings.TrimSpace(field) == name {
			return true
		}
	}
	return false
}

func (c Config) fields() []string {
	out := make([]string, 0, len(c.FieldNames))
	for _, field := range c.FieldNames {
		if name := strings.TrimSpace(field); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// ListAvailableStartTimes steps from the tournament start by game plus break duration and
// stops once a game would run past the tournament end. It keeps no state between calls.
func ListAvailableStartTimes(cfg Config) ([]string, error) {
	w, err := cfg.window()
	if err != nil {
		return nil, err
	}

	var out []string
	for t := w.start; t+clock(w.game) <= w.end; t += clock(w.step) {
		out = append(out, t.String())
	}

	return out, nil
}
