package schedule

import (
	"strings"

	"github.com/riskibarqy/youth-cup/internal/domain/game"
)

type Slot struct {
	Start  string `json:"start"`
	Field  string `json:"field"`
	GameID string `json:"gameId,omitempty"`
}

type GridRow struct {
	Start string `json:"start"`
	Slots []Slot `json:"slots"`
}

// Grid is the start-time by field board used by the manual editor.
// Off-grid lists scheduled games whose start or field does not land on a cell.
type Grid struct {
	Fields  []string  `json:"fields"`
	Rows    []GridRow `json:"rows"`
	OffGrid []string  `json:"offGrid"`
}

func BuildGrid(games []game.Game, cfg Config) (Grid, error) {
	times, err := ListAvailableStartTimes(cfg)
	if err != nil {
		return Grid{}, err
	}
	fields := cfg.fields()

	cells := make(map[string]map[string]string, len(times))
	for _, t := range times {
		cells[t] = make(map[string]string, len(fields))
	}

	grid := Grid{Fields: fields, Rows: make([]GridRow, 0, len(times)), OffGrid: []string{}}
	for _, item := range games {
		if !item.IsScheduled() {
			continue
		}
		start, err := NormalizeTime(item.StartTime)
		if err != nil {
			return Grid{}, err
		}
		field := strings.TrimSpace(item.Field)
		row, ok := cells[start]
		if !ok || !cfg.hasField(field) || field == "" || row[field] != "" {
			grid.OffGrid = append(grid.OffGrid, item.ID)
			continue
		}
		row[field] = item.ID
	}

	for _, t := range times {
		row := GridRow{Start: t, Slots: make([]Slot, 0, len(fields))}
		for _, field := range fields {
			row.Slots = append(row.Slots, Slot{Start: t, Field: field, GameID: cells[t][field]})
		}
		grid.Rows = append(grid.Rows, row)
	}

	return grid, nil
}
