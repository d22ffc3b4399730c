package bracket

import (
	"fmt"

	"github.com/dominikbraun/graph"
	"github.com/riskibarqy/youth-cup/internal/domain/game"
)

const (
	sideAttribute = "side"
	sideHome      = "home"
	sideAway      = "away"
)

type slotDef struct {
	Key      string
	Round    string
	Position int
	Home     string
	Away     string
}

// layout is the fixed eight-team format. Home and Away on later rounds name the feeder
// slot whose winner takes that side.
var layout = []slotDef{
	{Key: "QF1", Round: game.RoundQuarterfinal, Position: 1},
	{Key: "QF2", Round: game.RoundQuarterfinal, Position: 2},
	{Key: "QF3", Round: game.RoundQuarterfinal, Position: 3},
	{Key: "QF4", Round: game.RoundQuarterfinal, Position: 4},
	{Key: "SF1", Round: game.RoundSemifinal, Position: 1, Home: "QF1", Away: "QF2"},
	{Key: "SF2", Round: game.RoundSemifinal, Position: 2, Home: "QF3", Away: "QF4"},
	{Key: "F1", Round: game.RoundFinal, Position: 1, Home: "SF1", Away: "SF2"},
}

// quarterfinalPairs lists seed pairs by quarterfinal position.
var quarterfinalPairs = [4][2]int{{1, 8}, {2, 7}, {3, 6}, {4, 5}}

// propagation is the winner-advancement DAG: an edge QF1 -> SF1 tagged "home" means the
// QF1 winner plays SF1 as the home side.
type propagation struct {
	graph graph.Graph[string, slotDef]
	order []string
}

func slotHash(s slotDef) string {
	return s.Key
}

func newPropagation() (*propagation, error) {
	g := graph.New(slotHash, graph.Directed(), graph.PreventCycles())
	for _, def := range layout {
		if err := g.AddVertex(def); err != nil {
			return nil, fmt.Errorf("add bracket slot %s: %w", def.Key, err)
		}
	}
	for _, def := range layout {
		if def.Home == "" {
			continue
		}
		if err := g.AddEdge(def.Home, def.Key, graph.EdgeAttribute(sideAttribute, sideHome)); err != nil {
			return nil, fmt.Errorf("link %s -> %s: %w", def.Home, def.Key, err)
		}
		if err := g.AddEdge(def.Away, def.Key, graph.EdgeAttribute(sideAttribute, sideAway)); err != nil {
			return nil, fmt.Errorf("link %s -> %s: %w", def.Away, def.Key, err)
		}
	}

	order, err := graph.StableTopologicalSort(g, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, fmt.Errorf("order bracket slots: %w", err)
	}

	return &propagation{graph: g, order: order}, nil
}

// feeders returns the home and away feeder slots of key, or empty strings for a
// quarterfinal.
func (p *propagation) feeders(key string) (home, away string, err error) {
	predecessors, err := p.graph.PredecessorMap()
	if err != nil {
		return "", "", fmt.Errorf("read bracket predecessors: %w", err)
	}

	for source, edge := range predecessors[key] {
		switch edge.Properties.Attributes[sideAttribute] {
		case sideHome:
			home = source
		case sideAway:
			away = source
		}
	}

	return home, away, nil
}

func (p *propagation) slot(key string) (slotDef, error) {
	def, err := p.graph.Vertex(key)
	if err != nil {
		return slotDef{}, fmt.Errorf("unknown bracket slot %s: %w", key, err)
	}
	return def, nil
}
