package qualification

import (
	"errors"

	"github.com/riskibarqy/youth-cup/internal/domain/standing"
)

const (
	StatusInsufficientData = "insufficient_data"
	StatusPending          = "pending"
	StatusReady            = "ready"
)

var (
	ErrInvalidFormat    = errors.New("invalid qualification format")
	ErrInvalidSelection = errors.New("invalid wildcard selection")
	ErrNotPending       = errors.New("qualification has no pending wildcard decision")
)

// Rules stores the playoff format parameters.
type Rules struct {
	WildcardSlots int
	PlayoffSize   int
}

func DefaultRules() Rules {
	return Rules{
		WildcardSlots: 2,
		PlayoffSize:   8,
	}
}

// Seed is a qualified team with its bracket rank.
type Seed struct {
	Standing         standing.Standing
	Seed             int
	PoolWinner       bool
	ManuallySelected bool
}

func (s Seed) TeamID() string {
	return s.Standing.Team.ID
}

// PoolTable is one pool's restricted standings plus the derived winner and runner-up.
type PoolTable struct {
	PoolID    string
	PoolName  string
	Standings []standing.Standing
	Winner    *standing.Standing
	RunnerUp  *standing.Standing
}

// Result is the outcome of a qualification pass. Seeds is either empty or holds exactly
// Rules.PlayoffSize entries; it is only filled when Status is ready.
type Result struct {
	Status              string
	Reason              string
	Rules               Rules
	CompletedGames      int
	Pools               []PoolTable
	PoolWinners         []standing.Standing
	SecondPlace         []standing.Standing
	LockedWildcards     []standing.Standing
	LockedWildcardCount int
	OpenWildcardSlots   int
	TiedCandidates      []standing.Standing
	Seeds               []Seed
}

func (r Result) LockedCount() int {
	return len(r.PoolWinners) + len(r.LockedWildcards)
}

func (r Result) IsReady() bool {
	return r.Status == StatusReady
}
