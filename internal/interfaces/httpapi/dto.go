package httpapi

import (
	"github.com/riskibarqy/youth-cup/internal/domain/bracket"
	"github.com/riskibarqy/youth-cup/internal/domain/game"
	"github.com/riskibarqy/youth-cup/internal/domain/qualification"
	"github.com/riskibarqy/youth-cup/internal/domain/schedule"
	"github.com/riskibarqy/youth-cup/internal/domain/standing"
	"github.com/riskibarqy/youth-cup/internal/domain/team"
	"github.com/riskibarqy/youth-cup/internal/usecase"
)

type registerTeamRequest struct {
	Name           string `json:"name" validate:"required,max=80"`
	Captain        string `json:"captain" validate:"max=80"`
	Contact        string `json:"contact" validate:"max=120"`
	PoolID         string `json:"poolId"`
	FairPlayPoints int    `json:"fairPlayPoints" validate:"gte=0"`
}

type assignPoolRequest struct {
	PoolID string `json:"poolId" validate:"required"`
}

type fairPlayRequest struct {
	Points *int `json:"points" validate:"required,gte=0"`
}

type createPoolRequest struct {
	Name string `json:"name" validate:"required,max=40"`
}

type createGameRequest struct {
	HomeTeamID string `json:"homeTeamId" validate:"required"`
	AwayTeamID string `json:"awayTeamId" validate:"required,nefield=HomeTeamID"`
	StartTime  string `json:"startTime"`
	Field      string `json:"field"`
}

type recordResultRequest struct {
	HomeScore *int `json:"homeScore" validate:"required,gte=0"`
	AwayScore *int `json:"awayScore" validate:"required,gte=0"`
}

type generateBracketRequest struct {
	WildcardTeamIDs []string `json:"wildcardTeamIds" validate:"omitempty,dive,required"`
}

type slotRequest struct {
	StartTime string `json:"startTime" validate:"required"`
	Field     string `json:"field" validate:"required"`
}

type validateSlotRequest struct {
	GameID     string `json:"gameId"`
	HomeTeamID string `json:"homeTeamId" validate:"required_without=GameID"`
	AwayTeamID string `json:"awayTeamId" validate:"required_without=GameID"`
	StartTime  string `json:"startTime" validate:"required"`
	Field      string `json:"field" validate:"required"`
}

type teamDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Captain        string `json:"captain,omitempty"`
	Contact        string `json:"contact,omitempty"`
	PoolID         string `json:"poolId,omitempty"`
	FairPlayPoints int    `json:"fairPlayPoints"`
}

type poolDTO struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Teams []teamDTO `json:"teams"`
}

type gameDTO struct {
	ID         string `json:"id"`
	HomeTeamID string `json:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId"`
	PoolID     string `json:"poolId,omitempty"`
	Status     string `json:"status"`
	HomeScore  *int   `json:"homeScore"`
	AwayScore  *int   `json:"awayScore"`
	Field      string `json:"field,omitempty"`
	StartTime  string `json:"startTime,omitempty"`
	Round      string `json:"round,omitempty"`
	Position   int    `json:"position,omitempty"`
}

type recordResultDTO struct {
	Game     gameDTO   `json:"game"`
	Advanced []gameDTO `json:"advanced"`
}

type standingDTO struct {
	Rank             int    `json:"rank"`
	TeamID           string `json:"teamId"`
	TeamName         string `json:"teamName"`
	PoolID           string `json:"poolId,omitempty"`
	GamesPlayed      int    `json:"gamesPlayed"`
	Wins             int    `json:"wins"`
	Ties             int    `json:"ties"`
	Losses           int    `json:"losses"`
	GoalsFor         int    `json:"goalsFor"`
	GoalsAgainst     int    `json:"goalsAgainst"`
	GoalDifferential int    `json:"goalDifferential"`
	Points           int    `json:"points"`
	FairPlayPoints   int    `json:"fairPlayPoints"`
}

type poolStandingsDTO struct {
	PoolID     string        `json:"poolId"`
	PoolName   string        `json:"poolName"`
	WinnerID   string        `json:"winnerId,omitempty"`
	RunnerUpID string        `json:"runnerUpId,omitempty"`
	Standings  []standingDTO `json:"standings"`
}

type seedDTO struct {
	Seed             int    `json:"seed"`
	TeamID           string `json:"teamId"`
	TeamName         string `json:"teamName"`
	PoolWinner       bool   `json:"poolWinner"`
	ManuallySelected bool   `json:"manuallySelected"`
	Points           int    `json:"points"`
	GoalDifferential int    `json:"goalDifferential"`
}

type qualificationDTO struct {
	Status            string             `json:"status"`
	Reason            string             `json:"reason,omitempty"`
	CompletedGames    int                `json:"completedGames"`
	WildcardSlots     int                `json:"wildcardSlots"`
	OpenWildcardSlots int                `json:"openWildcardSlots"`
	Pools             []poolStandingsDTO `json:"pools"`
	PoolWinners       []standingDTO      `json:"poolWinners"`
	SecondPlace       []standingDTO      `json:"secondPlace"`
	LockedWildcards   []standingDTO      `json:"lockedWildcards"`
	TiedCandidates    []standingDTO      `json:"tiedCandidates"`
	Seeds             []seedDTO          `json:"seeds"`
}

type sideDTO struct {
	TeamID string `json:"teamId,omitempty"`
	Seed   int    `json:"seed,omitempty"`
	Label  string `json:"label,omitempty"`
}

type matchupDTO struct {
	Key         string   `json:"key"`
	Round       string   `json:"round"`
	Position    int      `json:"position"`
	Home        sideDTO  `json:"home"`
	Away        sideDTO  `json:"away"`
	Game        *gameDTO `json:"game,omitempty"`
	WinnerID    string   `json:"winnerId,omitempty"`
	Schedulable bool     `json:"schedulable"`
}

type bracketDTO struct {
	Matchups   []matchupDTO `json:"matchups"`
	ChampionID string       `json:"championId,omitempty"`
}

type generateBracketDTO struct {
	Seeds          []seedDTO `json:"seeds"`
	Quarterfinals  []gameDTO `json:"quarterfinals"`
	ResolvedByHand bool      `json:"resolvedByHand"`
}

type scheduleConfigDTO struct {
	TournamentStart      string   `json:"tournamentStart"`
	TournamentEnd        string   `json:"tournamentEnd"`
	GameDurationMinutes  int      `json:"gameDurationMinutes"`
	BreakDurationMinutes int      `json:"breakDurationMinutes"`
	Fields               []string `json:"fields"`
	StartTimes           []string `json:"startTimes"`
}

type validateSlotDTO struct {
	Valid    bool               `json:"valid"`
	Conflict *schedule.Conflict `json:"conflict,omitempty"`
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:             v.ID,
		Name:           v.Name,
		Captain:        v.Captain,
		Contact:        v.Contact,
		PoolID:         v.PoolID,
		FairPlayPoints: v.FairPlayPoints,
	}
}

func teamsToDTO(items []team.Team) []teamDTO {
	out := make([]teamDTO, 0, len(items))
	for _, item := range items {
		out = append(out, teamToDTO(item))
	}
	return out
}

func poolToDTO(v usecase.PoolWithTeams) poolDTO {
	return poolDTO{ID: v.Pool.ID, Name: v.Pool.Name, Teams: teamsToDTO(v.Teams)}
}

func gameToDTO(v game.Game) gameDTO {
	return gameDTO{
		ID:         v.ID,
		HomeTeamID: v.HomeTeamID,
		AwayTeamID: v.AwayTeamID,
		PoolID:     v.PoolID,
		Status:     v.Status,
		HomeScore:  v.HomeScore,
		AwayScore:  v.AwayScore,
		Field:      v.Field,
		StartTime:  v.StartTime,
		Round:      v.Round,
		Position:   v.Position,
	}
}

func gamesToDTO(items []game.Game) []gameDTO {
	out := make([]gameDTO, 0, len(items))
	for _, item := range items {
		out = append(out, gameToDTO(item))
	}
	return out
}

func standingToDTO(v standing.Standing) standingDTO {
	return standingDTO{
		Rank:             v.Rank,
		TeamID:           v.Team.ID,
		TeamName:         v.Team.Name,
		PoolID:           v.Team.PoolID,
		GamesPlayed:      v.GamesPlayed,
		Wins:             v.Wins,
		Ties:             v.Ties,
		Losses:           v.Losses,
		GoalsFor:         v.GoalsFor,
		GoalsAgainst:     v.GoalsAgainst,
		GoalDifferential: v.GoalDifferential,
		Points:           v.Points,
		FairPlayPoints:   v.FairPlayPoints(),
	}
}

func standingsToDTO(items []standing.Standing) []standingDTO {
	out := make([]standingDTO, 0, len(items))
	for _, item := range items {
		out = append(out, standingToDTO(item))
	}
	return out
}

func seedsToDTO(items []qualification.Seed) []seedDTO {
	out := make([]seedDTO, 0, len(items))
	for _, item := range items {
		out = append(out, seedDTO{
			Seed:             item.Seed,
			TeamID:           item.TeamID(),
			TeamName:         item.Standing.Team.Name,
			PoolWinner:       item.PoolWinner,
			ManuallySelected: item.ManuallySelected,
			Points:           item.Standing.Points,
			GoalDifferential: item.Standing.GoalDifferential,
		})
	}
	return out
}

func qualificationToDTO(v qualification.Result) qualificationDTO {
	pools := make([]poolStandingsDTO, 0, len(v.Pools))
	for _, table := range v.Pools {
		item := poolStandingsDTO{
			PoolID:    table.PoolID,
			PoolName:  table.PoolName,
			Standings: standingsToDTO(table.Standings),
		}
		if table.Winner != nil {
			item.WinnerID = table.Winner.TeamID()
		}
		if table.RunnerUp != nil {
			item.RunnerUpID = table.RunnerUp.TeamID()
		}
		pools = append(pools, item)
	}

	return qualificationDTO{
		Status:            v.Status,
		Reason:            v.Reason,
		CompletedGames:    v.CompletedGames,
		WildcardSlots:     v.Rules.WildcardSlots,
		OpenWildcardSlots: v.OpenWildcardSlots,
		Pools:             pools,
		PoolWinners:       standingsToDTO(v.PoolWinners),
		SecondPlace:       standingsToDTO(v.SecondPlace),
		LockedWildcards:   standingsToDTO(v.LockedWildcards),
		TiedCandidates:    standingsToDTO(v.TiedCandidates),
		Seeds:             seedsToDTO(v.Seeds),
	}
}

func sideToDTO(v bracket.Side) sideDTO {
	return sideDTO{TeamID: v.TeamID, Seed: v.Seed, Label: v.Placeholder}
}

func bracketToDTO(v bracket.Bracket) bracketDTO {
	out := bracketDTO{Matchups: make([]matchupDTO, 0, len(v.Matchups)), ChampionID: v.ChampionID}
	for _, m := range v.Matchups {
		item := matchupDTO{
			Key:         m.Key,
			Round:       m.Round,
			Position:    m.Position,
			Home:        sideToDTO(m.Home),
			Away:        sideToDTO(m.Away),
			WinnerID:    m.WinnerID,
			Schedulable: m.Schedulable(),
		}
		if m.Game != nil {
			g := gameToDTO(*m.Game)
			item.Game = &g
		}
		out.Matchups = append(out.Matchups, item)
	}
	return out
}
