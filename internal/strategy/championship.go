package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const maxPointsPerRace = 25

// racePointsTable maps finishing position (index 0 = P1) to points.
var racePointsTable = []int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

// Championship status relative to the closest rival.
const (
	StatusLeading  = "leading"
	StatusTrailing = "trailing"
	StatusTied     = "tied"
)

// ChampionshipInput describes a driver's title situation.
type ChampionshipInput struct {
	CurrentPoints       decimal.Decimal `json:"current_points"`
	CompetitorPoints    decimal.Decimal `json:"competitor_points"`
	RacesRemaining      int             `json:"races_remaining"`
	CurrentRacePosition int             `json:"current_race_position"`
}

// ChampionshipAnalysis translates the points math into a risk posture.
type ChampionshipAnalysis struct {
	Status             string          `json:"championship_status"`
	PointsDeficit      decimal.Decimal `json:"points_deficit"`
	StrategyApproach   string          `json:"strategy_approach"`
	RiskTolerance      string          `json:"risk_tolerance"`
	Advice             string          `json:"strategic_advice"`
	MaxPointsAvailable int             `json:"maximum_points_available"`
	ChampionshipViable bool            `json:"championship_viable"`
	CurrentRaceWeight  string          `json:"current_race_importance"`
}

// PointsForPosition returns race points for a finishing position.
func PointsForPosition(position int) int {
	if position < 1 || position > len(racePointsTable) {
		return 0
	}
	return racePointsTable[position-1]
}

// AnalyzeChampionship derives the appropriate risk tolerance from the
// points deficit and the points still on the table.
func AnalyzeChampionship(input ChampionshipInput) ChampionshipAnalysis {
	deficit := input.CompetitorPoints.Sub(input.CurrentPoints)
	maxAvailable := input.RacesRemaining * maxPointsPerRace
	maxAvailableDec := decimal.NewFromInt(int64(maxAvailable))
	racePoints := PointsForPosition(input.CurrentRacePosition)

	var status string
	switch {
	case deficit.IsNegative():
		status = StatusLeading
	case deficit.IsPositive():
		status = StatusTrailing
	default:
		status = StatusTied
	}

	analysis := ChampionshipAnalysis{
		Status:             status,
		PointsDeficit:      deficit,
		MaxPointsAvailable: maxAvailable,
		ChampionshipViable: deficit.Abs().LessThanOrEqual(maxAvailableDec),
	}
	if maxAvailable > 0 {
		weight := float64(racePoints) / float64(maxAvailable) * 100
		analysis.CurrentRaceWeight = fmt.Sprintf("%.1f%% of remaining points", weight)
	}

	switch status {
	case StatusLeading:
		analysis.StrategyApproach = "conservative"
		analysis.RiskTolerance = "low"
		analysis.Advice = "Focus on consistent points scoring rather than maximum risk strategies"
	case StatusTrailing:
		switch {
		case deficit.Abs().GreaterThan(maxAvailableDec):
			analysis.StrategyApproach = "championship over"
			analysis.RiskTolerance = "irrelevant"
			analysis.Advice = "Championship mathematically decided"
		case deficit.Abs().GreaterThan(maxAvailableDec.Mul(decimal.NewFromFloat(0.8))):
			analysis.StrategyApproach = "very aggressive"
			analysis.RiskTolerance = "very high"
			analysis.Advice = "Must maximize every opportunity - high risk strategies justified"
		default:
			analysis.StrategyApproach = "aggressive"
			analysis.RiskTolerance = "high"
			analysis.Advice = "Need to outscore competitor - favor high reward strategies"
		}
	default:
		analysis.StrategyApproach = "balanced aggressive"
		analysis.RiskTolerance = "medium-high"
		analysis.Advice = "Slight bias toward aggressive strategies to gain advantage"
	}

	return analysis
}
