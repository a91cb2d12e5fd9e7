package strategy

import "fmt"

// Roughly one grid position per 0.3s of single-lap pace.
const secondsPerGridPosition = 0.3

// SetupInput describes a qualifying-trim versus race-trim tradeoff.
type SetupInput struct {
	QualiPaceGain             float64 `json:"quali_pace_gain"`
	RacePaceLoss              float64 `json:"race_pace_loss"`
	TrackOvertakingDifficulty int     `json:"track_overtaking_difficulty"`
}

// SetupAnalysis recommends which trim to run.
type SetupAnalysis struct {
	Recommendation         string   `json:"recommendation"`
	Confidence             string   `json:"confidence"`
	GridPositionsGained    int      `json:"grid_positions_gained"`
	TotalRaceTimeLoss      float64  `json:"total_race_time_loss"`
	EffectiveGridAdvantage float64  `json:"effective_grid_advantage"`
	OvertakingFactor       float64  `json:"overtaking_difficulty_factor"`
	KeyInsights            []string `json:"key_insights"`
}

// AnalyzeSetupTradeoff weighs grid position against race-distance pace.
func AnalyzeSetupTradeoff(input SetupInput) SetupAnalysis {
	gridGained := int(input.QualiPaceGain / secondsPerGridPosition)
	if gridGained < 1 {
		gridGained = 1
	}

	// Per-lap deficit over a typical 60-lap race distance.
	racePaceDeficitPerLap := input.RacePaceLoss / 60
	totalRaceTimeLoss := racePaceDeficitPerLap * 60

	recoveryDifficulty := float64(input.TrackOvertakingDifficulty) / 10.0
	effectiveAdvantage := float64(gridGained) * (1 + recoveryDifficulty)

	var recommendation, confidence string
	if effectiveAdvantage > totalRaceTimeLoss/secondsPerGridPosition {
		recommendation = "FAVOR QUALIFYING: Grid position advantage outweighs race pace loss"
		confidence = "medium"
		if effectiveAdvantage > totalRaceTimeLoss/0.2 {
			confidence = "high"
		}
	} else {
		recommendation = "FAVOR RACE PACE: Race performance more important than grid position"
		confidence = "medium"
		if totalRaceTimeLoss > effectiveAdvantage*0.4 {
			confidence = "high"
		}
	}

	return SetupAnalysis{
		Recommendation:         recommendation,
		Confidence:             confidence,
		GridPositionsGained:    gridGained,
		TotalRaceTimeLoss:      round1(totalRaceTimeLoss),
		EffectiveGridAdvantage: round1(effectiveAdvantage),
		OvertakingFactor:       round2(recoveryDifficulty),
		KeyInsights: []string{
			fmt.Sprintf("Qualifying setup gains ~%d grid positions", gridGained),
			fmt.Sprintf("Race setup costs ~%.1f seconds over race distance", totalRaceTimeLoss),
			fmt.Sprintf("Track overtaking difficulty: %d/10", input.TrackOvertakingDifficulty),
			fmt.Sprintf("Effective grid advantage value: %.1f positions", effectiveAdvantage),
		},
	}
}
