package strategy

import (
	"fmt"
	"math"
)

// SafetyCarInput describes the situation when a safety car is deployed.
type SafetyCarInput struct {
	Track           string `json:"track"`
	LapsRemaining   int    `json:"laps_remaining"`
	CurrentPosition int    `json:"current_position"`
	TireAge         int    `json:"tire_age"`
	TireCompound    string `json:"tire_compound"`
}

// PitAnalysis estimates the cost and recovery of pitting under safety car.
type PitAnalysis struct {
	PositionsLostInitially int     `json:"positions_lost_initially"`
	FreshTireAdvantage     float64 `json:"fresh_tire_advantage"`
	LapsOfAdvantage        int     `json:"laps_of_advantage"`
	PositionsRecoverable   int     `json:"positions_recoverable"`
}

// StayOutAnalysis estimates how defensible track position is on worn tires.
type StayOutAnalysis struct {
	TirePerformanceRemaining float64 `json:"tire_performance_remaining"`
	DefensiveCapability      bool    `json:"defensive_capability"`
	RiskOfPositionLoss       float64 `json:"risk_of_position_loss"`
}

// SafetyCarAnalysis is the pit-or-stay recommendation under safety car.
type SafetyCarAnalysis struct {
	Recommendation string          `json:"recommendation"`
	Pit            PitAnalysis     `json:"pit_analysis"`
	StayOut        StayOutAnalysis `json:"stay_out_analysis"`
	KeyFactors     []string        `json:"key_factors"`
}

// AnalyzeSafetyCar weighs pitting for fresh tires against holding position.
func AnalyzeSafetyCar(input SafetyCarInput) (SafetyCarAnalysis, error) {
	track, err := Track(input.Track)
	if err != nil {
		return SafetyCarAnalysis{}, err
	}
	tire := Tire(input.TireCompound)

	tirePerformance := math.Max(0, 1-float64(input.TireAge)*tire.DegradationRate/2)

	pit := PitAnalysis{
		PositionsLostInitially: min(input.CurrentPosition-1, 8),
		FreshTireAdvantage:     tire.InitialAdvantage,
		LapsOfAdvantage:        min(input.LapsRemaining, tire.PeakPerformanceLaps),
	}
	if track.OvertakingDifficulty < 5 {
		totalAdvantage := pit.FreshTireAdvantage * float64(pit.LapsOfAdvantage)
		pit.PositionsRecoverable = min(pit.PositionsLostInitially, int(totalAdvantage/2))
	}

	stayOut := StayOutAnalysis{
		TirePerformanceRemaining: tirePerformance,
		DefensiveCapability:      tirePerformance > 0.5,
		RiskOfPositionLoss:       (1 - tirePerformance) * float64(track.OvertakingDifficulty) / 10,
	}

	netChange := pit.PositionsRecoverable - pit.PositionsLostInitially
	var recommendation string
	switch {
	case netChange > 0:
		recommendation = "PIT: Fresh tires likely to gain net positions"
	case netChange == 0 && input.LapsRemaining > 10:
		recommendation = "PIT: Neutral position change but better tire strategy"
	case stayOut.TirePerformanceRemaining > 0.6:
		recommendation = "STAY OUT: Tires still competitive, maintain track position"
	default:
		recommendation = "DIFFICULT CHOICE: Analyze field spread and specific competitors"
	}

	return SafetyCarAnalysis{
		Recommendation: recommendation,
		Pit:            pit,
		StayOut:        stayOut,
		KeyFactors: []string{
			fmt.Sprintf("Track overtaking difficulty: %d/10", track.OvertakingDifficulty),
			fmt.Sprintf("Current tire performance: %d%%", int(math.Round(tirePerformance*100))),
			fmt.Sprintf("Laps remaining: %d", input.LapsRemaining),
			fmt.Sprintf("Fresh tire advantage: %.1fs per lap", tire.InitialAdvantage),
		},
	}, nil
}
