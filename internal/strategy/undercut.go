package strategy

import (
	"math"
)

// Undercut feasibility bands in laps needed to overcome the gap.
const (
	undercutStrongLaps   = 3
	undercutModerateLaps = 6
	undercutRiskyLaps    = 10
	trackPositionLaps    = 5
)

// UndercutInput describes the on-track situation for an undercut call.
type UndercutInput struct {
	Track             string  `json:"track"`
	GapToCarAhead     float64 `json:"gap_to_car_ahead"`
	TireAgeDifference int     `json:"tire_age_difference"`
	TireCompound      string  `json:"tire_compound"`
}

// UndercutAnalysis is the outcome of an undercut feasibility calculation.
// The lap counts are omitted when no tire advantage exists to close the gap.
type UndercutAnalysis struct {
	Track                    string  `json:"track"`
	Feasible                 bool    `json:"undercut_feasible"`
	LapsToOvercomeGap        float64 `json:"laps_to_overcome_gap,omitempty"`
	AdjustedForTrackPosition float64 `json:"adjusted_for_track_position,omitempty"`
	TireAdvantagePerLap      float64 `json:"tire_advantage_per_lap"`
	Recommendation           string  `json:"recommendation"`
}

// AnalyzeUndercut calculates whether pitting now can beat the car ahead.
func AnalyzeUndercut(input UndercutInput) (UndercutAnalysis, error) {
	track, err := Track(input.Track)
	if err != nil {
		return UndercutAnalysis{}, err
	}
	tire := Tire(input.TireCompound)

	tireAdvantage := float64(input.TireAgeDifference) * tire.DegradationRate
	if tireAdvantage <= 0 {
		// Rival tires are the same age or fresher: the gap never closes.
		return UndercutAnalysis{
			Track:               track.Name,
			TireAdvantagePerLap: round2(tireAdvantage),
			Recommendation:      "UNDERCUT NOT VIABLE: No tire advantage over the car ahead",
		}, nil
	}

	totalDeficit := input.GapToCarAhead + track.PitLossSeconds
	lapsToOvercome := math.Ceil(totalDeficit / tireAdvantage)

	// Clean-air value of holding position works against the undercut.
	positionPenalty := track.TrackPositionValue * trackPositionLaps
	adjustedLaps := lapsToOvercome + positionPenalty/tireAdvantage

	return UndercutAnalysis{
		Track:                    track.Name,
		Feasible:                 lapsToOvercome <= undercutRiskyLaps,
		LapsToOvercomeGap:        round1(lapsToOvercome),
		AdjustedForTrackPosition: round1(adjustedLaps),
		TireAdvantagePerLap:      round2(tireAdvantage),
		Recommendation:           undercutRecommendation(lapsToOvercome, track),
	}, nil
}

func undercutRecommendation(lapsToOvercome float64, track TrackProfile) string {
	switch {
	case lapsToOvercome <= undercutStrongLaps:
		return "STRONG UNDERCUT: High probability of success"
	case lapsToOvercome <= undercutModerateLaps:
		return "MODERATE UNDERCUT: Reasonable chance of success"
	case lapsToOvercome <= undercutRiskyLaps:
		return "RISKY UNDERCUT: Success depends on execution and traffic"
	case track.OvertakingDifficulty < 5:
		return "UNDERCUT NOT RECOMMENDED: Better to overtake on track"
	default:
		return "UNDERCUT NOT VIABLE: Consider alternative strategies"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
