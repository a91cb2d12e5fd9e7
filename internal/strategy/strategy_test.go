package strategy

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranjalekhande/paddock-ai/internal/models"
)

func TestTrackLookup(t *testing.T) {
	track, err := Track("Monaco")
	require.NoError(t, err)
	assert.Equal(t, 16.5, track.PitLossSeconds)
	assert.Equal(t, 10, track.OvertakingDifficulty)

	_, err = Track("imola")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTireDefaultsToMedium(t *testing.T) {
	tire := Tire("intermediate")
	assert.Equal(t, CompoundMedium, tire.Compound)
	assert.Equal(t, 0.08, tire.DegradationRate)
}

func TestAnalyzeUndercutStrong(t *testing.T) {
	// 24s total deficit against 10 laps of age difference on softs:
	// 1.5s/lap advantage closes it in 16 laps, not feasible at Spa.
	analysis, err := AnalyzeUndercut(UndercutInput{
		Track:             "spa",
		GapToCarAhead:     0.8,
		TireAgeDifference: 10,
		TireCompound:      CompoundSoft,
	})
	require.NoError(t, err)

	assert.Equal(t, 1.5, analysis.TireAdvantagePerLap)
	assert.Equal(t, 16.0, analysis.LapsToOvercomeGap)
	assert.False(t, analysis.Feasible)
}

func TestAnalyzeUndercutFeasible(t *testing.T) {
	analysis, err := AnalyzeUndercut(UndercutInput{
		Track:             "silverstone",
		GapToCarAhead:     1.0,
		TireAgeDifference: 15,
		TireCompound:      CompoundSoft,
	})
	require.NoError(t, err)

	// (1.0 + 20.8) / 2.25 = 9.69 -> ceil 10 laps, risky but feasible.
	assert.True(t, analysis.Feasible)
	assert.Equal(t, 10.0, analysis.LapsToOvercomeGap)
	assert.Contains(t, analysis.Recommendation, "RISKY UNDERCUT")
}

func TestAnalyzeUndercutNoAdvantage(t *testing.T) {
	for _, ageDiff := range []int{0, -3} {
		analysis, err := AnalyzeUndercut(UndercutInput{
			Track:             "monaco",
			GapToCarAhead:     2.0,
			TireAgeDifference: ageDiff,
			TireCompound:      CompoundSoft,
		})
		require.NoError(t, err)

		assert.False(t, analysis.Feasible)
		assert.Zero(t, analysis.LapsToOvercomeGap)
		assert.Contains(t, analysis.Recommendation, "NOT VIABLE")

		// The agent tool renders the analysis as JSON; the payload must
		// stay marshalable with no lap count to report.
		data, err := json.Marshal(analysis)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "laps_to_overcome_gap")
	}
}

func TestAnalyzeUndercutUnknownTrack(t *testing.T) {
	_, err := AnalyzeUndercut(UndercutInput{Track: "suzuka"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAnalyzeSafetyCarStayOut(t *testing.T) {
	// Fresh mediums at Monaco: track position wins.
	analysis, err := AnalyzeSafetyCar(SafetyCarInput{
		Track:           "monaco",
		LapsRemaining:   20,
		CurrentPosition: 2,
		TireAge:         5,
		TireCompound:    CompoundMedium,
	})
	require.NoError(t, err)

	assert.Contains(t, analysis.Recommendation, "STAY OUT")
	assert.True(t, analysis.StayOut.DefensiveCapability)
	assert.Equal(t, 1, analysis.Pit.PositionsLostInitially)
	assert.Equal(t, 0, analysis.Pit.PositionsRecoverable)
}

func TestAnalyzeSafetyCarWornTires(t *testing.T) {
	analysis, err := AnalyzeSafetyCar(SafetyCarInput{
		Track:           "hungary",
		LapsRemaining:   8,
		CurrentPosition: 4,
		TireAge:         30,
		TireCompound:    CompoundSoft,
	})
	require.NoError(t, err)

	assert.False(t, analysis.StayOut.DefensiveCapability)
	assert.Contains(t, analysis.Recommendation, "DIFFICULT CHOICE")
	assert.Len(t, analysis.KeyFactors, 4)
}

func TestAnalyzeChampionshipLeading(t *testing.T) {
	analysis := AnalyzeChampionship(ChampionshipInput{
		CurrentPoints:       decimal.NewFromInt(216),
		CompetitorPoints:    decimal.NewFromInt(201),
		RacesRemaining:      10,
		CurrentRacePosition: 1,
	})

	assert.Equal(t, StatusLeading, analysis.Status)
	assert.Equal(t, "conservative", analysis.StrategyApproach)
	assert.Equal(t, "low", analysis.RiskTolerance)
	assert.True(t, analysis.ChampionshipViable)
	assert.Equal(t, 250, analysis.MaxPointsAvailable)
	assert.Equal(t, "10.0% of remaining points", analysis.CurrentRaceWeight)
}

func TestAnalyzeChampionshipTrailingBands(t *testing.T) {
	base := ChampionshipInput{RacesRemaining: 4, CurrentRacePosition: 3}

	// 110 behind with 100 available: over.
	base.CurrentPoints = decimal.NewFromInt(100)
	base.CompetitorPoints = decimal.NewFromInt(210)
	assert.Equal(t, "championship over", AnalyzeChampionship(base).StrategyApproach)

	// 90 behind with 100 available: very aggressive.
	base.CompetitorPoints = decimal.NewFromInt(190)
	assert.Equal(t, "very aggressive", AnalyzeChampionship(base).StrategyApproach)

	// 30 behind: aggressive.
	base.CompetitorPoints = decimal.NewFromInt(130)
	assert.Equal(t, "aggressive", AnalyzeChampionship(base).StrategyApproach)

	// Tied.
	base.CompetitorPoints = decimal.NewFromInt(100)
	got := AnalyzeChampionship(base)
	assert.Equal(t, StatusTied, got.Status)
	assert.Equal(t, "balanced aggressive", got.StrategyApproach)
}

func TestPointsForPosition(t *testing.T) {
	assert.Equal(t, 25, PointsForPosition(1))
	assert.Equal(t, 1, PointsForPosition(10))
	assert.Equal(t, 0, PointsForPosition(11))
	assert.Equal(t, 0, PointsForPosition(0))
}

func TestAnalyzeSetupTradeoff(t *testing.T) {
	analysis := AnalyzeSetupTradeoff(SetupInput{
		QualiPaceGain:             0.6,
		RacePaceLoss:              0.5,
		TrackOvertakingDifficulty: 9,
	})

	assert.Equal(t, 2, analysis.GridPositionsGained)
	assert.Contains(t, analysis.Recommendation, "FAVOR QUALIFYING")
	assert.Len(t, analysis.KeyInsights, 4)
}

func TestAnalyzeSetupTradeoffFavorsRacePace(t *testing.T) {
	analysis := AnalyzeSetupTradeoff(SetupInput{
		QualiPaceGain:             0.2,
		RacePaceLoss:              3.0,
		TrackOvertakingDifficulty: 2,
	})

	assert.Contains(t, analysis.Recommendation, "FAVOR RACE PACE")
	assert.Equal(t, "high", analysis.Confidence)
}

func TestGroupStopPatterns(t *testing.T) {
	stops := []models.PitStop{
		{Driver: "verstappen", Lap: 38},
		{Driver: "verstappen", Lap: 18},
		{Driver: "russell", Lap: 20},
		{Driver: "norris", Lap: 19},
		{Driver: "norris", Lap: 42},
		{Driver: "hamilton", Lap: 22},
		{Driver: "hamilton", Lap: 35},
		{Driver: "hamilton", Lap: 48},
	}

	oneStop, twoStop, multiStop := GroupStopPatterns(stops)

	require.Len(t, oneStop, 1)
	assert.Equal(t, "russell", oneStop[0].Driver)

	require.Len(t, twoStop, 2)
	assert.Equal(t, "verstappen", twoStop[0].Driver)
	assert.Equal(t, 18, twoStop[0].Stops[0].Lap)
	assert.Equal(t, 38, twoStop[0].Stops[1].Lap)

	require.Len(t, multiStop, 1)
	assert.Equal(t, "hamilton", multiStop[0].Driver)
}

func TestAnalyzeTireStrategies(t *testing.T) {
	report := AnalyzeTireStrategies("Abu Dhabi Grand Prix", []models.PitStop{
		{Driver: "max_verstappen", Lap: 18},
		{Driver: "max_verstappen", Lap: 38},
		{Driver: "russell", Lap: 20},
	})

	assert.Contains(t, report, "Tire Strategy Analysis for Abu Dhabi Grand Prix")
	assert.Contains(t, report, "One-Stop Strategy (1 drivers)")
	assert.Contains(t, report, "Russell: Pit on lap 20")
	assert.Contains(t, report, "Max Verstappen: Pits on laps 18, 38")
}

func TestAnalyzeTireStrategiesEmpty(t *testing.T) {
	report := AnalyzeTireStrategies("Qatar Grand Prix", nil)
	assert.Equal(t, "No pit stop data available for Qatar Grand Prix.", report)
}

func TestComputePositionChanges(t *testing.T) {
	quali := []models.ResultRow{
		{Position: 1, Driver: "Max Verstappen"},
		{Position: 2, Driver: "Carlos Sainz"},
		{Position: 4, Driver: "Lando Norris"},
	}
	race := []models.ResultRow{
		{Position: 1, Driver: "Lando Norris"},
		{Position: 2, Driver: "Max Verstappen"},
		{Position: 5, Driver: "Carlos Sainz"},
	}

	changes := ComputePositionChanges(quali, race)
	require.Len(t, changes, 3)
	assert.Equal(t, "Lando Norris", changes[0].Driver)
	assert.Equal(t, 3, changes[0].Change)
	assert.Equal(t, "Carlos Sainz", changes[2].Driver)
	assert.Equal(t, -3, changes[2].Change)
}

func TestCompareQualifyingVsRace(t *testing.T) {
	quali := []models.ResultRow{
		{Position: 4, Driver: "Lando Norris"},
		{Position: 2, Driver: "Carlos Sainz"},
	}
	race := []models.ResultRow{
		{Position: 1, Driver: "Lando Norris"},
		{Position: 5, Driver: "Carlos Sainz"},
	}

	report := CompareQualifyingVsRace("Qatar Grand Prix", quali, race)
	assert.Contains(t, report, "Lando Norris: P4 → P1 (+3 positions)")
	assert.Contains(t, report, "Carlos Sainz: P2 → P5 (-3 positions)")
}

func TestCompareQualifyingVsRaceNoOverlap(t *testing.T) {
	report := CompareQualifyingVsRace("Test GP", []models.ResultRow{{Position: 1, Driver: "a"}}, nil)
	assert.Equal(t, "Insufficient data to compare qualifying vs race performance.", report)
}

func TestDebatePoints(t *testing.T) {
	report := DebatePoints("tire strategy")
	assert.Contains(t, report, "Tire Strategy: Aggressive vs Conservative")
	assert.Contains(t, report, "Fresher tires provide significant pace advantage")

	missing := DebatePoints("engine modes")
	assert.Contains(t, missing, "not found")
	assert.Contains(t, missing, "pit_stop_timing")
}

func TestWeatherMatrix(t *testing.T) {
	matrix := WeatherMatrix()
	assert.Contains(t, matrix, "Weather Strategy Decision Matrix")
	assert.Contains(t, matrix, "Heavy Rain (5mm/hr+)")
	assert.Contains(t, matrix, "Monaco/Hungary: Favor track position")
}
