package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranjalekhande/paddock-ai/internal/models"
)

func TestDebateScenarioIDs(t *testing.T) {
	ids := DebateScenarioIDs()
	assert.Equal(t, []string{"hungary_qualifying", "monaco_rain", "silverstone_safety_car", "spa_undercut"}, ids)
}

func TestDebateScenarioByID(t *testing.T) {
	scenario, err := DebateScenarioByID("monaco_rain")
	require.NoError(t, err)
	assert.Equal(t, "Monaco GP - Rain Strategy Dilemma", scenario.Title)
	assert.Len(t, scenario.Options, 3)

	_, err = DebateScenarioByID("jeddah_restart")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRandomDebateScenarioIsKnown(t *testing.T) {
	scenario := RandomDebateScenario()
	_, err := DebateScenarioByID(scenario.ID)
	assert.NoError(t, err)
}

func TestFormatDebate(t *testing.T) {
	scenario, err := DebateScenarioByID("spa_undercut")
	require.NoError(t, err)

	text := FormatDebate(scenario)
	assert.Contains(t, text, "Spa-Francorchamps - Undercut Opportunity")
	assert.Contains(t, text, "**Option A:** Pit now for fresh hards - attempt undercut")
	assert.Contains(t, text, "**For Option A (Pit now for fresh hards):**")
	assert.Contains(t, text, "Pit lane time loss is 23 seconds")
	assert.Contains(t, text, "What would you do and why?")
}

func TestStrategicPrinciple(t *testing.T) {
	principle, err := StrategicPrinciple("undercut_window")
	require.NoError(t, err)
	assert.Contains(t, principle, "3-5 laps")

	_, err = StrategicPrinciple("fuel_saving")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestExploreWhatIfScripted(t *testing.T) {
	analysis := ExploreWhatIf("What if Verstappen pitted earlier at Abu Dhabi 2024?")
	assert.Contains(t, analysis, "What-If Analysis")
	assert.Contains(t, analysis, "Won by 7.456 seconds")
	assert.Contains(t, analysis, "Medium (lap 13)")
}

func TestExploreWhatIfGeneric(t *testing.T) {
	analysis := ExploreWhatIf("What if Alonso had started on hards?")
	assert.Contains(t, analysis, "Strategic Framework")
	assert.Contains(t, analysis, "What if Alonso had started on hards?")
}

func TestFindSimilarCasesRain(t *testing.T) {
	report := FindSimilarCases("How do teams handle rain strategy calls?")
	assert.Contains(t, report, "Weather Strategy")
	assert.Contains(t, report, "Brazil 2008")
	assert.Contains(t, report, "What Usually Works")
}

func TestFindSimilarCasesSafetyCar(t *testing.T) {
	report := FindSimilarCases("Pit under the safety car or stay out?")
	assert.Contains(t, report, "Safety Car Strategy")
	assert.Contains(t, report, "Abu Dhabi 2021")
	assert.Contains(t, report, "Common Pitfalls")
}

func TestFindSimilarCasesFallback(t *testing.T) {
	report := FindSimilarCases("Tire pressure regulations")
	assert.Contains(t, report, "Strategic Principles from F1 History")
}
