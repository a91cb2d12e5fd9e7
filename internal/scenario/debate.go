// Package scenario holds the scripted strategy debate scenarios, the
// what-if explorer and the historical case library.
package scenario

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/pranjalekhande/paddock-ai/internal/models"
)

// DebateOption is one strategic choice within a scenario.
type DebateOption struct {
	Key         string
	Description string
	Arguments   []string
}

// DebateScenario is a scripted strategic dilemma for discussion.
type DebateScenario struct {
	ID      string
	Title   string
	Context string
	Options []DebateOption
	Factors []string
}

var debateScenarios = map[string]DebateScenario{
	"monaco_rain": {
		ID:      "monaco_rain",
		Title:   "Monaco GP - Rain Strategy Dilemma",
		Context: "It's lap 25 of 78 at Monaco. Light rain has started falling. You're running P3 on medium tires that have 15 laps left. The cars ahead are on hard tires.",
		Options: []DebateOption{
			{Key: "A", Description: "Stay out and hope rain stops - maintain track position", Arguments: []string{"Monaco overtaking difficulty", "Track position value", "Weather uncertainty"}},
			{Key: "B", Description: "Pit immediately for intermediates - risk losing positions", Arguments: []string{"Safety first approach", "Tire performance advantage", "Potential safety car timing"}},
			{Key: "C", Description: "Wait 2-3 laps to see rain intensity before deciding", Arguments: []string{"Information gathering", "Reactive strategy", "Minimizing risk"}},
		},
		Factors: []string{
			"Track position is crucial at Monaco - overtaking is nearly impossible",
			"Intermediate tires perform poorly on drying track",
			"Weather forecast shows 40% chance of heavier rain",
			"Safety car deployment could shuffle the field",
		},
	},
	"spa_undercut": {
		ID:      "spa_undercut",
		Title:   "Spa-Francorchamps - Undercut Opportunity",
		Context: "Lap 35 of 60 at Spa. You're P4, 8 seconds behind P3, but your tires are degrading faster. P3 hasn't pitted yet and is on older mediums.",
		Options: []DebateOption{
			{Key: "A", Description: "Pit now for fresh hards - attempt undercut", Arguments: []string{"Undercut effectiveness", "Fresh tire advantage", "Track characteristics"}},
			{Key: "B", Description: "Stay out 5 more laps - try to overcut", Arguments: []string{"Overcut potential", "Tire management", "Strategic patience"}},
			{Key: "C", Description: "Match P3's strategy exactly", Arguments: []string{"Risk minimization", "Reactive strategy", "Driver skill importance"}},
		},
		Factors: []string{
			"Spa has long straights favoring fresh tires",
			"Pit lane time loss is 23 seconds",
			"DRS zones provide good overtaking opportunities",
			"Weather conditions are stable",
		},
	},
	"silverstone_safety_car": {
		ID:      "silverstone_safety_car",
		Title:   "Silverstone - Safety Car Strategic Call",
		Context: "Lap 42 of 52 at Silverstone. Safety car deployed. You're P2 on 25-lap old mediums. P1 has newer tires. Most of the field will pit.",
		Options: []DebateOption{
			{Key: "A", Description: "Pit for fresh softs - join the pack but with tire advantage", Arguments: []string{"Tire advantage importance", "Overtaking capability", "Risk vs reward"}},
			{Key: "B", Description: "Stay out - inherit lead but on older tires", Arguments: []string{"Track position value", "Defensive driving", "Tire management skills"}},
			{Key: "C", Description: "Pit for hards - compromise between pace and longevity", Arguments: []string{"Balanced approach", "Strategic flexibility", "Long-term thinking"}},
		},
		Factors: []string{
			"10 laps remaining after safety car",
			"Silverstone allows good overtaking opportunities",
			"Soft tires have 8-10 laps of peak performance",
			"Your car has strong race pace but struggles in traffic",
		},
	},
	"hungary_qualifying": {
		ID:      "hungary_qualifying",
		Title:   "Hungarian GP - Qualifying Setup Dilemma",
		Context: "Saturday morning practice at Hungary. Your car is 0.3s faster in race trim but struggles for one-lap pace. Championship battle is tight.",
		Options: []DebateOption{
			{Key: "A", Description: "Optimize for qualifying - risk poor race pace", Arguments: []string{"Grid position importance", "Hungary track characteristics", "Championship pressure"}},
			{Key: "B", Description: "Keep race setup - accept lower grid position", Arguments: []string{"Race pace priority", "Strategic patience", "Overtaking confidence"}},
			{Key: "C", Description: "Find compromise setup - potentially sub-optimal for both", Arguments: []string{"Risk management", "Balanced approach", "Adaptability"}},
		},
		Factors: []string{
			"Hungary is extremely difficult for overtaking",
			"Championship points are crucial",
			"Weather forecast shows possible rain for qualifying",
			"Your main rival has similar pace dilemma",
		},
	},
}

var strategicPrinciples = map[string]string{
	"track_position":    "Clean air and track position are often worth 2-3 tenths per lap",
	"tire_delta":        "Fresh tire advantage typically provides 1-2 seconds per lap initially",
	"undercut_window":   "Undercut is most effective within 3-5 laps of optimal pit window",
	"safety_car_timing": "Safety car can gain/lose 20+ seconds depending on timing",
	"weather_factor":    "Rain can completely neutralize car performance differences",
	"drs_effect":        "DRS zones reduce track position advantage significantly",
	"championship_math": "Points vs risk calculation changes based on championship standing",
}

// DebateScenarioIDs lists the available scenario IDs, sorted.
func DebateScenarioIDs() []string {
	ids := make([]string, 0, len(debateScenarios))
	for id := range debateScenarios {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DebateScenarioByID returns a specific scenario.
func DebateScenarioByID(id string) (DebateScenario, error) {
	scenario, ok := debateScenarios[id]
	if !ok {
		return DebateScenario{}, fmt.Errorf("debate scenario %q: %w", id, models.ErrNotFound)
	}
	return scenario, nil
}

// RandomDebateScenario picks one scenario at random.
func RandomDebateScenario() DebateScenario {
	ids := DebateScenarioIDs()
	return debateScenarios[ids[rand.Intn(len(ids))]]
}

// StrategicPrinciple explains a named strategic rule of thumb.
func StrategicPrinciple(name string) (string, error) {
	principle, ok := strategicPrinciples[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("strategic principle %q: %w", name, models.ErrNotFound)
	}
	return principle, nil
}

// FormatDebate renders a scenario as a discussion prompt.
func FormatDebate(scenario DebateScenario) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n**Scenario:** %s\n\n", scenario.Title, scenario.Context)

	b.WriteString("**Strategic Options:**\n")
	for _, option := range scenario.Options {
		fmt.Fprintf(&b, "**Option %s:** %s\n", option.Key, option.Description)
	}
	b.WriteString("\n**Key Strategic Factors:**\n")
	for _, factor := range scenario.Factors {
		fmt.Fprintf(&b, "• %s\n", factor)
	}

	b.WriteString("\n**Debate Arguments:**\n")
	for _, option := range scenario.Options {
		label := option.Description
		if idx := strings.Index(label, " - "); idx >= 0 {
			label = label[:idx]
		}
		fmt.Fprintf(&b, "**For Option %s (%s):**\n", option.Key, label)
		for _, argument := range option.Arguments {
			fmt.Fprintf(&b, "  - %s\n", argument)
		}
	}

	b.WriteString("\n**Discussion Questions:**\n")
	b.WriteString("- Which factors are most important in this scenario?\n")
	b.WriteString("- How would your decision change if you were leading/trailing in the championship?\n")
	b.WriteString("- What would you do and why?\n")

	return b.String()
}
