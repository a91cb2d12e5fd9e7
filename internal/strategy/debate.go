package strategy

import (
	"fmt"
	"sort"
	"strings"
)

// DebateTopic is a two-sided strategic argument table.
type DebateTopic struct {
	Title      string
	SideALabel string
	SideBLabel string
	SideA      []string
	SideB      []string
}

var debateTopics = map[string]DebateTopic{
	"tire_strategy": {
		Title:      "Tire Strategy: Aggressive vs Conservative",
		SideALabel: "Arguments for Aggressive Strategy",
		SideBLabel: "Arguments for Conservative Strategy",
		SideA: []string{
			"Fresher tires provide significant pace advantage in final stint",
			"Track position less important on circuits with good overtaking opportunities",
			"Aggressive strategy can surprise competitors and gain strategic advantage",
			"Fresh tires allow drivers to push harder without degradation concerns",
		},
		SideB: []string{
			"Track position is crucial - clean air is worth several tenths per lap",
			"One-stop strategy reduces risk of pit stop errors and safety car timing",
			"Conservative approach allows for opportunistic gains from others' mistakes",
			"Tire degradation can be managed through driver skill and setup",
		},
	},
	"qualifying_setup": {
		Title:      "Qualifying Setup: Peak Performance vs Race Trim",
		SideALabel: "Arguments for First Option",
		SideBLabel: "Arguments for Second Option",
		SideA: []string{
			"Grid position is critical - starting further ahead provides strategic options",
			"Clean air in qualifying maximizes car's true pace potential",
			"Psychological advantage of strong qualifying performance",
			"Better starting position reduces risk of first-lap incidents",
		},
		SideB: []string{
			"Race pace over 50+ laps more important than single-lap performance",
			"Balanced setup allows for better tire management throughout race",
			"Flexibility to adapt strategy based on race conditions",
			"Consistent pace can overcome poor grid position through superior strategy",
		},
	},
	"pit_stop_timing": {
		Title:      "Pit Stop Timing: Early vs Late Window",
		SideALabel: "Arguments for First Option",
		SideBLabel: "Arguments for Second Option",
		SideA: []string{
			"Undercut advantage - gaining track position through fresher tires",
			"Avoiding traffic allows for faster lap times immediately after pit stop",
			"Early stop provides more strategic options for remainder of race",
			"Reduces risk of being caught in DRS trains or traffic",
		},
		SideB: []string{
			"Overcut strategy - staying out longer on worn tires to gain positions",
			"Fresh tires for final stint provide better overtaking opportunities",
			"Late pit window allows reaction to competitors' strategies",
			"Better tire advantage in final crucial laps of the race",
		},
	},
}

// DebateTopics lists the available topic keys, sorted.
func DebateTopics() []string {
	keys := make([]string, 0, len(debateTopics))
	for key := range debateTopics {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// DebatePoints renders the argument table for a strategic topic.
func DebatePoints(topic string) string {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(topic), " ", "_"))
	debate, ok := debateTopics[key]
	if !ok {
		return fmt.Sprintf("Strategy debate topic %q not found. Available topics: %s", topic, strings.Join(DebateTopics(), ", "))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", debate.Title)

	fmt.Fprintf(&b, "**%s:**\n", debate.SideALabel)
	for _, point := range debate.SideA {
		fmt.Fprintf(&b, "• %s\n", point)
	}
	fmt.Fprintf(&b, "\n**%s:**\n", debate.SideBLabel)
	for _, point := range debate.SideB {
		fmt.Fprintf(&b, "• %s\n", point)
	}

	b.WriteString("\n**Discussion Points:**\n")
	b.WriteString("- What factors would influence your choice between these strategies?\n")
	b.WriteString("- How do track characteristics affect this strategic decision?\n")
	b.WriteString("- What role does weather/conditions play in this choice?\n")

	return b.String()
}
