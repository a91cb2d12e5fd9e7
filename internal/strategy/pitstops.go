package strategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pranjalekhande/paddock-ai/internal/models"
)

// StopPattern groups one driver's pit stops within a race.
type StopPattern struct {
	Driver string
	Stops  []models.PitStop
}

// GroupStopPatterns buckets drivers by stop count, preserving a stable
// driver order inside each bucket.
func GroupStopPatterns(stops []models.PitStop) (oneStop, twoStop, multiStop []StopPattern) {
	byDriver := make(map[string][]models.PitStop)
	var order []string
	for _, stop := range stops {
		if _, seen := byDriver[stop.Driver]; !seen {
			order = append(order, stop.Driver)
		}
		byDriver[stop.Driver] = append(byDriver[stop.Driver], stop)
	}

	for _, driver := range order {
		driverStops := byDriver[driver]
		sort.Slice(driverStops, func(i, j int) bool { return driverStops[i].Lap < driverStops[j].Lap })
		pattern := StopPattern{Driver: driver, Stops: driverStops}
		switch len(driverStops) {
		case 1:
			oneStop = append(oneStop, pattern)
		case 2:
			twoStop = append(twoStop, pattern)
		default:
			multiStop = append(multiStop, pattern)
		}
	}
	return oneStop, twoStop, multiStop
}

// AnalyzeTireStrategies renders a pit-stop pattern report for a race.
func AnalyzeTireStrategies(raceName string, stops []models.PitStop) string {
	if len(stops) == 0 {
		return fmt.Sprintf("No pit stop data available for %s.", raceName)
	}

	oneStop, twoStop, multiStop := GroupStopPatterns(stops)

	var b strings.Builder
	fmt.Fprintf(&b, "**Tire Strategy Analysis for %s:**\n\n", raceName)

	if len(oneStop) > 0 {
		fmt.Fprintf(&b, "**One-Stop Strategy (%d drivers):**\n", len(oneStop))
		for _, pattern := range capPatterns(oneStop, 3) {
			fmt.Fprintf(&b, "- %s: Pit on lap %d\n", displayName(pattern.Driver), pattern.Stops[0].Lap)
		}
		b.WriteString("\n")
	}

	if len(twoStop) > 0 {
		fmt.Fprintf(&b, "**Two-Stop Strategy (%d drivers):**\n", len(twoStop))
		for _, pattern := range capPatterns(twoStop, 3) {
			fmt.Fprintf(&b, "- %s: Pits on laps %s\n", displayName(pattern.Driver), lapList(pattern.Stops))
		}
		b.WriteString("\n")
	}

	if len(multiStop) > 0 {
		fmt.Fprintf(&b, "**Multi-Stop Strategy (%d drivers):**\n", len(multiStop))
		for _, pattern := range capPatterns(multiStop, 2) {
			fmt.Fprintf(&b, "- %s: %d stops on laps %s\n", displayName(pattern.Driver), len(pattern.Stops), lapList(pattern.Stops))
		}
	}

	b.WriteString("\n**Strategic Insights:**\n")
	b.WriteString("- Track conditions and tire degradation likely influenced these strategies\n")
	b.WriteString("- Weather conditions may have forced tactical changes\n")
	b.WriteString("- Teams with fewer stops likely prioritized track position over tire performance\n")

	return b.String()
}

func capPatterns(patterns []StopPattern, limit int) []StopPattern {
	if len(patterns) > limit {
		return patterns[:limit]
	}
	return patterns
}

func lapList(stops []models.PitStop) string {
	laps := make([]string, len(stops))
	for i, stop := range stops {
		laps[i] = fmt.Sprintf("%d", stop.Lap)
	}
	return strings.Join(laps, ", ")
}

func displayName(driverID string) string {
	parts := strings.Split(strings.ReplaceAll(driverID, "_", " "), " ")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
