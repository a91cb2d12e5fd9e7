package strategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pranjalekhande/paddock-ai/internal/models"
)

// PositionChange records one driver's qualifying-to-race movement.
// Change is positive when positions were gained.
type PositionChange struct {
	Driver   string `json:"driver"`
	QualiPos int    `json:"quali_pos"`
	RacePos  int    `json:"race_pos"`
	Change   int    `json:"change"`
}

// ComputePositionChanges joins qualifying and race classifications by
// driver and sorts by positions gained, best first.
func ComputePositionChanges(quali, race []models.ResultRow) []PositionChange {
	racePositions := make(map[string]int, len(race))
	for _, row := range race {
		racePositions[row.Driver] = row.Position
	}

	var changes []PositionChange
	for _, row := range quali {
		racePos, ok := racePositions[row.Driver]
		if !ok {
			continue
		}
		changes = append(changes, PositionChange{
			Driver:   row.Driver,
			QualiPos: row.Position,
			RacePos:  racePos,
			Change:   row.Position - racePos,
		})
	}

	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Change > changes[j].Change })
	return changes
}

// CompareQualifyingVsRace renders the strategic winners and losers of a race.
func CompareQualifyingVsRace(raceName string, quali, race []models.ResultRow) string {
	changes := ComputePositionChanges(quali, race)
	if len(changes) == 0 {
		return "Insufficient data to compare qualifying vs race performance."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Strategic Performance Analysis for %s:**\n\n", raceName)

	b.WriteString("**Biggest Strategic Winners (Gained Positions):**\n")
	for _, change := range capChanges(changes, 5) {
		if change.Change > 0 {
			fmt.Fprintf(&b, "- %s: P%d → P%d (+%d positions)\n", change.Driver, change.QualiPos, change.RacePos, change.Change)
		}
	}

	b.WriteString("\n**Biggest Strategic Losers (Lost Positions):**\n")
	tail := changes
	if len(tail) > 5 {
		tail = tail[len(tail)-5:]
	}
	for i := len(tail) - 1; i >= 0; i-- {
		if tail[i].Change < 0 {
			fmt.Fprintf(&b, "- %s: P%d → P%d (%d positions)\n", tail[i].Driver, tail[i].QualiPos, tail[i].RacePos, tail[i].Change)
		}
	}

	b.WriteString("\n**Strategic Insights:**\n")
	b.WriteString("- Position gainers likely had superior race strategy or tire management\n")
	b.WriteString("- Position losers may have suffered from poor strategy calls or technical issues\n")
	b.WriteString("- Starting position doesn't always determine final result - strategy matters!\n")

	return b.String()
}

func capChanges(changes []PositionChange, limit int) []PositionChange {
	if len(changes) > limit {
		return changes[:limit]
	}
	return changes
}
