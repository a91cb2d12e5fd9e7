package knowledge

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pranjalekhande/paddock-ai/internal/models"
)

// Document is one knowledge base entry before embedding.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// NewDocument creates a document with a fresh ID.
func NewDocument(content string, metadata map[string]string) Document {
	return Document{
		ID:       uuid.NewString(),
		Content:  content,
		Metadata: metadata,
	}
}

// BuildStandingsDocument renders the championship table as a retrievable text.
func BuildStandingsDocument(standings *models.Standings, now time.Time) Document {
	var b strings.Builder
	fmt.Fprintf(&b, "Current F1 Championship Standings %d (updated %s):\n\n", standings.Season, now.Format("2006-01-02"))
	for _, row := range standings.Drivers {
		fmt.Fprintf(&b, "%d. %s (%s) - %s points", row.Position, row.Driver, row.Team, row.Points.String())
		if row.Position == 1 {
			b.WriteString(" - CHAMPIONSHIP LEADER")
		}
		b.WriteString("\n")
	}

	if leader, ok := standings.Leader(); ok && len(standings.Drivers) > 1 {
		gap := standings.GapToLeader(standings.Drivers[1])
		fmt.Fprintf(&b, "\nThe gap between %s and %s is %s points.\n", leader.Driver, standings.Drivers[1].Driver, gap.String())
	}

	return NewDocument(b.String(), map[string]string{
		"type":    "current_standings",
		"season":  fmt.Sprintf("%d", standings.Season),
		"updated": now.Format("2006-01-02"),
		"source":  standings.Source,
	})
}

// BuildRaceResultDocument renders the latest race classification.
func BuildRaceResultDocument(result *models.RaceResult, now time.Time) Document {
	var b strings.Builder
	fmt.Fprintf(&b, "Latest F1 Race: %s (%s)\n\nRace Results:\n", result.RaceName, result.Date.Format("January 2, 2006"))
	for _, row := range result.Results {
		fmt.Fprintf(&b, "%d. %s (%s)", row.Position, row.Driver, row.Team)
		if row.Position == 1 {
			b.WriteString(" - WINNER")
		}
		if row.Time != "" {
			fmt.Fprintf(&b, " - %s", row.Time)
		}
		b.WriteString("\n")
	}

	return NewDocument(b.String(), map[string]string{
		"type":    "latest_race",
		"race":    result.RaceName,
		"updated": now.Format("2006-01-02"),
		"source":  result.Source,
	})
}

// BuildScheduleDocument renders the upcoming race outlook.
func BuildScheduleDocument(resolved []models.ResolvedEvent, now time.Time) Document {
	var b strings.Builder
	b.WriteString("Upcoming F1 Races:\n\n")

	first := true
	for _, event := range resolved {
		if event.Status == models.StatusCompleted {
			continue
		}
		if first {
			fmt.Fprintf(&b, "NEXT RACE: %s\n- Date: %s\n- Circuit: %s, %s\n", event.Name, event.Date, event.Circuit, event.Country)
			if event.NextSessionTime != "" {
				fmt.Fprintf(&b, "- Next session: %s at %s UTC\n", event.NextSession, event.NextSessionTime)
			}
			b.WriteString("\nFOLLOWING RACES:\n")
			first = false
			continue
		}
		fmt.Fprintf(&b, "- %s - %s\n", event.Name, event.Date)
	}

	return NewDocument(b.String(), map[string]string{
		"type":    "upcoming_races",
		"updated": now.Format("2006-01-02"),
		"source":  "schedule",
	})
}
