package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResultRow is one classified finisher of a race or one line of the
// championship table. Points are decimal because F1 awards half points for
// shortened races.
type ResultRow struct {
	Position int             `json:"position"`
	Driver   string          `json:"driver"`
	Team     string          `json:"team"`
	Time     string          `json:"time,omitempty"`
	Points   decimal.Decimal `json:"points"`
}

// RaceResult holds the classification of one completed Grand Prix.
type RaceResult struct {
	RaceName  string      `json:"race"`
	Date      time.Time   `json:"date"`
	Winner    string      `json:"winner,omitempty"`
	Results   []ResultRow `json:"results"`
	Source    string      `json:"source,omitempty"`
	FetchedAt time.Time   `json:"fetched_at,omitempty"`
}

// DriverStanding is one row of the drivers' championship table.
type DriverStanding struct {
	Position int             `json:"position"`
	Driver   string          `json:"driver"`
	Team     string          `json:"team"`
	Points   decimal.Decimal `json:"points"`
}

// Standings is the drivers' championship table at a point in time.
type Standings struct {
	Season    int              `json:"season"`
	Drivers   []DriverStanding `json:"drivers"`
	Source    string           `json:"source,omitempty"`
	FetchedAt time.Time        `json:"fetched_at,omitempty"`
}

// Leader returns the championship leader, if the table is non-empty.
func (s Standings) Leader() (DriverStanding, bool) {
	if len(s.Drivers) == 0 {
		return DriverStanding{}, false
	}
	return s.Drivers[0], true
}

// GapToLeader returns the points gap between the leader and the given row.
func (s Standings) GapToLeader(row DriverStanding) decimal.Decimal {
	leader, ok := s.Leader()
	if !ok {
		return decimal.Zero
	}
	return leader.Points.Sub(row.Points)
}

// PitStop is one pit stop from a race, used by the tire-strategy analysis.
type PitStop struct {
	Driver   string `json:"driver"`
	Lap      int    `json:"lap"`
	Duration string `json:"duration"`
	Compound string `json:"compound,omitempty"`
}
