package f1data

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pranjalekhande/paddock-ai/internal/models"
)

const staticSourceName = "static"

// StaticSource is the last-resort tier: a verified snapshot of the season,
// served when every upstream and the snapshot store fail. The data is stale
// by definition but keeps the assistant answering instead of erroring out.
type StaticSource struct{}

// NewStaticSource creates the static fallback source.
func NewStaticSource() *StaticSource {
	return &StaticSource{}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// LatestRaceResult returns the snapshot of the most recent race.
func (s *StaticSource) LatestRaceResult(ctx context.Context, season int) (*models.RaceResult, error) {
	return &models.RaceResult{
		RaceName: "Austrian Grand Prix",
		Date:     time.Date(2025, 6, 29, 0, 0, 0, 0, time.UTC),
		Winner:   "Lando Norris",
		Results: []models.ResultRow{
			{Position: 1, Driver: "Lando Norris", Team: "McLaren", Time: "1:23:47.693", Points: dec(25)},
			{Position: 2, Driver: "Oscar Piastri", Team: "McLaren", Time: "+2.695s", Points: dec(18)},
			{Position: 3, Driver: "Charles Leclerc", Team: "Ferrari", Time: "+19.820s", Points: dec(15)},
			{Position: 4, Driver: "Lewis Hamilton", Team: "Ferrari", Time: "+29.020s", Points: dec(12)},
			{Position: 5, Driver: "George Russell", Team: "Mercedes", Time: "+62.396s", Points: dec(10)},
		},
		Source:    staticSourceName,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// DriverStandings returns the snapshot of the championship table.
func (s *StaticSource) DriverStandings(ctx context.Context, season int) (*models.Standings, error) {
	return &models.Standings{
		Season: season,
		Drivers: []models.DriverStanding{
			{Position: 1, Driver: "Oscar Piastri", Team: "McLaren", Points: dec(216)},
			{Position: 2, Driver: "Lando Norris", Team: "McLaren", Points: dec(201)},
			{Position: 3, Driver: "Max Verstappen", Team: "Red Bull Racing", Points: dec(155)},
			{Position: 4, Driver: "George Russell", Team: "Mercedes", Points: dec(146)},
			{Position: 5, Driver: "Charles Leclerc", Team: "Ferrari", Points: dec(119)},
			{Position: 6, Driver: "Lewis Hamilton", Team: "Ferrari", Points: dec(91)},
			{Position: 7, Driver: "Kimi Antonelli", Team: "Mercedes", Points: dec(63)},
			{Position: 8, Driver: "Alexander Albon", Team: "Williams", Points: dec(42)},
		},
		Source:    staticSourceName,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// PitStops has no static snapshot.
func (s *StaticSource) PitStops(ctx context.Context, season, round int) ([]models.PitStop, error) {
	return nil, NewSourceError(staticSourceName, ErrCodeNotFound, "no static pit stop data", nil)
}

// QualifyingResults has no static snapshot.
func (s *StaticSource) QualifyingResults(ctx context.Context, season, round int) (*models.RaceResult, error) {
	return nil, NewSourceError(staticSourceName, ErrCodeNotFound, "no static qualifying data", nil)
}

// Name returns the data source name
func (s *StaticSource) Name() string {
	return staticSourceName
}

// IsEnabled reports that the static source is always available.
func (s *StaticSource) IsEnabled() bool {
	return true
}
