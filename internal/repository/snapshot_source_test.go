package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranjalekhande/paddock-ai/internal/f1data"
	"github.com/pranjalekhande/paddock-ai/internal/models"
)

// memorySnapshotRepository is an in-memory SnapshotRepository for tests.
type memorySnapshotRepository struct {
	snapshots map[string]*Snapshot
}

func newMemoryRepo() *memorySnapshotRepository {
	return &memorySnapshotRepository{snapshots: make(map[string]*Snapshot)}
}

func key(operation string, season, round int) string {
	return fmt.Sprintf("%s/%d/%d", operation, season, round)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func (m *memorySnapshotRepository) Save(ctx context.Context, operation string, season, round int, source string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	m.snapshots[key(operation, season, round)] = &Snapshot{
		Operation: operation,
		Season:    season,
		Round:     round,
		Source:    source,
		Payload:   data,
		FetchedAt: time.Now().UTC(),
	}
	return nil
}

func (m *memorySnapshotRepository) Load(ctx context.Context, operation string, season, round int) (*Snapshot, error) {
	snapshot, ok := m.snapshots[key(operation, season, round)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return snapshot, nil
}

func (m *memorySnapshotRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	for k, snapshot := range m.snapshots {
		if snapshot.FetchedAt.Before(cutoff) {
			delete(m.snapshots, k)
			removed++
		}
	}
	return removed, nil
}

func TestSnapshotSourceRoundTrip(t *testing.T) {
	repo := newMemoryRepo()
	ingestor := NewIngestor(repo)
	source := NewSnapshotSource(repo, time.Hour)

	standings := &models.Standings{
		Season: 2025,
		Drivers: []models.DriverStanding{
			{Position: 1, Driver: "Oscar Piastri", Team: "McLaren", Points: decimal.NewFromInt(216)},
		},
		Source:    "ergast",
		FetchedAt: time.Now().UTC(),
	}
	require.NoError(t, ingestor.SaveDriverStandings(context.Background(), 2025, standings))

	loaded, err := source.DriverStandings(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, "snapshot", loaded.Source)
	require.Len(t, loaded.Drivers, 1)
	assert.Equal(t, "Oscar Piastri", loaded.Drivers[0].Driver)
	assert.True(t, loaded.Drivers[0].Points.Equal(decimal.NewFromInt(216)))
}

func TestSnapshotSourceMissing(t *testing.T) {
	source := NewSnapshotSource(newMemoryRepo(), time.Hour)

	_, err := source.LatestRaceResult(context.Background(), 2025)
	require.Error(t, err)

	var srcErr f1data.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, f1data.ErrCodeNotFound, srcErr.Code)
}

func TestSnapshotSourceStale(t *testing.T) {
	repo := newMemoryRepo()
	ingestor := NewIngestor(repo)
	source := NewSnapshotSource(repo, time.Minute)

	result := &models.RaceResult{RaceName: "Austrian Grand Prix", Source: "openf1"}
	require.NoError(t, ingestor.SaveLatestRaceResult(context.Background(), 2025, result))

	// Age the snapshot past the freshness bound.
	repo.snapshots[key(OpLatestResults, 2025, 0)].FetchedAt = time.Now().Add(-2 * time.Minute)

	_, err := source.LatestRaceResult(context.Background(), 2025)
	require.Error(t, err)

	var srcErr f1data.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, f1data.ErrCodeNotFound, srcErr.Code)
}

func TestSnapshotSourcePitStops(t *testing.T) {
	repo := newMemoryRepo()
	ingestor := NewIngestor(repo)
	source := NewSnapshotSource(repo, time.Hour)

	stops := []models.PitStop{
		{Driver: "norris", Lap: 21, Duration: "28.512"},
	}
	require.NoError(t, ingestor.SavePitStops(context.Background(), 2025, 12, "ergast", stops))

	loaded, err := source.PitStops(context.Background(), 2025, 12)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 21, loaded[0].Lap)
}

func TestSnapshotSourceInChain(t *testing.T) {
	repo := newMemoryRepo()
	ingestor := NewIngestor(repo)
	require.NoError(t, ingestor.SaveDriverStandings(context.Background(), 2025, &models.Standings{
		Season:  2025,
		Drivers: []models.DriverStanding{{Position: 1, Driver: "Oscar Piastri", Points: decimal.NewFromInt(216)}},
		Source:  "ergast",
	}))

	// Live tiers disabled; chain should land on the snapshot tier before static.
	openf1 := f1data.NewOpenF1Client(nil, "http://unused", false, testLogger())
	chain := f1data.NewChain(testLogger(), openf1, NewSnapshotSource(repo, time.Hour), f1data.NewStaticSource())

	standings, err := chain.DriverStandings(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, "snapshot", standings.Source)
}
