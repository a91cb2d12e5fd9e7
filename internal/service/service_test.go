package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranjalekhande/paddock-ai/internal/cache"
	"github.com/pranjalekhande/paddock-ai/internal/f1data"
	"github.com/pranjalekhande/paddock-ai/internal/knowledge"
	"github.com/pranjalekhande/paddock-ai/internal/models"
	"github.com/pranjalekhande/paddock-ai/internal/repository"
	"github.com/pranjalekhande/paddock-ai/internal/schedule"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// testNow is the frozen instant for service tests: between the Austrian and
// the British Grand Prix weekends.
var testNow = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *F1Service {
	t.Helper()

	log := quietLogger()
	store := schedule.NewStore("testdata/schedule.yaml", log)
	require.NoError(t, store.Load())

	chain := f1data.NewChain(log, f1data.NewStaticSource())
	svc := NewF1Service(store, chain, cache.NewResponseCache(100), nil, 2025, log)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestSchedule(t *testing.T) {
	svc := newTestService(t)

	resp := svc.Schedule()
	assert.Equal(t, 2025, resp.Season)
	assert.Equal(t, 3, resp.TotalRounds)
	assert.Equal(t, 12, resp.CurrentRound)

	require.Len(t, resp.Events, 3)
	assert.Equal(t, "completed", resp.Events[0].Status)
	assert.False(t, resp.Events[0].IsUpcoming)
	assert.Equal(t, "2025-06-29T00:00:00Z", resp.Events[0].Date)
	assert.Equal(t, "upcoming", resp.Events[1].Status)
	assert.True(t, resp.Events[1].IsUpcoming)
}

func TestScheduleWithTiming(t *testing.T) {
	svc := newTestService(t)

	resp := svc.ScheduleWithTiming()
	require.Len(t, resp.Schedule, 3)
	assert.Equal(t, testNow.Format(time.RFC3339), resp.Timestamp)

	british := resp.Schedule[1]
	assert.Equal(t, models.StatusUpcoming, british.Status)
	assert.False(t, british.IsLive)
	assert.Equal(t, "practice1", british.NextSession)
	assert.Equal(t, "2025-07-04T11:30:00Z", british.NextSessionTime)
	assert.Equal(t, schedule.TTLUpcomingSoon, british.CacheTTL)

	assert.Equal(t, schedule.TTLCompleted, resp.Schedule[0].CacheTTL)
}

func TestCurrentRaceInfoFallsBackToCompleted(t *testing.T) {
	svc := newTestService(t)

	info, err := svc.CurrentRaceInfo()
	require.NoError(t, err)
	assert.Equal(t, "Austrian Grand Prix", info.Name)
	assert.Equal(t, models.StatusCompleted, info.Status)
}

func TestCurrentRaceInfoWithin24Hours(t *testing.T) {
	svc := newTestService(t)
	// Saturday evening of the British GP weekend.
	svc.now = func() time.Time { return time.Date(2025, 7, 5, 20, 0, 0, 0, time.UTC) }

	info, err := svc.CurrentRaceInfo()
	require.NoError(t, err)
	assert.Equal(t, "British Grand Prix", info.Name)
	assert.Equal(t, models.StatusCurrent, info.Status)
}

func TestNextRaceInfo(t *testing.T) {
	svc := newTestService(t)

	info, err := svc.NextRaceInfo()
	require.NoError(t, err)
	assert.Equal(t, "British Grand Prix", info.Name)
	assert.Equal(t, 5, info.CountdownDays)

	// Race start 2025-07-06T14:00:00Z is 5 days 14 hours from the frozen now.
	assert.Equal(t, int((5*24+14)*time.Hour/time.Second), info.CountdownSeconds)
	assert.Equal(t, "practice1", info.NextSession)
	assert.Equal(t, int((3*24+11)*time.Hour/time.Second+30*60), info.NextSessionCountdown)
}

func TestNextRace(t *testing.T) {
	svc := newTestService(t)

	next := svc.NextRace()
	assert.Equal(t, 12, next.Round)
	assert.Equal(t, "British Grand Prix", next.Name)
	assert.Equal(t, "2025-07-06T00:00:00+00:00", next.Date)
	assert.Equal(t, 5, next.DaysUntil)
	assert.False(t, next.SeasonComplete)
}

func TestNextRaceSeasonComplete(t *testing.T) {
	svc := newTestService(t)
	svc.now = func() time.Time { return time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC) }

	next := svc.NextRace()
	assert.True(t, next.SeasonComplete)
	assert.Contains(t, next.Message, "No more races in 2025 season")
}

func TestLatestResultsCached(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.LatestResults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Austrian Grand Prix", first.RaceName)
	assert.Equal(t, "static", first.Source)

	second, err := svc.LatestResults(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestStandingsTable(t *testing.T) {
	svc := newTestService(t)

	table, err := svc.StandingsTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Current Championship Standings", table.Race)
	require.NotEmpty(t, table.Results)
	assert.Equal(t, "Oscar Piastri", table.Results[0].Driver)
	assert.Equal(t, "Championship Leader", table.Results[0].Time)
	assert.Equal(t, 216.0, table.Results[0].Points)
	assert.Equal(t, "-15 pts", table.Results[1].Time)
}

func TestChampionshipLeader(t *testing.T) {
	svc := newTestService(t)

	leader, err := svc.ChampionshipLeader(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Oscar Piastri", leader.ChampionshipLeader)
	assert.Equal(t, "McLaren", leader.Team)
	assert.Equal(t, 216.0, leader.Points)
	assert.Equal(t, 15.0, leader.LeadMargin)
	assert.Equal(t, "Lando Norris", leader.LatestRaceWinner)
}

func TestDriverRanking(t *testing.T) {
	svc := newTestService(t)

	answer, err := svc.DriverRanking(context.Background(), "max")
	require.NoError(t, err)
	assert.Equal(t, "Max Verstappen is currently P3 in the championship with 155 points.", answer)

	answer, err = svc.DriverRanking(context.Background(), "Hulkenberg")
	require.NoError(t, err)
	assert.Contains(t, answer, "Could not find ranking information")

	_, err = svc.DriverRanking(context.Background(), "  ")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestLatestRaceWinner(t *testing.T) {
	svc := newTestService(t)

	answer, err := svc.LatestRaceWinner(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "The winner of the most recent race, the Austrian Grand Prix, was Lando Norris driving for McLaren.", answer)
}

func TestTireStrategyAnalysisNoData(t *testing.T) {
	svc := newTestService(t)

	// The static tier has no pit stop data, so a static-only chain fails.
	_, err := svc.TireStrategyAnalysis(context.Background())
	require.Error(t, err)

	var sourceErr f1data.SourceError
	require.ErrorAs(t, err, &sourceErr)
	assert.Equal(t, f1data.ErrCodeNotFound, sourceErr.Code)
}

// pitStopSource serves pit stops under a configurable source name and fails
// every other operation.
type pitStopSource struct {
	name  string
	stops []models.PitStop
}

func (s *pitStopSource) LatestRaceResult(ctx context.Context, season int) (*models.RaceResult, error) {
	return nil, f1data.NewSourceError(s.name, f1data.ErrCodeNotSupported, "not served", nil)
}

func (s *pitStopSource) DriverStandings(ctx context.Context, season int) (*models.Standings, error) {
	return nil, f1data.NewSourceError(s.name, f1data.ErrCodeNotSupported, "not served", nil)
}

func (s *pitStopSource) PitStops(ctx context.Context, season, round int) ([]models.PitStop, error) {
	return s.stops, nil
}

func (s *pitStopSource) QualifyingResults(ctx context.Context, season, round int) (*models.RaceResult, error) {
	return nil, f1data.NewSourceError(s.name, f1data.ErrCodeNotSupported, "not served", nil)
}

func (s *pitStopSource) Name() string    { return s.name }
func (s *pitStopSource) IsEnabled() bool { return true }

// recordingRepo counts snapshot writes.
type recordingRepo struct {
	saves []string
}

func (r *recordingRepo) Save(ctx context.Context, operation string, season, round int, source string, payload interface{}) error {
	r.saves = append(r.saves, operation+"/"+source)
	return nil
}

func (r *recordingRepo) Load(ctx context.Context, operation string, season, round int) (*repository.Snapshot, error) {
	return nil, models.ErrNotFound
}

func (r *recordingRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func newPitStopService(t *testing.T, sourceName string, repo *recordingRepo) *F1Service {
	t.Helper()

	log := quietLogger()
	store := schedule.NewStore("testdata/schedule.yaml", log)
	require.NoError(t, store.Load())

	source := &pitStopSource{name: sourceName, stops: []models.PitStop{{Driver: "norris", Lap: 20}}}
	chain := f1data.NewChain(log, source)
	svc := NewF1Service(store, chain, cache.NewResponseCache(100), repository.NewIngestor(repo), 2025, log)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestTireStrategyPersistsLiveFetches(t *testing.T) {
	repo := &recordingRepo{}
	svc := newPitStopService(t, "ergast", repo)

	report, err := svc.TireStrategyAnalysis(context.Background())
	require.NoError(t, err)
	assert.Contains(t, report, "Norris")
	assert.Equal(t, []string{"pit_stops/ergast"}, repo.saves)
}

func TestTireStrategySkipsPersistForSnapshotTier(t *testing.T) {
	repo := &recordingRepo{}
	svc := newPitStopService(t, "snapshot", repo)

	// A snapshot-tier hit must not be written back to the snapshot store.
	_, err := svc.TireStrategyAnalysis(context.Background())
	require.NoError(t, err)
	assert.Empty(t, repo.saves)
}

func TestPitWallData(t *testing.T) {
	svc := newTestService(t)

	data := svc.PitWallData(context.Background())
	assert.Len(t, data.Schedule, 3)
	require.NotNil(t, data.NextRace)
	assert.Equal(t, "British Grand Prix", data.NextRace.Name)
	require.NotNil(t, data.CurrentRace)
	assert.Equal(t, "Austrian Grand Prix", data.CurrentRace.Name)
	require.NotNil(t, data.LatestResults)
	assert.Equal(t, "Lando Norris", data.LatestResults.Winner)
}

func TestBasicData(t *testing.T) {
	svc := newTestService(t)

	data := svc.BasicData(context.Background())
	assert.Equal(t, 2025, data.Season)
	assert.Equal(t, "British Grand Prix", data.NextRace.Name)
	assert.Equal(t, "Oscar Piastri", data.ChampionshipLeader)
	assert.Equal(t, 216.0, data.LeaderPoints)
	assert.Equal(t, "Lando Norris", data.LatestRaceWinner)
}

type fakeEmbedder struct {
	calls [][]string
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls = append(f.calls, texts)
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(i), 0.5}
	}
	return vectors, nil
}

type fakeIndex struct {
	vectors []knowledge.Vector
}

func (f *fakeIndex) Upsert(ctx context.Context, vectors []knowledge.Vector) (int, error) {
	f.vectors = append(f.vectors, vectors...)
	return len(vectors), nil
}

func TestKnowledgeUpdaterRun(t *testing.T) {
	svc := newTestService(t)
	embedder := &fakeEmbedder{}
	index := &fakeIndex{}

	updater := NewKnowledgeUpdater(svc, embedder, index, quietLogger())
	result, err := updater.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "success", result.Status)
	// Standings, latest race and schedule documents. The tire strategy
	// document is skipped because the static tier has no pit stop data.
	assert.Equal(t, 3, result.VectorCount)
	assert.Contains(t, result.UpdatedData, "2025 Championship Standings")
	assert.Contains(t, result.UpdatedData, "Latest Race Results")
	assert.Contains(t, result.UpdatedData, "Upcoming Race Schedule")

	require.Len(t, index.vectors, 3)
	for _, vector := range index.vectors {
		assert.NotEmpty(t, vector.ID)
		assert.NotEmpty(t, vector.Metadata["text"])
	}
}
