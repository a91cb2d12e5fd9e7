package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/pranjalekhande/paddock-ai/internal/f1data"
	"github.com/pranjalekhande/paddock-ai/internal/models"
)

const snapshotSourceName = "snapshot"

// Snapshot operation keys shared between the source and the ingestor.
const (
	OpLatestResults   = "latest_results"
	OpDriverStandings = "driver_standings"
	OpPitStops        = "pit_stops"
	OpQualifying      = "qualifying"
)

// SnapshotSource serves persisted upstream payloads as the middle tier of the
// source chain: fresher than the static fallback, available when the live
// APIs are down. Snapshots older than maxAge are treated as missing.
type SnapshotSource struct {
	repo   SnapshotRepository
	maxAge time.Duration
}

// NewSnapshotSource creates a chain tier backed by the snapshot repository.
func NewSnapshotSource(repo SnapshotRepository, maxAge time.Duration) *SnapshotSource {
	return &SnapshotSource{repo: repo, maxAge: maxAge}
}

// LatestRaceResult loads the persisted latest-race classification.
func (s *SnapshotSource) LatestRaceResult(ctx context.Context, season int) (*models.RaceResult, error) {
	var result models.RaceResult
	if err := s.load(ctx, OpLatestResults, season, 0, &result); err != nil {
		return nil, err
	}
	result.Source = snapshotSourceName
	return &result, nil
}

// DriverStandings loads the persisted championship table.
func (s *SnapshotSource) DriverStandings(ctx context.Context, season int) (*models.Standings, error) {
	var standings models.Standings
	if err := s.load(ctx, OpDriverStandings, season, 0, &standings); err != nil {
		return nil, err
	}
	standings.Source = snapshotSourceName
	return &standings, nil
}

// PitStops loads the persisted pit stops of one race.
func (s *SnapshotSource) PitStops(ctx context.Context, season, round int) ([]models.PitStop, error) {
	var stops []models.PitStop
	if err := s.load(ctx, OpPitStops, season, round, &stops); err != nil {
		return nil, err
	}
	return stops, nil
}

// QualifyingResults loads the persisted qualifying classification of one race.
func (s *SnapshotSource) QualifyingResults(ctx context.Context, season, round int) (*models.RaceResult, error) {
	var result models.RaceResult
	if err := s.load(ctx, OpQualifying, season, round, &result); err != nil {
		return nil, err
	}
	result.Source = snapshotSourceName
	return &result, nil
}

// Name returns the data source name
func (s *SnapshotSource) Name() string {
	return snapshotSourceName
}

// IsEnabled reports whether the store is wired in.
func (s *SnapshotSource) IsEnabled() bool {
	return s.repo != nil
}

// load fetches and decodes one snapshot, enforcing the freshness bound.
func (s *SnapshotSource) load(ctx context.Context, operation string, season, round int, out interface{}) error {
	snapshot, err := s.repo.Load(ctx, operation, season, round)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return f1data.NewSourceError(snapshotSourceName, f1data.ErrCodeNotFound, "no snapshot for "+operation, err)
		}
		return f1data.NewSourceError(snapshotSourceName, f1data.ErrCodeServerError, "snapshot load failed", err)
	}

	if s.maxAge > 0 && time.Since(snapshot.FetchedAt) > s.maxAge {
		return f1data.NewSourceError(snapshotSourceName, f1data.ErrCodeNotFound, "snapshot for "+operation+" is stale", nil)
	}

	if err := json.Unmarshal(snapshot.Payload, out); err != nil {
		return f1data.NewSourceError(snapshotSourceName, f1data.ErrCodeInvalidData, "snapshot payload corrupt", err)
	}

	return nil
}

// Ingestor persists successful live fetches so the snapshot tier stays warm.
type Ingestor struct {
	repo SnapshotRepository
}

// NewIngestor creates a snapshot ingestor.
func NewIngestor(repo SnapshotRepository) *Ingestor {
	return &Ingestor{repo: repo}
}

// SaveLatestRaceResult persists a latest-race classification.
func (i *Ingestor) SaveLatestRaceResult(ctx context.Context, season int, result *models.RaceResult) error {
	return i.repo.Save(ctx, OpLatestResults, season, 0, result.Source, result)
}

// SaveDriverStandings persists a championship table.
func (i *Ingestor) SaveDriverStandings(ctx context.Context, season int, standings *models.Standings) error {
	return i.repo.Save(ctx, OpDriverStandings, season, 0, standings.Source, standings)
}

// SavePitStops persists the pit stops of one race.
func (i *Ingestor) SavePitStops(ctx context.Context, season, round int, source string, stops []models.PitStop) error {
	return i.repo.Save(ctx, OpPitStops, season, round, source, stops)
}

// SaveQualifying persists a qualifying classification.
func (i *Ingestor) SaveQualifying(ctx context.Context, season, round int, result *models.RaceResult) error {
	return i.repo.Save(ctx, OpQualifying, season, round, result.Source, result)
}
