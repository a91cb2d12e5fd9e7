package f1data

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/pranjalekhande/paddock-ai/internal/logger"
	"github.com/pranjalekhande/paddock-ai/internal/metrics"
	"github.com/pranjalekhande/paddock-ai/internal/models"
)

// Chain tries each source in priority order and returns the first success.
// The canonical order is live API, then snapshot store, then static
// fallback; every fall through is logged and counted.
type Chain struct {
	sources []Source
	log     *logger.SourceLogger
}

// NewChain creates a source chain. Sources are tried in the given order.
func NewChain(baseLogger *logrus.Logger, sources ...Source) *Chain {
	return &Chain{
		sources: sources,
		log:     logger.NewSourceLogger(baseLogger),
	}
}

// LatestRaceResult returns the first successful latest-race classification.
func (c *Chain) LatestRaceResult(ctx context.Context, season int) (*models.RaceResult, error) {
	var lastErr error
	for i, source := range c.sources {
		if !source.IsEnabled() {
			continue
		}
		result, err := source.LatestRaceResult(ctx, season)
		if err == nil {
			return result, nil
		}
		lastErr = err
		c.recordFallthrough("latest_results", i, err)
	}
	return nil, c.exhausted("latest_results", lastErr)
}

// DriverStandings returns the first successful championship table.
func (c *Chain) DriverStandings(ctx context.Context, season int) (*models.Standings, error) {
	var lastErr error
	for i, source := range c.sources {
		if !source.IsEnabled() {
			continue
		}
		standings, err := source.DriverStandings(ctx, season)
		if err == nil {
			return standings, nil
		}
		lastErr = err
		c.recordFallthrough("driver_standings", i, err)
	}
	return nil, c.exhausted("driver_standings", lastErr)
}

// PitStops returns the first successful pit stop list along with the name of
// the source that served it. Pit stop lists carry no source field of their
// own, so callers deciding whether to re-persist need the tier spelled out.
func (c *Chain) PitStops(ctx context.Context, season, round int) ([]models.PitStop, string, error) {
	var lastErr error
	for i, source := range c.sources {
		if !source.IsEnabled() {
			continue
		}
		stops, err := source.PitStops(ctx, season, round)
		if err == nil {
			return stops, source.Name(), nil
		}
		lastErr = err
		c.recordFallthrough("pit_stops", i, err)
	}
	return nil, "", c.exhausted("pit_stops", lastErr)
}

// QualifyingResults returns the first successful qualifying classification.
func (c *Chain) QualifyingResults(ctx context.Context, season, round int) (*models.RaceResult, error) {
	var lastErr error
	for i, source := range c.sources {
		if !source.IsEnabled() {
			continue
		}
		result, err := source.QualifyingResults(ctx, season, round)
		if err == nil {
			return result, nil
		}
		lastErr = err
		c.recordFallthrough("qualifying", i, err)
	}
	return nil, c.exhausted("qualifying", lastErr)
}

// Sources returns the configured sources in priority order.
func (c *Chain) Sources() []Source {
	return c.sources
}

// recordFallthrough logs and counts the transition past source i.
func (c *Chain) recordFallthrough(operation string, i int, err error) {
	from := c.sources[i].Name()
	to := "none"
	if i+1 < len(c.sources) {
		to = c.sources[i+1].Name()
	}
	c.log.LogFallback(operation, from, to, err)
	if to != "none" {
		metrics.RecordSourceFallback(operation, to)
		if to == staticSourceName {
			c.log.LogStaticServed(operation)
		}
	}
}

// exhausted wraps the terminal error once every tier has failed.
func (c *Chain) exhausted(operation string, lastErr error) error {
	if lastErr == nil {
		return NewSourceError("chain", ErrCodeDisabled, "no enabled sources for "+operation, nil)
	}
	return lastErr
}
