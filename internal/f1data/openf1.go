package f1data

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/pranjalekhande/paddock-ai/internal/metrics"
	"github.com/pranjalekhande/paddock-ai/internal/models"
)

const openf1SourceName = "openf1"

// Points awarded per finishing position. OpenF1 reports positions only, so
// the classification points are derived from the standard table.
var racePointsTable = []int64{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

// OpenF1Client implements Source against the OpenF1 live data API. It is the
// primary tier for race classifications. Championship standings, pit stops
// and qualifying are not served here; the chain falls through to the
// secondary source for those.
type OpenF1Client struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	enabled    bool
	logger     *logrus.Entry
}

// NewOpenF1Client creates a new OpenF1 API client
func NewOpenF1Client(httpClient *RateLimitedHTTPClient, baseURL string, enabled bool, baseLogger *logrus.Logger) *OpenF1Client {
	return &OpenF1Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		enabled:    enabled,
		logger:     baseLogger.WithField("component", "openf1"),
	}
}

type openf1Session struct {
	SessionKey  int    `json:"session_key"`
	SessionName string `json:"session_name"`
	CountryName string `json:"country_name"`
	CircuitName string `json:"circuit_short_name"`
	DateStart   string `json:"date_start"`
	DateEnd     string `json:"date_end"`
	Year        int    `json:"year"`
}

type openf1Driver struct {
	DriverNumber int    `json:"driver_number"`
	FullName     string `json:"full_name"`
	TeamName     string `json:"team_name"`
}

type openf1Position struct {
	DriverNumber int    `json:"driver_number"`
	Position     int    `json:"position"`
	Date         string `json:"date"`
}

// LatestRaceResult retrieves the classification of the most recent completed
// race by replaying the final position snapshot of the session.
func (c *OpenF1Client) LatestRaceResult(ctx context.Context, season int) (*models.RaceResult, error) {
	var sessions []openf1Session
	url := fmt.Sprintf("%s/sessions?year=%d&session_name=Race", c.baseURL, season)
	if err := c.fetch(ctx, "sessions", url, &sessions); err != nil {
		return nil, err
	}

	session, ok := latestCompletedSession(sessions, time.Now().UTC())
	if !ok {
		return nil, NewSourceError(openf1SourceName, ErrCodeNotFound, "no completed race sessions for season", nil)
	}

	var drivers []openf1Driver
	url = fmt.Sprintf("%s/drivers?session_key=%d", c.baseURL, session.SessionKey)
	if err := c.fetch(ctx, "drivers", url, &drivers); err != nil {
		return nil, err
	}
	driverIndex := make(map[int]openf1Driver, len(drivers))
	for _, d := range drivers {
		driverIndex[d.DriverNumber] = d
	}

	var positions []openf1Position
	url = fmt.Sprintf("%s/position?session_key=%d", c.baseURL, session.SessionKey)
	if err := c.fetch(ctx, "position", url, &positions); err != nil {
		return nil, err
	}
	final := finalPositions(positions)
	if len(final) == 0 {
		return nil, NewSourceError(openf1SourceName, ErrCodeInvalidData, "session had no position data", nil)
	}

	date, err := time.Parse(time.RFC3339, session.DateStart)
	if err != nil {
		date = time.Time{}
	}

	result := &models.RaceResult{
		RaceName:  session.CountryName + " Grand Prix",
		Date:      date,
		Source:    openf1SourceName,
		FetchedAt: time.Now().UTC(),
	}

	for _, pos := range final {
		driver, ok := driverIndex[pos.DriverNumber]
		if !ok {
			c.logger.Warnf("Position entry for unknown driver number %d", pos.DriverNumber)
			continue
		}
		result.Results = append(result.Results, models.ResultRow{
			Position: pos.Position,
			Driver:   driver.FullName,
			Team:     driver.TeamName,
			Points:   pointsForPosition(pos.Position),
		})
	}

	if len(result.Results) == 0 {
		return nil, NewSourceError(openf1SourceName, ErrCodeInvalidData, "could not build classification", nil)
	}
	result.Winner = result.Results[0].Driver

	return result, nil
}

// DriverStandings is not served by OpenF1.
func (c *OpenF1Client) DriverStandings(ctx context.Context, season int) (*models.Standings, error) {
	return nil, NewSourceError(openf1SourceName, ErrCodeNotSupported, "standings not provided by this source", ErrNotSupported)
}

// PitStops is not served by OpenF1; round numbers do not map onto session keys.
func (c *OpenF1Client) PitStops(ctx context.Context, season, round int) ([]models.PitStop, error) {
	return nil, NewSourceError(openf1SourceName, ErrCodeNotSupported, "pit stops not provided by this source", ErrNotSupported)
}

// QualifyingResults is not served by OpenF1.
func (c *OpenF1Client) QualifyingResults(ctx context.Context, season, round int) (*models.RaceResult, error) {
	return nil, NewSourceError(openf1SourceName, ErrCodeNotSupported, "qualifying not provided by this source", ErrNotSupported)
}

// Name returns the data source name
func (c *OpenF1Client) Name() string {
	return openf1SourceName
}

// IsEnabled returns whether this data source is enabled
func (c *OpenF1Client) IsEnabled() bool {
	return c.enabled
}

// fetch runs a GET against the API and decodes the JSON array payload.
func (c *OpenF1Client) fetch(ctx context.Context, operation, url string, out interface{}) error {
	if !c.enabled {
		return NewSourceError(openf1SourceName, ErrCodeDisabled, "data source is disabled", nil)
	}

	start := time.Now()
	resp, err := c.httpClient.Get(ctx, url)
	metrics.RecordSourceRequest(openf1SourceName, operation, time.Since(start).Seconds(), err)
	if err != nil {
		return NewSourceError(openf1SourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return NewSourceError(openf1SourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return NewSourceError(openf1SourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewSourceError(openf1SourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	return nil
}

// latestCompletedSession picks the most recent session that has already ended.
func latestCompletedSession(sessions []openf1Session, now time.Time) (openf1Session, bool) {
	var (
		best    openf1Session
		bestEnd time.Time
		found   bool
	)
	for _, session := range sessions {
		end, err := time.Parse(time.RFC3339, session.DateEnd)
		if err != nil || end.After(now) {
			continue
		}
		if !found || end.After(bestEnd) {
			best = session
			bestEnd = end
			found = true
		}
	}
	return best, found
}

// finalPositions reduces the position stream to the last known position per
// driver, ordered by classification.
func finalPositions(positions []openf1Position) []openf1Position {
	latest := make(map[int]openf1Position)
	for _, pos := range positions {
		current, ok := latest[pos.DriverNumber]
		if !ok || pos.Date > current.Date {
			latest[pos.DriverNumber] = pos
		}
	}

	out := make([]openf1Position, 0, len(latest))
	for _, pos := range latest {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// pointsForPosition returns the championship points for a finishing position.
func pointsForPosition(position int) decimal.Decimal {
	if position >= 1 && position <= len(racePointsTable) {
		return decimal.NewFromInt(racePointsTable[position-1])
	}
	return decimal.Zero
}
