package f1data

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/pranjalekhande/paddock-ai/internal/metrics"
	"github.com/pranjalekhande/paddock-ai/internal/models"
)

const ergastSourceName = "ergast"

// ErgastClient implements Source against the Ergast-compatible historical API.
// It is the secondary tier: slower to update than the live feed but carries
// standings and per-race detail the primary cannot serve.
type ErgastClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	enabled    bool
	logger     *logrus.Entry
}

// NewErgastClient creates a new Ergast API client
func NewErgastClient(httpClient *RateLimitedHTTPClient, baseURL string, enabled bool, baseLogger *logrus.Logger) *ErgastClient {
	return &ErgastClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		enabled:    enabled,
		logger:     baseLogger.WithField("component", "ergast"),
	}
}

// Ergast wire format. Every payload is wrapped in an MRData envelope.
type ergastResponse struct {
	MRData struct {
		RaceTable struct {
			Races []ergastRace `json:"Races"`
		} `json:"RaceTable"`
		StandingsTable struct {
			StandingsLists []struct {
				DriverStandings []ergastDriverStanding `json:"DriverStandings"`
			} `json:"StandingsLists"`
		} `json:"StandingsTable"`
	} `json:"MRData"`
}

type ergastRace struct {
	RaceName          string             `json:"raceName"`
	Date              string             `json:"date"`
	Results           []ergastResult     `json:"Results"`
	QualifyingResults []ergastQualifying `json:"QualifyingResults"`
	PitStops          []ergastPitStop    `json:"PitStops"`
}

type ergastResult struct {
	Position    string          `json:"position"`
	Points      string          `json:"points"`
	Driver      ergastDriver    `json:"Driver"`
	Constructor ergastTeam      `json:"Constructor"`
	Time        *ergastRaceTime `json:"Time"`
	Status      string          `json:"status"`
}

type ergastQualifying struct {
	Position    string       `json:"position"`
	Driver      ergastDriver `json:"Driver"`
	Constructor ergastTeam   `json:"Constructor"`
	Q1          string       `json:"Q1"`
	Q2          string       `json:"Q2"`
	Q3          string       `json:"Q3"`
}

type ergastPitStop struct {
	DriverID string `json:"driverId"`
	Lap      string `json:"lap"`
	Duration string `json:"duration"`
}

type ergastDriverStanding struct {
	Position     string       `json:"position"`
	Points       string       `json:"points"`
	Driver       ergastDriver `json:"Driver"`
	Constructors []ergastTeam `json:"Constructors"`
}

type ergastDriver struct {
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
}

type ergastTeam struct {
	Name string `json:"name"`
}

type ergastRaceTime struct {
	Time string `json:"time"`
}

// LatestRaceResult retrieves the classification of the season's most recent race.
func (c *ErgastClient) LatestRaceResult(ctx context.Context, season int) (*models.RaceResult, error) {
	url := fmt.Sprintf("%s/%d/last/results.json", c.baseURL, season)
	payload, err := c.fetch(ctx, "latest_results", url)
	if err != nil {
		return nil, err
	}

	races := payload.MRData.RaceTable.Races
	if len(races) == 0 {
		return nil, NewSourceError(ergastSourceName, ErrCodeNotFound, "no completed races for season", nil)
	}
	race := races[0]

	date, err := time.Parse("2006-01-02", race.Date)
	if err != nil {
		date = time.Time{}
	}

	result := &models.RaceResult{
		RaceName:  race.RaceName,
		Date:      date,
		Source:    ergastSourceName,
		FetchedAt: time.Now().UTC(),
	}

	for _, row := range race.Results {
		converted, err := convertErgastResult(row)
		if err != nil {
			c.logger.WithError(err).Warnf("Skipping malformed result row for %s", race.RaceName)
			continue
		}
		result.Results = append(result.Results, converted)
	}

	if len(result.Results) == 0 {
		return nil, NewSourceError(ergastSourceName, ErrCodeInvalidData, "race had no parseable results", nil)
	}
	result.Winner = result.Results[0].Driver

	return result, nil
}

// DriverStandings retrieves the current drivers' championship table.
func (c *ErgastClient) DriverStandings(ctx context.Context, season int) (*models.Standings, error) {
	url := fmt.Sprintf("%s/%d/driverstandings.json", c.baseURL, season)
	payload, err := c.fetch(ctx, "driver_standings", url)
	if err != nil {
		return nil, err
	}

	lists := payload.MRData.StandingsTable.StandingsLists
	if len(lists) == 0 {
		return nil, NewSourceError(ergastSourceName, ErrCodeNotFound, "no standings for season", nil)
	}

	standings := &models.Standings{
		Season:    season,
		Source:    ergastSourceName,
		FetchedAt: time.Now().UTC(),
	}

	for _, row := range lists[0].DriverStandings {
		position, err := strconv.Atoi(row.Position)
		if err != nil {
			continue
		}
		points, err := decimal.NewFromString(row.Points)
		if err != nil {
			continue
		}
		team := ""
		if len(row.Constructors) > 0 {
			team = row.Constructors[len(row.Constructors)-1].Name
		}
		standings.Drivers = append(standings.Drivers, models.DriverStanding{
			Position: position,
			Driver:   row.Driver.GivenName + " " + row.Driver.FamilyName,
			Team:     team,
			Points:   points,
		})
	}

	if len(standings.Drivers) == 0 {
		return nil, NewSourceError(ergastSourceName, ErrCodeInvalidData, "standings had no parseable rows", nil)
	}

	return standings, nil
}

// PitStops retrieves the pit stops of one race.
func (c *ErgastClient) PitStops(ctx context.Context, season, round int) ([]models.PitStop, error) {
	url := fmt.Sprintf("%s/%d/%d/pitstops.json?limit=100", c.baseURL, season, round)
	payload, err := c.fetch(ctx, "pit_stops", url)
	if err != nil {
		return nil, err
	}

	races := payload.MRData.RaceTable.Races
	if len(races) == 0 {
		return nil, NewSourceError(ergastSourceName, ErrCodeNotFound, "no pit stop data for race", nil)
	}

	stops := make([]models.PitStop, 0, len(races[0].PitStops))
	for _, stop := range races[0].PitStops {
		lap, err := strconv.Atoi(stop.Lap)
		if err != nil {
			continue
		}
		stops = append(stops, models.PitStop{
			Driver:   stop.DriverID,
			Lap:      lap,
			Duration: stop.Duration,
		})
	}

	return stops, nil
}

// QualifyingResults retrieves the qualifying classification of one race.
func (c *ErgastClient) QualifyingResults(ctx context.Context, season, round int) (*models.RaceResult, error) {
	url := fmt.Sprintf("%s/%d/%d/qualifying.json", c.baseURL, season, round)
	payload, err := c.fetch(ctx, "qualifying", url)
	if err != nil {
		return nil, err
	}

	races := payload.MRData.RaceTable.Races
	if len(races) == 0 {
		return nil, NewSourceError(ergastSourceName, ErrCodeNotFound, "no qualifying data for race", nil)
	}
	race := races[0]

	date, err := time.Parse("2006-01-02", race.Date)
	if err != nil {
		date = time.Time{}
	}

	result := &models.RaceResult{
		RaceName:  race.RaceName,
		Date:      date,
		Source:    ergastSourceName,
		FetchedAt: time.Now().UTC(),
	}

	for _, row := range race.QualifyingResults {
		position, err := strconv.Atoi(row.Position)
		if err != nil {
			continue
		}
		best := row.Q3
		if best == "" {
			best = row.Q2
		}
		if best == "" {
			best = row.Q1
		}
		result.Results = append(result.Results, models.ResultRow{
			Position: position,
			Driver:   row.Driver.GivenName + " " + row.Driver.FamilyName,
			Team:     row.Constructor.Name,
			Time:     best,
			Points:   decimal.Zero,
		})
	}

	if len(result.Results) == 0 {
		return nil, NewSourceError(ergastSourceName, ErrCodeInvalidData, "qualifying had no parseable rows", nil)
	}
	result.Winner = result.Results[0].Driver

	return result, nil
}

// Name returns the data source name
func (c *ErgastClient) Name() string {
	return ergastSourceName
}

// IsEnabled returns whether this data source is enabled
func (c *ErgastClient) IsEnabled() bool {
	return c.enabled
}

// fetch runs a GET against the API and decodes the MRData envelope.
func (c *ErgastClient) fetch(ctx context.Context, operation, url string) (*ergastResponse, error) {
	if !c.enabled {
		return nil, NewSourceError(ergastSourceName, ErrCodeDisabled, "data source is disabled", nil)
	}

	start := time.Now()
	resp, err := c.httpClient.Get(ctx, url)
	metrics.RecordSourceRequest(ergastSourceName, operation, time.Since(start).Seconds(), err)
	if err != nil {
		return nil, NewSourceError(ergastSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewSourceError(ergastSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, NewSourceError(ergastSourceName, ErrCodeNotFound, "resource not found", nil)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewSourceError(ergastSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var payload ergastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewSourceError(ergastSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	return &payload, nil
}

// convertErgastResult converts one wire result row.
func convertErgastResult(row ergastResult) (models.ResultRow, error) {
	position, err := strconv.Atoi(row.Position)
	if err != nil {
		return models.ResultRow{}, fmt.Errorf("invalid position %q: %w", row.Position, err)
	}
	points, err := decimal.NewFromString(row.Points)
	if err != nil {
		return models.ResultRow{}, fmt.Errorf("invalid points %q: %w", row.Points, err)
	}

	raceTime := row.Status
	if row.Time != nil && row.Time.Time != "" {
		raceTime = row.Time.Time
	}

	return models.ResultRow{
		Position: position,
		Driver:   row.Driver.GivenName + " " + row.Driver.FamilyName,
		Team:     row.Constructor.Name,
		Time:     raceTime,
		Points:   points,
	}, nil
}
