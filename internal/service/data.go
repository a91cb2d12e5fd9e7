package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pranjalekhande/paddock-ai/internal/models"
	"github.com/pranjalekhande/paddock-ai/internal/repository"
	"github.com/pranjalekhande/paddock-ai/internal/strategy"
)

// LatestResults returns the classification of the most recent completed race,
// served from cache when fresh.
func (s *F1Service) LatestResults(ctx context.Context) (*models.RaceResult, error) {
	if value, _, ok := s.cache.Get(cacheKeyLatestResults); ok {
		if result, ok := value.(*models.RaceResult); ok {
			return result, nil
		}
	}

	result, err := s.chain.LatestRaceResult(ctx, s.season)
	if err != nil {
		return nil, err
	}
	result.FetchedAt = s.now()

	s.cache.Put(cacheKeyLatestResults, result, s.recommendedTTL())
	if liveSource(result.Source) {
		s.persist(ctx, repository.OpLatestResults, func(ctx context.Context) error {
			return s.ingestor.SaveLatestRaceResult(ctx, s.season, result)
		})
	}
	return result, nil
}

// Standings returns the current drivers' championship table.
func (s *F1Service) Standings(ctx context.Context) (*models.Standings, error) {
	if value, _, ok := s.cache.Get(cacheKeyStandings); ok {
		if standings, ok := value.(*models.Standings); ok {
			return standings, nil
		}
	}

	standings, err := s.chain.DriverStandings(ctx, s.season)
	if err != nil {
		return nil, err
	}
	standings.FetchedAt = s.now()

	s.cache.Put(cacheKeyStandings, standings, s.recommendedTTL())
	if liveSource(standings.Source) {
		s.persist(ctx, repository.OpDriverStandings, func(ctx context.Context) error {
			return s.ingestor.SaveDriverStandings(ctx, s.season, standings)
		})
	}
	return standings, nil
}

// StandingsRow is one championship row with its gap to the leader rendered.
type StandingsRow struct {
	Position int     `json:"position"`
	Driver   string  `json:"driver"`
	Team     string  `json:"team"`
	Time     string  `json:"time"`
	Points   float64 `json:"points"`
}

// StandingsTable is the standings payload shaped like a race classification,
// which is what the pit wall consumers render.
type StandingsTable struct {
	Race    string         `json:"race"`
	Date    string         `json:"date"`
	Results []StandingsRow `json:"results"`
}

// StandingsTable formats the championship with leader gap annotations.
func (s *F1Service) StandingsTable(ctx context.Context) (StandingsTable, error) {
	standings, err := s.Standings(ctx)
	if err != nil {
		return StandingsTable{}, err
	}

	rows := make([]StandingsRow, 0, len(standings.Drivers))
	for _, driver := range standings.Drivers {
		gapText := "Championship Leader"
		if driver.Position != 1 {
			gapText = fmt.Sprintf("-%s pts", standings.GapToLeader(driver).String())
		}
		points, _ := driver.Points.Float64()
		rows = append(rows, StandingsRow{
			Position: driver.Position,
			Driver:   driver.Driver,
			Team:     driver.Team,
			Time:     gapText,
			Points:   points,
		})
	}

	return StandingsTable{
		Race:    "Current Championship Standings",
		Date:    s.now().Format("2006-01-02T15:04:05"),
		Results: rows,
	}, nil
}

// ChampionshipLeader distinguishes the points leader from the latest winner.
type ChampionshipLeader struct {
	ChampionshipLeader string  `json:"championship_leader"`
	Team               string  `json:"team"`
	Points             float64 `json:"points"`
	LeadMargin         float64 `json:"lead_margin"`
	LatestRaceWinner   string  `json:"latest_race_winner,omitempty"`
	Note               string  `json:"note"`
}

// ChampionshipLeader returns who leads the title fight and who won the
// latest race, which are routinely confused by callers.
func (s *F1Service) ChampionshipLeader(ctx context.Context) (ChampionshipLeader, error) {
	standings, err := s.Standings(ctx)
	if err != nil {
		return ChampionshipLeader{}, err
	}
	leader, ok := standings.Leader()
	if !ok {
		return ChampionshipLeader{}, fmt.Errorf("empty standings: %w", models.ErrNoData)
	}

	response := ChampionshipLeader{
		ChampionshipLeader: leader.Driver,
		Team:               leader.Team,
		Note:               "Championship leader (most points) is different from latest race winner",
	}
	response.Points, _ = leader.Points.Float64()
	if len(standings.Drivers) > 1 {
		response.LeadMargin, _ = standings.GapToLeader(standings.Drivers[1]).Float64()
	}

	if result, err := s.LatestResults(ctx); err == nil {
		response.LatestRaceWinner = result.Winner
	}

	return response, nil
}

// DriverRanking looks up one driver's championship position by full or
// partial name, case insensitive.
func (s *F1Service) DriverRanking(ctx context.Context, name string) (string, error) {
	standings, err := s.Standings(ctx)
	if err != nil {
		return "", err
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", fmt.Errorf("driver name required: %w", models.ErrInvalidInput)
	}

	for _, driver := range standings.Drivers {
		if strings.Contains(strings.ToLower(driver.Driver), needle) {
			return fmt.Sprintf("%s is currently P%d in the championship with %s points.", driver.Driver, driver.Position, driver.Points.String()), nil
		}
	}

	return fmt.Sprintf("Could not find ranking information for %q. Try 'Max', 'Hamilton', 'Leclerc', etc.", name), nil
}

// LatestRaceWinner returns a one-sentence answer about the latest winner.
func (s *F1Service) LatestRaceWinner(ctx context.Context) (string, error) {
	result, err := s.LatestResults(ctx)
	if err != nil {
		return "", err
	}
	if len(result.Results) == 0 {
		return "", fmt.Errorf("no classified finishers: %w", models.ErrNoData)
	}

	winner := result.Results[0]
	return fmt.Sprintf("The winner of the most recent race, the %s, was %s driving for %s.", result.RaceName, winner.Driver, winner.Team), nil
}

// TireStrategyAnalysis fetches pit stops for the latest completed round and
// renders the stop-pattern report.
func (s *F1Service) TireStrategyAnalysis(ctx context.Context) (string, error) {
	round, ok := s.latestCompletedRound()
	if !ok {
		return "No recent race data available for tire strategy analysis.", nil
	}

	cacheKey := fmt.Sprintf("%s/%d", cacheKeyPitStops, round)
	if value, _, ok := s.cache.Get(cacheKey); ok {
		if report, ok := value.(string); ok {
			return report, nil
		}
	}

	stops, source, err := s.chain.PitStops(ctx, s.season, round)
	if err != nil {
		return "", err
	}
	if liveSource(source) {
		s.persist(ctx, repository.OpPitStops, func(ctx context.Context) error {
			return s.ingestor.SavePitStops(ctx, s.season, round, source, stops)
		})
	}

	raceName := s.roundName(round)
	report := strategy.AnalyzeTireStrategies(raceName, stops)
	s.cache.Put(cacheKey, report, s.recommendedTTL())
	return report, nil
}

// QualifyingComparison renders the qualifying-versus-race movement report
// for the latest completed round.
func (s *F1Service) QualifyingComparison(ctx context.Context) (string, error) {
	round, ok := s.latestCompletedRound()
	if !ok {
		return "Insufficient data to compare qualifying vs race performance.", nil
	}

	cacheKey := fmt.Sprintf("%s/%d", cacheKeyQualifying, round)
	if value, _, ok := s.cache.Get(cacheKey); ok {
		if report, ok := value.(string); ok {
			return report, nil
		}
	}

	quali, err := s.chain.QualifyingResults(ctx, s.season, round)
	if err != nil {
		return "", err
	}
	race, err := s.LatestResults(ctx)
	if err != nil {
		return "", err
	}
	if liveSource(quali.Source) {
		s.persist(ctx, repository.OpQualifying, func(ctx context.Context) error {
			return s.ingestor.SaveQualifying(ctx, s.season, round, quali)
		})
	}

	report := strategy.CompareQualifyingVsRace(race.RaceName, quali.Results, race.Results)
	s.cache.Put(cacheKey, report, s.recommendedTTL())
	return report, nil
}

// PitWallData is the combined payload for the pit wall screen.
type PitWallData struct {
	Schedule      []models.ResolvedEvent `json:"schedule"`
	NextRace      *NextRaceInfo          `json:"next_race,omitempty"`
	CurrentRace   *models.ResolvedEvent  `json:"current_race,omitempty"`
	LatestResults *models.RaceResult     `json:"latest_results,omitempty"`
	Timestamp     string                 `json:"timestamp"`
}

// PitWallData assembles everything the pit wall screen needs in one call.
// Partial upstream failures degrade fields to null rather than failing the
// whole payload.
func (s *F1Service) PitWallData(ctx context.Context) PitWallData {
	timed := s.ScheduleWithTiming()
	data := PitWallData{
		Schedule:  timed.Schedule,
		Timestamp: timed.Timestamp,
	}

	if next, err := s.NextRaceInfo(); err == nil {
		data.NextRace = &next
	}
	if current, err := s.CurrentRaceInfo(); err == nil {
		data.CurrentRace = &current
	}
	if results, err := s.LatestResults(ctx); err == nil {
		data.LatestResults = results
	} else {
		s.log.WithError(err).Warn("Pit wall payload missing latest results")
	}

	return data
}

// BasicData is the compact payload for instant UI rendering.
type BasicData struct {
	Season             int             `json:"season"`
	NextRace           NextRaceSummary `json:"next_race"`
	ChampionshipLeader string          `json:"championship_leader,omitempty"`
	LeaderPoints       float64         `json:"leader_points,omitempty"`
	LatestRaceWinner   string          `json:"latest_race_winner,omitempty"`
	LatestRace         string          `json:"latest_race,omitempty"`
	Timestamp          string          `json:"timestamp"`
}

// BasicData returns the headline facts without heavy payloads.
func (s *F1Service) BasicData(ctx context.Context) BasicData {
	data := BasicData{
		Season:    s.store.Season(),
		NextRace:  s.NextRace(),
		Timestamp: s.now().Format(time.RFC3339),
	}

	if standings, err := s.Standings(ctx); err == nil {
		if leader, ok := standings.Leader(); ok {
			data.ChampionshipLeader = leader.Driver
			data.LeaderPoints, _ = leader.Points.Float64()
		}
	}
	if result, err := s.LatestResults(ctx); err == nil {
		data.LatestRaceWinner = result.Winner
		data.LatestRace = result.RaceName
	}

	return data
}

// RefreshSnapshots drops the cached results and standings and re-fetches
// them, persisting live payloads through the ingestor. Called by the
// background ingestion job to keep the snapshot store warm between requests.
func (s *F1Service) RefreshSnapshots(ctx context.Context) error {
	s.cache.Delete(cacheKeyLatestResults)
	s.cache.Delete(cacheKeyStandings)

	var firstErr error
	if _, err := s.LatestResults(ctx); err != nil {
		firstErr = err
	}
	if _, err := s.Standings(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// roundName resolves the event name of a round, falling back to a generic
// label when the round is not on the calendar.
func (s *F1Service) roundName(round int) string {
	if event, ok := s.store.EventByRound(round); ok {
		return event.Name
	}
	return fmt.Sprintf("Round %d", round)
}
