// Package service combines the schedule resolver, the data source chain and
// the response cache into the operations the API and the agent expose.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pranjalekhande/paddock-ai/internal/cache"
	"github.com/pranjalekhande/paddock-ai/internal/f1data"
	"github.com/pranjalekhande/paddock-ai/internal/models"
	"github.com/pranjalekhande/paddock-ai/internal/repository"
	"github.com/pranjalekhande/paddock-ai/internal/schedule"
)

// Cache keys for chain-backed payloads.
const (
	cacheKeyLatestResults = "latest_results"
	cacheKeyStandings     = "driver_standings"
	cacheKeyPitStops      = "pit_stops"
	cacheKeyQualifying    = "qualifying"
)

// F1Service answers schedule and data questions for the API and the agent.
type F1Service struct {
	store    *schedule.Store
	chain    *f1data.Chain
	cache    *cache.ResponseCache
	ingestor *repository.Ingestor
	season   int
	log      *logrus.Entry
	now      func() time.Time
}

// NewF1Service wires the service. The ingestor may be nil when no snapshot
// store is configured.
func NewF1Service(store *schedule.Store, chain *f1data.Chain, responseCache *cache.ResponseCache, ingestor *repository.Ingestor, season int, baseLogger *logrus.Logger) *F1Service {
	return &F1Service{
		store:    store,
		chain:    chain,
		cache:    responseCache,
		ingestor: ingestor,
		season:   season,
		log:      baseLogger.WithField("component", "f1service"),
		now:      time.Now,
	}
}

// SetClock overrides the time source. Used by tests to freeze the schedule.
func (s *F1Service) SetClock(clock func() time.Time) {
	s.now = clock
}

// ScheduleEntry is one calendar row of the plain schedule response.
type ScheduleEntry struct {
	Round      int    `json:"round"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	Country    string `json:"country"`
	Date       string `json:"date"`
	IsUpcoming bool   `json:"is_upcoming"`
	Circuit    string `json:"circuit"`
	Status     string `json:"status"`
}

// ScheduleResponse is the season calendar with per-event status.
type ScheduleResponse struct {
	Season       int             `json:"season"`
	Events       []ScheduleEntry `json:"events"`
	TotalRounds  int             `json:"total_rounds"`
	CurrentRound int             `json:"current_round"`
	LastUpdated  string          `json:"last_updated"`
}

// Schedule returns the season calendar with dynamically classified status.
func (s *F1Service) Schedule() ScheduleResponse {
	now := s.now()
	events := s.store.Events()

	entries := make([]ScheduleEntry, 0, len(events))
	for _, event := range events {
		status := schedule.ClassifyStatus(event, now)
		entries = append(entries, ScheduleEntry{
			Round:      event.Round,
			Name:       event.Name,
			Location:   event.Location,
			Country:    event.Country,
			Date:       event.Date + "T00:00:00Z",
			IsUpcoming: status == models.StatusUpcoming,
			Circuit:    event.Circuit,
			Status:     string(status),
		})
	}

	return ScheduleResponse{
		Season:       s.store.Season(),
		Events:       entries,
		TotalRounds:  len(entries),
		CurrentRound: s.currentRound(now),
		LastUpdated:  now.Format(time.RFC3339),
	}
}

// TimedScheduleResponse is the fully resolved calendar: live-session state,
// next-session pointers and cache TTL recommendations per event.
type TimedScheduleResponse struct {
	Schedule  []models.ResolvedEvent `json:"schedule"`
	Timestamp string                 `json:"timestamp"`
}

// ScheduleWithTiming resolves every event against the current instant.
func (s *F1Service) ScheduleWithTiming() TimedScheduleResponse {
	now := s.now()
	return TimedScheduleResponse{
		Schedule:  schedule.ResolveAll(s.store.Events(), now),
		Timestamp: now.Format(time.RFC3339),
	}
}

// CurrentRaceInfo returns the race within 24 hours of now, or failing that
// the most recent completed race, fully resolved.
func (s *F1Service) CurrentRaceInfo() (models.ResolvedEvent, error) {
	now := s.now()
	events := s.store.Events()

	for _, event := range events {
		raceTime, err := schedule.RaceStart(event)
		if err != nil {
			continue
		}
		diff := now.Sub(raceTime)
		if diff < 0 {
			diff = -diff
		}
		if diff < 24*time.Hour {
			return schedule.Resolve(event, now), nil
		}
	}

	for i := len(events) - 1; i >= 0; i-- {
		if schedule.ClassifyStatus(events[i], now) == models.StatusCompleted {
			return schedule.Resolve(events[i], now), nil
		}
	}

	return models.ResolvedEvent{}, fmt.Errorf("no current or completed race: %w", models.ErrNoData)
}

// NextRaceInfo is a resolved upcoming event with countdown fields.
type NextRaceInfo struct {
	models.ResolvedEvent

	CountdownSeconds     int `json:"countdown_seconds"`
	CountdownDays        int `json:"countdown_days"`
	NextSessionCountdown int `json:"next_session_countdown,omitempty"`
}

// NextRaceInfo returns the first event whose race is still ahead, with
// countdowns to the race and to its next session.
func (s *F1Service) NextRaceInfo() (NextRaceInfo, error) {
	now := s.now()

	for _, event := range s.store.Events() {
		raceTime, err := schedule.RaceStart(event)
		if err != nil || !raceTime.After(now) {
			continue
		}

		info := NextRaceInfo{ResolvedEvent: schedule.Resolve(event, now)}
		toRace := raceTime.Sub(now)
		info.CountdownSeconds = int(toRace.Seconds())
		info.CountdownDays = int(toRace.Hours() / 24)

		if _, start, ok := schedule.NextSession(event, now); ok {
			info.NextSessionCountdown = int(start.Sub(now).Seconds())
		}
		return info, nil
	}

	return NextRaceInfo{}, fmt.Errorf("no upcoming race: %w", models.ErrNoData)
}

// NextRaceSummary is the compact next-race payload.
type NextRaceSummary struct {
	Round          int    `json:"round,omitempty"`
	Name           string `json:"name,omitempty"`
	Location       string `json:"location,omitempty"`
	Country        string `json:"country,omitempty"`
	Date           string `json:"date,omitempty"`
	DaysUntil      int    `json:"days_until"`
	Circuit        string `json:"circuit,omitempty"`
	Message        string `json:"message,omitempty"`
	SeasonComplete bool   `json:"season_complete,omitempty"`
}

// NextRace returns the next upcoming race, or a season-complete marker.
func (s *F1Service) NextRace() NextRaceSummary {
	now := s.now()

	event, ok := schedule.NextEvent(s.store.Events(), now)
	if !ok {
		return NextRaceSummary{
			Message:        fmt.Sprintf("No more races in %d season", s.store.Season()),
			SeasonComplete: true,
		}
	}

	daysUntil := 0
	if raceTime, err := schedule.RaceStart(event); err == nil {
		daysUntil = int(raceTime.Sub(now).Hours() / 24)
	}

	return NextRaceSummary{
		Round:     event.Round,
		Name:      event.Name,
		Location:  event.Location,
		Country:   event.Country,
		Date:      event.Date + "T00:00:00+00:00",
		DaysUntil: daysUntil,
		Circuit:   event.Circuit,
	}
}

// currentRound returns the round of the current event, else the next, else 0.
func (s *F1Service) currentRound(now time.Time) int {
	events := s.store.Events()
	if event, ok := schedule.CurrentEvent(events, now); ok {
		return event.Round
	}
	if event, ok := schedule.NextEvent(events, now); ok {
		return event.Round
	}
	return 0
}

// recommendedTTL derives the cache lifetime for data answers from the most
// relevant event: the current weekend if one is running, otherwise the next.
func (s *F1Service) recommendedTTL() time.Duration {
	now := s.now()
	events := s.store.Events()

	if event, ok := schedule.CurrentEvent(events, now); ok {
		return time.Duration(schedule.CacheTTL(event, now)) * time.Second
	}
	if event, ok := schedule.NextEvent(events, now); ok {
		return time.Duration(schedule.CacheTTL(event, now)) * time.Second
	}
	return time.Duration(schedule.TTLCompleted) * time.Second
}

// latestCompletedRound returns the round of the most recent completed event.
func (s *F1Service) latestCompletedRound() (int, bool) {
	now := s.now()
	events := s.store.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if schedule.ClassifyStatus(events[i], now) == models.StatusCompleted {
			return events[i].Round, true
		}
	}
	return 0, false
}

// persist saves a live fetch into the snapshot tier, best effort.
func (s *F1Service) persist(ctx context.Context, operation string, save func(context.Context) error) {
	if s.ingestor == nil {
		return
	}
	if err := save(ctx); err != nil {
		s.log.WithError(err).WithField("operation", operation).Warn("Failed to persist snapshot")
	}
}

// liveSource reports whether a payload came from a live API rather than the
// snapshot or static tier.
func liveSource(source string) bool {
	return source != "" && source != "snapshot" && source != "static"
}
