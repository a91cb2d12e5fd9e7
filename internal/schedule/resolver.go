package schedule

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/pranjalekhande/paddock-ai/internal/models"
)

// Weekend window and TTL constants. The TTL table tracks how fast the
// underlying real-world data changes during each weekend phase.
const (
	windowBeforeRace = 48 * time.Hour
	windowAfterRace  = 3 * time.Hour

	dateFallbackCompletedAfter = 24 * time.Hour
	dateFallbackUpcomingBefore = 48 * time.Hour

	upcomingSoonWindow = 7 * 24 * time.Hour

	TTLLiveRace     = 15
	TTLLiveSession  = 30
	TTLCurrent      = 60
	TTLUpcomingSoon = 300
	TTLUpcoming     = 1800
	TTLCompleted    = 86400
)

// Accepted layouts for naive local session times.
var localTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// TimeParseError reports a session time that could not be interpreted, either
// because the wall-clock string is malformed or the timezone is unknown.
type TimeParseError struct {
	Value    string
	Timezone string
	Err      error
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("cannot resolve session time %q in timezone %q: %v", e.Value, e.Timezone, e.Err)
}

func (e *TimeParseError) Unwrap() error {
	return e.Err
}

// ResolveSessionTime interprets a naive local date-time string as wall-clock
// time in the given IANA timezone and converts it to UTC.
func ResolveSessionTime(localTime, timezoneID string) (time.Time, error) {
	loc, err := time.LoadLocation(timezoneID)
	if err != nil {
		return time.Time{}, &TimeParseError{Value: localTime, Timezone: timezoneID, Err: err}
	}

	var parseErr error
	for _, layout := range localTimeLayouts {
		t, err := time.ParseInLocation(layout, localTime, loc)
		if err == nil {
			return t.UTC(), nil
		}
		parseErr = err
	}
	return time.Time{}, &TimeParseError{Value: localTime, Timezone: timezoneID, Err: parseErr}
}

// sessionStart resolves the UTC start of one session of an event.
func sessionStart(event models.Event, kind models.SessionKind) (time.Time, error) {
	local, ok := event.Sessions[kind]
	if !ok || local == "" {
		return time.Time{}, &TimeParseError{Value: "", Timezone: event.Timezone, Err: fmt.Errorf("session %s not defined", kind)}
	}
	return ResolveSessionTime(local, event.Timezone)
}

// RaceStart resolves the UTC start of the race session.
func RaceStart(event models.Event) (time.Time, error) {
	return sessionStart(event, models.SessionRace)
}

// eventDate parses the calendar date of the event as midnight UTC. Used only
// by the coarse fallback when session times cannot be resolved.
func eventDate(event models.Event) (time.Time, error) {
	return time.Parse("2006-01-02", event.Date)
}

// ClassifyStatus determines the lifecycle phase of an event relative to now.
//
// When the race time resolves, the weekend window runs from the first
// configured practice (or race minus 48 hours when the weekend has no
// practice sessions) to race start plus 3 hours, bounds inclusive. When the
// race time cannot be resolved the classification degrades to a date-only
// rule: completed more than a day past the calendar date, upcoming more than
// two days before it, current in between. Parse failures never abort the
// classification.
func ClassifyStatus(event models.Event, now time.Time) models.EventStatus {
	raceTime, err := RaceStart(event)
	if err != nil {
		return classifyByDate(event, now)
	}

	windowStart := raceTime.Add(-windowBeforeRace)
	for _, kind := range []models.SessionKind{models.SessionPractice1, models.SessionPractice2, models.SessionPractice3} {
		if !event.HasSession(kind) {
			continue
		}
		start, err := sessionStart(event, kind)
		if err != nil {
			continue
		}
		windowStart = start
		break
	}
	windowEnd := raceTime.Add(windowAfterRace)

	switch {
	case now.Before(windowStart):
		return models.StatusUpcoming
	case now.After(windowEnd):
		return models.StatusCompleted
	default:
		return models.StatusCurrent
	}
}

// classifyByDate is the coarse date-only fallback.
func classifyByDate(event models.Event, now time.Time) models.EventStatus {
	date, err := eventDate(event)
	if err != nil {
		// Nothing about this event parses. Treat it as current so callers
		// keep refreshing rather than pinning a stale answer for a day.
		return models.StatusCurrent
	}

	switch {
	case now.After(date.Add(dateFallbackCompletedAfter)):
		return models.StatusCompleted
	case now.Before(date.Add(-dateFallbackUpcomingBefore)):
		return models.StatusUpcoming
	default:
		return models.StatusCurrent
	}
}

// DetectLiveSession reports whether any session of the event is running at
// now. Sessions are checked in the fixed kind order and the first match wins.
// A session is live within [start, start+duration] inclusive.
func DetectLiveSession(event models.Event, now time.Time) (bool, models.SessionKind) {
	for _, kind := range models.SessionOrder {
		if !event.HasSession(kind) {
			continue
		}
		start, err := sessionStart(event, kind)
		if err != nil {
			continue
		}
		end := start.Add(models.SessionDurations[kind])
		if !now.Before(start) && !now.After(end) {
			return true, kind
		}
	}
	return false, ""
}

// NextSession returns the first session, in fixed kind order, whose start is
// strictly after now. Returns false when every session is past or unresolvable.
func NextSession(event models.Event, now time.Time) (models.SessionKind, time.Time, bool) {
	for _, kind := range models.SessionOrder {
		if !event.HasSession(kind) {
			continue
		}
		start, err := sessionStart(event, kind)
		if err != nil {
			continue
		}
		if start.After(now) {
			return kind, start, true
		}
	}
	return "", time.Time{}, false
}

// CacheTTL recommends how long a cached answer about the event stays valid,
// in seconds. The table is evaluated top to bottom, first match wins:
// live race 15, any other live session 30, current weekend 60, upcoming race
// within 7 days 300, upcoming otherwise 1800, completed 86400.
func CacheTTL(event models.Event, now time.Time) int {
	live, kind := DetectLiveSession(event, now)
	if live {
		if kind == models.SessionRace {
			return TTLLiveRace
		}
		return TTLLiveSession
	}

	switch ClassifyStatus(event, now) {
	case models.StatusCurrent:
		return TTLCurrent
	case models.StatusUpcoming:
		raceTime, err := RaceStart(event)
		if err != nil {
			if date, derr := eventDate(event); derr == nil {
				raceTime = date
			} else {
				return TTLUpcoming
			}
		}
		if raceTime.Sub(now) <= upcomingSoonWindow {
			return TTLUpcomingSoon
		}
		return TTLUpcoming
	default:
		return TTLCompleted
	}
}

// Resolve computes the full derived view of an event at now.
func Resolve(event models.Event, now time.Time) models.ResolvedEvent {
	resolved := models.ResolvedEvent{
		Event:  event,
		Status: ClassifyStatus(event, now),
	}

	if live, kind := DetectLiveSession(event, now); live {
		resolved.IsLive = true
		resolved.LiveSession = string(kind)
	}

	if kind, start, ok := NextSession(event, now); ok {
		resolved.NextSession = string(kind)
		resolved.NextSessionTime = start.Format(time.RFC3339)
	}

	resolved.CacheTTL = CacheTTL(event, now)
	return resolved
}

// ResolveAll resolves every event of a schedule at the same instant.
func ResolveAll(events []models.Event, now time.Time) []models.ResolvedEvent {
	out := make([]models.ResolvedEvent, 0, len(events))
	for _, event := range events {
		out = append(out, Resolve(event, now))
	}
	return out
}

// CurrentEvent returns the first event classified current at now.
func CurrentEvent(events []models.Event, now time.Time) (models.Event, bool) {
	for _, event := range events {
		if ClassifyStatus(event, now) == models.StatusCurrent {
			return event, true
		}
	}
	return models.Event{}, false
}

// NextEvent returns the upcoming event with the earliest race start.
func NextEvent(events []models.Event, now time.Time) (models.Event, bool) {
	var (
		best      models.Event
		bestStart time.Time
		found     bool
	)
	for _, event := range events {
		if ClassifyStatus(event, now) != models.StatusUpcoming {
			continue
		}
		start, err := RaceStart(event)
		if err != nil {
			date, derr := eventDate(event)
			if derr != nil {
				continue
			}
			start = date
		}
		if !found || start.Before(bestStart) {
			best = event
			bestStart = start
			found = true
		}
	}
	return best, found
}
