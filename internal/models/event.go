// Package models defines the domain types shared across the Paddock AI backend.
package models

import "time"

// SessionKind identifies one of the five possible sessions of a race weekend.
type SessionKind string

const (
	SessionPractice1  SessionKind = "practice1"
	SessionPractice2  SessionKind = "practice2"
	SessionPractice3  SessionKind = "practice3"
	SessionQualifying SessionKind = "qualifying"
	SessionRace       SessionKind = "race"
)

// SessionOrder is the fixed evaluation order for sessions of a weekend.
// Live-session detection and next-session lookup both iterate in this order,
// which also acts as the tie-break if windows ever overlapped.
var SessionOrder = []SessionKind{
	SessionPractice1,
	SessionPractice2,
	SessionPractice3,
	SessionQualifying,
	SessionRace,
}

// SessionDurations maps each session kind to its fixed running time.
var SessionDurations = map[SessionKind]time.Duration{
	SessionPractice1:  90 * time.Minute,
	SessionPractice2:  90 * time.Minute,
	SessionPractice3:  60 * time.Minute,
	SessionQualifying: 90 * time.Minute,
	SessionRace:       180 * time.Minute,
}

// EventStatus is the lifecycle phase of a race weekend relative to "now".
type EventStatus string

const (
	StatusUpcoming  EventStatus = "upcoming"
	StatusCurrent   EventStatus = "current"
	StatusCompleted EventStatus = "completed"
)

// Event represents one race weekend from the season schedule. Session start
// times are naive local wall-clock strings (no UTC offset); all sessions of
// an event share the single IANA timezone identifier. The race session is
// mandatory, practices and qualifying depend on the weekend format.
type Event struct {
	Round    int                    `mapstructure:"round" json:"round" validate:"required,gt=0"`
	Name     string                 `mapstructure:"name" json:"name" validate:"required"`
	Location string                 `mapstructure:"location" json:"location"`
	Country  string                 `mapstructure:"country" json:"country"`
	Circuit  string                 `mapstructure:"circuit" json:"circuit"`
	Date     string                 `mapstructure:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Timezone string                 `mapstructure:"timezone" json:"timezone" validate:"required"`
	Sessions map[SessionKind]string `mapstructure:"sessions" json:"sessions" validate:"required"`
}

// HasSession reports whether the event defines the given session kind.
func (e Event) HasSession(kind SessionKind) bool {
	s, ok := e.Sessions[kind]
	return ok && s != ""
}

// ResolvedEvent is the per-request derived view of an Event: lifecycle status,
// live-session state, next-session pointer and the recommended cache TTL for
// downstream consumers. It is recomputed on every query and never persisted.
type ResolvedEvent struct {
	Event

	Status          EventStatus `json:"status"`
	IsLive          bool        `json:"is_live"`
	LiveSession     string      `json:"live_session,omitempty"`
	NextSession     string      `json:"next_session,omitempty"`
	NextSessionTime string      `json:"next_session_time,omitempty"`
	CacheTTL        int         `json:"cache_ttl"`
}
