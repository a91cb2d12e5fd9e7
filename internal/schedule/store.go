// Package schedule loads the season calendar and resolves race weekend timing.
package schedule

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/pranjalekhande/paddock-ai/internal/metrics"
	"github.com/pranjalekhande/paddock-ai/internal/models"
)

// scheduleFile mirrors the on-disk schedule document.
type scheduleFile struct {
	Season int            `mapstructure:"season"`
	Events []models.Event `mapstructure:"events"`
}

// Store owns the season schedule. Events are loaded from a YAML file at
// startup and treated as immutable between reloads; readers always see a
// complete snapshot.
type Store struct {
	mu     sync.RWMutex
	path   string
	season int
	events []models.Event
	log    *logrus.Entry
}

// NewStore creates a schedule store for the given file path. Call Load before
// first use.
func NewStore(path string, baseLogger *logrus.Logger) *Store {
	return &Store{
		path: path,
		log:  baseLogger.WithField("component", "schedule"),
	}
}

// Load reads the schedule file and replaces the in-memory snapshot.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read schedule file %s: %w", s.path, err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to parse schedule file: %w", err)
	}

	var doc scheduleFile
	if err := v.Unmarshal(&doc); err != nil {
		return fmt.Errorf("failed to unmarshal schedule: %w", err)
	}

	if len(doc.Events) == 0 {
		return fmt.Errorf("schedule file %s contains no events", s.path)
	}
	for _, event := range doc.Events {
		if !event.HasSession(models.SessionRace) {
			return fmt.Errorf("event %q (round %d) has no race session", event.Name, event.Round)
		}
	}

	s.mu.Lock()
	s.season = doc.Season
	s.events = doc.Events
	s.mu.Unlock()

	metrics.UpdateScheduleEvents(len(doc.Events))
	s.log.WithFields(logrus.Fields{
		"season": doc.Season,
		"events": len(doc.Events),
		"path":   s.path,
	}).Info("Schedule loaded")

	return nil
}

// Reload re-reads the schedule file. On failure the previous snapshot stays
// in place.
func (s *Store) Reload() error {
	return s.Load()
}

// Season returns the loaded season year.
func (s *Store) Season() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.season
}

// Events returns a copy of the loaded schedule in season order.
func (s *Store) Events() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	return out
}

// EventByRound returns the event with the given round number.
func (s *Store) EventByRound(round int) (models.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, event := range s.events {
		if event.Round == round {
			return event, true
		}
	}
	return models.Event{}, false
}

// EventByName returns the first event whose name matches exactly.
func (s *Store) EventByName(name string) (models.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, event := range s.events {
		if event.Name == name {
			return event, true
		}
	}
	return models.Event{}, false
}
