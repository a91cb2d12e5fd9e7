// Package scheduler manages the background cron jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/pranjalekhande/paddock-ai/internal/config"
	"github.com/pranjalekhande/paddock-ai/internal/service"
)

// KnowledgeRefresher runs one knowledge base update pass.
type KnowledgeRefresher interface {
	Run(ctx context.Context) (service.UpdateResult, error)
}

// SnapshotRefresher re-fetches upstream data into the snapshot store.
type SnapshotRefresher interface {
	RefreshSnapshots(ctx context.Context) error
}

// ScheduleReloader re-reads the season schedule file.
type ScheduleReloader interface {
	Reload() error
}

const jobTimeout = 5 * time.Minute

// Scheduler runs the recurring maintenance jobs on cron expressions.
type Scheduler struct {
	cron      *cron.Cron
	log       *logrus.Entry
	mu        sync.Mutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// New creates a scheduler; jobs run on UTC wall time.
func New(baseLogger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		log:  baseLogger.WithField("component", "scheduler"),
	}
}

// RegisterJobs wires the three maintenance jobs from configuration. A nil
// collaborator skips its job.
func (s *Scheduler) RegisterJobs(cfg config.JobsConfig, knowledge KnowledgeRefresher, snapshots SnapshotRefresher, schedule ScheduleReloader) error {
	if knowledge != nil {
		if err := s.add("knowledge_refresh", cfg.KnowledgeRefreshCron, func(ctx context.Context) error {
			result, err := knowledge.Run(ctx)
			if err != nil {
				return err
			}
			s.log.WithField("vector_count", result.VectorCount).Info("Knowledge base refreshed")
			return nil
		}); err != nil {
			return err
		}
	}

	if snapshots != nil {
		if err := s.add("snapshot_ingest", cfg.SnapshotIngestCron, snapshots.RefreshSnapshots); err != nil {
			return err
		}
	}

	if schedule != nil {
		if err := s.add("schedule_reload", cfg.ScheduleReloadCron, func(ctx context.Context) error {
			return schedule.Reload()
		}); err != nil {
			return err
		}
	}

	return nil
}

// add registers one named job with a per-run timeout and error logging.
func (s *Scheduler) add(name, expression string, job func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot register job %s while scheduler is running", name)
	}

	entryID, err := s.cron.AddFunc(expression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			s.log.WithError(err).WithField("job", name).Error("Scheduled job failed")
			return
		}
		s.log.WithFields(logrus.Fields{
			"job":         name,
			"duration_ms": float64(time.Since(start).Milliseconds()),
		}).Info("Scheduled job completed")
	})
	if err != nil {
		return fmt.Errorf("failed to register job %s with expression %q: %w", name, expression, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.log.WithFields(logrus.Fields{
		"job":        name,
		"expression": expression,
	}).Info("Job registered")
	return nil
}

// Start begins running registered jobs.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs registered")
	}

	s.cron.Start()
	s.isRunning = true
	s.log.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop waits for in-flight jobs and halts the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.log.Info("Scheduler stopped")
}

// JobCount returns how many jobs are registered.
func (s *Scheduler) JobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobIDs)
}

// NextRun returns the earliest upcoming run across all jobs.
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next time.Time
	for _, id := range s.jobIDs {
		entry := s.cron.Entry(id)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}
