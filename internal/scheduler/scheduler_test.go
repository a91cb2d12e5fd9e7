package scheduler

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranjalekhande/paddock-ai/internal/config"
	"github.com/pranjalekhande/paddock-ai/internal/service"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type countingRefresher struct {
	runs atomic.Int32
}

func (c *countingRefresher) Run(ctx context.Context) (service.UpdateResult, error) {
	c.runs.Add(1)
	return service.UpdateResult{Status: "success"}, nil
}

type countingSnapshots struct {
	runs atomic.Int32
}

func (c *countingSnapshots) RefreshSnapshots(ctx context.Context) error {
	c.runs.Add(1)
	return nil
}

type countingReloader struct {
	runs atomic.Int32
}

func (c *countingReloader) Reload() error {
	c.runs.Add(1)
	return nil
}

func testJobsConfig() config.JobsConfig {
	return config.JobsConfig{
		KnowledgeRefreshCron: "0 6 * * *",
		SnapshotIngestCron:   "*/15 * * * *",
		ScheduleReloadCron:   "0 0 * * 1",
	}
}

func TestRegisterJobs(t *testing.T) {
	s := New(quietLogger())

	err := s.RegisterJobs(testJobsConfig(), &countingRefresher{}, &countingSnapshots{}, &countingReloader{})
	require.NoError(t, err)
	assert.Equal(t, 3, s.JobCount())
}

func TestRegisterJobsSkipsNilCollaborators(t *testing.T) {
	s := New(quietLogger())

	err := s.RegisterJobs(testJobsConfig(), nil, &countingSnapshots{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.JobCount())
}

func TestRegisterJobsInvalidExpression(t *testing.T) {
	s := New(quietLogger())

	cfg := testJobsConfig()
	cfg.KnowledgeRefreshCron = "not a cron line"
	err := s.RegisterJobs(cfg, &countingRefresher{}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "knowledge_refresh")
}

func TestStartRequiresJobs(t *testing.T) {
	s := New(quietLogger())
	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	s := New(quietLogger())
	require.NoError(t, s.RegisterJobs(testJobsConfig(), &countingRefresher{}, nil, nil))

	require.NoError(t, s.Start())
	assert.Error(t, s.Start())
	assert.False(t, s.NextRun().IsZero())

	s.Stop()
	// Stopping twice is a no-op.
	s.Stop()
}

func TestJobsFire(t *testing.T) {
	s := New(quietLogger())
	snapshots := &countingSnapshots{}

	cfg := testJobsConfig()
	cfg.SnapshotIngestCron = "@every 100ms"
	require.NoError(t, s.RegisterJobs(cfg, nil, snapshots, nil))
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return snapshots.runs.Load() >= 2
	}, 3*time.Second, 20*time.Millisecond)
}
