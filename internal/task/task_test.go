package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRefresher struct {
	mock.Mock
}

func (m *mockRefresher) Refresh(ctx context.Context) error {
	_, hasDeadline := ctx.Deadline()
	args := m.Called(hasDeadline)
	return args.Error(0)
}

func TestRefreshJobRunsWithTimeout(t *testing.T) {
	refresher := new(mockRefresher)
	refresher.On("Refresh", true).Return(errors.New("upstream down")).Once()

	job := NewRefreshJob(refresher, time.Second)
	assert.Equal(t, "RefreshJob", job.Name())
	assert.NotPanics(t, job.Run)
	refresher.AssertExpectations(t)
}

func TestLoggingWrapper(t *testing.T) {
	log, hook := test.NewNullLogger()
	ran := false

	NewLoggingWrapper(log)(NewRefreshJob(refresherFunc(func(context.Context) error {
		ran = true
		return nil
	}), 0)).Run()

	assert.True(t, ran)
	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "RefreshJob", entries[0].Data["job_name"])
	assert.Equal(t, entries[0].Data["execution_id"], entries[1].Data["execution_id"])
	assert.Contains(t, entries[1].Data, "duration")
}

func TestPanicRecoveryWrapper(t *testing.T) {
	log, hook := test.NewNullLogger()
	job := NewPanicRecoveryWrapper(log)(cron.FuncJob(func() { panic("boom") }))

	assert.NotPanics(t, job.Run)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "boom", hook.LastEntry().Data["panic"])
	assert.Equal(t, "cron.FuncJob", hook.LastEntry().Data["job_name"])
}

func TestJobChainKeepsJobName(t *testing.T) {
	log, hook := test.NewNullLogger()
	job := cron.NewChain(jobChain(log)...).Then(NewRefreshJob(refresherFunc(func(context.Context) error {
		return nil
	}), 0))

	job.Run()

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, "RefreshJob", entry.Data["job_name"])
	}
}

func TestJobChainRecoversWithJobName(t *testing.T) {
	log, hook := test.NewNullLogger()
	job := cron.NewChain(jobChain(log)...).Then(panickingJob{})

	assert.NotPanics(t, job.Run)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "PanickingJob", hook.LastEntry().Data["job_name"])
}

type panickingJob struct{}

func (panickingJob) Run()         { panic("boom") }
func (panickingJob) Name() string { return "PanickingJob" }

func TestSchedulerRegister(t *testing.T) {
	log, _ := test.NewNullLogger()
	s := NewScheduler(log)

	require.NoError(t, s.Register("@every 5m", NewRefreshJob(new(mockRefresher), 0)))
	require.NoError(t, s.Register("*/10 * * * *", NewRefreshJob(new(mockRefresher), 0)))
	assert.Error(t, s.Register("every five minutes", NewRefreshJob(new(mockRefresher), 0)))

	s.Start()
	s.Stop()
}

type refresherFunc func(context.Context) error

func (f refresherFunc) Refresh(ctx context.Context) error { return f(ctx) }
