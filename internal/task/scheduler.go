package task

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler owns the cron instance and the jobs registered on it.
type Scheduler struct {
	cron *cron.Cron
	log  logrus.FieldLogger
}

// NewScheduler creates a scheduler whose jobs recover from panics, are
// logged and never overlap with themselves.
func NewScheduler(log logrus.FieldLogger) *Scheduler {
	log = log.WithField("system", "cron")
	return &Scheduler{cron: cron.New(cron.WithChain(jobChain(log)...)), log: log}
}

// jobChain lists the wrappers outermost first. The logging wrapper sits
// closest to the job so it sees the job's own name.
func jobChain(log logrus.FieldLogger) []cron.JobWrapper {
	return []cron.JobWrapper{
		cron.SkipIfStillRunning(cron.DiscardLogger),
		NewPanicRecoveryWrapper(log),
		NewLoggingWrapper(log),
	}
}

// Register adds job on spec, a standard five-field expression or a
// descriptor such as "@every 5m".
func (s *Scheduler) Register(spec string, job cron.Job) error {
	if _, err := s.cron.AddJob(spec, job); err != nil {
		return fmt.Errorf("failed to register %s on %q: %w", getJobName(job), spec, err)
	}
	s.log.WithFields(logrus.Fields{
		"job_name": getJobName(job),
		"schedule": spec,
	}).Info("job registered")
	return nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.log.Info("cron scheduler started")
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.log.Info("stopping cron scheduler")
	<-s.cron.Stop().Done()
	s.log.Info("cron scheduler stopped")
}
