package task

import (
	"reflect"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// JobWrapper is an alias of cron.JobWrapper.
type JobWrapper = cron.JobWrapper

// namedJob keeps the name of the job it wraps so outer wrappers log it too.
type namedJob struct {
	name string
	run  func()
}

func (j namedJob) Run()         { j.run() }
func (j namedJob) Name() string { return j.name }

// NewLoggingWrapper logs the start and end of every run with a unique
// execution id.
func NewLoggingWrapper(log logrus.FieldLogger) JobWrapper {
	return func(j cron.Job) cron.Job {
		name := getJobName(j)
		return namedJob{name: name, run: func() {
			jobLog := log.WithFields(logrus.Fields{
				"job_name":     name,
				"execution_id": uuid.NewString(),
			})

			start := time.Now()
			jobLog.Info("job execution started")
			j.Run()
			jobLog.WithField("duration", time.Since(start).String()).Info("job execution finished")
		}}
	}
}

// NewPanicRecoveryWrapper logs a panicking job with its stack instead of
// taking the process down.
func NewPanicRecoveryWrapper(log logrus.FieldLogger) JobWrapper {
	return func(j cron.Job) cron.Job {
		name := getJobName(j)
		return namedJob{name: name, run: func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(logrus.Fields{
						"job_name":    name,
						"panic":       r,
						"stack_trace": string(debug.Stack()),
					}).Error("job panicked")
				}
			}()
			j.Run()
		}}
	}
}

// getJobName prefers a Name() method and falls back to the type name.
func getJobName(j cron.Job) string {
	if named, ok := j.(interface{ Name() string }); ok {
		return named.Name()
	}
	t := reflect.TypeOf(j)
	if t.Kind() == reflect.Ptr {
		return t.Elem().String()
	}
	return t.String()
}
