package jobs

import (
	"time"

	"rentdesk-backend/internal/config"
	"rentdesk-backend/internal/lifecycle"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"
	"rentdesk-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	repos   *Repositories
	email   service.EmailService
	machine *lifecycle.Machine
	config  config.SchedulerConfig
	now     func() time.Time
}

// Repositories holds the data access needed by jobs
type Repositories struct {
	Incident     repository.IncidentRepository
	Property     repository.PropertyRepository
	User         repository.UserRepository
	Notification repository.NotificationRepository
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(repos *Repositories, email service.EmailService, cfg config.SchedulerConfig) *JobRunner {
	return &JobRunner{
		repos:   repos,
		email:   email,
		machine: lifecycle.NewMachine(repos.Incident, repos.Notification),
		config:  cfg,
		now:     time.Now,
	}
}

// Config returns the schedule the runner was built with
func (jr *JobRunner) Config() config.SchedulerConfig {
	return jr.config
}

// WithClock replaces the time source of the runner and its state machine.
func (jr *JobRunner) WithClock(now func() time.Time) *JobRunner {
	jr.now = now
	jr.machine.WithClock(now)
	return jr
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllDailyJobs runs every job once (for manual execution)
func (jr *JobRunner) RunAllDailyJobs() {
	jr.CloseResolvedIncidents()
	jr.SendDraftReminders()
}
