package cron

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"
	"github.com/sahilchouksey/shikshachain/database"
	"github.com/sahilchouksey/shikshachain/model"
	"github.com/sahilchouksey/shikshachain/utils/metrics"
)

// Job names as recorded in cron_job_logs
const (
	JobAggregateIssuanceStatistics = "aggregate_issuance_statistics"
	JobCleanupJobLogs              = "cleanup_job_logs"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron    *cron.Cron
	store   database.Storage
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewCronManager creates a new cron manager. m may be nil.
func NewCronManager(store database.Storage, m *metrics.Metrics) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:    c,
		store:   store,
		metrics: m,
		now:     time.Now,
	}
}

// Start registers and starts all cron jobs
func (m *CronManager) Start() error {
	log.Info("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Info("Cron jobs started successfully")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (m *CronManager) Stop() {
	log.Info("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Info("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// Every hour: issuance statistics
	if _, err := m.cron.AddFunc("0 0 * * * *", func() {
		m.AggregateIssuanceStatistics()
	}); err != nil {
		return err
	}

	// Daily at 2 AM: job log retention
	if _, err := m.cron.AddFunc("0 0 2 * * *", func() {
		m.CleanupJobLogs()
	}); err != nil {
		return err
	}

	log.Info("All cron jobs registered successfully")
	return nil
}

// jobRun tracks one execution of a job until it is recorded
type jobRun struct {
	name      string
	startedAt time.Time
}

func (m *CronManager) logJobStart(jobName string) *jobRun {
	run := &jobRun{name: jobName, startedAt: m.now()}
	log.Infof("[CRON] Starting job: %s at %s", jobName, run.startedAt.Format(time.RFC3339))
	return run
}

// logJobComplete records a successful run with its metadata
func (m *CronManager) logJobComplete(ctx context.Context, run *jobRun, message string, metadata map[string]interface{}) {
	log.Infof("[CRON] Completed job: %s - %s", run.name, message)
	m.record(ctx, run, model.JobStatusCompleted, message, "", metadata)
}

// logJobError records a failed run
func (m *CronManager) logJobError(ctx context.Context, run *jobRun, err error) {
	log.Errorf("[CRON] Error in job: %s - %v", run.name, err)
	m.record(ctx, run, model.JobStatusFailed, "", err.Error(), nil)
}

func (m *CronManager) record(ctx context.Context, run *jobRun, status, message, errMsg string, metadata map[string]interface{}) {
	completedAt := m.now()
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		raw = []byte("{}")
	}

	entry := &model.CronJobLog{
		JobName:     run.name,
		Status:      status,
		StartedAt:   run.startedAt,
		CompletedAt: &completedAt,
		Duration:    completedAt.Sub(run.startedAt).Milliseconds(),
		Message:     message,
		ErrorMsg:    errMsg,
		Metadata:    raw,
	}
	if err := m.store.InsertJobLog(ctx, entry); err != nil {
		log.Errorf("[CRON] Failed to record run of %s: %v", run.name, err)
	}
}
