package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/shikshachain/database"
)

// jobLogRetention is how long cron_job_logs rows are kept
const jobLogRetention = 30 * 24 * time.Hour

// AggregateIssuanceStatistics counts registered universities and minted
// degrees and publishes them as gauges.
func (m *CronManager) AggregateIssuanceStatistics() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	run := m.logJobStart(JobAggregateIssuanceStatistics)

	universities, err := m.store.CountUniversities(ctx)
	if err != nil {
		m.logJobError(ctx, run, fmt.Errorf("failed to count universities: %w", err))
		return
	}

	degrees, err := m.store.CountDegrees(ctx, database.DegreeFilter{})
	if err != nil {
		m.logJobError(ctx, run, fmt.Errorf("failed to count degrees: %w", err))
		return
	}

	if m.metrics != nil {
		m.metrics.UniversitiesTotal.Set(float64(universities))
		m.metrics.DegreesTotal.Set(float64(degrees))
	}

	m.logJobComplete(ctx, run,
		fmt.Sprintf("%d universities, %d degrees", universities, degrees),
		map[string]interface{}{
			"timestamp":    run.startedAt.Format(time.RFC3339),
			"universities": universities,
			"degrees":      degrees,
		})
}

// CleanupJobLogs deletes job logs older than the retention window
func (m *CronManager) CleanupJobLogs() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	run := m.logJobStart(JobCleanupJobLogs)
	cutoff := run.startedAt.Add(-jobLogRetention)

	deleted, err := m.store.DeleteJobLogsBefore(ctx, cutoff)
	if err != nil {
		m.logJobError(ctx, run, fmt.Errorf("failed to delete old job logs: %w", err))
		return
	}

	if deleted > 0 {
		log.Infof("[CRON] Deleted %d job logs older than %s", deleted, cutoff.Format(time.RFC3339))
	}
	m.logJobComplete(ctx, run,
		fmt.Sprintf("Deleted %d job logs", deleted),
		map[string]interface{}{
			"deleted": deleted,
			"cutoff":  cutoff.Format(time.RFC3339),
		})
}
