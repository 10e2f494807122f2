package cron

import (
	"log"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron *cron.Cron
	db   *gorm.DB
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB) *CronManager {
	// Seconds precision to match the schedule specs below
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron: c,
		db:   db,
	}
}

// Start registers all jobs and starts the scheduler
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs and waits for running ones to finish
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// Every 5 minutes: finish payment status updates that failed after the
	// enrollment was granted.
	_, err := m.cron.AddFunc("0 */5 * * * *", func() {
		m.logJobStart("reconcile_payments")
		m.ReconcilePayments()
	})
	if err != nil {
		return err
	}

	// Hourly: surface pending payments older than the advisory review SLA.
	_, err = m.cron.AddFunc("0 0 * * * *", func() {
		m.logJobStart("stale_pending_payments")
		m.LogStalePendingPayments()
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

func (m *CronManager) logJobStart(name string) {
	log.Printf("[CRON] Running job: %s", name)
}
