// Package scheduler runs periodic background jobs against the
// user-data store.
package scheduler

import (
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/lectern/readerdata/internal/database"
)

// MaintenanceScheduler periodically checkpoints the store's WAL and
// refreshes sqlite's planner statistics. Purely housekeeping: no user
// data is touched.
type MaintenanceScheduler struct {
	db       *database.Database
	schedule string

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewMaintenanceScheduler creates a new scheduler instance.
func NewMaintenanceScheduler(db *database.Database, schedule string) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		db:       db,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *MaintenanceScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, s.runOnce)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Store maintenance scheduled: %s", s.schedule)
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
}

func (s *MaintenanceScheduler) runOnce() {
	if err := s.db.Maintain(); err != nil {
		log.Printf("Store maintenance failed: %v", err)
		return
	}
	log.Printf("Store maintenance completed")
}
