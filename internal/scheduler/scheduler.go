// Package scheduler runs the periodic background sweeps: spike detection
// over fresh mentions and age-based escalation of stale queries.
package scheduler

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/brandsignal/brandsignal/internal/services"
)

// Scheduler owns the cron runner for the background sweeps.
type Scheduler struct {
	cron         *cron.Cron
	spikeService *services.SpikeService
	queryService *services.QueryService
}

// NewScheduler creates a new Scheduler
func NewScheduler(spikeService *services.SpikeService, queryService *services.QueryService) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		spikeService: spikeService,
		queryService: queryService,
	}
}

// Start registers the sweeps and begins running them. Schedules use cron
// syntax or @every intervals.
func (s *Scheduler) Start(spikeSchedule, escalationSchedule string) error {
	if _, err := s.cron.AddFunc(spikeSchedule, s.runSpikeCheck); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(escalationSchedule, s.runEscalation); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("Scheduler started: spike check %q, escalation %q", spikeSchedule, escalationSchedule)
	return nil
}

// Stop halts the cron runner. Running jobs finish before it returns.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runSpikeCheck() {
	if err := s.spikeService.CheckAndCreateAlerts(); err != nil {
		log.Printf("Spike check failed: %v", err)
	}
}

func (s *Scheduler) runEscalation() {
	escalated, err := s.queryService.EscalateStale()
	if err != nil {
		log.Printf("Escalation sweep failed: %v", err)
		return
	}
	if escalated > 0 {
		log.Printf("Escalated %d stale queries", escalated)
	}
}
