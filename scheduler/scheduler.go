package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/skyline-proger/stock-data-pipeline/pipeline"
)

// Scheduler runs the daily update cycle on a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline *pipeline.Pipeline
	Ctx      context.Context
}

// New creates a Scheduler bound to ctx; a cancelled context stops in-flight
// cycles at the next fetch.
func New(ctx context.Context, p *pipeline.Pipeline) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(),
		Pipeline: p,
		Ctx:      ctx,
	}
}

// Register adds the daily update task under the given cron spec.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.runUpdate); err != nil {
		return fmt.Errorf("register daily task %q: %w", dailyCron, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes an update cycle immediately (manual trigger / run-on-start).
func (s *Scheduler) RunNow() {
	s.runUpdate()
}

func (s *Scheduler) runUpdate() {
	log.Println("[INFO] running scheduled update")
	if err := s.Pipeline.RunUpdate(s.Ctx); err != nil {
		log.Printf("[ERROR] scheduled update: %v", err)
	}
}
