package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Scheduler sends a digest on a cron schedule through an adapter.
type Scheduler struct {
	db       *gorm.DB
	adapter  Adapter
	schedule cron.Schedule
}

// NewScheduler parses the cron expression and returns a Scheduler.
func NewScheduler(db *gorm.DB, adapter Adapter, expr string) (*Scheduler, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("notify: parse schedule %q: %w", expr, err)
	}
	return &Scheduler{db: db, adapter: adapter, schedule: sched}, nil
}

// Run blocks, firing the digest at each scheduled time until ctx is
// cancelled. Send failures are logged and do not stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := s.fire(ctx); err != nil {
			log.Printf("notify: digest: %v", err)
		}
	}
}

// fire builds and sends one digest. A nil digest means nothing to report.
func (s *Scheduler) fire(ctx context.Context) error {
	msg, err := BuildDigest(s.db)
	if err != nil {
		return err
	}
	if msg == nil {
		return nil
	}
	return s.adapter.Send(ctx, *msg)
}
