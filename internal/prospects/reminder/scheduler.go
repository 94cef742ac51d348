// Package reminder periodically reports the prospects whose follow-up is due.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Valentin39220/bini-crm/internal/prospects/domain"
	"github.com/Valentin39220/bini-crm/internal/prospects/pipeline"
)

// DefaultSchedule runs every morning at 08:00.
const DefaultSchedule = "0 0 8 * * *"

// Source is the read side of the prospect service.
type Source interface {
	List() []domain.Prospect
	Today() domain.Date
}

// Notifier receives the urgent prospects of a run.
type Notifier func(ctx context.Context, today domain.Date, urgent []domain.Prospect)

type Scheduler struct {
	cron     *cron.Cron
	source   Source
	notify   Notifier
	log      *zap.Logger
	schedule string
}

// NewScheduler builds a scheduler using a six-field cron spec (with seconds).
// A nil notify logs each urgent prospect.
func NewScheduler(source Source, schedule string, log *zap.Logger, notify Notifier) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if schedule == "" {
		schedule = DefaultSchedule
	}
	s := &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		source:   source,
		notify:   notify,
		log:      log,
		schedule: schedule,
	}
	if s.notify == nil {
		s.notify = s.logUrgent
	}
	return s
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("failed to create reminder job: %w", err)
	}
	s.cron.Start()
	s.log.Info("follow-up reminder scheduler started", zap.String("schedule", s.schedule))
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce computes the urgent subset and hands it to the notifier. It returns
// the number of urgent prospects.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	start := time.Now()
	today := s.source.Today()
	urgent := pipeline.UrgentSubset(s.source.List(), today)

	s.notify(ctx, today, urgent)
	s.log.Debug("follow-up reminder run",
		zap.String("today", today.String()),
		zap.Int("urgent", len(urgent)),
		zap.Duration("took", time.Since(start)))
	return len(urgent)
}

func (s *Scheduler) logUrgent(_ context.Context, today domain.Date, urgent []domain.Prospect) {
	for _, p := range urgent {
		s.log.Info("follow-up due",
			zap.String("id", p.ID),
			zap.String("company", p.Company),
			zap.String("contact", p.Contact),
			zap.String("next_follow_up", p.NextFollowUp.String()),
			zap.String("urgency", string(domain.Classify(p.NextFollowUp, today))))
	}
}
