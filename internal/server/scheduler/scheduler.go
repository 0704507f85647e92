// Package scheduler runs the periodic billing jobs: cloning due recurring
// invoices and flipping sent invoices past their due date to overdue.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/noverif/noverif/internal/logging"
	"github.com/noverif/noverif/internal/server/services"
)

// Daily at 02:00 server time, after most activity has quieted down.
const billingSchedule = "0 2 * * *"

// Scheduler owns the cron runner for the invoice jobs.
type Scheduler struct {
	cron     *cron.Cron
	invoices *services.InvoiceService
	logger   logging.Logger
}

func New(invoices *services.InvoiceService, logger logging.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		invoices: invoices,
		logger:   logger.With("component", "scheduler"),
	}
}

// Start registers the billing job and starts the cron runner.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(billingSchedule, s.runBilling); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop stops the runner and waits for any in-flight job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runBilling() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now()

	created, err := s.invoices.GenerateRecurring(ctx, now)
	if err != nil {
		s.logger.Error(ctx, "recurring invoice generation failed", "error", err)
	}

	overdue, err := s.invoices.MarkOverdue(ctx, now)
	if err != nil {
		s.logger.Error(ctx, "overdue sweep failed", "error", err)
	}

	s.logger.Info(ctx, "billing job finished", "created", created, "overdue", overdue)
}
