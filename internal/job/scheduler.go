// Package job runs periodic background work.
package job

import (
	"context"
	"fmt"
	"time"

	"go-medspa-inventory/config"
	"go-medspa-inventory/internal/service"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

const sweepTimeout = 2 * time.Minute

type Scheduler struct {
	sched         *cron.Cron
	notifications service.NotificationService
	log           *zap.Logger
}

func NewScheduler(notifications service.NotificationService, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		sched:         cron.New(cron.WithParser(cronParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		notifications: notifications,
		log:           log.Named("job"),
	}
}

// Setup registers the jobs enabled in cfg.
func (s *Scheduler) Setup(cfg config.JobsConfig) error {
	if !cfg.LowStockSweepEnabled {
		return nil
	}
	if _, err := s.sched.AddFunc(cfg.LowStockSweepSpec, s.SweepLowStock); err != nil {
		return fmt.Errorf("schedule low stock sweep %q: %w", cfg.LowStockSweepSpec, err)
	}
	s.log.Info("low stock sweep scheduled", zap.String("spec", cfg.LowStockSweepSpec))
	return nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.sched.Stop().Done()
}

// SweepLowStock is the cron entry point.
func (s *Scheduler) SweepLowStock() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("low stock sweep panicked", zap.Any("panic", err))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	created, err := s.notifications.SweepLowStock(ctx)
	if err != nil {
		s.log.Error("low stock sweep failed", zap.Int("created", created), zap.Error(err))
		return
	}
	s.log.Debug("low stock sweep done", zap.Int("created", created))
}
