package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamefall/recipecost/internal/config"
	"github.com/mamefall/recipecost/internal/service/catalog"
	"github.com/mamefall/recipecost/internal/service/reporting"
	"github.com/mamefall/recipecost/pkg/clients/notify"
)

// Scheduler manages the periodic production summary and low-stock sweep.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	catalogSvc   *catalog.Service
	notifier     notify.Client
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. The notifier may be nil when
// no webhook is configured; jobs then only log their findings.
func NewScheduler(cfg config.Config, reportingSvc *reporting.Service, catalogSvc *catalog.Service, notifier notify.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:         cron.New(),
		reportingSvc: reportingSvc,
		catalogSvc:   catalogSvc,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the cron jobs and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.Reporting.SummaryCronSchedule, s.sendDailySummary); err != nil {
		s.logger.Error("failed to schedule daily summary", zap.Error(err))
	}

	if _, err := s.cron.AddFunc(s.cfg.Reporting.LowStockCronSchedule, s.sweepLowStock); err != nil {
		s.logger.Error("failed to schedule low-stock sweep", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sendDailySummary() {
	s.logger.Info("generating daily production summary")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	summary, err := s.reportingSvc.DailySummary(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to generate daily summary", zap.Error(err))
		return
	}

	message := reporting.FormatSummary(summary)
	s.logger.Info("daily production summary", zap.String("summary", message))

	if s.notifier == nil {
		return
	}
	if err := s.notifier.DailySummary(ctx, message, summary); err != nil {
		s.logger.Error("failed to send daily summary", zap.Error(err))
	}
}

func (s *Scheduler) sweepLowStock() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lowStock, err := s.catalogSvc.LowStock(ctx)
	if err != nil {
		s.logger.Error("low-stock sweep failed", zap.Error(err))
		return
	}
	if len(lowStock) == 0 {
		return
	}

	s.logger.Warn("ingredients at or below reorder level", zap.Int("count", len(lowStock)))

	if s.notifier == nil {
		return
	}
	if err := s.notifier.LowStockAlert(ctx, lowStock); err != nil {
		s.logger.Error("failed to send low-stock alert", zap.Error(err))
	}
}
