package scheduler

import (
	"context"
	"time"

	"github.com/halildurmus/hotdeals-backend/config"
	"github.com/halildurmus/hotdeals-backend/internal/app/repository"
	"github.com/halildurmus/hotdeals-backend/pkg/logger"
	"github.com/halildurmus/hotdeals-backend/pkg/redis"
	"github.com/robfig/cron/v3"
)

// DealScheduler runs the periodic maintenance jobs: expiring stale deals
// and flushing buffered view counters into the database.
type DealScheduler struct {
	cron     *cron.Cron
	dealRepo repository.DealRepository
	config   *config.Config
}

func NewDealScheduler(dealRepo repository.DealRepository, cfg *config.Config) *DealScheduler {
	return &DealScheduler{
		cron:     cron.New(),
		dealRepo: dealRepo,
		config:   cfg,
	}
}

func (s *DealScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.config.Scheduler.ExpiryScanSpec, s.runExpiryScan); err != nil {
		logger.Error("Failed to register expiry scan job", err, nil)
		return err
	}

	if _, err := s.cron.AddFunc(s.config.Scheduler.ViewFlushSpec, s.runViewFlush); err != nil {
		logger.Error("Failed to register view flush job", err, nil)
		return err
	}

	s.cron.Start()
	logger.Info("Deal scheduler started", map[string]interface{}{
		"expiry_scan": s.config.Scheduler.ExpiryScanSpec,
		"view_flush":  s.config.Scheduler.ViewFlushSpec,
	})

	return nil
}

func (s *DealScheduler) Stop() {
	logger.Info("Stopping deal scheduler...", nil)
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Deal scheduler stopped", nil)
}

// runExpiryScan marks active deals older than the configured age expired.
// This is the internal lifecycle path; it bypasses the moderator check.
func (s *DealScheduler) runExpiryScan() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.config.Deal.ExpiryAge)
	expired, err := s.dealRepo.ExpireOlderThan(ctx, cutoff)
	if err != nil {
		logger.Error("Expiry scan failed", err, map[string]interface{}{
			"cutoff": cutoff,
		})
		return
	}

	if expired > 0 {
		logger.Info("Expiry scan completed", map[string]interface{}{
			"expired": expired,
			"cutoff":  cutoff,
		})
	}
}

// runViewFlush drains the redis view counters into the deals table.
func (s *DealScheduler) runViewFlush() {
	if !redis.Available() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	counts, err := redis.DrainDealViews(ctx)
	if err != nil {
		logger.Error("Failed to drain view counters", err, nil)
		return
	}
	if len(counts) == 0 {
		return
	}

	flushed := 0
	for dealID, views := range counts {
		if err := s.dealRepo.AddViews(ctx, dealID, views); err != nil {
			// The redis counter is already consumed; log and move on.
			logger.Warn("Failed to flush views for deal", map[string]interface{}{
				"deal_id": dealID,
				"views":   views,
				"error":   err.Error(),
			})
			continue
		}
		flushed++
	}

	logger.Info("View flush completed", map[string]interface{}{
		"deals":   len(counts),
		"flushed": flushed,
	})
}
