package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/threadline-shop/threadline-backend/internal/app/repository"
	"github.com/threadline-shop/threadline-backend/pkg/logger"
)

// CartCleanupScheduler periodically drops cart lines that have not been
// touched in a long time. Guest carts expire on their own through the
// key-value store TTL; this covers the relational carts of users who
// abandoned them.
type CartCleanupScheduler struct {
	cron     *cron.Cron
	cartRepo repository.CartRepository
	schedule string
	maxAge   time.Duration
}

func NewCartCleanupScheduler(cartRepo repository.CartRepository, schedule string, maxAge time.Duration) *CartCleanupScheduler {
	return &CartCleanupScheduler{
		cron:     cron.New(),
		cartRepo: cartRepo,
		schedule: schedule,
		maxAge:   maxAge,
	}
}

func (s *CartCleanupScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		logger.Info("Starting scheduled cart cleanup", map[string]interface{}{
			"max_age": s.maxAge.String(),
		})

		removed, err := s.cartRepo.DeleteStale(time.Now().Add(-s.maxAge))
		if err != nil {
			logger.Error("Scheduled cart cleanup failed", err)
			return
		}

		logger.Info("Scheduled cart cleanup finished", map[string]interface{}{
			"removed": removed,
		})
	})
	if err != nil {
		logger.Error("Failed to register cart cleanup job", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart cleanup scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})

	return nil
}

func (s *CartCleanupScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Cart cleanup scheduler stopped", nil)
}
