package jobs

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/datamartgh/backend/internal/models"
)

const staleOrderAge = 24 * time.Hour

// StaleOrderSweep periodically reports orders that have sat in pending or
// processing for too long. It never transitions them; recovery stays a
// manual admin action so the ledger only moves through the status endpoint.
type StaleOrderSweep struct {
	db        *gorm.DB
	scheduler *gocron.Scheduler
}

// NewStaleOrderSweep creates a new stale order sweep
func NewStaleOrderSweep(db *gorm.DB) *StaleOrderSweep {
	return &StaleOrderSweep{
		db:        db,
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// Start schedules the sweep to run every day
func (s *StaleOrderSweep) Start() {
	if _, err := s.scheduler.Every(1).Day().At("06:00").Do(s.Sweep); err != nil {
		logrus.WithError(err).Error("error scheduling stale order sweep")
		return
	}
	s.scheduler.StartAsync()
}

// Stop stops the scheduler
func (s *StaleOrderSweep) Stop() {
	s.scheduler.Stop()
}

// Sweep logs every non-terminal order older than the stale cutoff
func (s *StaleOrderSweep) Sweep() {
	cutoff := time.Now().Add(-staleOrderAge)

	var orders []models.Order
	err := s.db.
		Where("status IN ?", []models.OrderStatus{models.OrderStatusPending, models.OrderStatusProcessing}).
		Where("created_at < ?", cutoff).
		Order("created_at asc").
		Find(&orders).Error
	if err != nil {
		logrus.WithError(err).Error("stale order sweep query failed")
		return
	}

	if len(orders) == 0 {
		logrus.Info("stale order sweep found no stale orders")
		return
	}

	for _, order := range orders {
		logrus.WithFields(logrus.Fields{
			"order_id":  order.ID,
			"reference": order.Reference,
			"status":    order.Status,
			"age_hours": int(time.Since(order.CreatedAt).Hours()),
		}).Warn("order awaiting manual resolution")
	}

	logrus.WithField("count", len(orders)).Warn("stale order sweep complete")
}
