// Package jobs holds the scheduled background work.
package jobs

import (
	"pedidos-api/live"
	"pedidos-api/settlement"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SettlementSummaryJob periodically recomputes the per-restaurant payout
// report and pushes it to connected admin dashboards, so the settlement tab
// stays current even when no order write happens to trigger a refresh.
type SettlementSummaryJob struct {
	db     *gorm.DB
	hub    *live.Hub
	cron   *cron.Cron
	logger *logrus.Logger
}

func NewSettlementSummaryJob(db *gorm.DB, hub *live.Hub, logger *logrus.Logger) *SettlementSummaryJob {
	return &SettlementSummaryJob{
		db:     db,
		hub:    hub,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start schedules the summary refresh once a minute.
func (j *SettlementSummaryJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		rows, err := settlement.Report(j.db)
		if err != nil {
			j.logger.WithError(err).Error("settlement summary job failed")
			return
		}
		j.hub.BroadcastSettlement(rows)
	})
	if err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("settlement summary job started (running every minute)")
	return nil
}

// Stop stops the scheduler and waits for an in-flight run to finish.
func (j *SettlementSummaryJob) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.logger.Info("settlement summary job stopped")
}
