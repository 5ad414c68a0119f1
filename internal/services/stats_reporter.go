package services

import (
	"fmt"
	"time"

	"user-notification-system/pkg/logger"

	"github.com/robfig/cron/v3"
)

type connectionCounter interface {
	Count() int
}

// StatsReporter logs the number of open WebSocket connections on a schedule.
type StatsReporter struct {
	cron     *cron.Cron
	counter  connectionCounter
	interval time.Duration
	log      logger.Logger
}

func NewStatsReporter(counter connectionCounter, interval time.Duration, log logger.Logger) *StatsReporter {
	return &StatsReporter{
		cron:     cron.New(cron.WithSeconds()),
		counter:  counter,
		interval: interval,
		log:      log,
	}
}

func (r *StatsReporter) Start() error {
	_, err := r.cron.AddFunc(fmt.Sprintf("@every %s", r.interval), func() {
		r.Report()
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	return nil
}

func (r *StatsReporter) Stop() {
	<-r.cron.Stop().Done()
}

func (r *StatsReporter) Report() int {
	count := r.counter.Count()
	r.log.Info("WebSocket stats", "active_connections", count)
	return count
}
