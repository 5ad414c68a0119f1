package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"user-notification-system/internal/domain"
	"user-notification-system/pkg/logger"

	"github.com/robfig/cron/v3"
)

const (
	healthUnknown int32 = iota
	healthUp
	healthDown
)

// NotifierHealthMonitor periodically probes the notification service and
// logs availability changes. It never affects request handling.
type NotifierHealthMonitor struct {
	cron     *cron.Cron
	notifier domain.UserNotifier
	interval time.Duration
	timeout  time.Duration
	state    atomic.Int32
	log      logger.Logger
}

func NewNotifierHealthMonitor(notifier domain.UserNotifier, interval, timeout time.Duration,
	log logger.Logger) *NotifierHealthMonitor {
	return &NotifierHealthMonitor{
		cron:     cron.New(cron.WithSeconds()),
		notifier: notifier,
		interval: interval,
		timeout:  timeout,
		log:      log,
	}
}

func (m *NotifierHealthMonitor) Start(ctx context.Context) error {
	m.log.Info("Starting notifier health monitor", "interval", m.interval.String())

	_, err := m.cron.AddFunc(fmt.Sprintf("@every %s", m.interval), func() {
		m.Check(ctx)
	})
	if err != nil {
		return err
	}

	go m.Check(ctx)
	m.cron.Start()
	return nil
}

func (m *NotifierHealthMonitor) Stop() {
	m.log.Info("Stopping notifier health monitor")
	<-m.cron.Stop().Done()
}

// Check probes the notifier once and records the result.
func (m *NotifierHealthMonitor) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	ok := m.notifier.CheckHealth(ctx)
	next := healthDown
	if ok {
		next = healthUp
	}

	// The first result always differs from healthUnknown, so startup state is logged.
	if previous := m.state.Swap(next); previous != next {
		if ok {
			m.log.Info("Notification service is reachable")
		} else {
			m.log.Warn("Notification service is unreachable; user events will be dropped")
		}
	}
	return ok
}

func (m *NotifierHealthMonitor) Healthy() bool {
	return m.state.Load() == healthUp
}
