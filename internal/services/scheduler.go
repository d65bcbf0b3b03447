package services

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// RefreshScheduler re-runs ingestion and extraction on an interval while
// the reporting server is up, so the predictive dataset tracks the source
// without manual runs.
type RefreshScheduler struct {
	cfg       *config.Config
	logger    *logrus.Logger
	cron      *cron.Cron
	refresh   func()
	mu        sync.Mutex
	isRunning bool
}

func NewRefreshScheduler(cfg *config.Config, refresh func(), logger *logrus.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		cfg:     cfg,
		logger:  logger,
		cron:    cron.New(),
		refresh: refresh,
	}
}

// Start begins the scheduled refresh.
func (s *RefreshScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("refresh scheduler is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.cfg.DataRefreshInterval.String())
	if _, err := s.cron.AddFunc(schedule, s.refresh); err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("interval", s.cfg.DataRefreshInterval.String()).Info("Refresh scheduler started")
	return nil
}

// Stop halts the scheduled refresh, waiting for a running job to finish.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Refresh scheduler stopped")
}
