package app

import (
	"audit_survey_backend/internal/config"
	"audit_survey_backend/pkg/configwatcher"
	"audit_survey_backend/pkg/logger"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const limiterSweepSpec = "@every 5m"

// startBackgroundTasks 定时关闭过期问卷、清理作答会话与限流记录，并监听配置文件
func (a *App) startBackgroundTasks(ctx context.Context) error {
	s := a.services
	cfg := a.Config

	c := cron.New()
	if _, err := c.AddFunc(cfg.Survey.AutoCloseCron, func() {
		jobCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		n, err := s.surveys.CloseExpired(jobCtx)
		if err != nil {
			logger.Log.Error("Auto close job failed", zap.Error(err))
			return
		}
		if n > 0 {
			logger.Log.Info("Closed expired surveys", zap.Int("count", n))
		}
	}); err != nil {
		return fmt.Errorf("auto close cron %q: %w", cfg.Survey.AutoCloseCron, err)
	}

	if _, err := c.AddFunc(cfg.Survey.SessionSweepCron, func() {
		if n := s.sessions.Sweep(); n > 0 {
			logger.Log.Debug("Expired take sessions removed", zap.Int("count", n))
		}
	}); err != nil {
		return fmt.Errorf("session sweep cron %q: %w", cfg.Survey.SessionSweepCron, err)
	}

	if _, err := c.AddFunc(limiterSweepSpec, func() {
		a.limiter.Sweep(time.Now())
	}); err != nil {
		return err
	}

	c.Start()
	a.cron = c
	logger.Log.Info("Background jobs started",
		zap.String("autoClose", cfg.Survey.AutoCloseCron),
		zap.String("sessionSweep", cfg.Survey.SessionSweepCron),
	)

	if cfg.ConfigDir != "" {
		file := filepath.Join(cfg.ConfigDir, "config.yaml")
		go func() {
			if err := configwatcher.WatchConfig(ctx, file, a.applyConfig); err != nil {
				logger.Log.Warn("Config watcher stopped", zap.Error(err))
			}
		}()
	}
	return nil
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}
