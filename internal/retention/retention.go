// Package retention prunes old persisted session files on a cron schedule.
// Disabled by default; the live session is never touched.
package retention

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adhocore/gronx"

	"chatterbox/pkg/config"
	"chatterbox/pkg/history"
	"chatterbox/pkg/logger"
)

// Start starts the retention scheduler if enabled. Returns a cancel func.
func Start(ctx context.Context, cfg config.RetentionConfig, chatDir string) (context.CancelFunc, error) {
	if !cfg.Enabled {
		logger.Info("retention_disabled")
		return func() {}, nil
	}
	if cfg.MaxAge.Duration() <= 0 {
		return nil, fmt.Errorf("retention enabled but max_age is not set")
	}

	cronExpr := cfg.Cron
	if cronExpr == "" {
		cronExpr = "0 2 * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("retention_invalid_cron", "cron", cfg.Cron)
		return nil, fmt.Errorf("invalid retention cron expression: %s", cfg.Cron)
	}

	logger.Info("retention_enabled", "cron", cronExpr, "max_age", cfg.MaxAge.Duration().String(), "dir", chatDir)
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, cronExpr, chatDir, cfg.MaxAge.Duration())
	return cancel, nil
}

// runScheduler computes the next cron tick with gronx and sleeps until then.
func runScheduler(ctx context.Context, cronExpr, chatDir string, maxAge time.Duration) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("retention_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("retention_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			if n, err := RunOnce(chatDir, maxAge); err != nil {
				logger.Error("retention_run_error", "error", err)
			} else if n > 0 {
				logger.Info("retention_pruned", "files", n)
			}
		case <-ctx.Done():
			logger.Info("retention_scheduler_stopping")
			return
		}
	}
}

// RunOnce deletes persisted session files older than maxAge and returns how
// many were removed. Only files matching the session-file pattern are
// considered.
func RunOnce(chatDir string, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(chatDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !history.SessionFilePattern.MatchString(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(chatDir, e.Name())
		if err := os.Remove(path); err != nil {
			logger.Warn("retention_remove_failed", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
