package jobs

import (
	"context"
	"time"

	"orgdrive/services"
	"orgdrive/utils"

	"github.com/sirupsen/logrus"
)

// Purger permanently removes files marked for deletion.
type Purger interface {
	PurgeAll(ctx context.Context) (*services.PurgeReport, error)
}

type TrashCleaner struct {
	purger   Purger
	interval time.Duration
	timeout  time.Duration
	logger   *logrus.Entry
}

func NewTrashCleaner(purger Purger, interval time.Duration) *TrashCleaner {
	return &TrashCleaner{
		purger:   purger,
		interval: interval,
		timeout:  30 * time.Minute,
		logger:   utils.Component("trash_cleaner"),
	}
}

// Start runs a purge immediately and then every interval until ctx is
// cancelled.
func (tc *TrashCleaner) Start(ctx context.Context) {
	tc.logger.WithField("interval", tc.interval.String()).Info("starting trash cleaner job")

	tc.RunOnce(ctx)

	ticker := time.NewTicker(tc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			tc.logger.Info("trash cleaner stopped")
			return
		case <-ticker.C:
			tc.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep bounded by the cleaner's timeout.
func (tc *TrashCleaner) RunOnce(ctx context.Context) *services.PurgeReport {
	ctx, cancel := context.WithTimeout(ctx, tc.timeout)
	defer cancel()

	report, err := tc.purger.PurgeAll(ctx)
	if err != nil {
		tc.logger.WithError(err).Error("trash cleanup failed")
		return nil
	}
	return report
}
