package job

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"economy/internal/model"
)

// TopReader is what the warmer reads through. With a cache configured on the
// ledger, each read refills the first leaderboard page.
type TopReader interface {
	GetTopAccounts(ctx context.Context, limit, offset int) ([]model.TopEntry, error)
}

// LeaderboardWarmer keeps the first balancetop page hot so the command does
// not hit the store after every balance change.
type LeaderboardWarmer struct {
	reader   TopReader
	pageSize int
	interval time.Duration
	log      *logrus.Entry
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewLeaderboardWarmer(reader TopReader, pageSize int, interval time.Duration, log *logrus.Entry) *LeaderboardWarmer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &LeaderboardWarmer{
		reader:   reader,
		pageSize: pageSize,
		interval: interval,
		log:      log.WithField("job", "leaderboard_warmer"),
		stopCh:   make(chan struct{}),
	}
}

// Start blocks until ctx is done or Stop is called.
func (j *LeaderboardWarmer) Start(ctx context.Context) {
	j.log.WithField("interval", j.interval).Info("started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.warm(ctx)
	for {
		select {
		case <-ctx.Done():
			j.log.Info("context done, exiting")
			return
		case <-j.stopCh:
			j.log.Info("stopped")
			return
		case <-ticker.C:
			j.warm(ctx)
		}
	}
}

// Stop is safe to call more than once.
func (j *LeaderboardWarmer) Stop() {
	j.stopOnce.Do(func() { close(j.stopCh) })
}

func (j *LeaderboardWarmer) warm(ctx context.Context) {
	entries, err := j.reader.GetTopAccounts(ctx, j.pageSize, 0)
	if err != nil {
		j.log.WithError(err).Warn("warm leaderboard failed")
		return
	}
	j.log.WithField("entries", len(entries)).Debug("leaderboard warmed")
}
