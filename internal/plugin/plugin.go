package plugin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"economy/internal/command"
	"economy/internal/config"
	"economy/internal/handler"
	"economy/internal/infrastructure/cache"
	"economy/internal/infrastructure/database"
	"economy/internal/job"
	"economy/internal/listener"
	"economy/internal/service"
	"economy/pkg/idgen"
)

// Plugin owns everything the economy needs for one server run. It is built
// by New and torn down by Close; nothing in it is global.
type Plugin struct {
	Ledger   *service.Ledger
	Commands *command.Dispatcher
	Listener *listener.JoinListener
	Router   *gin.Engine

	db     *gorm.DB
	rdb    *redis.Client
	warmer *job.LeaderboardWarmer
	log    *logrus.Entry

	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

type Option func(*options)

type options struct {
	playerNames func() []string
}

// WithPlayerNames gives command completion the host's online player names.
func WithPlayerNames(fn func() []string) Option {
	return func(o *options) { o.playerNames = fn }
}

// New opens the store, migrates it and wires ledger, commands, join listener,
// admin router and the leaderboard warmer.
func New(ctx context.Context, cfg *config.Config, log *logrus.Entry, opts ...Option) (*Plugin, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	db, err := database.Open(&cfg.Database, log.WithField("component", "store"))
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	p := &Plugin{db: db, log: log}

	ledgerOpts := []service.Option{service.WithLogger(log)}
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedis(ctx, &cfg.Redis)
		if err != nil {
			_ = database.Close(db)
			return nil, err
		}
		p.rdb = rdb
		ledgerOpts = append(ledgerOpts, service.WithCache(cache.NewLeaderboard(rdb, cfg.Leaderboard.CacheTTL)))
	}
	p.Ledger = service.NewLedger(db, ledgerOpts...)

	cmdOpts := []command.Option{
		command.WithPageSize(cfg.Leaderboard.PageSize),
		command.WithLogger(log),
	}
	if o.playerNames != nil {
		cmdOpts = append(cmdOpts, command.WithPlayerNames(o.playerNames))
	}
	p.Commands = command.NewDispatcher(p.Ledger, cmdOpts...)
	p.Listener = listener.NewJoinListener(p.Ledger, log)

	if cfg.Server.Enabled {
		gen, err := idgen.New(1)
		if err != nil {
			_ = p.Close()
			return nil, err
		}
		p.Router = handler.SetupRouter(p.Ledger, gen, log)
	}

	if p.rdb != nil && cfg.Leaderboard.WarmupInterval > 0 {
		p.warmer = job.NewLeaderboardWarmer(p.Ledger, cfg.Leaderboard.PageSize, cfg.Leaderboard.WarmupInterval, log)
	}

	log.WithFields(logrus.Fields{
		"driver": cfg.Database.Driver,
		"cache":  cfg.Redis.Enabled,
		"http":   cfg.Server.Enabled,
	}).Info("economy plugin ready")
	return p, nil
}

// Start launches background jobs. They stop on ctx cancellation or Close.
func (p *Plugin) Start(ctx context.Context) {
	if p.warmer == nil {
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.warmer.Start(ctx)
	}()
}

// Close stops jobs and releases the cache and the store, in that order.
func (p *Plugin) Close() error {
	p.closeOnce.Do(func() {
		if p.warmer != nil {
			p.warmer.Stop()
		}
		p.wg.Wait()

		var errs []error
		if p.rdb != nil {
			if err := p.rdb.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close redis: %w", err))
			}
		}
		if err := database.Close(p.db); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
		p.closeErr = errors.Join(errs...)
		p.log.Info("economy plugin closed")
	})
	return p.closeErr
}
