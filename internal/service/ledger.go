package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"economy/internal/model"
	"economy/internal/repository"
	"economy/pkg/money"
)

// TopCache caches leaderboard pages. Get reports the cache generation it
// read under; Set must store the page under that generation so a page
// computed across an Invalidate is never served.
type TopCache interface {
	Get(ctx context.Context, limit, offset int) (entries []model.TopEntry, gen int64, ok bool, err error)
	Set(ctx context.Context, gen int64, limit, offset int, entries []model.TopEntry) error
	Invalidate(ctx context.Context) error
}

type noopCache struct{}

func (noopCache) Get(context.Context, int, int) ([]model.TopEntry, int64, bool, error) {
	return nil, 0, false, nil
}
func (noopCache) Set(context.Context, int64, int, int, []model.TopEntry) error { return nil }
func (noopCache) Invalidate(context.Context) error                              { return nil }

// Ledger owns accounts, players and the links between them. All methods are
// safe for concurrent use.
type Ledger struct {
	db       *gorm.DB
	accounts *repository.AccountRepository
	players  *repository.PlayerRepository
	links    *repository.LinkRepository
	cache    TopCache
	log      *logrus.Entry
}

type Option func(*Ledger)

// WithCache enables leaderboard caching.
func WithCache(cache TopCache) Option {
	return func(l *Ledger) {
		if cache != nil {
			l.cache = cache
		}
	}
}

func WithLogger(log *logrus.Entry) Option {
	return func(l *Ledger) {
		if log != nil {
			l.log = log
		}
	}
}

func NewLedger(db *gorm.DB, opts ...Option) *Ledger {
	l := &Ledger{
		db:       db,
		accounts: repository.NewAccountRepository(db),
		players:  repository.NewPlayerRepository(db),
		links:    repository.NewLinkRepository(db),
		cache:    noopCache{},
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.WithField("component", "ledger")
	return l
}

// transaction runs fn in one store transaction; any error rolls it back.
// fn must only touch the store through tx.
func (l *Ledger) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return l.db.WithContext(ctx).Transaction(fn)
}

// fail converts err into a taxonomy error. Domain errors pass through; the
// rest is logged with its driver detail and replaced by a *StoreError.
func (l *Ledger) fail(op string, err error, fields logrus.Fields) error {
	if err == nil {
		return nil
	}
	if isMapped(err) {
		return err
	}
	l.log.WithFields(fields).WithError(err).WithField("op", op).Error("store operation failed")
	return &StoreError{Op: op}
}

func isMapped(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrPlayerHasNoAccount) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrPlayerNotFound) ||
		errors.Is(err, ErrStore)
}

// invalidateTop drops cached leaderboard pages after a write. A cache outage
// only costs freshness, so the error is logged and swallowed.
func (l *Ledger) invalidateTop(ctx context.Context) {
	if err := l.cache.Invalidate(ctx); err != nil {
		l.log.WithError(err).Warn("leaderboard cache invalidation failed")
	}
}

func validAmount(amount money.Amount) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
