package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"economy/internal/model"
	"economy/pkg/money"
)

// GetTopAccounts returns main-account balances, richest first. A page past
// the end, or a non-positive limit, is an empty list.
func (l *Ledger) GetTopAccounts(ctx context.Context, limit, offset int) ([]model.TopEntry, error) {
	if limit <= 0 {
		return []model.TopEntry{}, nil
	}
	if offset < 0 {
		offset = 0
	}

	fields := logrus.Fields{"limit": limit, "offset": offset}
	cached, gen, ok, cacheErr := l.cache.Get(ctx, limit, offset)
	if cacheErr != nil {
		l.log.WithFields(fields).WithError(cacheErr).Warn("leaderboard cache read failed")
	} else if ok {
		return cached, nil
	}

	rows, err := l.links.Top(ctx, nil, limit, offset)
	if err != nil {
		return nil, l.fail("top accounts", err, fields)
	}

	entries := make([]model.TopEntry, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.PlayerID)
		if err != nil {
			return nil, l.fail("top accounts", err, fields)
		}
		entries = append(entries, model.TopEntry{
			PlayerID:    id,
			DisplayName: row.DisplayName,
			Balance:     money.Amount(row.Balance),
		})
	}

	if cacheErr != nil {
		// no generation was read, so there is nothing safe to write under
		return entries, nil
	}
	if err := l.cache.Set(ctx, gen, limit, offset, entries); err != nil {
		l.log.WithFields(fields).WithError(err).Warn("leaderboard cache write failed")
	}
	return entries, nil
}
