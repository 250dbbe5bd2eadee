package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"economy/internal/model"
	"economy/internal/repository"
	"economy/pkg/money"
)

// Transfer moves amount from one account to another. Debit and credit commit
// together or not at all: a failed credit rolls the debit back.
func (l *Ledger) Transfer(ctx context.Context, from, to model.AccountID, amount money.Amount) error {
	if err := validAmount(amount); err != nil {
		return err
	}

	fields := logrus.Fields{"from": from, "to": to, "amount": amount.String()}
	err := l.transaction(ctx, func(tx *gorm.DB) error {
		if err := l.accounts.DeductIfSufficient(ctx, tx, from, amount); err != nil {
			if errors.Is(err, repository.ErrConditionFailed) {
				return ErrInsufficientBalance
			}
			return err
		}
		if err := l.accounts.Increase(ctx, tx, to, amount); err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return ErrAccountNotFound
			}
			if errors.Is(err, repository.ErrConditionFailed) {
				return ErrBalanceOverflow
			}
			return err
		}
		return nil
	})
	if err != nil {
		l.log.WithFields(fields).WithField("error", err.Error()).Debug("transfer rejected")
		return l.fail("transfer", err, fields)
	}

	l.log.WithFields(fields).Info("transfer committed")
	l.invalidateTop(ctx)
	return nil
}

// TransferByPlayer transfers between the main accounts of two players. Both
// players are resolved before failing, so one *PlayerResolutionError names
// every player without a main account.
func (l *Ledger) TransferByPlayer(ctx context.Context, from, to uuid.UUID, amount money.Amount) error {
	if err := validAmount(amount); err != nil {
		return err
	}

	var missing []uuid.UUID
	resolve := func(player uuid.UUID) (model.AccountID, error) {
		id, err := l.GetMainAccount(ctx, player)
		if errors.Is(err, ErrPlayerHasNoAccount) {
			missing = append(missing, player)
			return 0, nil
		}
		return id, err
	}

	fromAccount, err := resolve(from)
	if err != nil {
		return err
	}
	toAccount, err := resolve(to)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &PlayerResolutionError{Players: missing}
	}
	return l.Transfer(ctx, fromAccount, toAccount, amount)
}
