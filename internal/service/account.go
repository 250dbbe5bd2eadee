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

// CreateAccount inserts an account with a zero balance.
func (l *Ledger) CreateAccount(ctx context.Context) (model.AccountID, error) {
	account := &model.Account{}
	if err := l.accounts.Create(ctx, nil, account); err != nil {
		return 0, l.fail("create account", err, nil)
	}
	if account.ID == 0 {
		l.log.Error("store returned no id for new account")
		return 0, &StoreError{Op: "create account"}
	}
	l.log.WithField("account_id", account.ID).Debug("account created")
	return account.ID, nil
}

// DeleteAccount removes the account and every link to it.
func (l *Ledger) DeleteAccount(ctx context.Context, id model.AccountID) error {
	err := l.transaction(ctx, func(tx *gorm.DB) error {
		if err := l.links.DeleteByAccount(ctx, tx, id); err != nil {
			return err
		}
		return l.accounts.Delete(ctx, tx, id)
	})
	if errors.Is(err, repository.ErrNoRows) {
		return ErrAccountNotFound
	}
	if err != nil {
		return l.fail("delete account", err, logrus.Fields{"account_id": id})
	}
	l.log.WithField("account_id", id).Info("account deleted")
	l.invalidateTop(ctx)
	return nil
}

// AccountExists reports whether id names a live account.
func (l *Ledger) AccountExists(ctx context.Context, id model.AccountID) (bool, error) {
	ok, err := l.accounts.Exists(ctx, nil, id)
	if err != nil {
		return false, l.fail("account exists", err, logrus.Fields{"account_id": id})
	}
	return ok, nil
}

func (l *Ledger) GetBalance(ctx context.Context, id model.AccountID) (money.Amount, error) {
	account, err := l.accounts.GetByID(ctx, nil, id)
	if errors.Is(err, repository.ErrNoRows) {
		return 0, ErrAccountNotFound
	}
	if err != nil {
		return 0, l.fail("get balance", err, logrus.Fields{"account_id": id})
	}
	return account.Balance, nil
}

// SetBalance overwrites the balance. It is an administrative override and can
// lower funds without the sufficiency check of RemoveBalance, so every call is
// logged with the previous value.
func (l *Ledger) SetBalance(ctx context.Context, id model.AccountID, amount money.Amount) error {
	if err := validAmount(amount); err != nil {
		return err
	}

	var previous money.Amount
	err := l.transaction(ctx, func(tx *gorm.DB) error {
		account, err := l.accounts.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		previous = account.Balance
		return l.accounts.SetBalance(ctx, tx, id, amount)
	})
	if errors.Is(err, repository.ErrNoRows) {
		return ErrAccountNotFound
	}
	if err != nil {
		return l.fail("set balance", err, logrus.Fields{"account_id": id})
	}

	l.log.WithFields(logrus.Fields{
		"account_id": id,
		"previous":   previous.String(),
		"balance":    amount.String(),
	}).Warn("balance overridden")
	l.invalidateTop(ctx)
	return nil
}

func (l *Ledger) AddBalance(ctx context.Context, id model.AccountID, amount money.Amount) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	err := l.accounts.Increase(ctx, nil, id, amount)
	if errors.Is(err, repository.ErrNoRows) {
		return ErrAccountNotFound
	}
	if errors.Is(err, repository.ErrConditionFailed) {
		return ErrBalanceOverflow
	}
	if err != nil {
		return l.fail("add balance", err, logrus.Fields{"account_id": id})
	}
	l.invalidateTop(ctx)
	return nil
}

// RemoveBalance decrements the balance only if it covers amount, in a single
// conditional update. A missing account is reported as ErrInsufficientBalance
// too; use AccountExists first when the difference matters.
func (l *Ledger) RemoveBalance(ctx context.Context, id model.AccountID, amount money.Amount) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	err := l.accounts.DeductIfSufficient(ctx, nil, id, amount)
	if errors.Is(err, repository.ErrConditionFailed) {
		return ErrInsufficientBalance
	}
	if err != nil {
		return l.fail("remove balance", err, logrus.Fields{"account_id": id})
	}
	l.invalidateTop(ctx)
	return nil
}
