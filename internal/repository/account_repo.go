package repository

import (
	"context"
	"math"

	"economy/internal/model"
	"economy/pkg/money"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, tx *gorm.DB, account *model.Account) error {
	return classify(orRoot(r.db, tx).WithContext(ctx).Create(account).Error)
}

func (r *AccountRepository) Delete(ctx context.Context, tx *gorm.DB, id model.AccountID) error {
	result := orRoot(r.db, tx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Account{})
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNoRows
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, tx *gorm.DB, id model.AccountID) (*model.Account, error) {
	var account model.Account
	err := orRoot(r.db, tx).WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, classify(err)
	}
	return &account, nil
}

// GetByIDForUpdate locks the row until tx ends. SQLite has no row locks;
// its single writer already serializes the transaction.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id model.AccountID) (*model.Account, error) {
	var account model.Account
	q := tx.WithContext(ctx)
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, classify(err)
	}
	return &account, nil
}

func (r *AccountRepository) Exists(ctx context.Context, tx *gorm.DB, id model.AccountID) (bool, error) {
	var count int64
	err := orRoot(r.db, tx).WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, classify(err)
	}
	return count > 0, nil
}

func (r *AccountRepository) SetBalance(ctx context.Context, tx *gorm.DB, id model.AccountID, balance money.Amount) error {
	result := orRoot(r.db, tx).WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Update("balance", balance)
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNoRows
	}
	return nil
}

// Increase adds amount unless the result would overflow int64. Zero rows
// yields ErrNoRows for a missing account and ErrConditionFailed for an
// overflow.
func (r *AccountRepository) Increase(ctx context.Context, tx *gorm.DB, id model.AccountID, amount money.Amount) error {
	db := orRoot(r.db, tx)
	result := db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND balance <= ?", id, math.MaxInt64-int64(amount)).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	exists, err := r.Exists(ctx, db, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNoRows
	}
	return ErrConditionFailed
}

// DeductIfSufficient subtracts amount in one conditional statement. Zero rows
// means either the account is missing or its balance is too low; the two are
// not told apart.
func (r *AccountRepository) DeductIfSufficient(ctx context.Context, tx *gorm.DB, id model.AccountID, amount money.Amount) error {
	result := orRoot(r.db, tx).WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND balance >= ?", id, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrConditionFailed
	}
	return nil
}
