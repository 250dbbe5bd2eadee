package model

import (
	"time"

	"economy/pkg/money"
)

// AccountID is the store-assigned identity of an account.
type AccountID = int64

// Account is a balance-holding ledger entity.
// Balance is never negative; every write path enforces it.
type Account struct {
	ID        AccountID    `gorm:"primaryKey;autoIncrement" json:"id"`
	Balance   money.Amount `gorm:"not null;default:0" json:"balance"` // minor units
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}
