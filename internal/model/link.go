package model

import (
	"time"

	"github.com/google/uuid"

	"economy/pkg/money"
)

// PlayerAccountLink relates a player to an account.
//
// At most one link per player has Main set. The schema enforces this with a
// unique index scoped to main rows (see database.Migrate).
type PlayerAccountLink struct {
	PlayerID  string    `gorm:"primaryKey;type:varchar(36)" json:"player_id"`
	AccountID AccountID `gorm:"primaryKey;index" json:"account_id"`
	Main      bool      `gorm:"not null;default:false" json:"main"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Account *Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PlayerAccountLink) TableName() string {
	return "player_account_links"
}

// TopEntry is one row of the balance leaderboard.
type TopEntry struct {
	PlayerID    uuid.UUID    `json:"player_id"`
	DisplayName string       `json:"display_name"`
	Balance     money.Amount `json:"balance"`
}
