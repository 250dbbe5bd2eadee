package model

import (
	"time"
)

// Player caches the display name for an external player identity.
// It exists once the player has been observed, accounts or not.
type Player struct {
	PlayerID    string    `gorm:"primaryKey;type:varchar(36)" json:"player_id"`
	DisplayName string    `gorm:"type:varchar(64);index;not null" json:"display_name"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Player) TableName() string {
	return "players"
}
