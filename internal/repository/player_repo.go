package repository

import (
	"context"
	"strings"

	"economy/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlayerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Upsert inserts the player or refreshes its cached display name.
func (r *PlayerRepository) Upsert(ctx context.Context, tx *gorm.DB, player *model.Player) error {
	err := orRoot(r.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "updated_at"}),
		}).
		Create(player).Error
	return classify(err)
}

func (r *PlayerRepository) GetByID(ctx context.Context, tx *gorm.DB, playerID string) (*model.Player, error) {
	var player model.Player
	err := orRoot(r.db, tx).WithContext(ctx).Where("player_id = ?", playerID).First(&player).Error
	if err != nil {
		return nil, classify(err)
	}
	return &player, nil
}

// FindByName matches the cached display name case-insensitively. When several
// players once shared a name, the most recently seen one wins.
func (r *PlayerRepository) FindByName(ctx context.Context, tx *gorm.DB, name string) (*model.Player, error) {
	var player model.Player
	err := orRoot(r.db, tx).WithContext(ctx).
		Where("LOWER(display_name) = ?", strings.ToLower(name)).
		Order("updated_at DESC").
		First(&player).Error
	if err != nil {
		return nil, classify(err)
	}
	return &player, nil
}
