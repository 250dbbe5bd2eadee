package repository

import (
	"context"

	"economy/internal/model"

	"gorm.io/gorm"
)

type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Create(ctx context.Context, tx *gorm.DB, link *model.PlayerAccountLink) error {
	return classify(orRoot(r.db, tx).WithContext(ctx).Omit("Account").Create(link).Error)
}

func (r *LinkRepository) Delete(ctx context.Context, tx *gorm.DB, playerID string, accountID model.AccountID) error {
	result := orRoot(r.db, tx).WithContext(ctx).
		Where("player_id = ? AND account_id = ?", playerID, accountID).
		Delete(&model.PlayerAccountLink{})
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNoRows
	}
	return nil
}

func (r *LinkRepository) DeleteByAccount(ctx context.Context, tx *gorm.DB, accountID model.AccountID) error {
	err := orRoot(r.db, tx).WithContext(ctx).
		Where("account_id = ?", accountID).
		Delete(&model.PlayerAccountLink{}).Error
	return classify(err)
}

func (r *LinkRepository) CountByAccount(ctx context.Context, tx *gorm.DB, accountID model.AccountID) (int64, error) {
	var count int64
	err := orRoot(r.db, tx).WithContext(ctx).
		Model(&model.PlayerAccountLink{}).
		Where("account_id = ?", accountID).
		Count(&count).Error
	return count, classify(err)
}

func (r *LinkRepository) Exists(ctx context.Context, tx *gorm.DB, playerID string, accountID model.AccountID) (bool, error) {
	var count int64
	err := orRoot(r.db, tx).WithContext(ctx).
		Model(&model.PlayerAccountLink{}).
		Where("player_id = ? AND account_id = ?", playerID, accountID).
		Count(&count).Error
	return count > 0, classify(err)
}

func (r *LinkRepository) HasMain(ctx context.Context, tx *gorm.DB, playerID string) (bool, error) {
	var count int64
	err := orRoot(r.db, tx).WithContext(ctx).
		Model(&model.PlayerAccountLink{}).
		Where("player_id = ? AND main = ?", playerID, true).
		Count(&count).Error
	return count > 0, classify(err)
}

func (r *LinkRepository) GetMain(ctx context.Context, tx *gorm.DB, playerID string) (model.AccountID, error) {
	var link model.PlayerAccountLink
	err := orRoot(r.db, tx).WithContext(ctx).
		Where("player_id = ? AND main = ?", playerID, true).
		First(&link).Error
	if err != nil {
		return 0, classify(err)
	}
	return link.AccountID, nil
}

func (r *LinkRepository) ListPlayers(ctx context.Context, tx *gorm.DB, accountID model.AccountID) ([]string, error) {
	var ids []string
	err := orRoot(r.db, tx).WithContext(ctx).
		Model(&model.PlayerAccountLink{}).
		Where("account_id = ?", accountID).
		Order("player_id ASC").
		Pluck("player_id", &ids).Error
	return ids, classify(err)
}

func (r *LinkRepository) ListAccounts(ctx context.Context, tx *gorm.DB, playerID string) ([]model.AccountID, error) {
	var ids []model.AccountID
	err := orRoot(r.db, tx).WithContext(ctx).
		Model(&model.PlayerAccountLink{}).
		Where("player_id = ?", playerID).
		Order("account_id ASC").
		Pluck("account_id", &ids).Error
	return ids, classify(err)
}

// TopRow is the raw leaderboard projection.
type TopRow struct {
	PlayerID    string
	DisplayName string
	Balance     int64
}

// Top joins main links with accounts and players, richest first. Ties are
// broken by name then player id so pages are stable.
func (r *LinkRepository) Top(ctx context.Context, tx *gorm.DB, limit, offset int) ([]TopRow, error) {
	var rows []TopRow
	err := orRoot(r.db, tx).WithContext(ctx).
		Table("player_account_links AS l").
		Select("l.player_id AS player_id, p.display_name AS display_name, a.balance AS balance").
		Joins("JOIN accounts AS a ON a.id = l.account_id").
		Joins("JOIN players AS p ON p.player_id = l.player_id").
		Where("l.main = ?", true).
		Order("a.balance DESC, p.display_name ASC, l.player_id ASC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, classify(err)
}
