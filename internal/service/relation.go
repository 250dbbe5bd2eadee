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

// Player is a resolved player identity.
type Player struct {
	ID   uuid.UUID
	Name string
}

// AddPlayer records the player or refreshes its cached display name.
func (l *Ledger) AddPlayer(ctx context.Context, playerID uuid.UUID, displayName string) error {
	err := l.players.Upsert(ctx, nil, &model.Player{
		PlayerID:    playerID.String(),
		DisplayName: displayName,
	})
	if err != nil {
		return l.fail("add player", err, logrus.Fields{"player_id": playerID})
	}
	l.invalidateTop(ctx)
	return nil
}

// LookupPlayer resolves a display name to a known player.
func (l *Ledger) LookupPlayer(ctx context.Context, name string) (Player, error) {
	p, err := l.players.FindByName(ctx, nil, name)
	if errors.Is(err, repository.ErrNoRows) {
		return Player{}, ErrPlayerNotFound
	}
	if err != nil {
		return Player{}, l.fail("lookup player", err, logrus.Fields{"name": name})
	}
	id, err := uuid.Parse(p.PlayerID)
	if err != nil {
		return Player{}, l.fail("lookup player", err, logrus.Fields{"name": name})
	}
	return Player{ID: id, Name: p.DisplayName}, nil
}

// CreatePlayerAccountRelation links playerID to accountID. Requesting a
// second main link fails with a *StoreError whose reason is
// ErrMainAccountExists.
func (l *Ledger) CreatePlayerAccountRelation(ctx context.Context, playerID uuid.UUID, accountID model.AccountID, isMain bool) error {
	err := l.transaction(ctx, func(tx *gorm.DB) error {
		return l.createRelation(ctx, tx, playerID, accountID, isMain)
	})
	if err != nil {
		return l.fail("create relation", err, logrus.Fields{"player_id": playerID, "account_id": accountID})
	}
	if isMain {
		l.invalidateTop(ctx)
	}
	return nil
}

func (l *Ledger) createRelation(ctx context.Context, tx *gorm.DB, playerID uuid.UUID, accountID model.AccountID, isMain bool) error {
	const op = "create relation"

	// Locking the account keeps a concurrent cascade delete from removing
	// it between this check and the insert.
	if _, err := l.accounts.GetByIDForUpdate(ctx, tx, accountID); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return ErrAccountNotFound
		}
		return err
	}

	pid := playerID.String()
	linked, err := l.links.Exists(ctx, tx, pid, accountID)
	if err != nil {
		return err
	}
	if linked {
		return &StoreError{Op: op, Reason: ErrLinkExists}
	}
	if isMain {
		hasMain, err := l.links.HasMain(ctx, tx, pid)
		if err != nil {
			return err
		}
		if hasMain {
			return &StoreError{Op: op, Reason: ErrMainAccountExists}
		}
	}

	err = l.links.Create(ctx, tx, &model.PlayerAccountLink{
		PlayerID:  pid,
		AccountID: accountID,
		Main:      isMain,
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrForeignKey):
		return ErrAccountNotFound
	case errors.Is(err, repository.ErrDuplicate) && isMain:
		return &StoreError{Op: op, Reason: ErrMainAccountExists}
	case errors.Is(err, repository.ErrDuplicate):
		return &StoreError{Op: op, Reason: ErrLinkExists}
	default:
		return err
	}
}

// CreateAccountFor creates an account and links it to playerID in one
// transaction, so a failed link leaves no orphan account behind.
func (l *Ledger) CreateAccountFor(ctx context.Context, playerID uuid.UUID, isMain bool) (model.AccountID, error) {
	var id model.AccountID
	err := l.transaction(ctx, func(tx *gorm.DB) error {
		account := &model.Account{}
		if err := l.accounts.Create(ctx, tx, account); err != nil {
			return err
		}
		if account.ID == 0 {
			return errors.New("store returned no id for new account")
		}
		id = account.ID
		return l.createRelation(ctx, tx, playerID, id, isMain)
	})
	if err != nil {
		return 0, l.fail("create account for player", err, logrus.Fields{"player_id": playerID})
	}

	l.log.WithFields(logrus.Fields{
		"player_id":  playerID,
		"account_id": id,
		"main":       isMain,
	}).Info("account created for player")
	if isMain {
		l.invalidateTop(ctx)
	}
	return id, nil
}

// DeletePlayerAccountRelation unlinks playerID from accountID. When that was
// the account's last link the account is deleted in the same transaction.
func (l *Ledger) DeletePlayerAccountRelation(ctx context.Context, playerID uuid.UUID, accountID model.AccountID) error {
	cascaded := false
	err := l.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := l.accounts.GetByIDForUpdate(ctx, tx, accountID); err != nil {
			return err
		}
		if err := l.links.Delete(ctx, tx, playerID.String(), accountID); err != nil {
			return err
		}
		remaining, err := l.links.CountByAccount(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}
		cascaded = true
		return l.accounts.Delete(ctx, tx, accountID)
	})
	if errors.Is(err, repository.ErrNoRows) {
		return ErrAccountNotFound
	}
	if err != nil {
		return l.fail("delete relation", err, logrus.Fields{"player_id": playerID, "account_id": accountID})
	}

	fields := logrus.Fields{"player_id": playerID, "account_id": accountID}
	if cascaded {
		l.log.WithFields(fields).Info("last link removed, account deleted")
	} else {
		l.log.WithFields(fields).Debug("link removed")
	}
	l.invalidateTop(ctx)
	return nil
}

// GetPlayers lists the players linked to accountID. An unknown account
// yields an empty list, not an error.
func (l *Ledger) GetPlayers(ctx context.Context, accountID model.AccountID) ([]uuid.UUID, error) {
	raw, err := l.links.ListPlayers(ctx, nil, accountID)
	if err != nil {
		return nil, l.fail("get players", err, logrus.Fields{"account_id": accountID})
	}
	players := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, l.fail("get players", err, logrus.Fields{"account_id": accountID, "player_id": s})
		}
		players = append(players, id)
	}
	return players, nil
}

// GetAccounts lists the accounts linked to playerID. An unknown player
// yields an empty list, not an error.
func (l *Ledger) GetAccounts(ctx context.Context, playerID uuid.UUID) ([]model.AccountID, error) {
	ids, err := l.links.ListAccounts(ctx, nil, playerID.String())
	if err != nil {
		return nil, l.fail("get accounts", err, logrus.Fields{"player_id": playerID})
	}
	if ids == nil {
		ids = []model.AccountID{}
	}
	return ids, nil
}

func (l *Ledger) GetMainAccount(ctx context.Context, playerID uuid.UUID) (model.AccountID, error) {
	id, err := l.links.GetMain(ctx, nil, playerID.String())
	if errors.Is(err, repository.ErrNoRows) {
		return 0, ErrPlayerHasNoAccount
	}
	if err != nil {
		return 0, l.fail("get main account", err, logrus.Fields{"player_id": playerID})
	}
	return id, nil
}

func (l *Ledger) HasAccount(ctx context.Context, playerID uuid.UUID, accountID model.AccountID) (bool, error) {
	ok, err := l.links.Exists(ctx, nil, playerID.String(), accountID)
	if err != nil {
		return false, l.fail("has account", err, logrus.Fields{"player_id": playerID, "account_id": accountID})
	}
	return ok, nil
}

func (l *Ledger) HasMainAccount(ctx context.Context, playerID uuid.UUID) (bool, error) {
	ok, err := l.links.HasMain(ctx, nil, playerID.String())
	if err != nil {
		return false, l.fail("has main account", err, logrus.Fields{"player_id": playerID})
	}
	return ok, nil
}

// ============================================================================
// Main-account conveniences
// ============================================================================

func (l *Ledger) GetPlayerBalance(ctx context.Context, playerID uuid.UUID) (money.Amount, error) {
	id, err := l.GetMainAccount(ctx, playerID)
	if err != nil {
		return 0, err
	}
	return l.GetBalance(ctx, id)
}

func (l *Ledger) SetPlayerBalance(ctx context.Context, playerID uuid.UUID, amount money.Amount) error {
	return l.onMain(ctx, playerID, amount, l.SetBalance)
}

func (l *Ledger) AddPlayerBalance(ctx context.Context, playerID uuid.UUID, amount money.Amount) error {
	return l.onMain(ctx, playerID, amount, l.AddBalance)
}

func (l *Ledger) RemovePlayerBalance(ctx context.Context, playerID uuid.UUID, amount money.Amount) error {
	return l.onMain(ctx, playerID, amount, l.RemoveBalance)
}

func (l *Ledger) onMain(ctx context.Context, playerID uuid.UUID, amount money.Amount,
	op func(context.Context, model.AccountID, money.Amount) error) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	id, err := l.GetMainAccount(ctx, playerID)
	if err != nil {
		return err
	}
	return op(ctx, id, amount)
}
