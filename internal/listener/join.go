package listener

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"economy/internal/model"
	"economy/internal/service"
)

// Ledger is what the join listener needs from *service.Ledger.
type Ledger interface {
	AddPlayer(ctx context.Context, playerID uuid.UUID, displayName string) error
	GetMainAccount(ctx context.Context, playerID uuid.UUID) (model.AccountID, error)
	CreateAccountFor(ctx context.Context, playerID uuid.UUID, isMain bool) (model.AccountID, error)
}

// JoinListener registers players as they connect and opens a main account
// on their first join.
type JoinListener struct {
	ledger Ledger
	log    *logrus.Entry
}

func NewJoinListener(ledger Ledger, log *logrus.Entry) *JoinListener {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &JoinListener{ledger: ledger, log: log.WithField("component", "join_listener")}
}

// OnPlayerJoin is called by the host for every connecting player. The host
// logs a returned error; the player is still allowed in.
func (j *JoinListener) OnPlayerJoin(ctx context.Context, playerID uuid.UUID, name string) error {
	if err := j.ledger.AddPlayer(ctx, playerID, name); err != nil {
		return fmt.Errorf("register player %s: %w", playerID, err)
	}

	_, err := j.ledger.GetMainAccount(ctx, playerID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, service.ErrPlayerHasNoAccount) {
		return fmt.Errorf("resolve main account of %s: %w", playerID, err)
	}

	accountID, err := j.ledger.CreateAccountFor(ctx, playerID, true)
	if err != nil {
		return fmt.Errorf("open main account for %s: %w", playerID, err)
	}
	j.log.WithFields(logrus.Fields{
		"player_id":  playerID,
		"name":       name,
		"account_id": accountID,
	}).Info("main account opened")
	return nil
}
