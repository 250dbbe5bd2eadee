package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"economy/internal/service"
	"economy/pkg/money"
)

const (
	msgNoPermission     = "You don't have permission to use this command"
	msgPlayerOnly       = "This command can only be used by players"
	msgErrorOccurred    = "An error occurred"
	msgInvalidAmount    = "Invalid amount"
	msgAmountPositive   = "Amount must be positive"
	msgTargetNotFound   = "Target not found"
	msgNoMainAccount    = "Player does not have a main account"
	msgNotEnoughBalance = "You do not have enough balance"
	msgNotEnoughToTake  = "Not enough money in the balance to remove"
	msgSelfTransfer     = "You cannot transfer money to yourself"
	msgEmptyTop         = "No balances to show"
)

func currency(a money.Amount) string {
	return "$" + money.Format(a)
}

// target resolves a player name, reporting "Target not found" on a miss.
func (d *Dispatcher) target(ctx context.Context, s Sender, name string) (service.Player, bool) {
	p, err := d.ledger.LookupPlayer(ctx, name)
	switch {
	case err == nil:
		return p, true
	case errors.Is(err, service.ErrPlayerNotFound):
		s.SendMessage(msgTargetNotFound)
	default:
		s.SendMessage(msgErrorOccurred)
	}
	return service.Player{}, false
}

// report turns a ledger error into the sender-facing message.
func (d *Dispatcher) report(s Sender, err error, insufficient string) {
	switch service.KindOf(err) {
	case service.KindInvalidAmount:
		s.SendMessage(msgAmountPositive)
	case service.KindInsufficientBalance:
		s.SendMessage(insufficient)
	case service.KindPlayerHasNoAccount:
		s.SendMessage(msgNoMainAccount)
	case service.KindAccountNotFound:
		s.SendMessage(msgTargetNotFound)
	default:
		d.log.WithError(err).WithField("sender", s.Name()).Warn("command failed")
		s.SendMessage(msgErrorOccurred)
	}
}

func (d *Dispatcher) balance(ctx context.Context, s Sender, args []string) bool {
	if len(args) != 0 {
		return false
	}
	id, _ := s.PlayerID()

	bal, err := d.ledger.GetPlayerBalance(ctx, id)
	if err != nil {
		d.report(s, err, msgNotEnoughBalance)
		return true
	}
	s.SendMessage("Your balance is " + currency(bal))
	return true
}

func (d *Dispatcher) pay(ctx context.Context, s Sender, args []string) bool {
	if len(args) != 2 {
		return false
	}
	self, _ := s.PlayerID()

	amount, err := money.Parse(args[1])
	if err != nil {
		s.SendMessage(msgInvalidAmount)
		return true
	}
	target, ok := d.target(ctx, s, args[0])
	if !ok {
		return true
	}
	if target.ID == self {
		s.SendMessage(msgSelfTransfer)
		return true
	}

	err = d.ledger.TransferByPlayer(ctx, self, target.ID, amount)
	var unresolved *service.PlayerResolutionError
	switch {
	case err == nil:
		s.SendMessage(fmt.Sprintf("%s transferred to %s", currency(amount), target.Name))
	case errors.As(err, &unresolved) && !containsPlayer(unresolved.Players, self):
		s.SendMessage(msgTargetNotFound)
	default:
		d.report(s, err, msgNotEnoughBalance)
	}
	return true
}

func containsPlayer(ids []uuid.UUID, id uuid.UUID) bool {
	for _, p := range ids {
		if p == id {
			return true
		}
	}
	return false
}

// adjust is the shared body of set, add and remove.
func (d *Dispatcher) adjust(ctx context.Context, s Sender, args []string,
	op func(context.Context, uuid.UUID, money.Amount) error, done string) bool {
	if len(args) != 2 {
		return false
	}
	amount, err := money.Parse(args[1])
	if err != nil {
		s.SendMessage(msgInvalidAmount)
		return true
	}
	target, ok := d.target(ctx, s, args[0])
	if !ok {
		return true
	}
	if err := op(ctx, target.ID, amount); err != nil {
		d.report(s, err, msgNotEnoughToTake)
		return true
	}
	s.SendMessage(fmt.Sprintf(done, currency(amount), target.Name))
	return true
}

func (d *Dispatcher) set(ctx context.Context, s Sender, args []string) bool {
	return d.adjust(ctx, s, args, d.ledger.SetPlayerBalance, "Balance of %[2]s set to %[1]s")
}

func (d *Dispatcher) add(ctx context.Context, s Sender, args []string) bool {
	return d.adjust(ctx, s, args, d.ledger.AddPlayerBalance, "%s added to the balance of %s")
}

func (d *Dispatcher) remove(ctx context.Context, s Sender, args []string) bool {
	return d.adjust(ctx, s, args, d.ledger.RemovePlayerBalance, "%s removed from the balance of %s")
}

func (d *Dispatcher) balanceTop(ctx context.Context, s Sender, args []string) bool {
	page := 1
	switch len(args) {
	case 0:
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return false
		}
		page = n
	default:
		return false
	}

	offset := (page - 1) * d.pageSize
	entries, err := d.ledger.GetTopAccounts(ctx, d.pageSize, offset)
	if err != nil {
		d.report(s, err, msgNotEnoughBalance)
		return true
	}
	if len(entries) == 0 {
		s.SendMessage(msgEmptyTop)
		return true
	}

	width := 0
	for _, e := range entries {
		if len(e.DisplayName) > width {
			width = len(e.DisplayName)
		}
	}
	for i, e := range entries {
		pad := strings.Repeat(" ", width-len(e.DisplayName))
		s.SendMessage(fmt.Sprintf("%d. %s%s - %s", offset+i+1, e.DisplayName, pad, currency(e.Balance)))
	}
	return true
}
