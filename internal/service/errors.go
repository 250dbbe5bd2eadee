package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ============================================================================
// Error taxonomy
// ============================================================================
//
// Every ledger operation returns nil or an error matching exactly one of the
// five kinds below (errors.Is). Driver errors never cross this boundary: they
// are logged where they happen and replaced by a *StoreError.
//
// ============================================================================

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrPlayerHasNoAccount  = errors.New("player does not have a main account")
	ErrInvalidAmount       = errors.New("amount must not be negative")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrStore               = errors.New("store failure")
)

// Reasons carried by a *StoreError when the store rejected a write for a
// domain-meaningful constraint.
var (
	ErrMainAccountExists = errors.New("player already has a main account")
	ErrLinkExists        = errors.New("player is already linked to account")
)

// ErrBalanceOverflow is an InvalidAmount: the credit would exceed the
// largest representable balance.
var ErrBalanceOverflow = fmt.Errorf("%w: balance would overflow", ErrInvalidAmount)

// ErrPlayerNotFound is returned by name lookups; it is not a ledger
// operation outcome.
var ErrPlayerNotFound = errors.New("player not found")

// StoreError is the StoreError kind. Reason, when set, is one of the
// conflict reasons above and is what Unwrap exposes.
type StoreError struct {
	Op     string
	Reason error
}

func (e *StoreError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("%s: %s: %v", ErrStore, e.Op, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrStore, e.Op)
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

func (e *StoreError) Unwrap() error {
	return e.Reason
}

// PlayerResolutionError lists every player of a player-to-player transfer
// that has no main account.
type PlayerResolutionError struct {
	Players []uuid.UUID
}

func (e *PlayerResolutionError) Error() string {
	ids := make([]string, len(e.Players))
	for i, p := range e.Players {
		ids[i] = p.String()
	}
	return fmt.Sprintf("%s: %s", ErrPlayerHasNoAccount, strings.Join(ids, ", "))
}

func (e *PlayerResolutionError) Unwrap() error {
	return ErrPlayerHasNoAccount
}

// Kind is the stable classification callers switch on.
type Kind string

const (
	KindNone                Kind = ""
	KindAccountNotFound     Kind = "account_not_found"
	KindPlayerHasNoAccount  Kind = "player_has_no_account"
	KindInvalidAmount       Kind = "invalid_amount"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindStore               Kind = "store_error"
)

// KindOf classifies err. Anything unrecognized is a store error.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrAccountNotFound):
		return KindAccountNotFound
	case errors.Is(err, ErrPlayerHasNoAccount):
		return KindPlayerHasNoAccount
	case errors.Is(err, ErrInvalidAmount):
		return KindInvalidAmount
	case errors.Is(err, ErrInsufficientBalance):
		return KindInsufficientBalance
	default:
		return KindStore
	}
}
