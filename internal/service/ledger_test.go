package service

import (
	"context"
	"errors"
	"io"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"economy/internal/config"
	"economy/internal/infrastructure/database"
	"economy/internal/model"
	"economy/pkg/money"
)

func quietLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func newTestLedger(t *testing.T, opts ...Option) *Ledger {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Driver:   config.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "economy.db"),
		LogLevel: "silent",
	}
	db, err := database.Open(cfg, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(context.Background(), db))

	return NewLedger(db, append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func mustAccount(t *testing.T, l *Ledger, balance money.Amount) model.AccountID {
	t.Helper()
	ctx := context.Background()
	id, err := l.CreateAccount(ctx)
	require.NoError(t, err)
	if balance > 0 {
		require.NoError(t, l.SetBalance(ctx, id, balance))
	}
	return id
}

func mustBalance(t *testing.T, l *Ledger, id model.AccountID) money.Amount {
	t.Helper()
	b, err := l.GetBalance(context.Background(), id)
	require.NoError(t, err)
	return b
}

// ============================================================================
// Account lifecycle
// ============================================================================

func TestCreateAccount_StartsAtZero(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	id, err := l.CreateAccount(ctx)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Equal(t, money.Amount(0), mustBalance(t, l, id))

	require.NoError(t, l.AddBalance(ctx, id, money.FromMajor(50)))
	assert.Equal(t, money.FromMajor(50), mustBalance(t, l, id))
}

func TestCreateAccount_DistinctIDs(t *testing.T) {
	l := newTestLedger(t)
	a := mustAccount(t, l, 0)
	b := mustAccount(t, l, 0)
	assert.NotEqual(t, a, b)
}

func TestDeleteAccount_Twice(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	id := mustAccount(t, l, 0)

	require.NoError(t, l.DeleteAccount(ctx, id))
	assert.ErrorIs(t, l.DeleteAccount(ctx, id), ErrAccountNotFound)

	_, err := l.GetBalance(ctx, id)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestDeleteAccount_RemovesLinks(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	player := uuid.New()
	id, err := l.CreateAccountFor(ctx, player, true)
	require.NoError(t, err)

	require.NoError(t, l.DeleteAccount(ctx, id))

	accounts, err := l.GetAccounts(ctx, player)
	require.NoError(t, err)
	assert.Empty(t, accounts)
	_, err = l.GetMainAccount(ctx, player)
	assert.ErrorIs(t, err, ErrPlayerHasNoAccount)
}

func TestBalanceOps_UnknownAccount(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.GetBalance(ctx, 999)
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.ErrorIs(t, l.SetBalance(ctx, 999, 100), ErrAccountNotFound)
	assert.ErrorIs(t, l.AddBalance(ctx, 999, 100), ErrAccountNotFound)
	// Missing and underfunded accounts look the same to a conditional update.
	assert.ErrorIs(t, l.RemoveBalance(ctx, 999, 100), ErrInsufficientBalance)

	ok, err := l.AccountExists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNegativeAmounts(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	id := mustAccount(t, l, money.FromMajor(100))

	assert.ErrorIs(t, l.SetBalance(ctx, id, -1), ErrInvalidAmount)
	assert.ErrorIs(t, l.AddBalance(ctx, id, -1), ErrInvalidAmount)
	assert.ErrorIs(t, l.RemoveBalance(ctx, id, money.FromMajor(-5)), ErrInvalidAmount)
	assert.ErrorIs(t, l.RemoveBalance(ctx, 999, money.FromMajor(-5)), ErrInvalidAmount)
	assert.Equal(t, money.FromMajor(100), mustBalance(t, l, id))
}

func TestZeroAmountIsNoOp(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	id := mustAccount(t, l, 500)

	require.NoError(t, l.AddBalance(ctx, id, 0))
	require.NoError(t, l.RemoveBalance(ctx, id, 0))
	assert.Equal(t, money.Amount(500), mustBalance(t, l, id))
}

func TestScenarioA_AddThenRemove(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	id := mustAccount(t, l, 0)

	require.NoError(t, l.AddBalance(ctx, id, money.FromMajor(100)))
	require.NoError(t, l.RemoveBalance(ctx, id, money.FromMajor(40)))
	assert.Equal(t, money.FromMajor(60), mustBalance(t, l, id))
}

func TestScenarioB_RemoveMoreThanBalance(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	id := mustAccount(t, l, money.FromMajor(10))

	assert.ErrorIs(t, l.RemoveBalance(ctx, id, money.FromMajor(50)), ErrInsufficientBalance)
	assert.Equal(t, money.FromMajor(10), mustBalance(t, l, id))
}

func TestSetBalance_CanLowerFunds(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	id := mustAccount(t, l, money.FromMajor(100))

	require.NoError(t, l.SetBalance(ctx, id, money.FromMajor(1)))
	assert.Equal(t, money.FromMajor(1), mustBalance(t, l, id))

	require.NoError(t, l.SetBalance(ctx, id, money.FromMajor(1)), "same value still matches the row")
}

func TestConcurrentRemovesNeverGoNegative(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	id := mustAccount(t, l, money.FromMajor(10))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.RemoveBalance(ctx, id, money.FromMajor(1))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrInsufficientBalance)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, money.Amount(0), mustBalance(t, l, id))
}

// ============================================================================
// Relations
// ============================================================================

func TestCreateRelation_UnknownAccount(t *testing.T) {
	l := newTestLedger(t)
	err := l.CreatePlayerAccountRelation(context.Background(), uuid.New(), 42, false)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestScenarioD_SecondMainRejected(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	player := uuid.New()
	a := mustAccount(t, l, 0)
	b := mustAccount(t, l, 0)

	require.NoError(t, l.CreatePlayerAccountRelation(ctx, player, a, true))

	err := l.CreatePlayerAccountRelation(ctx, player, b, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, ErrMainAccountExists)
	assert.Equal(t, KindStore, KindOf(err))

	main, err := l.GetMainAccount(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, a, main)

	// A non-main link to b is still allowed.
	require.NoError(t, l.CreatePlayerAccountRelation(ctx, player, b, false))
	accounts, err := l.GetAccounts(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, []model.AccountID{a, b}, accounts)
}

func TestCreateRelation_Duplicate(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	player := uuid.New()
	a := mustAccount(t, l, 0)

	require.NoError(t, l.CreatePlayerAccountRelation(ctx, player, a, false))
	err := l.CreatePlayerAccountRelation(ctx, player, a, false)
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, ErrLinkExists)
}

func TestSharedAccount(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	shared := mustAccount(t, l, 0)

	require.NoError(t, l.CreatePlayerAccountRelation(ctx, alice, shared, false))
	require.NoError(t, l.CreatePlayerAccountRelation(ctx, bob, shared, false))

	players, err := l.GetPlayers(ctx, shared)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{alice, bob}, players)

	ok, err := l.HasAccount(ctx, alice, shared)
	require.NoError(t, err)
	assert.True(t, ok)

	// Removing one of two links keeps the account alive.
	require.NoError(t, l.DeletePlayerAccountRelation(ctx, alice, shared))
	ok, err = l.AccountExists(ctx, shared)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCascadeOnLastLink(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	player := uuid.New()
	id, err := l.CreateAccountFor(ctx, player, true)
	require.NoError(t, err)
	require.NoError(t, l.AddBalance(ctx, id, 700))

	require.NoError(t, l.DeletePlayerAccountRelation(ctx, player, id))

	_, err = l.GetBalance(ctx, id)
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.ErrorIs(t, l.DeletePlayerAccountRelation(ctx, player, id), ErrAccountNotFound)
}

func TestDeleteRelation_NoSuchLink(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	id := mustAccount(t, l, 0)

	assert.ErrorIs(t, l.DeletePlayerAccountRelation(ctx, uuid.New(), id), ErrAccountNotFound)
	ok, err := l.AccountExists(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok, "a failed unlink must not cascade")
}

func TestEmptyListsForUnknownIDs(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	players, err := l.GetPlayers(ctx, 12345)
	require.NoError(t, err)
	assert.NotNil(t, players)
	assert.Empty(t, players)

	accounts, err := l.GetAccounts(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
}

func TestGetMainAccount_None(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	player := uuid.New()

	_, err := l.GetMainAccount(ctx, player)
	assert.ErrorIs(t, err, ErrPlayerHasNoAccount)
	assert.Equal(t, KindPlayerHasNoAccount, KindOf(err))

	ok, err := l.HasMainAccount(ctx, player)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateAccountFor_NoOrphanOnConflict(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	player := uuid.New()
	_, err := l.CreateAccountFor(ctx, player, true)
	require.NoError(t, err)

	_, err = l.CreateAccountFor(ctx, player, true)
	require.ErrorIs(t, err, ErrMainAccountExists)

	var accounts int64
	require.NoError(t, l.db.Model(&model.Account{}).Count(&accounts).Error)
	assert.Equal(t, int64(1), accounts)
}

func TestAddPlayerAndLookup(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	player := uuid.New()

	require.NoError(t, l.AddPlayer(ctx, player, "Steve"))
	got, err := l.LookupPlayer(ctx, "steve")
	require.NoError(t, err)
	assert.Equal(t, Player{ID: player, Name: "Steve"}, got)

	require.NoError(t, l.AddPlayer(ctx, player, "Alex"))
	_, err = l.LookupPlayer(ctx, "Steve")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	got, err = l.LookupPlayer(ctx, "Alex")
	require.NoError(t, err)
	assert.Equal(t, player, got.ID)
}

func TestMainAccountInvariant(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	player := uuid.New()
	ids := []model.AccountID{mustAccount(t, l, 0), mustAccount(t, l, 0), mustAccount(t, l, 0)}

	var wg sync.WaitGroup
	errs := make([]error, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id model.AccountID) {
			defer wg.Done()
			errs[i] = l.CreatePlayerAccountRelation(ctx, player, id, true)
		}(i, id)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrMainAccountExists)
	}
	assert.Equal(t, 1, ok)
}

// ============================================================================
// Transfers
// ============================================================================

func TestScenarioE_Transfer(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	a := mustAccount(t, l, money.FromMajor(100))
	b := mustAccount(t, l, 0)

	require.NoError(t, l.Transfer(ctx, a, b, money.FromMajor(30)))
	assert.Equal(t, money.FromMajor(70), mustBalance(t, l, a))
	assert.Equal(t, money.FromMajor(30), mustBalance(t, l, b))

	err := l.Transfer(ctx, a, b, money.FromMajor(1000))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, money.FromMajor(70), mustBalance(t, l, a))
	assert.Equal(t, money.FromMajor(30), mustBalance(t, l, b))
}

func TestTransfer_CreditFailureRollsBackDebit(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	a := mustAccount(t, l, money.FromMajor(100))

	err := l.Transfer(ctx, a, 9999, money.FromMajor(30))
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Equal(t, money.FromMajor(100), mustBalance(t, l, a))
}

func TestAddBalance_RejectsOverflow(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	id := mustAccount(t, l, 0)

	require.NoError(t, l.AddBalance(ctx, id, math.MaxInt64))
	err := l.AddBalance(ctx, id, math.MaxInt64)
	assert.ErrorIs(t, err, ErrBalanceOverflow)
	assert.Equal(t, KindInvalidAmount, KindOf(err))
	assert.ErrorIs(t, l.AddBalance(ctx, id, 1), ErrInvalidAmount)
	assert.Equal(t, money.Amount(math.MaxInt64), mustBalance(t, l, id))

	require.NoError(t, l.AddBalance(ctx, id, 0))
	assert.ErrorIs(t, l.AddBalance(ctx, 9999, math.MaxInt64), ErrAccountNotFound)
}

func TestTransfer_OverflowRollsBackDebit(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	a := mustAccount(t, l, math.MaxInt64)
	b := mustAccount(t, l, math.MaxInt64)

	err := l.Transfer(ctx, a, b, math.MaxInt64)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, money.Amount(math.MaxInt64), mustBalance(t, l, a))
	assert.Equal(t, money.Amount(math.MaxInt64), mustBalance(t, l, b))
}

func TestTransfer_InvalidAmount(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	a := mustAccount(t, l, money.FromMajor(100))
	b := mustAccount(t, l, 0)

	assert.ErrorIs(t, l.Transfer(ctx, a, b, -1), ErrInvalidAmount)
	assert.Equal(t, money.FromMajor(100), mustBalance(t, l, a))
}

func TestTransfer_ConservesTotal(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	a := mustAccount(t, l, money.FromMajor(50))
	b := mustAccount(t, l, money.FromMajor(50))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = l.Transfer(ctx, a, b, money.FromMajor(7))
		}()
		go func() {
			defer wg.Done()
			_ = l.Transfer(ctx, b, a, money.FromMajor(3))
		}()
	}
	wg.Wait()

	ba, bb := mustBalance(t, l, a), mustBalance(t, l, b)
	assert.GreaterOrEqual(t, int64(ba), int64(0))
	assert.GreaterOrEqual(t, int64(bb), int64(0))
	assert.Equal(t, money.FromMajor(100), ba+bb)
}

func TestTransferByPlayer(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	aliceAccount, err := l.CreateAccountFor(ctx, alice, true)
	require.NoError(t, err)
	bobAccount, err := l.CreateAccountFor(ctx, bob, true)
	require.NoError(t, err)
	require.NoError(t, l.AddBalance(ctx, aliceAccount, money.FromMajor(20)))

	require.NoError(t, l.TransferByPlayer(ctx, alice, bob, money.FromMajor(5)))
	assert.Equal(t, money.FromMajor(15), mustBalance(t, l, aliceAccount))
	assert.Equal(t, money.FromMajor(5), mustBalance(t, l, bobAccount))
}

func TestTransferByPlayer_ReportsEveryMissingPlayer(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	ghost1, ghost2 := uuid.New(), uuid.New()

	err := l.TransferByPlayer(ctx, ghost1, ghost2, 100)
	require.ErrorIs(t, err, ErrPlayerHasNoAccount)

	var resolution *PlayerResolutionError
	require.True(t, errors.As(err, &resolution))
	assert.Equal(t, []uuid.UUID{ghost1, ghost2}, resolution.Players)

	alice := uuid.New()
	_, err = l.CreateAccountFor(ctx, alice, true)
	require.NoError(t, err)
	err = l.TransferByPlayer(ctx, alice, ghost1, 0)
	require.True(t, errors.As(err, &resolution))
	assert.Equal(t, []uuid.UUID{ghost1}, resolution.Players)
}

func TestPlayerBalanceConveniences(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	player := uuid.New()
	_, err := l.CreateAccountFor(ctx, player, true)
	require.NoError(t, err)

	require.NoError(t, l.SetPlayerBalance(ctx, player, 1000))
	require.NoError(t, l.AddPlayerBalance(ctx, player, 250))
	require.NoError(t, l.RemovePlayerBalance(ctx, player, 50))
	b, err := l.GetPlayerBalance(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(1200), b)

	assert.ErrorIs(t, l.RemovePlayerBalance(ctx, player, 5000), ErrInsufficientBalance)
	assert.ErrorIs(t, l.AddPlayerBalance(ctx, uuid.New(), 1), ErrPlayerHasNoAccount)
	assert.ErrorIs(t, l.SetPlayerBalance(ctx, player, -1), ErrInvalidAmount)
}

// ============================================================================
// Leaderboard
// ============================================================================

func seedMainAccount(t *testing.T, l *Ledger, name string, balance money.Amount) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	player := uuid.New()
	require.NoError(t, l.AddPlayer(ctx, player, name))
	id, err := l.CreateAccountFor(ctx, player, true)
	require.NoError(t, err)
	require.NoError(t, l.SetBalance(ctx, id, balance))
	return player
}

func TestScenarioF_TopAccounts(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	seedMainAccount(t, l, "name_300", money.FromMajor(300))
	seedMainAccount(t, l, "name_100", money.FromMajor(100))
	seedMainAccount(t, l, "name_200", money.FromMajor(200))

	top, err := l.GetTopAccounts(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "name_300", top[0].DisplayName)
	assert.Equal(t, money.FromMajor(300), top[0].Balance)
	assert.Equal(t, "name_200", top[1].DisplayName)
	assert.Equal(t, money.FromMajor(200), top[1].Balance)

	rest, err := l.GetTopAccounts(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "name_100", rest[0].DisplayName)
}

func TestTopAccounts_IgnoresNonMainAndBreaksTies(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	bob := seedMainAccount(t, l, "bob", 500)
	seedMainAccount(t, l, "alice", 500)

	side, err := l.CreateAccountFor(ctx, bob, false)
	require.NoError(t, err)
	require.NoError(t, l.SetBalance(ctx, side, money.FromMajor(1_000_000)))

	top, err := l.GetTopAccounts(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "alice", top[0].DisplayName)
	assert.Equal(t, "bob", top[1].DisplayName)
	assert.Equal(t, bob, top[1].PlayerID)
}

func TestTopAccounts_Empty(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	top, err := l.GetTopAccounts(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, top)

	top, err = l.GetTopAccounts(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, top)
}

type countingCache struct {
	noopCache
	pages         map[[2]int][]model.TopEntry
	invalidations int
}

func (c *countingCache) Get(_ context.Context, limit, offset int) ([]model.TopEntry, int64, bool, error) {
	e, ok := c.pages[[2]int{limit, offset}]
	return e, int64(c.invalidations), ok, nil
}

func (c *countingCache) Set(_ context.Context, gen int64, limit, offset int, entries []model.TopEntry) error {
	if gen != int64(c.invalidations) {
		return nil
	}
	c.pages[[2]int{limit, offset}] = entries
	return nil
}

func (c *countingCache) Invalidate(context.Context) error {
	c.invalidations++
	c.pages = map[[2]int][]model.TopEntry{}
	return nil
}

func TestTopAccounts_UsesCacheAndInvalidatesOnWrite(t *testing.T) {
	cache := &countingCache{pages: map[[2]int][]model.TopEntry{}}
	l := newTestLedger(t, WithCache(cache))
	ctx := context.Background()
	seedMainAccount(t, l, "steve", 100)

	first, err := l.GetTopAccounts(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Contains(t, cache.pages, [2]int{10, 0})

	before := cache.invalidations
	id := mustAccount(t, l, 0)
	require.NoError(t, l.AddBalance(ctx, id, 1))
	assert.Greater(t, cache.invalidations, before)
	assert.NotContains(t, cache.pages, [2]int{10, 0})
}

// ============================================================================
// Error kinds
// ============================================================================

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindAccountNotFound, KindOf(ErrAccountNotFound))
	assert.Equal(t, KindInvalidAmount, KindOf(ErrInvalidAmount))
	assert.Equal(t, KindInsufficientBalance, KindOf(ErrInsufficientBalance))
	assert.Equal(t, KindPlayerHasNoAccount, KindOf(&PlayerResolutionError{Players: []uuid.UUID{uuid.New()}}))
	assert.Equal(t, KindStore, KindOf(&StoreError{Op: "x"}))
	assert.Equal(t, KindStore, KindOf(errors.New("boom")))
}

func TestStoreErrorHidesDriverDetail(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	sqlDB, err := l.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = l.CreateAccount(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStore)
	assert.Equal(t, "store failure: create account", err.Error())

	_, err = l.GetBalance(ctx, 1)
	assert.Equal(t, KindStore, KindOf(err))
}
