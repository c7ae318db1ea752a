package local

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/JasonHunterX/Visiora/internal/config"
	"github.com/JasonHunterX/Visiora/internal/credits/domain"
	identitydomain "github.com/JasonHunterX/Visiora/internal/identity/domain"
	"github.com/JasonHunterX/Visiora/pkg/db/pagination"
)

func setupBackend(t *testing.T) *Backend {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	backend, err := New(gdb, zap.NewNop(), node, config.Config{FreeDailyCredits: 30})
	require.NoError(t, err)
	return backend
}

func anonID() identitydomain.Identity {
	return identitydomain.Identity{SessionID: "sess_1700000000000_abcdef123456"}
}

func userID(id int64) identitydomain.Identity {
	return identitydomain.Identity{UserID: id}
}

func TestFirstContactSeedsFreeCredits(t *testing.T) {
	backend := setupBackend(t)
	ctx := context.Background()

	balance, err := backend.GetBalance(ctx, anonID())
	require.NoError(t, err)
	assert.Equal(t, int64(30), balance.RemainingCredits)
	assert.True(t, balance.IsAnonymous)

	page, err := backend.ListTransactions(ctx, anonID(), pagination.Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, domain.TxDailyReset, page.Records[0].TransactionType)
	assert.Equal(t, int64(30), page.Records[0].CreditsChange)
	assert.True(t, page.Records[0].IsIncrease)
}

func TestCheckBoundaries(t *testing.T) {
	backend := setupBackend(t)
	ctx := context.Background()

	cases := []struct {
		required   int64
		sufficient bool
	}{
		{0, true},
		{1, true},
		{30, true},
		{31, false},
	}
	for _, tc := range cases {
		result, err := backend.Check(ctx, anonID(), tc.required)
		require.NoError(t, err)
		assert.Equal(t, tc.sufficient, result.Sufficient, "required=%d", tc.required)
		assert.Equal(t, tc.required, result.RequiredCredits)
	}
}

func TestConsumeDecrementsAndRecords(t *testing.T) {
	backend := setupBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Consume(ctx, anonID(), 5, "image generation"))

	balance, err := backend.GetBalance(ctx, anonID())
	require.NoError(t, err)
	assert.Equal(t, int64(25), balance.RemainingCredits)

	page, err := backend.ListTransactions(ctx, anonID(), pagination.Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Records, 2)

	// Newest first.
	consume := page.Records[0]
	assert.Equal(t, domain.TxConsume, consume.TransactionType)
	assert.Equal(t, int64(-5), consume.CreditsChange)
	assert.Equal(t, int64(25), consume.BalanceAfter)
	assert.False(t, consume.IsIncrease)
}

func TestConsumeInsufficientLeavesBalanceUntouched(t *testing.T) {
	backend := setupBackend(t)
	ctx := context.Background()

	err := backend.Consume(ctx, anonID(), 31, "too expensive")
	assert.ErrorIs(t, err, domain.ErrInsufficientCredits)

	balance, err := backend.GetBalance(ctx, anonID())
	require.NoError(t, err)
	assert.Equal(t, int64(30), balance.RemainingCredits)
}

func TestConsumeRejectsNonPositiveAmount(t *testing.T) {
	backend := setupBackend(t)

	assert.ErrorIs(t, backend.Consume(context.Background(), anonID(), 0, ""), domain.ErrInvalidAmount)
	assert.ErrorIs(t, backend.Consume(context.Background(), anonID(), -3, ""), domain.ErrInvalidAmount)
}

func TestGrantIncrements(t *testing.T) {
	backend := setupBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Grant(ctx, userID(9), 100, domain.TxPurchase, "pack purchase"))

	balance, err := backend.GetBalance(ctx, userID(9))
	require.NoError(t, err)
	assert.Equal(t, int64(130), balance.RemainingCredits)
	assert.False(t, balance.IsAnonymous)
}

func TestTransferMovesWholeAnonymousBalance(t *testing.T) {
	backend := setupBackend(t)
	ctx := context.Background()
	anon := anonID()

	// Anonymous actor has consumed some credits before logging in.
	require.NoError(t, backend.Consume(ctx, anon, 10, "pre-login usage"))

	require.NoError(t, backend.Transfer(ctx, anon.SessionID, 42))

	anonBalance, err := backend.GetBalance(ctx, anon)
	require.NoError(t, err)
	assert.Equal(t, int64(0), anonBalance.RemainingCredits)

	// User account seeded with 30, plus the 20 moved over.
	userBalance, err := backend.GetBalance(ctx, userID(42))
	require.NoError(t, err)
	assert.Equal(t, int64(50), userBalance.RemainingCredits)

	page, err := backend.ListTransactions(ctx, userID(42), pagination.Pagination{})
	require.NoError(t, err)
	require.NotEmpty(t, page.Records)
	assert.Equal(t, domain.TxOther, page.Records[0].TransactionType)
	assert.Equal(t, int64(20), page.Records[0].CreditsChange)
}

func TestTransferWithEmptyAnonymousBalanceIsNoop(t *testing.T) {
	backend := setupBackend(t)
	ctx := context.Background()
	anon := anonID()

	require.NoError(t, backend.Consume(ctx, anon, 30, "drain"))
	require.NoError(t, backend.Transfer(ctx, anon.SessionID, 42))

	// The user account was never touched, so first contact seeds it.
	userBalance, err := backend.GetBalance(ctx, userID(42))
	require.NoError(t, err)
	assert.Equal(t, int64(30), userBalance.RemainingCredits)
}

func TestTransferRequiresLogin(t *testing.T) {
	backend := setupBackend(t)
	err := backend.Transfer(context.Background(), "sess_x", 0)
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}

func TestListTransactionsPagination(t *testing.T) {
	backend := setupBackend(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, backend.Consume(ctx, anonID(), 1, "gen"))
	}

	// 1 seed grant + 15 consumes.
	page, err := backend.ListTransactions(ctx, anonID(), pagination.Pagination{PageNum: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(16), page.Total)
	assert.Equal(t, int64(2), page.Pages)
	assert.Len(t, page.Records, 10)

	second, err := backend.ListTransactions(ctx, anonID(), pagination.Pagination{PageNum: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, second.Records, 6)
}
