package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JasonHunterX/Visiora/internal/config"
	"github.com/JasonHunterX/Visiora/internal/credits/domain"
	identitydomain "github.com/JasonHunterX/Visiora/internal/identity/domain"
	"github.com/JasonHunterX/Visiora/pkg/db/pagination"
)

var errBackendDown = errors.New("backend down")

type backendStub struct {
	balance     domain.Balance
	balanceErr  error
	checkResult domain.CheckResult
	checkErr    error
	grantErr    error
	transferErr error
	listErr     error

	transfers []string
	grants    []int64
	consumed  []int64
}

func (b *backendStub) GetBalance(ctx context.Context, id identitydomain.Identity) (domain.Balance, error) {
	return b.balance, b.balanceErr
}

func (b *backendStub) Check(ctx context.Context, id identitydomain.Identity, required int64) (domain.CheckResult, error) {
	return b.checkResult, b.checkErr
}

func (b *backendStub) Grant(ctx context.Context, id identitydomain.Identity, amount int64, txType domain.TransactionType, description string) error {
	if b.grantErr != nil {
		return b.grantErr
	}
	b.grants = append(b.grants, amount)
	return nil
}

func (b *backendStub) Consume(ctx context.Context, id identitydomain.Identity, amount int64, description string) error {
	b.consumed = append(b.consumed, amount)
	return nil
}

func (b *backendStub) Transfer(ctx context.Context, sessionID string, userID int64) error {
	if b.transferErr != nil {
		return b.transferErr
	}
	b.transfers = append(b.transfers, sessionID)
	return nil
}

func (b *backendStub) ListTransactions(ctx context.Context, id identitydomain.Identity, page pagination.Pagination) (pagination.Page[domain.Transaction], error) {
	if b.listErr != nil {
		return pagination.Page[domain.Transaction]{}, b.listErr
	}
	return pagination.Empty[domain.Transaction](page), nil
}

type identityStub struct {
	sessionID   string
	transferred map[int64]bool
	markErr     error
}

func newIdentityStub() *identityStub {
	return &identityStub{
		sessionID:   "sess_1700000000000_abcdef123456",
		transferred: map[int64]bool{},
	}
}

func (s *identityStub) Resolve(ctx context.Context, userID int64) (identitydomain.Identity, error) {
	if userID < 0 {
		return identitydomain.Identity{}, identitydomain.ErrInvalidUser
	}
	if userID > 0 {
		return identitydomain.Identity{UserID: userID}, nil
	}
	return identitydomain.Identity{SessionID: s.sessionID}, nil
}

func (s *identityStub) SessionID(ctx context.Context) (string, error) {
	return s.sessionID, nil
}

func (s *identityStub) HasTransferred(ctx context.Context, userID int64) (bool, error) {
	return s.transferred[userID], nil
}

func (s *identityStub) MarkTransferred(ctx context.Context, userID int64) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.transferred[userID] = true
	return nil
}

func newService(backend domain.Backend, identity identitydomain.Service) domain.Service {
	return New(Params{
		Log:      zap.NewNop(),
		Config:   config.Config{FreeDailyCredits: 30},
		Identity: identity,
		Backend:  backend,
	})
}

func TestGetBalanceSoftFailsToDefault(t *testing.T) {
	svc := newService(&backendStub{balanceErr: errBackendDown}, newIdentityStub())

	balance := svc.GetBalance(context.Background(), 0)
	assert.Equal(t, int64(0), balance.RemainingCredits)
	assert.Equal(t, int64(30), balance.FreeDailyCredits)
	assert.True(t, balance.IsAnonymous)
}

func TestGetBalancePassesThrough(t *testing.T) {
	svc := newService(&backendStub{
		balance: domain.Balance{TotalCredits: 12, RemainingCredits: 12},
	}, newIdentityStub())

	balance := svc.GetBalance(context.Background(), 5)
	assert.Equal(t, int64(12), balance.RemainingCredits)
}

func TestCheckSufficientFailsClosed(t *testing.T) {
	svc := newService(&backendStub{checkErr: errBackendDown}, newIdentityStub())

	result := svc.CheckSufficient(context.Background(), 0, 3)
	assert.False(t, result.Sufficient)
	assert.Equal(t, int64(3), result.RequiredCredits)
	assert.Equal(t, "credit check failed", result.Message)
}

func TestGrantValidatesAmount(t *testing.T) {
	backend := &backendStub{}
	svc := newService(backend, newIdentityStub())

	_, err := svc.Grant(context.Background(), 1, 0, "zero")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.Empty(t, backend.grants)

	granted, err := svc.Grant(context.Background(), 1, 10, "bonus")
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, []int64{10}, backend.grants)
}

func TestTransferHappensOnce(t *testing.T) {
	backend := &backendStub{}
	identity := newIdentityStub()
	svc := newService(backend, identity)
	ctx := context.Background()

	transferred, err := svc.TransferAnonymousToUser(ctx, 42)
	require.NoError(t, err)
	assert.True(t, transferred)
	require.Len(t, backend.transfers, 1)
	assert.Equal(t, identity.sessionID, backend.transfers[0])

	// Second call reports success without touching the backend again.
	transferred, err = svc.TransferAnonymousToUser(ctx, 42)
	require.NoError(t, err)
	assert.True(t, transferred)
	assert.Len(t, backend.transfers, 1)
}

func TestTransferRequiresLogin(t *testing.T) {
	svc := newService(&backendStub{}, newIdentityStub())

	_, err := svc.TransferAnonymousToUser(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}

func TestTransferBackendFailureDoesNotSetFlag(t *testing.T) {
	backend := &backendStub{transferErr: errBackendDown}
	identity := newIdentityStub()
	svc := newService(backend, identity)
	ctx := context.Background()

	_, err := svc.TransferAnonymousToUser(ctx, 42)
	require.Error(t, err)
	assert.False(t, identity.transferred[42])

	// A retry after recovery goes through.
	backend.transferErr = nil
	transferred, err := svc.TransferAnonymousToUser(ctx, 42)
	require.NoError(t, err)
	assert.True(t, transferred)
	assert.True(t, identity.transferred[42])
}

func TestListTransactionsSoftFailsToEmptyPage(t *testing.T) {
	svc := newService(&backendStub{listErr: errBackendDown}, newIdentityStub())

	page, err := svc.ListTransactions(context.Background(), 0, pagination.Pagination{PageNum: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Empty(t, page.Records)
	assert.Equal(t, 2, page.Current)
}
