package domain

import (
	"context"

	identitydomain "github.com/JasonHunterX/Visiora/internal/identity/domain"
	"github.com/JasonHunterX/Visiora/pkg/db/pagination"
)

// Backend is the backing-store seam: one implementation over the
// embedded database, one over the remote REST API. The binding is
// chosen once at startup.
type Backend interface {
	GetBalance(ctx context.Context, id identitydomain.Identity) (Balance, error)
	Check(ctx context.Context, id identitydomain.Identity, required int64) (CheckResult, error)
	Grant(ctx context.Context, id identitydomain.Identity, amount int64, txType TransactionType, description string) error

	// Consume deducts credits for a completed local generation. The
	// remote backend deducts server-side on task submission, so its
	// implementation is a no-op.
	Consume(ctx context.Context, id identitydomain.Identity, amount int64, description string) error

	Transfer(ctx context.Context, sessionID string, userID int64) error
	ListTransactions(ctx context.Context, id identitydomain.Identity, page pagination.Pagination) (pagination.Page[Transaction], error)
}
