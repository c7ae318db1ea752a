package domain

import (
	"context"
	"errors"

	"github.com/JasonHunterX/Visiora/pkg/db/pagination"
)

// Service is the credits adapter the rest of the application consumes.
// userID 0 means the anonymous session actor.
type Service interface {
	// GetBalance fails soft: on backing-store errors it returns a
	// zero-remaining default instead of an error, since a missing
	// balance only degrades the UI.
	GetBalance(ctx context.Context, userID int64) Balance

	// CheckSufficient fails closed: any backing-store error reports
	// insufficient credits rather than risking a negative balance.
	CheckSufficient(ctx context.Context, userID int64, required int64) CheckResult

	Grant(ctx context.Context, userID int64, amount int64, description string) (bool, error)
	Consume(ctx context.Context, userID int64, amount int64, description string) error

	// TransferAnonymousToUser moves the anonymous session balance to
	// the authenticated user. Gated by a persisted one-shot flag:
	// repeated calls after a success are no-ops reporting true.
	TransferAnonymousToUser(ctx context.Context, userID int64) (bool, error)

	ListTransactions(ctx context.Context, userID int64, page pagination.Pagination) (pagination.Page[Transaction], error)
}

var (
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrNotLoggedIn         = errors.New("not_logged_in")
	ErrInsufficientCredits = errors.New("insufficient_credits")
	ErrAccountNotFound     = errors.New("account_not_found")
)
