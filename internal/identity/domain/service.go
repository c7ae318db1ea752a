package domain

import (
	"context"
	"errors"
)

// Service resolves actor identities and owns the one-shot flags gating
// the anonymous-to-user credit transfer.
type Service interface {
	// Resolve returns the identity for userID, or the anonymous
	// session identity when userID is zero. The session id is created
	// once and reused for the lifetime of the installation.
	Resolve(ctx context.Context, userID int64) (Identity, error)

	// SessionID returns the persisted anonymous session id, creating
	// it if needed. Authentication never deletes it.
	SessionID(ctx context.Context) (string, error)

	HasTransferred(ctx context.Context, userID int64) (bool, error)
	MarkTransferred(ctx context.Context, userID int64) error
}

var (
	ErrInvalidUser = errors.New("invalid_user")
)
