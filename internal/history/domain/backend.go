package domain

import (
	"context"

	identitydomain "github.com/JasonHunterX/Visiora/internal/identity/domain"
	"github.com/JasonHunterX/Visiora/pkg/db/pagination"
)

// Backend is the history store seam. The local implementation writes
// to the embedded database; the remote one calls the REST API.
type Backend interface {
	// Record persists a freshly completed generation. The remote
	// server records tasks itself, so its implementation is a no-op.
	Record(ctx context.Context, id identitydomain.Identity, rec *Record) error

	List(ctx context.Context, id identitydomain.Identity, page pagination.Pagination) (pagination.Page[Record], error)
	Favorites(ctx context.Context, id identitydomain.Identity, page pagination.Pagination) (pagination.Page[Record], error)
	Search(ctx context.Context, id identitydomain.Identity, keyword string, page pagination.Pagination) (pagination.Page[Record], error)
	Recent(ctx context.Context, id identitydomain.Identity, limit int) ([]Record, error)
	PopularPrompts(ctx context.Context, id identitydomain.Identity, limit int) ([]PromptStat, error)

	ToggleFavorite(ctx context.Context, id identitydomain.Identity, recordID int64) (bool, error)
	IncrementView(ctx context.Context, id identitydomain.Identity, recordID int64) error
	IncrementDownload(ctx context.Context, id identitydomain.Identity, recordID int64) error

	Delete(ctx context.Context, id identitydomain.Identity, recordID int64) error
	BatchDelete(ctx context.Context, id identitydomain.Identity, recordIDs []int64) (int, error)
	Restore(ctx context.Context, id identitydomain.Identity, recordID int64) error
}
