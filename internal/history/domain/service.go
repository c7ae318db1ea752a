package domain

import (
	"context"
	"errors"

	"github.com/JasonHunterX/Visiora/pkg/db/pagination"
)

var (
	ErrRecordNotFound = errors.New("record_not_found")
	ErrEmptyKeyword   = errors.New("keyword_required")
	ErrNoRecordIDs    = errors.New("record_ids_required")
)

type Service interface {
	// List-shaped reads soft-fail: on backend failure they return an
	// empty page so the caller can render an empty gallery.
	List(ctx context.Context, userID int64, page pagination.Pagination) pagination.Page[Record]
	Favorites(ctx context.Context, userID int64, page pagination.Pagination) pagination.Page[Record]
	Search(ctx context.Context, userID int64, keyword string, page pagination.Pagination) (pagination.Page[Record], error)
	Recent(ctx context.Context, userID int64, limit int) []Record
	PopularPrompts(ctx context.Context, userID int64, limit int) []PromptStat

	ToggleFavorite(ctx context.Context, userID int64, recordID int64) (bool, error)

	// RecordView and RecordDownload are fire and forget: failures are
	// logged, never surfaced.
	RecordView(ctx context.Context, userID int64, recordID int64)
	RecordDownload(ctx context.Context, userID int64, recordID int64)

	Delete(ctx context.Context, userID int64, recordID int64) error
	BatchDelete(ctx context.Context, userID int64, recordIDs []int64) (int, error)
	Restore(ctx context.Context, userID int64, recordID int64) error
}
