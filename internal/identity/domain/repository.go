package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Get(ctx context.Context, db *gorm.DB, key string) (string, error)
	// SetIfAbsent stores value under key unless one exists, returning
	// the value that ended up stored.
	SetIfAbsent(ctx context.Context, db *gorm.DB, key, value string) (string, error)
	Set(ctx context.Context, db *gorm.DB, key, value string) error
}
