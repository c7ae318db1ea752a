package repository

import (
	"context"
	"errors"
	"time"

	"github.com/JasonHunterX/Visiora/internal/identity/domain"
	"github.com/JasonHunterX/Visiora/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Get(ctx context.Context, gdb *gorm.DB, key string) (string, error) {
	var state domain.ClientState
	err := gdb.WithContext(ctx).
		Where("key = ?", key).
		First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return state.Value, nil
}

func (r *repo) SetIfAbsent(ctx context.Context, gdb *gorm.DB, key, value string) (string, error) {
	state := domain.ClientState{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	err := gdb.WithContext(ctx).Create(&state).Error
	if err == nil {
		return value, nil
	}
	if db.IsDuplicateKeyErr(err) {
		// lost the race, read back whoever won
		return r.Get(ctx, gdb, key)
	}
	return "", err
}

func (r *repo) Set(ctx context.Context, gdb *gorm.DB, key, value string) error {
	return gdb.WithContext(ctx).Exec(
		`INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		value,
		time.Now().UTC(),
	).Error
}
