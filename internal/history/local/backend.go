// Package local backs the history adapter with the embedded database.
package local

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/JasonHunterX/Visiora/internal/history/domain"
	identitydomain "github.com/JasonHunterX/Visiora/internal/identity/domain"
	"github.com/JasonHunterX/Visiora/pkg/db/pagination"
)

type Backend struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(gdb *gorm.DB, log *zap.Logger) (*Backend, error) {
	if err := gdb.AutoMigrate(&domain.Record{}); err != nil {
		return nil, err
	}
	return &Backend{
		db:  gdb,
		log: log.Named("history.local"),
	}, nil
}

func (b *Backend) Record(ctx context.Context, id identitydomain.Identity, rec *domain.Record) error {
	rec.ActorKey = id.Key()
	if rec.CreatedTime.IsZero() {
		rec.CreatedTime = time.Now().UTC()
	}
	return b.db.WithContext(ctx).Create(rec).Error
}

func (b *Backend) List(ctx context.Context, id identitydomain.Identity, page pagination.Pagination) (pagination.Page[domain.Record], error) {
	return b.listWhere(ctx, id, page, nil)
}

func (b *Backend) Favorites(ctx context.Context, id identitydomain.Identity, page pagination.Pagination) (pagination.Page[domain.Record], error) {
	return b.listWhere(ctx, id, page, func(q *gorm.DB) *gorm.DB {
		return q.Where("is_favorite = ?", true)
	})
}

func (b *Backend) Search(ctx context.Context, id identitydomain.Identity, keyword string, page pagination.Pagination) (pagination.Page[domain.Record], error) {
	pattern := "%" + escapeLike(keyword) + "%"
	return b.listWhere(ctx, id, page, func(q *gorm.DB) *gorm.DB {
		return q.Where("prompt LIKE ? ESCAPE '\\'", pattern)
	})
}

func (b *Backend) Recent(ctx context.Context, id identitydomain.Identity, limit int) ([]domain.Record, error) {
	var records []domain.Record
	err := b.scoped(ctx, id).
		Order("created_time desc, id desc").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (b *Backend) PopularPrompts(ctx context.Context, id identitydomain.Identity, limit int) ([]domain.PromptStat, error) {
	var stats []domain.PromptStat
	err := b.scoped(ctx, id).
		Model(&domain.Record{}).
		Select("prompt, count(*) as count").
		Group("prompt").
		Order("count desc, prompt asc").
		Limit(limit).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (b *Backend) ToggleFavorite(ctx context.Context, id identitydomain.Identity, recordID int64) (bool, error) {
	var favorite bool
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec domain.Record
		if err := tx.Where("actor_key = ? AND id = ?", id.Key(), recordID).
			First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRecordNotFound
			}
			return err
		}
		favorite = !rec.IsFavorite
		return tx.Model(&rec).Update("is_favorite", favorite).Error
	})
	return favorite, err
}

func (b *Backend) IncrementView(ctx context.Context, id identitydomain.Identity, recordID int64) error {
	return b.increment(ctx, id, recordID, "view_count")
}

func (b *Backend) IncrementDownload(ctx context.Context, id identitydomain.Identity, recordID int64) error {
	return b.increment(ctx, id, recordID, "download_count")
}

func (b *Backend) Delete(ctx context.Context, id identitydomain.Identity, recordID int64) error {
	res := b.db.WithContext(ctx).
		Where("actor_key = ? AND id = ?", id.Key(), recordID).
		Delete(&domain.Record{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// BatchDelete is all or nothing: any id that does not belong to the
// actor rolls the whole batch back.
func (b *Backend) BatchDelete(ctx context.Context, id identitydomain.Identity, recordIDs []int64) (int, error) {
	deleted := 0
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Record{}).
			Where("actor_key = ? AND id IN ?", id.Key(), recordIDs).
			Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(recordIDs)) {
			return domain.ErrRecordNotFound
		}
		res := tx.Where("actor_key = ? AND id IN ?", id.Key(), recordIDs).
			Delete(&domain.Record{})
		if res.Error != nil {
			return res.Error
		}
		deleted = int(res.RowsAffected)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (b *Backend) Restore(ctx context.Context, id identitydomain.Identity, recordID int64) error {
	res := b.db.WithContext(ctx).
		Unscoped().
		Model(&domain.Record{}).
		Where("actor_key = ? AND id = ? AND deleted_at IS NOT NULL", id.Key(), recordID).
		Update("deleted_at", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (b *Backend) scoped(ctx context.Context, id identitydomain.Identity) *gorm.DB {
	return b.db.WithContext(ctx).Where("actor_key = ?", id.Key())
}

func (b *Backend) listWhere(
	ctx context.Context,
	id identitydomain.Identity,
	page pagination.Pagination,
	filter func(*gorm.DB) *gorm.DB,
) (pagination.Page[domain.Record], error) {
	page = page.Normalize()

	q := b.scoped(ctx, id).Model(&domain.Record{})
	if filter != nil {
		q = filter(q)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return pagination.Page[domain.Record]{}, err
	}

	var records []domain.Record
	err := q.Order("created_time desc, id desc").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&records).Error
	if err != nil {
		return pagination.Page[domain.Record]{}, err
	}
	return pagination.NewPage(records, total, page), nil
}

func (b *Backend) increment(ctx context.Context, id identitydomain.Identity, recordID int64, column string) error {
	res := b.db.WithContext(ctx).
		Model(&domain.Record{}).
		Where("actor_key = ? AND id = ?", id.Key(), recordID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
