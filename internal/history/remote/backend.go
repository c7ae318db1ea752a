// Package remote backs the history adapter with the REST API.
package remote

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/JasonHunterX/Visiora/internal/cache"
	"github.com/JasonHunterX/Visiora/internal/history/domain"
	identitydomain "github.com/JasonHunterX/Visiora/internal/identity/domain"
	"github.com/JasonHunterX/Visiora/pkg/db/pagination"
	"github.com/JasonHunterX/Visiora/pkg/restclient"
)

const (
	basePath = "/api/ai-drawing/history"

	// Popular prompts move slowly; a short cache keeps the gallery
	// sidebar from hammering the aggregate endpoint.
	popularPromptsTTL = 2 * time.Minute
)

type Backend struct {
	api     restclient.Doer
	log     *zap.Logger
	popular cache.Cache[string, []domain.PromptStat]
}

func New(api restclient.Doer, log *zap.Logger) *Backend {
	return &Backend{
		api:     api,
		log:     log.Named("history.remote"),
		popular: cache.NewTTLCache[string, []domain.PromptStat](),
	}
}

// Record is a no-op: the server records every task it completes.
func (b *Backend) Record(ctx context.Context, id identitydomain.Identity, rec *domain.Record) error {
	b.log.Debug("record skipped, history is server-side", zap.String("actor", id.Key()))
	return nil
}

func (b *Backend) List(ctx context.Context, id identitydomain.Identity, page pagination.Pagination) (pagination.Page[domain.Record], error) {
	query := pageQuery(id, page)
	query.Set("includeDeleted", "false")

	var result pagination.Page[domain.Record]
	if err := b.api.Get(ctx, basePath+"/list", query, &result); err != nil {
		return pagination.Page[domain.Record]{}, err
	}
	return result, nil
}

func (b *Backend) Favorites(ctx context.Context, id identitydomain.Identity, page pagination.Pagination) (pagination.Page[domain.Record], error) {
	var result pagination.Page[domain.Record]
	if err := b.api.Get(ctx, basePath+"/favorites", pageQuery(id, page), &result); err != nil {
		return pagination.Page[domain.Record]{}, err
	}
	return result, nil
}

func (b *Backend) Search(ctx context.Context, id identitydomain.Identity, keyword string, page pagination.Pagination) (pagination.Page[domain.Record], error) {
	query := pageQuery(id, page)
	query.Set("keyword", keyword)

	var result pagination.Page[domain.Record]
	if err := b.api.Get(ctx, basePath+"/search", query, &result); err != nil {
		return pagination.Page[domain.Record]{}, err
	}
	return result, nil
}

func (b *Backend) Recent(ctx context.Context, id identitydomain.Identity, limit int) ([]domain.Record, error) {
	query := identityQuery(id)
	query.Set("limit", strconv.Itoa(limit))

	var records []domain.Record
	if err := b.api.Get(ctx, basePath+"/recent", query, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (b *Backend) PopularPrompts(ctx context.Context, id identitydomain.Identity, limit int) ([]domain.PromptStat, error) {
	cacheKey := id.Key() + "|" + strconv.Itoa(limit)
	if stats, ok := b.popular.Get(cacheKey); ok {
		return stats, nil
	}

	query := identityQuery(id)
	query.Set("limit", strconv.Itoa(limit))

	var stats []domain.PromptStat
	if err := b.api.Get(ctx, basePath+"/popular-prompts", query, &stats); err != nil {
		return nil, err
	}
	b.popular.Set(cacheKey, stats, popularPromptsTTL)
	return stats, nil
}

func (b *Backend) ToggleFavorite(ctx context.Context, id identitydomain.Identity, recordID int64) (bool, error) {
	var result struct {
		IsFavorite bool `json:"isFavorite"`
	}
	path := basePath + "/" + strconv.FormatInt(recordID, 10) + "/favorite"
	if err := b.api.Post(ctx, path, identityBody(id), &result); err != nil {
		return false, err
	}
	return result.IsFavorite, nil
}

func (b *Backend) IncrementView(ctx context.Context, id identitydomain.Identity, recordID int64) error {
	path := basePath + "/" + strconv.FormatInt(recordID, 10) + "/view"
	return b.api.Post(ctx, path, identityBody(id), nil)
}

func (b *Backend) IncrementDownload(ctx context.Context, id identitydomain.Identity, recordID int64) error {
	path := basePath + "/" + strconv.FormatInt(recordID, 10) + "/download"
	return b.api.Post(ctx, path, identityBody(id), nil)
}

func (b *Backend) Delete(ctx context.Context, id identitydomain.Identity, recordID int64) error {
	path := basePath + "/" + strconv.FormatInt(recordID, 10)
	return b.api.Delete(ctx, path, identityBody(id), nil)
}

func (b *Backend) BatchDelete(ctx context.Context, id identitydomain.Identity, recordIDs []int64) (int, error) {
	payload := identityBody(id)
	payload["ids"] = recordIDs

	var result struct {
		Deleted int `json:"deleted"`
	}
	if err := b.api.Delete(ctx, basePath+"/batch", payload, &result); err != nil {
		return 0, err
	}
	return result.Deleted, nil
}

func (b *Backend) Restore(ctx context.Context, id identitydomain.Identity, recordID int64) error {
	path := basePath + "/" + strconv.FormatInt(recordID, 10) + "/restore"
	return b.api.Post(ctx, path, identityBody(id), nil)
}

func pageQuery(id identitydomain.Identity, page pagination.Pagination) url.Values {
	page = page.Normalize()
	query := identityQuery(id)
	query.Set("pageNum", strconv.Itoa(page.PageNum))
	query.Set("pageSize", strconv.Itoa(page.PageSize))
	return query
}

func identityQuery(id identitydomain.Identity) url.Values {
	query := url.Values{}
	if id.UserID != 0 {
		query.Set("userId", strconv.FormatInt(id.UserID, 10))
	} else if id.SessionID != "" {
		query.Set("sessionId", id.SessionID)
	}
	return query
}

func identityBody(id identitydomain.Identity) map[string]any {
	payload := map[string]any{}
	if id.UserID != 0 {
		payload["userId"] = id.UserID
	} else if id.SessionID != "" {
		payload["sessionId"] = id.SessionID
	}
	return payload
}
