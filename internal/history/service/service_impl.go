package service

import (
	"context"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/JasonHunterX/Visiora/internal/history/domain"
	identitydomain "github.com/JasonHunterX/Visiora/internal/identity/domain"
	"github.com/JasonHunterX/Visiora/pkg/db/pagination"
)

const (
	defaultRecentLimit  = 10
	defaultPopularLimit = 10
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Identity identitydomain.Service
	Backend  domain.Backend
}

type Service struct {
	log      *zap.Logger
	identity identitydomain.Service
	backend  domain.Backend
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("history.service"),
		identity: p.Identity,
		backend:  p.Backend,
	}
}

func (s *Service) List(ctx context.Context, userID int64, page pagination.Pagination) pagination.Page[domain.Record] {
	page = page.Normalize()
	id, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		s.log.Warn("identity resolution failed, reporting empty history", zap.Error(err))
		return pagination.Empty[domain.Record](page)
	}

	result, err := s.backend.List(ctx, id, page)
	if err != nil {
		s.softFail("history list", id, err)
		return pagination.Empty[domain.Record](page)
	}
	return result
}

func (s *Service) Favorites(ctx context.Context, userID int64, page pagination.Pagination) pagination.Page[domain.Record] {
	page = page.Normalize()
	id, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		s.log.Warn("identity resolution failed, reporting empty favorites", zap.Error(err))
		return pagination.Empty[domain.Record](page)
	}

	result, err := s.backend.Favorites(ctx, id, page)
	if err != nil {
		s.softFail("favorites list", id, err)
		return pagination.Empty[domain.Record](page)
	}
	return result
}

func (s *Service) Search(ctx context.Context, userID int64, keyword string, page pagination.Pagination) (pagination.Page[domain.Record], error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return pagination.Page[domain.Record]{}, domain.ErrEmptyKeyword
	}
	page = page.Normalize()

	id, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return pagination.Page[domain.Record]{}, err
	}
	return s.backend.Search(ctx, id, keyword, page)
}

func (s *Service) Recent(ctx context.Context, userID int64, limit int) []domain.Record {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	id, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		s.log.Warn("identity resolution failed, reporting no recent records", zap.Error(err))
		return []domain.Record{}
	}

	records, err := s.backend.Recent(ctx, id, limit)
	if err != nil {
		s.softFail("recent records", id, err)
		return []domain.Record{}
	}
	if records == nil {
		records = []domain.Record{}
	}
	return records
}

func (s *Service) PopularPrompts(ctx context.Context, userID int64, limit int) []domain.PromptStat {
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	id, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		s.log.Warn("identity resolution failed, reporting no popular prompts", zap.Error(err))
		return []domain.PromptStat{}
	}

	stats, err := s.backend.PopularPrompts(ctx, id, limit)
	if err != nil {
		s.softFail("popular prompts", id, err)
		return []domain.PromptStat{}
	}
	if stats == nil {
		stats = []domain.PromptStat{}
	}
	return stats
}

func (s *Service) ToggleFavorite(ctx context.Context, userID int64, recordID int64) (bool, error) {
	id, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.backend.ToggleFavorite(ctx, id, recordID)
}

func (s *Service) RecordView(ctx context.Context, userID int64, recordID int64) {
	s.fireAndForget(ctx, userID, recordID, "view", s.backend.IncrementView)
}

func (s *Service) RecordDownload(ctx context.Context, userID int64, recordID int64) {
	s.fireAndForget(ctx, userID, recordID, "download", s.backend.IncrementDownload)
}

func (s *Service) Delete(ctx context.Context, userID int64, recordID int64) error {
	id, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return err
	}
	return s.backend.Delete(ctx, id, recordID)
}

func (s *Service) BatchDelete(ctx context.Context, userID int64, recordIDs []int64) (int, error) {
	if len(recordIDs) == 0 {
		return 0, domain.ErrNoRecordIDs
	}
	id, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.backend.BatchDelete(ctx, id, recordIDs)
}

func (s *Service) Restore(ctx context.Context, userID int64, recordID int64) error {
	id, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return err
	}
	return s.backend.Restore(ctx, id, recordID)
}

func (s *Service) softFail(what string, id identitydomain.Identity, err error) {
	s.log.Warn(what+" failed, degrading to empty result",
		zap.String("actor", id.Key()),
		zap.Error(err),
	)
}

func (s *Service) fireAndForget(
	ctx context.Context,
	userID int64,
	recordID int64,
	counter string,
	inc func(context.Context, identitydomain.Identity, int64) error,
) {
	id, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		s.log.Debug("identity resolution failed, dropping counter update",
			zap.String("counter", counter),
			zap.Error(err),
		)
		return
	}
	if err := inc(ctx, id, recordID); err != nil {
		s.log.Debug("counter update dropped",
			zap.String("counter", counter),
			zap.Int64("record_id", recordID),
			zap.Error(err),
		)
	}
}
