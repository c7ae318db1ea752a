package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/JasonHunterX/Visiora/internal/identity/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	sessionKey        = "anonymous_session_id"
	transferredPrefix = "credits_transferred:"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository

	mu     sync.Mutex
	cached string
}

func New(p Params) (domain.Service, error) {
	if err := p.DB.AutoMigrate(&domain.ClientState{}); err != nil {
		return nil, fmt.Errorf("migrate client state: %w", err)
	}
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("identity.service"),
		repo: p.Repo,
	}, nil
}

func (s *Service) Resolve(ctx context.Context, userID int64) (domain.Identity, error) {
	if userID < 0 {
		return domain.Identity{}, domain.ErrInvalidUser
	}
	if userID > 0 {
		return domain.Identity{UserID: userID}, nil
	}

	sessionID, err := s.SessionID(ctx)
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{SessionID: sessionID}, nil
}

func (s *Service) SessionID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != "" {
		return s.cached, nil
	}

	existing, err := s.repo.Get(ctx, s.db, sessionKey)
	if err != nil {
		return "", err
	}
	if existing != "" {
		s.cached = existing
		return existing, nil
	}

	created, err := s.repo.SetIfAbsent(ctx, s.db, sessionKey, newSessionID())
	if err != nil {
		return "", err
	}
	s.log.Info("anonymous session created", zap.String("session_id", created))
	s.cached = created
	return created, nil
}

func (s *Service) HasTransferred(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, domain.ErrInvalidUser
	}
	value, err := s.repo.Get(ctx, s.db, transferredKey(userID))
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

func (s *Service) MarkTransferred(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return domain.ErrInvalidUser
	}
	return s.repo.Set(ctx, s.db, transferredKey(userID), "true")
}

func transferredKey(userID int64) string {
	return fmt.Sprintf("%s%d", transferredPrefix, userID)
}

func newSessionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("sess_%d_%s", time.Now().UnixMilli(), suffix)
}
