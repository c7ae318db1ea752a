package service

import (
	"context"

	"github.com/JasonHunterX/Visiora/internal/config"
	"github.com/JasonHunterX/Visiora/internal/credits/domain"
	identitydomain "github.com/JasonHunterX/Visiora/internal/identity/domain"
	"github.com/JasonHunterX/Visiora/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Config   config.Config
	Identity identitydomain.Service
	Backend  domain.Backend
}

type Service struct {
	log      *zap.Logger
	cfg      config.Config
	identity identitydomain.Service
	backend  domain.Backend
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("credits.service"),
		cfg:      p.Config,
		identity: p.Identity,
		backend:  p.Backend,
	}
}

func (s *Service) GetBalance(ctx context.Context, userID int64) domain.Balance {
	id, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		s.log.Warn("identity resolution failed, reporting default balance", zap.Error(err))
		return s.defaultBalance(userID == 0)
	}

	balance, err := s.backend.GetBalance(ctx, id)
	if err != nil {
		// Non-fatal UI degradation: report zero remaining instead of
		// failing the caller.
		s.log.Warn("balance fetch failed, reporting default balance",
			zap.String("actor", id.Key()),
			zap.Error(err),
		)
		return s.defaultBalance(id.IsAnonymous())
	}
	return balance
}

func (s *Service) CheckSufficient(ctx context.Context, userID int64, required int64) domain.CheckResult {
	failClosed := func(message string) domain.CheckResult {
		return domain.CheckResult{
			Sufficient:      false,
			RequiredCredits: required,
			Message:         message,
		}
	}

	id, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return failClosed("credit check failed")
	}

	result, err := s.backend.Check(ctx, id, required)
	if err != nil {
		// Safer to block a paid action than to risk a negative balance.
		s.log.Warn("credit check failed",
			zap.String("actor", id.Key()),
			zap.Error(err),
		)
		return failClosed("credit check failed")
	}
	return result
}

func (s *Service) Grant(ctx context.Context, userID int64, amount int64, description string) (bool, error) {
	if amount <= 0 {
		return false, domain.ErrInvalidAmount
	}
	id, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	txType := domain.TxBonus
	if err := s.backend.Grant(ctx, id, amount, txType, description); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) Consume(ctx context.Context, userID int64, amount int64, description string) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	id, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return err
	}
	return s.backend.Consume(ctx, id, amount, description)
}

func (s *Service) TransferAnonymousToUser(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, domain.ErrNotLoggedIn
	}

	done, err := s.identity.HasTransferred(ctx, userID)
	if err != nil {
		return false, err
	}
	if done {
		// One-shot: a repeated login re-render never transfers twice.
		return true, nil
	}

	sessionID, err := s.identity.SessionID(ctx)
	if err != nil {
		return false, err
	}

	if err := s.backend.Transfer(ctx, sessionID, userID); err != nil {
		return false, err
	}
	if err := s.identity.MarkTransferred(ctx, userID); err != nil {
		s.log.Error("transfer flag persist failed, duplicate transfer possible",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
	s.log.Info("anonymous credits transferred",
		zap.String("session_id", sessionID),
		zap.Int64("user_id", userID),
	)
	return true, nil
}

func (s *Service) ListTransactions(ctx context.Context, userID int64, page pagination.Pagination) (pagination.Page[domain.Transaction], error) {
	id, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return pagination.Empty[domain.Transaction](page), err
	}
	result, err := s.backend.ListTransactions(ctx, id, page)
	if err != nil {
		s.log.Warn("transaction list failed",
			zap.String("actor", id.Key()),
			zap.Error(err),
		)
		return pagination.Empty[domain.Transaction](page), nil
	}
	return result, nil
}

func (s *Service) defaultBalance(isAnonymous bool) domain.Balance {
	return domain.Balance{
		RemainingCredits: 0,
		FreeDailyCredits: s.cfg.FreeDailyCredits,
		IsAnonymous:      isAnonymous,
	}
}
