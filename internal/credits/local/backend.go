// Package local backs the credits adapter with the embedded database,
// the Go rendition of the web client's localStorage counters.
package local

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JasonHunterX/Visiora/internal/config"
	"github.com/JasonHunterX/Visiora/internal/credits/domain"
	identitydomain "github.com/JasonHunterX/Visiora/internal/identity/domain"
	"github.com/JasonHunterX/Visiora/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Backend struct {
	db               *gorm.DB
	log              *zap.Logger
	genID            *snowflake.Node
	freeDailyCredits int64
}

func New(gdb *gorm.DB, log *zap.Logger, genID *snowflake.Node, cfg config.Config) (*Backend, error) {
	if err := gdb.AutoMigrate(&domain.Account{}, &domain.Transaction{}); err != nil {
		return nil, fmt.Errorf("migrate credit tables: %w", err)
	}
	return &Backend{
		db:               gdb,
		log:              log.Named("credits.local"),
		genID:            genID,
		freeDailyCredits: cfg.FreeDailyCredits,
	}, nil
}

func (b *Backend) GetBalance(ctx context.Context, id identitydomain.Identity) (domain.Balance, error) {
	account, err := b.ensureAccount(ctx, b.db, id)
	if err != nil {
		return domain.Balance{}, err
	}
	return b.balanceOf(account, id), nil
}

func (b *Backend) Check(ctx context.Context, id identitydomain.Identity, required int64) (domain.CheckResult, error) {
	balance, err := b.GetBalance(ctx, id)
	if err != nil {
		return domain.CheckResult{}, err
	}
	if balance.RemainingCredits >= required {
		return domain.CheckResult{
			Sufficient:      true,
			RequiredCredits: required,
			Message:         "credits sufficient",
		}, nil
	}
	return domain.CheckResult{
		Sufficient:      false,
		RequiredCredits: required,
		Message:         "insufficient credits",
	}, nil
}

func (b *Backend) Grant(ctx context.Context, id identitydomain.Identity, amount int64, txType domain.TransactionType, description string) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := b.ensureAccount(ctx, tx, id)
		if err != nil {
			return err
		}
		account.Balance += amount
		account.UpdatedAt = time.Now().UTC()
		if err := tx.Save(account).Error; err != nil {
			return err
		}
		return b.appendTransaction(ctx, tx, id.Key(), txType, description, amount, account.Balance)
	})
}

func (b *Backend) Consume(ctx context.Context, id identitydomain.Identity, amount int64, description string) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := b.ensureAccount(ctx, tx, id)
		if err != nil {
			return err
		}
		if account.Balance < amount {
			return domain.ErrInsufficientCredits
		}
		account.Balance -= amount
		account.UpdatedAt = time.Now().UTC()
		if err := tx.Save(account).Error; err != nil {
			return err
		}
		return b.appendTransaction(ctx, tx, id.Key(), domain.TxConsume, description, -amount, account.Balance)
	})
}

func (b *Backend) Transfer(ctx context.Context, sessionID string, userID int64) error {
	if userID <= 0 {
		return domain.ErrNotLoggedIn
	}
	anon := identitydomain.Identity{SessionID: sessionID}
	user := identitydomain.Identity{UserID: userID}

	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		anonAccount, err := b.ensureAccount(ctx, tx, anon)
		if err != nil {
			return err
		}
		if anonAccount.Balance == 0 {
			return nil
		}
		userAccount, err := b.ensureAccount(ctx, tx, user)
		if err != nil {
			return err
		}

		moved := anonAccount.Balance
		now := time.Now().UTC()

		anonAccount.Balance = 0
		anonAccount.UpdatedAt = now
		if err := tx.Save(anonAccount).Error; err != nil {
			return err
		}
		userAccount.Balance += moved
		userAccount.UpdatedAt = now
		if err := tx.Save(userAccount).Error; err != nil {
			return err
		}

		description := fmt.Sprintf("transfer from %s", sessionID)
		if err := b.appendTransaction(ctx, tx, anon.Key(), domain.TxOther, "transfer to account", -moved, 0); err != nil {
			return err
		}
		return b.appendTransaction(ctx, tx, user.Key(), domain.TxOther, description, moved, userAccount.Balance)
	})
}

func (b *Backend) ListTransactions(ctx context.Context, id identitydomain.Identity, page pagination.Pagination) (pagination.Page[domain.Transaction], error) {
	page = page.Normalize()

	var total int64
	if err := b.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("actor_key = ?", id.Key()).
		Count(&total).Error; err != nil {
		return pagination.Page[domain.Transaction]{}, err
	}

	var records []domain.Transaction
	if err := b.db.WithContext(ctx).
		Where("actor_key = ?", id.Key()).
		Order("created_time desc, id desc").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&records).Error; err != nil {
		return pagination.Page[domain.Transaction]{}, err
	}

	return pagination.NewPage(records, total, page), nil
}

// ensureAccount reads the actor's balance row, seeding a fresh account
// with the free daily grant on first contact.
func (b *Backend) ensureAccount(ctx context.Context, tx *gorm.DB, id identitydomain.Identity) (*domain.Account, error) {
	var account domain.Account
	err := tx.WithContext(ctx).
		Where("actor_key = ?", id.Key()).
		First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	account = domain.Account{
		ActorKey:  id.Key(),
		Balance:   b.freeDailyCredits,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, err
	}
	if b.freeDailyCredits > 0 {
		if err := b.appendTransaction(ctx, tx, id.Key(), domain.TxDailyReset, "daily free credits", b.freeDailyCredits, account.Balance); err != nil {
			return nil, err
		}
	}
	return &account, nil
}

func (b *Backend) appendTransaction(ctx context.Context, tx *gorm.DB, actorKey string, txType domain.TransactionType, description string, change, balanceAfter int64) error {
	record := domain.Transaction{
		ID:              b.genID.Generate().Int64(),
		ActorKey:        actorKey,
		TransactionType: txType,
		Description:     description,
		CreditsChange:   change,
		BalanceAfter:    balanceAfter,
		IsIncrease:      change > 0,
		CreatedTime:     time.Now().UTC(),
	}
	return tx.WithContext(ctx).Create(&record).Error
}

func (b *Backend) balanceOf(account *domain.Account, id identitydomain.Identity) domain.Balance {
	return domain.Balance{
		TotalCredits:     account.Balance,
		UsedCredits:      0,
		RemainingCredits: account.Balance,
		FreeDailyCredits: b.freeDailyCredits,
		IsAnonymous:      id.IsAnonymous(),
	}
}
