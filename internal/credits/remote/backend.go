// Package remote backs the credits adapter with the REST API.
package remote

import (
	"context"
	"net/url"
	"strconv"

	"github.com/JasonHunterX/Visiora/internal/credits/domain"
	identitydomain "github.com/JasonHunterX/Visiora/internal/identity/domain"
	"github.com/JasonHunterX/Visiora/pkg/db/pagination"
	"github.com/JasonHunterX/Visiora/pkg/restclient"
	"go.uber.org/zap"
)

const basePath = "/api/ai-drawing/credits"

type Backend struct {
	api restclient.Doer
	log *zap.Logger
}

func New(api restclient.Doer, log *zap.Logger) *Backend {
	return &Backend{
		api: api,
		log: log.Named("credits.remote"),
	}
}

func (b *Backend) GetBalance(ctx context.Context, id identitydomain.Identity) (domain.Balance, error) {
	var balance domain.Balance
	if err := b.api.Get(ctx, basePath+"/info", identityQuery(id), &balance); err != nil {
		return domain.Balance{}, err
	}
	return balance, nil
}

func (b *Backend) Check(ctx context.Context, id identitydomain.Identity, required int64) (domain.CheckResult, error) {
	payload := identityBody(id)
	payload["requiredCredits"] = required

	var result domain.CheckResult
	if err := b.api.Post(ctx, basePath+"/check", payload, &result); err != nil {
		return domain.CheckResult{}, err
	}
	return result, nil
}

func (b *Backend) Grant(ctx context.Context, id identitydomain.Identity, amount int64, txType domain.TransactionType, description string) error {
	payload := identityBody(id)
	payload["amount"] = amount
	payload["description"] = description
	return b.api.Post(ctx, basePath+"/add", payload, nil)
}

// Consume is a no-op: the backend deducts credits itself as a side
// effect of task submission.
func (b *Backend) Consume(ctx context.Context, id identitydomain.Identity, amount int64, description string) error {
	b.log.Debug("consume skipped, deduction is server-side",
		zap.String("actor", id.Key()),
		zap.Int64("amount", amount),
	)
	return nil
}

func (b *Backend) Transfer(ctx context.Context, sessionID string, userID int64) error {
	payload := map[string]any{
		"sessionId": sessionID,
		"userId":    userID,
	}
	return b.api.Post(ctx, basePath+"/transfer", payload, nil)
}

func (b *Backend) ListTransactions(ctx context.Context, id identitydomain.Identity, page pagination.Pagination) (pagination.Page[domain.Transaction], error) {
	page = page.Normalize()
	query := identityQuery(id)
	query.Set("pageNum", strconv.Itoa(page.PageNum))
	query.Set("pageSize", strconv.Itoa(page.PageSize))

	var result pagination.Page[domain.Transaction]
	if err := b.api.Get(ctx, basePath+"/transactions", query, &result); err != nil {
		return pagination.Page[domain.Transaction]{}, err
	}
	return result, nil
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
