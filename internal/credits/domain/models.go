package domain

import (
	"time"
)

// TransactionType classifies ledger entries.
type TransactionType string

const (
	TxDailyReset TransactionType = "DAILY_RESET"
	TxBonus      TransactionType = "BONUS"
	TxPurchase   TransactionType = "PURCHASE"
	TxConsume    TransactionType = "CONSUME"
	TxOther      TransactionType = "OTHER"
)

// Balance is the credit state reported for one actor.
// Invariant (maintained by the backing store): RemainingCredits =
// TotalCredits - UsedCredits.
type Balance struct {
	TotalCredits     int64 `json:"totalCredits"`
	UsedCredits      int64 `json:"usedCredits"`
	RemainingCredits int64 `json:"remainingCredits"`
	FreeDailyCredits int64 `json:"freeDailyCredits"`
	BonusCredits     int64 `json:"bonusCredits"`
	PurchasedCredits int64 `json:"purchasedCredits"`
	IsAnonymous      bool  `json:"isAnonymous"`
	NeedsDailyReset  bool  `json:"needsDailyReset"`
}

// CheckResult is the outcome of a sufficiency check. It never reflects
// a mutation.
type CheckResult struct {
	Sufficient      bool   `json:"hasEnoughCredits"`
	RequiredCredits int64  `json:"requiredCredits"`
	Message         string `json:"message"`
}

// Transaction is one append-only ledger entry. Immutable once created.
type Transaction struct {
	ID              int64           `gorm:"primaryKey" json:"id"`
	ActorKey        string          `gorm:"not null;index" json:"-"`
	TransactionType TransactionType `gorm:"type:text;not null" json:"transactionType"`
	Description     string          `gorm:"type:text" json:"description"`
	CreditsChange   int64           `gorm:"not null" json:"creditsChange"`
	BalanceAfter    int64           `gorm:"not null" json:"balanceAfter"`
	IsIncrease      bool            `gorm:"not null" json:"isIncrease"`
	CreatedTime     time.Time       `gorm:"not null;index" json:"createdTime"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "credit_transactions" }

// Account is the local-mode balance row, one per actor key. Used
// credits are not tracked locally; the balance is a single integer.
type Account struct {
	ActorKey  string    `gorm:"primaryKey;type:text" json:"actor_key"`
	Balance   int64     `gorm:"not null" json:"balance"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Account) TableName() string { return "credit_accounts" }
