package domain

import (
	"fmt"
	"time"
)

// Identity is the actor key for all credit and history state: an
// authenticated user id or a persisted anonymous session id, never both.
type Identity struct {
	UserID    int64  `json:"userId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

func (i Identity) IsAnonymous() bool {
	return i.UserID == 0
}

// Key returns the storage key the local backends scope rows by.
func (i Identity) Key() string {
	if i.UserID != 0 {
		return fmt.Sprintf("user:%d", i.UserID)
	}
	return "anon:" + i.SessionID
}

// ClientState is a key/value row in the embedded store. It carries the
// durable per-installation state the browser build keeps in
// localStorage: the anonymous session id and one-shot flags.
type ClientState struct {
	Key       string    `gorm:"primaryKey;type:text" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (ClientState) TableName() string { return "client_state" }
