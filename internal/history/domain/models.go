package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Record is one generated image kept in the actor's history. Deletes
// are soft so a record can be restored.
type Record struct {
	ID            int64              `json:"id" gorm:"primaryKey"`
	ActorKey      string             `json:"-" gorm:"index;size:64;not null"`
	ImageURL      string             `json:"imageUrl"`
	Prompt        string             `json:"prompt" gorm:"index"`
	ModelUsed     string             `json:"modelUsed"`
	ImageWidth    int                `json:"imageWidth"`
	ImageHeight   int                `json:"imageHeight"`
	Seed          int64              `json:"seed,omitempty"`
	CreditsUsed   int64              `json:"creditsUsed"`
	IsFavorite    bool               `json:"isFavorite"`
	ViewCount     int64              `json:"viewCount"`
	DownloadCount int64              `json:"downloadCount"`
	Metadata      datatypes.JSONMap  `json:"metadata,omitempty"`
	CreatedTime   time.Time          `json:"createdTime"`
	DeletedAt     gorm.DeletedAt     `json:"-" gorm:"index"`
}

func (Record) TableName() string { return "generation_records" }

// PromptStat aggregates how often a prompt was used.
type PromptStat struct {
	Prompt string `json:"prompt"`
	Count  int64  `json:"count"`
}
