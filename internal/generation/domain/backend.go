package domain

import (
	"context"

	identitydomain "github.com/JasonHunterX/Visiora/internal/identity/domain"
)

// Backend submits generation work and reports task state. The local
// implementation completes tasks synchronously and does its own
// credits and history bookkeeping; the remote one delegates both to
// the server.
type Backend interface {
	CreateTask(ctx context.Context, id identitydomain.Identity, req GenerateRequest) (Task, error)
	TaskStatus(ctx context.Context, taskID string) (TaskStatus, error)
	EnhancePrompt(ctx context.Context, prompt string) (EnhanceResult, error)
	Models(ctx context.Context) ([]Model, error)
}
