// Package remote backs the generation adapter with the REST API.
package remote

import (
	"context"

	"go.uber.org/zap"

	"github.com/JasonHunterX/Visiora/internal/generation/domain"
	identitydomain "github.com/JasonHunterX/Visiora/internal/identity/domain"
	"github.com/JasonHunterX/Visiora/pkg/restclient"
)

const basePath = "/api/ai-drawing"

type Backend struct {
	api restclient.Doer
	log *zap.Logger
}

func New(api restclient.Doer, log *zap.Logger) *Backend {
	return &Backend{
		api: api,
		log: log.Named("generation.remote"),
	}
}

func (b *Backend) CreateTask(ctx context.Context, id identitydomain.Identity, req domain.GenerateRequest) (domain.Task, error) {
	payload := map[string]any{
		"prompt":          req.Prompt,
		"model":           req.Model,
		"width":           req.Width,
		"height":          req.Height,
		"seed":            req.Seed,
		"removeWatermark": req.RemoveWatermark,
		"enhancePrompt":   req.EnhancePrompt,
	}
	if id.UserID != 0 {
		payload["userId"] = id.UserID
	} else if id.SessionID != "" {
		payload["sessionId"] = id.SessionID
	}

	var task domain.Task
	if err := b.api.Post(ctx, basePath+"/generate", payload, &task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (b *Backend) TaskStatus(ctx context.Context, taskID string) (domain.TaskStatus, error) {
	var status domain.TaskStatus
	if err := b.api.Get(ctx, basePath+"/task/"+taskID, nil, &status); err != nil {
		return domain.TaskStatus{}, err
	}
	if status.TaskID == "" {
		status.TaskID = taskID
	}
	return status, nil
}

func (b *Backend) EnhancePrompt(ctx context.Context, prompt string) (domain.EnhanceResult, error) {
	payload := map[string]any{"prompt": prompt}

	var result domain.EnhanceResult
	if err := b.api.Post(ctx, basePath+"/enhance-prompt", payload, &result); err != nil {
		return domain.EnhanceResult{}, err
	}
	if result.Original == "" {
		result.Original = prompt
	}
	return result, nil
}

func (b *Backend) Models(ctx context.Context) ([]domain.Model, error) {
	var models []domain.Model
	if err := b.api.Get(ctx, basePath+"/models", nil, &models); err != nil {
		return nil, err
	}
	b.log.Debug("models fetched", zap.Int("count", len(models)))
	return models, nil
}
