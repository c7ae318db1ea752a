package service

import (
	"context"
	"math/rand"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/JasonHunterX/Visiora/internal/clock"
	"github.com/JasonHunterX/Visiora/internal/config"
	"github.com/JasonHunterX/Visiora/internal/generation/domain"
	identitydomain "github.com/JasonHunterX/Visiora/internal/identity/domain"
	"github.com/JasonHunterX/Visiora/pkg/restclient"
)

const (
	defaultWidth  = 1024
	defaultHeight = 1024
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Config   config.Config
	Pricing  *config.PricingConfigHolder
	Clock    clock.Clock
	Identity identitydomain.Service
	Backend  domain.Backend
}

type Service struct {
	log      *zap.Logger
	cfg      config.Config
	pricing  *config.PricingConfigHolder
	clk      clock.Clock
	identity identitydomain.Service
	backend  domain.Backend
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("generation.service"),
		cfg:      p.Config,
		pricing:  p.Pricing,
		clk:      p.Clock,
		identity: p.Identity,
		backend:  p.Backend,
	}
}

func (s *Service) Generate(ctx context.Context, userID int64, req domain.GenerateRequest, progress domain.ProgressFunc) (domain.Task, error) {
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return domain.Task{}, domain.ErrEmptyPrompt
	}
	s.applyDefaults(&req)

	id, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return domain.Task{}, err
	}

	report(progress, 5)

	task, err := s.backend.CreateTask(ctx, id, req)
	if err != nil {
		return domain.Task{}, err
	}

	// Synchronous backends hand back a finished task right away.
	if task.Status == domain.StatusCompleted && task.ImageURL != "" {
		report(progress, 100)
		return task, nil
	}
	if task.Status == domain.StatusFailed {
		return task, &domain.TaskFailedError{TaskID: task.TaskID, Message: task.ErrorMessage}
	}

	result, err := s.PollTask(ctx, task.TaskID, progress)
	if err != nil {
		task.Status = domain.StatusFailed
		task.ErrorMessage = err.Error()
		return task, err
	}
	task.Status = domain.StatusCompleted
	task.ImageURL = result.ImageURL
	return task, nil
}

// PollTask drives a submitted task to a terminal state. Transport
// errors on individual attempts are transient and retried; a FAILED
// status or a business error ends the loop immediately.
func (s *Service) PollTask(ctx context.Context, taskID string, progress domain.ProgressFunc) (domain.PollResult, error) {
	maxAttempts := s.cfg.PollMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 30
	}
	interval := s.cfg.PollInterval

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		status, err := s.backend.TaskStatus(ctx, taskID)
		switch {
		case err == nil:
			switch status.Status {
			case domain.StatusCompleted:
				report(progress, 100)
				s.log.Info("task completed",
					zap.String("task_id", taskID),
					zap.Int("attempts", attempt),
				)
				return domain.PollResult{ImageURL: status.ImageURL, Attempts: attempt}, nil
			case domain.StatusFailed:
				return domain.PollResult{Attempts: attempt},
					&domain.TaskFailedError{TaskID: taskID, Message: status.ErrorMessage}
			}
			// still pending
		case restclient.IsTransport(err):
			s.log.Warn("task status check failed",
				zap.String("task_id", taskID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			if attempt == maxAttempts {
				return domain.PollResult{Attempts: attempt}, domain.ErrStatusQueryTimeout
			}
		default:
			return domain.PollResult{Attempts: attempt}, err
		}

		report(progress, pollProgress(attempt, maxAttempts))

		if attempt == maxAttempts {
			break
		}
		if err := s.clk.Sleep(ctx, interval); err != nil {
			return domain.PollResult{Attempts: attempt}, err
		}
	}
	return domain.PollResult{Attempts: maxAttempts}, domain.ErrTaskTimeout
}

func (s *Service) TaskStatus(ctx context.Context, taskID string) (domain.TaskStatus, error) {
	if strings.TrimSpace(taskID) == "" {
		return domain.TaskStatus{}, domain.ErrTaskNotFound
	}
	return s.backend.TaskStatus(ctx, taskID)
}

func (s *Service) EnhancePrompt(ctx context.Context, prompt string) domain.EnhanceResult {
	fallback := domain.EnhanceResult{Original: prompt, Enhanced: prompt, Improved: false}
	if strings.TrimSpace(prompt) == "" {
		return fallback
	}

	result, err := s.backend.EnhancePrompt(ctx, prompt)
	if err != nil {
		s.log.Warn("prompt enhancement failed, using original prompt", zap.Error(err))
		return fallback
	}
	if strings.TrimSpace(result.Enhanced) == "" {
		return fallback
	}
	if result.Original == "" {
		result.Original = prompt
	}
	result.Improved = result.Enhanced != result.Original
	return result
}

func (s *Service) Models(ctx context.Context) ([]domain.Model, error) {
	models, err := s.backend.Models(ctx)
	if err != nil {
		return nil, err
	}
	return models, nil
}

func (s *Service) applyDefaults(req *domain.GenerateRequest) {
	if req.Model == "" {
		req.Model = s.pricing.Get().DefaultModel
	}
	if req.Width <= 0 {
		req.Width = defaultWidth
	}
	if req.Height <= 0 {
		req.Height = defaultHeight
	}
	if req.Seed == 0 {
		req.Seed = rand.Int63n(1000)
	}
}

func report(progress domain.ProgressFunc, percent int) {
	if progress != nil {
		progress(percent)
	}
}

// pollProgress maps attempts onto a 10..90 ramp. The real completion
// signal is the status, not this number.
func pollProgress(attempt, maxAttempts int) int {
	p := 10 + attempt*80/maxAttempts
	if p > 90 {
		p = 90
	}
	return p
}
