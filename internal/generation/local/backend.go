package local

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JasonHunterX/Visiora/internal/cache"
	"github.com/JasonHunterX/Visiora/internal/clock"
	"github.com/JasonHunterX/Visiora/internal/config"
	creditsdomain "github.com/JasonHunterX/Visiora/internal/credits/domain"
	"github.com/JasonHunterX/Visiora/internal/generation/domain"
	historydomain "github.com/JasonHunterX/Visiora/internal/history/domain"
	identitydomain "github.com/JasonHunterX/Visiora/internal/identity/domain"
)

const (
	imageBaseURL = "https://image.pollinations.ai"

	// Completed local tasks stay queryable for a while so a client can
	// re-fetch a status it already observed.
	taskTTL = 10 * time.Minute
)

// Backend generates images by constructing a hosted-renderer URL. The
// render happens when the URL is fetched, so tasks complete at
// creation time. Credits and history bookkeeping happen here because
// there is no server to do them.
type Backend struct {
	log     *zap.Logger
	pricing *config.PricingConfigHolder
	clk     clock.Clock
	genID   *snowflake.Node
	credits creditsdomain.Backend
	history historydomain.Backend
	tasks   cache.Cache[string, domain.TaskStatus]
}

func New(
	log *zap.Logger,
	pricing *config.PricingConfigHolder,
	clk clock.Clock,
	genID *snowflake.Node,
	credits creditsdomain.Backend,
	history historydomain.Backend,
) *Backend {
	return &Backend{
		log:     log.Named("generation.local"),
		pricing: pricing,
		clk:     clk,
		genID:   genID,
		credits: credits,
		history: history,
		tasks:   cache.NewTTLCache[string, domain.TaskStatus](),
	}
}

func (b *Backend) CreateTask(ctx context.Context, id identitydomain.Identity, req domain.GenerateRequest) (domain.Task, error) {
	cost := b.pricing.Get().CreditsFor(req.Model)

	if err := b.credits.Consume(ctx, id, cost, fmt.Sprintf("Image generation (%s)", req.Model)); err != nil {
		return domain.Task{}, err
	}

	now := b.clk.Now()
	task := domain.Task{
		TaskID:      "local_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		Status:      domain.StatusCompleted,
		Prompt:      req.Prompt,
		Model:       req.Model,
		Width:       req.Width,
		Height:      req.Height,
		Seed:        req.Seed,
		ImageURL:    buildImageURL(req),
		CreditsCost: cost,
		CreatedTime: now,
	}

	rec := &historydomain.Record{
		ID:          b.genID.Generate().Int64(),
		ActorKey:    id.Key(),
		ImageURL:    task.ImageURL,
		Prompt:      req.Prompt,
		ModelUsed:   req.Model,
		ImageWidth:  req.Width,
		ImageHeight: req.Height,
		Seed:        req.Seed,
		CreditsUsed: cost,
		CreatedTime: now,
	}
	if err := b.history.Record(ctx, id, rec); err != nil {
		// Bookkeeping failure must not lose an already-paid-for image.
		b.log.Warn("history record failed",
			zap.String("task_id", task.TaskID),
			zap.Error(err),
		)
	}

	b.tasks.Set(task.TaskID, domain.TaskStatus{
		TaskID:   task.TaskID,
		Status:   task.Status,
		ImageURL: task.ImageURL,
	}, taskTTL)

	return task, nil
}

func (b *Backend) TaskStatus(ctx context.Context, taskID string) (domain.TaskStatus, error) {
	if st, ok := b.tasks.Get(taskID); ok {
		return st, nil
	}
	return domain.TaskStatus{}, domain.ErrTaskNotFound
}

// EnhancePrompt has no local enhancement capability; the caller falls
// back to the original prompt.
func (b *Backend) EnhancePrompt(ctx context.Context, prompt string) (domain.EnhanceResult, error) {
	return domain.EnhanceResult{Original: prompt, Enhanced: prompt, Improved: false}, nil
}

func (b *Backend) Models(ctx context.Context) ([]domain.Model, error) {
	pricing := b.pricing.Get()
	models := make([]domain.Model, 0, len(pricing.Models))
	for _, m := range pricing.Models {
		models = append(models, domain.Model{
			Name:        m.Name,
			DisplayName: m.DisplayName,
			Credits:     m.Credits,
		})
	}
	return models, nil
}

func buildImageURL(req domain.GenerateRequest) string {
	q := url.Values{}
	q.Set("width", strconv.Itoa(req.Width))
	q.Set("height", strconv.Itoa(req.Height))
	q.Set("model", req.Model)
	q.Set("enhance", "true")
	q.Set("seed", strconv.FormatInt(req.Seed, 10))
	if req.RemoveWatermark {
		q.Set("nologo", "true")
	}
	return imageBaseURL + "/prompt/" + url.PathEscape(req.Prompt) + "?" + q.Encode()
}
