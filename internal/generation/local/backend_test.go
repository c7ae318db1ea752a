package local

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/JasonHunterX/Visiora/internal/clock"
	"github.com/JasonHunterX/Visiora/internal/config"
	creditslocal "github.com/JasonHunterX/Visiora/internal/credits/local"
	"github.com/JasonHunterX/Visiora/internal/generation/domain"
	historylocal "github.com/JasonHunterX/Visiora/internal/history/local"
	identitydomain "github.com/JasonHunterX/Visiora/internal/identity/domain"
	"github.com/JasonHunterX/Visiora/pkg/db/pagination"
)

func setupLocal(t *testing.T) (*Backend, *creditslocal.Backend, *historylocal.Backend) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	credits, err := creditslocal.New(gdb, zap.NewNop(), node, config.Config{FreeDailyCredits: 10})
	require.NoError(t, err)
	history, err := historylocal.New(gdb, zap.NewNop())
	require.NoError(t, err)

	pricing, err := config.NewPricingConfigHolder()
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	backend := New(zap.NewNop(), pricing, clk, node, credits, history)
	return backend, credits, history
}

func request() domain.GenerateRequest {
	return domain.GenerateRequest{
		Prompt: "a red fox in snow",
		Model:  "flux",
		Width:  1024,
		Height: 768,
		Seed:   77,
	}
}

func TestCreateTaskCompletesSynchronously(t *testing.T) {
	backend, _, _ := setupLocal(t)
	id := identitydomain.Identity{UserID: 42}

	task, err := backend.CreateTask(context.Background(), id, request())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, task.Status)
	assert.True(t, strings.HasPrefix(task.TaskID, "local_"))
	assert.Equal(t, int64(1), task.CreditsCost)

	parsed, err := url.Parse(task.ImageURL)
	require.NoError(t, err)
	assert.Equal(t, "image.pollinations.ai", parsed.Host)
	assert.True(t, strings.HasPrefix(parsed.Path, "/prompt/"))
	assert.Equal(t, "1024", parsed.Query().Get("width"))
	assert.Equal(t, "768", parsed.Query().Get("height"))
	assert.Equal(t, "flux", parsed.Query().Get("model"))
	assert.Equal(t, "true", parsed.Query().Get("enhance"))
	assert.Equal(t, "77", parsed.Query().Get("seed"))
	assert.Empty(t, parsed.Query().Get("nologo"))
}

func TestCreateTaskWatermarkFlag(t *testing.T) {
	backend, _, _ := setupLocal(t)
	req := request()
	req.RemoveWatermark = true

	task, err := backend.CreateTask(context.Background(), identitydomain.Identity{UserID: 1}, req)
	require.NoError(t, err)

	parsed, err := url.Parse(task.ImageURL)
	require.NoError(t, err)
	assert.Equal(t, "true", parsed.Query().Get("nologo"))
}

func TestCreateTaskConsumesCreditsAndRecordsHistory(t *testing.T) {
	backend, credits, history := setupLocal(t)
	id := identitydomain.Identity{UserID: 42}
	ctx := context.Background()

	_, err := backend.CreateTask(ctx, id, request())
	require.NoError(t, err)

	balance, err := credits.GetBalance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(9), balance.RemainingCredits)

	page, err := history.List(ctx, id, pagination.Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "a red fox in snow", page.Records[0].Prompt)
	assert.Equal(t, int64(1), page.Records[0].CreditsUsed)
}

func TestCreateTaskInsufficientCredits(t *testing.T) {
	backend, credits, _ := setupLocal(t)
	id := identitydomain.Identity{UserID: 42}
	ctx := context.Background()

	require.NoError(t, credits.Consume(ctx, id, 10, "drain"))

	_, err := backend.CreateTask(ctx, id, request())
	require.Error(t, err)
}

func TestTaskStatusServesRecentTasks(t *testing.T) {
	backend, _, _ := setupLocal(t)
	ctx := context.Background()

	task, err := backend.CreateTask(ctx, identitydomain.Identity{UserID: 1}, request())
	require.NoError(t, err)

	status, err := backend.TaskStatus(ctx, task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, status.Status)
	assert.Equal(t, task.ImageURL, status.ImageURL)

	_, err = backend.TaskStatus(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestModelsComeFromPricing(t *testing.T) {
	backend, _, _ := setupLocal(t)

	models, err := backend.Models(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, models)

	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name)
	}
	assert.Contains(t, names, "flux")
	assert.Contains(t, names, "turbo")
}
