package generation

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/JasonHunterX/Visiora/internal/clock"
	"github.com/JasonHunterX/Visiora/internal/config"
	creditsdomain "github.com/JasonHunterX/Visiora/internal/credits/domain"
	"github.com/JasonHunterX/Visiora/internal/generation/domain"
	"github.com/JasonHunterX/Visiora/internal/generation/local"
	"github.com/JasonHunterX/Visiora/internal/generation/remote"
	"github.com/JasonHunterX/Visiora/internal/generation/service"
	historydomain "github.com/JasonHunterX/Visiora/internal/history/domain"
	"github.com/JasonHunterX/Visiora/pkg/restclient"
)

// provideBackend binds the generation backend once, from static config.
func provideBackend(
	cfg config.Config,
	log *zap.Logger,
	pricing *config.PricingConfigHolder,
	clk clock.Clock,
	genID *snowflake.Node,
	credits creditsdomain.Backend,
	history historydomain.Backend,
	api restclient.Doer,
) domain.Backend {
	if cfg.UseBackend {
		return remote.New(api, log)
	}
	return local.New(log, pricing, clk, genID, credits, history)
}

var Module = fx.Module("generation.service",
	fx.Provide(provideBackend),
	fx.Provide(service.New),
)
