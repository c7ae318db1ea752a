package credits

import (
	"github.com/JasonHunterX/Visiora/internal/config"
	"github.com/JasonHunterX/Visiora/internal/credits/domain"
	"github.com/JasonHunterX/Visiora/internal/credits/local"
	"github.com/JasonHunterX/Visiora/internal/credits/remote"
	"github.com/JasonHunterX/Visiora/internal/credits/service"
	"github.com/JasonHunterX/Visiora/pkg/restclient"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// provideBackend binds the credits backend once, from static config.
func provideBackend(cfg config.Config, gdb *gorm.DB, log *zap.Logger, genID *snowflake.Node, api restclient.Doer) (domain.Backend, error) {
	if cfg.UseBackend {
		return remote.New(api, log), nil
	}
	return local.New(gdb, log, genID, cfg)
}

var Module = fx.Module("credits.service",
	fx.Provide(provideBackend),
	fx.Provide(service.New),
)
