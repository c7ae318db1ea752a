package history

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/JasonHunterX/Visiora/internal/config"
	"github.com/JasonHunterX/Visiora/internal/history/domain"
	"github.com/JasonHunterX/Visiora/internal/history/local"
	"github.com/JasonHunterX/Visiora/internal/history/remote"
	"github.com/JasonHunterX/Visiora/internal/history/service"
	"github.com/JasonHunterX/Visiora/pkg/restclient"
)

// provideBackend binds the history backend once, from static config.
func provideBackend(cfg config.Config, gdb *gorm.DB, log *zap.Logger, api restclient.Doer) (domain.Backend, error) {
	if cfg.UseBackend {
		return remote.New(api, log), nil
	}
	return local.New(gdb, log)
}

var Module = fx.Module("history.service",
	fx.Provide(provideBackend),
	fx.Provide(service.New),
)
