package identity

import (
	"github.com/JasonHunterX/Visiora/internal/identity/repository"
	"github.com/JasonHunterX/Visiora/internal/identity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("identity.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
