package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/JasonHunterX/Visiora/internal/clock"
	"github.com/JasonHunterX/Visiora/internal/config"
	"github.com/JasonHunterX/Visiora/internal/credits"
	"github.com/JasonHunterX/Visiora/internal/generation"
	"github.com/JasonHunterX/Visiora/internal/history"
	"github.com/JasonHunterX/Visiora/internal/identity"
	"github.com/JasonHunterX/Visiora/internal/logger"
	"github.com/JasonHunterX/Visiora/internal/server"
	"github.com/JasonHunterX/Visiora/pkg/db"
	"github.com/JasonHunterX/Visiora/pkg/restclient"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		clock.Module,
		db.Module,
		fx.Provide(RegisterSnowflake),
		fx.Provide(RegisterRESTClient),

		// Functional domains
		identity.Module,
		credits.Module,
		generation.Module,
		history.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func RegisterRESTClient(cfg config.Config, log *zap.Logger) restclient.Doer {
	return restclient.New(cfg.BackendBaseURL, cfg.RequestTimeout, log)
}
