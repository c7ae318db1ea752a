package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/JasonHunterX/Visiora/internal/config"
	creditsdomain "github.com/JasonHunterX/Visiora/internal/credits/domain"
	generationdomain "github.com/JasonHunterX/Visiora/internal/generation/domain"
	historydomain "github.com/JasonHunterX/Visiora/internal/history/domain"
	identitydomain "github.com/JasonHunterX/Visiora/internal/identity/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

func registerGin(cfg config.Config, log *zap.Logger) *gin.Engine {
	return NewEngine(cfg, log)
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.ListenAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	identitySvc   identitydomain.Service
	creditsSvc    creditsdomain.Service
	generationSvc generationdomain.Service
	historySvc    historydomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Log           *zap.Logger
	IdentitySvc   identitydomain.Service
	CreditsSvc    creditsdomain.Service
	GenerationSvc generationdomain.Service
	HistorySvc    historydomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           p.Log.Named("http"),
		identitySvc:   p.IdentitySvc,
		creditsSvc:    p.CreditsSvc,
		generationSvc: p.GenerationSvc,
		historySvc:    p.HistorySvc,
	}
	s.RegisterAPIRoutes()
	return s
}

func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api/ai-drawing")

	api.GET("/session", s.GetSession)

	credits := api.Group("/credits")
	credits.GET("/info", s.GetCreditsInfo)
	credits.POST("/check", s.CheckCredits)
	credits.POST("/add", s.AddCredits)
	credits.POST("/transfer", s.TransferCredits)
	credits.GET("/transactions", s.ListTransactions)

	api.POST("/generate", s.Generate)
	api.GET("/task/:taskId", s.GetTaskStatus)
	api.POST("/enhance-prompt", s.EnhancePrompt)
	api.GET("/models", s.ListModels)

	history := api.Group("/history")
	history.GET("/list", s.ListHistory)
	history.GET("/favorites", s.ListFavorites)
	history.GET("/search", s.SearchHistory)
	history.GET("/recent", s.RecentHistory)
	history.GET("/popular-prompts", s.PopularPrompts)
	history.POST("/:id/favorite", s.ToggleFavorite)
	history.POST("/:id/view", s.RecordView)
	history.POST("/:id/download", s.RecordDownload)
	history.POST("/:id/restore", s.RestoreRecord)
	history.DELETE("/batch", s.BatchDeleteRecords)
	history.DELETE("/:id", s.DeleteRecord)
}
