package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	generationdomain "github.com/JasonHunterX/Visiora/internal/generation/domain"
)

type generateRequest struct {
	UserID          int64  `json:"userId"`
	Prompt          string `json:"prompt"`
	Model           string `json:"model"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Seed            int64  `json:"seed"`
	RemoveWatermark bool   `json:"removeWatermark"`
	EnhancePrompt   bool   `json:"enhancePrompt"`
}

func (s *Server) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	task, err := s.generationSvc.Generate(c.Request.Context(), req.UserID, generationdomain.GenerateRequest{
		Prompt:          req.Prompt,
		Model:           req.Model,
		Width:           req.Width,
		Height:          req.Height,
		Seed:            req.Seed,
		RemoveWatermark: req.RemoveWatermark,
		EnhancePrompt:   req.EnhancePrompt,
	}, nil)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, task)
}

func (s *Server) GetTaskStatus(c *gin.Context) {
	taskID := strings.TrimSpace(c.Param("taskId"))

	status, err := s.generationSvc.TaskStatus(c.Request.Context(), taskID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, status)
}

type enhancePromptRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) EnhancePrompt(c *gin.Context) {
	var req enhancePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	respond(c, s.generationSvc.EnhancePrompt(c.Request.Context(), req.Prompt))
}

func (s *Server) ListModels(c *gin.Context) {
	models, err := s.generationSvc.Models(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, models)
}
