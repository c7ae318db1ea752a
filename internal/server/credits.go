package server

import (
	"github.com/gin-gonic/gin"

	creditsdomain "github.com/JasonHunterX/Visiora/internal/credits/domain"
)

func (s *Server) GetSession(c *gin.Context) {
	sessionID, err := s.identitySvc.SessionID(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, gin.H{"sessionId": sessionID})
}

func (s *Server) GetCreditsInfo(c *gin.Context) {
	userID, err := queryUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, s.creditsSvc.GetBalance(c.Request.Context(), userID))
}

type checkCreditsRequest struct {
	UserID          int64 `json:"userId"`
	RequiredCredits int64 `json:"requiredCredits"`
}

func (s *Server) CheckCredits(c *gin.Context) {
	var req checkCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	respond(c, s.creditsSvc.CheckSufficient(c.Request.Context(), req.UserID, req.RequiredCredits))
}

type addCreditsRequest struct {
	UserID      int64  `json:"userId"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

func (s *Server) AddCredits(c *gin.Context) {
	var req addCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	granted, err := s.creditsSvc.Grant(c.Request.Context(), req.UserID, req.Amount, req.Description)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, gin.H{"granted": granted})
}

type transferCreditsRequest struct {
	UserID int64 `json:"userId"`
}

func (s *Server) TransferCredits(c *gin.Context) {
	var req transferCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if req.UserID <= 0 {
		AbortWithError(c, creditsdomain.ErrNotLoggedIn)
		return
	}

	transferred, err := s.creditsSvc.TransferAnonymousToUser(c.Request.Context(), req.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, gin.H{"transferred": transferred})
}

func (s *Server) ListTransactions(c *gin.Context) {
	userID, err := queryUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	page, err := s.creditsSvc.ListTransactions(c.Request.Context(), userID, bindPagination(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, page)
}
