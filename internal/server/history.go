package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) ListHistory(c *gin.Context) {
	userID, err := queryUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, s.historySvc.List(c.Request.Context(), userID, bindPagination(c)))
}

func (s *Server) ListFavorites(c *gin.Context) {
	userID, err := queryUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, s.historySvc.Favorites(c.Request.Context(), userID, bindPagination(c)))
}

func (s *Server) SearchHistory(c *gin.Context) {
	userID, err := queryUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	page, err := s.historySvc.Search(c.Request.Context(), userID, c.Query("keyword"), bindPagination(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, page)
}

func (s *Server) RecentHistory(c *gin.Context) {
	userID, err := queryUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, s.historySvc.Recent(c.Request.Context(), userID, queryLimit(c, 10)))
}

func (s *Server) PopularPrompts(c *gin.Context) {
	userID, err := queryUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, s.historySvc.PopularPrompts(c.Request.Context(), userID, queryLimit(c, 10)))
}

type recordActionRequest struct {
	UserID int64 `json:"userId"`
}

func (s *Server) ToggleFavorite(c *gin.Context) {
	recordID, err := pathRecordID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req recordActionRequest
	_ = c.ShouldBindJSON(&req)

	favorite, err := s.historySvc.ToggleFavorite(c.Request.Context(), req.UserID, recordID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, gin.H{"isFavorite": favorite})
}

func (s *Server) RecordView(c *gin.Context) {
	recordID, err := pathRecordID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req recordActionRequest
	_ = c.ShouldBindJSON(&req)

	s.historySvc.RecordView(c.Request.Context(), req.UserID, recordID)
	respond(c, nil)
}

func (s *Server) RecordDownload(c *gin.Context) {
	recordID, err := pathRecordID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req recordActionRequest
	_ = c.ShouldBindJSON(&req)

	s.historySvc.RecordDownload(c.Request.Context(), req.UserID, recordID)
	respond(c, nil)
}

func (s *Server) RestoreRecord(c *gin.Context) {
	recordID, err := pathRecordID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req recordActionRequest
	_ = c.ShouldBindJSON(&req)

	if err := s.historySvc.Restore(c.Request.Context(), req.UserID, recordID); err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, nil)
}

func (s *Server) DeleteRecord(c *gin.Context) {
	recordID, err := pathRecordID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req recordActionRequest
	_ = c.ShouldBindJSON(&req)

	if err := s.historySvc.Delete(c.Request.Context(), req.UserID, recordID); err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, nil)
}

type batchDeleteRequest struct {
	UserID int64   `json:"userId"`
	IDs    []int64 `json:"ids"`
}

func (s *Server) BatchDeleteRecords(c *gin.Context) {
	var req batchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	deleted, err := s.historySvc.BatchDelete(c.Request.Context(), req.UserID, req.IDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, gin.H{"deleted": deleted})
}
