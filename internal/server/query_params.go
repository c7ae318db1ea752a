package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JasonHunterX/Visiora/pkg/db/pagination"
)

// queryUserID reads the optional userId query parameter. Zero means
// the anonymous session actor.
func queryUserID(c *gin.Context) (int64, error) {
	raw := strings.TrimSpace(c.Query("userId"))
	if raw == "" {
		return 0, nil
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID < 0 {
		return 0, ErrInvalidRequest
	}
	return userID, nil
}

func queryLimit(c *gin.Context, fallback int) int {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

func bindPagination(c *gin.Context) pagination.Pagination {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		return pagination.Pagination{}.Normalize()
	}
	return page.Normalize()
}

func pathRecordID(c *gin.Context) (int64, error) {
	recordID, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || recordID <= 0 {
		return 0, ErrInvalidRequest
	}
	return recordID, nil
}
