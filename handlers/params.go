package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// pathID reads a numeric path parameter and answers 400 when it is not one.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional numeric query filter. ok is false when the
// parameter is present but malformed; a 400 has then been written.
func queryID(c *gin.Context, name string) (id uint, present, ok bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false, true
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, true, false
	}
	return uint(n), true, true
}

func pagination(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}

// writeCreateError maps a failed insert to 409 for unique violations and 500
// otherwise.
func writeCreateError(c *gin.Context, err error, conflictMsg, failMsg string) {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		c.JSON(http.StatusConflict, gin.H{"error": conflictMsg})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
}
