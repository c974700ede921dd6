package handlers

import (
	"log"
	"net/http"

	"lms-service/internal/apperr"

	"github.com/gin-gonic/gin"
)

// respondError maps a domain error to its HTTP response. Internal failures
// are logged in full here and never leak detail to the caller.
func respondError(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok && e.Kind != apperr.KindInternal {
		c.JSON(apperr.HTTPStatus(err), gin.H{
			"success": false,
			"message": e.Message,
			"code":    e.Code,
		})
		return
	}
	log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": "Server error",
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Validation failed",
		"errors":  err.Error(),
	})
}

type pagination struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func paginate(page, limit, total int64) pagination {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
