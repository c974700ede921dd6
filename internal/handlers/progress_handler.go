package handlers

import (
	"context"
	"net/http"

	"lms-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	Service *service.ProgressService
}

func NewProgressHandler(s *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{Service: s}
}

func (h *ProgressHandler) GetReport(c *gin.Context) {
	report, err := h.Service.Report(context.Background(),
		c.GetHeader("X-User-ID"), c.Query("courseId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(report),
		"data":    report,
	})
}

func (h *ProgressHandler) GetQuizScores(c *gin.Context) {
	scores, err := h.Service.QuizScores(context.Background(),
		c.GetHeader("X-User-ID"), c.Query("courseId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(scores),
		"data":    scores,
	})
}

func (h *ProgressHandler) GetAnalytics(c *gin.Context) {
	analytics, err := h.Service.Analytics(context.Background(), c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": analytics})
}
