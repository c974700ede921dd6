package handlers

import (
	"context"
	"net/http"

	"lms-service/internal/service"

	"github.com/gin-gonic/gin"
)

type LessonHandler struct {
	Service *service.LessonService
}

func NewLessonHandler(s *service.LessonService) *LessonHandler {
	return &LessonHandler{Service: s}
}

func (h *LessonHandler) ListLessons(c *gin.Context) {
	lessons, err := h.Service.ListLessons(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(lessons),
		"data":    gin.H{"lessons": lessons},
	})
}

func (h *LessonHandler) GetLesson(c *gin.Context) {
	lesson, err := h.Service.GetLesson(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"lesson": lesson}})
}

func (h *LessonHandler) CreateLesson(c *gin.Context) {
	var in service.CreateLessonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	lesson, err := h.Service.CreateLesson(context.Background(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"lesson": lesson}})
}

func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	var in service.UpdateLessonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	lesson, err := h.Service.UpdateLesson(context.Background(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"lesson": lesson}})
}

func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	if err := h.Service.DeleteLesson(context.Background(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Lesson deleted successfully"})
}
