package handlers

import (
	"context"
	"net/http"

	"lms-service/internal/service"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	Service *service.QuizService
}

func NewQuizHandler(s *service.QuizService) *QuizHandler {
	return &QuizHandler{Service: s}
}

// ListQuizzes serves the public listing: correct answers are stripped.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.Service.ListQuizzes(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(quizzes),
		"data":    gin.H{"quizzes": quizzes},
	})
}

func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.Service.GetQuiz(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"quiz": quiz}})
}

// GetQuizAdmin serves the full quiz, answer key included.
func (h *QuizHandler) GetQuizAdmin(c *gin.Context) {
	quiz, err := h.Service.GetQuizAdmin(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"quiz": quiz}})
}

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var in service.CreateQuizInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	quiz, err := h.Service.CreateQuiz(context.Background(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"quiz": quiz}})
}

func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	var in service.UpdateQuizInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	quiz, err := h.Service.UpdateQuiz(context.Background(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"quiz": quiz}})
}

func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	if err := h.Service.DeleteQuiz(context.Background(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Quiz deleted successfully"})
}
