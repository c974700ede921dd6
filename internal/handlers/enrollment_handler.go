package handlers

import (
	"context"
	"net/http"
	"strconv"

	"lms-service/internal/grading"
	"lms-service/internal/repository"
	"lms-service/internal/service"

	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	Service *service.EnrollmentService
}

func NewEnrollmentHandler(s *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{Service: s}
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req struct {
		CourseID string `json:"courseId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	enrollment, err := h.Service.Enroll(context.Background(), c.GetHeader("X-User-ID"), req.CourseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Successfully enrolled in course",
		"data":    gin.H{"enrollment": enrollment},
	})
}

func (h *EnrollmentHandler) ListMyEnrollments(c *gin.Context) {
	enrollments, err := h.Service.ListForStudent(context.Background(), c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(enrollments),
		"data":    gin.H{"enrollments": enrollments},
	})
}

func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	enrollment, err := h.Service.Get(context.Background(),
		c.Param("id"), c.GetHeader("X-User-ID"), c.GetHeader("X-User-Role"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"enrollment": enrollment}})
}

func (h *EnrollmentHandler) CompleteLesson(c *gin.Context) {
	enrollment, err := h.Service.CompleteLesson(context.Background(),
		c.Param("id"), c.GetHeader("X-User-ID"), c.Param("lessonId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Lesson marked as completed",
		"data":    gin.H{"enrollment": enrollment},
	})
}

func (h *EnrollmentHandler) SubmitQuizAttempt(c *gin.Context) {
	var req struct {
		Answers []grading.SubmittedAnswer `json:"answers" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.Service.SubmitQuizAttempt(context.Background(),
		c.Param("id"), c.GetHeader("X-User-ID"), c.Param("quizId"), req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Quiz submitted successfully",
		"data":    result,
	})
}

// ListAllEnrollments is the admin view across students.
func (h *EnrollmentHandler) ListAllEnrollments(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	enrollments, total, err := h.Service.ListAll(context.Background(), repository.EnrollmentFilter{
		CourseID:  c.Query("course"),
		StudentID: c.Query("student"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(enrollments),
		"pagination": paginate(page, limit, total),
		"data":       gin.H{"enrollments": enrollments},
	})
}
