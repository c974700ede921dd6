package handlers

import (
	"context"
	"net/http"
	"strconv"

	"lms-service/internal/repository"
	"lms-service/internal/service"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	Service *service.CourseService
}

func NewCourseHandler(s *service.CourseService) *CourseHandler {
	return &CourseHandler{Service: s}
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	courses, total, err := h.Service.ListCourses(context.Background(), repository.CourseFilter{
		Search:     c.Query("search"),
		Instructor: c.Query("instructor"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(courses),
		"pagination": paginate(page, limit, total),
		"data":       gin.H{"courses": courses},
	})
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.Service.GetCourse(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"course": course}})
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var in service.CreateCourseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	course, err := h.Service.CreateCourse(context.Background(), c.GetHeader("X-User-ID"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"course": course}})
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	var in service.UpdateCourseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	course, err := h.Service.UpdateCourse(context.Background(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"course": course}})
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	if err := h.Service.DeleteCourse(context.Background(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Course deleted successfully"})
}
