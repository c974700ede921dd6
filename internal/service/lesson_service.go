package service

import (
	"context"
	"time"

	"lms-service/internal/apperr"
	"lms-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

type LessonService struct {
	Repo       LessonCatalogStore
	CourseRepo CourseStore
}

func NewLessonService(repo LessonCatalogStore, courseRepo CourseStore) *LessonService {
	return &LessonService{Repo: repo, CourseRepo: courseRepo}
}

type CreateLessonInput struct {
	Title         string                `json:"title" binding:"required,min=3,max=100"`
	VideoURL      string                `json:"videoUrl" binding:"required,url"`
	ResourceLinks []models.ResourceLink `json:"resourceLinks"`
	Order         int                   `json:"order" binding:"omitempty,min=1"`
	Duration      int                   `json:"duration" binding:"omitempty,min=0"`
}

func (s *LessonService) ListLessons(ctx context.Context, courseID string) ([]models.Lesson, error) {
	course, err := s.CourseRepo.FindActiveByID(ctx, courseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if course == nil {
		return nil, apperr.NotFound("COURSE_NOT_FOUND", "Course not found")
	}
	lessons, err := s.Repo.FindActiveByCourse(ctx, courseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return lessons, nil
}

// GetLesson returns one active lesson.
func (s *LessonService) GetLesson(ctx context.Context, id string) (*models.Lesson, error) {
	lesson, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if lesson == nil || !lesson.IsActive {
		return nil, apperr.NotFound("LESSON_NOT_FOUND", "Lesson not found")
	}
	return lesson, nil
}

func (s *LessonService) CreateLesson(ctx context.Context, courseID string, in CreateLessonInput) (*models.Lesson, error) {
	course, err := s.CourseRepo.FindActiveByID(ctx, courseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if course == nil {
		return nil, apperr.NotFound("COURSE_NOT_FOUND", "Course not found")
	}

	order := in.Order
	if order == 0 {
		last, err := s.Repo.MaxOrder(ctx, courseID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		order = last + 1
	}

	resourceLinks := in.ResourceLinks
	if resourceLinks == nil {
		resourceLinks = []models.ResourceLink{}
	}

	now := time.Now()
	lesson := &models.Lesson{
		ID:            uuid.NewString(),
		Title:         in.Title,
		VideoURL:      in.VideoURL,
		ResourceLinks: resourceLinks,
		CourseID:      courseID,
		Order:         order,
		Duration:      in.Duration,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.Create(ctx, lesson); err != nil {
		return nil, apperr.Internal(err)
	}
	return lesson, nil
}

type UpdateLessonInput struct {
	Title         *string                `json:"title" binding:"omitempty,min=3,max=100"`
	VideoURL      *string                `json:"videoUrl" binding:"omitempty,url"`
	ResourceLinks *[]models.ResourceLink `json:"resourceLinks"`
	Order         *int                   `json:"order" binding:"omitempty,min=1"`
	Duration      *int                   `json:"duration" binding:"omitempty,min=0"`
}

func (s *LessonService) UpdateLesson(ctx context.Context, id string, in UpdateLessonInput) (*models.Lesson, error) {
	lesson, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if lesson == nil {
		return nil, apperr.NotFound("LESSON_NOT_FOUND", "Lesson not found")
	}

	update := bson.M{"updatedAt": time.Now()}
	if in.Title != nil {
		update["title"] = *in.Title
	}
	if in.VideoURL != nil {
		update["videoUrl"] = *in.VideoURL
	}
	if in.ResourceLinks != nil {
		update["resourceLinks"] = *in.ResourceLinks
	}
	if in.Order != nil {
		update["order"] = *in.Order
	}
	if in.Duration != nil {
		update["duration"] = *in.Duration
	}
	if err := s.Repo.Update(ctx, id, update); err != nil {
		return nil, apperr.Internal(err)
	}

	updated, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return updated, nil
}

func (s *LessonService) DeleteLesson(ctx context.Context, id string) error {
	lesson, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if lesson == nil {
		return apperr.NotFound("LESSON_NOT_FOUND", "Lesson not found")
	}
	if err := s.Repo.Deactivate(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
