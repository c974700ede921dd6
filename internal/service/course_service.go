package service

import (
	"context"
	"time"

	"lms-service/internal/apperr"
	"lms-service/internal/event"
	"lms-service/internal/models"
	"lms-service/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

type CourseService struct {
	Repo       *repository.CourseRepository
	LessonRepo *repository.LessonRepository
	QuizRepo   *repository.QuizRepository
	Publisher  *event.EventPublisher
}

func NewCourseService(repo *repository.CourseRepository, lessonRepo *repository.LessonRepository, quizRepo *repository.QuizRepository, publisher *event.EventPublisher) *CourseService {
	return &CourseService{Repo: repo, LessonRepo: lessonRepo, QuizRepo: quizRepo, Publisher: publisher}
}

type CreateCourseInput struct {
	Title          string  `json:"title" binding:"required,min=3,max=100"`
	Description    string  `json:"description" binding:"required,min=10,max=1000"`
	InstructorName string  `json:"instructorName" binding:"required,min=2,max=100"`
	Price          float64 `json:"price" binding:"min=0"`
}

func (s *CourseService) ListCourses(ctx context.Context, filter repository.CourseFilter) ([]models.Course, int64, error) {
	courses, total, err := s.Repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return courses, total, nil
}

func (s *CourseService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.Repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if course == nil {
		return nil, apperr.NotFound("COURSE_NOT_FOUND", "Course not found")
	}
	return course, nil
}

func (s *CourseService) CreateCourse(ctx context.Context, createdBy string, in CreateCourseInput) (*models.Course, error) {
	existing, err := s.Repo.FindByTitle(ctx, in.Title)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, apperr.Conflict("DUPLICATE_COURSE_TITLE", "A course with this title already exists")
	}

	now := time.Now()
	course := &models.Course{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Description:    in.Description,
		InstructorName: in.InstructorName,
		Price:          in.Price,
		CreatedBy:      createdBy,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(ctx, course); err != nil {
		return nil, apperr.Internal(err)
	}
	if s.Publisher != nil {
		s.Publisher.Publish(event.CourseCreated, bson.M{"courseId": course.ID})
	}
	return course, nil
}

type UpdateCourseInput struct {
	Title          *string  `json:"title" binding:"omitempty,min=3,max=100"`
	Description    *string  `json:"description" binding:"omitempty,min=10,max=1000"`
	InstructorName *string  `json:"instructorName" binding:"omitempty,min=2,max=100"`
	Price          *float64 `json:"price" binding:"omitempty,min=0"`
}

func (s *CourseService) UpdateCourse(ctx context.Context, id string, in UpdateCourseInput) (*models.Course, error) {
	course, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if course == nil {
		return nil, apperr.NotFound("COURSE_NOT_FOUND", "Course not found")
	}

	update := bson.M{"updatedAt": time.Now()}
	if in.Title != nil {
		update["title"] = *in.Title
	}
	if in.Description != nil {
		update["description"] = *in.Description
	}
	if in.InstructorName != nil {
		update["instructorName"] = *in.InstructorName
	}
	if in.Price != nil {
		update["price"] = *in.Price
	}
	if err := s.Repo.Update(ctx, id, update); err != nil {
		return nil, apperr.Internal(err)
	}

	updated, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if s.Publisher != nil {
		s.Publisher.Publish(event.CourseUpdated, bson.M{"courseId": id})
	}
	return updated, nil
}

// DeleteCourse soft-deletes the course and cascades the deactivation to its
// lessons and quizzes. Nothing is removed from storage.
func (s *CourseService) DeleteCourse(ctx context.Context, id string) error {
	course, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if course == nil {
		return apperr.NotFound("COURSE_NOT_FOUND", "Course not found")
	}

	if err := s.Repo.Deactivate(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	if err := s.LessonRepo.DeactivateByCourse(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	if err := s.QuizRepo.DeactivateByCourse(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	if s.Publisher != nil {
		s.Publisher.Publish(event.CourseDeleted, bson.M{"courseId": id})
	}
	return nil
}
