package service

import (
	"context"

	"lms-service/internal/models"
	"lms-service/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
)

// Store interfaces cover what the engine needs from the catalog and
// enrollment collections. The repository package satisfies them; tests use
// in-memory fakes. Lookups return (nil, nil) when nothing matches.

type CourseStore interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindActiveByID(ctx context.Context, id string) (*models.Course, error)
	IncrementEnrollmentCount(ctx context.Context, id string) error
}

type LessonStore interface {
	FindActiveByID(ctx context.Context, id, courseID string) (*models.Lesson, error)
	FindByCourse(ctx context.Context, courseID string) ([]models.Lesson, error)
	CountActiveByCourse(ctx context.Context, courseID string) (int, error)
}

type QuizStore interface {
	FindActiveByID(ctx context.Context, id, courseID string) (*models.Quiz, error)
	FindByCourse(ctx context.Context, courseID string) ([]models.Quiz, error)
	CountActiveByCourse(ctx context.Context, courseID string) (int, error)
}

// Catalog stores add the admin-side reads and mutations on top of what the
// enrollment engine needs.

type LessonCatalogStore interface {
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	FindActiveByCourse(ctx context.Context, courseID string) ([]models.Lesson, error)
	MaxOrder(ctx context.Context, courseID string) (int, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, id string, update bson.M) error
	Deactivate(ctx context.Context, id string) error
}

type QuizCatalogStore interface {
	FindByID(ctx context.Context, id string) (*models.Quiz, error)
	FindActiveByID(ctx context.Context, id, courseID string) (*models.Quiz, error)
	FindActiveByCourse(ctx context.Context, courseID string) ([]models.Quiz, error)
	MaxOrder(ctx context.Context, courseID string) (int, error)
	Create(ctx context.Context, quiz *models.Quiz) error
	Update(ctx context.Context, id string, update bson.M) error
	Deactivate(ctx context.Context, id string) error
}

type EnrollmentStore interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	FindByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
	FindByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Enrollment, error)
	FindAll(ctx context.Context, filter repository.EnrollmentFilter) ([]models.Enrollment, int64, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Replace(ctx context.Context, enrollment *models.Enrollment) error
	AppendQuizAttempt(ctx context.Context, enrollmentID string, attempt models.QuizAttempt, maxAttempts int) (bool, error)
}
