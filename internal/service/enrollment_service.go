package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"lms-service/internal/apperr"
	"lms-service/internal/event"
	"lms-service/internal/grading"
	"lms-service/internal/models"
	"lms-service/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// EnrollmentService owns every mutation of enrollment documents. Each
// operation runs an explicit validate, compute-derived-fields, persist
// pipeline rather than relying on save-time hooks.
type EnrollmentService struct {
	Store      EnrollmentStore
	CourseRepo CourseStore
	LessonRepo LessonStore
	QuizRepo   QuizStore
	Publisher  *event.EventPublisher
}

func NewEnrollmentService(store EnrollmentStore, courseRepo CourseStore, lessonRepo LessonStore, quizRepo QuizStore, publisher *event.EventPublisher) *EnrollmentService {
	return &EnrollmentService{
		Store:      store,
		CourseRepo: courseRepo,
		LessonRepo: lessonRepo,
		QuizRepo:   quizRepo,
		Publisher:  publisher,
	}
}

// AttemptResult is the response contract for a submitted quiz attempt.
type AttemptResult struct {
	Score             int  `json:"score"`
	Passed            bool `json:"passed"`
	CorrectCount      int  `json:"correctCount"`
	TotalQuestions    int  `json:"totalQuestions"`
	PassingScore      int  `json:"passingScore"`
	AttemptsRemaining int  `json:"attemptsRemaining"`
}

func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	course, err := s.CourseRepo.FindActiveByID(ctx, courseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if course == nil {
		return nil, apperr.NotFound("COURSE_NOT_FOUND", "Course not found")
	}

	existing, err := s.Store.FindByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, apperr.Conflict("ALREADY_ENROLLED", "You are already enrolled in this course")
	}

	enrollment := &models.Enrollment{
		ID:               uuid.NewString(),
		StudentID:        studentID,
		CourseID:         courseID,
		EnrollmentDate:   time.Now(),
		CompletedLessons: []models.CompletedLesson{},
		QuizAttempts:     []models.QuizAttempt{},
	}
	if err := s.Store.Create(ctx, enrollment); err != nil {
		// The unique (student, course) index closes the race the
		// application-level check leaves open.
		if repository.IsDuplicateKey(err) {
			return nil, apperr.Conflict("ALREADY_ENROLLED", "You are already enrolled in this course")
		}
		return nil, apperr.Internal(err)
	}

	if err := s.CourseRepo.IncrementEnrollmentCount(ctx, courseID); err != nil {
		return nil, apperr.Internal(err)
	}
	if s.Publisher != nil {
		s.Publisher.Publish(event.EnrollmentCreated, bson.M{
			"enrollmentId": enrollment.ID,
			"studentId":    studentID,
			"courseId":     courseID,
		})
	}
	return enrollment, nil
}

func (s *EnrollmentService) ListForStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	enrollments, err := s.Store.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return enrollments, nil
}

// Get returns one enrollment. Students may only read their own; admins may
// read any.
func (s *EnrollmentService) Get(ctx context.Context, id, actorID, actorRole string) (*models.Enrollment, error) {
	enrollment, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if enrollment == nil {
		return nil, apperr.NotFound("ENROLLMENT_NOT_FOUND", "Enrollment not found")
	}
	if enrollment.StudentID != actorID && actorRole != "admin" {
		return nil, apperr.Forbidden("NOT_ENROLLMENT_OWNER", "Not authorized to access this enrollment")
	}
	return enrollment, nil
}

// CompleteLesson appends a completion record and recomputes derived
// progress state before persisting. Completing the same lesson twice is a
// conflict, not a no-op.
func (s *EnrollmentService) CompleteLesson(ctx context.Context, enrollmentID, actorID, lessonID string) (*models.Enrollment, error) {
	enrollment, err := s.Store.FindByID(ctx, enrollmentID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if enrollment == nil {
		return nil, apperr.NotFound("ENROLLMENT_NOT_FOUND", "Enrollment not found")
	}
	if enrollment.StudentID != actorID {
		return nil, apperr.Forbidden("NOT_ENROLLMENT_OWNER", "Not authorized to access this enrollment")
	}

	lesson, err := s.LessonRepo.FindActiveByID(ctx, lessonID, enrollment.CourseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if lesson == nil {
		return nil, apperr.NotFound("LESSON_NOT_FOUND", "Lesson not found")
	}

	if enrollment.HasCompletedLesson(lessonID) {
		return nil, apperr.Conflict("LESSON_ALREADY_COMPLETED", "Lesson already marked as completed")
	}

	now := time.Now()
	enrollment.CompletedLessons = append(enrollment.CompletedLessons, models.CompletedLesson{
		LessonID:    lessonID,
		CompletedAt: now,
	})

	completedNow, err := s.recomputeProgress(ctx, enrollment, now)
	if err != nil {
		return nil, err
	}

	if err := s.Store.Replace(ctx, enrollment); err != nil {
		return nil, apperr.Internal(err)
	}

	if s.Publisher != nil {
		s.Publisher.Publish(event.LessonCompleted, bson.M{
			"enrollmentId": enrollment.ID,
			"lessonId":     lessonID,
		})
		if completedNow {
			s.Publisher.Publish(event.CourseCompleted, bson.M{
				"enrollmentId":  enrollment.ID,
				"courseId":      enrollment.CourseID,
				"certificateId": enrollment.Certificate.CertificateID,
			})
		}
	}
	return enrollment, nil
}

// recomputeProgress derives the progress percentage from the current active
// lesson count and flips the completion state at 100. The completion
// timestamp is set once and never overwritten; the certificate is issued
// with it. Returns whether the enrollment completed in this call.
func (s *EnrollmentService) recomputeProgress(ctx context.Context, enrollment *models.Enrollment, now time.Time) (bool, error) {
	totalLessons, err := s.LessonRepo.CountActiveByCourse(ctx, enrollment.CourseID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	if totalLessons == 0 {
		return false, nil
	}

	enrollment.Progress = int(math.Round(float64(len(enrollment.CompletedLessons)) / float64(totalLessons) * 100))
	// Completed lessons can outnumber the active count after a deactivation.
	if enrollment.Progress > 100 {
		enrollment.Progress = 100
	}
	if enrollment.Progress < 100 || enrollment.IsCompleted {
		return false, nil
	}

	enrollment.IsCompleted = true
	enrollment.CompletionDate = &now
	if !enrollment.Certificate.Issued {
		enrollment.Certificate = models.Certificate{
			Issued:        true,
			IssuedAt:      &now,
			CertificateID: uuid.NewString(),
		}
	}
	return true, nil
}

// SubmitQuizAttempt grades a submission and appends the attempt. The
// attempt limit is checked here for a useful error message, but the persist
// step is a conditional append filtered on the stored attempt count, so a
// concurrent submission cannot push the enrollment over the limit.
func (s *EnrollmentService) SubmitQuizAttempt(ctx context.Context, enrollmentID, actorID, quizID string, answers []grading.SubmittedAnswer) (*AttemptResult, error) {
	enrollment, err := s.Store.FindByID(ctx, enrollmentID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if enrollment == nil {
		return nil, apperr.NotFound("ENROLLMENT_NOT_FOUND", "Enrollment not found")
	}
	if enrollment.StudentID != actorID {
		return nil, apperr.Forbidden("NOT_ENROLLMENT_OWNER", "Not authorized to access this enrollment")
	}

	quiz, err := s.QuizRepo.FindActiveByID(ctx, quizID, enrollment.CourseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if quiz == nil {
		return nil, apperr.NotFound("QUIZ_NOT_FOUND", "Quiz not found")
	}

	priorAttempts := enrollment.AttemptsForQuiz(quizID)
	if priorAttempts >= quiz.MaxAttempts {
		return nil, attemptLimitError(quiz.MaxAttempts)
	}

	result, err := grading.Grade(quiz, answers)
	if err != nil {
		return nil, err
	}

	attempt := models.QuizAttempt{
		QuizID:      quizID,
		Score:       result.Score,
		Answers:     make([]models.AttemptAnswer, 0, len(result.ProcessedAnswers)),
		AttemptDate: time.Now(),
		Passed:      result.Passed,
	}
	for _, pa := range result.ProcessedAnswers {
		attempt.Answers = append(attempt.Answers, models.AttemptAnswer{
			QuestionID:     pa.QuestionID,
			SelectedOption: pa.SelectedOption,
			IsCorrect:      pa.IsCorrect,
		})
	}

	appended, err := s.Store.AppendQuizAttempt(ctx, enrollmentID, attempt, quiz.MaxAttempts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !appended {
		// A concurrent submission won the conditional append.
		return nil, attemptLimitError(quiz.MaxAttempts)
	}

	if s.Publisher != nil {
		s.Publisher.Publish(event.QuizAttemptSubmitted, bson.M{
			"enrollmentId": enrollment.ID,
			"quizId":       quizID,
			"score":        result.Score,
			"passed":       result.Passed,
		})
	}

	return &AttemptResult{
		Score:             result.Score,
		Passed:            result.Passed,
		CorrectCount:      result.CorrectCount,
		TotalQuestions:    result.TotalQuestions,
		PassingScore:      quiz.PassingScore,
		AttemptsRemaining: quiz.MaxAttempts - (priorAttempts + 1),
	}, nil
}

func attemptLimitError(maxAttempts int) error {
	return apperr.LimitExceeded("MAX_ATTEMPTS_REACHED",
		fmt.Sprintf("Maximum attempts (%d) reached for this quiz", maxAttempts))
}

// ListAll is the admin listing with optional course/student filters.
func (s *EnrollmentService) ListAll(ctx context.Context, filter repository.EnrollmentFilter) ([]models.Enrollment, int64, error) {
	enrollments, total, err := s.Store.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return enrollments, total, nil
}
