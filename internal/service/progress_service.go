package service

import (
	"context"
	"time"

	"lms-service/internal/apperr"
	"lms-service/internal/models"
	"lms-service/internal/progress"
)

// ProgressService assembles the inputs the pure aggregator needs: the
// student's enrollments plus the catalog documents they reference.
type ProgressService struct {
	Store      EnrollmentStore
	CourseRepo CourseStore
	LessonRepo LessonStore
	QuizRepo   QuizStore
}

func NewProgressService(store EnrollmentStore, courseRepo CourseStore, lessonRepo LessonStore, quizRepo QuizStore) *ProgressService {
	return &ProgressService{
		Store:      store,
		CourseRepo: courseRepo,
		LessonRepo: lessonRepo,
		QuizRepo:   quizRepo,
	}
}

func (s *ProgressService) enrollmentsFor(ctx context.Context, studentID, courseID string) ([]models.Enrollment, error) {
	enrollments, err := s.Store.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if courseID == "" {
		return enrollments, nil
	}
	filtered := enrollments[:0]
	for _, e := range enrollments {
		if e.CourseID == courseID {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

type courseContext struct {
	course       *models.Course
	totalLessons int
	totalQuizzes int
	lessons      map[string]models.Lesson
	quizzes      map[string]models.Quiz
}

// loadCourseContext fetches one course plus its lesson and quiz indexes.
// The course is read without the active filter: progress over a retired
// course still needs its title.
func (s *ProgressService) loadCourseContext(ctx context.Context, courseID string) (*courseContext, error) {
	course, err := s.CourseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if course == nil {
		course = &models.Course{ID: courseID}
	}

	lessons, err := s.LessonRepo.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	quizzes, err := s.QuizRepo.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	cc := &courseContext{
		course:  course,
		lessons: make(map[string]models.Lesson, len(lessons)),
		quizzes: make(map[string]models.Quiz, len(quizzes)),
	}
	for _, lesson := range lessons {
		cc.lessons[lesson.ID] = lesson
		if lesson.IsActive {
			cc.totalLessons++
		}
	}
	for _, quiz := range quizzes {
		cc.quizzes[quiz.ID] = quiz
		if quiz.IsActive {
			cc.totalQuizzes++
		}
	}
	return cc, nil
}

// Report builds the per-enrollment progress summaries for a student,
// optionally narrowed to one course.
func (s *ProgressService) Report(ctx context.Context, studentID, courseID string) ([]progress.Summary, error) {
	enrollments, err := s.enrollmentsFor(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	report := make([]progress.Summary, 0, len(enrollments))
	for i := range enrollments {
		cc, err := s.loadCourseContext(ctx, enrollments[i].CourseID)
		if err != nil {
			return nil, err
		}
		report = append(report, progress.ComputeCourseProgress(
			&enrollments[i], cc.course, cc.totalLessons, cc.totalQuizzes, cc.lessons, cc.quizzes))
	}
	return report, nil
}

// QuizScores builds the per-quiz score rollups across a student's
// enrollments.
func (s *ProgressService) QuizScores(ctx context.Context, studentID, courseID string) ([]progress.QuizScore, error) {
	enrollments, err := s.enrollmentsFor(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	scores := []progress.QuizScore{}
	for i := range enrollments {
		cc, err := s.loadCourseContext(ctx, enrollments[i].CourseID)
		if err != nil {
			return nil, err
		}
		scores = append(scores, progress.ComputeQuizScores(&enrollments[i], cc.course.Title, cc.quizzes)...)
	}
	return scores, nil
}

// Analytics builds the cross-course rollup for a student.
func (s *ProgressService) Analytics(ctx context.Context, studentID string) (*progress.Analytics, error) {
	enrollments, err := s.enrollmentsFor(ctx, studentID, "")
	if err != nil {
		return nil, err
	}

	inputs := make([]progress.AnalyticsInput, 0, len(enrollments))
	for i := range enrollments {
		cc, err := s.loadCourseContext(ctx, enrollments[i].CourseID)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, progress.AnalyticsInput{
			Enrollment:   &enrollments[i],
			CourseTitle:  cc.course.Title,
			TotalLessons: cc.totalLessons,
			TotalQuizzes: cc.totalQuizzes,
			Lessons:      cc.lessons,
			Quizzes:      cc.quizzes,
		})
	}

	analytics := progress.ComputeAnalytics(inputs, time.Now())
	return &analytics, nil
}
