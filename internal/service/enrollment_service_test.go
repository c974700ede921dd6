package service

import (
	"context"
	"testing"

	"lms-service/internal/apperr"
	"lms-service/internal/grading"
	"lms-service/internal/models"
	"lms-service/internal/repository"
)

// In-memory fakes for the store interfaces.

type fakeCourseStore struct {
	courses map[string]*models.Course
	enrolls map[string]int
}

func (f *fakeCourseStore) FindByID(_ context.Context, id string) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		copy := *c
		return &copy, nil
	}
	return nil, nil
}

func (f *fakeCourseStore) FindActiveByID(_ context.Context, id string) (*models.Course, error) {
	if c, ok := f.courses[id]; ok && c.IsActive {
		copy := *c
		return &copy, nil
	}
	return nil, nil
}

func (f *fakeCourseStore) IncrementEnrollmentCount(_ context.Context, id string) error {
	if f.enrolls == nil {
		f.enrolls = map[string]int{}
	}
	f.enrolls[id]++
	return nil
}

type fakeLessonStore struct {
	lessons []models.Lesson
}

func (f *fakeLessonStore) FindActiveByID(_ context.Context, id, courseID string) (*models.Lesson, error) {
	for _, l := range f.lessons {
		if l.ID == id && l.CourseID == courseID && l.IsActive {
			copy := l
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeLessonStore) FindByCourse(_ context.Context, courseID string) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, l := range f.lessons {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLessonStore) CountActiveByCourse(_ context.Context, courseID string) (int, error) {
	count := 0
	for _, l := range f.lessons {
		if l.CourseID == courseID && l.IsActive {
			count++
		}
	}
	return count, nil
}

type fakeQuizStore struct {
	quizzes []models.Quiz
}

func (f *fakeQuizStore) FindActiveByID(_ context.Context, id, courseID string) (*models.Quiz, error) {
	for _, q := range f.quizzes {
		if q.ID == id && q.IsActive && (courseID == "" || q.CourseID == courseID) {
			copy := q
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeQuizStore) FindByCourse(_ context.Context, courseID string) ([]models.Quiz, error) {
	var out []models.Quiz
	for _, q := range f.quizzes {
		if q.CourseID == courseID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuizStore) CountActiveByCourse(_ context.Context, courseID string) (int, error) {
	count := 0
	for _, q := range f.quizzes {
		if q.CourseID == courseID && q.IsActive {
			count++
		}
	}
	return count, nil
}

type fakeEnrollmentStore struct {
	enrollments map[string]*models.Enrollment
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{enrollments: map[string]*models.Enrollment{}}
}

func (f *fakeEnrollmentStore) FindByID(_ context.Context, id string) (*models.Enrollment, error) {
	if e, ok := f.enrollments[id]; ok {
		copy := *e
		return &copy, nil
	}
	return nil, nil
}

func (f *fakeEnrollmentStore) FindByStudent(_ context.Context, studentID string) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range f.enrollments {
		if e.StudentID == studentID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentStore) FindByStudentAndCourse(_ context.Context, studentID, courseID string) (*models.Enrollment, error) {
	for _, e := range f.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			copy := *e
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeEnrollmentStore) FindAll(_ context.Context, filter repository.EnrollmentFilter) ([]models.Enrollment, int64, error) {
	var out []models.Enrollment
	for _, e := range f.enrollments {
		if filter.CourseID != "" && e.CourseID != filter.CourseID {
			continue
		}
		if filter.StudentID != "" && e.StudentID != filter.StudentID {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeEnrollmentStore) Create(_ context.Context, enrollment *models.Enrollment) error {
	copy := *enrollment
	f.enrollments[enrollment.ID] = &copy
	return nil
}

func (f *fakeEnrollmentStore) Replace(_ context.Context, enrollment *models.Enrollment) error {
	copy := *enrollment
	f.enrollments[enrollment.ID] = &copy
	return nil
}

// AppendQuizAttempt mirrors the conditional update: the append only lands
// when the stored attempt count for the quiz is below the limit.
func (f *fakeEnrollmentStore) AppendQuizAttempt(_ context.Context, enrollmentID string, attempt models.QuizAttempt, maxAttempts int) (bool, error) {
	e, ok := f.enrollments[enrollmentID]
	if !ok {
		return false, nil
	}
	if e.AttemptsForQuiz(attempt.QuizID) >= maxAttempts {
		return false, nil
	}
	e.QuizAttempts = append(e.QuizAttempts, attempt)
	return true, nil
}

// Test fixture: one active course with two lessons and one two-question quiz.

const (
	testCourseID = "course-1"
	testStudent  = "student-1"
)

func testQuiz(maxAttempts int) models.Quiz {
	return models.Quiz{
		ID:       "quiz-1",
		CourseID: testCourseID,
		Title:    "Checkpoint",
		Questions: []models.Question{
			{
				ID:   "question-1",
				Text: "First?",
				Options: []models.Option{
					{Text: "right", IsCorrect: true},
					{Text: "wrong"},
				},
			},
			{
				ID:   "question-2",
				Text: "Second?",
				Options: []models.Option{
					{Text: "wrong"},
					{Text: "right", IsCorrect: true},
				},
			},
		},
		PassingScore: 70,
		MaxAttempts:  maxAttempts,
		IsActive:     true,
	}
}

func newTestService(maxAttempts int) (*EnrollmentService, *fakeEnrollmentStore) {
	store := newFakeEnrollmentStore()
	svc := NewEnrollmentService(
		store,
		&fakeCourseStore{courses: map[string]*models.Course{
			testCourseID: {ID: testCourseID, Title: "Go Basics", IsActive: true},
		}},
		&fakeLessonStore{lessons: []models.Lesson{
			{ID: "lesson-1", CourseID: testCourseID, Title: "Intro", Duration: 10, IsActive: true},
			{ID: "lesson-2", CourseID: testCourseID, Title: "Setup", Duration: 15, IsActive: true},
		}},
		&fakeQuizStore{quizzes: []models.Quiz{testQuiz(maxAttempts)}},
		nil,
	)
	return svc, store
}

func enrollTestStudent(t *testing.T, svc *EnrollmentService) *models.Enrollment {
	t.Helper()
	enrollment, err := svc.Enroll(context.Background(), testStudent, testCourseID)
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	return enrollment
}

func TestEnroll(t *testing.T) {
	svc, _ := newTestService(3)
	enrollment := enrollTestStudent(t, svc)

	if enrollment.ID == "" {
		t.Error("Expected generated enrollment id")
	}
	if enrollment.Progress != 0 || enrollment.IsCompleted {
		t.Errorf("Expected fresh enrollment, got %+v", enrollment)
	}

	courseStore := svc.CourseRepo.(*fakeCourseStore)
	if courseStore.enrolls[testCourseID] != 1 {
		t.Errorf("Expected enrollment count incremented once, got %d", courseStore.enrolls[testCourseID])
	}
}

func TestEnrollDuplicate(t *testing.T) {
	svc, _ := newTestService(3)
	enrollTestStudent(t, svc)

	_, err := svc.Enroll(context.Background(), testStudent, testCourseID)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("Expected conflict on duplicate enroll, got %v", err)
	}
}

func TestEnrollUnknownCourse(t *testing.T) {
	svc, _ := newTestService(3)
	_, err := svc.Enroll(context.Background(), testStudent, "missing")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("Expected not found, got %v", err)
	}
}

func TestGetOwnership(t *testing.T) {
	svc, _ := newTestService(3)
	enrollment := enrollTestStudent(t, svc)

	if _, err := svc.Get(context.Background(), enrollment.ID, testStudent, "student"); err != nil {
		t.Errorf("Owner read failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), enrollment.ID, "other-student", "student"); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("Expected forbidden for non-owner, got %v", err)
	}
	if _, err := svc.Get(context.Background(), enrollment.ID, "other-student", "admin"); err != nil {
		t.Errorf("Admin read failed: %v", err)
	}
}

func TestCompleteLessonProgress(t *testing.T) {
	svc, _ := newTestService(3)
	enrollment := enrollTestStudent(t, svc)

	updated, err := svc.CompleteLesson(context.Background(), enrollment.ID, testStudent, "lesson-1")
	if err != nil {
		t.Fatalf("CompleteLesson failed: %v", err)
	}
	if updated.Progress != 50 {
		t.Errorf("Expected progress 50 after 1 of 2 lessons, got %d", updated.Progress)
	}
	if updated.IsCompleted {
		t.Error("Course should not be completed at 50%")
	}
}

func TestCompleteLessonTwice(t *testing.T) {
	svc, store := newTestService(3)
	enrollment := enrollTestStudent(t, svc)

	if _, err := svc.CompleteLesson(context.Background(), enrollment.ID, testStudent, "lesson-1"); err != nil {
		t.Fatalf("First completion failed: %v", err)
	}
	_, err := svc.CompleteLesson(context.Background(), enrollment.ID, testStudent, "lesson-1")
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("Expected conflict on repeat completion, got %v", err)
	}

	stored := store.enrollments[enrollment.ID]
	if len(stored.CompletedLessons) != 1 {
		t.Errorf("Repeat completion changed state: %d records", len(stored.CompletedLessons))
	}
	if stored.Progress != 50 {
		t.Errorf("Repeat completion changed progress: %d", stored.Progress)
	}
}

func TestCompleteLessonUnknown(t *testing.T) {
	svc, _ := newTestService(3)
	enrollment := enrollTestStudent(t, svc)

	_, err := svc.CompleteLesson(context.Background(), enrollment.ID, testStudent, "missing")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("Expected not found for unknown lesson, got %v", err)
	}
}

func TestCourseCompletionAndCertificate(t *testing.T) {
	svc, store := newTestService(3)
	enrollment := enrollTestStudent(t, svc)

	if _, err := svc.CompleteLesson(context.Background(), enrollment.ID, testStudent, "lesson-1"); err != nil {
		t.Fatalf("CompleteLesson failed: %v", err)
	}
	updated, err := svc.CompleteLesson(context.Background(), enrollment.ID, testStudent, "lesson-2")
	if err != nil {
		t.Fatalf("CompleteLesson failed: %v", err)
	}

	if updated.Progress != 100 {
		t.Errorf("Expected progress 100, got %d", updated.Progress)
	}
	if !updated.IsCompleted || updated.CompletionDate == nil {
		t.Error("Expected completion state set")
	}
	if !updated.Certificate.Issued || updated.Certificate.CertificateID == "" {
		t.Error("Expected certificate issued at completion")
	}

	// A new lesson appearing later must not reset completion or reissue the
	// certificate.
	lessonStore := svc.LessonRepo.(*fakeLessonStore)
	lessonStore.lessons = append(lessonStore.lessons, models.Lesson{
		ID: "lesson-3", CourseID: testCourseID, Title: "Bonus", IsActive: true,
	})
	certID := updated.Certificate.CertificateID
	completedAt := *updated.CompletionDate

	again, err := svc.CompleteLesson(context.Background(), enrollment.ID, testStudent, "lesson-3")
	if err != nil {
		t.Fatalf("CompleteLesson failed: %v", err)
	}
	if !again.IsCompleted {
		t.Error("Completion flag must not be cleared")
	}
	if !again.CompletionDate.Equal(completedAt) {
		t.Error("Completion date must not be overwritten")
	}
	if again.Certificate.CertificateID != certID {
		t.Error("Certificate must not be reissued")
	}

	stored := store.enrollments[enrollment.ID]
	if len(stored.CompletedLessons) != 3 {
		t.Errorf("Expected 3 completed lessons persisted, got %d", len(stored.CompletedLessons))
	}
}

func TestProgressClampedAfterLessonDeactivation(t *testing.T) {
	svc, store := newTestService(3)
	enrollment := enrollTestStudent(t, svc)

	if _, err := svc.CompleteLesson(context.Background(), enrollment.ID, testStudent, "lesson-1"); err != nil {
		t.Fatalf("CompleteLesson failed: %v", err)
	}
	if _, err := svc.CompleteLesson(context.Background(), enrollment.ID, testStudent, "lesson-2"); err != nil {
		t.Fatalf("CompleteLesson failed: %v", err)
	}

	// Retire a completed lesson and add a fresh one: completions now
	// outnumber the active count once the new lesson is done.
	lessonStore := svc.LessonRepo.(*fakeLessonStore)
	lessonStore.lessons[0].IsActive = false
	lessonStore.lessons = append(lessonStore.lessons, models.Lesson{
		ID: "lesson-3", CourseID: testCourseID, Title: "Replacement", IsActive: true,
	})

	updated, err := svc.CompleteLesson(context.Background(), enrollment.ID, testStudent, "lesson-3")
	if err != nil {
		t.Fatalf("CompleteLesson failed: %v", err)
	}
	if updated.Progress != 100 {
		t.Errorf("Expected progress clamped to 100, got %d", updated.Progress)
	}
	if store.enrollments[enrollment.ID].Progress != 100 {
		t.Errorf("Persisted progress not clamped: %d", store.enrollments[enrollment.ID].Progress)
	}
}

func TestSubmitQuizAttempt(t *testing.T) {
	svc, _ := newTestService(3)
	enrollment := enrollTestStudent(t, svc)

	// 1 of 2 correct.
	result, err := svc.SubmitQuizAttempt(context.Background(), enrollment.ID, testStudent, "quiz-1",
		[]grading.SubmittedAnswer{
			{QuestionID: "question-1", SelectedOption: 0},
			{QuestionID: "question-2", SelectedOption: 0},
		})
	if err != nil {
		t.Fatalf("SubmitQuizAttempt failed: %v", err)
	}
	if result.Score != 50 {
		t.Errorf("Expected score 50, got %d", result.Score)
	}
	if result.Passed {
		t.Error("50 against passing score 70 should not pass")
	}
	if result.CorrectCount != 1 || result.TotalQuestions != 2 {
		t.Errorf("Expected 1/2 correct, got %d/%d", result.CorrectCount, result.TotalQuestions)
	}
	if result.AttemptsRemaining != 2 {
		t.Errorf("Expected 2 attempts remaining, got %d", result.AttemptsRemaining)
	}

	// All correct on the second attempt.
	result, err = svc.SubmitQuizAttempt(context.Background(), enrollment.ID, testStudent, "quiz-1",
		[]grading.SubmittedAnswer{
			{QuestionID: "question-1", SelectedOption: 0},
			{QuestionID: "question-2", SelectedOption: 1},
		})
	if err != nil {
		t.Fatalf("SubmitQuizAttempt failed: %v", err)
	}
	if result.Score != 100 || !result.Passed {
		t.Errorf("Expected 100/passed, got %d/%v", result.Score, result.Passed)
	}
	if result.AttemptsRemaining != 1 {
		t.Errorf("Expected 1 attempt remaining, got %d", result.AttemptsRemaining)
	}
}

func TestSubmitQuizAttemptLimit(t *testing.T) {
	const maxAttempts = 3
	svc, store := newTestService(maxAttempts)
	enrollment := enrollTestStudent(t, svc)

	answers := []grading.SubmittedAnswer{
		{QuestionID: "question-1", SelectedOption: 0},
		{QuestionID: "question-2", SelectedOption: 1},
	}
	for i := 0; i < maxAttempts; i++ {
		if _, err := svc.SubmitQuizAttempt(context.Background(), enrollment.ID, testStudent, "quiz-1", answers); err != nil {
			t.Fatalf("Attempt %d failed: %v", i+1, err)
		}
	}

	_, err := svc.SubmitQuizAttempt(context.Background(), enrollment.ID, testStudent, "quiz-1", answers)
	if !apperr.IsKind(err, apperr.KindLimitExceeded) {
		t.Fatalf("Expected limit exceeded on attempt %d, got %v", maxAttempts+1, err)
	}
	if got := store.enrollments[enrollment.ID].AttemptsForQuiz("quiz-1"); got != maxAttempts {
		t.Errorf("Expected %d stored attempts, got %d", maxAttempts, got)
	}
}

func TestSubmitQuizAttemptValidation(t *testing.T) {
	svc, store := newTestService(3)
	enrollment := enrollTestStudent(t, svc)

	_, err := svc.SubmitQuizAttempt(context.Background(), enrollment.ID, testStudent, "quiz-1",
		[]grading.SubmittedAnswer{{QuestionID: "no-such-question", SelectedOption: 0}})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("Expected validation error for unknown question, got %v", err)
	}
	if got := store.enrollments[enrollment.ID].AttemptsForQuiz("quiz-1"); got != 0 {
		t.Errorf("Rejected submission must not consume an attempt, got %d", got)
	}
}

func TestSubmitQuizAttemptOwnership(t *testing.T) {
	svc, _ := newTestService(3)
	enrollment := enrollTestStudent(t, svc)

	_, err := svc.SubmitQuizAttempt(context.Background(), enrollment.ID, "other-student", "quiz-1",
		[]grading.SubmittedAnswer{{QuestionID: "question-1", SelectedOption: 0}})
	if !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("Expected forbidden, got %v", err)
	}
}
