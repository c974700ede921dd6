package models

import "time"

type CompletedLesson struct {
	LessonID    string    `bson:"lesson" json:"lesson"`
	CompletedAt time.Time `bson:"completedAt" json:"completedAt"`
}

type AttemptAnswer struct {
	QuestionID     string `bson:"questionId" json:"questionId"`
	SelectedOption int    `bson:"selectedOption" json:"selectedOption"`
	IsCorrect      bool   `bson:"isCorrect" json:"isCorrect"`
}

// QuizAttempt is one graded submission, immutable once recorded.
type QuizAttempt struct {
	QuizID      string          `bson:"quiz" json:"quiz"`
	Score       int             `bson:"score" json:"score"`
	Answers     []AttemptAnswer `bson:"answers" json:"answers"`
	AttemptDate time.Time       `bson:"attemptDate" json:"attemptDate"`
	Passed      bool            `bson:"passed" json:"passed"`
}

type Certificate struct {
	Issued        bool       `bson:"issued" json:"issued"`
	IssuedAt      *time.Time `bson:"issuedAt,omitempty" json:"issuedAt,omitempty"`
	CertificateID string     `bson:"certificateId,omitempty" json:"certificateId,omitempty"`
}

// Enrollment is a student's relationship to one course and carries all of
// their progress state. At most one exists per (student, course) pair; the
// enrollments collection enforces that with a unique compound index.
type Enrollment struct {
	ID               string            `bson:"_id,omitempty" json:"id"`
	StudentID        string            `bson:"student" json:"student"`
	CourseID         string            `bson:"course" json:"course"`
	EnrollmentDate   time.Time         `bson:"enrollmentDate" json:"enrollmentDate"`
	Progress         int               `bson:"progress" json:"progress"`
	CompletedLessons []CompletedLesson `bson:"completedLessons" json:"completedLessons"`
	QuizAttempts     []QuizAttempt     `bson:"quizAttempts" json:"quizAttempts"`
	IsCompleted      bool              `bson:"isCompleted" json:"isCompleted"`
	CompletionDate   *time.Time        `bson:"completionDate,omitempty" json:"completionDate,omitempty"`
	Certificate      Certificate       `bson:"certificate" json:"certificate"`
}

// HasCompletedLesson reports whether the lesson already appears in the
// completed list.
func (e *Enrollment) HasCompletedLesson(lessonID string) bool {
	for _, cl := range e.CompletedLessons {
		if cl.LessonID == lessonID {
			return true
		}
	}
	return false
}

// AttemptsForQuiz counts recorded attempts for one quiz.
func (e *Enrollment) AttemptsForQuiz(quizID string) int {
	n := 0
	for _, a := range e.QuizAttempts {
		if a.QuizID == quizID {
			n++
		}
	}
	return n
}
