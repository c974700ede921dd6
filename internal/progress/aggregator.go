// Package progress derives progress, score, and analytics views from
// enrollments plus catalog counts. Like grading, it is pure: callers fetch
// the documents, this package only computes.
package progress

import (
	"math"
	"sort"
	"time"

	"lms-service/internal/models"
)

type CourseInfo struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	InstructorName string `json:"instructorName"`
}

type Percentages struct {
	Overall float64 `json:"overall"`
	Lessons float64 `json:"lessons"`
	Quizzes float64 `json:"quizzes"`
}

type Stats struct {
	TotalLessons     int        `json:"totalLessons"`
	CompletedLessons int        `json:"completedLessons"`
	TotalQuizzes     int        `json:"totalQuizzes"`
	PassedQuizzes    int        `json:"passedQuizzes"`
	TimeSpent        int        `json:"timeSpent"`
	EnrolledAt       time.Time  `json:"enrolledAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

// Activity is one entry of the recent-activity feed. Lesson entries carry
// CompletedAt, quiz entries carry Score/Passed/SubmittedAt.
type Activity struct {
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Score       *int       `json:"score,omitempty"`
	Passed      *bool      `json:"passed,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

func (a Activity) when() time.Time {
	if a.CompletedAt != nil {
		return *a.CompletedAt
	}
	if a.SubmittedAt != nil {
		return *a.SubmittedAt
	}
	return time.Time{}
}

type Summary struct {
	EnrollmentID   string      `json:"enrollmentId"`
	Course         CourseInfo  `json:"course"`
	Progress       Percentages `json:"progress"`
	Stats          Stats       `json:"stats"`
	RecentActivity []Activity  `json:"recentActivity"`
}

// quizStanding is the best-score view of one quiz's attempts.
type quizStanding struct {
	bestScore int
	passed    bool
	attempts  int
}

// standings folds attempts per quiz, keeping the best score. Pass/fail is
// judged against the quiz's passing score when the quiz is known; for
// attempts whose quiz is gone from the catalog the stored flag on the best
// attempt is trusted.
func standings(attempts []models.QuizAttempt, quizzes map[string]models.Quiz) map[string]quizStanding {
	out := make(map[string]quizStanding)
	for _, attempt := range attempts {
		st := out[attempt.QuizID]
		st.attempts++
		if st.attempts == 1 || attempt.Score > st.bestScore {
			st.bestScore = attempt.Score
			st.passed = attempt.Passed
		}
		if quiz, ok := quizzes[attempt.QuizID]; ok {
			st.passed = st.bestScore >= quiz.PassingScore
		}
		out[attempt.QuizID] = st
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// meanProgress averages the lesson and quiz percentages. Zero denominators
// contribute 0; when both totals are zero the result is 0.
func meanProgress(completedLessons, totalLessons, passedQuizzes, totalQuizzes int) (lessonPct, quizPct, overall float64) {
	if totalLessons > 0 {
		lessonPct = float64(completedLessons) / float64(totalLessons) * 100
	}
	if totalQuizzes > 0 {
		quizPct = float64(passedQuizzes) / float64(totalQuizzes) * 100
	}
	if totalLessons > 0 || totalQuizzes > 0 {
		overall = (lessonPct + quizPct) / 2
	}
	return lessonPct, quizPct, overall
}

// ComputeCourseProgress builds the per-course progress summary. The lesson
// and quiz maps supply titles, durations, and passing scores for records
// referenced by the enrollment.
func ComputeCourseProgress(
	enrollment *models.Enrollment,
	course *models.Course,
	totalLessons, totalQuizzes int,
	lessons map[string]models.Lesson,
	quizzes map[string]models.Quiz,
) Summary {
	byQuiz := standings(enrollment.QuizAttempts, quizzes)
	passedQuizzes := 0
	for _, st := range byQuiz {
		if st.passed {
			passedQuizzes++
		}
	}

	lessonPct, quizPct, overall := meanProgress(
		len(enrollment.CompletedLessons), totalLessons, passedQuizzes, totalQuizzes)

	timeSpent := 0
	for _, cl := range enrollment.CompletedLessons {
		if lesson, ok := lessons[cl.LessonID]; ok {
			timeSpent += lesson.Duration
		}
	}

	return Summary{
		EnrollmentID: enrollment.ID,
		Course: CourseInfo{
			ID:             course.ID,
			Title:          course.Title,
			Description:    course.Description,
			InstructorName: course.InstructorName,
		},
		Progress: Percentages{
			Overall: round2(overall),
			Lessons: round2(lessonPct),
			Quizzes: round2(quizPct),
		},
		Stats: Stats{
			TotalLessons:     totalLessons,
			CompletedLessons: len(enrollment.CompletedLessons),
			TotalQuizzes:     totalQuizzes,
			PassedQuizzes:    passedQuizzes,
			TimeSpent:        timeSpent,
			EnrolledAt:       enrollment.EnrollmentDate,
			CompletedAt:      enrollment.CompletionDate,
		},
		RecentActivity: RecentActivity(enrollment, lessons, quizzes),
	}
}

// RecentActivity merges lesson completions (most recent 5) and quiz attempts
// (most recent 3), then re-sorts the merged feed and keeps the top 5.
func RecentActivity(enrollment *models.Enrollment, lessons map[string]models.Lesson, quizzes map[string]models.Quiz) []Activity {
	lessonEvents := make([]Activity, 0, len(enrollment.CompletedLessons))
	for _, cl := range enrollment.CompletedLessons {
		title := cl.LessonID
		if lesson, ok := lessons[cl.LessonID]; ok {
			title = lesson.Title
		}
		completedAt := cl.CompletedAt
		lessonEvents = append(lessonEvents, Activity{
			Type:        "lesson",
			Title:       title,
			CompletedAt: &completedAt,
		})
	}
	sort.Slice(lessonEvents, func(i, j int) bool {
		return lessonEvents[i].when().After(lessonEvents[j].when())
	})
	if len(lessonEvents) > 5 {
		lessonEvents = lessonEvents[:5]
	}

	quizEvents := make([]Activity, 0, len(enrollment.QuizAttempts))
	for _, attempt := range enrollment.QuizAttempts {
		title := attempt.QuizID
		passed := attempt.Passed
		if quiz, ok := quizzes[attempt.QuizID]; ok {
			title = quiz.Title
			passed = attempt.Score >= quiz.PassingScore
		}
		score := attempt.Score
		submittedAt := attempt.AttemptDate
		quizEvents = append(quizEvents, Activity{
			Type:        "quiz",
			Title:       title,
			Score:       &score,
			Passed:      &passed,
			SubmittedAt: &submittedAt,
		})
	}
	sort.Slice(quizEvents, func(i, j int) bool {
		return quizEvents[i].when().After(quizEvents[j].when())
	})
	if len(quizEvents) > 3 {
		quizEvents = quizEvents[:3]
	}

	feed := append(lessonEvents, quizEvents...)
	sort.Slice(feed, func(i, j int) bool {
		return feed[i].when().After(feed[j].when())
	})
	if len(feed) > 5 {
		feed = feed[:5]
	}
	return feed
}

// AttemptSummary is one attempt inside a quiz-score rollup.
type AttemptSummary struct {
	AttemptNumber int       `json:"attemptNumber"`
	Score         int       `json:"score"`
	Passed        bool      `json:"passed"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

type QuizScore struct {
	QuizID       string           `json:"quizId"`
	QuizTitle    string           `json:"quizTitle"`
	CourseTitle  string           `json:"courseTitle"`
	PassingScore int              `json:"passingScore"`
	MaxAttempts  int              `json:"maxAttempts"`
	Attempts     []AttemptSummary `json:"attempts"`
	BestScore    int              `json:"bestScore"`
	AverageScore float64          `json:"averageScore"`
	Passed       bool             `json:"passed"`
	AttemptsUsed int              `json:"attemptsUsed"`
}

// ComputeQuizScores rolls an enrollment's attempts into per-quiz summaries,
// preserving attempt order.
func ComputeQuizScores(enrollment *models.Enrollment, courseTitle string, quizzes map[string]models.Quiz) []QuizScore {
	order := []string{}
	byQuiz := map[string]*QuizScore{}

	for _, attempt := range enrollment.QuizAttempts {
		qs, ok := byQuiz[attempt.QuizID]
		if !ok {
			qs = &QuizScore{
				QuizID:      attempt.QuizID,
				QuizTitle:   attempt.QuizID,
				CourseTitle: courseTitle,
			}
			if quiz, found := quizzes[attempt.QuizID]; found {
				qs.QuizTitle = quiz.Title
				qs.PassingScore = quiz.PassingScore
				qs.MaxAttempts = quiz.MaxAttempts
			}
			byQuiz[attempt.QuizID] = qs
			order = append(order, attempt.QuizID)
		}

		qs.Attempts = append(qs.Attempts, AttemptSummary{
			AttemptNumber: len(qs.Attempts) + 1,
			Score:         attempt.Score,
			Passed:        attempt.Passed,
			SubmittedAt:   attempt.AttemptDate,
		})
		qs.AttemptsUsed = len(qs.Attempts)
		if qs.AttemptsUsed == 1 || attempt.Score > qs.BestScore {
			qs.BestScore = attempt.Score
			qs.Passed = attempt.Passed
		}
		// Judge against the catalog passing score when the quiz is known;
		// otherwise the stored flag on the best attempt stands.
		if _, found := quizzes[attempt.QuizID]; found {
			qs.Passed = qs.BestScore >= qs.PassingScore
		}
		total := 0
		for _, a := range qs.Attempts {
			total += a.Score
		}
		qs.AverageScore = round2(float64(total) / float64(len(qs.Attempts)))
	}

	out := make([]QuizScore, 0, len(order))
	for _, id := range order {
		out = append(out, *byQuiz[id])
	}
	return out
}
