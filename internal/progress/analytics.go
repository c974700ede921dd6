package progress

import (
	"time"

	"lms-service/internal/models"
)

// AnalyticsInput packages one enrollment with the catalog context the
// rollup needs.
type AnalyticsInput struct {
	Enrollment   *models.Enrollment
	CourseTitle  string
	TotalLessons int
	TotalQuizzes int
	Lessons      map[string]models.Lesson
	Quizzes      map[string]models.Quiz
}

type CourseProgress struct {
	CourseID    string     `json:"courseId"`
	CourseTitle string     `json:"courseTitle"`
	Progress    float64    `json:"progress"`
	TimeSpent   int        `json:"timeSpent"`
	EnrolledAt  time.Time  `json:"enrolledAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type Analytics struct {
	TotalCourses      int              `json:"totalCourses"`
	CompletedCourses  int              `json:"completedCourses"`
	InProgressCourses int              `json:"inProgressCourses"`
	TotalLessons      int              `json:"totalLessons"`
	CompletedLessons  int              `json:"completedLessons"`
	TotalQuizzes      int              `json:"totalQuizzes"`
	PassedQuizzes     int              `json:"passedQuizzes"`
	TotalTimeSpent    int              `json:"totalTimeSpent"`
	AverageQuizScore  float64          `json:"averageQuizScore"`
	StreakDays        int              `json:"streakDays"`
	CourseProgress    []CourseProgress `json:"courseProgress"`
}

// dateKey buckets an instant into a UTC calendar day. Timestamps decoded
// from storage are UTC while the streak anchor is server-local, so both
// sides normalize here.
func dateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ComputeAnalytics rolls all of a student's enrollments into one view.
// The average quiz score is the mean over every recorded attempt, not
// per-quiz bests. now anchors the streak walk.
func ComputeAnalytics(inputs []AnalyticsInput, now time.Time) Analytics {
	analytics := Analytics{
		TotalCourses:   len(inputs),
		CourseProgress: []CourseProgress{},
	}

	totalScore := 0
	attemptCount := 0
	activityDates := map[string]bool{}

	for _, in := range inputs {
		enrollment := in.Enrollment

		if enrollment.CompletionDate != nil {
			analytics.CompletedCourses++
		} else {
			analytics.InProgressCourses++
		}

		analytics.TotalLessons += in.TotalLessons
		analytics.CompletedLessons += len(enrollment.CompletedLessons)
		analytics.TotalQuizzes += in.TotalQuizzes

		timeSpent := 0
		for _, cl := range enrollment.CompletedLessons {
			activityDates[dateKey(cl.CompletedAt)] = true
			if lesson, ok := in.Lessons[cl.LessonID]; ok {
				timeSpent += lesson.Duration
			}
		}
		analytics.TotalTimeSpent += timeSpent

		passedQuizzes := 0
		for _, st := range standings(enrollment.QuizAttempts, in.Quizzes) {
			if st.passed {
				passedQuizzes++
			}
		}
		analytics.PassedQuizzes += passedQuizzes

		for _, attempt := range enrollment.QuizAttempts {
			activityDates[dateKey(attempt.AttemptDate)] = true
			totalScore += attempt.Score
			attemptCount++
		}

		_, _, overall := meanProgress(
			len(enrollment.CompletedLessons), in.TotalLessons, passedQuizzes, in.TotalQuizzes)

		analytics.CourseProgress = append(analytics.CourseProgress, CourseProgress{
			CourseID:    enrollment.CourseID,
			CourseTitle: in.CourseTitle,
			Progress:    round2(overall),
			TimeSpent:   timeSpent,
			EnrolledAt:  enrollment.EnrollmentDate,
			CompletedAt: enrollment.CompletionDate,
		})
	}

	if attemptCount > 0 {
		analytics.AverageQuizScore = round2(float64(totalScore) / float64(attemptCount))
	}
	analytics.StreakDays = Streak(activityDates, now)
	return analytics
}

// Streak walks backward from now one calendar day at a time, counting
// consecutive days with recorded activity. The first gap ends the streak,
// so a day without activity today yields 0 regardless of earlier history.
func Streak(activityDates map[string]bool, now time.Time) int {
	streak := 0
	for activityDates[dateKey(now.AddDate(0, 0, -streak))] {
		streak++
	}
	return streak
}
