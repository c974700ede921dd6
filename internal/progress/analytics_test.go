package progress

import (
	"testing"
	"time"

	"lms-service/internal/models"
)

func TestStreak(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days []int // offsets back from now with activity
		want int
	}{
		{"no activity", nil, 0},
		{"today only", []int{0}, 1},
		{"today and yesterday", []int{0, 1}, 2},
		{"gap at yesterday", []int{2}, 0},
		{"today, yesterday, gap, four days ago", []int{0, 1, 4}, 2},
		{"five consecutive days", []int{0, 1, 2, 3, 4}, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dates := map[string]bool{}
			for _, off := range tc.days {
				dates[dateKey(now.AddDate(0, 0, -off))] = true
			}
			if got := Streak(dates, now); got != tc.want {
				t.Errorf("Expected streak %d, got %d", tc.want, got)
			}
		})
	}
}

func TestStreakMixedTimezones(t *testing.T) {
	// Stored timestamps come back in UTC while the anchor is server-local;
	// both must land in the same calendar bucket.
	activity := time.Date(2026, 8, 30, 23, 30, 0, 0, time.UTC)
	localNow := activity.In(time.FixedZone("UTC+3", 3*60*60)) // already Aug 31 locally

	dates := map[string]bool{dateKey(activity): true}
	if got := Streak(dates, localNow); got != 1 {
		t.Errorf("Expected streak 1 across timezones, got %d", got)
	}
}

func TestComputeAnalytics(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	completedAt := now.Add(-2 * time.Hour)

	done := &models.Enrollment{
		ID:       "e1",
		CourseID: "c1",
		CompletedLessons: []models.CompletedLesson{
			{LessonID: "l1", CompletedAt: yesterday},
			{LessonID: "l2", CompletedAt: now.Add(-time.Hour)},
		},
		QuizAttempts: []models.QuizAttempt{
			{QuizID: "q1", Score: 80, AttemptDate: now.Add(-30 * time.Minute)},
		},
		CompletionDate: &completedAt,
	}
	inFlight := &models.Enrollment{
		ID:       "e2",
		CourseID: "c2",
		CompletedLessons: []models.CompletedLesson{
			{LessonID: "l3", CompletedAt: yesterday},
		},
		QuizAttempts: []models.QuizAttempt{
			{QuizID: "q2", Score: 40, AttemptDate: yesterday},
			{QuizID: "q2", Score: 60, AttemptDate: now},
		},
	}

	inputs := []AnalyticsInput{
		{
			Enrollment:   done,
			CourseTitle:  "Course One",
			TotalLessons: 2,
			TotalQuizzes: 1,
			Lessons: map[string]models.Lesson{
				"l1": {ID: "l1", Duration: 10},
				"l2": {ID: "l2", Duration: 20},
			},
			Quizzes: map[string]models.Quiz{
				"q1": {ID: "q1", PassingScore: 70},
			},
		},
		{
			Enrollment:   inFlight,
			CourseTitle:  "Course Two",
			TotalLessons: 4,
			TotalQuizzes: 2,
			Lessons: map[string]models.Lesson{
				"l3": {ID: "l3", Duration: 15},
			},
			Quizzes: map[string]models.Quiz{
				"q2": {ID: "q2", PassingScore: 70},
			},
		},
	}

	analytics := ComputeAnalytics(inputs, now)

	if analytics.TotalCourses != 2 || analytics.CompletedCourses != 1 || analytics.InProgressCourses != 1 {
		t.Errorf("Course counts wrong: %+v", analytics)
	}
	if analytics.TotalLessons != 6 || analytics.CompletedLessons != 3 {
		t.Errorf("Lesson counts wrong: total %d completed %d", analytics.TotalLessons, analytics.CompletedLessons)
	}
	if analytics.TotalQuizzes != 3 || analytics.PassedQuizzes != 1 {
		t.Errorf("Quiz counts wrong: total %d passed %d", analytics.TotalQuizzes, analytics.PassedQuizzes)
	}
	if analytics.TotalTimeSpent != 45 {
		t.Errorf("Expected 45 minutes total, got %d", analytics.TotalTimeSpent)
	}
	// Mean over every attempt: (80 + 40 + 60) / 3.
	if analytics.AverageQuizScore != 60.0 {
		t.Errorf("Expected average quiz score 60.0, got %v", analytics.AverageQuizScore)
	}
	// Activity today and yesterday.
	if analytics.StreakDays != 2 {
		t.Errorf("Expected streak 2, got %d", analytics.StreakDays)
	}

	if len(analytics.CourseProgress) != 2 {
		t.Fatalf("Expected 2 course entries, got %d", len(analytics.CourseProgress))
	}
	// Course one: 2/2 lessons, 1/1 quizzes passed.
	if analytics.CourseProgress[0].Progress != 100.0 {
		t.Errorf("Expected course one at 100, got %v", analytics.CourseProgress[0].Progress)
	}
	// Course two: 1/4 lessons (25), 0/2 quizzes (0), mean 12.5.
	if analytics.CourseProgress[1].Progress != 12.5 {
		t.Errorf("Expected course two at 12.5, got %v", analytics.CourseProgress[1].Progress)
	}
	if analytics.CourseProgress[1].TimeSpent != 15 {
		t.Errorf("Expected course two time 15, got %d", analytics.CourseProgress[1].TimeSpent)
	}
}

func TestComputeAnalyticsEmpty(t *testing.T) {
	analytics := ComputeAnalytics(nil, time.Now())
	if analytics.TotalCourses != 0 || analytics.AverageQuizScore != 0 || analytics.StreakDays != 0 {
		t.Errorf("Expected zero analytics, got %+v", analytics)
	}
	if analytics.CourseProgress == nil {
		t.Error("CourseProgress should be an empty slice, not nil")
	}
}
