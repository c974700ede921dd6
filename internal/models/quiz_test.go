package models

import "testing"

func validQuiz() *Quiz {
	return &Quiz{
		Title:    "Basics",
		CourseID: "course-1",
		Questions: []Question{
			{
				ID:   "q1",
				Text: "Pick one",
				Options: []Option{
					{Text: "a", IsCorrect: true},
					{Text: "b"},
				},
			},
		},
		TimeLimit:    30,
		PassingScore: 70,
		MaxAttempts:  3,
	}
}

func TestQuizValidate(t *testing.T) {
	if err := validQuiz().Validate(); err != nil {
		t.Fatalf("valid quiz rejected: %v", err)
	}
}

func TestQuizValidateRejections(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(q *Quiz)
	}{
		{"no questions", func(q *Quiz) { q.Questions = nil }},
		{"no correct option", func(q *Quiz) {
			q.Questions[0].Options = []Option{{Text: "a"}, {Text: "b"}}
		}},
		{"two correct options", func(q *Quiz) {
			q.Questions[0].Options = []Option{
				{Text: "a", IsCorrect: true},
				{Text: "b", IsCorrect: true},
			}
		}},
		{"single option", func(q *Quiz) {
			q.Questions[0].Options = []Option{{Text: "a", IsCorrect: true}}
		}},
		{"seven options", func(q *Quiz) {
			q.Questions[0].Options = []Option{
				{Text: "a", IsCorrect: true}, {Text: "b"}, {Text: "c"},
				{Text: "d"}, {Text: "e"}, {Text: "f"}, {Text: "g"},
			}
		}},
		{"empty question text", func(q *Quiz) { q.Questions[0].Text = "" }},
		{"zero time limit", func(q *Quiz) { q.TimeLimit = 0 }},
		{"passing score over 100", func(q *Quiz) { q.PassingScore = 101 }},
		{"zero max attempts", func(q *Quiz) { q.MaxAttempts = 0 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			quiz := validQuiz()
			tc.mutate(quiz)
			if err := quiz.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestPublicViewHidesAnswers(t *testing.T) {
	quiz := validQuiz()
	view := quiz.PublicView()

	if len(view.Questions) != 1 {
		t.Fatalf("Expected 1 question, got %d", len(view.Questions))
	}
	if len(view.Questions[0].Options) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(view.Questions[0].Options))
	}
	for _, opt := range view.Questions[0].Options {
		if opt.Text == "" {
			t.Error("Option text missing from public view")
		}
	}
}

func TestEnrollmentHelpers(t *testing.T) {
	enrollment := &Enrollment{
		CompletedLessons: []CompletedLesson{{LessonID: "l1"}},
		QuizAttempts: []QuizAttempt{
			{QuizID: "q1", Score: 40},
			{QuizID: "q1", Score: 80},
			{QuizID: "q2", Score: 60},
		},
	}

	if !enrollment.HasCompletedLesson("l1") {
		t.Error("Expected l1 completed")
	}
	if enrollment.HasCompletedLesson("l2") {
		t.Error("Did not expect l2 completed")
	}
	if n := enrollment.AttemptsForQuiz("q1"); n != 2 {
		t.Errorf("Expected 2 attempts for q1, got %d", n)
	}
	if n := enrollment.AttemptsForQuiz("q3"); n != 0 {
		t.Errorf("Expected 0 attempts for q3, got %d", n)
	}
}
