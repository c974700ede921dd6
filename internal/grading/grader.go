// Package grading scores submitted quiz attempts. It is pure: it never
// touches storage, so the scoring rules are testable in isolation.
package grading

import (
	"fmt"
	"math"

	"lms-service/internal/apperr"
	"lms-service/internal/models"
)

// SubmittedAnswer is one entry of a student's submission.
type SubmittedAnswer struct {
	QuestionID     string `json:"questionId" binding:"required"`
	SelectedOption int    `json:"selectedOption"`
}

// ProcessedAnswer records the grading outcome for one submitted answer.
type ProcessedAnswer struct {
	QuestionID     string `json:"questionId"`
	SelectedOption int    `json:"selectedOption"`
	IsCorrect      bool   `json:"isCorrect"`
}

type GradeResult struct {
	Score            int               `json:"score"`
	Passed           bool              `json:"passed"`
	ProcessedAnswers []ProcessedAnswer `json:"processedAnswers"`
	CorrectCount     int               `json:"correctCount"`
	TotalQuestions   int               `json:"totalQuestions"`
}

// Grade scores a submission against the quiz's answer key.
//
// The denominator is always the quiz's question count: omitting questions
// from the submission lowers the achievable score rather than shrinking the
// scale. Omitted questions contribute nothing to the processed-answer list.
func Grade(quiz *models.Quiz, answers []SubmittedAnswer) (*GradeResult, error) {
	if len(answers) == 0 {
		return nil, apperr.Validation("EMPTY_SUBMISSION", "Answers array is required")
	}

	correctCount := 0
	processed := make([]ProcessedAnswer, 0, len(answers))

	for _, answer := range answers {
		question := quiz.QuestionByID(answer.QuestionID)
		if question == nil {
			return nil, apperr.Validation("UNKNOWN_QUESTION",
				fmt.Sprintf("Question %s not found in quiz", answer.QuestionID))
		}
		if answer.SelectedOption < 0 || answer.SelectedOption >= len(question.Options) {
			return nil, apperr.Validation("INVALID_OPTION",
				fmt.Sprintf("Invalid option selected for question %s", answer.QuestionID))
		}

		isCorrect := question.Options[answer.SelectedOption].IsCorrect
		if isCorrect {
			correctCount++
		}
		processed = append(processed, ProcessedAnswer{
			QuestionID:     answer.QuestionID,
			SelectedOption: answer.SelectedOption,
			IsCorrect:      isCorrect,
		})
	}

	total := len(quiz.Questions)
	score := int(math.Round(float64(correctCount) / float64(total) * 100))

	return &GradeResult{
		Score:            score,
		Passed:           score >= quiz.PassingScore,
		ProcessedAnswers: processed,
		CorrectCount:     correctCount,
		TotalQuestions:   total,
	}, nil
}
