package service

import (
	"context"
	"time"

	"lms-service/internal/apperr"
	"lms-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

type QuizService struct {
	Repo       QuizCatalogStore
	CourseRepo CourseStore
}

func NewQuizService(repo QuizCatalogStore, courseRepo CourseStore) *QuizService {
	return &QuizService{Repo: repo, CourseRepo: courseRepo}
}

type QuestionInput struct {
	Text    string          `json:"text" binding:"required,min=3,max=500"`
	Options []models.Option `json:"options" binding:"required"`
	Order   int             `json:"order"`
}

type CreateQuizInput struct {
	Title        string          `json:"title" binding:"required,min=3,max=100"`
	Description  string          `json:"description" binding:"max=500"`
	Questions    []QuestionInput `json:"questions" binding:"required,min=1"`
	TimeLimit    int             `json:"timeLimit"`
	PassingScore *int            `json:"passingScore" binding:"omitempty,min=0,max=100"`
	MaxAttempts  int             `json:"maxAttempts" binding:"omitempty,min=1"`
	Order        int             `json:"order" binding:"omitempty,min=1"`
}

// ListQuizzes returns the public listing for a course: answers hidden.
func (s *QuizService) ListQuizzes(ctx context.Context, courseID string) ([]models.PublicQuizView, error) {
	course, err := s.CourseRepo.FindActiveByID(ctx, courseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if course == nil {
		return nil, apperr.NotFound("COURSE_NOT_FOUND", "Course not found")
	}
	quizzes, err := s.Repo.FindActiveByCourse(ctx, courseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	views := make([]models.PublicQuizView, 0, len(quizzes))
	for i := range quizzes {
		views = append(views, quizzes[i].PublicView())
	}
	return views, nil
}

// GetQuiz returns one quiz for taking, answers hidden.
func (s *QuizService) GetQuiz(ctx context.Context, id string) (*models.PublicQuizView, error) {
	quiz, err := s.Repo.FindActiveByID(ctx, id, "")
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if quiz == nil {
		return nil, apperr.NotFound("QUIZ_NOT_FOUND", "Quiz not found")
	}
	view := quiz.PublicView()
	return &view, nil
}

// GetQuizAdmin returns one quiz with the answer key included, for admin
// review. Soft-deleted quizzes stay readable here.
func (s *QuizService) GetQuizAdmin(ctx context.Context, id string) (*models.Quiz, error) {
	quiz, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if quiz == nil {
		return nil, apperr.NotFound("QUIZ_NOT_FOUND", "Quiz not found")
	}
	return quiz, nil
}

func (s *QuizService) CreateQuiz(ctx context.Context, courseID string, in CreateQuizInput) (*models.Quiz, error) {
	course, err := s.CourseRepo.FindActiveByID(ctx, courseID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if course == nil {
		return nil, apperr.NotFound("COURSE_NOT_FOUND", "Course not found")
	}

	order := in.Order
	if order == 0 {
		last, err := s.Repo.MaxOrder(ctx, courseID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		order = last + 1
	}

	now := time.Now()
	quiz := &models.Quiz{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Description:  in.Description,
		CourseID:     courseID,
		Questions:    buildQuestions(in.Questions),
		TimeLimit:    in.TimeLimit,
		PassingScore: 70,
		MaxAttempts:  in.MaxAttempts,
		Order:        order,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if quiz.TimeLimit == 0 {
		quiz.TimeLimit = 30
	}
	if in.PassingScore != nil {
		quiz.PassingScore = *in.PassingScore
	}
	if quiz.MaxAttempts == 0 {
		quiz.MaxAttempts = 3
	}

	if err := quiz.Validate(); err != nil {
		return nil, apperr.Validation("INVALID_QUIZ", err.Error())
	}
	if err := s.Repo.Create(ctx, quiz); err != nil {
		return nil, apperr.Internal(err)
	}
	return quiz, nil
}

type UpdateQuizInput struct {
	Title        *string          `json:"title" binding:"omitempty,min=3,max=100"`
	Description  *string          `json:"description" binding:"omitempty,max=500"`
	Questions    *[]QuestionInput `json:"questions" binding:"omitempty,min=1"`
	TimeLimit    *int             `json:"timeLimit" binding:"omitempty,min=1"`
	PassingScore *int             `json:"passingScore" binding:"omitempty,min=0,max=100"`
	MaxAttempts  *int             `json:"maxAttempts" binding:"omitempty,min=1"`
	Order        *int             `json:"order" binding:"omitempty,min=1"`
}

func (s *QuizService) UpdateQuiz(ctx context.Context, id string, in UpdateQuizInput) (*models.Quiz, error) {
	quiz, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if quiz == nil {
		return nil, apperr.NotFound("QUIZ_NOT_FOUND", "Quiz not found")
	}

	// Apply the update to a copy and re-validate the whole definition, so
	// the exactly-one-correct-option invariant holds on update too.
	updated := *quiz
	if in.Title != nil {
		updated.Title = *in.Title
	}
	if in.Description != nil {
		updated.Description = *in.Description
	}
	if in.Questions != nil {
		updated.Questions = buildQuestions(*in.Questions)
	}
	if in.TimeLimit != nil {
		updated.TimeLimit = *in.TimeLimit
	}
	if in.PassingScore != nil {
		updated.PassingScore = *in.PassingScore
	}
	if in.MaxAttempts != nil {
		updated.MaxAttempts = *in.MaxAttempts
	}
	if in.Order != nil {
		updated.Order = *in.Order
	}
	updated.UpdatedAt = time.Now()

	if err := updated.Validate(); err != nil {
		return nil, apperr.Validation("INVALID_QUIZ", err.Error())
	}

	update := bson.M{
		"title":        updated.Title,
		"description":  updated.Description,
		"questions":    updated.Questions,
		"timeLimit":    updated.TimeLimit,
		"passingScore": updated.PassingScore,
		"maxAttempts":  updated.MaxAttempts,
		"order":        updated.Order,
		"updatedAt":    updated.UpdatedAt,
	}
	if err := s.Repo.Update(ctx, id, update); err != nil {
		return nil, apperr.Internal(err)
	}
	return &updated, nil
}

func (s *QuizService) DeleteQuiz(ctx context.Context, id string) error {
	quiz, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if quiz == nil {
		return apperr.NotFound("QUIZ_NOT_FOUND", "Quiz not found")
	}
	if err := s.Repo.Deactivate(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// buildQuestions assigns generated ids to incoming questions. Order falls
// back to the position in the submitted list.
func buildQuestions(inputs []QuestionInput) []models.Question {
	questions := make([]models.Question, 0, len(inputs))
	for i, in := range inputs {
		order := in.Order
		if order == 0 {
			order = i + 1
		}
		questions = append(questions, models.Question{
			ID:      uuid.NewString(),
			Text:    in.Text,
			Options: in.Options,
			Order:   order,
		})
	}
	return questions
}
