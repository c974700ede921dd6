package models

import (
	"fmt"
	"time"
)

type Option struct {
	Text      string `bson:"text" json:"text"`
	IsCorrect bool   `bson:"isCorrect" json:"isCorrect"`
}

type Question struct {
	ID      string   `bson:"_id" json:"id"`
	Text    string   `bson:"text" json:"text"`
	Options []Option `bson:"options" json:"options"`
	Order   int      `bson:"order" json:"order"`
}

type Quiz struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	CourseID    string     `bson:"course" json:"course"`
	Questions   []Question `bson:"questions" json:"questions"`
	// TimeLimit in minutes.
	TimeLimit int `bson:"timeLimit" json:"timeLimit"`
	// PassingScore is the percentage required to pass.
	PassingScore int       `bson:"passingScore" json:"passingScore"`
	MaxAttempts  int       `bson:"maxAttempts" json:"maxAttempts"`
	Order        int       `bson:"order" json:"order"`
	IsActive     bool      `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Validate checks the quiz definition. Enforced on create and update so a
// malformed question can never reach the grader.
func (q *Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("quiz must have at least one question")
	}
	if q.TimeLimit < 1 {
		return fmt.Errorf("time limit must be at least 1 minute")
	}
	if q.PassingScore < 0 || q.PassingScore > 100 {
		return fmt.Errorf("passing score must be between 0 and 100")
	}
	if q.MaxAttempts < 1 {
		return fmt.Errorf("maximum attempts must be at least 1")
	}
	for i, question := range q.Questions {
		if question.Text == "" {
			return fmt.Errorf("question %d must have text", i+1)
		}
		if len(question.Options) < 2 || len(question.Options) > 6 {
			return fmt.Errorf("question %d must have between 2 and 6 options", i+1)
		}
		correct := 0
		for _, opt := range question.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("question %d must have exactly one correct answer", i+1)
		}
	}
	return nil
}

// QuestionByID resolves an embedded question.
func (q *Quiz) QuestionByID(id string) *Question {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return &q.Questions[i]
		}
	}
	return nil
}

// PublicOption is an option with the correctness flag stripped.
type PublicOption struct {
	Text string `json:"text"`
}

type PublicQuestion struct {
	ID      string         `json:"id"`
	Text    string         `json:"text"`
	Options []PublicOption `json:"options"`
	Order   int            `json:"order"`
}

// PublicQuizView is the quiz as served to students taking it: correct
// answers hidden. The grading read path uses the full document instead.
type PublicQuizView struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	CourseID     string           `json:"course"`
	Questions    []PublicQuestion `json:"questions"`
	TimeLimit    int              `json:"timeLimit"`
	PassingScore int              `json:"passingScore"`
	MaxAttempts  int              `json:"maxAttempts"`
	Order        int              `json:"order"`
}

func (q *Quiz) PublicView() PublicQuizView {
	view := PublicQuizView{
		ID:           q.ID,
		Title:        q.Title,
		Description:  q.Description,
		CourseID:     q.CourseID,
		TimeLimit:    q.TimeLimit,
		PassingScore: q.PassingScore,
		MaxAttempts:  q.MaxAttempts,
		Order:        q.Order,
	}
	for _, question := range q.Questions {
		pq := PublicQuestion{
			ID:    question.ID,
			Text:  question.Text,
			Order: question.Order,
		}
		for _, opt := range question.Options {
			pq.Options = append(pq.Options, PublicOption{Text: opt.Text})
		}
		view.Questions = append(view.Questions, pq)
	}
	return view
}
