package repository

import (
	"context"
	"errors"

	"lms-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type QuizRepository struct {
	Col *mongo.Collection
}

func NewQuizRepository(db *mongo.Database) *QuizRepository {
	return &QuizRepository{Col: db.Collection("quizzes")}
}

// FindByCourse returns every quiz of a course, active or not. Progress
// views rely on it for titles and passing scores of historical attempts.
func (r *QuizRepository) FindByCourse(ctx context.Context, courseID string) ([]models.Quiz, error) {
	cur, err := r.Col.Find(ctx, bson.M{"course": courseID},
		options.Find().SetSort(bson.M{"order": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var quizzes []models.Quiz
	for cur.Next(ctx) {
		var quiz models.Quiz
		if err := cur.Decode(&quiz); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, cur.Err()
}

func (r *QuizRepository) FindActiveByCourse(ctx context.Context, courseID string) ([]models.Quiz, error) {
	cur, err := r.Col.Find(ctx, bson.M{"course": courseID, "isActive": true},
		options.Find().SetSort(bson.M{"order": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var quizzes []models.Quiz
	for cur.Next(ctx) {
		var quiz models.Quiz
		if err := cur.Decode(&quiz); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, cur.Err()
}

// FindActiveByID is the grading read path: the full document including
// option correctness flags. Returns (nil, nil) when no quiz matches.
func (r *QuizRepository) FindActiveByID(ctx context.Context, id, courseID string) (*models.Quiz, error) {
	query := bson.M{"_id": id, "isActive": true}
	if courseID != "" {
		query["course"] = courseID
	}
	var quiz models.Quiz
	err := r.Col.FindOne(ctx, query).Decode(&quiz)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) CountActiveByCourse(ctx context.Context, courseID string) (int, error) {
	n, err := r.Col.CountDocuments(ctx, bson.M{"course": courseID, "isActive": true})
	return int(n), err
}

func (r *QuizRepository) MaxOrder(ctx context.Context, courseID string) (int, error) {
	var quiz models.Quiz
	err := r.Col.FindOne(ctx, bson.M{"course": courseID},
		options.FindOne().SetSort(bson.M{"order": -1})).Decode(&quiz)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return quiz.Order, nil
}

func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	_, err := r.Col.InsertOne(ctx, quiz)
	return err
}

func (r *QuizRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *QuizRepository) Deactivate(ctx context.Context, id string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isActive": false}})
	return err
}

func (r *QuizRepository) DeactivateByCourse(ctx context.Context, courseID string) error {
	_, err := r.Col.UpdateMany(ctx, bson.M{"course": courseID}, bson.M{"$set": bson.M{"isActive": false}})
	return err
}
