package repository

import (
	"context"
	"errors"

	"lms-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LessonRepository struct {
	Col *mongo.Collection
}

func NewLessonRepository(db *mongo.Database) *LessonRepository {
	return &LessonRepository{Col: db.Collection("lessons")}
}

// FindByCourse returns every lesson of a course, active or not, ordered by
// the order index. Progress views need inactive lessons for titles and
// durations of historical completions.
func (r *LessonRepository) FindByCourse(ctx context.Context, courseID string) ([]models.Lesson, error) {
	cur, err := r.Col.Find(ctx, bson.M{"course": courseID},
		options.Find().SetSort(bson.M{"order": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var lessons []models.Lesson
	for cur.Next(ctx) {
		var lesson models.Lesson
		if err := cur.Decode(&lesson); err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, cur.Err()
}

func (r *LessonRepository) FindActiveByCourse(ctx context.Context, courseID string) ([]models.Lesson, error) {
	cur, err := r.Col.Find(ctx, bson.M{"course": courseID, "isActive": true},
		options.Find().SetSort(bson.M{"order": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var lessons []models.Lesson
	for cur.Next(ctx) {
		var lesson models.Lesson
		if err := cur.Decode(&lesson); err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, cur.Err()
}

// FindActiveByID filters by owning course and active flag, the read path
// mutations use. Returns (nil, nil) when no lesson matches.
func (r *LessonRepository) FindActiveByID(ctx context.Context, id, courseID string) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.Col.FindOne(ctx, bson.M{"_id": id, "course": courseID, "isActive": true}).Decode(&lesson)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&lesson)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) CountActiveByCourse(ctx context.Context, courseID string) (int, error) {
	n, err := r.Col.CountDocuments(ctx, bson.M{"course": courseID, "isActive": true})
	return int(n), err
}

// MaxOrder returns the highest order index in the course, 0 when empty.
func (r *LessonRepository) MaxOrder(ctx context.Context, courseID string) (int, error) {
	var lesson models.Lesson
	err := r.Col.FindOne(ctx, bson.M{"course": courseID},
		options.FindOne().SetSort(bson.M{"order": -1})).Decode(&lesson)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return lesson.Order, nil
}

func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	_, err := r.Col.InsertOne(ctx, lesson)
	return err
}

func (r *LessonRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *LessonRepository) Deactivate(ctx context.Context, id string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isActive": false}})
	return err
}

func (r *LessonRepository) DeactivateByCourse(ctx context.Context, courseID string) error {
	_, err := r.Col.UpdateMany(ctx, bson.M{"course": courseID}, bson.M{"$set": bson.M{"isActive": false}})
	return err
}
