package repository

import (
	"context"
	"errors"

	"lms-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CourseFilter narrows course listings. Search matches title or description,
// Instructor matches the instructor name, both case-insensitive.
type CourseFilter struct {
	Search     string
	Instructor string
	Page       int64
	Limit      int64
}

type CourseRepository struct {
	Col *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{Col: db.Collection("courses")}
}

func (r *CourseRepository) FindAll(ctx context.Context, filter CourseFilter) ([]models.Course, int64, error) {
	query := bson.M{"isActive": true}
	if filter.Search != "" {
		query["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": filter.Search, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}
	if filter.Instructor != "" {
		query["instructorName"] = bson.M{"$regex": filter.Instructor, "$options": "i"}
	}

	total, err := r.Col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip((filter.Page - 1) * filter.Limit).
		SetLimit(filter.Limit)
	cur, err := r.Col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var courses []models.Course
	for cur.Next(ctx) {
		var course models.Course
		if err := cur.Decode(&course); err != nil {
			return nil, 0, err
		}
		courses = append(courses, course)
	}
	return courses, total, cur.Err()
}

// FindByID returns (nil, nil) when no course matches.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindActiveByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	err := r.Col.FindOne(ctx, bson.M{"_id": id, "isActive": true}).Decode(&course)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindByTitle(ctx context.Context, title string) (*models.Course, error) {
	var course models.Course
	err := r.Col.FindOne(ctx, bson.M{"title": title}).Decode(&course)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	_, err := r.Col.InsertOne(ctx, course)
	return err
}

func (r *CourseRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

// Deactivate soft-deletes the course. Cascading to lessons and quizzes is
// the course service's job.
func (r *CourseRepository) Deactivate(ctx context.Context, id string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isActive": false}})
	return err
}

func (r *CourseRepository) IncrementEnrollmentCount(ctx context.Context, id string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"enrollmentCount": 1}})
	return err
}
