package repository

import (
	"context"
	"errors"
	"log"

	"lms-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnrollmentFilter narrows the admin listing.
type EnrollmentFilter struct {
	CourseID  string
	StudentID string
	Page      int64
	Limit     int64
}

type EnrollmentRepository struct {
	Col *mongo.Collection
}

func NewEnrollmentRepository(db *mongo.Database) *EnrollmentRepository {
	r := &EnrollmentRepository{Col: db.Collection("enrollments")}
	r.ensureIndexes()
	return r
}

// The unique (student, course) index is the storage-level guarantee that a
// student enrolls at most once per course.
func (r *EnrollmentRepository) ensureIndexes() {
	_, err := r.Col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "student", Value: 1}, {Key: "course", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("Warning: could not create enrollment index: %s", err)
	}
}

func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&enrollment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) FindByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	cur, err := r.Col.Find(ctx, bson.M{"student": studentID},
		options.Find().SetSort(bson.M{"enrollmentDate": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var enrollments []models.Enrollment
	for cur.Next(ctx) {
		var enrollment models.Enrollment
		if err := cur.Decode(&enrollment); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, enrollment)
	}
	return enrollments, cur.Err()
}

func (r *EnrollmentRepository) FindByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.Col.FindOne(ctx, bson.M{"student": studentID, "course": courseID}).Decode(&enrollment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) FindAll(ctx context.Context, filter EnrollmentFilter) ([]models.Enrollment, int64, error) {
	query := bson.M{}
	if filter.CourseID != "" {
		query["course"] = filter.CourseID
	}
	if filter.StudentID != "" {
		query["student"] = filter.StudentID
	}

	total, err := r.Col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.M{"enrollmentDate": -1}).
		SetSkip((filter.Page - 1) * filter.Limit).
		SetLimit(filter.Limit)
	cur, err := r.Col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var enrollments []models.Enrollment
	for cur.Next(ctx) {
		var enrollment models.Enrollment
		if err := cur.Decode(&enrollment); err != nil {
			return nil, 0, err
		}
		enrollments = append(enrollments, enrollment)
	}
	return enrollments, total, cur.Err()
}

// IsDuplicateKey reports whether err is the unique-index conflict raised on
// double enrollment.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	_, err := r.Col.InsertOne(ctx, enrollment)
	return err
}

// Replace persists a fully recomputed enrollment document.
func (r *EnrollmentRepository) Replace(ctx context.Context, enrollment *models.Enrollment) error {
	_, err := r.Col.ReplaceOne(ctx, bson.M{"_id": enrollment.ID}, enrollment)
	return err
}

// AppendQuizAttempt pushes an attempt only while the stored attempt count
// for the quiz is below maxAttempts. The filter makes the append
// conditional, so two concurrent submissions cannot both exceed the limit.
// Returns false when the guard rejected the write.
func (r *EnrollmentRepository) AppendQuizAttempt(ctx context.Context, enrollmentID string, attempt models.QuizAttempt, maxAttempts int) (bool, error) {
	filter := bson.M{
		"_id": enrollmentID,
		"$expr": bson.M{"$lt": bson.A{
			bson.M{"$size": bson.M{"$filter": bson.M{
				"input": "$quizAttempts",
				"as":    "a",
				"cond":  bson.M{"$eq": bson.A{"$$a.quiz", attempt.QuizID}},
			}}},
			maxAttempts,
		}},
	}
	res, err := r.Col.UpdateOne(ctx, filter,
		bson.M{"$push": bson.M{"quizAttempts": attempt}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}
