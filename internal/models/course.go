package models

import "time"

type Course struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	Title           string    `bson:"title" json:"title"`
	Description     string    `bson:"description" json:"description"`
	InstructorName  string    `bson:"instructorName" json:"instructorName"`
	Price           float64   `bson:"price" json:"price"`
	CreatedBy       string    `bson:"createdBy" json:"createdBy"`
	IsActive        bool      `bson:"isActive" json:"isActive"`
	EnrollmentCount int       `bson:"enrollmentCount" json:"enrollmentCount"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}
