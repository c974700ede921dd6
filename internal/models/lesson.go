package models

import "time"

type ResourceLink struct {
	Title string `bson:"title" json:"title"`
	URL   string `bson:"url" json:"url"`
}

type Lesson struct {
	ID            string         `bson:"_id,omitempty" json:"id"`
	Title         string         `bson:"title" json:"title"`
	VideoURL      string         `bson:"videoUrl" json:"videoUrl"`
	ResourceLinks []ResourceLink `bson:"resourceLinks" json:"resourceLinks"`
	CourseID      string         `bson:"course" json:"course"`
	Order         int            `bson:"order" json:"order"`
	// Duration in minutes. Zero means unknown.
	Duration  int       `bson:"duration" json:"duration"`
	IsActive  bool      `bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
