package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Job struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostedBy            primitive.ObjectID `bson:"postedBy" json:"postedBy"`
	Title               string             `bson:"title" json:"title"`
	Company             string             `bson:"company" json:"company"`
	Description         string             `bson:"description" json:"description"`
	ApplyLink           string             `bson:"applyLink,omitempty" json:"applyLink,omitempty"`
	ApplicationDeadline int64              `bson:"applicationDeadline" json:"applicationDeadline"`
	CreatedAt           int64              `bson:"createdAt" json:"createdAt"`
}
