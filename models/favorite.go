package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite marks a file as bookmarked by a user inside one organization.
type Favorite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	OrgID     string             `bson:"org_id" json:"orgId"`
	FileID    primitive.ObjectID `bson:"file_id" json:"fileId"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
