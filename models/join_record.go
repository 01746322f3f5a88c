package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JoinRecord marks one user's participation in one event. The
// (eventId, userEmail) pair is unique; the owner's record is created
// together with the event itself.
type JoinRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID      primitive.ObjectID `bson:"eventId" json:"eventId"`
	UserEmail    string             `bson:"userEmail" json:"userEmail"`
	UserName     string             `bson:"userName" json:"userName"`
	UserPhotoURL *string            `bson:"userPhotoURL,omitempty" json:"userPhotoURL"`
	JoinedAt     time.Time          `bson:"joinedAt" json:"joinedAt"`
}
