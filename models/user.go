package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Preferences controls how a user wants to hear about event activity.
type Preferences struct {
	Notifications bool `bson:"notifications" json:"notifications"`
	EmailUpdates  bool `bson:"emailUpdates" json:"emailUpdates"`
}

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email       string             `bson:"email" json:"email"`
	DisplayName string             `bson:"displayName" json:"displayName"`
	PhotoURL    *string            `bson:"photoURL,omitempty" json:"photoURL"`
	Preferences Preferences        `bson:"preferences" json:"preferences"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
