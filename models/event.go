package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description" json:"description"`
	EventType      string             `bson:"eventType" json:"eventType"`
	ThumbnailImage string             `bson:"thumbnailImage,omitempty" json:"thumbnailImage,omitempty"`
	Location       string             `bson:"location" json:"location"`
	EventDate      time.Time          `bson:"eventDate" json:"eventDate"`

	// Owner snapshot, captured at creation and never updated afterwards.
	UserEmail    string  `bson:"userEmail" json:"userEmail"`
	UserName     string  `bson:"userName" json:"userName"`
	UserPhotoURL *string `bson:"userPhotoURL,omitempty" json:"userPhotoURL"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Participant is the projection of a JoinRecord embedded in enriched
// event responses. JoinedAt is only populated on the single-event view.
type Participant struct {
	UserEmail    string     `json:"userEmail"`
	UserName     string     `json:"userName"`
	UserPhotoURL *string    `json:"userPhotoURL"`
	JoinedAt     *time.Time `json:"joinedAt,omitempty"`
}

type EventWithParticipants struct {
	Event

	// Enriched fields
	Participants      []Participant `json:"participants" bson:"-"`
	ParticipantsCount int           `json:"participantsCount" bson:"-"`
}
