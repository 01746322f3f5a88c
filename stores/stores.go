package stores

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	models "github.com/phillip/eventmate-go/models"
)

var (
	// ErrNotFound is returned when a looked-up document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicateJoin is returned when a join record for the same
	// (event, user) pair already exists.
	ErrDuplicateJoin = errors.New("already joined this event")
)

// UserPatch holds the profile fields an upsert may set. Nil pointers keep
// whatever the stored document already has.
type UserPatch struct {
	DisplayName string
	PhotoURL    *string
	Preferences models.Preferences
}

type UserStore interface {
	Upsert(ctx context.Context, email string, patch UserPatch) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// EventFilter narrows an upcoming-events query. Zero values mean "no
// constraint" except From, which callers always set to the request time.
type EventFilter struct {
	From      time.Time
	EventType string
	Search    string
	Limit     int64
}

// EventPatch carries the mutable event fields for an update. Empty or
// zero fields keep the stored value; owner fields are not patchable.
type EventPatch struct {
	Title          string
	Description    string
	EventType      string
	ThumbnailImage string
	Location       string
	EventDate      time.Time
}

type EventStore interface {
	Insert(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	Upcoming(ctx context.Context, filter EventFilter) ([]models.Event, error)
	OwnedBy(ctx context.Context, email string) ([]models.Event, error)
	ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Event, error)
	Update(ctx context.Context, id primitive.ObjectID, patch EventPatch) (*models.Event, error)
}

type JoinStore interface {
	Insert(ctx context.Context, record *models.JoinRecord) error
	Exists(ctx context.Context, eventID primitive.ObjectID, email string) (bool, error)
	ForEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.JoinRecord, error)
	ForUser(ctx context.Context, email string) ([]models.JoinRecord, error)
}

// Stores bundles the three collection gateways so wiring stays a single
// argument.
type Stores struct {
	Users  UserStore
	Events EventStore
	Joins  JoinStore
}

func New(db *mongo.Database) *Stores {
	return &Stores{
		Users:  &userStore{c: db.Collection("users")},
		Events: &eventStore{c: db.Collection("events")},
		Joins:  &joinStore{c: db.Collection("joinrecords")},
	}
}

// Connect dials Mongo once at startup; the client is handed around
// explicitly from there.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}
	return client, nil
}
