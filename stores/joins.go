package stores

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	models "github.com/phillip/eventmate-go/models"
)

type joinStore struct {
	c *mongo.Collection
}

// Insert writes a join record. The unique (eventId, userEmail) index makes
// a racing duplicate surface here as ErrDuplicateJoin.
func (s *joinStore) Insert(ctx context.Context, record *models.JoinRecord) error {
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	if _, err := s.c.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateJoin
		}
		return err
	}
	return nil
}

func (s *joinStore) Exists(ctx context.Context, eventID primitive.ObjectID, email string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"eventId": eventID, "userEmail": email}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ForEvent returns the event's join records in insertion order.
func (s *joinStore) ForEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.JoinRecord, error) {
	return s.list(ctx, bson.M{"eventId": eventID}, options.Find())
}

func (s *joinStore) ForUser(ctx context.Context, email string) ([]models.JoinRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joinedAt", Value: -1}})
	return s.list(ctx, bson.M{"userEmail": email}, opts)
}

func (s *joinStore) list(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.JoinRecord, error) {
	cursor, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	records := []models.JoinRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
