package stores

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	models "github.com/phillip/eventmate-go/models"
)

type eventStore struct {
	c *mongo.Collection
}

func (s *eventStore) Insert(ctx context.Context, event *models.Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

func (s *eventStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var event models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&event); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// Upcoming lists events dated at or after filter.From, soonest first.
func (s *eventStore) Upcoming(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	query := bson.M{"eventDate": bson.M{"$gte": filter.From}}
	if filter.EventType != "" {
		query["eventType"] = filter.EventType
	}
	if filter.Search != "" {
		query["title"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "eventDate", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	return s.list(ctx, query, opts)
}

func (s *eventStore) OwnedBy(ctx context.Context, email string) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "eventDate", Value: 1}})
	return s.list(ctx, bson.M{"userEmail": email}, opts)
}

func (s *eventStore) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Event, error) {
	if len(ids) == 0 {
		return []models.Event{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "eventDate", Value: 1}})
	return s.list(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
}

// Update merges the non-zero patch fields over the stored document and
// returns the updated event. Owner fields are never part of the $set.
func (s *eventStore) Update(ctx context.Context, id primitive.ObjectID, patch EventPatch) (*models.Event, error) {
	set := bson.M{"updatedAt": time.Now()}
	if patch.Title != "" {
		set["title"] = patch.Title
	}
	if patch.Description != "" {
		set["description"] = patch.Description
	}
	if patch.EventType != "" {
		set["eventType"] = patch.EventType
	}
	if patch.ThumbnailImage != "" {
		set["thumbnailImage"] = patch.ThumbnailImage
	}
	if patch.Location != "" {
		set["location"] = patch.Location
	}
	if !patch.EventDate.IsZero() {
		set["eventDate"] = patch.EventDate
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Event
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (s *eventStore) list(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.Event, error) {
	cursor, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
