package stores

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	models "github.com/phillip/eventmate-go/models"
)

type userStore struct {
	c *mongo.Collection
}

// Upsert writes the profile fields for email, creating the document on
// first write. createdAt is only stamped on insert.
func (s *userStore) Upsert(ctx context.Context, email string, patch UserPatch) (*models.User, error) {
	set := bson.M{
		"displayName": patch.DisplayName,
		"preferences": patch.Preferences,
		"updatedAt":   time.Now(),
	}
	if patch.PhotoURL != nil {
		set["photoURL"] = patch.PhotoURL
	}

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"email": email, "createdAt": time.Now()},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user models.User
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
