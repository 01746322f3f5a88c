package stores

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureIndexes creates the indexes the gateways rely on. The unique
// joinrecords index is what actually enforces one join per (event, user);
// the handler pre-check only exists for a friendlier error.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	users := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	events := []mongo.IndexModel{
		{Keys: bson.D{{Key: "eventDate", Value: 1}}},
		{Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "eventDate", Value: 1}}},
	}

	joins := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}, {Key: "userEmail", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "joinedAt", Value: -1}}},
		{Keys: bson.D{{Key: "eventId", Value: 1}}},
	}

	for col, idx := range map[string][]mongo.IndexModel{
		"users":       users,
		"events":      events,
		"joinrecords": joins,
	} {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, idx); err != nil {
			return err
		}
		logger.Info("ensured indexes", zap.String("collection", col), zap.Int("count", len(idx)))
	}
	return nil
}
