package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerateETag derives a strong ETag from a document id and its last
// update time, so any write changes the tag.
func GenerateETag(id primitive.ObjectID, updatedAt time.Time) string {
	sum := sha1.Sum([]byte(id.Hex() + ":" + updatedAt.UTC().Format(time.RFC3339Nano)))
	return fmt.Sprintf("%q", hex.EncodeToString(sum[:]))
}
