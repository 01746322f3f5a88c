package controllers_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	auth "github.com/phillip/eventmate-go/auth"
	models "github.com/phillip/eventmate-go/models"
	routes "github.com/phillip/eventmate-go/routes"
	stores "github.com/phillip/eventmate-go/stores"
)

// ---- in-memory stores ----

type fakeUserStore struct {
	users map[string]models.User
}

func (s *fakeUserStore) Upsert(_ context.Context, email string, patch stores.UserPatch) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		user = models.User{
			ID:        primitive.NewObjectID(),
			Email:     email,
			CreatedAt: time.Now(),
		}
	}
	user.DisplayName = patch.DisplayName
	user.Preferences = patch.Preferences
	if patch.PhotoURL != nil {
		user.PhotoURL = patch.PhotoURL
	}
	user.UpdatedAt = time.Now()
	s.users[email] = user
	return &user, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, stores.ErrNotFound
	}
	return &user, nil
}

type fakeEventStore struct {
	events []models.Event
}

func (s *fakeEventStore) Insert(_ context.Context, event *models.Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	s.events = append(s.events, *event)
	return nil
}

func (s *fakeEventStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Event, error) {
	for _, event := range s.events {
		if event.ID == id {
			return &event, nil
		}
	}
	return nil, stores.ErrNotFound
}

func byEventDate(events []models.Event) []models.Event {
	sorted := append([]models.Event{}, events...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].EventDate.Before(sorted[j].EventDate) })
	return sorted
}

func (s *fakeEventStore) Upcoming(_ context.Context, filter stores.EventFilter) ([]models.Event, error) {
	matched := []models.Event{}
	for _, event := range s.events {
		if event.EventDate.Before(filter.From) {
			continue
		}
		if filter.EventType != "" && event.EventType != filter.EventType {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(event.Title), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, event)
	}
	matched = byEventDate(matched)
	if filter.Limit > 0 && int64(len(matched)) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *fakeEventStore) OwnedBy(_ context.Context, email string) ([]models.Event, error) {
	owned := []models.Event{}
	for _, event := range s.events {
		if event.UserEmail == email {
			owned = append(owned, event)
		}
	}
	return byEventDate(owned), nil
}

func (s *fakeEventStore) ByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Event, error) {
	wanted := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	matched := []models.Event{}
	for _, event := range s.events {
		if wanted[event.ID] {
			matched = append(matched, event)
		}
	}
	return byEventDate(matched), nil
}

func (s *fakeEventStore) Update(_ context.Context, id primitive.ObjectID, patch stores.EventPatch) (*models.Event, error) {
	for i, event := range s.events {
		if event.ID != id {
			continue
		}
		if patch.Title != "" {
			event.Title = patch.Title
		}
		if patch.Description != "" {
			event.Description = patch.Description
		}
		if patch.EventType != "" {
			event.EventType = patch.EventType
		}
		if patch.ThumbnailImage != "" {
			event.ThumbnailImage = patch.ThumbnailImage
		}
		if patch.Location != "" {
			event.Location = patch.Location
		}
		if !patch.EventDate.IsZero() {
			event.EventDate = patch.EventDate
		}
		event.UpdatedAt = time.Now()
		s.events[i] = event
		return &event, nil
	}
	return nil, stores.ErrNotFound
}

type fakeJoinStore struct {
	records []models.JoinRecord
}

func (s *fakeJoinStore) Insert(_ context.Context, record *models.JoinRecord) error {
	for _, r := range s.records {
		if r.EventID == record.EventID && r.UserEmail == record.UserEmail {
			return stores.ErrDuplicateJoin
		}
	}
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	s.records = append(s.records, *record)
	return nil
}

func (s *fakeJoinStore) Exists(_ context.Context, eventID primitive.ObjectID, email string) (bool, error) {
	for _, r := range s.records {
		if r.EventID == eventID && r.UserEmail == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeJoinStore) ForEvent(_ context.Context, eventID primitive.ObjectID) ([]models.JoinRecord, error) {
	matched := []models.JoinRecord{}
	for _, r := range s.records {
		if r.EventID == eventID {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func (s *fakeJoinStore) ForUser(_ context.Context, email string) ([]models.JoinRecord, error) {
	matched := []models.JoinRecord{}
	for _, r := range s.records {
		if r.UserEmail == email {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].JoinedAt.After(matched[j].JoinedAt) })
	return matched, nil
}

// ---- harness ----

func newFakes() (*stores.Stores, *fakeUserStore, *fakeEventStore, *fakeJoinStore) {
	users := &fakeUserStore{users: map[string]models.User{}}
	events := &fakeEventStore{}
	joins := &fakeJoinStore{}
	return &stores.Stores{Users: users, Events: events, Joins: joins}, users, events, joins
}

func newTestRouter(st *stores.Stores) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	routes.SetupRoutes(r, st, auth.UnverifiedDecoder{}, zap.NewNop())
	return r
}

// bearer builds an unsigned credential the way upstream clients do.
func bearer(t *testing.T, claims map[string]any) string {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	return "Bearer " + base64.RawURLEncoding.EncodeToString(header) + "." +
		base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func makeTypePatch(eventType string) stores.EventPatch {
	return stores.EventPatch{EventType: eventType}
}

func joinFor(eventID primitive.ObjectID, email string) *models.JoinRecord {
	return &models.JoinRecord{
		EventID:   eventID,
		UserEmail: email,
		UserName:  strings.Split(email, "@")[0],
		JoinedAt:  time.Now(),
	}
}

func seedEvent(t *testing.T, events *fakeEventStore, joins *fakeJoinStore, owner, title string, date time.Time) models.Event {
	t.Helper()

	now := time.Now()
	event := models.Event{
		ID:        primitive.NewObjectID(),
		Title:     title,
		EventType: "meetup",
		Location:  "Nairobi",
		EventDate: date,
		UserEmail: owner,
		UserName:  strings.Split(owner, "@")[0],
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, events.Insert(context.Background(), &event))
	require.NoError(t, joins.Insert(context.Background(), &models.JoinRecord{
		EventID:   event.ID,
		UserEmail: owner,
		UserName:  event.UserName,
		JoinedAt:  now,
	}))
	return event
}
