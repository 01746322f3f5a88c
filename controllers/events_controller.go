package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	middleware "github.com/phillip/eventmate-go/middleware"
	models "github.com/phillip/eventmate-go/models"
	stores "github.com/phillip/eventmate-go/stores"
	utils "github.com/phillip/eventmate-go/utils"
)

// parseEventDate accepts RFC3339 plus a few relaxed layouts.
func parseEventDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return parsed, nil
	}
	layouts := []string{"2006-01-02", "2006-01-02 15:04", "2006-01-02 15:04:05"}
	for _, layout := range layouts {
		if t, e := time.Parse(layout, raw); e == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid eventDate format, use RFC3339 or YYYY-MM-DD")
}

// ---------------- CREATE ----------------
func CreateEvent(events stores.EventStore, joins stores.JoinStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var input struct {
			Title          string `json:"title"`
			Description    string `json:"description"`
			EventType      string `json:"eventType"`
			ThumbnailImage string `json:"thumbnailImage"`
			Location       string `json:"location"`
			EventDate      string `json:"eventDate"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Every field but the thumbnail is required.
		required := []struct{ name, value string }{
			{"title", input.Title},
			{"description", input.Description},
			{"eventType", input.EventType},
			{"location", input.Location},
			{"eventDate", input.EventDate},
		}
		for _, f := range required {
			if f.value == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": f.name + " is required"})
				return
			}
		}

		eventDate, err := parseEventDate(input.EventDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		now := time.Now()
		event := models.Event{
			ID:             primitive.NewObjectID(),
			Title:          input.Title,
			Description:    input.Description,
			EventType:      input.EventType,
			ThumbnailImage: input.ThumbnailImage,
			Location:       input.Location,
			EventDate:      eventDate,
			UserEmail:      ident.Email,
			UserName:       ident.Name,
			UserPhotoURL:   ident.Picture,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := events.Insert(ctx, &event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not create event"})
			return
		}

		// The creator joins their own event. There is no transaction
		// around the pair; the reconcile job backfills records this
		// write fails to leave behind.
		record := models.JoinRecord{
			EventID:      event.ID,
			UserEmail:    ident.Email,
			UserName:     ident.Name,
			UserPhotoURL: ident.Picture,
			JoinedAt:     now,
		}
		if err := joins.Insert(ctx, &record); err != nil {
			logger.Warn("owner join record not created",
				zap.String("eventId", event.ID.Hex()),
				zap.String("userEmail", ident.Email),
				zap.Error(err),
			)
		}

		c.JSON(http.StatusCreated, event)
	}
}

// ---------------- LIST UPCOMING ----------------
func ListEvents(events stores.EventStore, joins stores.JoinStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := stores.EventFilter{
			From:      time.Now(),
			EventType: c.Query("type"),
			Search:    c.Query("search"),
		}
		// Unparsable or zero limit means unbounded.
		if limit, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil && limit > 0 {
			filter.Limit = limit
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		upcoming, err := events.Upcoming(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch events"})
			return
		}

		enriched, err := attachParticipants(ctx, joins, upcoming, false)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch participants"})
			return
		}

		c.JSON(http.StatusOK, enriched)
	}
}

// ---------------- GET ----------------
func GetEvent(events stores.EventStore, joins stores.JoinStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid event id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		event, err := events.GetByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, stores.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch event"})
			return
		}

		enriched, err := attachParticipants(ctx, joins, []models.Event{*event}, true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch participants"})
			return
		}

		c.JSON(http.StatusOK, enriched[0])
	}
}

// ---------------- UPDATE ----------------
func UpdateEvent(events stores.EventStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid event id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		existing, err := events.GetByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, stores.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch event"})
			return
		}

		if existing.UserEmail != ident.Email {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		var input struct {
			Title          string `json:"title"`
			Description    string `json:"description"`
			EventType      string `json:"eventType"`
			ThumbnailImage string `json:"thumbnailImage"`
			Location       string `json:"location"`
			EventDate      string `json:"eventDate"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		patch := stores.EventPatch{
			Title:          input.Title,
			Description:    input.Description,
			EventType:      input.EventType,
			ThumbnailImage: input.ThumbnailImage,
			Location:       input.Location,
		}
		if input.EventDate != "" {
			eventDate, err := parseEventDate(input.EventDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			patch.EventDate = eventDate
		}

		updated, err := events.Update(ctx, eventID, patch)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update event"})
			return
		}

		// A replaced thumbnail leaves an orphan image behind; clean it
		// up off the request path.
		if patch.ThumbnailImage != "" && existing.ThumbnailImage != "" && existing.ThumbnailImage != patch.ThumbnailImage {
			go func(old string) {
				if err := utils.DeleteFromCloudinary(old); err != nil {
					logger.Warn("stale thumbnail not deleted", zap.String("url", old), zap.Error(err))
				}
			}(existing.ThumbnailImage)
		}

		c.JSON(http.StatusOK, updated)
	}
}

// ---------------- JOIN ----------------
func JoinEvent(events stores.EventStore, joins stores.JoinStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid event id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		event, err := events.GetByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, stores.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch event"})
			return
		}

		// Friendly pre-check; the unique index is what actually rules
		// out duplicates under racing requests.
		joined, err := joins.Exists(ctx, eventID, ident.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check membership"})
			return
		}
		if joined {
			c.JSON(http.StatusNotAcceptable, gin.H{"error": "already joined this event"})
			return
		}

		record := models.JoinRecord{
			EventID:      eventID,
			UserEmail:    ident.Email,
			UserName:     ident.Name,
			UserPhotoURL: ident.Picture,
			JoinedAt:     time.Now(),
		}
		if err := joins.Insert(ctx, &record); err != nil {
			if errors.Is(err, stores.ErrDuplicateJoin) {
				c.JSON(http.StatusNotAcceptable, gin.H{"error": "already joined this event"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not join event"})
			return
		}

		// Tell the owner someone joined; failures never affect the response.
		if event.UserEmail != ident.Email {
			go func() {
				subject := fmt.Sprintf("%s joined %s", ident.Name, event.Title)
				body := fmt.Sprintf("<p>%s (%s) just joined your event <b>%s</b>.</p>", ident.Name, ident.Email, event.Title)
				if err := utils.SendEmail(event.UserEmail, event.UserName, subject, body); err != nil {
					logger.Warn("owner notification not sent",
						zap.String("eventId", eventID.Hex()),
						zap.Error(err),
					)
				}
			}()
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "joined event",
			"eventId": eventID.Hex(),
		})
	}
}

// ---------------- LIST JOINED ----------------
func ListJoinedEvents(events stores.EventStore, joins stores.JoinStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		records, err := joins.ForUser(ctx, ident.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch joined events"})
			return
		}

		ids := make([]primitive.ObjectID, 0, len(records))
		for _, r := range records {
			ids = append(ids, r.EventID)
		}

		// Bare events here, no participant enrichment.
		joinedEvents, err := events.ByIDs(ctx, ids)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch events"})
			return
		}

		c.JSON(http.StatusOK, joinedEvents)
	}
}

// ---------------- LIST MANAGED ----------------
func ListManagedEvents(events stores.EventStore, joins stores.JoinStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		owned, err := events.OwnedBy(ctx, ident.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch events"})
			return
		}

		enriched, err := attachParticipants(ctx, joins, owned, false)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch participants"})
			return
		}

		c.JSON(http.StatusOK, enriched)
	}
}
