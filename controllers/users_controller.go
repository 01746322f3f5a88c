package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	middleware "github.com/phillip/eventmate-go/middleware"
	models "github.com/phillip/eventmate-go/models"
	stores "github.com/phillip/eventmate-go/stores"
	utils "github.com/phillip/eventmate-go/utils"
)

// ---------------- UPSERT PROFILE ----------------
func UpsertProfile(users stores.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var input struct {
			DisplayName string              `json:"displayName"`
			PhotoURL    *string             `json:"photoURL"`
			Preferences *models.Preferences `json:"preferences"`
		}

		if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Unspecified fields fall back to the identity; preferences
		// default to everything on.
		patch := stores.UserPatch{
			DisplayName: input.DisplayName,
			PhotoURL:    input.PhotoURL,
			Preferences: models.Preferences{Notifications: true, EmailUpdates: true},
		}
		if patch.DisplayName == "" {
			patch.DisplayName = ident.Name
		}
		if patch.PhotoURL == nil {
			patch.PhotoURL = ident.Picture
		}
		if input.Preferences != nil {
			patch.Preferences = *input.Preferences
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := users.Upsert(ctx, ident.Email, patch)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save profile"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// ---------------- GET PROFILE ----------------
func GetProfile(users stores.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		// Profiles are readable only by their owner.
		if c.Param("email") != ident.Email {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := users.GetByEmail(ctx, ident.Email)
		if err != nil {
			if err == stores.ErrNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch user"})
			return
		}

		etag := utils.GenerateETag(user.ID, user.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", user.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, user)
	}
}
