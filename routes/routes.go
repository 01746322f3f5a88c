package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	auth "github.com/phillip/eventmate-go/auth"
	controllers "github.com/phillip/eventmate-go/controllers"
	middleware "github.com/phillip/eventmate-go/middleware"
	stores "github.com/phillip/eventmate-go/stores"
)

func SetupCORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Authorization", "Accept"},
	})
}

func SetupRoutes(r *gin.Engine, st *stores.Stores, decoder auth.Decoder, logger *zap.Logger) {
	// liveness
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "EventMate API is running")
	})

	// public browsing
	r.GET("/events", controllers.ListEvents(st.Events, st.Joins))
	r.GET("/events/:id", controllers.GetEvent(st.Events, st.Joins))

	// protected
	authd := middleware.Auth(decoder)

	users := r.Group("/users")
	users.Use(authd)
	{
		users.POST("", controllers.UpsertProfile(st.Users))
		users.GET("/:email", controllers.GetProfile(st.Users))
	}

	events := r.Group("/events")
	events.Use(authd)
	{
		events.POST("", controllers.CreateEvent(st.Events, st.Joins, logger))
		events.PUT("/:id", controllers.UpdateEvent(st.Events, logger))
		events.POST("/:id/join", controllers.JoinEvent(st.Events, st.Joins, logger))
	}

	r.GET("/joined/events", authd, controllers.ListJoinedEvents(st.Events, st.Joins))
	r.GET("/manage/events", authd, controllers.ListManagedEvents(st.Events, st.Joins))

	r.POST("/uploads/thumbnail", authd, controllers.UploadThumbnail(logger))
}
