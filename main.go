package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	auth "github.com/phillip/eventmate-go/auth"
	config "github.com/phillip/eventmate-go/config"
	jobs "github.com/phillip/eventmate-go/jobs"
	middleware "github.com/phillip/eventmate-go/middleware"
	routes "github.com/phillip/eventmate-go/routes"
	stores "github.com/phillip/eventmate-go/stores"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("failed to build logger:", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := stores.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("failed to connect to mongo", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DBName)
	if err := stores.EnsureIndexes(ctx, db, logger); err != nil {
		logger.Fatal("failed to ensure indexes", zap.Error(err))
	}
	st := stores.New(db)

	// Without a secret, bearer credentials are decoded but not verified,
	// matching the clients this API already serves.
	var decoder auth.Decoder = auth.UnverifiedDecoder{}
	if cfg.AuthVerifySecret != "" {
		decoder = auth.HMACDecoder{Secret: []byte(cfg.AuthVerifySecret)}
		logger.Info("credential verification enabled")
	} else {
		logger.Warn("credential verification disabled, decoding tokens unverified")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(cfg.RateLimitRPM, cfg.RateLimitBurst))
	r.Use(routes.SetupCORS())

	routes.SetupRoutes(r, st, decoder, logger)

	job := jobs.NewReconcileJob(st, logger, cfg.ReconcileInterval)
	job.Start()
	defer job.Stop()

	logger.Info("starting EventMate API", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
