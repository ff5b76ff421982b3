package main

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/plantlife/plantlife-backend/internal/metrics"
	"github.com/plantlife/plantlife-backend/internal/moderation"
	"github.com/plantlife/plantlife-backend/internal/push"
	"github.com/plantlife/plantlife-backend/internal/router"
	"github.com/plantlife/plantlife-backend/internal/service"
	"github.com/plantlife/plantlife-backend/internal/storage"
	"github.com/plantlife/plantlife-backend/internal/storage/memory"
	"github.com/plantlife/plantlife-backend/internal/storage/mongodb"
	"github.com/plantlife/plantlife-backend/internal/storage/postgres"
	"github.com/plantlife/plantlife-backend/pkg/config"
	"github.com/plantlife/plantlife-backend/pkg/firebase"
	"github.com/plantlife/plantlife-backend/validators"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	config.LoadEnv()
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	ctx := context.Background()

	// Pick the storage backend
	var store storage.Storage
	switch cfg.StorageBackend {
	case "postgres":
		store, err = postgres.New(db.Postgres)
	case "mongo":
		store, err = mongodb.New(ctx, db.Mongo.Database(cfg.MongoDatabase))
	default:
		store = memory.New()
	}
	if err != nil {
		log.Fatalf("Failed to initialize %s storage: %v", cfg.StorageBackend, err)
	}
	log.WithField("backend", cfg.StorageBackend).Info("Storage initialized")

	// Initialize Firebase when credentials are configured
	var firebaseApp *firebase.App
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err = firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
	} else {
		log.Info("Firebase credentials not configured, firebase-login disabled")
	}

	// Content moderation is a product-skin switch
	var moderator *moderation.Classifier
	if cfg.ModerationEnabled {
		moderator = moderation.NewClassifier()
	}

	m := metrics.InitMetrics()
	hub := push.NewHub(log)
	svc := service.New(store, moderator, hub, log, service.Options{
		MaxPostLength:    cfg.PostMaxLength,
		TimelinePageSize: cfg.TimelinePageSize,
	})
	svc.SetNotificationCounter(m.NotificationsSent)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e, m)

	deps := router.Deps{
		Service:   svc,
		Metrics:   m,
		Hub:       hub,
		JWTSecret: cfg.JWTSecret,
		DevMode:   cfg.IsDevelopment(),
		Log:       log,
	}
	if firebaseApp != nil {
		deps.FirebaseAuth = firebaseApp.AuthClient
	}
	router.SetupRoutes(e, deps)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
