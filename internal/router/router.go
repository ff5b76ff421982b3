package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/plantlife/plantlife-backend/internal/handlers"
	"github.com/plantlife/plantlife-backend/internal/metrics"
	"github.com/plantlife/plantlife-backend/internal/middleware"
	"github.com/plantlife/plantlife-backend/internal/push"
	"github.com/plantlife/plantlife-backend/internal/service"
)

// Deps carries everything the routes need.
type Deps struct {
	Service      *service.Service
	Metrics      *metrics.Metrics
	Hub          *push.Hub
	FirebaseAuth *auth.Client
	JWTSecret    string
	DevMode      bool
	Log          *logrus.Logger
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, m *metrics.Metrics) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(m.Middleware())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) {
	// Always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/ws", func(c echo.Context) error {
		return deps.Hub.ServeWS(c.Response(), c.Request())
	})

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(deps.Service, deps.FirebaseAuth, deps.JWTSecret, deps.DevMode)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Public reads (auth optional, engagement flags when logged in) ---
	public := e.Group("/api/v1")
	public.Use(middleware.OptionalJWTAuthMiddleware(deps.JWTSecret))

	userHandler := handlers.NewUserHandler(deps.Service)
	userHandler.RegisterPublicRoutes(public)

	postHandler := handlers.NewPostHandler(deps.Service, deps.Metrics)
	postHandler.RegisterPublicRoutes(public)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(deps.JWTSecret))

	authHandler.RegisterSessionRoutes(api)
	userHandler.RegisterProfileRoutes(api)
	postHandler.RegisterPostRoutes(api)

	followHandler := handlers.NewFollowHandler(deps.Service, deps.Metrics)
	followHandler.RegisterFollowRoutes(api)

	engagementHandler := handlers.NewEngagementHandler(deps.Service, deps.Metrics)
	engagementHandler.RegisterEngagementRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(deps.Service)
	notificationHandler.RegisterNotificationRoutes(api)

	verificationHandler := handlers.NewVerificationHandler(deps.Service)
	verificationHandler.RegisterVerificationRoutes(api)
	verificationHandler.RegisterAdminRoutes(api)

	deps.Log.Info("All routes configured")
}
