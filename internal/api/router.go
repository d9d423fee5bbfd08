package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/belleallure/salon-api/internal/api/handler"
	"github.com/belleallure/salon-api/internal/api/middleware"
	"github.com/belleallure/salon-api/internal/core/domain"
	"github.com/belleallure/salon-api/internal/core/ports"
)

// Deps is everything the HTTP layer needs. DB and Redis are only used by the
// readiness probe; Redis and Limiter may be nil.
type Deps struct {
	Logger      zerolog.Logger
	JWTSecret   string
	CORSOrigins []string
	RateLimit   int

	Catalog      *domain.Catalog
	Schedule     domain.Schedule
	Appointments ports.AppointmentService
	Slots        ports.SlotService
	Auth         ports.AuthService
	Limiter      middleware.Counter

	DB    *mongo.Database
	Redis *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
// It registers the echoprometheus collectors, so call it once per process.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator(d.Catalog)
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddleware("salon"))

	// --- Handlers ---
	appointments := handler.NewAppointmentHandler(d.Appointments, d.Slots)
	catalog := handler.NewCatalogHandler(d.Catalog, d.Schedule)
	auth := handler.NewAuthHandler(d.Auth)
	health := handler.NewHealthHandler(d.DB, d.Redis)

	authRequired := middleware.Auth(d.JWTSecret)
	staffOnly := middleware.StaffOnly()
	adminOnly := middleware.AdminOnly()
	limited := middleware.RateLimit(d.Limiter, d.RateLimit, d.Logger)

	// --- Public probes and docs ---
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	api.GET("/catalog", catalog.Get)

	// --- Appointments ---
	appts := api.Group("/appointments")
	appts.GET("/available-slots", appointments.AvailableSlots)
	appts.POST("", appointments.Create, limited)
	appts.GET("", appointments.List, authRequired, staffOnly)
	appts.GET("/:id", appointments.Get, authRequired, staffOnly)
	appts.PUT("/:id", appointments.Update, authRequired, staffOnly)
	appts.PATCH("/:id/cancel", appointments.Cancel, authRequired, staffOnly)
	appts.DELETE("/:id", appointments.Delete, authRequired, staffOnly)

	// --- Accounts ---
	users := api.Group("/users")
	users.POST("/login", auth.Login, limited)
	users.POST("/register", auth.Register, authRequired, adminOnly)
	users.GET("/profile", auth.Profile, authRequired)
	users.GET("/stylists", auth.Stylists)

	return e
}
