package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sharebnb/sharebnb-api/internal/api/handler"
	"github.com/sharebnb/sharebnb-api/internal/api/middleware"
	"github.com/sharebnb/sharebnb-api/internal/core/authz"
	"github.com/sharebnb/sharebnb-api/internal/core/ports"

	_ "github.com/sharebnb/sharebnb-api/docs"
)

const defaultBodyLimit = "10M"

// Deps carries everything the HTTP layer needs. Registerer and Gatherer
// default to the global Prometheus registry.
type Deps struct {
	Log       zerolog.Logger
	Resolver  middleware.IdentityResolver
	Auth      ports.AuthService
	Listings  ports.ListingService
	Owners    authz.ListingFinder
	Users     ports.UserService
	Messages  ports.MessageService
	Photos    ports.PhotoService
	Health    map[string]handler.Pinger
	BodyLimit string

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	bodyLimit := d.BodyLimit
	if bodyLimit == "" {
		bodyLimit = defaultBodyLimit
	}
	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "sharebnb",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Identify(d.Resolver))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	listingHandler := handler.NewListingHandler(d.Listings)
	userHandler := handler.NewUserHandler(d.Users, d.Messages)
	messageHandler := handler.NewMessageHandler(d.Messages)
	photoHandler := handler.NewPhotoHandler(d.Photos)
	healthHandler := handler.NewHealthHandler(d.Health)

	loggedIn := middleware.RequireAuthenticated()
	owner := middleware.RequireListingOwner(d.Owners, "id")
	self := middleware.RequireSubjectMatch("username")

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/token", authHandler.Token)

	// --- Listings ---
	listings := e.Group("/listings")
	listings.GET("", listingHandler.List)
	listings.POST("", listingHandler.Create, loggedIn)
	listings.GET("/:id", listingHandler.Get)
	listings.PATCH("/:id", listingHandler.Update, owner)
	listings.DELETE("/:id", listingHandler.Delete, owner)
	listings.POST("/:id/book", listingHandler.Book, loggedIn)
	listings.DELETE("/:id/book", listingHandler.Unbook, loggedIn)

	// --- Users ---
	users := e.Group("/users")
	users.GET("", userHandler.List)
	users.POST("", authHandler.CreateUser)
	users.GET("/:username", userHandler.Get)
	users.PATCH("/:username", userHandler.Update, self)
	users.DELETE("/:username", userHandler.Delete, self)
	users.GET("/:username/inbox", userHandler.Inbox, self)
	users.GET("/:username/sent", userHandler.Sent, self)

	// --- Messages ---
	messages := e.Group("/messages", loggedIn)
	messages.POST("", messageHandler.Send)
	messages.GET("/:id", messageHandler.Get)

	// --- Photos ---
	e.GET("/photos/:id", photoHandler.Get)

	// --- Ops ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one structured access log line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
