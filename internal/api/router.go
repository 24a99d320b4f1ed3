package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/nimblecrm/crm-console/docs"
	"github.com/nimblecrm/crm-console/internal/api/handler"
	"github.com/nimblecrm/crm-console/internal/api/middleware"
	"github.com/nimblecrm/crm-console/internal/core/ports"
	"github.com/nimblecrm/crm-console/internal/infrastructure/http/handlers"
)

// Feed is both where notices are sent and where they are read back.
type Feed interface {
	ports.Notifier
	handler.NoticeFeed
}

// Deps are the collaborators the console views are built from.
type Deps struct {
	Session   ports.Session
	API       ports.CRMAPI
	Writes    ports.WriteSerializer
	Feed      Feed
	Readiness []handlers.Dependency
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Session, d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Guards ---
	requireAuth := middleware.RequireAuth(d.Session)
	requireAdmin := middleware.RequireAdmin(d.Session)
	guestOnly := middleware.GuestOnly(d.Session)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Session)
	dashboardHandler := handler.NewDashboardHandler(d.API)
	customerHandler := handler.NewCustomerHandler(d.API, d.API, d.Writes, d.Feed)
	productHandler := handler.NewProductHandler(d.API, d.Writes, d.Feed)
	orderHandler := handler.NewOrderHandler(d.API, d.Session, d.Writes, d.Feed)
	userHandler := handler.NewUserHandler(d.API, d.Writes, d.Feed)
	activityHandler := handler.NewActivityHandler(d.API)
	settingsHandler := handler.NewSettingsHandler(d.API, d.Session, d.Writes, d.Feed)
	notificationHandler := handler.NewNotificationHandler(d.Feed)

	// --- Auth screens (guests only) ---
	e.GET("/login", authHandler.LoginView, guestOnly)
	e.POST("/login", authHandler.Login, guestOnly)
	e.GET("/register", authHandler.RegisterView, guestOnly)
	e.POST("/register", authHandler.Register, guestOnly)

	// --- Session ---
	e.GET("/session", authHandler.Session)
	e.POST("/logout", authHandler.Logout, requireAuth)
	e.POST("/session/refresh", authHandler.Refresh, requireAuth)
	e.GET("/notifications", notificationHandler.List)

	// --- Dashboard (admin) ---
	e.GET("/", dashboardHandler.Get, requireAdmin)

	// --- Customers ---
	customers := e.Group("/customers", requireAuth)
	customers.GET("", customerHandler.List)
	customers.POST("", customerHandler.Create)
	customers.GET("/:id", customerHandler.Get)
	customers.PUT("/:id", customerHandler.Update)
	customers.DELETE("/:id", customerHandler.Delete)
	customers.GET("/:id/orders", customerHandler.Orders)

	// --- Products ---
	products := e.Group("/products", requireAuth)
	products.GET("", productHandler.List)
	products.POST("", productHandler.Create)
	products.GET("/:id", productHandler.Get)
	products.PUT("/:id", productHandler.Update)
	products.DELETE("/:id", productHandler.Delete)

	// --- Orders ---
	orders := e.Group("/orders", requireAuth)
	orders.GET("", orderHandler.List)
	orders.POST("", orderHandler.Create)
	orders.GET("/:id", orderHandler.Get)
	orders.PUT("/:id/status", orderHandler.UpdateStatus)

	// --- Users (admin) ---
	users := e.Group("/users", requireAdmin)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
	users.POST("/:id/password", userHandler.ResetPassword)

	// --- Activities (admin) ---
	e.GET("/activities", activityHandler.List, requireAdmin)

	// --- Settings ---
	settings := e.Group("/settings", requireAuth)
	settings.GET("", settingsHandler.Profile)
	settings.PUT("/profile", settingsHandler.UpdateProfile)
	settings.POST("/password", settingsHandler.ChangePassword)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Readiness...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
