package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"storefront-api/internal/apperr"
	"storefront-api/internal/handler"
	"storefront-api/internal/metrics"
	"storefront-api/internal/middleware"
	"storefront-api/internal/service"
)

type Server struct {
	echo             *echo.Echo
	jwtSecret        string
	orderHandler     *handler.OrderHandler
	userHandler      *handler.UserHandler
	dashboardHandler *handler.DashboardHandler
	catalogHandler   *handler.CatalogHandler
}

func NewServer(
	jwtSecret string,
	orderService service.OrderService,
	userService service.UserService,
	dashboardService service.DashboardService,
	catalogService service.CatalogService,
	collector *metrics.Collector,
	logger zerolog.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(rate.Limit(20))))
	e.Use(middleware.Metrics(collector))

	s := &Server{
		echo:             e,
		jwtSecret:        jwtSecret,
		orderHandler:     handler.NewOrderHandler(orderService),
		userHandler:      handler.NewUserHandler(userService),
		dashboardHandler: handler.NewDashboardHandler(dashboardService),
		catalogHandler:   handler.NewCatalogHandler(catalogService, collector),
	}

	s.setupRoutes()
	return s
}

// errorHandler maps domain errors to their contracted status codes and
// hides everything unexpected behind a generic 500. Stack detail only
// ever reaches the server log.
func errorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "request failed"

		if appErr, ok := apperr.As(err); ok {
			status = appErr.HTTPStatus()
			message = appErr.Message
		} else if httpErr, ok := err.(*echo.HTTPError); ok {
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			}
		} else {
			logger.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}

		_ = c.JSON(status, map[string]any{"success": false, "message": message})
	}
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- public storefront --------
	api.POST("/users/register", s.userHandler.Register)
	api.POST("/users/login", s.userHandler.Login)
	api.GET("/products", s.catalogHandler.ListProducts)
	api.GET("/products/:id", s.catalogHandler.GetProduct)
	api.GET("/categories", s.catalogHandler.ListCategories)
	api.POST("/newsletter/subscribe", s.catalogHandler.Subscribe)
	api.POST("/newsletter/unsubscribe", s.catalogHandler.Unsubscribe)
	api.GET("/shipping/quote", s.catalogHandler.QuoteShipping)
	api.POST("/reviews", s.orderHandler.SubmitReview)

	// -------- authenticated --------
	authed := api.Group("", middleware.JWT(s.jwtSecret))

	authed.GET("/users/profile", s.userHandler.GetProfile)
	authed.PUT("/users/profile", s.userHandler.UpdateProfile)
	authed.POST("/users/addresses", s.userHandler.AddAddress)
	authed.PUT("/users/addresses/:addressId", s.userHandler.UpdateAddress)
	authed.DELETE("/users/addresses/:addressId", s.userHandler.DeleteAddress)
	authed.PATCH("/users/preferences", s.userHandler.UpdatePreferences)

	authed.POST("/orders", s.orderHandler.Create)
	authed.GET("/orders", s.orderHandler.List)
	authed.GET("/orders/myorders", s.orderHandler.MyOrders)
	authed.POST("/support/tickets", s.catalogHandler.CreateTicket)

	// -------- admin --------
	admin := authed.Group("", middleware.RequireAdmin())

	admin.GET("/orders/admin", s.orderHandler.AdminList)
	admin.GET("/orders/analytics/summary", s.orderHandler.AnalyticsSummary)
	admin.PUT("/orders/bulk/status", s.orderHandler.BulkUpdateStatus)
	admin.PUT("/orders/:id/status", s.orderHandler.UpdateStatus)
	admin.DELETE("/orders/:id", s.orderHandler.Cancel)

	admin.GET("/users", s.userHandler.AdminList)
	admin.PATCH("/users/:id/role", s.userHandler.ChangeRole)
	admin.PATCH("/users/:id/activate", s.userHandler.Activate)
	admin.PATCH("/users/:id/deactivate", s.userHandler.Deactivate)

	admin.GET("/dashboard/overview", s.dashboardHandler.Overview)
	admin.GET("/dashboard/sales-chart", s.dashboardHandler.SalesChart)
	admin.GET("/dashboard/top-products", s.dashboardHandler.TopProducts)
	admin.GET("/dashboard/recent-orders", s.dashboardHandler.RecentOrders)
	admin.GET("/dashboard/activity-log", s.dashboardHandler.ActivityLog)

	admin.GET("/support/tickets", s.catalogHandler.ListTickets)
	admin.GET("/admin/metrics", s.catalogHandler.MetricsSnapshot)

	// GET /orders/:id last so the static order routes match first.
	authed.GET("/orders/:id", s.orderHandler.GetByID)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
