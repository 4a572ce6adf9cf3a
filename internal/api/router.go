// Package api wires the HTTP surface: routes, middleware, and the central
// error handler.
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/abhiya492/ecommerce-api/internal/api/handler"
	"github.com/abhiya492/ecommerce-api/internal/api/middleware"
	"github.com/abhiya492/ecommerce-api/internal/core/domain"
	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

// Deps carries everything the router needs. Handlers depend on service
// ports, so tests can assemble a router over stubs.
type Deps struct {
	Auth      ports.AuthService
	Products  ports.ProductService
	Cart      ports.CartService
	Coupons   ports.CouponService
	Checkout  ports.CheckoutService
	Analytics ports.AnalyticsService

	// Users and Verifier back the access-token middleware.
	Users    ports.UserRepository
	Verifier middleware.AccessVerifier

	// DB and Cache feed the readiness probe.
	DB    handler.Pinger
	Cache handler.CacheStatus

	SecureCookies bool
	Log           zerolog.Logger

	// Registerer receives the HTTP middleware metrics. Defaults to the
	// global registry; tests pass their own to build routers in isolation.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "store",
		Registerer: registerer,
	}))

	authRequired := middleware.Auth(d.Verifier, d.Users)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	authHandler := handler.NewAuthHandler(d.Auth, d.SecureCookies)
	productHandler := handler.NewProductHandler(d.Products)
	cartHandler := handler.NewCartHandler(d.Cart)
	couponHandler := handler.NewCouponHandler(d.Coupons)
	paymentHandler := handler.NewPaymentHandler(d.Checkout)
	analyticsHandler := handler.NewAnalyticsHandler(d.Analytics)

	auth := e.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/verify-otp", authHandler.VerifyOtp)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/refresh-token", authHandler.Refresh)
	auth.GET("/profile", authHandler.Profile, authRequired)

	products := e.Group("/api/products")
	products.GET("/featured", productHandler.GetFeatured)
	products.GET("/recommendations", productHandler.GetRecommended)
	products.GET("/category/:category", productHandler.GetByCategory)
	products.GET("", productHandler.GetAll, authRequired, adminOnly)
	products.POST("", productHandler.Create, authRequired, adminOnly)
	products.PATCH("/:id", productHandler.ToggleFeatured, authRequired, adminOnly)
	products.DELETE("/:id", productHandler.Delete, authRequired, adminOnly)

	cart := e.Group("/api/cart", authRequired)
	cart.GET("", cartHandler.Get)
	cart.POST("", cartHandler.Add)
	cart.PUT("/:id", cartHandler.UpdateQuantity)
	cart.DELETE("", cartHandler.Remove)

	coupons := e.Group("/api/coupons", authRequired)
	coupons.GET("", couponHandler.GetActive)
	coupons.POST("/validate", couponHandler.Validate)

	payments := e.Group("/api/payments", authRequired)
	payments.POST("/create-checkout-session", paymentHandler.CreateSession)
	payments.POST("/checkout-success", paymentHandler.CheckoutSuccess)

	e.GET("/api/analytics", analyticsHandler.Dashboard, authRequired, adminOnly)

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.DB, d.Cache)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
