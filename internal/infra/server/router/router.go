// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/installment-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/installment-tracker/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine             *gin.Engine
	healthController   *controller.HealthController
	authController     *controller.AuthController
	purchaseController *controller.PurchaseController
	paymentController  *controller.PaymentController
	calendarController *controller.CalendarController
	budgetController   *controller.BudgetController
	loginRateLimiter   *middleware.RateLimiter
	authMiddleware     *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies. A nil
// loginRateLimiter leaves login unthrottled.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	purchaseController *controller.PurchaseController,
	paymentController *controller.PaymentController,
	calendarController *controller.CalendarController,
	budgetController *controller.BudgetController,
	loginRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:   healthController,
		authController:     authController,
		purchaseController: purchaseController,
		paymentController:  paymentController,
		calendarController: calendarController,
		budgetController:   budgetController,
		loginRateLimiter:   loginRateLimiter,
		authMiddleware:     authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Live)
	r.engine.GET("/health/ready", r.healthController.Ready)
}

func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		login := []gin.HandlerFunc{r.authController.Login}
		if r.loginRateLimiter != nil {
			login = append([]gin.HandlerFunc{r.loginRateLimiter.Middleware()}, login...)
		}

		auth.POST("/register", r.authController.Register)
		auth.POST("/login", login...)
		auth.POST("/refresh", r.authController.RefreshToken)
		auth.POST("/logout", r.authController.Logout)
		auth.POST("/forgot-password", r.authController.ForgotPassword)
		auth.POST("/reset-password", r.authController.ResetPassword)

		me := auth.Group("/me", r.authMiddleware.Authenticate())
		me.GET("", r.authController.Me)
		me.PATCH("", r.authController.UpdateMe)
	}

	protected := v1.Group("", r.authMiddleware.Authenticate())

	purchases := protected.Group("/purchases")
	{
		purchases.GET("", r.purchaseController.List)
		purchases.POST("", r.purchaseController.Create)
		purchases.GET("/:id", r.purchaseController.Get)
		purchases.PUT("/:id", r.purchaseController.Update)
		purchases.DELETE("/:id", r.purchaseController.Delete)
		purchases.POST("/:id/payments", r.paymentController.Record)
		purchases.GET("/:id/payments", r.purchaseController.History)
	}

	protected.POST("/payments/bulk", r.paymentController.Bulk)
	protected.GET("/calendar", r.calendarController.Get)
	protected.GET("/budget", r.budgetController.Get)
	protected.PUT("/budget", r.budgetController.Update)
	protected.GET("/summary", r.budgetController.Summary)
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
