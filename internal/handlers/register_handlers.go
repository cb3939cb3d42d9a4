// Package handlers wires the HTTP routes to the application services.
package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/hagglund/bokforing_backend/internal/core/ports/services"
	"github.com/hagglund/bokforing_backend/internal/middleware"
	"github.com/hagglund/bokforing_backend/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	registerAuthRoutes(r, services)

	setupAPIV1Routes(r, cfg, services)
}

// registerAuthRoutes sets up the public, rate-limited authentication routes.
func registerAuthRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	// 5 attempts per minute per IP
	rate, _ := limiter.NewRateFromFormatted("5-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)

	authHandler := newAuthHandler(services.Auth)
	userHandler := newUserHandler(services.User)

	auth := r.Group("/auth", middleware.RateLimit(ipLimiter))
	auth.POST("/login", authHandler.login)
	auth.POST("/refresh", authHandler.refresh)
	auth.POST("/register", userHandler.registerUser)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific
// entity route registrations. Requests authenticate with either an x-api-key
// header or a Bearer token.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1",
		middleware.APIKeyAuth(services.Auth),
		middleware.AuthMiddleware(cfg.JWTSecret),
	)

	RegisterVerificationRoutes(v1, services.Verification)
	registerStatementRoutes(v1, services.StatementImport)
	registerAccountRoutes(v1, services.Account)
	registerFiscalYearRoutes(v1, services.FiscalYear)
	registerUserRoutes(v1, services.User)
}

// RegisterVerificationRoutes is exported so handler tests can mount the
// verification routes against a mock service.
func RegisterVerificationRoutes(v1 *gin.RouterGroup, svc portssvc.VerificationSvc) {
	h := newVerificationHandler(svc)
	verifications := v1.Group("/verifications")
	verifications.POST("", h.createVerification)
	verifications.GET("", h.listVerifications)
	verifications.GET("/:verificationID", h.getVerification)
	verifications.PUT("/:verificationID/transactions", h.replaceTransactions)
	verifications.DELETE("/:verificationID", h.deleteVerification)
}

func registerStatementRoutes(v1 *gin.RouterGroup, svc portssvc.StatementImportSvc) {
	h := newStatementHandler(svc)
	v1.POST("/statements/import", h.importStatement)
}

func registerAccountRoutes(v1 *gin.RouterGroup, svc portssvc.AccountSvc) {
	h := newAccountHandler(svc)
	accounts := v1.Group("/accounts")
	accounts.POST("", h.createAccount)
	accounts.GET("", h.listAccounts)
	accounts.GET("/:number", h.getAccount)
	accounts.PUT("/:number", h.updateAccount)
}

func registerFiscalYearRoutes(v1 *gin.RouterGroup, svc portssvc.FiscalYearSvc) {
	h := newFiscalYearHandler(svc)
	years := v1.Group("/fiscal-years")
	years.POST("", h.createFiscalYear)
	years.GET("", h.listFiscalYears)
}

func registerUserRoutes(v1 *gin.RouterGroup, svc portssvc.UserSvc) {
	h := newUserHandler(svc)
	users := v1.Group("/users")
	users.GET("/me", h.getCurrentUser)
	users.POST("/me/api-key", h.rotateAPIKey)
}
