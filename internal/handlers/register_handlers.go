package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/fieldops_backend/cmd/docs"
	portssvc "github.com/SscSPs/fieldops_backend/internal/core/ports/services"
	"github.com/SscSPs/fieldops_backend/internal/middleware"
	"github.com/SscSPs/fieldops_backend/internal/platform/config"
	"github.com/SscSPs/fieldops_backend/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// analytics may be nil.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	analytics *utils.PosthogClientWrapper,
) error {
	loginLimiter, err := middleware.NewRateLimiter(cfg.LoginRateLimit)
	if err != nil {
		return fmt.Errorf("invalid LOGIN_RATE_LIMIT %q: %w", cfg.LoginRateLimit, err)
	}
	apiLimiter, err := middleware.NewRateLimiter(cfg.APIRateLimit)
	if err != nil {
		return fmt.Errorf("invalid API_RATE_LIMIT %q: %w", cfg.APIRateLimit, err)
	}

	registerHealthRoutes(r)

	// Register public authentication routes
	registerAuthRoutes(r, loginLimiter, services, analytics)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, apiLimiter, analytics)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// getHealth godoc
// @Summary Liveness probe
// @Tags root
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /health [get]
func getHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func registerHealthRoutes(r *gin.Engine) {
	r.GET("/health", getHealth)
	r.GET("/healthz", getHealth)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	apiLimiter *limiter.Limiter,
	analytics *utils.PosthogClientWrapper,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret), middleware.RateLimit(apiLimiter))
	v1.Use(middleware.PosthogMiddleware(analytics))

	// Delegate route registration to specific handlers, passing required services
	registerWorkOrderRoutes(v1, service.WorkOrder)
	registerClientRoutes(v1, service.Client)
	registerInvoiceRoutes(v1, service.Invoice)
	registerUserRoutes(v1, service.User)
	registerDashboardRoutes(v1, service.Dashboard)
	registerMediaRoutes(v1, service.Media, cfg.MaxUploadBytes)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
