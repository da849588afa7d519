package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	portssvc "github.com/SscSPs/fieldops_backend/internal/core/ports/services"
	"github.com/SscSPs/fieldops_backend/internal/dto"
	"github.com/SscSPs/fieldops_backend/internal/middleware"
	"github.com/SscSPs/fieldops_backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	analytics    *utils.PosthogClientWrapper
}

// NewAuthHandler creates a new AuthHandler. analytics may be nil.
func NewAuthHandler(us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade, analytics *utils.PosthogClientWrapper) *AuthHandler {
	return &AuthHandler{
		userService:  us,
		tokenService: ts,
		analytics:    analytics,
	}
}

// registerAuthRoutes sets up the public authentication routes. Login is rate limited per client IP.
func registerAuthRoutes(r *gin.Engine, loginLimiter *limiter.Limiter, services *portssvc.ServiceContainer, analytics *utils.PosthogClientWrapper) {
	h := NewAuthHandler(services.User, services.TokenService, analytics)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", middleware.RateLimit(loginLimiter), h.Login)
	}
	registerGoogleOAuthRoutes(auth, services, analytics)
}

// Login godoc
// @Summary User login
// @Description Authenticates a local user and returns a JWT carrying the user's role.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "User is inactive"
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Warn("Failed login attempt", slog.String("username", req.Username))
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
			return
		}
		respondError(c, err, "Failed to sign in")
		return
	}

	token, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		logger.Error("Failed to sign JWT token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	logger.Info("User signed in", slog.String("user_id", user.UserID))
	h.analytics.Enqueue(user.UserID, utils.EventUserLoggedIn, map[string]any{"provider": string(user.AuthProvider)})
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	})
}
