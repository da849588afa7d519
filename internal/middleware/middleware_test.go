package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/SscSPs/fieldops_backend/internal/middleware"
	"github.com/SscSPs/fieldops_backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

const testSecret = "test-secret-key-that-is-long-enough"

type MiddlewareTestSuite struct {
	suite.Suite
	router *gin.Engine
	logs   *bytes.Buffer
}

func (suite *MiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.logs = &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(suite.logs, nil))

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(logger))

	suite.router.GET("/open", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetRequestID(c.Request.Context()))
	})

	authed := suite.router.Group("/", middleware.AuthMiddleware(testSecret))
	authed.GET("/me", func(c *gin.Context) {
		userID, _ := middleware.GetUserIDFromContext(c)
		role, _ := middleware.GetRoleFromContext(c)
		c.String(http.StatusOK, userID+"|"+string(role))
	})
	authed.GET("/admin", middleware.RequireRole(domain.RoleSuperAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

func (suite *MiddlewareTestSuite) token(userID string, role domain.Role, expiry time.Duration) string {
	tok, _, err := utils.GenerateJWT(userID, string(role), testSecret, expiry, "fieldops-test")
	suite.Require().NoError(err)
	return tok
}

func (suite *MiddlewareTestSuite) do(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *MiddlewareTestSuite) TestRequestIDIsEchoedAndLogged() {
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("req-42", w.Body.String())
	suite.Equal("req-42", w.Header().Get(middleware.RequestIDHeader))
	suite.Contains(suite.logs.String(), `"request_id":"req-42"`)
	suite.Contains(suite.logs.String(), `"Request completed"`)
}

func (suite *MiddlewareTestSuite) TestAuth_PutsIdentityInContext() {
	w := suite.do("/me", suite.token("user-1", domain.RoleEmployee, time.Hour))
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("user-1|employee", w.Body.String())
	suite.Contains(suite.logs.String(), `"user_id":"user-1"`)
}

func (suite *MiddlewareTestSuite) TestAuth_Rejections() {
	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
		{"expired", suite.token("user-1", domain.RoleEmployee, -time.Minute)},
		{"unknown role", suite.token("user-1", domain.Role("owner"), time.Hour)},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.Equal(http.StatusUnauthorized, suite.do("/me", tt.token).Code)
		})
	}
}

func (suite *MiddlewareTestSuite) TestRequireRole() {
	suite.Equal(http.StatusForbidden, suite.do("/admin", suite.token("user-1", domain.RoleEmployee, time.Hour)).Code)
	suite.Equal(http.StatusNoContent, suite.do("/admin", suite.token("admin-1", domain.RoleSuperAdmin, time.Hour)).Code)
}

func (suite *MiddlewareTestSuite) TestRateLimit() {
	lim, err := middleware.NewRateLimiter("2-M")
	suite.Require().NoError(err)
	r := gin.New()
	r.GET("/login", middleware.RateLimit(lim), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
		codes = append(codes, w.Code)
	}
	suite.Equal([]int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	_, err = middleware.NewRateLimiter("lots")
	suite.Error(err)
}

func TestMiddleware(t *testing.T) {
	suite.Run(t, new(MiddlewareTestSuite))
}
