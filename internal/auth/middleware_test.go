package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskboard-backend/internal/auth"
	"taskboard-backend/internal/mocks"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// MiddlewareTestSuite tests the bearer token middleware
type MiddlewareTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	authService *auth.Service
	router      *gin.Engine
}

// SetupSuite sets up the test suite
func (suite *MiddlewareTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

// SetupTest sets up each individual test
func (suite *MiddlewareTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	userRepo := mocks.NewMockUserRepositoryInterface(suite.ctrl)

	service, err := auth.NewService(&auth.Config{
		JWTSecret:       "test-secret-key",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "taskboard-backend",
	}, userRepo, validator.New())
	assert.NoError(suite.T(), err)
	suite.authService = service

	middleware := auth.NewMiddleware(service)
	suite.router = gin.New()
	suite.router.GET("/protected", middleware.RequireAuth(), func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		assert.True(suite.T(), ok)
		email, ok := auth.GetUserEmail(c)
		assert.True(suite.T(), ok)
		claims, ok := auth.GetClaims(c)
		assert.True(suite.T(), ok)
		assert.Equal(suite.T(), userID, claims.UserID)
		c.JSON(http.StatusOK, gin.H{"userId": userID, "email": email})
	})
}

// TearDownTest cleans up after each test
func (suite *MiddlewareTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

// TestValidToken tests passing through with a valid bearer token
func (suite *MiddlewareTestSuite) TestValidToken() {
	token, err := suite.authService.GenerateJWT(testUser("secret123"))
	assert.NoError(suite.T(), err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestMissingHeader tests rejecting a request without Authorization
func (suite *MiddlewareTestSuite) TestMissingHeader() {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestMalformedHeader tests rejecting a non-bearer Authorization header
func (suite *MiddlewareTestSuite) TestMalformedHeader() {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestInvalidToken tests rejecting a token signed with another key
func (suite *MiddlewareTestSuite) TestInvalidToken() {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-valid-token")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestMiddlewareTestSuite runs the test suite
func TestMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareTestSuite))
}
