package auth_test

import (
	"testing"
	"time"

	"taskboard-backend/internal/auth"
	"taskboard-backend/internal/database/models"
	apperrors "taskboard-backend/internal/errors"
	"taskboard-backend/internal/mocks"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthServiceTestSuite defines the test suite for the auth Service
type AuthServiceTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockUserRepo *mocks.MockUserRepositoryInterface
	authService  *auth.Service
}

// SetupTest sets up the test suite
func (suite *AuthServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockUserRepo = mocks.NewMockUserRepositoryInterface(suite.ctrl)

	service, err := auth.NewService(&auth.Config{
		JWTSecret:       "test-secret-key",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "taskboard-backend",
	}, suite.mockUserRepo, validator.New())
	assert.NoError(suite.T(), err)
	suite.authService = service
}

// TearDownTest cleans up after each test
func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func testUser(password string) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &models.User{
		BaseModel:    models.BaseModel{ID: uuid.New()},
		Username:     "testuser",
		Email:        "testuser@test.com",
		PasswordHash: string(hash),
	}
}

// TestRegister tests registering a new account
func (suite *AuthServiceTestSuite) TestRegister() {
	suite.mockUserRepo.EXPECT().
		GetByEmail("new@test.com").
		Return(nil, gorm.ErrRecordNotFound).
		Times(1)
	suite.mockUserRepo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(user *models.User) error {
			assert.NotEqual(suite.T(), "secret123", user.PasswordHash)
			user.ID = uuid.New()
			return nil
		}).
		Times(1)

	response, err := suite.authService.Register(&auth.RegisterRequest{
		Username: "newuser",
		Email:    "new@test.com",
		Password: "secret123",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Bearer", response.TokenType)
	assert.NotEmpty(suite.T(), response.AccessToken)
	assert.NotEmpty(suite.T(), response.RefreshToken)
	assert.Equal(suite.T(), "newuser", response.User.Username)
	assert.Equal(suite.T(), int64(3600), response.ExpiresIn)
}

// TestRegisterDuplicateEmail tests registering an already used email
func (suite *AuthServiceTestSuite) TestRegisterDuplicateEmail() {
	existing := testUser("whatever1")
	suite.mockUserRepo.EXPECT().
		GetByEmail(existing.Email).
		Return(existing, nil).
		Times(1)

	_, err := suite.authService.Register(&auth.RegisterRequest{
		Username: "other",
		Email:    existing.Email,
		Password: "secret123",
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrEmailExists)
}

// TestRegisterValidation tests rejecting a too short password
func (suite *AuthServiceTestSuite) TestRegisterValidation() {
	_, err := suite.authService.Register(&auth.RegisterRequest{
		Username: "newuser",
		Email:    "new@test.com",
		Password: "short",
	})

	assert.True(suite.T(), apperrors.IsValidation(err))
}

// TestLogin tests logging in with correct credentials
func (suite *AuthServiceTestSuite) TestLogin() {
	user := testUser("secret123")
	suite.mockUserRepo.EXPECT().
		GetByEmail(user.Email).
		Return(user, nil).
		Times(1)

	response, err := suite.authService.Login(&auth.LoginRequest{
		Email:    user.Email,
		Password: "secret123",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID.String(), response.User.ID)

	claims, err := suite.authService.ValidateJWT(response.AccessToken)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, claims.UserID)
	assert.Equal(suite.T(), user.Email, claims.Email)
}

// TestLoginWrongPassword tests that a wrong password is indistinguishable
// from an unknown email
func (suite *AuthServiceTestSuite) TestLoginWrongPassword() {
	user := testUser("secret123")
	suite.mockUserRepo.EXPECT().
		GetByEmail(user.Email).
		Return(user, nil).
		Times(1)

	_, err := suite.authService.Login(&auth.LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidCredentials)
}

// TestLoginUnknownEmail tests logging in with an unregistered email
func (suite *AuthServiceTestSuite) TestLoginUnknownEmail() {
	suite.mockUserRepo.EXPECT().
		GetByEmail("nobody@test.com").
		Return(nil, gorm.ErrRecordNotFound).
		Times(1)

	_, err := suite.authService.Login(&auth.LoginRequest{
		Email:    "nobody@test.com",
		Password: "secret123",
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidCredentials)
}

// TestRefreshRotatesToken tests that refreshing invalidates the old token
func (suite *AuthServiceTestSuite) TestRefreshRotatesToken() {
	user := testUser("secret123")
	suite.mockUserRepo.EXPECT().
		GetByEmail(user.Email).
		Return(user, nil).
		Times(1)
	suite.mockUserRepo.EXPECT().
		GetByID(user.ID).
		Return(user, nil).
		Times(1)

	first, err := suite.authService.Login(&auth.LoginRequest{
		Email:    user.Email,
		Password: "secret123",
	})
	assert.NoError(suite.T(), err)

	second, err := suite.authService.Refresh(first.RefreshToken)
	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), first.RefreshToken, second.RefreshToken)

	// The rotated-out token is no longer accepted
	_, err = suite.authService.Refresh(first.RefreshToken)
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidRefreshToken)
}

// TestRefreshUnknownToken tests refreshing with a token never issued
func (suite *AuthServiceTestSuite) TestRefreshUnknownToken() {
	_, err := suite.authService.Refresh("never-issued")
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidRefreshToken)
}

// TestRefreshExpiredToken tests refreshing past the refresh TTL
func (suite *AuthServiceTestSuite) TestRefreshExpiredToken() {
	service, err := auth.NewService(&auth.Config{
		JWTSecret:       "test-secret-key",
		AccessTokenTTL:  time.Nanosecond,
		RefreshTokenTTL: 2 * time.Nanosecond,
		Issuer:          "taskboard-backend",
	}, suite.mockUserRepo, validator.New())
	assert.NoError(suite.T(), err)

	user := testUser("secret123")
	suite.mockUserRepo.EXPECT().
		GetByEmail(user.Email).
		Return(user, nil).
		Times(1)

	response, err := service.Login(&auth.LoginRequest{
		Email:    user.Email,
		Password: "secret123",
	})
	assert.NoError(suite.T(), err)

	_, err = service.Refresh(response.RefreshToken)
	assert.ErrorIs(suite.T(), err, apperrors.ErrRefreshTokenExpired)
}

// TestLogout tests that a revoked refresh token stops working
func (suite *AuthServiceTestSuite) TestLogout() {
	user := testUser("secret123")
	suite.mockUserRepo.EXPECT().
		GetByEmail(user.Email).
		Return(user, nil).
		Times(1)

	response, err := suite.authService.Login(&auth.LoginRequest{
		Email:    user.Email,
		Password: "secret123",
	})
	assert.NoError(suite.T(), err)

	suite.authService.Logout(response.RefreshToken)

	_, err = suite.authService.Refresh(response.RefreshToken)
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidRefreshToken)
}

// TestValidateJWTWrongSecret tests that a token signed with another key
// is rejected
func (suite *AuthServiceTestSuite) TestValidateJWTWrongSecret() {
	other, err := auth.NewService(&auth.Config{
		JWTSecret:       "another-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "taskboard-backend",
	}, suite.mockUserRepo, validator.New())
	assert.NoError(suite.T(), err)

	token, err := other.GenerateJWT(testUser("secret123"))
	assert.NoError(suite.T(), err)

	_, err = suite.authService.ValidateJWT(token)
	assert.Error(suite.T(), err)
}

// TestValidateJWTGarbage tests rejecting a malformed token
func (suite *AuthServiceTestSuite) TestValidateJWTGarbage() {
	_, err := suite.authService.ValidateJWT("not.a.jwt")
	assert.Error(suite.T(), err)
}

// TestAuthServiceTestSuite runs the test suite
func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
