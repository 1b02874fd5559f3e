package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskboard-backend/internal/auth"
	apperrors "taskboard-backend/internal/errors"
	"taskboard-backend/internal/mocks"
	"taskboard-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// authAs returns a middleware that injects the auth context the way the
// real bearer middleware does after validating a token.
func authAs(userID uuid.UUID, email, username string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("email", email)
		c.Set("username", username)
		c.Set("auth_claims", &auth.Claims{UserID: userID, Email: email, Username: username})
		c.Next()
	}
}

// GroupHandlerTestSuite tests the GroupHandler
type GroupHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	ctrl        *gomock.Controller
	mockService *mocks.MockGroupServiceInterface
	handler     *GroupHandler
	actorID     uuid.UUID
}

// SetupSuite sets up the test suite
func (suite *GroupHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

// SetupTest sets up each individual test
func (suite *GroupHandlerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockService = mocks.NewMockGroupServiceInterface(suite.ctrl)
	suite.handler = NewGroupHandler(suite.mockService)
	suite.actorID = uuid.New()

	suite.router = gin.New()
	groups := suite.router.Group("/api/v1/groups", authAs(suite.actorID, "actor@test.com", "actor"))
	{
		groups.GET("", suite.handler.GetGroups)
		groups.POST("", suite.handler.CreateGroup)
		groups.POST("/join", suite.handler.JoinGroup)
		groups.GET("/:id", suite.handler.GetGroup)
		groups.PUT("/:id", suite.handler.UpdateGroup)
		groups.DELETE("/:id", suite.handler.DeleteGroup)
	}
}

// TearDownTest cleans up after each test
func (suite *GroupHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

// TestCreateGroup tests creating a new group
func (suite *GroupHandlerTestSuite) TestCreateGroup() {
	groupID := uuid.New()
	request := service.CreateGroupRequest{Name: "Platform", Description: "Platform group"}
	expectedResponse := &service.GroupResponse{
		ID:       groupID,
		Name:     "Platform",
		LeaderID: suite.actorID,
	}

	suite.mockService.EXPECT().
		Create(suite.actorID, gomock.Any()).
		Return(expectedResponse, nil)

	body, _ := json.Marshal(request)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/groups", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response service.GroupResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), groupID, response.ID)
	assert.Equal(suite.T(), suite.actorID, response.LeaderID)
}

// TestCreateGroupInvalidBody tests creating a group with a malformed body
func (suite *GroupHandlerTestSuite) TestCreateGroupInvalidBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/groups", bytes.NewBufferString("not-json"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestGetGroups tests listing the user's groups
func (suite *GroupHandlerTestSuite) TestGetGroups() {
	suite.mockService.EXPECT().
		GetAll(suite.actorID).
		Return([]service.GroupResponse{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/groups", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response []service.GroupResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response, 2)
}

// TestGetGroupNotFound tests that hidden groups map to 404
func (suite *GroupHandlerTestSuite) TestGetGroupNotFound() {
	groupID := uuid.New()
	suite.mockService.EXPECT().
		GetByID(suite.actorID, groupID).
		Return(nil, apperrors.ErrGroupNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/groups/"+groupID.String(), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestGetGroupInvalidID tests a malformed UUID in the path
func (suite *GroupHandlerTestSuite) TestGetGroupInvalidID() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/groups/not-a-uuid", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpdateGroupForbidden tests that a non-leader update maps to 403
func (suite *GroupHandlerTestSuite) TestUpdateGroupForbidden() {
	groupID := uuid.New()
	suite.mockService.EXPECT().
		Update(suite.actorID, groupID, gomock.Any()).
		Return(nil, apperrors.ErrNotGroupLeader)

	body, _ := json.Marshal(map[string]string{"name": "renamed"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/groups/"+groupID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestDeleteGroup tests deleting a group
func (suite *GroupHandlerTestSuite) TestDeleteGroup() {
	groupID := uuid.New()
	suite.mockService.EXPECT().
		Delete(suite.actorID, groupID).
		Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/groups/"+groupID.String(), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNoContent, w.Code)
	assert.Empty(suite.T(), w.Body.Bytes())
}

// TestJoinGroup tests joining a group through a pending invitation
func (suite *GroupHandlerTestSuite) TestJoinGroup() {
	groupID := uuid.New()
	suite.mockService.EXPECT().
		JoinGroup(suite.actorID, gomock.Any()).
		DoAndReturn(func(actorID uuid.UUID, req *service.JoinGroupRequest) (*service.GroupResponse, error) {
			assert.Equal(suite.T(), groupID, req.GroupID)
			return &service.GroupResponse{ID: groupID, Name: "Platform"}, nil
		})

	body, _ := json.Marshal(service.JoinGroupRequest{GroupID: groupID})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/groups/join", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response service.GroupResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), groupID, response.ID)
}

// TestJoinGroupWithoutInvite tests that a missing invitation maps to 404
func (suite *GroupHandlerTestSuite) TestJoinGroupWithoutInvite() {
	groupID := uuid.New()
	suite.mockService.EXPECT().
		JoinGroup(suite.actorID, gomock.Any()).
		Return(nil, apperrors.ErrInviteNotFound)

	body, _ := json.Marshal(service.JoinGroupRequest{GroupID: groupID})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/groups/join", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestGroupHandlerTestSuite runs the test suite
func TestGroupHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GroupHandlerTestSuite))
}
