package handlers_test

import (
	"net/http"
	"testing"

	"gearguard-backend/internal/api/handlers"
	apperrors "gearguard-backend/internal/errors"
	"gearguard-backend/internal/mocks"
	"gearguard-backend/internal/service"
	"gearguard-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// TeamHandlerTestSuite defines the test suite for TeamHandler
type TeamHandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockTeamSvc *mocks.MockTeamServiceInterface
	http        *testutils.HTTPTestSuite
}

func (suite *TeamHandlerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockTeamSvc = mocks.NewMockTeamServiceInterface(suite.ctrl)
	handler := handlers.NewTeamHandler(suite.mockTeamSvc)

	suite.http = testutils.SetupHTTPTest(nil)
	r := suite.http.Router
	r.GET("/teams", handler.GetAllTeams)
	r.POST("/teams", handler.CreateTeam)
	r.GET("/teams/:id", handler.GetTeam)
	r.PUT("/teams/:id", handler.UpdateTeam)
	r.DELETE("/teams/:id", handler.ArchiveTeam)
	r.PUT("/teams/:id/members", handler.SetMembers)
}

func (suite *TeamHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *TeamHandlerTestSuite) TestCreateTeam_Success() {
	member := uuid.New()
	suite.mockTeamSvc.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(req *service.CreateTeamRequest) (*service.TeamResponse, error) {
			assert.Equal(suite.T(), "IT Support", req.Name)
			assert.Equal(suite.T(), []uuid.UUID{member}, req.MemberIDs)
			return &service.TeamResponse{
				ID:      uuid.New(),
				Name:    req.Name,
				Active:  true,
				Members: []service.TeamMember{{ID: member, Name: "Tina", Email: "tina@example.com"}},
			}, nil
		})

	w := suite.http.MakeRequest(http.MethodPost, "/teams", map[string]interface{}{
		"name":       "IT Support",
		"member_ids": []string{member.String()},
	})

	var got service.TeamResponse
	testutils.AssertJSONResponse(suite.T(), w, http.StatusCreated, &got)
	assert.True(suite.T(), got.Active)
	assert.Len(suite.T(), got.Members, 1)
}

func (suite *TeamHandlerTestSuite) TestCreateTeam_DuplicateName() {
	suite.mockTeamSvc.EXPECT().Create(gomock.Any()).Return(nil, apperrors.ErrTeamExists)

	w := suite.http.MakeRequest(http.MethodPost, "/teams", map[string]interface{}{"name": "IT Support"})

	testutils.AssertErrorResponse(suite.T(), w, http.StatusConflict, "already exists")
}

func (suite *TeamHandlerTestSuite) TestGetAllTeams_IncludeArchived() {
	suite.mockTeamSvc.EXPECT().GetAll(true, 1, 20).Return(&service.TeamListResponse{
		Teams: []service.TeamResponse{
			{ID: uuid.New(), Name: "Mechanics", Active: true, OpenRequestCount: 3, TodoRequestCount: 1},
			{ID: uuid.New(), Name: "Legacy", Active: false},
		},
		Total: 2, Page: 1, PageSize: 20,
	}, nil)

	w := suite.http.MakeRequest(http.MethodGet, "/teams?include_archived=true", nil)

	var got service.TeamListResponse
	testutils.AssertJSONResponse(suite.T(), w, http.StatusOK, &got)
	assert.Len(suite.T(), got.Teams, 2)
	assert.Equal(suite.T(), int64(3), got.Teams[0].OpenRequestCount)
	assert.Equal(suite.T(), int64(1), got.Teams[0].TodoRequestCount)
}

func (suite *TeamHandlerTestSuite) TestGetAllTeams_ActiveOnlyByDefault() {
	suite.mockTeamSvc.EXPECT().GetAll(false, 1, 20).Return(&service.TeamListResponse{}, nil)

	w := suite.http.MakeRequest(http.MethodGet, "/teams", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *TeamHandlerTestSuite) TestGetAllTeams_InvalidFlag() {
	w := suite.http.MakeRequest(http.MethodGet, "/teams?include_archived=maybe", nil)

	testutils.AssertErrorResponse(suite.T(), w, http.StatusBadRequest, "invalid include_archived")
}

func (suite *TeamHandlerTestSuite) TestGetTeam_NotFound() {
	id := uuid.New()
	suite.mockTeamSvc.EXPECT().GetByID(id).Return(nil, apperrors.ErrTeamNotFound)

	w := suite.http.MakeRequest(http.MethodGet, "/teams/"+id.String(), nil)

	testutils.AssertErrorResponse(suite.T(), w, http.StatusNotFound, "maintenance team not found")
}

func (suite *TeamHandlerTestSuite) TestUpdateTeam_Deactivate() {
	id := uuid.New()
	suite.mockTeamSvc.EXPECT().
		Update(id, gomock.Any()).
		DoAndReturn(func(_ uuid.UUID, req *service.UpdateTeamRequest) (*service.TeamResponse, error) {
			if assert.NotNil(suite.T(), req.Active) {
				assert.False(suite.T(), *req.Active)
			}
			return &service.TeamResponse{ID: id, Name: "Mechanics", Active: false}, nil
		})

	w := suite.http.MakeRequest(http.MethodPut, "/teams/"+id.String(), map[string]interface{}{"active": false})

	var got service.TeamResponse
	testutils.AssertJSONResponse(suite.T(), w, http.StatusOK, &got)
	assert.False(suite.T(), got.Active)
}

func (suite *TeamHandlerTestSuite) TestArchiveTeam() {
	id := uuid.New()
	suite.mockTeamSvc.EXPECT().Archive(id).Return(nil)

	w := suite.http.MakeRequest(http.MethodDelete, "/teams/"+id.String(), nil)

	assert.Equal(suite.T(), http.StatusNoContent, w.Code)
}

func (suite *TeamHandlerTestSuite) TestSetMembers_UnknownUser() {
	id := uuid.New()
	suite.mockTeamSvc.EXPECT().SetMembers(id, gomock.Any()).Return(nil, apperrors.ErrUserNotFound)

	w := suite.http.MakeRequest(http.MethodPut, "/teams/"+id.String()+"/members", map[string]interface{}{
		"member_ids": []string{uuid.NewString()},
	})

	testutils.AssertErrorResponse(suite.T(), w, http.StatusNotFound, "user not found")
}

func (suite *TeamHandlerTestSuite) TestSetMembers_Success() {
	id := uuid.New()
	a, b := uuid.New(), uuid.New()
	suite.mockTeamSvc.EXPECT().
		SetMembers(id, gomock.Any()).
		DoAndReturn(func(_ uuid.UUID, req *service.SetMembersRequest) (*service.TeamResponse, error) {
			assert.ElementsMatch(suite.T(), []uuid.UUID{a, b}, req.MemberIDs)
			return &service.TeamResponse{ID: id, Members: []service.TeamMember{{ID: a}, {ID: b}}}, nil
		})

	w := suite.http.MakeRequest(http.MethodPut, "/teams/"+id.String()+"/members", map[string]interface{}{
		"member_ids": []string{a.String(), b.String()},
	})

	var got service.TeamResponse
	testutils.AssertJSONResponse(suite.T(), w, http.StatusOK, &got)
	assert.Len(suite.T(), got.Members, 2)
}

func TestTeamHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TeamHandlerTestSuite))
}
