package handlers_test

import (
	"net/http"
	"testing"

	"gearguard-backend/internal/api/handlers"
	"gearguard-backend/internal/database/models"
	apperrors "gearguard-backend/internal/errors"
	"gearguard-backend/internal/mocks"
	"gearguard-backend/internal/service"
	"gearguard-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// RequestHandlerTestSuite defines the test suite for RequestHandler
type RequestHandlerTestSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	mockRequestSvc *mocks.MockRequestServiceInterface
	actor          uuid.UUID
	http           *testutils.HTTPTestSuite
}

func (suite *RequestHandlerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockRequestSvc = mocks.NewMockRequestServiceInterface(suite.ctrl)
	handler := handlers.NewRequestHandler(suite.mockRequestSvc)

	suite.actor = uuid.New()
	suite.http = testutils.SetupHTTPTest(&suite.actor)
	r := suite.http.Router
	r.GET("/requests", handler.ListRequests)
	r.POST("/requests", handler.CreateRequest)
	r.PATCH("/requests", handler.BatchUpdate)
	r.POST("/requests/onchange", handler.Onchange)
	r.GET("/requests/overdue", handler.GetOverdue)
	r.GET("/requests/:id", handler.GetRequest)
	r.PATCH("/requests/:id", handler.UpdateRequest)
	r.DELETE("/requests/:id", handler.ArchiveRequest)
	r.POST("/requests/:id/start", handler.Start)
	r.POST("/requests/:id/complete", handler.Complete)
	r.POST("/requests/:id/scrap", handler.Scrap)
	r.POST("/requests/:id/reset", handler.Reset)
	r.GET("/equipment/:id/requests", handler.ListBy(handlers.ScopeEquipment))
	r.GET("/teams/:id/requests", handler.ListBy(handlers.ScopeTeam))
}

func (suite *RequestHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func requestResponse(name string, stage models.Stage) *service.RequestResponse {
	req := models.MaintenanceRequest{Name: name, Stage: stage, Active: true}
	req.ID = uuid.New()
	return &service.RequestResponse{MaintenanceRequest: req, DisplayName: name}
}

func (suite *RequestHandlerTestSuite) TestCreateRequest_DecodesChanges() {
	equipmentID := uuid.New()
	suite.mockRequestSvc.EXPECT().
		Create(&suite.actor, gomock.Any()).
		DoAndReturn(func(_ *uuid.UUID, req *service.CreateRequestRequest) (*service.RequestResponse, error) {
			assert.Equal(suite.T(), "Paper jam", req.Name.Value)
			require.True(suite.T(), req.EquipmentID.Set)
			require.NotNil(suite.T(), req.EquipmentID.Value)
			assert.Equal(suite.T(), equipmentID, *req.EquipmentID.Value)
			require.True(suite.T(), req.ScheduleDate.Set)
			assert.Equal(suite.T(), "2025-07-01", req.ScheduleDate.Value.Format("2006-01-02"))
			assert.False(suite.T(), req.TeamID.Set)
			return requestResponse("Paper jam", models.StageNew), nil
		})

	w := suite.http.MakeRequest(http.MethodPost, "/requests", map[string]interface{}{
		"name":          "Paper jam",
		"equipment_id":  equipmentID.String(),
		"schedule_date": "2025-07-01",
	})

	var got map[string]interface{}
	testutils.AssertJSONResponse(suite.T(), w, http.StatusCreated, &got)
	assert.Equal(suite.T(), "new", got["stage"])
	assert.Equal(suite.T(), "Paper jam", got["display_name"])
}

func (suite *RequestHandlerTestSuite) TestCreateRequest_UnknownEquipment() {
	suite.mockRequestSvc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, apperrors.ErrEquipmentNotFound)

	w := suite.http.MakeRequest(http.MethodPost, "/requests", map[string]interface{}{
		"name": "Paper jam", "equipment_id": uuid.NewString(),
	})

	testutils.AssertErrorResponse(suite.T(), w, http.StatusNotFound, "equipment not found")
}

func (suite *RequestHandlerTestSuite) TestGetRequest() {
	resp := requestResponse("Oil change", models.StageInProgress)
	suite.mockRequestSvc.EXPECT().GetByID(resp.ID).Return(resp, nil)

	w := suite.http.MakeRequest(http.MethodGet, "/requests/"+resp.ID.String(), nil)

	var got map[string]interface{}
	testutils.AssertJSONResponse(suite.T(), w, http.StatusOK, &got)
	assert.Equal(suite.T(), resp.ID.String(), got["id"])
	assert.Equal(suite.T(), "in_progress", got["stage"])
}

func (suite *RequestHandlerTestSuite) TestListRequests_Filters() {
	technician := uuid.New()
	suite.mockRequestSvc.EXPECT().
		List(gomock.Any(), 1, 20).
		DoAndReturn(func(params service.RequestListParams, _, _ int) (*service.RequestListResponse, error) {
			assert.Equal(suite.T(), []models.Stage{models.StageNew, models.StageInProgress}, params.Stages)
			assert.Equal(suite.T(), models.MaintenanceTypePreventive, params.MaintenanceType)
			require.NotNil(suite.T(), params.TechnicianID)
			assert.Equal(suite.T(), technician, *params.TechnicianID)
			assert.True(suite.T(), params.OverdueOnly)
			assert.True(suite.T(), params.IncludeArchived)
			assert.Equal(suite.T(), "oil", params.Search)
			return &service.RequestListResponse{Page: 1, PageSize: 20}, nil
		})

	w := suite.http.MakeRequest(http.MethodGet, "/requests?stage=new,in_progress&maintenance_type=preventive&technician_id="+
		technician.String()+"&overdue=true&include_archived=1&search=oil", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *RequestHandlerTestSuite) TestListRequests_InvalidFilters() {
	cases := map[string]string{
		"/requests?maintenance_type=urgent": "unknown maintenance type",
		"/requests?overdue=yes-please":      "invalid overdue",
		"/requests?equipment_id=42":         "invalid equipment_id",
	}
	for url, msg := range cases {
		w := suite.http.MakeRequest(http.MethodGet, url, nil)
		testutils.AssertErrorResponse(suite.T(), w, http.StatusBadRequest, msg)
	}

	w := suite.http.MakeRequest(http.MethodGet, "/requests?stage=done", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *RequestHandlerTestSuite) TestListBy_Equipment() {
	equipmentID := uuid.New()
	suite.mockRequestSvc.EXPECT().
		List(gomock.Any(), 1, 20).
		DoAndReturn(func(params service.RequestListParams, _, _ int) (*service.RequestListResponse, error) {
			require.NotNil(suite.T(), params.EquipmentID)
			assert.Equal(suite.T(), equipmentID, *params.EquipmentID)
			assert.Nil(suite.T(), params.TeamID)
			return &service.RequestListResponse{}, nil
		})

	w := suite.http.MakeRequest(http.MethodGet, "/equipment/"+equipmentID.String()+"/requests", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *RequestHandlerTestSuite) TestListBy_Team() {
	teamID := uuid.New()
	suite.mockRequestSvc.EXPECT().
		List(gomock.Any(), 1, 20).
		DoAndReturn(func(params service.RequestListParams, _, _ int) (*service.RequestListResponse, error) {
			require.NotNil(suite.T(), params.TeamID)
			assert.Equal(suite.T(), teamID, *params.TeamID)
			return &service.RequestListResponse{}, nil
		})

	w := suite.http.MakeRequest(http.MethodGet, "/teams/"+teamID.String()+"/requests", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *RequestHandlerTestSuite) TestGetOverdue() {
	overdue := requestResponse("Filter swap", models.StageNew)
	overdue.IsOverdue = true
	overdue.DaysOverdue = 3
	suite.mockRequestSvc.EXPECT().GetOverdue(1, 20).Return(&service.RequestListResponse{
		Requests: []service.RequestResponse{*overdue},
		Total:    1, Page: 1, PageSize: 20,
	}, nil)

	w := suite.http.MakeRequest(http.MethodGet, "/requests/overdue", nil)

	var got map[string]interface{}
	testutils.AssertJSONResponse(suite.T(), w, http.StatusOK, &got)
	requests, ok := got["requests"].([]interface{})
	require.True(suite.T(), ok)
	require.Len(suite.T(), requests, 1)
	first := requests[0].(map[string]interface{})
	assert.Equal(suite.T(), true, first["is_overdue"])
	assert.Equal(suite.T(), float64(3), first["days_overdue"])
}

func (suite *RequestHandlerTestSuite) TestUpdateRequest_CloseBeforeSchedule() {
	id := uuid.New()
	suite.mockRequestSvc.EXPECT().
		Update(&suite.actor, id, gomock.Any()).
		DoAndReturn(func(_ *uuid.UUID, _ uuid.UUID, req *service.UpdateRequestRequest) (*service.RequestResponse, error) {
			require.True(suite.T(), req.CloseDate.Set)
			return nil, apperrors.ErrCloseBeforeSchedule
		})

	w := suite.http.MakeRequest(http.MethodPatch, "/requests/"+id.String(), map[string]interface{}{"close_date": "2025-01-01"})

	var got handlers.ErrorResponse
	testutils.AssertJSONResponse(suite.T(), w, http.StatusBadRequest, &got)
	assert.Equal(suite.T(), "Close date cannot be before scheduled date.", got.Error)
	assert.Equal(suite.T(), "close_date", got.Field)
}

func (suite *RequestHandlerTestSuite) TestUpdateRequest_NullClearsSchedule() {
	resp := requestResponse("Oil change", models.StageNew)
	suite.mockRequestSvc.EXPECT().
		Update(&suite.actor, resp.ID, gomock.Any()).
		DoAndReturn(func(_ *uuid.UUID, _ uuid.UUID, req *service.UpdateRequestRequest) (*service.RequestResponse, error) {
			assert.True(suite.T(), req.ScheduleDate.Set)
			assert.Nil(suite.T(), req.ScheduleDate.Value)
			assert.False(suite.T(), req.Name.Set)
			return resp, nil
		})

	w := suite.http.MakeRequest(http.MethodPatch, "/requests/"+resp.ID.String(), map[string]interface{}{"schedule_date": nil})

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *RequestHandlerTestSuite) TestBatchUpdate() {
	a, b := uuid.New(), uuid.New()
	suite.mockRequestSvc.EXPECT().
		BatchUpdate(&suite.actor, gomock.Any()).
		DoAndReturn(func(_ *uuid.UUID, req *service.BatchUpdateRequest) (*service.RequestBatchResponse, error) {
			assert.Equal(suite.T(), []uuid.UUID{a, b}, req.IDs)
			assert.Equal(suite.T(), models.StageScrap, req.Values.Stage.Value)
			return &service.RequestBatchResponse{Requests: []service.RequestResponse{
				*requestResponse("a", models.StageScrap), *requestResponse("b", models.StageScrap),
			}}, nil
		})

	w := suite.http.MakeRequest(http.MethodPatch, "/requests", map[string]interface{}{
		"ids":    []string{a.String(), b.String()},
		"values": map[string]interface{}{"stage": "scrap"},
	})

	var got map[string][]interface{}
	testutils.AssertJSONResponse(suite.T(), w, http.StatusOK, &got)
	assert.Len(suite.T(), got["requests"], 2)
}

func (suite *RequestHandlerTestSuite) TestArchiveRequest() {
	id := uuid.New()
	suite.mockRequestSvc.EXPECT().Archive(id).Return(nil)

	w := suite.http.MakeRequest(http.MethodDelete, "/requests/"+id.String(), nil)

	assert.Equal(suite.T(), http.StatusNoContent, w.Code)
}

func (suite *RequestHandlerTestSuite) TestOnchange() {
	equipmentID, teamID := uuid.New(), uuid.New()
	suite.mockRequestSvc.EXPECT().
		Onchange(gomock.Any()).
		DoAndReturn(func(req *service.OnchangeRequest) (*service.OnchangeResponse, error) {
			assert.Equal(suite.T(), "equipment_id", req.Field)
			return &service.OnchangeResponse{EquipmentID: &equipmentID, TeamID: &teamID}, nil
		})

	w := suite.http.MakeRequest(http.MethodPost, "/requests/onchange", map[string]interface{}{
		"field": "equipment_id", "equipment_id": equipmentID.String(),
	})

	var got service.OnchangeResponse
	testutils.AssertJSONResponse(suite.T(), w, http.StatusOK, &got)
	require.NotNil(suite.T(), got.TeamID)
	assert.Equal(suite.T(), teamID, *got.TeamID)
	assert.Nil(suite.T(), got.TechnicianID)
}

func (suite *RequestHandlerTestSuite) TestActions() {
	actions := []struct {
		path string
		mock func(id uuid.UUID) *gomock.Call
	}{
		{"start", func(id uuid.UUID) *gomock.Call { return suite.mockRequestSvc.EXPECT().Start(&suite.actor, id) }},
		{"complete", func(id uuid.UUID) *gomock.Call { return suite.mockRequestSvc.EXPECT().Complete(&suite.actor, id) }},
		{"scrap", func(id uuid.UUID) *gomock.Call { return suite.mockRequestSvc.EXPECT().Scrap(&suite.actor, id) }},
		{"reset", func(id uuid.UUID) *gomock.Call { return suite.mockRequestSvc.EXPECT().Reset(&suite.actor, id) }},
	}

	for _, action := range actions {
		suite.Run(action.path, func() {
			resp := requestResponse("Belt", models.StageRepaired)
			action.mock(resp.ID).Return(&service.ActionResponse{Request: *resp}, nil)

			w := suite.http.MakeRequest(http.MethodPost, "/requests/"+resp.ID.String()+"/"+action.path, nil)

			assert.Equal(suite.T(), http.StatusOK, w.Code)
		})
	}
}

func (suite *RequestHandlerTestSuite) TestComplete_WarningsAreReturned() {
	resp := requestResponse("Belt", models.StageRepaired)
	suite.mockRequestSvc.EXPECT().Complete(&suite.actor, resp.ID).Return(&service.ActionResponse{
		Request:  *resp,
		Warnings: []string{"Duration is 0 hours."},
	}, nil)

	w := suite.http.MakeRequest(http.MethodPost, "/requests/"+resp.ID.String()+"/complete", nil)

	var got map[string]interface{}
	testutils.AssertJSONResponse(suite.T(), w, http.StatusOK, &got)
	assert.Equal(suite.T(), []interface{}{"Duration is 0 hours."}, got["warnings"])
}

func (suite *RequestHandlerTestSuite) TestStart_InvalidTransition() {
	id := uuid.New()
	suite.mockRequestSvc.EXPECT().Start(&suite.actor, id).
		Return(nil, apperrors.NewInvalidTransitionError("start", string(models.StageRepaired)))

	w := suite.http.MakeRequest(http.MethodPost, "/requests/"+id.String()+"/start", nil)

	testutils.AssertErrorResponse(suite.T(), w, http.StatusConflict, "cannot start a request in stage repaired")
}

func (suite *RequestHandlerTestSuite) TestAction_InvalidID() {
	w := suite.http.MakeRequest(http.MethodPost, "/requests/nope/scrap", nil)

	testutils.AssertErrorResponse(suite.T(), w, http.StatusBadRequest, "invalid request ID")
}

func TestRequestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(RequestHandlerTestSuite))
}
