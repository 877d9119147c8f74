package maintenance_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gearguard-backend/internal/database/models"
	apperrors "gearguard-backend/internal/errors"
	"gearguard-backend/internal/maintenance"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeResolver struct {
	equipment map[uuid.UUID]*models.Equipment
	teams     map[uuid.UUID]*models.MaintenanceTeam
}

func (f *fakeResolver) Equipment(id uuid.UUID) (*models.Equipment, error) {
	if eq, ok := f.equipment[id]; ok {
		return eq, nil
	}
	return nil, apperrors.ErrEquipmentNotFound
}

func (f *fakeResolver) Team(id uuid.UUID) (*models.MaintenanceTeam, error) {
	if team, ok := f.teams[id]; ok {
		return team, nil
	}
	return nil, apperrors.ErrTeamNotFound
}

type LifecycleTestSuite struct {
	suite.Suite
	today     time.Time
	resolver  *fakeResolver
	lifecycle *maintenance.Lifecycle

	alice, bob, carol models.User
	mechanics         *models.MaintenanceTeam
	electricians      *models.MaintenanceTeam
	category          uuid.UUID
	press             *models.Equipment
}

func (suite *LifecycleTestSuite) SetupTest() {
	suite.today = date(2024, time.March, 10)

	suite.alice = models.User{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Alice"}
	suite.bob = models.User{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Bob"}
	suite.carol = models.User{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Carol"}

	suite.mechanics = &models.MaintenanceTeam{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Mechanics", Members: []models.User{suite.alice, suite.bob}}
	suite.electricians = &models.MaintenanceTeam{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Electricians", Members: []models.User{suite.carol}}

	suite.category = uuid.New()
	suite.press = &models.Equipment{
		BaseModel:    models.BaseModel{ID: uuid.New()},
		Name:         "Hydraulic Press",
		Active:       true,
		State:        models.EquipmentStateOperational,
		CategoryID:   &suite.category,
		TeamID:       suite.mechanics.ID,
		TechnicianID: &suite.alice.ID,
	}

	suite.resolver = &fakeResolver{
		equipment: map[uuid.UUID]*models.Equipment{suite.press.ID: suite.press},
		teams: map[uuid.UUID]*models.MaintenanceTeam{
			suite.mechanics.ID:    suite.mechanics,
			suite.electricians.ID: suite.electricians,
		},
	}
	suite.lifecycle = maintenance.NewLifecycle(maintenance.FixedClock(suite.today), suite.resolver, 7)
}

func (suite *LifecycleTestSuite) newRequest(stage models.Stage) *models.MaintenanceRequest {
	teamID := suite.mechanics.ID
	return &models.MaintenanceRequest{
		BaseModel:       models.BaseModel{ID: uuid.New()},
		Name:            "Leaking seal",
		Active:          true,
		EquipmentID:     suite.press.ID,
		TeamID:          &teamID,
		MaintenanceType: models.MaintenanceTypeCorrective,
		Stage:           stage,
		Priority:        models.PriorityNormal,
		KanbanState:     models.KanbanStateNormal,
		RequestDate:     date(2024, time.March, 1),
		CostLaborRate:   50,
	}
}

func (suite *LifecycleTestSuite) TestCreate_AutoFillsFromEquipment() {
	r := &models.MaintenanceRequest{CostLaborRate: 50, Priority: models.PriorityNormal}
	out, err := suite.lifecycle.Create(r, maintenance.Changes{
		Name:        maintenance.Set("Noise from motor"),
		EquipmentID: maintenance.Set(&suite.press.ID),
	}, &suite.bob.ID)

	require.NoError(suite.T(), err)
	assert.Len(suite.T(), out.Requests, 1)
	assert.Empty(suite.T(), out.Events)
	assert.NotEqual(suite.T(), uuid.Nil, r.ID)
	assert.Equal(suite.T(), suite.category, *r.CategoryID)
	assert.Equal(suite.T(), suite.mechanics.ID, *r.TeamID)
	assert.Equal(suite.T(), suite.alice.ID, *r.TechnicianID)
	assert.Equal(suite.T(), models.StageNew, r.Stage)
	assert.Equal(suite.T(), models.MaintenanceTypeCorrective, r.MaintenanceType)
	assert.Equal(suite.T(), suite.today, r.RequestDate)
	assert.True(suite.T(), r.Active)
}

func (suite *LifecycleTestSuite) TestCreate_RequiresEquipment() {
	_, err := suite.lifecycle.Create(&models.MaintenanceRequest{}, maintenance.Changes{
		Name: maintenance.Set("Orphan"),
	}, nil)
	assert.True(suite.T(), apperrors.IsValidation(err))
}

func (suite *LifecycleTestSuite) TestCreate_PreventiveDefaultsScheduleDate() {
	r := &models.MaintenanceRequest{CostLaborRate: 50, Priority: models.PriorityNormal}
	_, err := suite.lifecycle.Create(r, maintenance.Changes{
		Name:            maintenance.Set("Quarterly check"),
		EquipmentID:     maintenance.Set(&suite.press.ID),
		MaintenanceType: maintenance.Set(models.MaintenanceTypePreventive),
		RequestDate:     maintenance.Set(date(2024, time.March, 4)),
	}, nil)

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), r.ScheduleDate)
	assert.Equal(suite.T(), date(2024, time.March, 11), *r.ScheduleDate)
}

func (suite *LifecycleTestSuite) TestCreate_PreventiveKeepsExplicitSchedule() {
	r := &models.MaintenanceRequest{CostLaborRate: 50, Priority: models.PriorityNormal}
	_, err := suite.lifecycle.Create(r, maintenance.Changes{
		Name:            maintenance.Set("Quarterly check"),
		EquipmentID:     maintenance.Set(&suite.press.ID),
		MaintenanceType: maintenance.Set(models.MaintenanceTypePreventive),
		ScheduleDate:    maintenance.Set(datePtr(2024, time.April, 1)),
	}, nil)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), date(2024, time.April, 1), *r.ScheduleDate)
}

func (suite *LifecycleTestSuite) TestWrite_InProgressAssignsActor() {
	unassigned := suite.newRequest(models.StageNew)
	assigned := suite.newRequest(models.StageNew)
	assigned.TechnicianID = &suite.alice.ID

	_, err := suite.lifecycle.Write([]*models.MaintenanceRequest{unassigned, assigned}, maintenance.Changes{
		Stage: maintenance.Set(models.StageInProgress),
	}, &suite.bob.ID)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.bob.ID, *unassigned.TechnicianID)
	assert.Equal(suite.T(), suite.alice.ID, *assigned.TechnicianID)
}

func (suite *LifecycleTestSuite) TestWrite_InProgressHonoursExplicitTechnician() {
	r := suite.newRequest(models.StageNew)
	_, err := suite.lifecycle.Write([]*models.MaintenanceRequest{r}, maintenance.Changes{
		Stage:        maintenance.Set(models.StageInProgress),
		TechnicianID: maintenance.Set[*uuid.UUID](nil),
	}, &suite.bob.ID)

	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), r.TechnicianID)
}

func (suite *LifecycleTestSuite) TestWrite_RepairedSetsCloseDate() {
	r := suite.newRequest(models.StageInProgress)
	_, err := suite.lifecycle.Write([]*models.MaintenanceRequest{r}, maintenance.Changes{
		Stage: maintenance.Set(models.StageRepaired),
	}, nil)

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), r.CloseDate)
	assert.Equal(suite.T(), suite.today, *r.CloseDate)
}

func (suite *LifecycleTestSuite) TestWrite_RepairedKeepsPayloadCloseDate() {
	r := suite.newRequest(models.StageInProgress)
	_, err := suite.lifecycle.Write([]*models.MaintenanceRequest{r}, maintenance.Changes{
		Stage:     maintenance.Set(models.StageRepaired),
		CloseDate: maintenance.Set(datePtr(2024, time.March, 5)),
	}, nil)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), date(2024, time.March, 5), *r.CloseDate)
}

func (suite *LifecycleTestSuite) TestWrite_ScrapEmitsOneEventPerRequest() {
	first := suite.newRequest(models.StageNew)
	second := suite.newRequest(models.StageInProgress)

	out, err := suite.lifecycle.Write([]*models.MaintenanceRequest{first, second}, maintenance.Changes{
		Stage: maintenance.Set(models.StageScrap),
	}, &suite.bob.ID)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), out.Events, 2)
	assert.Equal(suite.T(), first.ID, out.Events[0].RequestID)
	assert.Equal(suite.T(), second.ID, out.Events[1].RequestID)
	assert.Equal(suite.T(), suite.press.ID, out.Events[0].EquipmentID)
	assert.Equal(suite.T(), suite.bob.ID, *out.Events[0].ActorID)
	assert.Equal(suite.T(), "maintenance.request.scrapped", out.Events[0].Name())
	assert.False(suite.T(), out.Events[0].Repeated)

	out, err = suite.lifecycle.Write([]*models.MaintenanceRequest{first}, maintenance.Changes{
		Stage: maintenance.Set(models.StageScrap),
	}, &suite.bob.ID)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), out.Events, 1)
	assert.True(suite.T(), out.Events[0].Repeated)
}

func (suite *LifecycleTestSuite) TestWrite_NoStageNoSideEffects() {
	r := suite.newRequest(models.StageNew)
	out, err := suite.lifecycle.Write([]*models.MaintenanceRequest{r}, maintenance.Changes{
		Description: maintenance.Set("updated"),
	}, &suite.bob.ID)

	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), out.Events)
	assert.Nil(suite.T(), r.TechnicianID)
	assert.Nil(suite.T(), r.CloseDate)
}

func (suite *LifecycleTestSuite) TestWrite_CloseBeforeScheduleRejected() {
	r := suite.newRequest(models.StageInProgress)
	r.ScheduleDate = datePtr(2024, time.March, 8)

	_, err := suite.lifecycle.Write([]*models.MaintenanceRequest{r}, maintenance.Changes{
		Stage:     maintenance.Set(models.StageRepaired),
		CloseDate: maintenance.Set(datePtr(2024, time.March, 7)),
	}, nil)

	assert.ErrorIs(suite.T(), err, apperrors.ErrCloseBeforeSchedule)
}

func (suite *LifecycleTestSuite) TestWrite_SameDayCloseAllowed() {
	r := suite.newRequest(models.StageInProgress)
	r.ScheduleDate = datePtr(2024, time.March, 8)

	_, err := suite.lifecycle.Write([]*models.MaintenanceRequest{r}, maintenance.Changes{
		CloseDate: maintenance.Set(datePtr(2024, time.March, 8)),
	}, nil)

	assert.NoError(suite.T(), err)
}

func (suite *LifecycleTestSuite) TestWrite_TeamChangeClearsNonMemberTechnician() {
	r := suite.newRequest(models.StageNew)
	r.TechnicianID = &suite.alice.ID

	_, err := suite.lifecycle.Write([]*models.MaintenanceRequest{r}, maintenance.Changes{
		TeamID: maintenance.Set(&suite.electricians.ID),
	}, nil)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.electricians.ID, *r.TeamID)
	assert.Nil(suite.T(), r.TechnicianID)
}

func (suite *LifecycleTestSuite) TestWrite_TeamChangeKeepsMemberTechnician() {
	suite.electricians.Members = append(suite.electricians.Members, suite.alice)
	r := suite.newRequest(models.StageNew)
	r.TechnicianID = &suite.alice.ID

	_, err := suite.lifecycle.Write([]*models.MaintenanceRequest{r}, maintenance.Changes{
		TeamID: maintenance.Set(&suite.electricians.ID),
	}, nil)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.alice.ID, *r.TechnicianID)
}

func (suite *LifecycleTestSuite) TestWrite_ExplicitTechnicianMustBeMember() {
	r := suite.newRequest(models.StageNew)
	_, err := suite.lifecycle.Write([]*models.MaintenanceRequest{r}, maintenance.Changes{
		TechnicianID: maintenance.Set(&suite.carol.ID),
	}, nil)

	assert.ErrorIs(suite.T(), err, apperrors.ErrTechnicianNotInTeam)
}

func (suite *LifecycleTestSuite) TestWrite_RecomputesCostsAndOverdue() {
	r := suite.newRequest(models.StageNew)
	r.ScheduleDate = datePtr(2024, time.March, 7)

	_, err := suite.lifecycle.Write([]*models.MaintenanceRequest{r}, maintenance.Changes{
		Duration:  maintenance.Set(2.0),
		CostParts: maintenance.Set(30.0),
	}, nil)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 100.0, r.CostLabor)
	assert.Equal(suite.T(), 130.0, r.CostTotal)
	assert.True(suite.T(), r.IsOverdue)
	assert.Equal(suite.T(), 3, r.DaysOverdue)
}

func (suite *LifecycleTestSuite) TestWrite_RejectsNegativeDuration() {
	r := suite.newRequest(models.StageNew)
	_, err := suite.lifecycle.Write([]*models.MaintenanceRequest{r}, maintenance.Changes{
		Duration: maintenance.Set(-1.0),
	}, nil)
	assert.True(suite.T(), apperrors.IsValidation(err))
}

func (suite *LifecycleTestSuite) TestWrite_NullRequestDateRejected() {
	r := suite.newRequest(models.StageNew)

	var ch maintenance.Changes
	require.NoError(suite.T(), json.Unmarshal([]byte(`{"request_date": null}`), &ch))
	require.True(suite.T(), ch.RequestDate.Set)

	_, err := suite.lifecycle.Write([]*models.MaintenanceRequest{r}, ch, nil)

	var verr *apperrors.ValidationError
	require.True(suite.T(), errors.As(err, &verr))
	assert.Equal(suite.T(), "request_date", verr.Field)

	created := &models.MaintenanceRequest{Name: "Leak"}
	_, err = suite.lifecycle.Create(created, maintenance.Changes{
		EquipmentID: maintenance.Set(&suite.press.ID),
		RequestDate: maintenance.Set(time.Time{}),
	}, nil)
	assert.True(suite.T(), apperrors.IsValidation(err))
}

func (suite *LifecycleTestSuite) TestWrite_UnknownEquipment() {
	r := suite.newRequest(models.StageNew)
	missing := uuid.New()
	_, err := suite.lifecycle.Write([]*models.MaintenanceRequest{r}, maintenance.Changes{
		EquipmentID: maintenance.Set(&missing),
	}, nil)
	assert.ErrorIs(suite.T(), err, apperrors.ErrEquipmentNotFound)
}

func TestLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(LifecycleTestSuite))
}
