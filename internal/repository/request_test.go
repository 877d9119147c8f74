//go:build integration
// +build integration

package repository

import (
	"testing"
	"time"

	"gearguard-backend/internal/database/models"
	"gearguard-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// RequestRepositoryTestSuite tests the RequestRepository
type RequestRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *RequestRepository
	factories     *testutils.FactorySet
	equipment     *models.Equipment
}

func (suite *RequestRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewRequestRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
}

func (suite *RequestRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

func (suite *RequestRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()

	team := suite.factories.Team.Create()
	suite.NoError(suite.baseTestSuite.DB.Create(team).Error)
	suite.equipment = suite.factories.Equipment.Create(team.ID)
	suite.NoError(suite.baseTestSuite.DB.Create(suite.equipment).Error)
}

func (suite *RequestRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func (suite *RequestRepositoryTestSuite) TestSaveBatchCreatesAndUpdates() {
	created := suite.factories.Request.Create(suite.equipment)
	created.Priority = models.PriorityLow
	suite.NoError(suite.repo.SaveBatch(&WriteBatch{Created: []*models.MaintenanceRequest{created}}))

	retrieved, err := suite.repo.GetByID(created.ID)
	suite.NoError(err)
	suite.Equal(models.PriorityLow, retrieved.Priority)
	suite.Require().NotNil(retrieved.Equipment)
	suite.Equal(suite.equipment.ID, retrieved.Equipment.ID)

	retrieved.Stage = models.StageScrap
	suite.equipment.Active = false
	suite.equipment.State = models.EquipmentStateScrapped
	message := &models.EquipmentMessage{
		EquipmentID: suite.equipment.ID,
		RequestID:   &created.ID,
		Kind:        models.MessageKindScrap,
		Body:        "Equipment scrapped due to maintenance request: " + created.Name,
	}
	err = suite.repo.SaveBatch(&WriteBatch{
		Updated:   []*models.MaintenanceRequest{retrieved},
		Equipment: []*models.Equipment{suite.equipment},
		Messages:  []*models.EquipmentMessage{message},
	})
	suite.NoError(err)

	retrieved, err = suite.repo.GetByID(created.ID)
	suite.NoError(err)
	suite.Equal(models.StageScrap, retrieved.Stage)
	suite.False(retrieved.Equipment.Active)
	suite.Equal(models.EquipmentStateScrapped, retrieved.Equipment.State)

	var count int64
	suite.NoError(suite.baseTestSuite.DB.Model(&models.EquipmentMessage{}).
		Where("request_id = ?", created.ID).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *RequestRepositoryTestSuite) TestSaveBatchRollsBackOnFailure() {
	request := suite.factories.Request.Create(suite.equipment)
	suite.NoError(suite.repo.SaveBatch(&WriteBatch{Created: []*models.MaintenanceRequest{request}}))

	request.Stage = models.StageScrap
	broken := &models.EquipmentMessage{
		EquipmentID: uuid.New(),
		Kind:        models.MessageKindScrap,
		Body:        "unknown equipment",
	}
	err := suite.repo.SaveBatch(&WriteBatch{
		Updated:  []*models.MaintenanceRequest{request},
		Messages: []*models.EquipmentMessage{broken},
	})
	suite.Error(err)

	retrieved, err := suite.repo.GetByID(request.ID)
	suite.NoError(err)
	suite.Equal(models.StageNew, retrieved.Stage)
}

func (suite *RequestRepositoryTestSuite) TestListOrderAndFilters() {
	low := suite.factories.Request.Create(suite.equipment)
	low.Name = "Replace belt"
	low.Priority = models.PriorityLow
	urgent := suite.factories.Request.Create(suite.equipment)
	urgent.Name = "Hydraulic leak"
	urgent.Priority = models.PriorityUrgent
	closed := suite.factories.Request.WithStage(suite.equipment, models.StageRepaired)
	closed.Name = "Oil change"
	suite.NoError(suite.repo.SaveBatch(&WriteBatch{Created: []*models.MaintenanceRequest{low, urgent, closed}}))

	items, total, err := suite.repo.List(RequestFilter{}, 10, 0)
	suite.NoError(err)
	suite.Equal(int64(3), total)
	suite.Equal(urgent.ID, items[0].ID)

	items, total, err = suite.repo.List(RequestFilter{Stages: []models.Stage{models.StageNew}}, 10, 0)
	suite.NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(items, 2)

	items, total, err = suite.repo.List(RequestFilter{Search: "LEAK"}, 10, 0)
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal(urgent.ID, items[0].ID)

	suite.NoError(suite.repo.SetActive(urgent.ID, false))
	_, total, err = suite.repo.List(RequestFilter{}, 10, 0)
	suite.NoError(err)
	suite.Equal(int64(2), total)
}

func (suite *RequestRepositoryTestSuite) TestOverdue() {
	today := *date(2024, time.March, 20)

	late := suite.factories.Request.Create(suite.equipment)
	late.ScheduleDate = date(2024, time.March, 15)
	onTime := suite.factories.Request.Create(suite.equipment)
	onTime.ScheduleDate = date(2024, time.March, 25)
	repaired := suite.factories.Request.WithStage(suite.equipment, models.StageRepaired)
	repaired.ScheduleDate = date(2024, time.March, 10)
	stale := suite.factories.Request.Create(suite.equipment)
	stale.ScheduleDate = date(2024, time.March, 30)
	stale.IsOverdue = true
	stale.DaysOverdue = 4
	suite.NoError(suite.repo.SaveBatch(&WriteBatch{
		Created: []*models.MaintenanceRequest{late, onTime, repaired, stale},
	}))

	overdue, err := suite.repo.GetOverdue(today)
	suite.NoError(err)
	suite.Require().Len(overdue, 1)
	suite.Equal(late.ID, overdue[0].ID)

	// the stored flag of stale is out of date; the filter evaluates the day
	items, total, err := suite.repo.List(RequestFilter{OverdueOn: &today}, 10, 0)
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(items, 1)
	suite.Equal(late.ID, items[0].ID)

	affected, err := suite.repo.RefreshOverdue(today)
	suite.NoError(err)
	suite.Equal(int64(2), affected)

	retrieved, err := suite.repo.GetByID(late.ID)
	suite.NoError(err)
	suite.True(retrieved.IsOverdue)
	suite.Equal(5, retrieved.DaysOverdue)

	retrieved, err = suite.repo.GetByID(stale.ID)
	suite.NoError(err)
	suite.False(retrieved.IsOverdue)
	suite.Equal(0, retrieved.DaysOverdue)
}

func (suite *RequestRepositoryTestSuite) TestGetByEquipmentID() {
	first := suite.factories.Request.Create(suite.equipment)
	first.RequestDate = *date(2024, time.January, 5)
	second := suite.factories.Request.Create(suite.equipment)
	second.RequestDate = *date(2024, time.February, 5)
	suite.NoError(suite.repo.SaveBatch(&WriteBatch{Created: []*models.MaintenanceRequest{second, first}}))

	requests, err := suite.repo.GetByEquipmentID(suite.equipment.ID)
	suite.NoError(err)
	suite.Require().Len(requests, 2)
	suite.Equal(first.ID, requests[0].ID)

	byIDs, err := suite.repo.GetByIDs([]uuid.UUID{first.ID, uuid.New()})
	suite.NoError(err)
	suite.Len(byIDs, 1)
}

func TestRequestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RequestRepositoryTestSuite))
}
