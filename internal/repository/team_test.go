//go:build integration
// +build integration

package repository

import (
	"testing"

	"gearguard-backend/internal/database/models"
	"gearguard-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// TeamRepositoryTestSuite tests the TeamRepository
type TeamRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *TeamRepository
	factories     *testutils.FactorySet
}

func (suite *TeamRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewTeamRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
}

func (suite *TeamRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

func (suite *TeamRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

func (suite *TeamRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

func (suite *TeamRepositoryTestSuite) createUser() models.User {
	user := suite.factories.User.Create()
	suite.NoError(suite.baseTestSuite.DB.Create(user).Error)
	return *user
}

func (suite *TeamRepositoryTestSuite) TestCreateWithMembers() {
	alice, bob := suite.createUser(), suite.createUser()
	team := suite.factories.Team.WithMembers("Mechanics", alice, bob)

	suite.NoError(suite.repo.Create(team))

	retrieved, err := suite.repo.GetByID(team.ID)
	suite.NoError(err)
	suite.Equal("Mechanics", retrieved.Name)
	suite.Len(retrieved.Members, 2)
	suite.True(retrieved.HasMember(alice.ID))
	suite.True(retrieved.HasMember(bob.ID))
}

func (suite *TeamRepositoryTestSuite) TestReplaceMembers() {
	alice, bob, carol := suite.createUser(), suite.createUser(), suite.createUser()
	team := suite.factories.Team.WithMembers("Electricians", alice, bob)
	suite.NoError(suite.repo.Create(team))

	suite.NoError(suite.repo.ReplaceMembers(team.ID, []models.User{carol}))

	retrieved, err := suite.repo.GetByID(team.ID)
	suite.NoError(err)
	suite.Len(retrieved.Members, 1)
	suite.True(retrieved.HasMember(carol.ID))
	suite.False(retrieved.HasMember(alice.ID))
}

func (suite *TeamRepositoryTestSuite) TestGetAllHidesArchived() {
	active := suite.factories.Team.WithMembers("Active Team")
	archived := suite.factories.Team.WithMembers("Archived Team")
	suite.NoError(suite.repo.Create(active))
	suite.NoError(suite.repo.Create(archived))
	suite.NoError(suite.repo.SetActive(archived.ID, false))

	teams, total, err := suite.repo.GetAll(false, 10, 0)
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal("Active Team", teams[0].Name)

	_, total, err = suite.repo.GetAll(true, 10, 0)
	suite.NoError(err)
	suite.Equal(int64(2), total)
}

func (suite *TeamRepositoryTestSuite) TestAggregates() {
	team := suite.factories.Team.Create()
	other := suite.factories.Team.Create()
	suite.NoError(suite.repo.Create(team))
	suite.NoError(suite.repo.Create(other))

	eq := suite.factories.Equipment.Create(team.ID)
	suite.NoError(suite.baseTestSuite.DB.Create(eq).Error)
	retired := suite.factories.Equipment.Create(team.ID)
	suite.NoError(suite.baseTestSuite.DB.Create(retired).Error)
	suite.NoError(suite.baseTestSuite.DB.Model(retired).Update("active", false).Error)

	for _, stage := range []models.Stage{models.StageNew, models.StageNew, models.StageInProgress, models.StageRepaired, models.StageScrap} {
		suite.NoError(suite.baseTestSuite.DB.Create(suite.factories.Request.WithStage(eq, stage)).Error)
	}

	counts, err := suite.repo.GetRequestCounts([]uuid.UUID{team.ID, other.ID})
	suite.NoError(err)
	suite.Equal(int64(3), counts[team.ID].Open)
	suite.Equal(int64(2), counts[team.ID].Todo)
	suite.Equal(TeamRequestCounts{}, counts[other.ID])

	equipment, err := suite.repo.CountActiveEquipment([]uuid.UUID{team.ID, other.ID})
	suite.NoError(err)
	suite.Equal(int64(1), equipment[team.ID])
	suite.Equal(int64(0), equipment[other.ID])
}

func TestTeamRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TeamRepositoryTestSuite))
}
