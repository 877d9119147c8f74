//go:build integration
// +build integration

package repository

import (
	"testing"

	"gearguard-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// UserRepositoryTestSuite tests the UserRepository
type UserRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *UserRepository
	factories     *testutils.FactorySet
}

func (suite *UserRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewUserRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
}

func (suite *UserRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

func (suite *UserRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

func (suite *UserRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

func (suite *UserRepositoryTestSuite) TestGetByEmailIgnoresCase() {
	user := suite.factories.User.Create()
	user.Email = "Jane.Doe@Example.com"
	suite.NoError(suite.repo.Create(user))

	found, err := suite.repo.GetByEmail("jane.doe@example.com")
	suite.NoError(err)
	suite.Equal(user.ID, found.ID)
}

func (suite *UserRepositoryTestSuite) TestDuplicateEmail() {
	user := suite.factories.User.Create()
	suite.NoError(suite.repo.Create(user))

	other := suite.factories.User.Create()
	other.Email = user.Email
	err := suite.repo.Create(other)
	suite.Error(err)
	suite.True(IsUniqueViolation(err))
}

func (suite *UserRepositoryTestSuite) TestGetByIDsAndGetAll() {
	first := suite.factories.User.Create()
	first.Name = "Alice"
	second := suite.factories.User.Create()
	second.Name = "Bob"
	suite.NoError(suite.repo.Create(second))
	suite.NoError(suite.repo.Create(first))

	users, err := suite.repo.GetByIDs([]uuid.UUID{first.ID, second.ID, uuid.New()})
	suite.NoError(err)
	suite.Require().Len(users, 2)
	suite.Equal("Alice", users[0].Name)

	all, total, err := suite.repo.GetAll(1, 1)
	suite.NoError(err)
	suite.Equal(int64(2), total)
	suite.Require().Len(all, 1)
	suite.Equal("Bob", all[0].Name)
}

func TestUserRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}
