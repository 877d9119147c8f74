package service_test

import (
	"errors"
	"testing"

	"gearguard-backend/internal/database/models"
	apperrors "gearguard-backend/internal/errors"
	"gearguard-backend/internal/mocks"
	"gearguard-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type CategoryServiceTestSuite struct {
	suite.Suite
	ctrl             *gomock.Controller
	mockCategoryRepo *mocks.MockCategoryRepositoryInterface
	categoryService  *service.CategoryService
}

func (suite *CategoryServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockCategoryRepo = mocks.NewMockCategoryRepositoryInterface(suite.ctrl)
	suite.categoryService = service.NewCategoryService(suite.mockCategoryRepo, validator.New())
}

func (suite *CategoryServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *CategoryServiceTestSuite) TestCreate_Success() {
	suite.mockCategoryRepo.EXPECT().GetByName("Computers").Return(nil, gorm.ErrRecordNotFound)
	suite.mockCategoryRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(c *models.EquipmentCategory) error {
		c.ID = uuid.New()
		return nil
	})

	resp, err := suite.categoryService.Create(&service.CreateCategoryRequest{Name: "  Computers ", Color: 3})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Computers", resp.Name)
	assert.Equal(suite.T(), 3, resp.Color)
	assert.Equal(suite.T(), int64(0), resp.EquipmentCount)
}

func (suite *CategoryServiceTestSuite) TestCreate_DuplicateName() {
	suite.mockCategoryRepo.EXPECT().GetByName("Computers").
		Return(&models.EquipmentCategory{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Computers"}, nil)

	resp, err := suite.categoryService.Create(&service.CreateCategoryRequest{Name: "Computers"})

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrCategoryExists)
}

func (suite *CategoryServiceTestSuite) TestCreate_ValidationError() {
	resp, err := suite.categoryService.Create(&service.CreateCategoryRequest{Name: "Vehicles", Color: 12})

	assert.Nil(suite.T(), resp)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "validation failed")
}

func (suite *CategoryServiceTestSuite) TestGetAll_DefaultPaginationWithCounts() {
	first, second := uuid.New(), uuid.New()
	categories := []models.EquipmentCategory{
		{BaseModel: models.BaseModel{ID: first}, Name: "Computers"},
		{BaseModel: models.BaseModel{ID: second}, Name: "Vehicles"},
	}
	suite.mockCategoryRepo.EXPECT().GetAll(20, 0).Return(categories, int64(2), nil)
	suite.mockCategoryRepo.EXPECT().CountActiveEquipment([]uuid.UUID{first, second}).
		Return(map[uuid.UUID]int64{first: 4}, nil)

	resp, err := suite.categoryService.GetAll(0, 0)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, resp.Page)
	assert.Equal(suite.T(), 20, resp.PageSize)
	assert.Len(suite.T(), resp.Categories, 2)
	assert.Equal(suite.T(), int64(4), resp.Categories[0].EquipmentCount)
	assert.Equal(suite.T(), int64(0), resp.Categories[1].EquipmentCount)
}

func (suite *CategoryServiceTestSuite) TestGetAll_CustomPagination() {
	suite.mockCategoryRepo.EXPECT().GetAll(10, 10).Return([]models.EquipmentCategory{}, int64(11), nil)
	suite.mockCategoryRepo.EXPECT().CountActiveEquipment([]uuid.UUID{}).Return(map[uuid.UUID]int64{}, nil)

	resp, err := suite.categoryService.GetAll(2, 10)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, resp.Page)
	assert.Equal(suite.T(), 10, resp.PageSize)
	assert.Equal(suite.T(), int64(11), resp.Total)
}

func (suite *CategoryServiceTestSuite) TestGetAll_RepositoryError() {
	suite.mockCategoryRepo.EXPECT().GetAll(20, 0).Return(nil, int64(0), errors.New("db failed"))

	resp, err := suite.categoryService.GetAll(1, 500)

	assert.Nil(suite.T(), resp)
	assert.Contains(suite.T(), err.Error(), "failed to get categories")
}

func (suite *CategoryServiceTestSuite) TestGetByID_NotFound() {
	id := uuid.New()
	suite.mockCategoryRepo.EXPECT().GetByID(id).Return(nil, gorm.ErrRecordNotFound)

	resp, err := suite.categoryService.GetByID(id)

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrCategoryNotFound)
}

func (suite *CategoryServiceTestSuite) TestUpdate_RenameToTakenName() {
	id := uuid.New()
	suite.mockCategoryRepo.EXPECT().GetByID(id).
		Return(&models.EquipmentCategory{BaseModel: models.BaseModel{ID: id}, Name: "Computers"}, nil)
	suite.mockCategoryRepo.EXPECT().GetByName("Vehicles").
		Return(&models.EquipmentCategory{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Vehicles"}, nil)

	name := "Vehicles"
	resp, err := suite.categoryService.Update(id, &service.UpdateCategoryRequest{Name: &name})

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrCategoryExists)
}

func (suite *CategoryServiceTestSuite) TestUpdate_NoteOnly() {
	id := uuid.New()
	category := &models.EquipmentCategory{BaseModel: models.BaseModel{ID: id}, Name: "Computers"}
	suite.mockCategoryRepo.EXPECT().GetByID(id).Return(category, nil).Times(2)
	suite.mockCategoryRepo.EXPECT().Update(category).Return(nil)
	suite.mockCategoryRepo.EXPECT().CountActiveEquipment([]uuid.UUID{id}).Return(map[uuid.UUID]int64{id: 2}, nil)

	note := "laptops and desktops"
	resp, err := suite.categoryService.Update(id, &service.UpdateCategoryRequest{Note: &note})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), note, resp.Note)
	assert.Equal(suite.T(), int64(2), resp.EquipmentCount)
}

func (suite *CategoryServiceTestSuite) TestDelete_InUse() {
	id := uuid.New()
	suite.mockCategoryRepo.EXPECT().GetByID(id).Return(&models.EquipmentCategory{BaseModel: models.BaseModel{ID: id}}, nil)
	suite.mockCategoryRepo.EXPECT().IsReferenced(id).Return(true, nil)

	err := suite.categoryService.Delete(id)

	assert.ErrorIs(suite.T(), err, apperrors.ErrCategoryInUse)
	assert.True(suite.T(), apperrors.IsConflict(err))
}

func (suite *CategoryServiceTestSuite) TestDelete_Success() {
	id := uuid.New()
	suite.mockCategoryRepo.EXPECT().GetByID(id).Return(&models.EquipmentCategory{BaseModel: models.BaseModel{ID: id}}, nil)
	suite.mockCategoryRepo.EXPECT().IsReferenced(id).Return(false, nil)
	suite.mockCategoryRepo.EXPECT().Delete(id).Return(nil)

	assert.NoError(suite.T(), suite.categoryService.Delete(id))
}

func TestCategoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}
