package seed_test

import (
	"errors"
	"strings"
	"testing"

	"gearguard-backend/internal/database/models"
	"gearguard-backend/internal/mocks"
	"gearguard-backend/internal/seed"
	"gearguard-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

const seedYAML = `
users:
  - name: Tina Tech
    email: tina@example.com
    password: changeme123
categories:
  - name: Printers
    color: 4
teams:
  - name: IT Support
    members: [tina@example.com]
equipment:
  - name: Office printer
    serial_number: SN-9
    category: Printers
    team: IT Support
    technician: tina@example.com
    employee: Sam
    warranty_date: 2026-03-31
`

type loaderMocks struct {
	userRepo      *mocks.MockUserRepositoryInterface
	categoryRepo  *mocks.MockCategoryRepositoryInterface
	teamRepo      *mocks.MockTeamRepositoryInterface
	equipmentRepo *mocks.MockEquipmentRepositoryInterface
	userSvc       *mocks.MockUserServiceInterface
	categorySvc   *mocks.MockCategoryServiceInterface
	teamSvc       *mocks.MockTeamServiceInterface
	equipmentSvc  *mocks.MockEquipmentServiceInterface
}

func newLoader(t *testing.T) (*seed.Loader, *loaderMocks) {
	ctrl := gomock.NewController(t)
	m := &loaderMocks{
		userRepo:      mocks.NewMockUserRepositoryInterface(ctrl),
		categoryRepo:  mocks.NewMockCategoryRepositoryInterface(ctrl),
		teamRepo:      mocks.NewMockTeamRepositoryInterface(ctrl),
		equipmentRepo: mocks.NewMockEquipmentRepositoryInterface(ctrl),
		userSvc:       mocks.NewMockUserServiceInterface(ctrl),
		categorySvc:   mocks.NewMockCategoryServiceInterface(ctrl),
		teamSvc:       mocks.NewMockTeamServiceInterface(ctrl),
		equipmentSvc:  mocks.NewMockEquipmentServiceInterface(ctrl),
	}
	loader := seed.NewLoader(
		seed.Repositories{Users: m.userRepo, Categories: m.categoryRepo, Teams: m.teamRepo, Equipment: m.equipmentRepo},
		seed.Services{Users: m.userSvc, Categories: m.categorySvc, Teams: m.teamSvc, Equipment: m.equipmentSvc},
	)
	return loader, m
}

func TestParse(t *testing.T) {
	f, err := seed.Parse(strings.NewReader(seedYAML))
	require.NoError(t, err)

	require.Len(t, f.Users, 1)
	assert.Equal(t, "tina@example.com", f.Users[0].Email)
	require.Len(t, f.Teams, 1)
	assert.Equal(t, []string{"tina@example.com"}, f.Teams[0].Members)
	require.Len(t, f.Equipment, 1)
	assert.Equal(t, "2026-03-31", f.Equipment[0].WarrantyDate)
}

func TestParse_Empty(t *testing.T) {
	f, err := seed.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Users)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := seed.Parse(strings.NewReader("machines:\n  - name: x\n"))
	assert.Error(t, err)
}

func TestLoad_CreatesEverything(t *testing.T) {
	loader, m := newLoader(t)
	f, err := seed.Parse(strings.NewReader(seedYAML))
	require.NoError(t, err)

	userID, categoryID, teamID := uuid.New(), uuid.New(), uuid.New()

	m.userRepo.EXPECT().GetByEmail("tina@example.com").Return(nil, gorm.ErrRecordNotFound)
	m.userSvc.EXPECT().Create(&service.CreateUserRequest{Name: "Tina Tech", Email: "tina@example.com", Password: "changeme123"}).
		Return(&service.UserResponse{ID: userID}, nil)

	m.categoryRepo.EXPECT().GetByName("Printers").Return(nil, gorm.ErrRecordNotFound)
	m.categorySvc.EXPECT().Create(&service.CreateCategoryRequest{Name: "Printers", Color: 4}).
		Return(&service.CategoryResponse{ID: categoryID}, nil)

	m.teamRepo.EXPECT().GetByName("IT Support").Return(nil, gorm.ErrRecordNotFound)
	m.teamSvc.EXPECT().Create(&service.CreateTeamRequest{Name: "IT Support", MemberIDs: []uuid.UUID{userID}}).
		Return(&service.TeamResponse{ID: teamID}, nil)

	m.equipmentRepo.EXPECT().GetBySerialNumber("SN-9").Return(nil, gorm.ErrRecordNotFound)
	m.equipmentSvc.EXPECT().
		Create(nil, gomock.Any()).
		DoAndReturn(func(_ *uuid.UUID, req *service.CreateEquipmentRequest) (*service.EquipmentResponse, error) {
			assert.Equal(t, teamID, req.TeamID)
			require.NotNil(t, req.CategoryID)
			assert.Equal(t, categoryID, *req.CategoryID)
			require.NotNil(t, req.TechnicianID)
			assert.Equal(t, userID, *req.TechnicianID)
			assert.Equal(t, models.OwnerTypeEmployee, req.OwnerType)
			require.True(t, req.WarrantyDate.Set)
			assert.Equal(t, "2026-03-31", req.WarrantyDate.Value.Format("2006-01-02"))
			assert.False(t, req.PurchaseDate.Set)
			return &service.EquipmentResponse{}, nil
		})

	res, err := loader.Load(f)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Created)
	assert.Equal(t, 0, res.Skipped)
}

func TestLoad_SkipsExisting(t *testing.T) {
	loader, m := newLoader(t)
	f, err := seed.Parse(strings.NewReader(seedYAML))
	require.NoError(t, err)

	user := &models.User{Email: "tina@example.com"}
	user.ID = uuid.New()
	category := &models.EquipmentCategory{Name: "Printers"}
	category.ID = uuid.New()
	team := &models.MaintenanceTeam{Name: "IT Support"}
	team.ID = uuid.New()

	m.userRepo.EXPECT().GetByEmail("tina@example.com").Return(user, nil)
	m.categoryRepo.EXPECT().GetByName("Printers").Return(category, nil)
	m.teamRepo.EXPECT().GetByName("IT Support").Return(team, nil)
	m.equipmentRepo.EXPECT().GetBySerialNumber("SN-9").Return(&models.Equipment{}, nil)

	res, err := loader.Load(f)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 4, res.Skipped)
}

func TestLoad_UnknownTeamMember(t *testing.T) {
	loader, m := newLoader(t)
	f := &seed.File{Teams: []seed.Team{{Name: "Mechanics", Members: []string{"ghost@example.com"}}}}

	m.teamRepo.EXPECT().GetByName("Mechanics").Return(nil, gorm.ErrRecordNotFound)
	m.userRepo.EXPECT().GetByEmail("ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, err := loader.Load(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `team Mechanics: unknown user "ghost@example.com"`)
}

func TestLoad_BadDate(t *testing.T) {
	loader, m := newLoader(t)
	team := &models.MaintenanceTeam{Name: "Mechanics"}
	team.ID = uuid.New()
	f := &seed.File{Equipment: []seed.Equipment{{Name: "Lathe", Team: "Mechanics", PurchaseDate: "03/2024"}}}

	m.teamRepo.EXPECT().GetByName("Mechanics").Return(team, nil)

	_, err := loader.Load(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid purchase_date")
}

func TestLoad_LookupFailureStops(t *testing.T) {
	loader, m := newLoader(t)
	f := &seed.File{Users: []seed.User{{Email: "tina@example.com"}}, Categories: []seed.Category{{Name: "Printers"}}}

	m.userRepo.EXPECT().GetByEmail("tina@example.com").Return(nil, errors.New("connection refused"))

	res, err := loader.Load(f)
	require.Error(t, err)
	assert.Equal(t, 0, res.Created)
}
