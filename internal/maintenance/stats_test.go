package maintenance_test

import (
	"testing"
	"time"

	"gearguard-backend/internal/database/models"
	"gearguard-backend/internal/maintenance"

	"github.com/stretchr/testify/assert"
)

func TestComputeEquipmentStats(t *testing.T) {
	requests := []models.MaintenanceRequest{
		{Stage: models.StageNew, MaintenanceType: models.MaintenanceTypeCorrective, Duration: 0, CostTotal: 0},
		{Stage: models.StageInProgress, MaintenanceType: models.MaintenanceTypePreventive, Duration: 1, CostTotal: 50},
		{Stage: models.StageRepaired, MaintenanceType: models.MaintenanceTypeCorrective, Duration: 2, CostTotal: 130, CloseDate: datePtr(2024, time.January, 10)},
		{Stage: models.StageRepaired, MaintenanceType: models.MaintenanceTypeCorrective, Duration: 4, CostTotal: 220, CloseDate: datePtr(2024, time.February, 9)},
		{Stage: models.StageScrap, MaintenanceType: models.MaintenanceTypeCorrective, Duration: 1, CostTotal: 10, CloseDate: datePtr(2024, time.March, 30)},
	}

	stats := maintenance.ComputeEquipmentStats(requests)

	assert.Equal(t, 5, stats.RequestCount)
	assert.Equal(t, 2, stats.OpenRequestCount)
	assert.Equal(t, 410.0, stats.TotalMaintenanceCost)
	assert.Equal(t, 8.0, stats.TotalDowntime)
	if assert.NotNil(t, stats.LastMaintenanceDate) {
		// scrapped requests do not count as maintenance
		assert.Equal(t, date(2024, time.February, 9), *stats.LastMaintenanceDate)
	}
	// closes on Jan 10, Feb 9, Mar 30: 80 days over 2 gaps
	assert.Equal(t, 40.0, stats.MTBF)
}

func TestComputeEquipmentStats_NoRequests(t *testing.T) {
	stats := maintenance.ComputeEquipmentStats(nil)
	assert.Zero(t, stats.RequestCount)
	assert.Nil(t, stats.LastMaintenanceDate)
	assert.Zero(t, stats.MTBF)
}

func TestMeanTimeBetweenFailures(t *testing.T) {
	t.Run("single failure", func(t *testing.T) {
		requests := []models.MaintenanceRequest{
			{MaintenanceType: models.MaintenanceTypeCorrective, CloseDate: datePtr(2024, time.January, 1)},
		}
		assert.Zero(t, maintenance.MeanTimeBetweenFailures(requests))
	})

	t.Run("unsorted input and preventive work ignored", func(t *testing.T) {
		requests := []models.MaintenanceRequest{
			{MaintenanceType: models.MaintenanceTypeCorrective, CloseDate: datePtr(2024, time.January, 21)},
			{MaintenanceType: models.MaintenanceTypePreventive, CloseDate: datePtr(2023, time.June, 1)},
			{MaintenanceType: models.MaintenanceTypeCorrective, CloseDate: datePtr(2024, time.January, 1)},
			{MaintenanceType: models.MaintenanceTypeCorrective},
		}
		assert.Equal(t, 20.0, maintenance.MeanTimeBetweenFailures(requests))
	})
}
