package maintenance_test

import (
	"testing"
	"time"

	"gearguard-backend/internal/database/models"
	"gearguard-backend/internal/maintenance"

	"github.com/stretchr/testify/assert"
)

func TestComputeCosts(t *testing.T) {
	labor, total := maintenance.ComputeCosts(2.5, 120, 50)
	assert.Equal(t, 125.0, labor)
	assert.Equal(t, 245.0, total)

	labor, total = maintenance.ComputeCosts(0, 0, 50)
	assert.Zero(t, labor)
	assert.Zero(t, total)
}

func TestApplyCosts(t *testing.T) {
	r := &models.MaintenanceRequest{Duration: 3, CostParts: 10, CostLaborRate: 40}
	maintenance.ApplyCosts(r)
	assert.Equal(t, 120.0, r.CostLabor)
	assert.Equal(t, 130.0, r.CostTotal)
}

func TestEvaluateOverdue(t *testing.T) {
	today := date(2024, time.March, 10)

	t.Run("no schedule date", func(t *testing.T) {
		overdue, days := maintenance.EvaluateOverdue(nil, models.StageNew, today)
		assert.False(t, overdue)
		assert.Zero(t, days)
	})

	t.Run("scheduled in the past and open", func(t *testing.T) {
		overdue, days := maintenance.EvaluateOverdue(datePtr(2024, time.March, 5), models.StageInProgress, today)
		assert.True(t, overdue)
		assert.Equal(t, 5, days)
	})

	t.Run("scheduled today", func(t *testing.T) {
		overdue, days := maintenance.EvaluateOverdue(datePtr(2024, time.March, 10), models.StageNew, today)
		assert.False(t, overdue)
		assert.Zero(t, days)
	})

	t.Run("closed requests are never overdue", func(t *testing.T) {
		for _, stage := range []models.Stage{models.StageRepaired, models.StageScrap} {
			overdue, days := maintenance.EvaluateOverdue(datePtr(2024, time.January, 1), stage, today)
			assert.False(t, overdue, stage)
			assert.Zero(t, days, stage)
		}
	})
}

func TestApplyOverdue(t *testing.T) {
	today := date(2024, time.March, 10)
	r := &models.MaintenanceRequest{Stage: models.StageNew, ScheduleDate: datePtr(2024, time.March, 8)}

	assert.True(t, maintenance.ApplyOverdue(r, today))
	assert.True(t, r.IsOverdue)
	assert.Equal(t, 2, r.DaysOverdue)
	assert.False(t, maintenance.ApplyOverdue(r, today))

	r.Stage = models.StageRepaired
	assert.True(t, maintenance.ApplyOverdue(r, today))
	assert.False(t, r.IsOverdue)
	assert.Zero(t, r.DaysOverdue)
}
