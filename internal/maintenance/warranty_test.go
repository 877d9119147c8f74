package maintenance_test

import (
	"testing"
	"time"

	"gearguard-backend/internal/database/models"
	"gearguard-backend/internal/maintenance"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestEvaluateWarranty(t *testing.T) {
	today := date(2024, time.March, 1)

	tests := []struct {
		name      string
		warranty  *time.Time
		wantState models.WarrantyState
		wantAlert bool
		wantDays  int
	}{
		{"no warranty date", nil, models.WarrantyStateNone, false, 0},
		{"ends today counts as expired", datePtr(2024, time.March, 1), models.WarrantyStateExpired, true, 0},
		{"ended last month", datePtr(2024, time.February, 1), models.WarrantyStateExpired, true, -29},
		{"ends tomorrow", datePtr(2024, time.March, 2), models.WarrantyStateExpiring, true, 1},
		{"ends exactly at threshold", datePtr(2024, time.March, 31), models.WarrantyStateExpiring, true, 30},
		{"ends one day past threshold", datePtr(2024, time.April, 1), models.WarrantyStateValid, false, 31},
		{"ends next year", datePtr(2025, time.March, 1), models.WarrantyStateValid, false, 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := maintenance.EvaluateWarranty(tt.warranty, today, maintenance.DefaultWarrantyAlertDays)
			assert.Equal(t, tt.wantState, status.State)
			assert.Equal(t, tt.wantAlert, status.Alert)
			assert.Equal(t, tt.wantDays, status.DaysToEnd)
		})
	}
}

func TestEvaluateWarranty_CustomThreshold(t *testing.T) {
	today := date(2024, time.March, 1)
	status := maintenance.EvaluateWarranty(datePtr(2024, time.March, 20), today, 10)
	assert.Equal(t, models.WarrantyStateValid, status.State)
	assert.False(t, status.Alert)
}

func TestEvaluateWarranty_IgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2024, time.March, 1, 23, 59, 0, 0, time.UTC)
	warranty := time.Date(2024, time.March, 2, 0, 1, 0, 0, time.UTC)
	status := maintenance.EvaluateWarranty(&warranty, today, 30)
	assert.Equal(t, 1, status.DaysToEnd)
}

func TestApplyWarranty(t *testing.T) {
	today := date(2024, time.March, 1)
	eq := &models.Equipment{WarrantyDate: datePtr(2024, time.March, 10), WarrantyState: models.WarrantyStateValid}

	changed := maintenance.ApplyWarranty(eq, today, 30)
	assert.True(t, changed)
	assert.Equal(t, models.WarrantyStateExpiring, eq.WarrantyState)
	assert.True(t, eq.WarrantyAlert)
	assert.Equal(t, 9, eq.DaysToWarrantyEnd)

	assert.False(t, maintenance.ApplyWarranty(eq, today, 30))
}
