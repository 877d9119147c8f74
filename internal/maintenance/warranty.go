package maintenance

import (
	"time"

	"gearguard-backend/internal/database/models"
)

// DefaultWarrantyAlertDays is the look-ahead window for expiring warranties
const DefaultWarrantyAlertDays = 30

// WarrantyStatus is the evaluated warranty position of a piece of equipment
type WarrantyStatus struct {
	Alert     bool                 `json:"warranty_alert"`
	State     models.WarrantyState `json:"warranty_state"`
	DaysToEnd int                  `json:"days_to_warranty_end"`
}

// EvaluateWarranty classifies a warranty end date relative to today.
// A warranty ending today counts as expired.
func EvaluateWarranty(warrantyDate *time.Time, today time.Time, alertDays int) WarrantyStatus {
	if warrantyDate == nil {
		return WarrantyStatus{State: models.WarrantyStateNone}
	}

	delta := DaysBetween(today, *warrantyDate)
	status := WarrantyStatus{
		Alert:     delta <= alertDays,
		DaysToEnd: delta,
	}
	switch {
	case delta <= 0:
		status.State = models.WarrantyStateExpired
	case delta <= alertDays:
		status.State = models.WarrantyStateExpiring
	default:
		status.State = models.WarrantyStateValid
	}
	return status
}

// ApplyWarranty stores the warranty evaluation on the equipment and reports whether it changed
func ApplyWarranty(eq *models.Equipment, today time.Time, alertDays int) bool {
	status := EvaluateWarranty(eq.WarrantyDate, today, alertDays)
	changed := eq.WarrantyAlert != status.Alert ||
		eq.WarrantyState != status.State ||
		eq.DaysToWarrantyEnd != status.DaysToEnd

	eq.WarrantyAlert = status.Alert
	eq.WarrantyState = status.State
	eq.DaysToWarrantyEnd = status.DaysToEnd
	return changed
}
