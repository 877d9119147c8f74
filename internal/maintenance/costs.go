package maintenance

import (
	"time"

	"gearguard-backend/internal/database/models"
)

// DefaultLaborRate is the hourly labor rate applied when none is configured
const DefaultLaborRate = 50.0

// DefaultPreventiveLeadDays is how far ahead preventive work is scheduled when no date is given
const DefaultPreventiveLeadDays = 7

// ComputeCosts returns labor = duration * rate and total = parts + labor
func ComputeCosts(duration, parts, rate float64) (labor, total float64) {
	labor = duration * rate
	return labor, parts + labor
}

// ApplyCosts refreshes the stored cost figures of a request
func ApplyCosts(r *models.MaintenanceRequest) {
	r.CostLabor, r.CostTotal = ComputeCosts(r.Duration, r.CostParts, r.CostLaborRate)
}

// EvaluateOverdue reports whether work scheduled for scheduleDate is late on today.
// Closed requests are never overdue.
func EvaluateOverdue(scheduleDate *time.Time, stage models.Stage, today time.Time) (bool, int) {
	if scheduleDate == nil || stage.IsClosed() {
		return false, 0
	}
	days := DaysBetween(*scheduleDate, today)
	if days <= 0 {
		return false, 0
	}
	return true, days
}

// ApplyOverdue refreshes the stored overdue flags and reports whether they changed
func ApplyOverdue(r *models.MaintenanceRequest, today time.Time) bool {
	overdue, days := EvaluateOverdue(r.ScheduleDate, r.Stage, today)
	changed := r.IsOverdue != overdue || r.DaysOverdue != days
	r.IsOverdue = overdue
	r.DaysOverdue = days
	return changed
}
