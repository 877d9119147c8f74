package maintenance

import (
	"sort"
	"time"

	"gearguard-backend/internal/database/models"
)

// EquipmentStats are the request-derived figures of one piece of equipment
type EquipmentStats struct {
	RequestCount         int        `json:"request_count"`
	OpenRequestCount     int        `json:"open_request_count"`
	TotalMaintenanceCost float64    `json:"total_maintenance_cost"`
	TotalDowntime        float64    `json:"total_downtime"`
	LastMaintenanceDate  *time.Time `json:"last_maintenance_date,omitempty"`
	MTBF                 float64    `json:"mtbf"`
}

// ComputeEquipmentStats aggregates the requests of a single piece of equipment
func ComputeEquipmentStats(requests []models.MaintenanceRequest) EquipmentStats {
	stats := EquipmentStats{RequestCount: len(requests)}
	for i := range requests {
		r := &requests[i]
		if !r.Stage.IsClosed() {
			stats.OpenRequestCount++
		}
		stats.TotalMaintenanceCost += r.CostTotal
		stats.TotalDowntime += r.Duration

		if r.Stage == models.StageRepaired && r.CloseDate != nil {
			if stats.LastMaintenanceDate == nil || r.CloseDate.After(*stats.LastMaintenanceDate) {
				d := Day(*r.CloseDate)
				stats.LastMaintenanceDate = &d
			}
		}
	}
	stats.MTBF = MeanTimeBetweenFailures(requests)
	return stats
}

// MeanTimeBetweenFailures is the average gap in days between closed corrective
// requests. Fewer than two failures yield 0.
func MeanTimeBetweenFailures(requests []models.MaintenanceRequest) float64 {
	var closes []time.Time
	for i := range requests {
		r := &requests[i]
		if r.MaintenanceType == models.MaintenanceTypeCorrective && r.CloseDate != nil {
			closes = append(closes, Day(*r.CloseDate))
		}
	}
	if len(closes) < 2 {
		return 0
	}

	sort.Slice(closes, func(i, j int) bool { return closes[i].Before(closes[j]) })
	span := DaysBetween(closes[0], closes[len(closes)-1])
	return float64(span) / float64(len(closes)-1)
}
