package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gearguard-backend/internal/database/models"
	"gearguard-backend/internal/logger"
	"gearguard-backend/internal/maintenance"
	"gearguard-backend/internal/metrics"
	"gearguard-backend/internal/notify"
	"gearguard-backend/internal/repository"

	"github.com/google/uuid"
)

// ReminderJobName labels the overdue reminder job in logs and metrics
const ReminderJobName = "overdue_reminder"

// ReminderService is the daily job that refreshes stored overdue and warranty
// fields and reminds technicians about their overdue requests
type ReminderService struct {
	requestRepo       repository.RequestRepositoryInterface
	equipmentRepo     repository.EquipmentRepositoryInterface
	templates         *notify.Registry
	notifier          notify.Notifier
	ledger            notify.Ledger
	clock             maintenance.Clock
	metrics           *metrics.Metrics
	warrantyAlertDays int
}

// Ensure ReminderService implements ReminderServiceInterface
var _ ReminderServiceInterface = (*ReminderService)(nil)

// NewReminderService creates a new reminder service
func NewReminderService(
	requestRepo repository.RequestRepositoryInterface,
	equipmentRepo repository.EquipmentRepositoryInterface,
	templates *notify.Registry,
	notifier notify.Notifier,
	ledger notify.Ledger,
	clock maintenance.Clock,
	m *metrics.Metrics,
	warrantyAlertDays int,
) *ReminderService {
	if warrantyAlertDays <= 0 {
		warrantyAlertDays = maintenance.DefaultWarrantyAlertDays
	}
	return &ReminderService{
		requestRepo:       requestRepo,
		equipmentRepo:     equipmentRepo,
		templates:         templates,
		notifier:          notifier,
		ledger:            ledger,
		clock:             clock,
		metrics:           m,
		warrantyAlertDays: warrantyAlertDays,
	}
}

// ReminderRunResult holds the counts of one reminder run
type ReminderRunResult struct {
	OverdueRefreshed  int64 `json:"overdue_refreshed"`
	WarrantyRefreshed int   `json:"warranty_refreshed"`
	OverdueRequests   int   `json:"overdue_requests"`
	Unassigned        int   `json:"unassigned"`
	AlreadyReminded   int   `json:"already_reminded"`
	Notified          int   `json:"notified"`
}

// Run executes one reminder pass. Runs are idempotent within a day: a request
// is reminded about at most once per day.
func (s *ReminderService) Run(ctx context.Context) (result *ReminderRunResult, err error) {
	defer func() { s.metrics.JobRun(ReminderJobName, err) }()

	today := s.clock.Today()
	log := logger.WithContext(ctx).WithField("job", ReminderJobName)
	result = &ReminderRunResult{}

	result.OverdueRefreshed, err = s.requestRepo.RefreshOverdue(today)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh overdue requests: %w", err)
	}

	result.WarrantyRefreshed, err = s.refreshWarranty(today)
	if err != nil {
		return nil, err
	}

	overdue, err := s.requestRepo.GetOverdue(today)
	if err != nil {
		return nil, fmt.Errorf("failed to get overdue requests: %w", err)
	}
	result.OverdueRequests = len(overdue)
	s.metrics.SetOverdueRequests(len(overdue))

	byTechnician := map[uuid.UUID][]models.MaintenanceRequest{}
	technicians := map[uuid.UUID]*models.User{}
	for _, r := range overdue {
		if r.TechnicianID == nil {
			result.Unassigned++
			log.WithField("request_id", r.ID).Debug("overdue request has no technician")
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sent, err := s.ledger.MarkSent(ctx, notify.ReminderKey(r.ID, today), notify.ReminderTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to check reminder ledger: %w", err)
		}
		if !sent {
			result.AlreadyReminded++
			continue
		}
		byTechnician[*r.TechnicianID] = append(byTechnician[*r.TechnicianID], r)
		if r.Technician != nil {
			technicians[*r.TechnicianID] = r.Technician
		}
	}

	ids := make([]uuid.UUID, 0, len(byTechnician))
	for id := range byTechnician {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		if err := s.remind(ctx, id, technicians[id], byTechnician[id]); err != nil {
			log.WithError(err).WithField("technician_id", id).Warn("failed to send overdue reminder")
			s.release(ctx, byTechnician[id], today)
			continue
		}
		result.Notified++
	}

	log.WithFields(map[string]interface{}{
		"overdue":       result.OverdueRequests,
		"notified":      result.Notified,
		"unassigned":    result.Unassigned,
		"already_sent":  result.AlreadyReminded,
		"warranty_sync": result.WarrantyRefreshed,
	}).Info("overdue reminder run finished")
	return result, nil
}

// release drops the ledger keys of requests whose reminder was not delivered
func (s *ReminderService) release(ctx context.Context, requests []models.MaintenanceRequest, today time.Time) {
	keys := make([]string, len(requests))
	for i, r := range requests {
		keys[i] = notify.ReminderKey(r.ID, today)
	}
	if err := s.ledger.Unmark(ctx, keys...); err != nil {
		logger.WithContext(ctx).WithError(err).Error("failed to release reminder ledger keys")
	}
}

func (s *ReminderService) refreshWarranty(today time.Time) (int, error) {
	equipment, err := s.equipmentRepo.GetWithWarranty()
	if err != nil {
		return 0, fmt.Errorf("failed to get equipment with warranty: %w", err)
	}

	changed := make([]models.Equipment, 0)
	for i := range equipment {
		if maintenance.ApplyWarranty(&equipment[i], today, s.warrantyAlertDays) {
			changed = append(changed, equipment[i])
		}
	}
	if len(changed) == 0 {
		return 0, nil
	}
	if err := s.equipmentRepo.SaveWarrantyStatus(changed); err != nil {
		return 0, fmt.Errorf("failed to save warranty status: %w", err)
	}
	return len(changed), nil
}

func (s *ReminderService) remind(ctx context.Context, technicianID uuid.UUID, technician *models.User, requests []models.MaintenanceRequest) error {
	data := notify.OverdueReminderData{Technician: technicianID.String()}
	if technician != nil {
		data.Technician = technician.Name
	}

	requestIDs := make([]uuid.UUID, len(requests))
	for i, r := range requests {
		requestIDs[i] = r.ID
		item := notify.OverdueItem{
			Name:         r.Name,
			ScheduleDate: formatDate(r.ScheduleDate),
			DaysOverdue:  r.DaysOverdue,
		}
		if r.Equipment != nil {
			item.Equipment = r.Equipment.DisplayName()
		}
		data.Requests = append(data.Requests, item)
	}

	msg, err := s.templates.Render(notify.TemplateOverdueReminder, data)
	if err != nil {
		return err
	}

	n := notify.Notification{
		Kind:        notify.KindOverdueReminder,
		RecipientID: &technicianID,
		RequestIDs:  requestIDs,
		Subject:     msg.Subject,
		Body:        msg.Body,
		SentAt:      time.Now().UTC(),
	}
	if technician != nil {
		n.RecipientEmail = technician.Email
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		return err
	}
	s.metrics.NotificationSent(string(notify.KindOverdueReminder))
	return nil
}
