package maintenance

import (
	"fmt"
	"time"

	"gearguard-backend/internal/database/models"
	apperrors "gearguard-backend/internal/errors"

	"github.com/google/uuid"
)

// Changes is a partial write on one or more maintenance requests
type Changes struct {
	Name            Field[string]                 `json:"name,omitzero" swaggertype:"string"`
	Description     Field[string]                 `json:"description,omitzero" swaggertype:"string"`
	Active          Field[bool]                   `json:"active,omitzero" swaggertype:"boolean"`
	Color           Field[int]                    `json:"color,omitzero" swaggertype:"integer"`
	EquipmentID     Field[*uuid.UUID]             `json:"equipment_id,omitzero" swaggertype:"string" format:"uuid"`
	CategoryID      Field[*uuid.UUID]             `json:"category_id,omitzero" swaggertype:"string" format:"uuid"`
	TeamID          Field[*uuid.UUID]             `json:"team_id,omitzero" swaggertype:"string" format:"uuid"`
	TechnicianID    Field[*uuid.UUID]             `json:"technician_id,omitzero" swaggertype:"string" format:"uuid"`
	MaintenanceType Field[models.MaintenanceType] `json:"maintenance_type,omitzero" swaggertype:"string" enums:"corrective,preventive"`
	Stage           Field[models.Stage]           `json:"stage,omitzero" swaggertype:"string" enums:"new,in_progress,repaired,scrap"`
	Priority        Field[models.Priority]        `json:"priority,omitzero" swaggertype:"integer"`
	KanbanState     Field[models.KanbanState]     `json:"kanban_state,omitzero" swaggertype:"string" enums:"normal,done,blocked"`
	RequestDate     Field[time.Time]              `json:"request_date,omitzero" swaggertype:"string" format:"date"`
	ScheduleDate    Field[*time.Time]             `json:"schedule_date,omitzero" swaggertype:"string" format:"date"`
	CloseDate       Field[*time.Time]             `json:"close_date,omitzero" swaggertype:"string" format:"date"`
	Duration        Field[float64]                `json:"duration,omitzero" swaggertype:"number"`
	CostParts       Field[float64]                `json:"cost_parts,omitzero" swaggertype:"number"`
	CostLaborRate   Field[float64]                `json:"cost_labor_rate,omitzero" swaggertype:"number"`
}

// Resolver looks up the records referenced by a request
type Resolver interface {
	Equipment(id uuid.UUID) (*models.Equipment, error)
	Team(id uuid.UUID) (*models.MaintenanceTeam, error)
}

// Outcome is the result of applying changes: the updated requests and the
// events that must be consumed in the same transaction
type Outcome struct {
	Requests []*models.MaintenanceRequest
	Events   []RequestScrapped
}

// Lifecycle applies writes to maintenance requests. Every stage change, whether
// from a dedicated action or a generic update, goes through it.
type Lifecycle struct {
	clock              Clock
	resolver           Resolver
	preventiveLeadDays int
}

// NewLifecycle creates a new Lifecycle
func NewLifecycle(clock Clock, resolver Resolver, preventiveLeadDays int) *Lifecycle {
	if preventiveLeadDays <= 0 {
		preventiveLeadDays = DefaultPreventiveLeadDays
	}
	return &Lifecycle{clock: clock, resolver: resolver, preventiveLeadDays: preventiveLeadDays}
}

// Create fills a new request from the changes and applies creation defaults
func (l *Lifecycle) Create(r *models.MaintenanceRequest, ch Changes, actor *uuid.UUID) (*Outcome, error) {
	today := l.clock.Today()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.RequestDate.IsZero() {
		r.RequestDate = today
	}
	if r.Stage == "" {
		r.Stage = models.StageNew
	}
	if r.MaintenanceType == "" {
		r.MaintenanceType = models.MaintenanceTypeCorrective
	}
	if r.KanbanState == "" {
		r.KanbanState = models.KanbanStateNormal
	}
	r.Active = true

	if !ch.EquipmentID.Set || ch.EquipmentID.Value == nil {
		return nil, apperrors.NewValidationError("equipment_id", "equipment is required")
	}

	out := &Outcome{}
	if err := l.apply(r, ch, actor, today, true, out); err != nil {
		return nil, err
	}
	out.Requests = append(out.Requests, r)
	return out, nil
}

// Write applies the same changes to every request. Stage side effects are
// evaluated per request.
func (l *Lifecycle) Write(requests []*models.MaintenanceRequest, ch Changes, actor *uuid.UUID) (*Outcome, error) {
	today := l.clock.Today()
	out := &Outcome{}
	for _, r := range requests {
		if err := l.apply(r, ch, actor, today, false, out); err != nil {
			return nil, fmt.Errorf("request %s: %w", r.ID, err)
		}
		out.Requests = append(out.Requests, r)
	}
	return out, nil
}

// Refresh recomputes the stored derived fields of a request without changing it otherwise
func (l *Lifecycle) Refresh(r *models.MaintenanceRequest) bool {
	labor, total := r.CostLabor, r.CostTotal
	ApplyCosts(r)
	changed := labor != r.CostLabor || total != r.CostTotal
	return ApplyOverdue(r, l.clock.Today()) || changed
}

func (l *Lifecycle) apply(r *models.MaintenanceRequest, ch Changes, actor *uuid.UUID, today time.Time, creating bool, out *Outcome) error {
	if ch.EquipmentID.Set {
		if ch.EquipmentID.Value == nil {
			return apperrors.NewValidationError("equipment_id", "equipment is required")
		}
		eq, err := l.resolver.Equipment(*ch.EquipmentID.Value)
		if err != nil {
			return err
		}
		ApplyEquipmentSelection(r, eq)
	}
	if ch.CategoryID.Set {
		r.CategoryID = copyID(ch.CategoryID.Value)
	}
	if ch.TeamID.Set {
		var team *models.MaintenanceTeam
		if ch.TeamID.Value != nil {
			t, err := l.resolver.Team(*ch.TeamID.Value)
			if err != nil {
				return err
			}
			team = t
		}
		ApplyTeamSelection(r, team)
	}
	if ch.TechnicianID.Set {
		if err := l.assignTechnician(r, ch.TechnicianID.Value); err != nil {
			return err
		}
	}

	if ch.Name.Set {
		r.Name = ch.Name.Value
	}
	if ch.Description.Set {
		r.Description = ch.Description.Value
	}
	if ch.Active.Set {
		r.Active = ch.Active.Value
	}
	if ch.Color.Set {
		r.Color = ch.Color.Value
	}
	if ch.MaintenanceType.Set {
		r.MaintenanceType = ch.MaintenanceType.Value
	}
	if ch.Priority.Set {
		r.Priority = ch.Priority.Value
	}
	if ch.KanbanState.Set {
		r.KanbanState = ch.KanbanState.Value
	}
	if ch.RequestDate.Set {
		r.RequestDate = Day(ch.RequestDate.Value)
	}
	if ch.ScheduleDate.Set {
		r.ScheduleDate = DayPtr(ch.ScheduleDate.Value)
	}
	if ch.CloseDate.Set {
		r.CloseDate = DayPtr(ch.CloseDate.Value)
	}
	if ch.Duration.Set {
		r.Duration = ch.Duration.Value
	}
	if ch.CostParts.Set {
		r.CostParts = ch.CostParts.Value
	}
	if ch.CostLaborRate.Set {
		r.CostLaborRate = ch.CostLaborRate.Value
	}

	if ch.Stage.Set {
		previous := r.Stage
		r.Stage = ch.Stage.Value
		switch r.Stage {
		case models.StageInProgress:
			if !ch.TechnicianID.Set && r.TechnicianID == nil && actor != nil {
				r.TechnicianID = copyID(actor)
			}
		case models.StageRepaired:
			if !ch.CloseDate.Set {
				d := today
				r.CloseDate = &d
			}
		case models.StageScrap:
			if r.EquipmentID != uuid.Nil {
				out.Events = append(out.Events, RequestScrapped{
					RequestID:   r.ID,
					RequestName: r.Name,
					EquipmentID: r.EquipmentID,
					ActorID:     copyID(actor),
					Repeated:    previous == models.StageScrap && !creating,
				})
			}
		}
	}

	if creating && r.MaintenanceType == models.MaintenanceTypePreventive && r.ScheduleDate == nil {
		d := AddDays(r.RequestDate, l.preventiveLeadDays)
		r.ScheduleDate = &d
	}

	if err := validateRequest(r); err != nil {
		return err
	}

	ApplyCosts(r)
	ApplyOverdue(r, today)
	return nil
}

func (l *Lifecycle) assignTechnician(r *models.MaintenanceRequest, technicianID *uuid.UUID) error {
	if technicianID == nil {
		r.TechnicianID = nil
		return nil
	}
	if r.TeamID != nil {
		team, err := l.resolver.Team(*r.TeamID)
		if err != nil {
			return err
		}
		if !team.HasMember(*technicianID) {
			return apperrors.ErrTechnicianNotInTeam
		}
	}
	r.TechnicianID = copyID(technicianID)
	return nil
}

func validateRequest(r *models.MaintenanceRequest) error {
	if r.Name == "" {
		return apperrors.NewValidationError("name", "name is required")
	}
	if r.RequestDate.IsZero() {
		return apperrors.NewValidationError("request_date", "request date is required")
	}
	if !r.Stage.IsValid() {
		return apperrors.NewValidationError("stage", fmt.Sprintf("unknown stage %q", r.Stage))
	}
	if !r.MaintenanceType.IsValid() {
		return apperrors.NewValidationError("maintenance_type", fmt.Sprintf("unknown maintenance type %q", r.MaintenanceType))
	}
	if !r.Priority.IsValid() {
		return apperrors.NewValidationError("priority", "priority must be between 0 and 3")
	}
	if !r.KanbanState.IsValid() {
		return apperrors.NewValidationError("kanban_state", fmt.Sprintf("unknown kanban state %q", r.KanbanState))
	}
	if r.Duration < 0 {
		return apperrors.NewValidationError("duration", "duration must not be negative")
	}
	if r.CostParts < 0 {
		return apperrors.NewValidationError("cost_parts", "parts cost must not be negative")
	}
	if r.CostLaborRate < 0 {
		return apperrors.NewValidationError("cost_labor_rate", "labor rate must not be negative")
	}
	if r.CloseDate != nil && r.ScheduleDate != nil && Day(*r.CloseDate).Before(Day(*r.ScheduleDate)) {
		return apperrors.ErrCloseBeforeSchedule
	}
	return nil
}
