package models

// Stage is the lifecycle stage of a maintenance request
type Stage string

const (
	StageNew        Stage = "new"
	StageInProgress Stage = "in_progress"
	StageRepaired   Stage = "repaired"
	StageScrap      Stage = "scrap"
)

// IsValid checks if the Stage is valid
func (s Stage) IsValid() bool {
	switch s {
	case StageNew, StageInProgress, StageRepaired, StageScrap:
		return true
	}
	return false
}

// IsClosed reports whether the request no longer needs work
func (s Stage) IsClosed() bool {
	return s == StageRepaired || s == StageScrap
}

// MaintenanceType distinguishes breakdown repairs from planned work
type MaintenanceType string

const (
	MaintenanceTypeCorrective MaintenanceType = "corrective"
	MaintenanceTypePreventive MaintenanceType = "preventive"
)

// IsValid checks if the MaintenanceType is valid
func (t MaintenanceType) IsValid() bool {
	switch t {
	case MaintenanceTypeCorrective, MaintenanceTypePreventive:
		return true
	}
	return false
}

// Priority ranks requests from 0 (low) to 3 (urgent)
type Priority int

const (
	PriorityLow    Priority = 0
	PriorityNormal Priority = 1
	PriorityHigh   Priority = 2
	PriorityUrgent Priority = 3
)

// IsValid checks if the Priority is valid
func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityUrgent
}

// KanbanState is the board status of a request within its stage
type KanbanState string

const (
	KanbanStateNormal  KanbanState = "normal"
	KanbanStateDone    KanbanState = "done"
	KanbanStateBlocked KanbanState = "blocked"
)

// IsValid checks if the KanbanState is valid
func (k KanbanState) IsValid() bool {
	switch k {
	case KanbanStateNormal, KanbanStateDone, KanbanStateBlocked:
		return true
	}
	return false
}

// EquipmentState is the operational state of a piece of equipment
type EquipmentState string

const (
	EquipmentStateOperational EquipmentState = "operational"
	EquipmentStateMaintenance EquipmentState = "maintenance"
	EquipmentStateScrapped    EquipmentState = "scrapped"
)

// IsValid checks if the EquipmentState is valid
func (s EquipmentState) IsValid() bool {
	switch s {
	case EquipmentStateOperational, EquipmentStateMaintenance, EquipmentStateScrapped:
		return true
	}
	return false
}

// OwnerType says whether equipment belongs to a department or an employee
type OwnerType string

const (
	OwnerTypeDepartment OwnerType = "department"
	OwnerTypeEmployee   OwnerType = "employee"
)

// IsValid checks if the OwnerType is valid
func (o OwnerType) IsValid() bool {
	switch o {
	case OwnerTypeDepartment, OwnerTypeEmployee:
		return true
	}
	return false
}

// WarrantyState classifies the remaining warranty coverage
type WarrantyState string

const (
	WarrantyStateNone     WarrantyState = "none"
	WarrantyStateValid    WarrantyState = "valid"
	WarrantyStateExpiring WarrantyState = "expiring"
	WarrantyStateExpired  WarrantyState = "expired"
)

// MessageKind classifies entries of the equipment audit trail
type MessageKind string

const (
	MessageKindScrap         MessageKind = "scrap"
	MessageKindWarrantyAlert MessageKind = "warranty_alert"
	MessageKindNote          MessageKind = "note"
	MessageKindStateChange   MessageKind = "state_change"
)
