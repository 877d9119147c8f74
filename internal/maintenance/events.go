package maintenance

import (
	"fmt"

	"gearguard-backend/internal/database/models"

	"github.com/google/uuid"
)

// Event is a domain event raised by the request lifecycle
type Event interface {
	Name() string
}

// RequestScrapped is raised when a request moves to the scrap stage
type RequestScrapped struct {
	RequestID   uuid.UUID
	RequestName string
	EquipmentID uuid.UUID
	ActorID     *uuid.UUID
	// Repeated is set when the request was already in the scrap stage
	Repeated    bool
}

// Name returns the event name
func (RequestScrapped) Name() string {
	return "maintenance.request.scrapped"
}

// ScrapEquipment consumes a RequestScrapped event. Active equipment is
// deactivated and marked scrapped, and changed reports that. Equipment that is
// already scrapped is left untouched but still gets a message naming the
// request, unless the event repeats a scrap of the same request.
func ScrapEquipment(eq *models.Equipment, ev RequestScrapped) (msg *models.EquipmentMessage, changed bool) {
	scrapped := !eq.Active && eq.State == models.EquipmentStateScrapped
	if scrapped && ev.Repeated {
		return nil, false
	}

	if !scrapped {
		eq.Active = false
		eq.State = models.EquipmentStateScrapped
	}

	requestID := ev.RequestID
	return &models.EquipmentMessage{
		EquipmentID: eq.ID,
		RequestID:   &requestID,
		Kind:        models.MessageKindScrap,
		Body:        fmt.Sprintf("Equipment scrapped due to maintenance request: %s", ev.RequestName),
		AuthorID:    copyID(ev.ActorID),
	}, !scrapped
}

// MarkScrapped is the manual scrap action on a piece of equipment
func MarkScrapped(eq *models.Equipment, actor *uuid.UUID) *models.EquipmentMessage {
	if !eq.Active && eq.State == models.EquipmentStateScrapped {
		return nil
	}
	eq.Active = false
	eq.State = models.EquipmentStateScrapped
	return &models.EquipmentMessage{
		EquipmentID: eq.ID,
		Kind:        models.MessageKindScrap,
		Body:        "Equipment has been marked as scrapped.",
		AuthorID:    copyID(actor),
	}
}

// MarkOperational returns a piece of equipment to service
func MarkOperational(eq *models.Equipment, actor *uuid.UUID) *models.EquipmentMessage {
	if eq.Active && eq.State == models.EquipmentStateOperational {
		return nil
	}
	previous := eq.State
	eq.Active = true
	eq.State = models.EquipmentStateOperational
	return &models.EquipmentMessage{
		EquipmentID: eq.ID,
		Kind:        models.MessageKindStateChange,
		Body:        fmt.Sprintf("Equipment state changed from %s to operational.", previous),
		AuthorID:    copyID(actor),
	}
}
